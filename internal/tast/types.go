package tast

import "strings"

// TypeKind discriminates the low-level-representable types the front end is
// allowed to assign.
type TypeKind uint8

const (
	// TypeNone is the null/void type.
	TypeNone TypeKind = iota
	// TypeBool is a boolean.
	TypeBool
	// TypeInt is a signed integer.
	TypeInt
	// TypeFloat is a double-precision float.
	TypeFloat
	// TypeStr is a heap string.
	TypeStr
	// TypeList is a homogeneous list, element type in Args[0].
	TypeList
	// TypeDict is a map, key type in Args[0], value type in Args[1].
	TypeDict
	// TypeClass is a user class reference, dotted name in Name.
	TypeClass
)

// Type is a checked type as supplied by the front end's type table.
type Type struct {
	Kind TypeKind
	Name string
	Args []Type
}

// IsNone reports whether the type is the null/void type.
func (t Type) IsNone() bool { return t.Kind == TypeNone }

// ClassName returns the unqualified class name for TypeClass, else "".
func (t Type) ClassName() string {
	if t.Kind != TypeClass {
		return ""
	}
	if i := strings.LastIndexByte(t.Name, '.'); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

func (t Type) String() string {
	switch t.Kind {
	case TypeNone:
		return "None"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeStr:
		return "str"
	case TypeList:
		if len(t.Args) == 1 {
			return "List[" + t.Args[0].String() + "]"
		}
		return "List"
	case TypeDict:
		if len(t.Args) == 2 {
			return "Dict[" + t.Args[0].String() + ", " + t.Args[1].String() + "]"
		}
		return "Dict"
	case TypeClass:
		return t.Name
	}
	return "unknown"
}
