package cpp

import "github.com/AALEKH/oil/internal/tast"

// CType lowers a checked front-end type to its C++ spelling. Heap values are
// pointers; the memory model only changes how locals are declared and how
// instances are allocated, not the type spellings themselves.
func CType(t tast.Type) string {
	switch t.Kind {
	case tast.TypeNone:
		return "void"
	case tast.TypeBool:
		return "bool"
	case tast.TypeInt:
		return "int"
	case tast.TypeFloat:
		return "double"
	case tast.TypeStr:
		return "Str*"
	case tast.TypeList:
		elem := "void*"
		if len(t.Args) == 1 {
			elem = CType(t.Args[0])
		}
		return "List<" + elem + ">*"
	case tast.TypeDict:
		key, val := "void*", "void*"
		if len(t.Args) == 2 {
			key = CType(t.Args[0])
			val = CType(t.Args[1])
		}
		return "Dict<" + key + ", " + val + ">*"
	case tast.TypeClass:
		return SanitizeIdent(t.ClassName()) + "*"
	}
	return "void*"
}

// ReturnCType is CType except that a None return type is void.
func ReturnCType(t tast.Type) string {
	if t.IsNone() {
		return "void"
	}
	return CType(t)
}
