package tast

import (
	"reflect"
	"testing"
)

func lit(v string) *Expr {
	return &Expr{Kind: ExprStrLit, Str: v, Type: Type{Kind: TypeStr}}
}

func TestWalkStrings_Order(t *testing.T) {
	// Outer before inner, statements in sequence, condition before body.
	fn := &Func{
		Name: "f",
		Body: []Stmt{
			{Kind: StmtExpr, X: &Expr{
				Kind: ExprBinary, Str: "+",
				X: lit("first"),
				Y: &Expr{Kind: ExprCall, X: lit("second"), Args: []*Expr{lit("third")}},
			}},
			{Kind: StmtIf, Cond: lit("fourth"), Body: []Stmt{
				{Kind: StmtReturn, X: lit("fifth")},
			}, Else: []Stmt{
				{Kind: StmtReturn, X: lit("sixth")},
			}},
		},
	}

	var got []string
	WalkStrings(fn, func(e *Expr) { got = append(got, e.Str) })
	want := []string{"first", "second", "third", "fourth", "fifth", "sixth"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("WalkStrings order = %v, want %v", got, want)
	}
}

func TestModuleFuncs_MethodsFirst(t *testing.T) {
	m := &Module{
		Name: "m",
		Classes: []*Class{
			{Name: "A", Methods: []*Func{{Name: "a1"}, {Name: "a2"}}},
			{Name: "B", Methods: []*Func{{Name: "b1"}}},
		},
		Funcs: []*Func{{Name: "free"}},
	}

	var got []string
	for _, fn := range ModuleFuncs(m) {
		got = append(got, fn.Name)
	}
	want := []string{"a1", "a2", "b1", "free"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ModuleFuncs() = %v, want %v", got, want)
	}
}

func TestTypeClassName(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{Type{Kind: TypeClass, Name: "runtime.Cell"}, "Cell"},
		{Type{Kind: TypeClass, Name: "Cell"}, "Cell"},
		{Type{Kind: TypeStr}, ""},
	}
	for _, tt := range tests {
		if got := tt.typ.ClassName(); got != tt.want {
			t.Fatalf("ClassName(%v) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}
