package cpp

import (
	"fmt"
	"strings"
	"testing"

	"github.com/AALEKH/oil/internal/tast"
)

var (
	tInt = tast.Type{Kind: tast.TypeInt}
	tStr = tast.Type{Kind: tast.TypeStr}
)

func name(s string) *tast.Expr {
	return &tast.Expr{Kind: tast.ExprName, Str: s}
}

func lit(v string) *tast.Expr {
	return &tast.Expr{Kind: tast.ExprStrLit, Str: v, Type: tStr}
}

func testEnv(model MemoryModel) *BodyEnv {
	return &BodyEnv{
		LookupConst: func(value string) (string, error) {
			return "str_" + SanitizeIdent(value), nil
		},
		FmtName: func(e *tast.Expr) (string, bool) { return "", false },
		Model:   model,
	}
}

func emit(t *testing.T, fn *tast.Func, env *BodyEnv) string {
	t.Helper()
	g := NewGenerator()
	if env.Locals == nil {
		env.Locals = g.CollectLocals(fn)
	}
	var b strings.Builder
	if err := g.EmitBody(&b, fn, env); err != nil {
		t.Fatalf("EmitBody() error: %v", err)
	}
	return b.String()
}

func TestCollectLocals(t *testing.T) {
	fn := &tast.Func{
		Name:   "f",
		Params: []tast.Param{{Name: "n", Type: tInt}},
		Body: []tast.Stmt{
			{Kind: tast.StmtAssign, LHS: "s", Type: tStr, X: lit("a")},
			{Kind: tast.StmtIf, Cond: name("n"), Body: []tast.Stmt{
				{Kind: tast.StmtAssign, LHS: "i", Type: tInt, X: &tast.Expr{Kind: tast.ExprIntLit, Int: 1}},
				// rebinding keeps the first inferred type
				{Kind: tast.StmtAssign, LHS: "s", Type: tInt, X: lit("b")},
			}},
			// parameters never become locals
			{Kind: tast.StmtAssign, LHS: "n", Type: tInt, X: &tast.Expr{Kind: tast.ExprIntLit, Int: 2}},
		},
	}

	locals := NewGenerator().CollectLocals(fn)
	if len(locals) != 2 {
		t.Fatalf("CollectLocals() = %v, want 2 entries", locals)
	}
	if locals[0].Name != "s" || locals[0].CType != "Str*" {
		t.Fatalf("locals[0] = %+v, want {s Str*}", locals[0])
	}
	if locals[1].Name != "i" || locals[1].CType != "int" {
		t.Fatalf("locals[1] = %+v, want {i int}", locals[1])
	}
}

func TestCollectFormats(t *testing.T) {
	site1 := &tast.Expr{Kind: tast.ExprBinary, Str: "%", X: lit("%s!"), Y: name("a"), Type: tStr}
	site2 := &tast.Expr{Kind: tast.ExprBinary, Str: "%", X: lit("%d"), Y: name("b"), Type: tStr}
	notSite := &tast.Expr{Kind: tast.ExprBinary, Str: "%", X: &tast.Expr{Kind: tast.ExprIntLit, Int: 7, Type: tInt}, Y: name("c"), Type: tInt}
	fn := &tast.Func{
		Name: "f",
		Body: []tast.Stmt{
			{Kind: tast.StmtExpr, X: site1},
			{Kind: tast.StmtExpr, X: notSite},
			{Kind: tast.StmtExpr, X: site2},
		},
	}

	n := 0
	mint := func() string {
		n++
		return fmt.Sprintf("fmt%d", n-1)
	}
	sites := NewGenerator().CollectFormats(fn, mint)
	if len(sites) != 2 {
		t.Fatalf("CollectFormats() = %d sites, want 2", len(sites))
	}
	if sites[0].E != site1 || sites[0].Name != "fmt0" {
		t.Fatalf("sites[0] = %+v, want site1/fmt0", sites[0])
	}
	if sites[1].E != site2 || sites[1].Name != "fmt1" {
		t.Fatalf("sites[1] = %+v, want site2/fmt1", sites[1])
	}
}

func TestEmitBody_Statements(t *testing.T) {
	fn := &tast.Func{
		Name:   "f",
		Params: []tast.Param{{Name: "n", Type: tInt}},
		Body: []tast.Stmt{
			{Kind: tast.StmtAssign, LHS: "s", Type: tStr, X: lit("hi")},
			{Kind: tast.StmtWhile, Cond: &tast.Expr{Kind: tast.ExprBinary, Str: ">", X: name("n"), Y: &tast.Expr{Kind: tast.ExprIntLit, Int: 0}, Type: tast.Type{Kind: tast.TypeBool}}, Body: []tast.Stmt{
				{Kind: tast.StmtAssign, LHS: "n", Type: tInt, X: &tast.Expr{Kind: tast.ExprBinary, Str: "-", X: name("n"), Y: &tast.Expr{Kind: tast.ExprIntLit, Int: 1}, Type: tInt}},
			}},
			{Kind: tast.StmtIf, Cond: name("n"), Body: []tast.Stmt{
				{Kind: tast.StmtReturn, X: name("s")},
			}, Else: []tast.Stmt{
				{Kind: tast.StmtReturn, X: &tast.Expr{Kind: tast.ExprNone}},
			}},
		},
	}

	got := emit(t, fn, testEnv(ModelManual))
	want := `  Str* s;

  s = str_hi;
  while ((n > 0)) {
    n = (n - 1);
  }
  if (n) {
    return s;
  } else {
    return nullptr;
  }
`
	if got != want {
		t.Fatalf("EmitBody() =\n%s\nwant:\n%s", got, want)
	}
}

func TestEmitBody_GCLocals(t *testing.T) {
	fn := &tast.Func{
		Name: "f",
		Body: []tast.Stmt{
			{Kind: tast.StmtAssign, LHS: "s", Type: tStr, X: lit("x")},
		},
	}

	got := emit(t, fn, testEnv(ModelGC))
	if !strings.Contains(got, "Local<Str> s;") {
		t.Fatalf("GC body missing rooted local:\n%s", got)
	}
}

func TestEmitBody_SelfAndAttr(t *testing.T) {
	fn := &tast.Func{
		Name: "incr",
		Body: []tast.Stmt{
			{Kind: tast.StmtExpr, X: &tast.Expr{
				Kind: tast.ExprCall,
				X:    &tast.Expr{Kind: tast.ExprAttr, Str: "bump", X: name("self")},
			}},
		},
	}

	got := emit(t, fn, testEnv(ModelManual))
	if !strings.Contains(got, "this->bump();") {
		t.Fatalf("method body = %q, want this->bump();", got)
	}
}

func TestEmitBody_New(t *testing.T) {
	stmt := tast.Stmt{
		Kind: tast.StmtAssign, LHS: "c", Type: tast.Type{Kind: tast.TypeClass, Name: "runtime.Cell"},
		X: &tast.Expr{Kind: tast.ExprNew, Str: "runtime.Cell", Args: []*tast.Expr{{Kind: tast.ExprIntLit, Int: 5}}},
	}

	manual := emit(t, &tast.Func{Name: "f", Body: []tast.Stmt{stmt}}, testEnv(ModelManual))
	if !strings.Contains(manual, "c = new Cell(5);") {
		t.Fatalf("manual new = %q", manual)
	}

	gc := emit(t, &tast.Func{Name: "f", Body: []tast.Stmt{stmt}}, testEnv(ModelGC))
	if !strings.Contains(gc, "c = Alloc<Cell>(5);") {
		t.Fatalf("gc new = %q", gc)
	}
}

func TestEmitBody_StrConcatAndFormat(t *testing.T) {
	concat := &tast.Expr{Kind: tast.ExprBinary, Str: "+", X: lit("a"), Y: lit("b"), Type: tStr}
	format := &tast.Expr{Kind: tast.ExprBinary, Str: "%", X: lit("%s"), Y: name("x"), Type: tStr}
	fn := &tast.Func{Name: "f", Body: []tast.Stmt{
		{Kind: tast.StmtExpr, X: concat},
		{Kind: tast.StmtExpr, X: format},
	}}

	env := testEnv(ModelManual)
	env.FmtName = func(e *tast.Expr) (string, bool) {
		if e == format {
			return "fmt0", true
		}
		return "", false
	}
	got := emit(t, fn, env)
	if !strings.Contains(got, "str_concat(str_a, str_b);") {
		t.Fatalf("missing str_concat:\n%s", got)
	}
	if !strings.Contains(got, "fmt0(str__s, x);") {
		t.Fatalf("missing format helper call:\n%s", got)
	}
}

func TestEmitBody_FormatWithoutHelperFails(t *testing.T) {
	format := &tast.Expr{Kind: tast.ExprBinary, Str: "%", X: lit("%s"), Y: name("x"), Type: tStr}
	fn := &tast.Func{Name: "f", Body: []tast.Stmt{{Kind: tast.StmtExpr, X: format}}}

	env := testEnv(ModelManual)
	env.Locals = []Local{}
	var b strings.Builder
	if err := NewGenerator().EmitBody(&b, fn, env); err == nil {
		t.Fatal("EmitBody() with unminted format site: expected error, got nil")
	}
}

func TestPrototype(t *testing.T) {
	fn := &tast.Func{
		Name:   "word_eval",
		Params: []tast.Param{{Name: "w", Type: tStr}, {Name: "n", Type: tInt}},
		Ret:    tast.Type{Kind: tast.TypeBool},
	}
	want := "bool word_eval(Str* w, int n)"
	if got := Prototype(fn); got != want {
		t.Fatalf("Prototype() = %q, want %q", got, want)
	}
}
