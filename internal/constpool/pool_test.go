package constpool

import (
	"fmt"
	"strings"
	"testing"

	"github.com/AALEKH/oil/internal/schedule"
	"github.com/AALEKH/oil/internal/tast"
)

func strLit(v string) *tast.Expr {
	return &tast.Expr{Kind: tast.ExprStrLit, Str: v, Type: tast.Type{Kind: tast.TypeStr}}
}

func moduleWithStrings(name string, values ...string) schedule.Entry {
	fn := &tast.Func{Name: "f"}
	for _, v := range values {
		fn.Body = append(fn.Body, tast.Stmt{Kind: tast.StmtExpr, X: strLit(v)})
	}
	return schedule.Entry{Name: name, Mod: &tast.Module{Name: name, Funcs: []*tast.Func{fn}}}
}

func TestBuild_DedupAcrossModules(t *testing.T) {
	// "x" appears in both modules; one definition, first-seen id.
	order := []schedule.Entry{
		moduleWithStrings("m1", "x", "y"),
		moduleWithStrings("m2", "x", "z"),
	}

	pool, err := Build(order)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if pool.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", pool.Len())
	}

	wantIDs := map[string]string{"x": "str0", "y": "str1", "z": "str2"}
	for value, want := range wantIDs {
		got, ok := pool.Lookup(value)
		if !ok {
			t.Fatalf("Lookup(%q): not found", value)
		}
		if got != want {
			t.Fatalf("Lookup(%q) = %q, want %q", value, got, want)
		}
	}
}

func TestBuild_LinesInAssignmentOrder(t *testing.T) {
	order := []schedule.Entry{moduleWithStrings("m", "b", "a", "b")}

	pool, err := Build(order)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	want := []string{
		`GLOBAL_STR(str0, "b");`,
		`GLOBAL_STR(str1, "a");`,
	}
	got := pool.Lines()
	if len(got) != len(want) {
		t.Fatalf("Lines() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Lines()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuild_MethodLiteralsBeforeFreeFuncs(t *testing.T) {
	method := &tast.Func{
		Name: "m",
		Body: []tast.Stmt{{Kind: tast.StmtExpr, X: strLit("from-method")}},
	}
	free := &tast.Func{
		Name: "f",
		Body: []tast.Stmt{{Kind: tast.StmtExpr, X: strLit("from-func")}},
	}
	order := []schedule.Entry{{
		Name: "m1",
		Mod: &tast.Module{
			Name:    "m1",
			Classes: []*tast.Class{{Name: "C", Methods: []*tast.Func{method}}},
			Funcs:   []*tast.Func{free},
		},
	}}

	pool, err := Build(order)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if id, _ := pool.Lookup("from-method"); id != "str0" {
		t.Fatalf("method literal id = %q, want str0", id)
	}
	if id, _ := pool.Lookup("from-func"); id != "str1" {
		t.Fatalf("free-func literal id = %q, want str1", id)
	}
}

func TestBuild_DeterministicForSameOrder(t *testing.T) {
	order := []schedule.Entry{
		moduleWithStrings("m1", "alpha", "beta"),
		moduleWithStrings("m2", "gamma", "alpha"),
	}

	first, err := Build(order)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	second, err := Build(order)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if strings.Join(first.Lines(), "\n") != strings.Join(second.Lines(), "\n") {
		t.Fatalf("two builds over the same order differ:\n%v\n%v", first.Lines(), second.Lines())
	}
}

func TestBuild_ManyValues(t *testing.T) {
	var values []string
	for i := 0; i < 100; i++ {
		values = append(values, fmt.Sprintf("value-%03d", i))
	}
	order := []schedule.Entry{moduleWithStrings("big", values...)}

	pool, err := Build(order)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if pool.Len() != 100 {
		t.Fatalf("Len() = %d, want 100", pool.Len())
	}
	if id, _ := pool.Lookup("value-099"); id != "str99" {
		t.Fatalf("last id = %q, want str99", id)
	}
}
