package schedule

import (
	"reflect"
	"testing"

	"github.com/AALEKH/oil/internal/diag"
	"github.com/AALEKH/oil/internal/tast"
)

func graphOf(names ...string) *tast.Graph {
	g := &tast.Graph{}
	for _, name := range names {
		g.Modules = append(g.Modules, &tast.Module{Name: name})
	}
	return g
}

func TestOrder_PinnedFirstAndLast(t *testing.T) {
	g := graphOf("core.runtime", "osh.word", "osh.cmd", "core.main")
	cfg := Config{
		Suffixes: []string{"runtime", "word", "cmd", "main"},
		First:    []string{"core.runtime"},
		Last:     []string{"core.main"},
	}

	order, err := Order(g, cfg, nil)
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	got := Names(order)
	want := []string{"core.runtime", "osh.word", "osh.cmd", "core.main"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Order() = %v, want %v", got, want)
	}
}

func TestOrder_SuffixFilter(t *testing.T) {
	g := graphOf("osh.word", "osh.cmd", "osh.glob")
	cfg := Config{Suffixes: []string{"word", "glob"}}

	order, err := Order(g, cfg, nil)
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	got := Names(order)
	want := []string{"osh.word", "osh.glob"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Order() = %v, want %v", got, want)
	}
}

func TestOrder_StripPrefixDedup(t *testing.T) {
	// The checker reported the same module under both spellings; the first
	// occurrence wins and keeps its position.
	g := graphOf("osh.word", "oil.osh.word", "osh.cmd")
	cfg := Config{
		Suffixes:    []string{"word", "cmd"},
		StripPrefix: "oil.",
	}

	bag := diag.NewBag(16)
	order, err := Order(g, cfg, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	got := Names(order)
	want := []string{"osh.word", "osh.cmd"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Order() = %v, want %v", got, want)
	}

	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SchedDuplicateName {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a %s diagnostic for the duplicate, got %v", diag.SchedDuplicateName, bag.Items())
	}
}

func TestOrder_MissingPinnedSkipped(t *testing.T) {
	g := graphOf("osh.word")
	cfg := Config{
		Suffixes: []string{"word"},
		First:    []string{"core.runtime"},
		Last:     []string{"core.main"},
	}

	bag := diag.NewBag(16)
	order, err := Order(g, cfg, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	got := Names(order)
	want := []string{"osh.word"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Order() = %v, want %v", got, want)
	}

	missing := 0
	for _, d := range bag.Items() {
		if d.Code == diag.SchedMissingPinned {
			missing++
		}
	}
	if missing != 2 {
		t.Fatalf("missing-pinned diagnostics = %d, want 2", missing)
	}
}

func TestOrder_PinnedNotRepeatedByDiscovery(t *testing.T) {
	g := graphOf("core.runtime", "osh.word")
	cfg := Config{
		// runtime matches a requested suffix AND is pinned first; it must
		// appear exactly once, at the front.
		Suffixes: []string{"runtime", "word"},
		First:    []string{"core.runtime"},
	}

	order, err := Order(g, cfg, nil)
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	got := Names(order)
	want := []string{"core.runtime", "osh.word"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Order() = %v, want %v", got, want)
	}
}

func TestOrder_NoSuffixesIsError(t *testing.T) {
	g := graphOf("osh.word")
	if _, err := Order(g, Config{}, nil); err == nil {
		t.Fatal("Order() with no suffixes: expected error, got nil")
	}
}

func TestOrder_NothingMatchedWarns(t *testing.T) {
	g := graphOf("osh.word")
	bag := diag.NewBag(16)
	order, err := Order(g, Config{Suffixes: []string{"nonexistent"}}, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	if len(order) != 0 {
		t.Fatalf("Order() = %v, want empty", Names(order))
	}
	if !bag.HasWarnings() {
		t.Fatal("expected a nothing-matched warning")
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		in     string
		want   string
	}{
		{"no prefix configured", "", "oil.osh.word", "oil.osh.word"},
		{"prefix stripped", "oil.", "oil.osh.word", "osh.word"},
		{"prefix absent", "oil.", "osh.word", "osh.word"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{StripPrefix: tt.prefix}
			if got := cfg.Canonical(tt.in); got != tt.want {
				t.Fatalf("Canonical(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
