// Package schedule orders the typed module set into the single deterministic
// sequence every later pass traverses.
package schedule

import (
	"fmt"
	"strings"

	"github.com/AALEKH/oil/internal/diag"
	"github.com/AALEKH/oil/internal/tast"
)

// Config describes the ordering constraints for one run.
type Config struct {
	// Suffixes is the set of final name-path segments requested for
	// translation (derived from the source paths on the command line).
	Suffixes []string
	// First lists canonical module names that must precede everything
	// else, in this exact relative order.
	First []string
	// Last lists canonical module names that must follow everything else.
	Last []string
	// StripPrefix is a redundant namespace prefix removed before a module
	// name is used as the dedup key (the checker sometimes reports the
	// same module both as "pkg.mod" and "<root>.pkg.mod").
	StripPrefix string
}

// Canonical returns the dedup key for a discovered module name.
func (c Config) Canonical(name string) string {
	if c.StripPrefix != "" {
		name = strings.TrimPrefix(name, c.StripPrefix)
	}
	return name
}

// Entry pairs a scheduled module with its canonical name. Downstream passes
// key routing and namespaces off Name, never off the raw discovered name.
type Entry struct {
	Name string
	Mod  *tast.Module
}

// Order produces the schedule: pinned-first modules, then the discovery
// order restricted to the requested suffixes, then pinned-last modules.
// Duplicate canonical names keep the first occurrence; pinned names absent
// from the discovered set are reported and skipped, not errors.
func Order(graph *tast.Graph, cfg Config, reporter diag.Reporter) ([]Entry, error) {
	if len(cfg.Suffixes) == 0 {
		return nil, fmt.Errorf("scheduler: no modules requested for translation")
	}
	if reporter == nil {
		reporter = diag.NopReporter{}
	}

	suffixes := make(map[string]bool, len(cfg.Suffixes))
	for _, s := range cfg.Suffixes {
		suffixes[s] = true
	}
	pinned := make(map[string]bool, len(cfg.First)+len(cfg.Last))
	for _, name := range cfg.First {
		pinned[name] = true
	}
	for _, name := range cfg.Last {
		pinned[name] = true
	}

	var order []Entry
	seen := make(map[string]bool)
	emit := func(mod *tast.Module) {
		key := cfg.Canonical(mod.Name)
		if seen[key] {
			diag.ReportInfo(reporter, diag.SchedDuplicateName, mod.Name,
				fmt.Sprintf("duplicate module %q, keeping first occurrence of %q", mod.Name, key))
			return
		}
		seen[key] = true
		order = append(order, Entry{Name: key, Mod: mod})
	}

	// Pinned prologue, in its fixed relative order.
	for _, name := range cfg.First {
		mod, ok := findCanonical(graph, cfg, name)
		if !ok {
			diag.ReportInfo(reporter, diag.SchedMissingPinned, name, "pinned-first module not discovered, skipping")
			continue
		}
		emit(mod)
	}

	// Everything requested, in discovery order.
	for _, mod := range graph.Modules {
		key := cfg.Canonical(mod.Name)
		if pinned[key] {
			continue
		}
		if !suffixes[finalSegment(key)] {
			continue
		}
		emit(mod)
	}

	// Pinned epilogue.
	for _, name := range cfg.Last {
		mod, ok := findCanonical(graph, cfg, name)
		if !ok {
			diag.ReportInfo(reporter, diag.SchedMissingPinned, name, "pinned-last module not discovered, skipping")
			continue
		}
		emit(mod)
	}

	if len(order) == 0 {
		diag.ReportWarning(reporter, diag.SchedNothingMatched, "",
			"no discovered module matched the requested names")
	}
	return order, nil
}

// Names returns the canonical names of the scheduled modules, for
// inspection output.
func Names(order []Entry) []string {
	out := make([]string, len(order))
	for i, entry := range order {
		out[i] = entry.Name
	}
	return out
}

func findCanonical(graph *tast.Graph, cfg Config, name string) (*tast.Module, bool) {
	for _, mod := range graph.Modules {
		if cfg.Canonical(mod.Name) == name {
			return mod, true
		}
	}
	return nil, false
}

func finalSegment(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
