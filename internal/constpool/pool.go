// Package constpool deduplicates literal constants across the whole module
// set and assigns each distinct value a stable, globally unique identifier.
package constpool

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/AALEKH/oil/internal/cpp"
	"github.com/AALEKH/oil/internal/schedule"
	"github.com/AALEKH/oil/internal/tast"
)

// IDPrefix is the identifier prefix for pooled string constants: str0, str1...
const IDPrefix = "str"

// Pool maps literal values to emission identifiers. Built in one forward
// pass over the schedule; read-only afterwards.
type Pool struct {
	ids   map[string]string
	lines []string
}

// Build runs the global constant pass over the scheduled modules.
// Identifiers are assigned in first-discovery order, so the result is a pure
// function of the schedule.
func Build(order []schedule.Entry) (*Pool, error) {
	p := &Pool{ids: make(map[string]string)}
	for _, entry := range order {
		for _, fn := range tast.ModuleFuncs(entry.Mod) {
			var internErr error
			tast.WalkStrings(fn, func(e *tast.Expr) {
				if err := p.intern(e.Str); err != nil && internErr == nil {
					internErr = err
				}
			})
			if internErr != nil {
				return nil, fmt.Errorf("module %s: %w", entry.Name, internErr)
			}
		}
	}
	return p, nil
}

func (p *Pool) intern(value string) error {
	if _, ok := p.ids[value]; ok {
		return nil
	}
	slot, err := safecast.Conv[uint32](len(p.lines))
	if err != nil {
		return fmt.Errorf("constant pool exhausted: %w", err)
	}
	id := fmt.Sprintf("%s%d", IDPrefix, slot)
	p.ids[value] = id
	p.lines = append(p.lines, fmt.Sprintf("GLOBAL_STR(%s, %s);", id, cpp.QuoteString(value)))
	return nil
}

// Lookup resolves a literal value to its identifier. The second result is
// false when the value was never seen by the forward pass; emission phases
// treat that as a fatal programming error.
func (p *Pool) Lookup(value string) (string, bool) {
	id, ok := p.ids[value]
	return id, ok
}

// Lines returns the deduplicated definition block, one line per distinct
// value, in assignment order. The emitter writes these verbatim.
func (p *Pool) Lines() []string {
	return p.lines
}

// Len returns the number of distinct pooled values.
func (p *Pool) Len() int {
	return len(p.lines)
}
