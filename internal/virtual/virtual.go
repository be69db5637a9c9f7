// Package virtual infers which methods need dynamic dispatch. Every class
// in every scheduled module is collected first; only then can the override
// closure be computed, because a base method's dispatch depends on
// subclasses that may appear later in the schedule.
package virtual

import (
	"errors"
	"fmt"

	"github.com/AALEKH/oil/internal/schedule"
	"github.com/AALEKH/oil/internal/tast"
)

// ErrUnresolvedBase is returned by Finalize when a collected class names a
// base class that no scheduled module declares.
var ErrUnresolvedBase = errors.New("unresolved base class")

// MethodRecord is one declared method with its resolved override flag.
type MethodRecord struct {
	Name     string
	Override bool
}

// ClassRecord is one collected class declaration.
type ClassRecord struct {
	Name    string
	Module  string
	Base    string
	Methods []MethodRecord

	declared map[string]int // method name -> index in Methods
}

func (c *ClassRecord) declares(method string) bool {
	_, ok := c.declared[method]
	return ok
}

// Resolver accumulates ClassRecords during the collect step. It offers no
// dispatch queries: those live on Set, which only Finalize can produce, so
// emission code cannot consult dispatch decisions before all modules have
// been seen.
type Resolver struct {
	classes   map[string]*ClassRecord
	order     []string // class names in collection order
	deferred  []string // classes whose base was unknown at collect time
	finalized bool
}

// NewResolver returns an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{classes: make(map[string]*ClassRecord)}
}

// CollectModule records every class declared in the module. Override flags
// are resolved against ancestors already collected; classes whose base is
// not yet known are deferred until Finalize.
func (r *Resolver) CollectModule(entry schedule.Entry) error {
	if r.finalized {
		return fmt.Errorf("virtual: collect after finalize")
	}
	for _, cls := range entry.Mod.Classes {
		name := className(cls.Name)
		if _, ok := r.classes[name]; ok {
			// Schedule dedup guarantees one declaration per class;
			// a repeat here means the front end misbehaved.
			return fmt.Errorf("virtual: class %q declared twice", name)
		}
		rec := &ClassRecord{
			Name:     name,
			Module:   entry.Name,
			Base:     className(cls.Base),
			declared: make(map[string]int, len(cls.Methods)),
		}
		for _, m := range cls.Methods {
			rec.declared[m.Name] = len(rec.Methods)
			rec.Methods = append(rec.Methods, MethodRecord{Name: m.Name})
		}
		r.classes[name] = rec
		r.order = append(r.order, name)

		if rec.Base == "" {
			continue
		}
		if _, known := r.classes[rec.Base]; known {
			r.resolveOverrides(rec)
		} else {
			r.deferred = append(r.deferred, name)
		}
	}
	return nil
}

// resolveOverrides flags every method of rec that an ancestor also declares.
func (r *Resolver) resolveOverrides(rec *ClassRecord) {
	for i := range rec.Methods {
		m := &rec.Methods[i]
		for anc := r.classes[rec.Base]; anc != nil; anc = r.classes[anc.Base] {
			if anc.declares(m.Name) {
				m.Override = true
				break
			}
		}
	}
}

// Finalize retries deferred override resolution, verifies every base class
// resolved, and computes the virtual closure. It must be called exactly
// once, after every module has been collected; the returned Set is
// immutable.
func (r *Resolver) Finalize() (*Set, error) {
	if r.finalized {
		return nil, fmt.Errorf("virtual: finalize called twice")
	}
	r.finalized = true

	// Post-condition of collect: every base resolves. Check the deferred
	// classes first so the error names the declaration that caused the
	// deferral, then the rest of the chains.
	for _, name := range r.deferred {
		rec := r.classes[name]
		if _, known := r.classes[rec.Base]; !known {
			return nil, fmt.Errorf("class %q in module %q: base %q: %w",
				rec.Name, rec.Module, rec.Base, ErrUnresolvedBase)
		}
	}
	for _, name := range r.order {
		rec := r.classes[name]
		if rec.Base != "" && r.classes[rec.Base] == nil {
			return nil, fmt.Errorf("class %q in module %q: base %q: %w",
				rec.Name, rec.Module, rec.Base, ErrUnresolvedBase)
		}
	}
	// Retry: collect-time resolution saw only a prefix of the records, so
	// ancestor chains crossing not-yet-collected modules were incomplete.
	// Re-resolving everything against the full table is idempotent.
	for _, name := range r.order {
		r.resolveOverrides(r.classes[name])
	}

	set := &Set{virtuals: make(map[classMethod]bool)}
	for _, name := range r.order {
		rec := r.classes[name]
		for _, m := range rec.Methods {
			if !m.Override {
				continue
			}
			// The override makes both ends of the chain virtual.
			set.virtuals[classMethod{rec.Name, m.Name}] = true
			for anc := r.classes[rec.Base]; anc != nil; anc = r.classes[anc.Base] {
				if anc.declares(m.Name) {
					set.virtuals[classMethod{anc.Name, m.Name}] = true
				}
			}
		}
	}
	return set, nil
}

type classMethod struct {
	Class  string
	Method string
}

// Set is the finalized virtual-dispatch set. Immutable.
type Set struct {
	virtuals map[classMethod]bool
}

// IsVirtual reports whether (class, method) requires dynamic dispatch.
func (s *Set) IsVirtual(class, method string) bool {
	return s.virtuals[classMethod{className(class), method}]
}

// Len returns the number of virtual (class, method) pairs.
func (s *Set) Len() int {
	return len(s.virtuals)
}

// className strips any module qualifier from a dotted class name.
func className(name string) string {
	return tast.Type{Kind: tast.TypeClass, Name: name}.ClassName()
}
