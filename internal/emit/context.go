// Package emit drives the three emission phases over the scheduled modules
// and owns the shared bookkeeping that spans them.
package emit

import (
	"fmt"

	"github.com/AALEKH/oil/internal/cpp"
	"github.com/AALEKH/oil/internal/tast"
)

// Context is the pipeline-lifetime emission state: the per-function
// local-variable tables and format-helper names populated by the declaration
// phase, and the counter that mints unique short symbol names. One Context
// is shared by reference across all phases and all modules; its lifetime is
// the whole emitter run, never a single module.
type Context struct {
	locals   map[*tast.Func][]cpp.Local
	fmtNames map[*tast.Expr]string
	counter  uint32
}

// NewContext returns an empty context for one pipeline run.
func NewContext() *Context {
	return &Context{
		locals:   make(map[*tast.Func][]cpp.Local),
		fmtNames: make(map[*tast.Expr]string),
	}
}

// SetLocals records the inferred local table for fn. Called once per
// function, by the declaration phase only.
func (c *Context) SetLocals(fn *tast.Func, locals []cpp.Local) {
	c.locals[fn] = locals
}

// Locals returns the local table computed during the declaration phase.
// ok is false when that phase never visited fn.
func (c *Context) Locals(fn *tast.Func) (locals []cpp.Local, ok bool) {
	locals, ok = c.locals[fn]
	return locals, ok
}

// NextFmtID mints the next unique format-helper name: fmt0, fmt1, ...
func (c *Context) NextFmtID() string {
	id := c.counter
	c.counter++
	return fmt.Sprintf("fmt%d", id)
}

// AddFormatSites records minted helper names keyed by expression node.
func (c *Context) AddFormatSites(sites []cpp.FormatSite) {
	for _, s := range sites {
		c.fmtNames[s.E] = s.Name
	}
}

// FmtName returns the helper name minted for a format site.
func (c *Context) FmtName(e *tast.Expr) (string, bool) {
	name, ok := c.fmtNames[e]
	return name, ok
}
