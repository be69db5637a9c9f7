package emit

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AALEKH/oil/internal/constpool"
	"github.com/AALEKH/oil/internal/cpp"
	"github.com/AALEKH/oil/internal/schedule"
	"github.com/AALEKH/oil/internal/tast"
	"github.com/AALEKH/oil/internal/virtual"
)

// ErrUnpooledLiteral means an emission phase hit a literal the constant pass
// never saw. The two passes visit identical literal sites, so this is a
// programming error, fatal to the run.
var ErrUnpooledLiteral = errors.New("literal missing from constant pool")

// ErrMissingLocals means the definition phase was asked for a function the
// declaration phase never visited. Also a programming error.
var ErrMissingLocals = errors.New("local-variable table missing for function")

// Options configures one emitter run.
type Options struct {
	// Primary receives the translation unit. Required.
	Primary io.Writer
	// Header receives declarations of secondary-routed modules. Required
	// iff Routing has secondary entries.
	Header io.Writer
	// HeaderName is the header's file name, used for its include guard
	// and for the include line written into the primary stream.
	HeaderName string
	Routing    Routing
	Pool       *constpool.Pool
	Virtuals   *virtual.Set
	Context    *Context
	Model      cpp.MemoryModel
	// Gen lowers statement/expression sequences; defaults to the built-in
	// generator.
	Gen cpp.BodyGen
}

// Emitter drives the three traversal phases over a fixed schedule. All
// shared state is injected: the emitter owns nothing but the writers.
type Emitter struct {
	primary    io.Writer
	header     io.Writer
	headerName string
	routing    Routing
	pool       *constpool.Pool
	virtuals   *virtual.Set
	ctx        *Context
	model      cpp.MemoryModel
	gen        cpp.BodyGen
}

// New validates the wiring and returns an emitter. A finalized virtual set
// and a built constant pool are required up front: phases cannot start
// before the gather passes completed.
func New(opts Options) (*Emitter, error) {
	if opts.Primary == nil {
		return nil, fmt.Errorf("emit: missing primary output stream")
	}
	if opts.Pool == nil {
		return nil, fmt.Errorf("emit: missing constant pool")
	}
	if opts.Virtuals == nil {
		return nil, fmt.Errorf("emit: missing finalized virtual set")
	}
	if opts.Context == nil {
		return nil, fmt.Errorf("emit: missing emission context")
	}
	if opts.Routing.HasSecondary() && opts.Header == nil {
		return nil, fmt.Errorf("emit: modules routed to a header but no header stream configured")
	}
	gen := opts.Gen
	if gen == nil {
		gen = cpp.NewGenerator()
	}
	return &Emitter{
		primary:    opts.Primary,
		header:     opts.Header,
		headerName: opts.HeaderName,
		routing:    opts.Routing,
		pool:       opts.Pool,
		virtuals:   opts.Virtuals,
		ctx:        opts.Context,
		model:      opts.Model,
		gen:        gen,
	}, nil
}

// WritePreamble writes the fixed primary-stream prologue: the runtime
// include implied by the memory model, the allocation using-lines, the
// header include when a secondary target exists, and the deduplicated
// constant-definition block.
func (e *Emitter) WritePreamble() error {
	var b strings.Builder
	b.WriteString("// BEGIN mycpp output\n\n")
	fmt.Fprintf(&b, "#include %q\n\n", e.model.RuntimeHeader())
	b.WriteString("using gc_heap::Alloc;\n")
	b.WriteString("using gc_heap::kZeroMask;\n")
	b.WriteString("using gc_heap::Local;\n")
	if e.model == cpp.ModelGC {
		b.WriteString("\n#include \"my_runtime.h\"\n\nusing gc_heap::NewStr;\n")
	}
	if e.header != nil {
		fmt.Fprintf(&b, "\n#include %q\n", e.headerName)
	}
	b.WriteByte('\n')
	for _, line := range e.pool.Lines() {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	_, err := io.WriteString(e.primary, b.String())
	return err
}

// WriteHeaderPreamble opens the secondary stream: banner, include guard,
// and the same runtime include the primary uses. No-op without a header.
func (e *Emitter) WriteHeaderPreamble() error {
	if e.header == nil {
		return nil
	}
	guard := cpp.GuardMacro(e.headerName)
	var b strings.Builder
	fmt.Fprintf(&b, "// %s: translated from Python by mycpp\n\n", e.headerName)
	fmt.Fprintf(&b, "#ifndef %s\n#define %s\n\n", guard, guard)
	fmt.Fprintf(&b, "#include %q\n\n", e.model.RuntimeHeader())
	_, err := io.WriteString(e.header, b.String())
	return err
}

// CloseHeader writes the closing include guard. Called after the
// declaration phase and before any definition output: the secondary stream
// is complete at that point and never receives bodies.
func (e *Emitter) CloseHeader() error {
	if e.header == nil {
		return nil
	}
	_, err := fmt.Fprintf(e.header, "#endif  // %s\n", cpp.GuardMacro(e.headerName))
	return err
}

// ForwardDecls runs the first traversal: name-only declarations so mutually
// referencing modules resolve when the output is read top-down.
func (e *Emitter) ForwardDecls(order []schedule.Entry) error {
	for _, entry := range order {
		var b strings.Builder
		ns := cpp.Namespace(entry.Name)
		fmt.Fprintf(&b, "namespace %s {  // forward declare\n", ns)
		for _, cls := range entry.Mod.Classes {
			fmt.Fprintf(&b, "class %s;\n", cpp.SanitizeIdent(cls.Name))
		}
		for _, fn := range entry.Mod.Funcs {
			fmt.Fprintf(&b, "%s;\n", cpp.Prototype(fn))
		}
		fmt.Fprintf(&b, "}  // forward declare namespace %s\n\n", ns)
		if err := e.write(entry, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// Decls runs the second traversal: full member declarations without bodies.
// As a side effect it populates the shared context's local-variable tables
// and format-helper names; the definition phase reuses them instead of
// recomputing.
func (e *Emitter) Decls(order []schedule.Entry) error {
	for _, entry := range order {
		var b strings.Builder
		ns := cpp.Namespace(entry.Name)
		fmt.Fprintf(&b, "namespace %s {  // declare\n\n", ns)
		for _, cls := range entry.Mod.Classes {
			e.classDecl(&b, cls)
		}
		for _, fn := range entry.Mod.Funcs {
			fmt.Fprintf(&b, "%s;\n", cpp.Prototype(fn))
		}
		if len(entry.Mod.Funcs) > 0 {
			b.WriteByte('\n')
		}

		var helpers []string
		for _, fn := range tast.ModuleFuncs(entry.Mod) {
			e.ctx.SetLocals(fn, e.gen.CollectLocals(fn))
			sites := e.gen.CollectFormats(fn, e.ctx.NextFmtID)
			e.ctx.AddFormatSites(sites)
			for _, site := range sites {
				helpers = append(helpers, e.gen.FormatHelper(site.Name, site.E))
			}
		}
		for _, h := range helpers {
			b.WriteString(h)
			b.WriteByte('\n')
		}
		if len(helpers) > 0 {
			b.WriteByte('\n')
		}

		fmt.Fprintf(&b, "}  // declare namespace %s\n\n", ns)
		if err := e.write(entry, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) classDecl(b *strings.Builder, cls *tast.Class) {
	name := cpp.SanitizeIdent(cls.Name)
	if cls.Base != "" {
		base := tast.Type{Kind: tast.TypeClass, Name: cls.Base}.ClassName()
		fmt.Fprintf(b, "class %s : public %s {\n", name, cpp.SanitizeIdent(base))
	} else {
		fmt.Fprintf(b, "class %s {\n", name)
	}
	b.WriteString(" public:\n")
	for _, m := range cls.Methods {
		if m.Name == "__init__" {
			fmt.Fprintf(b, "  %s(%s);\n", name, cpp.ParamList(m))
			continue
		}
		qual := ""
		if e.virtuals.IsVirtual(cls.Name, m.Name) {
			qual = "virtual "
		}
		fmt.Fprintf(b, "  %s%s;\n", qual, cpp.Prototype(m))
	}
	if len(cls.Fields) > 0 {
		b.WriteByte('\n')
		for _, f := range cls.Fields {
			fmt.Fprintf(b, "  %s %s;\n", cpp.CType(f.Type), cpp.SanitizeIdent(f.Name))
		}
	}
	b.WriteString("};\n\n")
}

// Definitions runs the final traversal: full lowered bodies, consulting the
// context for local types and the pool for literal identifiers. Bodies
// always go to the primary stream, whatever the module's routing. A module
// whose body fails to lower contributes no output at all.
func (e *Emitter) Definitions(order []schedule.Entry) error {
	for _, entry := range order {
		var b strings.Builder
		ns := cpp.Namespace(entry.Name)
		fmt.Fprintf(&b, "namespace %s {  // define\n\n", ns)
		for _, cls := range entry.Mod.Classes {
			for _, m := range cls.Methods {
				if err := e.definition(&b, cls, m); err != nil {
					return fmt.Errorf("module %s: %s.%s: %w", entry.Name, cls.Name, m.Name, err)
				}
			}
		}
		for _, fn := range entry.Mod.Funcs {
			if err := e.definition(&b, nil, fn); err != nil {
				return fmt.Errorf("module %s: %s: %w", entry.Name, fn.Name, err)
			}
		}
		fmt.Fprintf(&b, "}  // define namespace %s\n\n", ns)
		if _, err := io.WriteString(e.primary, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) definition(b *strings.Builder, cls *tast.Class, fn *tast.Func) error {
	locals, ok := e.ctx.Locals(fn)
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingLocals, fn.Name)
	}
	switch {
	case cls != nil && fn.Name == "__init__":
		name := cpp.SanitizeIdent(cls.Name)
		fmt.Fprintf(b, "%s::%s(%s) {\n", name, name, cpp.ParamList(fn))
	case cls != nil:
		fmt.Fprintf(b, "%s %s::%s(%s) {\n",
			cpp.ReturnCType(fn.Ret), cpp.SanitizeIdent(cls.Name),
			cpp.SanitizeIdent(fn.Name), cpp.ParamList(fn))
	default:
		fmt.Fprintf(b, "%s {\n", cpp.Prototype(fn))
	}
	env := &cpp.BodyEnv{
		Locals:      locals,
		LookupConst: e.lookupConst,
		FmtName:     e.ctx.FmtName,
		Model:       e.model,
	}
	if err := e.gen.EmitBody(b, fn, env); err != nil {
		return err
	}
	b.WriteString("}\n\n")
	return nil
}

func (e *Emitter) lookupConst(value string) (string, error) {
	id, ok := e.pool.Lookup(value)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnpooledLiteral, cpp.QuoteString(value))
	}
	return id, nil
}

// write sends one module's phase output to the stream its routing selects.
func (e *Emitter) write(entry schedule.Entry, text string) error {
	w := e.primary
	if e.routing.Target(entry.Name) == StreamSecondary {
		w = e.header
	}
	_, err := io.WriteString(w, text)
	return err
}
