// Package pipeline sequences the translation: schedule, constant pooling,
// virtual-dispatch resolution, then the three emission traversals. The
// pipeline is strictly sequential; every pass depends on invariants
// established only when the previous one finished. All shared mutable state
// (constant pool, virtual set, emission context) is owned here and handed to
// the passes by reference.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/AALEKH/oil/internal/constpool"
	"github.com/AALEKH/oil/internal/cpp"
	"github.com/AALEKH/oil/internal/diag"
	"github.com/AALEKH/oil/internal/emit"
	"github.com/AALEKH/oil/internal/observ"
	"github.com/AALEKH/oil/internal/schedule"
	"github.com/AALEKH/oil/internal/tast"
	"github.com/AALEKH/oil/internal/trace"
	"github.com/AALEKH/oil/internal/virtual"
)

// DiagnosticsPolicy decides what front-end diagnostics do to the run.
type DiagnosticsPolicy string

const (
	// DiagWarn logs front-end diagnostics and proceeds with translation.
	DiagWarn DiagnosticsPolicy = "warn"
	// DiagFail aborts the run when the front end reported anything.
	DiagFail DiagnosticsPolicy = "fail"
)

// ParseDiagnosticsPolicy converts a string to a DiagnosticsPolicy.
func ParseDiagnosticsPolicy(s string) (DiagnosticsPolicy, error) {
	switch s {
	case "", string(DiagWarn):
		return DiagWarn, nil
	case string(DiagFail):
		return DiagFail, nil
	default:
		return DiagWarn, fmt.Errorf("invalid diagnostics policy: %q (expected: warn|fail)", s)
	}
}

// Config wires one translation run.
type Config struct {
	Schedule schedule.Config
	// ToHeader lists canonical module names routed to the secondary
	// stream.
	ToHeader []string
	// HeaderName is the secondary stream's file name, for its include
	// guard and the include line in the primary stream.
	HeaderName string
	Model      cpp.MemoryModel
	// OnDiagnostics defaults to DiagWarn, matching the observed behavior
	// of translating through type errors.
	OnDiagnostics DiagnosticsPolicy
	// Gen overrides the built-in statement/expression generator.
	Gen cpp.BodyGen

	Reporter diag.Reporter
	Progress ProgressSink
	Tracer   trace.Tracer
	Timer    *observ.Timer
}

// Result summarizes a successful run.
type Result struct {
	Order     []schedule.Entry
	Constants int
	Virtuals  int
	Timings   Timings
}

// Run executes the whole pipeline against the typed graph, writing the
// translation unit to primary and, when configured, declarations to header.
// Any structural error aborts the run; no partial output is written for the
// failing module.
func Run(graph *tast.Graph, primary, header io.Writer, cfg *Config) (Result, error) {
	var result Result
	if graph == nil {
		return result, fmt.Errorf("missing typed module graph")
	}
	if cfg == nil {
		return result, fmt.Errorf("missing pipeline config")
	}
	r := &runner{cfg: cfg, tracer: cfg.Tracer, timer: cfg.Timer, reporter: cfg.Reporter}
	if r.tracer == nil {
		r.tracer = trace.Nop
	}
	if r.timer == nil {
		r.timer = observ.NewTimer()
	}
	if r.reporter == nil {
		r.reporter = diag.NopReporter{}
	}

	runSpan := trace.Begin(r.tracer, trace.ScopePipeline, "translate")
	defer runSpan.End("")

	// The front end already reported these to its own users; here they are
	// logged and, depending on policy, stop the run before any pass.
	for _, d := range graph.Diagnostics {
		diag.ReportError(r.reporter, diag.FrontTypeError, d.Module, d.Message)
	}
	if cfg.OnDiagnostics == DiagFail && len(graph.Diagnostics) > 0 {
		return result, fmt.Errorf("front end reported %d diagnostics", len(graph.Diagnostics))
	}

	// Pass 0a: schedule.
	var order []schedule.Entry
	err := r.pass(PassSchedule, func() error {
		var err error
		order, err = schedule.Order(graph, cfg.Schedule, r.reporter)
		if err != nil {
			return err
		}
		for _, entry := range order {
			trace.Point(r.tracer, trace.ScopeModule, string(PassSchedule), entry.Name)
		}
		return nil
	})
	if err != nil {
		return result, err
	}
	result.Order = order

	// Pass 0b: global constant pooling.
	var pool *constpool.Pool
	err = r.pass(PassConstants, func() error {
		var err error
		pool, err = constpool.Build(order)
		return err
	})
	if err != nil {
		return result, err
	}
	result.Constants = pool.Len()

	// Pass 0c: collect every class, then finalize the virtual set. No
	// dispatch decision exists until Finalize returns.
	var virtuals *virtual.Set
	err = r.pass(PassVirtual, func() error {
		resolver := virtual.NewResolver()
		for _, entry := range order {
			if err := resolver.CollectModule(entry); err != nil {
				return err
			}
			trace.Point(r.tracer, trace.ScopeModule, string(PassVirtual), entry.Name)
		}
		var err error
		virtuals, err = resolver.Finalize()
		return err
	})
	if err != nil {
		return result, err
	}
	result.Virtuals = virtuals.Len()

	ctx := emit.NewContext()
	emitter, err := emit.New(emit.Options{
		Primary:    primary,
		Header:     header,
		HeaderName: cfg.HeaderName,
		Routing:    emit.NewRouting(cfg.ToHeader),
		Pool:       pool,
		Virtuals:   virtuals,
		Context:    ctx,
		Model:      cfg.Model,
		Gen:        cfg.Gen,
	})
	if err != nil {
		return result, err
	}

	if err := emitter.WritePreamble(); err != nil {
		return result, err
	}
	if err := emitter.WriteHeaderPreamble(); err != nil {
		return result, err
	}

	err = r.emissionPass(PassForwardDecl, order, emitter.ForwardDecls)
	if err != nil {
		return result, err
	}
	err = r.emissionPass(PassDecl, order, emitter.Decls)
	if err != nil {
		return result, err
	}
	// The secondary stream is complete once declarations are out; it never
	// receives bodies.
	if err := emitter.CloseHeader(); err != nil {
		return result, err
	}
	err = r.emissionPass(PassDefine, order, emitter.Definitions)
	if err != nil {
		return result, err
	}

	result.Timings = r.timings
	return result, nil
}

type runner struct {
	cfg      *Config
	tracer   trace.Tracer
	timer    *observ.Timer
	reporter diag.Reporter
	timings  Timings
}

// pass runs one sequential step with timing, tracing and progress events.
func (r *runner) pass(pass Pass, fn func() error) error {
	idx := r.timer.Begin(string(pass))
	span := trace.Begin(r.tracer, trace.ScopePass, string(pass))
	r.emit(Event{Pass: pass, Status: StatusWorking})
	start := time.Now()

	err := fn()

	elapsed := time.Since(start)
	r.timings.Set(pass, elapsed)
	span.End("")
	if err != nil {
		r.timer.End(idx, "failed")
		r.emit(Event{Pass: pass, Status: StatusError, Err: err, Elapsed: elapsed})
		return err
	}
	r.timer.End(idx, "")
	r.emit(Event{Pass: pass, Status: StatusDone, Elapsed: elapsed})
	return nil
}

// emissionPass drives one emitter traversal module by module so progress
// and tracing see each module, while the emitted bytes stay identical to a
// single full-order call.
func (r *runner) emissionPass(pass Pass, order []schedule.Entry, phase func([]schedule.Entry) error) error {
	return r.pass(pass, func() error {
		for i := range order {
			entry := order[i]
			r.emit(Event{Module: entry.Name, Pass: pass, Status: StatusWorking})
			trace.Point(r.tracer, trace.ScopeModule, string(pass), entry.Name)
			if err := phase(order[i : i+1]); err != nil {
				r.emit(Event{Module: entry.Name, Pass: pass, Status: StatusError, Err: err})
				return err
			}
			r.emit(Event{Module: entry.Name, Pass: pass, Status: StatusDone})
		}
		return nil
	})
}

func (r *runner) emit(ev Event) {
	if r.cfg.Progress == nil {
		return
	}
	r.cfg.Progress.OnEvent(ev)
}
