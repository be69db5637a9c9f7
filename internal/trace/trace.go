// Package trace emits structured events for the translation pipeline: one
// span per pass, point events per module. Tracing is strictly best-effort;
// a failing trace writer never fails the translation.
package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff Level = iota
	// LevelPass traces pipeline and pass boundaries.
	LevelPass
	// LevelModule additionally traces per-module events.
	LevelModule
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelPass:
		return "pass"
	case LevelModule:
		return "module"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "off", "":
		return LevelOff, nil
	case "pass":
		return LevelPass, nil
	case "module":
		return LevelModule, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|pass|module)", s)
	}
}

// Scope indicates the granularity of an event.
type Scope uint8

const (
	// ScopePipeline covers the whole run.
	ScopePipeline Scope = iota + 1
	// ScopePass covers one pipeline pass.
	ScopePass
	// ScopeModule covers one module within a pass.
	ScopeModule
)

func (s Scope) String() string {
	switch s {
	case ScopePipeline:
		return "pipeline"
	case ScopePass:
		return "pass"
	case ScopeModule:
		return "module"
	default:
		return "unknown"
	}
}

// ShouldEmit reports whether scope is visible at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelPass:
		return scope <= ScopePass
	case LevelModule:
		return true
	}
	return false
}

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint is an instant event.
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Event is a single trace record.
type Event struct {
	Time   time.Time
	Seq    uint64
	Kind   Kind
	Scope  Scope
	SpanID uint64
	Name   string
	Detail string
}

// Tracer is the sink for trace events.
type Tracer interface {
	// Emit records an event. Must be goroutine-safe.
	Emit(ev *Event)
	// Close flushes and releases resources.
	Close() error
	// Level returns the current tracing level.
	Level() Level
	// Enabled reports whether tracing is active.
	Enabled() bool
}

var globalSeq uint64

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 {
	return atomic.AddUint64(&globalSeq, 1)
}

var globalSpans uint64

// NextSpanID returns a unique span ID.
func NextSpanID() uint64 {
	return atomic.AddUint64(&globalSpans, 1)
}

// nopTracer is the zero-overhead implementation used when tracing is off.
type nopTracer struct{}

func (nopTracer) Emit(*Event)  {}
func (nopTracer) Close() error { return nil }
func (nopTracer) Level() Level { return LevelOff }
func (nopTracer) Enabled() bool {
	return false
}

// Nop is the package-level singleton nop tracer.
var Nop Tracer = nopTracer{}

// StreamTracer writes events immediately to an io.Writer as text lines.
type StreamTracer struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
}

// NewStreamTracer creates a tracer writing to w.
func NewStreamTracer(w io.Writer, level Level) *StreamTracer {
	return &StreamTracer{w: w, level: level}
}

// Emit writes one event line. Write errors are ignored so tracing cannot
// disrupt the translation.
func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	ev.Seq = NextSeq()
	line := fmt.Sprintf("%s seq=%d %s %s name=%s",
		ev.Time.Format("15:04:05.000000"), ev.Seq, ev.Scope, ev.Kind, ev.Name)
	if ev.SpanID != 0 {
		line += fmt.Sprintf(" span=%d", ev.SpanID)
	}
	if ev.Detail != "" {
		line += " detail=" + ev.Detail
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.w, line+"\n")
}

// Close closes the writer if it is closable.
func (t *StreamTracer) Close() error {
	if closer, ok := t.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Level returns the current tracing level.
func (t *StreamTracer) Level() Level { return t.level }

// Enabled reports whether tracing is active.
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }

// Config holds tracer configuration.
type Config struct {
	Level      Level
	Output     io.Writer // takes precedence over OutputPath
	OutputPath string    // "-" or "" means stderr
}

// New creates a Tracer from Config.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	w := cfg.Output
	if w == nil {
		if cfg.OutputPath == "" || cfg.OutputPath == "-" {
			w = os.Stderr
		} else {
			f, err := os.Create(cfg.OutputPath)
			if err != nil {
				return nil, fmt.Errorf("failed to open trace output: %w", err)
			}
			w = f
		}
	}
	return NewStreamTracer(w, cfg.Level), nil
}
