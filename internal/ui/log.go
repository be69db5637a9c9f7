package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/AALEKH/oil/internal/diag"
	"github.com/AALEKH/oil/internal/pipeline"
)

// Logger writes the verbose translation log to stderr (or any writer).
// All translator chatter goes here so the primary stream stays clean when
// it is stdout.
type Logger struct {
	W       io.Writer
	Verbose bool

	banner *color.Color
	warn   *color.Color
	errc   *color.Color
}

// NewLogger returns a logger; colors follow the package-global color
// setting (color.NoColor).
func NewLogger(w io.Writer, verbose bool) *Logger {
	return &Logger{
		W:       w,
		Verbose: verbose,
		banner:  color.New(color.FgCyan, color.Bold),
		warn:    color.New(color.FgYellow),
		errc:    color.New(color.FgRed, color.Bold),
	}
}

// Verbosef logs only when verbose output is enabled.
func (l *Logger) Verbosef(format string, args ...any) {
	if l == nil || !l.Verbose {
		return
	}
	fmt.Fprintf(l.W, format+"\n", args...)
}

// Bannerf logs a phase banner when verbose output is enabled.
func (l *Logger) Bannerf(format string, args ...any) {
	if l == nil || !l.Verbose {
		return
	}
	fmt.Fprintf(l.W, "\t%s\n", l.banner.Sprintf(format, args...))
}

// Fatalf writes the single fatal diagnostic line.
func (l *Logger) Fatalf(format string, args ...any) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.W, "%s %s\n", l.errc.Sprint("FATAL:"), fmt.Sprintf(format, args...))
}

// PrintDiagnostics renders the front-end diagnostic block the way the
// original driver did: delimited, verbatim, and non-fatal by default.
func (l *Logger) PrintDiagnostics(bag *diag.Bag) {
	if l == nil || bag == nil || bag.Len() == 0 {
		return
	}
	bag.Sort()
	rule := strings.Repeat("-", 80)
	fmt.Fprintln(l.W)
	fmt.Fprintln(l.W, rule)
	for _, d := range bag.Items() {
		line := fmt.Sprintf("%s %s %s: %s", d.Severity, d.Code, d.Module, d.Message)
		switch {
		case d.Severity >= diag.SevError:
			fmt.Fprintln(l.W, l.errc.Sprint(line))
		case d.Severity == diag.SevWarning:
			fmt.Fprintln(l.W, l.warn.Sprint(line))
		default:
			fmt.Fprintln(l.W, line)
		}
	}
	fmt.Fprintln(l.W, rule)
	fmt.Fprintln(l.W)
}

// LogSink is the plain-mode progress sink: pass banners and per-module
// lines through the verbose logger, no TUI.
type LogSink struct {
	Log *Logger
}

// OnEvent implements pipeline.ProgressSink.
func (s LogSink) OnEvent(ev pipeline.Event) {
	if s.Log == nil {
		return
	}
	if ev.Module == "" {
		if ev.Status == pipeline.StatusWorking {
			s.Log.Bannerf("%s", strings.ToUpper(strings.ReplaceAll(string(ev.Pass), "-", " ")))
		}
		return
	}
	if ev.Status == pipeline.StatusWorking {
		s.Log.Verbosef("%s %s", ev.Pass, ev.Module)
	}
}
