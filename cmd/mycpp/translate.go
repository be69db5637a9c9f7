// Package main implements the mycpp CLI.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AALEKH/oil/internal/cpp"
	"github.com/AALEKH/oil/internal/diag"
	"github.com/AALEKH/oil/internal/frontend"
	"github.com/AALEKH/oil/internal/observ"
	"github.com/AALEKH/oil/internal/pipeline"
	"github.com/AALEKH/oil/internal/schedule"
	"github.com/AALEKH/oil/internal/tast"
	"github.com/AALEKH/oil/internal/ui"
)

var translateCmd = &cobra.Command{
	Use:   "translate [flags] <snapshot.tg>...",
	Short: "Translate typed-graph snapshots to C++",
	Long:  "Translate one or more typed-graph snapshots into a C++ translation unit, optionally routing selected modules' declarations to a header.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  translateExecution,

	SilenceUsage:  true,
	SilenceErrors: true,
}

// maxDiagnostics bounds the collected diagnostics per run.
const maxDiagnostics = 100

func init() {
	translateCmd.Flags().String("out", "-", "primary output path (- for stdout)")
	translateCmd.Flags().StringSlice("to-header", nil, "module names whose declarations go to the header")
	translateCmd.Flags().String("header-out", "", "header output path (required with --to-header)")
	translateCmd.Flags().Bool("gc", false, "emit garbage-collected allocation forms (also: GC env var)")
	translateCmd.Flags().String("on-diagnostics", "", "front-end diagnostics policy (warn|fail)")
	translateCmd.Flags().StringSlice("first", nil, "modules pinned to the front of the schedule")
	translateCmd.Flags().StringSlice("last", nil, "modules pinned to the end of the schedule")
	translateCmd.Flags().String("strip-prefix", "oil.", "redundant module-name prefix stripped before dedup")
	translateCmd.Flags().Int("jobs", 0, "parallel snapshot decoders (0 = one per CPU)")
	translateCmd.Flags().Bool("timings", false, "print per-phase timings to stderr")
	translateCmd.Flags().String("ui", "auto", "progress interface (auto|on|off)")
}

func translateExecution(cmd *cobra.Command, args []string) error {
	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err != nil {
		return err
	}
	log := ui.NewLogger(os.Stderr, verbose)
	if err := runTranslate(cmd, args, log); err != nil {
		log.Fatalf("%s", err)
		os.Exit(1)
	}
	return nil
}

func runTranslate(cmd *cobra.Command, args []string, log *ui.Logger) error {
	opts, err := readTranslateOptions(cmd, args)
	if err != nil {
		return err
	}

	tracer, err := setupTracer(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = tracer.Close() }()

	log.Verbosef("loading %d snapshot(s)", len(opts.paths))
	graph, err := frontend.Load(cmd.Context(), opts.paths, opts.jobs)
	if err != nil {
		return err
	}
	printFrontendDiagnostics(log, graph)

	primary, closePrimary, err := openOutput(opts.outPath)
	if err != nil {
		return err
	}
	var header io.Writer
	closeHeader := func() error { return nil }
	if opts.headerOut != "" {
		header, closeHeader, err = openOutput(opts.headerOut)
		if err != nil {
			_ = closePrimary()
			return err
		}
	}

	bag := diag.NewBag(maxDiagnostics)
	timer := observ.NewTimer()
	cfg := &pipeline.Config{
		Schedule: schedule.Config{
			Suffixes:    suffixesFromPaths(opts.paths),
			First:       opts.first,
			Last:        opts.last,
			StripPrefix: opts.stripPrefix,
		},
		ToHeader:      opts.toHeader,
		HeaderName:    headerName(opts.headerOut),
		Model:         opts.model,
		OnDiagnostics: opts.onDiagnostics,
		Reporter:      diag.BagReporter{Bag: bag},
		Tracer:        tracer,
		Timer:         timer,
	}

	var result pipeline.Result
	var runErr error
	if opts.useTUI {
		result, runErr = runPipelineWithUI(graph, primary, header, cfg)
	} else {
		cfg.Progress = ui.LogSink{Log: log}
		result, runErr = pipeline.Run(graph, primary, header, cfg)
	}

	if closeErr := closePrimary(); runErr == nil {
		runErr = closeErr
	}
	if closeErr := closeHeader(); runErr == nil {
		runErr = closeErr
	}

	printScheduleDiagnostics(log, bag)
	if runErr != nil {
		return runErr
	}

	log.Verbosef("translated %d module(s), %d pooled constant(s), %d virtual method(s)",
		len(result.Order), result.Constants, result.Virtuals)
	if opts.timings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	return nil
}

type translateOptions struct {
	paths         []string
	outPath       string
	toHeader      []string
	headerOut     string
	model         cpp.MemoryModel
	onDiagnostics pipeline.DiagnosticsPolicy
	first         []string
	last          []string
	stripPrefix   string
	jobs          int
	timings       bool
	useTUI        bool
}

// readTranslateOptions merges flags over the optional mycpp.toml manifest.
// Flags win wherever both are set.
func readTranslateOptions(cmd *cobra.Command, args []string) (*translateOptions, error) {
	flags := cmd.Flags()
	opts := &translateOptions{paths: args}

	manifest, manifestFound, err := loadProjectManifest(".")
	if err != nil {
		return nil, err
	}
	if manifestFound {
		tc := manifest.Config.Translate
		opts.first = tc.First
		opts.last = tc.Last
		opts.toHeader = tc.ToHeader
		opts.headerOut = tc.HeaderOut
		if tc.StripPrefix != "" {
			opts.stripPrefix = tc.StripPrefix
		}
		if tc.GC {
			opts.model = cpp.ModelGC
		}
		if tc.OnDiagnostics != "" {
			opts.onDiagnostics = pipeline.DiagnosticsPolicy(tc.OnDiagnostics)
		}
	}

	if opts.outPath, err = flags.GetString("out"); err != nil {
		return nil, err
	}
	if flags.Changed("to-header") || opts.toHeader == nil {
		if opts.toHeader, err = flags.GetStringSlice("to-header"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("header-out") || opts.headerOut == "" {
		if opts.headerOut, err = flags.GetString("header-out"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("first") || opts.first == nil {
		if opts.first, err = flags.GetStringSlice("first"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("last") || opts.last == nil {
		if opts.last, err = flags.GetStringSlice("last"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("strip-prefix") || opts.stripPrefix == "" {
		if opts.stripPrefix, err = flags.GetString("strip-prefix"); err != nil {
			return nil, err
		}
	}
	if opts.jobs, err = flags.GetInt("jobs"); err != nil {
		return nil, err
	}
	if opts.timings, err = flags.GetBool("timings"); err != nil {
		return nil, err
	}

	gcFlag, err := flags.GetBool("gc")
	if err != nil {
		return nil, err
	}
	if gcFlag || os.Getenv("GC") != "" {
		opts.model = cpp.ModelGC
	}

	policyValue, err := flags.GetString("on-diagnostics")
	if err != nil {
		return nil, err
	}
	if flags.Changed("on-diagnostics") || opts.onDiagnostics == "" {
		opts.onDiagnostics, err = pipeline.ParseDiagnosticsPolicy(policyValue)
		if err != nil {
			return nil, err
		}
	}

	if len(opts.toHeader) > 0 && opts.headerOut == "" {
		return nil, fmt.Errorf("--to-header requires --header-out")
	}

	uiValue, err := flags.GetString("ui")
	if err != nil {
		return nil, err
	}
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return nil, err
	}
	// The TUI draws on stdout; never enable it when the translation unit
	// itself goes there.
	opts.useTUI = opts.outPath != "-" && shouldUseTUI(uiModeValue)

	return opts, nil
}

func headerName(headerOut string) string {
	if headerOut == "" {
		return ""
	}
	return filepath.Base(headerOut)
}

// suffixesFromPaths derives the requested module name set from the snapshot
// file stems.
func suffixesFromPaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		base := filepath.Base(path)
		out = append(out, strings.TrimSuffix(base, filepath.Ext(base)))
	}
	return out
}

// openOutput opens path for writing, "-" meaning stdout. The returned close
// function flushes buffered bytes.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "-" {
		w := bufio.NewWriter(os.Stdout)
		return w, w.Flush, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	return w, func() error {
		if err := w.Flush(); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}, nil
}

func printFrontendDiagnostics(log *ui.Logger, graph *tast.Graph) {
	if len(graph.Diagnostics) == 0 {
		return
	}
	bag := diag.NewBag(maxDiagnostics)
	for _, d := range graph.Diagnostics {
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.FrontTypeError,
			Module:   d.Module,
			Message:  d.Message,
		})
	}
	log.PrintDiagnostics(bag)
}

// printScheduleDiagnostics surfaces what the pipeline's reporter collected
// (duplicate names, missing pinned modules) in verbose mode.
func printScheduleDiagnostics(log *ui.Logger, bag *diag.Bag) {
	if !log.Verbose || bag.Len() == 0 {
		return
	}
	bag.Sort()
	for _, d := range bag.Items() {
		if d.Code == diag.FrontTypeError {
			continue
		}
		log.Verbosef("%s %s %s: %s", d.Severity, d.Code, d.Module, d.Message)
	}
}
