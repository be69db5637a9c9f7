package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/AALEKH/oil/internal/trace"
)

// setupTracer builds the Tracer from the persistent --trace flag. The flag
// value is "level" or "level=path": "pass", "module=trace.log".
func setupTracer(cmd *cobra.Command) (trace.Tracer, error) {
	spec, err := cmd.Root().PersistentFlags().GetString("trace")
	if err != nil {
		return nil, err
	}
	if spec == "" {
		return trace.Nop, nil
	}
	levelValue := spec
	outputPath := ""
	if i := strings.IndexByte(spec, '='); i >= 0 {
		levelValue = spec[:i]
		outputPath = spec[i+1:]
	}
	level, err := trace.ParseLevel(levelValue)
	if err != nil {
		return nil, err
	}
	return trace.New(trace.Config{Level: level, OutputPath: outputPath})
}
