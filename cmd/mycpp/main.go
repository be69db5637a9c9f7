package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/AALEKH/oil/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "mycpp",
	Short: "mycpp translates typed module graphs to C++",
	Long:  `mycpp consumes typed-graph snapshots produced by the front end and emits a single C++ translation unit (optionally splitting declarations into a header).`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log each translation phase to stderr")
	rootCmd.PersistentFlags().String("trace", "", "write trace events (off|pass|module, optionally level=path)")

	cobra.OnInitialize(applyColorMode)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyColorMode resolves the --color flag into the process-wide color
// setting before any command runs.
func applyColorMode() {
	mode, err := rootCmd.PersistentFlags().GetString("color")
	if err != nil {
		return
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stderr)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
