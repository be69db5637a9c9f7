package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AALEKH/oil/internal/frontend"
	"github.com/AALEKH/oil/internal/schedule"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule [flags] <snapshot.tg>...",
	Short: "Print the module translation order",
	Long:  "Print the order the translate command would process modules in, one canonical name per line.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  scheduleExecution,

	SilenceUsage: true,
}

func init() {
	scheduleCmd.Flags().StringSlice("first", nil, "modules pinned to the front of the schedule")
	scheduleCmd.Flags().StringSlice("last", nil, "modules pinned to the end of the schedule")
	scheduleCmd.Flags().String("strip-prefix", "oil.", "redundant module-name prefix stripped before dedup")
	scheduleCmd.Flags().Int("jobs", 0, "parallel snapshot decoders (0 = one per CPU)")
}

func scheduleExecution(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	first, err := flags.GetStringSlice("first")
	if err != nil {
		return err
	}
	last, err := flags.GetStringSlice("last")
	if err != nil {
		return err
	}
	stripPrefix, err := flags.GetString("strip-prefix")
	if err != nil {
		return err
	}
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return err
	}

	graph, err := frontend.Load(cmd.Context(), args, jobs)
	if err != nil {
		return err
	}

	order, err := schedule.Order(graph, schedule.Config{
		Suffixes:    suffixesFromPaths(args),
		First:       first,
		Last:        last,
		StripPrefix: stripPrefix,
	}, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range schedule.Names(order) {
		if _, err := fmt.Fprintln(out, name); err != nil {
			return err
		}
	}
	return nil
}
