package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AALEKH/oil/internal/pipeline"
	"github.com/AALEKH/oil/internal/schedule"
	"github.com/AALEKH/oil/internal/tast"
	"github.com/AALEKH/oil/internal/ui"
)

type translateOutcome struct {
	result pipeline.Result
	err    error
}

// runPipelineWithUI runs the pipeline in a goroutine and feeds its progress
// events into the Bubble Tea model. The row list is computed up front by
// running the scheduler once against the same config.
func runPipelineWithUI(graph *tast.Graph, primary, header io.Writer, cfg *pipeline.Config) (pipeline.Result, error) {
	if cfg == nil {
		return pipeline.Result{}, fmt.Errorf("missing pipeline config")
	}
	order, err := schedule.Order(graph, cfg.Schedule, nil)
	if err != nil {
		return pipeline.Result{}, err
	}

	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan translateOutcome, 1)

	go func() {
		cfgCopy := *cfg
		cfgCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := pipeline.Run(graph, primary, header, &cfgCopy)
		outcomeCh <- translateOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("mycpp translate", schedule.Names(order), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
