package pipeline

import "time"

// Pass identifies one sequential step of the translation pipeline.
type Pass string

const (
	// PassSchedule orders the module set.
	PassSchedule Pass = "schedule"
	// PassConstants is the global constant-pooling pass.
	PassConstants Pass = "constants"
	// PassVirtual is the collect+finalize virtual-dispatch pass.
	PassVirtual Pass = "virtual"
	// PassForwardDecl is the first emission traversal.
	PassForwardDecl Pass = "forward-decl"
	// PassDecl is the second emission traversal.
	PassDecl Pass = "decl"
	// PassDefine is the final emission traversal.
	PassDefine Pass = "define"
)

// Status captures progress state within a pass.
type Status string

const (
	// StatusWorking indicates the pass is currently running.
	StatusWorking Status = "working"
	// StatusDone indicates the pass completed.
	StatusDone Status = "done"
	// StatusError indicates the pass failed; the run aborts.
	StatusError Status = "error"
)

// Event reports progress for a module (or for a whole pass when Module is
// empty).
type Event struct {
	Module  string
	Pass    Pass
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// Timings holds pass durations.
type Timings struct {
	passes map[Pass]time.Duration
}

// Set stores a duration for the given pass.
func (t *Timings) Set(pass Pass, dur time.Duration) {
	if t == nil {
		return
	}
	if t.passes == nil {
		t.passes = make(map[Pass]time.Duration)
	}
	t.passes[pass] = dur
}

// Duration returns the recorded duration for pass.
func (t Timings) Duration(pass Pass) time.Duration {
	if t.passes == nil {
		return 0
	}
	return t.passes[pass]
}

// Total returns the sum of all recorded durations.
func (t Timings) Total() time.Duration {
	var total time.Duration
	for _, d := range t.passes {
		total += d
	}
	return total
}
