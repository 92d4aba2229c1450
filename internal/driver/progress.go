package driver

import (
	"context"
	"time"

	"soyc/internal/plugin"
)

// Stage is a phase of a backend pass.
type Stage string

const (
	StageClone Stage = "clone"
	StageCheck Stage = "check"
	StageLower Stage = "lower"
)

// Status is the state of a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress of one backend pass.
type Event struct {
	Backend plugin.Backend
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Passes run concurrently, so
// implementations must be goroutine-safe.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel. A send blocks until the
// consumer reads or Done is closed; events after Done are dropped. Compile
// uses the request context's Done channel when Done is nil.
type ChannelSink struct {
	Ch   chan<- Event
	Done <-chan struct{}
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	select {
	case s.Ch <- evt:
	case <-s.Done:
	}
}

// bindContext ties a channel sink without its own Done channel to ctx, so a
// stalled consumer cannot outlive cancellation.
func bindContext(ctx context.Context, s ProgressSink) ProgressSink {
	if cs, ok := s.(ChannelSink); ok && cs.Done == nil {
		cs.Done = ctx.Done()
		return cs
	}
	return s
}

// FuncSink adapts a function.
type FuncSink func(Event)

func (f FuncSink) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

func emit(s ProgressSink, evt Event) {
	if s != nil {
		s.OnEvent(evt)
	}
}
