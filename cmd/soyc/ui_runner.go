package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"soyc/internal/driver"
	"soyc/internal/plugin"
	"soyc/internal/ui"
)

type compileOutcome struct {
	result *driver.Result
	err    error
}

// compileWithUI runs the compilation behind the interactive progress view.
// Quitting the view cancels the passes.
func compileWithUI(ctx context.Context, out io.Writer, title string, req *driver.Request) (*driver.Result, error) {
	if req == nil {
		return nil, fmt.Errorf("missing compile request")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan compileOutcome, 1)
	go func() {
		reqCopy := *req
		reqCopy.Progress = driver.ChannelSink{Ch: events, Done: ctx.Done()}
		res, err := driver.Compile(ctx, &reqCopy)
		outcomeCh <- compileOutcome{result: res, err: err}
		close(events)
	}()

	backends := req.Backends
	if len(backends) == 0 {
		backends = plugin.Backends
	}
	model := ui.NewProgressModel(title, backends, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()
	cancel()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

// compileWithLines prints one progress line per event to w; it is the
// non-interactive path.
func compileWithLines(ctx context.Context, w io.Writer, req *driver.Request) (*driver.Result, error) {
	events := make(chan driver.Event, 16)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for e := range events {
			printProgress(w, e)
		}
	}()
	reqCopy := *req
	reqCopy.Progress = driver.ChannelSink{Ch: events}
	res, err := driver.Compile(ctx, &reqCopy)
	close(events)
	<-printed
	return res, err
}
