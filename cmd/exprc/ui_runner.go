package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"exprc/internal/buildpipeline"
	"exprc/internal/ui"
)

type uiOutcome[T any] struct {
	result T
	err    error
}

// runWithUI runs fn in the background while a progress view consumes its
// events. The view quits once fn returns and the event channel closes.
func runWithUI[T any](title string, files []string, fn func(buildpipeline.ProgressSink) (T, error)) (T, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan uiOutcome[T], 1)

	go func() {
		res, err := fn(buildpipeline.ChannelSink{Ch: events})
		outcomeCh <- uiOutcome[T]{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	if uiErr != nil {
		// UI упал: дочитываем события, чтобы пайплайн не заблокировался
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
