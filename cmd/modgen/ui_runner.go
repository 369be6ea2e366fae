package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/driver"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/ui"
)

type runOutcome struct {
	result *driver.RunResult
	err    error
}

// runGenerateWithUI runs the driver on a goroutine and feeds its
// progress events to a Bubble Tea program on the terminal.
func runGenerateWithUI(ctx context.Context, opts driver.Options) (*driver.RunResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Events = events
		res, err := driver.Run(ctx, optsCopy)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("modgen generate", events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
