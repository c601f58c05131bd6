package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/soundscout/internal/services"
	"github.com/desertthunder/soundscout/internal/shared"
	"github.com/desertthunder/soundscout/internal/tasks"
	"github.com/desertthunder/soundscout/internal/ui"
	"github.com/urfave/cli/v3"
)

// Browse launches the interactive artist browser.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	name, err := requireArg(cmd, "name")
	if err != nil {
		return err
	}

	// Logs go to a file so they do not tear the alt screen.
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	svc, err := r.music()
	if err != nil {
		return err
	}

	var browser ui.Browser = svc
	var progress chan tasks.ProgressUpdate
	if music, ok := svc.(*services.MusicService); ok {
		progress = make(chan tasks.ProgressUpdate, 16)
		browser = music.WithProgress(progress)
	}

	model := ui.NewModel(ctx, browser, name, progress)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return model.Err()
}
