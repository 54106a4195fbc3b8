package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/claude/repsedit/internal/config"
	"github.com/claude/repsedit/internal/editor"
	"github.com/claude/repsedit/internal/tui"
)

// runInteractive alternates between the dashboard and the editor until the
// user quits. A zero id starts on the dashboard.
func runInteractive(ctx context.Context, cfg *config.Config, id int) error {
	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}

	// The screen belongs to bubbletea; diagnostics go to a file.
	logPath := filepath.Join(cfg.Client.StateDir, "repsedit.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	log := newLogger(logFile)
	log.Info("repsedit starting", "version", Version, "server", cfg.Client.ServerURL)

	for {
		if id == 0 {
			final, err := tea.NewProgram(tui.NewDashboardModel(ctx, client, log), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("running dashboard: %w", err)
			}
			picked, ok := final.(tui.DashboardModel).Selected()
			if !ok {
				return nil
			}
			id = picked
		}

		var route string
		nav := editor.NavigatorFunc(func(r string) {
			log.Info("leaving editor", "workout_id", id, "route", r)
			route = r
		})
		ed := editor.New(id, client, nav, log)
		final, err := tea.NewProgram(tui.NewEditorModel(ctx, ed), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		ed.Close()
		if err != nil {
			return fmt.Errorf("running editor: %w", err)
		}
		if final.(tui.EditorModel).Interrupted() || route != editor.RouteDashboard {
			return nil
		}
		id = 0
	}
}
