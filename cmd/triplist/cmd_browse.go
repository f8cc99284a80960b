package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pkordes/trip-catalog/internal/tui"
)

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse and edit trips interactively",
		Long: `Opens a full-screen view with a month selector, the trips of that month
and a form to create or edit a trip.

The view owns the terminal, so logs go to TRIPS_LOG_FILE when it is set and
are dropped otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := discardLogger()
			if a.cfg.LogFile != "" {
				f, err := os.OpenFile(a.cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				log = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: a.cfg.Level()}))
			}

			ctl, err := a.controller(log)
			if err != nil {
				return err
			}
			p := tea.NewProgram(tui.New(cmd.Context(), ctl),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)
			_, err = p.Run()
			return err
		},
	}
}
