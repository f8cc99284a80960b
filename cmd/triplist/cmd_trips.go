package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pkordes/trip-catalog/internal/domain"
	"github.com/pkordes/trip-catalog/internal/export"
	"github.com/pkordes/trip-catalog/internal/triplist"
	"github.com/pkordes/trip-catalog/internal/tui"
)

func newListCmd(a *app) *cobra.Command {
	var (
		month  int
		format string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trips, optionally only those starting in one month",
		Example: `  triplist list
  triplist list --month 6
  triplist list --format csv > trips.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctl, err := a.controller(a.log)
			if err != nil {
				return err
			}
			if err := ctl.Load(cmd.Context()); err != nil {
				return err
			}
			if err := ctl.SetMonthFilter(time.Month(month)); err != nil {
				return err
			}
			return writeTrips(cmd.OutOrStdout(), format, time.Month(month), ctl.View())
		},
	}
	cmd.Flags().IntVar(&month, "month", 0, "Month the trips start in, 1-12 (0 lists every month)")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, csv or json")
	return cmd
}

func writeTrips(w io.Writer, format string, month time.Month, trips []domain.Trip) error {
	switch format {
	case "csv":
		return export.WriteCSV(w, trips)
	case "json":
		return export.WriteJSON(w, trips)
	case "table":
	default:
		return fmt.Errorf("unknown format %q (want table, csv or json)", format)
	}

	if len(trips) == 0 {
		_, err := fmt.Fprintf(w, "No trips (%s).\n", tui.MonthLabel(month))
		return err
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "START", "END", "DESCRIPTION").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, tr := range trips {
		t.Row(string(tr.ID), tr.Title, tr.Start.DisplayDate(), tr.End.DisplayDate(), tr.Description)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// tripFlags are the editable fields shared by create and update.
type tripFlags struct {
	title, description, start, end string
}

func (f *tripFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Trip title")
	cmd.Flags().StringVar(&f.description, "description", "", "Trip description")
	cmd.Flags().StringVar(&f.start, "start", "", `Start, e.g. "2025,6,1,9,30" or "2025-06-01 09:30"`)
	cmd.Flags().StringVar(&f.end, "end", "", "End, same forms as --start")
}

// apply copies every flag the user set onto d.
func (f *tripFlags) apply(cmd *cobra.Command, d triplist.Draft) triplist.Draft {
	if cmd.Flags().Changed("title") {
		d.Title = f.title
	}
	if cmd.Flags().Changed("description") {
		d.Description = f.description
	}
	if cmd.Flags().Changed("start") {
		d.Start = f.start
	}
	if cmd.Flags().Changed("end") {
		d.End = f.end
	}
	return d
}

func newCreateCmd(a *app) *cobra.Command {
	var f tripFlags
	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a trip",
		Example: `  triplist create --title "Lakes" --start 2025,6,1,9,0 --end 2025,6,8,18,0`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctl, err := a.controller(a.log)
			if err != nil {
				return err
			}
			ctl.SetDraft(f.apply(cmd, triplist.Draft{}))
			trip, err := ctl.SubmitForm(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created trip %s\n", trip.ID)
			return err
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var f tripFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of an existing trip",
		Long: `Loads the trip, replaces the fields given as flags and saves the whole
trip back. Fields without a flag keep their current value.`,
		Example: `  triplist update 3 --description "Now with ferry"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.ID(args[0])
			ctl, err := a.controller(a.log)
			if err != nil {
				return err
			}
			if err := ctl.Load(cmd.Context()); err != nil {
				return err
			}
			if !ctl.SelectForEdit(id) {
				return fmt.Errorf("trip %s: %w", id, domain.ErrNotFound)
			}
			ctl.SetDraft(f.apply(cmd, ctl.Draft()))
			trip, err := ctl.SubmitForm(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "updated trip %s\n", trip.ID)
			return err
		},
	}
	f.register(cmd)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.ID(args[0])
			ctl, err := a.controller(a.log)
			if err != nil {
				return err
			}
			if err := ctl.DeleteTrip(cmd.Context(), id); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("trip %s: %w", id, domain.ErrNotFound)
				}
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted trip %s\n", id)
			return err
		},
	}
}
