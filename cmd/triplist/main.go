// Package main is the triplist command: a client for the trips service that
// lists trips by month, creates, updates and deletes them, and offers an
// interactive browser.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/trip-catalog/internal/client"
	"github.com/pkordes/trip-catalog/internal/config"
	"github.com/pkordes/trip-catalog/internal/triplist"
)

// app carries what every subcommand needs once flags and environment are
// resolved.
type app struct {
	cfg config.Config
	log *slog.Logger

	// flag values; empty or zero means "use the configuration"
	apiURL  string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "triplist",
		Short: "Browse and edit the trip catalog",
		Long: `triplist talks to a trips service (GET/POST /trips, PUT/DELETE /trips/{id}).

The service URL comes from --api-url, then TRIPS_API_URL, then
http://localhost:3001. A .env file in the working directory is read first.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "Trips service base URL (or set TRIPS_API_URL)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "Per-request timeout (or set TRIPS_TIMEOUT)")

	root.AddCommand(newListCmd(a))
	root.AddCommand(newCreateCmd(a))
	root.AddCommand(newUpdateCmd(a))
	root.AddCommand(newDeleteCmd(a))
	root.AddCommand(newBrowseCmd(a))
	return root
}

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIURL = a.apiURL
	}
	if a.timeout > 0 {
		cfg.Timeout = a.timeout
	}
	a.cfg = cfg
	a.log = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	return nil
}

// controller returns a Controller over a client for the configured service.
func (a *app) controller(log *slog.Logger) (*triplist.Controller, error) {
	api, err := client.New(a.cfg.APIURL,
		client.WithTimeout(a.cfg.Timeout),
		client.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	return triplist.New(api, log), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "triplist:", err)
		os.Exit(1)
	}
}

// discardLogger is used where log output would corrupt the terminal.
func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
