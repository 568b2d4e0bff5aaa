// Command vinebar is the on-device client: it picks bars, runs the quiz and
// keeps the saved list in a local SQLite file.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	appLogger "github.com/FACorreiaa/go-vinebar-venice/app/logger"
	"github.com/FACorreiaa/go-vinebar-venice/app/observability/metrics"
	"github.com/FACorreiaa/go-vinebar-venice/config"
	"github.com/FACorreiaa/go-vinebar-venice/internal/container"
	"github.com/FACorreiaa/go-vinebar-venice/internal/flow"
	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

// cli carries the persistent flags and the container opened for one run.
type cli struct {
	driver  string
	dbPath  string
	verbose bool
	reveal  time.Duration

	logger *slog.Logger
	c      *container.Container
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &cli{}

	root := &cobra.Command{
		Use:   "vinebar",
		Short: "Find a wine bar in Venice",
		Long: `vinebar picks a wine bar in Venice by mood, runs the preference quiz
and keeps your saved bars between runs.

Available commands:
  start      - Play the splash sequence
  categories - List the categories and how many bars each holds
  find       - Pick a random bar from a category
  quiz       - Show the quiz or classify a set of answers
  saved      - List or change the saved bars
  share      - Print the share message of a bar
  map        - Print the camera the map opens with`,
		SilenceUsage:      true,
		PersistentPreRunE: a.open,
		PersistentPostRun: a.close,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.driver, "driver", config.DriverSQLite, "storage driver (sqlite or memory)")
	flags.StringVar(&a.dbPath, "db", "data/vinebar.db", "path of the SQLite file")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")
	flags.DurationVar(&a.reveal, "reveal", flow.DefaultDurations().CategoryReveal, "delay before a pick is revealed")

	root.AddCommand(
		a.startCmd(),
		a.categoriesCmd(),
		a.findCmd(),
		a.quizCmd(),
		a.savedCmd(),
		a.shareCmd(),
		a.mapCmd(),
	)
	return root
}

func (a *cli) open(cmd *cobra.Command, _ []string) error {
	if a.driver == config.DriverPostgres {
		return fmt.Errorf("driver %q is only available to the server", a.driver)
	}

	if a.verbose {
		a.logger = appLogger.New("development", cmd.ErrOrStderr())
	} else {
		a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	}

	cfg := &config.Config{}
	cfg.Storage.Driver = a.driver
	cfg.Repositories.SQLite.Path = a.dbPath
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.Flow.CategoryReveal = a.reveal
	cfg.Flow.SurpriseReveal = a.reveal

	c, err := container.NewContainer(cmd.Context(), cfg, metrics.Noop(), a.logger)
	if err != nil {
		return err
	}
	a.c = c
	return nil
}

func (a *cli) close(*cobra.Command, []string) {
	if a.c != nil {
		a.c.Close()
		a.c = nil
	}
}

// venue resolves a catalog venue by id.
func (a *cli) venue(cmd *cobra.Command, id string) (types.VenueEntry, error) {
	return a.c.CatalogService.VenueByID(cmd.Context(), id)
}

func printVenue(w io.Writer, v types.VenueEntry) {
	fmt.Fprintf(w, "%s [%s]\n", v.Title, v.ID)
	if v.Description != "" {
		fmt.Fprintf(w, "  %s\n", v.Description)
	}
	fmt.Fprintf(w, "  %s\n", v.Address)
	fmt.Fprintf(w, "  %s\n", v.Coordinates)
}
