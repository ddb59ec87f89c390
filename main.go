package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "notion2gcal",
	Short: "Mirror a Notion database into Google Calendar",
	Long: `Mirror the rows of a Notion database into a calendar.

Without a subcommand a full synchronization runs once:
  1. Reads every dated row of the Notion database
  2. Deletes calendar events dated before today
  3. Deletes calendar events no longer present in Notion
  4. Inserts a one-hour event for every new row`,
	Args: cobra.NoArgs,
	Run:  runReport((*Reconciler).Run),
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a full synchronization",
	Args:  cobra.NoArgs,
	Run:   runReport((*Reconciler).Run),
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete calendar events dated before today",
	Args:  cobra.NoArgs,
	Run:   runReport((*Reconciler).Cleanup),
}

var desyncCmd = &cobra.Command{
	Use:   "desync",
	Short: "Delete every calendar event whose name matches a Notion row",
	Args:  cobra.NoArgs,
	Run:   runReport((*Reconciler).Desync),
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show calendar events as the reconciler sees them",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup()
		defer a.Close()

		r, err := a.reconciler(cmd.Context())
		if err != nil {
			a.exit(err)
		}
		events, err := r.ListSinkEvents(cmd.Context())
		if err != nil {
			a.exit(err)
		}
		listSinkEvents(cmd.OutOrStdout(), a.config.General.CalendarID, events)
	},
}

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Show the dated rows of the Notion database",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup()
		defer a.Close()

		source, err := a.source()
		if err != nil {
			a.exit(err)
		}
		events, err := source.ReadAll(cmd.Context())
		if err != nil {
			a.exit(err)
		}
		listSourceEvents(cmd.OutOrStdout(), events)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent synchronization runs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup()
		defer a.Close()

		if err := listHistory(a.db, cmd.OutOrStdout(), 20); err != nil {
			a.exit(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(syncCmd, cleanupCmd, desyncCmd, listCmd, sourceCmd, historyCmd, authCmd, resetCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app owns everything acquired at start and released at exit.
type app struct {
	config *Config
	keys   *KeyFile
	db     *sql.DB
	logger *zap.Logger
}

func setup() (*app, error) {
	config, err := readConfig(configFileName)
	if err != nil {
		return nil, err
	}

	var logFile string
	if config.General.LogFile != "" {
		logFile = config.path(config.General.LogFile)
	}
	logger := newLogger(config.General.VerbosityLevel, logFile)
	keys := readKeyFile(config.path(config.General.KeyFile), logger)

	db, err := openDB(config.path(config.General.Database))
	if err != nil {
		logger.Sync()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &app{
		config: config,
		keys:   keys,
		db:     db,
		logger: logger,
	}, nil
}

func mustSetup() *app {
	a, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return a
}

func (a *app) Close() {
	a.db.Close()
	a.logger.Sync()
}

// exit releases resources before leaving with status 1, since os.Exit skips
// deferred calls.
func (a *app) exit(err error) {
	a.logger.Error("❌ Error", zap.String("kind", string(kindOf(err))), zap.Error(err))
	a.Close()
	os.Exit(1)
}

func (a *app) source() (*NotionSource, error) {
	apiKey, err := a.keys.Require(keyNotionAPI)
	if err != nil {
		return nil, err
	}
	databaseID, err := a.keys.Require(keyDatabaseID)
	if err != nil {
		return nil, err
	}
	return NewNotionSource(apiKey, databaseID, a.config.Notion, a.logger), nil
}

func (a *app) factory() *CalendarFactory {
	return NewCalendarFactory(a.config, a.keys, a.db, a.logger, os.Stdin, os.Stdout)
}

func (a *app) reconciler(ctx context.Context) (*Reconciler, error) {
	source, err := a.source()
	if err != nil {
		return nil, err
	}
	provider, err := a.factory().CreateCalendarProvider(ctx)
	if err != nil {
		return nil, err
	}

	general := a.config.General
	return NewReconciler(source, provider, ReconcilerOptions{
		CalendarID:   general.CalendarID,
		MaxResults:   general.MaxResults,
		LookbackDays: general.LookbackDays,
		Retry:        general.retryPolicy(),
		Policy:       DefaultFailurePolicy,

		RequestsPerSecond: general.RequestsPerSecond,
	}, a.logger), nil
}

// runReport wraps a reconciler operation: the report is logged and saved,
// and an aborted run exits with status 1.
func runReport(op func(*Reconciler, context.Context) (*Report, error)) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		a := mustSetup()
		defer a.Close()

		r, err := a.reconciler(cmd.Context())
		if err != nil {
			a.exit(err)
		}

		report, err := op(r, cmd.Context())
		report.Log(a.logger)
		if saveErr := saveReport(a.db, report); saveErr != nil {
			a.logger.Warn("Unable to save run history", zap.Error(saveErr))
		}
		if err != nil {
			a.Close()
			os.Exit(1)
		}
	}
}
