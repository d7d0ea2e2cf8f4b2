package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blindermanupwork/property-management-automation-sub007/core/config"
	"github.com/blindermanupwork/property-management-automation-sub007/core/database"
	"github.com/blindermanupwork/property-management-automation-sub007/core/logger"
	"github.com/blindermanupwork/property-management-automation-sub007/core/storage"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/automation"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/models"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/normalize"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/store"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/workorder"
)

var (
	runSource   string
	runFile     string
	runProperty string
	runDryRun   bool
	runSkipSync bool
)

// runCmd ingests one source feed file and executes the full pipeline.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the automation pipeline for one source feed",
	Long: `Ingest a source feed file, reconcile it against the record store,
compute flags, and sync work orders.

The scope of the run is the source across every known property: records the
feed no longer contains are marked Removed. An empty feed file therefore
removes everything for the source, so never point this at a partial export.

Examples:
  # Full run from an iTrip CSV export
  run --source itrip --file report.csv

  # Plan only, no writes anywhere
  run --source evolve --file bookings.csv --dry-run

  # ICS feeds are per property
  run --source ics --file calendar.ics --property "Desert Rose Villa"`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().StringVar(&runSource, "source", "", "Feed source (itrip, evolve, ics)")
	runCmd.Flags().StringVar(&runFile, "file", "", "Path to the feed file (CSV or ICS)")
	runCmd.Flags().StringVar(&runProperty, "property", "", "Property name for ICS feeds")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Plan and report without writing")
	runCmd.Flags().BoolVar(&runSkipSync, "skip-sync", false, "Write the record store but skip work-order sync")
	_ = runCmd.MarkFlagRequired("source")
	_ = runCmd.MarkFlagRequired("file")

	RootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	source := models.Source(runSource)
	if !source.IsValid() {
		return fmt.Errorf("unknown source %q (want itrip, evolve, or ics)", runSource)
	}
	if source == models.SourceICS && runProperty == "" {
		return fmt.Errorf("--property is required for ics feeds")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.Server.IsValidEnvironment() {
		return fmt.Errorf("unknown environment %q", cfg.Server.Environment)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()
	l = l.With(zap.String("environment", cfg.Server.Environment))

	rows, err := readFeed(source, runFile, runProperty)
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	records := store.NewGormStore(db)
	if err := records.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate record tables: %w", err)
	}

	var archive storage.Client
	if cfg.Automation.ArchiveEnabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			l.Warn("Archive storage unavailable", zap.Error(err))
		} else {
			if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket); err != nil {
				l.Warn("Archive bucket unavailable", zap.Error(err))
			} else {
				archive = client
			}
		}
	}

	jobs := workorder.NewClient(cfg.Workorder)
	controller := automation.NewController(
		cfg.Automation,
		cfg.Server.Environment,
		l,
		records,
		records,
		jobs,
		archive,
		cfg.Storage.Bucket,
	)

	scope, err := controller.ScopeFor(ctx, source)
	if err != nil {
		return err
	}

	result, report, err := controller.ProcessBatch(ctx, rows, scope, automation.RunOptions{
		DryRun:   runDryRun,
		SkipSync: runSkipSync,
	})
	if report != nil {
		printRunReport(l, report)
	}
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	if runDryRun {
		l.Info("Dry-run mode: no changes were made",
			zap.Int("would_write", len(result.New)+len(result.Modified)+len(result.Removed)))
	}
	return nil
}

// readFeed parses the feed file into rows for the source's normalizer.
func readFeed(source models.Source, path, property string) ([]normalize.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed file: %w", err)
	}
	defer f.Close()

	if source == models.SourceICS {
		return automation.ParseICS(f, property)
	}
	return automation.ParseCSV(f)
}

// printRunReport logs the run outcome using the structured logger.
func printRunReport(l *zap.Logger, report *automation.RunReport) {
	l.Info("Run report",
		zap.String("run_id", report.RunID),
		zap.String("source", string(report.Scope.Source)),
		zap.Int("batch_size", report.Summary.BatchSize),
		zap.Int("new", report.Summary.New),
		zap.Int("modified", report.Summary.Modified),
		zap.Int("unchanged", report.Summary.Unchanged),
		zap.Int("removed", report.Summary.Removed),
		zap.Int("continuations", report.Summary.Continuations),
		zap.Int("written", report.Written),
	)

	for status, count := range report.SyncCounts {
		l.Info("Sync outcome", zap.String("status", status), zap.Int("count", count))
	}

	// Show a sample of record-level errors (max 5 for logger).
	maxShow := 5
	if len(report.Errors) < maxShow {
		maxShow = len(report.Errors)
	}
	for i := 0; i < maxShow; i++ {
		e := report.Errors[i]
		l.Warn("Record error",
			zap.String("stage", e.Stage),
			zap.String("ref", e.Ref),
			zap.String("message", e.Message),
		)
	}
	if len(report.Errors) > maxShow {
		l.Warn("Additional record errors not shown", zap.Int("count", len(report.Errors)-maxShow))
	}
}
