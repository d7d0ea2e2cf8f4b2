package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blindermanupwork/property-management-automation-sub007/core/config"
	"github.com/blindermanupwork/property-management-automation-sub007/core/database"
	"github.com/blindermanupwork/property-management-automation-sub007/core/logger"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/automation"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/models"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/reconcile"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/store"
)

var (
	reconcileSource   string
	reconcileFile     string
	reconcileProperty string
	reconcileDryRun   bool
	reconcileYes      bool
)

// reconcileCmd classifies a feed batch against the record store and applies
// the plan after confirmation. Work-order sync is out of scope here; use run
// for the full pipeline.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile a source feed against the record store",
	Long: `Reconcile a source feed against the record store without touching
work orders.

Reports each record as New, Modified, Unchanged, or Removed, with detected
continuations (identity key changes for the same stay). Nothing is written
until the plan is confirmed.

Examples:
  # Report only
  reconcile --source itrip --file report.csv --dry-run

  # Apply with interactive confirmation
  reconcile --source itrip --file report.csv

  # Apply non-interactively
  reconcile --source evolve --file bookings.csv --yes`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileSource, "source", "", "Feed source (itrip, evolve, ics)")
	reconcileCmd.Flags().StringVar(&reconcileFile, "file", "", "Path to the feed file (CSV or ICS)")
	reconcileCmd.Flags().StringVar(&reconcileProperty, "property", "", "Property name for ICS feeds")
	reconcileCmd.Flags().BoolVar(&reconcileDryRun, "dry-run", false, "Force dry-run (no writes even with --yes)")
	reconcileCmd.Flags().BoolVar(&reconcileYes, "yes", false, "Auto-confirm applying the plan (non-interactive)")
	_ = reconcileCmd.MarkFlagRequired("source")
	_ = reconcileCmd.MarkFlagRequired("file")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	source := models.Source(reconcileSource)
	if !source.IsValid() {
		return fmt.Errorf("unknown source %q (want itrip, evolve, or ics)", reconcileSource)
	}
	if source == models.SourceICS && reconcileProperty == "" {
		return fmt.Errorf("--property is required for ics feeds")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	rows, err := readFeed(source, reconcileFile, reconcileProperty)
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

	// The controller runs with sync disabled: this command only classifies
	// and writes record state.
	controller := automation.NewController(
		cfg.Automation,
		cfg.Server.Environment,
		l,
		records,
		records,
		nil,
		nil,
		"",
	)

	scope, err := controller.ScopeFor(ctx, source)
	if err != nil {
		return err
	}

	// Step 1: Plan (always dry-run first).
	l.Info("Planning reconciliation", zap.String("source", string(source)))
	result, report, err := controller.ProcessBatch(ctx, rows, scope, automation.RunOptions{
		DryRun:   true,
		SkipSync: true,
	})
	if err != nil {
		return fmt.Errorf("failed to plan reconciliation: %w", err)
	}

	// Step 2: Print report.
	printReconcilePlan(l, result, report)

	writes := len(result.New) + len(result.Modified) + len(result.Removed)
	if writes == 0 {
		l.Info("Nothing to apply.")
		return nil
	}
	if reconcileDryRun {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	// Step 3: Confirm and apply.
	if !confirmApply(writes) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	written, err := reconcile.Apply(ctx, records, result, reconcile.Options{Confirmed: true})
	if err != nil {
		return fmt.Errorf("failed to apply plan: %w", err)
	}

	l.Info("Successfully applied plan", zap.Int("written", written))
	return nil
}

// printReconcilePlan logs the classification breakdown and detected
// continuations.
func printReconcilePlan(l *zap.Logger, result *reconcile.Result, report *automation.RunReport) {
	s := result.Summary
	l.Info("Reconciliation report",
		zap.Int("batch_size", s.BatchSize),
		zap.Int("in_scope", s.InScope),
		zap.Int("new", s.New),
		zap.Int("modified", s.Modified),
		zap.Int("unchanged", s.Unchanged),
		zap.Int("removed", s.Removed),
		zap.Int("skipped", s.Skipped),
	)

	for _, cont := range result.Continuations {
		l.Info("Continuation detected",
			zap.String("old_uid", cont.OldUID),
			zap.String("new_uid", cont.NewUID),
			zap.Bool("ambiguous", cont.Ambiguous),
		)
	}

	for _, e := range report.Errors {
		l.Warn("Record error",
			zap.String("stage", e.Stage),
			zap.String("ref", e.Ref),
			zap.String("message", e.Message),
		)
	}
}

// confirmApply prompts the user for confirmation or uses the --yes flag.
func confirmApply(writes int) bool {
	if reconcileYes {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\n⚠️  About to write %d records. Type 'yes' to confirm: ", writes)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
