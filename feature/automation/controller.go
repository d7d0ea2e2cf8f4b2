package automation

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blindermanupwork/property-management-automation-sub007/core/storage"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/flags"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/models"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/normalize"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/reconcile"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/store"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/schedule"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/workorder"
	ordersync "github.com/blindermanupwork/property-management-automation-sub007/feature/workorder/sync"
)

// Controller drives one automation run: normalize a source batch, reconcile
// it against the record store snapshot, compute flags, render service lines
// and windows, and sync the results to the work-order store.
//
// A controller carries no shared mutable state beyond its injected
// collaborators, so separate environments can run concurrently.
type Controller struct {
	cfg         Config
	environment string
	logger      *zap.Logger

	records store.RecordStore
	props   store.PropertyStore
	jobs    workorder.Store

	archive storage.Client
	bucket  string

	detector *flags.Detector
	orch     *ordersync.Orchestrator
	defaults schedule.Defaults

	cache *reconcile.SnapshotCache
}

// WithSnapshotCache makes the controller invalidate the given cache after a
// run writes, so API readers never serve pre-run state.
func (c *Controller) WithSnapshotCache(cache *reconcile.SnapshotCache) *Controller {
	c.cache = cache
	return c
}

// ScopeFor builds the full reconciliation scope for a source: the source plus
// every known property.
func (c *Controller) ScopeFor(ctx context.Context, source models.Source) (models.Scope, error) {
	properties, err := c.propertyIndex(ctx)
	if err != nil {
		return models.Scope{}, err
	}
	ids := make([]string, 0, len(properties.byID))
	for id := range properties.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return models.Scope{Source: source, PropertyIDs: ids}, nil
}

// NewController wires a run controller from its collaborators. archive may be
// nil when archiving is disabled.
func NewController(
	cfg Config,
	environment string,
	logger *zap.Logger,
	records store.RecordStore,
	props store.PropertyStore,
	jobs workorder.Store,
	archive storage.Client,
	bucket string,
) *Controller {
	return &Controller{
		cfg:         cfg,
		environment: environment,
		logger:      logger,
		records:     records,
		props:       props,
		jobs:        jobs,
		archive:     archive,
		bucket:      bucket,
		detector:    flags.NewDetector(logger),
		orch:        ordersync.NewOrchestrator(jobs, logger, cfg.SyncMaxRetries),
		defaults:    schedule.StandardDefaults(),
	}
}

// RunOptions controls one ProcessBatch invocation.
type RunOptions struct {
	// DryRun plans and reports without writing anywhere.
	DryRun bool
	// SkipSync reconciles and writes the record store but leaves the
	// work-order store untouched.
	SkipSync bool
}

// ProcessBatch executes one full pass for a source batch within a scope.
//
// The snapshot is read once up front and treated as immutable for the run;
// record-store writes are buffered in the plan and applied only after the
// full reconciliation pass for the scope succeeds, so a failed run leaves
// the store exactly as it was.
//
// Callers must distinguish an empty batch caused by a fetch failure from one
// caused by zero future bookings before calling: an empty batch here marks
// every in-scope record Removed.
func (c *Controller) ProcessBatch(ctx context.Context, rows []normalize.Row, scope models.Scope, opts RunOptions) (*reconcile.Result, *RunReport, error) {
	report := &RunReport{
		RunID:       uuid.NewString(),
		Environment: c.environment,
		Scope:       scope,
		StartedAt:   time.Now().UTC(),
		DryRun:      opts.DryRun,
		Outcomes:    make(map[string]ordersync.Outcome),
		SyncCounts:  make(map[string]int),
	}
	defer func() { report.FinishedAt = time.Now().UTC() }()

	properties, err := c.propertyIndex(ctx)
	if err != nil {
		return nil, report, err
	}

	batch := c.normalizeRows(rows, scope.Source, properties, report)

	snapshot, err := reconcile.Take(ctx, c.records, scope)
	if err != nil {
		return nil, report, err
	}

	result, err := reconcile.Plan(batch, snapshot.Records, scope)
	if err != nil {
		// Scope-level abort: nothing has been written, other scopes are
		// unaffected.
		return nil, report, err
	}
	report.Summary = result.Summary

	c.computeFlags(ctx, result, report)

	written, err := reconcile.Apply(ctx, c.records, result, reconcile.Options{
		DryRun:    opts.DryRun,
		Confirmed: true,
	})
	report.Written = written
	if err != nil {
		return result, report, err
	}

	if !opts.DryRun && !opts.SkipSync {
		c.syncAll(ctx, result, properties, report)
	}

	c.archiveRun(ctx, report, rows)

	if !opts.DryRun && c.cache != nil {
		c.cache.Invalidate(scope)
	}

	c.logger.Info("batch processed",
		zap.String("run_id", report.RunID),
		zap.String("source", string(scope.Source)),
		zap.Int("new", report.Summary.New),
		zap.Int("modified", report.Summary.Modified),
		zap.Int("unchanged", report.Summary.Unchanged),
		zap.Int("removed", report.Summary.Removed),
		zap.Int("errors", len(report.Errors)),
	)

	return result, report, nil
}

// RenderServiceLine composes the bounded-length service line for a
// reservation from its property's base service name, its custom
// instructions, and its computed flags.
func (c *Controller) RenderServiceLine(ctx context.Context, res *models.Reservation) (string, error) {
	properties, err := c.propertyIndex(ctx)
	if err != nil {
		return "", err
	}
	prop, ok := properties.byID[res.PropertyID]
	if !ok {
		return "", fmt.Errorf("automation: unknown property %q", res.PropertyID)
	}
	return schedule.AssembleServiceLine(prop.ServiceName, res.CustomInstructions, flagsOf(res)), nil
}

// ComputeSchedule derives the service window for a reservation. A malformed
// manual override is reported through the returned error while the computed
// window is still usable.
func (c *Controller) ComputeSchedule(ctx context.Context, res *models.Reservation) (schedule.Window, error) {
	properties, err := c.propertyIndex(ctx)
	if err != nil {
		return schedule.Window{}, err
	}
	return c.windowFor(res, properties)
}

// SyncReservation pushes one reservation's computed state to the work-order
// store and reports the outcome.
func (c *Controller) SyncReservation(ctx context.Context, res *models.Reservation) (ordersync.Outcome, error) {
	properties, err := c.propertyIndex(ctx)
	if err != nil {
		return ordersync.Outcome{}, err
	}
	desired, err := c.desiredJob(res, properties)
	if err != nil {
		return ordersync.Outcome{}, err
	}
	return c.orch.Sync(ctx, res, desired)
}

// normalizeRows maps raw rows to canonical reservations, collecting
// record-level errors. A single bad record never aborts the batch.
func (c *Controller) normalizeRows(rows []normalize.Row, source models.Source, properties *propertyIndex, report *RunReport) []*models.Reservation {
	normalizer := normalize.New(properties, c.logger)
	mapRow, ok := normalizer.ForSource(source)
	if !ok {
		report.addError("normalize", string(source), fmt.Errorf("unknown source %q", source))
		return nil
	}

	batch := make([]*models.Reservation, 0, len(rows))
	for i, row := range rows {
		res, err := mapRow(row)
		if err == normalize.ErrCanceled {
			// Canceled at source: absence from the batch is what marks the
			// stored record Removed.
			continue
		}
		if err != nil {
			ref := "row " + strconv.Itoa(i+1)
			report.addError("normalize", ref, err)
			c.logger.Warn("skipping record", zap.String("ref", ref), zap.Error(err))
			continue
		}
		batch = append(batch, res)
	}
	return batch
}

// computeFlags derives turnover, long-term, and owner-arrival flags for every
// active record in the pass. The sibling set spans all sources at a property:
// a Block from an ICS feed still suppresses the long-term flag of an iTrip
// reservation at the same property.
func (c *Controller) computeFlags(ctx context.Context, result *reconcile.Result, report *RunReport) {
	siblings := make(map[string]*models.Reservation)

	crossSource, err := c.records.List(ctx, models.Scope{PropertyIDs: result.PropertyIDs()})
	if err != nil {
		// Degrade to pass-local siblings rather than aborting the run.
		report.addError("flags", "siblings", err)
	} else {
		for _, r := range crossSource {
			if r.Active() {
				siblings[r.UID] = r
			}
		}
	}

	// The current pass's state wins over the stored snapshot.
	for _, r := range result.Records() {
		if r.Active() {
			siblings[r.UID] = r
		} else {
			delete(siblings, r.UID)
		}
	}

	byProperty := make(map[string][]*models.Reservation)
	for _, r := range siblings {
		byProperty[r.PropertyID] = append(byProperty[r.PropertyID], r)
	}

	for _, r := range result.Records() {
		if !r.Active() || r.EntryType != models.EntryReservation {
			continue
		}
		prev := flagsOf(r)
		f := c.detector.Compute(r, byProperty[r.PropertyID])
		f.Apply(r)

		// An Unchanged record whose flags flipped still needs a write: a new
		// arrival in this batch can turn an existing stay into a same-day
		// turnover, and the stored row must reflect that.
		if r.Status == models.StatusUnchanged && !f.Equal(prev) {
			result.FlagUpdates = append(result.FlagUpdates, r)
		}
	}
}

// syncAll pushes every active reservation's job and cancels jobs for removed
// ones. Conflicts are surfaced, counted, and left for the operator.
func (c *Controller) syncAll(ctx context.Context, result *reconcile.Result, properties *propertyIndex, report *RunReport) {
	var jobLinkUpdates []*models.Reservation

	for _, res := range result.Records() {
		if res.EntryType != models.EntryReservation {
			continue
		}

		desired, err := c.desiredJob(res, properties)
		if err != nil {
			report.addError("sync", res.UID, err)
			continue
		}

		outcome, err := c.orch.Sync(ctx, res, desired)
		if err != nil {
			report.addError("sync", res.UID, err)
			continue
		}
		report.Outcomes[res.UID] = outcome
		report.SyncCounts[string(outcome.Status)]++

		if outcome.JobID != "" && outcome.JobID != res.JobID {
			res.JobID = outcome.JobID
			jobLinkUpdates = append(jobLinkUpdates, res)
		}
	}

	for _, chunk := range store.Chunk(jobLinkUpdates) {
		if err := c.records.Upsert(ctx, chunk); err != nil {
			report.addError("sync", "job links", err)
			return
		}
	}
}

// desiredJob renders the work-order job a reservation should have: the
// assembled service line, the computed window, and the property's customer
// and address references.
func (c *Controller) desiredJob(res *models.Reservation, properties *propertyIndex) (*workorder.Job, error) {
	prop, ok := properties.byID[res.PropertyID]
	if !ok {
		return nil, fmt.Errorf("automation: unknown property %q", res.PropertyID)
	}

	window, err := c.windowFor(res, properties)
	if err != nil {
		// ScheduleParseError: the computed window is still valid; report the
		// malformed override rather than dropping the job.
		c.logger.Warn("falling back to computed window",
			zap.String("uid", res.UID), zap.Error(err))
	}

	return &workorder.Job{
		ReservationUID: res.UID,
		Description:    schedule.AssembleServiceLine(prop.ServiceName, res.CustomInstructions, flagsOf(res)),
		Start:          window.Start,
		End:            window.End,
		Status:         workorder.JobScheduled,
		CustomerID:     prop.CustomerID,
		AddressID:      prop.AddressID,
	}, nil
}

func (c *Controller) windowFor(res *models.Reservation, properties *propertyIndex) (schedule.Window, error) {
	checkout := res.Checkout
	if prop, ok := properties.byID[res.PropertyID]; ok && prop.CheckoutTime != "" {
		if t, err := time.Parse("15:04", prop.CheckoutTime); err == nil {
			day := models.DateOf(res.Checkout)
			checkout = day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
		}
	}
	return schedule.ComputeWindow(checkout, c.defaults, res.SameDayTurnover, res.CustomServiceTime)
}

// archiveRun persists the run report and the raw batch rows for audit.
// Archive failures are reported but never fail the run.
func (c *Controller) archiveRun(ctx context.Context, report *RunReport, rows []normalize.Row) {
	if !c.cfg.ArchiveEnabled || c.archive == nil {
		return
	}
	if err := archiveJSON(ctx, c.archive, c.bucket, report.objectName("report"), report); err != nil {
		c.logger.Warn("failed to archive run report", zap.Error(err))
	}
	if err := archiveJSON(ctx, c.archive, c.bucket, report.objectName("batch"), rows); err != nil {
		c.logger.Warn("failed to archive raw batch", zap.Error(err))
	}
}

// propertyIndex loads the property table and indexes it both ways.
type propertyIndex struct {
	byID   map[string]*models.Property
	byName map[string]string
}

// ResolveProperty implements normalize.PropertyResolver by exact name match.
func (p *propertyIndex) ResolveProperty(name string) (string, bool) {
	id, ok := p.byName[name]
	return id, ok
}

func (c *Controller) propertyIndex(ctx context.Context) (*propertyIndex, error) {
	props, err := c.props.Properties(ctx)
	if err != nil {
		return nil, fmt.Errorf("automation: load properties: %w", err)
	}
	idx := &propertyIndex{
		byID:   make(map[string]*models.Property, len(props)),
		byName: make(map[string]string, len(props)),
	}
	for _, p := range props {
		idx.byID[p.ID] = p
		idx.byName[p.Name] = p.ID
	}
	return idx, nil
}

func flagsOf(res *models.Reservation) flags.Flags {
	return flags.Flags{
		SameDayTurnover: res.SameDayTurnover,
		LongTermGuest:   res.LongTermGuest,
		OwnerArriving:   res.OwnerArriving,
		NextGuestDate:   res.NextGuestDate,
	}
}
