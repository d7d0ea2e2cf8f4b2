package reservation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/blindermanupwork/property-management-automation-sub007/feature/automation"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/models"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/normalize"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/reconcile"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/store"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/schedule"
	ordersync "github.com/blindermanupwork/property-management-automation-sub007/feature/workorder/sync"
)

// Service exposes reservation reads and single-record operations to the HTTP
// API. Reads go through a snapshot cache; writes go through the run
// controller, which invalidates the cache after applying.
type Service struct {
	logger     *zap.Logger
	records    store.RecordStore
	cache      *reconcile.SnapshotCache
	controller *automation.Controller
}

// NewService creates the reservation API service.
func NewService(logger *zap.Logger, records store.RecordStore, controller *automation.Controller, snapshotTTL time.Duration) *Service {
	cache := reconcile.NewSnapshotCache(records, snapshotTTL)
	controller.WithSnapshotCache(cache)
	return &Service{
		logger:     logger,
		records:    records,
		cache:      cache,
		controller: controller,
	}
}

// List returns the reservations in a scope, served from the snapshot cache.
func (s *Service) List(ctx context.Context, scope models.Scope) ([]*models.Reservation, error) {
	snap, err := s.cache.Get(ctx, scope)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Reservation, 0, len(snap.Records))
	for _, r := range snap.Records {
		out = append(out, r)
	}
	return out, nil
}

// Get returns one reservation by uid.
func (s *Service) Get(ctx context.Context, uid string) (*models.Reservation, error) {
	return s.records.Get(ctx, uid)
}

// DryRunReconcile plans a batch against the current store state without
// writing anywhere. The scope covers the source across every known property.
func (s *Service) DryRunReconcile(ctx context.Context, source models.Source, rows []normalize.Row) (*reconcile.Result, *automation.RunReport, error) {
	scope, err := s.controller.ScopeFor(ctx, source)
	if err != nil {
		return nil, nil, err
	}
	return s.controller.ProcessBatch(ctx, rows, scope, automation.RunOptions{DryRun: true})
}

// ServiceLine renders the bounded service line for one reservation.
func (s *Service) ServiceLine(ctx context.Context, uid string) (string, error) {
	res, err := s.records.Get(ctx, uid)
	if err != nil {
		return "", err
	}
	return s.controller.RenderServiceLine(ctx, res)
}

// Schedule computes the service window for one reservation. A malformed
// manual override is reported alongside the computed fallback window.
func (s *Service) Schedule(ctx context.Context, uid string) (schedule.Window, error) {
	res, err := s.records.Get(ctx, uid)
	if err != nil {
		return schedule.Window{}, err
	}
	return s.controller.ComputeSchedule(ctx, res)
}

// Sync pushes one reservation's computed state to the work-order store.
func (s *Service) Sync(ctx context.Context, uid string) (ordersync.Outcome, error) {
	res, err := s.records.Get(ctx, uid)
	if err != nil {
		return ordersync.Outcome{}, err
	}
	outcome, err := s.controller.SyncReservation(ctx, res)
	if err != nil {
		return outcome, err
	}
	if outcome.JobID != "" && outcome.JobID != res.JobID {
		res.JobID = outcome.JobID
		if err := s.records.Upsert(ctx, []*models.Reservation{res}); err != nil {
			return outcome, err
		}
	}
	return outcome, nil
}
