package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/models"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/workorder"
)

// SyncConflictError indicates a window mismatch persisted after the capped
// number of push attempts. It is surfaced for manual review, never retried
// indefinitely.
type SyncConflictError struct {
	UID      string
	Status   workorder.SyncStatus
	Attempts int
}

func (e *SyncConflictError) Error() string {
	return fmt.Sprintf("sync: %s still %s after %d push attempts, flagged for manual review", e.UID, e.Status, e.Attempts)
}

// Outcome is the result of one sync pass for a reservation.
type Outcome struct {
	// Status is the resulting sync state.
	Status workorder.SyncStatus `json:"status"`
	// JobID is the remote job backing the reservation, when one exists.
	JobID string `json:"job_id,omitempty"`
	// Message is the operator-facing status line.
	Message string `json:"message"`
}

// Orchestrator pushes computed reservation state to the work-order store and
// detects drift between local and remote schedules. It never guesses which
// side is correct: WrongDate and WrongTime are surfaced and stay until an
// external actor resolves them with PushLocal or AcceptRemote.
type Orchestrator struct {
	jobs            workorder.Store
	logger          *zap.Logger
	maxPushAttempts int
}

// NewOrchestrator creates a sync orchestrator. maxPushAttempts caps
// PushLocal's verify-and-retry loop before a conflict is flagged for manual
// review.
func NewOrchestrator(jobs workorder.Store, logger *zap.Logger, maxPushAttempts int) *Orchestrator {
	if maxPushAttempts <= 0 {
		maxPushAttempts = 3
	}
	return &Orchestrator{jobs: jobs, logger: logger, maxPushAttempts: maxPushAttempts}
}

// Sync reconciles one reservation against its remote job. desired carries the
// computed service line and window.
//
// Transitions: NotCreated→Synced (job created); Synced→WrongDate|WrongTime
// (drift detected, surfaced, never auto-resolved); any→Canceled when the
// owning reservation is Removed and the remote job is still active (the
// remote job is deleted; the local record is retained).
func (o *Orchestrator) Sync(ctx context.Context, res *models.Reservation, desired *workorder.Job) (Outcome, error) {
	if !res.Active() {
		return o.cancel(ctx, res)
	}

	if res.JobID == "" {
		return o.create(ctx, res, desired)
	}

	remote, err := o.jobs.GetJob(ctx, res.JobID)
	if errors.Is(err, workorder.ErrNotFound) {
		// The remote side lost the job; treat as NotCreated.
		o.logger.Warn("remote job vanished, recreating",
			zap.String("uid", res.UID), zap.String("job_id", res.JobID))
		return o.create(ctx, res, desired)
	}
	if err != nil {
		return Outcome{}, err
	}

	return o.compare(ctx, res, desired, remote)
}

// PushLocal resolves a drift conflict by writing the locally computed window
// and description to the remote job, then re-reading to verify. A mismatch
// that survives the capped attempts becomes a SyncConflictError.
func (o *Orchestrator) PushLocal(ctx context.Context, res *models.Reservation, desired *workorder.Job) (Outcome, error) {
	update := workorder.JobUpdate{
		Description: &desired.Description,
		Start:       &desired.Start,
		End:         &desired.End,
	}

	var last workorder.SyncStatus
	for attempt := 1; attempt <= o.maxPushAttempts; attempt++ {
		if err := o.jobs.UpdateJob(ctx, res.JobID, update); err != nil {
			return Outcome{}, err
		}
		remote, err := o.jobs.GetJob(ctx, res.JobID)
		if err != nil {
			return Outcome{}, err
		}
		status := classifyDrift(desired, remote)
		if status == workorder.SyncSynced {
			return Outcome{
				Status:  workorder.SyncSynced,
				JobID:   res.JobID,
				Message: "Pushed local schedule - " + formatWindow(desired.Start, desired.End),
			}, nil
		}
		last = status
		o.logger.Warn("push did not converge",
			zap.String("uid", res.UID), zap.Int("attempt", attempt), zap.String("status", string(status)))
	}

	return Outcome{Status: last, JobID: res.JobID},
		&SyncConflictError{UID: res.UID, Status: last, Attempts: o.maxPushAttempts}
}

// AcceptRemote resolves a drift conflict the other way: the remote schedule
// is taken as truth and returned as a manual override value ("HH:MM AM/PM")
// for the caller to store on the reservation. Nothing is written remotely.
func (o *Orchestrator) AcceptRemote(ctx context.Context, res *models.Reservation) (string, error) {
	remote, err := o.jobs.GetJob(ctx, res.JobID)
	if err != nil {
		return "", err
	}
	return remote.Start.Format("03:04 PM"), nil
}

func (o *Orchestrator) create(ctx context.Context, res *models.Reservation, desired *workorder.Job) (Outcome, error) {
	jobID, err := o.jobs.CreateJob(ctx, desired)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Status:  workorder.SyncSynced,
		JobID:   jobID,
		Message: "Job created - " + formatWindow(desired.Start, desired.End),
	}, nil
}

func (o *Orchestrator) cancel(ctx context.Context, res *models.Reservation) (Outcome, error) {
	if res.JobID == "" {
		return Outcome{Status: workorder.SyncCanceled, Message: "Reservation removed, no remote job"}, nil
	}

	remote, err := o.jobs.GetJob(ctx, res.JobID)
	if errors.Is(err, workorder.ErrNotFound) {
		return Outcome{Status: workorder.SyncCanceled, JobID: res.JobID, Message: "Reservation removed, remote job already gone"}, nil
	}
	if err != nil {
		return Outcome{}, err
	}

	if remote.Status.Active() {
		if err := o.jobs.DeleteJob(ctx, res.JobID); err != nil {
			return Outcome{}, err
		}
		return Outcome{Status: workorder.SyncCanceled, JobID: res.JobID, Message: "Reservation removed, remote job canceled"}, nil
	}

	return Outcome{Status: workorder.SyncCanceled, JobID: res.JobID, Message: "Reservation removed, remote job inactive"}, nil
}

func (o *Orchestrator) compare(ctx context.Context, res *models.Reservation, desired *workorder.Job, remote *workorder.Job) (Outcome, error) {
	status := classifyDrift(desired, remote)
	switch status {
	case workorder.SyncWrongDate:
		return Outcome{
			Status:  workorder.SyncWrongDate,
			JobID:   res.JobID,
			Message: fmt.Sprintf("Wrong date - local %s, remote %s", desired.Start.Format("Jan 2"), remote.Start.Format("Jan 2")),
		}, nil
	case workorder.SyncWrongTime:
		return Outcome{
			Status:  workorder.SyncWrongTime,
			JobID:   res.JobID,
			Message: fmt.Sprintf("Wrong time - local %s, remote %s", desired.Start.Format("3:04 PM"), remote.Start.Format("3:04 PM")),
		}, nil
	}

	// Windows agree. The service line is locally authoritative, so a drifted
	// description is pushed without being treated as a conflict.
	if remote.Description != desired.Description {
		if err := o.jobs.UpdateJob(ctx, res.JobID, workorder.JobUpdate{Description: &desired.Description}); err != nil {
			return Outcome{}, err
		}
	}

	return Outcome{
		Status:  workorder.SyncSynced,
		JobID:   res.JobID,
		Message: "Synced - " + formatWindow(desired.Start, desired.End),
	}, nil
}

// classifyDrift compares the full windows and distinguishes date drift from
// time-of-day drift: operators resolve the two differently. A drifted end with
// a matching start is still drift (the remote side stretched or shrank the
// window).
func classifyDrift(local, remote *workorder.Job) workorder.SyncStatus {
	if !models.SameDate(local.Start, remote.Start) || !models.SameDate(local.End, remote.End) {
		return workorder.SyncWrongDate
	}
	if !sameClock(local.Start, remote.Start) || !sameClock(local.End, remote.End) {
		return workorder.SyncWrongTime
	}
	return workorder.SyncSynced
}

func sameClock(a, b time.Time) bool {
	ah, am, _ := a.Clock()
	bh, bm, _ := b.Clock()
	return ah == bh && am == bm
}

func formatWindow(start, end time.Time) string {
	return fmt.Sprintf("%s %s to %s", start.Format("Jan 2"), start.Format("3:04 PM"), end.Format("3:04 PM"))
}
