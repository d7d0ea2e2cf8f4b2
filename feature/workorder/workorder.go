package workorder

import (
	"context"
	"errors"
	"time"
)

// JobStatus is the work-order store's own job lifecycle state.
type JobStatus string

const (
	JobUnscheduled JobStatus = "unscheduled"
	JobScheduled   JobStatus = "scheduled"
	JobInProgress  JobStatus = "in_progress"
	JobCompleted   JobStatus = "completed"
	JobCanceled    JobStatus = "canceled"
)

// Active reports whether the job still represents scheduled work.
func (s JobStatus) Active() bool {
	switch s {
	case JobUnscheduled, JobScheduled, JobInProgress:
		return true
	default:
		return false
	}
}

// SyncStatus describes where a reservation's job sits relative to the locally
// computed state.
type SyncStatus string

const (
	// SyncNotCreated means no remote job exists yet.
	SyncNotCreated SyncStatus = "NotCreated"
	// SyncSynced means the remote job matches the computed state.
	SyncSynced SyncStatus = "Synced"
	// SyncWrongDate means the remote window is on a different calendar date.
	SyncWrongDate SyncStatus = "WrongDate"
	// SyncWrongTime means the date matches but the time of day differs.
	SyncWrongTime SyncStatus = "WrongTime"
	// SyncCanceled means the owning reservation was removed and the remote
	// job has been (or must be) canceled.
	SyncCanceled SyncStatus = "Canceled"
)

// Job is the work-order store's record shape, carrying the computed service
// line and window plus a back-reference to the owning reservation.
type Job struct {
	ID             string    `json:"id,omitempty"`
	ReservationUID string    `json:"reservation_uid"`
	Description    string    `json:"description"`
	Start          time.Time `json:"scheduled_start"`
	End            time.Time `json:"scheduled_end"`
	Status         JobStatus `json:"work_status"`
	CustomerID     string    `json:"customer_id,omitempty"`
	AddressID      string    `json:"address_id,omitempty"`
}

// JobUpdate carries the fields an update call may change. Nil fields are left
// untouched on the remote side.
type JobUpdate struct {
	Description *string    `json:"description,omitempty"`
	Start       *time.Time `json:"scheduled_start,omitempty"`
	End         *time.Time `json:"scheduled_end,omitempty"`
}

// ErrNotFound is returned when the remote store has no job with the given id.
var ErrNotFound = errors.New("workorder: job not found")

// Store is the port to the work-order platform. Implementations own rate
// limiting and transient-error retry.
type Store interface {
	// CreateJob creates a job and returns its remote id.
	CreateJob(ctx context.Context, job *Job) (string, error)
	// UpdateJob applies the non-nil fields of update to an existing job.
	UpdateJob(ctx context.Context, id string, update JobUpdate) error
	// DeleteJob cancels a job on the remote side.
	DeleteJob(ctx context.Context, id string) error
	// GetJob fetches a job's current remote state.
	GetJob(ctx context.Context, id string) (*Job, error)
}
