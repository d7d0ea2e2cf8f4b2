package sync_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/models"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/workorder"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/workorder/mocks"
	ordersync "github.com/blindermanupwork/property-management-automation-sub007/feature/workorder/sync"
)

func reservation(jobID string) *models.Reservation {
	return &models.Reservation{
		UID:        "itrip_p1_2025-06-01_2025-06-05_smith",
		Source:     models.SourceITrip,
		PropertyID: "p1",
		Checkin:    time.Date(2025, 6, 1, 16, 0, 0, 0, time.UTC),
		Checkout:   time.Date(2025, 6, 5, 11, 0, 0, 0, time.UTC),
		EntryType:  models.EntryReservation,
		Status:     models.StatusUnchanged,
		JobID:      jobID,
	}
}

func desiredJob() *workorder.Job {
	return &workorder.Job{
		ReservationUID: "itrip_p1_2025-06-01_2025-06-05_smith",
		Description:    "Turnover STR Next Guest Unknown",
		Start:          time.Date(2025, 6, 5, 11, 15, 0, 0, time.UTC),
		End:            time.Date(2025, 6, 5, 15, 15, 0, 0, time.UTC),
		Status:         workorder.JobScheduled,
	}
}

func TestSync_CreatesMissingJob(t *testing.T) {
	jobs := new(mocks.Store)
	orch := ordersync.NewOrchestrator(jobs, zap.NewNop(), 3)

	desired := desiredJob()
	jobs.On("CreateJob", mock.Anything, desired).Return("job-1", nil).Once()

	outcome, err := orch.Sync(context.Background(), reservation(""), desired)
	require.NoError(t, err)
	assert.Equal(t, workorder.SyncSynced, outcome.Status)
	assert.Equal(t, "job-1", outcome.JobID)
	jobs.AssertExpectations(t)
}

func TestSync_RecreatesVanishedJob(t *testing.T) {
	jobs := new(mocks.Store)
	orch := ordersync.NewOrchestrator(jobs, zap.NewNop(), 3)

	desired := desiredJob()
	jobs.On("GetJob", mock.Anything, "job-1").Return(nil, workorder.ErrNotFound).Once()
	jobs.On("CreateJob", mock.Anything, desired).Return("job-2", nil).Once()

	outcome, err := orch.Sync(context.Background(), reservation("job-1"), desired)
	require.NoError(t, err)
	assert.Equal(t, workorder.SyncSynced, outcome.Status)
	assert.Equal(t, "job-2", outcome.JobID)
	jobs.AssertExpectations(t)
}

func TestSync_MatchingWindowIsSynced(t *testing.T) {
	jobs := new(mocks.Store)
	orch := ordersync.NewOrchestrator(jobs, zap.NewNop(), 3)

	desired := desiredJob()
	remote := *desired
	remote.ID = "job-1"
	jobs.On("GetJob", mock.Anything, "job-1").Return(&remote, nil).Once()

	outcome, err := orch.Sync(context.Background(), reservation("job-1"), desired)
	require.NoError(t, err)
	assert.Equal(t, workorder.SyncSynced, outcome.Status)
	jobs.AssertExpectations(t)
}

func TestSync_DriftClassification(t *testing.T) {
	tests := []struct {
		name        string
		remoteStart time.Time
		remoteEnd   time.Time
		want        workorder.SyncStatus
	}{
		{
			// Same clock time, different calendar date.
			"wrong date",
			time.Date(2025, 6, 6, 11, 15, 0, 0, time.UTC),
			time.Date(2025, 6, 6, 15, 15, 0, 0, time.UTC),
			workorder.SyncWrongDate,
		},
		{
			// Same date, different clock time.
			"wrong time",
			time.Date(2025, 6, 5, 14, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 5, 15, 15, 0, 0, time.UTC),
			workorder.SyncWrongTime,
		},
		{
			// Start agrees but the remote side stretched the window.
			"end time drift",
			time.Date(2025, 6, 5, 11, 15, 0, 0, time.UTC),
			time.Date(2025, 6, 5, 17, 0, 0, 0, time.UTC),
			workorder.SyncWrongTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := new(mocks.Store)
			orch := ordersync.NewOrchestrator(jobs, zap.NewNop(), 3)

			desired := desiredJob()
			remote := *desired
			remote.ID = "job-1"
			remote.Start = tt.remoteStart
			remote.End = tt.remoteEnd

			jobs.On("GetJob", mock.Anything, "job-1").Return(&remote, nil).Once()

			outcome, err := orch.Sync(context.Background(), reservation("job-1"), desired)
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome.Status)

			// Drift is surfaced, never auto-resolved.
			jobs.AssertNotCalled(t, "UpdateJob", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSync_DescriptionDriftPushedSilently(t *testing.T) {
	jobs := new(mocks.Store)
	orch := ordersync.NewOrchestrator(jobs, zap.NewNop(), 3)

	desired := desiredJob()
	remote := *desired
	remote.ID = "job-1"
	remote.Description = "stale line"

	jobs.On("GetJob", mock.Anything, "job-1").Return(&remote, nil).Once()
	jobs.On("UpdateJob", mock.Anything, "job-1", mock.MatchedBy(func(u workorder.JobUpdate) bool {
		return u.Description != nil && *u.Description == desired.Description && u.Start == nil
	})).Return(nil).Once()

	outcome, err := orch.Sync(context.Background(), reservation("job-1"), desired)
	require.NoError(t, err)
	assert.Equal(t, workorder.SyncSynced, outcome.Status)
	jobs.AssertExpectations(t)
}

func TestSync_RemovedReservationCancelsActiveJob(t *testing.T) {
	jobs := new(mocks.Store)
	orch := ordersync.NewOrchestrator(jobs, zap.NewNop(), 3)

	res := reservation("job-1")
	res.Status = models.StatusRemoved

	remote := desiredJob()
	remote.ID = "job-1"
	remote.Status = workorder.JobScheduled

	jobs.On("GetJob", mock.Anything, "job-1").Return(remote, nil).Once()
	jobs.On("DeleteJob", mock.Anything, "job-1").Return(nil).Once()

	outcome, err := orch.Sync(context.Background(), res, desiredJob())
	require.NoError(t, err)
	assert.Equal(t, workorder.SyncCanceled, outcome.Status)
	jobs.AssertExpectations(t)
}

func TestSync_RemovedReservationLeavesCompletedJob(t *testing.T) {
	jobs := new(mocks.Store)
	orch := ordersync.NewOrchestrator(jobs, zap.NewNop(), 3)

	res := reservation("job-1")
	res.Status = models.StatusRemoved

	remote := desiredJob()
	remote.ID = "job-1"
	remote.Status = workorder.JobCompleted

	jobs.On("GetJob", mock.Anything, "job-1").Return(remote, nil).Once()

	outcome, err := orch.Sync(context.Background(), res, desiredJob())
	require.NoError(t, err)
	assert.Equal(t, workorder.SyncCanceled, outcome.Status)
	jobs.AssertNotCalled(t, "DeleteJob", mock.Anything, mock.Anything)
}

func TestPushLocal_Converges(t *testing.T) {
	jobs := new(mocks.Store)
	orch := ordersync.NewOrchestrator(jobs, zap.NewNop(), 3)

	desired := desiredJob()
	remote := *desired
	remote.ID = "job-1"

	jobs.On("UpdateJob", mock.Anything, "job-1", mock.Anything).Return(nil).Once()
	jobs.On("GetJob", mock.Anything, "job-1").Return(&remote, nil).Once()

	outcome, err := orch.PushLocal(context.Background(), reservation("job-1"), desired)
	require.NoError(t, err)
	assert.Equal(t, workorder.SyncSynced, outcome.Status)
	jobs.AssertExpectations(t)
}

func TestPushLocal_ConflictAfterCappedAttempts(t *testing.T) {
	jobs := new(mocks.Store)
	orch := ordersync.NewOrchestrator(jobs, zap.NewNop(), 2)

	desired := desiredJob()
	stubborn := *desired
	stubborn.ID = "job-1"
	stubborn.Start = desired.Start.Add(2 * time.Hour)

	jobs.On("UpdateJob", mock.Anything, "job-1", mock.Anything).Return(nil).Twice()
	jobs.On("GetJob", mock.Anything, "job-1").Return(&stubborn, nil).Twice()

	_, err := orch.PushLocal(context.Background(), reservation("job-1"), desired)

	var conflict *ordersync.SyncConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, workorder.SyncWrongTime, conflict.Status)
	assert.Equal(t, 2, conflict.Attempts)
	jobs.AssertExpectations(t)
}

func TestAcceptRemote_ReturnsOverrideValue(t *testing.T) {
	jobs := new(mocks.Store)
	orch := ordersync.NewOrchestrator(jobs, zap.NewNop(), 3)

	remote := desiredJob()
	remote.ID = "job-1"
	remote.Start = time.Date(2025, 6, 5, 14, 30, 0, 0, time.UTC)

	jobs.On("GetJob", mock.Anything, "job-1").Return(remote, nil).Once()

	override, err := orch.AcceptRemote(context.Background(), reservation("job-1"))
	require.NoError(t, err)
	assert.Equal(t, "02:30 PM", override)
}
