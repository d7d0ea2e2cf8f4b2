package reconcile_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/models"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/reconcile"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/store/mocks"
)

func TestApply_RequiresConfirmation(t *testing.T) {
	records := new(mocks.RecordStore)

	result := &reconcile.Result{
		New: []*models.Reservation{res("itrip_p1_2025-06-01_2025-06-05_smith", "p1", date(2025, 6, 1, 16), date(2025, 6, 5, 11))},
	}

	written, err := reconcile.Apply(context.Background(), records, result, reconcile.Options{Confirmed: false})
	require.NoError(t, err)
	assert.Zero(t, written)

	written, err = reconcile.Apply(context.Background(), records, result, reconcile.Options{Confirmed: true, DryRun: true})
	require.NoError(t, err)
	assert.Zero(t, written)

	records.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestApply_ChunksUpserts(t *testing.T) {
	records := new(mocks.RecordStore)

	// 13 new records: two upsert calls of 10 and 3.
	result := &reconcile.Result{}
	for i := 0; i < 13; i++ {
		day := time.Date(2025, 6, 1+i, 16, 0, 0, 0, time.UTC)
		result.New = append(result.New, res("uid"+string(rune('a'+i)), "p1", day, day.AddDate(0, 0, 2)))
	}

	records.On("Upsert", mock.Anything, mock.MatchedBy(func(chunk []*models.Reservation) bool {
		return len(chunk) == 10
	})).Return(nil).Once()
	records.On("Upsert", mock.Anything, mock.MatchedBy(func(chunk []*models.Reservation) bool {
		return len(chunk) == 3
	})).Return(nil).Once()

	written, err := reconcile.Apply(context.Background(), records, result, reconcile.Options{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 13, written)
	records.AssertExpectations(t)
}

func TestApply_WritesFlagUpdates(t *testing.T) {
	records := new(mocks.RecordStore)

	// Source fields untouched, but flag computation flipped same-day turnover:
	// the row still goes out with the upserts.
	kept := res("itrip_p1_2025-06-01_2025-06-05_smith", "p1", date(2025, 6, 1, 16), date(2025, 6, 5, 11))
	kept.Status = models.StatusUnchanged
	kept.SameDayTurnover = true

	result := &reconcile.Result{
		Unchanged:   []*models.Reservation{kept},
		FlagUpdates: []*models.Reservation{kept},
	}

	records.On("Upsert", mock.Anything, []*models.Reservation{kept}).Return(nil).Once()

	written, err := reconcile.Apply(context.Background(), records, result, reconcile.Options{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 1, written)
	records.AssertExpectations(t)
}

func TestApply_PlainRemovalIsStatusUpdate(t *testing.T) {
	records := new(mocks.RecordStore)

	removed := res("itrip_p1_2025-06-01_2025-06-05_smith", "p1", date(2025, 6, 1, 16), date(2025, 6, 5, 11))
	removed.Status = models.StatusRemoved

	result := &reconcile.Result{Removed: []*models.Reservation{removed}}

	records.On("MarkRemoved", mock.Anything, removed.UID).Return(nil).Once()

	written, err := reconcile.Apply(context.Background(), records, result, reconcile.Options{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 1, written)
	records.AssertExpectations(t)
	records.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestApply_AnnotatedRemovalWritesFullRow(t *testing.T) {
	records := new(mocks.RecordStore)

	removed := res("itrip_p1_2025-06-01_2025-06-05_smith", "p1", date(2025, 6, 1, 16), date(2025, 6, 5, 11))
	removed.Status = models.StatusRemoved
	removed.ContinuedBy = "itrip_p1_2025-06-01_2025-06-08_smith"

	result := &reconcile.Result{
		Removed: []*models.Reservation{removed},
		Continuations: []reconcile.Continuation{
			{OldUID: removed.UID, NewUID: removed.ContinuedBy},
		},
	}

	// The continuation annotation must survive, so the full row is upserted
	// instead of a bare status update.
	records.On("Upsert", mock.Anything, []*models.Reservation{removed}).Return(nil).Once()

	written, err := reconcile.Apply(context.Background(), records, result, reconcile.Options{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 1, written)
	records.AssertExpectations(t)
	records.AssertNotCalled(t, "MarkRemoved", mock.Anything, mock.Anything)
}
