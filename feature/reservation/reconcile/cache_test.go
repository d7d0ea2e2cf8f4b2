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

func TestTake_FreshSnapshot(t *testing.T) {
	records := new(mocks.RecordStore)
	stored := res("itrip_p1_2025-06-01_2025-06-05_smith", "p1", date(2025, 6, 1, 16), date(2025, 6, 5, 11))

	records.On("List", mock.Anything, testScope).Return([]*models.Reservation{stored}, nil)

	snap, err := reconcile.Take(context.Background(), records, testScope)
	require.NoError(t, err)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, stored, snap.Records[stored.UID])
}

func TestSnapshotCache_ServesCachedUntilInvalidated(t *testing.T) {
	records := new(mocks.RecordStore)
	stored := res("itrip_p1_2025-06-01_2025-06-05_smith", "p1", date(2025, 6, 1, 16), date(2025, 6, 5, 11))

	records.On("List", mock.Anything, testScope).Return([]*models.Reservation{stored}, nil).Twice()

	cache := reconcile.NewSnapshotCache(records, time.Minute)

	first, err := cache.Get(context.Background(), testScope)
	require.NoError(t, err)
	second, err := cache.Get(context.Background(), testScope)
	require.NoError(t, err)
	assert.Same(t, first, second, "second read is served from cache")

	cache.Invalidate(testScope)

	third, err := cache.Get(context.Background(), testScope)
	require.NoError(t, err)
	assert.NotSame(t, first, third, "invalidation forces a rebuild")

	records.AssertExpectations(t)
}

func TestSnapshotCache_ZeroTTLAlwaysFresh(t *testing.T) {
	records := new(mocks.RecordStore)
	records.On("List", mock.Anything, testScope).Return([]*models.Reservation{}, nil).Twice()

	cache := reconcile.NewSnapshotCache(records, 0)

	_, err := cache.Get(context.Background(), testScope)
	require.NoError(t, err)
	_, err = cache.Get(context.Background(), testScope)
	require.NoError(t, err)

	records.AssertExpectations(t)
}

func TestSnapshotCache_ScopesDoNotCollide(t *testing.T) {
	records := new(mocks.RecordStore)

	other := models.Scope{Source: models.SourceEvolve, PropertyIDs: []string{"p1", "p2"}}
	records.On("List", mock.Anything, testScope).Return([]*models.Reservation{}, nil).Once()
	records.On("List", mock.Anything, other).Return([]*models.Reservation{}, nil).Once()

	cache := reconcile.NewSnapshotCache(records, time.Minute)

	_, err := cache.Get(context.Background(), testScope)
	require.NoError(t, err)
	_, err = cache.Get(context.Background(), other)
	require.NoError(t, err)

	records.AssertExpectations(t)
}
