package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/models"
)

// RecordStore is a mock implementation of store.RecordStore.
type RecordStore struct {
	mock.Mock
}

func (m *RecordStore) List(ctx context.Context, scope models.Scope) ([]*models.Reservation, error) {
	args := m.Called(ctx, scope)
	if recs, ok := args.Get(0).([]*models.Reservation); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecordStore) Get(ctx context.Context, uid string) (*models.Reservation, error) {
	args := m.Called(ctx, uid)
	if rec, ok := args.Get(0).(*models.Reservation); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecordStore) Upsert(ctx context.Context, records []*models.Reservation) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *RecordStore) MarkRemoved(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

// PropertyStore is a mock implementation of store.PropertyStore.
type PropertyStore struct {
	mock.Mock
}

func (m *PropertyStore) Properties(ctx context.Context) ([]*models.Property, error) {
	args := m.Called(ctx)
	if props, ok := args.Get(0).([]*models.Property); ok {
		return props, args.Error(1)
	}
	return nil, args.Error(1)
}
