package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/blindermanupwork/property-management-automation-sub007/feature/workorder"
)

// Store is a mock implementation of workorder.Store.
type Store struct {
	mock.Mock
}

func (m *Store) CreateJob(ctx context.Context, job *workorder.Job) (string, error) {
	args := m.Called(ctx, job)
	return args.String(0), args.Error(1)
}

func (m *Store) UpdateJob(ctx context.Context, id string, update workorder.JobUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *Store) DeleteJob(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Store) GetJob(ctx context.Context, id string) (*workorder.Job, error) {
	args := m.Called(ctx, id)
	if job, ok := args.Get(0).(*workorder.Job); ok {
		return job, args.Error(1)
	}
	return nil, args.Error(1)
}
