package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of Store using testify/mock.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SaveRecord(ctx context.Context, rec Record) (Record, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(Record), args.Error(1)
}

func (m *MockStore) GetRecord(ctx context.Context, id uuid.UUID) (Record, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Record), args.Error(1)
}

func (m *MockStore) Stats(ctx context.Context) (Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(Stats), args.Error(1)
}
