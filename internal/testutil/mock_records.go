//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/maze-escape/internal/storage"
)

// MockRecordStore is a mock escape record store.
type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) Save(ctx context.Context, r *storage.Record) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRecordStore) Rank(ctx context.Context, id string, rows, cols int) (int64, error) {
	args := m.Called(ctx, id, rows, cols)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordStore) Best(ctx context.Context, rows, cols, limit int) ([]storage.RankedRecord, error) {
	args := m.Called(ctx, rows, cols, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.RankedRecord), args.Error(1)
}

func (m *MockRecordStore) Escapes(ctx context.Context, rows, cols int) (int64, error) {
	args := m.Called(ctx, rows, cols)
	return args.Get(0).(int64), args.Error(1)
}
