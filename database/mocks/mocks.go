package mocks

import (
	"context"

	"github.com/mga-portal/database"
	"github.com/stretchr/testify/mock"
)

// RecordStore is a mock for database.RecordStore.
type RecordStore struct {
	mock.Mock
}

func (m *RecordStore) FetchCollection(ctx context.Context, source string, order database.OrderSpec, dest any) error {
	args := m.Called(ctx, source, order, dest)
	return args.Error(0)
}
