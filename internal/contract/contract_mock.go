package contract

import (
	"context"
	"time"

	"github.com/huangsam/hirecast/schema"
	"github.com/stretchr/testify/mock"
)

// MockRecordSource is a mock implementation of RecordSource for testing.
type MockRecordSource struct {
	mock.Mock
}

var _ RecordSource = &MockRecordSource{} // Compile-time check

// ListApplications implements the RecordSource interface.
func (m *MockRecordSource) ListApplications(ctx context.Context, since time.Time) ([]schema.ApplicationRecord, error) {
	args := m.Called(ctx, since)
	apps, _ := args.Get(0).([]schema.ApplicationRecord)
	return apps, args.Error(1)
}

// ListRoles implements the RecordSource interface.
func (m *MockRecordSource) ListRoles(ctx context.Context) ([]schema.RoleRecord, error) {
	args := m.Called(ctx)
	roles, _ := args.Get(0).([]schema.RoleRecord)
	return roles, args.Error(1)
}

// Fingerprint implements the RecordSource interface.
func (m *MockRecordSource) Fingerprint(ctx context.Context, since time.Time) (string, error) {
	args := m.Called(ctx, since)
	return args.String(0), args.Error(1)
}

// Close implements the RecordSource interface.
func (m *MockRecordSource) Close() error {
	args := m.Called()
	return args.Error(0)
}
