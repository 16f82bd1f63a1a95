package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuditTrail struct {
	mock.Mock
}

func (m *mockAuditTrail) CountCreatedAfter(ctx context.Context, q DB, after time.Time) (int64, error) {
	args := m.Called(ctx, q, after)
	return args.Get(0).(int64), args.Error(1)
}

func TestChangeDetector_NoPreviousBackupAlwaysChanged(t *testing.T) {
	audit := &mockAuditTrail{}
	d := NewChangeDetector(audit)

	changed, err := d.HasChangesSince(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.True(t, changed)
	audit.AssertNotCalled(t, "CountCreatedAfter", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeDetector_CountsAfterLastBackup(t *testing.T) {
	last := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		count int64
		want  bool
	}{
		{"no changes", 0, false},
		{"one change", 1, true},
		{"many changes", 42, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audit := &mockAuditTrail{}
			tx := &mockTx{}
			audit.On("CountCreatedAfter", mock.Anything, tx, last).Return(tt.count, nil)

			changed, err := NewChangeDetector(audit).HasChangesSince(context.Background(), tx, &last)
			require.NoError(t, err)
			assert.Equal(t, tt.want, changed)
			audit.AssertExpectations(t)
		})
	}
}

func TestChangeDetector_PropagatesError(t *testing.T) {
	last := time.Now()
	audit := &mockAuditTrail{}
	audit.On("CountCreatedAfter", mock.Anything, nil, last).Return(int64(0), errors.New("db down"))

	_, err := NewChangeDetector(audit).HasChangesSince(context.Background(), nil, &last)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count changes since")
}
