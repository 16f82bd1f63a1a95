package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	"github.com/edvin/hrbank/internal/activity"
)

func TestTypedActivityError(t *testing.T) {
	assert.NoError(t, typedActivityError("PerformScheduledBackup", nil))

	err := typedActivityError("PerformScheduledBackup", errors.New("boom"))
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "PerformScheduledBackup", appErr.Type())
	assert.False(t, appErr.NonRetryable())

	typed := temporal.NewNonRetryableApplicationError("busy", activity.ErrTypeBackupConflict, nil)
	assert.Same(t, typed, typedActivityError("PerformScheduledBackup", typed))
}
