package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/reptrack/internal/repository/cached"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogProgressDefaultsDateToNow(t *testing.T) {
	env := newTestEnv(t)
	svc := NewProgressService(cached.NewProgressRepository(env.store, t.TempDir(), env.log, nil)).(*progressService)
	fixed := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	ctx := context.Background()

	l, err := svc.LogProgress(ctx, "u1", ProgressInput{ExerciseID: "squat", Weight: 100, RepsDone: 5})
	require.NoError(t, err)
	assert.Equal(t, fixed.UnixMilli(), l.Date)

	_, err = svc.LogProgress(ctx, "u1", ProgressInput{ExerciseID: "squat", Date: fixed.Add(time.Hour).UnixMilli(), Weight: 105, RepsDone: 5})
	require.NoError(t, err)

	history, err := svc.ExerciseHistory(ctx, "u1", "squat")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 105.0, history[0].Weight)

	_, err = svc.LogProgress(ctx, "u1", ProgressInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.LogProgress(ctx, "u1", ProgressInput{ExerciseID: "squat", Weight: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
