package service

import (
	"context"
	"testing"

	"alcyxob/reptrack/internal/domain"
	"alcyxob/reptrack/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlans(env *testEnv) *workoutPlanService {
	s := NewWorkoutPlanService(env.store).(*workoutPlanService)
	s.now = env.clock.Now
	return s
}

func TestWorkoutPlanMembership(t *testing.T) {
	env := newTestEnv(t)
	plans := newPlans(env)
	ctx := context.Background()
	creator := env.seedUser(t, "Creator", domain.RoleTrainee)
	joiner := env.seedUser(t, "Joiner", domain.RoleTrainee)

	five := 5
	plan, err := plans.CreatePlan(ctx, creator, WorkoutPlanInput{
		Name:        "Push Pull Legs",
		DaysPerWeek: 3,
		FocusAreas:  []string{"strength"},
		Days: []domain.WorkoutDay{{
			Name:        "Push",
			ExerciseIDs: []string{"bench"},
			Overrides:   map[string]domain.ExerciseOverride{"bench": {Reps: &five}},
		}},
	})
	require.NoError(t, err)
	own, err := plans.CreatePlan(ctx, joiner, WorkoutPlanInput{Name: "Mine"})
	require.NoError(t, err)

	require.NoError(t, plans.JoinPlan(ctx, plan.ID, joiner))
	require.NoError(t, plans.JoinPlan(ctx, plan.ID, joiner))

	got, err := plans.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{joiner}, got.JoinedUserIDs)
	assert.True(t, got.HasMember(joiner))
	require.Len(t, got.Days, 1)
	require.NotNil(t, got.Days[0].Overrides["bench"].Reps)
	assert.Equal(t, 5, *got.Days[0].Overrides["bench"].Reps)

	mine, err := plans.ListForUser(ctx, joiner)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, own.ID, mine[0].ID, "newest first")

	require.NoError(t, plans.LeavePlan(ctx, plan.ID, joiner))
	mine, err = plans.ListForUser(ctx, joiner)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := plans.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assert.ErrorIs(t, plans.DeletePlan(ctx, joiner, plan.ID), ErrForbidden)
	require.NoError(t, plans.DeletePlan(ctx, creator, plan.ID))
	_, err = plans.GetPlan(ctx, plan.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, plans.JoinPlan(ctx, "missing", joiner), repository.ErrNotFound)
}

func TestWorkoutPlanValidation(t *testing.T) {
	env := newTestEnv(t)
	plans := newPlans(env)
	_, err := plans.CreatePlan(context.Background(), "u", WorkoutPlanInput{Name: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = plans.CreatePlan(context.Background(), "u", WorkoutPlanInput{Name: "x", DaysPerWeek: 8})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
