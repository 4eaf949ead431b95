package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"alcyxob/reptrack/internal/domain"
	"alcyxob/reptrack/internal/repository"
)

// WorkoutPlanInput carries the fields a user chooses when building a plan.
type WorkoutPlanInput struct {
	Name        string
	Description string
	DaysPerWeek int
	FocusAreas  []string
	RestDays    []string
	Days        []domain.WorkoutDay
}

type WorkoutPlanService interface {
	CreatePlan(ctx context.Context, creatorID string, in WorkoutPlanInput) (*domain.WorkoutPlan, error)
	GetPlan(ctx context.Context, planID string) (*domain.WorkoutPlan, error)
	// ListForUser returns the plans the user created or joined, newest first.
	ListForUser(ctx context.Context, userID string) ([]domain.WorkoutPlan, error)
	ListAll(ctx context.Context) ([]domain.WorkoutPlan, error)
	JoinPlan(ctx context.Context, planID, userID string) error
	LeavePlan(ctx context.Context, planID, userID string) error
	DeletePlan(ctx context.Context, userID, planID string) error
}

type workoutPlanService struct {
	store repository.DocumentStore
	now   func() time.Time
}

func NewWorkoutPlanService(store repository.DocumentStore) WorkoutPlanService {
	return &workoutPlanService{store: store, now: time.Now}
}

func (s *workoutPlanService) CreatePlan(ctx context.Context, creatorID string, in WorkoutPlanInput) (*domain.WorkoutPlan, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: plan name is required", ErrInvalidInput)
	}
	if in.DaysPerWeek < 0 || in.DaysPerWeek > 7 {
		return nil, fmt.Errorf("%w: days per week must be between 0 and 7", ErrInvalidInput)
	}

	plan := domain.WorkoutPlan{
		ID:            s.store.NewID(repository.WorkoutPlansCollection),
		CreatorID:     creatorID,
		Name:          in.Name,
		Description:   in.Description,
		DaysPerWeek:   in.DaysPerWeek,
		FocusAreas:    nonNil(in.FocusAreas),
		RestDays:      nonNil(in.RestDays),
		Days:          in.Days,
		JoinedUserIDs: []string{},
		CreatedAt:     s.now().UTC(),
	}
	if plan.Days == nil {
		plan.Days = []domain.WorkoutDay{}
	}
	for i := range plan.Days {
		plan.Days[i].ExerciseIDs = nonNil(plan.Days[i].ExerciseIDs)
	}
	if err := s.store.Create(ctx, repository.WorkoutPlansCollection, plan.ID, plan); err != nil {
		return nil, fmt.Errorf("create workout plan: %w", err)
	}
	return &plan, nil
}

func (s *workoutPlanService) GetPlan(ctx context.Context, planID string) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	if err := s.store.GetByID(ctx, repository.WorkoutPlansCollection, planID, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *workoutPlanService) ListForUser(ctx context.Context, userID string) ([]domain.WorkoutPlan, error) {
	var created, joined []domain.WorkoutPlan
	if err := s.store.Find(ctx, repository.WorkoutPlansCollection, repository.Filter{"creatorId": userID}, &created); err != nil {
		return nil, err
	}
	if err := s.store.Find(ctx, repository.WorkoutPlansCollection, repository.Filter{"joinedUserIds": userID}, &joined); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(created)+len(joined))
	plans := make([]domain.WorkoutPlan, 0, len(created)+len(joined))
	for _, p := range append(created, joined...) {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		plans = append(plans, p)
	}
	sortNewestFirst(plans)
	return plans, nil
}

func (s *workoutPlanService) ListAll(ctx context.Context) ([]domain.WorkoutPlan, error) {
	var plans []domain.WorkoutPlan
	if err := s.store.Find(ctx, repository.WorkoutPlansCollection, nil, &plans); err != nil {
		return nil, err
	}
	sortNewestFirst(plans)
	return plans, nil
}

func (s *workoutPlanService) JoinPlan(ctx context.Context, planID, userID string) error {
	return s.store.ArrayUnion(ctx, repository.WorkoutPlansCollection, planID, "joinedUserIds", userID)
}

func (s *workoutPlanService) LeavePlan(ctx context.Context, planID, userID string) error {
	return s.store.ArrayRemove(ctx, repository.WorkoutPlansCollection, planID, "joinedUserIds", userID)
}

func (s *workoutPlanService) DeletePlan(ctx context.Context, userID, planID string) error {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return err
	}
	if plan.CreatorID != userID {
		return ErrForbidden
	}
	_, err = s.store.Delete(ctx, repository.WorkoutPlansCollection, planID)
	return err
}

func sortNewestFirst(plans []domain.WorkoutPlan) {
	sort.SliceStable(plans, func(i, j int) bool { return plans[i].CreatedAt.After(plans[j].CreatedAt) })
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
