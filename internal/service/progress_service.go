package service

import (
	"context"
	"fmt"
	"time"

	"alcyxob/reptrack/internal/domain"
	"alcyxob/reptrack/internal/repository/cached"
)

// ProgressInput is one performed set. A zero Date means now.
type ProgressInput struct {
	ExerciseID string
	Date       int64
	Weight     float64
	RepsDone   int
	Notes      string
}

type ProgressService interface {
	LogProgress(ctx context.Context, userID string, in ProgressInput) (*domain.ProgressLog, error)
	History(ctx context.Context, userID string) ([]domain.ProgressLog, error)
	ExerciseHistory(ctx context.Context, userID, exerciseID string) ([]domain.ProgressLog, error)
}

type progressService struct {
	logs *cached.ProgressRepository
	now  func() time.Time
}

func NewProgressService(logs *cached.ProgressRepository) ProgressService {
	return &progressService{logs: logs, now: time.Now}
}

func (s *progressService) LogProgress(ctx context.Context, userID string, in ProgressInput) (*domain.ProgressLog, error) {
	if in.ExerciseID == "" {
		return nil, fmt.Errorf("%w: exercise is required", ErrInvalidInput)
	}
	if in.Weight < 0 || in.RepsDone < 0 {
		return nil, fmt.Errorf("%w: weight and reps cannot be negative", ErrInvalidInput)
	}
	if in.Date == 0 {
		in.Date = s.now().UnixMilli()
	}

	l := domain.ProgressLog{
		UserID:     userID,
		ExerciseID: in.ExerciseID,
		Date:       in.Date,
		Weight:     in.Weight,
		RepsDone:   in.RepsDone,
		Notes:      in.Notes,
	}
	id, err := s.logs.LogProgress(ctx, l)
	if err != nil {
		return nil, err
	}
	l.ID = id
	return &l, nil
}

func (s *progressService) History(ctx context.Context, userID string) ([]domain.ProgressLog, error) {
	return s.logs.ListForUser(ctx, userID)
}

func (s *progressService) ExerciseHistory(ctx context.Context, userID, exerciseID string) ([]domain.ProgressLog, error) {
	return s.logs.ListForExercise(ctx, userID, exerciseID)
}
