package service

import (
	"context"
	"fmt"
	"strings"

	"alcyxob/reptrack/internal/domain"
	"alcyxob/reptrack/internal/repository/cached"

	"github.com/sirupsen/logrus"
)

const firstDayName = "Day 1"

// ExerciseInput carries the fields of a new exercise.
type ExerciseInput struct {
	Name     string
	Sets     int
	Reps     int
	RestTime int
	Notes    string
}

type ProgramService interface {
	CreateProgram(ctx context.Context, trainerID, name, description string) (*domain.Program, error)
	GetProgram(ctx context.Context, programID string) (*domain.Program, error)
	ListPrograms(ctx context.Context) ([]domain.Program, error)
	ListProgramsByTrainer(ctx context.Context, trainerID string) ([]domain.Program, error)
	UpdateProgram(ctx context.Context, trainerID, programID, name, description string) (*domain.Program, error)
	DeleteProgram(ctx context.Context, trainerID, programID string) error

	AddExercise(ctx context.Context, trainerID, programID string, in ExerciseInput) (*domain.Exercise, error)
	ListExercises(ctx context.Context, programID string) ([]domain.Exercise, error)
	DeleteExercise(ctx context.Context, trainerID, exerciseID string) error

	// JoinProgram copies the program into a new workout plan owned by userID.
	JoinProgram(ctx context.Context, programID, userID string) (*domain.WorkoutPlan, error)
}

type programService struct {
	programs *cached.ProgramRepository
	users    UserLookup
	plans    WorkoutPlanService
	log      logrus.FieldLogger
}

func NewProgramService(programs *cached.ProgramRepository, users UserLookup, plans WorkoutPlanService, log logrus.FieldLogger) ProgramService {
	return &programService{programs: programs, users: users, plans: plans, log: log}
}

func (s *programService) CreateProgram(ctx context.Context, trainerID, name, description string) (*domain.Program, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: program name is required", ErrInvalidInput)
	}
	trainer, err := s.users.GetUser(ctx, trainerID)
	if err != nil {
		return nil, fmt.Errorf("load trainer: %w", err)
	}
	if trainer.Role != domain.RoleTrainer {
		return nil, ErrForbidden
	}

	p := domain.Program{
		TrainerID:   trainerID,
		TrainerName: trainer.Name,
		Name:        name,
		Description: description,
	}
	id, err := s.programs.CreateProgram(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id
	return &p, nil
}

func (s *programService) GetProgram(ctx context.Context, programID string) (*domain.Program, error) {
	return s.programs.GetProgram(ctx, programID)
}

func (s *programService) ListPrograms(ctx context.Context) ([]domain.Program, error) {
	return s.programs.ListPrograms(ctx)
}

func (s *programService) ListProgramsByTrainer(ctx context.Context, trainerID string) ([]domain.Program, error) {
	return s.programs.ListProgramsByTrainer(ctx, trainerID)
}

func (s *programService) UpdateProgram(ctx context.Context, trainerID, programID, name, description string) (*domain.Program, error) {
	p, err := s.ownedProgram(ctx, trainerID, programID)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		p.Name = name
	}
	p.Description = description
	if err := s.programs.UpdateProgram(ctx, *p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *programService) DeleteProgram(ctx context.Context, trainerID, programID string) error {
	if _, err := s.ownedProgram(ctx, trainerID, programID); err != nil {
		return err
	}
	return s.programs.DeleteProgram(ctx, programID)
}

func (s *programService) AddExercise(ctx context.Context, trainerID, programID string, in ExerciseInput) (*domain.Exercise, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: exercise name is required", ErrInvalidInput)
	}
	if in.Sets < 0 || in.Reps < 0 || in.RestTime < 0 {
		return nil, fmt.Errorf("%w: sets, reps and rest time cannot be negative", ErrInvalidInput)
	}
	if _, err := s.ownedProgram(ctx, trainerID, programID); err != nil {
		return nil, err
	}

	e := domain.Exercise{
		ProgramID: programID,
		Name:      in.Name,
		Sets:      in.Sets,
		Reps:      in.Reps,
		RestTime:  in.RestTime,
		Notes:     in.Notes,
	}
	id, err := s.programs.AddExercise(ctx, e)
	if err != nil {
		return nil, err
	}
	e.ID = id
	return &e, nil
}

func (s *programService) ListExercises(ctx context.Context, programID string) ([]domain.Exercise, error) {
	return s.programs.ListExercisesForProgram(ctx, programID)
}

func (s *programService) DeleteExercise(ctx context.Context, trainerID, exerciseID string) error {
	e, err := s.programs.GetExercise(ctx, exerciseID)
	if err != nil {
		return err
	}
	if _, err := s.ownedProgram(ctx, trainerID, e.ProgramID); err != nil {
		return err
	}
	return s.programs.DeleteExercise(ctx, exerciseID)
}

func (s *programService) JoinProgram(ctx context.Context, programID, userID string) (*domain.WorkoutPlan, error) {
	p, err := s.programs.GetProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	exercises, err := s.programs.ListExercisesForProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(exercises))
	for _, e := range exercises {
		ids = append(ids, e.ID)
	}

	plan, err := s.plans.CreatePlan(ctx, userID, WorkoutPlanInput{
		Name:        p.Name,
		Description: p.Description,
		DaysPerWeek: 1,
		Days:        []domain.WorkoutDay{{Name: firstDayName, ExerciseIDs: ids}},
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"program_id": programID, "user_id": userID, "plan_id": plan.ID}).Info("User joined program")
	return plan, nil
}

func (s *programService) ownedProgram(ctx context.Context, trainerID, programID string) (*domain.Program, error) {
	p, err := s.programs.GetProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	if p.TrainerID != trainerID {
		return nil, ErrForbidden
	}
	return p, nil
}
