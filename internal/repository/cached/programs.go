package cached

import (
	"context"
	"errors"
	"fmt"

	"alcyxob/reptrack/internal/domain"
	"alcyxob/reptrack/internal/localcache"
	"alcyxob/reptrack/internal/metrics"
	"alcyxob/reptrack/internal/repository"

	"github.com/sirupsen/logrus"
)

// ProgramRepository stores programs and their exercises.
type ProgramRepository struct {
	store     repository.DocumentStore
	programs  *Reconciler[domain.Program]
	exercises *Reconciler[domain.Exercise]
}

func NewProgramRepository(store repository.DocumentStore, cacheDir string, log logrus.FieldLogger, m *metrics.Metrics) *ProgramRepository {
	return &ProgramRepository{
		store: store,
		programs: NewReconciler(store,
			localcache.New[domain.Program](cacheDir, localcache.ProgramsFile, log),
			repository.ProgramsCollection, log, m),
		exercises: NewReconciler(store,
			localcache.New[domain.Exercise](cacheDir, localcache.ExercisesFile, log),
			repository.ExercisesCollection, log, m),
	}
}

// CreateProgram assigns an ID when p has none and returns it.
func (r *ProgramRepository) CreateProgram(ctx context.Context, p domain.Program) (string, error) {
	if p.Name == "" || p.TrainerID == "" {
		return "", errors.New("program name and trainer ID are required")
	}
	if p.ID == "" {
		p.ID = r.store.NewID(repository.ProgramsCollection)
	}
	if err := r.programs.Put(ctx, p); err != nil {
		return "", err
	}
	return p.ID, nil
}

func (r *ProgramRepository) GetProgram(ctx context.Context, id string) (*domain.Program, error) {
	p, err := r.programs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProgramRepository) ListPrograms(ctx context.Context) ([]domain.Program, error) {
	return r.programs.List(ctx, nil, all[domain.Program])
}

func (r *ProgramRepository) ListProgramsByTrainer(ctx context.Context, trainerID string) ([]domain.Program, error) {
	return r.programs.List(ctx, repository.Filter{"trainerId": trainerID}, func(p domain.Program) bool {
		return p.TrainerID == trainerID
	})
}

// UpdateProgram rewrites the editable fields of an existing program.
func (r *ProgramRepository) UpdateProgram(ctx context.Context, p domain.Program) error {
	if p.ID == "" {
		return errors.New("program ID is required")
	}
	return r.programs.Update(ctx, p, map[string]any{
		"name":        p.Name,
		"description": p.Description,
		"trainerName": p.TrainerName,
	})
}

// DeleteProgram removes the program together with its exercises.
func (r *ProgramRepository) DeleteProgram(ctx context.Context, id string) error {
	var exercises []domain.Exercise
	if err := r.store.Find(ctx, repository.ExercisesCollection, repository.Filter{"programId": id}, &exercises); err != nil {
		return fmt.Errorf("list exercises of program %s: %w", id, err)
	}
	if err := r.programs.Delete(ctx, id); err != nil {
		return err
	}

	ops := make([]repository.WriteOp, 0, len(exercises))
	for _, e := range exercises {
		ops = append(ops, repository.DeleteOp(repository.ExercisesCollection, e.ID))
	}
	r.exercises.Evict(func(e domain.Exercise) bool { return e.ProgramID == id })
	if len(ops) == 0 {
		return nil
	}
	if err := r.store.Batch(ctx, ops); err != nil {
		return fmt.Errorf("delete exercises of program %s: %w", id, err)
	}
	return nil
}

func (r *ProgramRepository) AddExercise(ctx context.Context, e domain.Exercise) (string, error) {
	if e.Name == "" || e.ProgramID == "" {
		return "", errors.New("exercise name and program ID are required")
	}
	if e.ID == "" {
		e.ID = r.store.NewID(repository.ExercisesCollection)
	}
	if err := r.exercises.Put(ctx, e); err != nil {
		return "", err
	}
	return e.ID, nil
}

func (r *ProgramRepository) GetExercise(ctx context.Context, id string) (*domain.Exercise, error) {
	e, err := r.exercises.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ProgramRepository) ListExercisesForProgram(ctx context.Context, programID string) ([]domain.Exercise, error) {
	return r.exercises.List(ctx, repository.Filter{"programId": programID}, func(e domain.Exercise) bool {
		return e.ProgramID == programID
	})
}

func (r *ProgramRepository) DeleteExercise(ctx context.Context, id string) error {
	return r.exercises.Delete(ctx, id)
}
