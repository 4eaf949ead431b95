package cached

import (
	"context"
	"errors"
	"sort"

	"alcyxob/reptrack/internal/domain"
	"alcyxob/reptrack/internal/localcache"
	"alcyxob/reptrack/internal/metrics"
	"alcyxob/reptrack/internal/repository"

	"github.com/sirupsen/logrus"
)

// ProgressRepository stores progress logs. Lists are newest first.
type ProgressRepository struct {
	store repository.DocumentStore
	logs  *Reconciler[domain.ProgressLog]
}

func NewProgressRepository(store repository.DocumentStore, cacheDir string, log logrus.FieldLogger, m *metrics.Metrics) *ProgressRepository {
	return &ProgressRepository{
		store: store,
		logs: NewReconciler(store,
			localcache.New[domain.ProgressLog](cacheDir, localcache.ProgressLogsFile, log),
			repository.ProgressLogsCollection, log, m),
	}
}

func (r *ProgressRepository) LogProgress(ctx context.Context, l domain.ProgressLog) (string, error) {
	if l.UserID == "" || l.ExerciseID == "" {
		return "", errors.New("user ID and exercise ID are required")
	}
	if l.ID == "" {
		l.ID = r.store.NewID(repository.ProgressLogsCollection)
	}
	if err := r.logs.Put(ctx, l); err != nil {
		return "", err
	}
	return l.ID, nil
}

func (r *ProgressRepository) ListForUser(ctx context.Context, userID string) ([]domain.ProgressLog, error) {
	logs, err := r.logs.List(ctx, repository.Filter{"userId": userID}, func(l domain.ProgressLog) bool {
		return l.UserID == userID
	})
	return newestFirst(logs), err
}

func (r *ProgressRepository) ListForExercise(ctx context.Context, userID, exerciseID string) ([]domain.ProgressLog, error) {
	logs, err := r.logs.List(ctx, repository.Filter{"userId": userID, "exerciseId": exerciseID}, func(l domain.ProgressLog) bool {
		return l.UserID == userID && l.ExerciseID == exerciseID
	})
	return newestFirst(logs), err
}

func newestFirst(logs []domain.ProgressLog) []domain.ProgressLog {
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Date > logs[j].Date })
	return logs
}
