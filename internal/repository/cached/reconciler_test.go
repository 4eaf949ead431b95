package cached

import (
	"context"
	"errors"
	"testing"

	"alcyxob/reptrack/internal/domain"
	"alcyxob/reptrack/internal/localcache"
	"alcyxob/reptrack/internal/repository"
	"alcyxob/reptrack/internal/repository/memory"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errOffline = errors.New("connection refused")

type fixture struct {
	store    *memory.Store
	dir      string
	programs *ProgramRepository
	hook     *test.Hook
	log      *logrus.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger, hook := test.NewNullLogger()
	store := memory.New()
	dir := t.TempDir()
	return &fixture{
		store:    store,
		dir:      dir,
		programs: NewProgramRepository(store, dir, logger, nil),
		hook:     hook,
		log:      logger,
	}
}

func (f *fixture) cachedPrograms() []domain.Program {
	return localcache.New[domain.Program](f.dir, localcache.ProgramsFile, f.log).All()
}

func TestCreateWritesThroughToCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	want := domain.Program{
		TrainerID:   "t1",
		TrainerName: "Coach Kim",
		Name:        "Strength",
		Description: "Five by five",
	}
	id, err := f.programs.CreateProgram(ctx, want)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	want.ID = id

	cached := f.cachedPrograms()
	require.Len(t, cached, 1)
	assert.Equal(t, want, cached[0])

	f.store.Fail(repository.ProgramsCollection, errOffline)
	got, err := f.programs.GetProgram(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestFailedCreateLeavesCacheUntouched(t *testing.T) {
	f := newFixture(t)
	f.store.Fail(repository.ProgramsCollection, errOffline)

	_, err := f.programs.CreateProgram(context.Background(), domain.Program{TrainerID: "t1", Name: "Strength"})
	assert.ErrorIs(t, err, errOffline)
	assert.Empty(t, f.cachedPrograms())
}

func TestListFallsBackToCacheWhenRemoteFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.programs.CreateProgram(ctx, domain.Program{TrainerID: "t1", Name: "A"})
	require.NoError(t, err)
	_, err = f.programs.CreateProgram(ctx, domain.Program{TrainerID: "t2", Name: "B"})
	require.NoError(t, err)

	f.store.Fail(repository.ProgramsCollection, errOffline)

	mine, err := f.programs.ListProgramsByTrainer(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "A", mine[0].Name)

	everything, err := f.programs.ListPrograms(ctx)
	require.NoError(t, err)
	assert.Len(t, everything, 2)

	require.NotNil(t, f.hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, f.hook.LastEntry().Level)
}

func TestRemoteFailureWithEmptyCacheIsUnavailable(t *testing.T) {
	f := newFixture(t)
	f.store.Fail(repository.ProgramsCollection, errOffline)

	_, err := f.programs.ListProgramsByTrainer(context.Background(), "t1")
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrRemoteUnavailable)
	assert.ErrorIs(t, err, repository.ErrLocalCacheMiss)
	assert.ErrorIs(t, err, errOffline)
	assert.Equal(t, errOffline.Error(), err.Error())

	var unavailable *repository.UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.True(t, unavailable.CacheMiss)
}

func TestEmptyRemoteAnswerIsAuthoritative(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// Seed the cache with a program the remote store no longer has.
	localcache.New[domain.Program](f.dir, localcache.ProgramsFile, f.log).
		Upsert(domain.Program{ID: "ghost", TrainerID: "t1", Name: "Gone"})

	got, err := f.programs.ListProgramsByTrainer(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, f.cachedPrograms(), "successful read replaces the cached subset")
}

func TestGetNotFoundEvictsAndDoesNotFallBack(t *testing.T) {
	f := newFixture(t)
	localcache.New[domain.Program](f.dir, localcache.ProgramsFile, f.log).
		Upsert(domain.Program{ID: "ghost", TrainerID: "t1", Name: "Gone"})

	_, err := f.programs.GetProgram(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, f.cachedPrograms())
}

func TestGetFallsBackToCachedRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, err := f.programs.CreateProgram(ctx, domain.Program{TrainerID: "t1", Name: "A"})
	require.NoError(t, err)

	f.store.Fail("", errOffline)
	p, err := f.programs.GetProgram(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "A", p.Name)

	_, err = f.programs.GetProgram(ctx, "unknown")
	assert.ErrorIs(t, err, repository.ErrLocalCacheMiss)
}

func TestDeleteProgramCascadesToExercises(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	programID, err := f.programs.CreateProgram(ctx, domain.Program{TrainerID: "t1", Name: "A"})
	require.NoError(t, err)
	otherID, err := f.programs.CreateProgram(ctx, domain.Program{TrainerID: "t1", Name: "B"})
	require.NoError(t, err)
	for _, name := range []string{"Squat", "Bench"} {
		_, err := f.programs.AddExercise(ctx, domain.Exercise{ProgramID: programID, Name: name, Sets: 3, Reps: 5})
		require.NoError(t, err)
	}
	keep, err := f.programs.AddExercise(ctx, domain.Exercise{ProgramID: otherID, Name: "Row"})
	require.NoError(t, err)

	require.NoError(t, f.programs.DeleteProgram(ctx, programID))

	n, err := f.store.Count(ctx, repository.ExercisesCollection, repository.Filter{"programId": programID})
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = f.programs.GetExercise(ctx, keep)
	assert.NoError(t, err)

	cachedExercises := localcache.New[domain.Exercise](f.dir, localcache.ExercisesFile, f.log).All()
	require.Len(t, cachedExercises, 1)
	assert.Equal(t, keep, cachedExercises[0].ID)

	assert.ErrorIs(t, f.programs.DeleteProgram(ctx, programID), repository.ErrNotFound)
}

func TestUpdateProgram(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, err := f.programs.CreateProgram(ctx, domain.Program{TrainerID: "t1", TrainerName: "Tess", Name: "A"})
	require.NoError(t, err)

	require.NoError(t, f.programs.UpdateProgram(ctx, domain.Program{ID: id, TrainerID: "t1", TrainerName: "Tess", Name: "A2", Description: "d"}))
	p, err := f.programs.GetProgram(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "A2", p.Name)
	assert.Equal(t, "d", p.Description)

	err = f.programs.UpdateProgram(ctx, domain.Program{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
