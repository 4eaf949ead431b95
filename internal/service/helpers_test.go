package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/reptrack/internal/domain"
	"alcyxob/reptrack/internal/repository/cached"
	"alcyxob/reptrack/internal/repository/memory"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// fakeClock advances one second on every reading so ordering by time is strict.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type testEnv struct {
	store  *memory.Store
	users  *cached.UserRepository
	log    *logrus.Logger
	hook   *test.Hook
	clock  *fakeClock
	social *socialService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger, hook := test.NewNullLogger()
	store := memory.New()
	users := cached.NewUserRepository(store, t.TempDir(), logger, nil)
	clock := newFakeClock()

	social := NewSocialService(store, users, logger, nil).(*socialService)
	social.now = clock.Now
	return &testEnv{
		store:  store,
		users:  users,
		log:    logger,
		hook:   hook,
		clock:  clock,
		social: social,
	}
}

func (e *testEnv) seedUser(t *testing.T, name string, role domain.Role) string {
	t.Helper()
	id := e.users.NewID()
	require.NoError(t, e.users.Create(context.Background(), domain.User{
		ID:    id,
		Name:  name,
		Email: id + "@example.com",
		Role:  role,
	}))
	return id
}
