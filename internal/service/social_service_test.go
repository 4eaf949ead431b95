package service

import (
	"context"
	"errors"
	"testing"

	"alcyxob/reptrack/internal/domain"
	"alcyxob/reptrack/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) post(t *testing.T, postID string) *domain.Post {
	t.Helper()
	p, err := e.social.GetPost(context.Background(), postID)
	require.NoError(t, err)
	return p
}

func (e *testEnv) notificationsFor(t *testing.T, userID string) []domain.Notification {
	t.Helper()
	n, err := e.social.ListNotifications(context.Background(), userID)
	require.NoError(t, err)
	return n
}

func TestLikeUnlikeSelfLikeScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "Alice", domain.RoleTrainee)
	bob := env.seedUser(t, "Bob", domain.RoleTrainee)

	p, err := env.social.CreatePost(ctx, alice, PostInput{Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, 0, p.LikeCount)
	assert.Equal(t, "Alice", p.UserName)

	require.NoError(t, env.social.LikePost(ctx, p.ID, bob))
	assert.Equal(t, 1, env.post(t, p.ID).LikeCount)
	notes := env.notificationsFor(t, alice)
	require.Len(t, notes, 1)
	assert.Equal(t, bob, notes[0].ActorID)
	assert.Equal(t, domain.NotificationLike, notes[0].Type)
	assert.Equal(t, "Bob liked your post", notes[0].Message)
	assert.False(t, notes[0].IsRead)

	require.NoError(t, env.social.UnlikePost(ctx, p.ID, bob))
	assert.Equal(t, 0, env.post(t, p.ID).LikeCount)
	liked, err := env.social.HasLiked(ctx, p.ID, bob)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Len(t, env.notificationsFor(t, alice), 1, "unlike does not retract the notification")

	require.NoError(t, env.social.LikePost(ctx, p.ID, alice))
	assert.Equal(t, 1, env.post(t, p.ID).LikeCount)
	assert.Len(t, env.notificationsFor(t, alice), 1, "self-like creates no notification")
}

func TestLikeTwiceIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "Alice", domain.RoleTrainee)
	bob := env.seedUser(t, "Bob", domain.RoleTrainee)
	p, err := env.social.CreatePost(ctx, alice, PostInput{Content: "hi"})
	require.NoError(t, err)

	require.NoError(t, env.social.LikePost(ctx, p.ID, bob))
	require.NoError(t, env.social.LikePost(ctx, p.ID, bob))

	n, err := env.social.LikeCount(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, 1, env.post(t, p.ID).LikeCount)
	assert.Len(t, env.notificationsFor(t, alice), 1)

	// unliking something not liked is a no-op as well
	require.NoError(t, env.social.UnlikePost(ctx, p.ID, bob))
	require.NoError(t, env.social.UnlikePost(ctx, p.ID, bob))
	assert.Equal(t, 0, env.post(t, p.ID).LikeCount)
}

func TestToggleLikeCounterSymmetry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "Owner", domain.RoleTrainee)
	p, err := env.social.CreatePost(ctx, owner, PostInput{Content: "pr day"})
	require.NoError(t, err)

	likers := []string{
		env.seedUser(t, "A", domain.RoleTrainee),
		env.seedUser(t, "B", domain.RoleTrainee),
		env.seedUser(t, "C", domain.RoleTrainee),
	}
	// A toggles 3 times (liked), B twice (not liked), C once (liked).
	toggles := map[string]int{likers[0]: 3, likers[1]: 2, likers[2]: 1}
	for _, user := range likers {
		for i := 0; i < toggles[user]; i++ {
			_, err := env.social.ToggleLike(ctx, p.ID, user)
			require.NoError(t, err)
		}
	}

	count, err := env.social.LikeCount(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.Equal(t, 2, env.post(t, p.ID).LikeCount)
}

func TestLikeMissingPostFails(t *testing.T) {
	env := newTestEnv(t)
	bob := env.seedUser(t, "Bob", domain.RoleTrainee)
	err := env.social.LikePost(context.Background(), "missing", bob)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLikeSucceedsWhenSecondaryEffectsFail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "Alice", domain.RoleTrainee)
	bob := env.seedUser(t, "Bob", domain.RoleTrainee)
	p, err := env.social.CreatePost(ctx, alice, PostInput{Content: "hello"})
	require.NoError(t, err)

	env.store.Fail(repository.NotificationsCollection, errors.New("quota exceeded"))

	require.NoError(t, env.social.LikePost(ctx, p.ID, bob))
	liked, err := env.social.HasLiked(ctx, p.ID, bob)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, env.post(t, p.ID).LikeCount)

	entry := env.hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, effectNotification, entry.Data["effect"])
	assert.Equal(t, p.ID, entry.Data["post_id"])

	env.store.Heal()
	assert.Empty(t, env.notificationsFor(t, alice))
}

func TestPrimaryWriteFailureAborts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "Alice", domain.RoleTrainee)
	bob := env.seedUser(t, "Bob", domain.RoleTrainee)
	p, err := env.social.CreatePost(ctx, alice, PostInput{Content: "hello"})
	require.NoError(t, err)

	boom := errors.New("unavailable")
	env.store.Fail(repository.LikesCollection, boom)
	err = env.social.LikePost(ctx, p.ID, bob)
	assert.ErrorIs(t, err, boom)

	env.store.Heal()
	assert.Equal(t, 0, env.post(t, p.ID).LikeCount)
	assert.Empty(t, env.notificationsFor(t, alice))
}

func TestCounterFailureDriftsAndReconcileRepairs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "Alice", domain.RoleTrainee)
	bob := env.seedUser(t, "Bob", domain.RoleTrainee)
	p, err := env.social.CreatePost(ctx, alice, PostInput{Content: "hello"})
	require.NoError(t, err)

	// drift as left behind by lost counter updates
	require.NoError(t, env.store.Update(ctx, repository.PostsCollection, p.ID, map[string]any{"likeCount": 5}))
	require.NoError(t, env.social.LikePost(ctx, p.ID, bob))
	_, err = env.social.AddComment(ctx, p.ID, bob, "nice")
	require.NoError(t, err)
	assert.Equal(t, 6, env.post(t, p.ID).LikeCount)

	fixed, err := env.social.ReconcileCounters(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fixed.LikeCount)
	assert.Equal(t, 1, fixed.CommentCount)
	assert.Equal(t, 1, env.post(t, p.ID).LikeCount)

	n, err := env.social.ReconcileAllCounters(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCommentFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "Alice", domain.RoleTrainee)
	bob := env.seedUser(t, "", domain.RoleTrainee)
	carol := env.seedUser(t, "Carol", domain.RoleTrainee)
	p, err := env.social.CreatePost(ctx, alice, PostInput{Content: "leg day"})
	require.NoError(t, err)

	first, err := env.social.AddComment(ctx, p.ID, bob, "strong")
	require.NoError(t, err)
	_, err = env.social.AddComment(ctx, p.ID, alice, "thanks")
	require.NoError(t, err)
	third, err := env.social.AddComment(ctx, p.ID, carol, "nice")
	require.NoError(t, err)

	assert.Equal(t, 3, env.post(t, p.ID).CommentCount)
	comments, err := env.social.ListComments(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, []string{"strong", "thanks", "nice"},
		[]string{comments[0].Content, comments[1].Content, comments[2].Content})

	notes := env.notificationsFor(t, alice)
	require.Len(t, notes, 2, "own comment creates no notification")
	assert.Equal(t, "Carol commented on your post", notes[0].Message)
	assert.Equal(t, "Someone commented on your post", notes[1].Message)

	assert.ErrorIs(t, env.social.DeleteComment(ctx, carol, first.ID), ErrForbidden)
	require.NoError(t, env.social.DeleteComment(ctx, bob, first.ID))
	require.NoError(t, env.social.DeleteComment(ctx, alice, third.ID), "post owner may moderate")
	assert.Equal(t, 1, env.post(t, p.ID).CommentCount)

	_, err = env.social.AddComment(ctx, p.ID, bob, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFollowScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.seedUser(t, "A", domain.RoleTrainee)
	b := env.seedUser(t, "B", domain.RoleTrainee)

	require.NoError(t, env.social.Follow(ctx, a, b))
	require.NoError(t, env.social.Follow(ctx, a, b))

	n, err := env.social.FollowersCount(ctx, b)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	following, err := env.social.Following(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []string{b}, following)
	followers, err := env.social.Followers(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, []string{a}, followers)
	ok, err := env.social.IsFollowing(ctx, a, b)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, env.social.Unfollow(ctx, a, b))
	n, err = env.social.FollowersCount(ctx, b)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = env.social.FollowingCount(ctx, a)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, env.social.Follow(ctx, a, a), ErrInvalidInput)
}

func TestNotificationReadState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "Alice", domain.RoleTrainee)
	bob := env.seedUser(t, "Bob", domain.RoleTrainee)
	p, err := env.social.CreatePost(ctx, alice, PostInput{Content: "hello"})
	require.NoError(t, err)
	require.NoError(t, env.social.LikePost(ctx, p.ID, bob))
	_, err = env.social.AddComment(ctx, p.ID, bob, "hey")
	require.NoError(t, err)

	unread, err := env.social.UnreadNotificationCount(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	notes := env.notificationsFor(t, alice)
	require.Len(t, notes, 2)
	assert.Equal(t, domain.NotificationComment, notes[0].Type, "newest first")

	assert.ErrorIs(t, env.social.MarkNotificationRead(ctx, bob, notes[0].ID), ErrForbidden)
	require.NoError(t, env.social.MarkNotificationRead(ctx, alice, notes[0].ID))
	unread, err = env.social.UnreadNotificationCount(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)

	require.NoError(t, env.social.MarkAllNotificationsRead(ctx, alice))
	unread, err = env.social.UnreadNotificationCount(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, unread)

	require.NoError(t, env.social.DeleteNotification(ctx, alice, notes[1].ID))
	assert.Len(t, env.notificationsFor(t, alice), 1)
}

func TestPostOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "Alice", domain.RoleTrainee)
	bob := env.seedUser(t, "Bob", domain.RoleTrainee)
	p, err := env.social.CreatePost(ctx, alice, PostInput{Content: "v1"})
	require.NoError(t, err)
	_, err = env.social.CreatePost(ctx, alice, PostInput{Content: "v2"})
	require.NoError(t, err)

	_, err = env.social.UpdatePost(ctx, bob, p.ID, "hijack")
	assert.ErrorIs(t, err, ErrForbidden)
	updated, err := env.social.UpdatePost(ctx, alice, p.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	posts, err := env.social.ListPostsByUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "v2", posts[0].Content)

	assert.ErrorIs(t, env.social.DeletePost(ctx, bob, p.ID), ErrForbidden)
	require.NoError(t, env.social.DeletePost(ctx, alice, p.ID))
	_, err = env.social.GetPost(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.social.CreatePost(ctx, alice, PostInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
