package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"alcyxob/reptrack/internal/domain"
	"alcyxob/reptrack/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIsInsertIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := New()
	like := domain.Like{ID: domain.LikeID("p1", "u1"), PostID: "p1", UserID: "u1"}

	require.NoError(t, s.Create(ctx, repository.LikesCollection, like.ID, like))
	err := s.Create(ctx, repository.LikesCollection, like.ID, like)
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)

	n, err := s.Count(ctx, repository.LikesCollection, repository.Filter{"postId": "p1"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := domain.Program{ID: "prog", TrainerID: "t1", Name: "Strength"}
	require.NoError(t, s.Set(ctx, repository.ProgramsCollection, p.ID, p))

	require.NoError(t, s.Update(ctx, repository.ProgramsCollection, p.ID, map[string]any{"name": "Power"}))
	var got domain.Program
	require.NoError(t, s.GetByID(ctx, repository.ProgramsCollection, p.ID, &got))
	assert.Equal(t, "Power", got.Name)
	assert.Equal(t, "t1", got.TrainerID)

	assert.ErrorIs(t, s.Update(ctx, repository.ProgramsCollection, "missing", map[string]any{"name": "x"}), repository.ErrNotFound)

	deleted, err := s.Delete(ctx, repository.ProgramsCollection, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = s.Delete(ctx, repository.ProgramsCollection, p.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.ErrorIs(t, s.GetByID(ctx, repository.ProgramsCollection, p.ID, &got), repository.ErrNotFound)
}

func TestIncrement(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Set(ctx, repository.PostsCollection, "p1", domain.Post{ID: "p1"}))

	require.NoError(t, s.Increment(ctx, repository.PostsCollection, "p1", "likeCount", 1))
	require.NoError(t, s.Increment(ctx, repository.PostsCollection, "p1", "likeCount", 1))
	require.NoError(t, s.Increment(ctx, repository.PostsCollection, "p1", "likeCount", -1))

	var post domain.Post
	require.NoError(t, s.GetByID(ctx, repository.PostsCollection, "p1", &post))
	assert.Equal(t, 1, post.LikeCount)

	assert.ErrorIs(t, s.Increment(ctx, repository.PostsCollection, "nope", "likeCount", 1), repository.ErrNotFound)
}

func TestArrayUnionAndRemove(t *testing.T) {
	ctx := context.Background()
	s := New()
	plan := domain.WorkoutPlan{ID: "w1", CreatorID: "a", JoinedUserIDs: []string{}}
	require.NoError(t, s.Set(ctx, repository.WorkoutPlansCollection, plan.ID, plan))

	require.NoError(t, s.ArrayUnion(ctx, repository.WorkoutPlansCollection, "w1", "joinedUserIds", "b"))
	require.NoError(t, s.ArrayUnion(ctx, repository.WorkoutPlansCollection, "w1", "joinedUserIds", "b"))
	require.NoError(t, s.ArrayUnion(ctx, repository.WorkoutPlansCollection, "w1", "joinedUserIds", "c"))

	var joined []domain.WorkoutPlan
	require.NoError(t, s.Find(ctx, repository.WorkoutPlansCollection, repository.Filter{"joinedUserIds": "b"}, &joined))
	require.Len(t, joined, 1)
	assert.Equal(t, []string{"b", "c"}, joined[0].JoinedUserIDs)

	require.NoError(t, s.ArrayRemove(ctx, repository.WorkoutPlansCollection, "w1", "joinedUserIds", "b"))
	require.NoError(t, s.Find(ctx, repository.WorkoutPlansCollection, repository.Filter{"joinedUserIds": "b"}, &joined))
	assert.Empty(t, joined)
}

func TestFindPageWalksDescendingWithoutOverlap(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		id := string(rune('a' + i))
		// two posts share each timestamp to exercise the _id tie-break
		p := domain.Post{ID: id, Timestamp: base.Add(time.Duration(i/2) * time.Minute)}
		require.NoError(t, s.Set(ctx, repository.PostsCollection, id, p))
	}

	var seen []string
	var cursor repository.Cursor
	var last time.Time
	for pages := 0; pages < 10; pages++ {
		var page []domain.Post
		next, err := s.FindPage(ctx, repository.PostsCollection, nil, repository.PageQuery{
			OrderBy: "timestamp", Direction: repository.Descending, Limit: 3, After: cursor,
		}, &page)
		require.NoError(t, err)
		for _, p := range page {
			if !last.IsZero() {
				assert.False(t, p.Timestamp.After(last), "timestamps must not increase")
			}
			last = p.Timestamp
			seen = append(seen, p.ID)
		}
		if len(page) < 3 {
			break
		}
		cursor = next
	}
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e", "f", "g"}, seen)
	assert.Len(t, seen, 7)
}

func TestFindPageRejectsGarbageCursor(t *testing.T) {
	s := New()
	var page []domain.Post
	_, err := s.FindPage(context.Background(), repository.PostsCollection, nil, repository.PageQuery{
		OrderBy: "timestamp", Direction: repository.Descending, Limit: 3, After: "%%%",
	}, &page)
	assert.ErrorIs(t, err, repository.ErrInvalidCursor)
}

func TestBatchAndInjectedFailures(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, id := range []string{"n1", "n2"} {
		require.NoError(t, s.Set(ctx, repository.NotificationsCollection, id, domain.Notification{ID: id, UserID: "u"}))
	}
	require.NoError(t, s.Batch(ctx, []repository.WriteOp{
		repository.UpdateOp(repository.NotificationsCollection, "n1", map[string]any{"isRead": true}),
		repository.UpdateOp(repository.NotificationsCollection, "n2", map[string]any{"isRead": true}),
		repository.SetOp(repository.NotificationsCollection, "n3", domain.Notification{ID: "n3", UserID: "u", IsRead: true}),
		repository.DeleteOp(repository.NotificationsCollection, "n1"),
	}))
	n, err := s.Count(ctx, repository.NotificationsCollection, repository.Filter{"userId": "u", "isRead": false})
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = s.Count(ctx, repository.NotificationsCollection, repository.Filter{"userId": "u"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	var created domain.Notification
	require.NoError(t, s.GetByID(ctx, repository.NotificationsCollection, "n3", &created))
	assert.True(t, created.IsRead)

	boom := errors.New("network down")
	s.Fail(repository.NotificationsCollection, boom)
	_, err = s.Count(ctx, repository.NotificationsCollection, nil)
	assert.ErrorIs(t, err, boom)
	_, err = s.Count(ctx, repository.PostsCollection, nil)
	assert.NoError(t, err)

	s.Heal()
	_, err = s.Count(ctx, repository.NotificationsCollection, nil)
	assert.NoError(t, err)
}
