package service

import (
	"context"
	"testing"

	"alcyxob/reptrack/internal/domain"
	"alcyxob/reptrack/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPageIsMonotonicAndDisjoint(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "Author", domain.RoleTrainee)
	for i := 0; i < 5; i++ {
		_, err := env.social.CreatePost(ctx, author, PostInput{Content: "post"})
		require.NoError(t, err)
	}
	feed := NewFeedService(env.store, 2, 0, NewScanFollowingFeed(env.store, 100))

	seen := map[string]bool{}
	var cursor repository.Cursor
	var pages []*Page
	for {
		page, err := feed.ListPage(ctx, 0, cursor)
		require.NoError(t, err)
		pages = append(pages, page)
		for i, p := range page.Posts {
			assert.False(t, seen[p.ID], "post repeated across pages")
			seen[p.ID] = true
			if i > 0 {
				assert.True(t, page.Posts[i-1].Timestamp.After(p.Timestamp))
			}
		}
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}

	require.Len(t, pages, 3)
	assert.True(t, pages[0].Posts[1].Timestamp.After(pages[1].Posts[0].Timestamp))
	assert.Len(t, pages[2].Posts, 1)
	assert.Len(t, seen, 5)
}

func TestListPageEmptyFeed(t *testing.T) {
	env := newTestEnv(t)
	feed := NewFeedService(env.store, 0, 0, NewScanFollowingFeed(env.store, 0))
	page, err := feed.ListPage(context.Background(), 0, "")
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.False(t, page.HasMore)
	assert.Empty(t, page.NextCursor)
}

func TestListPageCapsPageSize(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "Author", domain.RoleTrainee)
	for i := 0; i < 4; i++ {
		_, err := env.social.CreatePost(ctx, author, PostInput{Content: "set"})
		require.NoError(t, err)
	}

	feed := NewFeedService(env.store, 2, 3, NewScanFollowingFeed(env.store, 100))
	page, err := feed.ListPage(ctx, 1_000_000_000, "")
	require.NoError(t, err)
	assert.Len(t, page.Posts, 3)
	assert.True(t, page.HasMore)
}

func TestFollowingFeedFiltersByFollowSet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	me := env.seedUser(t, "Me", domain.RoleTrainee)
	friend := env.seedUser(t, "Friend", domain.RoleTrainee)
	stranger := env.seedUser(t, "Stranger", domain.RoleTrainee)

	feed := NewFeedService(env.store, 20, 0, NewScanFollowingFeed(env.store, 100))
	posts, err := feed.FollowingFeed(ctx, me)
	require.NoError(t, err)
	assert.Empty(t, posts)

	_, err = env.social.CreatePost(ctx, friend, PostInput{Content: "from friend"})
	require.NoError(t, err)
	_, err = env.social.CreatePost(ctx, stranger, PostInput{Content: "from stranger"})
	require.NoError(t, err)
	require.NoError(t, env.social.Follow(ctx, me, friend))

	posts, err = feed.FollowingFeed(ctx, me)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "from friend", posts[0].Content)
}

func TestFollowingFeedOnlyScansRecentPosts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	me := env.seedUser(t, "Me", domain.RoleTrainee)
	friend := env.seedUser(t, "Friend", domain.RoleTrainee)
	other := env.seedUser(t, "Other", domain.RoleTrainee)
	require.NoError(t, env.social.Follow(ctx, me, friend))

	_, err := env.social.CreatePost(ctx, friend, PostInput{Content: "old"})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := env.social.CreatePost(ctx, other, PostInput{Content: "noise"})
		require.NoError(t, err)
	}

	posts, err := NewScanFollowingFeed(env.store, 3).PostsFor(ctx, me)
	require.NoError(t, err)
	assert.Empty(t, posts, "posts beyond the scan window are not reached")
}
