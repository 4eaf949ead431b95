package service

import (
	"context"

	"alcyxob/reptrack/internal/domain"
	"alcyxob/reptrack/internal/repository"
)

const (
	defaultPageSize           = 20
	defaultMaxPageSize        = 100
	defaultFollowingScanLimit = 100
)

// Page is one chunk of the global feed. HasMore is a heuristic: a full page
// means there may be more, a short page means the caller should stop.
type Page struct {
	Posts      []domain.Post
	NextCursor repository.Cursor
	HasMore    bool
}

// FollowingFeed builds the feed of posts by the users someone follows.
type FollowingFeed interface {
	PostsFor(ctx context.Context, userID string) ([]domain.Post, error)
}

type FeedService interface {
	// ListPage returns posts newest first, starting after cursor. A pageSize
	// of zero or less uses the configured default; larger ones are capped at
	// the configured maximum.
	ListPage(ctx context.Context, pageSize int, cursor repository.Cursor) (*Page, error)
	FollowingFeed(ctx context.Context, userID string) ([]domain.Post, error)
}

type feedService struct {
	store       repository.DocumentStore
	pageSize    int
	maxPageSize int
	following   FollowingFeed
}

func NewFeedService(store repository.DocumentStore, pageSize, maxPageSize int, following FollowingFeed) FeedService {
	if maxPageSize <= 0 {
		maxPageSize = defaultMaxPageSize
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	pageSize = min(pageSize, maxPageSize)
	return &feedService{store: store, pageSize: pageSize, maxPageSize: maxPageSize, following: following}
}

func (s *feedService) ListPage(ctx context.Context, pageSize int, cursor repository.Cursor) (*Page, error) {
	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	pageSize = min(pageSize, s.maxPageSize)
	var posts []domain.Post
	next, err := s.store.FindPage(ctx, repository.PostsCollection, nil, repository.PageQuery{
		OrderBy:   "timestamp",
		Direction: repository.Descending,
		Limit:     pageSize,
		After:     cursor,
	}, &posts)
	if err != nil {
		return nil, err
	}
	return &Page{Posts: posts, NextCursor: next, HasMore: len(posts) == pageSize}, nil
}

func (s *feedService) FollowingFeed(ctx context.Context, userID string) ([]domain.Post, error) {
	return s.following.PostsFor(ctx, userID)
}

// scanFollowingFeed reads the newest scanLimit posts and keeps those written
// by followed users. Older posts by followed users are not reached.
type scanFollowingFeed struct {
	store     repository.DocumentStore
	scanLimit int
}

func NewScanFollowingFeed(store repository.DocumentStore, scanLimit int) FollowingFeed {
	if scanLimit <= 0 {
		scanLimit = defaultFollowingScanLimit
	}
	return &scanFollowingFeed{store: store, scanLimit: scanLimit}
}

func (f *scanFollowingFeed) PostsFor(ctx context.Context, userID string) ([]domain.Post, error) {
	var edges []domain.Follow
	if err := f.store.Find(ctx, repository.FollowsCollection, repository.Filter{"followerId": userID}, &edges); err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return []domain.Post{}, nil
	}
	followed := make(map[string]struct{}, len(edges))
	for _, e := range edges {
		followed[e.FollowedID] = struct{}{}
	}

	var recent []domain.Post
	_, err := f.store.FindPage(ctx, repository.PostsCollection, nil, repository.PageQuery{
		OrderBy:   "timestamp",
		Direction: repository.Descending,
		Limit:     f.scanLimit,
	}, &recent)
	if err != nil {
		return nil, err
	}
	posts := make([]domain.Post, 0, len(recent))
	for _, p := range recent {
		if _, ok := followed[p.UserID]; ok {
			posts = append(posts, p)
		}
	}
	return posts, nil
}
