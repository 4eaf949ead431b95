package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"alcyxob/reptrack/internal/domain"
	"alcyxob/reptrack/internal/metrics"
	"alcyxob/reptrack/internal/repository"

	"github.com/sirupsen/logrus"
)

const defaultActorName = "Someone"

// reconcileBatchSize is the number of posts read per page when recounting all posts.
const reconcileBatchSize = 100

// UserLookup resolves the current profile of a user.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// PostInput carries the user-editable fields of a new post.
type PostInput struct {
	Content          string
	ImageURL         string
	WorkoutReference string
}

// SocialService coordinates posts, likes, comments, follows and notifications.
//
// Each operation performs its primary write first and aborts if it fails.
// Counter updates and notifications that follow are best-effort: they are
// logged when they fail and never reported to the caller.
type SocialService interface {
	CreatePost(ctx context.Context, userID string, in PostInput) (*domain.Post, error)
	GetPost(ctx context.Context, postID string) (*domain.Post, error)
	ListPostsByUser(ctx context.Context, userID string) ([]domain.Post, error)
	UpdatePost(ctx context.Context, userID, postID, content string) (*domain.Post, error)
	DeletePost(ctx context.Context, userID, postID string) error

	LikePost(ctx context.Context, postID, userID string) error
	UnlikePost(ctx context.Context, postID, userID string) error
	// ToggleLike likes or unlikes depending on the current state and reports
	// whether the post is liked afterwards.
	ToggleLike(ctx context.Context, postID, userID string) (bool, error)
	HasLiked(ctx context.Context, postID, userID string) (bool, error)
	LikeCount(ctx context.Context, postID string) (int64, error)

	AddComment(ctx context.Context, postID, userID, content string) (*domain.Comment, error)
	ListComments(ctx context.Context, postID string) ([]domain.Comment, error)
	DeleteComment(ctx context.Context, userID, commentID string) error

	Follow(ctx context.Context, followerID, followedID string) error
	Unfollow(ctx context.Context, followerID, followedID string) error
	IsFollowing(ctx context.Context, followerID, followedID string) (bool, error)
	Following(ctx context.Context, userID string) ([]string, error)
	Followers(ctx context.Context, userID string) ([]string, error)
	FollowersCount(ctx context.Context, userID string) (int64, error)
	FollowingCount(ctx context.Context, userID string) (int64, error)

	ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error)
	UnreadNotificationCount(ctx context.Context, userID string) (int64, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
	DeleteNotification(ctx context.Context, userID, notificationID string) error

	// ReconcileCounters recomputes likeCount and commentCount of a post from
	// its likes and comments.
	ReconcileCounters(ctx context.Context, postID string) (*domain.Post, error)
	// ReconcileAllCounters recounts every post and returns how many were checked.
	ReconcileAllCounters(ctx context.Context) (int, error)
}

type socialService struct {
	store   repository.DocumentStore
	users   UserLookup
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewSocialService(store repository.DocumentStore, users UserLookup, log logrus.FieldLogger, m *metrics.Metrics) SocialService {
	return &socialService{
		store:   store,
		users:   users,
		log:     log,
		metrics: m,
		now:     time.Now,
	}
}

// --- Posts ---

func (s *socialService) CreatePost(ctx context.Context, userID string, in PostInput) (*domain.Post, error) {
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" && in.ImageURL == "" {
		return nil, fmt.Errorf("%w: post needs content or an image", ErrInvalidInput)
	}
	author, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load author: %w", err)
	}

	post := domain.Post{
		ID:                s.store.NewID(repository.PostsCollection),
		UserID:            userID,
		UserName:          author.Name,
		UserProfilePicURL: author.ProfilePicURL,
		Content:           in.Content,
		ImageURL:          in.ImageURL,
		WorkoutReference:  in.WorkoutReference,
		Timestamp:         s.now().UTC(),
	}
	if err := s.store.Create(ctx, repository.PostsCollection, post.ID, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.metrics.SocialAction("post")
	return &post, nil
}

func (s *socialService) GetPost(ctx context.Context, postID string) (*domain.Post, error) {
	var post domain.Post
	if err := s.store.GetByID(ctx, repository.PostsCollection, postID, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *socialService) ListPostsByUser(ctx context.Context, userID string) ([]domain.Post, error) {
	var posts []domain.Post
	if err := s.store.Find(ctx, repository.PostsCollection, repository.Filter{"userId": userID}, &posts); err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].Timestamp.After(posts[j].Timestamp) })
	return posts, nil
}

func (s *socialService) UpdatePost(ctx context.Context, userID, postID, content string) (*domain.Post, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, ErrForbidden
	}
	content = strings.TrimSpace(content)
	if content == "" && post.ImageURL == "" {
		return nil, fmt.Errorf("%w: post needs content or an image", ErrInvalidInput)
	}
	if err := s.store.Update(ctx, repository.PostsCollection, postID, map[string]any{"content": content}); err != nil {
		return nil, err
	}
	post.Content = content
	return post, nil
}

// DeletePost removes the post only. Its likes, comments and notifications stay
// behind as orphans.
func (s *socialService) DeletePost(ctx context.Context, userID, postID string) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return ErrForbidden
	}
	deleted, err := s.store.Delete(ctx, repository.PostsCollection, postID)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrNotFound
	}
	return nil
}

// --- Likes ---

// LikePost creates the like if it does not exist yet. Only the call that
// actually created the like bumps the counter and notifies the owner, so a
// repeated or concurrent like never double counts.
func (s *socialService) LikePost(ctx context.Context, postID, userID string) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}

	like := domain.Like{
		ID:        domain.LikeID(postID, userID),
		PostID:    postID,
		UserID:    userID,
		Timestamp: s.now().UTC(),
	}
	if err := s.store.Create(ctx, repository.LikesCollection, like.ID, like); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("like post: %w", err)
	}
	s.metrics.SocialAction("like")

	log := s.log.WithFields(logrus.Fields{"post_id": postID, "user_id": userID})
	discard(log, s.metrics, s.bumpCounter(ctx, postID, "likeCount", effectLikeCounter, 1))
	discard(log, s.metrics, s.notifyOwner(ctx, post, userID, domain.NotificationLike))
	return nil
}

// UnlikePost removes the like. The notification it produced is kept.
func (s *socialService) UnlikePost(ctx context.Context, postID, userID string) error {
	deleted, err := s.store.Delete(ctx, repository.LikesCollection, domain.LikeID(postID, userID))
	if err != nil {
		return fmt.Errorf("unlike post: %w", err)
	}
	if !deleted {
		return nil
	}
	s.metrics.SocialAction("unlike")

	log := s.log.WithFields(logrus.Fields{"post_id": postID, "user_id": userID})
	discard(log, s.metrics, s.bumpCounter(ctx, postID, "likeCount", effectLikeCounter, -1))
	return nil
}

func (s *socialService) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	liked, err := s.HasLiked(ctx, postID, userID)
	if err != nil {
		return false, err
	}
	if liked {
		return false, s.UnlikePost(ctx, postID, userID)
	}
	return true, s.LikePost(ctx, postID, userID)
}

func (s *socialService) HasLiked(ctx context.Context, postID, userID string) (bool, error) {
	var like domain.Like
	err := s.store.GetByID(ctx, repository.LikesCollection, domain.LikeID(postID, userID), &like)
	if err == nil {
		return true, nil
	}
	if repository.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

func (s *socialService) LikeCount(ctx context.Context, postID string) (int64, error) {
	return s.store.Count(ctx, repository.LikesCollection, repository.Filter{"postId": postID})
}

// --- Comments ---

func (s *socialService) AddComment(ctx context.Context, postID, userID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment cannot be empty", ErrInvalidInput)
	}
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	author, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load comment author: %w", err)
	}

	comment := domain.Comment{
		ID:                s.store.NewID(repository.CommentsCollection),
		PostID:            postID,
		UserID:            userID,
		UserName:          author.Name,
		UserProfilePicURL: author.ProfilePicURL,
		Content:           content,
		Timestamp:         s.now().UTC(),
	}
	if err := s.store.Create(ctx, repository.CommentsCollection, comment.ID, comment); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	s.metrics.SocialAction("comment")

	log := s.log.WithFields(logrus.Fields{"post_id": postID, "user_id": userID})
	discard(log, s.metrics, s.bumpCounter(ctx, postID, "commentCount", effectCommentCounter, 1))
	discard(log, s.metrics, s.notifyOwner(ctx, post, userID, domain.NotificationComment))
	return &comment, nil
}

func (s *socialService) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	var comments []domain.Comment
	if err := s.store.Find(ctx, repository.CommentsCollection, repository.Filter{"postId": postID}, &comments); err != nil {
		return nil, err
	}
	sort.SliceStable(comments, func(i, j int) bool { return comments[i].Timestamp.Before(comments[j].Timestamp) })
	return comments, nil
}

// DeleteComment may be called by the comment author or the post owner.
func (s *socialService) DeleteComment(ctx context.Context, userID, commentID string) error {
	var comment domain.Comment
	if err := s.store.GetByID(ctx, repository.CommentsCollection, commentID, &comment); err != nil {
		return err
	}
	if comment.UserID != userID {
		post, err := s.GetPost(ctx, comment.PostID)
		if err != nil && !repository.IsNotFound(err) {
			return err
		}
		if post == nil || post.UserID != userID {
			return ErrForbidden
		}
	}

	deleted, err := s.store.Delete(ctx, repository.CommentsCollection, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if !deleted {
		return nil
	}
	log := s.log.WithFields(logrus.Fields{"post_id": comment.PostID, "user_id": userID})
	discard(log, s.metrics, s.bumpCounter(ctx, comment.PostID, "commentCount", effectCommentCounter, -1))
	return nil
}

// --- Follows ---

func (s *socialService) Follow(ctx context.Context, followerID, followedID string) error {
	if followerID == followedID {
		return fmt.Errorf("%w: users cannot follow themselves", ErrInvalidInput)
	}
	edge := domain.Follow{
		ID:         domain.FollowID(followerID, followedID),
		FollowerID: followerID,
		FollowedID: followedID,
		Timestamp:  s.now().UTC(),
	}
	if err := s.store.Set(ctx, repository.FollowsCollection, edge.ID, edge); err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	s.metrics.SocialAction("follow")
	return nil
}

func (s *socialService) Unfollow(ctx context.Context, followerID, followedID string) error {
	if _, err := s.store.Delete(ctx, repository.FollowsCollection, domain.FollowID(followerID, followedID)); err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	s.metrics.SocialAction("unfollow")
	return nil
}

func (s *socialService) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	var edge domain.Follow
	err := s.store.GetByID(ctx, repository.FollowsCollection, domain.FollowID(followerID, followedID), &edge)
	if err == nil {
		return true, nil
	}
	if repository.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

func (s *socialService) Following(ctx context.Context, userID string) ([]string, error) {
	var edges []domain.Follow
	if err := s.store.Find(ctx, repository.FollowsCollection, repository.Filter{"followerId": userID}, &edges); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.FollowedID)
	}
	return ids, nil
}

func (s *socialService) Followers(ctx context.Context, userID string) ([]string, error) {
	var edges []domain.Follow
	if err := s.store.Find(ctx, repository.FollowsCollection, repository.Filter{"followedId": userID}, &edges); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.FollowerID)
	}
	return ids, nil
}

func (s *socialService) FollowersCount(ctx context.Context, userID string) (int64, error) {
	return s.store.Count(ctx, repository.FollowsCollection, repository.Filter{"followedId": userID})
}

func (s *socialService) FollowingCount(ctx context.Context, userID string) (int64, error) {
	return s.store.Count(ctx, repository.FollowsCollection, repository.Filter{"followerId": userID})
}

// --- Notifications ---

func (s *socialService) ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	var notifications []domain.Notification
	if err := s.store.Find(ctx, repository.NotificationsCollection, repository.Filter{"userId": userID}, &notifications); err != nil {
		return nil, err
	}
	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].Timestamp.After(notifications[j].Timestamp)
	})
	return notifications, nil
}

func (s *socialService) UnreadNotificationCount(ctx context.Context, userID string) (int64, error) {
	return s.store.Count(ctx, repository.NotificationsCollection, repository.Filter{"userId": userID, "isRead": false})
}

func (s *socialService) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	if _, err := s.ownNotification(ctx, userID, notificationID); err != nil {
		return err
	}
	return s.store.Update(ctx, repository.NotificationsCollection, notificationID, map[string]any{"isRead": true})
}

func (s *socialService) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	var unread []domain.Notification
	err := s.store.Find(ctx, repository.NotificationsCollection, repository.Filter{"userId": userID, "isRead": false}, &unread)
	if err != nil {
		return err
	}
	if len(unread) == 0 {
		return nil
	}
	ops := make([]repository.WriteOp, 0, len(unread))
	for _, n := range unread {
		ops = append(ops, repository.UpdateOp(repository.NotificationsCollection, n.ID, map[string]any{"isRead": true}))
	}
	return s.store.Batch(ctx, ops)
}

func (s *socialService) DeleteNotification(ctx context.Context, userID, notificationID string) error {
	if _, err := s.ownNotification(ctx, userID, notificationID); err != nil {
		return err
	}
	_, err := s.store.Delete(ctx, repository.NotificationsCollection, notificationID)
	return err
}

func (s *socialService) ownNotification(ctx context.Context, userID, notificationID string) (*domain.Notification, error) {
	var n domain.Notification
	if err := s.store.GetByID(ctx, repository.NotificationsCollection, notificationID, &n); err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, ErrForbidden
	}
	return &n, nil
}

// --- Counter reconciliation ---

func (s *socialService) ReconcileCounters(ctx context.Context, postID string) (*domain.Post, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	likes, err := s.store.Count(ctx, repository.LikesCollection, repository.Filter{"postId": postID})
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	comments, err := s.store.Count(ctx, repository.CommentsCollection, repository.Filter{"postId": postID})
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	if int64(post.LikeCount) == likes && int64(post.CommentCount) == comments {
		return post, nil
	}

	s.log.WithFields(logrus.Fields{
		"post_id":       postID,
		"like_count":    post.LikeCount,
		"likes":         likes,
		"comment_count": post.CommentCount,
		"comments":      comments,
	}).Info("Correcting drifted post counters")
	err = s.store.Update(ctx, repository.PostsCollection, postID, map[string]any{
		"likeCount":    likes,
		"commentCount": comments,
	})
	if err != nil {
		return nil, err
	}
	post.LikeCount, post.CommentCount = int(likes), int(comments)
	return post, nil
}

func (s *socialService) ReconcileAllCounters(ctx context.Context) (int, error) {
	var cursor repository.Cursor
	total := 0
	for {
		var posts []domain.Post
		next, err := s.store.FindPage(ctx, repository.PostsCollection, nil, repository.PageQuery{
			OrderBy:   "timestamp",
			Direction: repository.Descending,
			Limit:     reconcileBatchSize,
			After:     cursor,
		}, &posts)
		if err != nil {
			return total, err
		}
		for _, p := range posts {
			if _, err := s.ReconcileCounters(ctx, p.ID); err != nil {
				return total, fmt.Errorf("reconcile post %s: %w", p.ID, err)
			}
			total++
		}
		if len(posts) < reconcileBatchSize {
			return total, nil
		}
		cursor = next
	}
}

// --- Secondary effects ---

func (s *socialService) bumpCounter(ctx context.Context, postID, field, effect string, delta int) BestEffort {
	return BestEffort{
		Effect: effect,
		Err:    s.store.Increment(ctx, repository.PostsCollection, postID, field, delta),
	}
}

// notifyOwner tells the post owner about an action by actorID. The actor's
// name and photo are looked up now, not taken from the triggering action.
func (s *socialService) notifyOwner(ctx context.Context, post *domain.Post, actorID string, kind domain.NotificationType) BestEffort {
	if post.UserID == actorID {
		return BestEffort{}
	}
	actor, err := s.users.GetUser(ctx, actorID)
	if err != nil {
		return BestEffort{Effect: effectNotification, Err: fmt.Errorf("look up actor: %w", err)}
	}
	name := actor.Name
	if name == "" {
		name = defaultActorName
	}

	var message string
	switch kind {
	case domain.NotificationLike:
		message = name + " liked your post"
	case domain.NotificationComment:
		message = name + " commented on your post"
	default:
		message = name + " interacted with your post"
	}

	n := domain.Notification{
		ID:                 s.store.NewID(repository.NotificationsCollection),
		UserID:             post.UserID,
		ActorID:            actorID,
		ActorName:          name,
		ActorProfilePicURL: actor.ProfilePicURL,
		Type:               kind,
		PostID:             post.ID,
		Message:            message,
		Timestamp:          s.now().UTC(),
	}
	return BestEffort{
		Effect: effectNotification,
		Err:    s.store.Create(ctx, repository.NotificationsCollection, n.ID, n),
	}
}
