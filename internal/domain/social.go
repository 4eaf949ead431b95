package domain

import "time"

// Post is an entry in the social feed. LikeCount and CommentCount are
// denormalized and may drift from the child collections until reconciled.
type Post struct {
	ID                string    `bson:"_id" json:"id"`
	UserID            string    `bson:"userId" json:"userId"`
	UserName          string    `bson:"userName" json:"userName"`
	UserProfilePicURL string    `bson:"userProfilePicUrl,omitempty" json:"userProfilePicUrl,omitempty"`
	Content           string    `bson:"content" json:"content"`
	ImageURL          string    `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	WorkoutReference  string    `bson:"workoutReference,omitempty" json:"workoutReference,omitempty"`
	Timestamp         time.Time `bson:"timestamp" json:"timestamp"`
	LikeCount         int       `bson:"likeCount" json:"likeCount"`
	CommentCount      int       `bson:"commentCount" json:"commentCount"`
}

// Comment is a reply attached to a post.
type Comment struct {
	ID                string    `bson:"_id" json:"id"`
	PostID            string    `bson:"postId" json:"postId"`
	UserID            string    `bson:"userId" json:"userId"`
	UserName          string    `bson:"userName" json:"userName"`
	UserProfilePicURL string    `bson:"userProfilePicUrl,omitempty" json:"userProfilePicUrl,omitempty"`
	Content           string    `bson:"content" json:"content"`
	Timestamp         time.Time `bson:"timestamp" json:"timestamp"`
}

// Like marks that a user likes a post. At most one exists per (post, user).
type Like struct {
	ID        string    `bson:"_id" json:"id"`
	PostID    string    `bson:"postId" json:"postId"`
	UserID    string    `bson:"userId" json:"userId"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// LikeID is the composite key of a Like.
func LikeID(postID, userID string) string {
	return postID + "_" + userID
}

// Follow is a directed edge from follower to followed.
type Follow struct {
	ID         string    `bson:"_id" json:"id"`
	FollowerID string    `bson:"followerId" json:"followerId"`
	FollowedID string    `bson:"followedId" json:"followedId"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
}

// FollowID is the composite key of a Follow.
func FollowID(followerID, followedID string) string {
	return followerID + "_" + followedID
}

// NotificationType enumerates what triggered a notification.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
)

// Notification is addressed to a single recipient.
type Notification struct {
	ID                 string           `bson:"_id" json:"id"`
	UserID             string           `bson:"userId" json:"userId"` // recipient
	ActorID            string           `bson:"actorId" json:"actorId"`
	ActorName          string           `bson:"actorName" json:"actorName"`
	ActorProfilePicURL string           `bson:"actorProfilePicUrl,omitempty" json:"actorProfilePicUrl,omitempty"`
	Type               NotificationType `bson:"type" json:"type"`
	PostID             string           `bson:"postId,omitempty" json:"postId,omitempty"`
	Message            string           `bson:"message" json:"message"`
	IsRead             bool             `bson:"isRead" json:"isRead"`
	Timestamp          time.Time        `bson:"timestamp" json:"timestamp"`
}
