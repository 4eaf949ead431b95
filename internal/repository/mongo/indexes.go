package mongo

import (
	"context"

	"alcyxob/reptrack/internal/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collectionIndexes lists the secondary indexes each collection's queries rely on.
var collectionIndexes = map[string][]mongo.IndexModel{
	repository.UsersCollection: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	},
	repository.ProgramsCollection: {
		{Keys: bson.D{{Key: "trainerId", Value: 1}}},
	},
	repository.ExercisesCollection: {
		{Keys: bson.D{{Key: "programId", Value: 1}}},
	},
	repository.ProgressLogsCollection: {
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "exerciseId", Value: 1}}},
	},
	repository.WorkoutPlansCollection: {
		{Keys: bson.D{{Key: "creatorId", Value: 1}}},
		{Keys: bson.D{{Key: "joinedUserIds", Value: 1}}},
	},
	repository.PostsCollection: {
		{Keys: bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	},
	repository.CommentsCollection: {
		{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "timestamp", Value: 1}}},
	},
	repository.LikesCollection: {
		{Keys: bson.D{{Key: "postId", Value: 1}}},
	},
	repository.FollowsCollection: {
		{Keys: bson.D{{Key: "followerId", Value: 1}}},
		{Keys: bson.D{{Key: "followedId", Value: 1}}},
	},
	repository.NotificationsCollection: {
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isRead", Value: 1}}},
	},
	repository.RevokedTokensCollection: {
		// expired tokens drop out on their own
		{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	},
}

// EnsureIndexes creates the indexes of every collection. Failures are logged
// and do not stop startup; queries still work, only slower.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log logrus.FieldLogger) {
	for name, indexes := range collectionIndexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			log.WithError(err).WithField("collection", name).Warn("Failed to create indexes")
		}
	}
}
