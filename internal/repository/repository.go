package repository

import (
	"context"
	"errors"
	"fmt"
)

// Error constants for the repository layer.
var (
	ErrNotFound          = RepositoryError("not found")
	ErrAlreadyExists     = RepositoryError("already exists")
	ErrRemoteUnavailable = RepositoryError("remote store unavailable")
	ErrLocalCacheMiss    = RepositoryError("no cached data")
	ErrInvalidCursor     = RepositoryError("invalid page cursor")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UnavailableError is returned by reconciling reads when the remote store
// failed and the local cache could not answer either. The message is the
// remote failure so callers surface what actually went wrong.
type UnavailableError struct {
	Op        string
	CacheMiss bool
	Err       error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, ErrRemoteUnavailable)
	}
	return e.Err.Error()
}

// Unwrap exposes the remote failure together with the sentinel kinds so both
// errors.Is(err, ErrRemoteUnavailable) and errors.Is(err, ErrLocalCacheMiss) work.
func (e *UnavailableError) Unwrap() []error {
	errs := []error{ErrRemoteUnavailable}
	if e.CacheMiss {
		errs = append(errs, ErrLocalCacheMiss)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// IsNotFound reports whether err means the document does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Collection names shared by every DocumentStore implementation.
const (
	UsersCollection         = "users"
	ProgramsCollection      = "programs"
	ExercisesCollection     = "exercises"
	ProgressLogsCollection  = "progress_logs"
	WorkoutPlansCollection  = "workout_plans"
	PostsCollection         = "posts"
	CommentsCollection      = "comments"
	LikesCollection         = "likes"
	FollowsCollection       = "follows"
	NotificationsCollection = "notifications"
	RevokedTokensCollection = "revoked_tokens"
)

// Filter is a conjunction of field equality conditions. When the stored field
// is an array, the condition matches if the array contains the value.
type Filter map[string]any

// Direction of an ordered query.
type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// PageQuery describes one keyset page ordered by OrderBy then by _id.
type PageQuery struct {
	OrderBy   string
	Direction Direction
	Limit     int
	After     Cursor
}

// OpKind is the type of a write inside a Batch.
type OpKind int

const (
	OpSet OpKind = iota
	OpUpdate
	OpDelete
)

// WriteOp is a single write applied as part of a Batch.
type WriteOp struct {
	Kind       OpKind
	Collection string
	ID         string
	Doc        any
	Patch      map[string]any
}

func SetOp(collection, id string, doc any) WriteOp {
	return WriteOp{Kind: OpSet, Collection: collection, ID: id, Doc: doc}
}

func UpdateOp(collection, id string, patch map[string]any) WriteOp {
	return WriteOp{Kind: OpUpdate, Collection: collection, ID: id, Patch: patch}
}

func DeleteOp(collection, id string) WriteOp {
	return WriteOp{Kind: OpDelete, Collection: collection, ID: id}
}

// DocumentStore is the remote document database all repositories and
// services talk to. Documents are addressed by (collection, id); out
// arguments follow the bson decoding rules of the mongo driver.
type DocumentStore interface {
	// NewID returns a fresh identifier for a document in collection.
	NewID(collection string) string

	GetByID(ctx context.Context, collection, id string, out any) error
	// Find decodes every matching document into out, which must point to a slice.
	Find(ctx context.Context, collection string, filter Filter, out any) error
	// FindPage decodes at most q.Limit documents after q.After and returns
	// the cursor of the last one, or "" when the page is empty.
	FindPage(ctx context.Context, collection string, filter Filter, q PageQuery, out any) (Cursor, error)
	Count(ctx context.Context, collection string, filter Filter) (int64, error)

	// Create inserts doc only if no document with id exists, otherwise ErrAlreadyExists.
	Create(ctx context.Context, collection, id string, doc any) error
	// Set inserts or fully replaces the document.
	Set(ctx context.Context, collection, id string, doc any) error
	// Update sets the given fields on an existing document.
	Update(ctx context.Context, collection, id string, patch map[string]any) error
	// Delete removes the document and reports whether it existed.
	Delete(ctx context.Context, collection, id string) (bool, error)
	// Increment atomically adds delta to a numeric field of an existing document.
	Increment(ctx context.Context, collection, id, field string, delta int) error
	// ArrayUnion adds value to an array field unless already present.
	ArrayUnion(ctx context.Context, collection, id, field string, value any) error
	// ArrayRemove removes every occurrence of value from an array field.
	ArrayRemove(ctx context.Context, collection, id, field string, value any) error
	// Batch applies ops; it is not transactional across collections.
	Batch(ctx context.Context, ops []WriteOp) error
}
