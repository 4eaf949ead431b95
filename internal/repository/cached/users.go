package cached

import (
	"context"
	"sort"
	"strings"

	"alcyxob/reptrack/internal/domain"
	"alcyxob/reptrack/internal/localcache"
	"alcyxob/reptrack/internal/metrics"
	"alcyxob/reptrack/internal/repository"

	"github.com/sirupsen/logrus"
)

const searchLimit = 20

// UserRepository stores user profiles. Password hashes live only in the
// remote store; the cache never sees them.
type UserRepository struct {
	store repository.DocumentStore
	users *Reconciler[domain.User]
}

func NewUserRepository(store repository.DocumentStore, cacheDir string, log logrus.FieldLogger, m *metrics.Metrics) *UserRepository {
	return &UserRepository{
		store: store,
		users: NewReconciler(store,
			localcache.New[domain.User](cacheDir, localcache.UsersFile, log),
			repository.UsersCollection, log, m),
	}
}

func (r *UserRepository) NewID() string {
	return r.store.NewID(repository.UsersCollection)
}

// Create stores a new account, failing with ErrAlreadyExists on an ID clash.
func (r *UserRepository) Create(ctx context.Context, u domain.User) error {
	if err := r.store.Create(ctx, repository.UsersCollection, u.ID, u); err != nil {
		return err
	}
	r.users.local.Upsert(u)
	return nil
}

func (r *UserRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := r.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail always asks the remote store; credentials are never served from cache.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var users []domain.User
	if err := r.store.Find(ctx, repository.UsersCollection, repository.Filter{"email": email}, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, repository.ErrNotFound
	}
	return &users[0], nil
}

// UpdateProfile sets the public profile fields and returns the updated user.
func (r *UserRepository) UpdateProfile(ctx context.Context, id, name, bio, profilePicURL string) (*domain.User, error) {
	u, err := r.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Name, u.Bio, u.ProfilePicURL = name, bio, profilePicURL
	err = r.users.Update(ctx, *u, map[string]any{
		"name":          name,
		"bio":           bio,
		"profilePicUrl": profilePicURL,
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Search returns up to 20 users whose name starts with prefix, ignoring case.
// Matching is done in process over the whole user list.
func (r *UserRepository) Search(ctx context.Context, prefix string) ([]domain.User, error) {
	users, err := r.users.List(ctx, nil, all[domain.User])
	if err != nil {
		return nil, err
	}
	prefix = strings.ToLower(prefix)
	var out []domain.User
	for _, u := range users {
		if strings.HasPrefix(strings.ToLower(u.Name), prefix) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > searchLimit {
		out = out[:searchLimit]
	}
	return out, nil
}
