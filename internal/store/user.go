package store

import (
	"context"
	"sync"
	"time"

	"github.com/RoshaThankachan/EcoWaste/internal/kv"
	"github.com/RoshaThankachan/EcoWaste/types"
)

// UserRepository handles persistence for the user roster.
type UserRepository struct {
	kv kv.Store
	mu sync.Mutex
}

func NewUserRepository(store kv.Store) *UserRepository {
	return &UserRepository{kv: store}
}

// List returns all roster users in insertion order.
func (r *UserRepository) List(ctx context.Context) ([]types.User, error) {
	return readList[types.User](ctx, r.kv, KeyUsers)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return types.User{}, err
	}
	for _, user := range users {
		if user.Username == username {
			return user, nil
		}
	}
	return types.User{}, ErrNotFound
}

// Create appends a user to the roster. Usernames are the primary key;
// the uniqueness check happens inside the critical section so two
// concurrent creates cannot both slip in.
func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.List(ctx)
	if err != nil {
		return types.User{}, err
	}
	for _, existing := range users {
		if existing.Username == user.Username {
			return types.User{}, ErrExists
		}
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	users = append(users, user)
	if err := writeBlob(ctx, r.kv, KeyUsers, users); err != nil {
		return types.User{}, err
	}
	return user, nil
}

// Update replaces the roster record matching user.Username.
func (r *UserRepository) Update(ctx context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.List(ctx)
	if err != nil {
		return types.User{}, err
	}

	for i := range users {
		if users[i].Username == user.Username {
			users[i] = user
			if err := writeBlob(ctx, r.kv, KeyUsers, users); err != nil {
				return types.User{}, err
			}
			return user, nil
		}
	}
	return types.User{}, ErrNotFound
}

// Adjust adds delta to the user's point balance and returns the updated
// record. The read, increment and write all happen inside the critical
// section, so concurrent adjustments to the same user never lose an
// update.
func (r *UserRepository) Adjust(ctx context.Context, username string, delta int) (types.User, error) {
	return r.mutate(ctx, username, func(user *types.User) {
		user.Points += delta
	})
}

// Mutate applies fn to the named user's record inside the critical
// section and persists the result. Use it for read-modify-write edits
// that must not clobber concurrent writes to other fields.
func (r *UserRepository) Mutate(ctx context.Context, username string, fn func(user *types.User)) (types.User, error) {
	return r.mutate(ctx, username, fn)
}

func (r *UserRepository) mutate(ctx context.Context, username string, fn func(user *types.User)) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.List(ctx)
	if err != nil {
		return types.User{}, err
	}

	for i := range users {
		if users[i].Username == username {
			fn(&users[i])
			if err := writeBlob(ctx, r.kv, KeyUsers, users); err != nil {
				return types.User{}, err
			}
			return users[i], nil
		}
	}
	return types.User{}, ErrNotFound
}
