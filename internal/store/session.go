package store

import (
	"context"
	"errors"

	"github.com/RoshaThankachan/EcoWaste/internal/kv"
	"github.com/RoshaThankachan/EcoWaste/types"
)

// SessionRepository persists the session singleton. Each login
// overwrites the record; logout deletes it.
type SessionRepository struct {
	kv kv.Store
}

func NewSessionRepository(store kv.Store) *SessionRepository {
	return &SessionRepository{kv: store}
}

// Get returns the current session, or ErrNotFound when nobody is
// logged in.
func (r *SessionRepository) Get(ctx context.Context) (types.Session, error) {
	var session types.Session
	if err := readBlob(ctx, r.kv, KeyCurrentUser, &session); err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return types.Session{}, ErrNotFound
		}
		return types.Session{}, err
	}
	return session, nil
}

func (r *SessionRepository) Put(ctx context.Context, session types.Session) error {
	return writeBlob(ctx, r.kv, KeyCurrentUser, session)
}

func (r *SessionRepository) Delete(ctx context.Context) error {
	return r.kv.Delete(ctx, KeyCurrentUser)
}
