// Package store persists the EcoWaste collections as whole JSON blobs
// under fixed keys in a key-value store. There is no row-level access:
// repositories read a blob, decode it, mutate in memory, and write it
// back. Mutating operations are serialized per collection within the
// process; across processes the semantics are last-write-wins.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RoshaThankachan/EcoWaste/internal/kv"
)

// Fixed blob keys. Renaming one orphans already-persisted data, so
// these are stable.
const (
	KeyComplaints  = "ecowaste_complaints"
	KeyUsers       = "ecowaste_users"
	KeyCurrentUser = "ecowaste_current_user"
	KeySchedule    = "ecowaste_schedule"
)

// readBlob decodes the blob at key into dst. A missing key leaves dst
// untouched and returns kv.ErrKeyNotFound; undecodable data returns
// ErrCorrupt wrapped with the offending key.
func readBlob(ctx context.Context, store kv.Store, key string, dst any) error {
	data, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: key %q: %v", ErrCorrupt, key, err)
	}
	return nil
}

func writeBlob(ctx context.Context, store kv.Store, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.Put(ctx, key, data)
}

// readList is readBlob for list collections: a missing key decodes to
// an empty list rather than an error.
func readList[T any](ctx context.Context, store kv.Store, key string) ([]T, error) {
	var items []T
	if err := readBlob(ctx, store, key, &items); err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return items, nil
}
