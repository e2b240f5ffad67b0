package store

import (
	"context"
	"errors"

	"github.com/RoshaThankachan/EcoWaste/internal/kv"
	"github.com/RoshaThankachan/EcoWaste/types"
)

// ScheduleRepository handles persistence for the collection schedule.
type ScheduleRepository struct {
	kv kv.Store
}

func NewScheduleRepository(store kv.Store) *ScheduleRepository {
	return &ScheduleRepository{kv: store}
}

// Get returns the persisted schedule, or ErrNotFound when none has
// been written yet.
func (r *ScheduleRepository) Get(ctx context.Context) ([]types.ScheduleEntry, error) {
	var entries []types.ScheduleEntry
	if err := readBlob(ctx, r.kv, KeySchedule, &entries); err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return entries, nil
}

func (r *ScheduleRepository) Put(ctx context.Context, entries []types.ScheduleEntry) error {
	return writeBlob(ctx, r.kv, KeySchedule, entries)
}
