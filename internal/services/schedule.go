package services

import (
	"context"
	"errors"

	"github.com/RoshaThankachan/EcoWaste/internal/store"
	"github.com/RoshaThankachan/EcoWaste/types"
)

// collectionTime is the fixed pickup time shown for every run.
const collectionTime = "08:00 AM"

// ScheduleRepository defines persistence operations for the collection
// schedule.
type ScheduleRepository interface {
	Get(ctx context.Context) ([]types.ScheduleEntry, error)
	Put(ctx context.Context, entries []types.ScheduleEntry) error
}

// ScheduleService serves the collection schedule, generating and
// persisting the deterministic default on first access.
type ScheduleService struct {
	schedule ScheduleRepository
}

func NewScheduleService(schedule ScheduleRepository) *ScheduleService {
	return &ScheduleService{schedule: schedule}
}

// Get returns the persisted schedule. When none exists yet it
// generates the default, persists it, and returns it; repeated calls
// without intervening writes return identical data.
func (s *ScheduleService) Get(ctx context.Context) ([]types.ScheduleEntry, error) {
	entries, err := s.schedule.Get(ctx)
	if err == nil {
		return entries, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	entries = DefaultSchedule()
	if err := s.schedule.Put(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ByArea returns the schedule entries for the given area.
func (s *ScheduleService) ByArea(ctx context.Context, area string) ([]types.ScheduleEntry, error) {
	entries, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]types.ScheduleEntry, 0, 1)
	for _, entry := range entries {
		if entry.Area == area {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

// DefaultSchedule builds the deterministic default: one entry per
// area, cycling through the six-day rotation by area index, waste type
// alternating between biodegradable and non-biodegradable.
func DefaultSchedule() []types.ScheduleEntry {
	entries := make([]types.ScheduleEntry, 0, len(types.Areas))
	for i, area := range types.Areas {
		wasteType := types.WasteBiodegradable
		if i%2 != 0 {
			wasteType = types.WasteNonBiodegradable
		}
		entries = append(entries, types.ScheduleEntry{
			Area:      area,
			Day:       types.CollectionDays[i%len(types.CollectionDays)],
			Time:      collectionTime,
			WasteType: wasteType,
		})
	}
	return entries
}
