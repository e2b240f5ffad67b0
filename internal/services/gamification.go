package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/RoshaThankachan/EcoWaste/internal/store"
	"github.com/RoshaThankachan/EcoWaste/types"
)

// leaderboardSize caps the leaderboard at the top residents.
const leaderboardSize = 5

// GamificationService handles point awards, the leaderboard and level
// lookups.
type GamificationService struct {
	users    UserRepository
	sessions SessionRepository
	events   Publisher
	logger   *slog.Logger
}

func NewGamificationService(users UserRepository, sessions SessionRepository, events Publisher) *GamificationService {
	if events == nil {
		events = NopPublisher{}
	}
	return &GamificationService{
		users:    users,
		sessions: sessions,
		events:   events,
		logger:   slog.Default(),
	}
}

// AwardPoints adds amount to the user's balance and persists it. The
// increment is applied atomically by the repository so concurrent
// awards to the same user all land. When the awarded user is also the
// current session user, the session copy is updated too so the two
// copies of the record stay in sync. Returns store.ErrNotFound when the
// username has no roster profile.
func (s *GamificationService) AwardPoints(ctx context.Context, username string, amount int, reason string) error {
	user, err := s.users.Adjust(ctx, username, amount)
	if err != nil {
		return err
	}

	session, err := s.sessions.Get(ctx)
	switch {
	case err == nil && session.Username == username:
		session.Points = user.Points
		if err := s.sessions.Put(ctx, session); err != nil {
			return err
		}
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return err
	}

	publishEvent(ctx, s.events, s.logger, types.Event{
		Type: types.EventPointsAwarded,
		Award: &types.PointAward{
			Username: username,
			Amount:   amount,
			Reason:   reason,
			Total:    user.Points,
		},
	})
	return nil
}

// Leaderboard returns up to the top five residents by points, ties
// broken by roster order.
func (s *GamificationService) Leaderboard(ctx context.Context) ([]types.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	residents := make([]types.User, 0, len(users))
	for _, user := range users {
		if user.Role == types.RoleResident {
			residents = append(residents, user)
		}
	}

	sort.SliceStable(residents, func(i, j int) bool {
		return residents[i].Points > residents[j].Points
	})

	if len(residents) > leaderboardSize {
		residents = residents[:leaderboardSize]
	}
	return residents, nil
}

// LevelFor maps a point total onto the gamification ladder.
func (s *GamificationService) LevelFor(points int) types.Level {
	return types.LevelForPoints(points)
}

// ProfileUpdate carries the profile fields a user may edit. Nil fields
// are left unchanged.
type ProfileUpdate struct {
	FullName *string
	Email    *string
}

// UpdateProfile merges the update into the roster record and keeps the
// session copy in sync when it is the same user. The merge runs inside
// the repository's critical section so a concurrent point award is not
// clobbered.
func (s *GamificationService) UpdateProfile(ctx context.Context, username string, update ProfileUpdate) (types.User, error) {
	user, err := s.users.Mutate(ctx, username, func(user *types.User) {
		if update.FullName != nil {
			user.FullName = *update.FullName
		}
		if update.Email != nil {
			user.Email = *update.Email
		}
	})
	if err != nil {
		return types.User{}, err
	}

	session, err := s.sessions.Get(ctx)
	switch {
	case err == nil && session.Username == username:
		session.FullName = user.FullName
		session.Email = user.Email
		if err := s.sessions.Put(ctx, session); err != nil {
			return types.User{}, err
		}
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return types.User{}, err
	}

	return user, nil
}
