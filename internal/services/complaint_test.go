package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/RoshaThankachan/EcoWaste/internal/kv"
	"github.com/RoshaThankachan/EcoWaste/internal/store"
	"github.com/RoshaThankachan/EcoWaste/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu       sync.Mutex
	channels []string
	types    []string
}

func (p *recordingPublisher) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channels = append(p.channels, channel)
	p.types = append(p.types, attrs["type"])
	return "msg-1", nil
}

func (p *recordingPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.types...)
}

type complaintFixture struct {
	complaints   *ComplaintService
	gamification *GamificationService
	users        *store.UserRepository
	events       *recordingPublisher
}

func newComplaintFixture(t *testing.T) complaintFixture {
	t.Helper()
	memory := kv.NewMemoryStore()
	users := store.NewUserRepository(memory)
	sessions := store.NewSessionRepository(memory)
	complaints := store.NewComplaintRepository(memory)
	events := &recordingPublisher{}

	gamification := NewGamificationService(users, sessions, events)
	return complaintFixture{
		complaints:   NewComplaintService(complaints, gamification, events),
		gamification: gamification,
		users:        users,
		events:       events,
	}
}

func TestSubmitAssignsDefaults(t *testing.T) {
	fx := newComplaintFixture(t)
	ctx := context.Background()

	complaint, err := fx.complaints.Submit(ctx, SubmitInput{
		Location:    "Downtown",
		WasteType:   types.WasteRecyclable,
		Description: "Plastic bottles on the sidewalk",
	})
	require.NoError(t, err)

	assert.Equal(t, types.StatusPending, complaint.Status)
	assert.Equal(t, AnonymousSubmitter, complaint.SubmittedBy)
	assert.True(t, strings.HasPrefix(complaint.ID, "CMP-"), "id %q", complaint.ID)
	assert.False(t, complaint.SubmittedAt.IsZero())
	assert.Equal(t, complaint.SubmittedAt, complaint.UpdatedAt)
	assert.Equal(t, []string{types.EventComplaintSubmitted}, fx.events.eventTypes())
}

func TestSubmitRejectsInvalidInput(t *testing.T) {
	fx := newComplaintFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input SubmitInput
	}{
		{"unknown area", SubmitInput{Location: "Atlantis", WasteType: types.WasteRecyclable, Description: "x"}},
		{"unknown waste type", SubmitInput{Location: "Downtown", WasteType: "Nuclear", Description: "x"}},
		{"blank description", SubmitInput{Location: "Downtown", WasteType: types.WasteRecyclable, Description: "   "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.complaints.Submit(ctx, tc.input)
			assert.Error(t, err)
		})
	}

	all, err := fx.complaints.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSubmitGeneratesUniqueIDs(t *testing.T) {
	fx := newComplaintFixture(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		complaint, err := fx.complaints.Submit(ctx, SubmitInput{
			Location:    "Downtown",
			WasteType:   types.WasteBiodegradable,
			Description: "overflowing bin",
		})
		require.NoError(t, err)
		require.False(t, seen[complaint.ID], "duplicate id %q", complaint.ID)
		seen[complaint.ID] = true
	}
}

func TestSetStatusAwardsPointsOnResolve(t *testing.T) {
	fx := newComplaintFixture(t)
	ctx := context.Background()

	_, err := fx.users.Create(ctx, types.User{
		Username: "alice",
		Role:     types.RoleResident,
		Points:   25,
	})
	require.NoError(t, err)

	complaint, err := fx.complaints.Submit(ctx, SubmitInput{
		Location:    "East District",
		WasteType:   types.WasteHazardous,
		Description: "electronic waste near school",
		SubmittedBy: "alice",
	})
	require.NoError(t, err)

	updated, err := fx.complaints.SetStatus(ctx, complaint.ID, types.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, types.StatusResolved, updated.Status)

	user, err := fx.users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 75, user.Points)

	// Re-resolving awards again; the balance only ever goes up.
	_, err = fx.complaints.SetStatus(ctx, complaint.ID, types.StatusResolved)
	require.NoError(t, err)
	user, err = fx.users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 125, user.Points)
}

func TestSetStatusAnonymousSubmitterSkipsAward(t *testing.T) {
	fx := newComplaintFixture(t)
	ctx := context.Background()

	complaint, err := fx.complaints.Submit(ctx, SubmitInput{
		Location:    "West District",
		WasteType:   types.WasteNonBiodegradable,
		Description: "illegal dumping site",
	})
	require.NoError(t, err)

	updated, err := fx.complaints.SetStatus(ctx, complaint.ID, types.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, types.StatusResolved, updated.Status)

	users, err := fx.users.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestSetStatusRejectsUnknownValue(t *testing.T) {
	fx := newComplaintFixture(t)
	ctx := context.Background()

	complaint, err := fx.complaints.Submit(ctx, SubmitInput{
		Location:    "Downtown",
		WasteType:   types.WasteRecyclable,
		Description: "bottles",
	})
	require.NoError(t, err)

	_, err = fx.complaints.SetStatus(ctx, complaint.ID, "Closed")
	assert.Error(t, err)

	_, err = fx.complaints.SetStatus(ctx, "CMP-404", types.StatusResolved)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStatsCoversEveryArea(t *testing.T) {
	fx := newComplaintFixture(t)
	ctx := context.Background()

	submissions := []SubmitInput{
		{Location: "Downtown", WasteType: types.WasteRecyclable, Description: "a"},
		{Location: "Downtown", WasteType: types.WasteBiodegradable, Description: "b"},
		{Location: "North District", WasteType: types.WasteHazardous, Description: "c"},
	}
	var ids []string
	for _, input := range submissions {
		complaint, err := fx.complaints.Submit(ctx, input)
		require.NoError(t, err)
		ids = append(ids, complaint.ID)
	}

	_, err := fx.complaints.SetStatus(ctx, ids[0], types.StatusInProgress)
	require.NoError(t, err)
	_, err = fx.complaints.SetStatus(ctx, ids[1], types.StatusResolved)
	require.NoError(t, err)

	stats, err := fx.complaints.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, stats.Total, stats.Pending+stats.InProgress+stats.Resolved)

	require.Len(t, stats.ByArea, len(types.Areas))
	assert.Equal(t, 2, stats.ByArea["Downtown"])
	assert.Equal(t, 1, stats.ByArea["North District"])
	assert.Equal(t, 0, stats.ByArea["Industrial Zone"])
}

func TestComplaintFilters(t *testing.T) {
	fx := newComplaintFixture(t)
	ctx := context.Background()

	_, err := fx.complaints.Submit(ctx, SubmitInput{
		Location: "Downtown", WasteType: types.WasteRecyclable, Description: "a", SubmittedBy: "alice",
	})
	require.NoError(t, err)
	second, err := fx.complaints.Submit(ctx, SubmitInput{
		Location: "North District", WasteType: types.WasteRecyclable, Description: "b", SubmittedBy: "bob",
	})
	require.NoError(t, err)
	_, err = fx.complaints.SetStatus(ctx, second.ID, types.StatusResolved)
	require.NoError(t, err)

	byArea, err := fx.complaints.ByArea(ctx, "Downtown")
	require.NoError(t, err)
	require.Len(t, byArea, 1)
	assert.Equal(t, "alice", byArea[0].SubmittedBy)

	byStatus, err := fx.complaints.ByStatus(ctx, types.StatusResolved)
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, second.ID, byStatus[0].ID)

	byUser, err := fx.complaints.ByUser(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, second.ID, byUser[0].ID)
}
