package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/RoshaThankachan/EcoWaste/internal/kv"
	"github.com/RoshaThankachan/EcoWaste/types"
)

func TestUserRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(kv.NewMemoryStore())

	if _, err := repo.GetByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	created, err := repo.Create(ctx, types.User{
		Username: "alice",
		Role:     types.RoleResident,
		FullName: "Alice A",
		Points:   10,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}

	got, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FullName != "Alice A" || got.Points != 10 {
		t.Fatalf("unexpected user: %+v", got)
	}

	got.Points = 60
	if _, err := repo.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if updated.Points != 60 {
		t.Fatalf("unexpected points: %d", updated.Points)
	}

	if _, err := repo.Update(ctx, types.User{Username: "ghost"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown update, got %v", err)
	}

	if _, err := repo.Create(ctx, types.User{Username: "alice"}); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists for duplicate create, got %v", err)
	}

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
}

func TestUserRepositoryAdjust(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(kv.NewMemoryStore())

	if _, err := repo.Adjust(ctx, "ghost", 50); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err := repo.Create(ctx, types.User{Username: "alice", Role: types.RoleResident, Points: 25})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	adjusted, err := repo.Adjust(ctx, "alice", 50)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if adjusted.Points != 75 {
		t.Fatalf("expected 75 points, got %d", adjusted.Points)
	}
}

func TestUserRepositoryAdjustConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(kv.NewMemoryStore())

	_, err := repo.Create(ctx, types.User{Username: "alice", Role: types.RoleResident})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := repo.Adjust(ctx, "alice", 50); err != nil {
				t.Errorf("adjust: %v", err)
			}
		}()
	}
	wg.Wait()

	user, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if user.Points != workers*50 {
		t.Fatalf("expected %d points after %d concurrent adjustments, got %d", workers*50, workers, user.Points)
	}
}

func TestComplaintRepositoryAppendAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewComplaintRepository(kv.NewMemoryStore())

	complaints, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list on empty store: %v", err)
	}
	if len(complaints) != 0 {
		t.Fatalf("expected empty list, got %d", len(complaints))
	}

	now := time.Now()
	first := types.Complaint{
		ID:          "CMP-1",
		Location:    "Downtown",
		WasteType:   types.WasteRecyclable,
		Description: "bottles",
		Status:      types.StatusPending,
		SubmittedBy: "alice",
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	second := first
	second.ID = "CMP-2"
	second.Location = "North District"

	if err := repo.Append(ctx, first); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.Append(ctx, second); err != nil {
		t.Fatalf("append: %v", err)
	}

	complaints, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(complaints) != 2 || complaints[0].ID != "CMP-1" || complaints[1].ID != "CMP-2" {
		t.Fatalf("expected submission order preserved, got %+v", complaints)
	}

	first.Status = types.StatusResolved
	if err := repo.Update(ctx, first); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.GetByID(ctx, "CMP-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != types.StatusResolved {
		t.Fatalf("unexpected status: %q", got.Status)
	}

	if err := repo.Update(ctx, types.Complaint{ID: "CMP-404"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown update, got %v", err)
	}
	if _, err := repo.GetByID(ctx, "CMP-404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestScheduleRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewScheduleRepository(kv.NewMemoryStore())

	if _, err := repo.Get(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	entries := []types.ScheduleEntry{
		{Area: "Downtown", Day: "Monday", Time: "08:00 AM", WasteType: types.WasteBiodegradable},
	}
	if err := repo.Put(ctx, entries); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got[0].Area != "Downtown" {
		t.Fatalf("unexpected schedule: %+v", got)
	}
}

func TestSessionRepositorySingleton(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(kv.NewMemoryStore())

	if _, err := repo.Get(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := repo.Put(ctx, types.Session{Username: "alice", Role: types.RoleResident}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.Put(ctx, types.Session{Username: "bob", Role: types.RoleAdmin}); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Username != "bob" {
		t.Fatalf("expected last login to win, got %q", got.Username)
	}

	if err := repo.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestReadBlobCorruptData(t *testing.T) {
	ctx := context.Background()
	memory := kv.NewMemoryStore()
	if err := memory.Put(ctx, KeyUsers, []byte("{not json")); err != nil {
		t.Fatalf("put: %v", err)
	}

	repo := NewUserRepository(memory)
	if _, err := repo.List(ctx); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}
