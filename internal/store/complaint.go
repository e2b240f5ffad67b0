package store

import (
	"context"
	"sync"

	"github.com/RoshaThankachan/EcoWaste/internal/kv"
	"github.com/RoshaThankachan/EcoWaste/types"
)

// ComplaintRepository handles persistence for complaints. Complaints
// are append-only except for in-place updates by ID; there is no
// deletion operation.
type ComplaintRepository struct {
	kv kv.Store
	mu sync.Mutex
}

func NewComplaintRepository(store kv.Store) *ComplaintRepository {
	return &ComplaintRepository{kv: store}
}

// List returns all complaints in submission order.
func (r *ComplaintRepository) List(ctx context.Context) ([]types.Complaint, error) {
	return readList[types.Complaint](ctx, r.kv, KeyComplaints)
}

func (r *ComplaintRepository) GetByID(ctx context.Context, id string) (types.Complaint, error) {
	complaints, err := r.List(ctx)
	if err != nil {
		return types.Complaint{}, err
	}
	for _, complaint := range complaints {
		if complaint.ID == id {
			return complaint, nil
		}
	}
	return types.Complaint{}, ErrNotFound
}

// Append adds a complaint to the end of the collection.
func (r *ComplaintRepository) Append(ctx context.Context, complaint types.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	complaints, err := r.List(ctx)
	if err != nil {
		return err
	}
	complaints = append(complaints, complaint)
	return writeBlob(ctx, r.kv, KeyComplaints, complaints)
}

// Update replaces the stored complaint matching complaint.ID.
func (r *ComplaintRepository) Update(ctx context.Context, complaint types.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	complaints, err := r.List(ctx)
	if err != nil {
		return err
	}
	for i := range complaints {
		if complaints[i].ID == complaint.ID {
			complaints[i] = complaint
			return writeBlob(ctx, r.kv, KeyComplaints, complaints)
		}
	}
	return ErrNotFound
}
