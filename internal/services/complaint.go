package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/RoshaThankachan/EcoWaste/internal/store"
	"github.com/RoshaThankachan/EcoWaste/types"
	"github.com/google/uuid"
)

const (
	// resolveRewardPoints is awarded to the submitter when their
	// complaint transitions to Resolved.
	resolveRewardPoints = 50
	resolveRewardReason = "Issue Resolved"

	// AnonymousSubmitter is recorded when a complaint is filed without
	// a session.
	AnonymousSubmitter = "Anonymous"

	complaintIDPrefix    = "CMP"
	complaintIDSuffixLen = 9
)

// ComplaintRepository defines persistence operations for complaints.
type ComplaintRepository interface {
	List(ctx context.Context) ([]types.Complaint, error)
	GetByID(ctx context.Context, id string) (types.Complaint, error)
	Append(ctx context.Context, complaint types.Complaint) error
	Update(ctx context.Context, complaint types.Complaint) error
}

// PointAwarder credits points to a user profile. The gamification
// service satisfies it.
type PointAwarder interface {
	AwardPoints(ctx context.Context, username string, amount int, reason string) error
}

// ComplaintService encapsulates complaint use-cases.
type ComplaintService struct {
	complaints ComplaintRepository
	awarder    PointAwarder
	events     Publisher
	logger     *slog.Logger
}

func NewComplaintService(complaints ComplaintRepository, awarder PointAwarder, events Publisher) *ComplaintService {
	if events == nil {
		events = NopPublisher{}
	}
	return &ComplaintService{
		complaints: complaints,
		awarder:    awarder,
		events:     events,
		logger:     slog.Default(),
	}
}

// SubmitInput is the payload for filing a complaint.
type SubmitInput struct {
	Location    string
	WasteType   types.WasteType
	Description string

	// Photo is a small inline image payload (a data URL), if any.
	Photo *string

	// PhotoKey and PhotoContentType reference an uploaded photo in
	// object storage, if any.
	PhotoKey         string
	PhotoContentType string

	// SubmittedBy is the session username; empty means anonymous.
	SubmittedBy string
}

// Submit validates the input, assigns a fresh ID, forces the status to
// Pending regardless of input, and appends the complaint.
func (s *ComplaintService) Submit(ctx context.Context, input SubmitInput) (types.Complaint, error) {
	if !types.ValidArea(input.Location) {
		return types.Complaint{}, fmt.Errorf("invalid area %q", input.Location)
	}
	if !types.ValidWasteType(input.WasteType) {
		return types.Complaint{}, fmt.Errorf("invalid waste type %q", input.WasteType)
	}
	if strings.TrimSpace(input.Description) == "" {
		return types.Complaint{}, errors.New("description is required")
	}

	submittedBy := input.SubmittedBy
	if submittedBy == "" {
		submittedBy = AnonymousSubmitter
	}

	now := time.Now()
	complaint := types.Complaint{
		ID:               newComplaintID(),
		Location:         input.Location,
		WasteType:        input.WasteType,
		Description:      input.Description,
		Photo:            input.Photo,
		PhotoKey:         input.PhotoKey,
		PhotoContentType: input.PhotoContentType,
		Status:           types.StatusPending,
		SubmittedBy:      submittedBy,
		SubmittedAt:      now,
		UpdatedAt:        now,
	}

	if err := s.complaints.Append(ctx, complaint); err != nil {
		return types.Complaint{}, err
	}

	publishEvent(ctx, s.events, s.logger, types.Event{
		Type:      types.EventComplaintSubmitted,
		Complaint: &complaint,
	})
	return complaint, nil
}

// SetStatus updates a complaint's status and UpdatedAt. Any transition
// is allowed as long as the value itself is valid, and every transition
// to Resolved awards points, re-resolves included. The award is skipped
// silently when the submitter has no profile.
func (s *ComplaintService) SetStatus(ctx context.Context, id string, status types.ComplaintStatus) (types.Complaint, error) {
	if !types.ValidStatus(status) {
		return types.Complaint{}, fmt.Errorf("invalid status %q", status)
	}

	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return types.Complaint{}, err
	}

	complaint.Status = status
	complaint.UpdatedAt = time.Now()
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return types.Complaint{}, err
	}

	if status == types.StatusResolved && s.awarder != nil {
		err := s.awarder.AwardPoints(ctx, complaint.SubmittedBy, resolveRewardPoints, resolveRewardReason)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return types.Complaint{}, err
		}
	}

	publishEvent(ctx, s.events, s.logger, types.Event{
		Type:      types.EventComplaintStatusChanged,
		Complaint: &complaint,
	})
	return complaint, nil
}

// All returns every complaint in submission order.
func (s *ComplaintService) All(ctx context.Context) ([]types.Complaint, error) {
	return s.complaints.List(ctx)
}

// ByArea returns the complaints filed in the given area.
func (s *ComplaintService) ByArea(ctx context.Context, area string) ([]types.Complaint, error) {
	return s.filter(ctx, func(c types.Complaint) bool { return c.Location == area })
}

// ByStatus returns the complaints currently in the given status.
func (s *ComplaintService) ByStatus(ctx context.Context, status types.ComplaintStatus) ([]types.Complaint, error) {
	return s.filter(ctx, func(c types.Complaint) bool { return c.Status == status })
}

// ByUser returns the complaints submitted by the given username.
func (s *ComplaintService) ByUser(ctx context.Context, username string) ([]types.Complaint, error) {
	return s.filter(ctx, func(c types.Complaint) bool { return c.SubmittedBy == username })
}

// Get returns a single complaint by ID.
func (s *ComplaintService) Get(ctx context.Context, id string) (types.Complaint, error) {
	return s.complaints.GetByID(ctx, id)
}

func (s *ComplaintService) filter(ctx context.Context, keep func(types.Complaint) bool) ([]types.Complaint, error) {
	complaints, err := s.complaints.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]types.Complaint, 0, len(complaints))
	for _, complaint := range complaints {
		if keep(complaint) {
			matched = append(matched, complaint)
		}
	}
	return matched, nil
}

// Stats aggregates complaint counts. Every service region appears in
// ByArea, zero-valued when it has no complaints.
func (s *ComplaintService) Stats(ctx context.Context) (types.ComplaintStats, error) {
	complaints, err := s.complaints.List(ctx)
	if err != nil {
		return types.ComplaintStats{}, err
	}

	stats := types.ComplaintStats{
		Total:  len(complaints),
		ByArea: make(map[string]int, len(types.Areas)),
	}
	for _, area := range types.Areas {
		stats.ByArea[area] = 0
	}
	for _, complaint := range complaints {
		switch complaint.Status {
		case types.StatusPending:
			stats.Pending++
		case types.StatusInProgress:
			stats.InProgress++
		case types.StatusResolved:
			stats.Resolved++
		}
		stats.ByArea[complaint.Location]++
	}
	return stats, nil
}

// newComplaintID generates an identifier of the form
// CMP-<unix-millis>-<random suffix>. The timestamp plus random suffix
// makes reuse within a process lifetime practically impossible.
func newComplaintID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:complaintIDSuffixLen]
	return complaintIDPrefix + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + suffix
}
