package types

import "time"

// Event types published on the lifecycle channel.
const (
	EventComplaintSubmitted     = "complaint.submitted"
	EventComplaintStatusChanged = "complaint.status_changed"
	EventPointsAwarded          = "points.awarded"
)

// Event is the JSON payload published for complaint and gamification
// lifecycle changes. Exactly one of Complaint or Award is set,
// depending on Type.
type Event struct {
	// Type is one of the Event* constants.
	Type string `json:"type"`

	// OccurredAt is the timestamp the event was produced.
	OccurredAt time.Time `json:"occurredAt"`

	// Complaint is the affected complaint, for complaint.* events.
	Complaint *Complaint `json:"complaint,omitempty"`

	// Award describes a point award, for points.awarded events.
	Award *PointAward `json:"award,omitempty"`
}

// PointAward records a single point award.
type PointAward struct {
	// Username identifies the profile the points were added to.
	Username string `json:"username"`

	// Amount is the number of points added. Awards are always positive;
	// there is no deduction operation.
	Amount int `json:"amount"`

	// Reason is a short human-readable cause, e.g. "Issue Resolved".
	Reason string `json:"reason"`

	// Total is the profile's balance after the award.
	Total int `json:"total"`
}
