package types

import "time"

// ComplaintStatus is the lifecycle state of a waste complaint.
type ComplaintStatus string

// Supported complaint statuses. Transitions between them are not
// restricted; any status may be set at any time.
const (
	StatusPending    ComplaintStatus = "Pending"
	StatusInProgress ComplaintStatus = "In Progress"
	StatusResolved   ComplaintStatus = "Resolved"
)

// ValidStatus reports whether s is one of the supported complaint statuses.
func ValidStatus(s ComplaintStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// WasteType classifies the waste a complaint is about.
type WasteType string

// Supported waste types.
const (
	WasteBiodegradable    WasteType = "Biodegradable"
	WasteNonBiodegradable WasteType = "Non-Biodegradable"
	WasteRecyclable       WasteType = "Recyclable"
	WasteHazardous        WasteType = "Hazardous"
)

// ValidWasteType reports whether w is one of the supported waste types.
func ValidWasteType(w WasteType) bool {
	switch w {
	case WasteBiodegradable, WasteNonBiodegradable, WasteRecyclable, WasteHazardous:
		return true
	}
	return false
}

// Areas is the fixed set of service regions. Complaint locations and
// collection schedule entries always come from this list, in this order.
var Areas = []string{
	"Downtown",
	"North District",
	"South District",
	"East District",
	"West District",
	"Suburban Area",
	"Industrial Zone",
}

// ValidArea reports whether area is one of the fixed service regions.
func ValidArea(area string) bool {
	for _, a := range Areas {
		if a == area {
			return true
		}
	}
	return false
}

// Complaint represents a waste complaint reported by a resident.
type Complaint struct {
	// ID is the unique identifier of the complaint, of the form
	// "CMP-<unix-millis>-<random suffix>". IDs are never reused.
	ID string `json:"id"`

	// Location is the service region the complaint was reported in.
	// Always one of Areas.
	Location string `json:"location"`

	// WasteType classifies the reported waste.
	WasteType WasteType `json:"wasteType"`

	// Description is the free-text report entered by the submitter.
	Description string `json:"description"`

	// Photo optionally holds a small inline image payload (a data URL).
	// Larger uploads go to object storage instead; see PhotoKey.
	Photo *string `json:"photo,omitempty"`

	// PhotoKey is the object-storage key of an uploaded photo, if any.
	PhotoKey string `json:"photoKey,omitempty"`

	// PhotoContentType is the MIME type of the uploaded photo.
	PhotoContentType string `json:"photoContentType,omitempty"`

	// Status is the current lifecycle state of the complaint.
	Status ComplaintStatus `json:"status"`

	// SubmittedBy is the username of the reporter, or "Anonymous" when
	// the complaint was filed without a session.
	SubmittedBy string `json:"submittedBy"`

	// SubmittedAt is the timestamp the complaint was filed.
	SubmittedAt time.Time `json:"submittedAt"`

	// UpdatedAt is the timestamp of the most recent status change.
	UpdatedAt time.Time `json:"updatedAt"`
}

// ComplaintStats aggregates complaint counts for dashboard views.
// Total always equals Pending + InProgress + Resolved, and ByArea carries
// an entry for every service region, zero-valued when no complaints exist.
type ComplaintStats struct {
	Total      int            `json:"total"`
	Pending    int            `json:"pending"`
	InProgress int            `json:"inProgress"`
	Resolved   int            `json:"resolved"`
	ByArea     map[string]int `json:"byArea"`
}
