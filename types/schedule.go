package types

// CollectionDays is the six-day rotation used when generating the
// default collection schedule.
var CollectionDays = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
}

// ScheduleEntry is one row of the collection schedule: when a given
// area has its waste picked up and what kind of waste is collected.
type ScheduleEntry struct {
	// Area is the service region. Always one of Areas.
	Area string `json:"area"`

	// Day is the weekday of collection, one of CollectionDays.
	Day string `json:"day"`

	// Time is the collection time as displayed to residents.
	Time string `json:"time"`

	// WasteType is the kind of waste collected on this run.
	WasteType WasteType `json:"wasteType"`
}
