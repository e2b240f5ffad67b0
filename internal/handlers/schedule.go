package handlers

import (
	"net/http"

	"github.com/RoshaThankachan/EcoWaste/internal/services"
	"github.com/RoshaThankachan/EcoWaste/types"
	"github.com/go-chi/chi/v5"
)

// ScheduleHandler serves the waste collection schedule.
type ScheduleHandler struct {
	scheduleService *services.ScheduleService
}

func NewScheduleHandler(scheduleService *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// ScheduleRouter registers schedule routes on the given router.
func ScheduleRouter(r chi.Router, scheduleService *services.ScheduleService) {
	handler := NewScheduleHandler(scheduleService)

	r.Get("/", handler.GetSchedule)
	r.Get("/{area}", handler.GetAreaSchedule)
}

// GetSchedule returns the full collection schedule.
func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	entries, err := h.scheduleService.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load schedule")
		return
	}
	writeJSON(w, http.StatusOK, ScheduleResponse{Items: entries})
}

// GetAreaSchedule returns the schedule entries for a single area. An
// unknown area yields an empty list, not an error.
func (h *ScheduleHandler) GetAreaSchedule(w http.ResponseWriter, r *http.Request) {
	entries, err := h.scheduleService.ByArea(r.Context(), chi.URLParam(r, "area"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load schedule")
		return
	}
	writeJSON(w, http.StatusOK, ScheduleResponse{Items: entries})
}

// ScheduleResponse is the schedule payload.
type ScheduleResponse struct {
	Items []types.ScheduleEntry `json:"items"`
}
