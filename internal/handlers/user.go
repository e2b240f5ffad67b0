package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RoshaThankachan/EcoWaste/internal/services"
	"github.com/RoshaThankachan/EcoWaste/internal/store"
	"github.com/RoshaThankachan/EcoWaste/types"
	"github.com/go-chi/chi/v5"
)

// UserHandler serves leaderboard, level, and profile endpoints.
type UserHandler struct {
	gamificationService *services.GamificationService
	authService         *services.AuthService
}

func NewUserHandler(gamificationService *services.GamificationService, authService *services.AuthService) *UserHandler {
	return &UserHandler{
		gamificationService: gamificationService,
		authService:         authService,
	}
}

// LeaderboardRouter registers the leaderboard route on the given router.
func LeaderboardRouter(r chi.Router, gamificationService *services.GamificationService) {
	handler := NewUserHandler(gamificationService, nil)
	r.Get("/", handler.GetLeaderboard)
}

// UserRouter registers per-user routes on the given router.
func UserRouter(
	r chi.Router,
	gamificationService *services.GamificationService,
	authService *services.AuthService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewUserHandler(gamificationService, authService)

	r.Route("/{username}", func(r chi.Router) {
		r.Get("/level", handler.GetLevel)
		if authMiddleware != nil {
			r.With(authMiddleware).Put("/profile", handler.UpdateProfile)
		} else {
			r.Put("/profile", handler.UpdateProfile)
		}
	})
}

// GetLeaderboard returns the top residents by points.
func (h *UserHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	users, err := h.gamificationService.Leaderboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for rank, user := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:     rank + 1,
			Username: user.Username,
			FullName: user.FullName,
			Points:   user.Points,
			Level:    h.gamificationService.LevelFor(user.Points),
		})
	}
	writeJSON(w, http.StatusOK, LeaderboardResponse{Items: entries})
}

// GetLevel returns the level derived from the user's point balance.
func (h *UserHandler) GetLevel(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.authService.Profile(r.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	writeJSON(w, http.StatusOK, LevelResponse{
		Username: user.Username,
		Points:   user.Points,
		Level:    h.gamificationService.LevelFor(user.Points),
	})
}

// UpdateProfile edits the caller's own profile fields.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, err := usernameFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	username := chi.URLParam(r, "username")
	if caller != username {
		writeError(w, http.StatusForbidden, "cannot edit another user's profile")
		return
	}

	var req ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.gamificationService.UpdateProfile(r.Context(), username, services.ProfileUpdate{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// LeaderboardEntry is one row of the leaderboard payload.
type LeaderboardEntry struct {
	Rank     int         `json:"rank"`
	Username string      `json:"username"`
	FullName string      `json:"fullname"`
	Points   int         `json:"points"`
	Level    types.Level `json:"level"`
}

type LeaderboardResponse struct {
	Items []LeaderboardEntry `json:"items"`
}

type LevelResponse struct {
	Username string      `json:"username"`
	Points   int         `json:"points"`
	Level    types.Level `json:"level"`
}

type ProfileUpdateRequest struct {
	FullName *string `json:"fullname"`
	Email    *string `json:"email"`
}
