package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/RoshaThankachan/EcoWaste/internal/services"
	"github.com/RoshaThankachan/EcoWaste/internal/storage"
	"github.com/RoshaThankachan/EcoWaste/internal/store"
	"github.com/RoshaThankachan/EcoWaste/types"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	maxMultipartMemory  = 32 << 20
	maxPhotoBytes       = 10 << 20
	maxInlinePhotoBytes = 256 << 10

	formFieldLocation    = "location"
	formFieldWasteType   = "wasteType"
	formFieldDescription = "description"
	formFieldPhoto       = "photo"

	photoKeyPrefix = "photos/"
)

// ComplaintHandler provides HTTP handlers for complaints.
type ComplaintHandler struct {
	complaintService *services.ComplaintService
	authService      *services.AuthService
	photos           *storage.Storage
}

// NewComplaintHandler constructs a handler. photos may be nil when no
// object storage is configured; photo uploads are rejected then.
func NewComplaintHandler(complaintService *services.ComplaintService, authService *services.AuthService, photos *storage.Storage) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
		authService:      authService,
		photos:           photos,
	}
}

// ComplaintRouter registers complaint routes on the given router.
func ComplaintRouter(
	r chi.Router,
	complaintService *services.ComplaintService,
	authService *services.AuthService,
	photos *storage.Storage,
	authMiddleware func(http.Handler) http.Handler,
	optionalAuth func(http.Handler) http.Handler,
) {
	handler := NewComplaintHandler(complaintService, authService, photos)

	r.Get("/", handler.ListComplaints)
	r.Get("/stats", handler.GetStats)
	if optionalAuth != nil {
		r.With(optionalAuth).Post("/", handler.CreateComplaint)
	} else {
		r.Post("/", handler.CreateComplaint)
	}
	r.Route("/{complaintID}", func(r chi.Router) {
		r.Get("/", handler.GetComplaint)
		r.Get("/photo", handler.GetPhoto)
		if authMiddleware != nil {
			r.With(authMiddleware, handler.requireAdmin).Put("/status", handler.UpdateStatus)
		} else {
			r.With(handler.requireAdmin).Put("/status", handler.UpdateStatus)
		}
	})
}

// ListComplaints returns all complaints, optionally filtered by
// ?area=, ?status= or ?user=. Filters combine as intersection.
func (h *ComplaintHandler) ListComplaints(w http.ResponseWriter, r *http.Request) {
	complaints, err := h.complaintService.All(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list complaints")
		return
	}

	area := strings.TrimSpace(r.URL.Query().Get("area"))
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	user := strings.TrimSpace(r.URL.Query().Get("user"))

	filtered := make([]types.Complaint, 0, len(complaints))
	for _, complaint := range complaints {
		if area != "" && complaint.Location != area {
			continue
		}
		if status != "" && string(complaint.Status) != status {
			continue
		}
		if user != "" && complaint.SubmittedBy != user {
			continue
		}
		filtered = append(filtered, complaint)
	}

	writeJSON(w, http.StatusOK, ComplaintListResponse{Items: filtered, Total: len(filtered)})
}

// GetStats returns aggregate complaint counts.
func (h *ComplaintHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.complaintService.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// CreateComplaint files a complaint. The body is either JSON or a
// multipart form with an attached photo file. The submitter is taken
// from the bearer token when one is present, "Anonymous" otherwise.
func (h *ComplaintHandler) CreateComplaint(w http.ResponseWriter, r *http.Request) {
	input, err := h.parseSubmitRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if username, err := usernameFromContext(r.Context()); err == nil {
		input.SubmittedBy = username
	}

	complaint, err := h.complaintService.Submit(r.Context(), input)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, complaint)
}

// GetComplaint returns a single complaint by ID.
func (h *ComplaintHandler) GetComplaint(w http.ResponseWriter, r *http.Request) {
	complaint, err := h.complaintService.Get(r.Context(), chi.URLParam(r, "complaintID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "complaint not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch complaint")
		return
	}
	writeJSON(w, http.StatusOK, complaint)
}

// UpdateStatus sets a complaint's status. Admin only.
func (h *ComplaintHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	complaint, err := h.complaintService.SetStatus(r.Context(), chi.URLParam(r, "complaintID"), req.Status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "complaint not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, complaint)
}

// GetPhoto streams the complaint's photo: the stored object when the
// record carries an object key, or the inline payload.
func (h *ComplaintHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	complaint, err := h.complaintService.Get(r.Context(), chi.URLParam(r, "complaintID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "complaint not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch complaint")
		return
	}

	switch {
	case complaint.PhotoKey != "" && h.photos != nil:
		object, err := h.photos.Get(r.Context(), complaint.PhotoKey)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to fetch photo")
			return
		}
		defer object.Close()
		if complaint.PhotoContentType != "" {
			w.Header().Set("Content-Type", complaint.PhotoContentType)
		}
		_, _ = io.Copy(w, object)
	case complaint.Photo != nil:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(*complaint.Photo))
	default:
		writeError(w, http.StatusNotFound, "complaint has no photo")
	}
}

// ComplaintListResponse is the list response payload.
type ComplaintListResponse struct {
	Items []types.Complaint `json:"items"`
	Total int               `json:"total"`
}

type StatusUpdateRequest struct {
	Status types.ComplaintStatus `json:"status"`
}

type createComplaintRequest struct {
	Location    string  `json:"location"`
	WasteType   string  `json:"wasteType"`
	Description string  `json:"description"`
	Photo       *string `json:"photo"`
}

func (h *ComplaintHandler) parseSubmitRequest(r *http.Request) (services.SubmitInput, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return h.parseMultipartSubmit(r)
	}

	var req createComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return services.SubmitInput{}, errors.New("invalid request")
	}
	if req.Photo != nil && len(*req.Photo) > maxInlinePhotoBytes {
		return services.SubmitInput{}, errors.New("inline photo too large, upload it as a file")
	}
	return services.SubmitInput{
		Location:    req.Location,
		WasteType:   types.WasteType(req.WasteType),
		Description: req.Description,
		Photo:       req.Photo,
	}, nil
}

func (h *ComplaintHandler) parseMultipartSubmit(r *http.Request) (services.SubmitInput, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return services.SubmitInput{}, errors.New("invalid multipart form")
	}

	input := services.SubmitInput{
		Location:    strings.TrimSpace(r.FormValue(formFieldLocation)),
		WasteType:   types.WasteType(strings.TrimSpace(r.FormValue(formFieldWasteType))),
		Description: strings.TrimSpace(r.FormValue(formFieldDescription)),
	}

	files := r.MultipartForm.File[formFieldPhoto]
	if len(files) == 0 {
		return input, nil
	}
	if len(files) > 1 {
		return services.SubmitInput{}, errors.New("only one photo is allowed")
	}
	if h.photos == nil {
		return services.SubmitInput{}, errors.New("photo storage is not configured")
	}

	key, contentType, err := h.storePhoto(r, files[0])
	if err != nil {
		return services.SubmitInput{}, err
	}
	input.PhotoKey = key
	input.PhotoContentType = contentType
	return input, nil
}

func (h *ComplaintHandler) storePhoto(r *http.Request, fileHeader *multipart.FileHeader) (string, string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to read photo: %w", err)
	}
	data, err := readFileLimited(file, maxPhotoBytes)
	_ = file.Close()
	if err != nil {
		return "", "", err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	key := photoKeyPrefix + uuid.NewString()
	if err := h.photos.Put(r.Context(), key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", "", errors.New("failed to store photo")
	}
	return key, contentType, nil
}

func readFileLimited(reader io.Reader, limit int64) ([]byte, error) {
	limited := io.LimitReader(reader, limit+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, errors.New("failed to read upload")
	}
	if int64(len(data)) > limit {
		return nil, errors.New("uploaded file too large")
	}
	return data, nil
}

func (h *ComplaintHandler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, err := usernameFromContext(r.Context())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, err := h.authService.Profile(r.Context(), username)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load user")
			return
		}

		if !strings.EqualFold(user.Role, types.RoleAdmin) {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
