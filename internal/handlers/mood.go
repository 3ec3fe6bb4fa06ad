package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mindwellhq/mindwell-backend/internal/models"
	"github.com/mindwellhq/mindwell-backend/internal/storage"
)

// MoodStore is the persistence surface the mood handlers need.
type MoodStore interface {
	Insert(ctx context.Context, entry *models.MoodEntry) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.MoodEntry, error)
	List(ctx context.Context, q storage.MoodQuery) ([]models.MoodEntry, error)
	Update(ctx context.Context, id primitive.ObjectID, upd storage.MoodUpdate) (*models.MoodEntry, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MoodHandler struct {
	store    MoodStore
	sessions SessionService
}

func NewMoodHandler(store MoodStore, sessions SessionService) *MoodHandler {
	return &MoodHandler{store: store, sessions: sessions}
}

type createMoodRequest struct {
	Mood string `json:"mood"`
	Note string `json:"note"`
	Date string `json:"date"`
}

type updateMoodRequest struct {
	Mood *string `json:"mood"`
	Note *string `json:"note"`
}

type moodResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Entry   *models.MoodEntry `json:"entry,omitempty"`
}

type moodListResponse struct {
	Success bool               `json:"success"`
	Entries []models.MoodEntry `json:"entries"`
	Total   int                `json:"total"`
}

type moodStatsResponse struct {
	Success      bool               `json:"success"`
	TotalEntries int                `json:"totalEntries"`
	MoodCounts   models.MoodCounts  `json:"moodCounts"`
	Entries      []models.MoodEntry `json:"entries"`
}

// Create handles POST /api/mood.
func (h *MoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(r, h.sessions)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req createMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Mood == "" {
		writeError(w, http.StatusBadRequest, "Mood is required")
		return
	}
	mood := models.Mood(req.Mood)
	if !mood.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid mood category")
		return
	}
	if len(req.Note) > models.MaxNoteLength {
		writeError(w, http.StatusBadRequest, "Note is too long")
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, ok := parseDate(req.Date)
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid date")
			return
		}
		date = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	now := time.Now()
	entry := models.MoodEntry{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Mood:      mood,
		Note:      req.Note,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.Insert(ctx, &entry); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create mood entry")
		return
	}

	writeJSON(w, http.StatusCreated, moodResponse{Success: true, Entry: &entry})
}

// List handles GET /api/mood with optional startDate/endDate/limit params.
func (h *MoodHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(r, h.sessions)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	q := storage.MoodQuery{
		Owner: userID,
		Limit: parseLimit(r.URL.Query().Get("limit"), 100),
	}
	if s := r.URL.Query().Get("startDate"); s != "" {
		if t, ok := parseDate(s); ok {
			q.StartDate = &t
		}
	}
	if s := r.URL.Query().Get("endDate"); s != "" {
		if t, ok := parseDate(s); ok {
			q.EndDate = &t
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	entries, err := h.store.List(ctx, q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch mood entries")
		return
	}

	writeJSON(w, http.StatusOK, moodListResponse{Success: true, Entries: entries, Total: len(entries)})
}

// GetByID handles GET /api/mood/{id}.
func (h *MoodHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(r, h.sessions)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	entry, status, message := h.findOwned(r, userID)
	if entry == nil {
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusOK, moodResponse{Success: true, Entry: entry})
}

// Update handles PUT /api/mood/{id}. Only mood and note are mutable.
func (h *MoodHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(r, h.sessions)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req updateMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	upd := storage.MoodUpdate{Note: req.Note}
	if req.Mood != nil {
		mood := models.Mood(*req.Mood)
		if !mood.Valid() {
			writeError(w, http.StatusBadRequest, "Invalid mood category")
			return
		}
		upd.Mood = &mood
	}
	if req.Note != nil && len(*req.Note) > models.MaxNoteLength {
		writeError(w, http.StatusBadRequest, "Note is too long")
		return
	}

	entry, status, message := h.findOwned(r, userID)
	if entry == nil {
		writeError(w, status, message)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	updated, err := h.store.Update(ctx, entry.ID, upd)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Mood entry not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update mood entry")
		return
	}

	writeJSON(w, http.StatusOK, moodResponse{Success: true, Entry: updated})
}

// Delete handles DELETE /api/mood/{id}. Repeating a delete yields not-found.
func (h *MoodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(r, h.sessions)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	entry, status, message := h.findOwned(r, userID)
	if entry == nil {
		writeError(w, status, message)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.store.Delete(ctx, entry.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Mood entry not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete mood entry")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Mood entry removed"})
}

// Stats handles GET /api/mood/stats?days=N: a per-category histogram over
// the lookback window plus the matching entries sorted ascending by time.
func (h *MoodHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(r, h.sessions)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	days := parseDays(r.URL.Query().Get("days"))
	start := time.Now().AddDate(0, 0, -days)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	entries, err := h.store.List(ctx, storage.MoodQuery{
		Owner:     userID,
		StartDate: &start,
		Ascending: true,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch mood stats")
		return
	}

	writeJSON(w, http.StatusOK, moodStatsResponse{
		Success:      true,
		TotalEntries: len(entries),
		MoodCounts:   models.CountMoods(entries),
		Entries:      entries,
	})
}

// findOwned loads the entry from the id route param and enforces ownership.
// On failure it returns a nil entry with the status and message to write.
func (h *MoodHandler) findOwned(r *http.Request, userID primitive.ObjectID) (*models.MoodEntry, int, string) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return nil, http.StatusNotFound, "Mood entry not found"
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	entry, err := h.store.FindByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, http.StatusNotFound, "Mood entry not found"
	}
	if err != nil {
		return nil, http.StatusInternalServerError, "Failed to fetch mood entry"
	}
	if entry.UserID != userID {
		return nil, http.StatusForbidden, "Not authorized to access this mood entry"
	}
	return entry, http.StatusOK, ""
}
