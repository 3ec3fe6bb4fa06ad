package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mindwellhq/mindwell-backend/internal/models"
	"github.com/mindwellhq/mindwell-backend/internal/storage"
)

// JournalStore is the persistence surface the journal handlers need.
type JournalStore interface {
	Insert(ctx context.Context, entry *models.JournalEntry) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.JournalEntry, error)
	List(ctx context.Context, q storage.JournalQuery) ([]models.JournalEntry, error)
	FindToday(ctx context.Context, owner primitive.ObjectID, dayStart, dayEnd time.Time) (*models.JournalEntry, error)
	Update(ctx context.Context, id primitive.ObjectID, upd storage.JournalUpdate) (*models.JournalEntry, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type JournalHandler struct {
	store    JournalStore
	sessions SessionService
}

func NewJournalHandler(store JournalStore, sessions SessionService) *JournalHandler {
	return &JournalHandler{store: store, sessions: sessions}
}

type createJournalRequest struct {
	Content string `json:"content"`
	Date    string `json:"date"`
}

type updateJournalRequest struct {
	Content *string `json:"content"`
	Date    *string `json:"date"`
}

type journalResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Entry   *models.JournalEntry `json:"entry,omitempty"`
}

type journalListResponse struct {
	Success bool                  `json:"success"`
	Entries []models.JournalEntry `json:"entries"`
	Total   int                   `json:"total"`
}

// todayResponse always carries the entry key so an empty day is an explicit
// null, not a missing field.
type todayResponse struct {
	Success bool                 `json:"success"`
	Entry   *models.JournalEntry `json:"entry"`
}

// Create handles POST /api/journal.
func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(r, h.sessions)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req createJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		writeError(w, http.StatusBadRequest, "Please provide journal content")
		return
	}
	if len(content) > models.MaxContentLength {
		writeError(w, http.StatusBadRequest, "Journal content is too long")
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
	entry := models.JournalEntry{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Content:   content,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.Insert(ctx, &entry); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create journal entry")
		return
	}

	writeJSON(w, http.StatusCreated, journalResponse{Success: true, Entry: &entry})
}

// List handles GET /api/journal with optional startDate/endDate/limit params.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(r, h.sessions)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	q := storage.JournalQuery{
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
		writeError(w, http.StatusInternalServerError, "Failed to fetch journal entries")
		return
	}

	writeJSON(w, http.StatusOK, journalListResponse{Success: true, Entries: entries, Total: len(entries)})
}

// Today handles GET /api/journal/today: the newest entry whose date falls
// within the current calendar day, or an explicit null when there is none.
func (h *JournalHandler) Today(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(r, h.sessions)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	dayStart, dayEnd := dayRange(time.Now())

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	entry, err := h.store.FindToday(ctx, userID, dayStart, dayEnd)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusOK, todayResponse{Success: true, Entry: nil})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch journal entry")
		return
	}

	writeJSON(w, http.StatusOK, todayResponse{Success: true, Entry: entry})
}

// GetByID handles GET /api/journal/{id}.
func (h *JournalHandler) GetByID(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, journalResponse{Success: true, Entry: entry})
}

// Update handles PUT /api/journal/{id}. Content and date are mutable.
func (h *JournalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(r, h.sessions)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req updateJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var upd storage.JournalUpdate
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			writeError(w, http.StatusBadRequest, "Please provide journal content")
			return
		}
		if len(content) > models.MaxContentLength {
			writeError(w, http.StatusBadRequest, "Journal content is too long")
			return
		}
		upd.Content = &content
	}
	if req.Date != nil {
		parsed, ok := parseDate(*req.Date)
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid date")
			return
		}
		upd.Date = &parsed
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
		writeError(w, http.StatusNotFound, "Journal entry not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update journal entry")
		return
	}

	writeJSON(w, http.StatusOK, journalResponse{Success: true, Entry: updated})
}

// Delete handles DELETE /api/journal/{id}.
func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
			writeError(w, http.StatusNotFound, "Journal entry not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete journal entry")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Journal entry removed"})
}

func (h *JournalHandler) findOwned(r *http.Request, userID primitive.ObjectID) (*models.JournalEntry, int, string) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return nil, http.StatusNotFound, "Journal entry not found"
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	entry, err := h.store.FindByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, http.StatusNotFound, "Journal entry not found"
	}
	if err != nil {
		return nil, http.StatusInternalServerError, "Failed to fetch journal entry"
	}
	if entry.UserID != userID {
		return nil, http.StatusForbidden, "Not authorized to access this journal entry"
	}
	return entry, http.StatusOK, ""
}
