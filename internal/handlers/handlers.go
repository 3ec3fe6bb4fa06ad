package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// sessionCookieName is the HttpOnly cookie carrying the session token.
const sessionCookieName = "mw_session"

// requestTimeout bounds every storage call made from a handler.
const requestTimeout = 5 * time.Second

// SessionService resolves session tokens to user identities.
type SessionService interface {
	Create(ctx context.Context, userID string) (string, error)
	Validate(ctx context.Context, token string) (string, bool, error)
	Invalidate(ctx context.Context, token string) error
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Message: message})
}

// extractBearerToken pulls the token from an "Authorization: Bearer x" header.
func extractBearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// sessionToken reads the session token from the auth cookie, falling back to
// a bearer token for non-browser clients.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return extractBearerToken(r.Header.Get("Authorization"))
}

// authenticate resolves the request to the owning user's ID. Returns
// (NilObjectID, false) if the caller is not authenticated.
func authenticate(r *http.Request, sessions SessionService) (primitive.ObjectID, bool) {
	token := sessionToken(r)
	if token == "" {
		return primitive.NilObjectID, false
	}
	userID, ok, err := sessions.Validate(r.Context(), token)
	if err != nil || !ok {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// parseDate accepts RFC3339 timestamps and bare YYYY-MM-DD dates.
func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// parseLimit parses a result-size cap, falling back to def for missing or
// non-positive values.
func parseLimit(s string, def int64) int64 {
	if s == "" {
		return def
	}
	if parsed, err := strconv.ParseInt(s, 10, 64); err == nil && parsed > 0 {
		return parsed
	}
	return def
}

// parseDays parses a lookback window in days, defaulting to 30 and clamping
// to [1, 365] so a crafted value cannot produce a future-dated window.
func parseDays(s string) int {
	days := 30
	if s != "" {
		if parsed, err := strconv.Atoi(s); err == nil {
			days = parsed
		}
	}
	if days < 1 {
		days = 1
	}
	if days > 365 {
		days = 365
	}
	return days
}

// dayRange returns the [start, end) bounds of the calendar day containing now.
func dayRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}
