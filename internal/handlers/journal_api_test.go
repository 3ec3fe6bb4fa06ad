package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindwellhq/mindwell-backend/internal/models"
)

type journalEnvelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Entry   *models.JournalEntry `json:"entry"`
}

func TestCreateJournalAndReadBack(t *testing.T) {
	ts := newTestServer()
	_, token := ts.loginAs(t)

	w := ts.do(t, http.MethodPost, "/api/journal", token, map[string]string{
		"content": "  Slept well, went for a walk.  ",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created journalEnvelope
	decodeBody(t, w, &created)
	require.NotNil(t, created.Entry)
	assert.Equal(t, "Slept well, went for a walk.", created.Entry.Content, "content is trimmed")

	w = ts.do(t, http.MethodGet, "/api/journal/"+created.Entry.ID.Hex(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got journalEnvelope
	decodeBody(t, w, &got)
	assert.Equal(t, created.Entry.Content, got.Entry.Content)
}

func TestCreateJournalRequiresContent(t *testing.T) {
	ts := newTestServer()
	_, token := ts.loginAs(t)

	for _, content := range []string{"", "   \n\t  "} {
		w := ts.do(t, http.MethodPost, "/api/journal", token, map[string]string{"content": content})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
	assert.Empty(t, ts.journals.entries)
}

func TestDeleteJournalThenReadNotFound(t *testing.T) {
	ts := newTestServer()
	_, token := ts.loginAs(t)

	w := ts.do(t, http.MethodPost, "/api/journal", token, map[string]string{"content": "short note"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created journalEnvelope
	decodeBody(t, w, &created)
	id := created.Entry.ID.Hex()

	w = ts.do(t, http.MethodDelete, "/api/journal/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, "/api/journal/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJournalTodayEmpty(t *testing.T) {
	ts := newTestServer()
	_, token := ts.loginAs(t)

	w := ts.do(t, http.MethodGet, "/api/journal/today", token, nil)
	require.Equal(t, http.StatusOK, w.Code, "an empty day is not an error")

	var body map[string]json.RawMessage
	decodeBody(t, w, &body)
	require.Contains(t, body, "entry")
	assert.Equal(t, "null", string(body["entry"]), "entry is an explicit null")
}

func TestJournalTodayReturnsNewest(t *testing.T) {
	ts := newTestServer()
	_, token := ts.loginAs(t)

	now := time.Now()
	for _, d := range []time.Time{
		now.AddDate(0, 0, -1), // yesterday, must be excluded
		now.Add(-2 * time.Minute),
		now.Add(-1 * time.Minute), // newest today
	} {
		w := ts.do(t, http.MethodPost, "/api/journal", token, map[string]string{
			"content": "written at " + d.Format(time.RFC3339),
			"date":    d.Format(time.RFC3339),
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := ts.do(t, http.MethodGet, "/api/journal/today", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got journalEnvelope
	decodeBody(t, w, &got)
	require.NotNil(t, got.Entry)
	assert.Equal(t, "written at "+now.Add(-1*time.Minute).Format(time.RFC3339), got.Entry.Content)
}

func TestUpdateJournalContentAndDate(t *testing.T) {
	ts := newTestServer()
	_, token := ts.loginAs(t)

	w := ts.do(t, http.MethodPost, "/api/journal", token, map[string]string{"content": "first draft"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created journalEnvelope
	decodeBody(t, w, &created)
	id := created.Entry.ID.Hex()

	w = ts.do(t, http.MethodPut, "/api/journal/"+id, token, map[string]string{
		"content": "second draft",
		"date":    "2026-08-01",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated journalEnvelope
	decodeBody(t, w, &updated)
	assert.Equal(t, "second draft", updated.Entry.Content)
	assert.Equal(t, 2026, updated.Entry.Date.Year())
	assert.Equal(t, time.August, updated.Entry.Date.Month())
	assert.Equal(t, 1, updated.Entry.Date.Day())

	// A whitespace-only replacement is rejected and changes nothing
	w = ts.do(t, http.MethodPut, "/api/journal/"+id, token, map[string]string{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJournalOwnershipEnforced(t *testing.T) {
	ts := newTestServer()
	_, owner := ts.loginAs(t)
	_, intruder := ts.loginAs(t)

	w := ts.do(t, http.MethodPost, "/api/journal", owner, map[string]string{"content": "private thoughts"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created journalEnvelope
	decodeBody(t, w, &created)
	id := created.Entry.ID.Hex()

	w = ts.do(t, http.MethodGet, "/api/journal/"+id, intruder, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodDelete, "/api/journal/"+id, intruder, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListJournalRequiresAuth(t *testing.T) {
	ts := newTestServer()

	w := ts.do(t, http.MethodGet, "/api/journal", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
