package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mindwellhq/mindwell-backend/internal/handlers"
	"github.com/mindwellhq/mindwell-backend/internal/models"
	"github.com/mindwellhq/mindwell-backend/internal/routes"
	"github.com/mindwellhq/mindwell-backend/internal/storage"
)

// fakeSessions is an in-memory stand-in for the Redis session service.
type fakeSessions struct {
	tokens map[string]string // token -> user ID
	next   int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{tokens: map[string]string{}}
}

func (s *fakeSessions) Create(_ context.Context, userID string) (string, error) {
	s.next++
	token := fmt.Sprintf("token-%d-%s", s.next, userID)
	s.tokens[token] = userID
	return token, nil
}

func (s *fakeSessions) Validate(_ context.Context, token string) (string, bool, error) {
	userID, ok := s.tokens[token]
	return userID, ok, nil
}

func (s *fakeSessions) Invalidate(_ context.Context, token string) error {
	delete(s.tokens, token)
	return nil
}

// fakeMoodStore mirrors MoodStore semantics over a map.
type fakeMoodStore struct {
	entries map[primitive.ObjectID]models.MoodEntry
}

func newFakeMoodStore() *fakeMoodStore {
	return &fakeMoodStore{entries: map[primitive.ObjectID]models.MoodEntry{}}
}

func (s *fakeMoodStore) Insert(_ context.Context, entry *models.MoodEntry) error {
	s.entries[entry.ID] = *entry
	return nil
}

func (s *fakeMoodStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.MoodEntry, error) {
	entry, ok := s.entries[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &entry, nil
}

func (s *fakeMoodStore) List(_ context.Context, q storage.MoodQuery) ([]models.MoodEntry, error) {
	var out []models.MoodEntry
	for _, e := range s.entries {
		if e.UserID != q.Owner {
			continue
		}
		if q.StartDate != nil && e.Date.Before(*q.StartDate) {
			continue
		}
		if q.EndDate != nil && e.Date.After(*q.EndDate) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if q.Ascending {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Date.After(out[j].Date)
	})
	if q.Limit > 0 && int64(len(out)) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *fakeMoodStore) Update(_ context.Context, id primitive.ObjectID, upd storage.MoodUpdate) (*models.MoodEntry, error) {
	entry, ok := s.entries[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if upd.Mood != nil {
		entry.Mood = *upd.Mood
	}
	if upd.Note != nil {
		entry.Note = *upd.Note
	}
	entry.UpdatedAt = time.Now()
	s.entries[id] = entry
	return &entry, nil
}

func (s *fakeMoodStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.entries[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

// fakeJournalStore mirrors JournalStore semantics over a map.
type fakeJournalStore struct {
	entries map[primitive.ObjectID]models.JournalEntry
}

func newFakeJournalStore() *fakeJournalStore {
	return &fakeJournalStore{entries: map[primitive.ObjectID]models.JournalEntry{}}
}

func (s *fakeJournalStore) Insert(_ context.Context, entry *models.JournalEntry) error {
	s.entries[entry.ID] = *entry
	return nil
}

func (s *fakeJournalStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.JournalEntry, error) {
	entry, ok := s.entries[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &entry, nil
}

func (s *fakeJournalStore) List(_ context.Context, q storage.JournalQuery) ([]models.JournalEntry, error) {
	var out []models.JournalEntry
	for _, e := range s.entries {
		if e.UserID != q.Owner {
			continue
		}
		if q.StartDate != nil && e.Date.Before(*q.StartDate) {
			continue
		}
		if q.EndDate != nil && e.Date.After(*q.EndDate) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if q.Limit > 0 && int64(len(out)) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *fakeJournalStore) FindToday(_ context.Context, owner primitive.ObjectID, dayStart, dayEnd time.Time) (*models.JournalEntry, error) {
	var newest *models.JournalEntry
	for _, e := range s.entries {
		e := e
		if e.UserID != owner {
			continue
		}
		if e.Date.Before(dayStart) || !e.Date.Before(dayEnd) {
			continue
		}
		if newest == nil || e.Date.After(newest.Date) {
			newest = &e
		}
	}
	if newest == nil {
		return nil, storage.ErrNotFound
	}
	return newest, nil
}

func (s *fakeJournalStore) Update(_ context.Context, id primitive.ObjectID, upd storage.JournalUpdate) (*models.JournalEntry, error) {
	entry, ok := s.entries[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if upd.Content != nil {
		entry.Content = *upd.Content
	}
	if upd.Date != nil {
		entry.Date = *upd.Date
	}
	entry.UpdatedAt = time.Now()
	s.entries[id] = entry
	return &entry, nil
}

func (s *fakeJournalStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.entries[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

// fakeUserStore mirrors UserStore semantics, including the unique email.
type fakeUserStore struct {
	users map[primitive.ObjectID]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[primitive.ObjectID]models.User{}}
}

func (s *fakeUserStore) Insert(_ context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range s.users {
		if u.Email == user.Email {
			return storage.ErrDuplicateEmail
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &user, nil
}

func (s *fakeUserStore) Update(_ context.Context, id primitive.ObjectID, upd storage.UserUpdate) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if upd.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*upd.Email))
		for otherID, u := range s.users {
			if otherID != id && u.Email == email {
				return nil, storage.ErrDuplicateEmail
			}
		}
		user.Email = email
	}
	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Password != nil {
		user.Password = *upd.Password
	}
	user.UpdatedAt = time.Now()
	s.users[id] = user
	return &user, nil
}

// fakeRelay records calls so tests can assert the relay was never reached.
type fakeRelay struct {
	calls int
	reply string
	err   error
}

func (r *fakeRelay) Generate(_ context.Context, _ string) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return r.reply, nil
}

// testServer wires the real router and handlers over the fakes.
type testServer struct {
	router   *chi.Mux
	sessions *fakeSessions
	moods    *fakeMoodStore
	journals *fakeJournalStore
	users    *fakeUserStore
	relay    *fakeRelay
}

func newTestServer() *testServer {
	ts := &testServer{
		sessions: newFakeSessions(),
		moods:    newFakeMoodStore(),
		journals: newFakeJournalStore(),
		users:    newFakeUserStore(),
		relay:    &fakeRelay{reply: "I'm listening."},
	}

	ts.router = chi.NewRouter()
	routes.Setup(ts.router,
		handlers.NewAuthHandler(ts.users, ts.sessions, false),
		handlers.NewMoodHandler(ts.moods, ts.sessions),
		handlers.NewJournalHandler(ts.journals, ts.sessions),
		handlers.NewChatHandler(ts.relay),
	)
	return ts
}

// loginAs registers a session for a fresh user ID and returns its token.
func (ts *testServer) loginAs(t *testing.T) (primitive.ObjectID, string) {
	t.Helper()
	userID := primitive.NewObjectID()
	token, err := ts.sessions.Create(context.Background(), userID.Hex())
	require.NoError(t, err)
	return userID, token
}

// do sends a JSON request through the router. A non-empty token is attached
// as a bearer token.
func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}
