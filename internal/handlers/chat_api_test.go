package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindwellhq/mindwell-backend/internal/handlers"
	"github.com/mindwellhq/mindwell-backend/internal/services"
)

type chatEnvelope struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
	Error    string `json:"error"`
}

func TestChatRejectsBlankPromptBeforeRelay(t *testing.T) {
	ts := newTestServer()

	for _, prompt := range []string{"", "   ", "\n\t"} {
		w := ts.do(t, http.MethodPost, "/api/chat", "", map[string]string{"prompt": prompt})
		assert.Equal(t, http.StatusBadRequest, w.Code, "prompt %q", prompt)
	}
	assert.Equal(t, 0, ts.relay.calls, "the model must never be called for a blank prompt")
}

func TestChatReturnsGeneratedText(t *testing.T) {
	ts := newTestServer()
	ts.relay.reply = "That sounds really hard. Want to tell me more?"

	w := ts.do(t, http.MethodPost, "/api/chat", "", map[string]string{"prompt": "I had a rough day"})
	require.Equal(t, http.StatusOK, w.Code)

	var body chatEnvelope
	decodeBody(t, w, &body)
	assert.True(t, body.Success)
	assert.Equal(t, ts.relay.reply, body.Response)
	assert.Equal(t, 1, ts.relay.calls)
}

func TestChatUpstreamFailureIsGeneric(t *testing.T) {
	ts := newTestServer()
	ts.relay.err = errors.New("upstream exploded: secret internals")

	w := ts.do(t, http.MethodPost, "/api/chat", "", map[string]string{"prompt": "hello"})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body chatEnvelope
	decodeBody(t, w, &body)
	assert.False(t, body.Success)
	assert.Equal(t, "Failed to process your message. Please try again.", body.Error)
	assert.NotContains(t, w.Body.String(), "secret internals")
}

func TestChatTimeoutHasDistinctError(t *testing.T) {
	ts := newTestServer()
	ts.relay.err = services.ErrRelayTimeout

	w := ts.do(t, http.MethodPost, "/api/chat", "", map[string]string{"prompt": "hello"})
	require.Equal(t, http.StatusGatewayTimeout, w.Code)

	var body chatEnvelope
	decodeBody(t, w, &body)
	assert.False(t, body.Success)
	assert.Contains(t, body.Error, "took too long")
}

func TestChatUnconfiguredRelayUnavailable(t *testing.T) {
	h := handlers.NewChatHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"prompt":"hello"}`))
	w := httptest.NewRecorder()
	h.Relay(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body chatEnvelope
	decodeBody(t, w, &body)
	assert.False(t, body.Success)
}
