package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"replydraft/internal/common/config"
	"replydraft/internal/common/logger"
	"replydraft/internal/engine/coordinator"
	"replydraft/internal/engine/draftcache"
	"replydraft/internal/engine/invoker"
	"replydraft/internal/engine/repetition"
	"replydraft/internal/engine/state"
	"replydraft/internal/engine/throttle"
)

type fixedGenerator struct {
	text string
}

func (f *fixedGenerator) GenerateReply(_ context.Context, _ string) (string, error) {
	return f.text, nil
}

func newTestServer(t *testing.T, reply string) *Server {
	t.Helper()

	inv := invoker.New(&fixedGenerator{text: reply}, invoker.Config{
		AttemptTimeout: 1 * time.Second,
		MaxAttempts:    3,
		BackoffBase:    1 * time.Millisecond,
	}, logger.NewNoOpLogger())

	coord := coordinator.New(
		state.NewStore(64, 10, 5),
		throttle.NewGate(3*time.Second),
		draftcache.NewMemoryCache(60*time.Second),
		repetition.NewGuard(0.7, 0.7),
		inv,
		80,
		logger.NewTestLogger(t),
		nil,
	)

	s, err := New(config.ServerConfig{ListenAddress: ":0"}, coord, logger.NewTestLogger(t))
	require.NoError(t, err)
	return s
}

func postDraft(t *testing.T, s *Server, body string) (*httptest.ResponseRecorder, coordinator.Outcome) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/draft", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	var outcome coordinator.Outcome
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	}
	return rec, outcome
}

func TestHandleDraft_Draft(t *testing.T) {
	s := newTestServer(t, "Thanks for reaching out! What is your order number?")

	rec, outcome := postDraft(t, s, `{
		"conversationId": "conv-1",
		"transcript": "Me: hi\nRep: hello"
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, coordinator.ActionDraft, outcome.Action)
	assert.Equal(t, "Thanks for reaching out! What is your order number?", outcome.Draft)
}

func TestHandleDraft_WireContract(t *testing.T) {
	s := newTestServer(t, "A draft.")

	rec, _ := postDraft(t, s, `{
		"conversationId": "conv-1",
		"transcript": "Me: hi\nRep: hello"
	}`)

	// The action tag and field names are the stable boundary contract.
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "DRAFT", body["action"])
	assert.Equal(t, "A draft.", body["draft"])
	assert.NotContains(t, body, "question")
	assert.NotContains(t, body, "error")
}

func TestHandleDraft_NeedsUser(t *testing.T) {
	s := newTestServer(t, "unused")

	rec, outcome := postDraft(t, s, `{
		"conversationId": "conv-1",
		"transcript": "Me: hi\nRep: what's your OTP?"
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, coordinator.ActionNeedsUser, outcome.Action)
	assert.Equal(t, "Rep: what's your OTP?", outcome.Question)
}

func TestHandleDraft_InvalidJSON(t *testing.T) {
	s := newTestServer(t, "unused")

	rec, outcome := postDraft(t, s, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, coordinator.ActionError, outcome.Action)
}

func TestHandleDraft_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing conversationId", `{"transcript": "Me: hi"}`},
		{"empty conversationId", `{"conversationId": "", "transcript": "Me: hi"}`},
		{"missing transcript", `{"conversationId": "c1"}`},
		{"unexpected field", `{"conversationId": "c1", "transcript": "Me: hi", "extra": 1}`},
		{"wrong type", `{"conversationId": "c1", "transcript": 42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, "unused")
			rec, outcome := postDraft(t, s, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, coordinator.ActionError, outcome.Action)
			assert.NotEmpty(t, outcome.Error)
		})
	}
}

func TestHandleDraft_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t, "unused")

	req := httptest.NewRequest(http.MethodGet, "/v1/draft", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, "unused")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
