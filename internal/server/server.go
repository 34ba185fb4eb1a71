// Package server exposes the coordinator over HTTP for the capture and
// presentation collaborators.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xeipuuv/gojsonschema"

	"replydraft/internal/common/config"
	"replydraft/internal/common/logger"
	"replydraft/internal/engine/coordinator"
)

// eventSchema validates the inbound transcript-observed event before it
// reaches the coordinator.
const eventSchema = `{
	"type": "object",
	"properties": {
		"conversationId": {"type": "string", "minLength": 1},
		"transcript": {"type": "string"},
		"userContext": {"type": "string"}
	},
	"required": ["conversationId", "transcript"],
	"additionalProperties": false
}`

type Server struct {
	coord      *coordinator.Coordinator
	logger     logger.Logger
	schema     *gojsonschema.Schema
	httpServer *http.Server
}

func New(cfg config.ServerConfig, coord *coordinator.Coordinator, log logger.Logger) (*Server, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(eventSchema))
	if err != nil {
		return nil, fmt.Errorf("compile event schema: %w", err)
	}

	s := &Server{
		coord:  coord,
		logger: log.With(map[string]interface{}{"component": "server"}),
		schema: schema,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/draft", s.handleDraft)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      mux,
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout),
	}

	return s, nil
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests; abandoned generations are cancelled
// through their request contexts.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeOutcome(w, http.StatusMethodNotAllowed, coordinator.Outcome{
			Action: coordinator.ActionError,
			Error:  "method not allowed",
		})
		return
	}

	requestID := uuid.New().String()
	log := s.logger.With(map[string]interface{}{"requestId": requestID})
	started := time.Now()

	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeOutcome(w, http.StatusBadRequest, coordinator.Outcome{
			Action: coordinator.ActionError,
			Error:  "invalid JSON body",
		})
		return
	}

	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil || !result.Valid() {
		detail := "invalid event payload"
		if err == nil {
			for _, desc := range result.Errors() {
				detail = fmt.Sprintf("invalid event payload: %s", desc)
				break
			}
		}
		writeOutcome(w, http.StatusBadRequest, coordinator.Outcome{
			Action: coordinator.ActionError,
			Error:  detail,
		})
		return
	}

	var ev coordinator.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		writeOutcome(w, http.StatusBadRequest, coordinator.Outcome{
			Action: coordinator.ActionError,
			Error:  "invalid event payload",
		})
		return
	}

	outcome := s.coord.Handle(r.Context(), ev)

	log.Info("event processed", map[string]interface{}{
		"conversationId": ev.ConversationID,
		"action":         string(outcome.Action),
		"durationMs":     time.Since(started).Milliseconds(),
	})

	writeOutcome(w, http.StatusOK, outcome)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeOutcome(w http.ResponseWriter, status int, outcome coordinator.Outcome) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(outcome)
}
