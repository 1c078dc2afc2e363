// Package bridge exposes the capture engine to the browser extension as a
// small HTTP API: one endpoint dispatching on operation name, with
// {success, data, error} envelopes mirroring the extension's message
// protocol.
package bridge

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/neilk17/twenty-capture/internal/capture"
	"github.com/neilk17/twenty-capture/internal/resolve"
	"github.com/neilk17/twenty-capture/internal/scrape"
	"github.com/neilk17/twenty-capture/pkg/twenty"
)

// tokenHeader lets the extension ship its cookie-derived token with each
// request instead of relying on the service's own token source.
const tokenHeader = "X-Twenty-Token"

// Message is the request envelope: an operation name plus its payload.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is the reply envelope. Code carries the error classification
// ("authentication_failed", "indeterminate", ...) when Success is false.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Server handles bridge requests.
type Server struct {
	svc     *capture.Service
	scraper *scrape.Scraper
}

// NewServer creates a bridge server over the capture engine.
func NewServer(svc *capture.Service, scraper *scrape.Scraper) *Server {
	return &Server{svc: svc, scraper: scraper}
}

// Router builds the HTTP handler. allowedOrigins is the CORS allow-list
// for extension origins.
func (s *Server) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", tokenHeader},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/v1/message", s.handleMessage)

	return r
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var msg Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	svc := s.svc
	if tok := r.Header.Get(tokenHeader); tok != "" {
		svc = svc.WithToken(tok)
	}

	resp, status := s.dispatch(r, svc, msg)
	if !resp.Success {
		zap.L().Warn("bridge: operation failed",
			zap.String("type", msg.Type),
			zap.String("error", resp.Error),
			zap.String("code", resp.Code),
		)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Warn("bridge: write response", zap.Error(err))
	}
}

// failure converts an engine error into a response envelope, preserving
// the error kind for the extension's message mapping.
func failure(err error) (Response, int) {
	resp := Response{Success: false, Error: err.Error()}
	if resolve.IsIndeterminate(err) {
		resp.Code = "indeterminate"
		return resp, http.StatusBadGateway
	}
	switch kind := twenty.KindOf(err); kind {
	case "":
		return resp, http.StatusInternalServerError
	case twenty.KindNotConfigured, twenty.KindUnauthenticated:
		resp.Code = string(kind)
		return resp, http.StatusUnprocessableEntity
	case twenty.KindAuthFailed:
		resp.Code = string(kind)
		return resp, http.StatusUnauthorized
	default:
		resp.Code = string(kind)
		return resp, http.StatusBadGateway
	}
}

func success(data any) (Response, int) {
	return Response{Success: true, Data: data}, http.StatusOK
}
