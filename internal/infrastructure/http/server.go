// Package http provides the HTTP server infrastructure.
// Clean Architecture: Framework/driver layer - outermost circle. It
// validates the wire format and translates outcomes; all decision logic
// lives in the usecase.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/novagate/novagate/internal/domain/entities"
	"github.com/novagate/novagate/internal/domain/intent"
	"github.com/novagate/novagate/internal/domain/usecases"
)

// Server is the HTTP server for the answering API.
type Server struct {
	ask         *usecases.AskUseCase
	logger      *zap.Logger
	addr        string
	defaultTopK int
}

// NewServer creates a new HTTP server.
func NewServer(ask *usecases.AskUseCase, logger *zap.Logger, addr string, defaultTopK int) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultTopK <= 0 {
		defaultTopK = usecases.DefaultTopK
	}
	return &Server{
		ask:         ask,
		logger:      logger,
		addr:        addr,
		defaultTopK: defaultTopK,
	}
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 300 * time.Second, // generation can be slow
	}

	s.logger.Info("server starting", zap.String("addr", s.addr))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	return server.ListenAndServe()
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ask", s.handleAsk)
	mux.HandleFunc("/health", s.handleHealth)
	return corsMiddleware(s.loggingMiddleware(mux))
}

type askRequest struct {
	Question string                 `json:"question"`
	TopK     *int                   `json:"top_k"`
	Mode     string                 `json:"mode"`
	UseWeb   bool                   `json:"use_web"`
	Messages []entities.ChatMessage `json:"messages"`
}

type askResponse struct {
	Answer     string               `json:"answer"`
	Intent     string               `json:"intent"`
	Sources    []entities.SourceRef `json:"sources"`
	Grounded   bool                 `json:"grounded"`
	HasContext bool                 `json:"has_context"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleAsk validates the wire request and runs the pipeline.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "question cannot be empty"})
		return
	}

	topK := s.defaultTopK
	if req.TopK != nil {
		topK = *req.TopK
		if topK < 1 || topK > 20 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "top_k must be between 1 and 20"})
			return
		}
	}

	mode := req.Mode
	if mode == "" {
		mode = string(intent.ModeAuto)
	}
	if !intent.Mode(mode).Valid() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "mode must be one of auto, chat, web"})
		return
	}

	result, err := s.ask.Ask(r.Context(), &entities.AskRequest{
		Question: req.Question,
		TopK:     topK,
		Mode:     mode,
		UseWeb:   req.UseWeb,
		Messages: req.Messages,
	})
	if err != nil {
		if errors.Is(err, usecases.ErrEmptyQuestion) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "question cannot be empty"})
			return
		}
		// Collaborator details stay in the log; the caller gets a
		// non-leaking generic failure.
		s.logger.Error("ask pipeline failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to generate an answer"})
		return
	}

	writeJSON(w, http.StatusOK, askResponse{
		Answer:     result.Answer,
		Intent:     result.Intent,
		Sources:    result.Sources,
		Grounded:   result.Grounded,
		HasContext: result.HasContext,
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}
