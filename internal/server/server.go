// Package server exposes the quiz service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/SHivit700/InteLect/internal/adaptive"
	"github.com/SHivit700/InteLect/internal/config"
	"github.com/SHivit700/InteLect/internal/logger"
	"github.com/SHivit700/InteLect/internal/recap"
	"github.com/SHivit700/InteLect/internal/service"
)

// MaxBodyBytes limits request bodies.
const MaxBodyBytes = 1 << 20

// QuizService is the work the HTTP handlers delegate to.
type QuizService interface {
	GenerateQuiz(ctx context.Context, req service.QuizRequest) (*service.QuizResponse, error)
	GenerateStructured(ctx context.Context, req service.StructuredQuizRequest) (*service.QuizResponse, error)
	GeneratePerSegment(ctx context.Context, req service.StructuredQuizRequest) ([]service.QuizResponse, error)
	GenerateAdaptive(ctx context.Context, req service.AdaptiveQuizRequest) (*adaptive.Response, error)
	ValidateAnswer(ctx context.Context, req service.AnswerValidationRequest) (*service.AnswerValidationResponse, error)
	Recommend(ctx context.Context, req recap.Request) (*recap.Response, error)
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// PerSegmentResponse wraps the quizzes of a per-segment request.
type PerSegmentResponse struct {
	Quizzes []service.QuizResponse `json:"quizzes"`
}

type Server struct {
	svc     QuizService
	cfg     config.ServerConfig
	version string
	log     *logger.Logger
}

func New(svc QuizService, cfg config.ServerConfig, version string, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{svc: svc, cfg: cfg, version: version, log: log}
}

// Handler returns the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestLogger)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/quiz", s.generateQuiz).Methods(http.MethodPost)
	r.HandleFunc("/quiz/structured", s.generateStructured).Methods(http.MethodPost)
	r.HandleFunc("/quiz/adaptive", s.generateAdaptive).Methods(http.MethodPost)
	r.HandleFunc("/quiz/validate-answer", s.validateAnswer).Methods(http.MethodPost)
	r.HandleFunc("/quiz/recap/recommendations", s.recommend).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
	})
	return c.Handler(r)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", srv.Addr, "version", s.version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.log.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Version: s.version})
}

func (s *Server) generateQuiz(w http.ResponseWriter, r *http.Request) {
	var req service.QuizRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.svc.GenerateQuiz(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// generateStructured answers with a single quiz, or with one quiz per
// segment when the per_segment query parameter is true.
func (s *Server) generateStructured(w http.ResponseWriter, r *http.Request) {
	var req service.StructuredQuizRequest
	if !s.decode(w, r, &req) {
		return
	}
	if r.URL.Query().Get("per_segment") == "true" {
		quizzes, err := s.svc.GeneratePerSegment(r.Context(), req)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, PerSegmentResponse{Quizzes: quizzes})
		return
	}
	resp, err := s.svc.GenerateStructured(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) generateAdaptive(w http.ResponseWriter, r *http.Request) {
	var req service.AdaptiveQuizRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.svc.GenerateAdaptive(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) validateAnswer(w http.ResponseWriter, r *http.Request) {
	var req service.AnswerValidationRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.svc.ValidateAnswer(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) recommend(w http.ResponseWriter, r *http.Request) {
	var req recap.Request
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.svc.Recommend(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
