package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SHivit700/InteLect/internal/quiz"
	"github.com/SHivit700/InteLect/internal/service"
)

// decode reads a JSON body of at most MaxBodyBytes into v, answering the
// request itself and returning false when it cannot.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		writeJSON(w, http.StatusRequestEntityTooLarge, service.ErrorResponse{
			Error:   "payload_too_large",
			Message: "Request body exceeds 1 MiB",
		})
		return false
	}
	s.log.Warn("invalid request body", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusBadRequest, service.ErrorResponse{
		Error:   "invalid_request",
		Message: "Invalid JSON request body: " + err.Error(),
	})
	return false
}

// writeError maps service errors onto status codes. Generation failures
// and unexpected errors hide their detail from the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		reqErr   *service.RequestError
		tooLarge *service.TooLargeError
		genErr   *service.GenerationError
		infraErr *quiz.InfrastructureError
	)
	switch {
	case errors.As(err, &reqErr):
		s.log.Warn("validation error", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadRequest, service.ErrorResponse{Error: "validation_error", Message: reqErr.Message})
	case errors.As(err, &tooLarge):
		s.log.Warn("payload too large", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusRequestEntityTooLarge, service.ErrorResponse{Error: "payload_too_large", Message: tooLarge.Message})
	case errors.As(err, &infraErr):
		s.log.Error("llm unavailable", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, service.ErrorResponse{
			Error:   "generation_unavailable",
			Message: "The quiz generator is temporarily unavailable. Please try again later.",
		})
	case errors.As(err, &genErr):
		s.log.Error("quiz generation failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadGateway, service.ErrorResponse{
			Error:   "generation_failed",
			Message: "Quiz generation failed. Please try again later.",
		})
	default:
		s.log.Error("unexpected error", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, service.ErrorResponse{
			Error:   "internal_error",
			Message: "An unexpected error occurred",
		})
	}
}
