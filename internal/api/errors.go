package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/rinapen/discord-game-bot/internal/engine"
	"github.com/rinapen/discord-game-bot/internal/ledger"
	"github.com/rinapen/discord-game-bot/internal/seeds"
	"github.com/rinapen/discord-game-bot/internal/session"
)

// classify maps domain sentinel errors to an HTTP status and error type.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrInvalidBet):
		return http.StatusBadRequest, ErrTypeInvalidBet
	case errors.Is(err, session.ErrUnknownAction),
		errors.Is(err, session.ErrInvalidPosition),
		errors.Is(err, session.ErrDuplicateAction):
		return http.StatusBadRequest, ErrTypeInvalidAction
	case errors.Is(err, engine.ErrInvalidSeed):
		return http.StatusBadRequest, ErrTypeInvalidSeed
	case errors.Is(err, session.ErrUnknownSession):
		return http.StatusNotFound, ErrTypeSessionNotFound
	case errors.Is(err, session.ErrSessionActive):
		return http.StatusConflict, ErrTypeSessionConflict
	case errors.Is(err, session.ErrSessionFinished):
		return http.StatusConflict, ErrTypeSessionFinished
	case errors.Is(err, session.ErrSessionNotFinished):
		return http.StatusConflict, ErrTypeSessionLive
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return http.StatusConflict, ErrTypeInsufficientFunds
	case errors.Is(err, ledger.ErrNotRegistered):
		return http.StatusNotFound, ErrTypeUserNotFound
	case errors.Is(err, seeds.ErrStorage):
		return http.StatusServiceUnavailable, ErrTypeServiceUnavailable
	default:
		return http.StatusInternalServerError, ErrTypeInternal
	}
}

// handleError classifies a domain error and writes the structured response.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status, errType := classify(err)
	s.writeError(w, r, status, errType, err.Error(), nil)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, errType, message string, context map[string]any) {
	requestID := middleware.GetReqID(r.Context())

	if status >= 500 {
		s.log.Error("request failed",
			"type", errType,
			"status", status,
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"error", message,
		)
	} else {
		s.log.Warn("request rejected",
			"type", errType,
			"status", status,
			"request_id", requestID,
			"path", r.URL.Path,
		)
	}

	w.Header().Set("X-Error-Type", errType)
	s.writeJSON(w, status, EngineError{
		Type:      errType,
		Message:   message,
		Context:   context,
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// recoverer converts handler panics into structured 500 responses.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				requestID := middleware.GetReqID(r.Context())
				s.log.Error("panic recovered",
					"request_id", requestID,
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rvr,
				)
				s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, "internal server error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
