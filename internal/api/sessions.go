package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rinapen/discord-game-bot/internal/games"
	"github.com/rinapen/discord-game-bot/internal/session"
)

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "user_id is required", nil)
		return
	}
	game, err := games.Parse(req.Game)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, err.Error(),
			map[string]any{"game": req.Game})
		return
	}

	view, err := s.machine.Start(r.Context(), req.UserID, game, req.Bet, req.Params)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.machine.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	view, err := s.machine.Act(r.Context(), chi.URLParam(r, "id"), session.Action{
		Kind:     req.Kind,
		Position: req.Position,
		Choice:   req.Choice,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCashout(w http.ResponseWriter, r *http.Request) {
	view, err := s.machine.Cashout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRevealSeeds(w http.ResponseWriter, r *http.Request) {
	reveal, err := s.machine.RevealSeeds(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, reveal)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user")
	balance, err := s.ledger.Balance(r.Context(), userID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, BalanceResponse{UserID: userID, Balance: balance})
}

// handleUnsettled lists debits that never received a settlement credit.
// A non-empty response after the session TTL means a crash dropped a
// session mid-flight and the stakes need manual review.
func (s *Server) handleUnsettled(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, ErrTypeServiceUnavailable, "journal not configured", nil)
		return
	}

	olderThan := 10 * time.Minute
	if raw := r.URL.Query().Get("older_than"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "older_than: "+err.Error(), nil)
			return
		}
		olderThan = d
	}

	entries, err := s.journal.Unsettled(r.Context(), olderThan)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"older_than": olderThan.String(),
		"count":      len(entries),
		"entries":    entries,
	})
}
