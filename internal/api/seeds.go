package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rinapen/discord-game-bot/internal/engine"
)

func (s *Server) handleGetSeeds(w http.ResponseWriter, r *http.Request) {
	pair, err := s.seeds.GetOrCreate(r.Context(), chi.URLParam(r, "user"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	// Pair never serializes the live server seed.
	s.writeJSON(w, http.StatusOK, pair)
}

func (s *Server) handleSetClientSeed(w http.ResponseWriter, r *http.Request) {
	var req ClientSeedRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	pair, err := s.seeds.SetClientSeed(r.Context(), chi.URLParam(r, "user"), req.ClientSeed)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, pair)
}

// handleRotateSeeds goes through the session machine, which refuses to
// disclose while the user has a live session under the pair.
func (s *Server) handleRotateSeeds(w http.ResponseWriter, r *http.Request) {
	disclosure, next, err := s.machine.RotateSeeds(r.Context(), chi.URLParam(r, "user"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"disclosed": disclosure,
		"next":      next,
	})
}

func (s *Server) handleSeedHash(w http.ResponseWriter, r *http.Request) {
	var req SeedHashRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.ServerSeed == "" {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeInvalidSeed, "server_seed is required", nil)
		return
	}

	s.writeJSON(w, http.StatusOK, SeedHashResponse{
		Hash: engine.HashSeed(req.ServerSeed),
		Echo: req,
	})
}
