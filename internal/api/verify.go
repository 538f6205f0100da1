package api

import (
	"net/http"

	"github.com/rinapen/discord-game-bot/internal/engine"
	"github.com/rinapen/discord-game-bot/internal/games"
)

// handleVerify recomputes a game's outcome stream from a disclosed seed
// triple so players can audit completed sessions offline.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	game, err := games.Parse(req.Game)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, err.Error(),
			map[string]any{"game": req.Game})
		return
	}

	seedPair := engine.Seeds{Server: req.ServerSeed, Client: req.ClientSeed}
	outcome, err := games.Replay(game, seedPair, req.Nonce, req.Params)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, VerifyResponse{
		Game:           string(game),
		Nonce:          req.Nonce,
		ServerSeedHash: engine.HashSeed(req.ServerSeed),
		Outcome:        outcome,
		Echo:           req,
	})
}
