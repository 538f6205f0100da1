package api

import (
	"github.com/rinapen/discord-game-bot/internal/games"
	"github.com/rinapen/discord-game-bot/internal/session"
)

// EngineError represents a structured error response with context
type EngineError struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
}

// Error implements the error interface
func (e EngineError) Error() string {
	return e.Message
}

// Error types with proper categorization
const (
	// Input validation errors
	ErrTypeInvalidSeed   = "invalid_seed"
	ErrTypeInvalidBet    = "invalid_bet"
	ErrTypeInvalidAction = "invalid_action"
	ErrTypeValidation    = "validation_error"

	// Session errors
	ErrTypeSessionNotFound = "session_not_found"
	ErrTypeSessionConflict = "session_conflict"
	ErrTypeSessionFinished = "session_finished"
	ErrTypeSessionLive     = "session_live"

	// Ledger errors
	ErrTypeInsufficientFunds = "insufficient_funds"
	ErrTypeUserNotFound      = "user_not_found"

	// System errors
	ErrTypeInternal           = "internal_error"
	ErrTypeServiceUnavailable = "service_unavailable"
)

// StartSessionRequest opens a new game session.
type StartSessionRequest struct {
	UserID string         `json:"user_id"`
	Game   string         `json:"game"`
	Bet    int64          `json:"bet"`
	Params session.Params `json:"params"`
}

// ActionRequest applies one move to a live session.
type ActionRequest struct {
	Kind     string `json:"kind"`
	Position int    `json:"position,omitempty"`
	Choice   string `json:"choice,omitempty"`
}

// VerifyRequest replays a finished game from a disclosed seed triple.
type VerifyRequest struct {
	Game       string             `json:"game"`
	ServerSeed string             `json:"server_seed"`
	ClientSeed string             `json:"client_seed"`
	Nonce      uint64             `json:"nonce"`
	Params     games.ReplayParams `json:"params"`
}

// VerifyResponse carries the recomputed outcome stream plus the hash the
// operator must have published before play.
type VerifyResponse struct {
	Game           string         `json:"game"`
	Nonce          uint64         `json:"nonce"`
	ServerSeedHash string         `json:"server_seed_hash"`
	Outcome        map[string]any `json:"outcome"`
	Echo           VerifyRequest  `json:"echo"`
}

// SeedHashRequest represents a seed hashing request
type SeedHashRequest struct {
	ServerSeed string `json:"server_seed"`
}

// SeedHashResponse represents a seed hashing response
type SeedHashResponse struct {
	Hash string          `json:"hash"`
	Echo SeedHashRequest `json:"echo"`
}

// ClientSeedRequest sets a user's client seed.
type ClientSeedRequest struct {
	ClientSeed string `json:"client_seed"`
}

// BalanceResponse reports a user's ledger balance.
type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}
