package session

import (
	"log/slog"

	"github.com/rinapen/discord-game-bot/internal/games"
)

// Result is emitted once per terminal transition. The engine produces the
// data; delivery and formatting belong to the host.
type Result struct {
	SessionID string         `json:"session_id"`
	UserID    string         `json:"user_id"`
	Game      games.Type     `json:"game_type"`
	Bet       int64          `json:"bet_amount"`
	Payout    int64          `json:"payout"`
	Net       int64          `json:"net"`
	Status    Status         `json:"status"`
	Detail    map[string]any `json:"outcome_detail,omitempty"`
}

// EventSink consumes terminal results.
type EventSink interface {
	Publish(Result)
}

// LogSink writes results to a structured logger. It is the default sink
// when the host installs nothing else.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Publish(r Result) {
	s.Logger.Info("game settled",
		"session", r.SessionID,
		"user", r.UserID,
		"game", string(r.Game),
		"bet", r.Bet,
		"payout", r.Payout,
		"net", r.Net,
		"status", r.Status.String(),
	)
}

type nopSink struct{}

func (nopSink) Publish(Result) {}
