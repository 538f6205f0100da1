// Package session owns the per-user, per-game state machine: escrowed
// stakes, derived outcomes, multiplier accumulation, and the terminal
// transitions that settle the ledger and advance the seed nonce.
package session

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rinapen/discord-game-bot/internal/engine"
	"github.com/rinapen/discord-game-bot/internal/games"
)

// Status is the session lifecycle state. Terminal states are final.
type Status int

const (
	StatusActive Status = iota
	StatusLost
	StatusCashedOut
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusLost:
		return "lost"
	default:
		return "cashed_out"
	}
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s != StatusActive
}

// MarshalJSON encodes the status as its string form.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Params are the game-specific risk parameters fixed at start.
type Params struct {
	// MineCount for mines, 1..24.
	MineCount int `json:"mine_count,omitempty"`
	// Color for roulette.
	Color string `json:"color,omitempty"`
}

// Action is one player move against a live session.
type Action struct {
	// Kind selects the move: "reveal" (mines), "hit"/"stand" (blackjack),
	// "roll" (dice point rounds), "choose" (flip side / rps hand).
	Kind string `json:"kind"`
	// Position is the mines cell, 0..24.
	Position int `json:"position,omitempty"`
	// Choice is the coin side or rps hand.
	Choice string `json:"choice,omitempty"`
}

const (
	ActionReveal = "reveal"
	ActionHit    = "hit"
	ActionStand  = "stand"
	ActionRoll   = "roll"
	ActionChoose = "choose"
)

// session is the in-memory state for one live game. It is ephemeral by
// design: a process crash orphans the escrowed debit, which the ledger
// journal surfaces for reconciliation.
type session struct {
	id        string
	userID    string
	game      games.Type
	bet       int64
	params    Params
	status    Status
	createdAt time.Time
	updatedAt time.Time

	// Seed triple captured at start; outcomes under it are pure.
	seeds      engine.Seeds
	serverHash string
	nonce      uint64
	cursor     uint64

	// Derived outcomes are cached so a replayed query can never observe
	// a different value (mines are fixed at start; cards accumulate).
	mineSet  map[int]bool
	revealed []int

	playerHand []games.Card
	dealerHand []games.Card

	point int
	rolls [][2]int

	rounds []roundRecord

	// streak is the count of consecutive successful steps; the paytable
	// maps it to the current multiplier.
	streak     int
	multiplier decimal.Decimal
	reward     int64

	payout int64
	detail map[string]any
}

// roundRecord is one resolved flip/rps round.
type roundRecord struct {
	Player   string `json:"player"`
	Opponent string `json:"opponent"`
	Result   string `json:"result"`
}

// nextCursor hands out the next draw position in the float stream.
func (s *session) nextCursor() uint64 {
	c := s.cursor
	s.cursor++
	return c
}

// View is the host-facing snapshot of a session.
type View struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Game           games.Type `json:"game"`
	Bet            int64      `json:"bet"`
	Status         Status     `json:"status"`
	ServerSeedHash string     `json:"server_seed_hash"`
	ClientSeed     string     `json:"client_seed"`
	Nonce          uint64     `json:"nonce"`

	Streak     int    `json:"streak"`
	Multiplier string `json:"multiplier"`
	Reward     int64  `json:"reward"`
	// Payout is set once the session is terminal.
	Payout int64 `json:"payout"`

	Detail map[string]any `json:"detail,omitempty"`
}

func (s *session) view() View {
	return View{
		ID:             s.id,
		UserID:         s.userID,
		Game:           s.game,
		Bet:            s.bet,
		Status:         s.status,
		ServerSeedHash: s.serverHash,
		ClientSeed:     s.seeds.Client,
		Nonce:          s.nonce,
		Streak:         s.streak,
		Multiplier:     s.multiplier.StringFixed(4),
		Reward:         s.reward,
		Payout:         s.payout,
		Detail:         s.detail,
	}
}

// Reveal is the post-terminal disclosure of the seed triple that produced
// the session's outcomes.
type Reveal struct {
	ServerSeed     string `json:"server_seed"`
	ServerSeedHash string `json:"server_seed_hash"`
	ClientSeed     string `json:"client_seed"`
	Nonce          uint64 `json:"nonce"`
}
