package session

import (
	"context"

	"github.com/rinapen/discord-game-bot/internal/games"
	"github.com/rinapen/discord-game-bot/internal/paytable"
)

// initRoulette resolves the spin inside Start: one cursor, immediately
// terminal.
func (m *Machine) initRoulette(ctx context.Context, e *entry) error {
	s := e.s

	color, err := games.ParseRouletteColor(s.params.Color)
	if err != nil {
		return err
	}

	pocket, err := games.SpinWheel(s.seeds, s.nonce, s.nextCursor())
	if err != nil {
		return err
	}

	s.detail = map[string]any{
		"bet_color":    color.String(),
		"pocket":       pocket.Number,
		"pocket_color": pocket.Color.String(),
	}

	if pocket.Color != color {
		return m.settle(ctx, e, StatusLost, 0)
	}

	s.streak = 1
	s.multiplier = paytable.Roulette(color)
	s.reward = paytable.Payout(s.bet, s.multiplier)
	return m.settle(ctx, e, StatusCashedOut, s.reward)
}
