package session

import (
	"context"

	"github.com/rinapen/discord-game-bot/internal/games"
	"github.com/rinapen/discord-game-bot/internal/paytable"
)

// Dice cursor layout: each roll consumes two cursors, one per die,
// starting at 0 with the come-out roll.

// initDice performs the come-out roll. A natural (7, 11) or craps
// (2, 3, 12) settles inside Start; any other total becomes the point.
func (m *Machine) initDice(ctx context.Context, e *entry) error {
	return m.rollDice(ctx, e)
}

func (m *Machine) rollDice(ctx context.Context, e *entry) error {
	s := e.s

	cursor := s.nextCursor()
	s.nextCursor()
	die1, die2, err := games.RollDice(s.seeds, s.nonce, cursor)
	if err != nil {
		return err
	}

	total := die1 + die2
	s.rolls = append(s.rolls, [2]int{die1, die2})
	s.updateDiceDetail(total)

	switch games.ResolveCraps(s.point, total) {
	case games.DiceWin:
		s.streak++
		s.multiplier = paytable.Craps()
		s.reward = paytable.Payout(s.bet, s.multiplier)
		s.detail["outcome"] = "win"
		return m.settle(ctx, e, StatusCashedOut, s.reward)
	case games.DiceLose:
		s.detail["outcome"] = "lose"
		return m.settle(ctx, e, StatusLost, 0)
	default:
		if s.point == 0 {
			s.point = total
			s.detail["point"] = total
		}
		return nil
	}
}

func (s *session) updateDiceDetail(total int) {
	if s.detail == nil {
		s.detail = make(map[string]any)
	}
	rolls := make([][2]int, len(s.rolls))
	copy(rolls, s.rolls)
	s.detail["rolls"] = rolls
	s.detail["last_total"] = total
	if s.point != 0 {
		s.detail["point"] = s.point
	}
}
