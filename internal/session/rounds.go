package session

import (
	"context"
	"fmt"

	"github.com/rinapen/discord-game-bot/internal/games"
	"github.com/rinapen/discord-game-bot/internal/paytable"
)

// Flip and RPS are double-up chains: every won round doubles the
// escalating multiplier (base 1.96), a lost round forfeits everything,
// and the chain auto-cashes at the configured streak ceiling to bound
// the maximum payout. Each round consumes one cursor; an RPS draw burns
// its cursor and replays without touching the streak.

func (m *Machine) chooseFlip(ctx context.Context, e *entry, choice string) error {
	s := e.s

	call, err := games.ParseCoinSide(choice)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownAction, err)
	}

	side, err := games.FlipCoin(s.seeds, s.nonce, s.nextCursor())
	if err != nil {
		return err
	}

	result := games.RoundLose
	if side == call {
		result = games.RoundWin
	}
	s.recordRound(call.String(), side.String(), result)

	if result == games.RoundLose {
		return m.settle(ctx, e, StatusLost, 0)
	}
	return m.advanceChain(ctx, e)
}

func (m *Machine) chooseRPS(ctx context.Context, e *entry, choice string) error {
	s := e.s

	hand, err := games.ParseHand(choice)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownAction, err)
	}

	opponent, err := games.OpponentHand(s.seeds, s.nonce, s.nextCursor())
	if err != nil {
		return err
	}

	result := games.CompareHands(hand, opponent)
	s.recordRound(hand.String(), opponent.String(), result)

	switch result {
	case games.RoundLose:
		return m.settle(ctx, e, StatusLost, 0)
	case games.RoundDraw:
		// Replay: streak and reward are untouched.
		return nil
	default:
		return m.advanceChain(ctx, e)
	}
}

// advanceChain applies one won round to the escalating multiplier and
// force-cashes at the ceiling.
func (m *Machine) advanceChain(ctx context.Context, e *entry) error {
	s := e.s

	s.streak++
	s.multiplier = paytable.Escalating(m.cfg.BaseMultiplier, s.streak)
	s.reward = paytable.Payout(s.bet, s.multiplier)

	if s.streak >= m.cfg.MaxStreak {
		s.detail["auto_cashout"] = true
		return m.settle(ctx, e, StatusCashedOut, s.reward)
	}
	return nil
}

func (s *session) recordRound(player, opponent string, result games.RoundResult) {
	s.rounds = append(s.rounds, roundRecord{
		Player:   player,
		Opponent: opponent,
		Result:   result.String(),
	})
	if s.detail == nil {
		s.detail = make(map[string]any)
	}
	rounds := make([]roundRecord, len(s.rounds))
	copy(rounds, s.rounds)
	s.detail["rounds"] = rounds
}
