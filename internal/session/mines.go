package session

import (
	"context"
	"fmt"
	"sort"

	"github.com/rinapen/discord-game-bot/internal/games"
	"github.com/rinapen/discord-game-bot/internal/paytable"
)

// initMines derives and caches the full mine layout. The layout consumes
// float cursors 0..23 (the Fisher-Yates draws); later games on the same
// session never re-derive it, so a cell queried twice is identical.
func (m *Machine) initMines(s *session) error {
	positions, err := games.MinePositions(s.seeds, s.nonce, s.params.MineCount)
	if err != nil {
		return err
	}

	s.mineSet = make(map[int]bool, len(positions))
	for _, pos := range positions {
		s.mineSet[pos] = true
	}
	s.cursor = games.MinesFloatCount
	s.detail = map[string]any{
		"mine_count": s.params.MineCount,
		"revealed":   []int{},
	}
	return nil
}

func (m *Machine) revealMine(ctx context.Context, e *entry, position int) error {
	s := e.s
	if position < 0 || position >= games.MinesBoardSize {
		return fmt.Errorf("%w: cell %d", ErrInvalidPosition, position)
	}
	for _, p := range s.revealed {
		if p == position {
			return ErrDuplicateAction
		}
	}

	s.revealed = append(s.revealed, position)
	s.detail["revealed"] = append([]int(nil), s.revealed...)

	if s.mineSet[position] {
		s.detail["hit_mine"] = position
		s.detail["mine_positions"] = minePositions(s.mineSet)
		return m.settle(ctx, e, StatusLost, 0)
	}

	s.streak++
	mult, err := paytable.MinesWithEdge(s.params.MineCount, s.streak, m.cfg.HouseEdge)
	if err != nil {
		return err
	}
	s.multiplier = mult
	s.reward = paytable.Payout(s.bet, mult)

	// Board cleared: nothing left to reveal, pay out immediately.
	if s.streak == games.MinesBoardSize-s.params.MineCount {
		s.detail["cleared"] = true
		s.detail["mine_positions"] = minePositions(s.mineSet)
		return m.settle(ctx, e, StatusCashedOut, s.reward)
	}
	return nil
}

func minePositions(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for pos := range set {
		out = append(out, pos)
	}
	sort.Ints(out)
	return out
}
