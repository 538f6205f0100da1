package games

import (
	"github.com/rinapen/discord-game-bot/internal/engine"
)

// ReplayParams carries the risk parameters a verifier must supply to
// reproduce a game (they are part of the session, not the seed triple).
type ReplayParams struct {
	MineCount int `json:"mine_count,omitempty"`
	// Draws bounds how much of the outcome stream to reproduce for
	// open-ended games (cards, rolls, rounds). Defaults to a hand-sized
	// window when zero.
	Draws int `json:"draws,omitempty"`
}

const defaultReplayDraws = 12

// Replay recomputes the outcome stream of one game from a disclosed seed
// triple. This is the audit path: after the server seed is revealed,
// anyone can reproduce exactly what the session derived.
func Replay(game Type, seeds engine.Seeds, nonce uint64, params ReplayParams) (map[string]any, error) {
	if err := seeds.Validate(); err != nil {
		return nil, err
	}

	draws := params.Draws
	if draws <= 0 {
		draws = defaultReplayDraws
	}

	switch game {
	case TypeMines:
		mineCount := params.MineCount
		if mineCount == 0 {
			mineCount = 3
		}
		positions, err := MinePositions(seeds, nonce, mineCount)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"mine_count":     mineCount,
			"mine_positions": positions,
		}, nil

	case TypeBlackjack:
		if draws < 4 {
			draws = 4
		}
		cards := make([]Card, draws)
		names := make([]string, draws)
		for i := range cards {
			card, err := DrawCard(seeds, nonce, uint64(i))
			if err != nil {
				return nil, err
			}
			cards[i] = card
			names[i] = card.String()
		}
		// The opening deal interleaves player and dealer.
		return map[string]any{
			"cards":        names,
			"player_deal":  []string{names[0], names[2]},
			"dealer_deal":  []string{names[1], names[3]},
			"player_value": HandValue([]Card{cards[0], cards[2]}),
			"dealer_value": HandValue([]Card{cards[1], cards[3]}),
		}, nil

	case TypeDice:
		rolls := make([][2]int, 0, draws)
		for i := 0; i < draws; i++ {
			d1, d2, err := RollDice(seeds, nonce, uint64(i*2))
			if err != nil {
				return nil, err
			}
			rolls = append(rolls, [2]int{d1, d2})
		}
		return map[string]any{"rolls": rolls}, nil

	case TypeFlip:
		sides := make([]string, draws)
		for i := range sides {
			side, err := FlipCoin(seeds, nonce, uint64(i))
			if err != nil {
				return nil, err
			}
			sides[i] = side.String()
		}
		return map[string]any{"sides": sides}, nil

	case TypeRoulette:
		pocket, err := SpinWheel(seeds, nonce, 0)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"pocket": pocket.Number,
			"color":  pocket.Color.String(),
		}, nil

	case TypeRPS:
		hands := make([]string, draws)
		for i := range hands {
			hand, err := OpponentHand(seeds, nonce, uint64(i))
			if err != nil {
				return nil, err
			}
			hands[i] = hand.String()
		}
		return map[string]any{"opponent_hands": hands}, nil

	default:
		_, err := Parse(string(game))
		return nil, err
	}
}
