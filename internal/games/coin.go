package games

import (
	"fmt"

	"github.com/rinapen/discord-game-bot/internal/engine"
)

// CoinSide is one face of the coin.
type CoinSide int

const (
	CoinHeads CoinSide = iota
	CoinTails
)

func (s CoinSide) String() string {
	if s == CoinHeads {
		return "heads"
	}
	return "tails"
}

// ParseCoinSide validates a player's call.
func ParseCoinSide(s string) (CoinSide, error) {
	switch s {
	case "heads":
		return CoinHeads, nil
	case "tails":
		return CoinTails, nil
	default:
		return 0, fmt.Errorf("unknown coin side %q", s)
	}
}

// FlipCoin derives the coin face at the given cursor: floor(f * 2).
func FlipCoin(seeds engine.Seeds, nonce uint64, cursor uint64) (CoinSide, error) {
	f, err := engine.Float(seeds, nonce, cursor)
	if err != nil {
		return 0, err
	}
	if f < 0.5 {
		return CoinHeads, nil
	}
	return CoinTails, nil
}
