package games

import (
	"fmt"
	"math"

	"github.com/rinapen/discord-game-bot/internal/engine"
)

// The wheel has 15 pockets: 7 red, 7 black, 1 green. The pocket counts
// encode the payout structure (red/black pay 2x, green pays 14x) as a
// fair wheel instead of a hidden win-rate table.
const RouletteWheelSize = 15

// RouletteColor is a wheel color and a valid bet.
type RouletteColor int

const (
	RouletteRed RouletteColor = iota
	RouletteBlack
	RouletteGreen
)

func (c RouletteColor) String() string {
	switch c {
	case RouletteRed:
		return "red"
	case RouletteBlack:
		return "black"
	default:
		return "green"
	}
}

// ParseRouletteColor validates a player's color bet.
func ParseRouletteColor(s string) (RouletteColor, error) {
	switch s {
	case "red":
		return RouletteRed, nil
	case "black":
		return RouletteBlack, nil
	case "green":
		return RouletteGreen, nil
	default:
		return 0, fmt.Errorf("unknown roulette color %q", s)
	}
}

// RoulettePocket is where the ball landed.
type RoulettePocket struct {
	Number int           `json:"number"`
	Color  RouletteColor `json:"color"`
}

// SpinWheel derives the pocket at the given cursor: floor(f * 15).
// Pocket 0 is green; odd pockets are red, even pockets black.
func SpinWheel(seeds engine.Seeds, nonce uint64, cursor uint64) (RoulettePocket, error) {
	f, err := engine.Float(seeds, nonce, cursor)
	if err != nil {
		return RoulettePocket{}, err
	}

	pocket := int(math.Floor(f * RouletteWheelSize))
	if pocket >= RouletteWheelSize {
		pocket = RouletteWheelSize - 1
	}

	color := RouletteGreen
	if pocket != 0 {
		if pocket%2 == 1 {
			color = RouletteRed
		} else {
			color = RouletteBlack
		}
	}

	return RoulettePocket{Number: pocket, Color: color}, nil
}
