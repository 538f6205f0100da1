package games

import (
	"math"

	"github.com/rinapen/discord-game-bot/internal/engine"
)

// DiceOutcome is the resolution of one craps roll against the session's
// current point (0 while on the come-out roll).
type DiceOutcome int

const (
	// DicePoint establishes or continues a point; the session stays live.
	DicePoint DiceOutcome = iota
	// DiceWin settles the session in the player's favor.
	DiceWin
	// DiceLose settles the session against the player.
	DiceLose
)

// dieFromFloat maps a float in [0,1) to a die face 1..6.
func dieFromFloat(f float64) int {
	face := int(math.Floor(f*6)) + 1
	if face > 6 {
		face = 6
	}
	return face
}

// RollDice derives one two-die roll. Each roll consumes two cursor
// positions: cursor for the first die, cursor+1 for the second.
func RollDice(seeds engine.Seeds, nonce uint64, cursor uint64) (die1, die2 int, err error) {
	floats, err := engine.Floats(seeds, nonce, cursor, 2)
	if err != nil {
		return 0, 0, err
	}
	return dieFromFloat(floats[0]), dieFromFloat(floats[1]), nil
}

// ResolveCraps applies craps rules to a roll total. On the come-out roll
// (point == 0): 7 and 11 win, 2, 3 and 12 lose, anything else becomes the
// point. On point rolls: hitting the point wins, 7 loses, anything else
// keeps rolling.
func ResolveCraps(point, total int) DiceOutcome {
	if point == 0 {
		switch total {
		case 7, 11:
			return DiceWin
		case 2, 3, 12:
			return DiceLose
		default:
			return DicePoint
		}
	}

	switch total {
	case point:
		return DiceWin
	case 7:
		return DiceLose
	default:
		return DicePoint
	}
}
