// Package games interprets the uniform float stream from the engine as
// game-specific outcomes. Every function here is pure: the same seed
// triple and cursor always produce the same outcome, which is what makes
// the disclosed seeds externally verifiable.
package games

import "fmt"

// Type identifies one of the casino's games.
type Type string

const (
	TypeMines     Type = "mines"
	TypeBlackjack Type = "blackjack"
	TypeDice      Type = "dice"
	TypeFlip      Type = "flip"
	TypeRoulette  Type = "roulette"
	TypeRPS       Type = "rps"
)

// All lists every playable game type.
func All() []Type {
	return []Type{TypeMines, TypeBlackjack, TypeDice, TypeFlip, TypeRoulette, TypeRPS}
}

// Parse validates a game type string.
func Parse(s string) (Type, error) {
	for _, t := range All() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown game type %q", s)
}

// RoundResult is the outcome of one comparison round (RPS, blackjack
// resolution). A closed set replaces the "win"/"lose"/"draw" strings the
// games were originally written around.
type RoundResult int

const (
	RoundLose RoundResult = iota
	RoundWin
	RoundDraw
)

func (r RoundResult) String() string {
	switch r {
	case RoundWin:
		return "win"
	case RoundDraw:
		return "draw"
	default:
		return "lose"
	}
}
