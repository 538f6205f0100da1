// Package paytable computes payout multipliers. All functions are pure;
// the only operator knob is a single disclosed house-edge scalar applied
// multiplicatively where a game pays the mathematically fair rate. Games
// whose published paytable already carries its edge (roulette's 15-pocket
// wheel, the 1.96 double-up base, blackjack's fixed payouts) use fixed
// constants instead.
package paytable

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rinapen/discord-game-bot/internal/games"
)

// ErrNoSafeCells reports an attempt to price more safe reveals than the
// board mathematically holds.
var ErrNoSafeCells = errors.New("no safe cells remain to price")

var (
	one = decimal.NewFromInt(1)
	two = decimal.NewFromInt(2)

	// DefaultBaseMultiplier is the double-up base for RPS and coin flip:
	// fair 2x with a 2% edge baked in.
	DefaultBaseMultiplier = decimal.RequireFromString("1.96")

	// Fixed paytables.
	blackjackWin     = decimal.NewFromInt(2)
	blackjackNatural = decimal.RequireFromString("2.5")
	rouletteColor    = decimal.NewFromInt(2)
	rouletteGreen    = decimal.NewFromInt(14)
	crapsWin         = decimal.NewFromInt(2)
)

// Mines returns the multiplier for revealing safeReveals safe cells with
// mineCount mines on a 25-cell board, before the house edge. The true
// survival probability is prod_{i<k} (25-m-i)/(25-i); the fair multiplier
// is its inverse. safeReveals == 0 prices at exactly 1.
func Mines(mineCount, safeReveals int) (decimal.Decimal, error) {
	if mineCount < games.MinesMinCount || mineCount > games.MinesMaxCount {
		return decimal.Zero, fmt.Errorf("mine count %d out of range", mineCount)
	}
	if safeReveals < 0 {
		return decimal.Zero, fmt.Errorf("negative reveal count %d", safeReveals)
	}
	if safeReveals > games.MinesBoardSize-mineCount {
		return decimal.Zero, ErrNoSafeCells
	}

	mult := one
	for i := 0; i < safeReveals; i++ {
		num := decimal.NewFromInt(int64(games.MinesBoardSize - i))
		den := decimal.NewFromInt(int64(games.MinesBoardSize - mineCount - i))
		mult = mult.Mul(num).DivRound(den, 12)
	}
	return mult, nil
}

// MinesWithEdge scales the fair mines multiplier by (1 - edge), keeping
// a floor of 1 so a priced reveal never pays below the stake.
func MinesWithEdge(mineCount, safeReveals int, edge decimal.Decimal) (decimal.Decimal, error) {
	mult, err := Mines(mineCount, safeReveals)
	if err != nil {
		return decimal.Zero, err
	}
	if safeReveals == 0 {
		return mult, nil
	}

	scaled := mult.Mul(one.Sub(edge))
	if scaled.LessThan(one) {
		scaled = one
	}
	return scaled, nil
}

// BlackjackOutcome is the settled result of a blackjack hand.
type BlackjackOutcome int

const (
	BlackjackLose BlackjackOutcome = iota
	BlackjackWin
	BlackjackNatural
	BlackjackPush
)

// Blackjack returns the payout multiplier for a settled hand: win 2x,
// natural 2.5x, push returns the stake, bust or lower total pays nothing.
func Blackjack(outcome BlackjackOutcome) decimal.Decimal {
	switch outcome {
	case BlackjackWin:
		return blackjackWin
	case BlackjackNatural:
		return blackjackNatural
	case BlackjackPush:
		return one
	default:
		return decimal.Zero
	}
}

// Escalating returns the double-up multiplier after wins consecutive
// wins: base * 2^(w-1) for w >= 1, 1 for w == 0 (stake returned).
func Escalating(base decimal.Decimal, wins int) decimal.Decimal {
	if wins <= 0 {
		return one
	}

	mult := base
	for i := 1; i < wins; i++ {
		mult = mult.Mul(two)
	}
	return mult
}

// Roulette returns the multiplier for a winning color bet.
func Roulette(color games.RouletteColor) decimal.Decimal {
	if color == games.RouletteGreen {
		return rouletteGreen
	}
	return rouletteColor
}

// Craps returns the multiplier for a won dice session.
func Craps() decimal.Decimal {
	return crapsWin
}

// Payout converts a stake and multiplier into a settled amount, rounding
// to the nearest whole unit of currency.
func Payout(bet int64, mult decimal.Decimal) int64 {
	return decimal.NewFromInt(bet).Mul(mult).Round(0).IntPart()
}
