package paytable

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinapen/discord-game-bot/internal/games"
)

func TestMinesFairMultiplier(t *testing.T) {
	// 5 mines, 3 safe reveals: 25/20 * 24/19 * 23/18.
	mult, err := Mines(5, 3)
	require.NoError(t, err)

	want := decimal.NewFromInt(25).DivRound(decimal.NewFromInt(20), 12).
		Mul(decimal.NewFromInt(24)).DivRound(decimal.NewFromInt(19), 12).
		Mul(decimal.NewFromInt(23)).DivRound(decimal.NewFromInt(18), 12)

	diff := mult.Sub(want).Abs()
	assert.True(t, diff.LessThan(decimal.RequireFromString("0.000001")),
		"multiplier %s differs from %s", mult, want)

	// 13800/6840 exactly.
	f, _ := mult.Float64()
	assert.InDelta(t, 2.017544, f, 0.000001)
}

func TestMinesZeroRevealsIsOne(t *testing.T) {
	mult, err := Mines(5, 0)
	require.NoError(t, err)
	assert.True(t, mult.Equal(decimal.NewFromInt(1)))
}

func TestMinesRejectsImpossibleReveals(t *testing.T) {
	// 24 mines leave one safe cell; two reveals cannot exist.
	_, err := Mines(24, 2)
	assert.ErrorIs(t, err, ErrNoSafeCells)

	_, err = Mines(5, 21)
	assert.ErrorIs(t, err, ErrNoSafeCells)

	_, err = Mines(5, 20)
	assert.NoError(t, err)
}

func TestMinesMonotonicity(t *testing.T) {
	// Non-decreasing in reveals for fixed mines.
	prev := decimal.Zero
	for k := 0; k <= 20; k++ {
		mult, err := Mines(5, k)
		require.NoError(t, err)
		assert.True(t, mult.GreaterThanOrEqual(prev), "reveals=%d: %s < %s", k, mult, prev)
		prev = mult
	}

	// Non-decreasing in mines for fixed reveals.
	prev = decimal.Zero
	for m := 1; m <= 22; m++ {
		mult, err := Mines(m, 3)
		require.NoError(t, err)
		assert.True(t, mult.GreaterThanOrEqual(prev), "mines=%d: %s < %s", m, mult, prev)
		prev = mult
	}
}

func TestMinesWithEdge(t *testing.T) {
	edge := decimal.RequireFromString("0.01")

	fair, err := Mines(5, 3)
	require.NoError(t, err)
	scaled, err := MinesWithEdge(5, 3, edge)
	require.NoError(t, err)

	want := fair.Mul(decimal.RequireFromString("0.99"))
	assert.True(t, scaled.Equal(want), "scaled %s != %s", scaled, want)

	// Zero reveals are never scaled below the stake.
	zero, err := MinesWithEdge(5, 0, edge)
	require.NoError(t, err)
	assert.True(t, zero.Equal(decimal.NewFromInt(1)))

	// A first reveal on a 1-mine board is fair 25/24; a large edge would
	// push it under 1, which the floor forbids.
	floored, err := MinesWithEdge(1, 1, decimal.RequireFromString("0.10"))
	require.NoError(t, err)
	assert.True(t, floored.GreaterThanOrEqual(decimal.NewFromInt(1)))
}

func TestBlackjackPayouts(t *testing.T) {
	assert.True(t, Blackjack(BlackjackWin).Equal(decimal.NewFromInt(2)))
	assert.True(t, Blackjack(BlackjackNatural).Equal(decimal.RequireFromString("2.5")))
	assert.True(t, Blackjack(BlackjackPush).Equal(decimal.NewFromInt(1)))
	assert.True(t, Blackjack(BlackjackLose).IsZero())
}

func TestEscalating(t *testing.T) {
	base := DefaultBaseMultiplier

	assert.Equal(t, int64(196), Payout(100, Escalating(base, 1)))
	assert.Equal(t, int64(392), Payout(100, Escalating(base, 2)))
	assert.Equal(t, int64(784), Payout(100, Escalating(base, 3)))

	// Zero wins returns the stake.
	assert.Equal(t, int64(100), Payout(100, Escalating(base, 0)))

	// Monotone in wins.
	prev := decimal.Zero
	for w := 0; w <= 8; w++ {
		mult := Escalating(base, w)
		assert.True(t, mult.GreaterThanOrEqual(prev))
		prev = mult
	}
}

func TestRouletteAndCraps(t *testing.T) {
	assert.True(t, Roulette(games.RouletteRed).Equal(decimal.NewFromInt(2)))
	assert.True(t, Roulette(games.RouletteBlack).Equal(decimal.NewFromInt(2)))
	assert.True(t, Roulette(games.RouletteGreen).Equal(decimal.NewFromInt(14)))
	assert.True(t, Craps().Equal(decimal.NewFromInt(2)))
}

func TestPayoutRounding(t *testing.T) {
	assert.Equal(t, int64(150), Payout(100, decimal.RequireFromString("1.5")))
	assert.Equal(t, int64(190), Payout(100, decimal.RequireFromString("1.896")))
	assert.Equal(t, int64(0), Payout(100, decimal.Zero))
}
