package games

import (
	"fmt"
	"math"

	"github.com/rinapen/discord-game-bot/internal/engine"
)

// Mines board constants. The board is a 5x5 grid addressed 0..24 in
// left-to-right, top-to-bottom order.
const (
	MinesBoardSize  = 25
	MinesFloatCount = 24 // Fisher-Yates over 25 positions needs 24 draws
	MinesMinCount   = 1
	MinesMaxCount   = 24
)

// MinePositions derives the mine layout for a game: a uniformly random
// subset of mineCount cells, chosen by consuming the float stream as a
// Fisher-Yates selection over the 25 positions (cursor 0..23). The full
// permutation is derived regardless of mineCount so the cursor layout is
// identical for every game, which keeps external verification simple.
func MinePositions(seeds engine.Seeds, nonce uint64, mineCount int) ([]int, error) {
	if mineCount < MinesMinCount || mineCount > MinesMaxCount {
		return nil, fmt.Errorf("mine count must be between %d and %d, got %d", MinesMinCount, MinesMaxCount, mineCount)
	}

	floats, err := engine.Floats(seeds, nonce, 0, MinesFloatCount)
	if err != nil {
		return nil, err
	}

	return minesFromFloats(floats, mineCount), nil
}

func minesFromFloats(floats []float64, mineCount int) []int {
	pool := make([]int, MinesBoardSize)
	for i := range pool {
		pool[i] = i
	}

	permutation := make([]int, 0, MinesFloatCount)
	for i := 0; i < MinesFloatCount && len(pool) > 0; i++ {
		index := int(math.Floor(floats[i] * float64(len(pool))))
		if index >= len(pool) {
			index = len(pool) - 1
		}

		permutation = append(permutation, pool[index])
		pool = append(pool[:index], pool[index+1:]...)
	}

	mines := make([]int, mineCount)
	copy(mines, permutation[:mineCount])
	return mines
}
