package games

import (
	"fmt"
	"math"

	"github.com/rinapen/discord-game-bot/internal/engine"
)

// Hand is a rock-paper-scissors throw.
type Hand int

const (
	HandRock Hand = iota
	HandPaper
	HandScissors
)

func (h Hand) String() string {
	switch h {
	case HandRock:
		return "rock"
	case HandPaper:
		return "paper"
	default:
		return "scissors"
	}
}

// ParseHand validates a player's throw.
func ParseHand(s string) (Hand, error) {
	switch s {
	case "rock":
		return HandRock, nil
	case "paper":
		return HandPaper, nil
	case "scissors":
		return HandScissors, nil
	default:
		return 0, fmt.Errorf("unknown hand %q", s)
	}
}

// OpponentHand derives the house throw at the given cursor: floor(f * 3).
func OpponentHand(seeds engine.Seeds, nonce uint64, cursor uint64) (Hand, error) {
	f, err := engine.Float(seeds, nonce, cursor)
	if err != nil {
		return 0, err
	}

	h := Hand(math.Floor(f * 3))
	if h > HandScissors {
		h = HandScissors
	}
	return h, nil
}

// CompareHands resolves player vs opponent.
func CompareHands(player, opponent Hand) RoundResult {
	if player == opponent {
		return RoundDraw
	}
	switch {
	case player == HandRock && opponent == HandScissors,
		player == HandScissors && opponent == HandPaper,
		player == HandPaper && opponent == HandRock:
		return RoundWin
	default:
		return RoundLose
	}
}
