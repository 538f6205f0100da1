package games

import (
	"math"

	"github.com/rinapen/discord-game-bot/internal/engine"
)

// Card represents a playing card with rank and suit.
type Card struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// String returns a human-readable card representation like "♦2" or "♠A".
func (c Card) String() string {
	return c.Suit + c.Rank
}

// Suits in deck index order: ♦, ♥, ♠, ♣
var cardSuits = []string{"♦", "♥", "♠", "♣"}

// Ranks in order: 2-10, J, Q, K, A
var cardRanks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// The full 52-card deck in index order: ♦2, ♥2, ♠2, ♣2, ♦3, ...
var cardDeck [52]Card

func init() {
	i := 0
	for _, rank := range cardRanks {
		for _, suit := range cardSuits {
			cardDeck[i] = Card{Rank: rank, Suit: suit}
			i++
		}
	}
}

// CardFromFloat maps a float in [0,1) to a card: index = floor(f * 52).
// Draws are independent (unlimited deck), one cursor position per card.
func CardFromFloat(f float64) Card {
	return cardDeck[cardIndexFromFloat(f)]
}

// DrawCard derives the card at the given cursor.
func DrawCard(seeds engine.Seeds, nonce uint64, cursor uint64) (Card, error) {
	f, err := engine.Float(seeds, nonce, cursor)
	if err != nil {
		return Card{}, err
	}
	return CardFromFloat(f), nil
}

func cardIndexFromFloat(f float64) int {
	index := int(math.Floor(f * 52))
	if index < 0 {
		return 0
	}
	if index >= 52 {
		return 51
	}
	return index
}

// blackjackCardValue returns the blackjack point value of a card.
// 2-10: face value, J/Q/K: 10, A: 11 (soft).
func blackjackCardValue(rank string) int {
	switch rank {
	case "A":
		return 11
	case "J", "Q", "K", "10":
		return 10
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6":
		return 6
	case "7":
		return 7
	case "8":
		return 8
	case "9":
		return 9
	default:
		return 0
	}
}

// HandValue calculates the best blackjack hand value, counting aces as 11
// and demoting them to 1 one at a time while the hand would bust.
func HandValue(cards []Card) int {
	total := 0
	aces := 0
	for _, c := range cards {
		total += blackjackCardValue(c.Rank)
		if c.Rank == "A" {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// IsNatural reports a two-card 21 (blackjack), which pays a premium.
func IsNatural(cards []Card) bool {
	return len(cards) == 2 && HandValue(cards) == 21
}

// IsBust reports a hand over 21.
func IsBust(cards []Card) bool {
	return HandValue(cards) > 21
}
