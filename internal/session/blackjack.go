package session

import (
	"context"

	"github.com/rinapen/discord-game-bot/internal/games"
	"github.com/rinapen/discord-game-bot/internal/paytable"
)

// Blackjack cursor layout: the opening deal consumes cursors 0..3 in the
// order player, dealer, player, dealer; every later card (player hits and
// dealer draws) consumes the next cursor in sequence.

func (m *Machine) initBlackjack(ctx context.Context, e *entry) error {
	s := e.s

	cards := make([]games.Card, 4)
	for i := range cards {
		card, err := games.DrawCard(s.seeds, s.nonce, s.nextCursor())
		if err != nil {
			return err
		}
		cards[i] = card
	}

	s.playerHand = []games.Card{cards[0], cards[2]}
	s.dealerHand = []games.Card{cards[1], cards[3]}
	s.updateBlackjackDetail()

	// A natural resolves immediately; the only open question is whether
	// the dealer pushes with one of their own.
	if games.IsNatural(s.playerHand) {
		outcome := paytable.BlackjackNatural
		if games.IsNatural(s.dealerHand) {
			outcome = paytable.BlackjackPush
		}
		return m.settleBlackjack(ctx, e, outcome)
	}
	return nil
}

func (m *Machine) hitBlackjack(ctx context.Context, e *entry) error {
	s := e.s

	card, err := games.DrawCard(s.seeds, s.nonce, s.nextCursor())
	if err != nil {
		return err
	}
	s.playerHand = append(s.playerHand, card)
	s.updateBlackjackDetail()

	if games.IsBust(s.playerHand) {
		return m.settleBlackjack(ctx, e, paytable.BlackjackLose)
	}
	if games.HandValue(s.playerHand) == 21 {
		return m.standBlackjack(ctx, e)
	}
	return nil
}

// standBlackjack runs the dealer (draw to 17, stand on soft 17 and above)
// and settles the comparison.
func (m *Machine) standBlackjack(ctx context.Context, e *entry) error {
	s := e.s

	for games.HandValue(s.dealerHand) < 17 {
		card, err := games.DrawCard(s.seeds, s.nonce, s.nextCursor())
		if err != nil {
			return err
		}
		s.dealerHand = append(s.dealerHand, card)
	}
	s.updateBlackjackDetail()

	playerValue := games.HandValue(s.playerHand)
	dealerValue := games.HandValue(s.dealerHand)

	var outcome paytable.BlackjackOutcome
	switch {
	case playerValue > 21:
		outcome = paytable.BlackjackLose
	case dealerValue > 21 || playerValue > dealerValue:
		outcome = paytable.BlackjackWin
	case playerValue == dealerValue:
		outcome = paytable.BlackjackPush
	default:
		outcome = paytable.BlackjackLose
	}
	return m.settleBlackjack(ctx, e, outcome)
}

func (m *Machine) settleBlackjack(ctx context.Context, e *entry, outcome paytable.BlackjackOutcome) error {
	s := e.s

	mult := paytable.Blackjack(outcome)
	s.multiplier = mult
	payout := paytable.Payout(s.bet, mult)
	s.reward = payout

	status := StatusLost
	if payout > 0 {
		status = StatusCashedOut
	}
	if outcome == paytable.BlackjackWin || outcome == paytable.BlackjackNatural {
		s.streak = 1
	}

	s.detail["outcome"] = blackjackOutcomeString(outcome)
	return m.settle(ctx, e, status, payout)
}

func blackjackOutcomeString(outcome paytable.BlackjackOutcome) string {
	switch outcome {
	case paytable.BlackjackWin:
		return "win"
	case paytable.BlackjackNatural:
		return "blackjack"
	case paytable.BlackjackPush:
		return "push"
	default:
		return "lose"
	}
}

func (s *session) updateBlackjackDetail() {
	if s.detail == nil {
		s.detail = make(map[string]any)
	}
	s.detail["player_cards"] = cardStrings(s.playerHand)
	s.detail["dealer_cards"] = cardStrings(s.dealerHand)
	s.detail["player_value"] = games.HandValue(s.playerHand)
	s.detail["dealer_value"] = games.HandValue(s.dealerHand)
}

func cardStrings(cards []games.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
