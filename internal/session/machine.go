package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rinapen/discord-game-bot/internal/games"
	"github.com/rinapen/discord-game-bot/internal/ledger"
	"github.com/rinapen/discord-game-bot/internal/seeds"
)

// Config carries the operator-facing knobs of the state machine.
type Config struct {
	// MinBets is the minimum stake per game.
	MinBets map[games.Type]int64
	// HouseEdge is the disclosed multiplicative discount applied to the
	// fair mines paytable.
	HouseEdge decimal.Decimal
	// BaseMultiplier is the double-up base for flip and rps.
	BaseMultiplier decimal.Decimal
	// MaxStreak auto-cashes a double-up chain to bound operator risk.
	MaxStreak int
	// TTL is the idle window after which a live session is auto-cashed
	// out and a terminal session is dropped from the index.
	TTL time.Duration
}

// DefaultConfig mirrors the bot's production settings.
func DefaultConfig() Config {
	return Config{
		MinBets: map[games.Type]int64{
			games.TypeMines:     100,
			games.TypeBlackjack: 50,
			games.TypeDice:      50,
			games.TypeFlip:      50,
			games.TypeRoulette:  25,
			games.TypeRPS:       50,
		},
		HouseEdge:      decimal.RequireFromString("0.01"),
		BaseMultiplier: decimal.RequireFromString("1.96"),
		MaxStreak:      6,
		TTL:            5 * time.Minute,
	}
}

type key struct {
	user string
	game games.Type
}

// entry guards one session. All mutating operations on the session run
// under its mutex, so reveal and cashout can never interleave.
type entry struct {
	mu sync.Mutex
	s  *session
}

// Machine is the session state machine over all users and games.
type Machine struct {
	cfg    Config
	ledger ledger.Adapter
	seeds  *seeds.Manager
	log    *slog.Logger
	sink   EventSink

	mu     sync.Mutex
	active map[key]*entry
	byID   map[string]*entry
}

// New builds a Machine. A nil sink discards result events; a nil logger
// uses the default slog logger.
func New(cfg Config, adapter ledger.Adapter, seedMgr *seeds.Manager, log *slog.Logger, sink EventSink) *Machine {
	if log == nil {
		log = slog.Default()
	}
	if sink == nil {
		sink = nopSink{}
	}
	return &Machine{
		cfg:    cfg,
		ledger: adapter,
		seeds:  seedMgr,
		log:    log,
		sink:   sink,
		active: make(map[key]*entry),
		byID:   make(map[string]*entry),
	}
}

// Start escrows the stake and opens a session. The stake is debited
// atomically before the session exists; the seed commitment in the
// returned view was persisted before any outcome was derived. Roulette
// and a come-out dice natural can settle within Start, in which case the
// returned view is already terminal.
func (m *Machine) Start(ctx context.Context, userID string, game games.Type, bet int64, params Params) (View, error) {
	min, ok := m.cfg.MinBets[game]
	if !ok {
		return View{}, fmt.Errorf("%w: no minimum configured for %s", ErrInvalidBet, game)
	}
	if bet < min {
		return View{}, fmt.Errorf("%w: minimum for %s is %d", ErrInvalidBet, game, min)
	}
	if err := validateParams(game, params); err != nil {
		return View{}, err
	}

	s := &session{
		id:         uuid.NewString(),
		userID:     userID,
		game:       game,
		bet:        bet,
		params:     params,
		status:     StatusActive,
		createdAt:  time.Now().UTC(),
		updatedAt:  time.Now().UTC(),
		multiplier: decimal.NewFromInt(1),
	}

	e := &entry{s: s}
	k := key{user: userID, game: game}

	m.mu.Lock()
	// settle removes entries from the active index before they turn
	// terminal, so presence alone means a live session.
	if _, found := m.active[k]; found {
		m.mu.Unlock()
		return View{}, ErrSessionActive
	}
	m.active[k] = e
	m.byID[s.id] = e
	e.mu.Lock()
	m.mu.Unlock()
	defer e.mu.Unlock()

	// The nonce lease happens with the slot already held, and rotation
	// scans the slot table before disclosing, so no rotation can reveal
	// the seed this session is about to play under.
	pair, err := m.seeds.Acquire(ctx, userID)
	if err != nil {
		m.remove(s)
		return View{}, err
	}
	s.seeds = pair.Seeds()
	s.serverHash = pair.ServerHash
	s.nonce = pair.Nonce

	if err := m.ledger.Debit(ctx, userID, bet, ledger.Ref{Game: string(game), SessionID: s.id}); err != nil {
		m.remove(s)
		return View{}, err
	}

	if err := m.initGame(ctx, e); err != nil {
		// Initialization failed after the debit: refund the escrow so the
		// stake is not orphaned.
		if rerr := m.ledger.Credit(ctx, userID, bet, ledger.Ref{Game: string(game), SessionID: s.id}); rerr != nil {
			m.log.Error("refund after failed start", "session", s.id, "err", rerr)
		}
		m.remove(s)
		return View{}, err
	}

	return s.view(), nil
}

func validateParams(game games.Type, params Params) error {
	switch game {
	case games.TypeMines:
		if params.MineCount < games.MinesMinCount || params.MineCount > games.MinesMaxCount {
			return fmt.Errorf("%w: mine count %d out of range", ErrInvalidBet, params.MineCount)
		}
	case games.TypeRoulette:
		if _, err := games.ParseRouletteColor(params.Color); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidBet, err)
		}
	}
	return nil
}

// initGame derives any outcomes fixed at session start and resolves the
// games that settle immediately.
func (m *Machine) initGame(ctx context.Context, e *entry) error {
	s := e.s
	switch s.game {
	case games.TypeMines:
		return m.initMines(s)
	case games.TypeBlackjack:
		return m.initBlackjack(ctx, e)
	case games.TypeDice:
		return m.initDice(ctx, e)
	case games.TypeRoulette:
		return m.initRoulette(ctx, e)
	default:
		// flip and rps wait for the first choice.
		return nil
	}
}

// Act applies one player action to a live session.
func (m *Machine) Act(ctx context.Context, sessionID string, action Action) (View, error) {
	e, err := m.lookup(sessionID)
	if err != nil {
		return View{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.s
	if s.status.Terminal() {
		return View{}, ErrSessionFinished
	}
	s.updatedAt = time.Now().UTC()

	switch {
	case s.game == games.TypeMines && action.Kind == ActionReveal:
		err = m.revealMine(ctx, e, action.Position)
	case s.game == games.TypeBlackjack && action.Kind == ActionHit:
		err = m.hitBlackjack(ctx, e)
	case s.game == games.TypeBlackjack && action.Kind == ActionStand:
		err = m.standBlackjack(ctx, e)
	case s.game == games.TypeDice && action.Kind == ActionRoll:
		err = m.rollDice(ctx, e)
	case s.game == games.TypeFlip && action.Kind == ActionChoose:
		err = m.chooseFlip(ctx, e, action.Choice)
	case s.game == games.TypeRPS && action.Kind == ActionChoose:
		err = m.chooseRPS(ctx, e, action.Choice)
	default:
		err = fmt.Errorf("%w: %s does not accept %q", ErrUnknownAction, s.game, action.Kind)
	}
	if err != nil {
		return View{}, err
	}
	return s.view(), nil
}

// Cashout settles a live session at its current reward. With no
// successful step yet the full stake comes back: a deliberate house rule,
// not a zero-multiplier artifact.
func (m *Machine) Cashout(ctx context.Context, sessionID string) (View, error) {
	e, err := m.lookup(sessionID)
	if err != nil {
		return View{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.s
	if s.status.Terminal() {
		return View{}, ErrSessionFinished
	}

	// Standing is blackjack's cashout: the hand must resolve against the
	// dealer, it cannot be abandoned for the current stake.
	if s.game == games.TypeBlackjack {
		if err := m.standBlackjack(ctx, e); err != nil {
			return View{}, err
		}
		return s.view(), nil
	}

	payout := s.bet
	if s.streak > 0 {
		payout = s.reward
	}
	if err := m.settle(ctx, e, StatusCashedOut, payout); err != nil {
		return View{}, err
	}
	return s.view(), nil
}

// Get returns a snapshot of a session.
func (m *Machine) Get(sessionID string) (View, error) {
	e, err := m.lookup(sessionID)
	if err != nil {
		return View{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.s.view(), nil
}

// RevealSeeds discloses the seed triple of a terminal session so a
// third party can recompute its outcomes. Every live session of the user
// plays under the same server seed, so disclosure waits until none are
// left; it then retires the seed, rotating the active pair if it still
// uses it, so no future game plays under a revealed seed.
func (m *Machine) RevealSeeds(ctx context.Context, sessionID string) (Reveal, error) {
	e, err := m.lookup(sessionID)
	if err != nil {
		return Reveal{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.s
	if !s.status.Terminal() {
		return Reveal{}, ErrSessionNotFinished
	}

	// m.mu stays held across the rotation so no concurrent Start can
	// lease a nonce under the seed being disclosed.
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userBusyLocked(s.userID) {
		return Reveal{}, fmt.Errorf("%w: finish live sessions before revealing seeds", ErrSessionActive)
	}

	pair, err := m.seeds.GetOrCreate(ctx, s.userID)
	if err != nil {
		return Reveal{}, err
	}
	if pair.ServerHash == s.serverHash {
		if _, _, err := m.seeds.Rotate(ctx, s.userID); err != nil {
			return Reveal{}, err
		}
	}

	return Reveal{
		ServerSeed:     s.seeds.Server,
		ServerSeedHash: s.serverHash,
		ClientSeed:     s.seeds.Client,
		Nonce:          s.nonce,
	}, nil
}

// RotateSeeds retires the user's active pair and returns the disclosure.
// Rotation discloses the server seed every live session of the user is
// playing under, so it is refused until none are left. m.mu stays held
// across the rotation so no concurrent Start can lease a nonce under the
// retiring seed.
func (m *Machine) RotateSeeds(ctx context.Context, userID string) (seeds.Disclosure, seeds.Pair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.userBusyLocked(userID) {
		return seeds.Disclosure{}, seeds.Pair{}, fmt.Errorf("%w: finish live sessions before rotating seeds", ErrSessionActive)
	}
	return m.seeds.Rotate(ctx, userID)
}

// userBusyLocked reports whether the user has any live session. Callers
// hold m.mu; entries leave the active index before turning terminal, so
// presence alone means live.
func (m *Machine) userBusyLocked(userID string) bool {
	for k := range m.active {
		if k.user == userID {
			return true
		}
	}
	return false
}

func (m *Machine) lookup(sessionID string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.byID[sessionID]
	if !ok {
		return nil, ErrUnknownSession
	}
	return e, nil
}

func (m *Machine) remove(s *session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, s.id)
	k := key{user: s.userID, game: s.game}
	if e, ok := m.active[k]; ok && e.s == s {
		delete(m.active, k)
	}
}

// settle performs the terminal transition: mark the status, credit the
// payout, emit the result. The status flips before the
// ledger call so a racing action observes a finished session; if the
// credit itself fails the journal keeps the debit unsettled for
// reconciliation.
func (m *Machine) settle(ctx context.Context, e *entry, status Status, payout int64) error {
	s := e.s

	// Free the (user, game) slot before the status flips so the active
	// index never holds a terminal session.
	m.mu.Lock()
	k := key{user: s.userID, game: s.game}
	if cur, ok := m.active[k]; ok && cur.s == s {
		delete(m.active, k)
	}
	m.mu.Unlock()

	s.status = status
	s.payout = payout
	s.updatedAt = time.Now().UTC()

	ref := ledger.Ref{Game: string(s.game), SessionID: s.id}
	if err := m.ledger.Credit(ctx, s.userID, payout, ref); err != nil {
		m.log.Error("settlement credit failed", "session", s.id, "user", s.userID, "payout", payout, "err", err)
		return fmt.Errorf("settle session: %w", err)
	}

	m.sink.Publish(Result{
		SessionID: s.id,
		UserID:    s.userID,
		Game:      s.game,
		Bet:       s.bet,
		Payout:    payout,
		Net:       payout - s.bet,
		Status:    status,
		Detail:    s.detail,
	})
	return nil
}

// Sweep expires idle sessions: live ones are settled exactly as a player
// cashout would settle them (uniform policy for every game), terminal
// ones older than the TTL are dropped from the index.
func (m *Machine) Sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-m.cfg.TTL)

	m.mu.Lock()
	candidates := make([]*entry, 0, len(m.byID))
	for _, e := range m.byID {
		candidates = append(candidates, e)
	}
	m.mu.Unlock()

	for _, e := range candidates {
		e.mu.Lock()
		s := e.s
		switch {
		case s.status.Terminal() && s.updatedAt.Before(cutoff):
			m.remove(s)
		case !s.status.Terminal() && s.updatedAt.Before(cutoff):
			payout := s.bet
			if s.streak > 0 {
				payout = s.reward
			}
			if err := m.settle(ctx, e, StatusCashedOut, payout); err != nil {
				m.log.Error("expiry settlement failed", "session", s.id, "err", err)
			} else {
				m.log.Info("session expired", "session", s.id, "user", s.userID, "game", string(s.game), "payout", payout)
			}
		}
		e.mu.Unlock()
	}
}

// Run drives the expiry sweeper until the context is canceled.
func (m *Machine) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

// IsNotFound reports lookup-style errors a host maps to 404s.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUnknownSession)
}
