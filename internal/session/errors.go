package session

import "errors"

var (
	// ErrInvalidBet reports a bet below the game minimum or otherwise
	// outside configured bounds.
	ErrInvalidBet = errors.New("invalid bet")
	// ErrSessionActive reports a start attempt while the user already has
	// a live session for the same game.
	ErrSessionActive = errors.New("session already active")
	// ErrSessionFinished reports an action against a terminal session.
	ErrSessionFinished = errors.New("session already finished")
	// ErrDuplicateAction reports a position or choice already resolved in
	// this session.
	ErrDuplicateAction = errors.New("position already resolved")
	// ErrUnknownSession reports an unknown session id.
	ErrUnknownSession = errors.New("unknown session")
	// ErrUnknownAction reports an action the session's game does not
	// support.
	ErrUnknownAction = errors.New("action not supported by this game")
	// ErrInvalidPosition reports a board position outside the game's
	// range.
	ErrInvalidPosition = errors.New("position out of range")
	// ErrSessionNotFinished reports a seed reveal request for a session
	// that is still live.
	ErrSessionNotFinished = errors.New("session still active")
)
