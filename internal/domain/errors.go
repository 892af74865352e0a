package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a player acts before attaching.
	ErrSessionNotFound = errors.New("trainer session not found")
	// ErrRoundRunning is returned when a round is started while another one is still running.
	ErrRoundRunning = errors.New("round already running")
	// ErrRoundNotRunning is returned when an answer arrives outside a running round.
	ErrRoundNotRunning = errors.New("round not running")
	// ErrOptionOutOfRange indicates a submitted option index is not 0-3.
	ErrOptionOutOfRange = errors.New("option out of range")
	// ErrInvalidWeights indicates a weight table that cannot be sampled.
	ErrInvalidWeights = errors.New("invalid weight table")
)
