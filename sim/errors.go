package sim

import "errors"

var (
	// ErrPlayerLimit is returned when connecting an id outside 0..MaxPlayers-1
	ErrPlayerLimit = errors.New("player id out of range")
	// ErrAlreadyConnected is returned when connecting an id that is already playing
	ErrAlreadyConnected = errors.New("player already connected")
	// ErrUnknownPlayer is returned when disconnecting an id that never connected
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrNegativeDelta is returned by Step for dt < 0
	ErrNegativeDelta = errors.New("negative frame delta")
	// ErrNonFinite is returned by Step when a position or velocity became NaN or Inf
	ErrNonFinite = errors.New("non-finite player state")
	// ErrInvalidTuning is returned by Tuning.Validate
	ErrInvalidTuning = errors.New("invalid tuning")
)
