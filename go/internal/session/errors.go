package session

import "errors"

var (
	// ErrUnknownSide is returned when an operation names a side other
	// than HOME or AWAY.
	ErrUnknownSide = errors.New("unknown side")

	// ErrMissingScorer is returned when a home goal is recorded without
	// a scorer name.
	ErrMissingScorer = errors.New("scorer name is required")

	// ErrEmptyTeamName is returned when a rename would blank a team
	// identity.
	ErrEmptyTeamName = errors.New("team name must not be empty")

	// ErrResetNotConfirmed is returned when a reset is requested without
	// explicit confirmation.
	ErrResetNotConfirmed = errors.New("reset requires confirmation")
)
