package models

// Side identifies which of the two tracked teams an event belongs to.
// It is stamped on an event at creation time and never re-derived from
// name comparison, so renaming a team mid-match cannot reclassify
// previously recorded goals.
type Side string

const (
	SideHome Side = "HOME"
	SideAway Side = "AWAY"
)

// Valid reports whether s is one of the two known sides.
func (s Side) Valid() bool {
	return s == SideHome || s == SideAway
}

// Default team identities for a fresh session.
const (
	DefaultHomeTeamName = "Our Team"
	DefaultAwayTeamName = "Opposition Team"
)

// TeamNames holds the mutable display names of both sides.
type TeamNames struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// DefaultTeamNames returns the team identities of a fresh session.
func DefaultTeamNames() TeamNames {
	return TeamNames{
		Home: DefaultHomeTeamName,
		Away: DefaultAwayTeamName,
	}
}

// Scoreboard holds per-side goal tallies. The counters are persisted
// independently from the event log for fast redraw, so loaded values may
// drift from the event count if storage was mutated externally.
type Scoreboard struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Total returns the combined goal count of both sides.
func (s Scoreboard) Total() int {
	return s.Home + s.Away
}

// Snapshot is a read-only copy of the full session state handed to
// renderers, the summary generator and the WebSocket gateway. Events are
// ordered for display (raw time ascending, insertion order on ties).
type Snapshot struct {
	ElapsedSeconds int        `json:"elapsed_seconds"`
	Running        bool       `json:"running"`
	Events         []Event    `json:"events"`
	TeamNames      TeamNames  `json:"team_names"`
	Scoreboard     Scoreboard `json:"scoreboard"`
}
