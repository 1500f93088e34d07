package store

// Fixed keys for the persisted session fields. Values are JSON encoded.
const (
	keyRunning      = "session:is_running"
	keyClockAnchor  = "session:clock_anchor_ms"
	keyElapsed      = "session:elapsed_sec"
	keyEvents       = "session:events"
	keyHomeScore    = "session:score_home"
	keyAwayScore    = "session:score_away"
	keyHomeTeamName = "session:team_home"
	keyAwayTeamName = "session:team_away"
)

// sessionKeys lists every key erased by a session reset.
var sessionKeys = []string{
	keyRunning,
	keyClockAnchor,
	keyElapsed,
	keyEvents,
	keyHomeScore,
	keyAwayScore,
	keyHomeTeamName,
	keyAwayTeamName,
}
