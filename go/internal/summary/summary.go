// Package summary derives the shareable match report from a session
// snapshot. It is query-only: nothing here mutates session state, so a
// report can be requested at any time, including mid-match.
//
// Leaderboard ties are broken by name ascending. The original widget
// left tie order to map iteration, which is unstable; the secondary sort
// makes reports deterministic.
package summary

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Twenty2Eleven78/matchtrack/go/internal/models"
)

// ErrNothingToShare is returned when a report is requested for a session
// with no recorded events. Callers surface it as a distinct "nothing to
// share" condition instead of sending a degenerate report.
var ErrNothingToShare = errors.New("no goals recorded yet")

const topN = 3

// BuildReport renders the chronological log, totals and leaderboards as
// a single text blob. Escaping for transport (URL embedding) is the
// caller's concern.
func BuildReport(snap models.Snapshot) (string, error) {
	if len(snap.Events) == 0 {
		return "", ErrNothingToShare
	}

	events := make([]models.Event, len(snap.Events))
	copy(events, snap.Events)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].RawTime < events[j].RawTime
	})

	var b strings.Builder
	fmt.Fprintf(&b, "⚽ Match Summary (Time: %s)\n", FormatTime(snap.ElapsedSeconds))
	fmt.Fprintf(&b, "%s vs %s\n\n", snap.TeamNames.Home, snap.TeamNames.Away)

	for _, event := range events {
		if event.Side == models.SideAway {
			// Away goals carry the away team name captured at record
			// time, so a mid-match rename shows the old name on old
			// entries and the new name on later ones.
			fmt.Fprintf(&b, "❌ %d' - %s Goal\n", event.DisplayMinute, event.ScorerName)
			continue
		}
		if event.AssistName != "" {
			fmt.Fprintf(&b, "🥅 %d' - Goal: %s, Assist: %s\n", event.DisplayMinute, event.ScorerName, event.AssistName)
		} else {
			fmt.Fprintf(&b, "🥅 %d' - Goal: %s\n", event.DisplayMinute, event.ScorerName)
		}
	}

	b.WriteString("\n📊 Stats:\n")
	fmt.Fprintf(&b, "%s Goals: %d\n", snap.TeamNames.Home, snap.Scoreboard.Home)
	fmt.Fprintf(&b, "%s Goals: %d", snap.TeamNames.Away, snap.Scoreboard.Away)

	if scorers := topTally(events, func(e models.Event) string { return e.ScorerName }); scorers != "" {
		fmt.Fprintf(&b, "\nTop Scorers: %s", scorers)
	}
	if assists := topTally(events, func(e models.Event) string { return e.AssistName }); assists != "" {
		fmt.Fprintf(&b, "\nTop Assists: %s", assists)
	}

	return b.String(), nil
}

// FormatTime renders elapsed seconds as zero-padded MM:SS. Minutes
// accumulate unbounded; there is no hour rollover.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// topTally counts home-side attributions by the given key and renders
// the top entries, count descending then name ascending.
func topTally(events []models.Event, key func(models.Event) string) string {
	counts := make(map[string]int)
	for _, event := range events {
		if event.Side != models.SideHome {
			continue
		}
		if name := key(event); name != "" {
			counts[name]++
		}
	}
	if len(counts) == 0 {
		return ""
	}

	type tally struct {
		name  string
		count int
	}
	ranked := make([]tally, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, tally{name: name, count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].name < ranked[j].name
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	parts := make([]string, len(ranked))
	for i, t := range ranked {
		parts[i] = fmt.Sprintf("%s: %d", t.name, t.count)
	}
	return strings.Join(parts, ", ")
}
