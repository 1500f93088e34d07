// Package clock implements the match stopwatch. Elapsed time is always
// recomputed from a wall-clock anchor rather than accumulated tick by
// tick, so the reading stays correct even when the host throttles or
// suspends the periodic refresh.
package clock

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// DefaultRefreshInterval is how often the refresh callback fires while
// the clock runs. It only affects display/persistence freshness; elapsed
// time does not depend on it.
const DefaultRefreshInterval = 100 * time.Millisecond

// Clock tracks elapsed match time. When running, the authoritative state
// is the anchor: the wall-clock instant corresponding to zero elapsed
// seconds. When paused, the authoritative state is the frozen elapsed
// value. Exactly one of the two holds at any time.
//
// Known limitation: system time moving backward is not corrected; a
// negative recomputation clamps to zero.
type Clock struct {
	mu      sync.Mutex
	clk     clockwork.Clock
	elapsed int
	running bool
	anchor  time.Time

	refreshInterval time.Duration
	onRefresh       func(elapsedSeconds int)
	stopRefresh     chan struct{}
}

// New creates a paused clock at zero elapsed seconds. onRefresh may be
// nil; when set it is invoked roughly every refreshInterval while the
// clock runs, outside the clock's lock.
func New(clk clockwork.Clock, refreshInterval time.Duration, onRefresh func(elapsedSeconds int)) *Clock {
	if refreshInterval <= 0 {
		refreshInterval = DefaultRefreshInterval
	}
	return &Clock{
		clk:             clk,
		refreshInterval: refreshInterval,
		onRefresh:       onRefresh,
	}
}

// CurrentElapsed returns the elapsed match time in whole seconds,
// truncated toward zero and never negative. When paused it returns the
// frozen value without side effects.
func (c *Clock) CurrentElapsed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentElapsedLocked()
}

func (c *Clock) currentElapsedLocked() int {
	if !c.running {
		return c.elapsed
	}
	elapsed := int(c.clk.Now().Sub(c.anchor) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed
}

// Running reports whether the clock is ticking.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Anchor returns the wall-clock instant corresponding to zero elapsed
// seconds. The second return is false while paused.
func (c *Clock) Anchor() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return time.Time{}, false
	}
	return c.anchor, true
}

// Start begins ticking, preserving any previously frozen elapsed time by
// backdating the anchor. No-op if already running.
func (c *Clock) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.anchor = c.clk.Now().Add(-time.Duration(c.elapsed) * time.Second)
	c.running = true
	c.stopRefresh = make(chan struct{})
	stop := c.stopRefresh
	elapsed := c.elapsed
	c.mu.Unlock()

	go c.refreshLoop(stop)

	log.Debug().Int("elapsed_sec", elapsed).Msg("clock started")
}

// Pause freezes the elapsed reading, clears the anchor and cancels the
// refresh loop. No-op if not running.
func (c *Clock) Pause() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.elapsed = c.currentElapsedLocked()
	c.running = false
	c.anchor = time.Time{}
	close(c.stopRefresh)
	c.stopRefresh = nil
	elapsed := c.elapsed
	c.mu.Unlock()

	log.Debug().Int("elapsed_sec", elapsed).Msg("clock paused")
}

// SetElapsed overwrites the frozen elapsed value. It is a no-op while
// running; callers pause first. Used by the startup reconciler and by a
// session reset.
func (c *Clock) SetElapsed(seconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	if seconds < 0 {
		seconds = 0
	}
	c.elapsed = seconds
}

// refreshLoop drives the periodic display/persistence refresh until the
// owning Start's stop channel closes.
func (c *Clock) refreshLoop(stop chan struct{}) {
	ticker := c.clk.NewTicker(c.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			if c.onRefresh != nil {
				c.onRefresh(c.CurrentElapsed())
			}
		}
	}
}
