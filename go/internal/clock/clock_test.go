package clock

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentElapsedWhilePausedIsFrozen(t *testing.T) {
	fake := clockwork.NewFakeClock()
	c := New(fake, 0, nil)

	assert.Equal(t, 0, c.CurrentElapsed())
	fake.Advance(10 * time.Second)
	assert.Equal(t, 0, c.CurrentElapsed(), "paused clock must not advance")
}

func TestStartAdvancesWithWallClock(t *testing.T) {
	fake := clockwork.NewFakeClock()
	c := New(fake, 0, nil)

	c.Start()
	fake.Advance(5 * time.Second)
	assert.Equal(t, 5, c.CurrentElapsed())

	// Sub-second progress truncates toward zero.
	fake.Advance(900 * time.Millisecond)
	assert.Equal(t, 5, c.CurrentElapsed())
	fake.Advance(100 * time.Millisecond)
	assert.Equal(t, 6, c.CurrentElapsed())
	c.Pause()
}

func TestPausePreservesElapsed(t *testing.T) {
	fake := clockwork.NewFakeClock()
	c := New(fake, 0, nil)

	c.Start()
	fake.Advance(42 * time.Second)
	before := c.CurrentElapsed()
	c.Pause()
	assert.Equal(t, before, c.CurrentElapsed(), "pause transition must not lose or gain time")

	fake.Advance(time.Hour)
	assert.Equal(t, before, c.CurrentElapsed())
}

func TestResumePreservesPriorElapsed(t *testing.T) {
	fake := clockwork.NewFakeClock()
	c := New(fake, 0, nil)

	c.Start()
	fake.Advance(30 * time.Second)
	c.Pause()

	fake.Advance(10 * time.Minute) // break between halves
	c.Start()
	fake.Advance(15 * time.Second)
	assert.Equal(t, 45, c.CurrentElapsed())
	c.Pause()
}

func TestStartIsIdempotent(t *testing.T) {
	fake := clockwork.NewFakeClock()
	c := New(fake, 0, nil)

	c.Start()
	fake.Advance(20 * time.Second)
	c.Start() // must not re-anchor
	assert.Equal(t, 20, c.CurrentElapsed())
	c.Pause()
}

func TestPauseIsIdempotent(t *testing.T) {
	fake := clockwork.NewFakeClock()
	c := New(fake, 0, nil)

	c.Start()
	fake.Advance(7 * time.Second)
	c.Pause()
	c.Pause()
	assert.Equal(t, 7, c.CurrentElapsed())
	assert.False(t, c.Running())
}

func TestAnchorPresenceMatchesRunning(t *testing.T) {
	fake := clockwork.NewFakeClock()
	c := New(fake, 0, nil)

	_, ok := c.Anchor()
	assert.False(t, ok)

	fake.Advance(3 * time.Second)
	c.SetElapsed(12)
	c.Start()
	anchor, ok := c.Anchor()
	require.True(t, ok)
	assert.Equal(t, fake.Now().Add(-12*time.Second), anchor, "anchor is backdated by the frozen elapsed time")

	c.Pause()
	_, ok = c.Anchor()
	assert.False(t, ok)
}

func TestSetElapsedIgnoredWhileRunning(t *testing.T) {
	fake := clockwork.NewFakeClock()
	c := New(fake, 0, nil)

	c.Start()
	fake.Advance(9 * time.Second)
	c.SetElapsed(1000)
	assert.Equal(t, 9, c.CurrentElapsed())
	c.Pause()

	c.SetElapsed(-5)
	assert.Equal(t, 0, c.CurrentElapsed(), "negative elapsed clamps to zero")
}

func TestRefreshCallbackFiresWhileRunning(t *testing.T) {
	// Real clock with a tight interval: the callback is a freshness
	// mechanism, so all we assert is that it fires at all and stops
	// after pause.
	ticks := make(chan int, 64)
	c := New(clockwork.NewRealClock(), time.Millisecond, func(elapsed int) {
		select {
		case ticks <- elapsed:
		default:
		}
	})

	c.Start()
	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh callback never fired")
	}
	c.Pause()
}
