// Package timeline owns the authoritative playback clock and the
// active-element selection that every engine reconciliation pass starts
// from, plus the serialized document form of a timeline.
package timeline

import (
	"log/slog"
	"sync"

	"github.com/ShivangiShukla-1213/ReelEditor/media"
)

// Listener receives a clock snapshot after every effective state change.
// Listeners run on the mutating goroutine, outside the clock's lock, so
// they may call back into the clock's entry points.
type Listener func(media.ClockState)

// Clock is the single source of truth for playback time and transport
// state. It is owned by the parent document component; the engine reads
// snapshots and issues corrections through SetTime, never mutating state
// directly. Mutations that change nothing notify nobody, which keeps
// reaction chains (listener -> engine -> clock) from looping.
type Clock struct {
	log *slog.Logger

	mu        sync.Mutex
	current   float64
	duration  float64
	playing   bool
	listeners []Listener
}

// NewClock creates a paused clock at time zero. If log is nil,
// slog.Default() is used.
func NewClock(duration float64, log *slog.Logger) *Clock {
	if log == nil {
		log = slog.Default()
	}
	return &Clock{
		log:      log.With("component", "clock"),
		duration: duration,
	}
}

// Subscribe registers a listener for clock-state changes.
func (c *Clock) Subscribe(fn Listener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Snapshot returns the current clock state.
func (c *Clock) Snapshot() media.ClockState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Clock) snapshotLocked() media.ClockState {
	return media.ClockState{CurrentTime: c.current, Duration: c.duration, Playing: c.playing}
}

// Play starts the transport. No-op if already playing.
func (c *Clock) Play() {
	c.mu.Lock()
	if c.playing {
		c.mu.Unlock()
		return
	}
	c.playing = true
	c.log.Debug("transport play", "time", c.current)
	c.notifyLocked()
}

// Pause stops the transport. No-op if already paused.
func (c *Clock) Pause() {
	c.mu.Lock()
	if !c.playing {
		c.mu.Unlock()
		return
	}
	c.playing = false
	c.log.Debug("transport pause", "time", c.current)
	c.notifyLocked()
}

// Seek moves the clock to t, clamped to [0, duration]. A user scrub and an
// engine correction are indistinguishable here; consumers distinguish them
// by tick magnitude.
func (c *Clock) Seek(t float64) {
	c.setTime(t)
}

// SetTime is the designated correction entry point used by the engine to
// feed observed playback time back into the clock.
func (c *Clock) SetTime(t float64) {
	c.setTime(t)
}

func (c *Clock) setTime(t float64) {
	c.mu.Lock()
	if t < 0 {
		t = 0
	}
	if t > c.duration {
		t = c.duration
	}
	if t == c.current {
		c.mu.Unlock()
		return
	}
	c.current = t
	c.notifyLocked()
}

// Restart rewinds the clock to zero without touching the transport state.
func (c *Clock) Restart() {
	c.mu.Lock()
	if c.current == 0 {
		c.mu.Unlock()
		return
	}
	c.current = 0
	c.log.Debug("restart")
	c.notifyLocked()
}

// SetDuration updates the total timeline duration, clamping the current
// time into the new range. Called by the document layer when the element
// list changes.
func (c *Clock) SetDuration(d float64) {
	if d < 0 {
		d = 0
	}
	c.mu.Lock()
	if d == c.duration {
		c.mu.Unlock()
		return
	}
	c.duration = d
	if c.current > d {
		c.current = d
	}
	c.notifyLocked()
}

// notifyLocked snapshots state and releases the lock before invoking
// listeners, so a listener can re-enter the clock.
func (c *Clock) notifyLocked() {
	state := c.snapshotLocked()
	listeners := make([]Listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(state)
	}
}
