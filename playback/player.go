// Package playback implements the synchronization engine that keeps one
// video player and a pool of audio players locked to the authoritative
// timeline clock: active-set reconciliation, drift correction with
// feedback suppression, transport control, and crop-geometry application.
package playback

import (
	"errors"
	"time"
)

// Thresholds governing time reconciliation. Corrections are gated so that
// natural frame-to-frame advance never triggers a seek while real
// discontinuities (scrubs, rewinds) always do.
const (
	// TickSignificance separates a user scrub from natural play-advance:
	// clock deltas at or below it are treated as playback progressing.
	TickSignificance = 0.1
	// DriftTolerance is the maximum allowed divergence between a physical
	// player's position and the clock before a corrective seek.
	DriftTolerance = 0.2
	// EndGuard treats clock positions within this distance of the duration
	// as end-of-media for restart purposes.
	EndGuard = 0.1
	// SuppressWindow silences a player's own time reports after a forced
	// time-write, breaking the report -> correction -> report loop.
	SuppressWindow = 50 * time.Millisecond
)

// ErrPlayerClosed is returned by Player implementations once released.
var ErrPlayerClosed = errors.New("playback: player closed")

// Player is the minimal surface of a physical media player. Implementations
// wrap a real backend (see beepdev) or a synthetic one in tests. Position
// and Seek are in seconds of local media time, independent of the timeline.
//
// Play may fail, e.g. when the backend's output policy blocks an unattended
// start; such a failure leaves the player loaded but silent and is never
// retried automatically.
type Player interface {
	Play() error
	Pause()
	Seek(seconds float64)
	Position() float64
	SetVolume(v float64) // linear gain, 0..1
	SetMuted(muted bool)
	Close()
}

// Factory constructs a Player bound to an opaque source URL. The engine
// calls it once per session; a construction error fails only that session.
type Factory func(src string) (Player, error)

// EventKind enumerates the transport events a physical player reports back
// into the engine.
type EventKind int

const (
	// EventWaiting signals the player stalled to buffer.
	EventWaiting EventKind = iota
	// EventPlaying signals buffering resolved and playback (re)started.
	EventPlaying
	// EventEnded signals the media played through to its end.
	EventEnded
	// EventTimeUpdate reports the player's natural playback position.
	EventTimeUpdate
)

// TransportEvent is an inbound message from a physical player, consumed by
// the video binder's state machine. Time carries the player position for
// EventTimeUpdate and is ignored otherwise.
type TransportEvent struct {
	Kind EventKind
	Time float64
}

// ClockControl is the subset of the timeline clock the engine drives.
// Reads go through Snapshot; writes only through these entry points, which
// keeps the clock the sole mutable state shared across the subsystem.
type ClockControl interface {
	Play()
	Pause()
	Seek(t float64)
	Restart()
	SetTime(t float64)
}
