package playback

import (
	"log/slog"
	"math"
	"time"

	"github.com/ShivangiShukla-1213/ReelEditor/media"
)

// VideoState is the binder's position in its lifecycle state machine.
type VideoState int

const (
	// StateIdle means no active video element; the surface shows a placeholder.
	StateIdle VideoState = iota
	// StateBound means a source is assigned but transport has not started.
	StateBound
	// StatePlaying means the physical player is advancing.
	StatePlaying
	// StatePaused means the player holds its position.
	StatePaused
	// StateEnded means the media played through; only an explicit play
	// request (implicit restart) or a scrub away from the end leaves it.
	StateEnded
)

func (s VideoState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBound:
		return "bound"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	}
	return "unknown"
}

// VideoBinder reconciles the single selected video element against one
// physical player: binding and releasing sources, pushing clock time into
// the player when it drifts, feeding the player's natural time reports
// back into the clock, and resolving crop geometry for the displayed frame.
//
// All methods run on the engine's reaction goroutine; the binder itself
// holds no lock.
type VideoBinder struct {
	log     *slog.Logger
	clock   ClockControl
	factory Factory
	now     func() time.Time

	element   *media.Element
	player    Player
	state     VideoState
	buffering bool

	lastPlaying bool

	// Feedback suppression after a forced time-write. The epoch increments
	// on every write so an event raced against an older window can never
	// observe a stale deadline as fresh.
	suppressEpoch uint64
	suppressUntil time.Time
}

// NewVideoBinder creates an idle binder. If log is nil, slog.Default() is used.
func NewVideoBinder(clock ClockControl, factory Factory, log *slog.Logger) *VideoBinder {
	if log == nil {
		log = slog.Default()
	}
	return &VideoBinder{
		log:     log.With("component", "video-binder"),
		clock:   clock,
		factory: factory,
		now:     time.Now,
	}
}

// State returns the binder's current lifecycle state.
func (b *VideoBinder) State() VideoState { return b.state }

// Buffering reports whether the frame is hidden behind a loading indicator.
func (b *VideoBinder) Buffering() bool { return b.buffering }

// Element returns the currently bound element, or nil.
func (b *VideoBinder) Element() *media.Element { return b.element }

// Reconcile aligns the binder with the selected element and clock state.
// el is the Active-Element Selector's video pick (possibly nil).
func (b *VideoBinder) Reconcile(el *media.Element, cs media.ClockState) {
	b.rebind(el, cs)

	playEdge := cs.Playing && !b.lastPlaying
	b.lastPlaying = cs.Playing

	if b.element == nil {
		return
	}

	// A play request while ended, or at (or past) the end of the timeline,
	// is an implicit restart: rewind the clock before resuming, suppressing
	// the resulting time report. The near-end case is gated on the play
	// edge so a scrub to the end during playback ends instead of looping.
	nearEnd := cs.Duration > 0 && cs.CurrentTime >= cs.Duration-EndGuard
	if cs.Playing && (b.state == StateEnded || (playEdge && nearEnd)) {
		b.log.Debug("implicit restart", "element", b.element.ID)
		b.forceSeek(0)
		b.clock.Restart()
		cs.CurrentTime = 0
		b.state = StateBound
	}

	// A scrub away from the end releases the terminal state.
	if b.state == StateEnded && cs.CurrentTime < cs.Duration-EndGuard {
		b.state = StateBound
	}

	if b.player == nil {
		// Binding failed earlier; retry only on an explicit play request.
		if playEdge {
			b.bindPlayer(cs)
		}
		if b.player == nil {
			return
		}
	}

	if b.state != StateEnded {
		local := math.Max(0, cs.CurrentTime-b.element.Start)
		if math.Abs(b.player.Position()-local) > DriftTolerance {
			b.forceSeek(local)
		}
	}

	switch {
	case cs.Playing && b.state != StatePlaying && b.state != StateEnded:
		if err := b.player.Play(); err != nil {
			b.log.Warn("video start blocked", "element", b.element.ID, "error", err)
			b.state = StatePaused
		} else {
			b.state = StatePlaying
		}
	case !cs.Playing && b.state == StatePlaying:
		b.player.Pause()
		b.state = StatePaused
	}
}

// rebind swaps the physical player when the selected element changes.
func (b *VideoBinder) rebind(el *media.Element, cs media.ClockState) {
	switch {
	case el == nil && b.element == nil:
		return
	case el != nil && b.element != nil && el.ID == b.element.ID:
		b.element = el // pick up content edits (e.g. crop) in place
		return
	}

	if b.player != nil {
		b.player.Pause()
		b.player.Close()
		b.player = nil
	}
	b.element = el
	b.buffering = false
	if el == nil {
		b.state = StateIdle
		return
	}
	b.bindPlayer(cs)
}

func (b *VideoBinder) bindPlayer(cs media.ClockState) {
	p, err := b.factory(b.element.Content.Src)
	if err != nil {
		b.log.Warn("video bind failed", "element", b.element.ID, "src", b.element.Content.Src, "error", err)
		b.state = StateIdle
		return
	}
	b.player = p
	b.state = StateBound
	local := math.Max(0, cs.CurrentTime-b.element.Start)
	b.forceSeek(local)
	b.log.Debug("video bound", "element", b.element.ID, "local", local)
}

// HandleEvent consumes a transport event from the physical player.
func (b *VideoBinder) HandleEvent(ev TransportEvent) {
	switch ev.Kind {
	case EventWaiting:
		b.buffering = true
	case EventPlaying:
		b.buffering = false
	case EventEnded:
		if b.state == StateEnded {
			return
		}
		b.state = StateEnded
		b.log.Debug("video ended")
		b.clock.Pause()
	case EventTimeUpdate:
		if b.suppressed() || b.state != StatePlaying || b.element == nil {
			return
		}
		b.clock.SetTime(b.element.Start + ev.Time)
	}
}

// Geometry resolves the bound element's crop into display geometry:
// cover-style over the crop sub-region when a rectangle is set, contain
// (full source, letterboxed) otherwise.
func (b *VideoBinder) Geometry() media.FrameGeometry {
	if b.element == nil || b.element.Content.Crop == nil {
		return media.ContainGeometry()
	}
	return media.CoverGeometry(*b.element.Content.Crop)
}

// Close releases the physical player and returns the binder to idle.
func (b *VideoBinder) Close() {
	if b.player != nil {
		b.player.Pause()
		b.player.Close()
		b.player = nil
	}
	b.element = nil
	b.state = StateIdle
	b.buffering = false
}

func (b *VideoBinder) forceSeek(local float64) {
	b.suppressEpoch++
	b.suppressUntil = b.now().Add(SuppressWindow)
	if b.player != nil {
		b.player.Seek(local)
	}
}

func (b *VideoBinder) suppressed() bool {
	return b.now().Before(b.suppressUntil)
}
