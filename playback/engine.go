package playback

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ShivangiShukla-1213/ReelEditor/crop"
	"github.com/ShivangiShukla-1213/ReelEditor/media"
	"github.com/ShivangiShukla-1213/ReelEditor/timeline"
)

// ErrCropUnsupported is returned when a crop is applied to an element type
// that cannot carry one. Surfaced to the user; state is left unchanged.
var ErrCropUnsupported = errors.New("playback: crop applies only to video and image elements")

// CropApplyFunc is invoked when the engine commits a crop rectangle to an
// element. It is the only path by which the engine mutates element data;
// the parent document layer owns the actual write.
type CropApplyFunc func(elementID string, rect media.CropRect)

// RenderState is a snapshot of the composed surface: what the outer layer
// should draw and which audio sessions are live.
type RenderState struct {
	// HasVideo is false when no video element is active at the current
	// time; the surface then shows a "nothing at this time" placeholder.
	HasVideo    bool
	Placeholder bool
	Buffering   bool
	Geometry    media.FrameGeometry
	VideoState  VideoState
	Overlays    []media.Element
	Audio       []SessionInfo
}

// Engine is the playback synchronization core. It reacts to clock-state
// changes and element-list mutations by recomputing the active set and
// reconciling the video binder and the audio session pool against it, and
// consumes transport events from the physical video player.
//
// Reactions are serialized and re-entrant: a clock write issued inside a
// reconciliation pass (an end-of-media pause, a restart correction) queues
// a follow-up pass instead of recursing, so each pass sees one consistent
// clock snapshot and passes settle because clock no-ops notify nobody.
type Engine struct {
	log   *slog.Logger
	clock ClockControl

	video *VideoBinder
	audio *TrackManager

	mu          sync.Mutex
	elements    []media.Element
	active      timeline.ActiveSet
	reconciling bool
	pending     *media.ClockState

	onCropApply CropApplyFunc
}

// NewEngine wires a binder and track manager to the clock. The factory
// constructs physical players for both video and audio sources. If log is
// nil, slog.Default() is used.
func NewEngine(clock ClockControl, factory Factory, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "engine")
	return &Engine{
		log:   log,
		clock: clock,
		video: NewVideoBinder(clock, factory, log),
		audio: NewTrackManager(factory, log),
	}
}

// SetCropApply registers the element-mutation callback used by ApplyCrop.
func (e *Engine) SetCropApply(fn CropApplyFunc) {
	e.mu.Lock()
	e.onCropApply = fn
	e.mu.Unlock()
}

// SetElements replaces the engine's read-only view of the timeline and
// reconciles against it at the given clock state.
func (e *Engine) SetElements(elements []media.Element, cs media.ClockState) {
	e.mu.Lock()
	e.elements = make([]media.Element, len(elements))
	copy(e.elements, elements)
	e.mu.Unlock()
	e.OnClockChange(cs)
}

// OnClockChange is the engine's reaction entry point, subscribed to the
// timeline clock. Nested invocations (clock writes from inside a pass)
// coalesce into one follow-up pass with the latest state.
func (e *Engine) OnClockChange(cs media.ClockState) {
	e.mu.Lock()
	if e.reconciling {
		e.pending = &cs
		e.mu.Unlock()
		return
	}
	e.reconciling = true
	e.mu.Unlock()

	for {
		e.reconcile(cs)
		e.mu.Lock()
		if e.pending == nil {
			e.reconciling = false
			e.mu.Unlock()
			return
		}
		cs = *e.pending
		e.pending = nil
		e.mu.Unlock()
	}
}

// reconcile runs one full pass: selection, then audio pool (create/destroy
// before transport, see TrackManager), then the video binder.
func (e *Engine) reconcile(cs media.ClockState) {
	e.mu.Lock()
	elements := e.elements
	e.mu.Unlock()

	set := timeline.Select(elements, cs.CurrentTime)

	e.audio.Reconcile(set.Audios, cs)
	e.video.Reconcile(set.Video, cs)

	e.mu.Lock()
	e.active = set
	e.mu.Unlock()
}

// HandleVideoEvent feeds a physical video player's transport event into
// the binder's state machine.
func (e *Engine) HandleVideoEvent(ev TransportEvent) {
	e.video.HandleEvent(ev)
}

// SetMasterVolume forwards the engine volume (0..100) to all audio sessions.
func (e *Engine) SetMasterVolume(v float64) { e.audio.SetMasterVolume(v) }

// SetMuted forwards the engine mute flag to all audio sessions.
func (e *Engine) SetMuted(muted bool) { e.audio.SetMuted(muted) }

// ApplyCrop validates and commits a crop rectangle to an element via the
// registered callback. Out-of-bounds values are clamped silently; applying
// to a non-visual element is rejected with ErrCropUnsupported and leaves
// all state untouched.
func (e *Engine) ApplyCrop(elementID string, rect media.CropRect) error {
	e.mu.Lock()
	var target *media.Element
	for i := range e.elements {
		if e.elements[i].ID == elementID {
			target = &e.elements[i]
			break
		}
	}
	if target == nil {
		e.mu.Unlock()
		return fmt.Errorf("playback: unknown element %q", elementID)
	}
	if target.Type != media.TypeVideo && target.Type != media.TypeImage {
		e.mu.Unlock()
		return fmt.Errorf("%w: element %q is %s", ErrCropUnsupported, elementID, target.Type)
	}
	clamped := rect.Clamped()
	target.Content.Crop = &clamped
	fn := e.onCropApply
	e.mu.Unlock()

	e.log.Debug("crop applied", "element", elementID,
		"x", clamped.X, "y", clamped.Y, "w", clamped.Width, "h", clamped.Height)
	if fn != nil {
		fn(elementID, clamped)
	}
	return nil
}

// ResolveCropEdit runs one crop-widget edit through the geometry resolver
// against the element's current rectangle without committing it. The
// zero-value rectangle of an uncropped element resolves from the full
// working range.
func (e *Engine) ResolveCropEdit(elementID string, field crop.Field, value float64, ratio *float64) (media.CropRect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.elements {
		el := &e.elements[i]
		if el.ID != elementID {
			continue
		}
		if el.Type != media.TypeVideo && el.Type != media.TypeImage {
			return media.CropRect{}, fmt.Errorf("%w: element %q is %s", ErrCropUnsupported, elementID, el.Type)
		}
		current := media.CropRect{Width: 100, Height: 100}
		if el.Content.Crop != nil {
			current = *el.Content.Crop
		}
		return crop.Resolve(current, field, value, ratio), nil
	}
	return media.CropRect{}, fmt.Errorf("playback: unknown element %q", elementID)
}

// Surface returns the current render state.
func (e *Engine) Surface() RenderState {
	e.mu.Lock()
	defer e.mu.Unlock()

	state := RenderState{
		HasVideo:   e.active.Video != nil,
		VideoState: e.video.State(),
		Buffering:  e.video.Buffering(),
		Geometry:   e.video.Geometry(),
		Audio:      e.audio.Sessions(),
	}
	state.Placeholder = !state.HasVideo
	for _, el := range e.active.Overlays {
		state.Overlays = append(state.Overlays, *el)
	}
	return state
}

// Close releases the video player and every audio session. Called when the
// parent surface unmounts.
func (e *Engine) Close() {
	e.video.Close()
	e.audio.Close()
	e.log.Debug("engine closed")
}
