package playback

import (
	"log/slog"
	"math"

	"github.com/ShivangiShukla-1213/ReelEditor/media"
)

// session is the live binding between one timeline audio element and its
// physical player. Sessions never outlive their element's active window.
type session struct {
	element   *media.Element
	player    Player
	lastLocal float64
	// startBlocked is set when the backend refused to start (output
	// policy, decode error). The session stays silent until the next
	// explicit play request; it is never auto-retried.
	startBlocked bool
}

// SessionInfo is a read-only view of a live audio session, exposed on the
// render surface for inspection and tests.
type SessionInfo struct {
	ElementID    string
	LocalTime    float64
	StartBlocked bool
}

// TrackManager owns one physical audio player per currently active audio
// element, reconciled against the selector's audio set on every reaction.
// Unlike the video binder it manages an arbitrary number of simultaneously
// playing sessions, each with an independent local time.
//
// Within one reconciliation pass, session create/teardown always completes
// before transport and gain are applied to the resulting set.
type TrackManager struct {
	log     *slog.Logger
	factory Factory

	sessions map[string]*session

	lastTick float64
	haveTick bool
	playing  bool

	masterVolume float64 // 0..100
	muted        bool
}

// NewTrackManager creates an empty manager at full master volume.
// If log is nil, slog.Default() is used.
func NewTrackManager(factory Factory, log *slog.Logger) *TrackManager {
	if log == nil {
		log = slog.Default()
	}
	return &TrackManager{
		log:          log.With("component", "track-manager"),
		factory:      factory,
		sessions:     make(map[string]*session),
		masterVolume: 100,
	}
}

// Len returns the number of live sessions.
func (m *TrackManager) Len() int { return len(m.sessions) }

// Sessions returns a snapshot of the live sessions.
func (m *TrackManager) Sessions() []SessionInfo {
	out := make([]SessionInfo, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, SessionInfo{
			ElementID:    s.element.ID,
			LocalTime:    s.lastLocal,
			StartBlocked: s.startBlocked,
		})
	}
	return out
}

// Reconcile aligns the session pool with the active audio set. audios is
// the selector's output for cs.CurrentTime; elements absent from it have
// their sessions torn down, new ones get sessions, and surviving sessions
// are time- and transport-reconciled. A failure in one session never
// affects another.
func (m *TrackManager) Reconcile(audios []*media.Element, cs media.ClockState) {
	active := make(map[string]*media.Element, len(audios))
	for _, el := range audios {
		active[el.ID] = el
	}

	for id, s := range m.sessions {
		if _, ok := active[id]; ok {
			continue
		}
		s.player.Pause()
		s.player.Close()
		delete(m.sessions, id)
		m.log.Debug("audio session removed", "element", id)
	}

	for _, el := range audios {
		if s, ok := m.sessions[el.ID]; ok {
			s.element = el
			continue
		}
		m.create(el, cs)
	}

	// A tick jump beyond significance is a scrub or rewind; natural
	// play-advance stays under it and must not thrash the players.
	scrubbed := m.haveTick && math.Abs(cs.CurrentTime-m.lastTick) > TickSignificance
	if scrubbed {
		for _, s := range m.sessions {
			local := math.Max(0, cs.CurrentTime-s.element.Start)
			if math.Abs(s.player.Position()-local) > DriftTolerance {
				s.player.Seek(local)
			}
			s.lastLocal = local
		}
	}

	switch {
	case cs.Playing && !m.playing:
		m.startAll()
	case !cs.Playing && m.playing:
		for _, s := range m.sessions {
			s.player.Pause()
		}
	}

	m.lastTick = cs.CurrentTime
	m.haveTick = true
	m.playing = cs.Playing
}

// create builds the physical player for a newly active element, seeks it to
// its local offset, applies gain, and starts it if the transport is rolling.
func (m *TrackManager) create(el *media.Element, cs media.ClockState) {
	p, err := m.factory(el.Content.Src)
	if err != nil {
		m.log.Warn("audio session create failed", "element", el.ID, "src", el.Content.Src, "error", err)
		return
	}
	s := &session{element: el, player: p}
	s.lastLocal = math.Max(0, cs.CurrentTime-el.Start)
	p.Seek(s.lastLocal)

	if el.Content.Volume != nil {
		p.SetVolume(*el.Content.Volume)
	} else {
		p.SetVolume(m.masterVolume / 100)
	}
	p.SetMuted(m.muted || el.Content.Muted)

	if cs.Playing {
		if err := p.Play(); err != nil {
			m.log.Warn("audio start blocked", "element", el.ID, "error", err)
			s.startBlocked = true
		}
	}
	m.sessions[el.ID] = s
	m.log.Debug("audio session created", "element", el.ID, "local", s.lastLocal)
}

// startAll handles a pause-to-play transport edge. This is the only point
// where previously blocked sessions are retried, keeping retries tied to
// explicit play requests.
func (m *TrackManager) startAll() {
	for _, s := range m.sessions {
		if err := s.player.Play(); err != nil {
			m.log.Warn("audio start blocked", "element", s.element.ID, "error", err)
			s.startBlocked = true
		} else {
			s.startBlocked = false
		}
	}
}

// SetMasterVolume sets the engine volume (0..100) and applies the
// resulting effective gain to every live session.
func (m *TrackManager) SetMasterVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	m.masterVolume = v
	m.applyGain()
}

// SetMuted sets the engine mute flag and applies it to every live session.
func (m *TrackManager) SetMuted(muted bool) {
	m.muted = muted
	m.applyGain()
}

// applyGain pushes effective volume and mute into all sessions:
// (clip volume, default 1.0) scaled by master volume, muted when either
// the engine or the clip is muted.
func (m *TrackManager) applyGain() {
	for _, s := range m.sessions {
		clip := 1.0
		if s.element.Content.Volume != nil {
			clip = *s.element.Content.Volume
		}
		s.player.SetVolume(clip * m.masterVolume / 100)
		s.player.SetMuted(m.muted || s.element.Content.Muted)
	}
}

// Close stops and releases every live session unconditionally.
func (m *TrackManager) Close() {
	for id, s := range m.sessions {
		s.player.Pause()
		s.player.Close()
		delete(m.sessions, id)
	}
}
