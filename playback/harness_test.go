package playback

import (
	"errors"
	"fmt"
	"time"

	"github.com/ShivangiShukla-1213/ReelEditor/media"
)

// fakePlayer is a synthetic physical player that records transport calls,
// letting tests assert on churn without a real media backend.
type fakePlayer struct {
	src     string
	pos     float64
	playing bool
	muted   bool
	volume  float64
	closed  bool

	failPlay bool

	playCalls  int
	pauseCalls int
	seekCalls  int
}

func (p *fakePlayer) Play() error {
	p.playCalls++
	if p.failPlay {
		return errors.New("start blocked")
	}
	p.playing = true
	return nil
}

func (p *fakePlayer) Pause() {
	p.pauseCalls++
	p.playing = false
}

func (p *fakePlayer) Seek(seconds float64) {
	p.seekCalls++
	p.pos = seconds
}

func (p *fakePlayer) Position() float64 { return p.pos }

func (p *fakePlayer) SetVolume(v float64) { p.volume = v }

func (p *fakePlayer) SetMuted(m bool) { p.muted = m }

func (p *fakePlayer) Close() { p.closed = true }

// fakeFactory hands out fakePlayers keyed by source, optionally failing
// construction or start for specific sources.
type fakeFactory struct {
	created    map[string]*fakePlayer
	failCreate map[string]bool
	failPlay   map[string]bool
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		created:    make(map[string]*fakePlayer),
		failCreate: make(map[string]bool),
		failPlay:   make(map[string]bool),
	}
}

func (f *fakeFactory) open(src string) (Player, error) {
	if f.failCreate[src] {
		return nil, fmt.Errorf("cannot open %s", src)
	}
	p := &fakePlayer{src: src, volume: 1, failPlay: f.failPlay[src]}
	f.created[src] = p
	return p, nil
}

// fakeClock records the engine's clock requests without notifying anyone.
type fakeClock struct {
	pauseCalls   int
	playCalls    int
	restartCalls int
	setTimes     []float64
	seeks        []float64
}

func (c *fakeClock) Play() { c.playCalls++ }

func (c *fakeClock) Pause() { c.pauseCalls++ }

func (c *fakeClock) Seek(t float64) { c.seeks = append(c.seeks, t) }

func (c *fakeClock) Restart() { c.restartCalls++ }

func (c *fakeClock) SetTime(t float64) { c.setTimes = append(c.setTimes, t) }

func videoElement(id string, start, end float64) media.Element {
	return media.Element{
		ID:    id,
		Type:  media.TypeVideo,
		Start: start,
		End:   end,
		Content: media.Content{
			Src: "vid-" + id + ".mp4",
		},
	}
}

func audioElement(id string, start, end float64) media.Element {
	return media.Element{
		ID:    id,
		Type:  media.TypeAudio,
		Start: start,
		End:   end,
		Content: media.Content{
			Src: "aud-" + id + ".mp3",
		},
	}
}

func playingAt(t, duration float64) media.ClockState {
	return media.ClockState{CurrentTime: t, Duration: duration, Playing: true}
}

func pausedAt(t, duration float64) media.ClockState {
	return media.ClockState{CurrentTime: t, Duration: duration, Playing: false}
}

// frozenNow pins a binder's clock so suppression windows can be stepped
// deterministically.
type frozenNow struct {
	t time.Time
}

func (f *frozenNow) now() time.Time          { return f.t }
func (f *frozenNow) advance(d time.Duration) { f.t = f.t.Add(d) }
