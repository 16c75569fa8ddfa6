// Package beepdev implements playback.Player on the beep speaker, decoding
// local mp3 and wav files. It is a development backend for the headless
// runner; the engine itself never depends on it.
package beepdev

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"

	"github.com/ShivangiShukla-1213/ReelEditor/playback"
)

// mixRate is the speaker's fixed output rate; streams at other rates are
// resampled onto it so any number of sessions share one device.
const mixRate beep.SampleRate = 44100

var (
	initOnce sync.Once
	initErr  error
)

func ensureSpeaker() error {
	initOnce.Do(func() {
		initErr = speaker.Init(mixRate, mixRate.N(100*time.Millisecond))
	})
	return initErr
}

// AudioPlayer is one decoded stream on the shared speaker mixer.
type AudioPlayer struct {
	format beep.Format
	stream beep.StreamSeekCloser
	ctrl   *beep.Ctrl
	volume *effects.Volume

	mu     sync.Mutex
	gain   float64
	muted  bool
	closed bool
}

// Open decodes src and attaches it, paused, to the speaker. It satisfies
// playback.Factory.
func Open(src string) (playback.Player, error) {
	if err := ensureSpeaker(); err != nil {
		return nil, fmt.Errorf("beepdev: speaker init: %w", err)
	}
	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("beepdev: %w", err)
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(src)) {
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("beepdev: unsupported format %q", filepath.Ext(src))
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("beepdev: decode %s: %w", src, err)
	}

	var s beep.Streamer = stream
	if format.SampleRate != mixRate {
		s = beep.Resample(4, format.SampleRate, mixRate, stream)
	}

	p := &AudioPlayer{
		format: format,
		stream: stream,
		gain:   1,
	}
	p.ctrl = &beep.Ctrl{Streamer: s, Paused: true}
	p.volume = &effects.Volume{Streamer: p.ctrl, Base: 2}
	speaker.Play(p.volume)
	return p, nil
}

// Play unpauses the stream.
func (p *AudioPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return playback.ErrPlayerClosed
	}
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// Pause holds the stream at its current position.
func (p *AudioPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
}

// Seek moves the stream to the given local time, clamped to its length.
func (p *AudioPlayer) Seek(seconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	n := p.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	if n < 0 {
		n = 0
	}
	if max := p.stream.Len(); n > max {
		n = max
	}
	speaker.Lock()
	err := p.stream.Seek(n)
	speaker.Unlock()
	if err != nil {
		// A failed seek leaves the stream where it was; the next drift
		// pass will retry.
		return
	}
}

// Position reports the stream's local time in seconds.
func (p *AudioPlayer) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0
	}
	speaker.Lock()
	n := p.stream.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(n).Seconds()
}

// SetVolume sets linear gain in 0..1. Zero gain silences the stream
// outright since a log-scale volume cannot express it.
func (p *AudioPlayer) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.gain = v
	p.apply()
}

// SetMuted silences the stream without touching its gain.
func (p *AudioPlayer) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.muted = muted
	p.apply()
}

func (p *AudioPlayer) apply() {
	speaker.Lock()
	p.volume.Silent = p.muted || p.gain <= 0
	if p.gain > 0 {
		p.volume.Volume = math.Log2(p.gain)
	}
	speaker.Unlock()
}

// Close detaches the stream from the mixer and releases the decoder.
func (p *AudioPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	speaker.Lock()
	p.ctrl.Paused = true
	p.ctrl.Streamer = nil
	speaker.Unlock()
	p.stream.Close()
}
