package playback

import (
	"math"
	"testing"

	"github.com/ShivangiShukla-1213/ReelEditor/media"
)

func TestTrackManagerOverlappingSessions(t *testing.T) {
	t.Parallel()
	factory := newFakeFactory()
	m := NewTrackManager(factory.open, nil)

	a := audioElement("a1", 0, 5)
	b := audioElement("a2", 3, 8)
	m.Reconcile([]*media.Element{&a, &b}, playingAt(4, 10))

	if m.Len() != 2 {
		t.Fatalf("live sessions: got %d, want 2", m.Len())
	}
	pa := factory.created[a.Content.Src]
	pb := factory.created[b.Content.Src]
	if math.Abs(pa.pos-4) > 1e-9 {
		t.Errorf("session a local time: got %.2f, want 4.00", pa.pos)
	}
	if math.Abs(pb.pos-1) > 1e-9 {
		t.Errorf("session b local time: got %.2f, want 1.00", pb.pos)
	}
	if !pa.playing || !pb.playing {
		t.Error("both sessions should start while the transport is playing")
	}
}

func TestTrackManagerReconcileIdempotent(t *testing.T) {
	t.Parallel()
	factory := newFakeFactory()
	m := NewTrackManager(factory.open, nil)

	a := audioElement("a1", 0, 10)
	cs := playingAt(2, 10)
	m.Reconcile([]*media.Element{&a}, cs)

	p := factory.created[a.Content.Src]
	plays, pauses, seeks := p.playCalls, p.pauseCalls, p.seekCalls

	// Unchanged inputs: no session churn, no transport churn.
	m.Reconcile([]*media.Element{&a}, cs)
	if p.playCalls != plays || p.pauseCalls != pauses || p.seekCalls != seeks {
		t.Errorf("reconcile churned: plays %d->%d pauses %d->%d seeks %d->%d",
			plays, p.playCalls, pauses, p.pauseCalls, seeks, p.seekCalls)
	}
	if m.Len() != 1 {
		t.Errorf("sessions: got %d, want 1", m.Len())
	}
}

func TestTrackManagerTeardownOutsideWindow(t *testing.T) {
	t.Parallel()
	factory := newFakeFactory()
	m := NewTrackManager(factory.open, nil)

	a := audioElement("a1", 0, 5)
	m.Reconcile([]*media.Element{&a}, playingAt(4, 10))
	p := factory.created[a.Content.Src]

	// Window exited: session is paused and removed.
	m.Reconcile(nil, playingAt(6, 10))
	if m.Len() != 0 {
		t.Fatalf("sessions after exit: got %d, want 0", m.Len())
	}
	if !p.closed {
		t.Error("player was not released on teardown")
	}
	if p.pauseCalls == 0 {
		t.Error("player was not paused before release")
	}
}

func TestTrackManagerScrubForcesSeek(t *testing.T) {
	t.Parallel()
	factory := newFakeFactory()
	m := NewTrackManager(factory.open, nil)

	a := audioElement("a1", 0, 30)
	m.Reconcile([]*media.Element{&a}, playingAt(2, 30))
	p := factory.created[a.Content.Src]
	baseline := p.seekCalls

	// Natural advance (tick delta under significance): never reseeks, even
	// though the player has drifted slightly.
	p.pos = 2.05
	m.Reconcile([]*media.Element{&a}, playingAt(2.08, 30))
	if p.seekCalls != baseline {
		t.Fatalf("natural advance reseeked: %d extra calls", p.seekCalls-baseline)
	}

	// Scrub to 20: the player is far off local time and must be corrected.
	m.Reconcile([]*media.Element{&a}, playingAt(20, 30))
	if p.seekCalls != baseline+1 {
		t.Fatalf("scrub seeks: got %d extra, want 1", p.seekCalls-baseline)
	}
	if math.Abs(p.pos-20) > 1e-9 {
		t.Errorf("position after scrub: got %.2f, want 20.00", p.pos)
	}

	// Scrub where the player already happens to sit within tolerance: no seek.
	p.pos = 5.1
	m.Reconcile([]*media.Element{&a}, playingAt(5, 30))
	if p.seekCalls != baseline+1 {
		t.Errorf("in-tolerance scrub reseeked: %d extra calls", p.seekCalls-baseline-1)
	}
}

func TestTrackManagerStartFailureIsolated(t *testing.T) {
	t.Parallel()
	factory := newFakeFactory()
	a := audioElement("a1", 0, 10)
	b := audioElement("a2", 0, 10)
	factory.failPlay[a.Content.Src] = true
	m := NewTrackManager(factory.open, nil)

	m.Reconcile([]*media.Element{&a, &b}, playingAt(1, 10))

	// The blocked session persists silently; the other plays.
	if m.Len() != 2 {
		t.Fatalf("sessions: got %d, want 2", m.Len())
	}
	if factory.created[b.Content.Src].playing == false {
		t.Error("healthy session should be playing")
	}
	var blocked bool
	for _, info := range m.Sessions() {
		if info.ElementID == "a1" && info.StartBlocked {
			blocked = true
		}
	}
	if !blocked {
		t.Error("failed session should be marked start-blocked")
	}

	// No auto-retry on ordinary ticks.
	pa := factory.created[a.Content.Src]
	calls := pa.playCalls
	m.Reconcile([]*media.Element{&a, &b}, playingAt(1.05, 10))
	if pa.playCalls != calls {
		t.Errorf("blocked session auto-retried: %d extra play calls", pa.playCalls-calls)
	}

	// An explicit pause-then-play retries it.
	factory.failPlay[a.Content.Src] = false
	pa.failPlay = false
	m.Reconcile([]*media.Element{&a, &b}, pausedAt(1.05, 10))
	m.Reconcile([]*media.Element{&a, &b}, playingAt(1.05, 10))
	if !pa.playing {
		t.Error("blocked session should start on the next explicit play request")
	}
}

func TestTrackManagerGain(t *testing.T) {
	t.Parallel()
	factory := newFakeFactory()
	m := NewTrackManager(factory.open, nil)

	half := 0.5
	a := audioElement("a1", 0, 10)
	a.Content.Volume = &half
	b := audioElement("a2", 0, 10)
	b.Content.Muted = true
	m.Reconcile([]*media.Element{&a, &b}, pausedAt(0, 10))

	pa := factory.created[a.Content.Src]
	pb := factory.created[b.Content.Src]
	if math.Abs(pa.volume-0.5) > 1e-9 {
		t.Errorf("clip volume at creation: got %.2f, want 0.50", pa.volume)
	}
	if !pb.muted {
		t.Error("clip-level mute should apply at creation")
	}

	// Master volume scales clip gain; engine mute overrides everything.
	m.SetMasterVolume(50)
	if math.Abs(pa.volume-0.25) > 1e-9 {
		t.Errorf("effective volume: got %.3f, want 0.250", pa.volume)
	}
	m.SetMuted(true)
	if !pa.muted || !pb.muted {
		t.Error("engine mute should silence every session")
	}
	m.SetMuted(false)
	if pa.muted {
		t.Error("unmuting the engine should release sessions without clip mute")
	}
	if !pb.muted {
		t.Error("clip-level mute must survive engine unmute")
	}
}

func TestTrackManagerCreateFailureIsolated(t *testing.T) {
	t.Parallel()
	factory := newFakeFactory()
	a := audioElement("a1", 0, 10)
	b := audioElement("a2", 0, 10)
	factory.failCreate[a.Content.Src] = true
	m := NewTrackManager(factory.open, nil)

	m.Reconcile([]*media.Element{&a, &b}, playingAt(1, 10))
	if m.Len() != 1 {
		t.Fatalf("sessions: got %d, want 1 (healthy element only)", m.Len())
	}
	if factory.created[b.Content.Src] == nil {
		t.Fatal("healthy session should exist despite sibling failure")
	}
}

func TestTrackManagerClose(t *testing.T) {
	t.Parallel()
	factory := newFakeFactory()
	m := NewTrackManager(factory.open, nil)

	a := audioElement("a1", 0, 10)
	b := audioElement("a2", 2, 10)
	m.Reconcile([]*media.Element{&a, &b}, playingAt(3, 10))

	m.Close()
	if m.Len() != 0 {
		t.Fatalf("sessions after close: got %d, want 0", m.Len())
	}
	for src, p := range factory.created {
		if !p.closed {
			t.Errorf("player %s not released", src)
		}
	}
}
