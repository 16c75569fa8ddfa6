// Command reeledit plays a timeline document headlessly: it loads the
// elements, drives the authoritative clock from a wall-clock ticker, and
// lets the engine reconcile audio sessions (through the beep speaker) and
// the video binder state against it.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/ShivangiShukla-1213/ReelEditor/playback"
	"github.com/ShivangiShukla-1213/ReelEditor/playback/beepdev"
	"github.com/ShivangiShukla-1213/ReelEditor/timeline"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file, using process environment")
	}

	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	docPath := envOr("TIMELINE", "timeline.yaml")
	tickMs, err := strconv.Atoi(envOr("TICK_MS", "100"))
	if err != nil || tickMs <= 0 {
		slog.Error("invalid TICK_MS", "value", envOr("TICK_MS", "100"))
		os.Exit(1)
	}

	doc, err := timeline.LoadDocument(docPath)
	if err != nil {
		slog.Error("failed to load timeline", "path", docPath, "error", err)
		os.Exit(1)
	}
	slog.Info("reeledit starting",
		"version", version,
		"timeline", docPath,
		"elements", len(doc.Elements),
		"duration", doc.Duration,
	)

	factory := playback.Factory(beepdev.Open)
	if envOr("AUDIO_BACKEND", "beep") == "none" {
		factory = nullFactory
	}

	clock := timeline.NewClock(doc.Duration, nil)
	eng := playback.NewEngine(clock, factory, nil)
	defer eng.Close()

	clock.Subscribe(eng.OnClockChange)
	eng.SetElements(doc.Elements, clock.Snapshot())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return run(ctx, clock, eng, time.Duration(tickMs)*time.Millisecond)
	})

	if err := g.Wait(); err != nil {
		slog.Error("playback error", "error", err)
		os.Exit(1)
	}
}

// run advances the clock in real time while the transport plays. The engine
// never self-ticks; this loop stands in for the parent editor's frame
// callbacks, with the same pause-at-end behavior a video backend's ended
// event would produce.
func run(ctx context.Context, clock *timeline.Clock, eng *playback.Engine, tick time.Duration) error {
	clock.Play()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now

			cs := clock.Snapshot()
			if !cs.Playing {
				continue
			}
			t := cs.CurrentTime + dt
			if t >= cs.Duration {
				clock.SetTime(cs.Duration)
				clock.Pause()
				slog.Info("timeline finished", "duration", cs.Duration)
				return nil
			}
			clock.SetTime(t)

			surface := eng.Surface()
			slog.Debug("tick",
				"time", fmt.Sprintf("%.2f", t),
				"video", surface.VideoState.String(),
				"audioSessions", len(surface.Audio),
				"overlays", len(surface.Overlays),
			)
		}
	}
}

// nullFactory satisfies playback.Factory when no audio output is wanted.
func nullFactory(string) (playback.Player, error) {
	return nullPlayer{}, nil
}

type nullPlayer struct{}

func (nullPlayer) Play() error       { return nil }
func (nullPlayer) Pause()            {}
func (nullPlayer) Seek(float64)      {}
func (nullPlayer) Position() float64 { return 0 }
func (nullPlayer) SetVolume(float64) {}
func (nullPlayer) SetMuted(bool)     {}
func (nullPlayer) Close()            {}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
