package timeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ShivangiShukla-1213/ReelEditor/media"
)

func writeDoc(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timeline.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDocument(t *testing.T) {
	t.Parallel()
	path := writeDoc(t, `
duration: 15
elements:
  - id: v1
    type: video
    start: 0
    end: 10
    content:
      src: intro.mp4
      crop: {x: 10, y: 0, width: 120, height: 50}
  - type: audio
    start: 2
    end: 8
    content:
      src: bed.mp3
      volume: 0.4
      muted: true
  - type: text
    start: 0
    end: 5
    content:
      text: hello
`)

	doc, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if doc.Duration != 15 {
		t.Errorf("duration: got %v, want 15", doc.Duration)
	}
	if len(doc.Elements) != 3 {
		t.Fatalf("elements: got %d, want 3", len(doc.Elements))
	}

	v := doc.Elements[0]
	if v.ID != "v1" || v.Type != media.TypeVideo {
		t.Errorf("first element: %+v", v)
	}
	// Overflowing crop is clamped at load, never propagated.
	if v.Content.Crop.Width != 90 {
		t.Errorf("clamped crop width: got %v, want 90", v.Content.Crop.Width)
	}

	a := doc.Elements[1]
	if a.ID == "" {
		t.Error("missing id should be generated")
	}
	if a.Content.Volume == nil || *a.Content.Volume != 0.4 {
		t.Error("clip volume not preserved")
	}
	if !a.Content.Muted {
		t.Error("clip mute not preserved")
	}
}

func TestLoadDocumentDerivesDuration(t *testing.T) {
	t.Parallel()
	path := writeDoc(t, `
elements:
  - type: audio
    start: 0
    end: 42.5
    content: {src: song.mp3}
`)

	doc, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if doc.Duration != 42.5 {
		t.Errorf("derived duration: got %v, want 42.5", doc.Duration)
	}
}

func TestLoadDocumentRejectsInvalid(t *testing.T) {
	t.Parallel()
	for name, body := range map[string]string{
		"unknown type": `
elements:
  - {type: hologram, start: 0, end: 1, content: {src: x}}
`,
		"inverted window": `
elements:
  - {type: video, start: 5, end: 2, content: {src: x.mp4}}
`,
		"missing src": `
elements:
  - {type: video, start: 0, end: 2, content: {}}
`,
	} {
		path := writeDoc(t, body)
		if _, err := LoadDocument(path); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestLoadDocumentMissingFile(t *testing.T) {
	t.Parallel()
	if _, err := LoadDocument(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
