package timeline

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ShivangiShukla-1213/ReelEditor/media"
)

// Document is the serialized form of a timeline as produced by the editor's
// document layer. Duration may be omitted, in which case it is derived from
// the latest element end time.
type Document struct {
	Duration float64         `yaml:"duration,omitempty"`
	Elements []media.Element `yaml:"elements"`
}

// LoadDocument reads and validates a YAML timeline document. Elements
// without an id are assigned one; crop rectangles are clamped into the
// valid percent space rather than rejected.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timeline document: %w", err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse timeline document: %w", err)
	}
	if err := doc.normalize(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) normalize() error {
	for i := range d.Elements {
		el := &d.Elements[i]
		if el.ID == "" {
			el.ID = uuid.New().String()
		}
		switch el.Type {
		case media.TypeVideo, media.TypeAudio, media.TypeImage, media.TypeText:
		default:
			return fmt.Errorf("element %s: unknown type %q", el.ID, el.Type)
		}
		if el.Start >= el.End {
			return fmt.Errorf("element %s: start %.3f must precede end %.3f", el.ID, el.Start, el.End)
		}
		if el.Type != media.TypeText && el.Content.Src == "" {
			return fmt.Errorf("element %s: %s element requires a src", el.ID, el.Type)
		}
		if el.Content.Crop != nil {
			clamped := el.Content.Crop.Clamped()
			el.Content.Crop = &clamped
		}
		if el.End > d.Duration {
			d.Duration = el.End
		}
	}
	return nil
}
