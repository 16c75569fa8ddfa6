package timeline

import "github.com/ShivangiShukla-1213/ReelEditor/media"

// ActiveSet is the result of selecting elements against a clock time:
// the single video element to bind (or nil), every audio element whose
// window contains the time, and the image/text elements the outer layer
// should overlay. All slices preserve document order.
type ActiveSet struct {
	Video    *media.Element
	Audios   []*media.Element
	Overlays []*media.Element
}

// Select computes the active set at time t. It is a pure function of its
// inputs and is recomputed on every clock tick and element-list mutation.
//
// At most one video element is returned; when several video windows contain
// t, the first in document order wins. This tie-break is deliberate and
// relied upon by the binder: reordering elements during playback can change
// which clip is displayed.
func Select(elements []media.Element, t float64) ActiveSet {
	var set ActiveSet
	for i := range elements {
		el := &elements[i]
		if !el.ActiveAt(t) {
			continue
		}
		switch el.Type {
		case media.TypeVideo:
			if set.Video == nil {
				set.Video = el
			}
		case media.TypeAudio:
			set.Audios = append(set.Audios, el)
		case media.TypeImage, media.TypeText:
			set.Overlays = append(set.Overlays, el)
		}
	}
	return set
}
