// Package export renders a ruler to SVG or PNG files and serves live
// previews of it over HTTP.
package export

import (
	"github.com/Dicklesworthstone/distance_picker/pkg/geometry"
	"github.com/Dicklesworthstone/distance_picker/pkg/picker"
)

// Drawing metrics, in pixels.
const (
	DefaultHeight  = 64
	markTickLength = 7
	incTickLength  = 4
	headLength     = 10
	labelBaseline  = 16 + 11
	valueBaseline  = 52
	labelFontSize  = 13
	topMargin      = 4
)

// Palette of the exported images.
const (
	backgroundColor = "#ffffff"
	markColor       = "#d3d3d3"
	incrementColor  = "#e9e9e9"
	labelColor      = "#7f7f7f"
	tintColor       = "#007aff"
)

// Ruler is everything needed to draw one frame of a picker.
type Ruler struct {
	Snapshot geometry.Snapshot
	Labels   []string
	Selected int    // selected mark index
	Value    string // label of the selected value, increments included
	Title    string
}

// FromPicker captures the current state of p.
func FromPicker(p *picker.Picker, title string) Ruler {
	return Ruler{
		Snapshot: p.Snapshot(),
		Labels:   p.Table().Formatted(),
		Selected: p.SelectedMarkIndex(),
		Value:    p.SelectedLabel(),
		Title:    title,
	}
}

type tick struct {
	x      float64
	length float64
	label  string
	mark   bool
	chosen bool
}

// ticks lists the mark and increment ticks that fall inside the viewport,
// left to right.
func (r Ruler) ticks() []tick {
	s := r.Snapshot
	lo, hi := -s.Spacing, s.Width+s.Spacing

	var out []tick
	for i, label := range r.Labels {
		x := s.MarkPosition(i)
		if x >= lo && x <= hi {
			out = append(out, tick{
				x:      x,
				length: markTickLength,
				label:  label,
				mark:   true,
				chosen: i == r.Selected,
			})
		}
		for _, ix := range s.IncrementPositions(i) {
			if ix >= 0 && ix <= s.Width {
				out = append(out, tick{x: ix, length: incTickLength})
			}
		}
	}
	return out
}

// head is the x of the selection head.
func (r Ruler) head() float64 {
	return r.Snapshot.Width * 0.5
}
