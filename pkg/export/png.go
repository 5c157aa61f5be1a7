package export

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"
)

// WritePNG rasterizes r.
func WritePNG(w io.Writer, r Ruler, height int) error {
	if height <= 0 {
		height = DefaultHeight
	}
	width := int(math.Round(r.Snapshot.Width))
	if width <= 0 {
		return fmt.Errorf("cannot draw a ruler %d px wide", width)
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(hexColor(backgroundColor))
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetLineWidth(1)

	for _, t := range r.ticks() {
		// Half pixel offset keeps one pixel lines crisp.
		x := math.Round(t.x) + 0.5
		if t.mark {
			dc.SetColor(hexColor(markColor))
		} else {
			dc.SetColor(hexColor(incrementColor))
		}
		dc.DrawLine(x, topMargin, x, topMargin+t.length)
		dc.Stroke()
		if !t.mark {
			continue
		}
		if t.chosen {
			dc.SetColor(hexColor(tintColor))
		} else {
			dc.SetColor(hexColor(labelColor))
		}
		dc.DrawStringAnchored(t.label, x, topMargin+labelBaseline, 0.5, 0)
	}

	head := math.Round(r.head()) + 0.5
	dc.SetColor(hexColor(tintColor))
	dc.SetLineWidth(2)
	dc.DrawLine(head, topMargin, head, topMargin+headLength)
	dc.Stroke()
	if r.Value != "" {
		dc.DrawStringAnchored(r.Value, head, valueBaseline, 0.5, 0)
	}

	return dc.EncodePNG(w)
}

// hexColor parses "#rrggbb".
func hexColor(hex string) color.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.Black
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
