package export

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

// WriteSVG draws r as an SVG document of the ruler's width and height.
func WriteSVG(w io.Writer, r Ruler, height int) error {
	if height <= 0 {
		height = DefaultHeight
	}
	width := int(math.Round(r.Snapshot.Width))
	if width <= 0 {
		return fmt.Errorf("cannot draw a ruler %d px wide", width)
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	if r.Title != "" {
		canvas.Title(r.Title)
	}
	canvas.Rect(0, 0, width, height, "fill:"+backgroundColor)

	labelStyle := fmt.Sprintf("text-anchor:middle;font-family:Avenir,Helvetica,sans-serif;font-size:%dpx;fill:%s", labelFontSize, labelColor)
	chosenStyle := fmt.Sprintf("text-anchor:middle;font-family:Avenir,Helvetica,sans-serif;font-size:%dpx;font-weight:bold;fill:%s", labelFontSize, tintColor)

	for _, t := range r.ticks() {
		x := int(math.Round(t.x))
		stroke := "stroke:" + incrementColor
		if t.mark {
			stroke = "stroke:" + markColor
		}
		canvas.Line(x, topMargin, x, topMargin+int(t.length), stroke)
		if !t.mark {
			continue
		}
		style := labelStyle
		if t.chosen {
			style = chosenStyle
		}
		canvas.Text(x, topMargin+labelBaseline, t.label, style)
	}

	head := int(math.Round(r.head()))
	canvas.Line(head, topMargin, head, topMargin+headLength, "stroke:"+tintColor+";stroke-width:2")
	if r.Value != "" {
		canvas.Text(head, valueBaseline, r.Value, chosenStyle)
	}
	canvas.End()
	return nil
}
