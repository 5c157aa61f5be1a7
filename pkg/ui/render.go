package ui

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/Dicklesworthstone/distance_picker/pkg/geometry"
)

// RulerRows is the height of the terminal ruler.
const RulerRows = 3

type cellKind int

const (
	cellBlank cellKind = iota
	cellIncrement
	cellMark
	cellHead
	cellLabel
	cellSelectedLabel
	cellUnboundedLabel
)

type cell struct {
	glyph string // "" for the trailing half of a wide rune
	kind  cellKind
}

// rulerCanvas is a fixed grid of cells, one per terminal column.
type rulerCanvas struct {
	rows [RulerRows][]cell
	cols int
}

func newRulerCanvas(cols int) *rulerCanvas {
	c := &rulerCanvas{cols: cols}
	for r := range c.rows {
		c.rows[r] = make([]cell, cols)
		for i := range c.rows[r] {
			c.rows[r][i] = cell{glyph: " "}
		}
	}
	return c
}

func (c *rulerCanvas) set(row, col int, glyph string, kind cellKind) {
	if col < 0 || col >= c.cols {
		return
	}
	c.rows[row][col] = cell{glyph: glyph, kind: kind}
}

// text writes s centered on col, honoring wide runes.
func (c *rulerCanvas) text(row, col int, s string, kind cellKind) {
	start := col - runewidth.StringWidth(s)/2
	x := start
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		c.set(row, x, string(r), kind)
		if w == 2 {
			c.set(row, x+1, "", kind)
		}
		x += w
	}
}

// RulerView renders a geometry snapshot to terminal rows. Geometry units
// map to columns through Scale: a column is Scale units wide.
type RulerView struct {
	Snapshot geometry.Snapshot
	Labels   []string
	Selected int
	Scale    float64
	Theme    Theme
}

// column converts a geometry x to a terminal column.
func (v RulerView) column(x float64) int {
	return int(math.Round(x / v.Scale))
}

// labelWidth is the room a label gets between two marks.
func (v RulerView) labelWidth() int {
	w := int(v.Snapshot.Spacing/v.Scale) - 1
	if w < 1 {
		w = 1
	}
	return w
}

// FitLabel truncates label to width cells.
func FitLabel(label string, width int) string {
	if runewidth.StringWidth(label) <= width {
		return label
	}
	if width <= 1 {
		return truncate.String(label, uint(width))
	}
	return truncate.StringWithTail(label, uint(width), "…")
}

func (v RulerView) canvas() *rulerCanvas {
	s := v.Snapshot
	cols := v.column(s.Width)
	if cols <= 0 || v.Scale <= 0 {
		return nil
	}
	c := newRulerCanvas(cols)
	labelWidth := v.labelWidth()
	last := len(v.Labels) - 1

	for i, label := range v.Labels {
		for _, x := range s.IncrementPositions(i) {
			c.set(0, v.column(x), GlyphIncrement, cellIncrement)
		}
		col := v.column(s.MarkPosition(i))
		if col < -labelWidth || col > cols+labelWidth {
			continue
		}
		c.set(0, col, GlyphMark, cellMark)
		c.set(1, col, GlyphMark, cellMark)
		if i == v.Selected {
			continue
		}
		c.text(2, col, FitLabel(label, labelWidth), cellLabel)
	}

	// The selected label goes last so neighbours never cover it.
	if v.Selected >= 0 && v.Selected <= last {
		kind := cellSelectedLabel
		if v.Selected == last {
			kind = cellUnboundedLabel
		}
		col := v.column(s.MarkPosition(v.Selected))
		c.text(2, col, FitLabel(v.Labels[v.Selected], labelWidth), kind)
	}

	head := v.column(s.Width * 0.5)
	c.set(0, head, GlyphHead, cellHead)
	c.set(1, head, GlyphHead, cellHead)
	return c
}

// View renders the ruler rows joined by newlines.
func (v RulerView) View() string {
	c := v.canvas()
	if c == nil {
		return ""
	}
	t := v.Theme
	styles := map[cellKind]func(...string) string{
		cellIncrement:      t.Renderer.NewStyle().Foreground(t.Increment).Render,
		cellMark:           t.Renderer.NewStyle().Foreground(t.Mark).Render,
		cellHead:           t.Renderer.NewStyle().Foreground(t.Primary).Bold(true).Render,
		cellLabel:          t.Renderer.NewStyle().Foreground(t.Subtext).Render,
		cellSelectedLabel:  t.Renderer.NewStyle().Foreground(t.Primary).Bold(true).Render,
		cellUnboundedLabel: t.Renderer.NewStyle().Foreground(t.Unbounded).Bold(true).Render,
	}

	lines := make([]string, 0, RulerRows)
	for _, row := range c.rows {
		var b strings.Builder
		var run strings.Builder
		kind := cellBlank
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if render, ok := styles[kind]; ok {
				b.WriteString(render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.kind != kind {
				flush()
				kind = cl.kind
			}
			run.WriteString(cl.glyph)
		}
		flush()
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}
