package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const helpMarkdown = `# Distance Picker

Pick a distance by sliding the ruler under the head.

## Pointer

* **Drag** the ruler to pan it
* **Release** while moving to fling it, it slows down and settles
* **Wheel** moves one increment

## Keys

| Key | Action |
|-----|--------|
| ← → | one increment smaller or larger |
| [ ] | previous or next mark |
| H L | fling towards smaller or larger distances |
| g G | first mark, ∞ |
| u | switch metric and imperial |
| / | jump to a mark by name |
| y | copy the selected distance |
| ? | toggle this help |
| q | quit |

The last mark, **∞**, means no limit.
`

// HelpOverlayModel shows keyboard shortcuts help
type HelpOverlayModel struct {
	visible  bool
	width    int
	height   int
	theme    Theme
	rendered string
	renderW  int
}

// NewHelpOverlayModel creates a new help overlay
func NewHelpOverlayModel(theme Theme) HelpOverlayModel {
	return HelpOverlayModel{
		theme: theme,
	}
}

// Show makes the help overlay visible
func (m *HelpOverlayModel) Show() {
	m.visible = true
}

// Hide makes the help overlay invisible
func (m *HelpOverlayModel) Hide() {
	m.visible = false
}

// Toggle toggles visibility
func (m *HelpOverlayModel) Toggle() {
	m.visible = !m.visible
}

// IsVisible returns true if overlay is showing
func (m HelpOverlayModel) IsVisible() bool {
	return m.visible
}

// SetSize sets dimensions
func (m *HelpOverlayModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles input
func (m HelpOverlayModel) Update(msg tea.Msg) (HelpOverlayModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg.(type) {
	case tea.KeyMsg:
		// Any key closes help
		m.visible = false
	}

	return m, nil
}

func (m *HelpOverlayModel) markdown(wrap int) string {
	if m.rendered != "" && m.renderW == wrap {
		return m.rendered
	}
	style := m.theme.GlamourStyle
	if style == "" {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	out := helpMarkdown
	if err == nil {
		if s, err := r.Render(helpMarkdown); err == nil {
			out = s
		}
	}
	m.rendered = strings.TrimRight(out, "\n")
	m.renderW = wrap
	return m.rendered
}

// View renders the help overlay
func (m *HelpOverlayModel) View() string {
	if !m.visible {
		return ""
	}

	wrap := 60
	if m.width > 0 && m.width-8 < wrap {
		wrap = m.width - 8
	}
	if wrap < 20 {
		wrap = 20
	}

	var b strings.Builder
	b.WriteString(m.markdown(wrap))
	b.WriteString("\n\n")
	hintStyle := m.theme.Renderer.NewStyle().Faint(true).Italic(true)
	b.WriteString(hintStyle.Render("[Press any key to close]"))

	// Wrap in box
	boxStyle := m.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(0, 1)

	return boxStyle.Render(b.String())
}
