package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme carries the renderer and colors the views draw with.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor // head, selected label
	Secondary lipgloss.AdaptiveColor
	Base      lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Mark      lipgloss.AdaptiveColor // mark ticks
	Increment lipgloss.AdaptiveColor // increment ticks
	Unbounded lipgloss.AdaptiveColor // the ∞ mark
	Error     lipgloss.AdaptiveColor

	// GlamourStyle names the glamour style of the help overlay.
	GlamourStyle string
}

// DefaultTheme builds the theme for renderer.
func DefaultTheme(renderer *lipgloss.Renderer) Theme {
	glamourStyle := "light"
	if renderer.HasDarkBackground() {
		glamourStyle = "dark"
	}
	return Theme{
		Renderer:     renderer,
		Primary:      lipgloss.AdaptiveColor{Light: "#007AFF", Dark: string(ColorPrimary)},
		Secondary:    lipgloss.AdaptiveColor{Light: "#5A5A5A", Dark: string(ColorSecondary)},
		Base:         lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: string(ColorText)},
		Subtext:      lipgloss.AdaptiveColor{Light: "#7F7F7F", Dark: string(ColorSubtext)},
		Border:       lipgloss.AdaptiveColor{Light: "#D3D3D3", Dark: string(ColorBgHighlight)},
		Mark:         lipgloss.AdaptiveColor{Light: "#A0A0A0", Dark: string(ColorMuted)},
		Increment:    lipgloss.AdaptiveColor{Light: "#D3D3D3", Dark: string(ColorBgHighlight)},
		Unbounded:    lipgloss.AdaptiveColor{Light: "#B86E00", Dark: string(ColorWarning)},
		Error:        lipgloss.AdaptiveColor{Light: "#C00000", Dark: string(ColorDanger)},
		GlamourStyle: glamourStyle,
	}
}
