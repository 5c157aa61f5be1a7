package ui

import (
	"strings"
	"testing"
)

func TestHelpOverlayToggle(t *testing.T) {
	m := NewHelpOverlayModel(testTheme())
	if m.IsVisible() {
		t.Fatal("help should start hidden")
	}
	if m.View() != "" {
		t.Error("hidden help should render nothing")
	}

	m.Toggle()
	if !m.IsVisible() {
		t.Fatal("Toggle should show help")
	}
	m, _ = m.Update(keyMsg("q"))
	if m.IsVisible() {
		t.Error("any key should close help")
	}
}

func TestHelpOverlayRendersMarkdown(t *testing.T) {
	theme := testTheme()
	theme.GlamourStyle = "notty"
	m := NewHelpOverlayModel(theme)
	m.SetSize(80, 40)
	m.Show()

	view := m.View()
	for _, want := range []string{"Distance Picker", "Pick a distance", "Press any key to close"} {
		if !strings.Contains(view, want) {
			t.Errorf("help view missing %q", want)
		}
	}
	// Rendering is cached per wrap width.
	if m.View() != view {
		t.Error("second render should match the first")
	}
}
