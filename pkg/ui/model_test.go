package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/distance_picker/pkg/picker"
	"github.com/Dicklesworthstone/distance_picker/pkg/units"
)

// keyMsg creates a tea.KeyMsg for testing
func keyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type testHost struct {
	model   *Model
	clock   *testClock
	settled []Settlement
	failing error
}

func newTestHost(t *testing.T) *testHost {
	t.Helper()
	p, err := picker.New(picker.DefaultConfig(true))
	if err != nil {
		t.Fatalf("picker.New: %v", err)
	}
	h := &testHost{clock: &testClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}}
	h.model = NewModel(p, testTheme(), Options{
		Now: h.clock.Now,
		OnSettle: func(s Settlement) error {
			h.settled = append(h.settled, s)
			return h.failing
		},
	})
	h.send(tea.WindowSizeMsg{Width: 80, Height: 24})
	return h
}

func (h *testHost) send(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.model, cmd = h.model.Update(msg)
	return cmd
}

func (h *testHost) label() string {
	return h.model.Picker().SelectedLabel()
}

// runFrames delivers frames until the fling settles.
func (h *testHost) runFrames(t *testing.T) int {
	t.Helper()
	p := h.model.Picker()
	frames := 0
	for p.Decelerating() {
		h.send(frameMsg{generation: p.Generation()})
		frames++
		if frames > 10000 {
			t.Fatal("fling never settled")
		}
	}
	return frames
}

func TestWindowSizeResizesPicker(t *testing.T) {
	h := newTestHost(t)
	if got := h.model.Picker().Width(); got != 80*DefaultScale {
		t.Errorf("picker width = %v, want %v", got, 80*DefaultScale)
	}
	if h.label() != "100 m" {
		t.Errorf("initial label = %q, want 100 m", h.label())
	}

	h.send(keyMsg("]"))
	h.send(tea.WindowSizeMsg{Width: 120, Height: 30})
	if h.label() != "200 m" {
		t.Errorf("resize changed the selection to %q", h.label())
	}
}

func TestArrowKeysNudgeByIncrement(t *testing.T) {
	h := newTestHost(t)

	h.send(tea.KeyMsg{Type: tea.KeyRight})
	if h.label() != "120 m" {
		t.Errorf("after right = %q, want 120 m", h.label())
	}
	h.send(tea.KeyMsg{Type: tea.KeyLeft})
	h.send(tea.KeyMsg{Type: tea.KeyLeft})
	if h.label() != "100 m" {
		t.Errorf("left past the first mark should clamp, got %q", h.label())
	}
}

func TestBracketsStepMarks(t *testing.T) {
	h := newTestHost(t)

	h.send(keyMsg("]"))
	h.send(keyMsg("]"))
	if h.label() != "300 m" {
		t.Errorf("after ]] = %q, want 300 m", h.label())
	}
	h.send(keyMsg("["))
	if h.label() != "200 m" {
		t.Errorf("after [ = %q, want 200 m", h.label())
	}

	// Between two marks, [ lands on the lower one.
	h.send(keyMsg("l"))
	if h.label() != "220 m" {
		t.Fatalf("after l = %q, want 220 m", h.label())
	}
	h.send(keyMsg("["))
	if h.label() != "200 m" {
		t.Errorf("[ between marks = %q, want 200 m", h.label())
	}
}

func TestFirstAndLastMark(t *testing.T) {
	h := newTestHost(t)

	h.send(keyMsg("G"))
	if h.label() != "∞" || !h.model.Picker().IsUnbounded() {
		t.Errorf("G should select ∞, got %q", h.label())
	}
	h.send(keyMsg("g"))
	if h.label() != "100 m" {
		t.Errorf("g should select the first mark, got %q", h.label())
	}
}

func TestUnitToggleRelabels(t *testing.T) {
	h := newTestHost(t)

	h.send(keyMsg("u"))
	if h.label() != "0.1 mi" {
		t.Errorf("imperial label = %q, want 0.1 mi", h.label())
	}
	if status, isErr := h.model.Status(); isErr || !strings.Contains(status, "imperial") {
		t.Errorf("status = %q (error %v)", status, isErr)
	}
	if !strings.Contains(h.model.View(), "imperial") {
		t.Error("header should show the unit system")
	}
}

func TestUnitToggleNotifiesHost(t *testing.T) {
	h := newTestHost(t)
	var toggles []bool
	h.model.onUnits = func(useMetric bool) { toggles = append(toggles, useMetric) }

	h.send(keyMsg("u"))
	h.send(keyMsg("u"))
	if len(toggles) != 2 || toggles[0] || !toggles[1] {
		t.Errorf("toggles = %v, want [false true]", toggles)
	}
	h.send(keyMsg("right"))
	if len(toggles) != 2 {
		t.Error("only the unit key should report a toggle")
	}
}

func TestJumpOverlaySelectsMark(t *testing.T) {
	h := newTestHost(t)

	h.send(keyMsg("/"))
	if !h.model.showJump {
		t.Fatal("/ should open the jump overlay")
	}
	if !strings.Contains(h.model.View(), "Jump to Mark") {
		t.Error("overlay should be rendered")
	}
	for _, r := range "20km" {
		h.send(keyMsg(string(r)))
	}
	h.send(tea.KeyMsg{Type: tea.KeyEnter})

	if h.model.showJump {
		t.Error("enter should close the overlay")
	}
	if h.label() != "20 km" {
		t.Errorf("label = %q, want 20 km", h.label())
	}
	if len(h.settled) != 0 {
		t.Error("jumping should not record a settlement")
	}
}

func TestJumpOverlayEscKeepsSelection(t *testing.T) {
	h := newTestHost(t)

	h.send(keyMsg("/"))
	h.send(keyMsg("5"))
	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	if h.model.showJump {
		t.Error("esc should close the overlay")
	}
	if h.label() != "100 m" {
		t.Errorf("esc changed the selection to %q", h.label())
	}
}

func TestMouseDragPansAndSettles(t *testing.T) {
	h := newTestHost(t)

	h.send(tea.MouseMsg{X: 40, Y: rulerTop, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	h.clock.Advance(10 * time.Millisecond)
	h.send(tea.MouseMsg{X: 30, Y: rulerTop, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	if h.label() != "200 m" {
		t.Fatalf("dragging ten columns left = %q, want 200 m", h.label())
	}

	// A pause before release leaves no velocity.
	h.clock.Advance(200 * time.Millisecond)
	cmd := h.send(tea.MouseMsg{X: 30, Y: rulerTop, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	if cmd == nil {
		t.Fatal("release should schedule a frame")
	}
	h.runFrames(t)

	if len(h.settled) != 1 {
		t.Fatalf("expected 1 settlement, got %d", len(h.settled))
	}
	s := h.settled[0]
	if s.Source != SourceMouse || s.Label != "200 m" || s.MarkIndex != 1 || !s.Metric {
		t.Errorf("settlement = %+v", s)
	}
}

func TestMousePressOutsideRulerIgnored(t *testing.T) {
	h := newTestHost(t)

	h.send(tea.MouseMsg{X: 40, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	h.send(tea.MouseMsg{X: 20, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	if h.label() != "100 m" {
		t.Errorf("drag outside the ruler moved it to %q", h.label())
	}
	if cmd := h.send(tea.MouseMsg{X: 20, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease}); cmd != nil {
		t.Error("release without press should not schedule frames")
	}
}

func TestMouseWheelNudges(t *testing.T) {
	h := newTestHost(t)

	h.send(tea.MouseMsg{X: 10, Y: 10, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if h.label() != "120 m" {
		t.Errorf("wheel down = %q, want 120 m", h.label())
	}
	h.send(tea.MouseMsg{X: 10, Y: 10, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if h.label() != "100 m" {
		t.Errorf("wheel up = %q, want 100 m", h.label())
	}
}

func TestKeyboardFlingSettlesOnce(t *testing.T) {
	h := newTestHost(t)

	cmd := h.send(keyMsg("L"))
	if cmd == nil {
		t.Fatal("fling should schedule a frame")
	}
	if frames := h.runFrames(t); frames < 2 {
		t.Errorf("fling settled after %d frames", frames)
	}

	if len(h.settled) != 1 {
		t.Fatalf("expected 1 settlement, got %d", len(h.settled))
	}
	if h.settled[0].Source != SourceKeyboard {
		t.Errorf("source = %q, want keyboard", h.settled[0].Source)
	}
	if h.label() == "100 m" {
		t.Error("fling towards larger values did not move the ruler")
	}
	if h.model.Settlements() != 1 {
		t.Errorf("Settlements = %d, want 1", h.model.Settlements())
	}
}

func TestJumpDuringFlingSticks(t *testing.T) {
	h := newTestHost(t)
	p := h.model.Picker()

	h.send(keyMsg("L"))
	flingGen := p.Generation()
	h.send(frameMsg{generation: flingGen})
	h.send(keyMsg("g"))

	if p.Decelerating() {
		t.Fatal("jumping should stop the fling")
	}
	if cmd := h.send(frameMsg{generation: flingGen}); cmd != nil {
		t.Error("the stopped fling should not schedule frames")
	}
	if h.label() != "100 m" {
		t.Errorf("label = %q, want 100 m after jumping to the first mark", h.label())
	}
	if len(h.settled) != 0 {
		t.Errorf("a stopped fling settled: %v", h.settled)
	}
}

func TestStaleFrameIsDropped(t *testing.T) {
	h := newTestHost(t)
	p := h.model.Picker()

	h.send(keyMsg("L"))
	stale := p.Generation()
	h.send(keyMsg("L"))
	offset := p.Offset()

	if cmd := h.send(frameMsg{generation: stale}); cmd != nil {
		t.Error("stale frame should not schedule another")
	}
	if p.Offset() != offset {
		t.Error("stale frame moved the ruler")
	}
}

func TestHelpOverlayDetachesPicker(t *testing.T) {
	h := newTestHost(t)

	h.send(keyMsg("L"))
	h.send(keyMsg("?"))
	if h.model.Picker().Attached() {
		t.Error("help should detach the picker")
	}
	if !strings.Contains(h.model.View(), "Press any key to close") {
		t.Error("help overlay should render")
	}

	// A fling settling under the overlay stays silent.
	h.runFrames(t)
	if len(h.settled) != 0 {
		t.Errorf("settled under help: %v", h.settled)
	}

	h.send(keyMsg("x"))
	if h.model.helpOverlay.IsVisible() || !h.model.Picker().Attached() {
		t.Error("any key should close help and reattach")
	}
}

func TestCopySelection(t *testing.T) {
	h := newTestHost(t)
	var copied string
	orig := clipboardWrite
	defer func() { clipboardWrite = orig }()

	clipboardWrite = func(s string) error {
		copied = s
		return nil
	}
	h.send(keyMsg("y"))
	if copied != "100 m" {
		t.Errorf("copied %q, want 100 m", copied)
	}

	clipboardWrite = func(string) error { return errors.New("no clipboard") }
	h.send(keyMsg("y"))
	if status, isErr := h.model.Status(); !isErr || !strings.Contains(status, "no clipboard") {
		t.Errorf("status = %q (error %v)", status, isErr)
	}
}

func TestCommitRecordsSelection(t *testing.T) {
	h := newTestHost(t)

	h.send(keyMsg("G"))
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	if len(h.settled) != 1 {
		t.Fatalf("expected 1 settlement, got %d", len(h.settled))
	}
	s := h.settled[0]
	if s.Source != SourceCommit || !s.Unbounded || s.Value != units.Infinite {
		t.Errorf("settlement = %+v", s)
	}
}

func TestSettleErrorShowsInStatus(t *testing.T) {
	h := newTestHost(t)
	h.failing = errors.New("disk full")

	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	status, isErr := h.model.Status()
	if !isErr || !strings.Contains(status, "disk full") {
		t.Errorf("status = %q (error %v)", status, isErr)
	}
}

func TestConfigReloaded(t *testing.T) {
	h := newTestHost(t)

	h.send(ConfigReloadedMsg{Config: picker.Config{
		Marks:             []float64{1000, 2000, units.Infinite},
		UseMetricSystem:   false,
		MarkSpacing:       50,
		IncrementsPerMark: 5,
	}})
	if h.label() != "1 km" {
		t.Errorf("label after reload = %q, want 1 km (units kept)", h.label())
	}
	if status, isErr := h.model.Status(); isErr || status != "Config reloaded" {
		t.Errorf("status = %q (error %v)", status, isErr)
	}

	h.send(ConfigReloadedMsg{Config: picker.Config{Marks: []float64{1}, MarkSpacing: 50, IncrementsPerMark: 5}})
	if _, isErr := h.model.Status(); !isErr {
		t.Error("invalid config should report an error")
	}
	if h.model.Picker().Table().Len() != 3 {
		t.Error("invalid config should leave the picker unchanged")
	}

	h.send(ConfigReloadedMsg{Err: errors.New("bad yaml")})
	if status, _ := h.model.Status(); !strings.Contains(status, "bad yaml") {
		t.Errorf("status = %q", status)
	}
}

func TestViewShowsSelection(t *testing.T) {
	h := newTestHost(t)
	view := h.model.View()
	for _, want := range []string{"Distance Picker", "metric", "100 m", GlyphHead} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestQuit(t *testing.T) {
	h := newTestHost(t)
	if cmd := h.send(keyMsg("q")); cmd == nil {
		t.Fatal("q should quit")
	}
	if h.model.View() != "" {
		t.Error("view should be empty after quit")
	}
}

func TestProgramWrapsModel(t *testing.T) {
	h := newTestHost(t)
	prog := NewProgram(h.model)
	next, _ := prog.Update(keyMsg("]"))
	if next.(*Program).Model().Picker().SelectedLabel() != "200 m" {
		t.Error("program should forward messages to the model")
	}
}
