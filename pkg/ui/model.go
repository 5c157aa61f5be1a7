package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/Dicklesworthstone/distance_picker/pkg/deceleration"
	"github.com/Dicklesworthstone/distance_picker/pkg/picker"
)

// DefaultScale is how many geometry units one terminal column spans. With
// the default mark spacing of 50 a mark gets 10 columns.
const DefaultScale = 5.0

// FlingVelocity is the keyboard fling speed in geometry units per second.
const FlingVelocity = 1500.0

// Sources of a settlement.
const (
	SourceMouse    = "mouse"
	SourceKeyboard = "keyboard"
	SourceCommit   = "commit"
)

// rulerTop is the first row of the ruler, from the top of the view.
const rulerTop = 3

// clipboardWrite is swapped out by tests.
var clipboardWrite = clipboard.WriteAll

// Settlement describes a selection the user landed on.
type Settlement struct {
	Label            string
	Value            float64 // raw mark-space value
	Meters           float64
	Unbounded        bool
	MarkIndex        int
	Metric           bool
	NormalizedOffset float64
	Source           string
}

// ConfigReloadedMsg carries a configuration read after a file change. The
// unit system on screen is kept.
type ConfigReloadedMsg struct {
	Config picker.Config
	Err    error
}

// frameMsg is one deceleration frame, tagged with the generation it was
// scheduled under.
type frameMsg struct {
	generation uint64
}

// Options configures a Model.
type Options struct {
	Title    string
	Scale    float64
	FPS      int
	Logger   logrus.FieldLogger
	Now      func() time.Time
	OnSettle func(Settlement) error

	// OnUnitsChanged is called after the user toggles the unit system.
	OnUnitsChanged func(useMetric bool)
}

// Model hosts a picker in a terminal: it owns the frame clock, maps mouse
// columns to geometry units and renders the ruler.
type Model struct {
	picker     *picker.Picker
	recognizer *picker.PanRecognizer

	keys  KeyMap
	help  help.Model
	theme Theme

	title    string
	scale    float64
	fps      int
	logger   logrus.FieldLogger
	now      func() time.Time
	onSettle func(Settlement) error
	onUnits  func(useMetric bool)

	width  int
	height int

	helpOverlay HelpOverlayModel
	jump        JumpModel
	showJump    bool

	status        string
	statusIsError bool
	settlements   int
	quitting      bool
}

// NewModel wraps p. The picker's action is taken over by the model.
func NewModel(p *picker.Picker, theme Theme, opts Options) *Model {
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	if opts.FPS <= 0 {
		opts.FPS = deceleration.DefaultFPS
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Title == "" {
		opts.Title = "Distance Picker"
	}

	m := &Model{
		picker:      p,
		recognizer:  picker.NewPanRecognizer(p),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		theme:       theme,
		title:       opts.Title,
		scale:       opts.Scale,
		fps:         opts.FPS,
		logger:      opts.Logger,
		now:         opts.Now,
		onSettle:    opts.OnSettle,
		onUnits:     opts.OnUnitsChanged,
		helpOverlay: NewHelpOverlayModel(theme),
		jump:        NewJumpModel(p.Table().Formatted(), theme),
	}
	p.SetAction(func(endEvent any) {
		source, _ := endEvent.(string)
		m.settle(source)
	})
	return m
}

// Picker returns the hosted picker.
func (m *Model) Picker() *picker.Picker {
	return m.picker
}

// Status returns the status line text and whether it reports an error.
func (m *Model) Status() (string, bool) {
	return m.status, m.statusIsError
}

// Settlements counts the settlements handed to OnSettle.
func (m *Model) Settlements() int {
	return m.settlements
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// SetSize resizes the view. The picker keeps its selection.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.helpOverlay.SetSize(width, height)
	m.jump.SetSize(width, height)
	if width > 0 {
		m.picker.Resize(float64(width) * m.scale)
	}
}

// Update handles a message.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case frameMsg:
		return m, m.frame(msg)

	case ConfigReloadedMsg:
		m.reload(msg)
		return m, nil
	}

	if m.helpOverlay.IsVisible() {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.helpOverlay, _ = m.helpOverlay.Update(msg)
			m.picker.SetAttached(true)
		}
		return m, nil
	}

	if m.showJump {
		if msg, ok := msg.(tea.KeyMsg); ok {
			m.updateJump(msg.String())
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, m.keys.Smaller):
		m.picker.Nudge(-1)
	case key.Matches(msg, m.keys.Larger):
		m.picker.Nudge(1)
	case key.Matches(msg, m.keys.PrevMark):
		m.picker.JumpToMark(m.stepMark(-1))
	case key.Matches(msg, m.keys.NextMark):
		m.picker.JumpToMark(m.stepMark(1))
	case key.Matches(msg, m.keys.First):
		m.picker.JumpToMark(0)
	case key.Matches(msg, m.keys.Last):
		m.picker.JumpToMark(m.picker.Table().Len() - 1)
	case key.Matches(msg, m.keys.FlingLeft):
		m.picker.Fling(FlingVelocity, SourceKeyboard)
		return m.scheduleFrame()
	case key.Matches(msg, m.keys.FlingRight):
		m.picker.Fling(-FlingVelocity, SourceKeyboard)
		return m.scheduleFrame()
	case key.Matches(msg, m.keys.Units):
		metric := !m.picker.Table().UsesMetric()
		m.picker.SetUsesMetricSystem(metric)
		if m.onUnits != nil {
			m.onUnits(metric)
		}
		m.jump.SetLabels(m.picker.Table().Formatted())
		m.setStatus(fmt.Sprintf("Units: %s", unitName(metric)), false)
	case key.Matches(msg, m.keys.Jump):
		m.jump.Reset()
		m.showJump = true
	case key.Matches(msg, m.keys.Copy):
		m.copySelection()
	case key.Matches(msg, m.keys.Help):
		// No fling settles into an action while help covers the ruler.
		m.picker.SetAttached(false)
		m.helpOverlay.Show()
	case key.Matches(msg, m.keys.Commit):
		m.settle(SourceCommit)
	}
	return nil
}

// stepMark is the mark delta marks away from the selection. Stepping back
// from between two marks lands on the lower one first.
func (m *Model) stepMark(delta int) int {
	snap := m.picker.Snapshot()
	index := snap.SelectedMarkIndex()
	if delta < 0 && snap.SelectedPosition() > float64(index)*snap.Spacing {
		return index
	}
	return index + delta
}

func (m *Model) updateJump(k string) {
	m.jump.Update(k)
	switch {
	case m.jump.IsConfirmed():
		item := m.jump.SelectedItem()
		m.picker.JumpToMark(item.Index)
		m.setStatus("Jumped to "+item.Label, false)
		m.showJump = false
		m.jump.Reset()
	case k == "esc":
		m.showJump = false
		m.jump.Reset()
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	x := float64(msg.X) * m.scale
	t := m.now()

	switch {
	case msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelLeft:
		m.picker.Nudge(-1)
		return nil
	case msg.Button == tea.MouseButtonWheelDown || msg.Button == tea.MouseButtonWheelRight:
		m.picker.Nudge(1)
		return nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.onRuler(msg.Y) {
			return nil
		}
		m.recognizer.Press(x, t)
	case tea.MouseActionMotion:
		m.recognizer.Move(x, t)
	case tea.MouseActionRelease:
		if !m.recognizer.Active() {
			return nil
		}
		m.recognizer.Release(x, t, SourceMouse)
		return m.scheduleFrame()
	}
	return nil
}

func (m *Model) onRuler(y int) bool {
	return y >= rulerTop && y < rulerTop+RulerRows
}

// scheduleFrame asks for the next frame of the current fling, if any.
func (m *Model) scheduleFrame() tea.Cmd {
	if !m.picker.Decelerating() {
		return nil
	}
	generation := m.picker.Generation()
	return tea.Tick(deceleration.FrameInterval(m.fps), func(time.Time) tea.Msg {
		return frameMsg{generation: generation}
	})
}

func (m *Model) frame(msg frameMsg) tea.Cmd {
	if !m.picker.TickGeneration(msg.generation, deceleration.FrameDelta(m.fps)) {
		return nil
	}
	return m.scheduleFrame()
}

func (m *Model) settle(source string) {
	s := m.Selection(source)
	m.settlements++
	m.setStatus("Selected "+s.Label, false)
	if m.onSettle == nil {
		return
	}
	if err := m.onSettle(s); err != nil {
		m.logger.WithError(err).WithField("label", s.Label).Warn("recording selection failed")
		m.setStatus(fmt.Sprintf("Selected %s (not saved: %v)", s.Label, err), true)
	}
}

// Selection describes the current selection.
func (m *Model) Selection(source string) Settlement {
	p := m.picker
	return Settlement{
		Label:            p.SelectedLabel(),
		Value:            p.SelectedValue(),
		Meters:           p.SelectedMeters(),
		Unbounded:        p.IsUnbounded(),
		MarkIndex:        p.SelectedMarkIndex(),
		Metric:           p.Table().UsesMetric(),
		NormalizedOffset: p.NormalizedOffset(),
		Source:           source,
	}
}

func (m *Model) copySelection() {
	label := m.picker.SelectedLabel()
	if err := clipboardWrite(label); err != nil {
		m.logger.WithError(err).Warn("clipboard unavailable")
		m.setStatus(fmt.Sprintf("Copy failed: %v", err), true)
		return
	}
	m.setStatus("Copied "+label, false)
}

func (m *Model) reload(msg ConfigReloadedMsg) {
	if msg.Err != nil {
		m.logger.WithError(msg.Err).Warn("config reload failed")
		m.setStatus(fmt.Sprintf("Config not reloaded: %v", msg.Err), true)
		return
	}
	cfg := msg.Config
	cfg.UseMetricSystem = m.picker.Table().UsesMetric()
	if err := m.picker.SetConfiguration(cfg); err != nil {
		m.logger.WithError(err).Warn("config rejected")
		m.setStatus(fmt.Sprintf("Config rejected: %v", err), true)
		return
	}
	m.jump.SetLabels(m.picker.Table().Formatted())
	m.setStatus("Config reloaded", false)
}

func (m *Model) setStatus(s string, isError bool) {
	m.status = s
	m.statusIsError = isError
}

func unitName(metric bool) string {
	if metric {
		return "metric"
	}
	return "imperial"
}

// View renders the picker.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width <= 0 {
		return "Loading..."
	}
	if m.helpOverlay.IsVisible() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.helpOverlay.View())
	}

	base := m.renderBase()
	if m.showJump {
		return m.renderModalOverlay(base, m.jump.View())
	}
	return base
}

func (m *Model) renderBase() string {
	t := m.theme
	p := m.picker
	snap := p.Snapshot()

	lines := make([]string, 0, 12)

	// Header
	titleStyle := t.Renderer.NewStyle().Bold(true).Foreground(t.Primary)
	unitStyle := t.Renderer.NewStyle().Foreground(t.Subtext)
	title := titleStyle.Render(m.title)
	unit := unitStyle.Render(unitName(p.Table().UsesMetric()))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(unit)
	if gap < 1 {
		gap = 1
	}
	lines = append(lines, title+strings.Repeat(" ", gap)+unit)
	lines = append(lines, RenderDivider(m.width, t))
	lines = append(lines, "")

	// Ruler
	ruler := RulerView{
		Snapshot: snap,
		Labels:   p.Table().Formatted(),
		Selected: snap.SelectedMarkIndex(),
		Scale:    m.scale,
		Theme:    t,
	}
	lines = append(lines, strings.Split(ruler.View(), "\n")...)
	lines = append(lines, "")

	// Value
	badge := RenderValueBadge(p.SelectedLabel(), p.IsUnbounded(), t)
	lines = append(lines, lipgloss.PlaceHorizontal(m.width, lipgloss.Center, badge))
	barWidth := m.width / 3
	if barWidth > 40 {
		barWidth = 40
	}
	progress := 0.0
	if length := snap.MarkLineLength(); length > 0 {
		progress = snap.SelectedPosition() / length
	}
	lines = append(lines, lipgloss.PlaceHorizontal(m.width, lipgloss.Center, RenderMiniBar(progress, barWidth, t)))
	lines = append(lines, "")

	// Status
	statusStyle := t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true)
	if m.statusIsError {
		statusStyle = t.Renderer.NewStyle().Foreground(t.Error)
	}
	lines = append(lines, statusStyle.Render(m.status))
	lines = append(lines, m.help.View(m.keys))

	return strings.Join(lines, "\n")
}

// renderModalOverlay renders a modal centered over the base view
func (m *Model) renderModalOverlay(base, modal string) string {
	modalWidth := lipgloss.Width(modal)
	modalHeight := lipgloss.Height(modal)

	baseLines := strings.Split(base, "\n")
	for len(baseLines) < m.height {
		baseLines = append(baseLines, "")
	}

	startRow := (m.height - modalHeight) / 2
	startCol := (m.width - modalWidth) / 2
	if startRow < 0 {
		startRow = 0
	}
	if startCol < 0 {
		startCol = 0
	}

	for i, modalLine := range strings.Split(modal, "\n") {
		row := startRow + i
		if row >= 0 && row < len(baseLines) {
			baseLines[row] = strings.Repeat(" ", startCol) + modalLine
		}
	}
	return strings.Join(baseLines, "\n")
}

// Program wraps Model to implement tea.Model
type Program struct {
	model *Model
}

// NewProgram creates a new program wrapper
func NewProgram(model *Model) *Program {
	return &Program{model: model}
}

// Model returns the wrapped model.
func (p *Program) Model() *Model {
	return p.model
}

// Init implements tea.Model
func (p *Program) Init() tea.Cmd {
	return p.model.Init()
}

// Update implements tea.Model
func (p *Program) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	p.model, cmd = p.model.Update(msg)
	return p, cmd
}

// View implements tea.Model
func (p *Program) View() string {
	return p.model.View()
}
