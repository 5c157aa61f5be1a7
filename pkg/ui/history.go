package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Dicklesworthstone/distance_picker/pkg/history"
)

// HistoryItem wraps history.Selection to implement list.Item
type HistoryItem struct {
	Selection history.Selection
}

func (i HistoryItem) Title() string {
	return i.Selection.Label
}

func (i HistoryItem) Description() string {
	return fmt.Sprintf("%s • %s • %s", i.Selection.Source, unitName(i.Selection.Metric), humanize.Time(i.Selection.CreatedAt))
}

func (i HistoryItem) FilterValue() string {
	return strings.ReplaceAll(i.Selection.Label, " ", "") + " " + i.Selection.Source
}

// HistoryDelegate renders one selection per row.
type HistoryDelegate struct {
	Theme Theme
}

func (d HistoryDelegate) Height() int {
	return 1
}

func (d HistoryDelegate) Spacing() int {
	return 0
}

func (d HistoryDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d HistoryDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(HistoryItem)
	if !ok {
		return
	}
	t := d.Theme
	s := i.Selection

	cursor := "  "
	labelStyle := t.Renderer.NewStyle().Foreground(t.Base).Width(10)
	if index == m.Index() {
		cursor = "▸ "
		labelStyle = labelStyle.Foreground(t.Primary).Bold(true)
	}
	if s.Unbounded {
		labelStyle = labelStyle.Foreground(t.Unbounded)
	}
	dim := t.Renderer.NewStyle().Foreground(t.Subtext)

	row := lipgloss.JoinHorizontal(lipgloss.Left,
		cursor,
		labelStyle.Render(s.Label),
		dim.Width(10).Render(s.Source),
		dim.Width(10).Render(unitName(s.Metric)),
		dim.Render(humanize.Time(s.CreatedAt)),
	)
	fmt.Fprint(w, row)
}

// HistoryModel browses recorded selections.
type HistoryModel struct {
	list    list.Model
	summary history.Summary
	theme   Theme
	chosen  *history.Selection
}

// NewHistoryModel lists selections, newest first.
func NewHistoryModel(selections []history.Selection, theme Theme) HistoryModel {
	items := make([]list.Item, len(selections))
	for i, s := range selections {
		items[i] = HistoryItem{Selection: s}
	}
	l := list.New(items, HistoryDelegate{Theme: theme}, 60, 20)
	l.Title = "Recent distances"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = theme.Renderer.NewStyle().Bold(true).Foreground(theme.Primary)

	return HistoryModel{
		list:    l,
		summary: history.Summarize(selections),
		theme:   theme,
	}
}

// Chosen returns the selection picked with enter, or nil.
func (m HistoryModel) Chosen() *history.Selection {
	return m.chosen
}

// Init implements tea.Model
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(HistoryItem); ok {
				s := item.Selection
				m.chosen = &s
			}
			return m, tea.Quit
		case "q", "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m HistoryModel) View() string {
	return m.list.View() + "\n" + RenderSummary(m.summary, m.theme)
}

// RenderSummary renders history statistics on one line.
func RenderSummary(s history.Summary, t Theme) string {
	style := t.Renderer.NewStyle().Foreground(t.Subtext)
	if s.Count == 0 {
		return style.Render("No selections yet")
	}
	bounded := s.Count - s.Unbounded
	if bounded == 0 {
		return style.Render(fmt.Sprintf("%d selections, all ∞", s.Count))
	}
	return style.Render(fmt.Sprintf("%d selections • median %s • mean %s ± %s • range %s to %s • ∞ %d",
		s.Count,
		meters(s.Median), meters(s.Mean), meters(s.StdDev),
		meters(s.Min), meters(s.Max),
		s.Unbounded))
}

func meters(v float64) string {
	return humanize.FtoaWithDigits(v, 0) + " m"
}
