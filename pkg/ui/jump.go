package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// MarkItem is a mark offered by the jump overlay.
type MarkItem struct {
	Index int
	Label string
}

// JumpModel is the "jump to mark" overlay: a search box over the mark
// labels, fuzzy matched.
type JumpModel struct {
	allItems      []MarkItem
	filteredItems []MarkItem

	searchInput   textinput.Model
	selectedIndex int

	width  int
	height int
	theme  Theme

	confirmed    bool
	selectedItem *MarkItem
}

// NewJumpModel creates a jump overlay over labels.
func NewJumpModel(labels []string, theme Theme) JumpModel {
	ti := textinput.New()
	ti.Placeholder = "Search marks..."
	ti.Focus()
	ti.CharLimit = 32
	ti.Width = 30

	m := JumpModel{
		searchInput: ti,
		theme:       theme,
		width:       60,
		height:      20,
	}
	m.SetLabels(labels)
	return m
}

// SetLabels replaces the marks, e.g. after a unit switch.
func (m *JumpModel) SetLabels(labels []string) {
	items := make([]MarkItem, len(labels))
	for i, l := range labels {
		items[i] = MarkItem{Index: i, Label: l}
	}
	m.allItems = items
	m.filterItems()
}

// SetSize updates the overlay dimensions
func (m *JumpModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	inputWidth := width - 20
	if inputWidth < 20 {
		inputWidth = 20
	}
	if inputWidth > 40 {
		inputWidth = 40
	}
	m.searchInput.Width = inputWidth
}

// Update handles a key and reports whether it was consumed.
func (m *JumpModel) Update(key string) (handled bool) {
	switch key {
	case "up", "ctrl+p":
		m.moveUp()
		return true
	case "down", "ctrl+n":
		m.moveDown()
		return true
	case "enter":
		if len(m.filteredItems) > 0 && m.selectedIndex < len(m.filteredItems) {
			item := m.filteredItems[m.selectedIndex]
			m.selectedItem = &item
			m.confirmed = true
		}
		return true
	case "esc":
		m.confirmed = false
		m.selectedItem = nil
		return true
	case "backspace":
		if v := []rune(m.searchInput.Value()); len(v) > 0 {
			m.searchInput.SetValue(string(v[:len(v)-1]))
			m.filterItems()
		}
		return true
	default:
		if len([]rune(key)) == 1 {
			m.searchInput.SetValue(m.searchInput.Value() + key)
			m.filterItems()
			return true
		}
	}
	return false
}

func (m *JumpModel) moveUp() {
	if m.selectedIndex > 0 {
		m.selectedIndex--
	}
}

func (m *JumpModel) moveDown() {
	if m.selectedIndex < len(m.filteredItems)-1 {
		m.selectedIndex++
	}
}

func (m *JumpModel) filterItems() {
	m.selectedIndex = 0
	query := strings.TrimSpace(m.searchInput.Value())
	if query == "" {
		m.filteredItems = m.allItems
		return
	}

	searchStrings := make([]string, len(m.allItems))
	for i, item := range m.allItems {
		// "10 km" should match "10km" as well.
		searchStrings[i] = strings.ReplaceAll(item.Label, " ", "")
	}
	matches := fuzzy.Find(strings.ReplaceAll(query, " ", ""), searchStrings)

	m.filteredItems = make([]MarkItem, 0, len(matches))
	for _, match := range matches {
		m.filteredItems = append(m.filteredItems, m.allItems[match.Index])
	}
}

// Query returns the current search text.
func (m *JumpModel) Query() string {
	return m.searchInput.Value()
}

// Matches returns the marks matching the query, best first.
func (m *JumpModel) Matches() []MarkItem {
	return m.filteredItems
}

// IsConfirmed returns true if user confirmed a selection
func (m *JumpModel) IsConfirmed() bool {
	return m.confirmed
}

// IsCancelled returns true if user cancelled the overlay
func (m *JumpModel) IsCancelled() bool {
	return m.selectedItem == nil && !m.confirmed
}

// SelectedItem returns the chosen mark, or nil if none
func (m *JumpModel) SelectedItem() *MarkItem {
	return m.selectedItem
}

// Reset clears the selection state for reuse
func (m *JumpModel) Reset() {
	m.confirmed = false
	m.selectedItem = nil
	m.searchInput.SetValue("")
	m.filteredItems = m.allItems
	m.selectedIndex = 0
}

// View renders the jump overlay
func (m *JumpModel) View() string {
	t := m.theme

	boxWidth := 40
	if m.width < 50 {
		boxWidth = m.width - 10
	}
	if boxWidth < 26 {
		boxWidth = 26
	}
	contentWidth := boxWidth - 4

	var lines []string

	titleStyle := t.Renderer.NewStyle().
		Foreground(t.Primary).
		Bold(true)
	lines = append(lines, titleStyle.Render("Jump to Mark"))
	lines = append(lines, "")

	inputStyle := t.Renderer.NewStyle().
		Foreground(t.Base).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Secondary).
		Padding(0, 1).
		Width(contentWidth - 2)

	searchValue := m.searchInput.Value()
	if searchValue == "" {
		searchValue = t.Renderer.NewStyle().Foreground(t.Subtext).Render(m.searchInput.Placeholder)
	}
	lines = append(lines, inputStyle.Render(searchValue))
	lines = append(lines, "")

	maxVisible := m.height - 10
	if maxVisible < 5 {
		maxVisible = 5
	}
	if maxVisible > 12 {
		maxVisible = 12
	}

	if len(m.filteredItems) == 0 {
		emptyStyle := t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true)
		lines = append(lines, emptyStyle.Render("  No matching marks"))
	} else {
		// Keep the selection visible when scrolling past maxVisible.
		start := 0
		if m.selectedIndex >= maxVisible {
			start = m.selectedIndex - maxVisible + 1
		}
		end := start + maxVisible
		if end > len(m.filteredItems) {
			end = len(m.filteredItems)
		}
		for i := start; i < end; i++ {
			lines = append(lines, m.renderItem(m.filteredItems[i], i == m.selectedIndex))
		}
		if hidden := len(m.filteredItems) - (end - start); hidden > 0 {
			moreStyle := t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true)
			lines = append(lines, moreStyle.Render("  ... and "+strconv.Itoa(hidden)+" more"))
		}
	}

	lines = append(lines, "")
	footerStyle := t.Renderer.NewStyle().
		Foreground(t.Subtext).
		Italic(true)
	lines = append(lines, footerStyle.Render("↑/↓ move • enter jump • esc cancel"))

	boxStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(boxWidth)

	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (m *JumpModel) renderItem(item MarkItem, selected bool) string {
	t := m.theme
	cursor := "  "
	style := t.Renderer.NewStyle().Foreground(t.Base)
	if selected {
		cursor = "▸ "
		style = t.Renderer.NewStyle().Foreground(t.Primary).Bold(true)
	}
	label := item.Label
	if label == "∞" {
		label += " (no limit)"
	}
	return cursor + style.Render(label)
}
