package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	runewidth "github.com/mattn/go-runewidth"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.detail.IsVisible() {
		return overlay.New(&m.detail, newMainViewModel(&m), overlay.Center, overlay.Center, 0, 0).View()
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.baseView()
}

// baseView renders the full browser chrome without overlays.
func (m *Model) baseView() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderContent(),
		m.renderStatus(),
	)
}

// renderHeader draws the title line and the current key path.
func (m *Model) renderHeader() string {
	info := m.hive.Info()
	title := headerStyle.Render("hivenav")
	meta := fmt.Sprintf("%s  (v%d.%d, %d bins)",
		filepath.Base(m.path), info.MajorVersion, info.MinorVersion, info.Bins)
	line1 := lipgloss.JoinHorizontal(lipgloss.Center, title, statusStyle.Render(meta))
	if info.Dirty {
		line1 += " " + dirtyBadgeStyle.Render("DIRTY")
	}

	path := `\` + registryPath(m.selectedNode())
	line2 := pathStyle.Render(truncatePath(path, m.width-4))
	return line1 + "\n" + line2
}

func (m *Model) renderContent() string {
	keyW, valW, paneH := m.paneSizes()
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderKeyPane(keyW, paneH),
		m.renderValuePane(valW, paneH),
	)
}

func (m *Model) renderKeyPane(w, h int) string {
	style := paneStyle
	if m.focused == KeyPane {
		style = activePaneStyle
	}
	body := m.menu.View()
	if m.menu.Len() == 0 {
		body = statusStyle.Render("(no subkeys)")
	}
	return style.Width(w - 2).Height(h).Render(body)
}

func (m *Model) renderValuePane(w, h int) string {
	style := paneStyle
	if m.focused == ValuePane {
		style = activePaneStyle
	}
	return style.Width(w - 2).Height(h).Render(m.renderValueRows(w - paneChrome))
}

// renderValueRows lays the value table out as fixed-width columns with the
// visible window following the cursor.
func (m *Model) renderValueRows(width int) string {
	if len(m.values) == 0 {
		return statusStyle.Render("(no values)")
	}

	nameW := width * 3 / 10
	if nameW < 8 {
		nameW = 8
	}
	typeW := 13 // widest common type name, REG_EXPAND_SZ
	dataW := width - nameW - typeW - 4
	if dataW < 8 {
		dataW = 8
	}

	var rows []string
	header := padCell("Name", nameW) + "  " + padCell("Type", typeW) + "  " + padCell("Data", dataW)
	rows = append(rows, valueHeaderStyle.Render(truncateCell(header, width)))
	rows = append(rows, strings.Repeat("─", max(width, 1)))

	win := m.valueWindow()
	start := m.valOffset
	end := min(start+win, len(m.values))
	if end == len(m.values) && end-start < win {
		start = max(end-win, 0)
	}

	for i := start; i < end; i++ {
		r := m.values[i]
		line := padCell(r.displayName(), nameW) + "  " +
			padCell(r.typ.String(), typeW) + "  " +
			padCell(r.data, dataW)
		line = truncateCell(line, width)
		if i == m.valCursor {
			line = valueSelectedStyle.Width(width).Render(line)
		}
		rows = append(rows, line)
	}
	return strings.Join(rows, "\n")
}

// renderStatus draws the bottom bar: a transient message or key hints on the
// left, counts and watch mode on the right.
func (m *Model) renderStatus() string {
	var left string
	switch {
	case m.status != "" && m.statusErr:
		left = statusErrStyle.Render(m.status)
	case m.status != "":
		left = statusMsgStyle.Render(m.status)
	default:
		var frags []string
		for _, b := range m.keys.ShortHelp() {
			frags = append(frags, fmt.Sprintf("%s %s", b.Help().Key, b.Help().Desc))
		}
		left = statusStyle.Render(strings.Join(frags, " │ "))
	}

	right := fmt.Sprintf("%d keys │ %d values", m.menu.Len(), len(m.values))
	if m.watcher != nil && m.watcher.IsPolling() {
		right += " │ poll"
	}
	rightStyled := statusStyle.Render(right)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(rightStyled)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + rightStyled
}

// renderHelpOverlay centers the full key reference over the window.
func (m *Model) renderHelpOverlay() string {
	groupNames := []string{"Navigate", "Tree", "Actions", "Other"}

	var b strings.Builder
	b.WriteString(helpTitleStyle.Render("hivenav keys"))
	b.WriteString("\n\n")
	for gi, group := range m.keys.FullHelp() {
		if gi < len(groupNames) {
			b.WriteString(paneTitleStyle.Render(groupNames[gi]))
			b.WriteString("\n")
		}
		for _, bind := range group {
			b.WriteString(helpKeyStyle.Render(bind.Help().Key))
			b.WriteString(helpDescStyle.Render(bind.Help().Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(helpDescStyle.Render("press ? or esc to close"))

	box := modalStyle.Width(60).Render(b.String())
	return lipgloss.NewStyle().
		MarginTop(max((m.height-lipgloss.Height(box))/2, 0)).
		MarginLeft(max((m.width-60)/2, 0)).
		Render(box)
}

func padCell(s string, w int) string {
	s = runewidth.Truncate(s, w, "…")
	return s + strings.Repeat(" ", max(w-runewidth.StringWidth(s), 0))
}

func truncateCell(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return runewidth.Truncate(s, w, "…")
}

// truncatePath shortens a path from the left so its tail stays visible.
func truncatePath(s string, w int) string {
	if w <= 0 || runewidth.StringWidth(s) <= w {
		return s
	}
	for runewidth.StringWidth(s) > w-3 && s != "" {
		_, size := utf8.DecodeRuneInString(s)
		s = s[size:]
	}
	return "..." + s
}
