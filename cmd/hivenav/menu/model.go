// Package menu is the posting list widget behind the key pane: a
// vertically stacked single-selection menu over tree items, with
// virtual scrolling so navigation cost does not grow with item count.
// It implements tree.Widget; the cursor, scroll window, and selection
// mark live here, the projected items come from the view.
package menu

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/joshuapare/hivenav/tree"
)

// Widget failure modes. The view layer treats these as propagated
// errors, never as panics.
var (
	ErrPosted  = errors.New("menu: item set is posted")
	ErrNoItems = errors.New("menu: no items to post")
	ErrFreed   = errors.New("menu: menu is freed")
)

// DefaultMark prefixes the selected row.
const DefaultMark = "* "

// defaultHeight is the render fallback before the first SetSize.
const defaultHeight = 20

// Styles bundles the lipgloss styles a menu renders with.
type Styles struct {
	Item     lipgloss.Style
	Selected lipgloss.Style
}

// DefaultStyles returns the standard menu appearance.
func DefaultStyles() Styles {
	return Styles{
		Item: lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color("#7D56F4")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true),
	}
}

// PlainStyles returns styles with no color or emphasis, for --no-color
// terminals. The selection stays visible through the mark alone.
func PlainStyles() Styles {
	return Styles{
		Item:     lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle(),
	}
}

// Model is a single-selection menu over tree items. The zero value is
// not usable; construct with New.
//
// Lifecycle: SetItems swaps the item set (only while un-posted), Post
// makes the list renderable, Unpost hides it, Free is terminal. View
// renders only the scroll window, never the whole list.
type Model struct {
	items  []*tree.Item
	cursor int
	offset int
	width  int
	height int
	mark   string
	posted bool
	freed  bool
	styles Styles
}

// New returns an empty, un-posted menu with default mark and styles.
func New() *Model {
	return &Model{mark: DefaultMark, styles: DefaultStyles()}
}

// SetItems replaces the item set and resets the cursor and scroll
// window to the top. Fails with ErrPosted while the menu is posted;
// an empty set is storable but not postable.
func (m *Model) SetItems(items []*tree.Item) error {
	if m.freed {
		return ErrFreed
	}
	if m.posted {
		return ErrPosted
	}
	m.items = items
	m.cursor = 0
	m.offset = 0
	return nil
}

// Post makes the menu renderable. Fails with ErrNoItems when the item
// set is empty. Posting a posted menu is a no-op.
func (m *Model) Post() error {
	if m.freed {
		return ErrFreed
	}
	if len(m.items) == 0 {
		return ErrNoItems
	}
	m.posted = true
	return nil
}

// Unpost hides the menu. Idempotent.
func (m *Model) Unpost() error {
	if m.freed {
		return ErrFreed
	}
	m.posted = false
	return nil
}

// Refresh requests a redraw. Under bubbletea the next View call is the
// redraw, so there is nothing to flush here; the method exists to
// complete the display-surface contract.
func (m *Model) Refresh() {}

// Free releases the menu. Fails with ErrPosted while posted (unpost
// first) and ErrFreed when already freed. Every later operation fails
// with ErrFreed.
func (m *Model) Free() error {
	if m.freed {
		return ErrFreed
	}
	if m.posted {
		return ErrPosted
	}
	m.items = nil
	m.freed = true
	return nil
}

// Len returns the number of items in the current set.
func (m *Model) Len() int {
	return len(m.items)
}

// Posted reports whether the menu is posted.
func (m *Model) Posted() bool {
	return m.posted
}

// Selected returns the item under the cursor, nil when the set is
// empty or the menu is freed.
func (m *Model) Selected() *tree.Item {
	if m.freed || len(m.items) == 0 {
		return nil
	}
	return m.items[m.cursor]
}

// SelectedIndex returns the cursor index, -1 when the set is empty.
func (m *Model) SelectedIndex() int {
	if m.freed || len(m.items) == 0 {
		return -1
	}
	return m.cursor
}

// Select moves the cursor to index i. Out-of-range indexes clamp to
// the nearest end; the scroll window follows the cursor.
func (m *Model) Select(i int) {
	if m.freed || len(m.items) == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i > len(m.items)-1 {
		i = len(m.items) - 1
	}
	m.cursor = i
	m.ensureVisible()
}

// SelectNode moves the cursor to the item projected from n and reports
// whether it was found. The cursor is untouched on a miss. Used to
// keep the selection on the same key across a rebuild.
func (m *Model) SelectNode(n *tree.Node) bool {
	if m.freed || n == nil {
		return false
	}
	for i, it := range m.items {
		if it.Node() == n {
			m.Select(i)
			return true
		}
	}
	return false
}

// CursorUp moves the selection up one row.
func (m *Model) CursorUp() { m.Select(m.cursor - 1) }

// CursorDown moves the selection down one row.
func (m *Model) CursorDown() { m.Select(m.cursor + 1) }

// PageUp moves the selection up one window.
func (m *Model) PageUp() { m.Select(m.cursor - m.page()) }

// PageDown moves the selection down one window.
func (m *Model) PageDown() { m.Select(m.cursor + m.page()) }

// GotoTop selects the first item.
func (m *Model) GotoTop() { m.Select(0) }

// GotoBottom selects the last item.
func (m *Model) GotoBottom() { m.Select(len(m.items) - 1) }

// SetSize sets the render window in cells. The scroll window re-clamps
// so the cursor stays visible.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ensureVisible()
}

// SetMark sets the selection mark. Non-selected rows are padded by the
// mark's display width so text columns align.
func (m *Model) SetMark(mark string) {
	m.mark = mark
}

// SetStyles replaces the render styles.
func (m *Model) SetStyles(s Styles) {
	m.styles = s
}

func (m *Model) page() int {
	if m.height > 0 {
		return m.height
	}
	return defaultHeight
}

// ensureVisible scrolls the window so the cursor is inside it, then
// clamps the window to the item range.
func (m *Model) ensureVisible() {
	height := m.page()

	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+height {
		m.offset = m.cursor - height + 1
	}

	maxOffset := len(m.items) - height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View renders the visible window, one row per line. An un-posted or
// freed menu renders nothing.
func (m *Model) View() string {
	if m.freed || !m.posted {
		return ""
	}

	height := m.page()
	start := m.offset
	end := start + height
	if end > len(m.items) {
		end = len(m.items)
	}
	// When the tail is shorter than the window, pull the window up so
	// the list does not shrink at the bottom.
	if end == len(m.items) && end-start < height {
		start = end - height
		if start < 0 {
			start = 0
		}
		m.offset = start
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(i))
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m *Model) renderRow(i int) string {
	selected := i == m.cursor

	prefix := strings.Repeat(" ", runewidth.StringWidth(m.mark))
	if selected {
		prefix = m.mark
	}

	text := prefix + m.items[i].Text()
	if m.width > 0 {
		text = runewidth.Truncate(text, m.width, "…")
	}

	style := m.styles.Item
	if selected {
		style = m.styles.Selected
	}
	if m.width > 0 {
		style = style.Width(m.width)
	}
	return style.Render(text)
}
