package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/hivenav/internal/reader"
)

// detailModel is the value inspection overlay: the full decoded data plus a
// hex dump, scrollable when it outgrows the modal.
type detailModel struct {
	row      *valueRow
	viewport viewport.Model
	width    int
	height   int
	visible  bool
}

func newDetailModel() detailModel {
	return detailModel{viewport: viewport.New(0, 0)}
}

// Init implements tea.Model
func (d detailModel) Init() tea.Cmd { return nil }

// Show opens the overlay on a value.
func (d *detailModel) Show(row *valueRow) {
	d.row = row
	d.visible = true
	d.viewport.GotoTop()
	d.setContent()
}

// Hide closes the overlay.
func (d *detailModel) Hide() {
	d.visible = false
	d.row = nil
}

func (d *detailModel) IsVisible() bool { return d.visible }

// SetSize resizes the modal to 80% of the window, minus frame and padding.
func (d *detailModel) SetSize(w, h int) {
	d.width = w
	d.height = h
	d.viewport.Width = max(int(float64(w)*0.8)-6, 20)
	d.viewport.Height = max(int(float64(h)*0.8)-4, 5)
	if d.visible {
		d.setContent()
	}
}

// Update implements tea.Model; only the viewport scrolls.
func (d *detailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return d, cmd
}

func (d *detailModel) setContent() {
	if d.row == nil {
		d.viewport.SetContent("")
		return
	}
	r := d.row
	rule := strings.Repeat("─", max(d.viewport.Width-2, 8))

	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Value: " + r.displayName()))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Type:  %s\n", r.typ)
	fmt.Fprintf(&b, "Size:  %d bytes\n\n", r.size)

	switch r.typ {
	case reader.REG_SZ, reader.REG_EXPAND_SZ:
		b.WriteString("String Data:\n")
		b.WriteString(rule + "\n")
		b.WriteString(r.data + "\n")
	case reader.REG_MULTI_SZ:
		b.WriteString("String List:\n")
		b.WriteString(rule + "\n")
		for i, s := range r.strs {
			fmt.Fprintf(&b, "[%d] %s\n", i, s)
		}
	case reader.REG_DWORD, reader.REG_DWORD_BE, reader.REG_QWORD:
		b.WriteString("Numeric Data:\n")
		b.WriteString(rule + "\n")
		b.WriteString(r.data + "\n")
	}

	if len(r.raw) > 0 {
		b.WriteString("\nRaw Data:\n")
		b.WriteString(rule + "\n")
		b.WriteString(hexDump(r.raw))
		b.WriteString("\n")
	} else {
		b.WriteString("(no data)\n")
	}

	d.viewport.SetContent(b.String())
}

// View implements tea.Model
func (d detailModel) View() string {
	if !d.visible || d.row == nil {
		return ""
	}
	return modalStyle.Render(d.viewport.View())
}
