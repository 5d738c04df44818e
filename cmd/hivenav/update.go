package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/hivenav/cmd/hivenav/logger"
	"github.com/joshuapare/hivenav/internal/reader"
)

// statusTTL is how long transient status messages stay on screen.
const statusTTL = 2 * time.Second

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.syncMenuSize()
		m.ensureValueVisible()
		m.detail.SetSize(msg.Width, msg.Height)
		return m, nil

	case hiveChangedMsg:
		logger.Info("hive changed on disk, reloading")
		cmd := m.reloadHive()
		if m.watcher != nil {
			return m, tea.Batch(cmd, watchForChange(m.watcher))
		}
		return m, cmd

	case clearStatusMsg:
		m.status = ""
		m.statusErr = false
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Once the hive is unreadable only quitting makes sense.
	if m.err != nil {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	// A visible overlay takes the keyboard first.
	if m.detail.IsVisible() {
		return m.handleDetailKey(msg)
	}
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help),
			key.Matches(msg, m.keys.Esc),
			key.Matches(msg, m.keys.Enter):
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		if m.focused == KeyPane {
			m.focused = ValuePane
		} else {
			m.focused = KeyPane
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.reloadHive()
	case key.Matches(msg, m.keys.Copy):
		return m.copyKeyPath()
	case key.Matches(msg, m.keys.CopyValue):
		return m.copyValueData()
	}

	if m.focused == KeyPane {
		return m.handleKeyPaneKey(msg)
	}
	return m.handleValuePaneKey(msg)
}

func (m Model) handleKeyPaneKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.menu.CursorUp()
		m.reloadValues()
	case key.Matches(msg, m.keys.Down):
		m.menu.CursorDown()
		m.reloadValues()
	case key.Matches(msg, m.keys.PageUp):
		m.menu.PageUp()
		m.reloadValues()
	case key.Matches(msg, m.keys.PageDown):
		m.menu.PageDown()
		m.reloadValues()
	case key.Matches(msg, m.keys.Home):
		m.menu.GotoTop()
		m.reloadValues()
	case key.Matches(msg, m.keys.End):
		m.menu.GotoBottom()
		m.reloadValues()
	case key.Matches(msg, m.keys.Descend), key.Matches(msg, m.keys.Enter):
		return m, m.descend()
	case key.Matches(msg, m.keys.Ascend):
		return m, m.ascend()
	}
	return m, nil
}

func (m Model) handleValuePaneKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.valCursor > 0 {
			m.valCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.valCursor < len(m.values)-1 {
			m.valCursor++
		}
	case key.Matches(msg, m.keys.PageUp):
		m.valCursor -= m.valueWindow()
		if m.valCursor < 0 {
			m.valCursor = 0
		}
	case key.Matches(msg, m.keys.PageDown):
		if m.valCursor += m.valueWindow(); m.valCursor > len(m.values)-1 {
			m.valCursor = len(m.values) - 1
		}
		if m.valCursor < 0 {
			m.valCursor = 0
		}
	case key.Matches(msg, m.keys.Home):
		m.valCursor = 0
	case key.Matches(msg, m.keys.End):
		if len(m.values) > 0 {
			m.valCursor = len(m.values) - 1
		}
	case key.Matches(msg, m.keys.Enter):
		return m.openDetail()
	case key.Matches(msg, m.keys.Ascend):
		// Mirror the key pane so muscle memory works in both panes.
		m.focused = KeyPane
		return m, nil
	}
	m.ensureValueVisible()
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Esc),
		key.Matches(msg, m.keys.Enter),
		msg.String() == "q":
		m.detail.Hide()
		return m, nil
	}
	_, cmd := m.detail.Update(msg)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.detail.IsVisible() {
		_, cmd := m.detail.Update(msg)
		return m, cmd
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.focused == KeyPane {
			m.menu.CursorUp()
			m.reloadValues()
		} else if m.valCursor > 0 {
			m.valCursor--
			m.ensureValueVisible()
		}
	case tea.MouseButtonWheelDown:
		if m.focused == KeyPane {
			m.menu.CursorDown()
			m.reloadValues()
		} else if m.valCursor < len(m.values)-1 {
			m.valCursor++
			m.ensureValueVisible()
		}
	}
	return m, nil
}

// descend opens the selected key, loading its children on first visit.
func (m *Model) descend() tea.Cmd {
	n := m.selectedNode()
	if n == nil {
		return nil
	}
	if !n.HasChildren() {
		id, ok := m.ids[n]
		if !ok {
			return nil
		}
		head, err := m.buildChain(n, id)
		if err != nil {
			m.setError(fmt.Sprintf("read subkeys: %v", err))
			return nil
		}
		if head == nil {
			m.setStatus("key has no subkeys")
			return clearStatusAfter(statusTTL)
		}
	}
	if err := m.view.Update(n.FirstChild()); err != nil {
		m.setError(fmt.Sprintf("show subkeys: %v", err))
		return nil
	}
	if err := m.view.Show(); err != nil {
		m.setError(fmt.Sprintf("show subkeys: %v", err))
		return nil
	}
	m.current = n
	m.reloadValues()
	return nil
}

// ascend returns to the parent level, restoring the cursor to the key we
// came out of.
func (m *Model) ascend() tea.Cmd {
	if m.current == nil {
		return nil
	}
	came := m.current
	if err := m.view.Update(came.First()); err != nil {
		m.setError(fmt.Sprintf("show parent: %v", err))
		return nil
	}
	if err := m.view.Show(); err != nil {
		m.setError(fmt.Sprintf("show parent: %v", err))
		return nil
	}
	m.menu.SelectNode(came)
	m.current = came.Parent()
	m.reloadValues()
	return nil
}

func (m Model) copyKeyPath() (tea.Model, tea.Cmd) {
	n := m.selectedNode()
	if n == nil {
		return m, nil
	}
	path := `\` + registryPath(n)
	if err := clipboard.WriteAll(path); err != nil {
		logger.Warn("clipboard", "error", err)
		m.setError(fmt.Sprintf("clipboard: %v", err))
		return m, clearStatusAfter(statusTTL)
	}
	m.setStatus("✓ Copied: " + path)
	return m, clearStatusAfter(statusTTL)
}

func (m Model) copyValueData() (tea.Model, tea.Cmd) {
	if len(m.values) == 0 {
		return m, nil
	}
	row := m.values[m.valCursor]
	if err := clipboard.WriteAll(row.clipboardText()); err != nil {
		logger.Warn("clipboard", "error", err)
		m.setError(fmt.Sprintf("clipboard: %v", err))
		return m, clearStatusAfter(statusTTL)
	}
	m.setStatus("✓ Copied value: " + row.displayName())
	return m, clearStatusAfter(statusTTL)
}

func (m Model) openDetail() (tea.Model, tea.Cmd) {
	if len(m.values) == 0 {
		return m, nil
	}
	m.detail.Show(&m.values[m.valCursor])
	return m, nil
}

// reloadHive swaps in a fresh snapshot of the hive file. The old snapshot
// stays on display if the file is momentarily unreadable; registry tools
// replace hives wholesale, so a read can land mid-replace.
func (m *Model) reloadHive() tea.Cmd {
	nh, err := reader.Open(m.path)
	if err != nil {
		logger.Warn("reload failed", "path", m.path, "error", err)
		m.setError(fmt.Sprintf("reload: %v", err))
		return nil
	}
	if m.hive != nil {
		_ = m.hive.Close()
	}
	m.hive = nh
	m.detail.Hide()
	m.showHelp = false
	if err := m.buildTree(); err != nil {
		logger.Error("rebuild after reload", "error", err)
		m.err = fmt.Errorf("hive unreadable after reload: %w", err)
		return nil
	}
	m.reloadValues()
	m.setStatus("Reloaded " + filepath.Base(m.path))
	return clearStatusAfter(statusTTL)
}
