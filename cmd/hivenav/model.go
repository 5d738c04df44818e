package main

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/hivenav/cmd/hivenav/logger"
	"github.com/joshuapare/hivenav/cmd/hivenav/menu"
	"github.com/joshuapare/hivenav/internal/config"
	"github.com/joshuapare/hivenav/internal/reader"
	"github.com/joshuapare/hivenav/internal/watch"
	"github.com/joshuapare/hivenav/tree"
)

// Pane identifies which side of the split has focus
type Pane int

const (
	KeyPane Pane = iota
	ValuePane
)

// Layout constants
const (
	minPaneWidth = 20
	paneChrome   = 4 // border and padding columns claimed by a pane frame
)

// Messages

// hiveChangedMsg arrives when the watcher sees the hive file change on disk.
type hiveChangedMsg struct{}

// clearStatusMsg wipes a transient status bar message.
type clearStatusMsg struct{}

// Model is the main application state
type Model struct {
	path string
	cfg  config.Config

	hive *reader.Hive

	// Key pane. The menu posts one sibling chain of the node tree at a
	// time; ids maps display nodes back to hive key handles.
	menu    *menu.Model
	view    *tree.View
	ids     map[*tree.Node]reader.NodeID
	current *tree.Node // key whose children are on display; nil at the root level

	// Value pane
	values    []valueRow
	valCursor int
	valOffset int

	detail detailModel

	watcher *watch.Watcher

	keys     KeyMap
	showHelp bool

	focused Pane
	width   int
	height  int

	status    string
	statusErr bool
	err       error
}

// newModel builds the browser state around an already-open hive.
func newModel(path string, h *reader.Hive, cfg config.Config) (Model, error) {
	m := Model{
		path:    path,
		cfg:     cfg,
		hive:    h,
		keys:    DefaultKeyMap(),
		detail:  newDetailModel(),
		focused: KeyPane,
	}
	if err := m.buildTree(); err != nil {
		return Model{}, fmt.Errorf("read hive: %w", err)
	}
	m.reloadValues()
	return m, nil
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return watchForChange(m.watcher)
	}
	return nil
}

// watchForChange blocks until the watcher reports a change, then delivers it
// to the update loop. Re-armed after every change message.
func watchForChange(w *watch.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return hiveChangedMsg{}
	}
}

// Close releases everything the browser holds. Called after the program has
// left the alt screen.
func (m Model) Close() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
	if m.view != nil {
		m.view.Free()
	}
	if m.hive != nil {
		if err := m.hive.Close(); err != nil {
			logger.Warn("closing hive", "error", err)
		}
	}
}

// buildTree builds the root key chain and a fresh menu/view pair around it.
// Any previous view is freed first, which tears down the old node tree.
func (m *Model) buildTree() error {
	if m.view != nil {
		m.view.Free()
	}
	m.ids = make(map[*tree.Node]reader.NodeID)
	m.current = nil

	rootID, err := m.hive.Root()
	if err != nil {
		return err
	}
	head, err := m.buildChain(nil, rootID)
	if err != nil {
		return err
	}

	mm := menu.New()
	if m.cfg.UI.NoColor {
		mm.SetStyles(menu.PlainStyles())
	}
	v, err := tree.NewView(head, mm)
	if err != nil {
		return err
	}
	m.menu = mm
	m.view = v
	m.syncMenuSize()
	if mm.Len() > 0 {
		if err := v.Show(); err != nil {
			return err
		}
	}
	return nil
}

// buildChain loads the subkeys of id and links them as the child chain of
// parent (or as a root-level chain when parent is nil). Returns the chain
// head, nil when the key has no readable subkeys.
func (m *Model) buildChain(parent *tree.Node, id reader.NodeID) (*tree.Node, error) {
	subs, err := m.hive.Subkeys(id)
	if err != nil {
		return nil, err
	}
	var head, tail *tree.Node
	for _, sub := range subs {
		meta, err := m.hive.StatKey(sub)
		if err != nil {
			logger.Warn("skipping unreadable key", "error", err)
			continue
		}
		n := tree.New(parent, meta.Name)
		m.ids[n] = sub
		if tail == nil {
			head = n
		} else {
			tail.Append(n)
		}
		tail = n
	}
	return head, nil
}

// selectedNode returns the key under the cursor, nil when the level is empty.
func (m *Model) selectedNode() *tree.Node {
	if m.menu == nil {
		return nil
	}
	it := m.menu.Selected()
	if it == nil {
		return nil
	}
	return it.Node()
}

// reloadValues refreshes the value pane for the currently selected key.
func (m *Model) reloadValues() {
	m.values = nil
	m.valCursor = 0
	m.valOffset = 0

	n := m.selectedNode()
	if n == nil {
		return
	}
	id, ok := m.ids[n]
	if !ok {
		return
	}
	rows, err := loadValues(m.hive, id)
	if err != nil {
		logger.Warn("loading values", "key", n.Name(), "error", err)
		m.setError(fmt.Sprintf("values: %v", err))
		return
	}
	m.values = rows
}

// paneSizes computes the outer pane dimensions for the current window.
func (m *Model) paneSizes() (keyW, valW, paneH int) {
	keyW = int(float64(m.width) * m.cfg.UI.SplitRatio)
	if keyW < minPaneWidth {
		keyW = minPaneWidth
	}
	valW = m.width - keyW
	if valW < minPaneWidth {
		valW = minPaneWidth
	}
	paneH = m.height - 8
	if paneH < 5 {
		paneH = 5
	}
	return keyW, valW, paneH
}

func (m *Model) syncMenuSize() {
	if m.menu == nil {
		return
	}
	keyW, _, paneH := m.paneSizes()
	m.menu.SetSize(keyW-paneChrome, paneH)
}

// valueWindow is the number of value rows visible at once; the header and
// separator occupy the top of the pane.
func (m *Model) valueWindow() int {
	_, _, paneH := m.paneSizes()
	h := paneH - 2
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) ensureValueVisible() {
	win := m.valueWindow()
	if m.valCursor < m.valOffset {
		m.valOffset = m.valCursor
	}
	if m.valCursor >= m.valOffset+win {
		m.valOffset = m.valCursor - win + 1
	}
	if max := len(m.values) - win; m.valOffset > max {
		m.valOffset = max
	}
	if m.valOffset < 0 {
		m.valOffset = 0
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

// registryPath renders the backslash-separated path of a key relative to the
// hive root ("" for the root key itself). The result round-trips through the
// reader's path lookup.
func registryPath(n *tree.Node) string {
	if n == nil {
		return ""
	}
	var parts []string
	for p := n; p != nil; p = p.Parent() {
		parts = append(parts, p.Name())
	}
	slices.Reverse(parts)
	return strings.Join(parts, `\`)
}
