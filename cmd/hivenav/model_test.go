package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/hivenav/internal/config"
	"github.com/joshuapare/hivenav/internal/format"
	"github.com/joshuapare/hivenav/internal/hivetest"
	"github.com/joshuapare/hivenav/internal/reader"
	"github.com/joshuapare/hivenav/tree"
)

func TestStartupShowsRootKeys(t *testing.T) {
	m := newTestBrowser(t)
	if got := m.View(); got != "Loading..." {
		t.Errorf("view before first resize = %q", got)
	}

	m = applyMsg(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if m.menu.Len() != 3 {
		t.Fatalf("menu has %d items, want 3", m.menu.Len())
	}
	if got := m.selectedNode().Name(); got != "Hardware" {
		t.Errorf("initial selection = %q, want Hardware", got)
	}
	if m.current != nil {
		t.Errorf("current = %v, want nil at the root level", m.current)
	}

	v := m.View()
	for _, want := range []string{"hivenav", "Hardware", "Software", "System", `\Hardware`, "(no values)", "3 keys", "q quit"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q:\n%s", want, v)
		}
	}
}

func TestSelectionDrivesValuePane(t *testing.T) {
	m := sizedTestBrowser(t)
	if len(m.values) != 0 {
		t.Fatalf("Hardware should have no values, got %d", len(m.values))
	}

	m = pressKeys(t, m, "down", "down") // System
	if len(m.values) != 3 {
		t.Fatalf("System has %d rows, want 3", len(m.values))
	}
	for i, want := range []string{"Boot", "Counter", "Blob"} {
		if m.values[i].name != want {
			t.Errorf("row %d = %q, want %q", i, m.values[i].name, want)
		}
	}

	v := m.View()
	for _, want := range []string{"Boot", "REG_MULTI_SZ", "hal.dll", "Counter", "REG_QWORD", "Blob", "REG_BINARY"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = pressKeys(t, m, "home") // back to Hardware
	if got := m.selectedNode().Name(); got != "Hardware" {
		t.Errorf("selection after home = %q", got)
	}
	if len(m.values) != 0 {
		t.Errorf("value pane not cleared, %d rows", len(m.values))
	}
}

func TestDescendAscendRoundTrip(t *testing.T) {
	m := sizedTestBrowser(t)

	m = pressKeys(t, m, "down", "right") // into Software
	if m.current == nil || m.current.Name() != "Software" {
		t.Fatalf("current = %v, want Software", m.current)
	}
	if m.menu.Len() != 2 {
		t.Fatalf("child level has %d items, want 2", m.menu.Len())
	}
	if got := m.selectedNode().Name(); got != "Classes" {
		t.Errorf("descend lands on %q, want first child Classes", got)
	}

	m = pressKeys(t, m, "down") // Vendor
	if len(m.values) != 2 || m.values[0].name != "InstallPath" || m.values[1].name != "Build" {
		t.Fatalf("Vendor rows = %+v", m.values)
	}

	m = pressKeys(t, m, "left") // back to the root level
	if m.current != nil {
		t.Errorf("current = %v after ascend, want nil", m.current)
	}
	if m.menu.Len() != 3 {
		t.Fatalf("root level has %d items, want 3", m.menu.Len())
	}
	if got := m.selectedNode().Name(); got != "Software" {
		t.Errorf("ascend selects %q, want the key we came out of", got)
	}
	if got := m.menu.Selected().Text(); got != "+Software" {
		t.Errorf("visited key renders as %q, want +Software", got)
	}

	// Re-entering uses the children loaded on the first visit.
	m = pressKeys(t, m, "enter")
	if m.menu.Len() != 2 || m.selectedNode().Name() != "Classes" {
		t.Errorf("re-descend: %d items, selected %q", m.menu.Len(), m.selectedNode().Name())
	}
}

func TestDescendLeafReportsNoSubkeys(t *testing.T) {
	m := sizedTestBrowser(t) // Hardware selected

	m = pressKeys(t, m, "right")
	if m.current != nil {
		t.Errorf("descend into a leaf moved levels: current = %v", m.current)
	}
	if m.menu.Len() != 3 {
		t.Errorf("menu has %d items, want 3", m.menu.Len())
	}
	if m.status != "key has no subkeys" {
		t.Errorf("status = %q", m.status)
	}

	m = applyMsg(t, m, clearStatusMsg{})
	if m.status != "" {
		t.Errorf("status not cleared: %q", m.status)
	}
}

func TestAscendAtRootIsNoop(t *testing.T) {
	m := sizedTestBrowser(t)
	m = pressKeys(t, m, "left", "backspace")
	if m.current != nil || m.menu.Len() != 3 {
		t.Errorf("ascend at root changed state: current=%v len=%d", m.current, m.menu.Len())
	}
}

func TestTabSwitchesPanes(t *testing.T) {
	m := sizedTestBrowser(t)
	if m.focused != KeyPane {
		t.Fatalf("initial focus = %v", m.focused)
	}
	m = pressKeys(t, m, "tab")
	if m.focused != ValuePane {
		t.Errorf("after tab focus = %v, want ValuePane", m.focused)
	}
	m = pressKeys(t, m, "left") // mirrors the key pane's "go back"
	if m.focused != KeyPane {
		t.Errorf("left in value pane should refocus the key pane, got %v", m.focused)
	}
}

func TestValuePaneCursor(t *testing.T) {
	m := sizedTestBrowser(t)
	m = pressKeys(t, m, "down", "down", "tab") // System, value pane

	m = pressKeys(t, m, "down")
	if m.valCursor != 1 {
		t.Errorf("cursor = %d, want 1", m.valCursor)
	}
	m = pressKeys(t, m, "end")
	if m.valCursor != 2 {
		t.Errorf("cursor after end = %d, want 2", m.valCursor)
	}
	m = pressKeys(t, m, "down") // clamped at the last row
	if m.valCursor != 2 {
		t.Errorf("cursor ran past the end: %d", m.valCursor)
	}
	m = pressKeys(t, m, "home")
	if m.valCursor != 0 {
		t.Errorf("cursor after home = %d", m.valCursor)
	}
}

func TestValuePaneEmptyKeyIgnoresInput(t *testing.T) {
	m := sizedTestBrowser(t) // Hardware, no values
	m = pressKeys(t, m, "tab", "down", "enter")
	if m.detail.IsVisible() {
		t.Error("detail opened with no values present")
	}
	if m.valCursor != 0 {
		t.Errorf("cursor moved in an empty pane: %d", m.valCursor)
	}
}

func TestValueDetailOverlay(t *testing.T) {
	m := sizedTestBrowser(t)
	m = pressKeys(t, m, "down", "down", "tab", "enter") // System's first value
	if !m.detail.IsVisible() {
		t.Fatal("detail overlay not visible after enter")
	}
	if m.detail.row == nil || m.detail.row.name != "Boot" {
		t.Fatalf("detail shows %+v, want Boot", m.detail.row)
	}

	v := m.View()
	for _, want := range []string{"Value: Boot", "REG_MULTI_SZ", "String List:", "[0] hal.dll", "[1] ntoskrnl.exe", "Raw Data:"} {
		if !strings.Contains(v, want) {
			t.Errorf("detail view missing %q", want)
		}
	}

	// The overlay takes the keyboard; help must not open on top of it.
	m = pressKeys(t, m, "?")
	if m.showHelp {
		t.Error("help opened while the detail overlay was up")
	}

	m = pressKeys(t, m, "esc")
	if m.detail.IsVisible() {
		t.Error("esc did not close the detail overlay")
	}
}

func TestDetailQuitKeysCloseOverlayOnly(t *testing.T) {
	m := sizedTestBrowser(t)
	m = pressKeys(t, m, "down", "down", "tab", "down", "down", "enter")
	if m.detail.row == nil || m.detail.row.name != "Blob" {
		t.Fatalf("detail shows %+v, want Blob", m.detail.row)
	}
	if v := m.View(); !strings.Contains(v, "de ad be ef") {
		t.Error("hex dump missing from the detail view")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = next.(Model)
	if m.detail.IsVisible() {
		t.Error("q should close the overlay")
	}
	if cmd != nil {
		t.Error("q inside the overlay should not quit the program")
	}
}

func TestHelpOverlay(t *testing.T) {
	m := sizedTestBrowser(t)
	m = pressKeys(t, m, "?")
	if !m.showHelp {
		t.Fatal("? did not open help")
	}
	v := m.View()
	for _, want := range []string{"hivenav keys", "Navigate", "Actions", "open key/value", "copy key path", "reload hive"} {
		if !strings.Contains(v, want) {
			t.Errorf("help overlay missing %q", want)
		}
	}
	m = pressKeys(t, m, "esc")
	if m.showHelp {
		t.Error("esc did not close help")
	}
	m = pressKeys(t, m, "?", "?")
	if m.showHelp {
		t.Error("? did not toggle help closed")
	}
}

func TestQuitKey(t *testing.T) {
	m := sizedTestBrowser(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q command produced %T, want tea.QuitMsg", cmd())
	}
}

func TestRefreshKeyReturnsToRootLevel(t *testing.T) {
	m := sizedTestBrowser(t)
	m = pressKeys(t, m, "down", "right") // inside Software

	m = pressKeys(t, m, "f5")
	if m.err != nil {
		t.Fatalf("refresh failed: %v", m.err)
	}
	if m.current != nil {
		t.Error("refresh should land back on the root level")
	}
	if m.menu.Len() != 3 {
		t.Errorf("menu has %d items after refresh, want 3", m.menu.Len())
	}
	if got := m.selectedNode().Name(); got != "Hardware" {
		t.Errorf("selection after refresh = %q, want Hardware", got)
	}
	if !strings.Contains(m.status, "Reloaded") {
		t.Errorf("status = %q", m.status)
	}
}

func TestHiveChangePicksUpReplacedFile(t *testing.T) {
	m := sizedTestBrowser(t)

	img := hivetest.Build(hivetest.Key{
		Name:    "ROOT",
		Subkeys: []hivetest.Key{{Name: "Alpha"}, {Name: "Beta"}},
	})
	replaceHiveFile(t, m.path, img)

	m = applyMsg(t, m, hiveChangedMsg{})
	if m.err != nil {
		t.Fatalf("reload failed: %v", m.err)
	}
	if m.menu.Len() != 2 {
		t.Fatalf("menu has %d items, want the replacement's 2", m.menu.Len())
	}
	if got := m.selectedNode().Name(); got != "Alpha" {
		t.Errorf("selection = %q, want Alpha", got)
	}
	m.Close()
}

func TestReloadFailureKeepsSnapshot(t *testing.T) {
	m := sizedTestBrowser(t)
	replaceHiveFile(t, m.path, []byte("this is not a hive"))

	m = applyMsg(t, m, hiveChangedMsg{})
	if m.err != nil {
		t.Fatalf("browser gave up instead of keeping the old snapshot: %v", m.err)
	}
	if !m.statusErr || m.status == "" {
		t.Errorf("expected an error status, got %q (err=%v)", m.status, m.statusErr)
	}
	if m.menu.Len() != 3 {
		t.Fatalf("old tree gone: %d items", m.menu.Len())
	}

	// The old mapping must still be navigable.
	m = pressKeys(t, m, "down", "down")
	if got := m.selectedNode().Name(); got != "System" {
		t.Errorf("selection = %q, want System", got)
	}
	if len(m.values) != 3 {
		t.Errorf("System rows = %d, want 3", len(m.values))
	}
}

func TestMouseWheelMovesSelection(t *testing.T) {
	m := sizedTestBrowser(t)
	m = applyMsg(t, m, tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if got := m.selectedNode().Name(); got != "Software" {
		t.Errorf("wheel down selects %q, want Software", got)
	}
	m = applyMsg(t, m, tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if got := m.selectedNode().Name(); got != "Hardware" {
		t.Errorf("wheel up selects %q, want Hardware", got)
	}
}

func TestHeaderShowsDirtyFlag(t *testing.T) {
	img := hivetest.Build(browserFixture())
	format.PutU32(img, format.REGFPrimarySeqOffset, 7)
	format.PutU32(img, format.REGFSecondarySeqOffset, 8)
	hivetest.Rechecksum(img)

	path := writeFixtureHive(t) // reuse the temp dir layout
	replaceHiveFile(t, path, img)

	h, err := reader.Open(path)
	if err != nil {
		t.Fatalf("open dirty hive: %v", err)
	}
	m, err := newModel(path, h, config.DefaultConfig())
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	t.Cleanup(m.Close)

	m = applyMsg(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if !strings.Contains(m.View(), "DIRTY") {
		t.Error("header missing the DIRTY badge")
	}
}

func TestEmptyRootRendersPlaceholder(t *testing.T) {
	path := hivetest.WriteFile(t, hivetest.Key{Name: "ROOT"})
	h, err := reader.Open(path)
	if err != nil {
		t.Fatalf("open hive: %v", err)
	}
	m, err := newModel(path, h, config.DefaultConfig())
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	t.Cleanup(m.Close)

	m = applyMsg(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if m.selectedNode() != nil {
		t.Errorf("selection in an empty hive: %v", m.selectedNode())
	}
	if !strings.Contains(m.View(), "(no subkeys)") {
		t.Error("empty key pane placeholder missing")
	}

	// Navigation and copy are inert, not crashes.
	m = pressKeys(t, m, "down", "right", "left", "c")
	if m.current != nil {
		t.Errorf("current = %v", m.current)
	}
}

func TestTinyWindowStillRenders(t *testing.T) {
	m := newTestBrowser(t)
	m = applyMsg(t, m, tea.WindowSizeMsg{Width: 24, Height: 8})
	if m.View() == "" {
		t.Error("empty view at minimal size")
	}
	m = pressKeys(t, m, "down", "right", "left")
	if m.View() == "" {
		t.Error("empty view after navigating at minimal size")
	}
}

func TestRegistryPath(t *testing.T) {
	if got := registryPath(nil); got != "" {
		t.Errorf("registryPath(nil) = %q", got)
	}
	soft := tree.New(nil, "Software")
	vendor := tree.New(soft, "Vendor")
	deep := tree.New(vendor, "1.0")
	if got := registryPath(soft); got != "Software" {
		t.Errorf("top level = %q", got)
	}
	if got := registryPath(deep); got != `Software\Vendor\1.0` {
		t.Errorf("nested = %q", got)
	}
}
