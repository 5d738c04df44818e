package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"unicode/utf16"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/hivenav/internal/config"
	"github.com/joshuapare/hivenav/internal/hivetest"
	"github.com/joshuapare/hivenav/internal/reader"
)

// utf16z encodes s as null-terminated UTF-16LE, the storage form of
// REG_SZ data.
func utf16z(s string) []byte {
	units := utf16.Encode([]rune(s + "\x00"))
	out := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(out[i*2:], u)
	}
	return out
}

func multiSZ(ss ...string) []byte {
	var out []byte
	for _, s := range ss {
		out = append(out, utf16z(s)...)
	}
	return append(out, 0, 0)
}

// browserFixture is the hive every command and browser test runs against:
// three top-level keys, one of them nested two deep, with a value of every
// decoded type spread across the tree.
//
//	ROOT            (default) REG_SZ
//	├── Hardware
//	├── Software
//	│   ├── Classes
//	│   └── Vendor   InstallPath REG_SZ, Build REG_DWORD
//	└── System       Boot REG_MULTI_SZ, Counter REG_QWORD, Blob REG_BINARY
func browserFixture() hivetest.Key {
	return hivetest.Key{
		Name: "ROOT",
		Values: []hivetest.Value{
			{Name: "", Type: uint32(reader.REG_SZ), Data: utf16z("root default")},
		},
		Subkeys: []hivetest.Key{
			{Name: "Hardware"},
			{Name: "Software", Subkeys: []hivetest.Key{
				{Name: "Classes"},
				{Name: "Vendor", Values: []hivetest.Value{
					{Name: "InstallPath", Type: uint32(reader.REG_SZ), Data: utf16z(`C:\Tools\Vendor`)},
					{Name: "Build", Type: uint32(reader.REG_DWORD), Data: []byte{0x2a, 0, 0, 0}},
				}},
			}},
			{Name: "System", Values: []hivetest.Value{
				{Name: "Boot", Type: uint32(reader.REG_MULTI_SZ), Data: multiSZ("hal.dll", "ntoskrnl.exe")},
				{Name: "Counter", Type: uint32(reader.REG_QWORD), Data: []byte{1, 2, 3, 4, 5, 6, 7, 8}},
				{Name: "Blob", Type: uint32(reader.REG_BINARY), Data: []byte{
					0xde, 0xad, 0xbe, 0xef, 0x00, 0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48, 0x49,
				}},
			}},
		},
	}
}

// writeFixtureHive writes the fixture hive to a temp file and returns its path.
func writeFixtureHive(t *testing.T) string {
	t.Helper()
	return hivetest.WriteFile(t, browserFixture())
}

// replaceHiveFile swaps the hive on disk the way registry tools do: write a
// sibling file, then rename it over the original. The original inode stays
// alive under any open mmap until the browser reopens the path.
func replaceHiveFile(t *testing.T, path string, img []byte) {
	t.Helper()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, img, 0o644); err != nil {
		t.Fatalf("write replacement hive: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("replace hive: %v", err)
	}
}

// newTestBrowser opens a browser Model over the fixture hive, with no
// watcher attached. Closed automatically when the test finishes.
func newTestBrowser(t *testing.T) Model {
	t.Helper()
	path := writeFixtureHive(t)
	h, err := reader.Open(path)
	if err != nil {
		t.Fatalf("open hive: %v", err)
	}
	m, err := newModel(path, h, config.DefaultConfig())
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

// sizedTestBrowser is newTestBrowser after the initial window size message.
func sizedTestBrowser(t *testing.T) Model {
	return applyMsg(t, newTestBrowser(t), tea.WindowSizeMsg{Width: 100, Height: 30})
}

// applyMsg routes one message through Update and returns the new Model.
func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out
}

// specialKeys maps pressKeys names to non-rune key types.
var specialKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"tab":       tea.KeyTab,
	"esc":       tea.KeyEscape,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"home":      tea.KeyHome,
	"end":       tea.KeyEnd,
	"pgup":      tea.KeyPgUp,
	"pgdown":    tea.KeyPgDown,
	"backspace": tea.KeyBackspace,
	"f5":        tea.KeyF5,
}

// pressKeys sends a sequence of key presses through Update.
func pressKeys(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		if kt, ok := specialKeys[k]; ok {
			msg = tea.KeyMsg{Type: kt}
		}
		m = applyMsg(t, m, msg)
	}
	return m
}

// resetCommandFlags returns every package-level command flag to its default
// so table subtests start clean.
func resetCommandFlags() {
	verbose = false
	quiet = false
	jsonOut = false
	configFlag = ""
	treeDepth = 3
	treeValues = false
	searchKeysOnly = false
	searchValuesOnly = false
	searchRegex = false
	searchCaseSensitive = false
	searchMaxResults = 0
	searchMaxDepth = 0
	searchKey = ""
	recentClear = false
	cfg = config.Config{}
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout

	// Read captured output
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
