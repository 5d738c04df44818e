package logger

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestInitDisabledWritesNothing(t *testing.T) {
	dir := t.TempDir()

	if err := Init(Options{Enabled: false, LogDir: dir}); err != nil {
		t.Fatal(err)
	}
	Info("should vanish")

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no log files, found %d", len(entries))
	}
}

func TestInitWritesDatedJSONFile(t *testing.T) {
	dir := t.TempDir()

	if err := Init(Options{Enabled: true, LogDir: dir, Level: "debug"}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { Init(Options{Enabled: false}) })

	Debug("opening hive", "path", "system.hiv")

	want := filepath.Join(dir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("expected log file %s: %v", want, err)
	}

	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["msg"] != "opening hive" {
		t.Errorf("msg = %v, expected %q", rec["msg"], "opening hive")
	}
	if rec["path"] != "system.hiv" {
		t.Errorf("path = %v, expected %q", rec["path"], "system.hiv")
	}
}

func TestInitLevelFiltersDebug(t *testing.T) {
	dir := t.TempDir()

	if err := Init(Options{Enabled: true, LogDir: dir, Level: "warn"}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { Init(Options{Enabled: false}) })

	Debug("too quiet")
	Warn("loud enough")

	name := filepath.Join(dir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.Contains(got, "loud enough") {
		t.Errorf("warn line missing from log: %q", got)
	}
	if strings.Contains(got, "too quiet") {
		t.Errorf("debug line should have been filtered: %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{" Info ", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"chatty", slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tc.in, got, tc.want)
		}
	}
}

func TestCleanOldLogsRemovesStaleFiles(t *testing.T) {
	dir := t.TempDir()

	stale := filepath.Join(dir, logPrefix+"2019-03-02"+logSuffix)
	fresh := filepath.Join(dir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
	unrelated := filepath.Join(dir, "notes.txt")
	for _, p := range []string{stale, fresh, unrelated} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cleanOldLogs(dir)

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale log should have been removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("current log should have been kept")
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Error("unrelated file should have been kept")
	}
}
