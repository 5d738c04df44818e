package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/hivenav/internal/format"
	"github.com/joshuapare/hivenav/internal/hivetest"
)

func TestInfoCommand(t *testing.T) {
	resetCommandFlags()
	path := writeFixtureHive(t)

	output, err := captureOutput(t, func() error {
		return runInfo([]string{path})
	})
	if err != nil {
		t.Fatalf("runInfo: %v", err)
	}

	assertContains(t, output, []string{
		"Hive Information:",
		"Format version: 1.5",
		"Root key: ROOT",
		"Last written: 2023-05-17T12:00:00Z",
		"Hive bins: 1",
		"Keys: 6",
		"Values: 6",
		"Max depth: 2",
		"✓ Header checksum valid",
		"✓ Sequence numbers consistent",
	})
}

func TestInfoCommandJSON(t *testing.T) {
	resetCommandFlags()
	jsonOut = true
	path := writeFixtureHive(t)

	output, err := captureOutput(t, func() error {
		return runInfo([]string{path})
	})
	if err != nil {
		t.Fatalf("runInfo: %v", err)
	}
	assertJSON(t, output)

	var report infoReport
	if err := json.Unmarshal([]byte(output), &report); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, output)
	}
	if report.RootKey != "ROOT" || report.Version != "1.5" {
		t.Errorf("header fields = %+v", report)
	}
	if report.TotalKeys != 6 || report.TotalValues != 6 || report.MaxDepth != 2 {
		t.Errorf("totals = keys %d values %d depth %d", report.TotalKeys, report.TotalValues, report.MaxDepth)
	}
	if report.Dirty || !report.ChecksumOK {
		t.Errorf("consistency = dirty %v checksumOK %v", report.Dirty, report.ChecksumOK)
	}
}

func TestInfoCommandDirtyHive(t *testing.T) {
	resetCommandFlags()

	img := hivetest.Build(browserFixture())
	format.PutU32(img, format.REGFPrimarySeqOffset, 7)
	format.PutU32(img, format.REGFSecondarySeqOffset, 8)
	hivetest.Rechecksum(img)

	path := filepath.Join(t.TempDir(), "dirty.hive")
	if err := os.WriteFile(path, img, 0o644); err != nil {
		t.Fatalf("write hive: %v", err)
	}

	output, err := captureOutput(t, func() error {
		return runInfo([]string{path})
	})
	if err != nil {
		t.Fatalf("runInfo: %v", err)
	}
	assertContains(t, output, []string{
		"✗ Sequence numbers disagree (interrupted flush)",
		"✓ Header checksum valid",
	})
}

func TestInfoCommandBadChecksum(t *testing.T) {
	resetCommandFlags()

	img := hivetest.Build(browserFixture())
	img[format.REGFCheckSumOffset] ^= 0xff // stored checksum no longer matches

	path := filepath.Join(t.TempDir(), "badsum.hive")
	if err := os.WriteFile(path, img, 0o644); err != nil {
		t.Fatalf("write hive: %v", err)
	}

	output, err := captureOutput(t, func() error {
		return runInfo([]string{path})
	})
	if err != nil {
		t.Fatalf("runInfo: %v", err)
	}
	assertContains(t, output, []string{
		"✗ Header checksum mismatch",
		"✓ Sequence numbers consistent",
	})
}
