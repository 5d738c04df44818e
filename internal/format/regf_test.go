package format

import (
	"errors"
	"testing"
)

func TestParseHeaderSuccess(t *testing.T) {
	b := make([]byte, HeaderSize)
	copy(b, REGFSignature)
	PutU32(b, REGFPrimarySeqOffset, 3)
	PutU32(b, REGFSecondarySeqOffset, 3)
	PutU64(b, REGFTimeStampOffset, 123456789)
	PutU32(b, REGFMajorVersionOffset, 1)
	PutU32(b, REGFMinorVersionOffset, 5)
	PutU32(b, REGFRootCellOffset, 0x20)
	PutU32(b, REGFDataSizeOffset, 0x3000)
	PutU32(b, REGFCheckSumOffset, ChecksumOf(b))

	hdr, err := ParseHeader(b)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if hdr.PrimarySequence != 3 || hdr.SecondarySequence != 3 || hdr.Dirty() {
		t.Fatalf("sequence mismatch: %+v", hdr)
	}
	if hdr.MajorVersion != 1 || hdr.MinorVersion != 5 {
		t.Fatalf("version mismatch: %+v", hdr)
	}
	if hdr.RootCellOffset != 0x20 || hdr.HiveBinsDataSize != 0x3000 {
		t.Fatalf("layout fields mismatch: %+v", hdr)
	}
	if hdr.Checksum != ChecksumOf(b) {
		t.Fatalf("checksum not carried through: %+v", hdr)
	}
}

func TestParseHeaderDirty(t *testing.T) {
	b := make([]byte, HeaderSize)
	copy(b, REGFSignature)
	PutU32(b, REGFPrimarySeqOffset, 7)
	PutU32(b, REGFSecondarySeqOffset, 6)
	hdr, err := ParseHeader(b)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if !hdr.Dirty() {
		t.Fatalf("expected dirty header for mismatched sequences")
	}
}

func TestParseHeaderErrors(t *testing.T) {
	b := make([]byte, HeaderSize)
	if _, err := ParseHeader(b[:10]); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	copy(b, []byte{'B', 'A', 'D', '!'})
	if _, err := ParseHeader(b); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected ErrSignatureMismatch, got %v", err)
	}
}

func TestChecksumConventions(t *testing.T) {
	// All-zero region XORs to zero, which the kernel stores as 1.
	b := make([]byte, HeaderSize)
	if got := ChecksumOf(b); got != 1 {
		t.Fatalf("zero-region checksum = %d, want 1", got)
	}

	// 127 dwords of 0xFFFFFFFF XOR to 0xFFFFFFFF, stored as 0xFFFFFFFE.
	for i := 0; i < REGFChecksumRegionLen; i++ {
		b[i] = 0xFF
	}
	if got := ChecksumOf(b); got != 0xFFFFFFFE {
		t.Fatalf("saturated checksum = %#x, want 0xFFFFFFFE", got)
	}

	// A normal header yields the plain XOR.
	b = make([]byte, HeaderSize)
	copy(b, REGFSignature)
	want := ReadU32(b, 0) // only the signature dword is non-zero
	if got := ChecksumOf(b); got != want {
		t.Fatalf("checksum = %#x, want %#x", got, want)
	}
}
