package format

import (
	"errors"
	"testing"
)

// buildNK assembles a minimal NK payload with the given name bytes. Offsets
// not under test are left at their zero values, which decode fine.
func buildNK(flags uint16, name []byte, subkeys, values uint32) []byte {
	b := make([]byte, NKFixedHeaderSize+len(name))
	copy(b, NKSignature)
	PutU16(b, NKFlagsOffset, flags)
	PutU64(b, NKLastWriteOffset, 0xfeedface)
	PutU32(b, NKParentOffset, InvalidOffset)
	PutU32(b, NKSubkeyCountOffset, subkeys)
	PutU32(b, NKSubkeyListOffset, InvalidOffset)
	PutU32(b, NKValueCountOffset, values)
	PutU32(b, NKValueListOffset, InvalidOffset)
	PutU16(b, NKNameLenOffset, uint16(len(name)))
	copy(b[NKNameOffset:], name)
	return b
}

func TestDecodeNKCompressedName(t *testing.T) {
	b := buildNK(NKFlagCompressedName, []byte("ROOT"), 1, 2)
	PutU32(b, NKSubkeyListOffset, 0x200)
	PutU32(b, NKValueListOffset, 0x300)

	nk, err := DecodeNK(b)
	if err != nil {
		t.Fatalf("DecodeNK: %v", err)
	}
	if string(nk.NameRaw) != "ROOT" || !nk.NameIsCompressed() {
		t.Fatalf("unexpected name: %+v", nk)
	}
	if nk.SubkeyCount != 1 || nk.ValueCount != 2 {
		t.Fatalf("unexpected counts: %+v", nk)
	}
	if !nk.HasSubkeys() {
		t.Fatalf("expected HasSubkeys with count 1 and a list offset")
	}
	if nk.LastWriteRaw != 0xfeedface {
		t.Fatalf("lastwrite = %#x", nk.LastWriteRaw)
	}
}

func TestDecodeNKUTF16Name(t *testing.T) {
	// "abä" in UTF-16LE. Without the compressed flag the raw bytes pass
	// through untouched; decoding happens a layer up.
	name := []byte{0x61, 0x00, 0x62, 0x00, 0xE4, 0x00}
	nk, err := DecodeNK(buildNK(0, name, 0, 0))
	if err != nil {
		t.Fatalf("DecodeNK: %v", err)
	}
	if nk.NameIsCompressed() {
		t.Fatalf("expected uncompressed name")
	}
	if len(nk.NameRaw) != len(name) {
		t.Fatalf("NameRaw length = %d, want %d", len(nk.NameRaw), len(name))
	}
	if nk.HasSubkeys() {
		t.Fatalf("leaf key should not report subkeys")
	}
}

func TestDecodeNKRootFlag(t *testing.T) {
	nk, err := DecodeNK(buildNK(NKFlagRootKey|NKFlagCompressedName, []byte("HKLM"), 0, 0))
	if err != nil {
		t.Fatalf("DecodeNK: %v", err)
	}
	if !nk.IsRoot() {
		t.Fatalf("expected root flag to be detected")
	}
}

func TestDecodeNKTruncated(t *testing.T) {
	b := make([]byte, 2)
	copy(b, NKSignature)
	if _, err := DecodeNK(b); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestDecodeNKBadSignature(t *testing.T) {
	b := buildNK(0, nil, 0, 0)
	b[0], b[1] = 'v', 'k'
	if _, err := DecodeNK(b); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected ErrSignatureMismatch, got %v", err)
	}
}

func TestDecodeNKNameOverrun(t *testing.T) {
	b := buildNK(NKFlagCompressedName, []byte("AB"), 0, 0)
	PutU16(b, NKNameLenOffset, 200) // claims more name bytes than the payload holds
	if _, err := DecodeNK(b); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestDecodeNKSanityLimits(t *testing.T) {
	b := buildNK(NKFlagCompressedName, []byte("X"), 0, 0)
	PutU32(b, NKSubkeyCountOffset, MaxSubkeyCount+1)
	if _, err := DecodeNK(b); !errors.Is(err, ErrSanityLimit) {
		t.Fatalf("expected ErrSanityLimit for subkey count, got %v", err)
	}

	b = buildNK(NKFlagCompressedName, []byte("X"), 0, 0)
	PutU32(b, NKValueCountOffset, MaxValueCount+1)
	if _, err := DecodeNK(b); !errors.Is(err, ErrSanityLimit) {
		t.Fatalf("expected ErrSanityLimit for value count, got %v", err)
	}
}
