package format

import (
	"errors"
	"testing"
)

func buildLeafList(sig []byte, stride int, offsets ...uint32) []byte {
	b := make([]byte, ListHeaderSize+len(offsets)*stride)
	copy(b, sig)
	PutU16(b, IdxCountOffset, uint16(len(offsets)))
	for i, off := range offsets {
		PutU32(b, IdxListOffset+i*stride, off)
	}
	return b
}

func TestDecodeSubkeyListLF(t *testing.T) {
	b := buildLeafList(LFSignature, LFEntrySize, 0x100, 0x200, 0x300)
	got, err := DecodeSubkeyList(b, 0)
	if err != nil {
		t.Fatalf("DecodeSubkeyList: %v", err)
	}
	if len(got) != 3 || got[0] != 0x100 || got[2] != 0x300 {
		t.Fatalf("unexpected offsets: %#v", got)
	}
}

func TestDecodeSubkeyListLI(t *testing.T) {
	b := buildLeafList(LISignature, LIEntrySize, 0x80, 0xA0)
	got, err := DecodeSubkeyList(b, 0)
	if err != nil {
		t.Fatalf("DecodeSubkeyList: %v", err)
	}
	if len(got) != 2 || got[1] != 0xA0 {
		t.Fatalf("unexpected offsets: %#v", got)
	}
}

func TestDecodeSubkeyListCapped(t *testing.T) {
	// The NK's subkey count wins when the list claims more entries.
	b := buildLeafList(LHSignature, LFEntrySize, 0x100, 0x200, 0x300)
	got, err := DecodeSubkeyList(b, 2)
	if err != nil {
		t.Fatalf("DecodeSubkeyList: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("cap ignored: %#v", got)
	}
}

func TestDecodeSubkeyListTruncated(t *testing.T) {
	b := buildLeafList(LFSignature, LFEntrySize, 0x100, 0x200)
	PutU16(b, IdxCountOffset, 40)
	if _, err := DecodeSubkeyList(b, 0); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestDecodeSubkeyListUnknownKind(t *testing.T) {
	b := buildLeafList([]byte{'z', 'z'}, LIEntrySize, 0x100)
	if _, err := DecodeSubkeyList(b, 0); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestDecodeRIList(t *testing.T) {
	b := buildLeafList(RISignature, RIEntrySize, 0x1000, 0x2000)
	if !IsRIList(b) {
		t.Fatalf("IsRIList should detect the signature")
	}
	got, err := DecodeRIList(b)
	if err != nil {
		t.Fatalf("DecodeRIList: %v", err)
	}
	if len(got) != 2 || got[0] != 0x1000 || got[1] != 0x2000 {
		t.Fatalf("unexpected leaf offsets: %#v", got)
	}

	if _, err := DecodeRIList(buildLeafList(LFSignature, LFEntrySize, 1)); err == nil {
		t.Fatalf("expected error for non-RI input")
	}
}

func TestDecodeValueList(t *testing.T) {
	b := make([]byte, 3*OffsetFieldSize)
	PutU32(b, 0, 0x10)
	PutU32(b, OffsetFieldSize, 0x20)
	PutU32(b, 2*OffsetFieldSize, 0x30)

	got, err := DecodeValueList(b, 3)
	if err != nil {
		t.Fatalf("DecodeValueList: %v", err)
	}
	if len(got) != 3 || got[2] != 0x30 {
		t.Fatalf("unexpected offsets: %#v", got)
	}

	if got, err := DecodeValueList(nil, 0); err != nil || got != nil {
		t.Fatalf("zero-count list should decode to nil: %#v, %v", got, err)
	}

	if _, err := DecodeValueList(b, 4); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}
