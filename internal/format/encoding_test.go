package format

import (
	"errors"
	"testing"
)

func TestPutReadRoundTrip(t *testing.T) {
	b := make([]byte, 24)
	PutU16(b, 0, 0xBEEF)
	PutU32(b, 2, 0xDEADBEEF)
	PutI32(b, 6, -48)
	PutU64(b, 10, 0x0123456789ABCDEF)

	if ReadU16(b, 0) != 0xBEEF {
		t.Fatalf("u16 round trip failed")
	}
	if ReadU32(b, 2) != 0xDEADBEEF {
		t.Fatalf("u32 round trip failed")
	}
	if ReadI32(b, 6) != -48 {
		t.Fatalf("i32 round trip failed")
	}
	if ReadU64(b, 10) != 0x0123456789ABCDEF {
		t.Fatalf("u64 round trip failed")
	}
}

func TestCheckedReads(t *testing.T) {
	b := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	if v, err := CheckedReadU16(b, 0); err != nil || v != 0x0201 {
		t.Fatalf("CheckedReadU16 = %#x, %v", v, err)
	}
	if v, err := CheckedReadU32(b, 4); err != nil || v != 0x08070605 {
		t.Fatalf("CheckedReadU32 = %#x, %v", v, err)
	}
	if v, err := CheckedReadU64(b, 0); err != nil || v != 0x0807060504030201 {
		t.Fatalf("CheckedReadU64 = %#x, %v", v, err)
	}

	if _, err := CheckedReadU16(b, 7); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if _, err := CheckedReadU32(b, 6); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if _, err := CheckedReadU64(b, 1); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if _, err := CheckedReadU16(b, -1); err == nil {
		t.Fatalf("expected error for negative offset")
	}
}
