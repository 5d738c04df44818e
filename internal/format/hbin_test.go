package format

import (
	"errors"
	"testing"
)

func TestNextHBINValid(t *testing.T) {
	b := make([]byte, HeaderSize+2*HBINAlignment)
	copy(b[HeaderSize:], HBINSignature)
	PutU32(b, HeaderSize+HBINFileOffsetField, 0)
	PutU32(b, HeaderSize+HBINSizeOffset, HBINAlignment)

	h, next, err := NextHBIN(b, HeaderSize)
	if err != nil {
		t.Fatalf("NextHBIN: %v", err)
	}
	if h.FileOffset != 0 || h.Size != HBINAlignment {
		t.Fatalf("unexpected hbin: %+v", h)
	}
	if next != HeaderSize+HBINAlignment {
		t.Fatalf("next = %d, want %d", next, HeaderSize+HBINAlignment)
	}
}

func TestNextHBINBadSignature(t *testing.T) {
	b := make([]byte, HeaderSize+HBINAlignment)
	copy(b[HeaderSize:], []byte("nope"))
	if _, _, err := NextHBIN(b, HeaderSize); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected ErrSignatureMismatch, got %v", err)
	}
}

func TestNextHBINBadSize(t *testing.T) {
	b := make([]byte, HeaderSize+HBINAlignment)
	copy(b[HeaderSize:], HBINSignature)
	PutU32(b, HeaderSize+HBINSizeOffset, HBINAlignment+8) // not 4K aligned
	if _, _, err := NextHBIN(b, HeaderSize); err == nil {
		t.Fatalf("expected error for misaligned size")
	}

	PutU32(b, HeaderSize+HBINSizeOffset, 2*HBINAlignment) // runs past the image
	if _, _, err := NextHBIN(b, HeaderSize); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}
