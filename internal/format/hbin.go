package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/hivenav/internal/buf"
)

// HBIN describes a hive bin. Each bin begins with a 0x20-byte header
// (little-endian):
//
//	Offset  Size  Field
//	0x00    4     'h' 'b' 'i' 'n'
//	0x04    4     Offset of this bin relative to the first bin
//	0x08    4     Size of this bin, a multiple of 0x1000
//	0x14    8     Timestamp (first bin only)
//	0x1C    4     Spare
//
// Only the fields needed to iterate cells safely are retained.
type HBIN struct {
	FileOffset uint32
	Size       uint32
}

// NextHBIN validates the bin header at off within b and returns it along with
// the offset of the subsequent bin.
func NextHBIN(b []byte, off int) (HBIN, int, error) {
	if off < 0 || off+HBINHeaderSize > len(b) {
		return HBIN{}, 0, fmt.Errorf("hbin: %w", ErrTruncated)
	}
	head := b[off : off+HBINHeaderSize]
	if !bytes.Equal(head[:HBINSignatureSize], HBINSignature) {
		return HBIN{}, 0, fmt.Errorf("hbin: %w", ErrSignatureMismatch)
	}
	fileOff := buf.U32LE(head[HBINFileOffsetField:])
	size := buf.U32LE(head[HBINSizeOffset:])
	if size == 0 || size%HBINAlignment != 0 {
		return HBIN{}, 0, fmt.Errorf("hbin: invalid size %d", size)
	}
	next := off + int(size)
	if next > len(b) {
		return HBIN{}, 0, fmt.Errorf("hbin: %w", ErrTruncated)
	}
	return HBIN{FileOffset: fileOff, Size: size}, next, nil
}
