package format

import (
	"errors"
	"fmt"

	"github.com/joshuapare/hivenav/internal/buf"
)

// Cell represents a single allocation (free or in-use) within an HBIN.
//
// Cell header layout (little-endian):
//
//	Offset  Size  Description
//	0x00    4     Signed size. Negative => allocated, positive => free.
//	              The absolute value includes the 4-byte header.
//	0x04    ...   Payload. First two bytes form the record tag when allocated.
type Cell struct {
	Offset int  // Offset relative to the start of the hive image
	Size   int  // Total size including header
	Free   bool // True when the cell is marked as free
	Tag    [SignatureSize]byte
	Data   []byte // Payload bytes (alias of underlying buffer)
}

// NextCell decodes the cell at off within the given bin and returns it plus
// the offset of the following cell. The caller must ensure off points at a
// cell header inside the bin.
func NextCell(b []byte, h HBIN, off int) (Cell, int, error) {
	if off < 0 || off+CellHeaderSize > len(b) {
		return Cell{}, 0, fmt.Errorf("cell: %w", ErrTruncated)
	}
	binStart := HiveDataBase + int(h.FileOffset)
	binEnd := binStart + int(h.Size)
	if off < binStart+HBINHeaderSize || off >= binEnd {
		return Cell{}, 0, fmt.Errorf("cell: offset %d outside hbin", off)
	}
	raw := buf.I32LE(b[off:])
	if raw == 0 {
		return Cell{}, 0, errors.New("cell: zero length")
	}
	allocated := raw < 0
	size := int(raw)
	if allocated {
		size = -size
	}
	if size < CellHeaderSize || size%CellAlignment != 0 {
		return Cell{}, 0, fmt.Errorf("cell: bad declared size %d", size)
	}
	next := off + size
	if next > binEnd {
		return Cell{}, 0, fmt.Errorf("cell: %w", ErrTruncated)
	}
	payload := b[off+CellHeaderSize : off+size]
	var tag [SignatureSize]byte
	if len(payload) >= SignatureSize {
		tag[0], tag[1] = payload[0], payload[1]
	}
	return Cell{
		Offset: off,
		Size:   size,
		Free:   !allocated,
		Tag:    tag,
		Data:   payload,
	}, next, nil
}

// PayloadAt resolves a stored cell offset (relative to the first HBIN) into
// the cell's payload bytes within the full hive image. The cell must be
// allocated; records never reference free cells.
func PayloadAt(b []byte, off uint32) ([]byte, error) {
	if off == InvalidOffset {
		return nil, fmt.Errorf("cell at 0x%x: %w", off, ErrTruncated)
	}
	abs, ok := buf.AddOverflowSafe(HiveDataBase, int(off))
	if !ok || abs+CellHeaderSize > len(b) {
		return nil, fmt.Errorf("cell at 0x%x: %w", off, ErrTruncated)
	}
	raw := buf.I32LE(b[abs:])
	if raw >= 0 {
		return nil, fmt.Errorf("cell at 0x%x: %w", off, ErrFreeCell)
	}
	size := int(-raw)
	if size < CellHeaderSize {
		return nil, fmt.Errorf("cell at 0x%x: bad declared size %d", off, size)
	}
	end, ok := buf.AddOverflowSafe(abs, size)
	if !ok || end > len(b) {
		return nil, fmt.Errorf("cell at 0x%x: %w", off, ErrTruncated)
	}
	return b[abs+CellHeaderSize : end], nil
}
