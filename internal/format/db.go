package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/hivenav/internal/buf"
)

// DBRecord represents a "db" (Big Data) record. Values whose data exceeds a
// single cell's capacity are split across data blocks; the DB record points
// at a blocklist cell holding one offset per block.
//
//	Offset  Size  Field
//	0x00    2     'd' 'b'
//	0x02    2     Number of data blocks
//	0x04    4     Offset of the blocklist cell
//
// Blocks are concatenated in list order and truncated to the length declared
// by the owning VK record.
type DBRecord struct {
	NumBlocks       uint16
	BlocklistOffset uint32
}

// IsDBRecord reports whether b starts with the big-data signature. Hive
// version 1.3 stores large values in one oversized cell instead, so callers
// must check before assuming the DB layout.
func IsDBRecord(b []byte) bool {
	return len(b) >= SignatureSize && bytes.Equal(b[:SignatureSize], DBSignature)
}

// DecodeDB decodes a big-data record from a cell payload.
func DecodeDB(b []byte) (DBRecord, error) {
	if len(b) < DBMinSize {
		return DBRecord{}, fmt.Errorf("db: %w (have %d, need %d)", ErrTruncated, len(b), DBMinSize)
	}
	if !IsDBRecord(b) {
		return DBRecord{}, fmt.Errorf("db: %w", ErrSignatureMismatch)
	}
	count := buf.U16LE(b[DBCountOffset:])
	if count < DBMinBlockCount {
		return DBRecord{}, fmt.Errorf("db: block count %d below minimum %d: %w",
			count, DBMinBlockCount, ErrSanityLimit)
	}
	return DBRecord{
		NumBlocks:       count,
		BlocklistOffset: buf.U32LE(b[DBListOffset:]),
	}, nil
}

// DecodeBlocklist reads the block offsets referenced by a DB record from the
// blocklist cell payload.
func DecodeBlocklist(b []byte, count uint16) ([]uint32, error) {
	return decodeOffsets(b, uint32(count), OffsetFieldSize, "db blocklist")
}
