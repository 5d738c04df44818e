package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/hivenav/internal/buf"
)

// NKRecord captures the metadata a read-only walk needs from an NK record.
// NK cells describe registry keys. The structure (simplified):
//
//	Offset  Size  Field
//	0x00    2     'n' 'k'
//	0x02    2     Flags (bit 0x20 => name stored as 8-bit)
//	0x04    8     Last write time (FILETIME)
//	0x10    4     Parent cell offset (ignored; traversal supplies parents)
//	0x14    4     Number of subkeys
//	0x1C    4     Offset to subkey list
//	0x24    4     Number of values
//	0x28    4     Offset to value list
//	0x48    2     Name length in bytes
//	0x4C    n     Name bytes (Windows-1252 or UTF-16LE)
//
// Volatile counterparts, security and class references, and the cached
// maximum-length fields are skipped entirely.
type NKRecord struct {
	Flags            uint16
	LastWriteRaw     uint64
	SubkeyCount      uint32
	SubkeyListOffset uint32
	ValueCount       uint32
	ValueListOffset  uint32
	NameLength       uint16
	NameRaw          []byte
}

// NameIsCompressed returns true when the name is stored in 8-bit form.
func (nk NKRecord) NameIsCompressed() bool {
	return nk.Flags&NKFlagCompressedName != 0
}

// IsRoot returns true when the record is flagged as the hive's root key.
func (nk NKRecord) IsRoot() bool {
	return nk.Flags&NKFlagRootKey != 0
}

// HasSubkeys returns true when the stable subkey list is non-empty.
func (nk NKRecord) HasSubkeys() bool {
	return nk.SubkeyCount > 0 && nk.SubkeyListOffset != InvalidOffset
}

// DecodeNK decodes an NK record payload with full bounds checking.
func DecodeNK(b []byte) (NKRecord, error) {
	if len(b) < NKMinSize {
		return NKRecord{}, fmt.Errorf("nk: %w (have %d, need %d)", ErrTruncated, len(b), NKMinSize)
	}
	if !bytes.Equal(b[:SignatureSize], NKSignature) {
		return NKRecord{}, fmt.Errorf("nk: %w", ErrSignatureMismatch)
	}

	flags, err := CheckedReadU16(b, NKFlagsOffset)
	if err != nil {
		return NKRecord{}, fmt.Errorf("nk flags: %w", err)
	}

	lastWrite, err := CheckedReadU64(b, NKLastWriteOffset)
	if err != nil {
		return NKRecord{}, fmt.Errorf("nk lastwrite: %w", err)
	}

	subkeyCount, err := CheckedReadU32(b, NKSubkeyCountOffset)
	if err != nil {
		return NKRecord{}, fmt.Errorf("nk subkey count: %w", err)
	}
	if subkeyCount > MaxSubkeyCount {
		return NKRecord{}, fmt.Errorf("nk subkey count %d exceeds limit %d: %w",
			subkeyCount, MaxSubkeyCount, ErrSanityLimit)
	}

	subkeyListOff, err := CheckedReadU32(b, NKSubkeyListOffset)
	if err != nil {
		return NKRecord{}, fmt.Errorf("nk subkey list: %w", err)
	}

	valueCount, err := CheckedReadU32(b, NKValueCountOffset)
	if err != nil {
		return NKRecord{}, fmt.Errorf("nk value count: %w", err)
	}
	if valueCount > MaxValueCount {
		return NKRecord{}, fmt.Errorf("nk value count %d exceeds limit %d: %w",
			valueCount, MaxValueCount, ErrSanityLimit)
	}

	valueListOff, err := CheckedReadU32(b, NKValueListOffset)
	if err != nil {
		return NKRecord{}, fmt.Errorf("nk value list: %w", err)
	}

	nameLen, err := CheckedReadU16(b, NKNameLenOffset)
	if err != nil {
		return NKRecord{}, fmt.Errorf("nk name len: %w", err)
	}
	if int(nameLen) > MaxNameLen {
		return NKRecord{}, fmt.Errorf("nk name len %d exceeds limit %d: %w",
			nameLen, MaxNameLen, ErrSanityLimit)
	}

	nameEnd, ok := buf.AddOverflowSafe(NKNameOffset, int(nameLen))
	if !ok || nameEnd > len(b) {
		return NKRecord{}, fmt.Errorf("nk name: %w (need %d bytes from %d, have %d)",
			ErrTruncated, nameLen, NKNameOffset, len(b))
	}

	return NKRecord{
		Flags:            flags,
		LastWriteRaw:     lastWrite,
		SubkeyCount:      subkeyCount,
		SubkeyListOffset: subkeyListOff,
		ValueCount:       valueCount,
		ValueListOffset:  valueListOff,
		NameLength:       nameLen,
		NameRaw:          b[NKNameOffset:nameEnd],
	}, nil
}
