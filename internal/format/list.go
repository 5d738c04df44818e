package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/hivenav/internal/buf"
)

// DecodeSubkeyList extracts NK offsets from leaf list records (LI, LF, LH).
// Each entry stores the offset of a child NK cell; LF/LH additionally store a
// name hint or hash, skipped here because higher layers compare full names.
// A non-zero max caps the number of entries taken, since a corrupt count
// field must not outrun the NK record's own subkey count.
func DecodeSubkeyList(b []byte, max uint32) ([]uint32, error) {
	if len(b) < ListHeaderSize {
		return nil, fmt.Errorf("subkey list: %w", ErrTruncated)
	}
	sig := b[:SignatureSize]
	count := uint32(buf.U16LE(b[IdxCountOffset:]))
	if max != 0 && max < count {
		count = max
	}
	switch {
	case bytes.Equal(sig, LISignature):
		return decodeOffsets(b[IdxListOffset:], count, LIEntrySize, "li list")
	case bytes.Equal(sig, LFSignature):
		return decodeOffsets(b[IdxListOffset:], count, LFEntrySize, "lf list")
	case bytes.Equal(sig, LHSignature):
		return decodeOffsets(b[IdxListOffset:], count, LFEntrySize, "lh list")
	default:
		return nil, fmt.Errorf("subkey list %q: %w", sig, ErrUnsupported)
	}
}

// decodeOffsets reads count entries of stride bytes each, taking the leading
// uint32 of every entry.
func decodeOffsets(b []byte, count uint32, stride int, what string) ([]uint32, error) {
	if _, err := buf.CheckListBounds(len(b), 0, int(count), stride); err != nil {
		return nil, fmt.Errorf("%s: %w (%v)", what, ErrTruncated, err)
	}
	out := make([]uint32, count)
	for i := range out {
		out[i] = buf.U32LE(b[i*stride:])
	}
	return out, nil
}

// IsRIList reports whether b starts an RI (indirect) list. Keys with very
// many subkeys spread their entries across several leaf lists referenced by
// one RI record.
func IsRIList(b []byte) bool {
	return len(b) >= SignatureSize && bytes.Equal(b[:SignatureSize], RISignature)
}

// DecodeRIList returns the offsets of the leaf lists an RI record points at.
// The caller fetches and decodes each leaf itself.
func DecodeRIList(b []byte) ([]uint32, error) {
	if len(b) < ListHeaderSize {
		return nil, fmt.Errorf("ri list: %w", ErrTruncated)
	}
	if !IsRIList(b) {
		return nil, fmt.Errorf("ri list: %w", ErrSignatureMismatch)
	}
	count := uint32(buf.U16LE(b[IdxCountOffset:]))
	return decodeOffsets(b[IdxListOffset:], count, RIEntrySize, "ri list")
}

// DecodeValueList decodes a value list: a bare array of VK cell offsets with
// no header. The count comes from the owning NK record.
func DecodeValueList(b []byte, count uint32) ([]uint32, error) {
	if count == 0 {
		return nil, nil
	}
	return decodeOffsets(b, count, OffsetFieldSize, "value list")
}
