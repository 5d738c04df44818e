package format

import (
	"encoding/binary"
	"fmt"
)

// Little-endian field access for hive structures.
//
// The Put/Read pairs assume the caller has already established bounds (needed
// when assembling records during tests or walking a validated structure). The
// Checked variants verify bounds and are what the record decoders use, since
// they operate on payloads whose declared sizes cannot be trusted.

// PutU16 writes a uint16 at off in little-endian form.
func PutU16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:off+2], v)
}

// PutU32 writes a uint32 at off in little-endian form.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// PutI32 writes an int32 at off in little-endian form.
func PutI32(b []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(b[off:off+4], uint32(v))
}

// PutU64 writes a uint64 at off in little-endian form.
func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}

// ReadU16 reads a little-endian uint16 at off.
func ReadU16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off : off+2])
}

// ReadU32 reads a little-endian uint32 at off.
func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// ReadI32 reads a little-endian int32 at off.
func ReadI32(b []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(b[off : off+4]))
}

// ReadU64 reads a little-endian uint64 at off.
func ReadU64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}

// CheckedReadU16 reads a little-endian uint16 at off, verifying bounds.
func CheckedReadU16(b []byte, off int) (uint16, error) {
	if off < 0 || off+2 > len(b) {
		return 0, fmt.Errorf("read u16 at %d: %w", off, ErrTruncated)
	}
	return binary.LittleEndian.Uint16(b[off:]), nil
}

// CheckedReadU32 reads a little-endian uint32 at off, verifying bounds.
func CheckedReadU32(b []byte, off int) (uint32, error) {
	if off < 0 || off+4 > len(b) {
		return 0, fmt.Errorf("read u32 at %d: %w", off, ErrTruncated)
	}
	return binary.LittleEndian.Uint32(b[off:]), nil
}

// CheckedReadU64 reads a little-endian uint64 at off, verifying bounds.
func CheckedReadU64(b []byte, off int) (uint64, error) {
	if off < 0 || off+8 > len(b) {
		return 0, fmt.Errorf("read u64 at %d: %w", off, ErrTruncated)
	}
	return binary.LittleEndian.Uint64(b[off:]), nil
}
