// Package hivetest synthesizes small but structurally valid registry hive
// images for tests. Images carry a correct REGF checksum, a single hive bin
// and properly chained cells, so they exercise the same decode paths as
// hives pulled off a real system. Tests mutate the returned image directly
// when they need corruption.
package hivetest

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/joshuapare/hivenav/internal/format"
)

// Value describes one registry value to synthesize. Data longer than a
// big-data chunk is automatically split across db blocks.
type Value struct {
	Name string
	Type uint32
	Data []byte
}

// Key describes one registry key to synthesize. A zero LastWrite becomes a
// fixed timestamp so images stay byte-for-byte deterministic.
type Key struct {
	Name      string
	LastWrite time.Time
	Values    []Value
	Subkeys   []Key
}

// defaultStamp keeps generated images deterministic.
var defaultStamp = time.Date(2023, 5, 17, 12, 0, 0, 0, time.UTC)

// Build assembles a complete hive image with root as the root key.
func Build(root Key) []byte {
	return build(root, 0)
}

// BuildWithLeafFanout splits subkey lists into ri-indexed leaves of at most
// fanout entries each, the layout Windows uses once a key accumulates a few
// hundred children.
func BuildWithLeafFanout(root Key, fanout int) []byte {
	return build(root, fanout)
}

func build(root Key, fanout int) []byte {
	b := &builder{leafFanout: fanout}
	rootOff := b.key(root, true)

	binSize := format.AlignHBIN(format.HBINHeaderSize + len(b.cells))
	image := make([]byte, format.HeaderSize+binSize)

	// Bin header. The offset field is relative to the first bin.
	bin := image[format.HeaderSize:]
	copy(bin, format.HBINSignature)
	format.PutU32(bin, format.HBINFileOffsetField, 0)
	format.PutU32(bin, format.HBINSizeOffset, uint32(binSize))
	copy(bin[format.HBINHeaderSize:], b.cells)

	// Mark the slack after the last cell as one free cell so walkers
	// terminate cleanly.
	if rem := binSize - format.HBINHeaderSize - len(b.cells); rem > 0 {
		format.PutI32(bin, format.HBINHeaderSize+len(b.cells), int32(rem))
	}

	copy(image, format.REGFSignature)
	format.PutU32(image, format.REGFPrimarySeqOffset, 1)
	format.PutU32(image, format.REGFSecondarySeqOffset, 1)
	format.PutU64(image, format.REGFTimeStampOffset, format.TimeToFiletime(defaultStamp))
	format.PutU32(image, format.REGFMajorVersionOffset, 1)
	format.PutU32(image, format.REGFMinorVersionOffset, 5)
	format.PutU32(image, format.REGFTypeOffset, 0)
	format.PutU32(image, format.REGFRootCellOffset, rootOff)
	format.PutU32(image, format.REGFDataSizeOffset, uint32(binSize))
	format.PutU32(image, format.REGFCheckSumOffset, format.ChecksumOf(image))
	return image
}

// WriteFile builds the image and writes it into a temp directory owned by t.
func WriteFile(t *testing.T, root Key) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.hive")
	if err := os.WriteFile(path, Build(root), 0o644); err != nil {
		t.Fatalf("write hive image: %v", err)
	}
	return path
}

// Rechecksum recomputes the header checksum after a test mutated the image.
func Rechecksum(image []byte) {
	format.PutU32(image, format.REGFCheckSumOffset, format.ChecksumOf(image))
}

type builder struct {
	cells      []byte
	leafFanout int
}

// alloc appends one allocated cell holding payload and returns its offset
// relative to the start of hive data.
func (b *builder) alloc(payload []byte) uint32 {
	size := format.Align8(format.CellHeaderSize + len(payload))
	off := uint32(format.HBINHeaderSize + len(b.cells))
	cell := make([]byte, size)
	format.PutI32(cell, 0, int32(-size))
	copy(cell[format.CellHeaderSize:], payload)
	b.cells = append(b.cells, cell...)
	return off
}

func (b *builder) key(k Key, isRoot bool) uint32 {
	childOffs := make([]uint32, len(k.Subkeys))
	childNames := make([]string, len(k.Subkeys))
	for i, sub := range k.Subkeys {
		childOffs[i] = b.key(sub, false)
		childNames[i] = sub.Name
	}
	subkeyListOff := uint32(format.InvalidOffset)
	if len(childOffs) > 0 {
		subkeyListOff = b.subkeyIndex(childOffs, childNames)
	}

	valueOffs := make([]uint32, len(k.Values))
	for i, v := range k.Values {
		valueOffs[i] = b.value(v)
	}
	valueListOff := uint32(format.InvalidOffset)
	if len(valueOffs) > 0 {
		valueListOff = b.offsetList(valueOffs)
	}

	nameRaw, compressed := encodeName(k.Name)
	payload := make([]byte, format.NKMinSize+len(nameRaw))
	copy(payload, format.NKSignature)
	flags := uint16(0)
	if compressed {
		flags |= format.NKFlagCompressedName
	}
	if isRoot {
		flags |= format.NKFlagRootKey
	}
	stamp := k.LastWrite
	if stamp.IsZero() {
		stamp = defaultStamp
	}
	format.PutU16(payload, format.NKFlagsOffset, flags)
	format.PutU64(payload, format.NKLastWriteOffset, format.TimeToFiletime(stamp))
	format.PutU32(payload, format.NKSubkeyCountOffset, uint32(len(childOffs)))
	format.PutU32(payload, format.NKSubkeyListOffset, subkeyListOff)
	format.PutU32(payload, format.NKValueCountOffset, uint32(len(valueOffs)))
	format.PutU32(payload, format.NKValueListOffset, valueListOff)
	format.PutU16(payload, format.NKNameLenOffset, uint16(len(nameRaw)))
	copy(payload[format.NKNameOffset:], nameRaw)
	return b.alloc(payload)
}

// subkeyIndex emits either a single lf leaf or, when the fanout is exceeded,
// several leaves behind one ri record.
func (b *builder) subkeyIndex(offs []uint32, names []string) uint32 {
	if b.leafFanout <= 0 || len(offs) <= b.leafFanout {
		return b.leafList(offs, names)
	}
	var leaves []uint32
	for start := 0; start < len(offs); start += b.leafFanout {
		end := min(start+b.leafFanout, len(offs))
		leaves = append(leaves, b.leafList(offs[start:end], names[start:end]))
	}
	payload := make([]byte, format.ListHeaderSize+len(leaves)*format.RIEntrySize)
	copy(payload, format.RISignature)
	format.PutU16(payload, format.IdxCountOffset, uint16(len(leaves)))
	for i, off := range leaves {
		format.PutU32(payload, format.IdxListOffset+i*format.RIEntrySize, off)
	}
	return b.alloc(payload)
}

// leafList emits an lf leaf: offset plus a four-byte name hint per entry.
func (b *builder) leafList(offs []uint32, names []string) uint32 {
	payload := make([]byte, format.ListHeaderSize+len(offs)*format.LFEntrySize)
	copy(payload, format.LFSignature)
	format.PutU16(payload, format.IdxCountOffset, uint16(len(offs)))
	for i, off := range offs {
		at := format.IdxListOffset + i*format.LFEntrySize
		format.PutU32(payload, at, off)
		hint := names[i]
		if len(hint) > 4 {
			hint = hint[:4]
		}
		copy(payload[at+format.OffsetFieldSize:], hint)
	}
	return b.alloc(payload)
}

func (b *builder) offsetList(offs []uint32) uint32 {
	payload := make([]byte, len(offs)*format.OffsetFieldSize)
	for i, off := range offs {
		format.PutU32(payload, i*format.OffsetFieldSize, off)
	}
	return b.alloc(payload)
}

func (b *builder) value(v Value) uint32 {
	nameRaw, ascii := encodeName(v.Name)

	dataLen := uint32(len(v.Data))
	var dataOff uint32
	switch {
	case len(v.Data) == 0:
		dataOff = format.InvalidOffset
	case len(v.Data) <= format.OffsetFieldSize:
		dataLen |= format.VKDataInlineBit
		var word [format.OffsetFieldSize]byte
		copy(word[:], v.Data)
		dataOff = binary.LittleEndian.Uint32(word[:])
	case len(v.Data) > format.DBChunkSize:
		dataOff = b.bigData(v.Data)
	default:
		dataOff = b.alloc(v.Data)
	}

	payload := make([]byte, format.VKMinSize+len(nameRaw))
	copy(payload, format.VKSignature)
	format.PutU16(payload, format.VKNameLenOffset, uint16(len(nameRaw)))
	format.PutU32(payload, format.VKDataLenOffset, dataLen)
	format.PutU32(payload, format.VKDataOffOffset, dataOff)
	format.PutU32(payload, format.VKTypeOffset, v.Type)
	if ascii {
		format.PutU16(payload, format.VKFlagsOffset, format.VKFlagASCIIName)
	}
	copy(payload[format.VKNameOffset:], nameRaw)
	return b.alloc(payload)
}

// bigData splits data across db blocks and returns the db record's offset.
func (b *builder) bigData(data []byte) uint32 {
	var blockOffs []uint32
	for len(data) > 0 {
		n := len(data)
		if n > format.DBChunkSize {
			n = format.DBChunkSize
		}
		blockOffs = append(blockOffs, b.alloc(data[:n]))
		data = data[n:]
	}
	listOff := b.offsetList(blockOffs)

	payload := make([]byte, format.DBMinSize)
	copy(payload, format.DBSignature)
	format.PutU16(payload, format.DBCountOffset, uint16(len(blockOffs)))
	format.PutU32(payload, format.DBListOffset, listOff)
	return b.alloc(payload)
}

// encodeName stores ASCII names in compressed single-byte form and
// everything else as UTF-16LE, matching what Windows writes.
func encodeName(name string) (raw []byte, compressed bool) {
	if name == "" {
		return nil, true
	}
	ascii := true
	for i := 0; i < len(name); i++ {
		if name[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return []byte(name), true
	}
	units := utf16.Encode([]rune(name))
	raw = make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(raw[i*2:], u)
	}
	return raw, false
}
