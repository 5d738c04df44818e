// Package format houses low-level decoders for the Windows Registry hive file
// format. Parsing stays allocation-free where possible and independent from
// the rest of the program so higher layers can shape the data however they
// need. Only the structures required to walk a hive read-only are modeled:
// the REGF base block, hive bins, key nodes, value keys, subkey and value
// lists, and big-data records.
package format

var (
	// REGFSignature is the four-byte signature at the start of every hive file.
	REGFSignature = []byte{'r', 'e', 'g', 'f'}

	// HBINSignature is the four-byte signature at the beginning of each hive bin.
	HBINSignature = []byte{'h', 'b', 'i', 'n'}

	// NKSignature identifies an NK (Node Key) cell payload.
	NKSignature = []byte{'n', 'k'}

	// VKSignature identifies a VK (Value Key) cell payload.
	VKSignature = []byte{'v', 'k'}

	// LFSignature, LHSignature, and LISignature identify subkey list variants.
	// LF/LH carry name hints or hashes alongside each offset, while LI is a
	// plain offset array.
	LFSignature = []byte{'l', 'f'}
	LHSignature = []byte{'l', 'h'}
	LISignature = []byte{'l', 'i'}

	// RISignature identifies an RI (indirect) subkey list used when a key has
	// many subkeys. RI entries point at LF/LH/LI lists, not at NK cells.
	RISignature = []byte{'r', 'i'}

	// DBSignature identifies a Big Data (DB) record for large registry values.
	DBSignature = []byte{'d', 'b'}
)

const (
	// HeaderSize is the size of the REGF header in bytes. In every observed
	// hive variant this is 4096 bytes, one memory page.
	HeaderSize = 4096

	// HiveDataBase is the file offset of the first HBIN. Every cell offset
	// stored inside a record is relative to this position.
	HiveDataBase = 0x1000

	// HBINHeaderSize is the size of the HBIN header in bytes.
	HBINHeaderSize = 0x20

	// HBINAlignment is the required alignment of hive bins (4 KiB).
	HBINAlignment = 0x1000

	// CellHeaderSize is the number of bytes used by the signed length prefix
	// preceding every allocation (free or in-use) within an HBIN.
	CellHeaderSize = 4

	// CellAlignment is the required alignment of cells within HBINs.
	CellAlignment = 8

	// CellAlignmentMask is the bitmask for aligning to CellAlignment.
	CellAlignmentMask = CellAlignment - 1

	// HBINAlignmentMask is the bitmask for aligning to HBINAlignment.
	HBINAlignmentMask = HBINAlignment - 1

	// HBIN field offsets within the header structure.
	HBINSignatureOffset = 0x00 // 4 bytes
	HBINSignatureSize   = 4
	HBINFileOffsetField = 0x04 // uint32, echo of the bin's own offset
	HBINSizeOffset      = 0x08 // uint32, multiple of HBINAlignment

	// InvalidOffset is the placeholder stored in unused offset fields.
	InvalidOffset = 0xFFFFFFFF

	// SignatureSize is the length of a two-byte record tag (NK, VK, ...).
	SignatureSize = 2

	// OffsetFieldSize is the size of a stored cell offset (uint32). Used in
	// list entries, value lists, and record references.
	OffsetFieldSize = 4
)

// ============================================================================
// REGF Header Constants
// ============================================================================

const (
	REGFSignatureOffset    = 0x000 // 4 bytes
	REGFSignatureSize      = 4
	REGFPrimarySeqOffset   = 0x004 // Sequence1 (uint32)
	REGFSecondarySeqOffset = 0x008 // Sequence2 (uint32)
	REGFTimeStampOffset    = 0x00C // uint64 LE, Windows FILETIME
	REGFMajorVersionOffset = 0x014 // uint32
	REGFMinorVersionOffset = 0x018 // uint32
	REGFTypeOffset         = 0x01C // uint32 (0 = primary)
	REGFFormatOffset       = 0x020 // uint32
	REGFRootCellOffset     = 0x024 // uint32 (cell index rel to HiveDataBase)
	REGFDataSizeOffset     = 0x028 // uint32 (sum of HBIN sizes)
	REGFClusterOffset      = 0x02C // uint32
	REGFFileNameOffset     = 0x030 // [64] byte UTF-16LE
	REGFFileNameSize       = 64
	REGFCheckSumOffset     = 0x1FC // uint32 (XOR of first 508 bytes)
)

// Header checksum covers the first 508 bytes (0x000..0x1FB), 127 dwords.
const (
	REGFChecksumRegionLen = 508
	REGFChecksumDwords    = 127
)

// ============================================================================
// NK Record (Node Key) Constants
// ============================================================================
// NK field offsets within the record structure (payload start == "nk").
const (
	NKSignatureOffset      = 0x00 // USHORT, "nk"
	NKFlagsOffset          = 0x02 // USHORT
	NKLastWriteOffset      = 0x04 // FILETIME (8 bytes)
	NKAccessBitsOffset     = 0x0C // ULONG, spare on older hives
	NKParentOffset         = 0x10 // ULONG cell index of parent
	NKSubkeyCountOffset    = 0x14 // ULONG stable subkey count
	NKVolSubkeyCountOffset = 0x18 // ULONG volatile subkey count
	NKSubkeyListOffset     = 0x1C // ULONG cell index of stable subkey list
	NKVolSubkeyListOffset  = 0x20 // ULONG cell index of volatile subkey list
	NKValueCountOffset     = 0x24 // DWORD value count
	NKValueListOffset      = 0x28 // DWORD cell index of value list
	NKSecurityOffset       = 0x2C // DWORD cell index of SK record
	NKClassNameOffset      = 0x30 // DWORD cell index of class data
	NKMaxNameLenOffset     = 0x34 // LOWORD MaxNameLen, flags in high bits
	NKMaxClassLenOffset    = 0x38 // DWORD
	NKMaxValueNameOffset   = 0x3C // DWORD
	NKMaxValueDataOffset   = 0x40 // DWORD
	NKWorkVarOffset        = 0x44 // DWORD
	NKNameLenOffset        = 0x48 // USHORT name length in bytes
	NKClassLenOffset       = 0x4A // USHORT class length in bytes
	NKNameOffset           = 0x4C // start of inline name
)

// NK flag bits.
const (
	// NKFlagCompressedName marks a name stored one byte per character
	// (Windows-1252) instead of UTF-16LE.
	NKFlagCompressedName = 0x20

	// NKFlagRootKey marks the root key of the hive.
	NKFlagRootKey = 0x04
)

// The fixed header ends where the inline name begins.
const (
	NKFixedHeaderSize = NKNameOffset // 0x4C
	NKMinSize         = NKFixedHeaderSize
)

// ============================================================================
// VK Record (Value Key) Constants
// ============================================================================
const (
	// VK field offsets within the record structure.
	VKSignatureOffset = 0x00 // USHORT, "vk"
	VKNameLenOffset   = 0x02 // USHORT name length in bytes
	VKDataLenOffset   = 0x04 // ULONG data length, high bit = inline flag
	VKDataOffOffset   = 0x08 // ULONG data cell index, or inline data bytes
	VKTypeOffset      = 0x0C // ULONG value type
	VKFlagsOffset     = 0x10 // USHORT
	VKSpareOffset     = 0x12 // USHORT
	VKNameOffset      = 0x14 // start of inline name

	// VK flag and data-length bit masks.
	VKFlagASCIIName  = 0x0001     // name stored in Windows-1252
	VKDataInlineBit  = 0x80000000 // data lives in the DataOff field itself
	VKDataLengthMask = 0x7FFFFFFF // extracts actual length from DataLen

	// VKFixedHeaderSize is the size of the fixed portion before the name.
	VKFixedHeaderSize = 0x14
	VKMinSize         = VKFixedHeaderSize

	// DWORDSize and QWORDSize are the payload sizes of the fixed-width
	// numeric value types.
	DWORDSize = 4
	QWORDSize = 8
)

// ============================================================================
// List Record Constants
// ============================================================================

// Common header layout shared by LI, LF, LH, and RI list cells.
const (
	IdxSignatureOffset = 0x00 // 2 bytes
	IdxCountOffset     = 0x02 // 2 bytes
	IdxListOffset      = 0x04 // start of variable-length array

	// ListHeaderSize is signature plus count.
	ListHeaderSize = IdxListOffset
)

// Element sizes.
const (
	// LIEntrySize is one uint32 cell index.
	LIEntrySize = 4

	// LFEntrySize covers LF and LH leaves, whose elements pair a uint32
	// cell index with a uint32 name hint or hash.
	LFEntrySize = 8

	// RIEntrySize is one uint32 index pointing at a leaf list.
	RIEntrySize = 4
)

// ============================================================================
// DB Record (Big Data) Constants
// ============================================================================
// DB field offsets within the record structure.
const (
	DBSignatureOffset = 0x00 // USHORT, "db"
	DBCountOffset     = 0x02 // USHORT, number of data blocks
	DBListOffset      = 0x04 // ULONG, cell index of the blocklist
)

const (
	// DBHeaderSize spans the fields above plus a trailing reserved dword.
	DBHeaderSize = 0x0C
	DBMinSize    = DBListOffset + OffsetFieldSize // 0x08, reserved dword optional

	// DBChunkSize is the data carried by each block: 16 KiB minus the cell
	// header that separates adjacent cells. The final block may be shorter;
	// every other block must be exactly this size.
	DBChunkSize = 16344

	// DBMinBlockCount is the smallest block count a valid DB record may
	// claim. Values that fit a single cell never use the DB format.
	DBMinBlockCount = 2
)

// ============================================================================
// Windows Registry Value Type Codes
// ============================================================================

const (
	// REGNone indicates no defined value type.
	REGNone uint32 = 0

	// REGSZ is a null-terminated string (Unicode).
	REGSZ uint32 = 1

	// REGExpandSZ is a null-terminated string with environment variable references.
	REGExpandSZ uint32 = 2

	// REGBinary is arbitrary binary data.
	REGBinary uint32 = 3

	// REGDWORD is a 32-bit little-endian number.
	REGDWORD uint32 = 4

	// REGDWORDBigEndian is a 32-bit big-endian number.
	REGDWORDBigEndian uint32 = 5

	// REGLink is a symbolic link (Unicode).
	REGLink uint32 = 6

	// REGMultiSZ is a sequence of null-terminated strings, terminated by an empty string.
	REGMultiSZ uint32 = 7

	// REGResourceList is a device-driver resource list.
	REGResourceList uint32 = 8

	// REGFullResourceDescriptor is a hardware resource descriptor.
	REGFullResourceDescriptor uint32 = 9

	// REGResourceRequirementsList is a hardware resource requirements list.
	REGResourceRequirementsList uint32 = 10

	// REGQWORD is a 64-bit little-endian number.
	REGQWORD uint32 = 11
)

// ============================================================================
// Sanity Limits
// ============================================================================
// Decoders reject fields beyond these bounds. Real hives stay far below them;
// exceeding one indicates corruption, not an unusually large record.
const (
	// MaxNameLen bounds key and value name lengths in bytes.
	MaxNameLen = 0x4000

	// MaxValueDataLen bounds a single value's declared data length (~1 GiB,
	// the ceiling the DB block-count field can address).
	MaxValueDataLen = 1 << 30

	// MaxSubkeyCount bounds the subkey count claimed by one NK record.
	MaxSubkeyCount = 1 << 24

	// MaxValueCount bounds the value count claimed by one NK record.
	MaxValueCount = 1 << 24

	// MaxRIDepth bounds recursion through nested RI lists.
	MaxRIDepth = 16
)
