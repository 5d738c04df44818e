package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/hivenav/internal/buf"
)

// Header captures the subset of the REGF base block needed to traverse a hive.
// The diagram highlights the offsets we care about.
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	 0x000   4    'r' 'e' 'g' 'f'
//	 0x004   4    Primary sequence number
//	 0x008   4    Secondary sequence number
//	 0x00C   8    Last write timestamp (FILETIME)
//	 0x014   4    Major version
//	 0x018   4    Minor version
//	 0x01C   4    Type (0 = primary, 1 = alternate)
//	 0x024   4    Offset (relative to first HBIN) of the root cell (NK)
//	 0x028   4    Total size of HBIN data
//	 0x1FC   4    XOR-32 checksum of bytes 0x000..0x1FB
//
// Windows stores the header in little-endian form. Mismatched sequence
// numbers mean the hive was not cleanly flushed; readers may still proceed,
// since the bins themselves are validated separately.
type Header struct {
	PrimarySequence   uint32
	SecondarySequence uint32
	LastWriteRaw      uint64
	MajorVersion      uint32
	MinorVersion      uint32
	Type              uint32
	RootCellOffset    uint32
	HiveBinsDataSize  uint32
	Checksum          uint32
}

// Dirty reports whether the sequence numbers disagree, meaning the last
// write was interrupted.
func (h Header) Dirty() bool {
	return h.PrimarySequence != h.SecondarySequence
}

// ParseHeader validates the signature and extracts key fields from a REGF
// base block. The stored checksum is returned in the header; callers decide
// how strictly to treat a mismatch with ChecksumOf.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("regf header: %w", ErrTruncated)
	}
	if !bytes.Equal(b[:REGFSignatureSize], REGFSignature) {
		return Header{}, fmt.Errorf("regf header: %w", ErrSignatureMismatch)
	}
	return Header{
		PrimarySequence:   buf.U32LE(b[REGFPrimarySeqOffset:]),
		SecondarySequence: buf.U32LE(b[REGFSecondarySeqOffset:]),
		LastWriteRaw:      buf.U64LE(b[REGFTimeStampOffset:]),
		MajorVersion:      buf.U32LE(b[REGFMajorVersionOffset:]),
		MinorVersion:      buf.U32LE(b[REGFMinorVersionOffset:]),
		Type:              buf.U32LE(b[REGFTypeOffset:]),
		RootCellOffset:    buf.U32LE(b[REGFRootCellOffset:]),
		HiveBinsDataSize:  buf.U32LE(b[REGFDataSizeOffset:]),
		Checksum:          buf.U32LE(b[REGFCheckSumOffset:]),
	}, nil
}

// ChecksumOf computes the XOR-32 checksum over the first 508 header bytes.
// A computed value of 0 is stored as 1 and 0xFFFFFFFF as 0xFFFFFFFE, per the
// kernel's convention.
func ChecksumOf(b []byte) uint32 {
	var sum uint32
	for i := 0; i < REGFChecksumRegionLen; i += 4 {
		sum ^= buf.U32LE(b[i:])
	}
	switch sum {
	case 0:
		return 1
	case 0xFFFFFFFF:
		return 0xFFFFFFFE
	default:
		return sum
	}
}
