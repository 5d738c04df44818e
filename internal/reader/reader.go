// Package reader decodes Windows registry hives for read-only browsing. It
// resolves cell offsets into NK/VK records, reassembles value data (inline,
// single-cell and big-data), and exposes keys and values through small
// copyable handles. All structural walking is bounds-checked; a hive that
// opens successfully has had every bin header validated.
package reader

import (
	"errors"
	"fmt"

	"github.com/joshuapare/hivenav/internal/buf"
	"github.com/joshuapare/hivenav/internal/format"
	"github.com/joshuapare/hivenav/internal/mmfile"
)

// Hive is an open registry hive. It is safe for concurrent reads; Close must
// not race in-flight calls because the backing buffer may be unmapped.
type Hive struct {
	buf        []byte
	unmap      func() error
	head       format.Header
	path       string
	bins       int
	checksumOK bool
	closed     bool
}

// Open maps the hive at path and validates its structural envelope.
func Open(path string) (*Hive, error) {
	data, unmap, err := mmfile.Map(path)
	if err != nil {
		return nil, &Error{Kind: ErrKindState, Msg: "open hive", Err: err}
	}
	h, err := open(data, unmap)
	if err != nil {
		if unmap != nil {
			_ = unmap()
		}
		return nil, err
	}
	h.path = path
	return h, nil
}

// OpenBytes opens a hive already held in memory. The caller keeps ownership
// of b and must not mutate it while the hive is in use.
func OpenBytes(b []byte) (*Hive, error) {
	return open(b, nil)
}

func open(b []byte, unmap func() error) (*Hive, error) {
	head, err := format.ParseHeader(b)
	if err != nil {
		// A bad or short base block means this is no hive at all.
		if errors.Is(err, format.ErrSignatureMismatch) || errors.Is(err, format.ErrTruncated) {
			return nil, ErrNotHive
		}
		return nil, wrapFormatErr(err)
	}
	if head.MajorVersion != 1 {
		return nil, &Error{
			Kind: ErrKindUnsupported,
			Msg:  fmt.Sprintf("hive format version %d.%d", head.MajorVersion, head.MinorVersion),
			Err:  ErrUnsupported,
		}
	}
	h := &Hive{
		buf:        b,
		unmap:      unmap,
		head:       head,
		checksumOK: format.ChecksumOf(b) == head.Checksum,
	}
	if err := h.validateBins(); err != nil {
		return nil, err
	}
	// The root must decode or nothing else will.
	if _, err := h.nk(head.RootCellOffset); err != nil {
		return nil, err
	}
	return h, nil
}

// validateBins walks every HBIN header inside the declared data region.
// Dirty hives are allowed through; structurally broken bins are not.
func (h *Hive) validateBins() error {
	end, ok := buf.AddOverflowSafe(format.HiveDataBase, int(h.head.HiveBinsDataSize))
	if !ok || end > len(h.buf) {
		return corruptErr(fmt.Sprintf("hive bins data size %d exceeds file size %d",
			h.head.HiveBinsDataSize, len(h.buf)))
	}
	off := format.HiveDataBase
	for off < end {
		_, next, err := format.NextHBIN(h.buf[:end], off)
		if err != nil {
			return wrapFormatErr(fmt.Errorf("hbin at 0x%x: %w", off, err))
		}
		if next <= off {
			return corruptErr(fmt.Sprintf("hbin at 0x%x does not advance", off))
		}
		off = next
		h.bins++
	}
	return nil
}

// Close releases the backing mapping. It is idempotent.
func (h *Hive) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	if h.unmap != nil {
		return h.unmap()
	}
	return nil
}

func (h *Hive) ensureOpen() error {
	if h.closed {
		return ErrClosed
	}
	return nil
}

// Info returns header metadata for the open hive.
func (h *Hive) Info() HiveInfo {
	return HiveInfo{
		Path:         h.path,
		LastWrite:    format.FiletimeToTime(h.head.LastWriteRaw),
		MajorVersion: h.head.MajorVersion,
		MinorVersion: h.head.MinorVersion,
		Type:         h.head.Type,
		FileSize:     int64(len(h.buf)),
		Bins:         h.bins,
		Dirty:        h.head.Dirty(),
		ChecksumOK:   h.checksumOK,
	}
}

// Root returns the handle of the hive's root key.
func (h *Hive) Root() (NodeID, error) {
	if err := h.ensureOpen(); err != nil {
		return 0, err
	}
	return NodeID(h.head.RootCellOffset), nil
}

// StatKey decodes the metadata of the key behind id.
func (h *Hive) StatKey(id NodeID) (KeyMeta, error) {
	if err := h.ensureOpen(); err != nil {
		return KeyMeta{}, err
	}
	nk, err := h.nk(uint32(id))
	if err != nil {
		return KeyMeta{}, err
	}
	name, err := DecodeKeyName(nk)
	if err != nil {
		return KeyMeta{}, wrapFormatErr(err)
	}
	return KeyMeta{
		Name:      name,
		LastWrite: format.FiletimeToTime(nk.LastWriteRaw),
		SubkeyN:   int(nk.SubkeyCount),
		ValueN:    int(nk.ValueCount),
		IsRoot:    nk.IsRoot(),
	}, nil
}

// Subkeys returns the handles of id's children in stored order, flattening
// indirect (ri) lists.
func (h *Hive) Subkeys(id NodeID) ([]NodeID, error) {
	if err := h.ensureOpen(); err != nil {
		return nil, err
	}
	nk, err := h.nk(uint32(id))
	if err != nil {
		return nil, err
	}
	if !nk.HasSubkeys() {
		return nil, nil
	}
	total := int(nk.SubkeyCount)
	out, err := h.appendSubkeys(make([]NodeID, 0, total), nk.SubkeyListOffset, total, 0)
	if err != nil {
		return nil, err
	}
	if len(out) != total {
		return nil, corruptErr(fmt.Sprintf("subkey list yields %d entries, nk declares %d",
			len(out), total))
	}
	return out, nil
}

// appendSubkeys collects NK offsets from the list at listOff, recursing
// through ri indirection. total caps how many entries are still wanted so a
// lying leaf count cannot outrun the owning NK record.
func (h *Hive) appendSubkeys(dst []NodeID, listOff uint32, total, depth int) ([]NodeID, error) {
	if depth > format.MaxRIDepth {
		return nil, corruptErr("subkey index nested too deeply")
	}
	p, err := h.payload(listOff)
	if err != nil {
		return nil, err
	}
	if format.IsRIList(p) {
		leaves, err := format.DecodeRIList(p)
		if err != nil {
			return nil, wrapFormatErr(err)
		}
		for _, leaf := range leaves {
			if len(dst) >= total {
				break
			}
			dst, err = h.appendSubkeys(dst, leaf, total, depth+1)
			if err != nil {
				return nil, err
			}
		}
		return dst, nil
	}
	offs, err := format.DecodeSubkeyList(p, uint32(total-len(dst)))
	if err != nil {
		return nil, wrapFormatErr(err)
	}
	for _, off := range offs {
		dst = append(dst, NodeID(off))
	}
	return dst, nil
}

// Values returns the handles of id's values in stored order.
func (h *Hive) Values(id NodeID) ([]ValueID, error) {
	if err := h.ensureOpen(); err != nil {
		return nil, err
	}
	nk, err := h.nk(uint32(id))
	if err != nil {
		return nil, err
	}
	if nk.ValueCount == 0 || nk.ValueListOffset == format.InvalidOffset {
		return nil, nil
	}
	p, err := h.payload(nk.ValueListOffset)
	if err != nil {
		return nil, err
	}
	offs, err := format.DecodeValueList(p, nk.ValueCount)
	if err != nil {
		return nil, wrapFormatErr(err)
	}
	out := make([]ValueID, len(offs))
	for i, off := range offs {
		out[i] = ValueID(off)
	}
	return out, nil
}

// StatValue decodes the metadata of the value behind id.
func (h *Hive) StatValue(id ValueID) (ValueMeta, error) {
	if err := h.ensureOpen(); err != nil {
		return ValueMeta{}, err
	}
	vk, err := h.vk(uint32(id))
	if err != nil {
		return ValueMeta{}, err
	}
	name, err := DecodeValueName(vk)
	if err != nil {
		return ValueMeta{}, wrapFormatErr(err)
	}
	return ValueMeta{
		Name:   name,
		Type:   RegType(vk.Type),
		Size:   vk.DataSize(),
		Inline: vk.DataInline(),
	}, nil
}

// ValueBytes returns a copy of the raw data behind id. The copy stays valid
// after Close.
func (h *Hive) ValueBytes(id ValueID) ([]byte, error) {
	if err := h.ensureOpen(); err != nil {
		return nil, err
	}
	vk, err := h.vk(uint32(id))
	if err != nil {
		return nil, err
	}
	return h.valueData(vk)
}

// ValueString decodes a REG_SZ or REG_EXPAND_SZ value as UTF-16LE.
func (h *Hive) ValueString(id ValueID) (string, error) {
	_, data, err := h.typedData(id, REG_SZ, REG_EXPAND_SZ)
	if err != nil {
		return "", err
	}
	s, err := DecodeUTF16(data)
	if err != nil {
		return "", &Error{Kind: ErrKindCorrupt, Msg: "decode string data", Err: err}
	}
	return s, nil
}

// ValueStrings decodes a REG_MULTI_SZ value into its component strings.
func (h *Hive) ValueStrings(id ValueID) ([]string, error) {
	_, data, err := h.typedData(id, REG_MULTI_SZ)
	if err != nil {
		return nil, err
	}
	out, err := DecodeMultiString(data)
	if err != nil {
		return nil, &Error{Kind: ErrKindCorrupt, Msg: "decode multi-string data", Err: err}
	}
	return out, nil
}

// ValueDWORD decodes a REG_DWORD or REG_DWORD_BE value.
func (h *Hive) ValueDWORD(id ValueID) (uint32, error) {
	vk, data, err := h.typedData(id, REG_DWORD, REG_DWORD_BE)
	if err != nil {
		return 0, err
	}
	if len(data) != format.DWORDSize {
		return 0, corruptErr(fmt.Sprintf("dword value has %d data bytes", len(data)))
	}
	if RegType(vk.Type) == REG_DWORD_BE {
		return buf.U32BE(data), nil
	}
	return buf.U32LE(data), nil
}

// ValueQWORD decodes a REG_QWORD value.
func (h *Hive) ValueQWORD(id ValueID) (uint64, error) {
	_, data, err := h.typedData(id, REG_QWORD)
	if err != nil {
		return 0, err
	}
	if len(data) != format.QWORDSize {
		return 0, corruptErr(fmt.Sprintf("qword value has %d data bytes", len(data)))
	}
	return buf.U64LE(data), nil
}

// typedData fetches the VK record and its data after checking that the
// stored type is one of want.
func (h *Hive) typedData(id ValueID, want ...RegType) (format.VKRecord, []byte, error) {
	if err := h.ensureOpen(); err != nil {
		return format.VKRecord{}, nil, err
	}
	vk, err := h.vk(uint32(id))
	if err != nil {
		return format.VKRecord{}, nil, err
	}
	ok := false
	for _, w := range want {
		if RegType(vk.Type) == w {
			ok = true
			break
		}
	}
	if !ok {
		return format.VKRecord{}, nil, &Error{
			Kind: ErrKindType,
			Msg:  fmt.Sprintf("value has type %s", RegType(vk.Type)),
			Err:  ErrTypeMismatch,
		}
	}
	data, err := h.valueData(vk)
	if err != nil {
		return format.VKRecord{}, nil, err
	}
	return vk, data, nil
}

// valueData materializes the data a VK record points at. Inline data lives
// in the record's offset field; larger payloads live in their own cell, and
// data past a single cell's capacity is split across big-data blocks.
func (h *Hive) valueData(vk format.VKRecord) ([]byte, error) {
	size := vk.DataSize()
	if size == 0 {
		return nil, nil
	}
	if vk.DataInline() {
		if size > format.OffsetFieldSize {
			return nil, corruptErr(fmt.Sprintf("inline value declares %d bytes", size))
		}
		out := make([]byte, format.OffsetFieldSize)
		format.PutU32(out, 0, vk.DataOffset)
		return out[:size], nil
	}
	p, err := h.payload(vk.DataOffset)
	if err != nil {
		return nil, err
	}
	if format.IsDBRecord(p) {
		return h.bigData(p, size)
	}
	// Hive version 1.3 stores large values in one oversized cell, so this
	// path must not assume size fits the big-data threshold.
	if size > len(p) {
		return nil, corruptErr(fmt.Sprintf("value data %d bytes overruns its %d byte cell",
			size, len(p)))
	}
	out := make([]byte, size)
	copy(out, p[:size])
	return out, nil
}

// bigData reassembles a value stored as big-data blocks. Each block carries
// up to format.DBChunkSize useful bytes; the tail of the final block's cell
// is padding.
func (h *Hive) bigData(p []byte, size int) ([]byte, error) {
	db, err := format.DecodeDB(p)
	if err != nil {
		return nil, wrapFormatErr(err)
	}
	listP, err := h.payload(db.BlocklistOffset)
	if err != nil {
		return nil, err
	}
	blocks, err := format.DecodeBlocklist(listP, db.NumBlocks)
	if err != nil {
		return nil, wrapFormatErr(err)
	}
	out := make([]byte, 0, size)
	for _, blockOff := range blocks {
		need := size - len(out)
		if need == 0 {
			break
		}
		bp, err := h.payload(blockOff)
		if err != nil {
			return nil, err
		}
		chunk := bp
		if len(chunk) > format.DBChunkSize {
			chunk = chunk[:format.DBChunkSize]
		}
		if need < len(chunk) {
			chunk = chunk[:need]
		}
		out = append(out, chunk...)
	}
	if len(out) != size {
		return nil, corruptErr(fmt.Sprintf("big data blocks yield %d bytes, vk declares %d",
			len(out), size))
	}
	return out, nil
}

// payload resolves a stored cell offset into the cell's payload bytes.
func (h *Hive) payload(off uint32) ([]byte, error) {
	p, err := format.PayloadAt(h.buf, off)
	if err != nil {
		return nil, wrapFormatErr(err)
	}
	return p, nil
}

func (h *Hive) nk(off uint32) (format.NKRecord, error) {
	p, err := h.payload(off)
	if err != nil {
		return format.NKRecord{}, err
	}
	rec, err := format.DecodeNK(p)
	if err != nil {
		return format.NKRecord{}, wrapFormatErr(err)
	}
	return rec, nil
}

func (h *Hive) vk(off uint32) (format.VKRecord, error) {
	p, err := h.payload(off)
	if err != nil {
		return format.VKRecord{}, err
	}
	rec, err := format.DecodeVK(p)
	if err != nil {
		return format.VKRecord{}, wrapFormatErr(err)
	}
	return rec, nil
}
