package main

import (
	"fmt"
	"strings"

	"github.com/joshuapare/hivenav/cmd/hivenav/logger"
	"github.com/joshuapare/hivenav/internal/reader"
)

// valueRow is one entry in the value pane: decoded far enough to render a
// single-line preview, with the raw bytes kept for the detail view and the
// clipboard.
type valueRow struct {
	name string // "" for the key's default value
	typ  reader.RegType
	size int
	data string // single-line preview
	raw  []byte
	strs []string // decoded REG_MULTI_SZ elements
}

func (r valueRow) displayName() string {
	if r.name == "" {
		return "(default)"
	}
	return r.name
}

// clipboardText renders the full value data as text, the form most useful
// when pasting into a shell or a note.
func (r valueRow) clipboardText() string {
	switch r.typ {
	case reader.REG_SZ, reader.REG_EXPAND_SZ, reader.REG_DWORD, reader.REG_DWORD_BE, reader.REG_QWORD:
		return r.data
	case reader.REG_MULTI_SZ:
		return strings.Join(r.strs, "\n")
	default:
		pairs := make([]string, len(r.raw))
		for i, b := range r.raw {
			pairs[i] = fmt.Sprintf("%02x", b)
		}
		return strings.Join(pairs, " ")
	}
}

// loadValues reads and decodes every value of a key. Per-value decode
// failures become "(unreadable)" rows rather than errors; a hive with one
// mangled value is still worth browsing.
func loadValues(h *reader.Hive, id reader.NodeID) ([]valueRow, error) {
	ids, err := h.Values(id)
	if err != nil {
		return nil, err
	}
	rows := make([]valueRow, 0, len(ids))
	for _, vid := range ids {
		meta, err := h.StatValue(vid)
		if err != nil {
			logger.Warn("unreadable value", "error", err)
			rows = append(rows, valueRow{name: "?", data: "(unreadable)"})
			continue
		}
		row := valueRow{name: meta.Name, typ: meta.Type, size: meta.Size}
		row.raw, _ = h.ValueBytes(vid)
		row.data = previewValue(h, vid, meta)
		if meta.Type == reader.REG_MULTI_SZ {
			row.strs, _ = h.ValueStrings(vid)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// previewValue renders a value's data as one line of text.
func previewValue(h *reader.Hive, id reader.ValueID, meta reader.ValueMeta) string {
	switch meta.Type {
	case reader.REG_SZ, reader.REG_EXPAND_SZ:
		s, err := h.ValueString(id)
		if err != nil {
			return "(unreadable)"
		}
		return strings.ReplaceAll(s, "\n", " ")
	case reader.REG_MULTI_SZ:
		ss, err := h.ValueStrings(id)
		if err != nil {
			return "(unreadable)"
		}
		return strings.Join(ss, ", ")
	case reader.REG_DWORD, reader.REG_DWORD_BE:
		v, err := h.ValueDWORD(id)
		if err != nil {
			return "(unreadable)"
		}
		return fmt.Sprintf("0x%08x (%d)", v, v)
	case reader.REG_QWORD:
		v, err := h.ValueQWORD(id)
		if err != nil {
			return "(unreadable)"
		}
		return fmt.Sprintf("0x%016x (%d)", v, v)
	default:
		b, err := h.ValueBytes(id)
		if err != nil {
			return "(unreadable)"
		}
		return hexPreview(b, 8)
	}
}

// hexPreview renders the first max bytes as spaced hex pairs, with the total
// byte count when data was cut off.
func hexPreview(b []byte, max int) string {
	if len(b) == 0 {
		return "(zero-length)"
	}
	n := len(b)
	if n > max {
		n = max
	}
	pairs := make([]string, n)
	for i := 0; i < n; i++ {
		pairs[i] = fmt.Sprintf("%02x", b[i])
	}
	s := strings.Join(pairs, " ")
	if len(b) > max {
		s += fmt.Sprintf(" … (%d bytes)", len(b))
	}
	return s
}

// hexDump renders data as a 16-bytes-per-line dump with an ASCII sidebar.
func hexDump(data []byte) string {
	if len(data) == 0 {
		return "(empty)"
	}
	const perLine = 16
	var b strings.Builder
	for off := 0; off < len(data); off += perLine {
		line := data[off:]
		if len(line) > perLine {
			line = line[:perLine]
		}
		fmt.Fprintf(&b, "%08x  ", off)
		for i := 0; i < perLine; i++ {
			if i == 8 {
				b.WriteByte(' ')
			}
			if i < len(line) {
				fmt.Fprintf(&b, "%02x ", line[i])
			} else {
				b.WriteString("   ")
			}
		}
		b.WriteString(" |")
		for _, c := range line {
			if c >= 0x20 && c <= 0x7e {
				b.WriteByte(c)
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteString("|\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
