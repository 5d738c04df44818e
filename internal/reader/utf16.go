package reader

import "strings"

// decodeUTF16LE decodes UTF-16LE bytes to a UTF-8 string. Registry names are
// overwhelmingly ASCII, so an all-ASCII scan runs first and skips the rune
// machinery entirely.
func decodeUTF16LE(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	allASCII := len(data)%2 == 0
	if allASCII {
		for i := 0; i < len(data); i += 2 {
			if data[i+1] != 0 || data[i] >= 0x80 {
				allASCII = false
				break
			}
		}
	}
	if allASCII {
		var b strings.Builder
		b.Grow(len(data) / 2)
		for i := 0; i < len(data); i += 2 {
			b.WriteByte(data[i])
		}
		return b.String()
	}

	var b strings.Builder
	b.Grow(len(data))
	for i := 0; i+1 < len(data); i += 2 {
		r := rune(data[i]) | rune(data[i+1])<<8
		// High surrogate (U+D800..U+DBFF) followed by a low surrogate
		// (U+DC00..U+DFFF) forms one supplementary-plane rune.
		if r >= 0xD800 && r <= 0xDBFF && i+3 < len(data) {
			r2 := rune(data[i+2]) | rune(data[i+3])<<8
			if r2 >= 0xDC00 && r2 <= 0xDFFF {
				r = 0x10000 + ((r-0xD800)<<10 | (r2 - 0xDC00))
				i += 2
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
