package reader

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding/charmap"

	"github.com/joshuapare/hivenav/internal/format"
)

// DecodeKeyName converts the NK name encoding into UTF-8. Compressed names
// are Windows-1252; everything else is UTF-16LE.
func DecodeKeyName(nk format.NKRecord) (string, error) {
	if nk.NameLength == 0 {
		return "", nil
	}
	data := nk.NameRaw
	if nk.NameIsCompressed() {
		// ASCII bytes are identical in Windows-1252 and UTF-8.
		if isASCII(data) {
			return string(data), nil
		}
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decode Windows-1252 name: %w", err)
		}
		return string(decoded), nil
	}
	if len(data)%2 != 0 {
		return "", errors.New("nk name has odd length")
	}
	return decodeUTF16LE(data), nil
}

// isASCII checks if all bytes in data are ASCII (< 0x80).
func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}
