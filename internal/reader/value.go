package reader

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding/charmap"

	"github.com/joshuapare/hivenav/internal/format"
)

// DecodeValueName converts the raw name stored in a VK record into UTF-8.
// VK names follow the same compression rules as NK names: with the ASCII
// flag set the name is Windows-1252, otherwise UTF-16LE. An empty name
// denotes the key's default value.
func DecodeValueName(vk format.VKRecord) (string, error) {
	if vk.NameLength == 0 {
		return "", nil
	}
	data := vk.NameRaw
	if vk.NameIsASCII() {
		if isASCII(data) {
			return string(data), nil
		}
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decode Windows-1252 value name: %w", err)
		}
		return string(decoded), nil
	}
	if len(data)%2 != 0 {
		return "", errors.New("vk name has odd length")
	}
	return decodeUTF16LE(data), nil
}

// DecodeUTF16 decodes UTF-16LE value data, dropping a trailing null
// terminator when present.
func DecodeUTF16(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if len(data)%2 != 0 {
		return "", errors.New("utf16 string has odd length")
	}
	if len(data) >= 2 && data[len(data)-2] == 0 && data[len(data)-1] == 0 {
		data = data[:len(data)-2]
	}
	return decodeUTF16LE(data), nil
}

// DecodeMultiString splits REG_MULTI_SZ data into its component strings.
// The data is a run of null-terminated UTF-16LE strings closed by an empty
// string.
func DecodeMultiString(data []byte) ([]string, error) {
	if len(data)%2 != 0 {
		return nil, errors.New("multisz has odd length")
	}
	if len(data) < 2 || data[len(data)-1] != 0 || data[len(data)-2] != 0 {
		return nil, errors.New("multisz missing terminator")
	}
	var result []string
	start := 0
	for i := 0; i < len(data); i += 2 {
		if data[i] == 0 && data[i+1] == 0 {
			if i == start {
				break
			}
			s, err := DecodeUTF16(data[start:i])
			if err != nil {
				return nil, err
			}
			result = append(result, s)
			start = i + 2
		}
	}
	return result, nil
}
