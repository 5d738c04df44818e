//go:build windows

package mmfile

import "os"

// Map reads the entire file. Hives small enough to browse interactively do
// not justify carrying the section-object mapping dance on this platform.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return data, func() error { return nil }, nil
}
