//go:build !unix && !windows

// Package mmfile maps hive files into memory where the platform supports it
// and falls back to reading them whole where it does not. Callers get the
// same contract either way: the file's bytes and a cleanup function.
package mmfile

import "os"

// Map reads the entire file when mmap is not available.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return data, func() error { return nil }, nil
}
