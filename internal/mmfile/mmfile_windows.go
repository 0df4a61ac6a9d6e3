//go:build windows

package mmfile

import "os"

// Map reads the whole file. Hives are small enough that a plain read is an
// acceptable stand-in for a mapping on Windows.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}
