// Package rpl persists the SUPER-CHIP RPL user flags between runs.
package rpl

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Size is the number of persisted flag registers.
const Size = 8

const extension = ".rpl"

// Store reads and writes the flag file of a single ROM.
type Store struct {
	path string
}

// DefaultPath returns the flag file path that belongs to a ROM file.
func DefaultPath(rom string) string {
	return rom + extension
}

// New returns a store for the given flag file.
func New(path string) *Store {
	return &Store{
		path: path,
	}
}

// Path returns the flag file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted flags. A missing file results in zeroed flags,
// shorter files are padded with zeros and longer ones truncated.
func (s *Store) Load() ([]byte, error) {
	data := make([]byte, Size)

	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return data, nil
		}
		return nil, fmt.Errorf("reading flag file %s: %w", s.path, err)
	}

	copy(data, content)
	return data, nil
}

// Save writes the flags to the flag file.
func (s *Store) Save(data []byte) error {
	buf := make([]byte, Size)
	copy(buf, data)

	if err := os.WriteFile(s.path, buf, 0600); err != nil {
		return fmt.Errorf("writing flag file %s: %w", s.path, err)
	}
	return nil
}
