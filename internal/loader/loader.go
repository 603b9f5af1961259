// Package loader handles ROM file loading operations.
package loader

import (
	"errors"
	"fmt"
	"os"
)

// ErrEmptyROM is returned for ROM files without content.
var ErrEmptyROM = errors.New("empty ROM file")

// Loader handles loading ROM files from disk.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the ROM file. ROMs are raw program images that are copied to
// the entry point of the machine, the size limit depends on the system mode
// and is checked by the machine.
func (l *Loader) Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ROM file %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyROM, path)
	}
	return data, nil
}
