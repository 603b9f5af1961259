package fileprocessor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func writeROM(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("Failed to create ROM file: %v", err)
	}
	return path
}

func TestProcessFile(t *testing.T) {
	logger := log.NewTestLogger(t)

	// clear the screen, draw the 1 glyph and exit
	rom := writeROM(t, "test.sc8", []byte{0x00, 0xE0, 0x60, 0x01, 0xF0, 0x29, 0xD0, 0x05, 0x00, 0xFD})
	output := filepath.Join(t.TempDir(), "screen.txt")

	opts := options.Program{
		Parameters: options.Parameters{Input: rom, Output: output},
		Flags:      options.Flags{Quiet: true},
		Emulation:  options.Emulation{Cycles: 100, Frames: 10},
	}

	err := ProcessFile(context.Background(), logger, opts)
	assert.NoError(t, err)

	data, err := os.ReadFile(output)
	assert.NoError(t, err)

	// file output never contains color escape sequences
	content := string(data)
	assert.False(t, strings.Contains(content, "\033["))
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	assert.Len(t, lines, 16)
	assert.True(t, lines[0] != strings.Repeat(" ", 64))
}

func TestProcessFileErrors(t *testing.T) {
	logger := log.NewNop()

	t.Run("invalid output path", func(t *testing.T) {
		opts := options.Program{
			Parameters: options.Parameters{
				Input:  "test.ch8",
				Output: filepath.Join(t.TempDir(), "missing", "screen.txt"),
			},
		}
		err := ProcessFile(context.Background(), logger, opts)
		assert.ErrorContains(t, err, "creating writer")
	})

	t.Run("machine fault", func(t *testing.T) {
		rom := writeROM(t, "fault.ch8", []byte{0x00, 0xEE})
		opts := options.Program{
			Parameters: options.Parameters{Input: rom, Output: filepath.Join(t.TempDir(), "screen.txt")},
			Flags:      options.Flags{Quiet: true},
			Emulation:  options.Emulation{Cycles: 10, Frames: 1},
		}
		err := ProcessFile(context.Background(), logger, opts)
		assert.ErrorContains(t, err, "stack underflow")
	})
}
