// Package detector handles system mode detection.
package detector

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/retrochip8/internal/mode"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Detector handles system mode detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new system mode detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the system mode from options or file auto-detection.
// It first checks if a mode is explicitly specified in options, otherwise
// attempts to detect the mode from the input filename extension.
func (d *Detector) Detect(opts options.Program) mode.Mode {
	if opts.System != "" {
		if md, err := mode.Parse(opts.System); err == nil {
			return md
		}
	}

	md := d.detectFromFile(opts.Input)
	d.logger.Debug("Auto-detected system mode",
		log.Stringer("mode", md),
		log.String("file", opts.Input))
	return md
}

// detectFromFile determines the system mode based on file extension.
func (d *Detector) detectFromFile(filename string) mode.Mode {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".sc8":
		return mode.Extended
	case ".xo8":
		return mode.Richest
	default:
		// .ch8 and unknown extensions
		return mode.Classic
	}
}
