// Package mode defines the supported system modes and the quirk flags that
// alter instruction semantics between historical interpreters.
package mode

import (
	"fmt"
	"strings"
)

// Mode selects the emulated system.
type Mode uint8

const (
	// Classic is the original CHIP-8 interpreter of the COSMAC VIP.
	Classic Mode = iota
	// Extended is SUPER-CHIP 1.1 as found on the HP48 calculators.
	Extended
	// Richest is XO-CHIP as defined by the Octo assembler.
	Richest
)

// Addresses shared by all modes.
const (
	FontAddress      = 0x000 // 16 glyphs, 5 bytes each
	LargeFontAddress = 0x050 // 16 glyphs, 10 bytes each
	EntryPoint       = 0x200 // where programs are loaded and started
)

// Framebuffer dimensions, sized for the largest supported resolution.
const (
	MaxWidth  = 128
	MaxHeight = 64
)

var names = map[Mode]string{
	Classic:  "CHIP-8",
	Extended: "SUPER-CHIP",
	Richest:  "XO-CHIP",
}

// String returns the display name of the mode.
func (m Mode) String() string {
	if name, ok := names[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// Valid returns whether the mode is one of the supported modes.
func (m Mode) Valid() bool {
	_, ok := names[m]
	return ok
}

// Parse returns the mode matching the given name. Both the short command line
// names and the display names are accepted, case insensitive.
func Parse(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "chip8", "chip-8", "c8":
		return Classic, nil
	case "schip", "superchip", "super-chip", "sc8":
		return Extended, nil
	case "xochip", "xo-chip", "xo8":
		return Richest, nil
	default:
		return Classic, fmt.Errorf("unsupported system mode '%s'", name)
	}
}

// Resolution describes the base framebuffer area used by a mode and whether
// the high resolution display is active.
type Resolution struct {
	BaseWidth  int
	BaseHeight int
	HiRes      bool
}

// Params contains the fixed machine parameters of a mode.
type Params struct {
	StackSize  int
	RAMLimit   uint16 // highest addressable memory location
	BaseWidth  int
	BaseHeight int
}

// Parameters returns the machine parameters of the given mode.
func Parameters(m Mode) Params {
	switch m {
	case Classic:
		// on the VIP 0xE90 and up is reserved for the stack and interpreter variables
		return Params{StackSize: 12, RAMLimit: 0x0E8F, BaseWidth: 64, BaseHeight: 32}
	case Richest:
		return Params{StackSize: 16, RAMLimit: 0xFFFF, BaseWidth: MaxWidth, BaseHeight: MaxHeight}
	default:
		return Params{StackSize: 16, RAMLimit: 0x0FFF, BaseWidth: MaxWidth, BaseHeight: MaxHeight}
	}
}
