package mode

import (
	"fmt"
	"strings"
)

// Quirks contains the compatibility flags consulted by the interpreter at
// decode time.
type Quirks struct {
	VIPJump            bool // BNNN jumps to NNN+V0 instead of XNN+VX
	VIPShifts          bool // 8XY6/8XYE copy VY into VX before shifting
	IndexIncrement     bool // FX55/FX65 increment I for every register transferred
	LogicFlagReset     bool // 8XY1/8XY2/8XY3 reset VF
	DrawWrap           bool // sprites wrap around the screen edges instead of clipping
	DrawVBlank         bool // a draw discards the remaining cycles of the frame
	LargeFontDigits    bool // FX29 maps 0x10-0x19 to the large font digits
	IndexAdvanceLegacy bool // FX55 leaves I advanced by X when not incrementing
}

// quirk names in display order, used by settings front ends and the command line.
var quirkNames = []string{
	"vip-jump",
	"vip-shifts",
	"index-increment",
	"logic-flag-reset",
	"draw-wrap",
	"draw-vblank",
	"large-font-digits",
	"index-advance-legacy",
}

// Defaults returns the quirk settings of the given mode.
func Defaults(m Mode) Quirks {
	switch m {
	case Classic:
		return Quirks{
			VIPJump:        true,
			VIPShifts:      true,
			IndexIncrement: true,
			LogicFlagReset: true,
			DrawVBlank:     true,
		}
	case Richest:
		return Quirks{
			VIPJump:        true,
			VIPShifts:      true,
			IndexIncrement: true,
			DrawWrap:       true,
		}
	default:
		return Quirks{}
	}
}

// Names returns the names of all quirks.
func Names() []string {
	return append([]string(nil), quirkNames...)
}

// Flag returns an addressable pointer to the named quirk flag, or nil if the
// name is unknown.
func (q *Quirks) Flag(name string) *bool {
	switch strings.ToLower(name) {
	case "vip-jump":
		return &q.VIPJump
	case "vip-shifts":
		return &q.VIPShifts
	case "index-increment":
		return &q.IndexIncrement
	case "logic-flag-reset":
		return &q.LogicFlagReset
	case "draw-wrap":
		return &q.DrawWrap
	case "draw-vblank":
		return &q.DrawVBlank
	case "large-font-digits":
		return &q.LargeFontDigits
	case "index-advance-legacy":
		return &q.IndexAdvanceLegacy
	default:
		return nil
	}
}

// Set sets the named quirk flag.
func (q *Quirks) Set(name string, value bool) error {
	flag := q.Flag(name)
	if flag == nil {
		return fmt.Errorf("unknown quirk '%s', valid quirks: %s", name, strings.Join(quirkNames, ", "))
	}
	*flag = value
	return nil
}
