package opcode

import (
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Lookup returns the retrogolib instruction definition matching the given
// word. Only the original CHIP-8 instruction set is covered by the table.
func Lookup(word uint16) (*chip8.Instruction, bool) {
	firstNibble := (word & 0xF000) >> 12
	opcodes := chip8.Opcodes[int(firstNibble)]
	for _, op := range opcodes {
		if op.Info.Mask&word == op.Info.Value {
			if op.Instruction == nil {
				return nil, false
			}
			return op.Instruction, true
		}
	}
	return nil, false
}
