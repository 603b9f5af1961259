package opcode

import "fmt"

// Instruction is a decoded instruction word with all of its operand fields.
// Fields that the operation does not use are still filled from the word.
type Instruction struct {
	Op   Op
	Word uint16

	X   uint8  // second nibble, register or plane mask
	Y   uint8  // third nibble, register
	N   uint8  // fourth nibble
	NN  uint8  // low byte
	NNN uint16 // low 12 bits
}

// Decode decodes an instruction word. The top nibble selects the instruction
// family, families 0x0, 0x5, 0x8, 0xE and 0xF are dispatched further on their
// low byte or low nibble. Words that match no operation decode to Unknown.
func Decode(word uint16) Instruction {
	ins := Instruction{
		Word: word,
		X:    uint8(word >> 8 & 0xF),
		Y:    uint8(word >> 4 & 0xF),
		N:    uint8(word & 0xF),
		NN:   uint8(word),
		NNN:  word & 0x0FFF,
	}
	ins.Op = decodeOp(word, ins.N, ins.NN)
	return ins
}

func decodeOp(word uint16, n, nn uint8) Op {
	switch word >> 12 {
	case 0x0:
		return decodeSystem(word)
	case 0x1:
		return Jump
	case 0x2:
		return Call
	case 0x3:
		return SkipEqImm
	case 0x4:
		return SkipNeImm
	case 0x5:
		switch n {
		case 0x0:
			return SkipEqReg
		case 0x2:
			return StoreRange
		case 0x3:
			return LoadRange
		}
	case 0x6:
		return LoadImm
	case 0x7:
		return AddImm
	case 0x8:
		return decodeArithmetic(n)
	case 0x9:
		return SkipNeReg
	case 0xA:
		return LoadIndex
	case 0xB:
		return JumpOffset
	case 0xC:
		return Random
	case 0xD:
		return Draw
	case 0xE:
		switch nn {
		case 0x9E:
			return SkipKey
		case 0xA1:
			return SkipNotKey
		}
	case 0xF:
		return decodeMisc(word, nn)
	}
	return Unknown
}

func decodeSystem(word uint16) Op {
	switch word & 0x0FF0 {
	case 0x00C0:
		return ScrollDown
	case 0x00D0:
		return ScrollUp
	}

	switch word & 0x0FFF {
	case 0x0E0:
		return Clear
	case 0x0EE:
		return Return
	case 0x0FB:
		return ScrollRight
	case 0x0FC:
		return ScrollLeft
	case 0x0FD:
		return Exit
	case 0x0FE:
		return LowRes
	case 0x0FF:
		return HighRes
	}
	return Unknown
}

func decodeArithmetic(n uint8) Op {
	switch n {
	case 0x0:
		return Move
	case 0x1:
		return Or
	case 0x2:
		return And
	case 0x3:
		return Xor
	case 0x4:
		return Add
	case 0x5:
		return Sub
	case 0x6:
		return ShiftRight
	case 0x7:
		return SubReverse
	case 0xE:
		return ShiftLeft
	}
	return Unknown
}

func decodeMisc(word uint16, nn uint8) Op {
	if word == LongLoadWord {
		return LoadIndexLong
	}

	switch nn {
	case 0x01:
		return Planes
	case 0x02:
		if word == 0xF002 {
			return AudioPattern
		}
	case 0x07:
		return GetDelay
	case 0x0A:
		return WaitKey
	case 0x15:
		return SetDelay
	case 0x18:
		return SetSound
	case 0x1E:
		return AddIndex
	case 0x29:
		return SmallFont
	case 0x30:
		return LargeFont
	case 0x33:
		return BCD
	case 0x55:
		return Store
	case 0x65:
		return Load
	case 0x75:
		return SaveFlags
	case 0x85:
		return LoadFlags
	}
	return Unknown
}

// Name returns the mnemonic of the instruction. Base CHIP-8 instructions use
// the names of the retrogolib instruction table.
func (i Instruction) Name() string {
	if i.Op.Base() {
		if ins, ok := Lookup(i.Word); ok {
			return ins.Name
		}
	}
	return i.Op.Mnemonic()
}

// String returns the instruction in assembler notation.
func (i Instruction) String() string {
	name := i.Name()
	if params := i.params(); params != "" {
		return fmt.Sprintf("%s %s", name, params)
	}
	return name
}

// params formats the operands of the instruction.
func (i Instruction) params() string {
	switch i.Op {
	case Clear, Return, ScrollRight, ScrollLeft, Exit, LowRes, HighRes, AudioPattern:
		return ""
	case ScrollDown, ScrollUp:
		return fmt.Sprintf("%d", i.N)
	case Jump, Call:
		return fmt.Sprintf("$%03X", i.NNN)
	case JumpOffset:
		// the offset register is V0 or VX depending on the vip-jump quirk
		if i.X == 0 {
			return fmt.Sprintf("V0, $%03X", i.NNN)
		}
		return fmt.Sprintf("V0/V%X, $%03X", i.X, i.NNN)
	case SkipEqImm, SkipNeImm, LoadImm, AddImm, Random:
		return fmt.Sprintf("V%X, $%02X", i.X, i.NN)
	case SkipEqReg, SkipNeReg, Move, Or, And, Xor, Add, Sub, ShiftRight, SubReverse, ShiftLeft:
		return fmt.Sprintf("V%X, V%X", i.X, i.Y)
	case StoreRange:
		return fmt.Sprintf("[I], V%X-V%X", i.X, i.Y)
	case LoadRange:
		return fmt.Sprintf("V%X-V%X, [I]", i.X, i.Y)
	case LoadIndex:
		return fmt.Sprintf("I, $%03X", i.NNN)
	case LoadIndexLong:
		return "I, long"
	case Draw:
		return fmt.Sprintf("V%X, V%X, $%X", i.X, i.Y, i.N)
	case SkipKey, SkipNotKey:
		return fmt.Sprintf("V%X", i.X)
	case Planes:
		return fmt.Sprintf("%d", i.X)
	case GetDelay:
		return fmt.Sprintf("V%X, DT", i.X)
	case WaitKey:
		return fmt.Sprintf("V%X, K", i.X)
	case SetDelay:
		return fmt.Sprintf("DT, V%X", i.X)
	case SetSound:
		return fmt.Sprintf("ST, V%X", i.X)
	case AddIndex:
		return fmt.Sprintf("I, V%X", i.X)
	case SmallFont:
		return fmt.Sprintf("F, V%X", i.X)
	case LargeFont:
		return fmt.Sprintf("HF, V%X", i.X)
	case BCD:
		return fmt.Sprintf("B, V%X", i.X)
	case Store:
		return fmt.Sprintf("[I], V%X", i.X)
	case Load:
		return fmt.Sprintf("V%X, [I]", i.X)
	case SaveFlags:
		return fmt.Sprintf("R, V%X", i.X)
	case LoadFlags:
		return fmt.Sprintf("V%X, R", i.X)
	default:
		return fmt.Sprintf("$%04X", i.Word)
	}
}
