package vm

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/mode"
	"github.com/retroenv/retrochip8/internal/opcode"
	"github.com/retroenv/retrogolib/log"
)

// result tells the fetch loop how to continue after an instruction.
type result int

const (
	proceed result = iota
	replay         // execute the same instruction again
)

// Execute executes a single instruction word as if it was fetched from the
// program counter. It does nothing while the machine is halted.
func (m *Machine) Execute(word uint16) {
	if m.halted {
		return
	}

	m.instructionPC = m.pc
	m.opcode = word
	m.pc += opcode.Size

	ins := opcode.Decode(word)
	if m.trace {
		m.logger.Debug("Executing instruction",
			log.Hex("pc", m.instructionPC),
			log.Hex("opcode", word),
			log.String("instruction", ins.String()))
	}

	if m.execute(ins) == replay {
		m.pc = m.instructionPC
	}
}

func (m *Machine) execute(ins opcode.Instruction) result {
	if ins.Op != opcode.Unknown && !ins.Op.SupportedIn(m.mode) {
		m.logger.Error("Instruction not supported in system mode",
			log.Hex("opcode", ins.Word),
			log.Hex("pc", m.instructionPC),
			log.Stringer("mode", m.mode))
		return proceed
	}

	switch ins.Op {
	case opcode.ScrollDown:
		m.scrollDown(int(ins.N))
	case opcode.ScrollUp:
		m.scrollUp(int(ins.N))
	case opcode.Clear:
		m.clearScreen()
	case opcode.Return:
		m.ret()
	case opcode.ScrollRight:
		m.scrollRight()
	case opcode.ScrollLeft:
		m.scrollLeft()
	case opcode.Exit:
		m.fault(ErrProgramExit)
	case opcode.LowRes:
		m.setResolution(false)
	case opcode.HighRes:
		m.setResolution(true)

	case opcode.Jump:
		m.setPC(int(ins.NNN))
	case opcode.Call:
		m.call(ins.NNN)
	case opcode.SkipEqImm:
		m.skipIf(m.v[ins.X] == ins.NN)
	case opcode.SkipNeImm:
		m.skipIf(m.v[ins.X] != ins.NN)
	case opcode.SkipEqReg:
		m.skipIf(m.v[ins.X] == m.v[ins.Y])
	case opcode.StoreRange:
		m.storeRange(ins.X, ins.Y)
	case opcode.LoadRange:
		m.loadRange(ins.X, ins.Y)
	case opcode.LoadImm:
		m.v[ins.X] = ins.NN
	case opcode.AddImm:
		m.v[ins.X] += ins.NN

	case opcode.Move, opcode.Or, opcode.And, opcode.Xor, opcode.Add, opcode.Sub,
		opcode.ShiftRight, opcode.SubReverse, opcode.ShiftLeft:
		m.arithmetic(ins)

	case opcode.SkipNeReg:
		m.skipIf(m.v[ins.X] != m.v[ins.Y])
	case opcode.LoadIndex:
		m.setIndex(int(ins.NNN))
	case opcode.JumpOffset:
		m.jumpOffset(ins)
	case opcode.Random:
		m.v[ins.X] = uint8(m.rnd.Uint32()) & ins.NN
	case opcode.Draw:
		m.draw(ins)
	case opcode.SkipKey:
		m.skipIf(m.keys[m.keyIndex(ins.X)])
	case opcode.SkipNotKey:
		m.skipIf(!m.keys[m.keyIndex(ins.X)])

	case opcode.LoadIndexLong:
		m.loadIndexLong()
	case opcode.Planes:
		m.selectPlanes(ins.X)
	case opcode.AudioPattern:
		m.loadAudioPattern()
	case opcode.GetDelay:
		m.v[ins.X] = m.delayTimer
	case opcode.WaitKey:
		return m.waitKey(ins.X)
	case opcode.SetDelay:
		m.delayTimer = m.v[ins.X]
	case opcode.SetSound:
		m.soundTimer = m.v[ins.X]
	case opcode.AddIndex:
		m.addIndex(ins.X)
	case opcode.SmallFont:
		m.smallFont(ins.X)
	case opcode.LargeFont:
		m.largeFont(ins.X)
	case opcode.BCD:
		m.bcd(ins.X)
	case opcode.Store:
		m.store(ins.X)
	case opcode.Load:
		m.load(ins.X)
	case opcode.SaveFlags:
		m.saveFlags(ins.X)
	case opcode.LoadFlags:
		m.loadFlags(ins.X)

	default:
		m.fault(fmt.Errorf("%w $%04X", ErrUnknownOpcode, ins.Word))
	}
	return proceed
}

func (m *Machine) call(target uint16) {
	if m.sp+1 >= len(m.stack) {
		m.fault(ErrStackOverflow)
		return
	}
	if _, err := m.address(int(target), opcode.Size); err != nil {
		m.fault(err)
		return
	}

	m.sp++
	m.stack[m.sp] = m.pc
	m.pc = target
}

func (m *Machine) ret() {
	if m.sp < 0 {
		m.fault(ErrStackUnderflow)
		return
	}

	m.pc = m.stack[m.sp]
	m.sp--
}

// skipIf skips the next instruction if the condition is true. In XO-CHIP the
// 4 byte long load instruction is skipped completely.
func (m *Machine) skipIf(condition bool) {
	if !condition {
		return
	}
	if m.mode == mode.Richest {
		if word, ok := m.nextWord(); ok && word == opcode.LongLoadWord {
			m.pc += opcode.Size
		}
	}
	m.pc += opcode.Size
}

func (m *Machine) jumpOffset(ins opcode.Instruction) {
	offset := m.v[ins.X]
	if m.quirks.VIPJump {
		offset = m.v[0]
	}
	m.setPC(int(ins.NNN) + int(offset))
}

// arithmetic executes the 8XYN register operations. VF is written after the
// result so that it holds the flag when X is F.
func (m *Machine) arithmetic(ins opcode.Instruction) {
	x, y := m.v[ins.X], m.v[ins.Y]

	switch ins.Op {
	case opcode.Move:
		m.v[ins.X] = y

	case opcode.Or, opcode.And, opcode.Xor:
		switch ins.Op {
		case opcode.Or:
			m.v[ins.X] = x | y
		case opcode.And:
			m.v[ins.X] = x & y
		default:
			m.v[ins.X] = x ^ y
		}
		if m.quirks.LogicFlagReset {
			m.v[0xF] = 0
		}

	case opcode.Add:
		sum := uint16(x) + uint16(y)
		m.v[ins.X] = uint8(sum)
		m.v[0xF] = boolToFlag(sum > 0xFF)

	case opcode.Sub:
		m.v[ins.X] = x - y
		m.v[0xF] = boolToFlag(x >= y)

	case opcode.SubReverse:
		m.v[ins.X] = y - x
		m.v[0xF] = boolToFlag(y >= x)

	case opcode.ShiftRight:
		if m.quirks.VIPShifts {
			x = y
		}
		m.v[ins.X] = x >> 1
		m.v[0xF] = x & 0x01

	case opcode.ShiftLeft:
		if m.quirks.VIPShifts {
			x = y
		}
		m.v[ins.X] = x << 1
		m.v[0xF] = x >> 7
	}
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// keyIndex returns the key number stored in register x.
func (m *Machine) keyIndex(x uint8) uint8 {
	key := m.v[x]
	if key > 0xF {
		m.logger.Warn("Invalid key number, using the low nibble",
			log.Hex("key", key),
			log.Hex("pc", m.instructionPC))
	}
	return key & 0xF
}

// waitKey stores the first key that was pressed since the last check in VX.
// The instruction is replayed until a key press is detected.
func (m *Machine) waitKey(x uint8) result {
	for key := range m.keys {
		if m.keys[key] && !m.previousKeys[key] {
			m.previousKeys[key] = true
			m.v[x] = uint8(key)
			m.waitingForKey = false
			return proceed
		}
	}

	m.waitingForKey = true
	return replay
}

func (m *Machine) loadIndexLong() {
	word, ok := m.nextWord()
	if !ok {
		m.fault(&BoundsError{Address: int(m.pc), Length: opcode.Size, Limit: m.params.RAMLimit})
		return
	}
	m.i = word
	m.pc += opcode.Size
}

func (m *Machine) selectPlanes(planes uint8) {
	if planes > planeMask {
		m.logger.Warn("Invalid plane selection", log.Uint8("planes", planes))
		return
	}
	m.activePlane = planes
}

func (m *Machine) loadAudioPattern() {
	addr, err := m.address(int(m.i), patternSize)
	if err != nil {
		m.fault(err)
		return
	}
	copy(m.audioPattern[:], m.memory[addr:int(addr)+patternSize])
}

func (m *Machine) addIndex(x uint8) {
	sum := int(m.i) + int(m.v[x])
	if m.mode == mode.Extended {
		m.v[0xF] = boolToFlag(sum > 0xFFF)
	}
	m.setIndex(sum)
}

func (m *Machine) smallFont(x uint8) {
	digit := int(m.v[x])
	if m.quirks.LargeFontDigits && digit >= 0x10 && digit <= 0x19 {
		m.i = uint16(mode.LargeFontAddress + (digit&0xF)*10)
		return
	}
	m.i = uint16(mode.FontAddress + (digit&0xF)*5)
}

func (m *Machine) largeFont(x uint8) {
	digit := int(m.v[x])
	if m.mode == mode.Extended && digit > 9 {
		m.logger.Warn("SUPER-CHIP has no large font for digit",
			log.Int("digit", digit),
			log.Hex("pc", m.instructionPC))
	}
	m.i = uint16(mode.LargeFontAddress + (digit&0xF)*10)
}

func (m *Machine) bcd(x uint8) {
	addr, err := m.address(int(m.i), 3)
	if err != nil {
		m.fault(err)
		return
	}

	value := m.v[x]
	m.memory[addr] = value / 100
	m.memory[addr+1] = value / 10 % 10
	m.memory[addr+2] = value % 10
}

// store writes V0..VX to memory at I. An index increment that passes the
// memory ceiling halts the machine after the transfer.
func (m *Machine) store(x uint8) {
	count := int(x) + 1
	addr, err := m.address(int(m.i), count)
	if err != nil {
		m.fault(err)
		return
	}

	copy(m.memory[addr:int(addr)+count], m.v[:count])
	switch {
	case m.quirks.IndexIncrement:
		m.setIndex(int(addr) + count)
	case m.quirks.IndexAdvanceLegacy:
		m.setIndex(int(addr) + count - 1)
	}
}

// load reads V0..VX from memory at I.
func (m *Machine) load(x uint8) {
	count := int(x) + 1
	addr, err := m.address(int(m.i), count)
	if err != nil {
		m.fault(err)
		return
	}

	copy(m.v[:count], m.memory[addr:int(addr)+count])
	if m.quirks.IndexIncrement {
		m.setIndex(int(addr) + count)
	}
}

// registerRange returns the registers from x to y in the order given,
// ascending or descending. I is not changed by range transfers.
func registerRange(x, y uint8) []uint8 {
	step := 1
	if x > y {
		step = -1
	}

	regs := make([]uint8, 0, 16)
	for r := int(x); ; r += step {
		regs = append(regs, uint8(r))
		if r == int(y) {
			return regs
		}
	}
}

func (m *Machine) storeRange(x, y uint8) {
	regs := registerRange(x, y)
	addr, err := m.address(int(m.i), len(regs))
	if err != nil {
		m.fault(err)
		return
	}

	for offset, r := range regs {
		m.memory[int(addr)+offset] = m.v[r]
	}
}

func (m *Machine) loadRange(x, y uint8) {
	regs := registerRange(x, y)
	addr, err := m.address(int(m.i), len(regs))
	if err != nil {
		m.fault(err)
		return
	}

	for offset, r := range regs {
		m.v[r] = m.memory[int(addr)+offset]
	}
}

// rplRegister clamps the register number of FX75/FX85 to the 8 RPL flags.
func (m *Machine) rplRegister(x uint8) int {
	if x >= rplSize {
		m.logger.Warn("RPL flag register out of range, using V7",
			log.Uint8("register", x),
			log.Hex("pc", m.instructionPC))
		return rplSize - 1
	}
	return int(x)
}

func (m *Machine) saveFlags(x uint8) {
	count := m.rplRegister(x) + 1
	copy(m.rpl[:count], m.v[:count])
	m.writeRPL = true
}

func (m *Machine) loadFlags(x uint8) {
	count := m.rplRegister(x) + 1
	copy(m.v[:count], m.rpl[:count])
}
