// Package vm implements the CHIP-8, SUPER-CHIP and XO-CHIP virtual machine.
package vm

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/retroenv/retrochip8/internal/mode"
	"github.com/retroenv/retrogolib/log"
)

const (
	memorySize     = 0x10000
	registerCount  = 16
	keyCount       = 16
	rplSize        = 8
	patternSize    = 16
	patternDefault = 0xF0
)

// Machine is a single virtual machine instance. It is not safe for
// concurrent use.
type Machine struct {
	logger *log.Logger
	rnd    *rand.Rand
	trace  bool

	mode   mode.Mode
	quirks mode.Quirks
	params mode.Params
	res    mode.Resolution

	memory [memorySize]byte
	v      [registerCount]uint8
	i      uint16
	pc     uint16
	stack  []uint16
	sp     int // index of the top of stack entry, -1 if empty

	delayTimer uint8
	soundTimer uint8

	frameBuffer         [mode.MaxWidth * mode.MaxHeight]uint8
	previousFrameBuffer [mode.MaxWidth * mode.MaxHeight]uint8
	activePlane         uint8

	keys         [keyCount]bool
	previousKeys [keyCount]bool

	audioPattern [patternSize]uint8
	rpl          [rplSize]uint8
	writeRPL     bool

	screenDirty   bool
	wipeScreen    bool
	halted        bool
	debugStepping bool
	waitingForKey bool

	cycles        int    // remaining instructions of the current Run call
	instructionPC uint16 // address of the executing instruction
	opcode        uint16 // executing instruction word
	lastFault     Fault
}

// New returns a new machine in Classic mode that is reset and ready to run
// the built-in default program.
func New(logger *log.Logger) *Machine {
	seed := uint64(time.Now().UnixNano())
	m := &Machine{
		logger: logger,
		rnd:    rand.New(rand.NewPCG(seed, seed>>32)),
	}
	m.SetSystemMode(mode.Classic)
	return m
}

// SetSeed sets the seed of the random number generator used by CXNN and the
// SUPER-CHIP memory initialization.
func (m *Machine) SetSeed(seed uint64) {
	m.rnd = rand.New(rand.NewPCG(seed, seed>>32))
}

// SetTrace enables logging of every executed instruction at debug level.
func (m *Machine) SetTrace(enabled bool) {
	m.trace = enabled
}

// SetSystemMode selects the emulated system, loads the default quirks and
// parameters of the mode and resets the machine.
func (m *Machine) SetSystemMode(md mode.Mode) {
	if !md.Valid() {
		m.logger.Error("Invalid system mode", log.Stringer("mode", md))
		return
	}

	m.logger.Debug("Changing system mode", log.Stringer("mode", md))
	m.mode = md
	m.quirks = mode.Defaults(md)
	m.params = mode.Parameters(md)
	m.stack = make([]uint16, m.params.StackSize)
	m.res = mode.Resolution{
		BaseWidth:  m.params.BaseWidth,
		BaseHeight: m.params.BaseHeight,
	}
	m.Reset("system mode changed")
}

// SystemMode returns the active system mode.
func (m *Machine) SystemMode() mode.Mode {
	return m.mode
}

// Quirks returns the quirk flags of the active mode. The flags can be
// modified and take effect on the next executed instruction, until the next
// mode change restores the defaults.
func (m *Machine) Quirks() *mode.Quirks {
	return &m.quirks
}

// Reset returns the machine to its power-on state. The loaded program is
// replaced by the built-in default program.
func (m *Machine) Reset(reason string) {
	m.logger.Debug("Resetting machine", log.String("reason", reason))

	clear(m.memory[:])
	if m.mode == mode.Extended {
		// the HP48 does not clear its memory
		for addr := mode.EntryPoint; addr <= int(m.params.RAMLimit); addr++ {
			m.memory[addr] = uint8(m.rnd.Uint32())
		}
	}
	copy(m.memory[mode.FontAddress:], font[:])
	copy(m.memory[mode.LargeFontAddress:], largeFont[:])
	copy(m.memory[mode.EntryPoint:], defaultProgram)

	clear(m.frameBuffer[:])
	clear(m.previousFrameBuffer[:])
	clear(m.keys[:])
	clear(m.previousKeys[:])
	clear(m.stack)
	clear(m.v[:])
	m.sp = -1
	m.i = 0
	m.pc = mode.EntryPoint
	m.delayTimer = 0
	m.soundTimer = 0

	for i := range m.audioPattern {
		m.audioPattern[i] = patternDefault
	}

	m.res.HiRes = false
	m.activePlane = 1
	m.screenDirty = true
	m.wipeScreen = true
	m.waitingForKey = false
	m.cycles = 0
	m.halted = false
	m.lastFault = Fault{}
}

// Load copies the program to the entry point. The machine state is not
// reset, callers select the system mode first.
func (m *Machine) Load(program []byte) error {
	available := int(m.params.RAMLimit) + 1 - mode.EntryPoint
	if len(program) > available {
		return fmt.Errorf("%w: %d bytes, %d available in %s mode",
			ErrProgramTooLarge, len(program), available, m.mode)
	}

	copy(m.memory[mode.EntryPoint:], program)
	m.logger.Debug("Program loaded",
		log.Int("size", len(program)),
		log.Stringer("mode", m.mode))
	return nil
}

// SetKey sets the state of the keypad key with the given index.
func (m *Machine) SetKey(index int, pressed bool) {
	if index < 0 || index >= keyCount {
		m.logger.Warn("Invalid key index", log.Int("key", index))
		return
	}

	m.keys[index] = pressed
	if !pressed {
		m.previousKeys[index] = false
	}
}

// V returns the value of the register with the given index.
func (m *Machine) V(index int) uint8 {
	return m.v[index&0xF]
}

// Registers returns a copy of all general purpose registers.
func (m *Machine) Registers() [registerCount]uint8 {
	return m.v
}

// I returns the index register.
func (m *Machine) I() uint16 {
	return m.i
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.pc
}

// SP returns the index of the top stack entry, -1 if the stack is empty.
func (m *Machine) SP() int {
	return m.sp
}

// Stack returns a copy of the call stack entries.
func (m *Machine) Stack() []uint16 {
	return append([]uint16(nil), m.stack...)
}

// StackCapacity returns the number of call stack entries of the active mode.
func (m *Machine) StackCapacity() int {
	return len(m.stack)
}

// RAM returns the machine memory. Only addresses up to RAMLimit are
// accessible to programs.
func (m *Machine) RAM() []byte {
	return m.memory[:]
}

// RAMLimit returns the highest addressable memory location.
func (m *Machine) RAMLimit() uint16 {
	return m.params.RAMLimit
}

// DelayTimer returns the delay timer.
func (m *Machine) DelayTimer() uint8 {
	return m.delayTimer
}

// SoundTimer returns the sound timer. Sound is played while it is not zero.
func (m *Machine) SoundTimer() uint8 {
	return m.soundTimer
}

// AudioPattern returns the 128 bit XO-CHIP audio pattern buffer.
func (m *Machine) AudioPattern() []byte {
	return m.audioPattern[:]
}

// RPL returns the RPL user flags.
func (m *Machine) RPL() []byte {
	return m.rpl[:]
}

// RequestsRPLSave returns whether the RPL flags were written and should be
// persisted.
func (m *Machine) RequestsRPLSave() bool {
	return m.writeRPL
}

// ResetRPLRequest acknowledges a pending RPL save.
func (m *Machine) ResetRPLRequest() {
	m.writeRPL = false
}

// LoadRPL restores previously persisted RPL flags.
func (m *Machine) LoadRPL(data []byte) {
	copy(m.rpl[:], data)
}

// Halted returns whether the machine stopped after a fault or program exit.
func (m *Machine) Halted() bool {
	return m.halted
}

// WaitingForKey returns whether the machine is blocked in FX0A.
func (m *Machine) WaitingForKey() bool {
	return m.waitingForKey
}

// LastFault returns the reason of the last halt since the last reset.
func (m *Machine) LastFault() Fault {
	return m.lastFault
}
