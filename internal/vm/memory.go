package vm

import (
	"errors"

	"github.com/retroenv/retrochip8/internal/opcode"
	"github.com/retroenv/retrogolib/log"
)

// address validates that length bytes starting at addr are below the memory
// ceiling of the active mode and returns the start address.
func (m *Machine) address(addr, length int) (uint16, error) {
	if addr < 0 || length < 1 || addr+length-1 > int(m.params.RAMLimit) {
		return 0, &BoundsError{
			Address: addr,
			Length:  length,
			Limit:   m.params.RAMLimit,
		}
	}
	return uint16(addr), nil
}

// readWord reads the big endian word at addr.
func (m *Machine) readWord(addr uint16) uint16 {
	return uint16(m.memory[addr])<<8 | uint16(m.memory[int(addr)+1])
}

// fetch reads the instruction word at the program counter.
func (m *Machine) fetch() (uint16, error) {
	addr, err := m.address(int(m.pc), opcode.Size)
	if err != nil {
		return 0, err
	}
	return m.readWord(addr), nil
}

// nextWord returns the word following the executing instruction, or false
// if it is outside of memory.
func (m *Machine) nextWord() (uint16, bool) {
	addr, err := m.address(int(m.pc), opcode.Size)
	if err != nil {
		return 0, false
	}
	return m.readWord(addr), true
}

// setPC sets the program counter to a validated target address.
func (m *Machine) setPC(target int) {
	addr, err := m.address(target, opcode.Size)
	if err != nil {
		m.fault(err)
		return
	}
	m.pc = addr
}

// setIndex sets the index register to a validated address.
func (m *Machine) setIndex(value int) {
	addr, err := m.address(value, 1)
	if err != nil {
		m.fault(err)
		return
	}
	m.i = addr
}

// fault halts the machine and records the cause.
func (m *Machine) fault(err error) {
	m.halted = true
	m.cycles = 0
	m.lastFault = Fault{
		Err:    err,
		Opcode: m.opcode,
		PC:     m.instructionPC,
	}

	if errors.Is(err, ErrProgramExit) {
		m.logger.Info("Program exited", log.Hex("pc", m.instructionPC))
		return
	}
	m.logger.Error("Machine halted",
		log.Err(err),
		log.Hex("opcode", m.opcode),
		log.Hex("pc", m.instructionPC))
}
