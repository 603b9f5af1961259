package vm

import (
	"errors"
	"fmt"
)

// Faults that halt the machine.
var (
	ErrUnknownOpcode  = errors.New("unknown opcode")
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrOutOfBounds    = errors.New("memory access out of bounds")
	ErrProgramExit    = errors.New("program exited")
)

// ErrProgramTooLarge is returned by Load when the program does not fit into
// the memory of the active system mode.
var ErrProgramTooLarge = errors.New("program too large")

// BoundsError describes a memory range that exceeds the memory ceiling.
type BoundsError struct {
	Address int
	Length  int
	Limit   uint16
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s: $%04X+%d exceeds $%04X", ErrOutOfBounds, e.Address, e.Length, e.Limit)
}

// Unwrap makes errors.Is match ErrOutOfBounds.
func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}

// Fault is the diagnostic recorded when the machine halts.
type Fault struct {
	Err    error  // cause, nil if the machine has not faulted since the last reset
	Opcode uint16 // instruction word being executed
	PC     uint16 // address of the instruction
}
