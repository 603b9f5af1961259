package vm

import (
	"github.com/retroenv/retrogolib/log"
)

// Tick decrements the delay and sound timers. It is called once per 60 Hz
// frame by Run.
func (m *Machine) Tick() {
	if m.delayTimer > 0 {
		m.delayTimer--
	}
	if m.soundTimer > 0 {
		m.soundTimer--
	}
}

// Run executes one frame: the timers are decremented and up to cycles
// instructions are executed. While debug stepping only a requested step is
// executed, a halted machine executes nothing.
func (m *Machine) Run(cycles int) {
	if !m.halted && !m.debugStepping {
		m.cycles = cycles
	}

	m.Tick()

	for m.cycles > 0 && !m.halted {
		m.cycles--

		word, err := m.fetch()
		if err != nil {
			m.instructionPC = m.pc
			m.opcode = 0
			m.fault(err)
			return
		}
		m.Execute(word)
	}
	m.cycles = 0
}

// DebugStepping returns whether the machine is paused for single stepping.
func (m *Machine) DebugStepping() bool {
	return m.debugStepping
}

// ToggleDebugStepping pauses or continues execution and returns the new
// stepping state.
func (m *Machine) ToggleDebugStepping(message string) bool {
	m.debugStepping = !m.debugStepping
	if m.debugStepping {
		m.logger.Info("Breakpoint", log.String("message", message), log.Hex("pc", m.pc))
	} else {
		m.cycles = 0
		m.logger.Info("Continue", log.String("message", message))
	}
	return m.debugStepping
}

// Step requests the execution of a single instruction by the next Run call.
// It is ignored unless the machine is paused for single stepping.
func (m *Machine) Step() {
	if !m.debugStepping || m.halted {
		return
	}
	m.cycles = 1
}
