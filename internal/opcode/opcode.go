// Package opcode decodes 16-bit CHIP-8, SUPER-CHIP and XO-CHIP instruction
// words into a closed set of operation kinds.
package opcode

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/mode"
)

// Size is the size of an instruction word in bytes.
const Size = 2

// LongLoadWord is the first word of the 4 byte XO-CHIP "i := long NNNN" instruction.
const LongLoadWord = 0xF000

// Op is the kind of operation encoded by an instruction word.
type Op uint8

// Operation kinds, grouped by their instruction family.
const (
	Unknown Op = iota

	ScrollDown  // 00CN
	ScrollUp    // 00DN
	Clear       // 00E0
	Return      // 00EE
	ScrollRight // 00FB
	ScrollLeft  // 00FC
	Exit        // 00FD
	LowRes      // 00FE
	HighRes     // 00FF

	Jump       // 1NNN
	Call       // 2NNN
	SkipEqImm  // 3XNN
	SkipNeImm  // 4XNN
	SkipEqReg  // 5XY0
	StoreRange // 5XY2
	LoadRange  // 5XY3
	LoadImm    // 6XNN
	AddImm     // 7XNN

	Move       // 8XY0
	Or         // 8XY1
	And        // 8XY2
	Xor        // 8XY3
	Add        // 8XY4
	Sub        // 8XY5
	ShiftRight // 8XY6
	SubReverse // 8XY7
	ShiftLeft  // 8XYE

	SkipNeReg  // 9XY0
	LoadIndex  // ANNN
	JumpOffset // BNNN
	Random     // CXNN
	Draw       // DXYN
	SkipKey    // EX9E
	SkipNotKey // EXA1

	LoadIndexLong // F000 NNNN
	Planes        // FN01
	AudioPattern  // F002
	GetDelay      // FX07
	WaitKey       // FX0A
	SetDelay      // FX15
	SetSound      // FX18
	AddIndex      // FX1E
	SmallFont     // FX29
	LargeFont     // FX30
	BCD           // FX33
	Store         // FX55
	Load          // FX65
	SaveFlags     // FX75
	LoadFlags     // FX85

	opCount
)

type opInfo struct {
	pattern  string
	mnemonic string
	minMode  mode.Mode
	base     bool // part of the original CHIP-8 instruction set
}

var ops = [opCount]opInfo{
	Unknown: {pattern: "????", mnemonic: "dw"},

	ScrollDown:  {pattern: "00CN", mnemonic: "scd", minMode: mode.Extended},
	ScrollUp:    {pattern: "00DN", mnemonic: "scu", minMode: mode.Richest},
	Clear:       {pattern: "00E0", mnemonic: "cls", base: true},
	Return:      {pattern: "00EE", mnemonic: "ret", base: true},
	ScrollRight: {pattern: "00FB", mnemonic: "scr", minMode: mode.Extended},
	ScrollLeft:  {pattern: "00FC", mnemonic: "scl", minMode: mode.Extended},
	Exit:        {pattern: "00FD", mnemonic: "exit", minMode: mode.Extended},
	LowRes:      {pattern: "00FE", mnemonic: "low", minMode: mode.Extended},
	HighRes:     {pattern: "00FF", mnemonic: "high", minMode: mode.Extended},

	Jump:       {pattern: "1NNN", mnemonic: "jp", base: true},
	Call:       {pattern: "2NNN", mnemonic: "call", base: true},
	SkipEqImm:  {pattern: "3XNN", mnemonic: "se", base: true},
	SkipNeImm:  {pattern: "4XNN", mnemonic: "sne", base: true},
	SkipEqReg:  {pattern: "5XY0", mnemonic: "se", base: true},
	StoreRange: {pattern: "5XY2", mnemonic: "ld", minMode: mode.Richest},
	LoadRange:  {pattern: "5XY3", mnemonic: "ld", minMode: mode.Richest},
	LoadImm:    {pattern: "6XNN", mnemonic: "ld", base: true},
	AddImm:     {pattern: "7XNN", mnemonic: "add", base: true},

	Move:       {pattern: "8XY0", mnemonic: "ld", base: true},
	Or:         {pattern: "8XY1", mnemonic: "or", base: true},
	And:        {pattern: "8XY2", mnemonic: "and", base: true},
	Xor:        {pattern: "8XY3", mnemonic: "xor", base: true},
	Add:        {pattern: "8XY4", mnemonic: "add", base: true},
	Sub:        {pattern: "8XY5", mnemonic: "sub", base: true},
	ShiftRight: {pattern: "8XY6", mnemonic: "shr", base: true},
	SubReverse: {pattern: "8XY7", mnemonic: "subn", base: true},
	ShiftLeft:  {pattern: "8XYE", mnemonic: "shl", base: true},

	SkipNeReg:  {pattern: "9XY0", mnemonic: "sne", base: true},
	LoadIndex:  {pattern: "ANNN", mnemonic: "ld", base: true},
	JumpOffset: {pattern: "BNNN", mnemonic: "jp", base: true},
	Random:     {pattern: "CXNN", mnemonic: "rnd", base: true},
	Draw:       {pattern: "DXYN", mnemonic: "drw", base: true},
	SkipKey:    {pattern: "EX9E", mnemonic: "skp", base: true},
	SkipNotKey: {pattern: "EXA1", mnemonic: "sknp", base: true},

	LoadIndexLong: {pattern: "F000", mnemonic: "ld", minMode: mode.Richest},
	Planes:        {pattern: "FN01", mnemonic: "plane", minMode: mode.Richest},
	AudioPattern:  {pattern: "F002", mnemonic: "audio", minMode: mode.Richest},
	GetDelay:      {pattern: "FX07", mnemonic: "ld", base: true},
	WaitKey:       {pattern: "FX0A", mnemonic: "ld", base: true},
	SetDelay:      {pattern: "FX15", mnemonic: "ld", base: true},
	SetSound:      {pattern: "FX18", mnemonic: "ld", base: true},
	AddIndex:      {pattern: "FX1E", mnemonic: "add", base: true},
	SmallFont:     {pattern: "FX29", mnemonic: "ld", base: true},
	LargeFont:     {pattern: "FX30", mnemonic: "ld", minMode: mode.Extended},
	BCD:           {pattern: "FX33", mnemonic: "ld", base: true},
	Store:         {pattern: "FX55", mnemonic: "ld", base: true},
	Load:          {pattern: "FX65", mnemonic: "ld", base: true},
	SaveFlags:     {pattern: "FX75", mnemonic: "ld", minMode: mode.Extended},
	LoadFlags:     {pattern: "FX85", mnemonic: "ld", minMode: mode.Extended},
}

// String returns the encoding pattern of the operation, for example "DXYN".
func (o Op) String() string {
	if o >= opCount {
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
	return ops[o].pattern
}

// Mnemonic returns the assembler mnemonic of the operation.
func (o Op) Mnemonic() string {
	if o >= opCount {
		return ops[Unknown].mnemonic
	}
	return ops[o].mnemonic
}

// MinMode returns the least capable system mode that supports the operation.
func (o Op) MinMode() mode.Mode {
	if o >= opCount {
		return mode.Classic
	}
	return ops[o].minMode
}

// SupportedIn returns whether the operation is valid in the given system mode.
func (o Op) SupportedIn(m mode.Mode) bool {
	return m >= o.MinMode()
}

// Base returns whether the operation belongs to the original CHIP-8 instruction set.
func (o Op) Base() bool {
	return o < opCount && ops[o].base
}
