package vm

import (
	"github.com/retroenv/retrochip8/internal/mode"
	"github.com/retroenv/retrochip8/internal/opcode"
)

const (
	planeMask   = 0x3 // bits of both drawing planes
	scrollWidth = 4   // columns moved by a horizontal scroll
)

// VRAM returns the framebuffer. Each cell holds a bitmask of the planes set
// at that position, rows are Resolution().BaseWidth cells wide.
func (m *Machine) VRAM() []byte {
	return m.frameBuffer[:]
}

// PreviousVRAM returns the framebuffer saved by the last SaveCurrentVRAM call.
func (m *Machine) PreviousVRAM() []byte {
	return m.previousFrameBuffer[:]
}

// SaveCurrentVRAM copies the framebuffer into the previous framebuffer, used
// by front ends to compute changed cells.
func (m *Machine) SaveCurrentVRAM() {
	m.previousFrameBuffer = m.frameBuffer
}

// Resolution returns the base framebuffer dimensions and the display mode.
func (m *Machine) Resolution() mode.Resolution {
	return m.res
}

// ActivePlanes returns the bitmask of the planes that drawing affects.
func (m *Machine) ActivePlanes() uint8 {
	return m.activePlane
}

// ScreenDirty returns whether the framebuffer changed since the last
// ResetScreenDirty call.
func (m *Machine) ScreenDirty() bool {
	return m.screenDirty
}

// ResetScreenDirty acknowledges a framebuffer change.
func (m *Machine) ResetScreenDirty() {
	m.screenDirty = false
}

// WipeScreen returns whether the whole screen needs to be redrawn.
func (m *Machine) WipeScreen() bool {
	return m.wipeScreen
}

// ResetWipeScreen acknowledges a full screen redraw.
func (m *Machine) ResetWipeScreen() {
	m.wipeScreen = false
}

// clearScreen clears the active planes in both framebuffers.
func (m *Machine) clearScreen() {
	size := m.res.BaseWidth * m.res.BaseHeight
	for i := range size {
		m.frameBuffer[i] &^= m.activePlane
		m.previousFrameBuffer[i] &^= m.activePlane
	}
	m.screenDirty = true
	m.wipeScreen = true
}

// setResolution switches between lo-res and hi-res. XO-CHIP clears all
// planes on a switch.
func (m *Machine) setResolution(hiRes bool) {
	if m.mode == mode.Richest {
		clear(m.frameBuffer[:])
		clear(m.previousFrameBuffer[:])
	}
	m.res.HiRes = hiRes
	m.screenDirty = true
	m.wipeScreen = true
}

// moveCell replaces the active plane bits of cell dst with the ones of src.
func (m *Machine) moveCell(dst, src int) {
	p := m.activePlane
	m.frameBuffer[dst] = m.frameBuffer[dst]&^p | m.frameBuffer[src]&p
}

func (m *Machine) scrollDown(rows int) {
	if rows == 0 {
		return
	}
	w, h := m.res.BaseWidth, m.res.BaseHeight
	rows = min(rows, h)
	m.screenDirty = true

	for y := h - 1; y >= rows; y-- {
		for x := range w {
			m.moveCell(y*w+x, (y-rows)*w+x)
		}
	}
	for y := range rows {
		for x := range w {
			m.frameBuffer[y*w+x] &^= m.activePlane
		}
	}
}

func (m *Machine) scrollUp(rows int) {
	if rows == 0 {
		return
	}
	if !m.res.HiRes {
		rows *= 2
	}
	w, h := m.res.BaseWidth, m.res.BaseHeight
	rows = min(rows, h)
	m.screenDirty = true

	for y := range h - rows {
		for x := range w {
			m.moveCell(y*w+x, (y+rows)*w+x)
		}
	}
	for y := h - rows; y < h; y++ {
		for x := range w {
			m.frameBuffer[y*w+x] &^= m.activePlane
		}
	}
}

func (m *Machine) scrollRight() {
	w, h := m.res.BaseWidth, m.res.BaseHeight
	m.screenDirty = true

	for y := range h {
		row := y * w
		for x := w - 1; x >= scrollWidth; x-- {
			m.moveCell(row+x, row+x-scrollWidth)
		}
		for x := range scrollWidth {
			m.frameBuffer[row+x] &^= m.activePlane
		}
	}
}

func (m *Machine) scrollLeft() {
	w, h := m.res.BaseWidth, m.res.BaseHeight
	m.screenDirty = true

	for y := range h {
		row := y * w
		for x := range w - scrollWidth {
			m.moveCell(row+x, row+x+scrollWidth)
		}
		for x := w - scrollWidth; x < w; x++ {
			m.frameBuffer[row+x] &^= m.activePlane
		}
	}
}

// sprite describes the geometry of a DXYN draw.
type sprite struct {
	width       int // in pixels, 8 or 16
	height      int // in rows
	bytesPerRow int
	pixelSize   int // framebuffer cells per pixel edge
}

func (m *Machine) spriteGeometry(n uint8) sprite {
	s := sprite{width: 8, height: int(n), pixelSize: 1}
	if m.mode != mode.Classic {
		if s.height == 0 {
			s.height = 16
			if m.mode == mode.Richest || m.res.HiRes {
				s.width = 16
			}
		}
		if !m.res.HiRes {
			s.pixelSize = 2
		}
	}
	s.bytesPerRow = s.width / 8
	return s
}

// draw XORs a sprite from memory at I onto every active plane. VF is set to 1
// if a set pixel was cleared. SUPER-CHIP in hi-res sets VF to the number of
// rows that collided or were clipped at the bottom edge.
func (m *Machine) draw(ins opcode.Instruction) {
	if m.activePlane == 0 {
		return
	}
	m.screenDirty = true

	s := m.spriteGeometry(ins.N)
	planeBytes := s.bytesPerRow * s.height
	planes := 0
	for plane := uint8(1); plane <= 2; plane <<= 1 {
		if m.activePlane&plane != 0 {
			planes++
		}
	}
	if size := planeBytes * planes; size > 0 {
		if _, err := m.address(int(m.i), size); err != nil {
			m.fault(err)
			return
		}
	}

	logicalWidth := m.res.BaseWidth / s.pixelSize
	logicalHeight := m.res.BaseHeight / s.pixelSize
	startX := int(m.v[ins.X]) % logicalWidth
	startY := int(m.v[ins.Y]) % logicalHeight

	var flag uint8
	rowCount := 0
	data := int(m.i)

	for plane := uint8(1); plane <= 2; plane <<= 1 {
		if m.activePlane&plane == 0 {
			continue
		}

		for row := range s.height {
			y := startY + row
			if y >= logicalHeight {
				if !m.quirks.DrawWrap {
					rowCount++
					continue
				}
				y %= logicalHeight
			}

			bits := m.spriteRow(data+row*s.bytesPerRow, s.bytesPerRow)
			if m.drawRow(bits, s, startX, y, logicalWidth, plane) {
				flag = 1
				rowCount++
			}
		}
		data += planeBytes
	}

	// XO-CHIP keeps the collision flag in hi-res
	if m.mode == mode.Extended && m.res.HiRes {
		flag = uint8(rowCount)
	}
	m.v[0xF] = flag

	if m.quirks.DrawVBlank {
		m.cycles = 0
	}
}

// spriteRow returns the pixel bits of a sprite row, most significant bit first.
func (m *Machine) spriteRow(addr, bytesPerRow int) uint16 {
	if bytesPerRow == 2 {
		return uint16(m.memory[addr])<<8 | uint16(m.memory[addr+1])
	}
	return uint16(m.memory[addr])
}

// drawRow XORs a sprite row at logical row y and returns whether a pixel was
// cleared.
func (m *Machine) drawRow(bits uint16, s sprite, startX, y, logicalWidth int, plane uint8) bool {
	collided := false
	for col := range s.width {
		x := startX + col
		if x >= logicalWidth {
			if !m.quirks.DrawWrap {
				break
			}
			x %= logicalWidth
		}

		if bits&(1<<(s.width-1-col)) == 0 {
			continue
		}
		if m.togglePixel(x*s.pixelSize, y*s.pixelSize, s.pixelSize, plane) {
			collided = true
		}
	}
	return collided
}

// togglePixel flips a square block of framebuffer cells on the given plane.
// The top left cell decides whether the block is set or cleared.
func (m *Machine) togglePixel(cellX, cellY, size int, plane uint8) bool {
	w := m.res.BaseWidth
	set := m.frameBuffer[cellY*w+cellX]&plane == 0

	for dy := range size {
		for dx := range size {
			idx := (cellY+dy)*w + cellX + dx
			if set {
				m.frameBuffer[idx] |= plane
			} else {
				m.frameBuffer[idx] &^= plane
			}
		}
	}
	return !set
}
