// Package screen renders the machine framebuffer as terminal text.
package screen

import (
	"bufio"
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/mode"
)

// Source provides the framebuffer of a machine.
type Source interface {
	VRAM() []byte
	Resolution() mode.Resolution
}

// RGB is a 24 bit color.
type RGB struct {
	R, G, B uint8
}

// Palette maps the 2 plane bits of a framebuffer cell to a color.
var Palette = [4]RGB{
	{0x88, 0x55, 0x00}, // background
	{0xEE, 0xBB, 0x00}, // plane 1
	{0xEE, 0x55, 0x00}, // plane 2
	{0x55, 0x11, 0x00}, // both planes
}

// half block characters indexed by top | bottom<<1
var blocks = [4]string{" ", "▀", "▄", "█"}

const (
	upperHalf  = "▀"
	resetColor = "\033[0m"
)

// Renderer converts the framebuffer into lines of half block characters,
// each text line covers 2 pixel rows.
type Renderer struct {
	color bool
}

// New returns a renderer. Color output uses 24 bit ANSI escape sequences
// and shows the plane combination of every pixel.
func New(color bool) *Renderer {
	return &Renderer{
		color: color,
	}
}

// Render writes the visible screen of the source to the writer.
func (r *Renderer) Render(w io.Writer, src Source) error {
	res := src.Resolution()
	vram := src.VRAM()

	// lo-res pixels cover 2x2 cells of the 128x64 framebuffer
	step := 1
	if res.BaseWidth == mode.MaxWidth && !res.HiRes {
		step = 2
	}

	cell := func(x, y int) uint8 {
		return vram[y*step*res.BaseWidth+x*step] & 0x3
	}

	width := res.BaseWidth / step
	height := res.BaseHeight / step

	buf := bufio.NewWriter(w)
	for y := 0; y < height; y += 2 {
		for x := range width {
			top := cell(x, y)
			var bottom uint8
			if y+1 < height {
				bottom = cell(x, y+1)
			}

			if r.color {
				fg, bg := Palette[top], Palette[bottom]
				_, _ = fmt.Fprintf(buf, "\033[38;2;%d;%d;%dm\033[48;2;%d;%d;%dm%s",
					fg.R, fg.G, fg.B, bg.R, bg.G, bg.B, upperHalf)
				continue
			}

			idx := 0
			if top != 0 {
				idx |= 1
			}
			if bottom != 0 {
				idx |= 2
			}
			_, _ = buf.WriteString(blocks[idx])
		}

		if r.color {
			_, _ = buf.WriteString(resetColor)
		}
		_, _ = buf.WriteString("\n")
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("writing screen: %w", err)
	}
	return nil
}
