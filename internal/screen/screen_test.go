package screen

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/mode"
	"github.com/retroenv/retrogolib/assert"
)

type framebuffer struct {
	vram []byte
	res  mode.Resolution
}

func (f *framebuffer) VRAM() []byte                { return f.vram }
func (f *framebuffer) Resolution() mode.Resolution { return f.res }

func newFramebuffer(width, height int, hiRes bool) *framebuffer {
	return &framebuffer{
		vram: make([]byte, mode.MaxWidth*mode.MaxHeight),
		res:  mode.Resolution{BaseWidth: width, BaseHeight: height, HiRes: hiRes},
	}
}

func (f *framebuffer) set(x, y int, planes uint8) {
	f.vram[y*f.res.BaseWidth+x] = planes
}

func TestRenderPlain(t *testing.T) {
	fb := newFramebuffer(64, 32, false)
	fb.set(0, 0, 1)
	fb.set(1, 1, 2)
	fb.set(2, 0, 3)
	fb.set(2, 1, 1)

	var buf bytes.Buffer
	assert.NoError(t, New(false).Render(&buf, fb))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 16)
	assert.True(t, strings.HasPrefix(lines[0], "▀▄█ "))
	assert.Equal(t, strings.Repeat(" ", 64), lines[15])
}

func TestRenderLowResolutionScaled(t *testing.T) {
	fb := newFramebuffer(mode.MaxWidth, mode.MaxHeight, false)
	// a lo-res pixel at (1,0) covers cells (2,0) to (3,1)
	fb.set(2, 0, 1)
	fb.set(3, 0, 1)
	fb.set(2, 1, 1)
	fb.set(3, 1, 1)

	var buf bytes.Buffer
	assert.NoError(t, New(false).Render(&buf, fb))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 16)
	assert.Equal(t, " ▀"+strings.Repeat(" ", 62), lines[0])
}

func TestRenderHighResolution(t *testing.T) {
	fb := newFramebuffer(mode.MaxWidth, mode.MaxHeight, true)
	fb.set(127, 63, 1)

	var buf bytes.Buffer
	assert.NoError(t, New(false).Render(&buf, fb))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 32)
	assert.Equal(t, strings.Repeat(" ", 127)+"▄", lines[31])
}

func TestRenderColor(t *testing.T) {
	fb := newFramebuffer(64, 32, false)
	fb.set(0, 0, 2)
	fb.set(0, 1, 3)

	var buf bytes.Buffer
	assert.NoError(t, New(true).Render(&buf, fb))

	output := buf.String()
	assert.True(t, strings.HasPrefix(output, "\033[38;2;238;85;0m\033[48;2;85;17;0m▀"))
	assert.Contains(t, output, resetColor+"\n")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestRenderWriteError(t *testing.T) {
	fb := newFramebuffer(64, 32, false)
	err := New(false).Render(failingWriter{}, fb)
	assert.ErrorContains(t, err, "disk full")
}
