package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func parseArgs(t *testing.T, args ...string) (options.Program, error) {
	t.Helper()
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = append([]string{"prog"}, args...)
	return ParseFlags()
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Program
	}{
		{
			name: "defaults",
			args: []string{"pong.ch8"},
			want: options.Program{
				Parameters: options.Parameters{Input: "pong.ch8"},
				Emulation: options.Emulation{
					Cycles: options.DefaultCycles,
					Frames: options.DefaultFrames,
					Volume: options.DefaultVolume,
				},
			},
		},
		{
			name: "all options",
			args: []string{
				"-m", "XOCHIP", "-cycles", "200", "-frames", "0", "-volume", "10",
				"-quirks", "draw-wrap,!vip-jump", "-keys", "5,a",
				"-rpl", "flags.rpl", "-wav", "out.wav", "-o", "screen.txt",
				"-realtime", "-trace", "-nocolor", "-debug", "-q",
				"game.xo8",
			},
			want: options.Program{
				Parameters: options.Parameters{
					Input:  "game.xo8",
					Output: "screen.txt",
					RPL:    "flags.rpl",
					WAV:    "out.wav",
				},
				Flags: options.Flags{
					System:   "xochip",
					Quirks:   "draw-wrap,!vip-jump",
					Keys:     "5,a",
					Realtime: true,
					Trace:    true,
					NoColor:  true,
					Debug:    true,
					Quiet:    true,
				},
				Emulation: options.Emulation{Cycles: 200, Frames: 0, Volume: 10},
			},
		},
		{
			name: "input flag",
			args: []string{"-i", "test.sc8"},
			want: options.Program{
				Parameters: options.Parameters{Input: "test.sc8"},
				Emulation: options.Emulation{
					Cycles: options.DefaultCycles,
					Frames: options.DefaultFrames,
					Volume: options.DefaultVolume,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(t, tt.args...)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlagsUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no file", nil},
		{"unknown flag", []string{"-turbo", "pong.ch8"}},
		{"flag after file", []string{"pong.ch8", "-debug"}},
		{"empty argument after file", []string{"pong.ch8", "", "-q"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseArgs(t, tt.args...)
			var usageErr *UsageError
			assert.True(t, errors.As(err, &usageErr))
		})
	}
}

func TestParseFlagsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{"mode", []string{"-m", "nes", "pong.ch8"}, "unsupported system mode"},
		{"quirk", []string{"-quirks", "turbo", "pong.ch8"}, "unknown quirk"},
		{"key", []string{"-keys", "x", "pong.ch8"}, "invalid key"},
		{"cycles", []string{"-cycles", "0", "pong.ch8"}, "invalid cycles"},
		{"frames", []string{"-frames", "-1", "pong.ch8"}, "invalid frame count"},
		{"volume", []string{"-volume", "11", "pong.ch8"}, "invalid volume"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseArgs(t, tt.args...)
			assert.ErrorContains(t, err, tt.contains)

			var usageErr *UsageError
			assert.False(t, errors.As(err, &usageErr))
		})
	}
}

func TestValidateArgs(t *testing.T) {
	assert.NoError(t, validateArgs([]string{"pong.ch8", ""}))
	assert.NoError(t, validateArgs([]string{"", "pong.ch8"}))

	var usageErr *UsageError
	assert.True(t, errors.As(validateArgs([]string{"pong.ch8", "-q"}), &usageErr))
}
