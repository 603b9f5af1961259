// Package options contains the program options.
package options

// Emulation defaults.
const (
	DefaultCycles = 9   // instructions per frame
	DefaultFrames = 600 // 10 seconds at 60 Hz
	DefaultVolume = 5
	MaxVolume     = 10
	FrameRate     = 60
)

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input ROM file"`
	Output string `flag:"o" usage:"output file for the final screen (default: stdout)"`
	RPL    string `flag:"rpl" usage:"RPL flag file (default: <rom>.rpl)"`
	WAV    string `flag:"wav" usage:"record the sound output to a WAV file"`
}

// Flags contains behavior options.
type Flags struct {
	System   string `flag:"m" usage:"system mode: chip8, schip, xochip (default: auto-detect)"`
	Quirks   string `flag:"quirks" usage:"comma separated quirk overrides, prefix with ! to disable"`
	Keys     string `flag:"keys" usage:"comma separated hex keys held down while running"`
	Realtime bool   `flag:"realtime" usage:"pace frames at 60 Hz"`
	Trace    bool   `flag:"trace" usage:"log every executed instruction, requires -debug"`
	NoColor  bool   `flag:"nocolor" usage:"render the screen without colors"`
	Debug    bool   `flag:"debug" usage:"enable debug logging"`
	Quiet    bool   `flag:"q" usage:"quiet mode"`
}

// Emulation contains options of the frame loop.
type Emulation struct {
	Cycles int `flag:"cycles" usage:"instructions executed per frame" default:"9"`
	Frames int `flag:"frames" usage:"frames to run, 0 runs until interrupted" default:"600"`
	Volume int `flag:"volume" usage:"volume of the recorded sound 0-10" default:"5"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	Emulation
}
