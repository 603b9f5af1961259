// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/mode"
	"github.com/retroenv/retrochip8/internal/options"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	var opts options.Program
	readOptionFlags(flags, &opts)

	if err := flags.Parse(os.Args[1:]); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}
	args := flags.Args()
	if len(args) == 0 && opts.Input == "" {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if len(args) > 0 {
		opts.Input = args[0]
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <ROM file>\n\n")
	if e.flags != nil {
		e.flags.SetOutput(os.Stdout)
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && strings.HasPrefix(arg, "-") {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	if opts.System != "" {
		opts.System = strings.ToLower(opts.System)
		if _, err := mode.Parse(opts.System); err != nil {
			return fmt.Errorf("%w, valid modes: chip8, schip, xochip", err)
		}
	}

	// validate overrides against a scratch set, they are applied after the mode is known
	var quirks mode.Quirks
	if err := config.ApplyQuirks(&quirks, opts.Quirks); err != nil {
		return err
	}
	if _, err := config.ParseKeys(opts.Keys); err != nil {
		return err
	}

	switch {
	case opts.Cycles < 1:
		return fmt.Errorf("invalid cycles per frame %d, must be at least 1", opts.Cycles)
	case opts.Frames < 0:
		return fmt.Errorf("invalid frame count %d", opts.Frames)
	case opts.Volume < 0 || opts.Volume > options.MaxVolume:
		return fmt.Errorf("invalid volume %d, valid range is 0-%d", opts.Volume, options.MaxVolume)
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Output, "o", "", "name of the file to write the final screen to, printed on console if no name given")
	flags.StringVar(&opts.RPL, "rpl", "", "name of the RPL flag file (default: <ROM file>.rpl)")
	flags.StringVar(&opts.WAV, "wav", "", "name of the WAV file to record the sound output to")
	flags.StringVar(&opts.System, "m", "", "system mode to run (chip8, schip, xochip) - if not auto-detected from file extension")
	flags.StringVar(&opts.Quirks, "quirks", "", "comma separated quirk overrides, prefix a quirk with ! to disable it: "+strings.Join(mode.Names(), ", "))
	flags.StringVar(&opts.Keys, "keys", "", "comma separated hexadecimal keypad keys that are held down while running")
	flags.IntVar(&opts.Cycles, "cycles", options.DefaultCycles, "instructions executed per frame")
	flags.IntVar(&opts.Frames, "frames", options.DefaultFrames, "frames to run at 60 Hz, 0 runs until interrupted")
	flags.IntVar(&opts.Volume, "volume", options.DefaultVolume, "volume of the recorded sound (0-10)")
	flags.BoolVar(&opts.Realtime, "realtime", false, "pace the frames at 60 Hz instead of running as fast as possible")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, requires -debug")
	flags.BoolVar(&opts.NoColor, "nocolor", false, "render the screen without colors")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
