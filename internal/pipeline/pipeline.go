// Package pipeline orchestrates the emulation workflow stages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/mode"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/rpl"
	"github.com/retroenv/retrochip8/internal/screen"
	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrochip8/internal/wavwriter"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates the complete emulation workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new emulation pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute runs the complete emulation pipeline and writes the final screen
// to the writer.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, writer io.Writer) (*vm.Machine, error) {
	// Detect system mode
	md := p.detector.Detect(opts)

	// Load ROM
	rom, err := p.loader.Load(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("loading ROM: %w", err)
	}

	return p.ExecuteWithROM(ctx, rom, md, opts, writer)
}

// ExecuteWithROM runs the emulation pipeline with a pre-loaded ROM.
// This is useful for testing and programmatic usage where the ROM is already in memory.
func (p *Pipeline) ExecuteWithROM(ctx context.Context, rom []byte, md mode.Mode,
	opts options.Program, writer io.Writer) (*vm.Machine, error) {

	machine, err := p.createMachine(rom, md, opts)
	if err != nil {
		return nil, fmt.Errorf("creating machine: %w", err)
	}

	// Flag registers persist in a file next to the ROM
	store := p.createRPLStore(opts)
	if store != nil {
		flags, err := store.Load()
		if err != nil {
			return nil, fmt.Errorf("loading flag registers: %w", err)
		}
		machine.LoadRPL(flags)
	}

	var audio *wavwriter.Writer
	if opts.WAV != "" {
		audio = wavwriter.New(p.logger, opts.WAV)
		audio.SetVolume(opts.Volume)
	}

	// Print info before running
	p.printInfo(opts, md)

	runErr := p.runFrames(ctx, machine, opts, store, audio)

	if audio != nil {
		if err := audio.Close(); err != nil && runErr == nil {
			runErr = fmt.Errorf("writing audio: %w", err)
		}
	}

	if err := screen.New(!opts.NoColor).Render(writer, machine); err != nil && runErr == nil {
		runErr = fmt.Errorf("rendering screen: %w", err)
	}

	return machine, runErr
}

// createMachine creates a machine for the system mode and loads the ROM.
func (p *Pipeline) createMachine(rom []byte, md mode.Mode, opts options.Program) (*vm.Machine, error) {
	machine := vm.New(p.logger)
	machine.SetSystemMode(md)
	machine.SetTrace(opts.Trace)

	if err := config.ApplyQuirks(machine.Quirks(), opts.Quirks); err != nil {
		return nil, err
	}

	if err := machine.Load(rom); err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}

	keys, err := config.ParseKeys(opts.Keys)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		machine.SetKey(key, true)
	}

	return machine, nil
}

// createRPLStore returns the flag register store, nil if no file name is known.
func (p *Pipeline) createRPLStore(opts options.Program) *rpl.Store {
	switch {
	case opts.RPL != "":
		return rpl.New(opts.RPL)
	case opts.Input != "":
		return rpl.New(rpl.DefaultPath(opts.Input))
	default:
		return nil
	}
}

// runFrames runs the machine frame by frame until the frame limit is reached,
// the machine halts or the context is cancelled. A frame limit of 0 runs
// until the machine halts.
func (p *Pipeline) runFrames(ctx context.Context, machine *vm.Machine, opts options.Program,
	store *rpl.Store, audio *wavwriter.Writer) error {

	var ticker *time.Ticker
	if opts.Realtime {
		ticker = time.NewTicker(time.Second / options.FrameRate)
		defer ticker.Stop()
	}

	frames := 0
	for opts.Frames == 0 || frames < opts.Frames {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("running frame %d: %w", frames, err)
		}

		machine.Run(opts.Cycles)
		frames++

		if audio != nil {
			audio.Frame(machine)
		}

		if machine.RequestsRPLSave() {
			if store != nil {
				if err := store.Save(machine.RPL()); err != nil {
					return fmt.Errorf("saving flag registers: %w", err)
				}
				p.logger.Debug("Saved flag registers", log.String("file", store.Path()))
			}
			machine.ResetRPLRequest()
		}

		if machine.Halted() {
			break
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				return fmt.Errorf("running frame %d: %w", frames, ctx.Err())
			case <-ticker.C:
			}
		}
	}

	p.logger.Debug("Emulation finished", log.Int("frames", frames))

	if !machine.Halted() {
		return nil
	}
	fault := machine.LastFault()
	if errors.Is(fault.Err, vm.ErrProgramExit) {
		return nil
	}
	return fmt.Errorf("machine halted at $%04X executing $%04X: %w", fault.PC, fault.Opcode, fault.Err)
}

// printInfo prints information about the ROM being run.
func (p *Pipeline) printInfo(opts options.Program, md mode.Mode) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Running ROM",
		log.String("file", opts.Input),
		log.Stringer("mode", md),
		log.Int("cycles", opts.Cycles),
	)
	if opts.Frames == 0 && !opts.Realtime {
		p.logger.Warn("No frame limit set, emulation runs until the program exits or is interrupted")
	}
}
