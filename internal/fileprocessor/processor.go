// Package fileprocessor handles output creation and ROM processing operations
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/pipeline"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

// ProcessFile runs the ROM of the options and writes the final screen to the
// output file or stdout.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program) error {
	writer, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() {
		_ = writer.Close()
	}()

	if !opts.NoColor && !supportsColor(opts) {
		logger.Debug("Output is not a terminal, disabling colors")
		opts.NoColor = true
	}

	p := pipeline.New(logger)
	if _, err := p.Execute(ctx, opts, writer); err != nil {
		return fmt.Errorf("emulating: %w", err)
	}
	return nil
}

// supportsColor returns whether the screen output goes to a terminal.
func supportsColor(opts options.Program) bool {
	if opts.Output != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func createWriter(opts options.Program) (io.WriteCloser, error) {
	if opts.Output == "" {
		return &nopCloser{os.Stdout}, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}

	logger.Info("retrochip8", log.String("version", versionString))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}

// nopCloser wraps an io.Writer to add a no-op Close method
type nopCloser struct {
	io.Writer
}

func (nc *nopCloser) Close() error {
	return nil
}
