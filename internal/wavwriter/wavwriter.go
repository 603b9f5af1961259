// Package wavwriter records the machine sound output to a WAV file.
package wavwriter

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/retroenv/retrochip8/internal/mode"
	"github.com/retroenv/retrogolib/log"
)

const (
	// SampleRate is the number of samples generated per second.
	SampleRate = 4096
	// FrameRate is the number of frames per second.
	FrameRate = 60

	sineFrequency  = 512
	samplesPerSine = SampleRate / sineFrequency
	bitDepth       = 8
	channels       = 1
	pcmFormat      = 1
	silence        = 128 // 8 bit PCM samples are unsigned
	amplification  = 10
	patternBits    = 128
)

// Source provides the sound state of a machine for one frame.
type Source interface {
	SystemMode() mode.Mode
	SoundTimer() uint8
	AudioPattern() []byte
}

// Writer buffers the generated samples and encodes them on Close.
type Writer struct {
	logger   *log.Logger
	filename string
	volume   int

	samples  []int
	position int // sine wave position, continuous across frames
	pending  int // fractional samples carried to the next frame
}

// New returns a writer that writes to the given file.
func New(logger *log.Logger, filename string) *Writer {
	return &Writer{
		logger:   logger,
		filename: filename,
		volume:   5,
	}
}

// SetVolume sets the output volume in the range 0 to 10.
func (w *Writer) SetVolume(volume int) {
	w.volume = min(max(volume, 0), 10)
}

// Frame generates the samples of one frame. The sound timer gates the output,
// XO-CHIP plays the audio pattern as 1 bit samples and the other modes play
// a sine tone.
func (w *Writer) Frame(src Source) {
	w.pending += SampleRate
	count := w.pending / FrameRate
	w.pending %= FrameRate

	amplitude := amplification * w.volume
	active := src.SoundTimer() > 0
	xoChip := src.SystemMode() == mode.Richest
	pattern := src.AudioPattern()

	for it := range count {
		switch {
		case !active:
			w.samples = append(w.samples, silence)

		case xoChip:
			bit := it % patternBits
			sample := silence
			if pattern[bit/8]>>(7-bit%8)&1 == 1 {
				sample += amplitude
			}
			w.samples = append(w.samples, sample)

		default:
			angle := float64(w.position) / samplesPerSine * 2 * math.Pi
			w.samples = append(w.samples, silence+int(math.Round(math.Sin(angle)*float64(amplitude))))
			w.position++
		}
	}
}

// Samples returns the samples generated so far.
func (w *Writer) Samples() []int {
	return w.samples
}

// Close encodes all generated samples to the output file.
func (w *Writer) Close() (rerr error) {
	f, err := os.Create(w.filename)
	if err != nil {
		return fmt.Errorf("creating wav file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("closing wav file: %w", err)
		}
	}()

	enc := wav.NewEncoder(f, SampleRate, bitDepth, channels, pcmFormat)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  SampleRate,
		},
		Data:           w.samples,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding wav samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing wav file: %w", err)
	}

	w.logger.Info("Wrote audio", log.String("file", w.filename), log.Int("samples", len(w.samples)))
	return nil
}
