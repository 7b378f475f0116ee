// Package wavio reads and writes multi-channel WAV files as planar float
// buffers.
package wavio

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DefaultBitDepth is the bit depth Write uses when Audio.BitDepth is zero.
const DefaultBitDepth = 24

// ErrInvalidFile reports a file that is not a PCM WAV file.
var ErrInvalidFile = errors.New("wavio: invalid WAV file")

// Audio is planar audio: Channels[ch][n] in [-1, 1].
type Audio struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float64
}

// Frames returns the number of samples per channel.
func (a *Audio) Frames() int {
	if len(a.Channels) == 0 {
		return 0
	}
	return len(a.Channels[0])
}

// Read decodes the WAV file at path.
func Read(path string) (*Audio, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavio: %w", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFile, path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wavio: could not read PCM buffer: %w", err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidFile, channels)
	}
	depth := int(buf.SourceBitDepth)
	if depth == 0 {
		depth = int(decoder.BitDepth)
	}
	scale := 1 / fullScale(depth)

	frames := len(buf.Data) / channels
	a := &Audio{
		SampleRate: buf.Format.SampleRate,
		BitDepth:   depth,
		Channels:   make([][]float64, channels),
	}
	for ch := range a.Channels {
		a.Channels[ch] = make([]float64, frames)
	}
	for n := range frames {
		for ch := range channels {
			a.Channels[ch][n] = float64(buf.Data[n*channels+ch]) * scale
		}
	}

	return a, nil
}

// Write encodes a as integer PCM at path. Samples are clipped to [-1, 1].
func Write(path string, a *Audio) error {
	channels := len(a.Channels)
	if channels == 0 {
		return fmt.Errorf("wavio: no channels to write")
	}
	frames := a.Frames()
	for ch, x := range a.Channels {
		if len(x) != frames {
			return fmt.Errorf("wavio: channel %d has %d frames, want %d", ch, len(x), frames)
		}
	}
	depth := a.BitDepth
	if depth == 0 {
		depth = DefaultBitDepth
	}
	full := fullScale(depth)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: a.SampleRate},
		Data:           make([]int, frames*channels),
		SourceBitDepth: depth,
	}
	for n := range frames {
		for ch := range channels {
			x := math.Max(-1, math.Min(1, a.Channels[ch][n]))
			buf.Data[n*channels+ch] = int(math.Round(x * full))
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: output file creation error: %w", err)
	}
	defer file.Close()

	encoder := wav.NewEncoder(file, a.SampleRate, depth, channels, 1)
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("wavio: data writing error: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("wavio: %w", err)
	}

	return file.Close()
}

// fullScale returns the largest positive sample value of a bit depth.
func fullScale(depth int) float64 {
	if depth <= 1 {
		return 1
	}
	return math.Exp2(float64(depth-1)) - 1
}
