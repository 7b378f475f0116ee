package delay

import (
	"fmt"

	"github.com/cwbudde/algo-speakerman/dsp/core"
)

// Line is a circular integer delay line. The buffer length is a power of
// two so the read position wraps with a mask.
type Line struct {
	buffer   []float64
	mask     int
	writePos int
}

// New returns a delay line that can hold at least size samples.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	n := core.NextPowerOfTwo(size)
	return &Line{buffer: make([]float64, n), mask: n - 1}, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos = (d.writePos + 1) & d.mask
}

// Read returns the sample written delay writes ago; Read(1) is the most
// recent one.
func (d *Line) Read(delay int) float64 {
	return d.buffer[(d.writePos-delay)&d.mask]
}

// Process writes x and returns the input from delay samples ago. A delay
// of 0 returns x. delay must be below Len.
func (d *Line) Process(x float64, delay int) float64 {
	d.Write(x)
	return d.Read(delay + 1)
}

// Reset clears line state.
func (d *Line) Reset() {
	clear(d.buffer)
	d.writePos = 0
}
