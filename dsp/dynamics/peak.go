package dynamics

import "github.com/cwbudde/algo-speakerman/dsp/core"

// peakWindow is a sliding maximum over a fixed number of samples, kept as
// a monotonic queue in a power-of-two ring.
type peakWindow struct {
	values []float64
	stamps []uint64
	mask   int
	head   int
	size   int
	length uint64
	now    uint64
}

func newPeakWindow(length int) peakWindow {
	n := core.NextPowerOfTwo(length)
	return peakWindow{
		values: make([]float64, n),
		stamps: make([]uint64, n),
		mask:   n - 1,
		length: uint64(length),
	}
}

func (w *peakWindow) reset() {
	w.head, w.size, w.now = 0, 0, 0
}

func (w *peakWindow) push(x float64) float64 {
	for w.size > 0 && w.now-w.stamps[w.head] >= w.length {
		w.head = (w.head + 1) & w.mask
		w.size--
	}
	for w.size > 0 && w.values[(w.head+w.size-1)&w.mask] <= x {
		w.size--
	}

	tail := (w.head + w.size) & w.mask
	w.values[tail] = x
	w.stamps[tail] = w.now
	w.size++
	w.now++

	return w.values[w.head]
}
