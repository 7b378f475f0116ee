package dynamics

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-speakerman/dsp/core"
)

const (
	// MaxLevels is the window capacity of a [WindowSet].
	MaxLevels = 32
	// MinLevels is the smallest number of windows a [Detector] uses.
	MinLevels = 2

	// emdRatio relates the error-mitigating decay to the biggest window.
	emdRatio = 10
)

// ErrTooManyLevels reports a window count above [MaxLevels].
var ErrTooManyLevels = errors.New("dynamics: too many detection levels")

type window struct {
	samples       int
	inputFactor   float64
	historyFactor float64
	scale         float64
	average       float64
}

// WindowSet keeps up to [MaxLevels] true moving averages of one input
// sequence over a shared history.
//
// A running sum that adds the newest sample and subtracts the one leaving
// the window accumulates rounding error without bound. Every average
// therefore also decays by exp(-1/E) per sample, with E ten times the
// biggest window, and the leaving sample is subtracted with exactly the
// weight it has decayed to. A constant input still averages to itself.
type WindowSet struct {
	history   []float64
	mask      int
	writePos  int
	maxWindow int
	emdFactor float64
	emd       float64
	windows   [MaxLevels]window
	used      int
}

// NewWindowSet allocates a set for windows of up to maxWindow samples. The
// history length is the next power of two.
func NewWindowSet(maxWindow int) (*WindowSet, error) {
	if maxWindow < 1 {
		return nil, fmt.Errorf("dynamics: biggest window must be at least one sample: %d", maxWindow)
	}

	n := core.NextPowerOfTwo(maxWindow)
	emd := float64(emdRatio * maxWindow)
	w := &WindowSet{
		history:   make([]float64, n),
		mask:      n - 1,
		maxWindow: maxWindow,
		emd:       emd,
		emdFactor: math.Exp(-1 / emd),
	}

	return w, nil
}

// MaxWindow returns the biggest window the set accepts.
func (w *WindowSet) MaxWindow() int { return w.maxWindow }

// HistoryLen returns the length of the shared history.
func (w *WindowSet) HistoryLen() int { return len(w.history) }

// Levels returns the number of configured windows.
func (w *WindowSet) Levels() int { return w.used }

// Configure sets window lengths in samples and their output scales. It
// does not allocate and keeps the current averages.
func (w *WindowSet) Configure(samples []int, scales []float64) error {
	if len(samples) > MaxLevels {
		return fmt.Errorf("%w: %d > %d", ErrTooManyLevels, len(samples), MaxLevels)
	}
	if len(samples) == 0 {
		return errors.New("dynamics: no windows configured")
	}
	if len(scales) != len(samples) {
		return fmt.Errorf("dynamics: %d windows but %d scales", len(samples), len(scales))
	}

	for i, n := range samples {
		if n < 1 || n > w.maxWindow {
			return fmt.Errorf("dynamics: window %d has %d samples, want 1..%d", i, n, w.maxWindow)
		}
		if math.IsNaN(scales[i]) || math.IsInf(scales[i], 0) {
			return fmt.Errorf("dynamics: window %d scale is not finite", i)
		}
	}

	for i, n := range samples {
		decay := math.Exp(-float64(n) / w.emd)
		win := &w.windows[i]
		win.samples = n
		win.inputFactor = (1 - w.emdFactor) / (1 - decay)
		win.historyFactor = win.inputFactor * decay
		win.scale = scales[i]
	}
	w.used = len(samples)

	return nil
}

// SetAverages sets every average, and the whole history, to v.
func (w *WindowSet) SetAverages(v float64) {
	for i := range w.windows {
		w.windows[i].average = v
	}
	for i := range w.history {
		w.history[i] = v
	}
}

// Window returns the length of window i in samples.
func (w *WindowSet) Window(i int) int { return w.windows[i].samples }

// Scale returns the output scale of window i.
func (w *WindowSet) Scale(i int) float64 { return w.windows[i].scale }

// Average returns the scaled average of window i.
func (w *WindowSet) Average(i int) float64 {
	return w.windows[i].scale * w.windows[i].average
}

// AddInput adds one sample to every window.
func (w *WindowSet) AddInput(x float64) {
	for i := range w.used {
		win := &w.windows[i]
		leaving := w.history[(w.writePos-win.samples)&w.mask]
		win.average = w.emdFactor*win.average + win.inputFactor*x - win.historyFactor*leaving
	}
	w.write(x)
}

// AddInputGetMax adds one sample and returns the largest scaled average,
// never less than minimum.
func (w *WindowSet) AddInputGetMax(x, minimum float64) float64 {
	result := minimum
	for i := range w.used {
		win := &w.windows[i]
		leaving := w.history[(w.writePos-win.samples)&w.mask]
		win.average = w.emdFactor*win.average + win.inputFactor*x - win.historyFactor*leaving
		result = math.Max(result, win.scale*win.average)
	}
	w.write(x)

	return result
}

func (w *WindowSet) write(x float64) {
	w.history[w.writePos] = x
	w.writePos = (w.writePos + 1) & w.mask
}
