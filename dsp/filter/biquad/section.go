//nolint:funcorder
package biquad

import (
	"sync"

	"github.com/cwbudde/algo-speakerman/dsp/filter/biquad/internal/kernel"
	"github.com/cwbudde/algo-vecmath/cpu"
)

// Coefficients holds the transfer function coefficients for a single
// second-order section. a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Identity returns pass-through coefficients.
func Identity() Coefficients {
	return Coefficients{B0: 1}
}

// IsIdentity reports whether c passes its input unchanged.
func (c Coefficients) IsIdentity() bool {
	return c == Coefficients{B0: 1}
}

// Scaled returns c with the numerator multiplied by g.
func (c Coefficients) Scaled(g float64) Coefficients {
	c.B0 *= g
	c.B1 *= g
	c.B2 *= g

	return c
}

// History is the per-channel state of one section.
type History struct {
	d0, d1 float64
}

// Process filters x with coefficients c and updates the history.
func (h *History) Process(c *Coefficients, x float64) float64 {
	y := c.B0*x + h.d0
	h.d0 = c.B1*x - c.A1*y + h.d1
	h.d1 = c.B2*x - c.A2*y

	return y
}

// Reset clears the history.
func (h *History) Reset() {
	h.d0 = 0
	h.d1 = 0
}

// State returns [d0, d1].
func (h *History) State() [2]float64 {
	return [2]float64{h.d0, h.d1}
}

// SetState restores a saved state.
func (h *History) SetState(state [2]float64) {
	h.d0 = state[0]
	h.d1 = state[1]
}

// Section is a single-channel biquad: coefficients plus one history.
type Section struct {
	Coefficients
	History
}

var (
	blockImpl     kernel.BlockFn
	blockImplName string
	blockInitOnce sync.Once
)

// NewSection returns a Section with the given coefficients and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float64) float64 {
	return s.History.Process(&s.Coefficients, x)
}

// ProcessBlock filters a block of samples in place. Zero-alloc.
func (s *Section) ProcessBlock(buf []float64) {
	processBlock(&s.Coefficients, &s.History, buf)
}

// KernelName reports which block kernel was selected for this CPU.
func KernelName() string {
	blockInitOnce.Do(initBlockKernel)
	return blockImplName
}

func processBlock(c *Coefficients, h *History, buf []float64) {
	blockInitOnce.Do(initBlockKernel)

	kc := kernel.Coefficients{B0: c.B0, B1: c.B1, B2: c.B2, A1: c.A1, A2: c.A2}
	h.d0, h.d1 = blockImpl(kc, h.d0, h.d1, buf)
}

func initBlockKernel() {
	entry := kernel.Global.Lookup(cpu.DetectFeatures())
	if entry == nil || entry.Block == nil {
		panic("biquad: no block kernel registered")
	}

	blockImpl = entry.Block
	blockImplName = entry.Name
}
