package crossover

import (
	"math"

	"github.com/cwbudde/algo-speakerman/dsp/filter/biquad"
	"github.com/cwbudde/algo-speakerman/dsp/filter/design"
	"github.com/cwbudde/algo-speakerman/dsp/filter/design/pass"
)

// butterworthQ2 is the Q of a second-order Butterworth section.
const butterworthQ2 = 1 / math.Sqrt2

// lrHalfOrder is the Butterworth order doubled into the LR4 pair.
const lrHalfOrder = 2

// Section returns the second-order Butterworth low-pass and high-pass
// sections for freq. Applying each twice gives the LR4 pair, which is what
// [New] installs and [Crossover.SetSections] expects.
func Section(freq, sampleRate float64) (low, high biquad.Coefficients) {
	return design.Lowpass(freq, butterworthQ2, sampleRate),
		design.Highpass(freq, butterworthQ2, sampleRate)
}

// Crossover is one LR4 split over a fixed number of channels.
type Crossover struct {
	lp   *biquad.Multi
	hp   *biquad.Multi
	freq float64
}

// New creates a crossover at freq for the given channel count. The frequency
// is clamped into (0, Nyquist).
func New(freq float64, channels int, sampleRate float64) *Crossover {
	return &Crossover{
		lp:   biquad.NewMulti(channels, pass.LinkwitzRileyLP(freq, lrHalfOrder, sampleRate)),
		hp:   biquad.NewMulti(channels, pass.LinkwitzRileyHP(freq, lrHalfOrder, sampleRate)),
		freq: design.ClampFrequency(freq, sampleRate),
	}
}

// Split filters x of channel ch into its low and high parts.
func (c *Crossover) Split(ch int, x float64) (lo, hi float64) {
	return c.lp.ProcessChannel(ch, x), c.hp.ProcessChannel(ch, x)
}

// SetSections installs new coefficients without touching filter history.
// It never allocates.
func (c *Crossover) SetSections(freq float64, low, high biquad.Coefficients) {
	c.lp.SetSection(0, low)
	c.lp.SetSection(1, low)
	c.hp.SetSection(0, high)
	c.hp.SetSection(1, high)
	c.freq = freq
}

// Frequency returns the crossover frequency in Hz.
func (c *Crossover) Frequency() float64 { return c.freq }

// LowPass returns the low-pass cascade for inspection.
func (c *Crossover) LowPass() *biquad.Multi { return c.lp }

// HighPass returns the high-pass cascade for inspection.
func (c *Crossover) HighPass() *biquad.Multi { return c.hp }

// Reset clears the filter history of every channel.
func (c *Crossover) Reset() {
	c.lp.Reset()
	c.hp.Reset()
}
