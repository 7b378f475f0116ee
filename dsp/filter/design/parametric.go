package design

import (
	"math"

	"github.com/cwbudde/algo-speakerman/dsp/core"
	"github.com/cwbudde/algo-speakerman/dsp/filter/biquad"
)

// Equalizer parameter limits.
const (
	MinEQFrequency = 20.0
	MaxEQFrequency = 22000.0
	MinEQGain      = 0.1
	MaxEQGain      = 10.0
	MinEQBandwidth = 0.25
	MaxEQBandwidth = 8.0
)

// Peaking designs a peaking section with linear center gain and a bandwidth
// in octaves. The gain is not limited, which the keying filter relies on.
//
// With w = 2 pi f / fs and g = sin(w) sinh(ln2/2 * bw * w/sin(w)) this is
// the RBJ peaking filter with alpha = g and A = sqrt(gain).
func Peaking(freq, gain, bandwidth, sampleRate float64) biquad.Coefficients {
	freq = ClampFrequency(freq, sampleRate)
	if !(gain > 0) || math.IsInf(gain, 0) {
		return biquad.Identity()
	}

	if !(bandwidth > 0) || math.IsInf(bandwidth, 0) {
		bandwidth = 1
	}

	w := 2 * math.Pi * freq / sampleRate
	cw := math.Cos(w)
	sw := math.Sin(w)
	j := math.Sqrt(gain)
	g := sw * math.Sinh(0.5*math.Ln2*bandwidth*w/sw)
	a0r := 1 / (1 + g/j)

	return biquad.Coefficients{
		B0: (1 + g*j) * a0r,
		B1: -2 * cw * a0r,
		B2: (1 - g*j) * a0r,
		A1: -2 * cw * a0r,
		A2: (1 - g/j) * a0r,
	}
}

// Parametric designs an equalizer band. Frequency, gain and bandwidth are
// clamped to the equalizer limits. A unity gain yields the identity section.
func Parametric(freq, gain, bandwidth, sampleRate float64) biquad.Coefficients {
	freq = core.Clamp(freq, MinEQFrequency, MaxEQFrequency)
	gain = core.Clamp(gain, MinEQGain, MaxEQGain)
	bandwidth = core.Clamp(bandwidth, MinEQBandwidth, MaxEQBandwidth)

	if gain == 1 {
		return biquad.Identity()
	}

	return Peaking(freq, gain, bandwidth, sampleRate)
}
