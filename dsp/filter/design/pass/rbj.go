package pass

import (
	"math"

	"github.com/cwbudde/algo-speakerman/dsp/filter/biquad"
)

const defaultQ = 1 / math.Sqrt2

// LowpassRBJ designs a second-order RBJ low-pass section. Non-positive or
// non-finite q falls back to Butterworth Q (1/sqrt 2).
func LowpassRBJ(freq, q, sampleRate float64) biquad.Coefficients {
	freq = ClampFrequency(freq, sampleRate)
	q = validQ(q)

	w0 := 2 * math.Pi * freq / sampleRate
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	return normalize((1-cw)/2, 1-cw, (1-cw)/2, 1+alpha, -2*cw, 1-alpha)
}

// HighpassRBJ designs a second-order RBJ high-pass section.
func HighpassRBJ(freq, q, sampleRate float64) biquad.Coefficients {
	freq = ClampFrequency(freq, sampleRate)
	q = validQ(q)

	w0 := 2 * math.Pi * freq / sampleRate
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	return normalize((1+cw)/2, -(1 + cw), (1+cw)/2, 1+alpha, -2*cw, 1-alpha)
}

func validQ(q float64) float64 {
	if !(q > 0) || math.IsInf(q, 0) {
		return defaultQ
	}

	return q
}
