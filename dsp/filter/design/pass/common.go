package pass

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-speakerman/dsp/filter/biquad"
)

// MaxButterworthOrder is the highest supported Butterworth order.
const MaxButterworthOrder = 8

const (
	minRelativeFrequency = 1e-6
	maxRelativeFrequency = 0.49
)

// ClampFrequency limits freq to (0, Nyquist) with a small margin at both
// ends so that tan(pi*f/fs) stays finite. NaN maps to the lower limit.
func ClampFrequency(freq, sampleRate float64) float64 {
	checkSampleRate(sampleRate)

	lo := minRelativeFrequency * sampleRate
	hi := maxRelativeFrequency * sampleRate
	switch {
	case math.IsNaN(freq) || freq < lo:
		return lo
	case freq > hi:
		return hi
	default:
		return freq
	}
}

func checkSampleRate(sampleRate float64) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		panic(fmt.Sprintf("pass: sample rate must be positive and finite, got %v", sampleRate))
	}
}

func checkOrder(order int) {
	if order < 1 || order > MaxButterworthOrder {
		panic(fmt.Sprintf("pass: Butterworth order must be in [1, %d], got %d", MaxButterworthOrder, order))
	}
}

// butterworthQ returns the quality factor of section index of an order-N
// Butterworth cascade: 1 / (2 sin(pi (2i+1) / 2N)).
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))

	s := math.Sin(theta)
	if s == 0 {
		return 1 / math.Sqrt2
	}

	return 1 / (2 * s)
}

func firstOrderLP(freq, sampleRate float64) biquad.Coefficients {
	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1 / (1 + k)

	return biquad.Coefficients{
		B0: k * norm,
		B1: k * norm,
		A1: (k - 1) * norm,
	}
}

func firstOrderHP(freq, sampleRate float64) biquad.Coefficients {
	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1 / (1 + k)

	return biquad.Coefficients{
		B0: norm,
		B1: -norm,
		A1: (k - 1) * norm,
	}
}

func normalize(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
