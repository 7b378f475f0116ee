package design

import (
	"github.com/cwbudde/algo-speakerman/dsp/filter/biquad"
	"github.com/cwbudde/algo-speakerman/dsp/filter/design/pass"
)

// ClampFrequency limits freq to (0, Nyquist); see [pass.ClampFrequency].
func ClampFrequency(freq, sampleRate float64) float64 {
	return pass.ClampFrequency(freq, sampleRate)
}

// Lowpass designs a lowpass biquad at freq (Hz) with quality factor q.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	return pass.LowpassRBJ(freq, q, sampleRate)
}

// Highpass designs a highpass biquad at freq (Hz) with quality factor q.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	return pass.HighpassRBJ(freq, q, sampleRate)
}
