package weighting

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-speakerman/dsp/filter/biquad"
	"github.com/cwbudde/algo-speakerman/dsp/filter/design"
)

// Keying curve parameters. The curve is a smoothed loudness contour used
// to decide how loud a band sounds, not a measurement standard.
const (
	KeyingHighpassHz  = 125.0
	KeyingPeakHz      = 2516.0
	KeyingPeakGain    = 19.1
	KeyingPeakOctaves = 8.12
	KeyingLowpassHz   = 21443.0
)

// ReferenceHz is the frequency every curve is normalized to 0 dB at.
const ReferenceHz = 1000.0

// Type identifies a frequency weighting curve.
type Type int

const (
	// TypeFlat applies no weighting.
	TypeFlat Type = iota

	// TypeKeying is the perceptual curve that keys band detection.
	TypeKeying
)

// String returns a human-readable name for the weighting type.
func (t Type) String() string {
	switch t {
	case TypeFlat:
		return "Flat"
	case TypeKeying:
		return "Keying"
	default:
		return "Unknown"
	}
}

// Sections returns the cascade coefficients and overall gain of the curve
// at the given sample rate. The gain normalizes the response to 0 dB at
// [ReferenceHz].
//
// Panics if sampleRate <= 0 or t is unknown.
func Sections(t Type, sampleRate float64) ([]biquad.Coefficients, float64) {
	if sampleRate <= 0 {
		panic("weighting: sample rate must be positive")
	}

	var coeffs []biquad.Coefficients
	switch t {
	case TypeFlat:
		return []biquad.Coefficients{biquad.Identity()}, 1
	case TypeKeying:
		coeffs = keyingSections(sampleRate)
	default:
		panic("weighting: unknown type")
	}

	return coeffs, normalizationGain(coeffs, sampleRate)
}

// NewMulti returns a [biquad.Multi] running the curve on several channels.
func NewMulti(t Type, channels int, sampleRate float64) *biquad.Multi {
	coeffs, gain := Sections(t, sampleRate)
	return biquad.NewMulti(channels, coeffs, biquad.WithGain(gain))
}

// NewKeying returns the keying curve for one channel.
func NewKeying(sampleRate float64) *biquad.Chain {
	coeffs, gain := Sections(TypeKeying, sampleRate)
	return biquad.NewChain(coeffs, biquad.WithGain(gain))
}

// keyingSections builds a 1st-order high-pass, a broad presence peak and
// a 1st-order low-pass. Corner frequencies above the usable range at low
// sample rates are pulled below Nyquist.
func keyingSections(sr float64) []biquad.Coefficients {
	lp := math.Min(KeyingLowpassHz, 0.45*sr)
	return []biquad.Coefficients{
		hpFirstOrder(KeyingHighpassHz, sr),
		design.Peaking(design.ClampFrequency(KeyingPeakHz, sr), KeyingPeakGain, KeyingPeakOctaves, sr),
		lpFirstOrder(lp, sr),
	}
}

// lpFirstOrder is the bilinear transform of omega / (s + omega):
//
//	B0 = B1 = K/(1+K), A1 = (K-1)/(K+1), K = tan(pi*f/sr)
func lpFirstOrder(f, sr float64) biquad.Coefficients {
	k := math.Tan(math.Pi * f / sr)
	d := 1 + k

	return biquad.Coefficients{
		B0: k / d,
		B1: k / d,
		A1: (k - 1) / d,
	}
}

// hpFirstOrder is the bilinear transform of s / (s + omega).
func hpFirstOrder(f, sr float64) biquad.Coefficients {
	k := math.Tan(math.Pi * f / sr)
	d := 1 + k

	return biquad.Coefficients{
		B0: 1 / d,
		B1: -1 / d,
		A1: (k - 1) / d,
	}
}

func normalizationGain(coeffs []biquad.Coefficients, sr float64) float64 {
	h := biquad.CascadeResponse(coeffs, 1, ReferenceHz, sr)
	if m := cmplx.Abs(h); m > 0 {
		return 1 / m
	}
	return 1
}
