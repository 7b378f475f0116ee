package crossover

import (
	"errors"
	"fmt"
	"math"
)

// Crossover limits.
const (
	MinCrossovers = 1
	MaxCrossovers = 3
	MaxBands      = MaxCrossovers + 1

	// MinFrequency is the lowest crossover frequency in Hz.
	MinFrequency = 40.0
	// MaxFrequency is the highest crossover frequency at 44.1 kHz and above.
	MaxFrequency = 16000.0
	// MaxFrequencyLowRate is the highest crossover frequency below 44.1 kHz.
	MaxFrequencyLowRate = 10000.0
	// MinSpacing is the minimum ratio between adjacent crossover frequencies.
	MinSpacing = 1.5
)

var (
	// ErrCrossoverCount reports a crossover count outside [1, 3].
	ErrCrossoverCount = errors.New("crossover: count must be between 1 and 3")
	// ErrSpacing reports frequencies that are not increasing by at least
	// MinSpacing, including after clamping into the allowed range.
	ErrSpacing = errors.New("crossover: frequencies too close for range")
)

// MaxFrequencyFor returns the crossover ceiling for a sample rate.
func MaxFrequencyFor(sampleRate float64) float64 {
	if sampleRate >= 44100 {
		return MaxFrequency
	}

	return MaxFrequencyLowRate
}

// ValidateFrequencies clamps freqs into [MinFrequency, maxFreq] and checks
// that each frequency is at least MinSpacing times its predecessor. It
// returns the clamped copy.
func ValidateFrequencies(freqs []float64, maxFreq float64) ([]float64, error) {
	if len(freqs) < MinCrossovers || len(freqs) > MaxCrossovers {
		return nil, fmt.Errorf("%w: got %d", ErrCrossoverCount, len(freqs))
	}

	if maxFreq < MinFrequency*math.Pow(MinSpacing, float64(len(freqs)-1)) {
		return nil, fmt.Errorf("%w: %d crossovers do not fit below %.0f Hz", ErrSpacing, len(freqs), maxFreq)
	}

	out := make([]float64, len(freqs))
	for i, f := range freqs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("crossover: frequency %d is not finite", i)
		}

		out[i] = math.Min(math.Max(f, MinFrequency), maxFreq)
		if i == 0 {
			continue
		}

		if out[i] < out[i-1]*MinSpacing {
			return nil, fmt.Errorf("%w: %.1f Hz must be at least %.1f Hz (%.1fx %.1f Hz)",
				ErrSpacing, out[i], out[i-1]*MinSpacing, MinSpacing, out[i-1])
		}
	}

	return out, nil
}
