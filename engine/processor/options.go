package processor

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-speakerman/dsp/filter/crossover"
)

const (
	// DefaultGainReleaseSeconds is the recovery time of the band gains.
	DefaultGainReleaseSeconds = 0.05
	// MinGainReleaseSeconds and MaxGainReleaseSeconds bound WithGainRelease.
	MinGainReleaseSeconds = 0.01
	MaxGainReleaseSeconds = 0.5
)

// WeightsFunc measures band weights for crossover frequencies.
type WeightsFunc func(freqs []float64, sampleRate float64) (crossover.Weights, error)

// Option configures a Processor.
type Option func(*options) error

type options struct {
	noiseSeed   int64
	gainRelease float64
	rampIn      bool
	weights     WeightsFunc
}

func defaultOptions() options {
	return options{
		noiseSeed:   1,
		gainRelease: DefaultGainReleaseSeconds,
		rampIn:      true,
		weights:     crossover.BandWeights,
	}
}

func applyOptions(opts []Option) (options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&o); err != nil {
			return o, err
		}
	}

	return o, nil
}

// WithNoiseSeed seeds the dither generator.
func WithNoiseSeed(seed int64) Option {
	return func(o *options) error {
		o.noiseSeed = seed
		return nil
	}
}

// WithGainRelease sets the recovery time of the band gains in seconds.
func WithGainRelease(seconds float64) Option {
	return func(o *options) error {
		if math.IsNaN(seconds) || seconds < MinGainReleaseSeconds || seconds > MaxGainReleaseSeconds {
			return fmt.Errorf("processor: gain release must be in [%g, %g] s: %g",
				MinGainReleaseSeconds, MaxGainReleaseSeconds, seconds)
		}
		o.gainRelease = seconds
		return nil
	}
}

// WithRampIn controls whether the volumes ramp in from silence after New
// and SetSampleRate. It is on by default.
func WithRampIn(enabled bool) Option {
	return func(o *options) error {
		o.rampIn = enabled
		return nil
	}
}

// WithWeights replaces the band weight measurement.
func WithWeights(fn WeightsFunc) Option {
	return func(o *options) error {
		if fn == nil {
			return fmt.Errorf("processor: weights function must not be nil")
		}
		o.weights = fn
		return nil
	}
}
