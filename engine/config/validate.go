package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-speakerman/dsp/filter/crossover"
	"github.com/cwbudde/algo-speakerman/dsp/filter/design"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

type validator struct {
	errs []error
}

func (v *validator) addf(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

func (v *validator) count(path string, n, lo, hi int) {
	if n < lo || n > hi {
		v.addf("%s: %d outside [%d, %d]", path, n, lo, hi)
	}
}

func (v *validator) between(path string, x, lo, hi float64) {
	if math.IsNaN(x) || x < lo || x > hi {
		v.addf("%s: %g outside [%g, %g]", path, x, lo, hi)
	}
}

func (v *validator) equalizers(path string, eqs []Equalizer) {
	v.count(path+" count", len(eqs), 0, MaxEqualizers)
	for i, eq := range eqs {
		p := fmt.Sprintf("%s[%d]", path, i)
		v.between(p+".center", eq.Center, design.MinEQFrequency, design.MaxEQFrequency)
		v.between(p+".gain", eq.Gain, design.MinEQGain, design.MaxEQGain)
		v.between(p+".bandwidth", eq.Bandwidth, design.MinEQBandwidth, design.MaxEQBandwidth)
	}
}

// Validate checks every field and reports all problems at once. The
// returned error wraps [ErrInvalid]; crossover problems also wrap the
// crossover package errors.
func (c *UserConfiguration) Validate() error {
	var v validator

	v.count("groups", len(c.Groups), MinGroups, MaxGroups)
	v.count("group_channels", c.GroupChannels, MinGroupChannels, MaxGroupChannels)
	if n := c.Channels(); n > MaxChannels {
		v.addf("channels: %d groups of %d exceed %d channels", len(c.Groups), c.GroupChannels, MaxChannels)
	}
	v.count("inputs", c.Inputs, 1, MaxInputs)

	for i, g := range c.Groups {
		p := fmt.Sprintf("groups[%d]", i)
		v.between(p+".threshold", g.Threshold, MinThreshold, MaxThreshold)
		v.between(p+".delay", g.Delay, MinDelay, MaxDelay)
		if len(g.Volume) > c.Inputs {
			v.addf("%s.volume: %d entries for %d inputs", p, len(g.Volume), c.Inputs)
		}
		for j, vol := range g.Volume {
			v.between(fmt.Sprintf("%s.volume[%d]", p, j), vol, MinVolume, MaxVolume)
		}
		v.equalizers(p+".equalizers", g.Equalizers)
	}

	v.count("crossovers", c.Crossovers, crossover.MinCrossovers, MaxCrossovers)
	if len(c.CrossoverFrequencies) != c.Crossovers {
		v.addf("crossover_frequencies: %d frequencies for %d crossovers",
			len(c.CrossoverFrequencies), c.Crossovers)
	} else if _, err := crossover.ValidateFrequencies(c.CrossoverFrequencies, crossover.MaxFrequency); err != nil {
		v.addf("crossover_frequencies: %w", err)
	}

	v.between("relative_sub_threshold", c.RelativeSubThreshold, MinRelativeSubThreshold, MaxRelativeSubThreshold)
	v.between("sub_delay", c.SubDelay, MinDelay, MaxDelay)
	v.count("sub_output", c.SubOutput, 0, MaxSubOutput)
	v.between("threshold_scaling", c.ThresholdScaling, MinThresholdScaling, MaxThresholdScaling)
	v.between("noise_amount", c.NoiseAmount, MinNoiseAmount, MaxNoiseAmount)
	v.equalizers("sub_equalizers", c.SubEqualizers)

	if err := c.Detection.DetectorConfig().Validate(); err != nil {
		v.addf("detection: %w", err)
	}
	if c.Detection.RMSFastReleaseSeconds == 0 {
		v.addf("detection.rms_fast_release_seconds: must be set")
	}

	if len(v.errs) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(v.errs...))
}
