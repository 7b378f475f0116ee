package runtime

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-speakerman/dsp/core"
	"github.com/cwbudde/algo-speakerman/dsp/dynamics"
	"github.com/cwbudde/algo-speakerman/dsp/filter/crossover"
	"github.com/cwbudde/algo-speakerman/engine/config"
)

const (
	minBandWeight   = 0.001
	maxBandWeight   = 0.999
	limiterHeadroom = 4.0
	ditherScale     = 1e-6
	silentVolume    = 1e-6
)

// ErrWeights reports band weights that do not match the crossovers.
var ErrWeights = errors.New("runtime: band weights do not match crossovers")

var generations atomic.Uint64

// Discrete holds the values that are swapped, not interpolated.
type Discrete struct {
	SampleRate    float64
	Groups        int
	GroupChannels int
	Inputs        int
	Crossover     crossover.Setup

	Delay  [config.MaxGroups]int
	UseSub [config.MaxGroups]bool
	Mono   [config.MaxGroups]bool
	EQ     [config.MaxGroups]EQ

	SubDelay    int
	SubEQ       EQ
	SeparateSub bool

	// Lookahead and Detection size real-time state; they take effect when
	// the processor is rebuilt.
	Lookahead bool
	Detection dynamics.DetectorConfig
}

// Channels returns the number of processed channels.
func (d *Discrete) Channels() int { return d.Groups * d.GroupChannels }

// Bands returns the number of crossover bands.
func (d *Discrete) Bands() int { return d.Crossover.Count + 1 }

// Continuous holds the values the audio thread approaches smoothly.
type Continuous struct {
	// Volume[g][i] scales input i into group g.
	Volume [config.MaxGroups][config.MaxInputs]float64
	// BandRMSScale[g][b] normalizes band b of group g to its threshold.
	BandRMSScale [config.MaxGroups][config.MaxBands]float64
	// WidebandScale normalizes the keyed sum of all bands above the sub. It
	// uses the largest keyed band weight, so the sum reaches its threshold
	// before every band reaches its own.
	WidebandScale    [config.MaxGroups]float64
	LimiterThreshold [config.MaxGroups]float64

	SubRMSScale         float64
	SubLimiterThreshold float64
	NoiseScale          float64
}

// Data is a resolved, self-consistent parameter snapshot.
type Data struct {
	Discrete
	Continuous

	generation uint64
}

// Generation identifies the resolution that produced the discrete part.
func (d *Data) Generation() uint64 { return d.generation }

// Threshold clamps a group threshold into the configured range.
func Threshold(threshold float64) float64 {
	return core.Clamp(threshold, config.MinThreshold, config.MaxThreshold)
}

// LimiterThreshold returns the peak limiter threshold for an RMS threshold.
func LimiterThreshold(threshold float64) float64 {
	return math.Min(1, limiterHeadroom*Threshold(threshold))
}

// RMSThreshold combines a threshold with a relative band weight.
func RMSThreshold(threshold, weight float64) float64 {
	return Threshold(threshold) * core.Clamp(weight, minBandWeight, maxBandWeight)
}

func delaySamples(seconds, sampleRate float64) int {
	return int(0.5 + sampleRate*core.Clamp(seconds, config.MinDelay, config.MaxDelay))
}

// Resolve validates cfg and derives the snapshot for sampleRate. When
// weights is nil the band weights are measured, which takes a moment and
// should stay off the audio thread.
func Resolve(cfg *config.UserConfiguration, sampleRate float64, weights *crossover.Weights) (*Data, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	setup, err := crossover.NewSetup(cfg.CrossoverFrequencies, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("runtime: %w", err)
	}

	if weights == nil {
		w, err := crossover.BandWeights(setup.Frequencies(), sampleRate)
		if err != nil {
			return nil, fmt.Errorf("runtime: %w", err)
		}
		weights = &w
	} else if weights.Bands != setup.Count+1 {
		return nil, fmt.Errorf("%w: %d bands for %d crossovers", ErrWeights, weights.Bands, setup.Count)
	}

	d := &Data{generation: generations.Add(1)}
	d.SampleRate = sampleRate
	d.Groups = len(cfg.Groups)
	d.GroupChannels = cfg.GroupChannels
	d.Inputs = cfg.Inputs
	d.Crossover = setup
	d.SeparateSub = cfg.SeparateSub()
	d.Lookahead = cfg.Detection.BrickWallPrediction
	d.Detection = cfg.Detection.DetectorConfig()

	keyed := minBandWeight
	for b := 1; b < d.Bands(); b++ {
		keyed = math.Max(keyed, weights.Keyed[b])
	}

	subBase := config.MaxThreshold
	for g, grp := range cfg.Groups {
		threshold := math.Min(grp.Threshold*cfg.ThresholdScaling, config.MaxThreshold)
		subBase = math.Min(subBase, threshold)

		d.Delay[g] = delaySamples(grp.Delay, sampleRate)
		d.UseSub[g] = grp.UseSub
		d.Mono[g] = grp.Mono
		d.EQ[g] = NewEQ(grp.Equalizers, sampleRate)

		for i, v := range grp.Volume {
			if v < silentVolume {
				v = 0
			}
			d.Volume[g][i] = v
		}

		d.LimiterThreshold[g] = LimiterThreshold(threshold)
		for b := range d.Bands() {
			d.BandRMSScale[g][b] = 1 / RMSThreshold(threshold, weights.Detection(b))
		}
		d.WidebandScale[g] = 1 / (Threshold(threshold) * keyed)
	}

	if cfg.GenerateNoise {
		d.NoiseScale = cfg.NoiseAmount
	} else {
		d.NoiseScale = subBase * ditherScale
	}

	subThreshold := core.Clamp(cfg.RelativeSubThreshold,
		config.MinRelativeSubThreshold, config.MaxRelativeSubThreshold) * subBase
	d.SubLimiterThreshold = LimiterThreshold(subThreshold)
	d.SubRMSScale = 1 / RMSThreshold(subThreshold, weights.Detection(0))
	d.SubDelay = delaySamples(cfg.SubDelay, sampleRate)
	d.SubEQ = NewEQ(cfg.SubEqualizers, sampleRate)

	d.compensateDelays()

	return d, nil
}

// compensateDelays removes the delay that all outputs share.
func (d *Data) compensateDelays() {
	shared := d.SubDelay
	for g := range d.Groups {
		shared = min(shared, d.Delay[g])
	}

	d.SubDelay -= shared
	for g := range d.Groups {
		d.Delay[g] -= shared
	}
}

// MaxDelay returns the largest delay in samples a configuration can
// resolve to at sampleRate.
func MaxDelay(sampleRate float64) int {
	return delaySamples(config.MaxDelay, sampleRate)
}

// Silence zeroes every volume, so approaching from it ramps the inputs in.
func (d *Data) Silence() {
	d.Volume = [config.MaxGroups][config.MaxInputs]float64{}
}
