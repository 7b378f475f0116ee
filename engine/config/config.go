package config

import (
	"math"
	"slices"

	"github.com/cwbudde/algo-speakerman/dsp/dynamics"
	"github.com/cwbudde/algo-speakerman/dsp/filter/crossover"
)

// Capacity limits. Real-time state is sized from these.
const (
	MaxGroups        = dynamics.MaxLevelGroups
	MaxGroupChannels = 8
	MaxChannels      = 16
	MaxCrossovers    = crossover.MaxCrossovers
	MaxBands         = crossover.MaxBands
	MaxEqualizers    = 2
	MaxInputs        = 16
)

// Field ranges and defaults.
const (
	MinGroups            = 1
	DefaultGroups        = 1
	MinGroupChannels     = 1
	DefaultGroupChannels = 2

	MinThreshold     = 0.01
	DefaultThreshold = 0.1
	MaxThreshold     = 1.0

	MinVolume     = 0.0
	DefaultVolume = 1.0
	MaxVolume     = 20.0

	MinDelay     = 0.0
	DefaultDelay = 0.0
	MaxDelay     = 0.020

	MinRelativeSubThreshold     = 0.25
	DefaultRelativeSubThreshold = math.Sqrt2
	MaxRelativeSubThreshold     = 2.0

	MinThresholdScaling     = 1.0
	DefaultThresholdScaling = 1.0
	MaxThresholdScaling     = 5.0

	MinNoiseAmount     = 0.0
	DefaultNoiseAmount = 0.05
	MaxNoiseAmount     = 1.0

	DefaultSubOutput = 1
	MaxSubOutput     = MaxChannels + 1

	DefaultRMSFastReleaseSeconds = 0.02
)

// Detection configures the multi-window detectors.
type Detection struct {
	MaxWindowSeconds      float64 `json:"maximum_window_seconds"`
	MinWindowSeconds      float64 `json:"minimum_window_seconds"`
	PerceptiveLevels      int     `json:"perceptive_levels"`
	RMSFastReleaseSeconds float64 `json:"rms_fast_release_seconds"`
	BrickWallPrediction   bool    `json:"brick_wall_prediction"`
}

// DefaultDetection returns the default detection settings.
func DefaultDetection() Detection {
	return Detection{
		MaxWindowSeconds:      dynamics.DefaultMaxWindowSeconds,
		MinWindowSeconds:      dynamics.DefaultMinWindowSeconds,
		PerceptiveLevels:      dynamics.DefaultLevels,
		RMSFastReleaseSeconds: DefaultRMSFastReleaseSeconds,
		BrickWallPrediction:   true,
	}
}

// DetectorConfig converts the settings for the dynamics package.
func (d Detection) DetectorConfig() dynamics.DetectorConfig {
	return dynamics.DetectorConfig{
		MaxWindowSeconds: d.MaxWindowSeconds,
		MinWindowSeconds: d.MinWindowSeconds,
		Levels:           d.PerceptiveLevels,
		ReleaseSeconds:   d.RMSFastReleaseSeconds,
	}
}

// Equalizer is one parametric band.
type Equalizer struct {
	Center    float64 `json:"center"`
	Gain      float64 `json:"gain"`
	Bandwidth float64 `json:"bandwidth"`
}

// DefaultEqualizer returns a flat band at 1 kHz.
func DefaultEqualizer() Equalizer {
	return Equalizer{Center: 1000, Gain: 1, Bandwidth: 1}
}

// Group is one processing group: a set of output channels sharing
// threshold, routing, delay and equalization.
type Group struct {
	Name      string  `json:"name,omitempty"`
	Threshold float64 `json:"threshold"`
	// Volume holds one gain per input. Input i feeds group channel
	// i modulo the group channel count.
	Volume     []float64   `json:"volume"`
	Delay      float64     `json:"delay"`
	UseSub     bool        `json:"use_sub"`
	Mono       bool        `json:"mono"`
	Equalizers []Equalizer `json:"equalizers,omitempty"`
}

// DefaultGroup returns a group at the default threshold that uses the sub.
func DefaultGroup() Group {
	return Group{
		Threshold: DefaultThreshold,
		Delay:     DefaultDelay,
		UseSub:    true,
	}
}

// UserConfiguration is the complete user-facing configuration.
type UserConfiguration struct {
	Groups               []Group     `json:"groups"`
	GroupChannels        int         `json:"group_channels"`
	Inputs               int         `json:"inputs"`
	Crossovers           int         `json:"crossovers"`
	CrossoverFrequencies []float64   `json:"crossover_frequencies"`
	RelativeSubThreshold float64     `json:"relative_sub_threshold"`
	SubDelay             float64     `json:"sub_delay"`
	SubOutput            int         `json:"sub_output"`
	ThresholdScaling     float64     `json:"threshold_scaling"`
	GenerateNoise        bool        `json:"generate_noise"`
	NoiseAmount          float64     `json:"noise_amount"`
	Detection            Detection   `json:"detection"`
	SubEqualizers        []Equalizer `json:"sub_equalizers,omitempty"`
}

// DefaultCrossoverFrequencies returns the default frequencies for a
// crossover count, or nil for a count outside [1, MaxCrossovers].
func DefaultCrossoverFrequencies(crossovers int) []float64 {
	switch crossovers {
	case 1:
		return []float64{120}
	case 2:
		return []float64{80, 120}
	case 3:
		return []float64{80, 160, 2500}
	default:
		return nil
	}
}

// Default returns one stereo group fed by two inputs with two crossovers
// and a separate sub output.
func Default() UserConfiguration {
	g := DefaultGroup()
	g.Name = "group 1"
	g.Volume = []float64{DefaultVolume, DefaultVolume}

	return UserConfiguration{
		Groups:               []Group{g},
		GroupChannels:        DefaultGroupChannels,
		Inputs:               DefaultGroupChannels,
		Crossovers:           2,
		CrossoverFrequencies: DefaultCrossoverFrequencies(2),
		RelativeSubThreshold: DefaultRelativeSubThreshold,
		SubDelay:             DefaultDelay,
		SubOutput:            DefaultSubOutput,
		ThresholdScaling:     DefaultThresholdScaling,
		NoiseAmount:          DefaultNoiseAmount,
		Detection:            DefaultDetection(),
	}
}

// Channels returns the number of processed output channels.
func (c *UserConfiguration) Channels() int {
	return len(c.Groups) * c.GroupChannels
}

// Outputs returns the number of output samples per frame: one per
// channel plus the sub.
func (c *UserConfiguration) Outputs() int {
	return c.Channels() + 1
}

// SeparateSub reports whether the sub is routed to its own output.
func (c *UserConfiguration) SeparateSub() bool {
	return c.SubOutput > 0
}

// Clone returns a deep copy.
func (c UserConfiguration) Clone() UserConfiguration {
	out := c
	out.CrossoverFrequencies = slices.Clone(c.CrossoverFrequencies)
	out.SubEqualizers = slices.Clone(c.SubEqualizers)
	out.Groups = make([]Group, len(c.Groups))
	for i, g := range c.Groups {
		g.Volume = slices.Clone(g.Volume)
		g.Equalizers = slices.Clone(g.Equalizers)
		out.Groups[i] = g
	}

	return out
}

// SameTopology reports whether two configurations need the same real-time
// state: group, channel, input and crossover counts.
func (c *UserConfiguration) SameTopology(other *UserConfiguration) bool {
	return len(c.Groups) == len(other.Groups) &&
		c.GroupChannels == other.GroupChannels &&
		c.Inputs == other.Inputs &&
		c.Crossovers == other.Crossovers
}
