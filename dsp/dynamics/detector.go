package dynamics

import (
	"fmt"
	"math"
)

// Detection defaults and limits.
const (
	MinMaxWindowSeconds     = PerceptiveSeconds
	MaxMaxWindowSeconds     = 8.0
	DefaultMaxWindowSeconds = PerceptiveSeconds
	MinMinWindowSeconds     = MinFastSeconds
	MaxMinWindowSeconds     = MaxFastSeconds
	DefaultMinWindowSeconds = 0.001
	DefaultLevels           = 11
	MinReleaseSeconds       = 0.001
	MaxReleaseSeconds       = 0.1
)

// DetectorConfig selects the window layout of a [Detector].
type DetectorConfig struct {
	// MaxWindowSeconds is the biggest window. It is raised to the
	// perceptive window.
	MaxWindowSeconds float64
	// MinWindowSeconds is the fastest (peak) window.
	MinWindowSeconds float64
	// Levels is the number of windows, between MinLevels and MaxLevels.
	Levels int
	// ReleaseSeconds overrides the follower release when positive.
	ReleaseSeconds float64
}

// DefaultDetectorConfig returns the default layout.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		MaxWindowSeconds: DefaultMaxWindowSeconds,
		MinWindowSeconds: DefaultMinWindowSeconds,
		Levels:           DefaultLevels,
	}
}

// Validate checks the configuration.
func (c DetectorConfig) Validate() error {
	switch {
	case c.Levels > MaxLevels:
		return fmt.Errorf("%w: %d > %d", ErrTooManyLevels, c.Levels, MaxLevels)
	case c.Levels < MinLevels:
		return fmt.Errorf("dynamics: need at least %d detection levels: %d", MinLevels, c.Levels)
	case math.IsNaN(c.MaxWindowSeconds) || c.MaxWindowSeconds > MaxMaxWindowSeconds:
		return fmt.Errorf("dynamics: biggest window must not exceed %g s: %g", MaxMaxWindowSeconds, c.MaxWindowSeconds)
	case !(c.MinWindowSeconds >= MinMinWindowSeconds && c.MinWindowSeconds <= MaxMinWindowSeconds):
		return fmt.Errorf("dynamics: peak window must lie in [%g, %g] s: %g",
			MinMinWindowSeconds, MaxMinWindowSeconds, c.MinWindowSeconds)
	case c.ReleaseSeconds != 0 && !(c.ReleaseSeconds >= MinReleaseSeconds && c.ReleaseSeconds <= MaxReleaseSeconds):
		return fmt.Errorf("dynamics: release must be 0 or lie in [%g, %g] s: %g",
			MinReleaseSeconds, MaxReleaseSeconds, c.ReleaseSeconds)
	}
	return nil
}

// Metrics returns the window layout of the configuration.
func (c DetectorConfig) Metrics() Metrics {
	return EvenMetrics(math.Max(c.MaxWindowSeconds, MinMaxWindowSeconds), c.MinWindowSeconds, c.Levels)
}

// Detector turns a stream of squared, threshold-normalized samples into a
// smoothed detection. A detection of 1 or less means the signal is at or
// below threshold.
type Detector struct {
	windows  *WindowSet
	follower Follower
	metrics  Metrics
	latency  int
}

// NewDetector allocates a detector for cfg at sampleRate.
func NewDetector(cfg DetectorConfig, sampleRate float64) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("dynamics: sample rate must be positive: %g", sampleRate)
	}

	m := cfg.Metrics()
	biggest := int(math.Round(sampleRate * m.Seconds(0)))
	ws, err := NewWindowSet(max(biggest, 1))
	if err != nil {
		return nil, err
	}

	samples := make([]int, m.Count())
	scales := make([]float64, m.Count())
	for i := range samples {
		samples[i] = min(max(int(math.Round(sampleRate*m.Seconds(i))), 1), ws.MaxWindow())
		w := m.Weight(i)
		scales[i] = w * w
	}
	if err := ws.Configure(samples, scales); err != nil {
		return nil, err
	}

	d := &Detector{
		windows: ws,
		metrics: m,
		latency: int(math.Round(sampleRate * m.PredictionSeconds())),
	}
	release := m.ReleaseSeconds()
	if cfg.ReleaseSeconds > 0 {
		release = cfg.ReleaseSeconds
	}
	d.follower = NewFollower(d.latency,
		sampleRate*m.AttackSeconds(),
		math.Round(sampleRate*release),
		1)
	d.Reset(1)

	return d, nil
}

// Metrics returns the window layout.
func (d *Detector) Metrics() Metrics { return d.metrics }

// Windows returns the underlying window set.
func (d *Detector) Windows() *WindowSet { return d.windows }

// Latency returns the hold time of the follower in samples. Delaying the
// detected signal by this amount lets the gain act before a peak arrives.
func (d *Detector) Latency() int { return d.latency }

// Reset settles all windows and the follower at v.
func (d *Detector) Reset(v float64) {
	d.windows.SetAverages(v)
	d.follower.SetValue(math.Max(v, 1))
}

// Detect adds a squared sample and returns the detection, at least 1.
func (d *Detector) Detect(square float64) float64 {
	return d.follower.Apply(d.windows.AddInputGetMax(square, 1))
}

// Value returns the last detection.
func (d *Detector) Value() float64 { return d.follower.Value() }

// Level returns the square root of the last detection, the effective
// loudness relative to threshold.
func (d *Detector) Level() float64 { return math.Sqrt(d.follower.Value()) }
