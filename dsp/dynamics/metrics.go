package dynamics

import (
	"math"

	"github.com/cwbudde/algo-speakerman/dsp/core"
)

// Perceptive window constants, in seconds.
const (
	MinFastSeconds     = 0.0001
	DefaultFastSeconds = 0.0004
	MaxFastSeconds     = 0.01
	PerceptiveSeconds  = 0.4
	DefaultSlowSeconds = 2.4
	MaxSlowSeconds     = 10.0

	perceptiveWeightPower = 0.25
	minWeight             = 0.25
	minStepFactor         = 1.2
	maxHoldSeconds        = 0.02
	maxReleaseSeconds     = 0.04
	maxPredictionSeconds  = 0.001
)

// Metrics distributes detector windows over time. Index 0 is the slowest
// window. Indices up to Perceptive run geometrically from the slow window
// down to [PerceptiveSeconds]; the remaining indices continue down to the
// fast window and are weighted less.
type Metrics struct {
	count      int
	perceptive int
	slow       float64
	fast       float64
}

// NewMetrics returns metrics with an explicit split. count is raised to 2,
// perceptive is capped to count-2 and both times are clamped to their
// ranges.
func NewMetrics(count, perceptive int, slowSeconds, fastSeconds float64) Metrics {
	count = max(MinLevels, count)
	perceptive = min(max(perceptive, 0), count-2)

	return Metrics{
		count:      count,
		perceptive: perceptive,
		slow: core.Clamp(slowSeconds,
			PerceptiveSeconds*math.Pow(minStepFactor, float64(perceptive)), MaxSlowSeconds),
		fast: core.Clamp(fastSeconds, MinFastSeconds, MaxFastSeconds),
	}
}

// EvenMetrics spreads at most maxLevels windows between slowSeconds and
// fastSeconds so that neighbouring windows differ by at least a factor
// 1.2 where possible, splitting the available levels between the slow and
// the fast side in proportion to their range. A slow time at or below
// [PerceptiveSeconds] puts the perceptive window first.
func EvenMetrics(slowSeconds, fastSeconds float64, maxLevels int) Metrics {
	levels := max(MinLevels, maxLevels)
	if levels == MinLevels {
		return NewMetrics(levels, 0, slowSeconds, fastSeconds)
	}

	slow := math.Min(MaxSlowSeconds, slowSeconds)
	fast := core.Clamp(fastSeconds, MinFastSeconds, MaxFastSeconds)
	maxSlowSteps := math.Max(0, math.Log(slow/PerceptiveSeconds)/math.Log(minStepFactor))
	maxFastSteps := math.Max(0, math.Log(PerceptiveSeconds/fast)/math.Log(minStepFactor))

	slowSteps := int(maxSlowSteps)
	fastSteps := int(maxFastSteps)
	if slowSteps == 0 {
		return NewMetrics(levels, 0, PerceptiveSeconds, fast)
	}
	if slowSteps+fastSteps+1 <= levels {
		return NewMetrics(slowSteps+fastSteps+1, slowSteps, slow, fast)
	}

	steps := levels - 1
	scale := float64(steps) / (maxSlowSteps + maxFastSteps)
	maxSlowSteps *= scale
	maxFastSteps *= scale
	slowSteps = int(maxSlowSteps)
	fastSteps = int(maxFastSteps)

	extra := steps - slowSteps - fastSteps
	if extra > 1 && maxFastSteps-maxSlowSteps <= 1 {
		slowSteps++
	}
	if slowSteps == 0 {
		slowSteps = 1
	}

	return NewMetrics(levels, slowSteps, slowSeconds, fastSeconds)
}

// Count returns the number of windows.
func (m Metrics) Count() int { return m.count }

// Perceptive returns the index of the perceptive window.
func (m Metrics) Perceptive() int { return m.perceptive }

// FastSteps returns the number of windows faster than the perceptive one.
func (m Metrics) FastSteps() int { return m.count - 1 - m.perceptive }

// SlowSeconds returns the length of the slowest window.
func (m Metrics) SlowSeconds() float64 { return m.slow }

// FastSeconds returns the length of the fastest window.
func (m Metrics) FastSeconds() float64 { return m.fast }

// HoldSeconds returns the follower hold time.
func (m Metrics) HoldSeconds() float64 { return math.Min(3*m.fast, maxHoldSeconds) }

// AttackSeconds returns the follower attack time.
func (m Metrics) AttackSeconds() float64 { return 0.5 * m.fast }

// ReleaseSeconds returns the follower release time.
func (m Metrics) ReleaseSeconds() float64 { return math.Min(m.fast, maxReleaseSeconds) }

// PredictionSeconds returns how long the follower holds a peak, which is
// also how far the detected signal should be delayed.
func (m Metrics) PredictionSeconds() float64 {
	return math.Min(maxPredictionSeconds, m.HoldSeconds())
}

// Seconds returns the length of window i.
func (m Metrics) Seconds(i int) float64 {
	switch {
	case i < m.perceptive:
		return m.slow * math.Pow(PerceptiveSeconds/m.slow, float64(i)/float64(m.perceptive))
	case i > m.perceptive:
		exponent := float64(i-m.perceptive) / float64(m.FastSteps())
		return PerceptiveSeconds * math.Pow(m.fast/PerceptiveSeconds, exponent)
	default:
		return PerceptiveSeconds
	}
}

// Weight returns the amplitude weight of window i: 1 up to the perceptive
// window, then falling with the fourth root of the window length, but not
// below 0.25.
func (m Metrics) Weight(i int) float64 {
	if i <= m.perceptive {
		return 1
	}
	exponent := float64(i-m.perceptive) / float64(m.FastSteps())
	return math.Max(minWeight, math.Pow(m.fast/PerceptiveSeconds, exponent*perceptiveWeightPower))
}
