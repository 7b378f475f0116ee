package dynamics

// Gain returns the multiplier for a detection: 1 at or below threshold and
// 1/sqrt(detection) above it. The result is always in (0, 1] for finite
// input.
func Gain(detection float64) float64 {
	if !(detection > 1) {
		return 1
	}
	return 1 / mathSqrt(detection)
}

// GainSmoother applies a gain reduction at once and lets it recover
// through an integrator.
type GainSmoother struct {
	release Integrator
	gain    float64
}

// NewGainSmoother returns a smoother at unity gain with a release
// characteristic in samples.
func NewGainSmoother(releaseSamples float64) GainSmoother {
	return GainSmoother{release: NewIntegrator(releaseSamples), gain: 1}
}

// Next returns the smoothed gain for target.
func (g *GainSmoother) Next(target float64) float64 {
	if target < g.gain {
		g.gain = target
		return g.gain
	}
	return g.release.Integrate(target, &g.gain)
}

// Value returns the current gain.
func (g *GainSmoother) Value() float64 { return g.gain }

// Reset returns to unity gain.
func (g *GainSmoother) Reset() { g.gain = 1 }
