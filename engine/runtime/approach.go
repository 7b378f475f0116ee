package runtime

import "github.com/cwbudde/algo-speakerman/dsp/dynamics"

const (
	// DefaultApproachSamples is the approach characteristic at
	// ReferenceSampleRate.
	DefaultApproachSamples = 5000
	// ReferenceSampleRate is the rate DefaultApproachSamples applies to.
	ReferenceSampleRate = 48000
)

// Factors are the coefficients of one approach step.
type Factors struct {
	dynamics.Integrator
}

// NewFactors returns factors for a characteristic time in samples.
func NewFactors(samples float64) Factors {
	return Factors{dynamics.NewIntegrator(samples)}
}

// ForSampleRate returns factors that keep the approach time of
// DefaultApproachSamples at ReferenceSampleRate.
func ForSampleRate(sampleRate float64) Factors {
	return NewFactors(DefaultApproachSamples * sampleRate / ReferenceSampleRate)
}

// Approach moves d one step toward target. When target comes from another
// resolution its discrete part is copied first and Approach reports true.
// Continuous values of groups and inputs that target does not use are left
// alone. It never allocates.
func (d *Data) Approach(target *Data, f *Factors) bool {
	changed := false
	if d.generation != target.generation {
		d.Discrete = target.Discrete
		d.generation = target.generation
		changed = true
	}

	c, t := &d.Continuous, &target.Continuous
	bands := target.Bands()
	for g := range target.Groups {
		for i := range target.Inputs {
			f.Integrate(t.Volume[g][i], &c.Volume[g][i])
		}
		for b := range bands {
			f.Integrate(t.BandRMSScale[g][b], &c.BandRMSScale[g][b])
		}
		f.Integrate(t.WidebandScale[g], &c.WidebandScale[g])
		f.Integrate(t.LimiterThreshold[g], &c.LimiterThreshold[g])
	}
	f.Integrate(t.SubRMSScale, &c.SubRMSScale)
	f.Integrate(t.SubLimiterThreshold, &c.SubLimiterThreshold)
	f.Integrate(t.NoiseScale, &c.NoiseScale)

	return changed
}
