package dynamics

// Follower holds the maximum of its input over a number of samples and
// smooths the held value through two attack/release integrator stages. A
// stage uses the attack integrator while its input is above its output and
// the release integrator otherwise. The output never decreases when the
// input increases.
type Follower struct {
	hold   int
	window peakWindow

	attack  Integrator
	release Integrator
	stage   float64
	output  float64
}

// NewFollower returns a follower with the given hold count and attack and
// release characteristics in samples, settled at initial.
func NewFollower(holdSamples int, attackSamples, releaseSamples, initial float64) Follower {
	hold := max(holdSamples, 0)
	f := Follower{
		hold:    hold,
		window:  newPeakWindow(hold + 1),
		attack:  NewIntegrator(attackSamples),
		release: NewIntegrator(releaseSamples),
	}
	f.SetValue(initial)

	return f
}

// Hold returns the hold count in samples.
func (f *Follower) Hold() int { return f.hold }

// SetValue settles the follower at v.
func (f *Follower) SetValue(v float64) {
	f.window.reset()
	f.stage, f.output = v, v
}

// Value returns the last output.
func (f *Follower) Value() float64 { return f.output }

// Apply follows x and returns the smoothed value.
func (f *Follower) Apply(x float64) float64 {
	f.step(f.window.push(x), &f.stage)
	return f.step(f.stage, &f.output)
}

func (f *Follower) step(x float64, state *float64) float64 {
	if x > *state {
		return f.attack.Integrate(x, state)
	}
	return f.release.Integrate(x, state)
}
