package dynamics

import "math"

// Integrator is a first-order low-pass: y += (1-h)(x-y) with
// h = exp(-1/N) for a characteristic time of N samples.
type Integrator struct {
	history float64
	input   float64
}

// NewIntegrator returns an integrator with the given characteristic time in
// samples.
func NewIntegrator(samples float64) Integrator {
	var i Integrator
	i.SetCharacteristic(samples)
	return i
}

// SetCharacteristic sets the characteristic time in samples. Zero, negative
// and NaN values make the integrator pass its input through; +Inf freezes it.
func (i *Integrator) SetCharacteristic(samples float64) {
	switch {
	case math.IsInf(samples, 1):
		i.history, i.input = 1, 0
	case samples > 0:
		i.history = math.Exp(-1 / samples)
		i.input = 1 - i.history
	default:
		i.history, i.input = 0, 1
	}
}

// Characteristic returns the characteristic time in samples.
func (i Integrator) Characteristic() float64 {
	if i.history <= 0 {
		return 0
	}
	if i.history >= 1 {
		return math.Inf(1)
	}
	return -1 / math.Log(i.history)
}

// History returns the history multiplier h.
func (i Integrator) History() float64 { return i.history }

// Input returns the input multiplier 1-h.
func (i Integrator) Input() float64 { return i.input }

// Integrate moves *state one step toward x and returns the new value.
func (i Integrator) Integrate(x float64, state *float64) float64 {
	*state += i.input * (x - *state)
	return *state
}
