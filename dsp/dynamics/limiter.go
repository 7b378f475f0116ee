package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-speakerman/dsp/core"
)

const (
	limiterPredictionSeconds = 0.001
	limiterMinReleaseSeconds = 0.01
	limiterMaxReleaseSeconds = 0.02
	limiterReleaseFactor     = 8
)

// Limiter is a peak limiter with instant attack and a release through two
// cascaded integrators. As long as the returned gain is applied to the
// sample the peak was taken from, the product never exceeds the threshold.
//
// With lookahead the peak is held over a sliding window of Latency()+1
// samples, so the gain can be applied to the signal delayed by Latency()
// samples and the release starts only after the peak has passed.
type Limiter struct {
	threshold float64
	release   Integrator
	int1      float64
	int2      float64
	latency   int
	window    peakWindow
}

// NewLimiter returns a limiter for sampleRate at threshold.
func NewLimiter(sampleRate, threshold float64, lookahead bool) (*Limiter, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("dynamics: sample rate must be positive: %g", sampleRate)
	}
	if !(threshold > 0) || math.IsInf(threshold, 0) {
		return nil, fmt.Errorf("dynamics: limiter threshold must be positive: %g", threshold)
	}

	prediction := math.Round(sampleRate * limiterPredictionSeconds)
	release := core.Clamp(prediction*limiterReleaseFactor,
		sampleRate*limiterMinReleaseSeconds, sampleRate*limiterMaxReleaseSeconds) * math.Sqrt2 / 2

	l := &Limiter{
		threshold: threshold,
		release:   NewIntegrator(release),
	}
	if lookahead {
		l.latency = int(prediction)
	}
	l.window = newPeakWindow(l.latency + 1)
	l.Reset()

	return l, nil
}

// Threshold returns the threshold.
func (l *Limiter) Threshold() float64 { return l.threshold }

// SetThreshold changes the threshold. Non-positive and non-finite values
// are ignored.
func (l *Limiter) SetThreshold(threshold float64) {
	if threshold > 0 && !math.IsInf(threshold, 0) {
		l.threshold = threshold
	}
}

// Latency returns the number of samples the limited signal must be delayed.
func (l *Limiter) Latency() int { return l.latency }

// Reset clears the limiter state.
func (l *Limiter) Reset() {
	l.int1, l.int2 = l.threshold, l.threshold
	l.window.reset()
}

// Gain takes the absolute peak of the current frame and returns the gain
// for the frame that is Latency() samples old.
func (l *Limiter) Gain(peak float64) float64 {
	p := math.Max(l.window.push(math.Abs(peak)), l.threshold)
	if p >= l.int1 {
		l.int1, l.int2 = p, p
	} else {
		l.release.Integrate(p, &l.int1)
		l.release.Integrate(l.int1, &l.int2)
	}
	return l.threshold / l.int2
}
