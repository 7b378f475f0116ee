package crossover

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-speakerman/dsp/filter/biquad"
	"github.com/cwbudde/algo-speakerman/dsp/filter/design/pass"
	"github.com/cwbudde/algo-speakerman/dsp/filter/weighting"
	"github.com/cwbudde/algo-speakerman/dsp/signal"
)

// Band-weight measurement setup.
const (
	weightSeconds    = 2.0
	weightLowHz      = 20.0
	weightHighHz     = 8000.0
	weightLimitOrder = 4
	weightBlock      = 1024
	weightSeed       = 0x5eed
)

// Weights holds the share of a band-limited pink noise that ends up in each
// band, as RMS relative to the whole unweighted signal.
type Weights struct {
	Bands int
	// Unweighted is the plain RMS share of each band.
	Unweighted [MaxBands]float64
	// Keyed is the RMS share after the keying curve.
	Keyed [MaxBands]float64
}

// Detection returns the weight the detector of band uses. The lowest band
// is measured without keying, the others with it.
func (w *Weights) Detection(band int) float64 {
	if band == 0 {
		return w.Unweighted[0]
	}

	return w.Keyed[band]
}

// BandWeights measures the band weights of freqs at sampleRate by running
// two seconds of pink noise, limited to 20 Hz - 8 kHz, through a crossover
// bank. It is deterministic and meant for configuration time.
func BandWeights(freqs []float64, sampleRate float64) (Weights, error) {
	var w Weights

	bank, err := NewBank(freqs, 2, sampleRate)
	if err != nil {
		return w, err
	}

	noise, err := signal.NewPinkNoise(sampleRate, 1, signal.WithPinkSeed(weightSeed))
	if err != nil {
		return w, fmt.Errorf("crossover: band weights: %w", err)
	}

	limit := biquad.NewChain(append(
		pass.ButterworthHP(weightLowHz, weightLimitOrder, sampleRate),
		pass.ButterworthLP(math.Min(weightHighHz, 0.45*sampleRate), weightLimitOrder, sampleRate)...,
	))
	key := weighting.NewKeying(sampleRate)

	bands := bank.Bands()
	w.Bands = bands

	plain := make([]float64, weightBlock)
	keyed := make([]float64, weightBlock)
	// split[band*2+ch] collects one block per band and channel.
	split := make([][]float64, 2*bands)
	for i := range split {
		split[i] = make([]float64, weightBlock)
	}

	frame := make([]float64, 2)
	out := make([][]float64, bands)
	for i := range out {
		out[i] = make([]float64, 2)
	}

	var energy [2 * MaxBands]float64
	total := 0.0

	remaining := int(math.Round(weightSeconds * sampleRate))
	for remaining > 0 {
		n := min(weightBlock, remaining)
		remaining -= n

		noise.Fill(plain[:n])
		limit.ProcessBlock(plain[:n])
		copy(keyed[:n], plain[:n])
		key.ProcessBlock(keyed[:n])

		for i := range n {
			frame[0], frame[1] = plain[i], keyed[i]
			bank.ProcessFrame(frame, out)
			for b := range bands {
				split[2*b][i] = out[b][0]
				split[2*b+1][i] = out[b][1]
			}
		}

		total += sumSquares(plain[:n])
		for i := range split {
			energy[i] += sumSquares(split[i][:n])
		}
	}

	if !(total > 0) {
		return w, fmt.Errorf("crossover: band weights: measurement signal is silent")
	}

	for b := range bands {
		w.Unweighted[b] = math.Sqrt(energy[2*b] / total)
		w.Keyed[b] = math.Sqrt(energy[2*b+1] / total)
	}

	return w, nil
}

// sumSquares squares x in place and returns the sum.
func sumSquares(x []float64) float64 {
	vecmath.MulBlockInPlace(x, x)

	s := 0.0
	for _, v := range x {
		s += v
	}

	return s
}
