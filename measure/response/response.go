package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-speakerman/dsp/core"
	"github.com/cwbudde/algo-speakerman/dsp/filter/crossover"
)

const (
	// DefaultSize is the default impulse response length.
	DefaultSize = 16384
	// MinSize is the shortest impulse response length.
	MinSize = 256

	flatLowHz  = 20.0
	flatHighHz = 20000.0
)

// ErrSize reports an impulse response length that is not a power of two of
// at least MinSize.
var ErrSize = errors.New("response: size must be a power of two >= 256")

// Result holds the magnitude responses of every band and of their sum.
type Result struct {
	SampleRate  float64
	Crossovers  []float64
	Frequencies []float64
	// Bands[b][k] is the linear magnitude of band b at Frequencies[k].
	Bands [][]float64
	// Sum is the magnitude of the complex sum of all bands.
	Sum []float64
}

// Point is a crossover point: the frequency where two adjacent bands have
// equal magnitude.
type Point struct {
	Hz float64
	DB float64
}

// Measure splits an impulse of size samples with a bank for freqs.
func Measure(freqs []float64, sampleRate float64, size int) (*Result, error) {
	if size < MinSize || !core.IsPowerOfTwo(size) {
		return nil, fmt.Errorf("%w: %d", ErrSize, size)
	}

	bank, err := crossover.NewBank(freqs, 1, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("response: %w", err)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("response: failed to create FFT plan: %w", err)
	}

	bands := bank.Bands()
	impulses := make([][]complex128, bands)
	for b := range impulses {
		impulses[b] = make([]complex128, size)
	}

	in := []float64{1}
	out := make([][]float64, bands)
	for b := range out {
		out[b] = make([]float64, 1)
	}
	for n := range size {
		bank.ProcessFrame(in, out)
		in[0] = 0
		for b := range bands {
			impulses[b][n] = complex(out[b][0], 0)
		}
	}

	bins := size/2 + 1
	r := &Result{
		SampleRate:  sampleRate,
		Crossovers:  bank.Frequencies(),
		Frequencies: make([]float64, bins),
		Bands:       make([][]float64, bands),
		Sum:         make([]float64, bins),
	}
	for k := range bins {
		r.Frequencies[k] = float64(k) * sampleRate / float64(size)
	}

	spectrum := make([]complex128, size)
	re := make([]float64, bins)
	im := make([]float64, bins)
	sumRe := make([]float64, bins)
	sumIm := make([]float64, bins)

	for b := range bands {
		if err := plan.Forward(spectrum, impulses[b]); err != nil {
			return nil, fmt.Errorf("response: band %d: %w", b, err)
		}
		for k := range bins {
			re[k], im[k] = real(spectrum[k]), imag(spectrum[k])
		}
		vecmath.AddBlockInPlace(sumRe, re)
		vecmath.AddBlockInPlace(sumIm, im)

		r.Bands[b] = make([]float64, bins)
		vecmath.Magnitude(r.Bands[b], re, im)
	}
	vecmath.Magnitude(r.Sum, sumRe, sumIm)

	return r, nil
}

// Bin returns the index of the bin closest to hz.
func (r *Result) Bin(hz float64) int {
	last := len(r.Frequencies) - 1
	step := r.Frequencies[1]
	return min(max(int(math.Round(hz/step)), 0), last)
}

// BandDB returns the magnitude of band at hz in dB.
func (r *Result) BandDB(band int, hz float64) float64 {
	return core.LinearToDB(r.Bands[band][r.Bin(hz)])
}

// SumDB returns the magnitude of the summed bands at hz in dB.
func (r *Result) SumDB(hz float64) float64 {
	return core.LinearToDB(r.Sum[r.Bin(hz)])
}

// Flatness returns the smallest and largest magnitude of the summed bands
// in dB between 20 Hz and 20 kHz, or Nyquist when lower.
func (r *Result) Flatness() (minDB, maxDB float64) {
	lo := r.Bin(flatLowHz)
	hi := r.Bin(math.Min(flatHighHz, 0.45*r.SampleRate))

	minDB, maxDB = math.Inf(1), math.Inf(-1)
	for _, m := range r.Sum[lo : hi+1] {
		db := core.LinearToDB(m)
		minDB = math.Min(minDB, db)
		maxDB = math.Max(maxDB, db)
	}

	return minDB, maxDB
}

// CrossoverPoints returns, for every pair of adjacent bands, the point
// where the lower band falls below the upper one. The frequency is
// interpolated between the two bins that bracket the crossing.
func (r *Result) CrossoverPoints() []Point {
	points := make([]Point, 0, len(r.Bands)-1)
	for b := 0; b+1 < len(r.Bands); b++ {
		lo, hi := r.Bands[b], r.Bands[b+1]
		start := r.Bin(r.Crossovers[b] / 4)
		for k := max(start, 1); k < len(lo); k++ {
			d1 := core.LinearToDB(lo[k]) - core.LinearToDB(hi[k])
			if d1 > 0 {
				continue
			}
			d0 := core.LinearToDB(lo[k-1]) - core.LinearToDB(hi[k-1])
			t := 0.0
			if d0 != d1 {
				t = d0 / (d0 - d1)
			}
			hz := r.Frequencies[k-1] + t*(r.Frequencies[k]-r.Frequencies[k-1])
			db := core.LinearToDB(lo[k-1] + t*(lo[k]-lo[k-1]))
			points = append(points, Point{Hz: hz, DB: db})
			break
		}
	}

	return points
}
