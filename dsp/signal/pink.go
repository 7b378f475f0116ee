package signal

import (
	"fmt"
	"math"
	"math/bits"
	"math/rand"
)

const (
	// DefaultPinkRows is the number of Voss-McCartney rows. Each row covers
	// one octave, so 30 rows reach well below any audible frequency.
	DefaultPinkRows = 30
	// MaxPinkRows bounds the row count so the row counter stays in range.
	MaxPinkRows = 48

	// Characteristic of the DC offset integrator, in seconds.
	pinkDCSeconds = 0.05
)

// PinkOption configures a PinkNoise source.
type PinkOption func(*pinkConfig)

type pinkConfig struct {
	seed int64
	rows int
}

// WithPinkSeed sets the random seed. Equal seeds yield equal sequences.
func WithPinkSeed(seed int64) PinkOption {
	return func(c *pinkConfig) {
		c.seed = seed
	}
}

// WithPinkRows sets the number of octave rows in [1, MaxPinkRows].
func WithPinkRows(rows int) PinkOption {
	return func(c *pinkConfig) {
		c.rows = rows
	}
}

// PinkNoise is a streaming pink noise source (Voss-McCartney) with a
// slow integrator that removes the wandering DC offset of the low rows.
// Next does not allocate.
type PinkNoise struct {
	rng     *rand.Rand
	rows    []float64
	counter uint64
	sum     float64
	scale   float64

	offset      float64
	dcInput     float64
	dcHistory   float64
	initialized bool
}

// NewPinkNoise returns a pink noise source producing values roughly within
// [-amplitude, amplitude].
func NewPinkNoise(sampleRate, amplitude float64, opts ...PinkOption) (*PinkNoise, error) {
	cfg := pinkConfig{seed: 1, rows: DefaultPinkRows}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("pink noise sample rate must be > 0: %f", sampleRate)
	}
	if cfg.rows < 1 || cfg.rows > MaxPinkRows {
		return nil, fmt.Errorf("pink noise rows must be in [1,%d]: %d", MaxPinkRows, cfg.rows)
	}

	p := &PinkNoise{
		rng:  rand.New(rand.NewSource(cfg.seed)),
		rows: make([]float64, cfg.rows),
	}
	p.SetAmplitude(amplitude)

	n := sampleRate * pinkDCSeconds
	p.dcHistory = math.Exp(-1 / n)
	p.dcInput = 1 - p.dcHistory

	for i := range p.rows {
		v := p.white()
		p.rows[i] = v
		p.sum += v
	}
	return p, nil
}

// SetAmplitude changes the output scale without disturbing the sequence.
func (p *PinkNoise) SetAmplitude(amplitude float64) {
	p.scale = amplitude / float64(len(p.rows)+1)
}

// Rows returns the number of octave rows.
func (p *PinkNoise) Rows() int {
	return len(p.rows)
}

func (p *PinkNoise) white() float64 {
	return p.rng.Float64()*2 - 1
}

// Next returns the next sample.
func (p *PinkNoise) Next() float64 {
	p.counter++
	// Row k is refreshed every 2^(k+1) samples.
	row := bits.TrailingZeros64(p.counter)
	if row < len(p.rows) {
		v := p.white()
		p.sum += v - p.rows[row]
		p.rows[row] = v
	}
	raw := p.sum + p.white()

	if !p.initialized {
		p.offset = raw
		p.initialized = true
	} else {
		p.offset = p.offset*p.dcHistory + raw*p.dcInput
	}
	return (raw - p.offset) * p.scale
}

// Fill overwrites dst with consecutive samples.
func (p *PinkNoise) Fill(dst []float64) {
	for i := range dst {
		dst[i] = p.Next()
	}
}
