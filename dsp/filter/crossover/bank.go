package crossover

import (
	"fmt"

	"github.com/cwbudde/algo-speakerman/dsp/filter/biquad"
)

// Setup is a resolved crossover configuration: validated frequencies and
// their LR4 sections, computed off the audio thread and applied to a [Bank]
// without allocation.
type Setup struct {
	Count int
	Hz    [MaxCrossovers]float64
	Low   [MaxCrossovers]biquad.Coefficients
	High  [MaxCrossovers]biquad.Coefficients
}

// NewSetup validates freqs for sampleRate and designs their sections.
func NewSetup(freqs []float64, sampleRate float64) (Setup, error) {
	var s Setup

	if !(sampleRate > 0) {
		return s, fmt.Errorf("crossover: sample rate must be positive, got %v", sampleRate)
	}

	valid, err := ValidateFrequencies(freqs, MaxFrequencyFor(sampleRate))
	if err != nil {
		return s, err
	}

	s.Count = len(valid)
	for i, f := range valid {
		s.Hz[i] = f
		s.Low[i], s.High[i] = Section(f, sampleRate)
	}

	return s, nil
}

// Frequencies returns the validated frequencies.
func (s *Setup) Frequencies() []float64 {
	return append([]float64(nil), s.Hz[:s.Count]...)
}

// Bank splits a fixed number of channels into Count+1 bands.
type Bank struct {
	channels int
	plan     *Plan
	stages   [MaxCrossovers]*Crossover
	nodes    [1 + 2*MaxCrossovers][]float64
}

// NewBank validates freqs and builds a bank for channels channels.
func NewBank(freqs []float64, channels int, sampleRate float64) (*Bank, error) {
	if channels < 1 {
		return nil, fmt.Errorf("crossover: channel count must be positive, got %d", channels)
	}

	setup, err := NewSetup(freqs, sampleRate)
	if err != nil {
		return nil, err
	}

	b := &Bank{channels: channels}
	for i := range b.stages {
		b.stages[i] = New(1000, channels, sampleRate)
	}

	for i := range b.nodes {
		b.nodes[i] = make([]float64, channels)
	}

	b.Apply(&setup)

	return b, nil
}

// Apply installs a setup. Frequency changes keep filter history; a change of
// the crossover count switches the plan and clears history. It never
// allocates.
func (b *Bank) Apply(s *Setup) {
	plan := PlanFor(s.Count)
	if b.plan != plan {
		b.plan = plan
		b.Reset()
	}

	for i := range s.Count {
		b.stages[i].SetSections(s.Hz[i], s.Low[i], s.High[i])
	}
}

// ProcessFrame splits one frame. in holds one sample per channel; out must
// have at least Bands rows of at least Channels samples and receives
// out[band][channel].
func (b *Bank) ProcessFrame(in []float64, out [][]float64) {
	copy(b.nodes[0], in)

	plan := b.plan
	for s := range plan.Crossovers {
		st := &plan.Stages[s]
		xo := b.stages[st.Crossover]
		src := b.nodes[st.In]
		lo := b.nodes[st.Low]
		hi := b.nodes[st.High]

		for ch, x := range src {
			lo[ch], hi[ch] = xo.Split(ch, x)
		}
	}

	for band := range plan.Bands() {
		copy(out[band], b.nodes[plan.BandNode[band]])
	}
}

// Channels returns the channel count.
func (b *Bank) Channels() int { return b.channels }

// Crossovers returns the active crossover count.
func (b *Bank) Crossovers() int { return b.plan.Crossovers }

// Bands returns the active band count.
func (b *Bank) Bands() int { return b.plan.Bands() }

// Plan returns the active plan.
func (b *Bank) Plan() *Plan { return b.plan }

// Frequencies returns the active crossover frequencies.
func (b *Bank) Frequencies() []float64 {
	out := make([]float64, b.plan.Crossovers)
	for i := range out {
		out[i] = b.stages[i].Frequency()
	}

	return out
}

// Stage returns crossover i for inspection.
func (b *Bank) Stage(i int) *Crossover { return b.stages[i] }

// Reset clears the history of every crossover.
func (b *Bank) Reset() {
	for _, xo := range b.stages {
		xo.Reset()
	}

	for _, n := range b.nodes {
		for i := range n {
			n[i] = 0
		}
	}
}
