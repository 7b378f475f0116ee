package processor

import (
	"fmt"
	"slices"
	"sync"

	"github.com/cwbudde/algo-speakerman/dsp/filter/biquad"
	"github.com/cwbudde/algo-speakerman/dsp/delay"
	"github.com/cwbudde/algo-speakerman/dsp/dynamics"
	"github.com/cwbudde/algo-speakerman/dsp/filter/crossover"
	"github.com/cwbudde/algo-speakerman/dsp/filter/weighting"
	"github.com/cwbudde/algo-speakerman/dsp/signal"
	"github.com/cwbudde/algo-speakerman/engine/config"
	"github.com/cwbudde/algo-speakerman/engine/runtime"
	"github.com/cwbudde/algo-speakerman/engine/transport"
)

// Processor is the speaker protection pipeline. Process, ProcessBlock and
// Gain belong to the audio thread. Apply, Config, Levels and ResetLevels
// may be called from any goroutine. SetSampleRate rebuilds the real-time
// state and must not run concurrently with processing.
type Processor struct {
	mu         sync.Mutex
	cfg        config.UserConfiguration
	opts       options
	sampleRate float64

	weightRate  float64
	weightFreqs []float64
	weights     crossover.Weights

	*pipeline
}

// pipeline is the real-time state for one topology and sample rate.
type pipeline struct {
	transport *transport.Transport

	groups, groupChannels, inputs, channels, bands int

	bank   *crossover.Bank
	split  [][]float64
	frame  []float64
	merged []float64
	keyed  []float64
	noise  *signal.PinkNoise

	keying    *biquad.Multi
	bandDelay *delay.Multi

	subDetector   *dynamics.Detector
	bandDetectors [config.MaxGroups][config.MaxBands]*dynamics.Detector
	wideband      [config.MaxGroups]*dynamics.Detector
	subGain       dynamics.GainSmoother
	bandGain      [config.MaxGroups][config.MaxBands]dynamics.GainSmoother

	outDelay   *delay.Multi
	eq         [config.MaxGroups]equalizer
	subEQ      equalizer
	predict    *delay.Multi
	limiters   [config.MaxGroups]*dynamics.Limiter
	subLimiter *dynamics.Limiter

	separateSub bool
	levels      dynamics.Levels

	inFrame  []float64
	outFrame []float64
}

// New validates cfg, resolves it for sampleRate and builds the real-time
// state.
func New(cfg config.UserConfiguration, sampleRate float64, opts ...Option) (*Processor, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	p := &Processor{opts: o}
	if err := p.rebuild(cfg.Clone(), sampleRate); err != nil {
		return nil, err
	}

	return p, nil
}

// rebuild resolves cfg and replaces all real-time state. On error the
// previous state is kept.
func (p *Processor) rebuild(cfg config.UserConfiguration, sampleRate float64) error {
	d, err := p.resolve(&cfg, sampleRate)
	if err != nil {
		return err
	}

	pl, err := newPipeline(d, p.opts)
	if err != nil {
		return err
	}
	pl.transport.Init(d, p.opts.rampIn)
	pl.applyDiscrete(pl.transport.Active())

	p.pipeline = pl
	p.cfg = cfg
	p.sampleRate = sampleRate

	return nil
}

// resolve derives a snapshot, measuring band weights only when the
// crossover frequencies or the sample rate changed.
func (p *Processor) resolve(cfg *config.UserConfiguration, sampleRate float64) (*runtime.Data, error) {
	if sampleRate != p.weightRate || !slices.Equal(cfg.CrossoverFrequencies, p.weightFreqs) {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		w, err := p.opts.weights(cfg.CrossoverFrequencies, sampleRate)
		if err != nil {
			return nil, fmt.Errorf("processor: %w", err)
		}
		p.weights = w
		p.weightRate = sampleRate
		p.weightFreqs = slices.Clone(cfg.CrossoverFrequencies)
	}

	w := p.weights
	return runtime.Resolve(cfg, sampleRate, &w)
}

func newPipeline(d *runtime.Data, o options) (*pipeline, error) {
	p := &pipeline{transport: transport.New(d.SampleRate)}
	fs := d.SampleRate
	p.groups = d.Groups
	p.groupChannels = d.GroupChannels
	p.inputs = d.Inputs
	p.channels = d.Channels()
	p.bands = d.Bands()

	var err error
	if p.bank, err = crossover.NewBank(d.Crossover.Frequencies(), p.channels, fs); err != nil {
		return nil, fmt.Errorf("processor: %w", err)
	}
	p.split = make([][]float64, p.bands)
	for b := range p.split {
		p.split[b] = make([]float64, p.channels)
	}
	p.frame = make([]float64, p.channels)
	p.merged = make([]float64, p.channels)
	p.keyed = make([]float64, p.channels)
	p.inFrame = make([]float64, p.inputs)
	p.outFrame = make([]float64, p.channels+1)

	if p.noise, err = signal.NewPinkNoise(fs, 1, signal.WithPinkSeed(o.noiseSeed)); err != nil {
		return nil, fmt.Errorf("processor: %w", err)
	}

	upper := p.bands - 1
	p.keying = weighting.NewMulti(weighting.TypeKeying, p.channels*upper, fs)

	if p.subDetector, err = dynamics.NewDetector(d.Detection, fs); err != nil {
		return nil, fmt.Errorf("processor: %w", err)
	}
	for g := range p.groups {
		for b := 1; b < p.bands; b++ {
			if p.bandDetectors[g][b], err = dynamics.NewDetector(d.Detection, fs); err != nil {
				return nil, fmt.Errorf("processor: %w", err)
			}
		}
		if p.wideband[g], err = dynamics.NewDetector(d.Detection, fs); err != nil {
			return nil, fmt.Errorf("processor: %w", err)
		}
	}

	latency := p.subDetector.Latency()
	if p.bandDelay, err = delay.NewMulti(1+p.channels*upper, latency); err != nil {
		return nil, fmt.Errorf("processor: %w", err)
	}
	for ch := range p.bandDelay.Channels() {
		p.bandDelay.SetDelay(ch, latency)
	}

	release := fs * o.gainRelease
	p.subGain = dynamics.NewGainSmoother(release)
	for g := range p.groups {
		for b := range p.bands {
			p.bandGain[g][b] = dynamics.NewGainSmoother(release)
		}
	}

	if p.outDelay, err = delay.NewMulti(p.channels+1, runtime.MaxDelay(fs)); err != nil {
		return nil, fmt.Errorf("processor: %w", err)
	}
	for g := range p.groups {
		p.eq[g] = newEqualizer(p.groupChannels)
	}
	p.subEQ = newEqualizer(1)

	for g := range p.groups {
		if p.limiters[g], err = dynamics.NewLimiter(fs, d.LimiterThreshold[g], d.Lookahead); err != nil {
			return nil, fmt.Errorf("processor: %w", err)
		}
	}
	if p.subLimiter, err = dynamics.NewLimiter(fs, d.SubLimiterThreshold, d.Lookahead); err != nil {
		return nil, fmt.Errorf("processor: %w", err)
	}
	prediction := p.subLimiter.Latency()
	if p.predict, err = delay.NewMulti(p.channels+1, prediction); err != nil {
		return nil, fmt.Errorf("processor: %w", err)
	}
	for ch := range p.predict.Channels() {
		p.predict.SetDelay(ch, prediction)
	}

	p.levels = dynamics.NewLevels(p.groups)

	return p, nil
}

// applyDiscrete installs the swapped part of a snapshot. It never
// allocates.
func (p *pipeline) applyDiscrete(d *runtime.Data) {
	p.bank.Apply(&d.Crossover)

	p.outDelay.SetDelay(0, d.SubDelay)
	for g := range p.groups {
		for c := range p.groupChannels {
			p.outDelay.SetDelay(1+g*p.groupChannels+c, d.Delay[g])
		}
		p.eq[g].set(&d.EQ[g])
	}
	p.subEQ.set(&d.SubEQ)
	p.separateSub = d.SeparateSub
}

// Apply validates cfg, resolves it and publishes it to the audio thread.
// On error the previous configuration stays active. Changes of the
// detection settings or of lookahead take effect on the next
// SetSampleRate.
func (p *Processor) Apply(cfg config.UserConfiguration) error {
	cfg = cfg.Clone()

	p.mu.Lock()
	defer p.mu.Unlock()

	if !cfg.SameTopology(&p.cfg) {
		return fmt.Errorf("%w: %d groups of %d channels, %d inputs, %d crossovers",
			ErrTopology, len(cfg.Groups), cfg.GroupChannels, cfg.Inputs, cfg.Crossovers)
	}

	d, err := p.resolve(&cfg, p.sampleRate)
	if err != nil {
		return err
	}

	p.transport.Publish(d)
	p.cfg = cfg

	return nil
}

// SetSampleRate rebuilds the processor for sampleRate with the current
// configuration.
func (p *Processor) SetSampleRate(sampleRate float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.rebuild(p.cfg.Clone(), sampleRate)
}

// Config returns a copy of the last applied configuration.
func (p *Processor) Config() config.UserConfiguration {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.cfg.Clone()
}

// SampleRate returns the sample rate.
func (p *Processor) SampleRate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.sampleRate
}

// Inputs returns the number of input samples per frame.
func (p *Processor) Inputs() int { return p.inputs }

// Outputs returns the number of output samples per frame: the sub followed
// by every group channel.
func (p *Processor) Outputs() int { return p.channels + 1 }

// Latency returns the delay of the output against the input in samples.
func (p *Processor) Latency() int {
	return p.subDetector.Latency() + p.subLimiter.Latency()
}

// Levels returns the levels published by the audio thread.
func (p *Processor) Levels() (dynamics.Levels, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.transport.Levels()
}

// ResetLevels asks the audio thread to start a new metering period.
func (p *Processor) ResetLevels() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.transport.RequestLevelsReset()
}

// Gain returns the current gain of a band in a group; band 0 is the sub
// and ignores group. It belongs to the audio thread.
func (p *Processor) Gain(group, band int) float64 {
	if band == 0 {
		return p.subGain.Value()
	}
	if group < 0 || group >= p.groups || band < 0 || band >= p.bands {
		return 1
	}
	return p.bandGain[group][band].Value()
}
