package processor

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-speakerman/dsp/filter/crossover"
	"github.com/cwbudde/algo-speakerman/engine/config"
	"github.com/cwbudde/algo-speakerman/internal/testutil"
)

const sampleRate = 48000

func fixedWeights(freqs []float64, _ float64) (crossover.Weights, error) {
	w := crossover.Weights{Bands: len(freqs) + 1}
	for b := range w.Bands {
		w.Unweighted[b] = 0.5
		w.Keyed[b] = 0.5
	}
	return w, nil
}

func newTestProcessor(t *testing.T, cfg config.UserConfiguration, opts ...Option) *Processor {
	t.Helper()

	opts = append([]Option{WithWeights(fixedWeights), WithRampIn(false)}, opts...)
	p, err := New(cfg, sampleRate, opts...)
	if err != nil {
		t.Fatal(err)
	}

	return p
}

// scenarioConfig is two stereo groups at [160, 4500] Hz with threshold 0.2.
func scenarioConfig() config.UserConfiguration {
	cfg := config.Default()
	cfg.Crossovers = 2
	cfg.CrossoverFrequencies = []float64{160, 4500}
	second := cfg.Groups[0]
	second.Name = "group 2"
	cfg.Groups = append(cfg.Groups, second)
	for i := range cfg.Groups {
		cfg.Groups[i].Threshold = 0.2
		cfg.Groups[i].Volume = []float64{1, 1}
	}
	return cfg
}

// block holds planar buffers for a processor.
type block struct {
	in, out [][]float64
}

func newBlock(p *Processor, frames int) block {
	return block{in: testutil.Planar(p.Inputs(), frames), out: testutil.Planar(p.Outputs(), frames)}
}

// runSine feeds a sine of amplitude amp to the given inputs for seconds and
// returns the output peaks and RMS values over the last quarter.
func runSine(t *testing.T, p *Processor, freq, amp, seconds float64, inputs ...int) (peak, rms []float64) {
	t.Helper()

	const frames = 480
	b := newBlock(p, frames)
	total := int(seconds * sampleRate)
	measureFrom := total - total/4

	tail := make([][]float64, p.Outputs())
	for start := 0; start < total; start += frames {
		for n := range frames {
			x := amp * math.Sin(2*math.Pi*freq*float64(start+n)/sampleRate)
			for _, i := range inputs {
				b.in[i][n] = x
			}
		}
		if res := p.ProcessBlock(b.in, b.out); !res.OK {
			t.Fatal(res.Message)
		}
		if start < measureFrom {
			continue
		}
		for o, buf := range b.out {
			tail[o] = append(tail[o], buf...)
		}
	}

	peak = make([]float64, p.Outputs())
	rms = make([]float64, p.Outputs())
	for o, x := range tail {
		testutil.RequireFinite(t, x)
		peak[o], rms[o] = testutil.Peak(x), testutil.RMS(x)
	}

	return peak, rms
}

func TestNewRejectsInvalid(t *testing.T) {
	cfg := config.Default()
	cfg.Groups[0].Threshold = 0
	if _, err := New(cfg, sampleRate, WithWeights(fixedWeights)); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}

	if _, err := New(config.Default(), sampleRate, WithGainRelease(5)); err == nil {
		t.Fatal("accepted gain release of 5 s")
	}
	if _, err := New(config.Default(), sampleRate, WithWeights(nil)); err == nil {
		t.Fatal("accepted nil weights function")
	}

	failing := func([]float64, float64) (crossover.Weights, error) {
		return crossover.Weights{}, errors.New("no weights")
	}
	if _, err := New(config.Default(), sampleRate, WithWeights(failing)); err == nil {
		t.Fatal("weights error not returned")
	}
}

func TestChannelMismatch(t *testing.T) {
	p := newTestProcessor(t, config.Default())
	if p.Inputs() != 2 || p.Outputs() != 3 {
		t.Fatalf("layout %d in %d out", p.Inputs(), p.Outputs())
	}

	res := p.Process(make([]float64, 1), make([]float64, 3))
	if res.OK || !errors.Is(res.Err(), ErrChannelMismatch) {
		t.Fatalf("unexpected result %+v", res)
	}

	b := newBlock(p, 16)
	b.out[2] = b.out[2][:8]
	if res := p.ProcessBlock(b.in, b.out); res.OK {
		t.Fatal("ragged block accepted")
	}

	b = newBlock(p, 16)
	if res := p.ProcessBlock(b.in, b.out); !res.OK || res.Err() != nil {
		t.Fatalf("valid block rejected: %+v", res)
	}
}

func TestSilenceStaysQuiet(t *testing.T) {
	p := newTestProcessor(t, config.Default())
	peak, _ := runSine(t, p, 1000, 0, 0.2, 0, 1)

	for o, v := range peak {
		if v > 1e-5 {
			t.Fatalf("output %d peak %v on silent input", o, v)
		}
	}
	for b := range 3 {
		if g := p.Gain(0, b); g != 1 {
			t.Fatalf("band %d gain %v on silence", b, g)
		}
	}
}

// record feeds a sine to input 0 for seconds and returns everything output
// o produced.
func record(t *testing.T, p *Processor, freq, amp, seconds float64, o int) []float64 {
	t.Helper()

	const frames = 240
	b := newBlock(p, frames)
	total := int(seconds * sampleRate)
	out := make([]float64, 0, total+frames)
	for start := 0; start < total; start += frames {
		for n := range frames {
			b.in[0][n] = amp * math.Sin(2*math.Pi*freq*float64(start+n)/sampleRate)
		}
		if res := p.ProcessBlock(b.in, b.out); !res.OK {
			t.Fatal(res.Message)
		}
		out = append(out, b.out[o]...)
	}
	testutil.RequireFinite(t, out)

	return out
}

func windowPeak(x []float64, from, to float64) float64 {
	return testutil.Peak(x[int(from*sampleRate):int(to*sampleRate)])
}

// The detector reacts within a few milliseconds but weights its short
// windows lightly, so a loud onset is pulled down over roughly 150 ms and
// then held. Release back to unity takes well under a second.
func TestLoudSineIsHeldAtThreshold(t *testing.T) {
	p := newTestProcessor(t, scenarioConfig())
	// Output 1 is group 1 channel 1.
	out := record(t, p, 1000, 1, 1.5, 1)

	if onset := windowPeak(out, 0, 0.005); onset > 1 {
		t.Fatalf("onset peak %v above input", onset)
	}
	if early := windowPeak(out, 0.04, 0.06); early > 0.4 {
		t.Fatalf("peak %v at 50 ms, want below 0.4", early)
	}
	if held := windowPeak(out, 0.2, 1.5); held > 0.2 {
		t.Fatalf("peak %v after 200 ms, want at most the 0.2 threshold", held)
	}
	if tail := windowPeak(out, 1.2, 1.5); tail < 0.05 {
		t.Fatalf("tail peak %v: signal suppressed", tail)
	}
	if g := p.Gain(0, 1); g > 0.5 {
		t.Fatalf("mid band gain %v, want reduction", g)
	}

	record(t, p, 1000, 0, 1, 1)
	for g := range 2 {
		for b := range 3 {
			if gain := p.Gain(g, b); gain < 0.99 {
				t.Fatalf("group %d band %d gain %v one second after the tone", g, b, gain)
			}
		}
	}
}

// minUpperGain plays the sum of tones on input 0 of a fresh single group
// processor and returns the lowest gain any upper band reached.
func minUpperGain(t *testing.T, seconds float64, freqs, amps []float64) float64 {
	t.Helper()

	cfg := scenarioConfig()
	cfg.Groups = cfg.Groups[:1]
	p := newTestProcessor(t, cfg)

	const frames = 480
	b := newBlock(p, frames)
	lowest := 1.0
	for start := 0; start < int(seconds*sampleRate); start += frames {
		for n := range frames {
			x := 0.0
			for i, f := range freqs {
				x += amps[i] * math.Sin(2*math.Pi*f*float64(start+n)/sampleRate)
			}
			b.in[0][n] = x
		}
		if res := p.ProcessBlock(b.in, b.out); !res.OK {
			t.Fatal(res.Message)
		}
		for band := 1; band < p.bands; band++ {
			lowest = math.Min(lowest, p.Gain(0, band))
		}
	}

	return lowest
}

func TestWidebandLoudnessForcesReduction(t *testing.T) {
	const seconds = 0.6
	reduces := func(freqs, amps []float64) bool {
		return minUpperGain(t, seconds, freqs, amps) < 0.9999
	}

	// Loudest amplitude per tone that its own band still lets through.
	quiet := func(freq float64) float64 {
		lo, hi := 0.0, 2.0
		if !reduces([]float64{freq}, []float64{hi}) {
			t.Fatalf("%g Hz at %v not reduced", freq, hi)
		}
		for range 12 {
			mid := (lo + hi) / 2
			if reduces([]float64{freq}, []float64{mid}) {
				hi = mid
			} else {
				lo = mid
			}
		}
		return lo
	}

	// 1 kHz lands in the middle band, 9 kHz in the top band.
	a1, a2 := quiet(1000), quiet(9000)
	freqs := []float64{1000, 9000}
	amps := []float64{0.95 * a1, 0.95 * a2}
	if g := minUpperGain(t, seconds, freqs, amps); g > 0.99 {
		t.Fatalf("two bands just below threshold (%v, %v): lowest gain %v, want a reduction", amps[0], amps[1], g)
	}
}

func TestSubRouting(t *testing.T) {
	separate := newTestProcessor(t, config.Default())
	_, rms := runSine(t, separate, 40, 0.01, 1, 0, 1)
	if rms[0] < 10*rms[1] || rms[0] < 10*rms[2] {
		t.Fatalf("sub %v not isolated from channels %v %v", rms[0], rms[1], rms[2])
	}

	cfg := config.Default()
	cfg.SubOutput = 0
	summed := newTestProcessor(t, cfg)
	peak, rms2 := runSine(t, summed, 40, 0.01, 1, 0, 1)
	if peak[0] != 0 {
		t.Fatalf("sub output carries %v without a sub port", peak[0])
	}
	for _, o := range []int{1, 2} {
		want := rms[0] / math.Sqrt2
		if math.Abs(rms2[o]-want) > 0.2*want {
			t.Fatalf("channel %d rms %v, want about %v", o, rms2[o], want)
		}
	}
}

func TestGroupWithoutSubGetsSubBand(t *testing.T) {
	cfg := config.Default()
	cfg.Groups[0].UseSub = false
	p := newTestProcessor(t, cfg)
	_, rms := runSine(t, p, 40, 0.01, 1, 0, 1)

	if rms[0] == 0 {
		t.Fatal("sub output empty")
	}
	for _, o := range []int{1, 2} {
		want := rms[0] / 2
		if math.Abs(rms[o]-want) > 0.2*want {
			t.Fatalf("channel %d rms %v, want about %v", o, rms[o], want)
		}
	}
}

func TestSummedSubSkipsGroupsWithoutSub(t *testing.T) {
	cfg := scenarioConfig()
	cfg.SubOutput = 0
	cfg.Groups[1].UseSub = false
	p := newTestProcessor(t, cfg)
	_, rms := runSine(t, p, 40, 0.01, 1, 0, 1)

	// Group 1 shares the sub over its two channels at equal power, group 2
	// gets half of it per channel from the band merge and nothing else.
	withSub, withoutSub := rms[1], rms[3]
	if withoutSub == 0 {
		t.Fatal("group without sub is silent")
	}
	if ratio := withSub / withoutSub; math.Abs(ratio-math.Sqrt2) > 0.15 {
		t.Fatalf("rms %v vs %v: ratio %v, want about sqrt 2", withSub, withoutSub, ratio)
	}
}

func TestMonoGroup(t *testing.T) {
	cfg := config.Default()
	cfg.Groups[0].Mono = true
	p := newTestProcessor(t, cfg)

	in := make([]float64, 2)
	out := make([]float64, 3)
	for n := range 4800 {
		in[0] = 0.3 * math.Sin(2*math.Pi*440*float64(n)/sampleRate)
		p.Process(in, out)
		if out[1] != out[2] {
			t.Fatalf("frame %d: mono channels differ %v %v", n, out[1], out[2])
		}
	}
}

func noiseInput(seed int64, frames int) [][]float64 {
	return [][]float64{testutil.Noise(seed, 1, frames), testutil.Noise(seed+1, 1, frames)}
}

func TestRepeatedApplyIsInaudible(t *testing.T) {
	cfg := config.Default()
	a := newTestProcessor(t, cfg)
	b := newTestProcessor(t, cfg)

	const frames = 4800
	in := noiseInput(3, frames)
	outA, outB := newBlock(a, frames), newBlock(b, frames)

	for round := range 4 {
		if round == 1 {
			if err := b.Apply(cfg); err != nil {
				t.Fatal(err)
			}
		}
		a.ProcessBlock(in, outA.out)
		b.ProcessBlock(in, outB.out)
		for o := range outA.out {
			for n := range frames {
				if outA.out[o][n] != outB.out[o][n] {
					t.Fatalf("round %d output %d frame %d: %v != %v",
						round, o, n, outA.out[o][n], outB.out[o][n])
				}
			}
		}
	}
}

func TestApply(t *testing.T) {
	p := newTestProcessor(t, config.Default())

	bad := config.Default()
	bad.Groups[0].Threshold = 5
	if err := p.Apply(bad); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if got := p.Config().Groups[0].Threshold; got != config.DefaultThreshold {
		t.Fatalf("invalid configuration applied: threshold %v", got)
	}

	bigger := config.Default()
	bigger.Inputs = 4
	if err := p.Apply(bigger); !errors.Is(err, ErrTopology) {
		t.Fatalf("expected ErrTopology, got %v", err)
	}

	next := config.Default()
	next.Groups[0].Threshold = 0.3
	next.CrossoverFrequencies = []float64{70, 200}
	if err := p.Apply(next); err != nil {
		t.Fatal(err)
	}
	got := p.Config()
	if got.Groups[0].Threshold != 0.3 || got.CrossoverFrequencies[1] != 200 {
		t.Fatalf("configuration not applied: %+v", got)
	}

	next.Groups[0].Threshold = 0.4
	if p.Config().Groups[0].Threshold != 0.3 {
		t.Fatal("Config shares memory with the caller")
	}
}

func TestLevels(t *testing.T) {
	p := newTestProcessor(t, scenarioConfig())
	if _, ok := p.Levels(); ok {
		t.Fatal("levels before processing")
	}

	runSine(t, p, 1000, 1, 0.5, 0)
	l, ok := p.Levels()
	if !ok {
		t.Fatal("no levels after processing")
	}
	if l.Groups() != 2 || l.Count() != 24000 {
		t.Fatalf("groups %d count %d", l.Groups(), l.Count())
	}
	if l.Signal(1) <= 1 || l.Signal(2) <= 1 {
		t.Fatalf("group levels %v %v, want above threshold", l.Signal(1), l.Signal(2))
	}

	p.ResetLevels()
	b := newBlock(p, 100)
	p.ProcessBlock(b.in, b.out)
	if l, _ = p.Levels(); l.Count() != 100 {
		t.Fatalf("count %d after reset", l.Count())
	}
}

// Each group meters the loudest of its upper bands; the sub has its own slot.
func TestGroupLevelFollowsLoudestBand(t *testing.T) {
	p := newTestProcessor(t, scenarioConfig())
	runSine(t, p, 9000, 1, 0.5, 0)

	l, ok := p.Levels()
	if !ok {
		t.Fatal("no levels after processing")
	}
	if l.Groups() != 2 {
		t.Fatalf("%d group levels, want one per group", l.Groups())
	}
	if l.Signal(1) <= 1 {
		t.Fatalf("group level %v with only the top band loud, want above threshold", l.Signal(1))
	}
	if l.Signal(0) > 1 {
		t.Fatalf("sub level %v for a 9 kHz tone", l.Signal(0))
	}
}

func TestSetSampleRate(t *testing.T) {
	p := newTestProcessor(t, config.Default())
	if p.Latency() != 96 {
		t.Fatalf("latency %d at 48 kHz", p.Latency())
	}

	if err := p.SetSampleRate(44100); err != nil {
		t.Fatal(err)
	}
	if p.SampleRate() != 44100 || p.Latency() != 88 {
		t.Fatalf("rate %v latency %d", p.SampleRate(), p.Latency())
	}

	if err := p.SetSampleRate(-1); err == nil {
		t.Fatal("negative sample rate accepted")
	}
	if p.SampleRate() != 44100 {
		t.Fatal("failed rebuild replaced the state")
	}
}

func TestProcessDoesNotAllocate(t *testing.T) {
	p := newTestProcessor(t, scenarioConfig())
	in := []float64{0.5, -0.5}
	out := make([]float64, p.Outputs())

	allocs := testing.AllocsPerRun(200, func() {
		p.Process(in, out)
	})
	if allocs != 0 {
		t.Fatalf("Process allocates %v times per frame", allocs)
	}
}

func BenchmarkProcessBlock(b *testing.B) {
	p, err := New(scenarioConfig(), sampleRate, WithWeights(fixedWeights))
	if err != nil {
		b.Fatal(err)
	}
	const frames = 512
	in := noiseInput(1, frames)
	out := testutil.Planar(p.Outputs(), frames)

	b.ReportAllocs()
	for b.Loop() {
		p.ProcessBlock(in, out)
	}
}
