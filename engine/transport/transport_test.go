package transport

import (
	"math"
	"sync"
	"testing"

	"github.com/cwbudde/algo-speakerman/dsp/dynamics"
	"github.com/cwbudde/algo-speakerman/dsp/filter/crossover"
	"github.com/cwbudde/algo-speakerman/engine/config"
	"github.com/cwbudde/algo-speakerman/engine/runtime"
)

var weights = crossover.Weights{
	Bands:      3,
	Unweighted: [crossover.MaxBands]float64{0.5, 0.5, 0.5},
	Keyed:      [crossover.MaxBands]float64{0.4, 0.6, 0.3},
}

func resolve(t testing.TB, edit func(*config.UserConfiguration)) *runtime.Data {
	t.Helper()

	cfg := config.Default()
	if edit != nil {
		edit(&cfg)
	}
	w := weights
	d, err := runtime.Resolve(&cfg, 48000, &w)
	if err != nil {
		t.Fatal(err)
	}

	return d
}

func TestStepWithoutPublication(t *testing.T) {
	tr := New(48000)
	if tr.Latest() != nil {
		t.Fatal("fresh transport has a snapshot")
	}
	active, changed := tr.Step()
	if changed || active.Groups != 0 {
		t.Fatalf("unexpected active %+v changed %v", active.Discrete, changed)
	}
}

func TestInit(t *testing.T) {
	d := resolve(t, nil)

	tr := New(48000)
	tr.Init(d, false)
	active, changed := tr.Step()
	if changed {
		t.Fatal("Init snapshot reported as a change")
	}
	if active.Checksum() != d.Checksum() {
		t.Fatal("active differs from the initial snapshot")
	}

	tr.Init(d, true)
	active, _ = tr.Step()
	if v := active.Volume[0][0]; !(v > 0 && v < 0.01) {
		t.Fatalf("ramp-in volume after one step %v", v)
	}
	for range 200000 {
		active, _ = tr.Step()
	}
	if math.Abs(active.Volume[0][0]-1) > 1e-6 {
		t.Fatalf("ramp-in volume %v", active.Volume[0][0])
	}
}

func TestPublishSwapsDiscreteOnce(t *testing.T) {
	tr := New(48000)
	tr.Init(resolve(t, nil), false)

	next := resolve(t, func(c *config.UserConfiguration) { c.Groups[0].Mono = true })
	tr.Publish(next)
	tr.Publish(nil)
	if tr.Latest() != next {
		t.Fatal("Latest does not return the publication")
	}

	active, changed := tr.Step()
	if !changed || !active.Mono[0] {
		t.Fatal("discrete part not swapped on the first step")
	}
	if active.DiscreteChecksum() != next.DiscreteChecksum() {
		t.Fatal("discrete checksum mismatch")
	}
	if _, changed = tr.Step(); changed {
		t.Fatal("change reported twice")
	}
}

func TestFactorsFollowSampleRate(t *testing.T) {
	tr := New(96000)
	f := tr.Factors()
	if math.Abs(f.Characteristic()-10000) > 1e-6 {
		t.Fatalf("characteristic %v", f.Characteristic())
	}
}

// Run with -race: the publisher swaps two snapshots while the audio loop
// steps, and the active snapshot must never mix their discrete parts or leave
// the envelope of their continuous parts.
func TestConcurrentPublish(t *testing.T) {
	a := resolve(t, nil)
	b := resolve(t, func(c *config.UserConfiguration) {
		c.Groups[0].Threshold = 0.3
		c.Groups[0].Volume = []float64{0.5, 2}
		c.Groups[0].Mono = true
	})
	sums := map[uint64]bool{a.DiscreteChecksum(): true, b.DiscreteChecksum(): true}

	tr := New(480)
	tr.Init(a, false)

	const steps = 200000
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			if i%2 == 0 {
				tr.Publish(b)
			} else {
				tr.Publish(a)
			}
		}
	}()

	within := func(v, x, y float64) bool {
		const eps = 1e-12
		return v >= math.Min(x, y)-eps && v <= math.Max(x, y)+eps
	}

	for i := range steps {
		active, _ := tr.Step()
		if !sums[active.DiscreteChecksum()] {
			close(done)
			wg.Wait()
			t.Fatalf("step %d: torn discrete part", i)
		}
		if !within(active.LimiterThreshold[0], a.LimiterThreshold[0], b.LimiterThreshold[0]) ||
			!within(active.Volume[0][1], a.Volume[0][1], b.Volume[0][1]) ||
			!within(active.BandRMSScale[0][2], a.BandRMSScale[0][2], b.BandRMSScale[0][2]) {
			close(done)
			wg.Wait()
			t.Fatalf("step %d: continuous value outside envelope", i)
		}
	}

	close(done)
	wg.Wait()
}

func TestLevelsBoard(t *testing.T) {
	tr := New(48000)
	if _, ok := tr.Levels(); ok {
		t.Fatal("levels before any publication")
	}

	l := dynamics.NewLevels(2)
	l.Add(0, 1.5)
	l.Add(2, 4)
	l.Next()
	tr.PublishLevels(&l)

	got, ok := tr.Levels()
	if !ok {
		t.Fatal("no levels")
	}
	if got.Groups() != 2 || got.Count() != 1 || got.Value(0) != 1.5 || got.Signal(2) != 2 {
		t.Fatalf("levels %v %v %v %v", got.Groups(), got.Count(), got.Value(0), got.Value(2))
	}

	if tr.TakeLevelsReset() {
		t.Fatal("reset without request")
	}
	tr.RequestLevelsReset()
	if !tr.TakeLevelsReset() || tr.TakeLevelsReset() {
		t.Fatal("reset request not consumed exactly once")
	}
}

func TestLevelsBoardNeverTears(t *testing.T) {
	tr := New(48000)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		l := dynamics.NewLevels(dynamics.MaxLevelGroups)
		for k := 1; ; k++ {
			select {
			case <-done:
				return
			default:
			}
			l.Reset()
			for i := 0; i <= dynamics.MaxLevelGroups; i++ {
				l.Add(i, float64(k))
			}
			l.SetCount(k)
			tr.PublishLevels(&l)
		}
	}()

	for range 20000 {
		l, ok := tr.Levels()
		if !ok {
			continue
		}
		want := float64(l.Count())
		for i := 0; i <= dynamics.MaxLevelGroups; i++ {
			if l.Value(i) != want {
				close(done)
				wg.Wait()
				t.Fatalf("torn levels: value %d is %v, count %v", i, l.Value(i), want)
			}
		}
	}

	close(done)
	wg.Wait()
}

func BenchmarkStep(b *testing.B) {
	tr := New(48000)
	tr.Init(resolve(b, nil), true)

	b.ReportAllocs()
	for b.Loop() {
		tr.Step()
	}
}
