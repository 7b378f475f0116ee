package transport

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-speakerman/dsp/dynamics"
)

const readAttempts = 64

// board is a single-writer seqlock over a levels snapshot. Every field is
// accessed atomically so readers never observe a torn value.
type board struct {
	seq    atomic.Uint64
	groups atomic.Uint64
	count  atomic.Uint64
	values [dynamics.MaxLevelGroups + 1]atomic.Uint64

	reset atomic.Bool
}

// PublishLevels stores l for readers. It is called by the audio thread only.
func (t *Transport) PublishLevels(l *dynamics.Levels) {
	b := &t.levels
	b.seq.Add(1)
	b.groups.Store(uint64(l.Groups()))
	b.count.Store(uint64(l.Count()))
	for i := range b.values {
		b.values[i].Store(math.Float64bits(l.Value(i)))
	}
	b.seq.Add(1)
}

// Levels returns the last published levels. It reports false when nothing
// was published yet or the writer kept the snapshot busy.
func (t *Transport) Levels() (dynamics.Levels, bool) {
	b := &t.levels
	for range readAttempts {
		s := b.seq.Load()
		if s == 0 {
			return dynamics.Levels{}, false
		}
		if s&1 == 1 {
			continue
		}

		l := dynamics.NewLevels(int(b.groups.Load()))
		l.SetCount(int(b.count.Load()))
		for i := range b.values {
			l.Add(i, math.Float64frombits(b.values[i].Load()))
		}

		if b.seq.Load() == s {
			return l, true
		}
	}

	return dynamics.Levels{}, false
}

// RequestLevelsReset asks the audio thread to restart its metering period.
func (t *Transport) RequestLevelsReset() { t.levels.reset.Store(true) }

// TakeLevelsReset consumes a pending reset request.
func (t *Transport) TakeLevelsReset() bool { return t.levels.reset.Swap(false) }
