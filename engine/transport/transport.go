package transport

import (
	"sync/atomic"

	"github.com/cwbudde/algo-speakerman/engine/runtime"
)

// Transport is the three-slot configuration hand-off. Publish and Latest may
// be called from any goroutine; Init, Step and Active belong
// to the audio thread.
type Transport struct {
	userSet atomic.Pointer[runtime.Data]

	middle  runtime.Data
	active  runtime.Data
	factors runtime.Factors

	levels board
}

// New returns a transport whose approach time is scaled for sampleRate.
func New(sampleRate float64) *Transport {
	return &Transport{factors: runtime.ForSampleRate(sampleRate)}
}

// Publish makes d the target of the audio thread. d must not be modified
// afterwards. A nil d is ignored.
func (t *Transport) Publish(d *runtime.Data) {
	if d == nil {
		return
	}
	t.userSet.Store(d)
}

// Latest returns the last published snapshot, or nil.
func (t *Transport) Latest() *runtime.Data { return t.userSet.Load() }

// Init sets every slot to d. With rampIn the working copies start silent
// and the volumes approach d.
func (t *Transport) Init(d *runtime.Data, rampIn bool) {
	t.userSet.Store(d)
	t.middle = *d
	if rampIn {
		t.middle.Silence()
	}
	t.active = t.middle
}

// Step runs both approach stages and returns the active snapshot. The flag
// reports that the discrete part of active was replaced during this step.
// Step never allocates.
func (t *Transport) Step() (*runtime.Data, bool) {
	target := t.userSet.Load()
	if target == nil {
		return &t.active, false
	}

	t.middle.Approach(target, &t.factors)
	changed := t.active.Approach(&t.middle, &t.factors)

	return &t.active, changed
}

// Active returns the snapshot the audio thread is using.
func (t *Transport) Active() *runtime.Data { return &t.active }

// Factors returns the approach factors in use.
func (t *Transport) Factors() runtime.Factors { return t.factors }
