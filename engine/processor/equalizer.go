package processor

import (
	"github.com/cwbudde/algo-speakerman/dsp/filter/biquad"
	"github.com/cwbudde/algo-speakerman/engine/runtime"
)

// equalizer runs a resolved [runtime.EQ]. The kind selects the path, so an
// identity equalizer costs a branch.
type equalizer struct {
	kind   runtime.EQKind
	first  *biquad.Multi
	second *biquad.Multi
}

func newEqualizer(channels int) equalizer {
	id := []biquad.Coefficients{biquad.Identity()}
	return equalizer{
		first:  biquad.NewMulti(channels, id),
		second: biquad.NewMulti(channels, id),
	}
}

// set installs eq. Sections that stay in use keep their history.
func (e *equalizer) set(eq *runtime.EQ) {
	if eq.Kind < e.kind {
		if eq.Kind < runtime.EQDouble {
			e.second.Reset()
		}
		if eq.Kind < runtime.EQSingle {
			e.first.Reset()
		}
	}

	e.kind = eq.Kind
	e.first.SetSection(0, eq.Sections[0])
	e.second.SetSection(0, eq.Sections[1])
}

func (e *equalizer) process(ch int, x float64) float64 {
	switch e.kind {
	case runtime.EQSingle:
		return e.first.ProcessChannel(ch, x)
	case runtime.EQDouble:
		return e.second.ProcessChannel(ch, e.first.ProcessChannel(ch, x))
	default:
		return x
	}
}

func (e *equalizer) reset() {
	e.first.Reset()
	e.second.Reset()
}
