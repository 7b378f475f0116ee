package runtime

import (
	"github.com/cwbudde/algo-speakerman/dsp/filter/biquad"
	"github.com/cwbudde/algo-speakerman/dsp/filter/design"
	"github.com/cwbudde/algo-speakerman/engine/config"
)

// EQKind selects the equalizer path.
type EQKind uint8

const (
	// EQIdentity passes the signal through.
	EQIdentity EQKind = iota
	// EQSingle runs one section.
	EQSingle
	// EQDouble runs two sections.
	EQDouble
)

func (k EQKind) String() string {
	switch k {
	case EQIdentity:
		return "identity"
	case EQSingle:
		return "single"
	case EQDouble:
		return "double"
	default:
		return "unknown"
	}
}

// EQ is a resolved equalizer: a kind and the sections it uses. Unused
// sections are the identity.
type EQ struct {
	Kind     EQKind
	Sections [config.MaxEqualizers]biquad.Coefficients
}

// NewEQ designs the parametric sections of eqs. Flat bands are dropped, so
// a configuration of unity gains resolves to [EQIdentity].
func NewEQ(eqs []config.Equalizer, sampleRate float64) EQ {
	e := EQ{Sections: [config.MaxEqualizers]biquad.Coefficients{biquad.Identity(), biquad.Identity()}}

	n := 0
	for _, eq := range eqs {
		if n == config.MaxEqualizers {
			break
		}
		c := design.Parametric(eq.Center, eq.Gain, eq.Bandwidth, sampleRate)
		if c.IsIdentity() {
			continue
		}
		e.Sections[n] = c
		n++
	}
	e.Kind = EQKind(n)

	return e
}
