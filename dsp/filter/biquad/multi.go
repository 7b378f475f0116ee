package biquad

import "fmt"

// Multi runs one cascade of shared coefficients over a fixed number of
// channels. Every channel owns a private history per section, allocated at
// construction, so processing never allocates.
type Multi struct {
	coeffs   []Coefficients
	gain     float64
	channels int
	history  []History // channel-major: history[ch*len(coeffs)+section]
}

// NewMulti creates a multi-channel cascade. It panics when channels < 1,
// which is a sizing error in the caller.
func NewMulti(channels int, coeffs []Coefficients, opts ...ChainOption) *Multi {
	if channels < 1 {
		panic(fmt.Sprintf("biquad: channel count must be positive, got %d", channels))
	}

	cfg := applyChainOptions(opts)
	m := &Multi{
		coeffs:   append([]Coefficients(nil), coeffs...),
		gain:     cfg.gain,
		channels: channels,
		history:  make([]History, channels*len(coeffs)),
	}

	return m
}

// Channels returns the number of channels with private history.
func (m *Multi) Channels() int { return m.channels }

// NumSections returns the number of cascaded sections.
func (m *Multi) NumSections() int { return len(m.coeffs) }

// Order returns the filter order (2 per section). The history of each
// channel holds exactly Order values.
func (m *Multi) Order() int { return 2 * len(m.coeffs) }

// Gain returns the input gain.
func (m *Multi) Gain() float64 { return m.gain }

// Coefficients returns the shared coefficients. The slice must not be modified.
func (m *Multi) Coefficients() []Coefficients { return m.coeffs }

// ProcessChannel filters one sample of channel ch.
func (m *Multi) ProcessChannel(ch int, x float64) float64 {
	n := len(m.coeffs)
	h := m.history[ch*n : ch*n+n]

	x *= m.gain
	for i := range h {
		x = h[i].Process(&m.coeffs[i], x)
	}

	return x
}

// ProcessFrame filters frame in place, one sample per channel. Frames shorter
// than Channels leave the remaining histories untouched.
func (m *Multi) ProcessFrame(frame []float64) {
	n := len(m.coeffs)
	if len(frame) > m.channels {
		frame = frame[:m.channels]
	}

	for ch, x := range frame {
		h := m.history[ch*n : ch*n+n]
		x *= m.gain
		for i := range h {
			x = h[i].Process(&m.coeffs[i], x)
		}
		frame[ch] = x
	}
}

// ProcessBlock filters a block of channel ch in place using the block kernel.
func (m *Multi) ProcessBlock(ch int, buf []float64) {
	if m.gain != 1 {
		for i, x := range buf {
			buf[i] = x * m.gain
		}
	}

	n := len(m.coeffs)
	h := m.history[ch*n : ch*n+n]
	for i := range h {
		processBlock(&m.coeffs[i], &h[i], buf)
	}
}

// SetCoefficients replaces the shared coefficients and gain. When the section
// count matches, histories are kept so the output stays continuous; otherwise
// histories are reallocated and cleared. Only the first case is safe on a
// real-time thread.
func (m *Multi) SetCoefficients(coeffs []Coefficients, gain float64) {
	m.gain = gain
	if len(coeffs) == len(m.coeffs) {
		copy(m.coeffs, coeffs)
		return
	}

	m.coeffs = append([]Coefficients(nil), coeffs...)
	m.history = make([]History, m.channels*len(coeffs))
}

// SetSection replaces the coefficients of section i, keeping all histories.
// It never allocates.
func (m *Multi) SetSection(i int, c Coefficients) {
	m.coeffs[i] = c
}

// Reset clears the history of every channel.
func (m *Multi) Reset() {
	for i := range m.history {
		m.history[i].Reset()
	}
}

// ResetChannel clears the history of channel ch.
func (m *Multi) ResetChannel(ch int) {
	n := len(m.coeffs)
	for i := ch * n; i < ch*n+n; i++ {
		m.history[i].Reset()
	}
}
