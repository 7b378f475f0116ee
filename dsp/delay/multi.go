package delay

import "fmt"

// Multi delays every channel of a frame by its own number of samples.
// Delays can change at run time up to the capacity given at construction.
type Multi struct {
	lines    []*Line
	delays   []int
	maxDelay int
}

// NewMulti creates delays for channels channels, each up to maxDelay
// samples. All delays start at zero.
func NewMulti(channels, maxDelay int) (*Multi, error) {
	if channels < 1 {
		return nil, fmt.Errorf("delay channel count must be > 0: %d", channels)
	}
	if maxDelay < 0 {
		return nil, fmt.Errorf("delay maximum must be >= 0: %d", maxDelay)
	}

	m := &Multi{
		lines:    make([]*Line, channels),
		delays:   make([]int, channels),
		maxDelay: maxDelay,
	}
	for i := range m.lines {
		l, err := New(maxDelay + 1)
		if err != nil {
			return nil, err
		}
		m.lines[i] = l
	}
	return m, nil
}

// Channels returns the channel count.
func (m *Multi) Channels() int { return len(m.lines) }

// MaxDelay returns the largest delay a channel accepts.
func (m *Multi) MaxDelay() int { return m.maxDelay }

// Delay returns the delay of channel ch in samples.
func (m *Multi) Delay(ch int) int { return m.delays[ch] }

// SetDelay sets the delay of channel ch, clamped into [0, MaxDelay].
func (m *Multi) SetDelay(ch, samples int) {
	m.delays[ch] = min(max(samples, 0), m.maxDelay)
}

// ProcessChannel delays one sample of channel ch.
func (m *Multi) ProcessChannel(ch int, x float64) float64 {
	return m.lines[ch].Process(x, m.delays[ch])
}

// ProcessFrame delays frame in place, one sample per channel.
func (m *Multi) ProcessFrame(frame []float64) {
	for ch := range min(len(frame), len(m.lines)) {
		frame[ch] = m.lines[ch].Process(frame[ch], m.delays[ch])
	}
}

// Reset clears all lines but keeps the delays.
func (m *Multi) Reset() {
	for _, l := range m.lines {
		l.Reset()
	}
}
