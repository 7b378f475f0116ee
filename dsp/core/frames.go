package core

// Frames is a channel-major block of samples: Frames[channel][frame].
type Frames [][]float64

// NewFrames allocates a zeroed block with one contiguous backing array.
func NewFrames(channels, frames int) Frames {
	if channels <= 0 {
		return nil
	}

	if frames < 0 {
		frames = 0
	}

	backing := make([]float64, channels*frames)
	out := make(Frames, channels)
	for ch := range out {
		out[ch] = backing[ch*frames : (ch+1)*frames : (ch+1)*frames]
	}

	return out
}

// Channels returns the channel count.
func (f Frames) Channels() int { return len(f) }

// Len returns the frame count of the first channel, or 0 when empty.
func (f Frames) Len() int {
	if len(f) == 0 {
		return 0
	}

	return len(f[0])
}
