package processor

import (
	"math"

	"github.com/cwbudde/algo-speakerman/dsp/dynamics"
	"github.com/cwbudde/algo-speakerman/engine/config"
	"github.com/cwbudde/algo-speakerman/engine/runtime"
)

// Process runs one frame. in holds one sample per input; out receives the
// sub followed by every group channel. Levels are published after the
// frame.
func (p *Processor) Process(in, out []float64) Result {
	if len(in) != p.inputs || len(out) != p.channels+1 {
		return resultMismatch
	}

	if p.transport.TakeLevelsReset() {
		p.levels.Reset()
	}
	p.processFrame(in, out)
	p.transport.PublishLevels(&p.levels)

	return resultOK
}

// ProcessBlock runs a block. in[i] holds the samples of input i and
// out[o] receives output o, laid out as for Process. All buffers must have
// the length of in[0]. Levels are published after the block.
func (p *Processor) ProcessBlock(in, out [][]float64) Result {
	if len(in) != p.inputs || len(out) != p.channels+1 {
		return resultMismatch
	}
	frames := len(in[0])
	for _, buf := range in {
		if len(buf) != frames {
			return resultMismatch
		}
	}
	for _, buf := range out {
		if len(buf) != frames {
			return resultMismatch
		}
	}

	if p.transport.TakeLevelsReset() {
		p.levels.Reset()
	}
	for n := range frames {
		for i, buf := range in {
			p.inFrame[i] = buf[n]
		}
		p.processFrame(p.inFrame, p.outFrame)
		for o, buf := range out {
			buf[n] = p.outFrame[o]
		}
	}
	p.transport.PublishLevels(&p.levels)

	return resultOK
}

func (p *pipeline) processFrame(in, out []float64) {
	d, changed := p.transport.Step()
	if changed {
		p.applyDiscrete(d)
	}

	p.condition(d, in)
	p.bank.ProcessFrame(p.frame, p.split)

	sub := p.detectSub(d)
	p.detectGroups(d)
	p.merge(d, sub)
	p.finish(d, sub, out)

	p.levels.Next()
}

// condition applies the volume matrix and adds dither.
func (p *pipeline) condition(d *runtime.Data, in []float64) {
	noise := p.noise.Next() * d.NoiseScale

	gch := p.groupChannels
	for g := range p.groups {
		vol := &d.Volume[g]
		for c := range gch {
			x := noise
			for i := c; i < p.inputs; i += gch {
				x += vol[i] * in[i]
			}
			p.frame[g*gch+c] = x
		}
	}
}

// detectSub detects the sum of the lowest band over all channels and
// returns the delayed, gain-reduced sub signal.
func (p *pipeline) detectSub(d *runtime.Data) float64 {
	sub := 0.0
	for _, x := range p.split[0] {
		sub += x
	}

	x := sub * d.SubRMSScale
	detection := p.subDetector.Detect(x * x)
	gain := p.subGain.Next(dynamics.Gain(detection))
	p.levels.Add(0, detection)

	return p.bandDelay.ProcessChannel(0, sub) * gain
}

// detectGroups keys every upper band per channel, detects the square sum
// over the channels of a group and replaces the band with its delayed,
// gain-reduced signal. The keyed sum over all upper bands raises each band
// detection to the wideband detection.
func (p *pipeline) detectGroups(d *runtime.Data) {
	gch := p.groupChannels
	var detections [config.MaxBands]float64

	for g := range p.groups {
		first := g * gch
		keyed := p.keyed[first : first+gch]
		clear(keyed)

		for b := 1; b < p.bands; b++ {
			scale := d.BandRMSScale[g][b]
			sum := 0.0
			for c := range gch {
				ch := first + c
				k := p.keying.ProcessChannel((b-1)*p.channels+ch, p.split[b][ch])
				keyed[c] += k
				v := k * scale
				sum += v * v
			}
			detections[b] = p.bandDetectors[g][b].Detect(sum)
		}

		sum := 0.0
		for _, k := range keyed {
			v := k * d.WidebandScale[g]
			sum += v * v
		}
		wide := p.wideband[g].Detect(sum)

		level := 0.0
		for b := 1; b < p.bands; b++ {
			detection := math.Max(detections[b], wide)
			level = math.Max(level, detection)

			gain := p.bandGain[g][b].Next(dynamics.Gain(detection))
			row := p.split[b]
			for c := range gch {
				ch := first + c
				row[ch] = p.bandDelay.ProcessChannel(1+(b-1)*p.channels+ch, row[ch]) * gain
			}
		}
		p.levels.Add(1+g, level)
	}
}

// merge sums the upper bands per channel, averages mono groups and adds
// the sub to groups that do not use it.
func (p *pipeline) merge(d *runtime.Data, sub float64) {
	gch := p.groupChannels
	share := 1 / float64(gch)

	for ch := range p.merged {
		x := 0.0
		for b := 1; b < p.bands; b++ {
			x += p.split[b][ch]
		}
		p.merged[ch] = x
	}

	for g := range p.groups {
		channels := p.merged[g*gch : (g+1)*gch]
		if d.Mono[g] {
			avg := 0.0
			for _, x := range channels {
				avg += x
			}
			avg *= share
			for c := range channels {
				channels[c] = avg
			}
		}
		if !d.UseSub[g] {
			for c := range channels {
				channels[c] += sub * share
			}
		}
	}
}

// finish runs delay, equalizer and limiter on every output and routes the
// sub.
func (p *pipeline) finish(d *runtime.Data, sub float64, out []float64) {
	gch := p.groupChannels

	for g := range p.groups {
		peak := 0.0
		for c := range gch {
			ch := g*gch + c
			x := p.outDelay.ProcessChannel(1+ch, p.merged[ch])
			x = p.eq[g].process(c, x)
			peak = math.Max(peak, math.Abs(x))
			out[1+ch] = p.predict.ProcessChannel(1+ch, x)
		}

		lim := p.limiters[g]
		lim.SetThreshold(d.LimiterThreshold[g])
		gain := lim.Gain(peak)
		for c := range gch {
			out[1+g*gch+c] *= gain
		}
	}

	x := p.outDelay.ProcessChannel(0, sub)
	x = p.subEQ.process(0, x)
	p.subLimiter.SetThreshold(d.SubLimiterThreshold)
	gain := p.subLimiter.Gain(x)
	out[0] = p.predict.ProcessChannel(0, x) * gain

	if !p.separateSub {
		// Groups without the sub already carry it from merge.
		n := 0
		for g := range p.groups {
			if d.UseSub[g] {
				n += gch
			}
		}
		if n > 0 {
			spread := out[0] / math.Sqrt(float64(n))
			for g := range p.groups {
				if !d.UseSub[g] {
					continue
				}
				for c := range gch {
					out[1+g*gch+c] += spread
				}
			}
		}
		out[0] = 0
	}
}
