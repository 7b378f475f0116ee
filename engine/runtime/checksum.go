package runtime

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"math"
)

type folder struct {
	h   hash.Hash64
	buf [8]byte
}

func newFolder() *folder { return &folder{h: fnv.New64a()} }

func (f *folder) putUint(v uint64) {
	binary.LittleEndian.PutUint64(f.buf[:], v)
	f.h.Write(f.buf[:])
}

func (f *folder) putInt(v int) { f.putUint(uint64(v)) }

func (f *folder) putFloat(v float64) { f.putUint(math.Float64bits(v)) }

func (f *folder) putBool(v bool) {
	if v {
		f.putUint(1)
	} else {
		f.putUint(0)
	}
}

func (f *folder) eq(e *EQ) {
	f.putUint(uint64(e.Kind))
	for _, c := range e.Sections {
		f.putFloat(c.B0)
		f.putFloat(c.B1)
		f.putFloat(c.B2)
		f.putFloat(c.A1)
		f.putFloat(c.A2)
	}
}

func (f *folder) discrete(d *Discrete) {
	f.putFloat(d.SampleRate)
	f.putInt(d.Groups)
	f.putInt(d.GroupChannels)
	f.putInt(d.Inputs)
	f.putInt(d.Crossover.Count)
	for i := range d.Crossover.Count {
		f.putFloat(d.Crossover.Hz[i])
	}
	for g := range d.Groups {
		f.putInt(d.Delay[g])
		f.putBool(d.UseSub[g])
		f.putBool(d.Mono[g])
		f.eq(&d.EQ[g])
	}
	f.putInt(d.SubDelay)
	f.eq(&d.SubEQ)
	f.putBool(d.SeparateSub)
	f.putBool(d.Lookahead)
	f.putFloat(d.Detection.MaxWindowSeconds)
	f.putFloat(d.Detection.MinWindowSeconds)
	f.putInt(d.Detection.Levels)
	f.putFloat(d.Detection.ReleaseSeconds)
}

func (f *folder) continuous(c *Continuous, d *Discrete) {
	for g := range d.Groups {
		for i := range d.Inputs {
			f.putFloat(c.Volume[g][i])
		}
		for b := range d.Bands() {
			f.putFloat(c.BandRMSScale[g][b])
		}
		f.putFloat(c.WidebandScale[g])
		f.putFloat(c.LimiterThreshold[g])
	}
	f.putFloat(c.SubRMSScale)
	f.putFloat(c.SubLimiterThreshold)
	f.putFloat(c.NoiseScale)
}

// DiscreteChecksum folds every discrete field into an FNV-1a hash.
func (d *Data) DiscreteChecksum() uint64 {
	f := newFolder()
	f.discrete(&d.Discrete)
	return f.h.Sum64()
}

// Checksum folds every field in use into an FNV-1a hash.
func (d *Data) Checksum() uint64 {
	f := newFolder()
	f.discrete(&d.Discrete)
	f.continuous(&d.Continuous, &d.Discrete)
	return f.h.Sum64()
}
