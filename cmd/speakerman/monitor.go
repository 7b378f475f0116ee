package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-speakerman/dsp/core"
	dspsignal "github.com/cwbudde/algo-speakerman/dsp/signal"
	"github.com/cwbudde/algo-speakerman/engine/control"
	"github.com/cwbudde/algo-speakerman/engine/processor"
	"github.com/cwbudde/algo-speakerman/internal/wavio"
)

type monitorCmd struct {
	Config   string        `short:"c" required:"" type:"existingfile" help:"Configuration file (JSON), reloaded when it changes."`
	In       string        `short:"i" type:"existingfile" help:"WAV file to loop. Pink noise is used when omitted."`
	Rate     float64       `short:"r" default:"48000" help:"Sample rate for pink noise."`
	Level    float64       `default:"0.25" help:"Pink noise amplitude."`
	Seconds  float64       `default:"0" help:"Run time in seconds, 0 runs until interrupted."`
	Interval time.Duration `default:"1s" help:"Level logging interval."`
}

// source produces blocks of input frames.
type source interface {
	fill(block [][]float64)
}

type loopSource struct {
	audio *wavio.Audio
	pos   int
}

func (s *loopSource) fill(block [][]float64) {
	frames := s.audio.Frames()
	for n := range block[0] {
		for i, ch := range s.audio.Channels {
			block[i][n] = ch[s.pos]
		}
		s.pos = (s.pos + 1) % frames
	}
}

type noiseSource struct {
	noise []*dspsignal.PinkNoise
}

func (s *noiseSource) fill(block [][]float64) {
	for i, buf := range block {
		s.noise[i].Fill(buf)
	}
}

func (c *monitorCmd) Run(g *Globals) error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}

	rate := c.Rate
	var in *wavio.Audio
	if c.In != "" {
		if in, err = wavio.Read(c.In); err != nil {
			return err
		}
		if in.Frames() == 0 {
			return errors.New("monitor: input has no samples")
		}
		rate = float64(in.SampleRate)
	}

	proc, err := processor.New(cfg, rate)
	if err != nil {
		return err
	}

	var src source
	if in != nil {
		if len(in.Channels) != proc.Inputs() {
			return fmt.Errorf("monitor: %s has %d channels, the configuration expects %d inputs",
				c.In, len(in.Channels), proc.Inputs())
		}
		src = &loopSource{audio: in}
	} else {
		noise := make([]*dspsignal.PinkNoise, proc.Inputs())
		for i := range noise {
			noise[i], err = dspsignal.NewPinkNoise(rate, c.Level, dspsignal.WithPinkSeed(int64(i+1)))
			if err != nil {
				return err
			}
		}
		src = &noiseSource{noise: noise}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	var cancel context.CancelFunc
	if c.Seconds > 0 {
		ctx, cancel = context.WithTimeout(ctx, time.Duration(c.Seconds*float64(time.Second)))
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	m := control.NewManager(proc, control.WithLogger(g.log))
	w := control.NewWatcher(m, c.Config, 0)
	watchErr := make(chan error, 1)
	go func() { watchErr <- w.Run(ctx) }()

	g.log.WithFields(logrus.Fields{
		"function":    "Monitor",
		"config":      c.Config,
		"sample_rate": rate,
		"inputs":      proc.Inputs(),
		"outputs":     proc.Outputs(),
	}).Info("Monitoring")

	err = pace(ctx, proc, src, m, c.Interval)
	cancel()
	if werr := <-watchErr; werr != nil && err == nil {
		err = werr
	}

	applied, rejected := m.Stats()
	g.log.WithFields(logrus.Fields{
		"function": "Monitor",
		"applied":  applied,
		"rejected": rejected,
	}).Info("Stopped")

	return err
}

// pace processes one block per block period until ctx is done and logs
// levels every interval.
func pace(ctx context.Context, proc *processor.Processor, src source, m *control.Manager, interval time.Duration) error {
	in := core.NewFrames(proc.Inputs(), blockSize)
	out := core.NewFrames(proc.Outputs(), blockSize)

	period := time.Duration(float64(blockSize) / proc.SampleRate() * float64(time.Second))
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	report := time.NewTicker(max(interval, period))
	defer report.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-report.C:
			m.LogLevels()
		case <-ticker.C:
			src.fill(in)
			if err := proc.ProcessBlock(in, out).Err(); err != nil {
				return err
			}
		}
	}
}
