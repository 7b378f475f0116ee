package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-speakerman/dsp/core"
	"github.com/cwbudde/algo-speakerman/engine/processor"
	"github.com/cwbudde/algo-speakerman/internal/ui"
	"github.com/cwbudde/algo-speakerman/internal/wavio"
)

const blockSize = 1024

type processCmd struct {
	Config   string `short:"c" type:"existingfile" help:"Configuration file (JSON). Defaults apply when omitted."`
	In       string `short:"i" required:"" type:"existingfile" help:"Input WAV file."`
	Out      string `short:"o" required:"" type:"path" help:"Output WAV file."`
	BitDepth int    `default:"24" help:"Output bit depth: 16, 24 or 32."`
	TUI      bool   `name:"tui" help:"Show progress and levels in a terminal UI."`
}

func (c *processCmd) Run(g *Globals) error {
	switch c.BitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("unsupported bit depth %d", c.BitDepth)
	}

	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	in, err := wavio.Read(c.In)
	if err != nil {
		return err
	}

	proc, err := processor.New(cfg, float64(in.SampleRate))
	if err != nil {
		return err
	}
	if len(in.Channels) != proc.Inputs() {
		return fmt.Errorf("%s has %d channels, the configuration expects %d inputs",
			c.In, len(in.Channels), proc.Inputs())
	}

	g.log.WithFields(logrus.Fields{
		"function":    "Process",
		"input":       c.In,
		"sample_rate": in.SampleRate,
		"frames":      in.Frames(),
		"outputs":     proc.Outputs(),
		"latency":     proc.Latency(),
	}).Info("Processing")

	out := &wavio.Audio{
		SampleRate: in.SampleRate,
		BitDepth:   c.BitDepth,
		Channels:   core.NewFrames(proc.Outputs(), in.Frames()),
	}

	if !c.TUI {
		if err := run(proc, in, out, nil); err != nil {
			return err
		}
		return c.write(g, out)
	}

	// Log lines would break the terminal UI.
	g.log.SetLevel(min(g.log.GetLevel(), logrus.WarnLevel))

	names := make([]string, len(cfg.Groups))
	for i, group := range cfg.Groups {
		names[i] = group.Name
		if names[i] == "" {
			names[i] = fmt.Sprintf("group %d", i+1)
		}
	}
	p := tea.NewProgram(ui.NewModel("speakerman "+c.In, names))
	go func() {
		err := run(proc, in, out, func(msg ui.ProgressMsg) { p.Send(msg) })
		if err == nil {
			err = c.write(g, out)
		}
		p.Send(ui.DoneMsg{Error: err})
	}()

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(ui.Model); ok && m.Err != nil {
		return m.Err
	}
	return nil
}

func (c *processCmd) write(g *Globals, out *wavio.Audio) error {
	start := time.Now()
	if err := wavio.Write(c.Out, out); err != nil {
		return err
	}
	g.log.WithFields(logrus.Fields{
		"function": "Process",
		"output":   c.Out,
		"duration": time.Since(start),
	}).Info("Written")
	return nil
}

// run processes in into out block by block. progress, when set, receives
// the levels of every tenth of a second.
func run(proc *processor.Processor, in, out *wavio.Audio, progress func(ui.ProgressMsg)) error {
	frames := in.Frames()
	period := max(in.SampleRate/10, blockSize)

	inBlock := make([][]float64, len(in.Channels))
	outBlock := make([][]float64, len(out.Channels))
	reported := 0
	for start := 0; start < frames; start += blockSize {
		end := min(start+blockSize, frames)
		for i, ch := range in.Channels {
			inBlock[i] = ch[start:end]
		}
		for o, ch := range out.Channels {
			outBlock[o] = ch[start:end]
		}
		if err := proc.ProcessBlock(inBlock, outBlock).Err(); err != nil {
			return err
		}

		if progress != nil && (end-reported >= period || end == frames) {
			levels, ok := proc.Levels()
			proc.ResetLevels()
			progress(ui.ProgressMsg{
				Progress: float64(end) / float64(frames),
				Frames:   end,
				Levels:   levels,
				HasLevel: ok,
			})
			reported = end
		}
	}
	return nil
}
