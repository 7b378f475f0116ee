package main

import (
	"os"

	"github.com/cwbudde/algo-speakerman/engine/runtime"
	"github.com/cwbudde/algo-speakerman/internal/cli"
)

type checkCmd struct {
	Config string  `short:"c" type:"existingfile" help:"Configuration file (JSON). Defaults apply when omitted."`
	Rate   float64 `short:"r" default:"48000" help:"Sample rate to resolve for."`
}

func (c *checkCmd) Run(g *Globals) error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	d, err := runtime.Resolve(&cfg, c.Rate, nil)
	if err != nil {
		return err
	}
	cli.PrintSnapshot(os.Stdout, &cfg, d)
	return nil
}
