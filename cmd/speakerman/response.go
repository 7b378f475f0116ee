package main

import (
	"os"

	"github.com/cwbudde/algo-speakerman/internal/cli"
	"github.com/cwbudde/algo-speakerman/measure/response"
)

type responseCmd struct {
	Config string    `short:"c" type:"existingfile" help:"Configuration file (JSON). Defaults apply when omitted."`
	Rate   float64   `short:"r" default:"48000" help:"Sample rate."`
	Size   int       `default:"16384" help:"Impulse response length, a power of two."`
	Points []float64 `default:"31.25,62.5,125,250,500,1000,2000,4000,8000,16000" help:"Frequencies to list."`
}

func (c *responseCmd) Run(g *Globals) error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	r, err := response.Measure(cfg.CrossoverFrequencies, c.Rate, c.Size)
	if err != nil {
		return err
	}
	cli.PrintResponse(os.Stdout, r, c.Points)
	return nil
}
