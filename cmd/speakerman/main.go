// Command speakerman runs the speaker management processor on WAV files,
// inspects configurations and measures crossover responses.
//
// Usage:
//
//	speakerman process --config speakers.json --in in.wav --out out.wav
//	speakerman check --config speakers.json --rate 44100
//	speakerman response --config speakers.json --size 32768
//	speakerman monitor --config speakers.json --seconds 30
package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-speakerman/engine/config"
	"github.com/cwbudde/algo-speakerman/internal/cli"
)

var version = "0.1.0"

// Globals holds the flags shared by all commands.
type Globals struct {
	LogLevel  string `default:"info" enum:"debug,info,warn,error" help:"Log level (${enum})."`
	LogFormat string `default:"text" enum:"text,json" help:"Log format (${enum})."`

	log *logrus.Logger
}

// CLI defines the command-line interface.
type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version information."`

	Process  processCmd  `cmd:"" help:"Process a WAV file."`
	Check    checkCmd    `cmd:"" help:"Validate a configuration and show what it resolves to."`
	Response responseCmd `cmd:"" help:"Measure the crossover response of a configuration."`
	Monitor  monitorCmd  `cmd:"" help:"Run the processor in real time and follow configuration changes."`
}

func newLogger(g *Globals) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(g.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if g.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

// loadConfig reads path, or returns the default configuration when path
// is empty.
func loadConfig(path string) (config.UserConfiguration, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func main() {
	var c CLI
	ctx := kong.Parse(&c,
		kong.Name("speakerman"),
		kong.Description("Speaker management: crossover, protection and limiting"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	c.Globals.log = newLogger(&c.Globals)
	if err := ctx.Run(&c.Globals); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}
