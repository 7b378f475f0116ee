package config

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-speakerman/dsp/dynamics"
	"github.com/cwbudde/algo-speakerman/dsp/filter/crossover"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration: %v", err)
	}
	if cfg.Channels() != 2 || cfg.Outputs() != 3 || !cfg.SeparateSub() {
		t.Fatalf("channels %d outputs %d separate %v", cfg.Channels(), cfg.Outputs(), cfg.SeparateSub())
	}
}

func TestThresholdRange(t *testing.T) {
	for _, tc := range []struct {
		threshold float64
		valid     bool
	}{
		{0.005, false},
		{MinThreshold, true},
		{0.5, true},
		{1.0, true},
		{1.01, false},
		{math.NaN(), false},
	} {
		cfg := Default()
		cfg.Groups[0].Threshold = tc.threshold
		if err := cfg.Validate(); (err == nil) != tc.valid {
			t.Errorf("threshold %v: valid=%v, err=%v", tc.threshold, tc.valid, err)
		}
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	cfg := Default()
	cfg.Groups[0].Threshold = 2
	cfg.Groups[0].Delay = -1
	cfg.Groups[0].Volume = []float64{1, 25}
	cfg.RelativeSubThreshold = 0.1
	cfg.ThresholdScaling = math.NaN()

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	for _, path := range []string{
		"groups[0].threshold",
		"groups[0].delay",
		"groups[0].volume[1]",
		"relative_sub_threshold",
		"threshold_scaling",
	} {
		if !strings.Contains(err.Error(), path) {
			t.Errorf("error does not mention %s: %v", path, err)
		}
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*UserConfiguration)
		is     error
	}{
		{"no groups", func(c *UserConfiguration) { c.Groups = nil }, nil},
		{"too many groups", func(c *UserConfiguration) {
			for range MaxGroups {
				c.Groups = append(c.Groups, DefaultGroup())
			}
		}, nil},
		{"too many channels", func(c *UserConfiguration) {
			c.GroupChannels = 8
			c.Groups = append(c.Groups, DefaultGroup(), DefaultGroup())
		}, nil},
		{"volume longer than inputs", func(c *UserConfiguration) {
			c.Groups[0].Volume = []float64{1, 1, 1}
		}, nil},
		{"three equalizers", func(c *UserConfiguration) {
			c.Groups[0].Equalizers = []Equalizer{DefaultEqualizer(), DefaultEqualizer(), DefaultEqualizer()}
		}, nil},
		{"equalizer gain", func(c *UserConfiguration) {
			c.SubEqualizers = []Equalizer{{Center: 100, Gain: 20, Bandwidth: 1}}
		}, nil},
		{"frequency count", func(c *UserConfiguration) { c.CrossoverFrequencies = []float64{80} }, nil},
		{"spacing", func(c *UserConfiguration) {
			c.CrossoverFrequencies = []float64{100, 120}
		}, crossover.ErrSpacing},
		{"too many levels", func(c *UserConfiguration) {
			c.Detection.PerceptiveLevels = 40
		}, dynamics.ErrTooManyLevels},
		{"sub output", func(c *UserConfiguration) { c.SubOutput = -1 }, nil},
		{"missing release", func(c *UserConfiguration) { c.Detection.RMSFastReleaseSeconds = 0 }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Fatalf("expected %v in %v", tt.is, err)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	cfg := Default()
	cfg.SubEqualizers = []Equalizer{DefaultEqualizer()}
	clone := cfg.Clone()

	clone.Groups[0].Volume[0] = 5
	clone.CrossoverFrequencies[0] = 60
	clone.SubEqualizers[0].Gain = 2

	if cfg.Groups[0].Volume[0] != DefaultVolume ||
		cfg.CrossoverFrequencies[0] != 80 ||
		cfg.SubEqualizers[0].Gain != 1 {
		t.Fatal("clone shares memory with the original")
	}
}

func TestSameTopology(t *testing.T) {
	a := Default()
	b := a.Clone()
	b.Groups[0].Threshold = 0.3
	if !a.SameTopology(&b) {
		t.Fatal("threshold change altered topology")
	}
	b.Crossovers = 3
	if a.SameTopology(&b) {
		t.Fatal("crossover count change kept topology")
	}
}

func TestParseStartsFromDefaults(t *testing.T) {
	doc := `{
		"groups": [
			{"threshold": 0.2, "volume": [1, 0, 0, 0]},
			{"threshold": 0.3, "volume": [0, 0, 1, 1], "mono": true,
			 "equalizers": [{"center": 60, "gain": 2}]}
		],
		"inputs": 4,
		"crossovers": 3
	}`

	cfg, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Groups) != 2 || cfg.Groups[1].Threshold != 0.3 || !cfg.Groups[1].Mono {
		t.Fatalf("groups not decoded: %+v", cfg.Groups)
	}
	if !cfg.Groups[0].UseSub || !cfg.Groups[1].UseSub {
		t.Fatal("group defaults not applied")
	}
	if eq := cfg.Groups[1].Equalizers[0]; eq.Bandwidth != 1 || eq.Center != 60 {
		t.Fatalf("equalizer defaults not applied: %+v", eq)
	}
	if got := cfg.CrossoverFrequencies; len(got) != 3 || got[2] != 2500 {
		t.Fatalf("crossover frequencies %v", got)
	}
	if cfg.Detection.PerceptiveLevels != dynamics.DefaultLevels {
		t.Fatalf("detection defaults lost: %+v", cfg.Detection)
	}
}

func TestParseRejects(t *testing.T) {
	for name, doc := range map[string]string{
		"unknown field": `{"bogus": 1}`,
		"syntax":        `{"groups": [}`,
		"invalid value": `{"threshold_scaling": 9}`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Groups[0].Equalizers = []Equalizer{{Center: 50, Gain: 0.5, Bandwidth: 2}}
	cfg.GenerateNoise = true

	var buf bytes.Buffer
	if err := cfg.Save(&buf); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "speakerman.json")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Groups[0].Equalizers[0] != cfg.Groups[0].Equalizers[0] || !got.GenerateNoise {
		t.Fatalf("round trip lost data: %+v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error")
	}
}
