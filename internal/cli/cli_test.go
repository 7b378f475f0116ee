package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-speakerman/dsp/dynamics"
	"github.com/cwbudde/algo-speakerman/engine/config"
	"github.com/cwbudde/algo-speakerman/engine/runtime"
	"github.com/cwbudde/algo-speakerman/measure/response"
)

func TestLevelBarWidth(t *testing.T) {
	for _, signal := range []float64{-1, 0, 0.5, 1, 1.7, 5} {
		if got := lipgloss.Width(LevelBar(signal, 20)); got != 20 {
			t.Fatalf("signal %v: width %d", signal, got)
		}
	}
}

func TestPrintSnapshot(t *testing.T) {
	cfg := config.Default()
	cfg.Groups[0].Name = "mains"
	d, err := runtime.Resolve(&cfg, 48000, nil)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	PrintSnapshot(&buf, &cfg, d)
	out := buf.String()
	for _, want := range []string{"mains", "80 Hz, 120 Hz", "48000 Hz", "uses sub"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in\n%s", want, out)
		}
	}
}

func TestPrintResponseAndLevels(t *testing.T) {
	r, err := response.Measure([]float64{1000}, 48000, 4096)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	PrintResponse(&buf, r, []float64{100, 1000, 10000})
	if !strings.Contains(buf.String(), "Bands 0/1") {
		t.Fatalf("missing crossover point in\n%s", buf.String())
	}

	cfg := config.Default()
	l := dynamics.NewLevels(1)
	l.Add(1, 4)
	buf.Reset()
	PrintLevels(&buf, &cfg, &l, 10)
	if !strings.Contains(buf.String(), "group 1") || !strings.Contains(buf.String(), "2.000") {
		t.Fatalf("unexpected levels\n%s", buf.String())
	}
}
