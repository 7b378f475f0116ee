package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-speakerman/dsp/dynamics"
	"github.com/cwbudde/algo-speakerman/engine/config"
	"github.com/cwbudde/algo-speakerman/engine/runtime"
	"github.com/cwbudde/algo-speakerman/measure/response"
)

var (
	barOKStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#2DA44E"))
	barOverStyle = lipgloss.NewStyle().Foreground(errorColor)
	barEmpty     = lipgloss.NewStyle().Foreground(lipgloss.Color("#333333"))
)

// LevelBar renders a meter of width cells for a level signal, where 1 is
// the threshold. The bar spans 0 to 2; cells above the threshold mark
// reduction.
func LevelBar(signal float64, width int) string {
	if width < 2 {
		width = 2
	}
	filled := int(math.Round(math.Min(math.Max(signal, 0), 2) / 2 * float64(width)))
	half := width / 2

	var sb strings.Builder
	sb.WriteString(barOKStyle.Render(strings.Repeat("█", min(filled, half))))
	if filled > half {
		sb.WriteString(barOverStyle.Render(strings.Repeat("█", filled-half)))
	}
	sb.WriteString(barEmpty.Render(strings.Repeat("░", width-filled)))

	return sb.String()
}

// PrintLevels prints one meter line for the sub and every group.
func PrintLevels(w io.Writer, cfg *config.UserConfiguration, l *dynamics.Levels, width int) {
	fmt.Fprintf(w, "  %-12s %s %6.3f\n", "sub", LevelBar(l.Signal(0), width), l.Signal(0))
	for g := 1; g <= l.Groups(); g++ {
		name := fmt.Sprintf("group %d", g)
		if g-1 < len(cfg.Groups) && cfg.Groups[g-1].Name != "" {
			name = cfg.Groups[g-1].Name
		}
		fmt.Fprintf(w, "  %-12s %s %6.3f\n", name, LevelBar(l.Signal(g), width), l.Signal(g))
	}
}

// PrintSnapshot prints a configuration and what it resolves to.
func PrintSnapshot(w io.Writer, cfg *config.UserConfiguration, d *runtime.Data) {
	fmt.Fprintln(w, TitleStyle.Render("Configuration"))
	PrintKeyValue(w, "Sample rate", fmt.Sprintf("%.0f Hz", d.SampleRate))
	PrintKeyValue(w, "Groups", fmt.Sprintf("%d x %d channels", d.Groups, d.GroupChannels))
	PrintKeyValue(w, "Inputs", d.Inputs)
	PrintKeyValue(w, "Crossovers", formatHz(d.Crossover.Frequencies()))
	PrintKeyValue(w, "Separate sub", d.SeparateSub)
	PrintKeyValue(w, "Lookahead", d.Lookahead)
	PrintKeyValue(w, "Detection window", fmt.Sprintf("%.3f to %.3f s, %d levels",
		d.Detection.MinWindowSeconds, d.Detection.MaxWindowSeconds, d.Detection.Levels))

	fmt.Fprintln(w, SectionStyle.Render("Sub"))
	PrintKeyValue(w, "Limiter threshold", fmt.Sprintf("%.3f", d.SubLimiterThreshold))
	PrintKeyValue(w, "RMS scale", fmt.Sprintf("%.3f", d.SubRMSScale))
	PrintKeyValue(w, "Delay", fmt.Sprintf("%d samples", d.SubDelay))
	PrintKeyValue(w, "Equalizer", d.SubEQ.Kind)

	for g := range d.Groups {
		name := cfg.Groups[g].Name
		if name == "" {
			name = fmt.Sprintf("Group %d", g+1)
		}
		fmt.Fprintln(w, SectionStyle.Render(name))
		PrintKeyValue(w, "Threshold", fmt.Sprintf("%.3f", cfg.Groups[g].Threshold))
		PrintKeyValue(w, "Limiter threshold", fmt.Sprintf("%.3f", d.LimiterThreshold[g]))
		scales := make([]string, d.Bands())
		for b := range scales {
			scales[b] = fmt.Sprintf("%.2f", d.BandRMSScale[g][b])
		}
		PrintKeyValue(w, "Band RMS scales", strings.Join(scales, " "))
		PrintKeyValue(w, "Wideband scale", fmt.Sprintf("%.2f", d.WidebandScale[g]))
		PrintKeyValue(w, "Delay", fmt.Sprintf("%d samples", d.Delay[g]))
		PrintKeyValue(w, "Routing", routing(d.Mono[g], d.UseSub[g]))
		PrintKeyValue(w, "Equalizer", d.EQ[g].Kind)
	}
}

// PrintResponse prints band magnitudes at the given frequencies and the
// crossover points.
func PrintResponse(w io.Writer, r *response.Result, points []float64) {
	fmt.Fprintln(w, TitleStyle.Render("Crossover response"))
	PrintKeyValue(w, "Crossovers", formatHz(r.Crossovers))
	minDB, maxDB := r.Flatness()
	PrintKeyValue(w, "Sum ripple", fmt.Sprintf("%.2f dB (%.2f to %.2f)", maxDB-minDB, minDB, maxDB))

	fmt.Fprintln(w, SectionStyle.Render("Crossover points"))
	for i, p := range r.CrossoverPoints() {
		PrintKeyValue(w, fmt.Sprintf("Bands %d/%d", i, i+1), fmt.Sprintf("%.1f Hz at %.2f dB", p.Hz, p.DB))
	}

	fmt.Fprintln(w, SectionStyle.Render("Magnitude (dB)"))
	header := fmt.Sprintf("  %10s", "Hz")
	for b := range r.Bands {
		header += fmt.Sprintf(" %8s", fmt.Sprintf("band %d", b))
	}
	header += fmt.Sprintf(" %8s", "sum")
	fmt.Fprintln(w, KeyStyle.Render(header))
	for _, hz := range points {
		line := fmt.Sprintf("  %10.1f", hz)
		for b := range r.Bands {
			line += fmt.Sprintf(" %8.2f", math.Max(r.BandDB(b, hz), -120))
		}
		line += fmt.Sprintf(" %8.2f", r.SumDB(hz))
		fmt.Fprintln(w, line)
	}
}

func routing(mono, useSub bool) string {
	parts := []string{"stereo"}
	if mono {
		parts[0] = "mono"
	}
	if useSub {
		parts = append(parts, "uses sub")
	} else {
		parts = append(parts, "full range")
	}
	return strings.Join(parts, ", ")
}

func formatHz(freqs []float64) string {
	parts := make([]string, len(freqs))
	for i, f := range freqs {
		parts[i] = fmt.Sprintf("%.0f Hz", f)
	}
	return strings.Join(parts, ", ")
}
