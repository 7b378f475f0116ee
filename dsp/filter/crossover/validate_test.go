package crossover

import (
	"errors"
	"math"
	"testing"
)

func TestValidateFrequencies(t *testing.T) {
	tests := []struct {
		name    string
		freqs   []float64
		rate    float64
		want    []float64
		wantErr error
	}{
		{name: "two bands in range", freqs: []float64{160, 4500}, rate: 48000, want: []float64{160, 4500}},
		{name: "raise to minimum", freqs: []float64{10, 100}, rate: 48000, want: []float64{40, 100}},
		{name: "clamp to ceiling", freqs: []float64{20000}, rate: 48000, want: []float64{16000}},
		{name: "low rate ceiling", freqs: []float64{20000}, rate: 32000, want: []float64{10000}},
		{name: "exact spacing", freqs: []float64{80, 120, 180}, rate: 48000, want: []float64{80, 120, 180}},
		{name: "too close", freqs: []float64{100, 140}, rate: 48000, wantErr: ErrSpacing},
		{name: "decreasing", freqs: []float64{4500, 160}, rate: 48000, wantErr: ErrSpacing},
		{name: "too close after clamping", freqs: []float64{8000, 12000, 18000}, rate: 48000, wantErr: ErrSpacing},
		{name: "none", freqs: nil, rate: 48000, wantErr: ErrCrossoverCount},
		{name: "four", freqs: []float64{50, 100, 200, 400}, rate: 48000, wantErr: ErrCrossoverCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateFrequencies(tt.freqs, MaxFrequencyFor(tt.rate))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestValidateFrequenciesRejectsNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := ValidateFrequencies([]float64{f}, MaxFrequency); err == nil {
			t.Errorf("no error for %v", f)
		}
	}
}

func TestValidateFrequenciesDoesNotModifyInput(t *testing.T) {
	in := []float64{10, 100}
	if _, err := ValidateFrequencies(in, MaxFrequency); err != nil {
		t.Fatal(err)
	}
	if in[0] != 10 {
		t.Fatalf("input modified: %v", in)
	}
}

func TestMaxFrequencyFor(t *testing.T) {
	if got := MaxFrequencyFor(44100); got != MaxFrequency {
		t.Errorf("44.1 kHz: %v", got)
	}
	if got := MaxFrequencyFor(22050); got != MaxFrequencyLowRate {
		t.Errorf("22.05 kHz: %v", got)
	}
}
