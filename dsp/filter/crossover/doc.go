// Package crossover splits multi-channel audio into frequency bands with
// Linkwitz-Riley (LR4) crossovers.
//
// Every crossover applies the same second-order Butterworth low-pass twice
// and the same second-order Butterworth high-pass twice to its input. A
// [Bank] wires one to three crossovers through a static [Plan] so the
// per-frame loop walks a precomputed table instead of branching on the
// crossover count.
//
// Frequencies are checked once, at configure time, by [ValidateFrequencies].
// Processing never fails.
//
// Example:
//
//	bank, err := crossover.NewBank([]float64{160, 4500}, 4, 48000)
//	if err != nil {
//		return err
//	}
//	bank.ProcessFrame(in, bands) // bands[band][channel]
package crossover
