// Package response measures the magnitude response of a crossover bank.
//
// An impulse is split by a [crossover.Bank]; the impulse response of every
// band is transformed with an FFT and reduced to magnitudes. The complex sum
// of all bands shows how well the bank reconstructs its input.
package response
