// Package pass designs low-pass and high-pass cascades: RBJ second-order
// sections, Butterworth cascades of order 1 to [MaxButterworthOrder] and
// Linkwitz-Riley crossovers built from two identical Butterworth cascades.
//
// Corner frequencies are clamped into the open range (0, Nyquist) instead of
// rejected, so designers can be called with any configured value. An invalid
// order or a non-positive sample rate is a programming error and panics.
package pass
