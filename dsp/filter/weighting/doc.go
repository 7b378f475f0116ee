// Package weighting provides the keying curve of the band detectors as a
// biquad cascade.
//
// The keying curve is a first-order high-pass at 125 Hz, a broad presence
// peak around 2.5 kHz and a first-order low-pass near the top of the audio
// band. It follows the ear's sensitivity closely enough to tell which band
// is perceived as loud. Curves are normalized to 0 dB at 1 kHz.
package weighting
