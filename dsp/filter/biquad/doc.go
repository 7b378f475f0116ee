// Package biquad provides second-order IIR filter runtime primitives.
//
// Coefficients and filter history are separate values. A [Coefficients] set
// describes one second-order section and is shared read-only; a [History]
// holds the transposed direct form II state of one channel. [Section] pairs
// the two for single-channel use, [Chain] cascades sections, and [Multi]
// runs one shared cascade over many channels with a private history per
// channel.
//
// Coefficient design (Butterworth, parametric, shelving) lives in
// dsp/filter/design.
package biquad
