// Package design provides biquad coefficient designers for the engine:
// RBJ low and high pass sections, and the parametric equalizer section used
// by per-group equalizers and the keying filter.
//
// Low-pass and high-pass cascades (Butterworth, Linkwitz-Riley) live in
// the pass sub-package.
package design
