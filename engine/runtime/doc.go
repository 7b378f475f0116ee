// Package runtime resolves a user configuration into the parameter snapshot
// the audio thread consumes.
//
// A [Data] holds fixed-capacity arrays only, so copying and approaching it
// never allocates. Its fields fall into two parts: [Continuous] values that
// the audio thread moves smoothly toward a newer snapshot, and [Discrete]
// values (filter coefficients, delays, routing) that are replaced as a
// whole.
package runtime
