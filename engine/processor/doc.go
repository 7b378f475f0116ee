// Package processor runs the speaker protection pipeline.
//
// A [Processor] takes one sample per input and writes one sample per output
// channel plus the sub. Per frame it approaches the published parameters,
// applies the input volume matrix and dither, splits every channel into
// bands, derives a gain per band and group from multi-window detection,
// merges the bands, and runs group delay, equalizer and peak limiter on
// every output.
//
// Configuration changes go through [Processor.Apply], which validates and
// resolves off the audio thread and publishes a snapshot without blocking
// the audio thread. Process and ProcessBlock never allocate.
package processor
