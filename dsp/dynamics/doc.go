// Package dynamics provides the level detection and gain stages of a
// multi-band speaker protector.
//
// The central type is [Detector]. It keeps up to [MaxLevels] true moving
// averages of a squared signal over one shared power-of-two history
// ([WindowSet]), takes their maximum and smooths it with a hold, attack
// and release [Follower]. Window lengths run geometrically from a
// millisecond peak scale through the 400 ms perceptive window to the
// biggest window, as laid out by [Metrics]. Shorter windows are weighted
// down so that brief peaks count less than sustained loudness.
//
// All values are normalized to the threshold: a detection of 1 is exactly
// at threshold and [Gain] returns 1 for every detection at or below it.
//
// [Limiter] is a zero-latency peak limiter with instant attack and
// double-integrated release. [Levels] accumulates per-group detections for
// meters.
//
// Configuration (constructors, Configure, SetSampleRate) may allocate and
// return errors. The per-sample methods never allocate, never fail and
// never panic.
package dynamics
