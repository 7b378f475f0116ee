// Package transport moves configuration snapshots from the control side to
// the audio thread and level readings back.
//
// The control side publishes immutable [runtime.Data] values with an atomic
// pointer swap. The audio thread owns two working copies, middle and active,
// and moves them one approach step per frame: middle toward the latest
// publication, active toward middle. Neither direction takes a lock.
package transport
