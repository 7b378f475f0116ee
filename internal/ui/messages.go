package ui

import "github.com/cwbudde/algo-speakerman/dsp/dynamics"

// ProgressMsg reports processing progress and the levels of the last
// period.
type ProgressMsg struct {
	Progress float64 // 0.0 to 1.0
	Frames   int
	Levels   dynamics.Levels
	HasLevel bool
}

// DoneMsg ends processing.
type DoneMsg struct {
	Error error
}
