package processor

import "errors"

var (
	// ErrChannelMismatch reports buffers that do not match the configured
	// inputs and outputs.
	ErrChannelMismatch = errors.New("processor: channel count mismatch")
	// ErrTopology reports a configuration that changes group, channel,
	// input or crossover counts. It needs a new Processor.
	ErrTopology = errors.New("processor: topology change needs a restart")
)

// Result reports the outcome of one processing call.
type Result struct {
	OK      bool
	Message string
}

var (
	resultOK       = Result{OK: true}
	resultMismatch = Result{Message: ErrChannelMismatch.Error()}
)

// Err returns nil for a successful result and an error otherwise.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	if r.Message == ErrChannelMismatch.Error() {
		return ErrChannelMismatch
	}
	return errors.New(r.Message)
}
