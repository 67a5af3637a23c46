package kcs

import "fmt"

// SquareCycle returns one square-wave cycle of the given frequency as
// unsigned 8-bit samples: n samples at center - amplitude/2 followed by n at
// center + amplitude/2, where n = sampleRate/freq/2 (truncating division).
// The result is deterministic for identical inputs. An empty half-cycle
// (frequency too high for the sample rate) yields [ErrZeroHalfCycle].
func SquareCycle(freq, sampleRate, amplitude, center int) ([]byte, error) {
	n := sampleRate / freq / 2
	if n == 0 {
		return nil, fmt.Errorf("%d Hz at %d Hz sample rate: %w", freq, sampleRate, ErrZeroHalfCycle)
	}
	low := byte(center - amplitude/2)
	high := byte(center + amplitude/2)
	cycle := make([]byte, 2*n)
	for i := range n {
		cycle[i] = low
		cycle[n+i] = high
	}
	return cycle, nil
}

// Pulses holds the two cached waveform cycles used for every bit of a run.
// They are built once by [NewPulses] and never mutated afterwards; callers
// must not modify the slices.
type Pulses struct {
	// One is the single cycle representing a 1 bit.
	One []byte

	// Zero is the single cycle representing a 0 bit.
	Zero []byte
}

// NewPulses builds the 1-bit and 0-bit cycles for p. The two slices are the
// only waveforms ever emitted; every bit of every frame reuses them.
func NewPulses(p Params) (*Pulses, error) {
	one, err := SquareCycle(p.OneFreq, p.SampleRate, p.Amplitude, p.Center)
	if err != nil {
		return nil, fmt.Errorf("one pulse: %w", err)
	}
	zero, err := SquareCycle(p.ZeroFreq, p.SampleRate, p.Amplitude, p.Center)
	if err != nil {
		return nil, fmt.Errorf("zero pulse: %w", err)
	}
	return &Pulses{One: one, Zero: zero}, nil
}
