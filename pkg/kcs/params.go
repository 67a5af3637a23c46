// Package kcs encodes line-numbered BASIC text as a Kansas City Standard
// audio bitstream: each bit is rendered as a single square-wave cycle, a high
// tone for 1 and a low tone for 0, and each byte is framed as a start bit,
// eight data bits (most significant first) and a parity bit. The resulting
// sample stream, written to a cassette-style audio input, reconstructs the
// original bytes on the receiving machine.
package kcs

import (
	"errors"
	"fmt"
)

// ParityMode selects the parity relation of the frame's parity bit.
type ParityMode string

const (
	// ParityOdd makes the count of 1s across data and parity bits odd.
	ParityOdd ParityMode = "odd"

	// ParityEven makes the count of 1s across data and parity bits even.
	ParityEven ParityMode = "even"
)

// IsValid reports whether m is a recognised parity mode.
func (m ParityMode) IsValid() bool {
	return m == ParityOdd || m == ParityEven
}

// Params is the immutable encoding configuration for one run. Construct it
// once, validate it with [Params.Validate] before any file is processed, and
// share it read-only across workers.
type Params struct {
	// SampleRate is the PCM sample rate in Hz.
	SampleRate int

	// OneFreq is the tone frequency in Hz representing a 1 bit.
	OneFreq int

	// ZeroFreq is the tone frequency in Hz representing a 0 bit.
	ZeroFreq int

	// Amplitude is the peak-to-peak square wave amplitude, in sample units.
	Amplitude int

	// Center is the DC offset the wave oscillates around (128 = midpoint of
	// the unsigned 8-bit sample range).
	Center int

	// LeaderSeconds is the nominal duration of the carrier tone written
	// before the data. Integer pulse-count truncation makes the actual
	// duration drift slightly below this value.
	LeaderSeconds int

	// StartBit is the bit value (0 or 1) sent before every byte's data bits.
	StartBit int

	// Parity selects the parity relation for the frame's parity bit.
	Parity ParityMode
}

// DefaultParams returns the encoding parameters of the original Cosmac ELF II
// cassette format: 2400 Hz for 1, 800 Hz for 0, 22050 Hz sample rate, a 14
// second leader, start bit 0 and odd parity.
func DefaultParams() Params {
	return Params{
		SampleRate:    22050,
		OneFreq:       2400,
		ZeroFreq:      800,
		Amplitude:     225,
		Center:        128,
		LeaderSeconds: 14,
		StartBit:      0,
		Parity:        ParityOdd,
	}
}

// Validate checks that p describes an encodable configuration. It returns a
// joined error listing all failures found. A configuration whose tone
// frequency is too high for the sample rate (an empty half-cycle) is rejected
// here, before any file is touched.
func (p Params) Validate() error {
	var errs []error

	if p.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample rate %d must be positive", p.SampleRate))
	}
	for _, tone := range []struct {
		name string
		freq int
	}{
		{"one", p.OneFreq},
		{"zero", p.ZeroFreq},
	} {
		if tone.freq <= 0 {
			errs = append(errs, fmt.Errorf("%s-bit frequency %d Hz must be positive", tone.name, tone.freq))
			continue
		}
		if p.SampleRate > 0 && p.SampleRate/tone.freq/2 == 0 {
			errs = append(errs, fmt.Errorf("%s-bit frequency %d Hz at %d Hz sample rate: %w",
				tone.name, tone.freq, p.SampleRate, ErrZeroHalfCycle))
		}
	}
	if p.Amplitude < 0 || p.Amplitude > 255 {
		errs = append(errs, fmt.Errorf("amplitude %d is out of range [0, 255]", p.Amplitude))
	}
	if p.Center < 0 || p.Center > 255 {
		errs = append(errs, fmt.Errorf("center %d is out of range [0, 255]", p.Center))
	} else if p.Amplitude >= 0 && p.Amplitude <= 255 {
		if p.Center-p.Amplitude/2 < 0 || p.Center+p.Amplitude/2 > 255 {
			errs = append(errs, fmt.Errorf("amplitude %d around center %d exceeds the 8-bit sample range", p.Amplitude, p.Center))
		}
	}
	if p.LeaderSeconds < 0 {
		errs = append(errs, fmt.Errorf("leader duration %d s must not be negative", p.LeaderSeconds))
	}
	if p.StartBit != 0 && p.StartBit != 1 {
		errs = append(errs, fmt.Errorf("start bit %d must be 0 or 1", p.StartBit))
	}
	if !p.Parity.IsValid() {
		errs = append(errs, fmt.Errorf("parity mode %q is invalid; valid values: odd, even", p.Parity))
	}

	return errors.Join(errs...)
}
