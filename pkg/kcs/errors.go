package kcs

import "errors"

// Sentinel errors returned by the encoding pipeline. All are wrapped with
// context by the function that detects them; match with [errors.Is].
var (
	// ErrZeroHalfCycle is reported when a tone frequency is too high for the
	// sample rate, leaving no samples in a half-cycle.
	ErrZeroHalfCycle = errors.New("kcs: tone half-cycle contains no samples")

	// ErrInvalidText is reported when source text is not valid UTF-8 and so
	// cannot be re-encoded for the receiver.
	ErrInvalidText = errors.New("kcs: source text is not valid UTF-8")

	// ErrLabelRange is reported when a line's numeric label does not fit the
	// 16-bit label field. The label is never silently truncated.
	ErrLabelRange = errors.New("kcs: line label exceeds 16 bits")

	// ErrStreamTooLarge is reported when the data byte count plus the 256
	// header offset does not fit the 16-bit size header.
	ErrStreamTooLarge = errors.New("kcs: encoded stream exceeds the 16-bit size header")
)
