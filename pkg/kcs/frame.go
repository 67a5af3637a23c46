package kcs

// FrameEncoder renders one byte as a framed pulse sequence: the configured
// start-bit pulse, the eight data bits most significant first, and a single
// parity pulse. No stop bit is emitted — the next frame's start bit follows
// immediately. A FrameEncoder is read-only after construction and safe to
// share across goroutines.
type FrameEncoder struct {
	pulses *Pulses
	start  []byte
	parity ParityMode
}

// NewFrameEncoder returns an encoder using the cached pulses and the start
// bit and parity mode of p. p must already have passed [Params.Validate].
func NewFrameEncoder(pulses *Pulses, p Params) *FrameEncoder {
	start := pulses.Zero
	if p.StartBit == 1 {
		start = pulses.One
	}
	return &FrameEncoder{pulses: pulses, start: start, parity: p.Parity}
}

// AppendFrame appends the framed waveform for b to dst and returns the
// extended slice. Output is always exactly 10 pulses: 1 start + 8 data + 1
// parity.
func (e *FrameEncoder) AppendFrame(dst []byte, b byte) []byte {
	dst = append(dst, e.start...)

	ones := 0
	for i := 7; i >= 0; i-- {
		if b>>i&1 == 1 {
			dst = append(dst, e.pulses.One...)
			ones++
		} else {
			dst = append(dst, e.pulses.Zero...)
		}
	}

	// Odd parity tops the 1-count up to odd, even parity to even.
	wantOne := ones%2 == 0
	if e.parity == ParityEven {
		wantOne = !wantOne
	}
	if wantOne {
		dst = append(dst, e.pulses.One...)
	} else {
		dst = append(dst, e.pulses.Zero...)
	}
	return dst
}
