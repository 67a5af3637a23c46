package kcs

import (
	"fmt"
	"io"
)

// Assembler drives the full encoding pipeline for one configuration: leader
// tone, one frame per stream byte, and the block-terminator trailer, written
// in strict order to a PCM sink. An Assembler holds only read-only state and
// may be shared across goroutines encoding independent files.
type Assembler struct {
	params Params
	pulses *Pulses
	frames *FrameEncoder
}

// Result summarises one encoded file.
type Result struct {
	// Records is the number of labeled source lines encoded.
	Records int

	// DataBytes is the label+body byte count the size header reports.
	DataBytes int

	// Samples is the total number of PCM samples written.
	Samples int
}

// NewAssembler validates p, builds the two cached pulses and returns an
// assembler ready to encode any number of files with this configuration.
func NewAssembler(p Params) (*Assembler, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("kcs: invalid params: %w", err)
	}
	pulses, err := NewPulses(p)
	if err != nil {
		return nil, fmt.Errorf("kcs: %w", err)
	}
	return &Assembler{
		params: p,
		pulses: pulses,
		frames: NewFrameEncoder(pulses, p),
	}, nil
}

// Params returns the configuration the assembler was built with.
func (a *Assembler) Params() Params { return a.params }

// Assemble writes the complete waveform for stream to w: the leader carrier,
// every byte framed in order, then exactly 3 raw zero-tone pulses. It returns
// the number of samples written. The leader repetition count truncates to
// whole pulses, so the leader runs slightly short of the nominal duration;
// receivers tolerate this.
func (a *Assembler) Assemble(w io.Writer, stream []byte) (int, error) {
	samples := 0

	reps := a.params.SampleRate / len(a.pulses.One) * a.params.LeaderSeconds
	for range reps {
		n, err := w.Write(a.pulses.One)
		samples += n
		if err != nil {
			return samples, fmt.Errorf("kcs: write leader: %w", err)
		}
	}

	frame := make([]byte, 0, 10*max(len(a.pulses.One), len(a.pulses.Zero)))
	for _, b := range stream {
		frame = a.frames.AppendFrame(frame[:0], b)
		n, err := w.Write(frame)
		samples += n
		if err != nil {
			return samples, fmt.Errorf("kcs: write frame: %w", err)
		}
	}

	for range 3 {
		n, err := w.Write(a.pulses.Zero)
		samples += n
		if err != nil {
			return samples, fmt.Errorf("kcs: write trailer: %w", err)
		}
	}
	return samples, nil
}

// EncodeText runs the whole pipeline for one source file: parse the labeled
// lines, build the length-prefixed byte stream, and assemble the waveform
// into w. Parsing and stream building complete before the first sample is
// written, so a validation failure produces no output at all.
func (a *Assembler) EncodeText(w io.Writer, text string) (Result, error) {
	records, err := ParseRecords(text)
	if err != nil {
		return Result{}, err
	}
	stream, err := BuildStream(records)
	if err != nil {
		return Result{}, err
	}
	samples, err := a.Assemble(w, stream)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Records:   len(records),
		DataBytes: len(stream) - 3, // minus header and terminator
		Samples:   samples,
	}, nil
}
