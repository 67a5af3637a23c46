// Package wav writes single-channel unsigned 8-bit linear PCM WAV files and
// optionally tags them with a RIFF INFO metadata chunk. The writer streams
// samples as they arrive and patches the chunk sizes into the header on
// Close, so payloads of unknown length can be written in one pass over a
// seekable sink.
package wav

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	headerSize    = 44
	fmtChunkSize  = 16
	audioFmtPCM   = 1
	numChannels   = 1
	bitsPerSample = 8
)

// Writer emits one mono 8-bit PCM WAV file to an [io.WriteSeeker]. Create it
// with [NewWriter], stream samples through [Writer.Write], then [Writer.Close]
// to finalise the header. Not safe for concurrent use.
type Writer struct {
	ws         io.WriteSeeker
	sampleRate uint32
	dataBytes  uint32
	info       *Info
	closed     bool
}

// NewWriter writes a provisional WAV header to ws and returns a Writer
// accepting sample data. The header's size fields are patched on Close.
func NewWriter(ws io.WriteSeeker, sampleRate int) (*Writer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("wav: sample rate %d must be positive", sampleRate)
	}
	w := &Writer{ws: ws, sampleRate: uint32(sampleRate)}
	if err := w.writeHeader(); err != nil {
		return nil, fmt.Errorf("wav: write header: %w", err)
	}
	return w, nil
}

// Write appends raw unsigned 8-bit samples to the data chunk.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("wav: write after close")
	}
	n, err := w.ws.Write(p)
	w.dataBytes += uint32(n)
	if err != nil {
		return n, fmt.Errorf("wav: write samples: %w", err)
	}
	return n, nil
}

// SetInfo attaches RIFF INFO metadata to be written when the file is closed.
// Must be called before Close.
func (w *Writer) SetInfo(info Info) {
	w.info = &info
}

// Close pads the data chunk to even length, appends the INFO chunk if one was
// set, and rewrites the header with the final sizes. The underlying sink is
// not closed.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	// RIFF chunks are word-aligned; an odd data chunk takes one pad byte
	// that its size field does not count.
	if w.dataBytes%2 == 1 {
		if _, err := w.ws.Write([]byte{0}); err != nil {
			return fmt.Errorf("wav: write pad byte: %w", err)
		}
	}
	if w.info != nil {
		if _, err := w.ws.Write(w.info.chunk()); err != nil {
			return fmt.Errorf("wav: write info chunk: %w", err)
		}
	}

	if _, err := w.ws.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("wav: seek to header: %w", err)
	}
	if err := w.writeHeader(); err != nil {
		return fmt.Errorf("wav: patch header: %w", err)
	}
	return nil
}

// writeHeader emits the 44-byte RIFF/WAVE/fmt/data preamble with the sizes
// known so far.
func (w *Writer) writeHeader() error {
	riffSize := uint32(headerSize-8) + w.dataBytes
	if w.closed {
		riffSize += w.dataBytes % 2
		if w.info != nil {
			riffSize += uint32(len(w.info.chunk()))
		}
	}

	var h [headerSize]byte
	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], riffSize)
	copy(h[8:12], "WAVE")
	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], fmtChunkSize)
	binary.LittleEndian.PutUint16(h[20:22], audioFmtPCM)
	binary.LittleEndian.PutUint16(h[22:24], numChannels)
	binary.LittleEndian.PutUint32(h[24:28], w.sampleRate)
	binary.LittleEndian.PutUint32(h[28:32], w.sampleRate*numChannels*bitsPerSample/8)
	binary.LittleEndian.PutUint16(h[32:34], numChannels*bitsPerSample/8)
	binary.LittleEndian.PutUint16(h[34:36], bitsPerSample)
	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], w.dataBytes)

	_, err := w.ws.Write(h[:])
	return err
}
