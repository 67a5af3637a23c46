package kcs

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Record is one source line reduced to its numeric label and encoded body.
// The body is the line remainder, left-trimmed, with a trailing carriage
// return, as UTF-8 bytes. Records are immutable once parsed.
type Record struct {
	Label uint16
	Body  []byte
}

// ParseRecords splits text into lines and extracts one Record per line that
// begins with a run of decimal digits. Both LF and CRLF line endings are
// accepted. Lines without a leading digit run are skipped silently and
// contribute nothing to the stream. Text that is not valid UTF-8 is rejected
// with [ErrInvalidText]; a label that does not fit 16 bits is rejected with
// [ErrLabelRange] rather than truncated.
func ParseRecords(text string) ([]Record, error) {
	if !utf8.ValidString(text) {
		return nil, ErrInvalidText
	}
	lines := strings.Split(text, "\n")
	records := make([]Record, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		digits := leadingDigits(line)
		if digits == 0 {
			continue
		}
		label, err := strconv.ParseUint(line[:digits], 10, 16)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return nil, fmt.Errorf("line %d: label %s: %w", i+1, line[:digits], ErrLabelRange)
			}
			return nil, fmt.Errorf("line %d: label %s: %w", i+1, line[:digits], err)
		}
		body := strings.TrimLeftFunc(line[digits:], unicode.IsSpace)
		records = append(records, Record{
			Label: uint16(label),
			Body:  []byte(body + "\r"),
		})
	}
	return records, nil
}

// leadingDigits returns the length of the run of ASCII decimal digits at the
// start of s.
func leadingDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

// BuildStream serialises records into the byte stream a receiver decodes:
// a big-endian 16-bit size header equal to the data byte count plus 256, then
// per record the big-endian 16-bit label followed by the body bytes, then a
// single zero terminator byte that the size header does not count. A data
// byte count that overflows the 16-bit header yields [ErrStreamTooLarge].
func BuildStream(records []Record) ([]byte, error) {
	n := 0
	for _, r := range records {
		n += 2 + len(r.Body)
	}
	header := n + 256
	if header > math.MaxUint16 {
		return nil, fmt.Errorf("%d data bytes: %w", n, ErrStreamTooLarge)
	}

	stream := make([]byte, 0, 2+n+1)
	stream = append(stream, byte(header>>8), byte(header))
	for _, r := range records {
		stream = append(stream, byte(r.Label>>8), byte(r.Label))
		stream = append(stream, r.Body...)
	}
	stream = append(stream, 0)
	return stream, nil
}
