package kcs_test

import (
	"bytes"
	"testing"

	"github.com/cskordis/kcstape/pkg/kcs"
)

// testParams returns the default configuration with a 1 second leader to keep
// test streams small.
func testParams() kcs.Params {
	p := kcs.DefaultParams()
	p.LeaderSeconds = 1
	return p
}

// decodeWaveform strips the leader carrier, decodes framed bytes until the
// samples run out of full frames, and verifies the trailing 3 raw zero
// pulses. It returns the leader pulse count and the decoded byte stream.
func decodeWaveform(t *testing.T, samples []byte, p kcs.Params) (leader int, stream []byte) {
	t.Helper()
	pulses, err := kcs.NewPulses(p)
	if err != nil {
		t.Fatalf("NewPulses: %v", err)
	}

	// The leader is all 1-pulses; the first frame announces itself with the
	// start bit 0.
	for bytes.HasPrefix(samples, pulses.One) {
		leader++
		samples = samples[len(pulses.One):]
	}

	trailer := bytes.Repeat(pulses.Zero, 3)
	for !bytes.Equal(samples, trailer) {
		start, value, parity, rest := readFrame(t, samples, pulses)
		if start != p.StartBit {
			t.Fatalf("frame %d: start bit %d, want %d", len(stream), start, p.StartBit)
		}
		ones := parity
		for b := value; b != 0; b >>= 1 {
			ones += int(b & 1)
		}
		if p.Parity == kcs.ParityOdd && ones%2 != 1 {
			t.Fatalf("frame %d: odd parity violated for %#02x", len(stream), value)
		}
		if p.Parity == kcs.ParityEven && ones%2 != 0 {
			t.Fatalf("frame %d: even parity violated for %#02x", len(stream), value)
		}
		stream = append(stream, value)
		samples = rest
	}
	return leader, stream
}

func TestEncodeText_RoundTrip(t *testing.T) {
	p := testParams()
	asm, err := kcs.NewAssembler(p)
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}

	var buf bytes.Buffer
	res, err := asm.EncodeText(&buf, "10 PRINT \"HI\"\n20 END")
	if err != nil {
		t.Fatalf("EncodeText: %v", err)
	}
	if res.Records != 2 {
		t.Errorf("records: got %d, want 2", res.Records)
	}
	if res.DataBytes != 19 {
		t.Errorf("data bytes: got %d, want 19", res.DataBytes)
	}
	if res.Samples != buf.Len() {
		t.Errorf("samples: got %d, buffer holds %d", res.Samples, buf.Len())
	}

	leader, stream := decodeWaveform(t, buf.Bytes(), p)

	// Leader repetitions truncate to whole pulses: 22050/8 * 1.
	if wantLeader := 22050 / 8 * p.LeaderSeconds; leader != wantLeader {
		t.Errorf("leader pulses: got %d, want %d", leader, wantLeader)
	}

	want := append([]byte{0x01, 0x13, 0x00, 0x0A}, "PRINT \"HI\"\r"...)
	want = append(want, 0x00, 0x14)
	want = append(want, "END\r"...)
	want = append(want, 0x00)
	if !bytes.Equal(stream, want) {
		t.Errorf("decoded stream:\n got %v\nwant %v", stream, want)
	}
}

func TestEncodeText_InvertedToneFrequencies(t *testing.T) {
	// With the zero tone above the one tone, the zero pulse is the shorter
	// of the two; frames must still decode cleanly.
	p := testParams()
	p.OneFreq, p.ZeroFreq = p.ZeroFreq, p.OneFreq
	asm, err := kcs.NewAssembler(p)
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}

	var buf bytes.Buffer
	if _, err := asm.EncodeText(&buf, "10 END"); err != nil {
		t.Fatalf("EncodeText: %v", err)
	}

	_, stream := decodeWaveform(t, buf.Bytes(), p)
	want := append([]byte{0x01, 0x06, 0x00, 0x0A}, "END\r"...)
	want = append(want, 0x00)
	if !bytes.Equal(stream, want) {
		t.Errorf("decoded stream:\n got %v\nwant %v", stream, want)
	}
}

func TestEncodeText_EmptyInput(t *testing.T) {
	p := testParams()
	asm, err := kcs.NewAssembler(p)
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}

	var buf bytes.Buffer
	res, err := asm.EncodeText(&buf, "REM nothing labeled here")
	if err != nil {
		t.Fatalf("EncodeText: %v", err)
	}
	if res.Records != 0 || res.DataBytes != 0 {
		t.Errorf("result: got %+v, want 0 records, 0 data bytes", res)
	}

	_, stream := decodeWaveform(t, buf.Bytes(), p)
	want := []byte{0x01, 0x00, 0x00}
	if !bytes.Equal(stream, want) {
		t.Errorf("decoded stream: got %v, want %v", stream, want)
	}
}

func TestEncodeText_Idempotent(t *testing.T) {
	asm, err := kcs.NewAssembler(testParams())
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}

	var a, b bytes.Buffer
	if _, err := asm.EncodeText(&a, "10 GOTO 10"); err != nil {
		t.Fatalf("first encode: %v", err)
	}
	if _, err := asm.EncodeText(&b, "10 GOTO 10"); err != nil {
		t.Fatalf("second encode: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("identical inputs produced different waveforms")
	}
}

func TestEncodeText_ValidationFailureWritesNothing(t *testing.T) {
	asm, err := kcs.NewAssembler(testParams())
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}

	var buf bytes.Buffer
	if _, err := asm.EncodeText(&buf, "99999 TOO BIG"); err == nil {
		t.Fatal("expected a label range error")
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d samples despite validation failure", buf.Len())
	}
}

func TestAssemble_TrailerIsThreeRawZeroPulses(t *testing.T) {
	p := testParams()
	p.LeaderSeconds = 0
	asm, err := kcs.NewAssembler(p)
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}
	pulses, err := kcs.NewPulses(p)
	if err != nil {
		t.Fatalf("NewPulses: %v", err)
	}

	var buf bytes.Buffer
	if _, err := asm.Assemble(&buf, nil); err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if want := bytes.Repeat(pulses.Zero, 3); !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("empty stream output is not exactly 3 zero pulses (got %d samples, want %d)", buf.Len(), len(want))
	}
}

func TestNewAssembler_RejectsInvalidParams(t *testing.T) {
	p := testParams()
	p.Parity = "none"
	if _, err := kcs.NewAssembler(p); err == nil {
		t.Fatal("expected invalid parity to be rejected")
	}
}
