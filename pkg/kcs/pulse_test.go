package kcs_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/cskordis/kcstape/pkg/kcs"
)

func TestSquareCycle_LengthAndLevels(t *testing.T) {
	// 22050/2400/2 = 4 samples per half-cycle.
	cycle, err := kcs.SquareCycle(2400, 22050, 225, 128)
	if err != nil {
		t.Fatalf("SquareCycle: %v", err)
	}
	if len(cycle) != 8 {
		t.Fatalf("cycle length: got %d, want 8", len(cycle))
	}
	for i, s := range cycle[:4] {
		if s != 128-225/2 {
			t.Errorf("low half sample %d: got %d, want %d", i, s, 128-225/2)
		}
	}
	for i, s := range cycle[4:] {
		if s != 128+225/2 {
			t.Errorf("high half sample %d: got %d, want %d", i, s, 128+225/2)
		}
	}
}

func TestSquareCycle_HalfCycleTruncation(t *testing.T) {
	tests := []struct {
		freq, rate int
		wantLen    int
	}{
		{800, 22050, 26},  // 22050/800/2 = 13
		{2400, 22050, 8},  // 22050/2400/2 = 4
		{2400, 44100, 18}, // 44100/2400/2 = 9
		{9600, 22050, 2},  // 22050/9600/2 = 1
	}
	for _, tt := range tests {
		cycle, err := kcs.SquareCycle(tt.freq, tt.rate, 225, 128)
		if err != nil {
			t.Fatalf("SquareCycle(%d, %d): %v", tt.freq, tt.rate, err)
		}
		if len(cycle) != tt.wantLen {
			t.Errorf("SquareCycle(%d, %d) length: got %d, want %d", tt.freq, tt.rate, len(cycle), tt.wantLen)
		}
	}
}

func TestSquareCycle_ZeroHalfCycle(t *testing.T) {
	_, err := kcs.SquareCycle(20000, 22050, 225, 128)
	if !errors.Is(err, kcs.ErrZeroHalfCycle) {
		t.Fatalf("got %v, want ErrZeroHalfCycle", err)
	}
}

func TestSquareCycle_Deterministic(t *testing.T) {
	a, err := kcs.SquareCycle(800, 22050, 225, 128)
	if err != nil {
		t.Fatalf("SquareCycle: %v", err)
	}
	b, err := kcs.SquareCycle(800, 22050, 225, 128)
	if err != nil {
		t.Fatalf("SquareCycle: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical inputs produced different cycles")
	}
}

func TestNewPulses(t *testing.T) {
	p := kcs.DefaultParams()
	pulses, err := kcs.NewPulses(p)
	if err != nil {
		t.Fatalf("NewPulses: %v", err)
	}
	if len(pulses.One) != 8 {
		t.Errorf("one pulse length: got %d, want 8", len(pulses.One))
	}
	if len(pulses.Zero) != 26 {
		t.Errorf("zero pulse length: got %d, want 26", len(pulses.Zero))
	}
}

func TestNewPulses_RejectsHighTone(t *testing.T) {
	p := kcs.DefaultParams()
	p.OneFreq = 48000
	if _, err := kcs.NewPulses(p); !errors.Is(err, kcs.ErrZeroHalfCycle) {
		t.Fatalf("got %v, want ErrZeroHalfCycle", err)
	}
}
