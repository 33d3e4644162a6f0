package hw

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"trackerboy/hw/hwdefs"
)

func TestSynthReset(t *testing.T) {
	s := NewSynth(44100, hwdefs.FramerateDMG)

	got := map[string]uint8{
		"NR50": s.ReadRegister(hwdefs.NR50),
		"NR51": s.ReadRegister(hwdefs.NR51),
		"NR52": s.ReadRegister(hwdefs.NR52),
	}
	want := map[string]uint8{
		"NR50": 0x77,
		"NR51": 0x00,
		"NR52": 0xF0,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("registers after reset mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthCycleCarry(t *testing.T) {
	s := NewSynth(44100, hwdefs.FramerateDMG)

	const frames = 597
	for range frames {
		s.Run()
	}

	// 597 frames at 59.7Hz is exactly 10 seconds of emulated time.
	want := uint64(10 * hwdefs.ClockSpeed)
	got := s.Cycles()
	if got != want && got != want-1 {
		t.Errorf("cycles after %d frames = %d, want %d", frames, got, want)
	}
}

func TestSynthFrameSize(t *testing.T) {
	s := NewSynth(44100, hwdefs.FramerateDMG)

	total := 0
	for i := range 60 {
		n := s.Run()
		if n < 737 || n > 740 {
			t.Fatalf("frame %d: got %d samples, want ~738.7", i, n)
		}
		total += n
	}

	// 60 * 44100 / 59.7
	if total < 44320 || total > 44323 {
		t.Errorf("got %d samples in 60 frames, want 44321 or so", total)
	}
}

func playCH1(s *Synth, nr51 uint8) {
	s.WriteRegister(hwdefs.NR51, nr51)
	s.WriteRegister(hwdefs.NR11, 0x80)
	s.WriteRegister(hwdefs.NR12, 0xF0)
	s.WriteRegister(hwdefs.NR13, 0x00)
	s.WriteRegister(hwdefs.NR14, 0x87)
}

func peaks(samples []int16) (left, right int16) {
	for i := 0; i < len(samples); i += 2 {
		left = max(left, abs16(samples[i]))
		right = max(right, abs16(samples[i+1]))
	}
	return left, right
}

func abs16(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}

func TestSynthOutput(t *testing.T) {
	tests := []struct {
		name        string
		nr51        uint8
		left, right bool
	}{
		{name: "muted", nr51: 0x00},
		{name: "left", nr51: 0x10, left: true},
		{name: "right", nr51: 0x01, right: true},
		{name: "both", nr51: 0x11, left: true, right: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSynth(44100, hwdefs.FramerateDMG)
			playCH1(s, tt.nr51)

			n := s.Run()
			buf := make([]int16, n*2)
			if got := s.Fill(buf, n); got != n {
				t.Fatalf("Fill returned %d, want %d", got, n)
			}

			left, right := peaks(buf)
			if got := left > 100; got != tt.left {
				t.Errorf("left peak = %d, want sound=%t", left, tt.left)
			}
			if got := right > 100; got != tt.right {
				t.Errorf("right peak = %d, want sound=%t", right, tt.right)
			}
		})
	}
}

func TestSynthFillShortBuffer(t *testing.T) {
	s := NewSynth(44100, hwdefs.FramerateDMG)
	s.Run()

	buf := make([]int16, 20)
	if got := s.Fill(buf, 100); got != 10 {
		t.Errorf("Fill = %d, want 10", got)
	}
}

func TestSynthSetSampleRate(t *testing.T) {
	s := NewSynth(44100, hwdefs.FramerateDMG)
	s.SetSampleRate(22050)
	if got, want := s.FrameSamples(), 22050*10/597+1; got != want {
		t.Errorf("FrameSamples = %d, want %d", got, want)
	}
	n := s.Run()
	if n < 368 || n > 371 {
		t.Errorf("got %d samples at 22050Hz, want ~369", n)
	}

	// Mix settings survive the resize.
	if got := s.ReadRegister(hwdefs.NR50); got != 0x77 {
		t.Errorf("NR50 = %#02x, want 0x77", got)
	}
}
