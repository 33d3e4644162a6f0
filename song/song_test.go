package song

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"trackerboy/hw/hwdefs"
)

func TestTrackRowFlags(t *testing.T) {
	var row TrackRow
	if !row.IsEmpty() {
		t.Fatalf("zero row should be empty")
	}

	// Unset columns are told by the flags, not by their value: a note 0
	// (C-2) is a valid note.
	row.SetNote(0)
	if note, ok := row.QueryNote(); !ok || note != 0 {
		t.Errorf("QueryNote() = %d, %t, want 0, true", note, ok)
	}
	if _, ok := row.QueryInstrument(); ok {
		t.Errorf("instrument should be unset")
	}

	row.SetEffect(1, EffectPatternHalt, 0)
	if _, ok := row.QueryEffect(0); ok {
		t.Errorf("effect 0 should be unset")
	}
	if got, ok := row.QueryEffect(1); !ok || got != (Effect{EffectPatternHalt, 0}) {
		t.Errorf("QueryEffect(1) = %v, %t", got, ok)
	}
	if _, ok := row.QueryEffect(3); ok {
		t.Errorf("QueryEffect(3) out of range should be unset")
	}

	row.ClearNote()
	row.SetEffect(1, EffectNone, 0)
	if !row.IsEmpty() {
		t.Errorf("row should be empty, flags = %#b", row.Flags)
	}
}

func TestParseRow(t *testing.T) {
	tests := []struct {
		in   string
		want func() TrackRow
	}{
		{
			in:   "... .. ... ... ...",
			want: func() TrackRow { return TrackRow{} },
		},
		{
			in: "C-5 00",
			want: func() TrackRow {
				var r TrackRow
				r.SetNote(36)
				r.SetInstrument(0)
				return r
			},
		},
		{
			in: "--- .. S03",
			want: func() TrackRow {
				var r TrackRow
				r.SetNote(NoteCut)
				r.SetEffect(0, EffectDelayedCut, 3)
				return r
			},
		},
		{
			in: "F#3 1A ... 047 c00",
			want: func() TrackRow {
				var r TrackRow
				r.SetNote(18)
				r.SetInstrument(0x1A)
				r.SetEffect(1, EffectArpeggio, 0x47)
				r.SetEffect(2, EffectPatternHalt, 0)
				return r
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRow(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want(), got); diff != "" {
				t.Errorf("ParseRow mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRowErrors(t *testing.T) {
	for _, in := range []string{
		"H-5",
		"C-9",
		"C-5 ZZ",
		"C-5 00 X00",
		"C-5 00 F2",
		"C-5 00 ... ... ... ...",
	} {
		if _, err := ParseRow(in); err == nil {
			t.Errorf("ParseRow(%q) should fail", in)
		}
	}
}

func TestRowString(t *testing.T) {
	row, err := ParseRow("A#4 03 F20 ... 4A2")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := row.String(), "A#4 03 F20 ... 4A2"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestNoteString(t *testing.T) {
	tests := map[uint8]string{
		0:        "C-2",
		36:       "C-5",
		NoteLast: "B-8",
		NoteCut:  "---",
	}
	for note, want := range tests {
		if got := NoteString(note); got != want {
			t.Errorf("NoteString(%d) = %q, want %q", note, got, want)
		}
		if got, err := ParseNote(want); err != nil || got != note {
			t.Errorf("ParseNote(%q) = %d, %v, want %d", want, got, err, note)
		}
	}
}

func enumerate(e Enumerator, n int) []int {
	var out []int
	for range n {
		v, ok := e.Next()
		if !ok {
			out = append(out, -1)
			continue
		}
		out = append(out, int(v))
	}
	return out
}

func TestSequenceEnumerator(t *testing.T) {
	seq := Sequence{Data: []uint8{1, 2, 3, 4}}

	t.Run("no loop", func(t *testing.T) {
		got := enumerate(seq.Enumerator(), 6)
		want := []int{1, 2, 3, 4, -1, -1}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("loop", func(t *testing.T) {
		s := seq
		s.SetLoop(2)
		got := enumerate(s.Enumerator(), 8)
		want := []int{1, 2, 3, 4, 3, 4, 3, 4}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("zero", func(t *testing.T) {
		var e Enumerator
		if _, ok := e.Next(); ok {
			t.Errorf("zero enumerator should be exhausted")
		}
	})
}

func TestSequenceResize(t *testing.T) {
	var seq Sequence
	seq.Resize(1000)
	if len(seq.Data) != MaxSequenceSize {
		t.Errorf("len = %d, want %d", len(seq.Data), MaxSequenceSize)
	}
	seq.Resize(2)
	if len(seq.Data) != 2 {
		t.Errorf("len = %d, want 2", len(seq.Data))
	}
}

func TestSongRow(t *testing.T) {
	s := New()
	s.SetRowsPerPattern(4)
	if err := s.SetOrders([]Order{{0, 0, 0, 0}, {1, 0, 0, 0}}); err != nil {
		t.Fatal(err)
	}

	var row TrackRow
	row.SetNote(40)
	if err := s.SetRow(hwdefs.CH1, 1, 2, row); err != nil {
		t.Fatal(err)
	}

	if got := s.Row(hwdefs.CH1, 1, 2); got != row {
		t.Errorf("Row(ch1, 1, 2) = %v, want %v", got, row)
	}
	if got := s.Row(hwdefs.CH1, 0, 2); !got.IsEmpty() {
		t.Errorf("Row(ch1, 0, 2) = %v, want empty", got)
	}
	if got := s.Row(hwdefs.CH2, 1, 2); !got.IsEmpty() {
		t.Errorf("Row(ch2, 1, 2) = %v, want empty", got)
	}
	if got := s.Row(hwdefs.CH1, 5, 0); !got.IsEmpty() {
		t.Errorf("out of range order should give an empty row")
	}
	if err := s.SetRow(hwdefs.CH1, 1, 4, row); err == nil {
		t.Errorf("SetRow past the pattern end should fail")
	}
	if err := s.SetOrders(nil); err == nil {
		t.Errorf("SetOrders(nil) should fail")
	}
}

func TestSongSpeedClamp(t *testing.T) {
	s := New()
	s.SetSpeed(0x01)
	if got := s.Speed(); got != SpeedMin {
		t.Errorf("Speed() = %#02x, want %#02x", got, SpeedMin)
	}
	s.SetSpeed(0xFF)
	if got := s.Speed(); got != SpeedMax {
		t.Errorf("Speed() = %#02x, want %#02x", got, SpeedMax)
	}
}

func TestEffectTypeChars(t *testing.T) {
	for et := EffectPatternGoto; et < numEffectTypes; et++ {
		got, ok := EffectTypeByChar(et.Char())
		if !ok || got != et {
			t.Errorf("EffectTypeByChar(%c) = %v, %t, want %v", et.Char(), got, ok, et)
		}
	}
	if got := EffectSetTempo.String(); got != "SetTempo" {
		t.Errorf("String() = %q", got)
	}
}
