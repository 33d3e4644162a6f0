package song

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"trackerboy/hw/hwdefs"
)

const testSheet = `
name = "halt test"
speed = 0x20
rows = 4
framerate = 61.1
orders = [[0, 0, 0, 0], [1, 0, 0, 0]]

[[instrument]]
id = 0
name = "lead"
channel = 1
envelope = 0xF1
timbre = { data = [0, 1, 2], loop = 1 }
pitch = { data = [-1, 1] }

[[waveform]]
id = 3
data = "0123456789ABCDEFFEDCBA9876543210"

[[track]]
channel = 1
id = 0
[track.rows]
0 = "C-5 00"
1 = "... .. C00"

[[track]]
channel = 4
id = 0
[track.rows]
2 = "C-3 .. S02"
`

func TestParseSheet(t *testing.T) {
	mod, err := ParseSheet(strings.NewReader(testSheet))
	if err != nil {
		t.Fatal(err)
	}

	s := mod.Song
	if s.Name != "halt test" || s.Speed() != 0x20 || s.RowsPerPattern() != 4 || s.PatternCount() != 2 {
		t.Errorf("song header: name=%q speed=%#02x rows=%d orders=%d",
			s.Name, s.Speed(), s.RowsPerPattern(), s.PatternCount())
	}
	if mod.Framerate != hwdefs.FramerateSGB {
		t.Errorf("framerate = %g, want %g", mod.Framerate, hwdefs.FramerateSGB)
	}

	want := &Instrument{
		ID:              0,
		Name:            "lead",
		Channel:         hwdefs.CH1,
		EnvelopeEnabled: true,
		Envelope:        0xF1,
	}
	want.Sequences[SequenceTimbre] = Sequence{Data: []uint8{0, 1, 2}, Loop: 1, HasLoop: true}
	want.Sequences[SequencePitch] = Sequence{Data: []uint8{0xFF, 1}}

	got, ok := mod.Instruments.Instrument(0)
	if !ok {
		t.Fatalf("instrument 0 not found")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("instrument mismatch (-want +got):\n%s", diff)
	}

	wave, ok := mod.Waveforms.Waveform(3)
	if !ok {
		t.Fatalf("waveform 3 not found")
	}
	if wave.Data[0] != 0x01 || wave.Data[7] != 0xEF || wave.Data[15] != 0x10 {
		t.Errorf("waveform data = % X", wave.Data)
	}

	rows := []string{
		s.Row(hwdefs.CH1, 0, 0).String(),
		s.Row(hwdefs.CH1, 0, 1).String(),
		s.Row(hwdefs.CH1, 0, 2).String(),
		s.Row(hwdefs.CH4, 1, 2).String(),
	}
	wantRows := []string{
		"C-5 00 ... ... ...",
		"... .. C00 ... ...",
		"... .. ... ... ...",
		"C-3 .. S02 ... ...",
	}
	if diff := cmp.Diff(wantRows, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSheetErrors(t *testing.T) {
	tests := []struct {
		name, sheet string
	}{
		{"unknown key", `tempo = 150`},
		{"bad speed", `speed = 0x08`},
		{"bad order", `orders = [[0, 0, 0]]`},
		{"bad channel", "[[instrument]]\nid = 0\nchannel = 5"},
		{"duplicate instrument", "[[instrument]]\nid = 1\nchannel = 1\n[[instrument]]\nid = 1\nchannel = 2"},
		{"bad loop", "[[instrument]]\nid = 0\nchannel = 1\ntimbre = { data = [1], loop = 1 }"},
		{"short waveform", "[[waveform]]\nid = 0\ndata = \"0123\""},
		{"bad row index", "[[track]]\nchannel = 1\nid = 0\n[track.rows]\nx = \"C-5\""},
		{"row out of range", "rows = 2\n[[track]]\nchannel = 1\nid = 0\n[track.rows]\n2 = \"C-5\""},
		{"bad row", "[[track]]\nchannel = 1\nid = 0\n[track.rows]\n0 = \"Z-5\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSheet(strings.NewReader(tt.sheet)); err == nil {
				t.Errorf("ParseSheet should fail")
			}
		})
	}
}
