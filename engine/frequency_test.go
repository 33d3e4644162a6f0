package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"trackerboy/song"
)

func noteOp(note uint8) *Operation {
	return &Operation{Flags: OpNote, Note: note}
}

func modOp(mod FreqMod, param uint8) *Operation {
	return &Operation{FreqMod: mod, FreqModParam: param}
}

// stepFreqs steps fc n times and returns the frequency after each step.
func stepFreqs(fc *FrequencyControl, n int) []uint16 {
	var out []uint16
	for range n {
		fc.Step()
		out = append(out, fc.Frequency())
	}
	return out
}

func TestFrequencyControlNote(t *testing.T) {
	fc := NewToneFrequencyControl()
	fc.Apply(noteOp(36))
	if got, want := fc.Frequency(), NoteFreqTable[36]; got != want {
		t.Errorf("Frequency() = %#03x, want %#03x", got, want)
	}

	// Out of range notes are ignored.
	fc.Apply(noteOp(song.NoteCut))
	fc.Step()
	if got, want := fc.Frequency(), NoteFreqTable[36]; got != want {
		t.Errorf("Frequency() = %#03x, want %#03x", got, want)
	}
}

func TestFrequencyControlArpeggio(t *testing.T) {
	fc := NewToneFrequencyControl()
	op := noteOp(36)
	op.FreqMod, op.FreqModParam = FreqModArpeggio, 0x47
	fc.Apply(op)

	c, e, g := NoteFreqTable[36], NoteFreqTable[40], NoteFreqTable[43]
	want := []uint16{c, e, g, c, e, g, c}
	if diff := cmp.Diff(want, stepFreqs(fc, len(want))); diff != "" {
		t.Errorf("arpeggio mismatch (-want +got):\n%s", diff)
	}

	// A new note changes the chord.
	fc.Apply(noteOp(48))
	want = []uint16{NoteFreqTable[48], NoteFreqTable[52], NoteFreqTable[55]}
	if diff := cmp.Diff(want, stepFreqs(fc, len(want))); diff != "" {
		t.Errorf("arpeggio after new note mismatch (-want +got):\n%s", diff)
	}

	// 000 turns it off.
	fc.Apply(modOp(FreqModArpeggio, 0))
	want = []uint16{NoteFreqTable[55], NoteFreqTable[55]}
	if diff := cmp.Diff(want, stepFreqs(fc, len(want))); diff != "" {
		t.Errorf("arpeggio off mismatch (-want +got):\n%s", diff)
	}
}

func TestFrequencyControlSlideClearsArpeggio(t *testing.T) {
	fc := NewToneFrequencyControl()
	op := noteOp(36)
	op.FreqMod, op.FreqModParam = FreqModArpeggio, 0x47
	fc.Apply(op)
	fc.Apply(modOp(FreqModPitchSlideUp, 0x10))

	base := NoteFreqTable[36]
	want := []uint16{base + 0x10, base + 0x20, base + 0x30}
	if diff := cmp.Diff(want, stepFreqs(fc, len(want))); diff != "" {
		t.Errorf("pitch slide mismatch (-want +got):\n%s", diff)
	}
}

func TestFrequencyControlPitchSlideSaturates(t *testing.T) {
	fc := NewToneFrequencyControl()
	op := noteOp(song.NoteLast)
	op.FreqMod, op.FreqModParam = FreqModPitchSlideUp, 0x20
	fc.Apply(op)

	want := []uint16{0x7FF, 0x7FF}
	if diff := cmp.Diff(want, stepFreqs(fc, 2)); diff != "" {
		t.Errorf("slide up mismatch (-want +got):\n%s", diff)
	}

	fc.Apply(modOp(FreqModPitchSlideDown, 0xFF))
	got := stepFreqs(fc, 10)
	if got[len(got)-1] != 0 {
		t.Errorf("slide down ended at %#03x, want 0", got[len(got)-1])
	}
}

func TestFrequencyControlNoteSlide(t *testing.T) {
	fc := NewToneFrequencyControl()
	op := noteOp(36)
	op.FreqMod, op.FreqModParam = FreqModNoteSlideUp, 0x43 // 4 semitones, 7 units/frame
	fc.Apply(op)

	got := stepFreqs(fc, 9)
	from, to := NoteFreqTable[36], NoteFreqTable[40]
	if got[6] != from+49 {
		t.Errorf("frequency after 7 steps = %#03x, want %#03x", got[6], from+49)
	}
	if got[7] != to || got[8] != to {
		t.Errorf("slide should stop at %#03x, got %#03x then %#03x", to, got[7], got[8])
	}
}

func TestFrequencyControlPortamento(t *testing.T) {
	fc := NewToneFrequencyControl()
	fc.Apply(noteOp(36))

	op := noteOp(48)
	op.FreqMod, op.FreqModParam = FreqModPortamento, 0x10
	fc.Apply(op)

	from, to := NoteFreqTable[36], NoteFreqTable[48]
	if got := fc.Frequency(); got != from {
		t.Errorf("portamento should not jump to the new note: got %#03x, want %#03x", got, from)
	}
	got := stepFreqs(fc, 9)
	if got[0] != from+0x10 {
		t.Errorf("first step = %#03x, want %#03x", got[0], from+0x10)
	}
	if got[7] != to || got[8] != to {
		t.Errorf("portamento should stop at %#03x, got %#03x then %#03x", to, got[7], got[8])
	}

	// Next notes slide too.
	fc.Apply(noteOp(36))
	if got := fc.Frequency(); got != to {
		t.Errorf("Frequency() = %#03x, want %#03x", got, to)
	}
}

func TestFrequencyControlVibrato(t *testing.T) {
	fc := NewToneFrequencyControl()
	op := noteOp(36)
	op.Flags |= OpVibrato
	op.Vibrato = 0x12 // speed 1, extent 2
	fc.Apply(op)

	base := NoteFreqTable[36]
	if got := fc.Frequency(); got != base+2 {
		t.Errorf("Frequency() = %#03x, want %#03x", got, base+2)
	}
	want := []uint16{base - 2, base - 2, base + 2, base + 2, base - 2}
	if diff := cmp.Diff(want, stepFreqs(fc, len(want))); diff != "" {
		t.Errorf("vibrato mismatch (-want +got):\n%s", diff)
	}

	// Zero extent disables it.
	fc.Apply(&Operation{Flags: OpVibrato, Vibrato: 0x10})
	if got := fc.Frequency(); got != base {
		t.Errorf("Frequency() = %#03x, want %#03x", got, base)
	}
}

func TestFrequencyControlVibratoDelay(t *testing.T) {
	fc := NewToneFrequencyControl()
	fc.Apply(&Operation{Flags: OpVibrato | OpVibratoDelay, Vibrato: 0x02, VibratoDelay: 2})
	fc.Apply(noteOp(36))

	base := NoteFreqTable[36]
	want := []uint16{base, base + 2, base - 2, base + 2}
	if diff := cmp.Diff(want, stepFreqs(fc, len(want))); diff != "" {
		t.Errorf("delayed vibrato mismatch (-want +got):\n%s", diff)
	}
}

func TestFrequencyControlTune(t *testing.T) {
	fc := NewToneFrequencyControl()
	fc.Apply(&Operation{Flags: OpNote | OpTune, Note: 36, Tune: 0x7E})
	if got, want := fc.Frequency(), NoteFreqTable[36]-2; got != want {
		t.Errorf("Frequency() = %#03x, want %#03x", got, want)
	}
}

func TestFrequencyControlInstrument(t *testing.T) {
	inst := &song.Instrument{}
	inst.Sequences[song.SequenceArpeggio] = song.Sequence{Data: []uint8{0, 12}}
	inst.Sequences[song.SequencePitch] = song.Sequence{Data: []uint8{1, 1, 0xFF}}

	fc := NewToneFrequencyControl()
	fc.UseInstrument(inst)
	fc.Apply(noteOp(36))

	c, c6 := NoteFreqTable[36], NoteFreqTable[48]
	want := []uint16{c + 1, c6 + 2, c6 + 1, c6 + 1}
	if diff := cmp.Diff(want, stepFreqs(fc, len(want))); diff != "" {
		t.Errorf("instrument sequences mismatch (-want +got):\n%s", diff)
	}
}

func TestNoiseFrequencyControl(t *testing.T) {
	fc := NewNoiseFrequencyControl()
	fc.Apply(noteOp(60)) // past the last noise note, ignored
	if got := fc.Frequency(); got != 0 {
		t.Errorf("Frequency() = %d, want 0", got)
	}

	op := noteOp(song.NoteNoiseLast - 1)
	op.FreqMod, op.FreqModParam = FreqModPitchSlideUp, 1
	fc.Apply(op)
	want := []uint16{song.NoteNoiseLast, song.NoteNoiseLast}
	if diff := cmp.Diff(want, stepFreqs(fc, 2)); diff != "" {
		t.Errorf("noise slide mismatch (-want +got):\n%s", diff)
	}
	if got := ToNR43(fc.Frequency()); got != NoteNoiseTable[song.NoteNoiseLast] {
		t.Errorf("ToNR43 = %#02x", got)
	}
}
