package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"trackerboy/hw/hwdefs"
	"trackerboy/song"
)

func TestInstrumentRuntimeEnvelope(t *testing.T) {
	inst := &song.Instrument{EnvelopeEnabled: true, Envelope: 0xA7}
	ir := NewInstrumentRuntime(inst)

	state := DefaultChannelState(hwdefs.CH1)
	want := state
	want.Envelope = 0xA7
	ir.Step(&state)
	if diff := cmp.Diff(want, state); diff != "" {
		t.Errorf("first step mismatch (-want +got):\n%s", diff)
	}

	// Only set once.
	state = ChannelState{}
	ir.Step(&state)
	if diff := cmp.Diff(ChannelState{}, state); diff != "" {
		t.Errorf("second step mismatch (-want +got):\n%s", diff)
	}
}

func TestInstrumentRuntimeNoop(t *testing.T) {
	ir := NewInstrumentRuntime(&song.Instrument{})
	want := DefaultChannelState(hwdefs.CH1)
	state := want
	for range 5 {
		ir.Step(&state)
	}
	if diff := cmp.Diff(want, state); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestInstrumentRuntimeSequences(t *testing.T) {
	inst := &song.Instrument{}
	inst.Sequences[song.SequenceTimbre] = song.Sequence{Data: []uint8{0, 1, 2, 3, 0}}
	inst.Sequences[song.SequencePanning] = song.Sequence{Data: []uint8{1, 2, 3}}
	ir := NewInstrumentRuntime(inst)

	var state ChannelState
	var timbres []uint8
	var pans []Panning
	for range 6 {
		ir.Step(&state)
		timbres = append(timbres, state.Timbre)
		pans = append(pans, state.Panning)
	}

	if diff := cmp.Diff([]uint8{0, 1, 2, 3, 0, 0}, timbres); diff != "" {
		t.Errorf("timbres mismatch (-want +got):\n%s", diff)
	}
	wantPans := []Panning{PanLeft, PanRight, PanMiddle, PanMiddle, PanMiddle, PanMiddle}
	if diff := cmp.Diff(wantPans, pans); diff != "" {
		t.Errorf("panning mismatch (-want +got):\n%s", diff)
	}
}
