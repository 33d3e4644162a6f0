package engine

import "trackerboy/song"

// InstrumentRuntime plays the envelope and the panning and timbre sequences
// of an instrument into a channel state. The frequency sequences are handled
// by FrequencyControl.
type InstrumentRuntime struct {
	inst        *song.Instrument
	setEnvelope bool
	panningSeq  song.Enumerator
	timbreSeq   song.Enumerator
}

func NewInstrumentRuntime(inst *song.Instrument) *InstrumentRuntime {
	return &InstrumentRuntime{
		inst:        inst,
		setEnvelope: inst.EnvelopeEnabled,
		panningSeq:  inst.Sequence(song.SequencePanning).Enumerator(),
		timbreSeq:   inst.Sequence(song.SequenceTimbre).Enumerator(),
	}
}

func (ir *InstrumentRuntime) Instrument() *song.Instrument { return ir.inst }

// Step updates state for the next frame. The envelope is only set on the
// first step.
func (ir *InstrumentRuntime) Step(state *ChannelState) {
	if ir.setEnvelope {
		state.Envelope = ir.inst.Envelope
		ir.setEnvelope = false
	}
	if v, ok := ir.panningSeq.Next(); ok {
		state.Panning = Panning(v) & PanMiddle
	}
	if v, ok := ir.timbreSeq.Next(); ok {
		state.Timbre = v
	}
}
