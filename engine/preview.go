package engine

import (
	"trackerboy/hw/hwdefs"
	"trackerboy/song"
)

// InstrumentPreview plays notes with an instrument on a single channel,
// outside of any song. The channel must be unlocked from the music runtime
// while previewing.
type InstrumentPreview struct {
	ch   hwdefs.Channel
	inst *song.Instrument

	nc NoteControl
	fc *FrequencyControl
	ir *InstrumentRuntime

	last  ChannelState
	reset bool
}

// NewInstrumentPreview returns a preview of inst. When inst is nil, notes are
// played on channel ch with the default channel settings.
func NewInstrumentPreview(inst *song.Instrument, ch hwdefs.Channel) *InstrumentPreview {
	if inst != nil {
		ch = inst.Channel
	}
	fc := NewToneFrequencyControl()
	if ch == hwdefs.CH4 {
		fc = NewNoiseFrequencyControl()
	}
	return &InstrumentPreview{
		ch:    ch,
		inst:  inst,
		fc:    fc,
		last:  DefaultChannelState(ch),
		reset: true,
	}
}

func (p *InstrumentPreview) Channel() hwdefs.Channel { return p.ch }

func (p *InstrumentPreview) Instrument() *song.Instrument { return p.inst }

func (p *InstrumentPreview) Playing() bool { return p.nc.IsPlaying() }

// PlayNote triggers note on the next step.
func (p *InstrumentPreview) PlayNote(note uint8) {
	p.nc.NoteTrigger(note, 0)
}

// Stop cuts the note on the next step.
func (p *InstrumentPreview) Stop() {
	p.nc.NoteCut(0)
}

// Step plays one frame, writing the registers of the preview channel.
func (p *InstrumentPreview) Step(ctx *RuntimeContext) {
	if p.reset {
		InitChannel(ctx.Regs, ctx.Waveforms, p.ch, &p.last)
		p.reset = false
	}

	state := p.last
	if note, ok := p.nc.Step(); ok {
		if p.inst != nil {
			p.ir = NewInstrumentRuntime(p.inst)
			p.fc.UseInstrument(p.inst)
		}
		p.fc.Apply(&Operation{Flags: OpNote, Note: note})
		state.Retrigger = true
	}

	state.Playing = p.nc.IsPlaying()
	if state.Playing {
		if p.ir != nil {
			p.ir.Step(&state)
		}
		p.fc.Step()
		state.Frequency = p.fc.Frequency()
	}

	UpdateChannel(ctx.Regs, ctx.Waveforms, p.ch, &p.last, &state)
	state.Retrigger = false
	p.last = state
}
