package engine

import (
	"trackerboy/emu/log"
	"trackerboy/hw/hwdefs"
	"trackerboy/song"
)

// RuntimeContext is what the runtimes need from the outside world.
type RuntimeContext struct {
	Regs        RegisterWriter
	Instruments song.InstrumentTable
	Waveforms   song.WaveformTable
}

// TrackControl turns the rows of one channel's track into channel states.
type TrackControl struct {
	ch hwdefs.Channel
	fc *FrequencyControl

	op      Operation
	pending bool  // op is waiting to be applied
	delay   uint8 // frames left before op is applied

	inst *song.Instrument
	ir   *InstrumentRuntime

	cutPending bool
	cutCounter uint8
	playing    bool

	// Settings restored on each note.
	envelope uint8
	timbre   uint8
	panning  Panning
}

// NewTrackControl returns the track control of channel ch. CH4 uses noise
// frequencies, other channels use tone frequencies.
func NewTrackControl(ch hwdefs.Channel) *TrackControl {
	fc := NewToneFrequencyControl()
	if ch == hwdefs.CH4 {
		fc = NewNoiseFrequencyControl()
	}
	tc := &TrackControl{ch: ch, fc: fc}
	tc.Reset()
	return tc
}

func (tc *TrackControl) Reset() {
	def := DefaultChannelState(tc.ch)
	*tc = TrackControl{
		ch:       tc.ch,
		fc:       tc.fc,
		envelope: def.Envelope,
		timbre:   def.Timbre,
		panning:  def.Panning,
	}
	tc.fc.Reset()
}

// SetRow schedules the operation of row. Empty rows are ignored.
func (tc *TrackControl) SetRow(row song.TrackRow) {
	if row.IsEmpty() {
		return
	}
	tc.op = ParseOperation(row)
	tc.pending = true
	tc.delay = tc.op.Delay
}

// Step advances the track by one frame, updating the channel state and the
// global state.
func (tc *TrackControl) Step(ctx *RuntimeContext, state *ChannelState, global *GlobalState) {
	if tc.pending {
		if tc.delay == 0 {
			tc.apply(ctx, state, global)
			tc.pending = false
		} else {
			tc.delay--
		}
	}

	if tc.playing {
		if tc.cutPending {
			if tc.cutCounter == 0 {
				tc.playing = false
				tc.cutPending = false
			} else {
				tc.cutCounter--
			}
		}
		if tc.ir != nil {
			tc.ir.Step(state)
		}
		tc.fc.Step()
		state.Frequency = tc.fc.Frequency()
	}
	state.Playing = tc.playing
}

func (tc *TrackControl) apply(ctx *RuntimeContext, state *ChannelState, global *GlobalState) {
	op := &tc.op

	if op.PatternCommand != PatternNone {
		global.PatternCommand = op.PatternCommand
		global.PatternParam = op.PatternParam
	}
	if op.Has(OpSpeed) {
		global.Speed = op.Speed
	}
	if op.Halt {
		global.Halt = true
	}

	restart := false
	if op.Has(OpInstrument) {
		if inst, ok := ctx.Instruments.Instrument(op.Instrument); ok {
			tc.inst = inst
			restart = true
		} else {
			log.ModEngine.DebugZ("missing instrument").
				Stringer("ch", tc.ch).
				Uint8("id", op.Instrument).
				End()
		}
	}

	if op.Has(OpEnvelope) {
		tc.envelope = op.Envelope
		state.Envelope = op.Envelope
	}
	if op.Has(OpTimbre) {
		tc.timbre = op.Timbre
		state.Timbre = op.Timbre
	}
	if op.Has(OpPanning) {
		tc.panning = op.Panning
		state.Panning = op.Panning
	}
	if op.Has(OpSweep) && tc.ch == hwdefs.CH1 {
		state.Sweep = op.Sweep
	}

	if op.Has(OpNote) {
		restart = true
		tc.playing = true
		state.Envelope = tc.envelope
		state.Timbre = tc.timbre
		state.Panning = tc.panning
	}
	state.Retrigger = restart

	tc.cutPending = op.Has(OpDuration)
	tc.cutCounter = op.Duration

	if restart && tc.inst != nil {
		tc.ir = NewInstrumentRuntime(tc.inst)
		tc.fc.UseInstrument(tc.inst)
	}
	tc.fc.Apply(op)
}
