package engine

import "trackerboy/song"

//go:generate go tool stringer -type=PatternCommand,FreqMod -output=enums_string.go

// PatternCommand changes the row fetched after the current one.
type PatternCommand uint8

const (
	PatternNone PatternCommand = iota // continue
	PatternNext                       // go to the next order, at row param
	PatternJump                       // go to order param, at row 0
)

// FreqMod is a frequency modulation effect.
type FreqMod uint8

const (
	FreqModNone FreqMod = iota
	FreqModArpeggio
	FreqModPitchSlideUp
	FreqModPitchSlideDown
	FreqModPortamento
	FreqModNoteSlideUp
	FreqModNoteSlideDown
)

// OpFlags tell which optional fields of an Operation are set.
type OpFlags uint16

const (
	OpNote OpFlags = 1 << iota
	OpInstrument
	OpSpeed
	OpDuration
	OpEnvelope
	OpTimbre
	OpPanning
	OpSweep
	OpVibrato
	OpVibratoDelay
	OpTune
)

// An Operation is a track row converted to the changes it makes to the
// runtime. Optional fields are only meaningful when their flag is set: an
// unset field leaves the current setting unchanged.
type Operation struct {
	Flags OpFlags

	PatternCommand PatternCommand
	PatternParam   uint8
	Halt           bool

	// Frames to wait before applying the operation (Gxx).
	Delay uint8

	Note       uint8
	Instrument uint8
	Speed      uint8
	Duration   uint8 // frames before the note is cut (Sxx)
	Envelope   uint8
	Timbre     uint8
	Panning    Panning
	Sweep      uint8

	FreqMod      FreqMod
	FreqModParam uint8

	Vibrato      uint8
	VibratoDelay uint8
	Tune         uint8
}

func (op *Operation) Has(f OpFlags) bool { return op.Flags&f != 0 }

func (op *Operation) set(f OpFlags) { op.Flags |= f }

// ParseOperation converts a track row to an operation.
func ParseOperation(row song.TrackRow) Operation {
	var op Operation

	if note, ok := row.QueryNote(); ok {
		if note == song.NoteCut {
			// Same as S00, so a Sxx in the row takes precedence.
			op.Duration = 0
			op.set(OpDuration)
		} else {
			op.Note = note
			op.set(OpNote)
		}
	}

	if inst, ok := row.QueryInstrument(); ok {
		op.Instrument = inst
		op.set(OpInstrument)
	}

	for i := range song.MaxEffects {
		eff, ok := row.QueryEffect(i)
		if !ok {
			continue
		}
		op.applyEffect(eff)
	}
	return op
}

func (op *Operation) applyEffect(eff song.Effect) {
	param := eff.Param
	switch eff.Type {
	case song.EffectPatternGoto:
		op.PatternCommand = PatternJump
		op.PatternParam = param
	case song.EffectPatternHalt:
		op.Halt = true
	case song.EffectPatternSkip:
		op.PatternCommand = PatternNext
		op.PatternParam = param
	case song.EffectSetTempo:
		if param >= song.SpeedMin && param <= song.SpeedMax {
			op.Speed = param
			op.set(OpSpeed)
		}
	case song.EffectSetEnvelope:
		op.Envelope = param
		op.set(OpEnvelope)
	case song.EffectSetTimbre:
		op.Timbre = param
		op.set(OpTimbre)
	case song.EffectSetPanning:
		if pan, ok := panningFromParam(param); ok {
			op.Panning = pan
			op.set(OpPanning)
		}
	case song.EffectSetSweep:
		op.Sweep = param
		op.set(OpSweep)
	case song.EffectDelayedCut:
		op.Duration = param
		op.set(OpDuration)
	case song.EffectDelayedNote:
		op.Delay = param
	case song.EffectArpeggio:
		op.FreqMod, op.FreqModParam = FreqModArpeggio, param
	case song.EffectPitchUp:
		op.FreqMod, op.FreqModParam = FreqModPitchSlideUp, param
	case song.EffectPitchDown:
		op.FreqMod, op.FreqModParam = FreqModPitchSlideDown, param
	case song.EffectAutoPortamento:
		op.FreqMod, op.FreqModParam = FreqModPortamento, param
	case song.EffectNoteSlideUp:
		op.FreqMod, op.FreqModParam = FreqModNoteSlideUp, param
	case song.EffectNoteSlideDown:
		op.FreqMod, op.FreqModParam = FreqModNoteSlideDown, param
	case song.EffectVibrato:
		op.Vibrato = param
		op.set(OpVibrato)
	case song.EffectVibratoDelay:
		op.VibratoDelay = param
		op.set(OpVibratoDelay)
	case song.EffectTuning:
		op.Tune = param
		op.set(OpTune)
	case song.EffectSfx, song.EffectLock:
		// reserved, no runtime effect
	}
}

// panningFromParam decodes an Ixy parameter: x enables the left terminal, y
// the right one. Other values are ignored.
func panningFromParam(param uint8) (Panning, bool) {
	switch param {
	case 0x00:
		return PanMute, true
	case 0x01:
		return PanRight, true
	case 0x10:
		return PanLeft, true
	case 0x11:
		return PanMiddle, true
	}
	return 0, false
}
