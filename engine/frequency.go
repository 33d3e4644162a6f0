package engine

import (
	"trackerboy/hw/hwdefs"
	"trackerboy/song"
)

type modType uint8

const (
	modNone modType = iota
	modPortamento
	modPitchSlide
	modNoteSlide
	modArpeggio
)

// FrequencyControl computes the frequency of a channel, frame by frame, from
// the current note and the frequency effects in use.
//
// Only one modulation (portamento, pitch slide, note slide or arpeggio) is
// active at a time. Vibrato, tuning and the instrument sequences combine with
// any of them.
type FrequencyControl struct {
	maxFreq uint16
	maxNote uint8
	lookup  func(note uint8) uint16

	mod  modType
	note uint8
	tune int8
	freq int

	slideAmount uint8
	slideTarget int
	sliding     bool

	chordOffset1 uint8
	chordOffset2 uint8
	chordIndex   int
	chord        [3]uint16

	arpSeq    song.Enumerator
	pitchSeq  song.Enumerator
	instPitch int

	vibratoEnabled      bool
	vibratoDelayCounter uint8
	vibratoCounter      uint8
	vibratoValue        int8
	vibratoDelay        uint8
	vibratoParam        uint8
}

// NewToneFrequencyControl returns a frequency control for CH1, CH2 and CH3.
// The frequency goes straight into NRx3 and NRx4.
func NewToneFrequencyControl() *FrequencyControl {
	return &FrequencyControl{
		maxFreq: hwdefs.MaxFrequency,
		maxNote: song.NoteLast,
		lookup:  func(note uint8) uint16 { return NoteFreqTable[note] },
	}
}

// NewNoiseFrequencyControl returns a frequency control for CH4. Frequencies
// are note indices, to convert with ToNR43.
func NewNoiseFrequencyControl() *FrequencyControl {
	return &FrequencyControl{
		maxFreq: song.NoteNoiseLast,
		maxNote: song.NoteNoiseLast,
		lookup:  func(note uint8) uint16 { return uint16(note) },
	}
}

// Frequency returns the frequency for the current frame.
func (fc *FrequencyControl) Frequency() uint16 {
	freq := fc.freq + int(fc.tune) + fc.instPitch
	if fc.vibratoEnabled && fc.vibratoDelayCounter == 0 {
		freq += int(fc.vibratoValue)
	}
	return uint16(min(max(freq, 0), int(fc.maxFreq)))
}

func (fc *FrequencyControl) Reset() {
	*fc = FrequencyControl{
		maxFreq: fc.maxFreq,
		maxNote: fc.maxNote,
		lookup:  fc.lookup,
	}
}

// UseInstrument restarts the arpeggio and pitch sequences of inst. A nil
// instrument disables them.
func (fc *FrequencyControl) UseInstrument(inst *song.Instrument) {
	fc.instPitch = 0
	if inst == nil {
		fc.arpSeq = song.Enumerator{}
		fc.pitchSeq = song.Enumerator{}
		return
	}
	fc.arpSeq = inst.Sequence(song.SequenceArpeggio).Enumerator()
	fc.pitchSeq = inst.Sequence(song.SequencePitch).Enumerator()
}

// Apply applies the frequency settings of op.
func (fc *FrequencyControl) Apply(op *Operation) {
	if op.Has(OpTune) {
		// 0x80 is in tune.
		fc.tune = int8(op.Tune - 0x80)
	}
	if op.Has(OpVibratoDelay) {
		fc.vibratoDelay = op.VibratoDelay
	}
	if op.Has(OpVibrato) {
		fc.setVibrato(op.Vibrato)
	}

	newNote := op.Has(OpNote) && op.Note <= fc.maxNote
	freq := fc.freq
	updateFreq := false
	if newNote {
		fc.note = op.Note
		freq = int(fc.lookup(op.Note))
		updateFreq = true
		fc.instPitch = 0
		fc.vibratoDelayCounter = fc.vibratoDelay
		fc.vibratoCounter = 0
		fc.vibratoValue = int8(fc.vibratoParam & 0xF)
	}

	if op.FreqMod != FreqModNone {
		fc.clearMod()
		param := op.FreqModParam
		switch op.FreqMod {
		case FreqModArpeggio:
			if param != 0 {
				fc.mod = modArpeggio
				fc.chordOffset1 = param >> 4
				fc.chordOffset2 = param & 0xF
				fc.setChord()
			}
		case FreqModPitchSlideUp, FreqModPitchSlideDown:
			if param != 0 {
				fc.mod = modPitchSlide
				fc.slideAmount = param
				fc.slideTarget = 0
				if op.FreqMod == FreqModPitchSlideUp {
					fc.slideTarget = int(fc.maxFreq)
				}
			}
		case FreqModNoteSlideUp, FreqModNoteSlideDown:
			// Speed is 2x+1 units per frame, x being the low nibble. The
			// high nibble is the number of semitones to slide by.
			fc.mod = modNoteSlide
			fc.slideAmount = 1 + 2*(param&0xF)
			semitones := int(param >> 4)
			target := int(fc.note)
			if op.FreqMod == FreqModNoteSlideUp {
				target += semitones
			} else {
				target -= semitones
			}
			fc.note = uint8(min(max(target, 0), int(fc.maxNote)))
			fc.slideTarget = int(fc.lookup(fc.note))
		case FreqModPortamento:
			if param != 0 {
				fc.mod = modPortamento
				fc.slideAmount = param
				fc.slideTarget = fc.freq
				if newNote {
					// Slide to the new note instead of playing it.
					fc.slideTarget = freq
					updateFreq = false
				}
			}
		}
	} else if newNote {
		switch fc.mod {
		case modArpeggio:
			fc.setChord()
			fc.chordIndex = 0
		case modPortamento:
			fc.slideTarget = freq
			updateFreq = false
		case modNoteSlide:
			fc.mod = modNone
			fc.sliding = false
		}
	}

	if updateFreq {
		fc.freq = freq
	}
	switch fc.mod {
	case modPortamento, modPitchSlide, modNoteSlide:
		fc.sliding = fc.freq != fc.slideTarget
	}
}

func (fc *FrequencyControl) clearMod() {
	fc.mod = modNone
	fc.sliding = false
	fc.slideTarget = 0
	fc.chordIndex = 0
	fc.chord = [3]uint16{}
}

func (fc *FrequencyControl) setChord() {
	note := func(offset uint8) uint16 {
		return fc.lookup(uint8(min(int(fc.note)+int(offset), int(fc.maxNote))))
	}
	fc.chord = [3]uint16{note(0), note(fc.chordOffset1), note(fc.chordOffset2)}
}

func (fc *FrequencyControl) setVibrato(param uint8) {
	fc.vibratoParam = param
	extent := int8(param & 0xF)
	if extent == 0 {
		fc.vibratoEnabled = false
		fc.vibratoValue = 0
		return
	}
	fc.vibratoEnabled = true
	if fc.vibratoValue < 0 {
		fc.vibratoValue = -extent
	} else if fc.vibratoValue > 0 {
		fc.vibratoValue = extent
	}
}

// Step advances effects by one frame.
func (fc *FrequencyControl) Step() {
	if fc.vibratoEnabled {
		switch {
		case fc.vibratoDelayCounter > 0:
			fc.vibratoDelayCounter--
		case fc.vibratoCounter == 0:
			fc.vibratoValue = -fc.vibratoValue
			fc.vibratoCounter = fc.vibratoParam >> 4
		default:
			fc.vibratoCounter--
		}
	}

	switch fc.mod {
	case modPortamento, modPitchSlide, modNoteSlide:
		if fc.sliding {
			fc.slide()
		}
	case modArpeggio:
		fc.freq = int(fc.chord[fc.chordIndex])
		fc.chordIndex = (fc.chordIndex + 1) % len(fc.chord)
	}

	if v, ok := fc.arpSeq.Next(); ok {
		note := min(max(int(fc.note)+int(int8(v)), 0), int(fc.maxNote))
		fc.freq = int(fc.lookup(uint8(note)))
	}
	if v, ok := fc.pitchSeq.Next(); ok {
		fc.instPitch += int(int8(v))
	}
}

func (fc *FrequencyControl) slide() {
	amount := int(fc.slideAmount)
	if fc.freq < fc.slideTarget {
		fc.freq += amount
		if fc.freq >= fc.slideTarget {
			fc.freq = fc.slideTarget
			fc.sliding = false
		}
	} else {
		fc.freq -= amount
		if fc.freq <= fc.slideTarget {
			fc.freq = fc.slideTarget
			fc.sliding = false
		}
	}
}
