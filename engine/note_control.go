package engine

import "trackerboy/song"

// NoteControl schedules note triggers and cuts a number of frames ahead.
//
// When a trigger and a cut fall on the same frame, the trigger happens first
// so the net result is a cut.
type NoteControl struct {
	triggerPending bool
	triggerCounter uint8
	note           uint8

	cutPending bool
	cutCounter uint8

	playing bool
}

// NoteTrigger schedules note to play in delay frames. Triggering song.NoteCut
// is the same as calling NoteCut.
func (nc *NoteControl) NoteTrigger(note, delay uint8) {
	if note == song.NoteCut {
		nc.triggerPending = false
		nc.NoteCut(delay)
		return
	}
	nc.triggerPending = true
	nc.triggerCounter = delay
	nc.note = note
}

// NoteCut schedules a cut in delay frames, replacing any pending cut.
func (nc *NoteControl) NoteCut(delay uint8) {
	nc.cutPending = true
	nc.cutCounter = delay
}

// Step advances one frame. It returns the note triggered during this frame,
// if any.
func (nc *NoteControl) Step() (note uint8, ok bool) {
	if nc.triggerPending {
		if nc.triggerCounter == 0 {
			nc.triggerPending = false
			nc.playing = true
			note, ok = nc.note, true
		} else {
			nc.triggerCounter--
		}
	}

	if nc.cutPending {
		if nc.cutCounter == 0 {
			nc.cutPending = false
			nc.playing = false
			note, ok = 0, false
		} else {
			nc.cutCounter--
		}
	}
	return note, ok
}

func (nc *NoteControl) IsPlaying() bool { return nc.playing }

func (nc *NoteControl) Reset() {
	*nc = NoteControl{}
}
