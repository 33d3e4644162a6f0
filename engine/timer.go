package engine

import "trackerboy/song"

// unitSpeed is one frame in the Q5.3 speed format.
const unitSpeed = 0x08

// Timer counts frames against a fractional period (the song speed, in Q5.3
// frames per row). A period of 2.5 gives rows of 3 and 2 frames, alternately.
type Timer struct {
	counter uint8
	period  uint8
}

func NewTimer() Timer {
	return Timer{period: song.DefaultSpeed}
}

// Active reports whether the current frame starts a new period.
func (t *Timer) Active() bool {
	return t.counter < unitSpeed
}

func (t *Timer) Period() uint8 { return t.period }

// SetPeriod sets the period, clamped to [song.SpeedMin, song.SpeedMax]. The
// counter is kept, but wrapped if it exceeds the new period.
func (t *Timer) SetPeriod(period uint8) {
	t.period = min(max(period, song.SpeedMin), song.SpeedMax)
	if t.counter >= t.period {
		t.counter = 0
	}
}

// Reset puts the timer back at the start of a period.
func (t *Timer) Reset() {
	t.counter = 0
}

// Step advances the timer by one frame. It returns true when the period
// elapsed, i.e. this was the last frame of the period.
func (t *Timer) Step() bool {
	t.counter += unitSpeed
	if t.counter >= t.period {
		t.counter -= t.period
		return true
	}
	return false
}
