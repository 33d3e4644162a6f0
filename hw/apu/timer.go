package apu

import "trackerboy/hw/hwdefs"

// timer is the frequency counter of a generator. It counts down from period
// and wraps, the owning channel advancing its phase on each wrap. It also
// forwards output level changes to the mixer, timestamped with the cycle
// the timer is at.
type timer struct {
	previousCycle uint32
	counter       uint32
	period        uint32
	lastOutput    uint8

	channel hwdefs.Channel
	mixer   mixer
}

func (t *timer) reset() {
	t.counter = t.period
	t.previousCycle = 0
	t.lastOutput = 0
}

// restart reloads the counter, so that the next wrap happens one full period
// from now.
func (t *timer) restart() {
	t.counter = t.period
}

func (t *timer) setPeriod(period uint32) {
	t.period = max(period, 1)
}

func (t *timer) addOutput(output uint8) {
	if output != t.lastOutput {
		t.mixer.addDelta(t.channel, t.previousCycle, int16(output)-int16(t.lastOutput))
		t.lastOutput = output
	}
}

// run runs the timer until it either wraps (returns true) or reaches
// targetCycle (returns false). Callers loop until false is returned.
func (t *timer) run(targetCycle uint32) bool {
	cyclesToRun := targetCycle - t.previousCycle

	if cyclesToRun >= t.counter {
		t.previousCycle += t.counter
		t.counter = t.period
		return true
	}

	t.counter -= cyclesToRun
	t.previousCycle = targetCycle
	return false
}

func (t *timer) endFrame() {
	t.previousCycle = 0
}
