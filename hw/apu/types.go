package apu

import "trackerboy/hw/hwdefs"

type mixer interface {
	addDelta(ch hwdefs.Channel, time uint32, delta int16)
}

// channel is implemented by the 4 sound generators.
type channel interface {
	// run advances the generator up to targetCycle (relative to the start
	// of the current frame).
	run(targetCycle uint32)
	restart()
	disable()
	disabled() bool
	output() uint8
	lengthCounter() *lengthCounter
	endFrame()
	reset()
}

// sequencerClient receives the frame sequencer triggers.
type sequencerClient interface {
	clockLength()
	clockSweep()
	clockEnvelope()
}
