package apu

import "trackerboy/hw/hwdefs"

type trigger uint8

const (
	triggerLength trigger = iota
	triggerLengthSweep
	triggerEnvelope
)

// A fence is a point in the 8-step sequencer cycle at which a trigger fires.
type fence struct {
	step   uint8   // sequencer step of the fence
	trig   trigger // what fires at this fence
	cycles uint32  // distance to the next fence
	next   uint8   // index of the next fence
}

// Only steps 0, 2, 4, 6 and 7 do something:
//
//	Step   Length Ctr  Vol Env     Sweep
//	---------------------------------------
//	0      Clock       -           -
//	1      -           -           -
//	2      Clock       -           Clock
//	3      -           -           -
//	4      Clock       -           -
//	5      -           -           -
//	6      Clock       -           Clock
//	7      -           Clock       -
var fences = [5]fence{
	{step: 0, trig: triggerLength, cycles: 2 * hwdefs.CyclesPerStep, next: 1},
	{step: 2, trig: triggerLengthSweep, cycles: 2 * hwdefs.CyclesPerStep, next: 2},
	{step: 4, trig: triggerLength, cycles: 2 * hwdefs.CyclesPerStep, next: 3},
	{step: 6, trig: triggerLengthSweep, cycles: 1 * hwdefs.CyclesPerStep, next: 4},
	{step: 7, trig: triggerEnvelope, cycles: 1 * hwdefs.CyclesPerStep, next: 0},
}

// sequencer is the 512 Hz frame sequencer. It never steps past a fence:
// the caller loops on the remaining cycles so that the channels can be run
// up to the exact cycle the trigger fires at.
type sequencer struct {
	client sequencerClient

	index     uint8  // next fence
	remaining uint32 // cycles until the next fence
}

func (s *sequencer) reset() {
	s.index = 0
	s.remaining = hwdefs.CyclesPerStep
}

// untilFence returns the number of cycles until the next fence.
func (s *sequencer) untilFence() uint32 {
	return s.remaining
}

// step advances the sequencer by at most cycles, stopping at the next fence,
// and returns the number of cycles consumed. If the fence is reached, its
// trigger fires.
func (s *sequencer) step(cycles uint32) uint32 {
	if cycles < s.remaining {
		s.remaining -= cycles
		return cycles
	}

	consumed := s.remaining
	f := &fences[s.index]
	switch f.trig {
	case triggerLength:
		s.client.clockLength()
	case triggerLengthSweep:
		s.client.clockLength()
		s.client.clockSweep()
	case triggerEnvelope:
		s.client.clockEnvelope()
	}
	s.index = f.next
	s.remaining = f.cycles
	return consumed
}

// nextStep returns the sequencer step of the next fence.
func (s *sequencer) nextStep() uint8 {
	return fences[s.index].step
}
