package apu

import (
	"trackerboy/emu/log"
	"trackerboy/hw/hwdefs"
	"trackerboy/hw/hwio"
)

// sweep is CH1 frequency sweep unit. It periodically adds (or subtracts) a
// fraction of the frequency to a shadow copy of it, and writes the result
// back to the generator.
//
// NR10 layout:
//
//	Bits 4-6: period (0 = disabled)
//	Bit    3: mode (1 = subtraction)
//	Bits 0-2: shift
type sweep struct {
	pulse *pulseChannel

	period   uint8
	subtract bool
	shift    uint8
	counter  uint8
	shadow   uint16

	NR10 hwio.Reg8 `hwio:"offset=0x00,unused=0x80,wcb"`
}

func (sw *sweep) WriteNR10(_, val uint8) {
	sw.shift = hwio.Field8(val, 0, 3)
	sw.subtract = hwio.GetBit8(val, 3)
	sw.period = hwio.Field8(val, 4, 3)
}

// restart copies the generator frequency into the shadow register.
func (sw *sweep) restart() {
	sw.shadow = sw.pulse.frequency
	sw.counter = 0
}

func (sw *sweep) reset() {
	sw.period = 0
	sw.subtract = false
	sw.shift = 0
	sw.counter = 0
	sw.shadow = 0
}

// trigger is called on the length+sweep sequencer fences.
func (sw *sweep) trigger() {
	if sw.period == 0 {
		return
	}

	sw.counter++
	if sw.counter < sw.period {
		return
	}
	sw.counter = 0

	if sw.shift == 0 {
		return
	}

	delta := int32(sw.shadow >> sw.shift)
	freq := int32(sw.shadow)
	if sw.subtract {
		freq -= delta
		if freq < 0 {
			return
		}
	} else {
		freq += delta
		if freq > hwdefs.MaxFrequency {
			log.ModSound.DebugZ("sweep overflow").
				Hex16("shadow", sw.shadow).
				End()
			sw.pulse.disable()
			return
		}
	}

	sw.shadow = uint16(freq)
	sw.pulse.setFrequency(sw.shadow)
}
