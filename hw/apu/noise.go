package apu

import (
	"trackerboy/emu/log"
	"trackerboy/hw/hwdefs"
	"trackerboy/hw/hwio"
)

const lfsrInit = 0x7FFF

// Divisor ratio table, indexed by NR43 bits 0-2.
var drfTable = [8]uint32{8, 16, 32, 48, 64, 80, 96, 112}

// noiseChannel is CH4. It outputs the complement of bit 0 of a 15-bit (or
// 7-bit) linear-feedback shift register.
//
//	      Timer --> Shift Register   Length Counter
//	                    |                |
//	                    v                v
//	Envelope -------> Gate ----------> Gate --> (to mixer)
//
// NR43 layout:
//
//	Bits 4-7: shift clock frequency (scf)
//	Bit    3: width (1 = 7-bit)
//	Bits 0-2: divisor ratio (drf)
type noiseChannel struct {
	timer  timer
	env    envelope
	length lengthCounter

	enabled bool
	narrow  bool
	lfsr    uint16

	Length   hwio.Reg8 `hwio:"offset=0x01,writeonly,wcb"`
	Envelope hwio.Reg8 `hwio:"offset=0x02,wcb"`
	Poly     hwio.Reg8 `hwio:"offset=0x03,wcb"`
	Control  hwio.Reg8 `hwio:"offset=0x04,unused=0xBF,wcb"`
}

func newNoiseChannel(mixer mixer) noiseChannel {
	nc := noiseChannel{
		timer: timer{
			channel: hwdefs.CH4,
			mixer:   mixer,
		},
		length: lengthCounter{max: 64},
		lfsr:   lfsrInit,
	}
	nc.WritePOLY(0, 0)
	return nc
}

// NR41
func (nc *noiseChannel) WriteLENGTH(_, val uint8) {
	nc.length.load(val & 0x3F)
}

// NR42
func (nc *noiseChannel) WriteENVELOPE(_, val uint8) {
	nc.env.write(val)
	if !nc.env.dacOn() {
		nc.disable()
	}
}

// NR43
func (nc *noiseChannel) WritePOLY(_, val uint8) {
	drf := hwio.Field8(val, 0, 3)
	scf := hwio.Field8(val, 4, 4)
	nc.narrow = hwio.GetBit8(val, 3)
	nc.timer.setPeriod(drfTable[drf] << (scf + 1))

	log.ModSound.DebugZ("write noise poly").
		Uint8("drf", drf).
		Uint8("scf", scf).
		Bool("7bit", nc.narrow).
		End()
}

// NR44
func (nc *noiseChannel) WriteCONTROL(_, val uint8) {
	nc.length.setEnabled(hwio.GetBit8(val, 6))
	if hwio.GetBit8(val, 7) {
		nc.restart()
	}
}

func (nc *noiseChannel) restart() {
	nc.enabled = nc.env.dacOn()
	nc.length.restart()
	nc.timer.restart()
	nc.lfsr = lfsrInit
	nc.env.restart()
	nc.updateOutput()
}

// shift clocks the LFSR once.
func (nc *noiseChannel) shift() {
	feedback := (nc.lfsr ^ nc.lfsr>>1) & 1
	nc.lfsr = nc.lfsr>>1 | feedback<<14
	if nc.narrow {
		nc.lfsr = nc.lfsr&^0x40 | feedback<<6
	}
}

func (nc *noiseChannel) updateOutput() {
	if !nc.enabled {
		nc.timer.addOutput(0)
		return
	}
	nc.timer.addOutput(uint8(^nc.lfsr&1) * nc.env.volume)
}

func (nc *noiseChannel) run(targetCycle uint32) {
	for nc.timer.run(targetCycle) {
		nc.shift()
		nc.updateOutput()
	}
}

func (nc *noiseChannel) tickEnvelope() {
	if nc.env.tick() {
		nc.updateOutput()
	}
}

func (nc *noiseChannel) disable() {
	nc.enabled = false
	nc.updateOutput()
}

func (nc *noiseChannel) disabled() bool                { return !nc.enabled }
func (nc *noiseChannel) output() uint8                 { return nc.timer.lastOutput }
func (nc *noiseChannel) lengthCounter() *lengthCounter { return &nc.length }
func (nc *noiseChannel) endFrame()                     { nc.timer.endFrame() }

func (nc *noiseChannel) reset() {
	nc.enabled = false
	nc.lfsr = lfsrInit
	nc.env.reset()
	nc.length.reset()
	nc.WritePOLY(0, 0)
	nc.timer.reset()
}
