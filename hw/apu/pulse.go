package apu

import (
	"trackerboy/emu/log"
	"trackerboy/hw/hwdefs"
	"trackerboy/hw/hwio"
)

const pulseMultiplier = 4

// All duty waveforms packed in one word, one byte per duty setting:
//
//	              STEP: 76543210
//	Bits 24-31 - 75%    01111110 _------_
//	Bits 16-23 - 50%    11100001 -____---
//	Bits  8-15 - 25%    10000001 -______-
//	Bits  0-7  - 12.5%  10000000 _______-
const dutyMask = 0x7EE18180

const defaultDuty = 3

// pulseChannel is CH1 (with sweep) or CH2.
//
//	+---------+    +---------+    +---------+
//	|  Sweep  |--->|  Timer  |--->|  Duty   |
//	+---------+    +---------+    +---------+
//	                                   |
//	+---------+    +---------+         v
//	| Length  |--->|Envelope |------> DAC -----> (to mixer)
//	+---------+    +---------+
type pulseChannel struct {
	timer  timer
	env    envelope
	length lengthCounter
	sweep  *sweep // CH1 only

	enabled   bool
	duty      uint8
	dutyPos   uint8
	frequency uint16

	Duty     hwio.Reg8 `hwio:"offset=0x01,unused=0x3F,reset=0xC0,wcb"`
	Envelope hwio.Reg8 `hwio:"offset=0x02,wcb"`
	FreqLo   hwio.Reg8 `hwio:"offset=0x03,writeonly,wcb"`
	FreqHi   hwio.Reg8 `hwio:"offset=0x04,unused=0xBF,wcb"`
}

func newPulseChannel(ch hwdefs.Channel, mixer mixer) pulseChannel {
	pc := pulseChannel{
		timer: timer{
			channel: ch,
			mixer:   mixer,
		},
		length: lengthCounter{max: 64},
		duty:   defaultDuty,
	}
	pc.setFrequency(0)
	return pc
}

// NRx1
func (pc *pulseChannel) WriteDUTY(_, val uint8) {
	pc.duty = val >> 6
	pc.length.load(val & 0x3F)

	log.ModSound.DebugZ("write pulse duty").
		Stringer("ch", pc.timer.channel).
		Uint8("duty", pc.duty).
		End()
}

// NRx2
func (pc *pulseChannel) WriteENVELOPE(_, val uint8) {
	pc.env.write(val)
	if !pc.env.dacOn() {
		pc.disable()
	}
}

// NRx3
func (pc *pulseChannel) WriteFREQLO(_, val uint8) {
	pc.setFrequency(pc.frequency&0x700 | uint16(val))
}

// NRx4
func (pc *pulseChannel) WriteFREQHI(_, val uint8) {
	pc.setFrequency(pc.frequency&0xFF | uint16(val&0x07)<<8)
	pc.length.setEnabled(hwio.GetBit8(val, 6))
	if hwio.GetBit8(val, 7) {
		pc.restart()
	}

	log.ModSound.DebugZ("write pulse freq hi").
		Stringer("ch", pc.timer.channel).
		Hex16("freq", pc.frequency).
		Bool("trigger", hwio.GetBit8(val, 7)).
		End()
}

func (pc *pulseChannel) setFrequency(freq uint16) {
	pc.frequency = freq & hwdefs.MaxFrequency
	pc.timer.setPeriod((2048 - uint32(pc.frequency)) * pulseMultiplier)
}

func (pc *pulseChannel) restart() {
	pc.enabled = pc.env.dacOn()
	pc.length.restart()
	pc.timer.restart()
	pc.dutyPos = 0
	pc.env.restart()
	if pc.sweep != nil {
		pc.sweep.restart()
	}
	pc.updateOutput()
}

func (pc *pulseChannel) updateOutput() {
	if !pc.enabled {
		pc.timer.addOutput(0)
		return
	}
	shift := uint32(pc.duty)<<3 + uint32(pc.dutyPos)
	pc.timer.addOutput(uint8(dutyMask>>shift&1) * pc.env.volume)
}

func (pc *pulseChannel) run(targetCycle uint32) {
	for pc.timer.run(targetCycle) {
		pc.dutyPos = (pc.dutyPos + 1) & 0x07
		pc.updateOutput()
	}
}

func (pc *pulseChannel) tickEnvelope() {
	if pc.env.tick() {
		pc.updateOutput()
	}
}

func (pc *pulseChannel) disable() {
	pc.enabled = false
	pc.updateOutput()
}

func (pc *pulseChannel) disabled() bool                { return !pc.enabled }
func (pc *pulseChannel) output() uint8                 { return pc.timer.lastOutput }
func (pc *pulseChannel) lengthCounter() *lengthCounter { return &pc.length }
func (pc *pulseChannel) endFrame()                     { pc.timer.endFrame() }

func (pc *pulseChannel) reset() {
	pc.enabled = false
	pc.duty = defaultDuty
	pc.dutyPos = 0
	pc.env.reset()
	pc.length.reset()
	pc.setFrequency(0)
	pc.timer.reset()
}
