package apu

import (
	"trackerboy/emu/log"
	"trackerboy/hw/hwdefs"
	"trackerboy/hw/hwio"
)

const waveMultiplier = 2

// Output level selected by NR32 bits 5-6.
const (
	waveMute uint8 = iota
	waveFull
	waveHalf
	waveQuarter
)

// waveChannel is CH3. It plays the 32 4-bit samples stored in wave RAM,
// high nibble first.
type waveChannel struct {
	timer  timer
	length lengthCounter

	enabled   bool
	dacOn     bool
	level     uint8
	index     uint8
	frequency uint16

	DAC    hwio.Reg8 `hwio:"offset=0x00,unused=0x7F,wcb"`
	Length hwio.Reg8 `hwio:"offset=0x01,writeonly,wcb"`
	Level  hwio.Reg8 `hwio:"offset=0x02,unused=0x9F,reset=0x20,wcb"`
	FreqLo hwio.Reg8 `hwio:"offset=0x03,writeonly,wcb"`
	FreqHi hwio.Reg8 `hwio:"offset=0x04,unused=0xBF,wcb"`

	// $FF30-$FF3F
	RAM hwio.Mem `hwio:"bank=1,offset=0x00,size=0x10"`
}

func newWaveChannel(mixer mixer) waveChannel {
	wc := waveChannel{
		timer: timer{
			channel: hwdefs.CH3,
			mixer:   mixer,
		},
		length: lengthCounter{max: 256},
		level:  waveFull,
	}
	wc.setFrequency(0)
	return wc
}

// NR30
func (wc *waveChannel) WriteDAC(_, val uint8) {
	wc.dacOn = hwio.GetBit8(val, 7)
	if !wc.dacOn {
		wc.disable()
	}
}

// NR31
func (wc *waveChannel) WriteLENGTH(_, val uint8) {
	wc.length.load(val)
}

// NR32
func (wc *waveChannel) WriteLEVEL(_, val uint8) {
	wc.level = hwio.Field8(val, 5, 2)
	wc.updateOutput()
}

// NR33
func (wc *waveChannel) WriteFREQLO(_, val uint8) {
	wc.setFrequency(wc.frequency&0x700 | uint16(val))
}

// NR34
func (wc *waveChannel) WriteFREQHI(_, val uint8) {
	wc.setFrequency(wc.frequency&0xFF | uint16(val&0x07)<<8)
	wc.length.setEnabled(hwio.GetBit8(val, 6))
	if hwio.GetBit8(val, 7) {
		wc.restart()
	}

	log.ModSound.DebugZ("write wave freq hi").
		Hex16("freq", wc.frequency).
		Bool("trigger", hwio.GetBit8(val, 7)).
		End()
}

func (wc *waveChannel) setFrequency(freq uint16) {
	wc.frequency = freq & hwdefs.MaxFrequency
	wc.timer.setPeriod((2048 - uint32(wc.frequency)) * waveMultiplier)
}

// sample returns the current 4-bit sample, before volume shift.
func (wc *waveChannel) sample() uint8 {
	s := wc.RAM.Data[wc.index>>1]
	if wc.index&1 != 0 {
		return s & 0x0F
	}
	return s >> 4
}

func (wc *waveChannel) updateOutput() {
	if !wc.enabled {
		wc.timer.addOutput(0)
		return
	}

	var out uint8
	switch wc.level {
	case waveMute:
		out = 0
	case waveFull:
		out = wc.sample()
	case waveHalf:
		out = wc.sample() >> 1
	case waveQuarter:
		out = wc.sample() >> 2
	}
	wc.timer.addOutput(out)
}

func (wc *waveChannel) restart() {
	wc.enabled = wc.dacOn
	wc.length.restart()
	wc.timer.restart()
	wc.index = 0
	wc.updateOutput()
}

func (wc *waveChannel) run(targetCycle uint32) {
	for wc.timer.run(targetCycle) {
		wc.index = (wc.index + 1) & 0x1F
		wc.updateOutput()
	}
}

func (wc *waveChannel) disable() {
	wc.enabled = false
	wc.updateOutput()
}

func (wc *waveChannel) disabled() bool                { return !wc.enabled }
func (wc *waveChannel) output() uint8                 { return wc.timer.lastOutput }
func (wc *waveChannel) lengthCounter() *lengthCounter { return &wc.length }
func (wc *waveChannel) endFrame()                     { wc.timer.endFrame() }

func (wc *waveChannel) reset() {
	wc.enabled = false
	wc.dacOn = false
	wc.level = waveFull
	wc.index = 0
	wc.length.reset()
	wc.setFrequency(0)
	wc.timer.reset()
	clear(wc.RAM.Data)
}
