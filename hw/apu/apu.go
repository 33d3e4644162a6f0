package apu

import (
	"trackerboy/emu/log"
	"trackerboy/hw/hwdefs"
	"trackerboy/hw/hwio"
)

// APU emulates the Game Boy sound hardware. Registers are accessed through
// WriteRegister/ReadRegister over $FF10-$FF3F; time advances with Step and
// frames are closed with EndFrame.
type APU struct {
	mixer *Mixer
	table *hwio.Table

	CH1   pulseChannel
	CH2   pulseChannel
	CH3   waveChannel
	CH4   noiseChannel
	Sweep sweep

	channels [hwdefs.NumChannels]channel
	seq      sequencer

	curCycle uint32
	enabled  bool

	// $FF24-$FF26
	Volume  hwio.Reg8 `hwio:"offset=0x14,wcb"`
	Panning hwio.Reg8 `hwio:"offset=0x15,wcb"`
	Status  hwio.Reg8 `hwio:"offset=0x16,rwmask=0x80,unused=0x70,rcb,pcb,wcb"`
	// $FF27-$FF2F
	Unused hwio.Device `hwio:"offset=0x17,size=9,fill=0xFF,readonly"`
}

func New(mixer *Mixer) *APU {
	a := &APU{mixer: mixer}
	a.CH1 = newPulseChannel(hwdefs.CH1, mixer)
	a.CH2 = newPulseChannel(hwdefs.CH2, mixer)
	a.CH3 = newWaveChannel(mixer)
	a.CH4 = newNoiseChannel(mixer)
	a.Sweep.pulse = &a.CH1
	a.CH1.sweep = &a.Sweep
	a.channels = [hwdefs.NumChannels]channel{&a.CH1, &a.CH2, &a.CH3, &a.CH4}
	a.seq.client = a

	a.table = hwio.NewTable("apu", hwdefs.RegsStart, int(hwdefs.RegsEnd-hwdefs.RegsStart)+1)
	a.initRegs()
	a.seq.reset()
	return a
}

// initRegs sets all registers to their power-up value and maps them.
func (a *APU) initRegs() {
	hwio.MustInitRegs(a)
	hwio.MustInitRegs(&a.CH1)
	hwio.MustInitRegs(&a.CH2)
	hwio.MustInitRegs(&a.CH3)
	hwio.MustInitRegs(&a.CH4)
	hwio.MustInitRegs(&a.Sweep)

	a.table.Reset()
	a.table.MapBank(hwdefs.RegsStart, a, 0)
	a.table.MapBank(hwdefs.NR10, &a.Sweep, 0)
	a.table.MapBank(hwdefs.RegBase(hwdefs.CH1), &a.CH1, 0)
	a.table.MapBank(hwdefs.RegBase(hwdefs.CH2), &a.CH2, 0)
	a.table.MapBank(hwdefs.RegBase(hwdefs.CH3), &a.CH3, 0)
	a.table.MapBank(hwdefs.WaveRAM, &a.CH3, 1)
	a.table.MapBank(hwdefs.RegBase(hwdefs.CH4), &a.CH4, 0)
}

// Reset puts the APU back in its power-up state: sound is off and all
// registers and wave RAM are cleared.
func (a *APU) Reset() {
	for _, ch := range a.channels {
		ch.reset()
	}
	a.Sweep.reset()
	a.initRegs()
	a.seq.reset()
	a.mixer.Reset()
	a.curCycle = 0
	a.enabled = false
}

// WriteRegister writes val into the register at addr. While the APU is
// powered off, only NR52 and wave RAM can be written.
func (a *APU) WriteRegister(addr uint16, val uint8) {
	if !a.enabled && addr != hwdefs.NR52 && addr < hwdefs.WaveRAM {
		log.ModSound.DebugZ("write ignored, apu is off").
			Hex16("addr", addr).
			Hex8("val", val).
			End()
		return
	}
	log.ModSound.DebugZ("write register").
		Hex16("addr", addr).
		Hex8("val", val).
		Uint32("cycle", a.curCycle).
		End()
	a.table.Write8(addr, val)
}

func (a *APU) ReadRegister(addr uint16) uint8 {
	return a.table.Read8(addr)
}

// NR50
func (a *APU) WriteVOLUME(_, val uint8) {
	a.mixer.setVolume(a.curCycle, val)
}

// NR51
func (a *APU) WritePANNING(_, val uint8) {
	a.mixer.setPanning(a.curCycle, val)
}

// NR52
func (a *APU) ReadSTATUS(val uint8) uint8 {
	for i, ch := range a.channels {
		if !ch.disabled() {
			val |= 1 << i
		}
	}
	return val
}

func (a *APU) PeekSTATUS(val uint8) uint8 {
	return a.ReadSTATUS(val) | a.Status.Unused
}

func (a *APU) WriteSTATUS(old, val uint8) {
	on := hwio.GetBit8(val, 7)
	wasOn := a.enabled
	switch {
	case on && !wasOn:
		a.enabled = true
		a.seq.reset()
		log.ModSound.InfoZ("sound on").End()
	case !on && wasOn:
		// Powering off clears all registers but NR52.
		for addr := hwdefs.NR10; addr < hwdefs.NR52; addr++ {
			a.table.Write8(addr, 0)
		}
		for _, ch := range a.channels {
			ch.disable()
		}
		a.enabled = false
		log.ModSound.InfoZ("sound off").End()
	}
}

// Enabled reports whether the APU is powered on (NR52 bit 7).
func (a *APU) Enabled() bool { return a.enabled }

func (a *APU) clockLength() {
	for _, ch := range a.channels {
		if ch.lengthCounter().tick() {
			ch.disable()
		}
	}
}

func (a *APU) clockSweep() {
	a.Sweep.trigger()
}

func (a *APU) clockEnvelope() {
	a.CH1.tickEnvelope()
	a.CH2.tickEnvelope()
	a.CH4.tickEnvelope()
}

// Step runs the APU for the given number of cycles. Channels are run up to
// each sequencer fence before its trigger fires.
func (a *APU) Step(cycles uint32) {
	for cycles > 0 {
		n := min(cycles, a.seq.untilFence())
		a.curCycle += n
		for _, ch := range a.channels {
			ch.run(a.curCycle)
		}
		if a.enabled {
			a.seq.step(n)
		}
		cycles -= n
	}
}

// EndFrame closes the current frame, mixing all output produced since the
// last call. It returns the number of stereo samples available in the mixer.
func (a *APU) EndFrame() int {
	n := a.mixer.endFrame(a.curCycle)
	for _, ch := range a.channels {
		ch.endFrame()
	}
	a.curCycle = 0
	return n
}

// Cycle returns the number of cycles run since the start of the frame.
func (a *APU) Cycle() uint32 { return a.curCycle }

// ChannelOutput returns the current 4-bit output level of a channel.
func (a *APU) ChannelOutput(ch hwdefs.Channel) uint8 {
	return a.channels[ch].output()
}

// ChannelEnabled reports whether a channel is playing.
func (a *APU) ChannelEnabled(ch hwdefs.Channel) bool {
	return !a.channels[ch].disabled()
}
