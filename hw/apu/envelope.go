package apu

import "trackerboy/hw/hwdefs"

// envelope is the volume unit of CH1, CH2 and CH4, clocked at 64 Hz by the
// frame sequencer.
//
// NRx2 layout:
//
//	Bits 4-7: initial volume
//	Bit    3: mode (1 = amplify)
//	Bits 0-2: period (0 = disabled)
//
// The register is only latched on restart: writing it while the channel plays
// doesn't change the current volume.
type envelope struct {
	register uint8

	volume  uint8
	amplify bool
	period  uint8
	counter uint8
}

func (env *envelope) write(val uint8) {
	env.register = val
}

// dacOn reports whether the channel DAC is powered, that is whether the
// initial volume or the mode bit is set.
func (env *envelope) dacOn() bool {
	return env.register&0xF8 != 0
}

func (env *envelope) restart() {
	env.volume = env.register >> 4
	env.amplify = env.register&0x08 != 0
	env.period = env.register & 0x07
	env.counter = 0
}

func (env *envelope) reset() {
	*env = envelope{}
}

// tick clocks the envelope and reports whether the volume changed.
func (env *envelope) tick() bool {
	if env.period == 0 {
		return false
	}

	env.counter++
	if env.counter < env.period {
		return false
	}
	env.counter = 0

	switch {
	case env.amplify && env.volume < hwdefs.MaxEnvVolume:
		env.volume++
		return true
	case !env.amplify && env.volume > 0:
		env.volume--
		return true
	}
	return false
}
