package engine

import (
	"trackerboy/emu/log"
	"trackerboy/hw/hwdefs"
	"trackerboy/song"
)

// RegisterWriter gives access to the sound registers. Both hw.Synth and
// apu.APU implement it.
type RegisterWriter interface {
	WriteRegister(addr uint16, val uint8)
	ReadRegister(addr uint16) uint8
}

func terminalMask(ch hwdefs.Channel) uint8 { return 0x11 << ch }

// UpdateChannel writes the registers of channel ch needed to go from the last
// state to state.
//
// Channels are silenced by clearing their NR51 terminal bits rather than by
// turning off their DAC, so a note trigger only has to restore the panning.
func UpdateChannel(w RegisterWriter, waves song.WaveformTable, ch hwdefs.Channel, last, state *ChannelState) {
	base := hwdefs.RegBase(ch)
	retrigger := state.Retrigger

	writePanning := last.Panning != state.Panning
	writeEnvelope := last.Envelope != state.Envelope

	if last.Playing != state.Playing {
		if state.Playing {
			writePanning = true
			if ch != hwdefs.CH3 {
				writeEnvelope = true
			}
		} else {
			nr51 := w.ReadRegister(hwdefs.NR51)
			w.WriteRegister(hwdefs.NR51, nr51&^terminalMask(ch))
		}
	}

	if ch == hwdefs.CH1 && last.Sweep != state.Sweep {
		w.WriteRegister(hwdefs.NR10, state.Sweep)
	}

	if writeEnvelope {
		if ch == hwdefs.CH3 {
			if wave, ok := waves.Waveform(state.Envelope); ok {
				w.WriteRegister(hwdefs.NR30, 0x00)
				for i, b := range wave.Data {
					w.WriteRegister(hwdefs.WaveRAM+uint16(i), b)
				}
				w.WriteRegister(hwdefs.NR30, 0x80)
				retrigger = true
			} else {
				log.ModEngine.DebugZ("missing waveform").Uint8("id", state.Envelope).End()
			}
		} else {
			w.WriteRegister(base+2, state.Envelope)
			retrigger = true
		}
	}

	// Panning is only written while playing, or a cut note would sound again.
	if state.Playing && writePanning {
		nr51 := w.ReadRegister(hwdefs.NR51) &^ terminalMask(ch)
		switch state.Panning {
		case PanMute:
		case PanLeft:
			nr51 |= 0x10 << ch
		case PanRight:
			nr51 |= 0x01 << ch
		default:
			nr51 |= 0x11 << ch
		}
		w.WriteRegister(hwdefs.NR51, nr51)
	}

	timbreChanged := last.Timbre != state.Timbre
	freqChanged := last.Frequency != state.Frequency

	if ch == hwdefs.CH4 {
		// Timbre and frequency share NR43.
		if timbreChanged || freqChanged {
			var nr43 uint8
			if freqChanged {
				nr43 = ToNR43(state.Frequency)
				if state.Timbre != 0 {
					nr43 |= 0x08
				}
			} else {
				nr43 = w.ReadRegister(hwdefs.NR43)
				if state.Timbre != 0 {
					nr43 |= 0x08
				} else {
					nr43 &^= 0x08
				}
			}
			w.WriteRegister(hwdefs.NR43, nr43)
		}
		if retrigger {
			w.WriteRegister(hwdefs.NR44, 0x80)
		}
		return
	}

	if timbreChanged {
		if ch == hwdefs.CH3 {
			w.WriteRegister(hwdefs.NR32, waveVolume(state.Timbre))
		} else {
			w.WriteRegister(base+1, (state.Timbre&3)<<6)
		}
	}

	msb := uint8(state.Frequency >> 8 & 0x07)
	switch {
	case freqChanged:
		w.WriteRegister(base+3, uint8(state.Frequency))
		if retrigger {
			msb |= 0x80
		}
		w.WriteRegister(base+4, msb)
	case retrigger:
		w.WriteRegister(base+4, 0x80|msb)
	}
}

// waveVolume converts a CH3 timbre to the NR32 output level.
func waveVolume(timbre uint8) uint8 {
	switch timbre {
	case 0:
		return 0x00 // mute
	case 1:
		return 0x60 // 25%
	case 2:
		return 0x40 // 50%
	}
	return 0x20
}

// InitChannel writes all the registers of channel ch for state.
func InitChannel(w RegisterWriter, waves song.WaveformTable, ch hwdefs.Channel, state *ChannelState) {
	fake := ChannelState{
		Playing:   !state.Playing,
		Envelope:  ^state.Envelope,
		Timbre:    ^state.Timbre,
		Panning:   ^state.Panning,
		Sweep:     ^state.Sweep,
		Frequency: ^state.Frequency,
	}
	UpdateChannel(w, waves, ch, &fake, state)
}

// ClearChannel zeroes the registers of channel ch and mutes it.
func ClearChannel(w RegisterWriter, ch hwdefs.Channel) {
	base := hwdefs.RegBase(ch)
	for i := range uint16(5) {
		w.WriteRegister(base+i, 0)
	}
	nr51 := w.ReadRegister(hwdefs.NR51)
	w.WriteRegister(hwdefs.NR51, nr51&^terminalMask(ch))
}
