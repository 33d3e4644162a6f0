package engine

import "trackerboy/hw/hwdefs"

// Panning of a channel, as the NR51 left/right enable bits.
type Panning uint8

const (
	PanMute   Panning = 0
	PanLeft   Panning = 1
	PanRight  Panning = 2
	PanMiddle Panning = PanLeft | PanRight
)

// ChannelState is what a channel should currently be playing. Registers are
// only written for the fields that changed since the last frame.
type ChannelState struct {
	Playing bool // a note is playing (the DAC is on)

	// Retrigger forces a channel restart even if nothing else changed.
	Retrigger bool

	Envelope  uint8 // volume envelope, or waveform id for CH3
	Timbre    uint8 // duty, wave volume or noise step width
	Panning   Panning
	Sweep     uint8 // NR10, CH1 only
	Frequency uint16
}

// DefaultChannelState returns the state a channel starts with.
func DefaultChannelState(ch hwdefs.Channel) ChannelState {
	st := ChannelState{
		Envelope: 0xF0,
		Timbre:   3,
		Panning:  PanMiddle,
	}
	switch ch {
	case hwdefs.CH3:
		st.Envelope = 0
	case hwdefs.CH4:
		st.Timbre = 0
	}
	return st
}

// GlobalState holds the settings track operations change for the whole
// runtime. They are consumed by the music runtime on the next row.
type GlobalState struct {
	PatternCommand PatternCommand
	PatternParam   uint8
	Speed          uint8 // 0 means unchanged
	Halt           bool
}

// Frame describes what the music runtime did during one frame.
type Frame struct {
	Halted            bool
	StartedNewRow     bool
	StartedNewPattern bool

	Speed uint8 // current speed
	Time  int   // frame counter, set by the engine
	Order int
	Row   int
}
