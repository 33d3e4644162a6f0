package hwdefs

// Clock speed of the Game Boy CPU, in Hz. The APU runs at the same rate.
const ClockSpeed = 4194304

// Frame sequencer: 512 Hz, 8 steps per cycle.
const (
	SequencerRate  = 512
	CyclesPerStep  = ClockSpeed / SequencerRate
	SequencerSteps = 8
)

// Common frame rates, in Hz.
const (
	FramerateDMG = 59.7
	FramerateSGB = 61.1
)

type Channel uint8

const (
	CH1 Channel = iota
	CH2
	CH3
	CH4

	NumChannels = 4
)

var channelNames = [NumChannels]string{"ch1", "ch2", "ch3", "ch4"}

func (ch Channel) String() string {
	if ch < NumChannels {
		return channelNames[ch]
	}
	return "ch?"
}

// Sound registers.
const (
	NR10 uint16 = 0xFF10 + iota
	NR11
	NR12
	NR13
	NR14
	NR20
	NR21
	NR22
	NR23
	NR24
	NR30
	NR31
	NR32
	NR33
	NR34
	NR40
	NR41
	NR42
	NR43
	NR44
	NR50
	NR51
	NR52
)

const (
	RegsStart   uint16 = NR10
	WaveRAM     uint16 = 0xFF30
	WaveRAMSize        = 16
	RegsEnd     uint16 = WaveRAM + WaveRAMSize - 1
)

// RegBase returns the address of the first register (NRx0) of a channel.
func RegBase(ch Channel) uint16 {
	return NR10 + uint16(ch)*5
}

// Hardware limits.
const (
	MaxFrequency  = 0x7FF
	MaxEnvVolume  = 0xF
	MaxTermVolume = 0x7
)
