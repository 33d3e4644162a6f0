package apu

import (
	"cmp"
	"slices"

	"github.com/arl/blip"

	"trackerboy/emu/log"
	"trackerboy/hw/hwdefs"
)

const (
	MaxSampleRate     = 96000
	DefaultSampleRate = 44100
)

// Amplitude of one output level step at maximum terminal volume: a channel
// at level 15 on a terminal at volume 7 contributes a fifth of full scale.
const ampUnit = 32767.0 * 0.2 / (15 * 8)

type mixEventKind uint8

const (
	evDelta mixEventKind = iota
	evPanning
	evVolume
)

type mixEvent struct {
	time  uint32
	kind  mixEventKind
	ch    hwdefs.Channel
	value int16
}

// Mixer sums the channel outputs into the 2 output terminals, according to
// NR51 (panning) and NR50 (terminal volumes), and resamples the result with
// a band-limited synthesis buffer per terminal.
//
// Channels report level changes as timestamped deltas during the frame; the
// mix is only computed at the end of the frame.
type Mixer struct {
	bufleft  *blip.Buffer
	bufright *blip.Buffer
	outbuf   []int16
	nsamples int

	events []mixEvent

	curOutput [hwdefs.NumChannels]int16
	panning   uint8
	volLeft   uint8
	volRight  uint8
	gain      float64

	prevOutleft  int32
	prevOutright int32

	sampleRate float64
	bufsize    int
}

// NewMixer returns a mixer producing stereo samples at sampleRate, with room
// for frames up to frameSamples samples.
func NewMixer(sampleRate, frameSamples int) *Mixer {
	m := &Mixer{gain: 1.0}
	m.Resize(sampleRate, frameSamples)
	return m
}

// Resize changes the output sample rate and the maximum frame size.
func (m *Mixer) Resize(sampleRate, frameSamples int) {
	m.sampleRate = float64(min(max(sampleRate, 1), MaxSampleRate))
	// Leave room for a frame worth of samples that hasn't been read yet.
	m.bufsize = 2*frameSamples + 16
	m.bufleft = blip.NewBuffer(m.bufsize)
	m.bufright = blip.NewBuffer(m.bufsize)
	m.outbuf = make([]int16, m.bufsize*2)

	// Keep the mix settings and the channel levels, the APU still has them.
	panning, volLeft, volRight, cur := m.panning, m.volLeft, m.volRight, m.curOutput
	m.Reset()
	m.panning, m.volLeft, m.volRight, m.curOutput = panning, volLeft, volRight, cur
	m.setVolume(0, volLeft<<4|volRight)
}

func (m *Mixer) Reset() {
	m.nsamples = 0
	m.prevOutleft = 0
	m.prevOutright = 0
	m.bufleft.Clear()
	m.bufright.Clear()
	m.bufleft.SetRates(hwdefs.ClockSpeed, m.sampleRate)
	m.bufright.SetRates(hwdefs.ClockSpeed, m.sampleRate)
	m.events = m.events[:0]
	clear(m.curOutput[:])
	m.panning = 0
	m.volLeft = 0
	m.volRight = 0
}

func (m *Mixer) SampleRate() int {
	return int(m.sampleRate)
}

// SetGain sets the master gain applied on top of the terminal volumes.
func (m *Mixer) SetGain(gain float64) {
	m.gain = max(gain, 0)
}

func (m *Mixer) addDelta(ch hwdefs.Channel, time uint32, delta int16) {
	if delta != 0 {
		m.events = append(m.events, mixEvent{time: time, kind: evDelta, ch: ch, value: delta})
	}
}

// setPanning records a NR51 write.
func (m *Mixer) setPanning(time uint32, nr51 uint8) {
	m.events = append(m.events, mixEvent{time: time, kind: evPanning, value: int16(nr51)})
}

// setVolume records a NR50 write.
func (m *Mixer) setVolume(time uint32, nr50 uint8) {
	m.events = append(m.events, mixEvent{time: time, kind: evVolume, value: int16(nr50)})
}

// terminalOutput returns the amplitude of the left (shift=4) or right (shift=0)
// terminal.
func (m *Mixer) terminalOutput(shift uint, vol uint8) int32 {
	var sum int32
	for ch := range hwdefs.NumChannels {
		if m.panning&(1<<(uint(ch)+shift)) != 0 {
			sum += int32(m.curOutput[ch])
		}
	}
	return int32(float64(sum) * float64(vol+1) * ampUnit * m.gain)
}

func (m *Mixer) apply(ev *mixEvent) {
	switch ev.kind {
	case evDelta:
		m.curOutput[ev.ch] += ev.value
	case evPanning:
		m.panning = uint8(ev.value)
	case evVolume:
		m.volLeft = uint8(ev.value>>4) & hwdefs.MaxTermVolume
		m.volRight = uint8(ev.value) & hwdefs.MaxTermVolume
	}
}

// endFrame mixes all events recorded up to time and makes the resulting
// samples available through Samples. It returns the number of stereo samples
// produced.
func (m *Mixer) endFrame(time uint32) int {
	slices.SortStableFunc(m.events, func(a, b mixEvent) int {
		return cmp.Compare(a.time, b.time)
	})

	for i := 0; i < len(m.events); {
		stamp := m.events[i].time
		for ; i < len(m.events) && m.events[i].time == stamp; i++ {
			m.apply(&m.events[i])
		}

		left := m.terminalOutput(4, m.volLeft)
		if left != m.prevOutleft {
			m.bufleft.AddDelta(uint64(stamp), left-m.prevOutleft)
			m.prevOutleft = left
		}
		right := m.terminalOutput(0, m.volRight)
		if right != m.prevOutright {
			m.bufright.AddDelta(uint64(stamp), right-m.prevOutright)
			m.prevOutright = right
		}
	}
	m.events = m.events[:0]

	m.bufleft.EndFrame(int(time))
	m.bufright.EndFrame(int(time))

	avail := min(m.bufleft.SamplesAvailable(), m.bufsize)
	n := m.bufleft.ReadSamples(m.outbuf, avail, blip.Stereo)
	m.bufright.ReadSamples(m.outbuf[1:], n, blip.Stereo)
	m.nsamples = n

	log.ModSound.DebugZ("end frame").
		Uint32("cycles", time).
		Int("samples", n).
		End()
	return n
}

// Samples returns the interleaved stereo samples of the last frame.
func (m *Mixer) Samples() []int16 {
	return m.outbuf[:m.nsamples*2]
}

// ClocksNeeded returns the number of cycles needed to produce n samples.
func (m *Mixer) ClocksNeeded(n int) int {
	return m.bufleft.ClocksNeeded(n)
}
