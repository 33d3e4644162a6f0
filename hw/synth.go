package hw

import (
	"math"

	"trackerboy/emu/log"
	"trackerboy/hw/apu"
	"trackerboy/hw/hwdefs"
)

// Synth drives the APU one frame at a time and hands out the resampled
// stereo output. It is not safe for concurrent use.
type Synth struct {
	apu   *apu.APU
	mixer *apu.Mixer

	sampleRate     int
	framerate      float64
	cyclesPerFrame float64
	cycleOffset    float64 // fractional cycles carried to the next frame
	totalCycles    uint64
	frameSamples   int
}

// NewSynth creates a synthesizer producing samples at sampleRate, with
// frames run at framerate Hz.
func NewSynth(sampleRate int, framerate float64) *Synth {
	s := &Synth{
		sampleRate: min(max(sampleRate, 1), apu.MaxSampleRate),
		framerate:  framerate,
	}
	s.updateFrameSize()
	s.mixer = apu.NewMixer(s.sampleRate, s.frameSamples)
	s.apu = apu.New(s.mixer)
	s.Reset()
	return s
}

func (s *Synth) updateFrameSize() {
	if s.framerate <= 0 {
		s.framerate = hwdefs.FramerateDMG
	}
	s.cyclesPerFrame = hwdefs.ClockSpeed / s.framerate
	s.frameSamples = int(float64(s.sampleRate)/s.framerate) + 1
}

// Reset resets the APU, turns sound on and sets both terminals at maximum
// volume.
func (s *Synth) Reset() {
	s.apu.Reset()
	s.cycleOffset = 0
	s.totalCycles = 0
	s.apu.WriteRegister(hwdefs.NR52, 0x80)
	s.apu.WriteRegister(hwdefs.NR50, 0x77)
}

// Run runs the APU for one frame and returns the number of stereo samples
// produced.
func (s *Synth) Run() int {
	whole, frac := math.Modf(s.cyclesPerFrame + s.cycleOffset)
	s.cycleOffset = frac
	s.apu.Step(uint32(whole))
	s.totalCycles += uint64(whole)
	return s.apu.EndFrame()
}

// Fill copies up to n stereo samples of the last frame into buf, which is
// interleaved (left, right). It returns the number of samples copied.
func (s *Synth) Fill(buf []int16, n int) int {
	samples := s.mixer.Samples()
	n = min(n, len(samples)/2, len(buf)/2)
	copy(buf, samples[:n*2])
	return n
}

// Samples returns the interleaved samples of the last frame. The slice is
// only valid until the next call to Run.
func (s *Synth) Samples() []int16 {
	return s.mixer.Samples()
}

func (s *Synth) SampleRate() int     { return s.sampleRate }
func (s *Synth) Framerate() float64  { return s.framerate }
func (s *Synth) FrameSamples() int   { return s.frameSamples }
func (s *Synth) APU() *apu.APU       { return s.apu }
func (s *Synth) CyclesPerFrame() int { return int(s.cyclesPerFrame) }

// Cycles returns the number of APU cycles run since the last reset.
func (s *Synth) Cycles() uint64 { return s.totalCycles }

// SetFramerate changes the number of frames run per second.
func (s *Synth) SetFramerate(framerate float64) {
	s.framerate = framerate
	s.updateFrameSize()
	s.mixer.Resize(s.sampleRate, s.frameSamples)
	log.ModSynth.InfoZ("framerate changed").
		Float("framerate", s.framerate).
		Int("frame_samples", s.frameSamples).
		End()
}

// SetSampleRate changes the output sample rate.
func (s *Synth) SetSampleRate(rate int) {
	s.sampleRate = min(max(rate, 1), apu.MaxSampleRate)
	s.updateFrameSize()
	s.mixer.Resize(s.sampleRate, s.frameSamples)
	log.ModSynth.InfoZ("sample rate changed").
		Int("rate", s.sampleRate).
		Int("frame_samples", s.frameSamples).
		End()
}

// SetGain sets the master output gain, 1.0 being unity.
func (s *Synth) SetGain(gain float64) {
	s.mixer.SetGain(gain)
}

func (s *Synth) WriteRegister(addr uint16, val uint8) {
	s.apu.WriteRegister(addr, val)
}

func (s *Synth) ReadRegister(addr uint16) uint8 {
	return s.apu.ReadRegister(addr)
}
