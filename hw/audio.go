package hw

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"trackerboy/emu/log"
)

const (
	AudioFormat     = sdl.AUDIO_S16LSB
	AudioChannels   = 2
	AudioBufferSize = 4096
)

// Audio backends.
const (
	BackendSDL  = "sdl"
	BackendOto  = "oto"
	BackendNone = "none"
)

type AudioConfig struct {
	Backend    string
	SampleRate int
	// Number of stereo frames the output may hold before Queue blocks.
	BufferSize int
}

// AudioOutput plays interleaved stereo 16-bit samples.
type AudioOutput interface {
	// Queue queues samples for playback. It blocks while the output holds
	// more than the configured buffer size.
	Queue(samples []int16) error
	Close() error
}

// NewAudioOutput opens the audio backend named in cfg.
func NewAudioOutput(cfg AudioConfig) (AudioOutput, error) {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = AudioBufferSize
	}
	switch cfg.Backend {
	case BackendSDL, "":
		return newSDLAudio(cfg)
	case BackendOto:
		return newOtoAudio(cfg)
	case BackendNone:
		return newNullAudio(cfg), nil
	}
	return nil, fmt.Errorf("unknown audio backend %q", cfg.Backend)
}

// pcmBytes returns a little-endian byte copy of samples.
func pcmBytes(samples []int16) []byte {
	if len(samples) == 0 {
		return nil
	}
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), len(samples)*2)
	cpy := make([]byte, len(buf))
	copy(cpy, buf)
	return cpy
}

type sdlAudio struct {
	dev       sdl.AudioDeviceID
	maxQueued uint32
}

func newSDLAudio(cfg AudioConfig) (*sdlAudio, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("sdl audio init: %w", err)
	}

	want := sdl.AudioSpec{
		Freq:     int32(cfg.SampleRate),
		Format:   AudioFormat,
		Channels: AudioChannels,
		Samples:  AudioBufferSize,
	}
	var have sdl.AudioSpec
	dev, err := sdl.OpenAudioDevice("", false, &want, &have, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	sdl.PauseAudioDevice(dev, false)

	log.ModAudio.InfoZ("sdl audio device opened").
		Int("freq", int(have.Freq)).
		Int("samples", int(have.Samples)).
		End()

	return &sdlAudio{
		dev:       dev,
		maxQueued: uint32(cfg.BufferSize * AudioChannels * 2),
	}, nil
}

func (a *sdlAudio) Queue(samples []int16) error {
	// SDL never blocks on queue, wait for the device to drain.
	for sdl.GetQueuedAudioSize(a.dev) > a.maxQueued {
		time.Sleep(time.Millisecond)
	}
	if err := sdl.QueueAudio(a.dev, pcmBytes(samples)); err != nil {
		log.ModAudio.DebugZ("failed to queue audio buffer").Error("err", err).End()
		return err
	}
	return nil
}

func (a *sdlAudio) Close() error {
	sdl.CloseAudioDevice(a.dev)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
	return nil
}

// nullAudio discards samples, at the pace they would be played.
type nullAudio struct {
	rate int
	next time.Time
}

func newNullAudio(cfg AudioConfig) *nullAudio {
	return &nullAudio{rate: max(cfg.SampleRate, 1)}
}

func (a *nullAudio) Queue(samples []int16) error {
	now := time.Now()
	if a.next.Before(now) {
		a.next = now
	}
	a.next = a.next.Add(time.Duration(len(samples)/AudioChannels) * time.Second / time.Duration(a.rate))
	time.Sleep(time.Until(a.next))
	return nil
}

func (a *nullAudio) Close() error { return nil }
