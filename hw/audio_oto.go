package hw

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"trackerboy/emu/log"
)

var errAudioClosed = errors.New("audio output closed")

// otoAudio plays through an oto player that pulls samples from a bounded
// queue of frames.
type otoAudio struct {
	ctx    *oto.Context
	player *oto.Player

	frames chan []byte
	cur    []byte

	done      chan struct{}
	closeOnce sync.Once
}

func newOtoAudio(cfg AudioConfig) (*otoAudio, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: AudioChannels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(cfg.BufferSize) * time.Second / time.Duration(max(cfg.SampleRate, 1)),
	})
	if err != nil {
		return nil, fmt.Errorf("oto context: %w", err)
	}
	<-ready

	a := &otoAudio{
		ctx: ctx,
		// A frame is around 1/60s, keep a handful in flight.
		frames: make(chan []byte, 4),
		done:   make(chan struct{}),
	}
	a.player = ctx.NewPlayer(a)
	a.player.Play()

	log.ModAudio.InfoZ("oto audio player started").
		Int("rate", cfg.SampleRate).
		End()
	return a, nil
}

// Read implements io.Reader for the oto player. It outputs silence when no
// frame is ready.
func (a *otoAudio) Read(p []byte) (int, error) {
	if len(a.cur) == 0 {
		select {
		case <-a.done:
			return 0, io.EOF
		case buf := <-a.frames:
			a.cur = buf
		default:
			clear(p)
			return len(p), nil
		}
	}
	n := copy(p, a.cur)
	a.cur = a.cur[n:]
	return n, nil
}

func (a *otoAudio) Queue(samples []int16) error {
	select {
	case <-a.done:
		return errAudioClosed
	case a.frames <- pcmBytes(samples):
		return nil
	}
}

func (a *otoAudio) Close() error {
	var err error
	a.closeOnce.Do(func() {
		close(a.done)
		err = a.player.Close()
	})
	return err
}
