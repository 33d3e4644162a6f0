package emu

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"trackerboy/emu/log"
	"trackerboy/engine"
	"trackerboy/hw"
)

// Player plays the song of an engine in real time, on an audio output.
type Player struct {
	eng *Engine
	out hw.AudioOutput
	lim *Limiter

	// OnFrame, if set, is called from the playback loop after each frame.
	OnFrame func(engine.Frame)

	// These are accessed concurrently by the playback loop and the caller.
	quit   atomic.Bool
	paused atomic.Bool
}

func NewPlayer(eng *Engine, out hw.AudioOutput) *Player {
	return &Player{eng: eng, out: out, lim: NewLimiter(Limits{}, 0, 0, 0)}
}

// Start starts the song at the given order and row. It doesn't start the
// playback loop, call Run for that.
func (p *Player) Start(order, row int, lim Limits) error {
	mod := p.eng.Module()
	if mod == nil {
		return errNoModule
	}
	p.lim = NewLimiter(lim, mod.Song.PatternCount(), order, p.eng.Synth().Framerate())
	if p.lim.Empty() {
		p.quit.Store(true)
		return nil
	}
	if err := p.eng.Play(order, row); err != nil {
		return err
	}
	p.quit.Store(false)
	log.ModEmu.InfoZ("Playback started").
		Stringer("limits", lim).
		End()
	return nil
}

// Run runs the playback loop until the song stops, Stop is called or ctx is
// done.
func (p *Player) Run(ctx context.Context) error {
	defer log.ModEmu.InfoZ("Playback loop exited").End()

	for !p.quit.Load() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.paused.Load() {
			// Don't burn cpu while paused.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		var frame engine.Frame
		p.eng.Step(&frame)
		if err := p.out.Queue(p.eng.Synth().Samples()); err != nil {
			return fmt.Errorf("audio output: %w", err)
		}
		stop := p.lim.Step(&frame)
		if p.OnFrame != nil {
			p.OnFrame(frame)
		}
		if stop {
			p.quit.Store(true)
		}
	}
	return nil
}

func (p *Player) Stop()                { p.quit.Store(true) }
func (p *Player) SetPause(paused bool) { p.paused.Store(paused) }
func (p *Player) IsPaused() bool       { return p.paused.Load() }

// Progress returns the playback progress, see Limiter.Progress. It must be
// called from the playback loop, in OnFrame.
func (p *Player) Progress() (cur, total int) {
	return p.lim.Progress()
}
