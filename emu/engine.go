package emu

import (
	"errors"
	"fmt"

	"trackerboy/emu/log"
	"trackerboy/engine"
	"trackerboy/hw"
	"trackerboy/hw/hwdefs"
	"trackerboy/song"
)

var errNoModule = errors.New("no module loaded")

// Engine plays a module on a synthesizer, one frame at a time. It also
// previews instruments, on a channel borrowed from the song.
//
// Engine is not safe for concurrent use.
type Engine struct {
	synth *hw.Synth
	regs  hookedRegs

	mod     *song.Module
	ctx     engine.RuntimeContext
	music   *engine.MusicRuntime
	preview *engine.InstrumentPreview

	patternRepeat bool
	volume        uint8
	time          int
}

// NewEngine returns an engine driving synth.
func NewEngine(synth *hw.Synth) *Engine {
	e := &Engine{synth: synth, volume: 0x77}
	e.regs.w = synth
	e.ctx = engine.RuntimeContext{
		Regs:        &e.regs,
		Instruments: song.Instruments{},
		Waveforms:   song.Waveforms{},
	}
	return e
}

func (e *Engine) Synth() *hw.Synth     { return e.synth }
func (e *Engine) Module() *song.Module { return e.mod }

// OnRegisterWrite sets fn to be called after each register written by the
// engine. A nil fn removes the hook.
func (e *Engine) OnRegisterWrite(fn func(addr uint16, val uint8)) {
	e.regs.fn = fn
}

// SetModule stops playback and loads mod. The synthesizer runs at the module
// framerate.
func (e *Engine) SetModule(mod *song.Module) {
	e.Reset()
	e.mod = mod
	e.ctx.Instruments = mod.Instruments
	e.ctx.Waveforms = mod.Waveforms
	if mod.Framerate > 0 && mod.Framerate != e.synth.Framerate() {
		e.synth.SetFramerate(mod.Framerate)
	}
}

// Play starts playing the song of the current module from the given order
// and row.
func (e *Engine) Play(order, row int) error {
	if e.mod == nil || e.mod.Song == nil {
		return errNoModule
	}
	s := e.mod.Song
	if order < 0 || order >= s.PatternCount() {
		return fmt.Errorf("cannot play order %d, song has %d", order, s.PatternCount())
	}
	if row < 0 || row >= s.RowsPerPattern() {
		return fmt.Errorf("cannot start at row %d, patterns have %d rows", row, s.RowsPerPattern())
	}

	e.music = engine.NewMusicRuntime(s, order, row, e.patternRepeat)
	if e.preview != nil {
		e.music.Unlock(e.preview.Channel())
	}
	e.time = 0
	log.ModEngine.InfoZ("play").
		String("song", s.Name).
		Int("order", order).
		Int("row", row).
		End()
	return nil
}

// Halt stops the song, the engine keeps running frames.
func (e *Engine) Halt() {
	if e.music != nil {
		e.music.Halt(&e.ctx)
	}
}

// Reset stops the song and any preview, and resets the synthesizer.
func (e *Engine) Reset() {
	e.music = nil
	e.preview = nil
	e.time = 0
	e.synth.Reset()
	e.synth.WriteRegister(hwdefs.NR50, e.volume)
}

// SetVolume sets the master volume, in NR50 format.
func (e *Engine) SetVolume(nr50 uint8) {
	e.volume = nr50
	e.synth.WriteRegister(hwdefs.NR50, nr50)
}

// Playing reports whether a song is loaded and not halted.
func (e *Engine) Playing() bool {
	return e.music != nil && !e.music.Halted()
}

// Position returns the order and row of the next row played.
func (e *Engine) Position() (order, row int) {
	if e.music == nil {
		return 0, 0
	}
	return e.music.Position()
}

// RepeatPattern sets the pattern repeat mode, for the current song and the
// next ones played.
func (e *Engine) RepeatPattern(repeat bool) {
	e.patternRepeat = repeat
	if e.music != nil {
		e.music.RepeatPattern(repeat)
	}
}

// Jump continues playback at the first row of order.
func (e *Engine) Jump(order int) {
	if e.music != nil {
		e.music.Jump(order)
	}
}

// Lock gives channel ch back to the song.
func (e *Engine) Lock(ch hwdefs.Channel) {
	if e.music != nil {
		e.music.Lock(&e.ctx, ch)
	}
}

// Unlock stops the song from writing the registers of channel ch.
func (e *Engine) Unlock(ch hwdefs.Channel) {
	if e.music != nil {
		e.music.Unlock(ch)
	}
}

// PreviewNote plays note with inst, on the instrument channel. A nil inst
// plays on ch with the default channel settings. The song, if any, loses the
// channel until StopPreview is called.
func (e *Engine) PreviewNote(inst *song.Instrument, ch hwdefs.Channel, note uint8) {
	if inst != nil {
		ch = inst.Channel
	}
	if e.preview == nil || e.preview.Channel() != ch || e.preview.Instrument() != inst {
		e.StopPreview()
		e.preview = engine.NewInstrumentPreview(inst, ch)
		e.Unlock(ch)
	}
	e.preview.PlayNote(note)
}

// StopPreview stops the preview and gives its channel back to the song.
func (e *Engine) StopPreview() {
	if e.preview == nil {
		return
	}
	ch := e.preview.Channel()
	e.preview = nil
	if e.music != nil {
		e.music.Lock(&e.ctx, ch)
	} else {
		engine.ClearChannel(&e.regs, ch)
	}
}

// Step runs one frame: the song and preview update the sound registers, then
// the synthesizer runs. It returns the number of stereo samples produced,
// see hw.Synth.Samples.
func (e *Engine) Step(frame *engine.Frame) int {
	*frame = engine.Frame{Halted: true}
	if e.music != nil {
		if !e.music.Step(&e.ctx, frame) {
			frame.Time = e.time
			e.time++
		}
	}
	if e.preview != nil {
		e.preview.Step(&e.ctx)
	}
	return e.synth.Run()
}

// hookedRegs forwards register accesses to w, reporting writes to fn.
type hookedRegs struct {
	w  engine.RegisterWriter
	fn func(addr uint16, val uint8)
}

func (r *hookedRegs) WriteRegister(addr uint16, val uint8) {
	r.w.WriteRegister(addr, val)
	if r.fn != nil {
		r.fn(addr, val)
	}
}

func (r *hookedRegs) ReadRegister(addr uint16) uint8 {
	return r.w.ReadRegister(addr)
}
