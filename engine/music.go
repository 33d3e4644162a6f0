package engine

import (
	"trackerboy/emu/log"
	"trackerboy/hw/hwdefs"
	"trackerboy/song"
)

// MusicRuntime plays a song, one frame at a time.
//
// Channels are locked to the runtime by default: their state is written to
// the sound registers every frame. An unlocked channel keeps being stepped
// but its registers are left alone, so something else (an instrument
// preview, a sound effect) can use it.
type MusicRuntime struct {
	src           song.RowSource
	order         int
	row           int
	patternRepeat bool

	timer  Timer
	global GlobalState

	halted   bool
	init     bool
	unlocked [hwdefs.NumChannels]bool

	states [hwdefs.NumChannels]ChannelState
	tracks [hwdefs.NumChannels]*TrackControl
}

// NewMusicRuntime returns a runtime playing src from the given order and row.
func NewMusicRuntime(src song.RowSource, order, row int, patternRepeat bool) *MusicRuntime {
	mr := &MusicRuntime{
		src:           src,
		order:         min(max(order, 0), src.PatternCount()-1),
		row:           min(max(row, 0), src.RowsPerPattern()-1),
		patternRepeat: patternRepeat,
		timer:         NewTimer(),
		init:          true,
	}
	mr.timer.SetPeriod(src.Speed())
	for ch := range hwdefs.NumChannels {
		mr.states[ch] = DefaultChannelState(hwdefs.Channel(ch))
		mr.tracks[ch] = NewTrackControl(hwdefs.Channel(ch))
	}
	return mr
}

func (mr *MusicRuntime) Halted() bool { return mr.halted }

// Halt stops the runtime, silencing the locked channels. A halted runtime
// can't be restarted.
func (mr *MusicRuntime) Halt(ctx *RuntimeContext) {
	mr.halted = true
	for ch := range hwdefs.NumChannels {
		var zero ChannelState
		if !mr.unlocked[ch] {
			UpdateChannel(ctx.Regs, ctx.Waveforms, hwdefs.Channel(ch), &mr.states[ch], &zero)
		}
		mr.states[ch] = zero
	}
	log.ModEngine.DebugZ("runtime halted").Int("order", mr.order).Int("row", mr.row).End()
}

// Jump makes the next row fetched the first row of the given order.
func (mr *MusicRuntime) Jump(order int) {
	mr.order = min(max(order, 0), mr.src.PatternCount()-1)
	mr.row = 0
}

// Lock gives back channel ch to the runtime, rewriting all of its registers.
func (mr *MusicRuntime) Lock(ctx *RuntimeContext, ch hwdefs.Channel) {
	if mr.unlocked[ch] {
		mr.Reload(ctx, ch)
		mr.unlocked[ch] = false
	}
}

// Unlock releases channel ch: the runtime stops writing its registers.
func (mr *MusicRuntime) Unlock(ch hwdefs.Channel) {
	mr.unlocked[ch] = true
}

func (mr *MusicRuntime) IsLocked(ch hwdefs.Channel) bool { return !mr.unlocked[ch] }

// Reload rewrites all the registers of channel ch from its current state.
func (mr *MusicRuntime) Reload(ctx *RuntimeContext, ch hwdefs.Channel) {
	InitChannel(ctx.Regs, ctx.Waveforms, ch, &mr.states[ch])
}

// ReloadAll reloads all locked channels.
func (mr *MusicRuntime) ReloadAll(ctx *RuntimeContext) {
	for ch := range hwdefs.NumChannels {
		if !mr.unlocked[ch] {
			mr.Reload(ctx, hwdefs.Channel(ch))
		}
	}
}

// RepeatPattern sets the pattern repeat mode. When set, pattern commands and
// the end of a pattern go back to the first row of the current pattern.
func (mr *MusicRuntime) RepeatPattern(repeat bool) {
	mr.patternRepeat = repeat
}

// Position returns the order and row of the next row to fetch.
func (mr *MusicRuntime) Position() (order, row int) { return mr.order, mr.row }

// State returns the current state of channel ch.
func (mr *MusicRuntime) State(ch hwdefs.Channel) ChannelState { return mr.states[ch] }

// Step plays one frame and fills frame with what happened. It reports
// whether the runtime is halted.
func (mr *MusicRuntime) Step(ctx *RuntimeContext, frame *Frame) bool {
	if mr.halted {
		frame.Halted = true
		return true
	}

	if mr.init {
		mr.ReloadAll(ctx)
		mr.init = false
	}

	frame.StartedNewRow = mr.timer.Active()
	frame.StartedNewPattern = false
	if frame.StartedNewRow {
		frame.StartedNewPattern = mr.runPatternCommand()

		for ch, tc := range mr.tracks {
			tc.SetRow(mr.src.Row(hwdefs.Channel(ch), mr.order, mr.row))
		}
		// A C00 played during the previous row halts before the next one
		// starts.
		if mr.global.Halt {
			mr.Halt(ctx)
			frame.Halted = true
			return true
		}
		frame.Order = mr.order
		frame.Row = mr.row
	}

	mr.update(ctx)

	if mr.global.Speed != 0 {
		mr.timer.SetPeriod(mr.global.Speed)
		mr.global.Speed = 0
	}
	frame.Speed = mr.timer.Period()

	if mr.timer.Step() {
		mr.row++
		if mr.row >= mr.src.RowsPerPattern() && mr.global.PatternCommand == PatternNone {
			mr.global.PatternCommand = PatternNext
			mr.global.PatternParam = 0
		}
	}
	frame.Halted = false
	return false
}

// runPatternCommand changes the current pattern if a pattern command is set.
// It reports whether a new pattern was started.
func (mr *MusicRuntime) runPatternCommand() bool {
	g := &mr.global
	if g.PatternCommand == PatternNone {
		return false
	}
	cmd := g.PatternCommand
	g.PatternCommand = PatternNone

	if mr.patternRepeat {
		mr.row = 0
		return false
	}

	switch cmd {
	case PatternNext:
		mr.order++
		if mr.order >= mr.src.PatternCount() {
			mr.order = 0
		}
		mr.row = min(int(g.PatternParam), mr.src.RowsPerPattern()-1)
	case PatternJump:
		mr.order = min(int(g.PatternParam), mr.src.PatternCount()-1)
		mr.row = 0
	}
	return true
}

// update steps the tracks in channel order and writes the registers of the
// locked channels.
func (mr *MusicRuntime) update(ctx *RuntimeContext) {
	for ch, tc := range mr.tracks {
		state := mr.states[ch]
		tc.Step(ctx, &state, &mr.global)
		if !mr.unlocked[ch] {
			UpdateChannel(ctx.Regs, ctx.Waveforms, hwdefs.Channel(ch), &mr.states[ch], &state)
		}
		state.Retrigger = false
		mr.states[ch] = state
	}
}
