package emu

import (
	"context"
	"io"

	"github.com/go-faster/jx"

	"trackerboy/engine"
	"trackerboy/song"
)

type regWrite struct {
	addr uint16
	val  uint8
}

// Tracer writes one JSON object per frame played by an engine, with the
// frame info and the sound registers written during that frame:
//
//	{"frame":0,"time":0,"halted":false,"new_row":true,"new_pattern":false,
//	 "speed":48,"order":0,"row":0,"writes":[[65298,240],[65317,17]]}
type Tracer struct {
	w      io.Writer
	enc    jx.Encoder
	writes []regWrite
	frames int
}

func NewTracer(w io.Writer) *Tracer {
	return &Tracer{w: w}
}

// Attach records the register writes of eng.
func (t *Tracer) Attach(eng *Engine) {
	eng.OnRegisterWrite(t.record)
}

func (t *Tracer) record(addr uint16, val uint8) {
	t.writes = append(t.writes, regWrite{addr, val})
}

// WriteFrame writes the trace line of frame, with the register writes
// recorded since the previous call.
func (t *Tracer) WriteFrame(frame *engine.Frame) error {
	e := &t.enc
	e.Reset()
	e.ObjStart()
	e.FieldStart("frame")
	e.Int(t.frames)
	e.FieldStart("time")
	e.Int(frame.Time)
	e.FieldStart("halted")
	e.Bool(frame.Halted)
	e.FieldStart("new_row")
	e.Bool(frame.StartedNewRow)
	e.FieldStart("new_pattern")
	e.Bool(frame.StartedNewPattern)
	e.FieldStart("speed")
	e.UInt8(frame.Speed)
	e.FieldStart("order")
	e.Int(frame.Order)
	e.FieldStart("row")
	e.Int(frame.Row)
	e.FieldStart("writes")
	e.ArrStart()
	for _, w := range t.writes {
		e.ArrStart()
		e.UInt16(w.addr)
		e.UInt8(w.val)
		e.ArrEnd()
	}
	e.ArrEnd()
	e.ObjEnd()

	t.writes = t.writes[:0]
	t.frames++

	buf := append(e.Bytes(), '\n')
	_, err := t.w.Write(buf)
	return err
}

// Trace plays the song of mod as fast as possible, writing the trace of each
// frame to w. It returns the number of frames traced.
func Trace(ctx context.Context, mod *song.Module, w io.Writer, cfg RenderConfig) (int, error) {
	eng := NewModuleEngine(mod, cfg)
	t := NewTracer(w)
	t.Attach(eng)

	err := playOffline(ctx, eng, cfg.Playback, cfg.Limits, func(frame *engine.Frame, _ []int16) error {
		return t.WriteFrame(frame)
	})
	return t.frames, err
}
