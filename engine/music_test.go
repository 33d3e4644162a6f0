package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"trackerboy/hw/apu"
	"trackerboy/hw/hwdefs"
	"trackerboy/song"
)

func newTestSong(t *testing.T, speed uint8, rows, orders int) *song.Song {
	t.Helper()
	s := song.New()
	s.SetSpeed(speed)
	s.SetRowsPerPattern(rows)
	ords := make([]song.Order, orders)
	for i := range ords {
		ords[i] = song.Order{uint8(i), uint8(i), uint8(i), uint8(i)}
	}
	if err := s.SetOrders(ords); err != nil {
		t.Fatal(err)
	}
	return s
}

func setRow(t *testing.T, s *song.Song, ch hwdefs.Channel, track uint8, row int, str string) {
	t.Helper()
	if err := s.SetRow(ch, track, row, mustRow(t, str)); err != nil {
		t.Fatal(err)
	}
}

func testContext(regs RegisterWriter) *RuntimeContext {
	return &RuntimeContext{
		Regs: regs,
		Instruments: song.Instruments{
			0: {ID: 0, Channel: hwdefs.CH1, EnvelopeEnabled: true, Envelope: 0xF0},
		},
		Waveforms: song.Waveforms{},
	}
}

type position struct {
	Order, Row int
	NewPattern bool
}

// rowStarts runs mr for n frames and returns the positions of the rows
// started.
func rowStarts(mr *MusicRuntime, ctx *RuntimeContext, n int) []position {
	var out []position
	for range n {
		var frame Frame
		mr.Step(ctx, &frame)
		if frame.StartedNewRow {
			out = append(out, position{frame.Order, frame.Row, frame.StartedNewPattern})
		}
	}
	return out
}

func TestMusicRuntimeHalt(t *testing.T) {
	s := newTestSong(t, 0x20, 2, 1)
	setRow(t, s, hwdefs.CH1, 0, 0, "C-5 00")
	setRow(t, s, hwdefs.CH1, 0, 1, "... .. C00")

	a := apu.New(apu.NewMixer(44100, 1024))
	a.Reset()
	a.WriteRegister(hwdefs.NR52, 0x80)
	ctx := testContext(a)
	mr := NewMusicRuntime(s, 0, 0, false)

	var halted []bool
	for i := range 11 {
		var frame Frame
		halted = append(halted, mr.Step(ctx, &frame))
		a.Step(hwdefs.ClockSpeed / 60)
		a.EndFrame()

		if i == 0 {
			want := Frame{StartedNewRow: true, Speed: 0x20}
			if diff := cmp.Diff(want, frame); diff != "" {
				t.Errorf("first frame mismatch (-want +got):\n%s", diff)
			}
		}
		if i < 8 {
			if !mr.State(hwdefs.CH1).Playing {
				t.Errorf("frame %d: CH1 should be playing", i)
			}
			if nr51 := a.ReadRegister(hwdefs.NR51); nr51&0x11 != 0x11 {
				t.Errorf("frame %d: NR51 = %#02x, CH1 should be on both terminals", i, nr51)
			}
			if !a.ChannelEnabled(hwdefs.CH1) {
				t.Errorf("frame %d: CH1 should be enabled", i)
			}
		}
	}

	// The halt row plays, the runtime halts when the next row starts.
	want := []bool{false, false, false, false, false, false, false, false, true, true, true}
	if diff := cmp.Diff(want, halted); diff != "" {
		t.Errorf("halted mismatch (-want +got):\n%s", diff)
	}
	if !mr.Halted() {
		t.Errorf("runtime should be halted")
	}
	if nr51 := a.ReadRegister(hwdefs.NR51); nr51&0x11 != 0 {
		t.Errorf("NR51 = %#02x, CH1 should be muted after halt", nr51)
	}
}

func TestMusicRuntimeDelayedHalt(t *testing.T) {
	s := newTestSong(t, 0x30, 4, 1)
	setRow(t, s, hwdefs.CH2, 0, 0, "... .. C00 G02")

	mr := NewMusicRuntime(s, 0, 0, false)
	ctx := testContext(newRegRecorder())

	var halted []bool
	for range 8 {
		var frame Frame
		halted = append(halted, mr.Step(ctx, &frame))
	}
	want := []bool{false, false, false, false, false, false, true, true}
	if diff := cmp.Diff(want, halted); diff != "" {
		t.Errorf("halted mismatch (-want +got):\n%s", diff)
	}
}

func TestMusicRuntimePatterns(t *testing.T) {
	s := newTestSong(t, 0x10, 2, 2)
	mr := NewMusicRuntime(s, 0, 0, false)
	ctx := testContext(newRegRecorder())

	want := []position{
		{0, 0, false},
		{0, 1, false},
		{1, 0, true},
		{1, 1, false},
		{0, 0, true},
	}
	if diff := cmp.Diff(want, rowStarts(mr, ctx, 10)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestMusicRuntimePatternCommands(t *testing.T) {
	s := newTestSong(t, 0x10, 4, 3)
	setRow(t, s, hwdefs.CH2, 0, 0, "... .. B02")
	setRow(t, s, hwdefs.CH3, 2, 1, "... .. D02")

	mr := NewMusicRuntime(s, 0, 0, false)
	ctx := testContext(newRegRecorder())

	want := []position{
		{0, 0, false},
		{2, 0, true},
		{2, 1, false},
		{0, 2, true}, // past the last order, back to the first one
		{0, 3, false},
	}
	if diff := cmp.Diff(want, rowStarts(mr, ctx, 10)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestMusicRuntimeRepeatPattern(t *testing.T) {
	s := newTestSong(t, 0x10, 2, 2)
	mr := NewMusicRuntime(s, 1, 0, true)
	ctx := testContext(newRegRecorder())

	want := []position{
		{1, 0, false},
		{1, 1, false},
		{1, 0, false},
		{1, 1, false},
	}
	if diff := cmp.Diff(want, rowStarts(mr, ctx, 8)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	mr.RepeatPattern(false)
	want = []position{{0, 0, true}}
	if diff := cmp.Diff(want, rowStarts(mr, ctx, 2)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestMusicRuntimeJump(t *testing.T) {
	s := newTestSong(t, 0x10, 4, 3)
	mr := NewMusicRuntime(s, 0, 2, false)
	ctx := testContext(newRegRecorder())

	mr.Jump(7)
	if order, row := mr.Position(); order != 2 || row != 0 {
		t.Errorf("Position() = %d, %d, want 2, 0", order, row)
	}
	want := []position{{2, 0, false}}
	if diff := cmp.Diff(want, rowStarts(mr, ctx, 1)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestMusicRuntimeSpeed(t *testing.T) {
	s := newTestSong(t, 0x30, 4, 1)
	setRow(t, s, hwdefs.CH4, 0, 0, "... .. F10")

	mr := NewMusicRuntime(s, 0, 0, false)
	ctx := testContext(newRegRecorder())

	var frame Frame
	mr.Step(ctx, &frame)
	if frame.Speed != 0x10 {
		t.Errorf("Speed = %#02x, want 0x10", frame.Speed)
	}
	want := []position{{0, 1, false}}
	if diff := cmp.Diff(want, rowStarts(mr, ctx, 2)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func isChannelReg(addr uint16, ch hwdefs.Channel) bool {
	base := hwdefs.RegBase(ch)
	return addr >= base && addr < base+5
}

func TestMusicRuntimeLock(t *testing.T) {
	s := newTestSong(t, 0x30, 4, 1)
	setRow(t, s, hwdefs.CH1, 0, 0, "C-5 00")

	regs := newRegRecorder()
	ctx := testContext(regs)
	mr := NewMusicRuntime(s, 0, 0, false)
	mr.Unlock(hwdefs.CH1)

	for range 3 {
		var frame Frame
		mr.Step(ctx, &frame)
	}
	for _, w := range regs.take() {
		if isChannelReg(w.Addr, hwdefs.CH1) {
			t.Fatalf("unlocked channel was written: %+v", w)
		}
	}
	if !mr.State(hwdefs.CH1).Playing {
		t.Errorf("unlocked channel should still be stepped")
	}

	mr.Lock(ctx, hwdefs.CH1)
	if !mr.IsLocked(hwdefs.CH1) {
		t.Fatalf("channel should be locked")
	}
	var reloaded bool
	for _, w := range regs.take() {
		if w.Addr == hwdefs.NR14 && w.Val&0x80 != 0 {
			reloaded = true
		}
	}
	if !reloaded {
		t.Errorf("lock should rewrite and retrigger the channel")
	}
}
