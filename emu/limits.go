package emu

import (
	"fmt"
	"time"

	"trackerboy/engine"
)

type LimitKind int

const (
	// LimitNone plays until the song halts.
	LimitNone LimitKind = iota
	// LimitLoops plays the song a number of times.
	LimitLoops
	// LimitDuration plays the song for a fixed time.
	LimitDuration
)

// Limits bounds how long a song plays. A song halting always stops playback.
type Limits struct {
	Kind     LimitKind
	Loops    int
	Duration time.Duration
}

func LoopLimit(n int) Limits               { return Limits{Kind: LimitLoops, Loops: n} }
func DurationLimit(d time.Duration) Limits { return Limits{Kind: LimitDuration, Duration: d} }

func (l Limits) String() string {
	switch l.Kind {
	case LimitLoops:
		return fmt.Sprintf("%d loop(s)", l.Loops)
	case LimitDuration:
		return l.Duration.String()
	}
	return "unlimited"
}

// A Limiter tells when to stop playing a song, given the frames it plays.
type Limiter struct {
	kind LimitKind

	// loops
	visits  []int
	current int
	loops   int

	// duration
	frames int
	total  int
}

// NewLimiter returns a limiter for a song of the given number of patterns,
// started at order start and played at framerate.
func NewLimiter(lim Limits, patterns, start int, framerate float64) *Limiter {
	l := &Limiter{kind: lim.Kind}
	switch lim.Kind {
	case LimitLoops:
		l.loops = max(lim.Loops, 0)
		l.visits = make([]int, max(patterns, 1))
		l.current = min(max(start, 0), len(l.visits)-1)
		l.visits[l.current] = 1
	case LimitDuration:
		l.total = int(framerate * lim.Duration.Seconds())
	}
	return l
}

// Empty reports whether the limits allow nothing to be played.
func (l *Limiter) Empty() bool {
	switch l.kind {
	case LimitLoops:
		return l.loops == 0
	case LimitDuration:
		return l.total <= 0
	}
	return false
}

// Step accounts for frame, which has just been played, and reports whether
// playback should stop.
func (l *Limiter) Step(frame *engine.Frame) bool {
	if frame.Halted {
		return true
	}
	switch l.kind {
	case LimitLoops:
		if frame.StartedNewPattern && frame.Order < len(l.visits) {
			v := l.visits[frame.Order]
			l.visits[frame.Order]++
			l.current = frame.Order
			if v == l.loops {
				return true
			}
		}
	case LimitDuration:
		l.frames++
		return l.frames >= l.total
	}
	return false
}

// Progress returns how far playback is, and where it stops: loops of the
// current pattern, or frames. Both are 0 without limits.
func (l *Limiter) Progress() (cur, total int) {
	switch l.kind {
	case LimitLoops:
		return l.visits[l.current], l.loops
	case LimitDuration:
		return l.frames, l.total
	}
	return 0, 0
}
