package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"trackerboy/emu"
)

func TestLimitFlags(t *testing.T) {
	tests := []struct {
		name     string
		flags    LimitFlags
		defLoops int
		want     emu.Limits
	}{
		{"none", LimitFlags{}, 0, emu.Limits{}},
		{"default loops", LimitFlags{}, 1, emu.LoopLimit(1)},
		{"loops", LimitFlags{Loops: 3}, 1, emu.LoopLimit(3)},
		{"duration", LimitFlags{Duration: time.Minute}, 1, emu.DurationLimit(time.Minute)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.flags.limits(tt.defLoops)); diff != "" {
				t.Errorf("limits mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPositionFlags(t *testing.T) {
	pcfg := emu.PlaybackConfig{StartOrder: 2, StartRow: 4}
	PositionFlags{Row: 8, Repeat: true}.apply(&pcfg)

	want := emu.PlaybackConfig{PatternRepeat: true, StartOrder: 2, StartRow: 8}
	if diff := cmp.Diff(want, pcfg); diff != "" {
		t.Errorf("playback config mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintNotes(t *testing.T) {
	var buf bytes.Buffer
	printNotes(&buf, false)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 85 {
		t.Fatalf("got %d lines, want a header and 84 notes", len(lines))
	}
	if !strings.HasPrefix(lines[1], "C-2") || !strings.HasPrefix(lines[84], "B-8") {
		t.Errorf("unexpected table bounds:\n%s\n%s", lines[1], lines[84])
	}

	buf.Reset()
	printNotes(&buf, true)
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 61 {
		t.Errorf("got %d lines, want a header and 60 noise notes", len(lines))
	}
}
