package emu

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func testRenderConfig(lim Limits) RenderConfig {
	return RenderConfig{
		SampleRate: 44100,
		Synth:      DefaultConfig().Synth,
		Limits:     lim,
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		sheet  string
		lim    Limits
		frames int
	}{
		// Patterns last 4 frames, the frame coming back to the first
		// pattern is the last one rendered.
		{"loop once", loopSheet, LoopLimit(1), 9},
		{"loop twice", loopSheet, LoopLimit(2), 17},
		{"duration", loopSheet, DurationLimit(time.Second), 59},
		{"no loops", loopSheet, LoopLimit(0), 0},
		{"until halt", haltSheet, Limits{}, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			frames, err := Render(context.Background(), mustSheet(t, tt.sheet), &buf, testRenderConfig(tt.lim))
			if err != nil {
				t.Fatal(err)
			}
			if frames != tt.frames {
				t.Errorf("rendered %d frames, want %d", frames, tt.frames)
			}
			if buf.Len()%4 != 0 {
				t.Errorf("output has %d bytes, want whole stereo samples", buf.Len())
			}

			// Around 739 stereo samples per frame at 44100Hz.
			nsamples := buf.Len() / 4
			if lo, hi := tt.frames*735, tt.frames*745; nsamples < lo || nsamples > hi {
				t.Errorf("rendered %d samples, want within [%d, %d]", nsamples, lo, hi)
			}
		})
	}
}

func TestRenderNotSilent(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Render(context.Background(), mustSheet(t, loopSheet), &buf, testRenderConfig(LoopLimit(1))); err != nil {
		t.Fatal(err)
	}

	samples := make([]int16, buf.Len()/2)
	if err := binary.Read(&buf, binary.LittleEndian, samples); err != nil {
		t.Fatal(err)
	}
	var peak int16
	for _, s := range samples {
		peak = max(peak, s, -s)
	}
	if peak < 1000 {
		t.Errorf("peak amplitude = %d, output should not be silent", peak)
	}
}

func TestRenderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	_, err := Render(ctx, mustSheet(t, loopSheet), &buf, testRenderConfig(Limits{}))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Render() = %v, want %v", err, context.Canceled)
	}
}

func TestRenderJobs(t *testing.T) {
	sheets := []string{"songs/a.toml", "b.sheet"}

	want := []RenderJob{
		{Sheet: "songs/a.toml", Out: filepath.Join("songs", "a.raw")},
		{Sheet: "b.sheet", Out: "b.raw"},
	}
	if diff := cmp.Diff(want, RenderJobs(sheets, "")); diff != "" {
		t.Errorf("jobs mismatch (-want +got):\n%s", diff)
	}

	want = []RenderJob{
		{Sheet: "songs/a.toml", Out: filepath.Join("out", "a.raw")},
		{Sheet: "b.sheet", Out: filepath.Join("out", "b.raw")},
	}
	if diff := cmp.Diff(want, RenderJobs(sheets, "out")); diff != "" {
		t.Errorf("jobs mismatch (-want +got):\n%s", diff)
	}
}

func writeSheet(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderFiles(t *testing.T) {
	dir := t.TempDir()
	sheets := []string{
		writeSheet(t, dir, "halt.toml", haltSheet),
		writeSheet(t, dir, "loop.toml", loopSheet),
	}
	outdir := t.TempDir()

	jobs := RenderJobs(sheets, outdir)
	if err := RenderFiles(context.Background(), jobs, testRenderConfig(LoopLimit(1))); err != nil {
		t.Fatal(err)
	}

	for _, job := range jobs {
		fi, err := os.Stat(job.Out)
		if err != nil {
			t.Fatal(err)
		}
		if fi.Size() == 0 || fi.Size()%4 != 0 {
			t.Errorf("%s: size = %d", job.Out, fi.Size())
		}
	}
}

func TestRenderFilesError(t *testing.T) {
	dir := t.TempDir()
	bad := writeSheet(t, dir, "bad.toml", "speed = 0x30\nunknown = 1\n")
	jobs := RenderJobs([]string{bad}, dir)

	err := RenderFiles(context.Background(), jobs, testRenderConfig(LoopLimit(1)))
	if err == nil {
		t.Fatalf("RenderFiles() should fail")
	}
	if !strings.Contains(err.Error(), bad) {
		t.Errorf("error %q should mention %s", err, bad)
	}
}
