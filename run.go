package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"text/tabwriter"

	"trackerboy/emu"
	"trackerboy/emu/log"
	"trackerboy/engine"
	"trackerboy/hw"
	"trackerboy/hw/hwdefs"
	"trackerboy/song"
)

// playMain plays a song sheet in real time, until the song stops or the
// user interrupts it.
func playMain(args Play, cfg emu.Config) error {
	mod, err := song.LoadSheet(args.SheetPath)
	if err != nil {
		return err
	}

	args.PositionFlags.apply(&cfg.Playback)
	if args.Backend != "" {
		cfg.Audio.Backend = args.Backend
		cfg.Audio.Check()
	}
	if cfg.Audio.DisableAudio {
		log.ModEmu.WarnZ("Audio disabled").End()
		cfg.Audio.Backend = hw.BackendNone
	}

	eng := emu.NewModuleEngine(mod, emu.RenderConfig{
		SampleRate: cfg.Audio.SampleRate,
		Synth:      cfg.Synth,
		Playback:   cfg.Playback,
	})

	out, err := hw.NewAudioOutput(hw.AudioConfig{
		Backend:    cfg.Audio.Backend,
		SampleRate: eng.Synth().SampleRate(),
		BufferSize: cfg.Audio.BufferSize,
	})
	if err != nil {
		return err
	}
	defer out.Close()

	p := emu.NewPlayer(eng, out)
	p.OnFrame = func(frame engine.Frame) {
		if frame.StartedNewPattern {
			cur, total := p.Progress()
			fmt.Fprintf(os.Stderr, "order %02X  loop %d/%d\n", frame.Order, cur, total)
		}
	}

	if err := p.Start(cfg.Playback.StartOrder, cfg.Playback.StartRow, args.limits(0)); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(os.Stderr, "playing %q, %.1f bpm, press Ctrl+C to stop\n",
		mod.Song.Name, engine.SpeedToTempo(mod.Song.Speed(), mod.Song.RowsPerBeat, eng.Synth().Framerate()))
	if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func renderConfig(cfg emu.Config, lf LimitFlags, pf PositionFlags) emu.RenderConfig {
	pf.apply(&cfg.Playback)
	return emu.RenderConfig{
		SampleRate: cfg.Audio.SampleRate,
		Synth:      cfg.Synth,
		Playback:   cfg.Playback,
		Limits:     lf.limits(1),
	}
}

// renderMain renders song sheets to raw PCM files, concurrently.
func renderMain(args Render, cfg emu.Config) error {
	rcfg := renderConfig(cfg, args.LimitFlags, args.PositionFlags)
	if args.SampleRate > 0 {
		rcfg.SampleRate = args.SampleRate
	}
	if args.OutDir != "" {
		if err := os.MkdirAll(args.OutDir, emu.DefaultFileMode); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	jobs := emu.RenderJobs(args.SheetPaths, args.OutDir)
	if err := emu.RenderFiles(ctx, jobs, rcfg); err != nil {
		return err
	}
	for _, job := range jobs {
		fmt.Printf("%s -> %s\n", job.Sheet, job.Out)
	}
	fmt.Printf("format: signed 16-bit little-endian, stereo, %d Hz\n", rcfg.SampleRate)
	return nil
}

// traceMain writes the JSON trace of a song sheet.
func traceMain(args Trace, cfg emu.Config) error {
	mod, err := song.LoadSheet(args.SheetPath)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if args.Out != nil {
		defer args.Out.Close()
		out = args.Out
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_, err = emu.Trace(ctx, mod, out, renderConfig(cfg, args.LimitFlags, args.PositionFlags))
	return err
}

// printNotes prints the frequency table of the tone channels, or the NR43
// values of the noise channel.
func printNotes(w io.Writer, noise bool) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	if noise {
		fmt.Fprintln(tw, "note\tNR43")
		for note, nr43 := range engine.NoteNoiseTable {
			fmt.Fprintf(tw, "%s\t%02X\n", song.NoteString(uint8(note)), nr43)
		}
		return
	}

	fmt.Fprintln(tw, "note\tfreq\tHz")
	for note, freq := range engine.NoteFreqTable {
		hz := float64(hwdefs.ClockSpeed) / float64(32*(2048-int(freq)))
		fmt.Fprintf(tw, "%s\t%03X\t%.2f\n", song.NoteString(uint8(note)), freq, hz)
	}
}

func printVersion() {
	version := "(devel)"
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		version = bi.Main.Version
	}
	fmt.Println("trackerboy", version)
}
