package emu

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"trackerboy/emu/log"
	"trackerboy/engine"
	"trackerboy/hw"
	"trackerboy/hw/apu"
	"trackerboy/song"
)

// RenderConfig configures offline renders.
type RenderConfig struct {
	SampleRate int
	Synth      SynthConfig
	Playback   PlaybackConfig
	Limits     Limits
}

// NewModuleEngine returns an engine set up for cfg, with mod loaded.
func NewModuleEngine(mod *song.Module, cfg RenderConfig) *Engine {
	if cfg.Synth.Framerate > 0 {
		mod.Framerate = cfg.Synth.Framerate
	}
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = apu.DefaultSampleRate
	}
	eng := NewEngine(hw.NewSynth(rate, mod.Framerate))
	if cfg.Synth.Gain > 0 {
		eng.Synth().SetGain(cfg.Synth.Gain)
	}
	if cfg.Synth.Volume != 0 {
		eng.SetVolume(cfg.Synth.Volume)
	}
	eng.SetModule(mod)
	eng.RepeatPattern(cfg.Playback.PatternRepeat)
	return eng
}

// playOffline plays the song loaded in eng as fast as possible, until the
// limits are reached. fn is called after each frame, with the frame samples.
func playOffline(ctx context.Context, eng *Engine, pcfg PlaybackConfig, lim Limits, fn func(*engine.Frame, []int16) error) error {
	mod := eng.Module()
	if mod == nil {
		return errNoModule
	}
	limiter := NewLimiter(lim, mod.Song.PatternCount(), pcfg.StartOrder, eng.Synth().Framerate())
	if limiter.Empty() {
		return nil
	}
	if err := eng.Play(pcfg.StartOrder, pcfg.StartRow); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var frame engine.Frame
		eng.Step(&frame)
		if err := fn(&frame, eng.Synth().Samples()); err != nil {
			return err
		}
		if limiter.Step(&frame) {
			return nil
		}
	}
}

// Render renders the song of mod to w, as interleaved stereo signed 16-bit
// little-endian PCM. It returns the number of frames rendered.
func Render(ctx context.Context, mod *song.Module, w io.Writer, cfg RenderConfig) (int, error) {
	eng := NewModuleEngine(mod, cfg)
	bw := bufio.NewWriter(w)

	var (
		nframes int
		buf     []byte
	)
	err := playOffline(ctx, eng, cfg.Playback, cfg.Limits, func(_ *engine.Frame, samples []int16) error {
		buf = buf[:0]
		for _, s := range samples {
			buf = binary.LittleEndian.AppendUint16(buf, uint16(s))
		}
		nframes++
		_, err := bw.Write(buf)
		return err
	})
	if err != nil {
		return nframes, err
	}
	return nframes, bw.Flush()
}

// A RenderJob renders the song sheet at Sheet into the file at Out.
type RenderJob struct {
	Sheet string
	Out   string
}

// RenderJobs returns the jobs rendering each sheet to a .raw file in
// outdir, or next to the sheet if outdir is empty.
func RenderJobs(sheets []string, outdir string) []RenderJob {
	jobs := make([]RenderJob, 0, len(sheets))
	for _, path := range sheets {
		dir := outdir
		if dir == "" {
			dir = filepath.Dir(path)
		}
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		jobs = append(jobs, RenderJob{Sheet: path, Out: filepath.Join(dir, base+".raw")})
	}
	return jobs
}

// RenderFiles runs jobs concurrently, one engine per job. It stops at the
// first error.
func RenderFiles(ctx context.Context, jobs []RenderJob, cfg RenderConfig) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, job := range jobs {
		g.Go(func() error {
			if err := renderFile(ctx, job, cfg); err != nil {
				return fmt.Errorf("%s: %w", job.Sheet, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func renderFile(ctx context.Context, job RenderJob, cfg RenderConfig) error {
	mod, err := song.LoadSheet(job.Sheet)
	if err != nil {
		return err
	}

	f, err := os.Create(job.Out)
	if err != nil {
		return err
	}

	nframes, err := Render(ctx, mod, f, cfg)
	if err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.ModEmu.InfoZ("Song rendered").
		String("sheet", job.Sheet).
		String("out", job.Out).
		Int("frames", nframes).
		End()
	return nil
}
