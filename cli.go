package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"trackerboy/emu"
	"trackerboy/emu/log"
)

type mode byte

const (
	playMode    mode = iota // Play a song sheet
	renderMode              // Render song sheets to PCM files
	traceMode               // Trace frames and register writes
	notesMode               // Show note tables
	versionMode             // Show trackerboy version
)

type (
	CLI struct {
		Play    Play    `cmd:"" help:"Play a song sheet."`
		Render  Render  `cmd:"" help:"Render song sheets to raw PCM files."`
		Trace   Trace   `cmd:"" help:"Write a per-frame JSON trace of a song."`
		Notes   Notes   `cmd:"" help:"Show the note frequency tables."`
		Version Version `cmd:"" help:"Show trackerboy version."`

		Config string     `name:"config" help:"${config_help}" type:"existingfile"`
		Log    logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	LimitFlags struct {
		Loops    int           `name:"loops" help:"${loops_help}" xor:"limit"`
		Duration time.Duration `name:"duration" help:"${duration_help}" xor:"limit"`
	}

	PositionFlags struct {
		Order  int  `name:"order" help:"Start at this order." default:"0"`
		Row    int  `name:"row" help:"Start at this row." default:"0"`
		Repeat bool `name:"repeat" help:"Repeat the start pattern."`
	}

	Play struct {
		SheetPath string `arg:"" name:"/path/to/sheet" help:"Song sheet to play." type:"existingfile"`

		Backend string `name:"backend" help:"Audio backend (sdl, oto or none), overrides the configuration."`

		LimitFlags    `embed:""`
		PositionFlags `embed:""`
	}

	Render struct {
		SheetPaths []string `arg:"" name:"/path/to/sheet" help:"Song sheets to render." type:"existingfile"`

		OutDir     string `name:"outdir" help:"${outdir_help}" type:"path"`
		SampleRate int    `name:"rate" help:"Output sample rate, overrides the configuration."`

		LimitFlags    `embed:""`
		PositionFlags `embed:""`
	}

	Trace struct {
		SheetPath string `arg:"" name:"/path/to/sheet" help:"Song sheet to trace." type:"existingfile"`

		Out *outfile `name:"out" short:"o" help:"Write the trace to FILE." placeholder:"FILE|stdout|stderr"`

		LimitFlags    `embed:""`
		PositionFlags `embed:""`
	}

	Notes struct {
		Noise bool `name:"noise" help:"Show the noise table."`
	}

	Version struct{}
)

var vars = kong.Vars{
	"config_help":   "Configuration file. (default: user config directory)",
	"log_help":      "Enable logging for specified modules.",
	"loops_help":    "Number of times the song is played. (default: until it halts, once for render and trace)",
	"duration_help": "Play the song for this duration, like 1m30s.",
	"outdir_help":   "Directory of the rendered files. (default: next to each sheet)",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("trackerboy"),
		kong.Description("Game Boy music tracker runtime."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	cmd, _, _ := strings.Cut(ctx.Command(), " ")
	switch cmd {
	case "play":
		cfg.mode = playMode
	case "render":
		cfg.mode = renderMode
	case "trace":
		cfg.mode = traceMode
	case "notes":
		cfg.mode = notesMode
	case "version":
		cfg.mode = versionMode
	default:
		fatalf("unexpected command %q", ctx.Command())
	}
	return cfg
}

// limits returns the playback limits set on the command line. Without any,
// songs play defLoops times, or until they halt if defLoops is 0.
func (lf LimitFlags) limits(defLoops int) emu.Limits {
	switch {
	case lf.Loops > 0:
		return emu.LoopLimit(lf.Loops)
	case lf.Duration > 0:
		return emu.DurationLimit(lf.Duration)
	case defLoops > 0:
		return emu.LoopLimit(defLoops)
	}
	return emu.Limits{}
}

// apply overrides the playback configuration with the command line flags.
func (pf PositionFlags) apply(pcfg *emu.PlaybackConfig) {
	if pf.Order != 0 {
		pcfg.StartOrder = pf.Order
	}
	if pf.Row != 0 {
		pcfg.StartRow = pf.Row
	}
	if pf.Repeat {
		pcfg.PatternRepeat = true
	}
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if ctx.Command() == "" {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog := false
	allLogs := false

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if lm != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}

	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}

type outfile struct {
	w     io.Writer
	name  string
	close func() error
}

// Decode decodes FILE|stdout|stderr into an io.WriteCloser
// that writes to that file.
//
// Implements kong.MapperValue interface.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	f.name = tok.Value.(string)
	f.close = func() error { return nil }

	switch f.name {
	case "stdout":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.w = fd
		f.close = fd.Close
	}
	return nil
}

func (f *outfile) String() string              { return f.name }
func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *outfile) Close() error                { return f.close() }

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
