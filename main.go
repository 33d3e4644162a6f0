package main

import (
	"os"

	"trackerboy/emu"
)

func main() {
	args := parseArgs(os.Args[1:])

	switch args.mode {
	case versionMode:
		printVersion()
		return
	case notesMode:
		printNotes(os.Stdout, args.Notes.Noise)
		return
	}

	cfg := loadConfig(args.Config)

	switch args.mode {
	case playMode:
		checkf(playMain(args.Play, cfg), "failed to play song")
	case renderMode:
		checkf(renderMain(args.Render, cfg), "failed to render songs")
	case traceMode:
		checkf(traceMain(args.Trace, cfg), "failed to trace song")
	}
}

func loadConfig(path string) emu.Config {
	if path == "" {
		return emu.LoadConfigOrDefault()
	}
	cfg, err := emu.LoadConfig(path)
	checkf(err, "failed to load configuration %s", path)
	return cfg
}
