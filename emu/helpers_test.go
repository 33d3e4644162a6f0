package emu

import (
	"strings"
	"testing"

	"trackerboy/song"
)

// haltSheet plays a note for one row, and halts after the next one. At
// speed 0x20 a row lasts 4 frames.
const haltSheet = `
name = "halt"
speed = 0x20
rows = 2
orders = [[0, 0, 0, 0]]

[[instrument]]
id = 0
channel = 1
envelope = 0xF0

[[track]]
channel = 1
id = 0
[track.rows]
0 = "C-5 00"
1 = "... .. C00"
`

// loopSheet has 2 patterns of 2 rows at speed 0x10, playing forever.
const loopSheet = `
name = "loop"
speed = 0x10
rows = 2
orders = [[0, 0, 0, 0], [1, 0, 0, 0]]

[[track]]
channel = 1
id = 0
[track.rows]
0 = "C-4 .. V02"

[[track]]
channel = 1
id = 1
[track.rows]
0 = "E-4 .."
`

func mustSheet(tb testing.TB, sheet string) *song.Module {
	tb.Helper()
	mod, err := song.ParseSheet(strings.NewReader(sheet))
	if err != nil {
		tb.Fatalf("failed to parse sheet: %v", err)
	}
	return mod
}
