package song

import (
	"fmt"
	"strings"
)

// Notes are numbered from C-2 (0) to B-8 (83). Noise notes stop at B-6.
const (
	NoteLast      = 83
	NoteNoiseLast = 59
	NoteCut       = 84

	firstOctave = 2
)

var noteNames = [12]string{"C-", "C#", "D-", "D#", "E-", "F-", "F#", "G-", "G#", "A-", "A#", "B-"}

// Note returns the note index of a key (0 = C, 11 = B) in the given octave.
func Note(key, octave int) uint8 {
	return uint8((octave-firstOctave)*12 + key)
}

// NoteString returns the pattern notation of a note, "---" for a note cut.
func NoteString(note uint8) string {
	switch {
	case note == NoteCut:
		return "---"
	case note > NoteLast:
		return "???"
	}
	return fmt.Sprintf("%s%d", noteNames[note%12], int(note)/12+firstOctave)
}

// ParseNote parses a note in pattern notation, like "C-5", "F#3" or "---".
func ParseNote(s string) (uint8, error) {
	if s == "---" {
		return NoteCut, nil
	}
	if len(s) != 3 {
		return 0, fmt.Errorf("invalid note %q", s)
	}
	key := -1
	for i, name := range noteNames {
		if strings.EqualFold(s[:2], name) {
			key = i
			break
		}
	}
	if key < 0 || s[2] < '0' || s[2] > '9' {
		return 0, fmt.Errorf("invalid note %q", s)
	}

	octave := int(s[2] - '0')
	n := (octave-firstOctave)*12 + key
	if octave < firstOctave || n > NoteLast {
		return 0, fmt.Errorf("note %q out of range", s)
	}
	return uint8(n), nil
}
