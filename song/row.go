package song

import (
	"fmt"
	"strconv"
	"strings"
)

const MaxEffects = 3

// RowFlags tells which columns of a TrackRow are set.
type RowFlags uint8

const (
	FlagNote RowFlags = 1 << iota
	FlagInstrument
	FlagEffect1
	FlagEffect2
	FlagEffect3
)

func effectFlag(i int) RowFlags { return FlagEffect1 << i }

// TrackRow is a row of a track: an optional note, an optional instrument and
// up to MaxEffects optional effects. The zero value is an empty row.
type TrackRow struct {
	Note       uint8
	Instrument uint8
	Effects    [MaxEffects]Effect
	Flags      RowFlags
}

func (r TrackRow) IsEmpty() bool { return r.Flags == 0 }

func (r TrackRow) QueryNote() (uint8, bool) {
	return r.Note, r.Flags&FlagNote != 0
}

func (r TrackRow) QueryInstrument() (uint8, bool) {
	return r.Instrument, r.Flags&FlagInstrument != 0
}

// QueryEffect returns the effect in column i, if set.
func (r TrackRow) QueryEffect(i int) (Effect, bool) {
	if i < 0 || i >= MaxEffects || r.Flags&effectFlag(i) == 0 {
		return Effect{}, false
	}
	return r.Effects[i], true
}

func (r *TrackRow) SetNote(note uint8) {
	r.Note = note
	r.Flags |= FlagNote
}

func (r *TrackRow) ClearNote() {
	r.Note = 0
	r.Flags &^= FlagNote
}

func (r *TrackRow) SetInstrument(id uint8) {
	r.Instrument = id
	r.Flags |= FlagInstrument
}

func (r *TrackRow) ClearInstrument() {
	r.Instrument = 0
	r.Flags &^= FlagInstrument
}

// SetEffect sets effect column i. Setting EffectNone clears the column.
func (r *TrackRow) SetEffect(i int, et EffectType, param uint8) {
	if et == EffectNone {
		r.ClearEffect(i)
		return
	}
	r.Effects[i] = Effect{Type: et, Param: param}
	r.Flags |= effectFlag(i)
}

func (r *TrackRow) ClearEffect(i int) {
	r.Effects[i] = Effect{}
	r.Flags &^= effectFlag(i)
}

// String formats the row in pattern notation: "C-5 00 F20 ... ...".
func (r TrackRow) String() string {
	var sb strings.Builder
	if note, ok := r.QueryNote(); ok {
		sb.WriteString(NoteString(note))
	} else {
		sb.WriteString("...")
	}
	if inst, ok := r.QueryInstrument(); ok {
		fmt.Fprintf(&sb, " %02X", inst)
	} else {
		sb.WriteString(" ..")
	}
	for i := range MaxEffects {
		if eff, ok := r.QueryEffect(i); ok {
			fmt.Fprintf(&sb, " %c%02X", eff.Type.Char(), eff.Param)
		} else {
			sb.WriteString(" ...")
		}
	}
	return sb.String()
}

// ParseRow parses a row written in pattern notation. Trailing columns can be
// omitted; "..." (or "..") marks an unset column.
func ParseRow(s string) (TrackRow, error) {
	var row TrackRow
	fields := strings.Fields(s)
	if len(fields) > 2+MaxEffects {
		return row, fmt.Errorf("too many columns in row %q", s)
	}

	for i, f := range fields {
		if strings.Trim(f, ".") == "" {
			continue
		}
		switch i {
		case 0:
			note, err := ParseNote(f)
			if err != nil {
				return row, err
			}
			row.SetNote(note)
		case 1:
			id, err := strconv.ParseUint(f, 16, 8)
			if err != nil {
				return row, fmt.Errorf("invalid instrument %q: %w", f, err)
			}
			row.SetInstrument(uint8(id))
		default:
			if len(f) != 3 {
				return row, fmt.Errorf("invalid effect %q", f)
			}
			et, ok := EffectTypeByChar(strings.ToUpper(f[:1])[0])
			if !ok {
				return row, fmt.Errorf("unknown effect %q", f)
			}
			param, err := strconv.ParseUint(f[1:], 16, 8)
			if err != nil {
				return row, fmt.Errorf("invalid effect parameter %q: %w", f, err)
			}
			row.SetEffect(i-2, et, uint8(param))
		}
	}
	return row, nil
}
