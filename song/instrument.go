package song

import (
	"fmt"

	"trackerboy/hw/hwdefs"
)

const MaxSequenceSize = 256

// A Sequence is a list of values an instrument runtime steps through, one per
// frame. When a loop index is set, the sequence restarts there once it
// reaches its end.
type Sequence struct {
	Data    []uint8
	Loop    uint8
	HasLoop bool
}

// SetLoop sets the loop index.
func (s *Sequence) SetLoop(idx uint8) {
	s.Loop = idx
	s.HasLoop = true
}

func (s *Sequence) RemoveLoop() {
	s.Loop = 0
	s.HasLoop = false
}

// Resize truncates or zero-extends the sequence. The size is capped to
// MaxSequenceSize.
func (s *Sequence) Resize(n int) {
	n = min(max(n, 0), MaxSequenceSize)
	if n <= len(s.Data) {
		s.Data = s.Data[:n]
		return
	}
	s.Data = append(s.Data, make([]uint8, n-len(s.Data))...)
}

// Enumerator returns a new enumerator over the sequence.
func (s *Sequence) Enumerator() Enumerator {
	return Enumerator{seq: s}
}

// Enumerator enumerates the values of a sequence. The zero value enumerates
// nothing.
type Enumerator struct {
	seq   *Sequence
	index int
}

// Next returns the next value in the sequence, or false once a non-looping
// sequence is exhausted.
func (e *Enumerator) Next() (uint8, bool) {
	if e.seq == nil {
		return 0, false
	}
	data := e.seq.Data
	if e.index >= len(data) {
		if !e.seq.HasLoop || int(e.seq.Loop) >= len(data) {
			return 0, false
		}
		e.index = int(e.seq.Loop)
	}
	v := data[e.index]
	e.index++
	return v, true
}

// Sequence kinds of an instrument.
const (
	SequenceArpeggio = iota
	SequencePanning
	SequencePitch
	SequenceTimbre

	NumSequences
)

type Instrument struct {
	ID      uint8
	Name    string
	Channel hwdefs.Channel

	// When enabled, the envelope is applied to the channel on each note
	// (for CH3 it's a waveform id).
	EnvelopeEnabled bool
	Envelope        uint8

	Sequences [NumSequences]Sequence
}

func (inst *Instrument) Sequence(kind int) *Sequence {
	return &inst.Sequences[kind]
}

// InstrumentTable gives access to instruments by id.
type InstrumentTable interface {
	Instrument(id uint8) (*Instrument, bool)
}

// Instruments is a map-based InstrumentTable.
type Instruments map[uint8]*Instrument

func (t Instruments) Instrument(id uint8) (*Instrument, bool) {
	inst, ok := t[id]
	return inst, ok
}

// Add adds inst to the table, failing if its id is already taken.
func (t Instruments) Add(inst *Instrument) error {
	if _, ok := t[inst.ID]; ok {
		return fmt.Errorf("duplicate instrument id %02X", inst.ID)
	}
	t[inst.ID] = inst
	return nil
}

const WaveformSize = hwdefs.WaveRAMSize

// A Waveform is the content of the wave RAM: 32 4-bit samples, 2 per byte,
// high nibble first.
type Waveform struct {
	ID   uint8
	Name string
	Data [WaveformSize]uint8
}

// ParseWaveData parses a waveform written as 32 hex digits.
func ParseWaveData(s string) ([WaveformSize]uint8, error) {
	var data [WaveformSize]uint8
	if len(s) != WaveformSize*2 {
		return data, fmt.Errorf("waveform must have %d samples, got %d", WaveformSize*2, len(s))
	}
	for i := range len(s) {
		nibble, ok := hexDigit(s[i])
		if !ok {
			return data, fmt.Errorf("invalid waveform sample %q", s[i])
		}
		if i%2 == 0 {
			data[i/2] = nibble << 4
		} else {
			data[i/2] |= nibble
		}
	}
	return data, nil
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// WaveformTable gives access to waveforms by id.
type WaveformTable interface {
	Waveform(id uint8) (*Waveform, bool)
}

// Waveforms is a map-based WaveformTable.
type Waveforms map[uint8]*Waveform

func (t Waveforms) Waveform(id uint8) (*Waveform, bool) {
	w, ok := t[id]
	return w, ok
}

func (t Waveforms) Add(w *Waveform) error {
	if _, ok := t[w.ID]; ok {
		return fmt.Errorf("duplicate waveform id %02X", w.ID)
	}
	t[w.ID] = w
	return nil
}
