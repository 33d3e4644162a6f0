package song

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"trackerboy/emu/log"
	"trackerboy/hw/hwdefs"
)

// A song sheet is a TOML description of a module:
//
//	name = "demo"
//	speed = 0x30
//	rows = 64
//	orders = [[0, 0, 0, 0], [1, 0, 0, 0]]
//
//	[[instrument]]
//	id = 0
//	channel = 1
//	envelope = 0xF1
//	timbre = { data = [0, 1, 2], loop = 2 }
//
//	[[waveform]]
//	id = 0
//	data = "0123456789ABCDEFFEDCBA9876543210"
//
//	[[track]]
//	channel = 1
//	id = 0
//	[track.rows]
//	0 = "C-5 00 ... ... ..."
//	8 = "--- .. ..."
type sheet struct {
	Name           string  `toml:"name"`
	Speed          int     `toml:"speed"`
	Rows           int     `toml:"rows"`
	RowsPerBeat    int     `toml:"rows_per_beat"`
	RowsPerMeasure int     `toml:"rows_per_measure"`
	Framerate      float64 `toml:"framerate"`
	Orders         [][]int `toml:"orders"`

	Instruments []sheetInstrument `toml:"instrument"`
	Waveforms   []sheetWaveform   `toml:"waveform"`
	Tracks      []sheetTrack      `toml:"track"`
}

type sheetSequence struct {
	Data []int `toml:"data"`
	Loop *int  `toml:"loop"`
}

type sheetInstrument struct {
	ID       int            `toml:"id"`
	Name     string         `toml:"name"`
	Channel  int            `toml:"channel"`
	Envelope *int           `toml:"envelope"`
	Arpeggio *sheetSequence `toml:"arpeggio"`
	Panning  *sheetSequence `toml:"panning"`
	Pitch    *sheetSequence `toml:"pitch"`
	Timbre   *sheetSequence `toml:"timbre"`
}

type sheetWaveform struct {
	ID   int    `toml:"id"`
	Name string `toml:"name"`
	Data string `toml:"data"`
}

type sheetTrack struct {
	Channel int               `toml:"channel"`
	ID      int               `toml:"id"`
	Rows    map[string]string `toml:"rows"`
}

// LoadSheet loads the song sheet at path.
func LoadSheet(path string) (*Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mod, err := ParseSheet(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mod, nil
}

// ParseSheet parses a song sheet.
func ParseSheet(r io.Reader) (*Module, error) {
	var sh sheet
	md, err := toml.NewDecoder(r).Decode(&sh)
	if err != nil {
		return nil, err
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	mod := NewModule()
	if err := sh.fill(mod); err != nil {
		return nil, err
	}

	log.ModSong.InfoZ("song sheet loaded").
		String("name", mod.Song.Name).
		Int("orders", mod.Song.PatternCount()).
		Int("instruments", len(mod.Instruments)).
		Int("waveforms", len(mod.Waveforms)).
		End()
	return mod, nil
}

func checkByte(what string, v int) (uint8, error) {
	if v < 0 || v > 0xFF {
		return 0, fmt.Errorf("%s out of range: %d", what, v)
	}
	return uint8(v), nil
}

func checkChannel(v int) (hwdefs.Channel, error) {
	if v < 1 || v > hwdefs.NumChannels {
		return 0, fmt.Errorf("invalid channel %d, must be in [1, %d]", v, hwdefs.NumChannels)
	}
	return hwdefs.Channel(v - 1), nil
}

func (sh *sheet) fill(mod *Module) error {
	s := mod.Song
	s.Name = sh.Name
	if sh.Speed != 0 {
		speed, err := checkByte("speed", sh.Speed)
		if err != nil {
			return err
		}
		if speed < SpeedMin || speed > SpeedMax {
			return fmt.Errorf("speed %#02x out of range [%#02x, %#02x]", speed, SpeedMin, SpeedMax)
		}
		s.SetSpeed(speed)
	}
	if sh.Rows != 0 {
		if sh.Rows < 1 || sh.Rows > MaxRowsPerPattern {
			return fmt.Errorf("rows out of range: %d", sh.Rows)
		}
		s.SetRowsPerPattern(sh.Rows)
	}
	if sh.RowsPerBeat > 0 {
		s.RowsPerBeat = sh.RowsPerBeat
	}
	if sh.RowsPerMeasure > 0 {
		s.RowsPerMeasure = sh.RowsPerMeasure
	}
	if sh.Framerate < 0 {
		return fmt.Errorf("invalid framerate %g", sh.Framerate)
	}
	if sh.Framerate > 0 {
		mod.Framerate = sh.Framerate
	}

	if len(sh.Orders) > 0 {
		orders := make([]Order, len(sh.Orders))
		for i, o := range sh.Orders {
			if len(o) != hwdefs.NumChannels {
				return fmt.Errorf("order %d: want %d track ids, got %d", i, hwdefs.NumChannels, len(o))
			}
			for ch, id := range o {
				v, err := checkByte(fmt.Sprintf("order %d track id", i), id)
				if err != nil {
					return err
				}
				orders[i][ch] = v
			}
		}
		if err := s.SetOrders(orders); err != nil {
			return err
		}
	}

	for _, si := range sh.Instruments {
		inst, err := si.instrument()
		if err != nil {
			return fmt.Errorf("instrument %d: %w", si.ID, err)
		}
		if err := mod.Instruments.Add(inst); err != nil {
			return err
		}
	}

	for _, sw := range sh.Waveforms {
		id, err := checkByte("waveform id", sw.ID)
		if err != nil {
			return err
		}
		data, err := ParseWaveData(sw.Data)
		if err != nil {
			return fmt.Errorf("waveform %d: %w", sw.ID, err)
		}
		if err := mod.Waveforms.Add(&Waveform{ID: id, Name: sw.Name, Data: data}); err != nil {
			return err
		}
	}

	for _, st := range sh.Tracks {
		if err := st.fill(s); err != nil {
			return fmt.Errorf("track %d of channel %d: %w", st.ID, st.Channel, err)
		}
	}
	return nil
}

func (si *sheetInstrument) instrument() (*Instrument, error) {
	id, err := checkByte("id", si.ID)
	if err != nil {
		return nil, err
	}
	ch, err := checkChannel(si.Channel)
	if err != nil {
		return nil, err
	}
	inst := &Instrument{ID: id, Name: si.Name, Channel: ch}
	if si.Envelope != nil {
		env, err := checkByte("envelope", *si.Envelope)
		if err != nil {
			return nil, err
		}
		inst.EnvelopeEnabled = true
		inst.Envelope = env
	}

	seqs := [NumSequences]*sheetSequence{
		SequenceArpeggio: si.Arpeggio,
		SequencePanning:  si.Panning,
		SequencePitch:    si.Pitch,
		SequenceTimbre:   si.Timbre,
	}
	for kind, ss := range seqs {
		if ss == nil {
			continue
		}
		if err := ss.fill(inst.Sequence(kind)); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// fill fills seq. Values may be negative (signed sequences like pitch and
// arpeggio offsets), down to -128.
func (ss *sheetSequence) fill(seq *Sequence) error {
	if len(ss.Data) > MaxSequenceSize {
		return fmt.Errorf("sequence too long: %d > %d", len(ss.Data), MaxSequenceSize)
	}
	seq.Data = make([]uint8, len(ss.Data))
	for i, v := range ss.Data {
		if v < -128 || v > 0xFF {
			return fmt.Errorf("sequence value out of range: %d", v)
		}
		seq.Data[i] = uint8(v)
	}
	if ss.Loop != nil {
		if *ss.Loop < 0 || *ss.Loop >= len(ss.Data) {
			return fmt.Errorf("sequence loop index %d out of range", *ss.Loop)
		}
		seq.SetLoop(uint8(*ss.Loop))
	}
	return nil
}

func (st *sheetTrack) fill(s *Song) error {
	ch, err := checkChannel(st.Channel)
	if err != nil {
		return err
	}
	id, err := checkByte("id", st.ID)
	if err != nil {
		return err
	}

	// Parse rows in order so that errors are reported deterministically.
	keys := make([]string, 0, len(st.Rows))
	for k := range st.Rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s.Track(ch, id)
	for _, k := range keys {
		idx, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("invalid row index %q", k)
		}
		row, err := ParseRow(st.Rows[k])
		if err != nil {
			return fmt.Errorf("row %d: %w", idx, err)
		}
		if err := s.SetRow(ch, id, idx, row); err != nil {
			return err
		}
	}
	return nil
}
