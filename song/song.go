package song

import (
	"fmt"

	"trackerboy/hw/hwdefs"
)

// Song speeds are frames per row, in Q5.3 fixed point.
const (
	SpeedMin     = 0x10 // 2.0
	SpeedMax     = 0xF0 // 30.0
	DefaultSpeed = 0x30 // 6.0

	DefaultRowsPerPattern = 64
	MaxRowsPerPattern     = 256
	MaxOrders             = 256
)

// An Order is the track id played on each channel for one pattern.
type Order [hwdefs.NumChannels]uint8

// A Track is the list of rows a channel plays during one pattern.
type Track []TrackRow

// RowSource feeds rows to the music runtime.
type RowSource interface {
	Row(ch hwdefs.Channel, order, row int) TrackRow
	PatternCount() int
	RowsPerPattern() int
	Speed() uint8
}

// Song is a list of orders, and the tracks they reference.
type Song struct {
	Name           string
	RowsPerBeat    int
	RowsPerMeasure int

	speed  uint8
	rows   int
	orders []Order
	tracks [hwdefs.NumChannels]map[uint8]Track
}

func New() *Song {
	s := &Song{
		RowsPerBeat:    4,
		RowsPerMeasure: 16,
		speed:          DefaultSpeed,
		orders:         []Order{{}},
	}
	for ch := range s.tracks {
		s.tracks[ch] = make(map[uint8]Track)
	}
	s.SetRowsPerPattern(DefaultRowsPerPattern)
	return s
}

func (s *Song) Speed() uint8 { return s.speed }

// SetSpeed sets the song speed, clamped to [SpeedMin, SpeedMax].
func (s *Song) SetSpeed(speed uint8) {
	s.speed = min(max(speed, SpeedMin), SpeedMax)
}

func (s *Song) RowsPerPattern() int { return s.rows }

// SetRowsPerPattern resizes all tracks to n rows.
func (s *Song) SetRowsPerPattern(n int) {
	s.rows = min(max(n, 1), MaxRowsPerPattern)
	for ch := range s.tracks {
		for id, tr := range s.tracks[ch] {
			s.tracks[ch][id] = resizeTrack(tr, s.rows)
		}
	}
}

func resizeTrack(tr Track, n int) Track {
	if len(tr) >= n {
		return tr[:n]
	}
	return append(tr, make(Track, n-len(tr))...)
}

func (s *Song) PatternCount() int { return len(s.orders) }

func (s *Song) Orders() []Order { return s.orders }

// SetOrders replaces the order list. A song always has at least one order.
func (s *Song) SetOrders(orders []Order) error {
	if len(orders) == 0 {
		return fmt.Errorf("song needs at least one order")
	}
	if len(orders) > MaxOrders {
		return fmt.Errorf("too many orders: %d > %d", len(orders), MaxOrders)
	}
	s.orders = append(s.orders[:0], orders...)
	return nil
}

// Track returns the track id of channel ch, creating it if needed.
func (s *Song) Track(ch hwdefs.Channel, id uint8) Track {
	tr, ok := s.tracks[ch][id]
	if !ok {
		tr = make(Track, s.rows)
		s.tracks[ch][id] = tr
	}
	return tr
}

// SetRow sets a row of the track id of channel ch.
func (s *Song) SetRow(ch hwdefs.Channel, id uint8, row int, r TrackRow) error {
	if row < 0 || row >= s.rows {
		return fmt.Errorf("row %d out of range [0, %d)", row, s.rows)
	}
	s.Track(ch, id)[row] = r
	return nil
}

// Row returns the row played by channel ch at the given order and row.
// Rows out of range are empty.
func (s *Song) Row(ch hwdefs.Channel, order, row int) TrackRow {
	if order < 0 || order >= len(s.orders) || row < 0 || row >= s.rows {
		return TrackRow{}
	}
	tr, ok := s.tracks[ch][s.orders[order][ch]]
	if !ok {
		return TrackRow{}
	}
	return tr[row]
}

// A Module is a song along with the instruments and waveforms it uses.
type Module struct {
	Song        *Song
	Instruments Instruments
	Waveforms   Waveforms
	Framerate   float64
}

func NewModule() *Module {
	return &Module{
		Song:        New(),
		Instruments: make(Instruments),
		Waveforms:   make(Waveforms),
		Framerate:   hwdefs.FramerateDMG,
	}
}
