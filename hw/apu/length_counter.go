package apu

// lengthCounter disables its channel after a programmable number of 256 Hz
// ticks, when enabled via bit 6 of NRx4.
type lengthCounter struct {
	max     uint16 // 64, or 256 for the wave channel
	counter uint16
	enabled bool
}

// load sets the counter from the length field of NRx1 (or NR31).
func (lc *lengthCounter) load(val uint8) {
	lc.counter = lc.max - uint16(val)
}

// restart reloads an expired counter with the maximum length.
func (lc *lengthCounter) restart() {
	if lc.counter == 0 {
		lc.counter = lc.max
	}
}

func (lc *lengthCounter) setEnabled(enabled bool) {
	lc.enabled = enabled
}

func (lc *lengthCounter) reset() {
	lc.counter = 0
	lc.enabled = false
}

// tick clocks the counter and reports whether it just expired.
func (lc *lengthCounter) tick() bool {
	if !lc.enabled || lc.counter == 0 {
		return false
	}
	lc.counter--
	return lc.counter == 0
}
