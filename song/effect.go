package song

//go:generate go tool stringer -type=EffectType -trimprefix=Effect

// EffectType is the type of an effect column.
type EffectType uint8

const (
	EffectNone           EffectType = iota
	EffectPatternGoto               // Bxx
	EffectPatternHalt               // C00
	EffectPatternSkip               // D00
	EffectSetTempo                  // Fxx
	EffectSfx                       // Txx
	EffectSetEnvelope               // Exx
	EffectSetTimbre                 // Vxx
	EffectSetPanning                // Ixy
	EffectSetSweep                  // Hxx
	EffectDelayedCut                // Sxx
	EffectDelayedNote               // Gxx
	EffectLock                      // L00
	EffectArpeggio                  // 0xy
	EffectPitchUp                   // 1xx
	EffectPitchDown                 // 2xx
	EffectAutoPortamento            // 3xx
	EffectVibrato                   // 4xy
	EffectVibratoDelay              // 5xx
	EffectTuning                    // Pxx
	EffectNoteSlideUp               // Qxy
	EffectNoteSlideDown             // Rxy

	numEffectTypes
)

var effectChars = [numEffectTypes]byte{
	EffectNone:           '.',
	EffectPatternGoto:    'B',
	EffectPatternHalt:    'C',
	EffectPatternSkip:    'D',
	EffectSetTempo:       'F',
	EffectSfx:            'T',
	EffectSetEnvelope:    'E',
	EffectSetTimbre:      'V',
	EffectSetPanning:     'I',
	EffectSetSweep:       'H',
	EffectDelayedCut:     'S',
	EffectDelayedNote:    'G',
	EffectLock:           'L',
	EffectArpeggio:       '0',
	EffectPitchUp:        '1',
	EffectPitchDown:      '2',
	EffectAutoPortamento: '3',
	EffectVibrato:        '4',
	EffectVibratoDelay:   '5',
	EffectTuning:         'P',
	EffectNoteSlideUp:    'Q',
	EffectNoteSlideDown:  'R',
}

// Char returns the character used for the effect in pattern notation, or
// '?' for unknown effects.
func (et EffectType) Char() byte {
	if et < numEffectTypes {
		return effectChars[et]
	}
	return '?'
}

// EffectTypeByChar returns the effect type written c in pattern notation.
func EffectTypeByChar(c byte) (EffectType, bool) {
	if c == effectChars[EffectNone] {
		return EffectNone, false
	}
	for et, ch := range effectChars {
		if ch == c {
			return EffectType(et), true
		}
	}
	return EffectNone, false
}

// IsPatternEffect reports whether the effect changes the pattern flow.
func (et EffectType) IsPatternEffect() bool {
	return et == EffectPatternGoto || et == EffectPatternHalt || et == EffectPatternSkip
}

type Effect struct {
	Type  EffectType
	Param uint8
}
