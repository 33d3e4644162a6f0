package engine

// SpeedToFloat converts a Q5.3 speed to frames per row.
func SpeedToFloat(speed uint8) float64 {
	return float64(speed) / unitSpeed
}

// SpeedToTempo returns the tempo, in beats per minute, of a song playing at
// the given speed and framerate.
func SpeedToTempo(speed uint8, rowsPerBeat int, framerate float64) float64 {
	if speed == 0 || rowsPerBeat <= 0 {
		return 0
	}
	return framerate * 60 / (SpeedToFloat(speed) * float64(rowsPerBeat))
}
