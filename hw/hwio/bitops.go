package hwio

func GetBit8(v uint8, n uint) bool {
	return GetBiti8(v, n) != 0
}

func GetBiti8(v uint8, n uint) uint8 {
	return v >> (n) & 0x01
}

func SetBit8(v *uint8, n uint) {
	*v |= (1 << n)
}

func ClearBit8(v *uint8, n uint) {
	*v &= ^(1 << n)
}

func FlipBit8(v *uint8, n uint) {
	*v ^= (1 << n)
}

// Field8 extracts the n-bit field starting at bit lo.
func Field8(v uint8, lo, n uint) uint8 {
	return (v >> lo) & (1<<n - 1)
}

// SetField8 replaces the n-bit field starting at bit lo with f.
func SetField8(v *uint8, lo, n uint, f uint8) {
	mask := uint8(1<<n-1) << lo
	*v = (*v &^ mask) | (f<<lo)&mask
}

func GetBit16(v uint16, n uint) bool {
	return v>>(n)&0x01 != 0
}
