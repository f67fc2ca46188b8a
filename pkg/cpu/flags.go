package cpu

// ParityTable is a precomputed even-parity table over the low byte of an
// 8086 arithmetic result (spec §4.5: "parity-even over the low 8 bits of
// the result"), following the teacher's precomputed-flag-table idiom rather
// than counting bits on every instruction.
var ParityTable [256]bool

func init() {
	for i := 0; i < 256; i++ {
		j := uint8(i)
		parity := uint8(0)
		for k := 0; k < 8; k++ {
			parity ^= j & 1
			j >>= 1
		}
		ParityTable[i] = parity == 0
	}
}

// flagsFromResult derives Zero/Sign/Parity from a 16-bit arithmetic result.
// Carry is computed separately by the caller, since it depends on whether
// the operation was an add (unsigned overflow) or a subtract (borrow).
func flagsFromResult(result uint16) (zero, sign, parity bool) {
	return result == 0, result&0x8000 != 0, ParityTable[result&0xFF]
}
