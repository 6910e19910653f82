package sim

import "math"

// LineKey is a line-aligned address: a byte address divided by the line
// size. Every cache, prefetcher, and in-flight structure is keyed on
// LineKey only; raw byte addresses never cross those boundaries. LineKey
// is narrower than the uint64 byte-address space so that an
// out-of-range address is observable as AddressOverflowError rather than
// silently wrapping.
type LineKey uint32

// lineOf floors a byte address to its line key. It returns
// *AddressOverflowError if the resulting key would not fit in a LineKey.
func lineOf(addr uint64, lineBytes uint32) (LineKey, error) {
	key := addr / uint64(lineBytes)
	if key > math.MaxUint32 {
		return 0, &AddressOverflowError{Address: addr}
	}
	return LineKey(key), nil
}

// bankT1 selects the tier-1 bank for a line key using its low-order bits.
func bankT1(key LineKey, numT1Banks int) int {
	return int(uint64(key) % uint64(numT1Banks))
}

// bankT2 selects the tier-2 bank for a line key using the next low-order
// bits, after the tier-1 bank index has been divided out.
func bankT2(key LineKey, numT1Banks, numT2Banks int) int {
	return int((uint64(key) / uint64(numT1Banks)) % uint64(numT2Banks))
}
