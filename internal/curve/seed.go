package curve

// DeriveSeed sums the code points of every rune in key.
// Anagrams share a seed. The empty key yields 0.
func DeriveSeed(key string) uint64 {
	var seed uint64
	for _, r := range key {
		seed += uint64(r)
	}
	return seed
}
