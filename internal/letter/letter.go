// Package letter maps ASCII letters to their alphabet index and back.
package letter

// Count is the number of letters in the alphabet.
const Count = 26

// Index returns the case-insensitive alphabet index of r and whether r
// is an upper case letter. ok is false for anything outside A-Z and a-z,
// including accented and non-Latin letters.
func Index(r rune) (i int, upper bool, ok bool) {
	switch {
	case 'a' <= r && r <= 'z':
		return int(r - 'a'), false, true
	case 'A' <= r && r <= 'Z':
		return int(r - 'A'), true, true
	}
	return 0, false, false
}

// Rune renders index i as a letter of the requested case.
func Rune(i int, upper bool) rune {
	if i < 0 || i >= Count {
		panic("letter: index must be in the range [0, 25]")
	}
	if upper {
		return 'A' + rune(i)
	}
	return 'a' + rune(i)
}

// Name returns the upper case letter for index i as a string.
func Name(i int) string {
	return string(Rune(i, true))
}
