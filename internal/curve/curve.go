// Package curve derives the letter permutation ("curve") for a key.
//
// The permutation is produced by seeding a fresh MT19937 generator with the
// code point sum of the key and shuffling 0..25 with the backwards
// Fisher–Yates walk used by NumPy's legacy RandomState.permutation, so a key
// yields the same curve as np.random.seed(sum) followed by permutation(26).
package curve

import (
	"errors"
	"fmt"
	"strings"

	"curve/internal/letter"
)

// Size is the length of every valid permutation.
const Size = letter.Count

var ErrMalformedPermutation = errors.New("malformed permutation")

// Permutation maps an original letter index (position) to a substituted
// letter index (value).
type Permutation []int

// Generate returns the curve for key.
func Generate(key string) Permutation {
	return FromSeed(DeriveSeed(key))
}

// FromSeed returns the curve for an already derived seed. Only the low
// 32 bits of seed initialise the generator.
func FromSeed(seed uint64) Permutation {
	p := Identity()
	newMT19937(uint32(seed)).shuffle(p)
	return p
}

// Identity returns the permutation that maps every letter to itself.
func Identity() Permutation {
	p := make(Permutation, Size)
	for i := range p {
		p[i] = i
	}
	return p
}

// Validate reports whether p is a bijection over 0..25.
func (p Permutation) Validate() error {
	if len(p) != Size {
		return fmt.Errorf("%w: length %d, want %d", ErrMalformedPermutation, len(p), Size)
	}

	var seen [Size]bool
	for i, v := range p {
		if v < 0 || v >= Size {
			return fmt.Errorf("%w: value %d at position %d out of range", ErrMalformedPermutation, v, i)
		}
		if seen[v] {
			return fmt.Errorf("%w: value %d repeated at position %d", ErrMalformedPermutation, v, i)
		}
		seen[v] = true
	}
	return nil
}

// Inverse returns the argsort of p. p must be valid.
func (p Permutation) Inverse() Permutation {
	inv := make(Permutation, len(p))
	for i, v := range p {
		inv[v] = i
	}
	return inv
}

// Invert validates p and returns its inverse.
func Invert(p Permutation) (Permutation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p.Inverse(), nil
}

// Encode returns the substitute for letter index i.
func (p Permutation) Encode(i int) int {
	return p[i]
}

// DecodeLetter returns the original letter index for cipher index i.
// Callers decoding more than one letter should invert once and use Encode
// on the inverse instead.
func DecodeLetter(i int, p Permutation) (int, error) {
	inv, err := Invert(p)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= Size {
		return 0, fmt.Errorf("curve: letter index %d out of range", i)
	}
	return inv[i], nil
}

// Equal reports whether p and q map every letter the same way.
func (p Permutation) Equal(q Permutation) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// String renders p as the substitutes of A..Z, e.g. "CKDNGS...".
func (p Permutation) String() string {
	s := &strings.Builder{}
	s.Grow(len(p))
	for _, v := range p {
		if v < 0 || v >= Size {
			s.WriteRune('?')
			continue
		}
		s.WriteRune(letter.Rune(v, true))
	}
	return s.String()
}

// Parse reads the 26-letter form produced by String. Case is ignored.
func Parse(s string) (Permutation, error) {
	p := make(Permutation, 0, Size)
	for _, r := range s {
		i, _, ok := letter.Index(r)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a letter", ErrMalformedPermutation, r)
		}
		p = append(p, i)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
