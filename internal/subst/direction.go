package subst

import (
	"errors"
	"fmt"
	"strings"
)

type Direction int

const (
	Encrypt Direction = iota
	Decrypt
)

var ErrInvalidDirection = errors.New("invalid direction")

func (d Direction) String() string {
	switch d {
	case Encrypt:
		return "encrypt"
	case Decrypt:
		return "decrypt"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection accepts "c" or "encrypt" and "d" or "decrypt",
// ignoring case and surrounding space.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "encrypt":
		return Encrypt, nil
	case "d", "decrypt":
		return Decrypt, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}
