package plot

import (
	"fmt"
	"io"
	"strings"

	"curve/internal/curve"
	"curve/internal/letter"
)

// Text writes p as a letter grid, substitutes on the vertical axis and
// originals on the horizontal one, followed by a one-line mapping.
func Text(w io.Writer, p curve.Permutation) error {
	if err := p.Validate(); err != nil {
		return err
	}

	b := &strings.Builder{}
	for y := curve.Size - 1; y >= 0; y-- {
		b.WriteString(letter.Name(y))
		b.WriteString(" |")
		for x := range curve.Size {
			if p[x] == y {
				b.WriteString(" *")
			} else {
				b.WriteString(" .")
			}
		}
		b.WriteByte('\n')
	}

	b.WriteString("   ")
	b.WriteString(strings.Repeat("--", curve.Size))
	b.WriteString("\n   ")
	for x := range curve.Size {
		b.WriteByte(' ')
		b.WriteString(letter.Name(x))
	}
	b.WriteString("\n\n")

	for x, y := range p {
		if x > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(b, "%s→%s", letter.Name(x), letter.Name(y))
	}
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}
