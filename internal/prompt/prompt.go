// Package prompt reads answers to interactive questions.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type Prompter struct {
	in  io.Reader
	r   *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  in,
		r:   bufio.NewReader(in),
		out: out,
	}
}

// Line asks question and returns the answer without its line ending.
// A final line without newline is accepted; io.EOF is returned only when
// nothing was typed at all.
func (p *Prompter) Line(question string) (string, error) {
	if _, err := io.WriteString(p.out, question); err != nil {
		return "", fmt.Errorf("prompt: write: %w", err)
	}

	line, err := p.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Secret is Line without echo when the input is a terminal.
func (p *Prompter) Secret(question string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) || p.r.Buffered() > 0 {
		return p.Line(question)
	}

	if _, err := io.WriteString(p.out, question); err != nil {
		return "", fmt.Errorf("prompt: write: %w", err)
	}

	b, err := term.ReadPassword(int(f.Fd()))
	io.WriteString(p.out, "\n")
	if err != nil {
		return "", fmt.Errorf("prompt: read secret: %w", err)
	}
	return string(b), nil
}
