package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"curve/internal/ctxlog"
	"curve/internal/curve"
	"curve/internal/keypack"
	"curve/internal/plot"
	"curve/internal/prompt"
	"curve/internal/rec"
	"curve/internal/subst"
)

type session struct {
	p        *prompt.Prompter
	out      io.Writer
	plotFile string
}

func (s *session) show(ctx context.Context, p curve.Permutation) error {
	fmt.Fprintln(s.out)
	if err := plot.Text(s.out, p); err != nil {
		return fmt.Errorf("curve: %w", err)
	}

	if s.plotFile == "" {
		return nil
	}
	if err := plot.Save(p, s.plotFile); err != nil {
		return err
	}
	ctxlog.Get(ctx).Info("saved plot", "file", s.plotFile)
	fmt.Fprintf(s.out, "\nCurve saved to %s\n", s.plotFile)
	return nil
}

func (s *session) encrypt(ctx context.Context) error {
	text, err := s.p.Line("Text to encrypt: ")
	if err != nil {
		return fmt.Errorf("read text: %w", err)
	}
	key, err := s.p.Secret("Key: ")
	if err != nil {
		return fmt.Errorf("read key: %w", err)
	}

	packed, err := keypack.Pack(key)
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Packed key:")
	fmt.Fprintln(s.out, packed)
	fmt.Fprintln(s.out, "Ciphertext:")
	fmt.Fprintln(s.out, subst.Encode(text, key))

	ctxlog.Get(ctx).Info("encrypted", "runes", len([]rune(text)), "seed", curve.DeriveSeed(key))
	return s.show(ctx, curve.Generate(key))
}

func (s *session) decrypt(ctx context.Context) error {
	text, err := s.p.Line("Ciphertext: ")
	if err != nil {
		return fmt.Errorf("read ciphertext: %w", err)
	}
	packed, err := s.p.Secret("Packed key: ")
	if err != nil {
		return fmt.Errorf("read packed key: %w", err)
	}

	key, err := keypack.Unpack(packed)
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Recovered key:", key)
	fmt.Fprintln(s.out, "Plaintext:")
	fmt.Fprintln(s.out, subst.Decode(text, key))

	ctxlog.Get(ctx).Info("decrypted", "runes", len([]rune(text)), "seed", curve.DeriveSeed(key))
	return s.show(ctx, curve.Generate(key))
}

func run(ctx context.Context, s *session) (err error) {
	defer rec.Error(&err)

	mode, err := s.p.Line("Mode (encrypt/decrypt)? [c/d]: ")
	if err != nil {
		return fmt.Errorf("read mode: %w", err)
	}

	d, err := subst.ParseDirection(mode)
	if errors.Is(err, subst.ErrInvalidDirection) {
		ctxlog.Get(ctx).Warn("invalid mode", "mode", mode)
		fmt.Fprintln(s.out, "invalid choice")
		return nil
	}

	switch d {
	case subst.Encrypt:
		return s.encrypt(ctx)
	default:
		return s.decrypt(ctx)
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ctx = ctxlog.SetupFile(ctx, "curve")

	logger := ctxlog.Get(ctx)

	s := &session{
		p:   prompt.New(os.Stdin, os.Stdout),
		out: os.Stdout,
	}
	if len(os.Args) > 1 {
		s.plotFile = os.Args[1]
	}

	err := run(ctx, s)
	if err != nil {
		logger.Error("stopped unexpectedly", "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
