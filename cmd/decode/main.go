package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"curve/internal/ctxlog"
	"curve/internal/curve"
	"curve/internal/keypack"
	"curve/internal/subst"
)

const usage = `Usage: decode <packed-key> [ciphertext...]
       decode -curve <letters> [ciphertext...]
Reads the ciphertext from stdin when none is given.
With -curve, letters is the 26-letter curve the text was encrypted with.`

// table returns the decryption table named by args and the remaining
// ciphertext arguments.
func table(args []string) (curve.Permutation, []string, error) {
	if args[0] == "-curve" {
		if len(args) < 2 {
			return nil, nil, fmt.Errorf("-curve needs the curve letters")
		}
		p, err := curve.Parse(args[1])
		if err != nil {
			return nil, nil, fmt.Errorf("curve is not valid: %w", err)
		}
		inv, err := curve.Invert(p)
		if err != nil {
			return nil, nil, err
		}
		return inv, args[2:], nil
	}

	key, err := keypack.Unpack(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("packed key is not valid: %w", err)
	}
	inv, err := subst.Table(key, subst.Decrypt)
	if err != nil {
		return nil, nil, err
	}
	return inv, args[1:], nil
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	inv, text, err := table(args)
	if err != nil {
		return err
	}

	if len(text) > 0 {
		plain, err := subst.Apply(strings.Join(text, " "), inv)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, plain)
		return err
	}

	if _, err := subst.CopyTable(ctx, out, in, inv); err != nil {
		return fmt.Errorf("decode stream: %w", err)
	}
	return nil
}

func main() {
	if len(os.Args) <= 1 {
		fmt.Println(usage)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ctx = ctxlog.SetupFile(ctx, "decode")
	logger := ctxlog.Get(ctx)

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Decode error:")
		fmt.Fprintln(os.Stderr, err)
		logger.Error("decode", "error", err)
		os.Exit(1)
	}
}
