package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"curve/internal/ctxlog"
	"curve/internal/keypack"
	"curve/internal/subst"
)

func main() {
	if len(os.Args) <= 1 {
		fmt.Println("Usage: encode <key> [text...]")
		fmt.Println("Reads the text from stdin when none is given.")
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ctx = ctxlog.SetupFile(ctx, "encode")
	logger := ctxlog.Get(ctx)

	key := os.Args[1]

	packed, err := keypack.Pack(key)
	if err != nil {
		fmt.Println("Encode error:")
		fmt.Println(err)
		logger.Error("pack key", "error", err)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, packed)

	if len(os.Args) > 2 {
		fmt.Println(subst.Encode(strings.Join(os.Args[2:], " "), key))
		return
	}

	if _, err := subst.Copy(ctx, os.Stdout, os.Stdin, key, subst.Encrypt); err != nil {
		fmt.Fprintln(os.Stderr, "Encode error:")
		fmt.Fprintln(os.Stderr, err)
		logger.Error("encode stream", "error", err)
		os.Exit(1)
	}
}
