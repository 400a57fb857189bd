package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"curve/internal/config"
	"curve/internal/ctxlog"
	"curve/internal/curve"
	"curve/internal/db"
	"curve/internal/plot"
	"curve/internal/prompt"
	"curve/internal/rec"
)

const usage = `Usage: keys <config> <command> [args]

Commands:
  list               list stored keys
  names              print stored key names, one per line
  add <name> [key]   store a key, prompting for it when omitted
  show <name>        print the seed and curve of a stored key
  rm <name>          delete a stored key`

type cli struct {
	p   *prompt.Prompter
	out io.Writer
	now func() time.Time
}

func (c *cli) list() error {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSEED\tUSES\tCREATED\tLAST USED")
	for name, entry := range db.All() {
		last := "-"
		if !entry.LastUsed.IsZero() {
			last = entry.LastUsed.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n", name, entry.Seed, entry.Uses, entry.Created.Format(time.RFC3339), last)
	}
	return w.Flush()
}

func (c *cli) names() error {
	for _, name := range db.Names() {
		if _, err := fmt.Fprintln(c.out, name); err != nil {
			return err
		}
	}
	return nil
}

func (c *cli) add(name string, args []string) error {
	var key string
	if len(args) > 0 {
		key = args[0]
	} else {
		var err error
		if key, err = c.p.Secret("Key: "); err != nil {
			return fmt.Errorf("read key: %w", err)
		}
	}
	if key == "" {
		return fmt.Errorf("key must not be empty")
	}

	if err := db.PutKey(name, key, c.now()); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "stored %s (seed %d)\n", name, curve.DeriveSeed(key))
	return nil
}

func (c *cli) show(name string) error {
	key, err := db.Key(name, c.now())
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s: seed %d\n\n", name, curve.DeriveSeed(key))
	return plot.Text(c.out, curve.Generate(key))
}

func (c *cli) rm(name string) error {
	if err := db.DeleteKey(name); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "deleted %s\n", name)
	return nil
}

func (c *cli) exec(cmd string, args []string) (err error) {
	defer rec.Wrap(&err, "keys %s: %w", cmd)

	switch cmd {
	case "list":
		return c.list()
	case "names":
		return c.names()
	}

	if len(args) == 0 {
		return fmt.Errorf("missing key name\n%s", usage)
	}
	name, args := args[0], args[1:]

	switch cmd {
	case "add":
		return c.add(name, args)
	case "show":
		return c.show(name)
	case "rm":
		return c.rm(name)
	}
	return fmt.Errorf("unknown command\n%s", usage)
}

func run(ctx context.Context, file string, c *cli, cmd string, args []string) (err error) {
	defer rec.Error(&err)

	logger := ctxlog.Get(ctx)

	conf, err := config.Load(ctx, file)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger.Info("opening db", "file", conf.DB.File)
	db.Open(conf.DB)
	defer ctxlog.Close(ctx, "db", db.Closer())

	err = c.exec(cmd, args)
	if err == nil {
		logger.Info("command done", "command", cmd)
	}
	return err
}

func main() {
	if len(os.Args) <= 2 {
		fmt.Println(usage)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ctx = ctxlog.SetupFile(ctx, "keys")

	logger := ctxlog.Get(ctx)

	c := &cli{
		p:   prompt.New(os.Stdin, os.Stderr),
		out: os.Stdout,
		now: time.Now,
	}

	err := run(ctx, os.Args[1], c, os.Args[2], os.Args[3:])
	if err != nil {
		logger.Error("stopped unexpectedly", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
