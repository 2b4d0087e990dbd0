package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/wtask/chatrelay/internal/client"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// console - colored diagnostics, lines starting with "ERR" are red.
type console struct {
	out io.Writer
}

func (c console) Println(v ...interface{}) {
	if len(v) > 0 && v[0] == "ERR" {
		color.New(color.FgRed).Fprintln(c.out, v[1:]...)
		return
	}
	color.New(color.FgCyan).Fprintln(c.out, v...)
}

func run(ctx context.Context) error {
	if Config.NoColor {
		color.NoColor = true
	}
	logger := console{os.Stderr}
	color.New(color.FgGreen).Fprintf(os.Stderr, ">>> %s v%s started\n", BinaryName, Version)

	addr := net.JoinHostPort(Config.Host, fmt.Sprintf("%d", Config.Port))
	c, err := client.Dial(
		ctx,
		addr,
		client.WithBufferSize(Config.BufferSize),
		client.WithDrainWait(Config.DrainWait),
		client.WithMaxBatch(Config.MaxBatch),
		client.WithLogger(logger),
	)
	if err != nil {
		logger.Println("ERR", "Unable to connect:", err)
		return err
	}
	defer c.Close()

	err = c.Run(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Println("ERR", err)
		return err
	}
	return nil
}
