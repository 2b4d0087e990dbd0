package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wtask/chatrelay/internal/message"
	"github.com/wtask/chatrelay/pkg/semver"
)

type (
	// Configuration - client configuration
	Configuration struct {
		// Host - relay host
		Host string
		// Port - relay port
		Port uint
		// BufferSize - size of scratch buffer for reading relay messages
		BufferSize int
		// DrainWait - how long to collect immediately available bytes of the same message
		DrainWait time.Duration
		// MaxBatch - max size in bytes of single message collected by reader
		MaxBatch int
		// NoColor - disable colored diagnostics
		NoColor bool
	}
)

var (
	// Config - current configuration of the client
	Config = Configuration{
		Host:       "127.0.0.1",
		Port:       8000,
		BufferSize: 1024,
		DrainWait:  5 * time.Millisecond,
		MaxBatch:   message.DefaultMaxBatch,
	}

	// BinaryName - name of run application binary
	BinaryName = strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))

	// Version - app version fingerprint
	Version = semver.V{Minor: 1}.WithBuild(semver.BuildSettings()).String()
)

var rootCmd = &cobra.Command{
	Use:          BinaryName + " [options]",
	Short:        "Connect to broadcast chat relay and chat from console",
	Version:      Version,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validate(Config)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&Config.Host, "host", Config.Host, "Relay host")
	flags.UintVar(&Config.Port, "port", Config.Port, "Relay port")
	flags.IntVar(&Config.BufferSize, "buffer-size", Config.BufferSize, "Size in bytes of read buffer")
	flags.DurationVar(&Config.DrainWait, "drain-wait", Config.DrainWait, "How long to wait for the rest of the message after read")
	flags.IntVar(&Config.MaxBatch, "max-batch", Config.MaxBatch, "Max size in bytes of single message read at once")
	flags.BoolVar(&Config.NoColor, "no-color", Config.NoColor, "Disable colored diagnostics")
}

func validate(c Configuration) error {
	switch {
	case c.Host == "":
		return errors.New("host value is required")
	case c.Port == 0 || c.Port > 65535:
		return fmt.Errorf("port value (%d) should be in range 1-65535", c.Port)
	case c.BufferSize < 1:
		return errors.New("buffer-size value should be greater or equal 1")
	case c.DrainWait <= 0:
		return errors.New("drain-wait value should be positive")
	case c.MaxBatch < 1:
		return errors.New("max-batch value should be greater or equal 1")
	}
	return nil
}
