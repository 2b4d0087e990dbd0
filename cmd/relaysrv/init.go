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
	"github.com/wtask/chatrelay/internal/relay"
	"github.com/wtask/chatrelay/pkg/semver"
)

type (
	// Configuration - server configuration
	Configuration struct {
		// IPAddress - bind the address
		IPAddress string
		// Port - bind the port
		Port uint
		// WSAddress - bind address of WebSocket gate, gate is disabled if empty
		WSAddress string
		// WSAnyOrigin - allow WebSocket upgrade for cross-origin requests
		WSAnyOrigin bool
		// Greeting - text sent to every newly connected client
		Greeting string
		// BufferSize - size of scratch buffer for reading clients
		BufferSize int
		// DrainWait - how long to collect immediately available bytes of the same message
		DrainWait time.Duration
		// MaxBatch - max size in bytes of single message collected by reader
		MaxBatch int
		// WriteTimeout - max duration of single write to client before it is dropped
		WriteTimeout time.Duration
	}
)

var (
	// Config - current configuration of the server
	Config = Configuration{
		IPAddress:    "",
		Port:         8000,
		Greeting:     relay.DefaultGreeting,
		BufferSize:   1024,
		DrainWait:    5 * time.Millisecond,
		MaxBatch:     message.DefaultMaxBatch,
		WriteTimeout: 10 * time.Second,
	}

	// BinaryName - name of run application binary
	BinaryName = strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))

	// Version - app version fingerprint
	Version = semver.V{Minor: 1}.WithBuild(semver.BuildSettings()).String()
)

var rootCmd = &cobra.Command{
	Use:          BinaryName + " [options]",
	Short:        "Launch broadcast chat relay over TCP",
	Version:      Version,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validate(Config)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(cmd.OutOrStdout(), "TCP chat relay is launching, press Ctrl-C to stop...\n")
		return run(cmd.Context())
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&Config.IPAddress, "ip", Config.IPAddress, "Listen address")
	flags.UintVar(&Config.Port, "port", Config.Port, "Listen port")
	flags.StringVar(&Config.WSAddress, "ws", Config.WSAddress, "Listen address of WebSocket gate, e.g. :8080 (disabled if empty)")
	flags.BoolVar(&Config.WSAnyOrigin, "ws-any-origin", Config.WSAnyOrigin, "Allow WebSocket connections from any origin")
	flags.StringVar(&Config.Greeting, "greeting", Config.Greeting, "Text sent to every newly connected client (empty to disable)")
	flags.IntVar(&Config.BufferSize, "buffer-size", Config.BufferSize, "Size in bytes of read buffer per client")
	flags.DurationVar(&Config.DrainWait, "drain-wait", Config.DrainWait, "How long to wait for the rest of the message after read")
	flags.IntVar(&Config.MaxBatch, "max-batch", Config.MaxBatch, "Max size in bytes of single message read at once")
	flags.DurationVar(&Config.WriteTimeout, "write-timeout", Config.WriteTimeout, "Write timeout before slow client is dropped")
}

func validate(c Configuration) error {
	switch {
	case c.Port > 65535:
		return fmt.Errorf("port value (%d) should be less or equal 65535", c.Port)
	case c.BufferSize < 1:
		return errors.New("buffer-size value should be greater or equal 1")
	case c.DrainWait <= 0:
		return errors.New("drain-wait value should be positive")
	case c.MaxBatch < 1:
		return errors.New("max-batch value should be greater or equal 1")
	case c.WriteTimeout <= 0:
		return errors.New("write-timeout value should be positive")
	}
	return nil
}
