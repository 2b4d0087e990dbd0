package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wtask/chatrelay/internal/relay"
	"github.com/wtask/chatrelay/internal/relay/wsgate"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	logger := stdlog.New(os.Stdout, "relaysrv:"+Version+" ", stdlog.Ldate|stdlog.Ltime)
	logger.Printf("Started with config: %+v", Config)

	node := net.JoinHostPort(Config.IPAddress, fmt.Sprintf("%d", Config.Port))
	listener, err := net.Listen("tcp", node)
	if err != nil {
		logger.Println("ERR", "Unable to listen TCP:", err)
		return err
	}

	server, err := relay.New(
		relay.WithGreeting(Config.Greeting),
		relay.WithBufferSize(Config.BufferSize),
		relay.WithDrainWait(Config.DrainWait),
		relay.WithMaxBatch(Config.MaxBatch),
		relay.WithWriteTimeout(Config.WriteTimeout),
		relay.WithLogger(logger),
	)
	if err != nil {
		logger.Println("ERR", "Can't start chat relay:", err)
		listener.Close()
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx)
	})
	g.Go(func() error {
		return server.Serve(ctx, listener)
	})
	if Config.WSAddress != "" {
		serveGate(ctx, g, server, logger)
	}
	logger.Println(">>> Chat relay has started")

	err = g.Wait()
	if err == nil || errors.Is(err, context.Canceled) {
		logger.Println("Got stop signal, chat relay stopped, bye")
		return nil
	}
	logger.Println("ERR", "Chat relay failed:", err)
	return err
}

func serveGate(ctx context.Context, g *errgroup.Group, server *relay.Server, logger *stdlog.Logger) {
	options := []wsgate.Option{wsgate.WithLogger(logger)}
	if Config.WSAnyOrigin {
		options = append(options, wsgate.WithCheckOrigin(func(*http.Request) bool { return true }))
	}
	mux := http.NewServeMux()
	mux.Handle("/ws", wsgate.Handler(server, options...))
	gate := &http.Server{
		Addr:              Config.WSAddress,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Println("Listen WebSocket gate", Config.WSAddress+"/ws")
		if err := gate.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("websocket gate: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return gate.Shutdown(shutdownCtx)
	})
}
