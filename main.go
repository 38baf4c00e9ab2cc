package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/die-net/tetanux/internal/config"
	"github.com/die-net/tetanux/internal/dialer"
	"github.com/die-net/tetanux/internal/proxy"
)

// tcpKeepAlive applies to accepted clients and to dialed targets.
var tcpKeepAlive = net.KeepAliveConfig{
	Enable:   true,
	Idle:     45 * time.Second,
	Interval: 45 * time.Second,
	Count:    3,
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := pflag.StringP("config", "c", "", "Configuration file (defaults apply when empty)")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	dl, err := dialer.New(dialer.Config{
		DialTimeout:        cfg.Timeout,
		NegotiationTimeout: cfg.Timeout,
		KeepAlive:          tcpKeepAlive,
	}, cfg.Upstream)
	if err != nil {
		return fmt.Errorf("invalid Upstream: %w", err)
	}

	ln, err := proxy.ListenTCP("tcp", cfg.Addr(), tcpKeepAlive)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(context.Background())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := proxy.NewServer(ctx, proxy.Config{
		Dialer:             dl,
		NegotiationTimeout: cfg.Timeout,
		Verbose:            cfg.Verbose,
	})

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil {
			return fmt.Errorf("proxy serve: %w", err)
		}
		return nil
	})
	log.Printf("listening on %s", ln.Addr())

	err = g.Wait()

	log.Print("shutting down")
	return err
}
