package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	stop := context.AfterFunc(ctx, func() {
		srv.Close()
	})
	defer stop()

	logger.Info("metrics on %s/metrics", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func run(ctx context.Context, c Config) error {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	ln, err := net.Listen("tcp", ":"+c.Port)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s := &Server{Options: c.workerOptions(metrics)}
		return s.Serve(ctx, ln)
	})
	if c.MetricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(ctx, c.MetricsAddr, reg)
		})
	}
	return g.Wait()
}

func main() {
	c, err := loadConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := setupLogger(c.LogLevel, c.LogFile, c.LogMaxDays); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, c); err != nil {
		logger.Error("%v", err)
		logger.Flush()
		os.Exit(1)
	}
	logger.Info("shut down")
	logger.Flush()
}
