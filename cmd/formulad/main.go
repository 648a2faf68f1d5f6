package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zephyrtronium/formula/internal/observability"
	"github.com/zephyrtronium/formula/internal/service"
)

func main() {
	var (
		addr, allow, level, name string
		maxLen                   int
		maxPrec                  uint
		timing, jsonLogs         bool
	)
	flag.StringVar(&addr, "addr", ":3000", "address to listen on")
	flag.StringVar(&allow, "allow", service.DefaultAllowPattern, "regular expression formulas must match (empty to allow all)")
	flag.IntVar(&maxLen, "max-len", 4096, "longest formula in bytes")
	flag.UintVar(&maxPrec, "max-prec", 4096, "largest precision in bits a request may ask for")
	flag.BoolVar(&timing, "server-timing", false, "add Server-Timing headers to responses")
	flag.StringVar(&name, "service-name", "formulad", "service.name recorded on trace spans")
	flag.StringVar(&level, "log-level", "info", "minimum log level (debug, info, warn, error)")
	flag.BoolVar(&jsonLogs, "log-json", false, "write logs as JSON")
	flag.Parse()

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		slog.Error("bad log level", slog.Any("error", err))
		os.Exit(2)
	}
	hopts := &slog.HandlerOptions{Level: lvl}
	var logger *slog.Logger
	if jsonLogs {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, hopts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stderr, hopts))
	}
	slog.SetDefault(logger)

	obsOpts := []observability.Option{observability.WithServiceName(name)}
	if timing {
		obsOpts = append(obsOpts, observability.WithServerTiming())
	}
	svc, err := service.New(
		service.WithLogger(logger),
		service.WithAllowPattern(allow),
		service.WithMaxFormulaLength(maxLen),
		service.WithMaxPrecision(maxPrec),
		service.WithObservability(observability.NewConfig(obsOpts...)),
	)
	if err != nil {
		logger.Error("creating service", slog.Any("error", err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           svc,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			logger.Error("shutdown", slog.Any("error", err))
		}
	}()

	logger.Info("server running", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("serving", slog.Any("error", err))
		os.Exit(1)
	}
}
