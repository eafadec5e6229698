package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/jengzang/ride-stats/internal/api"
	"github.com/jengzang/ride-stats/internal/config"
	"github.com/jengzang/ride-stats/internal/handler"
	"github.com/jengzang/ride-stats/internal/models"
	"github.com/jengzang/ride-stats/internal/service"
	"github.com/jengzang/ride-stats/internal/stats"

	// Import aggregator packages to register them
	_ "github.com/jengzang/ride-stats/internal/analysis/laps"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(args)
	switch {
	case errors.Is(err, pflag.ErrHelp):
		return 0
	case errors.Is(err, config.ErrUsage):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintln(stderr, "Usage: ridestats [flags] <file>")
		return 2
	case err != nil:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	report, err := service.NewRideService(cfg).Run()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := printStats(stdout, report.Stats, cfg.StatsJSON); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if cfg.ServeAddr != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := serve(ctx, cfg, report); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	return 0
}

func printStats(w io.Writer, rs models.RideStats, asJSON bool) error {
	entries := stats.Entries(rs)
	if asJSON {
		out, err := json.Marshal(models.StatEntries(entries))
		if err != nil {
			return fmt.Errorf("failed to encode stats: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", out)
		return err
	}

	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s: %s\n", e.Label, e.Value); err != nil {
			return err
		}
	}
	return nil
}

func serve(ctx context.Context, cfg config.Config, report *models.RideReport) error {
	srv := &http.Server{
		Addr:              cfg.ServeAddr,
		Handler:           api.SetupRouter(handler.NewRideHandler(report, cfg)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Serving %s on %s", cfg.BaseName, cfg.ServeAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("[Server] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
