// Command kdtree loads point files into a kd-tree and runs queries against it.
//
// Usage:
//
//	kdtree [flags] file...
//
// Example:
//
//	kdtree -dims 3 -query 0,0,0 -k 3 points.txt
//	kdtree -dims 3 -query 0,0,0 -radius 2.5 -mode exhaustive points.txt.zst
//	kdtree -dims 3 -traverse -metrics-addr :2112 points.txt
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hupe1980/kdtree"
	"github.com/hupe1980/kdtree/loader"
	"github.com/hupe1980/kdtree/prom"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type config struct {
	capacity    int
	dims        int
	threshold   float64
	debug       bool
	logLevel    string
	mode        string
	query       string
	k           int
	radius      float64
	traverse    bool
	skipHeader  bool
	concurrency int
	metricsAddr string
	files       []string
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("kdtree", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.IntVar(&cfg.capacity, "capacity", 100000, "maximum number of points")
	fs.IntVar(&cfg.dims, "dims", 3, "coordinates per point")
	fs.Float64Var(&cfg.threshold, "threshold", float64(kdtree.DefaultRebuildThreshold), "rebuild ratio threshold (>= 1)")
	fs.BoolVar(&cfg.debug, "debug", false, "log rebuild diagnostics at info level")
	fs.StringVar(&cfg.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	fs.StringVar(&cfg.mode, "mode", kdtree.SearchSinglePath.String(), "query mode: single-path or exhaustive")
	fs.StringVar(&cfg.query, "query", "", "query point, e.g. 0,0,0")
	fs.IntVar(&cfg.k, "k", 3, "number of neighbors for a k-nearest query")
	fs.Float64Var(&cfg.radius, "radius", -1, "radius query instead of k-nearest when >= 0")
	fs.BoolVar(&cfg.traverse, "traverse", false, "print every point in traversal order")
	fs.BoolVar(&cfg.skipHeader, "header", false, "skip the first row of every file")
	fs.IntVar(&cfg.concurrency, "concurrency", 0, "files parsed in parallel (0 = GOMAXPROCS)")
	fs.StringVar(&cfg.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address and wait for a signal")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.files = fs.Args()
	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}

func parseMode(s string) (kdtree.SearchMode, error) {
	switch s {
	case kdtree.SearchSinglePath.String():
		return kdtree.SearchSinglePath, nil
	case kdtree.SearchExhaustive.String():
		return kdtree.SearchExhaustive, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if err := execute(ctx, cfg, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "kdtree: %v\n", err)
		return 1
	}
	return 0
}

func execute(ctx context.Context, cfg *config, stdout, stderr io.Writer) error {
	level, err := parseLevel(cfg.logLevel)
	if err != nil {
		return err
	}
	mode, err := parseMode(cfg.mode)
	if err != nil {
		return err
	}

	logger := kdtree.NewLogger(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	opts := []kdtree.Option{
		kdtree.WithRebuildThreshold(float32(cfg.threshold)),
		kdtree.WithSearchMode(mode),
		kdtree.WithDebug(cfg.debug),
		kdtree.WithLogger(logger),
	}

	var reg *prometheus.Registry
	if cfg.metricsAddr != "" {
		reg = prometheus.NewRegistry()
		c := prom.NewCollector("kdtree")
		reg.MustRegister(c)
		opts = append(opts, kdtree.WithMetricsCollector(c))
	}

	tree, err := kdtree.New(cfg.capacity, cfg.dims, opts...)
	if err != nil {
		return err
	}
	defer tree.Close()

	if len(cfg.files) > 0 {
		reports, err := loader.LoadFiles(ctx, tree, cfg.files,
			loader.WithSkipHeader(cfg.skipHeader),
			loader.WithConcurrency(cfg.concurrency),
			loader.WithLogger(logger),
		)
		if err != nil {
			return err
		}
		var rows, failed int
		for _, r := range reports {
			rows += r.Rows
			failed += r.Result.FailedCount()
		}
		fmt.Fprintf(stdout, "loaded %d points from %d files (%d failed, %d rebuilds)\n",
			rows-failed, len(reports), failed, tree.Rebuilds())
	}

	if cfg.traverse {
		points, err := tree.Traverse()
		if err != nil {
			return err
		}
		for _, p := range points {
			fmt.Fprintln(stdout, formatPoint(p))
		}
	}

	if cfg.query != "" {
		if err := query(ctx, tree, cfg, stdout); err != nil {
			return err
		}
	}

	if reg != nil {
		return serveMetrics(ctx, cfg.metricsAddr, reg, logger)
	}
	return nil
}

func query(ctx context.Context, tree *kdtree.Tree, cfg *config, stdout io.Writer) error {
	points, err := loader.Parse(ctx, strings.NewReader(cfg.query), cfg.dims)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if len(points) != 1 {
		return fmt.Errorf("query: expected one point, got %d", len(points))
	}

	var neighbors []kdtree.Neighbor
	if cfg.radius >= 0 {
		neighbors, err = tree.WithinRadius(points[0], float32(cfg.radius))
	} else {
		neighbors, err = tree.KNearest(points[0], cfg.k)
	}
	if err != nil {
		return err
	}

	for _, n := range neighbors {
		fmt.Fprintf(stdout, "%s\t%s\n", formatPoint(n.Point), strconv.FormatFloat(float64(n.Distance), 'f', 4, 32))
	}
	return nil
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *kdtree.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func formatPoint(p []float32) string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return strings.Join(parts, " ")
}
