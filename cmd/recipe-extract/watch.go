package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/recipe-extractor/internal/async"
	"github.com/joseph-ayodele/recipe-extractor/internal/common"
	"github.com/joseph-ayodele/recipe-extractor/internal/ingest"
	"github.com/joseph-ayodele/recipe-extractor/internal/pipeline"
)

var (
	watchDir         string
	watchOutDir      string
	watchMetricsAddr string
	watchInitialScan bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a directory and write <name>.recipe.json for every new recipe file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchDir == "" || watchOutDir == "" {
			return common.NewAppError(common.CodeInput, "--dir and --out-dir are required", common.ErrInvalidInput)
		}
		if err := os.MkdirAll(watchOutDir, 0o755); err != nil {
			return fmt.Errorf("create out dir: %w", err)
		}
		addr := cfg.Metrics.Addr
		if cmd.Flags().Changed("metrics-addr") {
			addr = watchMetricsAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		proc := newProcessor(cfg, logger, reg)

		var srv *http.Server
		if addr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
			srv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
			go func() {
				logger.Info("metrics listening", "addr", addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("metrics server failed", "error", err)
				}
			}()
		}

		q := async.NewProcessorQueue(proc, logger,
			async.WithWorkers(cfg.Pipeline.Workers),
			async.WithQueueSize(cfg.Pipeline.QueueSize),
			async.WithProcessTimeout(cfg.Pipeline.Timeout),
			async.WithSink(outcomeWriter(watchOutDir)),
		)

		events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       []string{watchDir},
			InitialScan: watchInitialScan,
			Debounce:    cfg.Pipeline.Debounce,
			SkipHidden:  cfg.Pipeline.SkipHidden,
		}, logger)
		if err != nil {
			return err
		}

		ing := ingest.NewFSIngestor(logger)
		logger.Info("watching", "dir", watchDir, "out_dir", watchOutDir)
	loop:
		for {
			select {
			case <-ctx.Done():
				break loop
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				logger.Warn("watcher error", "error", err)
			case path, ok := <-events:
				if !ok {
					break loop
				}
				res, err := ing.IngestPath(ctx, path)
				if err != nil {
					logger.Warn("ingest failed", "path", path, "error", err)
					continue
				}
				if res.Deduplicated {
					logger.Info("skipping duplicate content", "path", path, "first_path", res.FirstPath)
					continue
				}
				if err := q.Enqueue(ctx, async.Job{Path: path, SubmittedAt: time.Now(), TraceID: res.HashHex}); err != nil {
					logger.Warn("enqueue failed", "path", path, "error", err)
					ing.Forget(res.HashHex)
				}
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		q.Shutdown(shutdownCtx)
		if srv != nil {
			_ = srv.Shutdown(shutdownCtx)
		}
		return nil
	},
}

// outcomeWriter stores each outcome as <outDir>/<base name>.recipe.json.
func outcomeWriter(outDir string) async.Sink {
	return func(job async.Job, out pipeline.Outcome, err error) {
		name := strings.TrimSuffix(filepath.Base(job.Path), filepath.Ext(job.Path)) + ".recipe.json"
		dst := filepath.Join(outDir, name)
		b, mErr := json.MarshalIndent(out, "", "  ")
		if mErr != nil {
			logger.Error("marshal outcome", "path", job.Path, "error", mErr)
			return
		}
		if wErr := os.WriteFile(dst, b, 0o644); wErr != nil {
			logger.Error("write outcome", "path", dst, "error", wErr)
			return
		}
		logger.Info("outcome written", "path", job.Path, "out", dst, "status", out.Status, "failed", err != nil)
	}
}

func init() {
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "directory to watch (required)")
	watchCmd.Flags().StringVar(&watchOutDir, "out-dir", "", "directory for .recipe.json results (required)")
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "serve Prometheus /metrics on this address, e.g. :9090")
	watchCmd.Flags().BoolVar(&watchInitialScan, "initial-scan", true, "process files already present on start")
}
