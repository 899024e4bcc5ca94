package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/recipe-extractor/constants"
	"github.com/joseph-ayodele/recipe-extractor/internal/common"
	"github.com/joseph-ayodele/recipe-extractor/internal/export"
	"github.com/joseph-ayodele/recipe-extractor/internal/ingest"
	"github.com/joseph-ayodele/recipe-extractor/internal/ocr"
	"github.com/joseph-ayodele/recipe-extractor/internal/pipeline"
)

var (
	batchDir     string
	batchOut     string
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Extract every recipe under a directory into an XLSX report",
	RunE: func(cmd *cobra.Command, args []string) error {
		if batchDir == "" {
			return common.NewAppError(common.CodeInput, "--dir is required", common.ErrInvalidInput)
		}
		if batchOut == "" {
			batchOut = filepath.Join(filepath.Dir(filepath.Clean(batchDir)), "recipes.xlsx")
		}
		workers := cfg.Pipeline.Workers
		if batchWorkers > 0 {
			workers = batchWorkers
		}
		ctx := cmd.Context()
		start := time.Now()

		ing := ingest.NewFSIngestor(logger)
		files, stats, err := ing.IngestDirectory(ctx, batchDir, cfg.Pipeline.SkipHidden)
		if err != nil {
			return fmt.Errorf("scan %s: %w", batchDir, err)
		}
		logger.Info("batch scan complete",
			"dir", batchDir,
			"scanned", stats.Scanned,
			"matched", stats.Matched,
			"deduplicated", stats.Deduplicated,
			"failed", stats.Failed,
		)

		outcomes := processAll(ctx, newProcessor(cfg, logger, nil), files, workers)

		data, err := export.NewService(logger).WorkbookXLSX(ctx, outcomes)
		if err != nil {
			return err
		}
		if err := os.WriteFile(batchOut, data, 0o644); err != nil {
			return common.NewAppError(common.CodeExport, "write report", err)
		}

		var valid, review, failed int
		for _, o := range outcomes {
			switch o.Status {
			case constants.StatusValid:
				valid++
			case constants.StatusFailed:
				failed++
			}
			if o.NeedsReview {
				review++
			}
		}
		logger.Info("batch complete",
			"out", batchOut,
			"files", len(outcomes),
			"valid", valid,
			"needs_review", review,
			"failed", failed,
			"duration", time.Since(start),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "%d recipes (%d valid, %d need review, %d failed) -> %s\n",
			len(outcomes), valid, review, failed, batchOut)
		return nil
	},
}

// processAll runs every non-duplicate file through proc with at most workers
// in flight. Outcomes keep the scan order; per-file failures stay in their
// Outcome and do not stop the batch.
func processAll(ctx context.Context, proc *pipeline.Processor, files []ingest.IngestionResult, workers int) []pipeline.Outcome {
	todo := make([]ingest.IngestionResult, 0, len(files))
	for _, f := range files {
		if f.Deduplicated || f.Err != "" {
			continue
		}
		todo = append(todo, f)
	}

	outcomes := make([]pipeline.Outcome, len(todo))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range todo {
		i, f := i, f
		g.Go(func() error {
			fctx := ocr.WithContentHash(gctx, f.HashHex)
			out, err := proc.ProcessFile(fctx, f.SourcePath)
			if err != nil {
				logger.Warn("batch file failed", "path", f.SourcePath, "error", err)
			}
			outcomes[i] = out
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func init() {
	batchCmd.Flags().StringVar(&batchDir, "dir", "", "directory with recipe files (required)")
	batchCmd.Flags().StringVar(&batchOut, "out", "", "output XLSX path (default <parent of dir>/recipes.xlsx)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent files (default pipeline.workers)")
}
