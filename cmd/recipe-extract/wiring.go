package main

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/joseph-ayodele/recipe-extractor/internal/common"
	"github.com/joseph-ayodele/recipe-extractor/internal/diag"
	"github.com/joseph-ayodele/recipe-extractor/internal/extract"
	"github.com/joseph-ayodele/recipe-extractor/internal/ocr"
	"github.com/joseph-ayodele/recipe-extractor/internal/pipeline"
)

func ocrConfig(c common.OCRConfig) ocr.Config {
	return ocr.Config{
		Pdftotext:           c.Pdftotext,
		Pdftoppm:            c.Pdftoppm,
		Tesseract:           c.Tesseract,
		TesseractLang:       c.TesseractLang,
		DPI:                 c.DPI,
		MaxPages:            c.MaxPages,
		TessdataDir:         c.TessdataDir,
		HeicConverter:       c.HeicConverter,
		EnableTSVConfidence: c.EnableTSVConfidence,
		PSM:                 c.PSM,
		OEM:                 c.OEM,
		MinTextDensity:      c.MinTextDensity,
		ArtifactCacheDir:    c.ArtifactCacheDir,
	}
}

// newProcessor wires acquisition and the extraction pipeline from cfg.
// Metrics are registered on reg when it is non-nil.
func newProcessor(cfg *common.Config, logger *slog.Logger, reg prometheus.Registerer) *pipeline.Processor {
	rec := diag.NewRecorder(logger, diag.NewMetrics(reg))

	ocrExtractor := ocr.NewExtractor(ocrConfig(cfg.OCR), logger)
	acq := extract.NewFileAcquirer(
		extract.NewOCRAdapter(ocrExtractor, logger),
		logger,
		extract.WithRecorder(rec),
		extract.WithMaxTextBytes(cfg.Pipeline.MaxTextBytes),
	)
	pipe := pipeline.New(logger, rec)

	return pipeline.NewProcessor(logger, pipeline.Config{
		Timeout:         cfg.Pipeline.Timeout,
		ReviewThreshold: float32(cfg.Pipeline.ReviewThreshold),
	}, acq, pipe)
}
