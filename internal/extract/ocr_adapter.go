package extract

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/recipe-extractor/constants"
	"github.com/joseph-ayodele/recipe-extractor/internal/entity"
	"github.com/joseph-ayodele/recipe-extractor/internal/ocr"
)

// OCRAdapter exposes an ocr.Extractor as an Acquirer.
type OCRAdapter struct {
	e      *ocr.Extractor
	logger *slog.Logger
}

func NewOCRAdapter(e *ocr.Extractor, logger *slog.Logger) *OCRAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRAdapter{e: e, logger: logger}
}

func (a *OCRAdapter) Acquire(ctx context.Context, path string) (Acquisition, error) {
	r, err := a.e.Extract(ctx, path)
	acq := Acquisition{
		Source:     entity.RawSource{Text: r.Text, Kind: SourceKindFor(r.Method)},
		Path:       path,
		Method:     r.Method,
		Language:   r.Language,
		Pages:      r.Pages,
		Confidence: r.Confidence,
		Warnings:   r.Warnings,
		Duration:   r.Duration,
	}
	if err == nil && len(r.Warnings) > 0 {
		a.logger.Debug("ocr finished with warnings", "path", path, "method", r.Method, "warnings", len(r.Warnings))
	}
	return acq, err
}

// SourceKindFor maps an acquisition method to the kind of text it produces.
func SourceKindFor(method string) entity.SourceKind {
	switch method {
	case constants.MethodPDFText:
		return entity.SourcePDFText
	case constants.MethodPDFOCRFallback:
		return entity.SourcePDFOCRFallback
	case constants.MethodImageOCR:
		return entity.SourceOCR
	default:
		return entity.SourceTyped
	}
}
