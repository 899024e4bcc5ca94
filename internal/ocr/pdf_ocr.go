package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/recipe-extractor/constants"
)

// extractPDF trusts the text layer when it is dense enough and otherwise
// rasterises the pages and runs OCR on them.
func (e *Extractor) extractPDF(ctx context.Context, path string) (ExtractionResult, error) {
	text, pages, warns, err := e.pdfToText(ctx, path)
	switch {
	case err != nil:
		e.logger.Warn("pdftotext failed; falling back to ocr", "path", path, "error", err)
		warns = append(warns, "pdftotext: "+err.Error())
	case NeedsOCRFallback(text, e.cfg.MinTextDensity):
		e.logger.Info("pdf text layer too sparse; falling back to ocr",
			"path", path, "chars", TextDensity(text), "min", e.cfg.MinTextDensity)
		warns = append(warns, fmt.Sprintf("text layer has %d chars, below %d", TextDensity(text), e.cfg.MinTextDensity))
	default:
		return ExtractionResult{
			Text:       text,
			Pages:      pages,
			SourceType: constants.PDF,
			Method:     constants.MethodPDFText,
			Warnings:   warns,
			Confidence: 1,
		}, nil
	}

	if err := ctx.Err(); err != nil {
		return ExtractionResult{SourceType: constants.PDF, Warnings: warns}, err
	}

	ocrText, ocrPages, ocrWarns, err := e.pdfToOCR(ctx, path)
	warns = append(warns, ocrWarns...)
	if err != nil {
		return ExtractionResult{SourceType: constants.PDF, Method: constants.MethodPDFOCRFallback, Warnings: warns}, fmt.Errorf("pdf ocr fallback: %w", err)
	}
	return ExtractionResult{
		Text:       ocrText,
		Pages:      ocrPages,
		SourceType: constants.PDF,
		Method:     constants.MethodPDFOCRFallback,
		Language:   e.cfg.TesseractLang,
		Warnings:   warns,
		Confidence: heuristicConfidence(ocrText),
	}, nil
}

func (e *Extractor) pdfToText(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, e.logger, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", 0, []string{string(errb)}, err
	}
	text = string(out)
	// A form-feed \f is used as page separator by default
	pages = 1 + strings.Count(strings.TrimRight(text, "\f"), "\f")
	return text, pages, nil, nil
}

func (e *Extractor) pdfToOCR(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	tmpDir, err := os.MkdirTemp("", "recipe-pp-*")
	if err != nil {
		return "", 0, nil, err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, e.logger, "-r", strconv.Itoa(e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", 0, []string{string(errb)}, err
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Slice(matches, func(i, j int) bool { return pageNumber(matches[i]) < pageNumber(matches[j]) })
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", 0, []string{"pdftoppm produced no images"}, fmt.Errorf("no pages rendered")
	}

	var b strings.Builder
	var warns []string
	var lastErr error
	recognised := 0
	for _, img := range matches {
		if ctx.Err() != nil {
			return "", 0, warns, ctx.Err()
		}
		txt, w, err := e.tesseractOCR(ctx, img)
		if err != nil {
			warns = append(warns, fmt.Sprintf("page %d: %v", pageNumber(img), err))
			lastErr = err
			continue
		}
		recognised++
		if b.Len() > 0 {
			b.WriteString("\n\f\n") // page break; the normalizer folds \f into a newline
		}
		b.WriteString(txt)
		warns = append(warns, w...)
	}
	// a failing tool is an acquisition error, not an empty recipe
	if recognised == 0 {
		return "", len(matches), warns, fmt.Errorf("ocr failed on all %d pages: %w", len(matches), lastErr)
	}
	return b.String(), len(matches), warns, nil
}

// pageNumber extracts n from ".../page-n.png"; pdftoppm zero-pads only for
// large documents, so lexical order is not page order.
func pageNumber(path string) int {
	base := strings.TrimSuffix(filepath.Base(path), ".png")
	i := strings.LastIndexByte(base, '-')
	n, err := strconv.Atoi(base[i+1:])
	if err != nil {
		return 0
	}
	return n
}
