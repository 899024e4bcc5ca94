package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/joseph-ayodele/recipe-extractor/constants"
	"github.com/joseph-ayodele/recipe-extractor/internal/common"
	"github.com/joseph-ayodele/recipe-extractor/internal/diag"
	"github.com/joseph-ayodele/recipe-extractor/internal/entity"
)

// DefaultMaxTextBytes caps how much of a text or HTML file is read.
const DefaultMaxTextBytes = 4 << 20

// FileAcquirer reads text and HTML files itself and hands PDFs and images to
// the OCR acquirer.
type FileAcquirer struct {
	ocr      Acquirer
	logger   *slog.Logger
	rec      *diag.Recorder
	maxBytes int64
}

type FileOption func(*FileAcquirer)

func WithRecorder(rec *diag.Recorder) FileOption {
	return func(a *FileAcquirer) { a.rec = rec }
}

func WithMaxTextBytes(n int64) FileOption {
	return func(a *FileAcquirer) {
		if n > 0 {
			a.maxBytes = n
		}
	}
}

// NewFileAcquirer builds a FileAcquirer. ocr may be nil, in which case PDFs
// and images are rejected as unsupported.
func NewFileAcquirer(ocr Acquirer, logger *slog.Logger, opts ...FileOption) *FileAcquirer {
	if logger == nil {
		logger = slog.Default()
	}
	a := &FileAcquirer{ocr: ocr, logger: logger, maxBytes: DefaultMaxTextBytes}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *FileAcquirer) Acquire(ctx context.Context, path string) (Acquisition, error) {
	start := time.Now()
	format := constants.MapExtToFormat(filepath.Ext(path))

	var (
		acq Acquisition
		err error
	)
	switch format {
	case constants.TEXT, constants.HTML:
		acq, err = a.readLocal(ctx, path, format)
	case constants.PDF, constants.IMAGE:
		if a.ocr == nil {
			err = common.NewAppError(common.CodeUnsupported, "no OCR backend configured for "+format, common.ErrUnsupportedFormat)
			break
		}
		acq, err = a.ocr.Acquire(ctx, path)
		if err != nil {
			err = common.NewAppError(common.CodeAcquire, "ocr "+filepath.Base(path), fmt.Errorf("%w: %w", common.ErrAcquire, err))
		}
	default:
		err = common.NewAppError(common.CodeUnsupported, fmt.Sprintf("extension %q", filepath.Ext(path)), common.ErrUnsupportedFormat)
	}

	acq.Path = path
	if acq.Duration == 0 {
		acq.Duration = time.Since(start)
	}
	a.rec.Acquired(acq.Method, acq.Duration, err)
	if err != nil {
		a.logger.Error("acquire failed", "path", path, "format", format, "error", err)
		return acq, err
	}
	a.logger.Info("acquired recipe source",
		"path", path,
		"method", acq.Method,
		"source_kind", acq.Source.Kind,
		"pages", acq.Pages,
		"confidence", acq.Confidence,
		"chars", utf8.RuneCountInString(acq.Source.Text),
		"duration_ms", acq.Duration.Milliseconds(),
	)
	return acq, nil
}

func (a *FileAcquirer) readLocal(ctx context.Context, path, format string) (Acquisition, error) {
	if err := ctx.Err(); err != nil {
		return Acquisition{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Acquisition{}, common.NewAppError(common.CodeInput, "open "+filepath.Base(path), err)
	}
	defer f.Close()

	r := io.LimitReader(f, a.maxBytes)
	acq := Acquisition{Pages: 1, Confidence: 1}
	switch format {
	case constants.HTML:
		text, err := HTMLText(r)
		if err != nil {
			return Acquisition{}, common.NewAppError(common.CodeInput, "read html", err)
		}
		acq.Method = constants.MethodHTMLText
		acq.Source = FromText(text)
	default:
		b, err := io.ReadAll(r)
		if err != nil {
			return Acquisition{}, common.NewAppError(common.CodeInput, "read text", err)
		}
		acq.Method = constants.MethodTypedText
		acq.Source = FromText(string(b))
	}
	if st, err := f.Stat(); err == nil && st.Size() > a.maxBytes {
		acq.Warnings = append(acq.Warnings, fmt.Sprintf("file truncated to %d bytes", a.maxBytes))
	}
	return acq, nil
}

var _ Acquirer = (*FileAcquirer)(nil)
var _ Acquirer = (*OCRAdapter)(nil)

// SourceFor is a convenience for callers that only hold raw text and a kind
// label, e.g. from a form field.
func SourceFor(text string, kind entity.SourceKind) entity.RawSource {
	if !kind.Valid() {
		kind = entity.SourceTyped
	}
	return entity.RawSource{Text: text, Kind: kind}
}
