package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/recipe-extractor/constants"
	"github.com/joseph-ayodele/recipe-extractor/internal/common"
	"github.com/joseph-ayodele/recipe-extractor/internal/entity"
	"github.com/joseph-ayodele/recipe-extractor/internal/extract"
)

// Outcome is everything known about one processed recipe source.
type Outcome struct {
	ID          uuid.UUID               `json:"id"`
	Path        string                  `json:"path,omitempty"`
	Status      constants.OutcomeStatus `json:"status"`
	Acquisition extract.Acquisition     `json:"acquisition"`
	Result      entity.ValidationResult `json:"result"`
	NeedsReview bool                    `json:"needs_review"`
	Error       string                  `json:"error,omitempty"`
	Duration    time.Duration           `json:"duration_ns"`
}

// Config holds thresholds for the file processor.
type Config struct {
	Timeout         time.Duration // per acquisition; 0 = no timeout
	ReviewThreshold float32       // default constants.ReviewConfidenceThreshold
}

// Processor coordinates acquisition (file -> text) then extraction (text -> recipe).
type Processor struct {
	logger *slog.Logger
	acq    extract.Acquirer
	pipe   *Pipeline
	cfg    Config
}

func NewProcessor(logger *slog.Logger, cfg Config, acq extract.Acquirer, pipe *Pipeline) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if pipe == nil {
		pipe = New(logger, nil)
	}
	if cfg.ReviewThreshold <= 0 {
		cfg.ReviewThreshold = constants.ReviewConfidenceThreshold
	}
	return &Processor{logger: logger, acq: acq, pipe: pipe, cfg: cfg}
}

// ProcessFile acquires the text at path and extracts a recipe from it.
// Acquisition errors are returned together with a FAILED Outcome; the
// extraction stages themselves never fail.
func (p *Processor) ProcessFile(ctx context.Context, path string) (Outcome, error) {
	start := time.Now()
	id := uuid.New()
	ctx = common.WithExtractionID(ctx, id.String())
	logger := common.LoggerFromContext(ctx, p.logger)

	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	acq, err := p.acq.Acquire(ctx, path)
	if err != nil {
		logger.Error("processor.acquire.failed", "path", path, "error", err)
		return Outcome{
			ID:          id,
			Path:        path,
			Status:      constants.StatusFailed,
			Acquisition: acq,
			NeedsReview: true,
			Error:       err.Error(),
			Duration:    time.Since(start),
		}, err
	}
	logger.Info("processor.acquire.ok",
		"path", path,
		"method", acq.Method,
		"pages", acq.Pages,
		"confidence", acq.Confidence,
	)

	out := p.finish(id, acq, start)
	logger.Info("processor.extract.done", "path", path, "status", out.Status, "failed_fields", out.Result.FailedFields())
	return out, nil
}

// ProcessText extracts a recipe from typed text; it cannot fail.
func (p *Processor) ProcessText(text string) Outcome {
	start := time.Now()
	acq := extract.Acquisition{
		Source:     extract.FromText(text),
		Method:     constants.MethodTypedText,
		Pages:      1,
		Confidence: 1,
	}
	return p.finish(uuid.New(), acq, start)
}

func (p *Processor) finish(id uuid.UUID, acq extract.Acquisition, start time.Time) Outcome {
	res := p.pipe.Extract(acq.Source)
	lowConfidence := acq.Source.Kind.IsOCR() && acq.Confidence < p.cfg.ReviewThreshold

	out := Outcome{
		ID:          id,
		Path:        acq.Path,
		Acquisition: acq,
		Result:      res,
		NeedsReview: !res.Valid || lowConfidence,
		Duration:    time.Since(start),
	}
	switch {
	case !res.Valid:
		out.Status = constants.StatusInvalid
	case lowConfidence:
		out.Status = constants.StatusNeedsReview
	default:
		out.Status = constants.StatusValid
	}
	return out
}
