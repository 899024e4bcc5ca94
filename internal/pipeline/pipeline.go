// Package pipeline composes the pure extraction stages (normalize, bound,
// parse, validate) and, in Processor, puts source acquisition in front of them.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/recipe-extractor/internal/content"
	"github.com/joseph-ayodele/recipe-extractor/internal/diag"
	"github.com/joseph-ayodele/recipe-extractor/internal/entity"
	"github.com/joseph-ayodele/recipe-extractor/internal/normalize"
	"github.com/joseph-ayodele/recipe-extractor/internal/parse"
	"github.com/joseph-ayodele/recipe-extractor/internal/validate"
)

// Report is the result of one run with every intermediate kept, for
// debugging and the extract --report output.
type Report struct {
	Source     entity.RawSource        `json:"source"`
	Normalized string                  `json:"normalized"`
	Bounded    string                  `json:"bounded"`
	Candidate  entity.Candidate        `json:"candidate"`
	Result     entity.ValidationResult `json:"result"`
}

type Pipeline struct {
	logger     *slog.Logger
	rec        *diag.Recorder
	normalizer *normalize.Normalizer
	content    *content.Extractor
	parser     *parse.Parser
	validator  *validate.Validator
}

type Option func(*Pipeline)

// WithNormalizer replaces the default normalizer, e.g. one with custom passes.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(p *Pipeline) { p.normalizer = n }
}

func New(logger *slog.Logger, rec *diag.Recorder, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		logger:     logger,
		rec:        rec,
		normalizer: normalize.New(logger, normalize.WithRecorder(rec)),
		content:    content.New(logger, rec),
		parser:     parse.New(logger, rec),
		validator:  validate.New(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Extract runs src through a default Pipeline.
func Extract(src entity.RawSource) entity.ValidationResult {
	return New(nil, nil).Extract(src)
}

// Extract is the single entry point: Normalize -> ExtractContent ->
// ParseStructure -> Validate. It always returns a result.
func (p *Pipeline) Extract(src entity.RawSource) entity.ValidationResult {
	return p.Run(src).Result
}

// Run is Extract keeping the intermediate texts.
func (p *Pipeline) Run(src entity.RawSource) (rep Report) {
	rep.Source = src
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("pipeline panicked: %v", r)
			p.logger.Error("extraction failed; reporting partial candidate", "source_kind", src.Kind, "error", err)
			p.rec.Degraded(diag.Event{Stage: diag.StagePipeline, Reason: "panic", Err: err})
			rep.Result = validate.Validate(rep.Candidate)
			p.rec.Extraction(kindLabel(src.Kind), rep.Result.Valid)
		}
	}()

	rep.Normalized = p.normalizer.Normalize(src.Text)
	rep.Bounded = p.content.Extract(rep.Normalized)
	rep.Candidate = p.parser.Parse(rep.Bounded)
	rep.Result = p.validator.Validate(rep.Candidate)

	p.rec.Extraction(kindLabel(src.Kind), rep.Result.Valid)
	p.logger.Debug("extraction finished",
		"source_kind", src.Kind,
		"raw_bytes", len(src.Text),
		"bounded_bytes", len(rep.Bounded),
		"ingredients", len(rep.Candidate.Ingredients),
		"instructions", len(rep.Candidate.Instructions),
		"valid", rep.Result.Valid,
		"failed_fields", rep.Result.FailedFields(),
	)
	return rep
}

func kindLabel(k entity.SourceKind) string {
	if !k.Valid() {
		return "unknown"
	}
	return string(k)
}
