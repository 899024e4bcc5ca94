// Package normalize cleans raw recipe text (typed, OCR, PDF) into a canonical
// form the content extractor and parser can rely on.
//
// Normalization is a fixed, ordered list of named passes. Each pass is a pure
// string -> string function whose precondition is the output shape of the
// passes before it. A pass that panics never aborts normalization: the
// Normalizer falls back to line-ending and whitespace cleanup of the raw input.
package normalize

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/joseph-ayodele/recipe-extractor/internal/diag"
)

// Pass is one named rewrite step.
type Pass struct {
	Name  string
	Apply func(string) string
}

var defaultPasses = []Pass{
	{Name: "line-endings", Apply: normalizeLineEndings},
	{Name: "whitespace", Apply: collapseWhitespace},
	{Name: "ingredient-structure", Apply: repairIngredientStructure},
	{Name: "numbered-steps", Apply: separateNumberedSteps},
	{Name: "fractions", Apply: repairFractions},
	{Name: "measurements", Apply: repairMeasurements},
	{Name: "section-headers", Apply: repairSectionHeaders},
	{Name: "cooking-terms", Apply: repairCookingTermCasing},
	{Name: "temperatures", Apply: normalizeTemperatures},
	// later passes may leave doubled or trailing spaces behind
	{Name: "tidy", Apply: collapseWhitespace},
}

// DefaultPasses returns a copy of the standard pass list in execution order.
func DefaultPasses() []Pass {
	return slices.Clone(defaultPasses)
}

type Normalizer struct {
	passes []Pass
	logger *slog.Logger
	rec    *diag.Recorder
}

type Option func(*Normalizer)

// WithPasses replaces the pass list. Mostly useful in tests.
func WithPasses(passes []Pass) Option {
	return func(n *Normalizer) {
		n.passes = slices.Clone(passes)
	}
}

func WithRecorder(rec *diag.Recorder) Option {
	return func(n *Normalizer) {
		n.rec = rec
	}
}

func New(logger *slog.Logger, opts ...Option) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	n := &Normalizer{passes: DefaultPasses(), logger: logger}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Normalize runs the default passes with the default logger.
func Normalize(raw string) string {
	return New(nil).Normalize(raw)
}

// Normalize applies every pass in order. It never panics; on empty input it
// returns "".
func (n *Normalizer) Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	out := raw
	for _, p := range n.passes {
		next, err := runPass(p, out)
		if err != nil {
			n.logger.Error("normalize pass failed; using minimal cleanup", "pass", p.Name, "input_bytes", len(raw), "error", err)
			n.rec.Degraded(diag.Event{Stage: diag.StageNormalize, Reason: "pass-panic", Detail: p.Name, Err: err})
			return Minimal(raw)
		}
		out = next
	}
	return out
}

// Minimal applies only the line-ending and whitespace passes.
func Minimal(raw string) string {
	return collapseWhitespace(normalizeLineEndings(raw))
}

func runPass(p Pass, s string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pass %q panicked: %v", p.Name, r)
		}
	}()
	return p.Apply(s), nil
}
