// Package parse turns bounded recipe text into a structured Candidate with a
// line-oriented state machine.
//
// Only bulleted lines count as ingredients and only "n." lines count as
// instructions; anything else inside those sections is treated as prose and
// skipped. Instructions are kept in the order they appear in the text, never
// re-sorted by their numeric labels.
package parse

import (
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/recipe-extractor/internal/diag"
	"github.com/joseph-ayodele/recipe-extractor/internal/entity"
	"github.com/joseph-ayodele/recipe-extractor/internal/utils"
)

// ParseStructure folds Step over the lines of bounded.
func ParseStructure(bounded string) entity.Candidate {
	var s State
	for _, line := range utils.Lines(bounded) {
		s = Step(s, line)
	}
	return s.Candidate()
}

type Parser struct {
	logger *slog.Logger
	rec    *diag.Recorder
}

func New(logger *slog.Logger, rec *diag.Recorder) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger, rec: rec}
}

// Parse is ParseStructure with a recovery boundary: a panic yields an empty
// candidate, which the validator then reports field by field.
func (p *Parser) Parse(bounded string) (c entity.Candidate) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("parse panicked: %v", r)
			p.logger.Error("structural parse failed; returning empty candidate", "input_bytes", len(bounded), "error", err)
			p.rec.Degraded(diag.Event{Stage: diag.StageParse, Reason: "panic", Err: err})
			c = entity.Candidate{Ingredients: []string{}, Instructions: []string{}}
		}
	}()
	return ParseStructure(bounded)
}
