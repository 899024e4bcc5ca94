// Package content bounds normalized recipe text to the recipe body, dropping
// blog preamble before it and nutrition/attribution trailers after it.
package content

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/recipe-extractor/internal/diag"
	"github.com/joseph-ayodele/recipe-extractor/internal/utils"
)

var startMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ingredients:`),
	regexp.MustCompile(`(?i)yield:[^\n]*servings`),
	regexp.MustCompile(`(?i)prep time:`),
	regexp.MustCompile(`(?i)preparation time:`),
	regexp.MustCompile(`(?i)cook time:`),
	regexp.MustCompile(`(?i)baking time:`),
	regexp.MustCompile(`(?i)total time:`),
}

var endMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)nutritional information`),
	regexp.MustCompile(`(?i)nutrition facts`),
	regexp.MustCompile(`(?i)serving suggestion`),
	regexp.MustCompile(`(?i)\bsource:`),
	regexp.MustCompile(`(?i)adapted from`),
	regexp.MustCompile(`(?i)recipe by`),
	regexp.MustCompile(`(?i)enjoy!`),
}

// reLabelLine matches lines that belong to the recipe header even though they
// sit above the first start marker.
var reLabelLine = regexp.MustCompile(`(?i)^#{0,6} ?(?:title|description|serves|servings|yield|makes|prep time|preparation time|cook time|baking time|total time)\s*:`)

// Span is a half-open byte range [Start, End) of the input.
type Span struct {
	Start int
	End   int
	// Marker is false when no start marker was found and the first
	// non-blank line was used instead.
	Marker bool
	// Truncated is true when an end marker cut off a trailer.
	Truncated bool
}

type Extractor struct {
	logger *slog.Logger
	rec    *diag.Recorder
}

func New(logger *slog.Logger, rec *diag.Recorder) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger, rec: rec}
}

// ExtractContent bounds normalized with a default Extractor.
func ExtractContent(normalized string) string {
	return New(nil, nil).Extract(normalized)
}

// Extract returns the recipe body of normalized. The result is always a
// (trimmed) substring of the input; if anything goes wrong the whole input is
// returned unchanged.
func (e *Extractor) Extract(normalized string) (bounded string) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("content extraction panicked: %v", r)
			e.logger.Error("content extraction failed; keeping full text", "input_bytes", len(normalized), "error", err)
			e.rec.Degraded(diag.Event{Stage: diag.StageContent, Reason: "panic", Err: err})
			bounded = normalized
		}
	}()

	sp, ok := Locate(normalized)
	if !ok {
		return ""
	}
	if !sp.Marker {
		e.rec.Degraded(diag.Event{Stage: diag.StageContent, Reason: "no-start-marker"})
	}
	if sp.Truncated {
		e.logger.Debug("content trailer dropped", "end", sp.End, "dropped_bytes", len(normalized)-sp.End)
	}
	return strings.TrimSpace(normalized[sp.Start:sp.End])
}

// Locate finds the recipe body in normalized. ok is false only for blank input.
func Locate(normalized string) (sp Span, ok bool) {
	if strings.TrimSpace(normalized) == "" {
		return Span{}, false
	}

	searchFrom := 0
	if at := earliest(startMarkers, normalized, 0); at >= 0 {
		sp.Marker = true
		sp.Start = backtrack(normalized, lineStart(normalized, at))
		searchFrom = at
	} else {
		sp.Start = firstNonBlankLine(normalized)
		searchFrom = lineEnd(normalized, sp.Start)
	}

	sp.End = len(normalized)
	if at := earliest(endMarkers, normalized, searchFrom); at >= 0 {
		sp.End = at
		sp.Truncated = true
	}
	return sp, true
}

// earliest returns the lowest offset >= from at which any pattern matches, or -1.
// Pattern order in the slice does not matter.
func earliest(patterns []*regexp.Regexp, s string, from int) int {
	best := -1
	tail := s[from:]
	for _, re := range patterns {
		loc := re.FindStringIndex(tail)
		if loc == nil {
			continue
		}
		if best < 0 || from+loc[0] < best {
			best = from + loc[0]
		}
	}
	return best
}

// backtrack moves start up over the recipe header: labelled lines
// (Title:, Serves:, ...) and at most one title-like line. Blank lines are
// skipped; any other line stops the walk.
func backtrack(s string, start int) int {
	pos := start
	for pos > 0 {
		prevEnd := pos - 1 // the '\n' ending the previous line
		prevStart := lineStart(s, prevEnd)
		line := strings.TrimSpace(s[prevStart:prevEnd])
		switch {
		case line == "":
		case reLabelLine.MatchString(line):
			start = prevStart
		case utils.IsTitleLike(line):
			return prevStart
		default:
			return start
		}
		pos = prevStart
	}
	return start
}

func lineStart(s string, at int) int {
	return strings.LastIndexByte(s[:at], '\n') + 1
}

func lineEnd(s string, at int) int {
	if i := strings.IndexByte(s[at:], '\n'); i >= 0 {
		return at + i
	}
	return len(s)
}

func firstNonBlankLine(s string) int {
	pos := 0
	for _, line := range utils.Lines(s) {
		if strings.TrimSpace(line) != "" {
			return pos
		}
		pos += len(line) + 1
	}
	return 0
}
