package parse

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/recipe-extractor/constants"
	"github.com/joseph-ayodele/recipe-extractor/internal/entity"
	"github.com/joseph-ayodele/recipe-extractor/internal/utils"
)

var (
	// a section header, optionally markdown-style, with or without a colon and
	// inline content after it
	reHeader = regexp.MustCompile(`(?i)^#{0,6}\s*(title|description|ingredients|instructions|directions|method|steps|preparation|notes?)\s*(?::\s*(.*))?$`)
	// metadata labels such as "Serves: 4" or "Prep Time: 10 min"
	reLabel     = regexp.MustCompile(`^[A-Za-z][A-Za-z ]{0,30}:`)
	reBullet    = regexp.MustCompile(`^[-*]\s*(.*)$`)
	reStep      = regexp.MustCompile(`^\d+\.(\s*\D.*|\s*)$`)
	reStepLabel = regexp.MustCompile(`^\d+\.\s*`)
)

// State is the parser state after consuming some prefix of the lines.
// Step returns a new State; the returned value may share slice storage with
// its argument, so only the latest State of a fold should be kept.
type State struct {
	Section    constants.Section
	SeenHeader bool

	Title         string
	Description   string
	InferredTitle string
	Ingredients   []string
	Instructions  []string
	Notes         []string
}

// Header reports whether line is a section header, the section it opens, and
// any content following the colon on the same line.
func Header(line string) (constants.Section, string, bool) {
	m := reHeader.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return constants.SectionNone, "", false
	}
	sec, ok := constants.CanonicalSection(m[1])
	if !ok {
		return constants.SectionNone, "", false
	}
	return sec, strings.TrimSpace(m[2]), true
}

// Step is the transition function: it consumes one line.
func Step(s State, line string) State {
	line = strings.TrimSpace(line)
	if line == "" {
		return s
	}
	inline := false
	if sec, rest, ok := Header(line); ok {
		s.Section = sec
		s.SeenHeader = true
		if rest == "" {
			return s
		}
		line, inline = rest, true
	}

	switch s.Section {
	case constants.SectionNone:
		if !s.SeenHeader && s.InferredTitle == "" && utils.IsTitleLike(line) && !reLabel.MatchString(line) {
			s.InferredTitle = line
		}
	case constants.SectionTitle:
		if inline || !reLabel.MatchString(line) {
			s.Title = line
		}
	case constants.SectionDescription:
		if inline || !reLabel.MatchString(line) {
			s.Description = line
		}
	case constants.SectionIngredients:
		if m := reBullet.FindStringSubmatch(line); m != nil {
			if item := strings.TrimSpace(m[1]); item != "" {
				s.Ingredients = append(s.Ingredients, item)
			}
		}
	case constants.SectionInstructions:
		if reStep.MatchString(line) {
			if step := strings.TrimSpace(reStepLabel.ReplaceAllString(line, "")); step != "" {
				s.Instructions = append(s.Instructions, step)
			}
		}
	case constants.SectionNotes:
		note := line
		if m := reBullet.FindStringSubmatch(note); m != nil {
			note = m[1]
		} else if reStep.MatchString(note) {
			note = reStepLabel.ReplaceAllString(note, "")
		}
		if note = strings.TrimSpace(note); note != "" {
			s.Notes = append(s.Notes, note)
		}
	}
	return s
}

// Candidate is the record the state describes. An explicit title wins over
// one inferred from the lines before the first header.
func (s State) Candidate() entity.Candidate {
	c := entity.Candidate{
		Title:        s.Title,
		Description:  s.Description,
		Ingredients:  s.Ingredients,
		Instructions: s.Instructions,
		Notes:        s.Notes,
	}
	if c.Title == "" {
		c.Title = s.InferredTitle
	}
	if c.Ingredients == nil {
		c.Ingredients = []string{}
	}
	if c.Instructions == nil {
		c.Instructions = []string{}
	}
	return c
}
