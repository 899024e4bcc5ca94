package constants

import (
	"strings"
)

type Section string

const (
	SectionNone         Section = ""
	SectionTitle        Section = "title"
	SectionDescription  Section = "description"
	SectionIngredients  Section = "ingredients"
	SectionInstructions Section = "instructions"
	SectionNotes        Section = "notes"
)

var allSections = []Section{
	SectionTitle,
	SectionDescription,
	SectionIngredients,
	SectionInstructions,
	SectionNotes,
}

// synonyms maps header words seen in the wild onto a canonical section.
var synonyms = map[string]Section{
	"directions":  SectionInstructions,
	"method":      SectionInstructions,
	"steps":       SectionInstructions,
	"preparation": SectionInstructions,
	"note":        SectionNotes,
}

func SectionNames() []string {
	result := make([]string, len(allSections))
	for i, s := range allSections {
		result[i] = string(s)
	}
	return result
}

// CanonicalSection resolves a header word (any case, surrounding space ignored)
// to its section. The second return is false for unknown words.
func CanonicalSection(input string) (Section, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return SectionNone, false
	}
	if s, ok := synonyms[normalized]; ok {
		return s, true
	}
	for _, s := range allSections {
		if normalized == string(s) {
			return s, true
		}
	}
	return SectionNone, false
}
