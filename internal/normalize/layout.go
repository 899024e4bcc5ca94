package normalize

import (
	"regexp"
	"strings"
)

var (
	reLineBreak = regexp.MustCompile(`\r\n?|\f`)
	reHSpace    = regexp.MustCompile(`[ \t\v\x{00A0}\x{202F}]+`)
	reBlankRun  = regexp.MustCompile(`\n{3,}`)
)

// normalizeLineEndings turns CRLF, lone CR and form feeds (PDF page breaks)
// into '\n' and drops invalid UTF-8 and a leading BOM.
// Post: no '\r' in the output.
func normalizeLineEndings(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.TrimPrefix(s, "\uFEFF")
	return reLineBreak.ReplaceAllString(s, "\n")
}

// collapseWhitespace folds horizontal whitespace runs into one space, trims
// every line, and keeps at most one blank line between blocks.
// Pre: '\n' line endings. Post: no line has leading/trailing space, no run of
// 3+ newlines, no leading/trailing blank lines.
func collapseWhitespace(s string) string {
	s = reHSpace.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	s = strings.Join(lines, "\n")
	s = reBlankRun.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// unit tokens as they appear after a quantity, including the OCR-damaged and
// abbreviated forms the measurements pass repairs later.
const quantityUnitPattern = `(?:cups|cup|cup5|tbsp|tb5p|tsp|t5p|oz|0z|lbs|lb|kg|ml|g|L|c\.|T\.|t\.)`

var (
	reBulletGlyph = regexp.MustCompile(`(?m)^[•·▪◦‣●][ \t]*`)
	reQtyUnit     = regexp.MustCompile(`\d ?` + quantityUnitPattern)
	// "2cupsflour" -> "2cups flour"; g and L are left alone, too many words start with them
	reUnitRunOn = regexp.MustCompile(`(\d ?)((?:cup|tbsp|tsp|oz|lb|kg|ml)[a-z]{3,})`)
	// "flour.2 cups sugar" -> "flour.\n2 cups sugar"
	reMergedIngredient = regexp.MustCompile(`([A-Za-z)])\.(\d+(?:[./]\d+)? ?` + quantityUnitPattern + `)`)
)

// runOnUnits are tried longest first, so "2cupsflour" keeps its plural.
var runOnUnits = []string{"cups", "cup", "tbsp", "tsp", "lbs", "lb", "oz", "kg", "ml"}

// unitWords start with a unit but are words in their own right.
var unitWords = map[string]struct{}{
	"cupcake": {}, "cupcakes": {}, "cupful": {}, "cupfuls": {},
	"cupboard": {}, "cupboards": {}, "ozone": {},
}

// repairIngredientStructure fixes the shape of ingredient lists.
// Pre: collapsed whitespace. Post: printed bullets are "- "; quantities are
// ASCII (see repairFractions); when the text holds a quantity+unit token, a
// unit is separated from a run-on word and merged ingredients sit on their
// own lines.
func repairIngredientStructure(s string) string {
	s = reBulletGlyph.ReplaceAllString(s, "- ")
	// the rules below and the numbered-steps pass only recognise ASCII digits
	s = repairFractions(s)
	if !reQtyUnit.MatchString(s) {
		return s
	}
	s = reUnitRunOn.ReplaceAllStringFunc(s, splitUnitRunOn)
	return reMergedIngredient.ReplaceAllString(s, "${1}.\n${2}")
}

// splitUnitRunOn splits "2cupsugar" after the unit whose remainder is a known
// cooking word. Without a known remainder it only splits a token glued to its
// number ("2cupsrhubarb"); "12 cupcakes" and "1 cupful" stay as written.
func splitUnitRunOn(m string) string {
	sub := reUnitRunOn.FindStringSubmatch(m)
	qty, word := sub[1], sub[2]
	if _, ok := unitWords[word]; ok {
		return m
	}
	fallback := ""
	for _, u := range runOnUnits {
		rest, ok := strings.CutPrefix(word, u)
		if !ok || len(rest) < 3 {
			continue
		}
		if _, known := cookingTerms[rest]; known {
			return qty + u + " " + rest
		}
		if fallback == "" {
			fallback = qty + u + " " + rest
		}
	}
	if fallback == "" || strings.HasSuffix(qty, " ") {
		return m
	}
	return fallback
}

var (
	reInlineNumbered = regexp.MustCompile(`([.!?]) (\d{1,2}\. [A-Z])`)
	reInlineStepWord = regexp.MustCompile(`([.!?]) ((?:Step|STEP) ?\d{1,3}\b)`)
	reStepWord       = regexp.MustCompile(`^(?:Step|STEP|step) ?(\d{1,3})\b\s*[:.)\-]?\s*(.*)$`)
	reParenStep      = regexp.MustCompile(`^(\d{1,3})\) (.*)$`)
	reBareStep       = regexp.MustCompile(`^(\d{1,3})\.$`)
	reStepLine       = regexp.MustCompile(`^\d{1,3}\.(?:\s|$)`)
)

// separateNumberedSteps puts every numbered step on its own line in the
// canonical "n. text" form, preceded by a blank line.
// Pre: collapsed whitespace. Post: "Step n", "n)" and bare "n." lines are
// rewritten to "n. text"; each step line follows a blank line (or starts the text).
func separateNumberedSteps(s string) string {
	s = reInlineNumbered.ReplaceAllString(s, "${1}\n${2}")
	s = reInlineStepWord.ReplaceAllString(s, "${1}\n${2}")

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines)+8)
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		num, rest, ok := "", "", false
		if m := reStepWord.FindStringSubmatch(line); m != nil {
			num, rest, ok = m[1], strings.TrimSpace(m[2]), true
		} else if m := reParenStep.FindStringSubmatch(line); m != nil {
			num, rest, ok = m[1], strings.TrimSpace(m[2]), true
		} else if m := reBareStep.FindStringSubmatch(line); m != nil {
			num, ok = m[1], true
		}
		if ok {
			if rest == "" && i+1 < len(lines) && mergeableStepText(lines[i+1]) {
				rest = strings.TrimSpace(lines[i+1])
				i++
			}
			line = strings.TrimSpace(num + ". " + rest)
		}
		if reStepLine.MatchString(line) && len(out) > 0 && out[len(out)-1] != "" {
			out = append(out, "")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func mergeableStepText(next string) bool {
	next = strings.TrimSpace(next)
	if next == "" {
		return false
	}
	return !reStepLine.MatchString(next) &&
		!reStepWord.MatchString(next) &&
		!reParenStep.MatchString(next) &&
		!reHeaderLine.MatchString(next)
}
