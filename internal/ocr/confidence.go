package ocr

import (
	"regexp"
	"strings"
)

var (
	reQuantity   = regexp.MustCompile(`\b\d+(?:[./]\d+)?\s?(?:cups?|tbsp|tsp|oz|lbs?|kg|ml|g|grams?|teaspoons?|tablespoons?)\b`)
	reHeaderWord = regexp.MustCompile(`(?m)^\s*(?:ingredients|instructions|directions|method)\b`)
	reStepNumber = regexp.MustCompile(`(?m)^\s*\d{1,2}[.)]\s`)
	// single characters and box-drawing junk tesseract emits for table rules
	reBoxNoise = regexp.MustCompile(`(?m)^[ \t|_\-=~]{1,3}$`)
)

func hasQuantityPattern(s string) bool { return reQuantity.MatchString(s) }
func hasSectionHeader(s string) bool   { return reHeaderWord.MatchString(s) }
func hasNumberedSteps(s string) bool   { return reStepNumber.MatchString(s) }

// heuristicConfidence scores OCR text by how recipe-like it reads.
func heuristicConfidence(txt string) float32 {
	txtL := strings.ToLower(txt)
	score := float32(0.2) // base
	if hasQuantityPattern(txtL) {
		score += 0.2
	}
	if hasSectionHeader(txtL) {
		score += 0.2
	}
	if hasNumberedSteps(txtL) {
		score += 0.15
	}
	if len(txt) > 120 {
		score += 0.1
	} // enough content
	if score > 1.0 {
		score = 1.0
	}
	return score
}
