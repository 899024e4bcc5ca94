package ocr

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TextDensity counts the non-whitespace runes of text.
func TextDensity(text string) int {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// NeedsOCRFallback reports whether a PDF text layer is too sparse or too
// damaged to use: fewer than minChars non-space characters, or more than 5%
// replacement characters (broken font encodings).
func NeedsOCRFallback(text string, minChars int) bool {
	if TextDensity(text) < minChars {
		return true
	}
	return ReplacementCharRatio(text) > 0.05
}

// ReplacementCharRatio is the share of U+FFFD (or invalid UTF-8) among the
// non-space runes of text.
func ReplacementCharRatio(text string) float64 {
	var total, bad int
	for _, r := range strings.TrimSpace(text) {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if r == utf8.RuneError {
			bad++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(bad) / float64(total)
}
