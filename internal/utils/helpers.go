package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxTitleRunes bounds how long a line may be and still read as a recipe title.
const MaxTitleRunes = 80

// IsTitleLike reports whether a single line looks like a recipe name rather
// than prose, a list item, or a label: short, has letters, no sentence ending.
func IsTitleLike(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || utf8.RuneCountInString(line) > MaxTitleRunes {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(line)
	switch last {
	case '.', '!', '?', ':', ';', ',':
		return false
	}
	first, _ := utf8.DecodeRuneInString(line)
	if first == '-' || first == '*' || unicode.IsDigit(first) {
		return false
	}
	return strings.IndexFunc(line, unicode.IsLetter) >= 0
}

// Lines splits s on '\n' without dropping empty lines.
func Lines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
