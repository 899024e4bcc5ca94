package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const vulgarFractionGlyphs = "½⅓⅔¼¾⅕⅖⅗⅘⅙⅚⅐⅛⅜⅝⅞⅑⅒"

const fractionSlash = '⁄'

// vulgarFractions maps each glyph to ASCII "n/d". NFKC decomposes the glyph
// into digits around U+2044 FRACTION SLASH.
var vulgarFractions = buildFractionTable(vulgarFractionGlyphs)

func buildFractionTable(glyphs string) map[rune]string {
	m := make(map[rune]string, len(glyphs))
	for _, g := range glyphs {
		m[g] = strings.ReplaceAll(norm.NFKC.String(string(g)), string(fractionSlash), "/")
	}
	return m
}

var (
	reOCRFraction  = regexp.MustCompile(`\b[lI]/([2348])\b`)
	reDigitO       = regexp.MustCompile(`\b(\d+)O(\d*)\b`)
	reDecimalComma = regexp.MustCompile(`(\d),(\d)`)
)

// repairFractions resolves OCR digit/letter confusions and Unicode fractions.
// Post: no vulgar fraction glyph or fraction slash remains; "l/2" is "1/2";
// "1,5" is "1.5" (this also rewrites thousands separators, a known limitation).
func repairFractions(s string) string {
	s = reOCRFraction.ReplaceAllString(s, "1/${1}")
	s = reDigitO.ReplaceAllString(s, "${1}0${2}")
	s = replaceVulgarFractions(s)
	return reDecimalComma.ReplaceAllString(s, "${1}.${2}")
}

func replaceVulgarFractions(s string) string {
	if !strings.ContainsAny(s, vulgarFractionGlyphs+string(fractionSlash)) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	var prev rune
	for _, r := range s {
		if ascii, ok := vulgarFractions[r]; ok {
			// "1½" is one and a half, not eleven halves
			if unicode.IsDigit(prev) {
				b.WriteByte(' ')
			}
			b.WriteString(ascii)
			prev = rune(ascii[len(ascii)-1])
			continue
		}
		if r == fractionSlash {
			r = '/'
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

type rewrite struct {
	re   *regexp.Regexp
	repl string
}

var unitRepairs = []rewrite{
	{regexp.MustCompile(`\bcup5\b`), "cups"},
	{regexp.MustCompile(`\btb5p\b`), "tbsp"},
	{regexp.MustCompile(`\bt5p\b`), "tsp"},
	{regexp.MustCompile(`\b0z\b`), "oz"},
	{regexp.MustCompile(`(?m)(\d) ?c\.(?: |$)`), "${1} cup "},
	{regexp.MustCompile(`(?m)(\d) ?T\.(?: |$)`), "${1} tbsp "},
	{regexp.MustCompile(`(?m)(\d) ?t\.(?: |$)`), "${1} tsp "},
}

var reQtyUnitSpacing = regexp.MustCompile(`(\d)[ \t]*((?i:cups|cup|tbsp|tsp|oz|lbs|lb|kg|ml)|g|L)\b`)

// repairMeasurements fixes OCR-damaged unit tokens, expands one-letter unit
// abbreviations after a quantity, and puts exactly one space between a
// number and its unit. Post: "2cups" is "2 cups", "1 c. flour" is "1 cup flour".
func repairMeasurements(s string) string {
	for _, r := range unitRepairs {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return reQtyUnitSpacing.ReplaceAllString(s, "${1} ${2}")
}

var headerRepairs = []rewrite{
	{regexp.MustCompile(`\b[Il1]ngred[il1]ents\b`), "Ingredients"},
	{regexp.MustCompile(`\b[Il1]nstruct[il1][o0]ns\b`), "Instructions"},
	{regexp.MustCompile(`\bD[il1]rect[il1][o0]ns\b`), "Directions"},
	{regexp.MustCompile(`\bMeth[o0]d\b`), "Method"},
	{regexp.MustCompile(`\bN[o0]tes\b`), "Notes"},
	{regexp.MustCompile(`\bT[il1]tle:`), "Title:"},
}

// reHeaderLine matches a section header: the label alone, or the label followed by ':'.
var reHeaderLine = regexp.MustCompile(`(?i)^#{0,6} ?(?:title|description|ingredients|instructions|directions|method|steps|preparation|notes?) ?(?::.*)?$`)

// repairSectionHeaders canonicalises OCR-damaged header words and separates
// header lines from the preceding block.
// Post: "lngredients" is "Ingredients"; every header line that is not the
// first line follows a blank line.
func repairSectionHeaders(s string) string {
	for _, r := range headerRepairs {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines)+4)
	for _, line := range lines {
		if reHeaderLine.MatchString(line) && len(out) > 0 && out[len(out)-1] != "" {
			out = append(out, "")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// cookingTerms are common recipe words: verbs, tools and staple ingredients.
var cookingTerms = map[string]struct{}{
	"add": {}, "bake": {}, "beat": {}, "blend": {}, "boil": {}, "bowl": {}, "butter": {},
	"chop": {}, "combine": {}, "cook": {}, "cool": {}, "cream": {}, "cups": {}, "dice": {},
	"dough": {}, "eggs": {}, "flour": {}, "fold": {}, "fry": {}, "garlic": {}, "grill": {},
	"heat": {}, "knead": {}, "milk": {}, "minutes": {}, "mix": {}, "oil": {}, "onion": {},
	"oven": {}, "pan": {}, "pepper": {}, "pour": {}, "preheat": {}, "roast": {}, "salt": {},
	"serve": {}, "simmer": {}, "slice": {}, "stir": {}, "sugar": {}, "water": {}, "whisk": {},
	"beef": {}, "broth": {}, "cheese": {}, "chicken": {}, "cocoa": {}, "honey": {}, "oats": {},
	"onions": {}, "pork": {}, "rice": {}, "salsa": {}, "sausage": {}, "spinach": {}, "stock": {},
	"tomatoes": {}, "vinegar": {}, "yogurt": {},
}

var reWord = regexp.MustCompile(`\b[A-Za-z]{3,}\b`)

// repairCookingTermCasing fixes casing of known cooking words when OCR mixed
// upper and lower case inside the word ("fLour", "MiX"). Lowercase,
// Capitalised and ALL-CAPS words are left alone.
func repairCookingTermCasing(s string) string {
	return reWord.ReplaceAllStringFunc(s, func(w string) string {
		lower := strings.ToLower(w)
		if _, ok := cookingTerms[lower]; !ok || !damagedCasing(w) {
			return w
		}
		if w[0] >= 'A' && w[0] <= 'Z' {
			return strings.ToUpper(lower[:1]) + lower[1:]
		}
		return lower
	})
}

func damagedCasing(w string) bool {
	if w == strings.ToLower(w) || w == strings.ToUpper(w) {
		return false
	}
	rest := w[1:]
	return rest != strings.ToLower(rest)
}

var (
	tempSymbols  = strings.NewReplacer("℉", "°F", "℃", "°C")
	reTempWord   = regexp.MustCompile(`(?i)\b(\d{2,3}) ?(?:°|º|degrees?|deg\.?) ?(fahrenheit|celsius|f|c)\b`)
	reTempAbbrev = regexp.MustCompile(`\b(\d{2,3}) ?([FC])\.`)
)

// normalizeTemperatures rewrites oven temperatures to "<n>°F" / "<n>°C".
// Only 2-3 digit numbers are considered so "2 C." (cups) is not touched.
func normalizeTemperatures(s string) string {
	s = tempSymbols.Replace(s)
	s = reTempWord.ReplaceAllStringFunc(s, func(m string) string {
		sub := reTempWord.FindStringSubmatch(m)
		return sub[1] + "°" + strings.ToUpper(sub[2][:1])
	})
	return reTempAbbrev.ReplaceAllString(s, "${1}°${2}")
}
