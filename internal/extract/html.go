package extract

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noiseSelectors are removed before the page is flattened to text.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "footer", "header",
	"img", "picture", "figure", "figcaption",
	"iframe", "video", "audio",
	"svg", "canvas",
	"form", "button", "input", "select", "textarea",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement", ".comments",
}

// containerSelectors are tried in order; the first match holds the recipe.
var containerSelectors = []string{
	`[itemtype*="schema.org/Recipe"]`,
	".recipe",
	"article",
	"main",
	"body",
}

var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"table": true, "tr": true, "blockquote": true, "pre": true, "dl": true, "dt": true, "dd": true,
}

// HTMLText flattens a recipe web page into lines of plain text: block
// elements start new lines, <ul> items become "- " bullets and <ol> items
// become "n." steps.
func HTMLText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}
	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	var content *goquery.Selection
	for _, sel := range containerSelectors {
		if s := doc.Find(sel); s.Length() > 0 {
			content = s.First()
			break
		}
	}
	if content == nil {
		return "", fmt.Errorf("no content container found in HTML")
	}

	var w lineWriter
	w.walk(content)
	return strings.TrimSpace(w.b.String()), nil
}

type lineWriter struct {
	b strings.Builder
}

func (w *lineWriter) text(s string) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return
	}
	if w.b.Len() > 0 && !strings.HasSuffix(w.b.String(), "\n") {
		w.b.WriteByte(' ')
	}
	w.b.WriteString(s)
}

func (w *lineWriter) newline() {
	if w.b.Len() > 0 && !strings.HasSuffix(w.b.String(), "\n") {
		w.b.WriteByte('\n')
	}
}

func (w *lineWriter) walk(s *goquery.Selection) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		switch name := goquery.NodeName(c); {
		case name == "#text":
			w.text(c.Text())
		case name == "br":
			w.newline()
		case name == "li":
			w.newline()
			if goquery.NodeName(c.Parent()) == "ol" {
				w.b.WriteString(strconv.Itoa(c.PrevAllFiltered("li").Length()+1) + ".")
			} else {
				w.b.WriteString("-")
			}
			w.walk(c)
			w.newline()
		case blockElements[name]:
			w.newline()
			w.walk(c)
			w.newline()
		default:
			w.walk(c)
		}
	})
}
