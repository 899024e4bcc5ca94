package extract

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/recipe-extractor/constants"
	"github.com/joseph-ayodele/recipe-extractor/internal/common"
	"github.com/joseph-ayodele/recipe-extractor/internal/diag"
	"github.com/joseph-ayodele/recipe-extractor/internal/entity"
	"github.com/joseph-ayodele/recipe-extractor/internal/ocr"
)

const recipePage = `<html><head><title>Best Pancakes</title><script>var x = 1;</script></head>
<body>
<nav><a href="/">Home</a></nav>
<p>Life story nobody reads.</p>
<article>
  <h1>Fluffy Pancakes</h1>
  <h2>Ingredients:</h2>
  <ul>
    <li>1 cup flour</li>
    <li>2 <b>eggs</b></li>
  </ul>
  <h2>Instructions:</h2>
  <ol>
    <li>Whisk
      everything.</li>
    <li>Fry.<br>Flip once.</li>
  </ol>
</article>
<footer>Copyright</footer>
</body></html>`

func TestHTMLText(t *testing.T) {
	got, err := HTMLText(strings.NewReader(recipePage))
	require.NoError(t, err)
	assert.Equal(t,
		"Fluffy Pancakes\nIngredients:\n- 1 cup flour\n- 2 eggs\nInstructions:\n1. Whisk everything.\n2. Fry.\nFlip once.",
		got)
}

func TestHTMLText_PrefersRecipeMicrodata(t *testing.T) {
	page := `<body><article><p>Other post</p></article>
<div itemscope itemtype="https://schema.org/Recipe"><h2>Soup</h2><ul><li>water</li></ul></div></body>`
	got, err := HTMLText(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, "Soup\n- water", got)
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestFileAcquirer_TextAndHTML(t *testing.T) {
	metrics := diag.NewMetrics(nil)
	a := NewFileAcquirer(nil, nil, WithRecorder(diag.NewRecorder(nil, metrics)))

	acq, err := a.Acquire(context.Background(), writeFile(t, "card.TXT", "Ingredients:\n- 1 egg"))
	require.NoError(t, err)
	assert.Equal(t, entity.RawSource{Text: "Ingredients:\n- 1 egg", Kind: entity.SourceTyped}, acq.Source)
	assert.Equal(t, constants.MethodTypedText, acq.Method)
	assert.Equal(t, float32(1), acq.Confidence)

	acq, err = a.Acquire(context.Background(), writeFile(t, "page.html", recipePage))
	require.NoError(t, err)
	assert.Equal(t, constants.MethodHTMLText, acq.Method)
	assert.True(t, strings.HasPrefix(acq.Source.Text, "Fluffy Pancakes"))
	assert.NotContains(t, acq.Source.Text, "Copyright")
}

func TestFileAcquirer_TruncatesLargeText(t *testing.T) {
	a := NewFileAcquirer(nil, nil, WithMaxTextBytes(4))
	acq, err := a.Acquire(context.Background(), writeFile(t, "big.md", "abcdefgh"))
	require.NoError(t, err)
	assert.Equal(t, "abcd", acq.Source.Text)
	assert.Len(t, acq.Warnings, 1)
}

func TestFileAcquirer_Unsupported(t *testing.T) {
	a := NewFileAcquirer(nil, nil)

	_, err := a.Acquire(context.Background(), "recipe.docx")
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
	assert.Equal(t, common.CodeUnsupported, common.ErrorCode(err))

	_, err = a.Acquire(context.Background(), "card.png")
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat, "no OCR backend")
}

func TestFileAcquirer_MissingFile(t *testing.T) {
	a := NewFileAcquirer(nil, nil)
	_, err := a.Acquire(context.Background(), filepath.Join(t.TempDir(), "gone.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, common.CodeInput, common.ErrorCode(err))
}

type stubRunner struct {
	out map[string]string
}

func (s stubRunner) Run(_ context.Context, name string, _ *slog.Logger, _ ...string) ([]byte, []byte, error) {
	out, ok := s.out[name]
	if !ok {
		return nil, nil, errors.New("missing " + name)
	}
	return []byte(out), nil, nil
}

func TestFileAcquirer_DelegatesToOCR(t *testing.T) {
	runner := stubRunner{out: map[string]string{"tesseract": "Ingredients:\n- 1 cup milk"}}
	metrics := diag.NewMetrics(nil)
	a := NewFileAcquirer(
		NewOCRAdapter(ocr.NewExtractor(ocr.Config{}, nil, ocr.WithRunner(runner)), nil),
		nil,
		WithRecorder(diag.NewRecorder(nil, metrics)),
	)

	acq, err := a.Acquire(context.Background(), "card.png")
	require.NoError(t, err)
	assert.Equal(t, entity.SourceOCR, acq.Source.Kind)
	assert.Equal(t, "card.png", acq.Path)
	assert.Equal(t, "Ingredients:\n- 1 cup milk", acq.Source.Text)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Acquisitions().WithLabelValues(constants.MethodImageOCR, "ok")))
}

func TestFileAcquirer_OCRFailureIsAcquireError(t *testing.T) {
	a := NewFileAcquirer(NewOCRAdapter(ocr.NewExtractor(ocr.Config{}, nil, ocr.WithRunner(stubRunner{})), nil), nil)

	_, err := a.Acquire(context.Background(), "card.jpg")
	assert.ErrorIs(t, err, common.ErrAcquire)
	assert.Equal(t, common.CodeAcquire, common.ErrorCode(err))
}

func TestSourceKindFor(t *testing.T) {
	assert.Equal(t, entity.SourcePDFText, SourceKindFor(constants.MethodPDFText))
	assert.Equal(t, entity.SourcePDFOCRFallback, SourceKindFor(constants.MethodPDFOCRFallback))
	assert.Equal(t, entity.SourceOCR, SourceKindFor(constants.MethodImageOCR))
	assert.Equal(t, entity.SourceTyped, SourceKindFor(constants.MethodHTMLText))
}

func TestSourceFor(t *testing.T) {
	assert.Equal(t, entity.SourceOCR, SourceFor("x", entity.SourceOCR).Kind)
	assert.Equal(t, entity.SourceTyped, SourceFor("x", "bogus").Kind)
}
