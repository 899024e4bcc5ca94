package normalize

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/recipe-extractor/internal/diag"
)

const typedRecipe = "Ingredients:\n- 1 cup flour\n- l/2 cup water\nInstructions:\n1. Mix.\n2. Bake."

const ocrCard = "lngredients:\n• 2cupsflour\n• l/2 tsp salt\n• 1½ c. milk\nD1rections:\n" +
	"Step 1: Preheat oven to 350 degrees F.\nStep 2: MiX the fLour and salt. 3. Bake 20 minutes."

const blogPost = "My grandmother's kitchen was always warm. Here is her best recipe, which I have adapted many times.\n\n" +
	"Title: Chocolate Cake\nDescription: A rich, moist cake.\n\n" +
	"Ingredients:\n- 2 cups flour\n- 1 cup sugar\n\n" +
	"Instructions:\n1. Mix everything.\n2. Bake at 350F. for 30 minutes.\n\n" +
	"Nutritional Information\nCalories: 450 per slice"

const glyphBulletCard = "Ingredients:\n• ½ cup sugar\n• ¾ cup milk\nInstructions:\n1. Mix."

const digitOStep = "Instructions:\nMix well.\n1O. Bake."

func TestNormalize_Empty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
}

func TestNormalize_TypedRecipe(t *testing.T) {
	want := "Ingredients:\n- 1 cup flour\n- 1/2 cup water\n\nInstructions:\n\n1. Mix.\n\n2. Bake."
	assert.Equal(t, want, Normalize(typedRecipe))
}

func TestNormalize_OCRCard(t *testing.T) {
	want := "Ingredients:\n- 2 cups flour\n- 1/2 tsp salt\n- 1 1/2 cup milk\n\n" +
		"Directions:\n\n1. Preheat oven to 350°F.\n\n2. Mix the flour and salt.\n\n3. Bake 20 minutes."
	assert.Equal(t, want, Normalize(ocrCard))
}

func TestNormalize_Invariants(t *testing.T) {
	out := Normalize("Title:   Pancakes  \r\n\r\n\r\n\r\nIngredients:\r\n- 1 cup flour\r\n")
	assert.NotContains(t, out, "\r")
	assert.NotContains(t, out, "\n\n\n")
	assert.Equal(t, "Title: Pancakes\n\nIngredients:\n- 1 cup flour", out)
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		typedRecipe,
		ocrCard,
		blogPost,
		"Plain prose with no structure at all.",
		"Title:   Pancakes  \r\n\r\n\r\n\r\nIngredients:\r\n- 1 cup flour\r\nInstructions:\r\n1. Mix.\r\n",
		"Ingredients:\n- ½ cup sugar\n- 1¾ cups milk\n- 3 T. butter\nMethod\nStep 1\nWhisk everything.\nStep 2\nBake at 180 degrees C.",
		glyphBulletCard,
		digitOStep,
		"2cupsugar, 1 cupful of milk\nMakes 12 cupcakes",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_GlyphBulletsInOnePass(t *testing.T) {
	assert.Equal(t, "Ingredients:\n- 1/2 cup sugar\n- 3/4 cup milk\n\nInstructions:\n\n1. Mix.", Normalize(glyphBulletCard))
}

func TestNormalize_DigitOStepInOnePass(t *testing.T) {
	assert.Equal(t, "Instructions:\nMix well.\n\n10. Bake.", Normalize(digitOStep))
}

func FuzzNormalizeIdempotent(f *testing.F) {
	for _, seed := range []string{
		typedRecipe,
		ocrCard,
		blogPost,
		glyphBulletCard,
		digitOStep,
		"lngredients:\n• l/2 tsp salt\n• 1O oz butter\nStep 1 Melt butter. Step 2 Add salt.",
		"Ingredients:\n▪ 1,5 kg flour\n▪ 2cupsugar\n● ⅓ cup oil\nMethod\nStep 1\nStir.\n2) Bake.",
		"Makes 12 cupcakes.\n1 cupful of milk",
	} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, in string) {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("not idempotent for %q:\nonce:  %q\ntwice: %q", in, once, twice)
		}
	})
}

func TestNormalize_VulgarFractionRoundTrip(t *testing.T) {
	glyphs := map[string]string{
		"½": "1/2", "⅓": "1/3", "⅔": "2/3", "¼": "1/4", "¾": "3/4",
		"⅕": "1/5", "⅖": "2/5", "⅗": "3/5", "⅘": "4/5", "⅙": "1/6",
		"⅚": "5/6", "⅛": "1/8", "⅜": "3/8", "⅝": "5/8", "⅞": "7/8",
	}
	for g, ascii := range glyphs {
		out := Normalize("1 " + g + " cups")
		assert.Contains(t, out, ascii, "glyph %s", g)
		assert.NotContains(t, out, g, "glyph %s", g)
	}
}

func TestNormalize_GlyphsInIngredientList(t *testing.T) {
	out := Normalize("Ingredients:\n- ½ cup sugar\n- 1¾ cups milk")
	assert.Equal(t, "Ingredients:\n- 1/2 cup sugar\n- 1 3/4 cups milk", out)
}

func TestNormalize_PathologicalInputCompletes(t *testing.T) {
	inputs := []string{
		strings.Repeat("((((.!?", 20000),
		strings.Repeat("1. ", 50000),
		strings.Repeat("Mix. 1. A", 20000),
		strings.Repeat("l/2 ½,", 10000),
		strings.Repeat("-*-*", 50000) + "\n" + strings.Repeat("\n\n\n", 10000),
	}
	for _, in := range inputs {
		start := time.Now()
		assert.NotPanics(t, func() { _ = Normalize(in) })
		assert.Less(t, time.Since(start), 10*time.Second)
	}
}

func TestNormalizer_PanickingPassFallsBackToMinimal(t *testing.T) {
	metrics := diag.NewMetrics(nil)
	rec := diag.NewRecorder(nil, metrics)
	passes := append(DefaultPasses()[:2], Pass{Name: "boom", Apply: func(string) string { panic("boom") }})
	n := New(nil, WithPasses(passes), WithRecorder(rec))

	raw := "  Ingredients:\r\n\r\n\r\n\r\n- l/2 cup water  "
	var out string
	require.NotPanics(t, func() { out = n.Normalize(raw) })

	assert.Equal(t, "Ingredients:\n\n- l/2 cup water", out)
	assert.Equal(t, Minimal(raw), out)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Degradations().WithLabelValues("normalize", "pass-panic")))
}

func TestDefaultPasses_Order(t *testing.T) {
	var names []string
	for _, p := range DefaultPasses() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{
		"line-endings", "whitespace", "ingredient-structure", "numbered-steps", "fractions",
		"measurements", "section-headers", "cooking-terms", "temperatures", "tidy",
	}, names)
}
