package content

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/recipe-extractor/internal/diag"
)

func TestExtractContent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "starts at ingredients marker",
			in:   "I love this cake. It reminds me of summer.\n\nIngredients:\n- 1 cup flour\n\nInstructions:\n\n1. Mix.",
			want: "Ingredients:\n- 1 cup flour\n\nInstructions:\n\n1. Mix.",
		},
		{
			name: "keeps labelled header and title above the marker",
			in:   "Long story here.\n\nBanana Bread\nServes: 4\n\nIngredients:\n- 3 bananas",
			want: "Banana Bread\nServes: 4\n\nIngredients:\n- 3 bananas",
		},
		{
			name: "earliest marker wins regardless of pattern order",
			in:   "Story.\nTotal Time: 1 hour\nIngredients:\n- 1 egg",
			want: "Total Time: 1 hour\nIngredients:\n- 1 egg",
		},
		{
			name: "yield servings marker",
			in:   "Chatter.\nYield: 4 servings\n\nIngredients:\n- 1 egg",
			want: "Yield: 4 servings\n\nIngredients:\n- 1 egg",
		},
		{
			name: "no start marker falls back to first non-blank line",
			in:   "\n\nPancakes\nMix and fry.",
			want: "Pancakes\nMix and fry.",
		},
		{
			name: "earliest end marker after start truncates",
			in:   "Ingredients:\n- 1 egg\n\nInstructions:\n\n1. Fry.\n\nEnjoy!\n\nNutrition Facts\nCalories: 90",
			want: "Ingredients:\n- 1 egg\n\nInstructions:\n\n1. Fry.",
		},
		{
			name: "end marker before start is ignored",
			in:   "Recipe by Sam.\n\nIngredients:\n- 1 egg\n\nInstructions:\n\n1. Fry.",
			want: "Ingredients:\n- 1 egg\n\nInstructions:\n\n1. Fry.",
		},
		{
			name: "source trailer",
			in:   "Ingredients:\n- 1 egg\nSource: example.org",
			want: "Ingredients:\n- 1 egg",
		},
		{
			name: "case insensitive markers",
			in:   "intro text.\nINGREDIENTS:\n- 1 egg\nNUTRITIONAL INFORMATION\n90 kcal",
			want: "INGREDIENTS:\n- 1 egg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractContent(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, strings.Contains(tt.in, got), "result must be a substring of the input")
		})
	}
}

func TestExtractContent_ExcludesTrailerAndPreamble(t *testing.T) {
	in := "My grandmother's kitchen was always warm. Here is her best recipe.\n\n" +
		"Title: Chocolate Cake\n\nDescription: A rich, moist cake.\n\n" +
		"Ingredients:\n- 2 cups flour\n\nInstructions:\n\n1. Mix everything.\n\n" +
		"Nutritional Information\nCalories: 450 per slice"

	got := ExtractContent(in)

	assert.True(t, strings.HasPrefix(got, "Title: Chocolate Cake"))
	assert.True(t, strings.HasSuffix(got, "1. Mix everything."))
	assert.NotContains(t, got, "Calories")
	assert.NotContains(t, got, "grandmother")
}

func TestLocate(t *testing.T) {
	_, ok := Locate("  \n ")
	assert.False(t, ok)

	sp, ok := Locate("Pancakes\nFry them.")
	assert.True(t, ok)
	assert.False(t, sp.Marker)
	assert.False(t, sp.Truncated)
	assert.Equal(t, Span{Start: 0, End: len("Pancakes\nFry them.")}, sp)

	in := "Ingredients:\n- 1 egg\nEnjoy!"
	sp, ok = Locate(in)
	assert.True(t, ok)
	assert.True(t, sp.Marker)
	assert.True(t, sp.Truncated)
	assert.Equal(t, strings.Index(in, "Enjoy!"), sp.End)
}

func TestExtractor_RecordsMissingStartMarker(t *testing.T) {
	metrics := diag.NewMetrics(nil)
	e := New(nil, diag.NewRecorder(nil, metrics))

	assert.Equal(t, "Just some prose.", e.Extract("Just some prose."))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Degradations().WithLabelValues("content", "no-start-marker")))

	e.Extract("Ingredients:\n- 1 egg")
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Degradations().WithLabelValues("content", "no-start-marker")))
}
