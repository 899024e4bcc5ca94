package validate

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/recipe-extractor/internal/entity"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		in     entity.Candidate
		valid  bool
		failed []string
	}{
		{
			name: "complete",
			in: entity.Candidate{
				Title:        "Pancakes",
				Ingredients:  []string{"1 cup flour"},
				Instructions: []string{"Mix."},
			},
			valid:  true,
			failed: []string{},
		},
		{
			name: "missing title and ingredients",
			in: entity.Candidate{
				Instructions: []string{"Mix."},
			},
			failed: []string{entity.FieldTitle, entity.FieldIngredients},
		},
		{
			name: "blank title",
			in: entity.Candidate{
				Title:        " \t ",
				Ingredients:  []string{"1 egg"},
				Instructions: []string{"Fry."},
			},
			failed: []string{entity.FieldTitle},
		},
		{
			name:   "empty candidate",
			in:     entity.Candidate{},
			failed: []string{entity.FieldTitle, entity.FieldIngredients, entity.FieldInstructions},
		},
		{
			name: "empty but non-nil lists",
			in: entity.Candidate{
				Title:        "Toast",
				Ingredients:  []string{},
				Instructions: []string{},
			},
			failed: []string{entity.FieldIngredients, entity.FieldInstructions},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.in)
			assert.Equal(t, tt.valid, got.Valid)
			assert.Equal(t, tt.failed, got.FailedFields())
			for _, f := range got.Failures {
				assert.NotEmpty(t, f.Reason, f.Field)
			}
			require.NotNil(t, got.Record)
			assert.Equal(t, tt.in.Title, got.Record.Title)
		})
	}
}

func TestValidate_ExactlyTwoFailures(t *testing.T) {
	got := Validate(entity.Candidate{Instructions: []string{"Stir."}})
	require.Len(t, got.Failures, 2)
	assert.Equal(t, entity.FieldTitle, got.Failures[0].Field)
	assert.Equal(t, entity.FieldIngredients, got.Failures[1].Field)
}

func TestValidate_RecordIsACopy(t *testing.T) {
	in := entity.Candidate{Title: "Soup", Ingredients: []string{"water"}, Instructions: []string{"Boil."}}
	got := Validate(in)
	got.Record.Ingredients[0] = "stock"
	assert.Equal(t, "water", in.Ingredients[0])
}

func TestValidate_DoesNotRepair(t *testing.T) {
	got := Validate(entity.Candidate{Title: "Soup"})
	assert.Empty(t, got.Record.Ingredients)
	assert.Empty(t, got.Record.Instructions)
}

func TestValidateJSON(t *testing.T) {
	res, err := ValidateJSON([]byte(`{"title":"Soup","ingredients":["water"],"instructions":["Boil."],"notes":["Salt to taste."]}`))
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, []string{"Salt to taste."}, res.Record.Notes)

	res, err = ValidateJSON([]byte(`{"title":"","ingredients":[]}`))
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, []string{entity.FieldTitle, entity.FieldIngredients, entity.FieldInstructions}, res.FailedFields())
}

func TestValidateJSON_ShapeErrors(t *testing.T) {
	for _, in := range []string{
		`not json`,
		`[]`,
		`{"title": 3}`,
		`{"ingredients": "flour"}`,
		`{"instructions": [1, 2]}`,
		`{"title": "Soup", "servings": 4}`,
	} {
		_, err := ValidateJSON([]byte(in))
		assert.Error(t, err, in)
	}
}

func TestMustRegister(t *testing.T) {
	assert.Panics(t, func() { mustRegister(validator.New(), "", validators.NotBlank) })

	v := validator.New()
	assert.NotPanics(t, func() { mustRegister(v, "notblank", validators.NotBlank) })
	assert.Error(t, v.Var("   ", "notblank"))
	assert.NoError(t, v.Var("Soup", "notblank"))
}
