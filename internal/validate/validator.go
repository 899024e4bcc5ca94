// Package validate diagnoses whether a parsed recipe is complete enough to
// use. It never repairs or fills in missing content.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/joseph-ayodele/recipe-extractor/internal/entity"
)

// recipeRules is the view of a Candidate the rules are declared on.
// Field order is the order failures are reported in.
type recipeRules struct {
	Title        string   `json:"title" validate:"notblank"`
	Ingredients  []string `json:"ingredients" validate:"min=1"`
	Instructions []string `json:"instructions" validate:"min=1"`
}

var reasons = map[string]string{
	entity.FieldTitle:        "title is missing or blank",
	entity.FieldIngredients:  `no ingredients found; list each one on its own line starting with "-"`,
	entity.FieldInstructions: `no instructions found; number each step like "1."`,
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// mustRegister panics when a custom tag cannot be registered; the rules are
// fixed at build time, so a failure is a programming error.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validate: register %q: %v", tag, err))
	}
}

var std = New()

// Validate checks c with the package default Validator.
func Validate(c entity.Candidate) entity.ValidationResult {
	return std.Validate(c)
}

// Validate collects every failing rule in one pass. The returned Record is a
// copy of c so callers can edit it as a draft.
func (v *Validator) Validate(c entity.Candidate) entity.ValidationResult {
	record := c.Clone()
	res := entity.ValidationResult{
		Record:   &record,
		Failures: []entity.FieldFailure{},
	}

	err := v.validate.Struct(recipeRules{
		Title:        c.Title,
		Ingredients:  c.Ingredients,
		Instructions: c.Instructions,
	})

	var verrs validator.ValidationErrors
	switch {
	case err == nil:
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			res.Failures = append(res.Failures, failure(fe.Field()))
		}
	default:
		res.Failures = checkDirect(c)
	}

	res.Valid = len(res.Failures) == 0
	return res
}

// checkDirect applies the same rules without reflection. Used only if the
// struct validator itself errors out.
func checkDirect(c entity.Candidate) []entity.FieldFailure {
	out := []entity.FieldFailure{}
	if strings.TrimSpace(c.Title) == "" {
		out = append(out, failure(entity.FieldTitle))
	}
	if len(c.Ingredients) == 0 {
		out = append(out, failure(entity.FieldIngredients))
	}
	if len(c.Instructions) == 0 {
		out = append(out, failure(entity.FieldInstructions))
	}
	return out
}

func failure(field string) entity.FieldFailure {
	return entity.FieldFailure{Field: field, Reason: reasons[field]}
}
