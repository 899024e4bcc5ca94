package entity

// Field names reported in FieldFailure.
const (
	FieldTitle        = "title"
	FieldIngredients  = "ingredients"
	FieldInstructions = "instructions"
)

// FieldFailure explains why one required field is unusable.
type FieldFailure struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationResult is the outcome of validating a Candidate.
// Record is always set so an invalid result can pre-fill an editable draft.
type ValidationResult struct {
	Valid    bool           `json:"valid"`
	Record   *Candidate     `json:"record,omitempty"`
	Failures []FieldFailure `json:"failures"`
}

// FailedFields lists the fields named in Failures, in order.
func (r ValidationResult) FailedFields() []string {
	out := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		out = append(out, f.Field)
	}
	return out
}
