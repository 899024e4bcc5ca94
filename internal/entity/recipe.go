package entity

// Candidate is a structured recipe produced by the parser and not yet validated.
// Ingredients and Instructions keep source order; instruction order is execution order.
type Candidate struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Notes        []string `json:"notes,omitempty"`
}

// Clone returns a deep copy so callers can edit a draft without touching the original.
func (c Candidate) Clone() Candidate {
	out := c
	out.Ingredients = append([]string(nil), c.Ingredients...)
	out.Instructions = append([]string(nil), c.Instructions...)
	out.Notes = append([]string(nil), c.Notes...)
	return out
}
