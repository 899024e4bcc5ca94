package constants

// OutcomeStatus is the summary status of one processed recipe source.
type OutcomeStatus string

// Stable values (exported in reports and JSON output).
const (
	StatusValid       OutcomeStatus = "VALID"        // all required fields recovered
	StatusNeedsReview OutcomeStatus = "NEEDS_REVIEW" // valid, but OCR confidence is low
	StatusInvalid     OutcomeStatus = "INVALID"      // validator reported field failures
	StatusFailed      OutcomeStatus = "FAILED"       // source could not be acquired
)
