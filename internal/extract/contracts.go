package extract

import (
	"context"
	"time"

	"github.com/joseph-ayodele/recipe-extractor/internal/entity"
)

// Acquirer is stage 0: file -> raw recipe text.
type Acquirer interface {
	Acquire(ctx context.Context, path string) (Acquisition, error)
}

// Acquisition is a RawSource plus what the acquirer learned producing it.
type Acquisition struct {
	Source     entity.RawSource `json:"source"`
	Path       string           `json:"path,omitempty"`
	Method     string           `json:"method"` // constants.Method*
	Language   string           `json:"language,omitempty"`
	Pages      int              `json:"pages"`
	Confidence float32          `json:"confidence"` // 0..1; 1 for typed and text-layer sources
	Warnings   []string         `json:"warnings,omitempty"`
	Duration   time.Duration    `json:"duration_ns"`
}

// FromText wraps text typed or pasted by a user.
func FromText(text string) entity.RawSource {
	return entity.RawSource{Text: text, Kind: entity.SourceTyped}
}
