package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/recipe-extractor/constants"
	"github.com/joseph-ayodele/recipe-extractor/internal/entity"
	"github.com/joseph-ayodele/recipe-extractor/internal/extract"
)

const validCard = "Title: Omelette\nIngredients:\n- 2 eggs\nInstructions:\n1. Whisk.\n2. Cook."

type acquirerFunc func(ctx context.Context, path string) (extract.Acquisition, error)

func (f acquirerFunc) Acquire(ctx context.Context, path string) (extract.Acquisition, error) {
	return f(ctx, path)
}

func ocrAcquirer(text string, conf float32) acquirerFunc {
	return func(_ context.Context, path string) (extract.Acquisition, error) {
		return extract.Acquisition{
			Source:     entity.RawSource{Text: text, Kind: entity.SourceOCR},
			Path:       path,
			Method:     constants.MethodImageOCR,
			Pages:      1,
			Confidence: conf,
		}, nil
	}
}

func TestProcessFile(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		conf        float32
		status      constants.OutcomeStatus
		needsReview bool
	}{
		{"confident and valid", validCard, 0.9, constants.StatusValid, false},
		{"low confidence", validCard, 0.3, constants.StatusNeedsReview, true},
		{"invalid", "just a photo of a cat", 0.9, constants.StatusInvalid, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProcessor(nil, Config{}, ocrAcquirer(tt.text, tt.conf), nil)

			out, err := p.ProcessFile(context.Background(), "card.jpg")
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, out.ID)
			assert.Equal(t, "card.jpg", out.Path)
			assert.Equal(t, tt.status, out.Status)
			assert.Equal(t, tt.needsReview, out.NeedsReview)
			assert.NotNil(t, out.Result.Record)
		})
	}
}

func TestProcessFile_AcquireError(t *testing.T) {
	boom := errors.New("tesseract missing")
	p := NewProcessor(nil, Config{}, acquirerFunc(func(context.Context, string) (extract.Acquisition, error) {
		return extract.Acquisition{}, boom
	}), nil)

	out, err := p.ProcessFile(context.Background(), "card.png")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, constants.StatusFailed, out.Status)
	assert.Equal(t, "tesseract missing", out.Error)
	assert.Equal(t, "card.png", out.Path)
}

func TestProcessFile_Timeout(t *testing.T) {
	p := NewProcessor(nil, Config{Timeout: 20 * time.Millisecond}, acquirerFunc(func(ctx context.Context, _ string) (extract.Acquisition, error) {
		<-ctx.Done()
		return extract.Acquisition{}, ctx.Err()
	}), nil)

	_, err := p.ProcessFile(context.Background(), "slow.pdf")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProcessFile_ReviewThresholdConfigurable(t *testing.T) {
	p := NewProcessor(nil, Config{ReviewThreshold: 0.95}, ocrAcquirer(validCard, 0.9), nil)
	out, err := p.ProcessFile(context.Background(), "card.jpg")
	require.NoError(t, err)
	assert.Equal(t, constants.StatusNeedsReview, out.Status)
}

func TestProcessText(t *testing.T) {
	p := NewProcessor(nil, Config{}, nil, nil)

	out := p.ProcessText(validCard)
	assert.Equal(t, constants.StatusValid, out.Status)
	assert.False(t, out.NeedsReview)
	assert.Equal(t, entity.SourceTyped, out.Acquisition.Source.Kind)
	assert.Equal(t, "Omelette", out.Result.Record.Title)
}
