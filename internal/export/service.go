package export

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/recipe-extractor/internal/pipeline"
)

const (
	SheetRecipes  = "Recipes"
	SheetFailures = "Failures"

	// excel refuses cells longer than this
	maxCellRunes = 32767
)

var recipeHeaders = []string{
	"Source File",
	"Status",
	"Needs Review",
	"Method",
	"Confidence",
	"Title",
	"Description",
	"Ingredients",
	"Instructions",
	"Ingredient Count",
	"Step Count",
	"Duration (ms)",
	"Extraction ID",
}

var failureHeaders = []string{"Source File", "Field", "Reason"}

// Service produces XLSX reports of batch extraction outcomes.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// WorkbookXLSX returns an XLSX workbook (as bytes) with one row per outcome on
// the Recipes sheet and one row per field failure or acquisition error on
// the Failures sheet.
func (s *Service) WorkbookXLSX(ctx context.Context, outcomes []pipeline.Outcome) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("xlsx close failed", "error", err)
		}
	}()
	if err := f.SetSheetName(f.GetSheetName(0), SheetRecipes); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetFailures); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}
	if err := writeRow(f, SheetRecipes, 1, toAny(recipeHeaders)); err != nil {
		return nil, err
	}
	if err := writeRow(f, SheetFailures, 1, toAny(failureHeaders)); err != nil {
		return nil, err
	}

	failRow := 2
	for i, o := range outcomes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec := o.Result.Record
		var title, desc, ingredients, steps string
		var nIngr, nSteps int
		if rec != nil {
			title, desc = rec.Title, rec.Description
			ingredients = strings.Join(rec.Ingredients, "\n")
			steps = numbered(rec.Instructions)
			nIngr, nSteps = len(rec.Ingredients), len(rec.Instructions)
		}
		row := []any{
			o.Path,
			string(o.Status),
			o.NeedsReview,
			o.Acquisition.Method,
			o.Acquisition.Confidence,
			truncate(title, 200),
			truncate(desc, 500),
			truncate(ingredients, maxCellRunes),
			truncate(steps, maxCellRunes),
			nIngr,
			nSteps,
			o.Duration.Milliseconds(),
			o.ID.String(),
		}
		if err := writeRow(f, SheetRecipes, i+2, row); err != nil {
			return nil, err
		}

		if o.Error != "" {
			if err := writeRow(f, SheetFailures, failRow, []any{o.Path, "source", truncate(o.Error, 1000)}); err != nil {
				return nil, err
			}
			failRow++
		}
		for _, ff := range o.Result.Failures {
			if err := writeRow(f, SheetFailures, failRow, []any{o.Path, ff.Field, ff.Reason}); err != nil {
				return nil, err
			}
			failRow++
		}
	}

	_ = f.SetColWidth(SheetRecipes, "A", "A", 48) // path
	_ = f.SetColWidth(SheetRecipes, "B", "E", 14)
	_ = f.SetColWidth(SheetRecipes, "F", "G", 32)
	_ = f.SetColWidth(SheetRecipes, "H", "I", 60)
	_ = f.SetColWidth(SheetFailures, "A", "A", 48)
	_ = f.SetColWidth(SheetFailures, "C", "C", 72)
	_ = f.SetPanes(SheetRecipes, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(outcomes),
		"failures", failRow-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func numbered(steps []string) string {
	var b strings.Builder
	for i, s := range steps {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(s)
	}
	return b.String()
}

func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
