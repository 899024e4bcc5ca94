package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/recipe-extractor/internal/common"
	"github.com/joseph-ayodele/recipe-extractor/internal/extract"
	"github.com/joseph-ayodele/recipe-extractor/internal/pipeline"
)

var (
	extractText   string
	extractReport bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [file | -]",
	Short: "Extract one recipe and print the outcome as JSON",
	Example: `  recipe-extract extract card.jpg
  recipe-extract extract --text "Title: Pancakes
Ingredients:
- 1 cup flour
Instructions:
1. Mix."
  cat recipe.txt | recipe-extract extract -`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		proc := newProcessor(cfg, logger, nil)
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		fromText := func(text string) error {
			if extractReport {
				return enc.Encode(pipeline.New(logger, nil).Run(extract.FromText(text)))
			}
			return enc.Encode(proc.ProcessText(text))
		}

		switch {
		case cmd.Flags().Changed("text"):
			if len(args) > 0 {
				return common.NewAppError(common.CodeInput, "use either --text or a file argument", common.ErrInvalidInput)
			}
			return fromText(extractText)
		case len(args) == 1 && args[0] == "-":
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			return fromText(string(b))
		case len(args) == 1:
			out, err := proc.ProcessFile(cmd.Context(), args[0])
			if encErr := enc.Encode(out); encErr != nil {
				return errors.Join(err, encErr)
			}
			return err
		default:
			if fi, err := os.Stdin.Stat(); err == nil && fi.Mode()&os.ModeCharDevice == 0 {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				return fromText(string(b))
			}
			return common.NewAppError(common.CodeInput, "nothing to extract: pass a file, --text or -", common.ErrInvalidInput)
		}
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractText, "text", "", "raw recipe text to extract")
	extractCmd.Flags().BoolVar(&extractReport, "report", false, "for text input, print every intermediate stage instead of the outcome")
}
