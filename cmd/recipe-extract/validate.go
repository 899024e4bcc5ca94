package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/recipe-extractor/internal/common"
	"github.com/joseph-ayodele/recipe-extractor/internal/validate"
)

var validateLenient bool

var validateCmd = &cobra.Command{
	Use:   "validate <draft.json | ->",
	Short: "Validate an edited recipe draft and print the result as JSON",
	Long: `validate checks a recipe draft against the draft JSON schema and reports
which of title, ingredients and instructions are missing. With --lenient,
synonym keys such as "directions" are renamed and unknown keys dropped first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return common.NewAppError(common.CodeInput, "read draft", err)
		}

		if validateLenient {
			data, _, err = validate.SanitizeDraftJSON(data, logger)
			if err != nil {
				return common.NewAppError(common.CodeInput, "sanitize draft", err)
			}
		}
		res, err := validate.ValidateJSON(data)
		if err != nil {
			return common.NewAppError(common.CodeInput, "invalid draft", fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(res)
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateLenient, "lenient", false, "rename synonym keys and drop unknown ones before validating")
}
