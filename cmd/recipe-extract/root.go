package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/recipe-extractor/internal/common"
)

var (
	cfgFile string
	cfg     *common.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "recipe-extract",
	Short: "Extract structured recipes from text, HTML, PDFs and photos",
	Long: `recipe-extract turns raw recipe sources into a title, an ingredient list
and ordered instructions. Typed text and HTML are read directly; PDFs and
images go through pdftotext, pdftoppm and tesseract.

Configuration comes from an optional YAML file and RECIPE_* environment
variables, e.g. RECIPE_OCR_TESSERACT_LANG=deu.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := common.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		cfg = c
		logger = common.NewLogger(cfg.Log, os.Stderr)
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./recipe-extract.yaml)")
	rootCmd.AddCommand(extractCmd, validateCmd, batchCmd, watchCmd)
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
