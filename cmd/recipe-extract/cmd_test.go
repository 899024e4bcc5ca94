package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/recipe-extractor/constants"
	"github.com/joseph-ayodele/recipe-extractor/internal/async"
	"github.com/joseph-ayodele/recipe-extractor/internal/common"
	"github.com/joseph-ayodele/recipe-extractor/internal/ingest"
	"github.com/joseph-ayodele/recipe-extractor/internal/pipeline"
)

const pancakes = "Title: Pancakes\nIngredients:\n- 1 cup flour\n- 1 egg\nInstructions:\n1. Mix.\n2. Fry.\n"

func testSetup(t *testing.T) {
	t.Helper()
	chdir(t, t.TempDir())
	c, err := common.LoadConfig("")
	require.NoError(t, err)
	cfg = c
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProcessAll_TextFiles(t *testing.T) {
	testSetup(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte(pancakes), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "copy.txt"), []byte(pancakes), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("just a photo of a cat"), 0o644))

	ctx := context.Background()
	files, _, err := ingest.NewFSIngestor(logger).IngestDirectory(ctx, dir, true)
	require.NoError(t, err)

	outcomes := processAll(ctx, newProcessor(cfg, logger, nil), files, 2)
	require.Len(t, outcomes, 2, "duplicate content is processed once")

	byStatus := map[constants.OutcomeStatus]int{}
	for _, o := range outcomes {
		byStatus[o.Status]++
		assert.NotEmpty(t, o.ID)
	}
	assert.Equal(t, 1, byStatus[constants.StatusValid])
	assert.Equal(t, 1, byStatus[constants.StatusInvalid])
}

func TestExtractCmd_Text(t *testing.T) {
	testSetup(t)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"extract", "--text", pancakes})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		extractText = ""
		extractCmd.Flags().Lookup("text").Changed = false
	})

	require.NoError(t, rootCmd.Execute())

	var got pipeline.Outcome
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, constants.StatusValid, got.Status)
	assert.Equal(t, "Pancakes", got.Result.Record.Title)
	assert.Equal(t, []string{"1 cup flour", "1 egg"}, got.Result.Record.Ingredients)
}

func TestOutcomeWriter(t *testing.T) {
	testSetup(t)
	outDir := t.TempDir()
	proc := newProcessor(cfg, logger, nil)

	sink := outcomeWriter(outDir)
	sink(async.Job{Path: "/in/pancakes.txt"}, proc.ProcessText(pancakes), nil)

	b, err := os.ReadFile(filepath.Join(outDir, "pancakes.recipe.json"))
	require.NoError(t, err)
	var got pipeline.Outcome
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, constants.StatusValid, got.Status)
}

func TestValidateCmd_Lenient(t *testing.T) {
	testSetup(t)
	path := filepath.Join(t.TempDir(), "draft.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"Tea","ingredients":["water"],"directions":"Boil.\nSteep."}`), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"validate", "--lenient", path})
	t.Cleanup(func() { rootCmd.SetArgs(nil); validateLenient = false })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), `"valid": true`)

	rootCmd.SetArgs([]string{"validate", "--lenient=false", path})
	assert.Error(t, rootCmd.Execute(), "strict mode rejects unknown keys")
}

func TestExtractCmd_Report(t *testing.T) {
	testSetup(t)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(bytes.NewBufferString("Blog intro about my grandmother.\n\n" + pancakes))
	rootCmd.SetArgs([]string{"extract", "--report", "-"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetIn(nil); extractReport = false })

	require.NoError(t, rootCmd.Execute())

	var rep pipeline.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	assert.Contains(t, rep.Normalized, "grandmother")
	assert.NotContains(t, rep.Bounded, "grandmother")
	assert.True(t, rep.Result.Valid)
}

// chdir changes the working directory to dir for the duration of the test
// and restores the previous one on cleanup (testing.T.Chdir needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
