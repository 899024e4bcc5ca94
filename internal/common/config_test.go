package common

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "eng", cfg.OCR.TesseractLang)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, 50, cfg.OCR.MinTextDensity)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, 3*time.Minute, cfg.Pipeline.Timeout)
	assert.InDelta(t, 0.6, cfg.Pipeline.ReviewThreshold, 1e-9)
	assert.True(t, cfg.Pipeline.SkipHidden)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  format: json
ocr:
  dpi: 200
pipeline:
  workers: 2
  timeout: 30s
`), 0o644))

	t.Setenv("RECIPE_PIPELINE_WORKERS", "8")
	t.Setenv("TESSDATA_PREFIX", "/opt/tessdata")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 200, cfg.OCR.DPI)
	assert.Equal(t, 8, cfg.Pipeline.Workers, "env overrides file")
	assert.Equal(t, 30*time.Second, cfg.Pipeline.Timeout)
	assert.Equal(t, "/opt/tessdata", cfg.OCR.TessdataDir)
}

func TestLoadConfig_Invalid(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("RECIPE_LOG_FORMAT", "xml")
	t.Setenv("RECIPE_OCR_DPI", "10")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Equal(t, CodeConfig, ErrorCode(err))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "Format")
	assert.Contains(t, err.Error(), "DPI")
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, CodeConfig, ErrorCode(err))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LogConfig{Level: "warn", Format: "json"}, &buf)
	l.Info("hidden")
	l.Warn("shown", "k", 1)
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)

	buf.Reset()
	l = NewLogger(LogConfig{Level: "bogus", Format: "text"}, &buf)
	l.Debug("no")
	l.Info("yes")
	assert.NotContains(t, buf.String(), "msg=no")
	assert.Contains(t, buf.String(), "msg=yes")
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
