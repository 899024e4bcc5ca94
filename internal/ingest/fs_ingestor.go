package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joseph-ayodele/recipe-extractor/constants"
	"github.com/joseph-ayodele/recipe-extractor/internal/common"
)

// FSIngestor reads recipe sources from the local filesystem and remembers
// content hashes so the same card scanned twice is only processed once.
type FSIngestor struct {
	logger      *slog.Logger
	allowedExts map[string]struct{}

	mu   sync.Mutex
	seen map[string]string // hash hex -> first path
}

// NewFSIngestor builds an FSIngestor. exts lists allowed extensions without
// the dot; empty means constants.AllowedExtensions.
func NewFSIngestor(logger *slog.Logger, exts ...string) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	allowed := constants.AllowedExtensions
	if len(exts) > 0 {
		allowed = make(map[string]struct{}, len(exts))
		for _, e := range exts {
			if e = constants.NormalizeExt(strings.TrimSpace(e)); e != "" {
				allowed[e] = struct{}{}
			}
		}
	}
	return &FSIngestor{logger: logger, allowedExts: allowed, seen: map[string]string{}}
}

func (i *FSIngestor) allowed(path string) bool {
	_, ok := i.allowedExts[constants.NormalizeExt(filepath.Ext(path))]
	return ok
}

func (i *FSIngestor) IngestPath(ctx context.Context, path string) (IngestionResult, error) {
	var out IngestionResult
	if err := ctx.Err(); err != nil {
		return out, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return out, err
	}

	ext := constants.NormalizeExt(filepath.Ext(abs))
	if ext == "" || !i.allowed(abs) {
		return out, common.NewAppError(common.CodeUnsupported, fmt.Sprintf("extension %q", ext), common.ErrUnsupportedFormat)
	}

	f, err := os.Open(abs)
	if err != nil {
		return out, err
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			i.logger.Warn("close file error", "path", abs, "error", err)
		}
	}(f)

	st, err := f.Stat()
	if err != nil {
		return out, err
	}
	if st.IsDir() {
		return out, common.NewAppError(common.CodeInput, abs+" is a directory", common.ErrInvalidInput)
	}

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return out, fmt.Errorf("hash %s: %w", abs, err)
	}
	sum := hex.EncodeToString(h.Sum(nil))

	i.mu.Lock()
	first, dup := i.seen[sum]
	if !dup {
		i.seen[sum] = abs
		first = abs
	}
	i.mu.Unlock()

	out = IngestionResult{
		SourcePath:   abs,
		Deduplicated: dup,
		FirstPath:    first,
		HashHex:      sum,
		FileExt:      ext,
		Size:         st.Size(),
		ModTime:      st.ModTime(),
	}
	if dup {
		i.logger.Info("duplicate recipe source", "path", abs, "first_path", first, "hash", sum[:12])
	}
	return out, nil
}

// Forget drops a hash so its content can be ingested again, e.g. after the
// file was edited back to an earlier version.
func (i *FSIngestor) Forget(hashHex string) {
	i.mu.Lock()
	delete(i.seen, hashHex)
	i.mu.Unlock()
}

// IngestDirectory walks root, skips hidden if requested,
// and calls IngestPath for each file. Returns per-file results + aggregate stats.
func (i *FSIngestor) IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []IngestionResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !i.allowed(path) {
			return nil
		}
		stats.Matched++

		r, err := i.IngestPath(ctx, path)
		if err != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: err.Error()})
			stats.Failed++
			return nil
		}

		results = append(results, r)
		stats.Succeeded++
		if r.Deduplicated {
			stats.Deduplicated++
		}
		return nil
	})

	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	i.logger.Info("directory ingested",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)
	return results, stats, nil
}

var _ Ingestor = (*FSIngestor)(nil)
