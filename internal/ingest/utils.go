package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/recipe-extractor/constants"
)

// AllowedExt checks if a file extension is one the acquirer can read.
func AllowedExt(ext string) bool {
	_, ok := constants.AllowedExtensions[constants.NormalizeExt(ext)]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
// Editors' temp files ("~$card.txt", "card.txt~") count as hidden too.
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") || strings.HasSuffix(base, "~")
}
