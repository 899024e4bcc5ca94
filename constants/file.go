package constants

import "strings"

// Source formats understood by the acquirer.
const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
	TEXT  = "TEXT"
	HTML  = "HTML"
)

// FileTypes holds every format MapExtToFormat can return.
var FileTypes = []string{PDF, IMAGE, TEXT, HTML}

// AllowedExtensions holds the default allowed file extensions for recipe ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"tif":  {},
	"tiff": {},
	"heic": {},
	"heif": {},
	"txt":  {},
	"md":   {},
	"html": {},
	"htm":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns the source format for an extension, or "" if unsupported.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png", "tif", "tiff", "heic", "heif":
		return IMAGE
	case "txt", "md":
		return TEXT
	case "html", "htm":
		return HTML
	default:
		return ""
	}
}

// IsHEICExt reports whether ext needs conversion before tesseract can read it.
func IsHEICExt(ext string) bool {
	switch NormalizeExt(ext) {
	case "heic", "heif":
		return true
	}
	return false
}
