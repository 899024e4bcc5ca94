package entity

// SourceKind tags how the raw text of a recipe was obtained.
type SourceKind string

const (
	SourceTyped          SourceKind = "typed"
	SourceOCR            SourceKind = "ocr"
	SourcePDFText        SourceKind = "pdf-text"
	SourcePDFOCRFallback SourceKind = "pdf-ocr-fallback"
)

// Valid reports whether k is one of the known source kinds.
func (k SourceKind) Valid() bool {
	switch k {
	case SourceTyped, SourceOCR, SourcePDFText, SourcePDFOCRFallback:
		return true
	}
	return false
}

// IsOCR reports whether the text went through optical character recognition.
func (k SourceKind) IsOCR() bool {
	return k == SourceOCR || k == SourcePDFOCRFallback
}

// RawSource is the unprocessed text of one extraction attempt.
// It is passed by value and never modified once produced.
type RawSource struct {
	Text string     `json:"text"`
	Kind SourceKind `json:"source_kind"`
}
