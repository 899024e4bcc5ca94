package constants

// ReviewConfidenceThreshold flags OCR output below this blended confidence for manual review.
const ReviewConfidenceThreshold = 0.6

// MinTextDensity is the minimum number of non-space characters a PDF text layer
// must yield before it is trusted over OCR.
const MinTextDensity = 50

// Acquisition methods reported in ExtractionResult.Method and metrics labels.
const (
	MethodPDFText        = "pdf-text"
	MethodPDFOCRFallback = "pdf-ocr-fallback"
	MethodImageOCR       = "image-ocr"
	MethodTypedText      = "typed-text"
	MethodHTMLText       = "html-text"
)
