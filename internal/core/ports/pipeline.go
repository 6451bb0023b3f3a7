package ports

import (
	"context"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
)

// Pipeline stage contracts. The concrete implementations live in the
// core layout/classify/detect/roi/extract/validate packages; the scan
// usecase depends on these so stages stay swappable and fakeable.

// LayoutAnalyzer groups OCR lines into layout chunks.
type LayoutAnalyzer interface {
	AnalyzeLayout(res domain.OcrResult) []domain.Chunk
}

// TextClassifier decides the document type from raw text.
type TextClassifier interface {
	Classify(text string) domain.ClassificationResult
}

// FieldDetector locates invoice fields in chunks and annotates the
// chunks with the outcome.
type FieldDetector interface {
	DetectAllFields(chunks []domain.Chunk) domain.FieldRecord
	AnnotateChunks(chunks []domain.Chunk, record domain.FieldRecord) []domain.Chunk
}

// ROIFieldExtractor runs template-driven region extraction.
type ROIFieldExtractor interface {
	ExtractFields(ctx context.Context, res domain.OcrResult, docType domain.DocType, image *domain.PageImage) domain.ROIRecord
}

// KeywordFieldExtractor produces the flat extraction the validator
// consumes.
type KeywordFieldExtractor interface {
	Extract(res domain.OcrResult) domain.ExtractedData
}

// RecordValidator cross-checks extracted data against the account
// context.
type RecordValidator interface {
	Validate(data domain.ExtractedData, accounts domain.AccountContext) domain.ValidationResult
}

// AccountContextProvider resolves the active account plus all known
// accounts for validation.
type AccountContextProvider interface {
	AccountContext(ctx context.Context) (domain.AccountContext, error)
}
