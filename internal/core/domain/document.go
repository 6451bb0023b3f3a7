package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusScanned    DocumentStatus = "scanned"
	StatusFailed     DocumentStatus = "failed"
)

// Document is one uploaded page image (or born-digital PDF) tracked
// through the scan pipeline.
type Document struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	MimeType    string         `json:"mime_type"`
	StoragePath string         `json:"storage_path"`
	DocType     DocType        `json:"doc_type,omitempty"`
	Confidence  float64        `json:"confidence,omitempty"`
	NeedsReview bool           `json:"needs_review"`
	Status      DocumentStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ScanRecord aggregates everything one pipeline run produced for a
// document. All plain data, safe to serialize.
type ScanRecord struct {
	Chunks         []Chunk              `json:"chunks"`
	Classification ClassificationResult `json:"classification"`
	Fields         FieldRecord          `json:"fields"`
	ROIRecord      ROIRecord            `json:"roi_record"`
	Extracted      ExtractedData        `json:"extracted"`
	Validation     ValidationResult     `json:"validation"`
}
