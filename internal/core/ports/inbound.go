package ports

import (
	"context"
	"io"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload
// orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentReader is the inbound read model for documents and their scan
// results.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	GetScan(ctx context.Context, id string) (*domain.ScanRecord, error)
	List(ctx context.Context, limit, offset int) ([]domain.Document, error)
}

// DocumentScanner is the inbound contract for asynchronous scan
// processing.
type DocumentScanner interface {
	ScanByID(ctx context.Context, documentID string) error
}

// BatchProgress reports ordered per-document completion during a batch
// scan.
type BatchProgress func(current, total int, documentID string, err error)

// BatchScanner scans a fixed list of documents in order.
type BatchScanner interface {
	ScanBatch(ctx context.Context, documentIDs []string, progress BatchProgress) error
}

// DictionaryService manages the runtime-editable keyword dictionaries
// and ROI templates.
type DictionaryService interface {
	ClassificationKeywords(ctx context.Context) (domain.ClassificationKeywords, error)
	AddKeywords(ctx context.Context, docType domain.DocType, keywords []string) (domain.ClassificationKeywords, error)
	ROITemplates(ctx context.Context) (domain.ROITemplates, error)
	DefineROIField(ctx context.Context, docType domain.DocType, fieldName string, template domain.ROIFieldTemplate) (domain.ROITemplates, error)
	ResetToDefaults(ctx context.Context) error
}

// ReportService renders scan results into a downloadable report.
type ReportService interface {
	ExportScans(ctx context.Context, documentIDs []string) ([]byte, string, error)
}
