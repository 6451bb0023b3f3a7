package ports

import (
	"context"
	"io"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context, limit, offset int) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveClassification(ctx context.Context, id string, docType domain.DocType, confidence float64, needsReview bool) error
	SaveScan(ctx context.Context, id string, scan *domain.ScanRecord) error
	GetScan(ctx context.Context, id string) (*domain.ScanRecord, error)
}

// AccountRepository persists registered buyer identities.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
}

// DictionaryStore persists the editable dictionaries. Missing entries
// yield domain.ErrDictionaryNotFound so callers can fall back to
// defaults.
type DictionaryStore interface {
	LoadClassificationKeywords(ctx context.Context) (domain.ClassificationKeywords, error)
	SaveClassificationKeywords(ctx context.Context, keywords domain.ClassificationKeywords) error
	LoadROITemplates(ctx context.Context) (domain.ROITemplates, error)
	SaveROITemplates(ctx context.Context, templates domain.ROITemplates) error
}

// ObjectStorage stores source files and page rasters.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes scan events.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// OCRProvider runs full-page recognition on a stored document.
type OCRProvider interface {
	Recognize(ctx context.Context, doc *domain.Document, body io.Reader) (*domain.OcrResult, *domain.PageImage, error)
}

// RegionRecognizer re-recognizes a cropped page region with a
// character whitelist.
type RegionRecognizer interface {
	RecognizeRegion(ctx context.Context, image domain.PageImage, region domain.Rect, whitelist string) (domain.RegionText, error)
}

// ReportExporter renders scanned documents into a spreadsheet report.
type ReportExporter interface {
	Export(ctx context.Context, rows []domain.ReportRow) ([]byte, error)
}
