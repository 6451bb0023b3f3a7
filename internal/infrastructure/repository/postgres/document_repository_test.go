package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
)

func newDocumentRepoWithMock(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewDocumentRepository(db), mock
}

func documentColumns() []string {
	return []string{
		"id", "filename", "mime_type", "storage_path", "doc_type",
		"confidence", "needs_review", "status", "error_message", "created_at", "updated_at",
	}
}

func TestDocumentRepositoryCreate(t *testing.T) {
	repo, mock := newDocumentRepoWithMock(t)

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:          "doc-1",
		Filename:    "invoice.png",
		MimeType:    "image/png",
		StoragePath: "doc-1_invoice.png",
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectExec(`INSERT INTO documents`).
		WithArgs(doc.ID, doc.Filename, doc.MimeType, doc.StoragePath, "",
			0.0, false, "uploaded", "", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDocumentRepositoryGetByID(t *testing.T) {
	repo, mock := newDocumentRepoWithMock(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM documents`).
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows(documentColumns()).
			AddRow("doc-1", "invoice.png", "image/png", "doc-1_invoice.png", "invoice",
				0.9, false, "scanned", "", now, now))

	doc, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if doc.DocType != domain.DocInvoice || doc.Status != domain.StatusScanned {
		t.Errorf("doc = %+v", doc)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDocumentRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newDocumentRepoWithMock(t)

	mock.ExpectQuery(`SELECT .+ FROM documents`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(documentColumns()))

	_, err := repo.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("error = %v, want document not found", err)
	}
}

func TestDocumentRepositoryList(t *testing.T) {
	repo, mock := newDocumentRepoWithMock(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM documents`).
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows(documentColumns()).
			AddRow("doc-1", "a.png", "image/png", "doc-1_a.png", "invoice", 0.9, false, "scanned", "", now, now).
			AddRow("doc-2", "b.png", "image/png", "doc-2_b.png", "", 0.0, false, "uploaded", "", now, now))

	docs, err := repo.List(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("len(docs) = %d, want 2", len(docs))
	}
}

func TestDocumentRepositoryUpdateStatusNotFound(t *testing.T) {
	repo, mock := newDocumentRepoWithMock(t)

	mock.ExpectExec(`UPDATE documents`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.StatusFailed, "boom")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("error = %v, want document not found", err)
	}
}

func TestDocumentRepositorySaveClassification(t *testing.T) {
	repo, mock := newDocumentRepoWithMock(t)

	mock.ExpectExec(`UPDATE documents`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveClassification(context.Background(), "doc-1", domain.DocInvoice, 0.87, false)
	if err != nil {
		t.Fatalf("SaveClassification() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDocumentRepositoryScanRoundTrip(t *testing.T) {
	repo, mock := newDocumentRepoWithMock(t)

	record := &domain.ScanRecord{
		Classification: domain.ClassificationResult{DocType: domain.DocInvoice, Confidence: 0.9},
	}
	payload, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	mock.ExpectExec(`INSERT INTO document_scans`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT scan FROM document_scans`).
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"scan"}).AddRow(payload))

	if err := repo.SaveScan(context.Background(), "doc-1", record); err != nil {
		t.Fatalf("SaveScan() error = %v", err)
	}
	got, err := repo.GetScan(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetScan() error = %v", err)
	}
	if got.Classification.DocType != domain.DocInvoice {
		t.Errorf("classification = %+v", got.Classification)
	}
}

func TestDocumentRepositoryGetScanNotFound(t *testing.T) {
	repo, mock := newDocumentRepoWithMock(t)

	mock.ExpectQuery(`SELECT scan FROM document_scans`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"scan"}))

	_, err := repo.GetScan(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("error = %v, want document not found", err)
	}
}
