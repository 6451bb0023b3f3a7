package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
)

type exporterFake struct {
	rows []domain.ReportRow
}

func (f *exporterFake) Export(_ context.Context, rows []domain.ReportRow) ([]byte, error) {
	f.rows = rows
	return []byte("xlsx-bytes"), nil
}

func TestExportScansFlattensFields(t *testing.T) {
	total := decimal.NewFromInt(1050)
	repo := &scanRepoFake{
		doc: &domain.Document{ID: "doc-1", Filename: "invoice.png"},
		savedScan: &domain.ScanRecord{
			Classification: domain.ClassificationResult{DocType: domain.DocInvoice},
			Fields: domain.FieldRecord{
				InvoiceNumber: &domain.FieldMatch{Value: "AB12345678"},
				Amounts: domain.Amounts{
					Total: &domain.AmountMatch{Value: total},
				},
				ItemsTable: &domain.ItemsTable{Items: []domain.LineItem{
					{Name: "辦公用品", Amount: decimal.NewFromInt(600)},
				}},
				OverallConfidence: 0.9,
			},
			Validation: domain.ValidationResult{IsValid: true},
		},
	}
	exporter := &exporterFake{}
	uc := NewExportUseCase(repo, exporter)

	content, filename, err := uc.ExportScans(context.Background(), []string{"doc-1"})
	if err != nil {
		t.Fatalf("ExportScans() error = %v", err)
	}
	if len(content) == 0 {
		t.Fatal("empty report content")
	}
	if !strings.HasPrefix(filename, "scan-report-") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("filename = %q", filename)
	}

	if len(exporter.rows) != 1 {
		t.Fatalf("rows = %d", len(exporter.rows))
	}
	row := exporter.rows[0]
	if row.InvoiceNumber != "AB12345678" || row.Total == nil || !row.Total.Equal(total) {
		t.Errorf("row = %+v", row)
	}
	if len(row.Items) != 1 || row.Items[0].Name != "辦公用品" {
		t.Errorf("items = %+v", row.Items)
	}
}

func TestExportScansRejectsEmptySelection(t *testing.T) {
	uc := NewExportUseCase(&scanRepoFake{}, &exporterFake{})

	if _, _, err := uc.ExportScans(context.Background(), nil); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("error = %v, want invalid input", err)
	}
}
