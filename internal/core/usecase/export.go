package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
	"github.com/wenlipeng/invoice-scanner/internal/core/ports"
)

// ExportUseCase flattens scanned documents into report rows and renders
// them through the configured exporter.
type ExportUseCase struct {
	repo     ports.DocumentRepository
	exporter ports.ReportExporter
}

func NewExportUseCase(repo ports.DocumentRepository, exporter ports.ReportExporter) *ExportUseCase {
	return &ExportUseCase{repo: repo, exporter: exporter}
}

// ExportScans builds the report for the given documents in order. It
// returns the file content and a suggested filename.
func (uc *ExportUseCase) ExportScans(ctx context.Context, documentIDs []string) ([]byte, string, error) {
	if len(documentIDs) == 0 {
		return nil, "", domain.WrapError(domain.ErrInvalidInput, "export scans", fmt.Errorf("no documents selected"))
	}

	rows := make([]domain.ReportRow, 0, len(documentIDs))
	for _, documentID := range documentIDs {
		doc, err := uc.repo.GetByID(ctx, documentID)
		if err != nil {
			return nil, "", fmt.Errorf("fetch document %s: %w", documentID, err)
		}
		scan, err := uc.repo.GetScan(ctx, documentID)
		if err != nil {
			return nil, "", fmt.Errorf("fetch scan %s: %w", documentID, err)
		}
		rows = append(rows, buildReportRow(doc, scan))
	}

	content, err := uc.exporter.Export(ctx, rows)
	if err != nil {
		return nil, "", fmt.Errorf("render report: %w", err)
	}

	filename := fmt.Sprintf("scan-report-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	return content, filename, nil
}

func buildReportRow(doc *domain.Document, scan *domain.ScanRecord) domain.ReportRow {
	row := domain.ReportRow{
		DocumentID: doc.ID,
		Filename:   doc.Filename,
		DocType:    scan.Classification.DocType,
		Confidence: scan.Fields.OverallConfidence,
		Valid:      scan.Validation.IsValid,
		Warnings:   scan.Validation.Warnings,
	}

	if scan.Fields.InvoiceNumber != nil {
		row.InvoiceNumber = scan.Fields.InvoiceNumber.Value
	}
	if scan.Fields.Date != nil {
		row.Date = scan.Fields.Date.Value
	}
	if scan.Fields.TaxIDs.Buyer != nil {
		row.BuyerTaxID = scan.Fields.TaxIDs.Buyer.Value
	}
	if scan.Fields.TaxIDs.Seller != nil {
		row.SellerTaxID = scan.Fields.TaxIDs.Seller.Value
	}
	if scan.Fields.Amounts.Sales != nil {
		value := scan.Fields.Amounts.Sales.Value
		row.Sales = &value
	}
	if scan.Fields.Amounts.Tax != nil {
		value := scan.Fields.Amounts.Tax.Value
		row.Tax = &value
	}
	if scan.Fields.Amounts.Total != nil {
		value := scan.Fields.Amounts.Total.Value
		row.Total = &value
	}
	if scan.Fields.ItemsTable != nil {
		for _, item := range scan.Fields.ItemsTable.Items {
			row.Items = append(row.Items, domain.ReportItem{
				Name:       item.Name,
				Amount:     item.Amount,
				Confidence: item.Confidence,
			})
		}
	}
	return row
}
