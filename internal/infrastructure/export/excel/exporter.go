// Package excel renders scan results into an XLSX report with a
// summary sheet and a line-item detail sheet.
package excel

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
	"github.com/wenlipeng/invoice-scanner/internal/core/extract"
)

const (
	summarySheet = "掃描總表"
	itemsSheet   = "品項明細"
)

var docTypeLabels = map[domain.DocType]string{
	domain.DocInvoice:     "統一發票",
	domain.DocUtility:     "水電帳單",
	domain.DocLaborHealth: "勞健保繳費單",
	domain.DocOther:       "其他",
}

type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

func (e *Exporter) Export(ctx context.Context, rows []domain.ReportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, fmt.Errorf("create items sheet: %w", err)
	}

	if err := e.writeSummary(f, rows); err != nil {
		return nil, err
	}
	if err := e.writeItems(f, rows); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) writeSummary(f *excelize.File, rows []domain.ReportRow) error {
	headers := []string{
		"文件編號", "檔名", "類型", "發票號碼", "日期",
		"買方統編", "賣方統編", "銷售額", "稅額", "合計",
		"信心值", "驗算狀態", "警告",
	}
	if err := writeRow(f, summarySheet, 1, headers); err != nil {
		return err
	}

	for i, row := range rows {
		label := docTypeLabels[row.DocType]
		if label == "" {
			label = string(row.DocType)
		}
		status := "通過"
		if !row.Valid {
			status = "需確認"
		}

		values := []any{
			row.DocumentID, row.Filename, label, row.InvoiceNumber, row.Date,
			row.BuyerTaxID, row.SellerTaxID,
			amountCell(row.Sales), amountCell(row.Tax), amountCell(row.Total),
			fmt.Sprintf("%.0f%%", row.Confidence*100), status, joinWarnings(row.Warnings),
		}
		if err := writeRow(f, summarySheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) writeItems(f *excelize.File, rows []domain.ReportRow) error {
	headers := []string{"文件編號", "發票號碼", "品項名稱", "金額", "信心值"}
	if err := writeRow(f, itemsSheet, 1, headers); err != nil {
		return err
	}

	line := 2
	for _, row := range rows {
		for _, item := range row.Items {
			values := []any{
				row.DocumentID, row.InvoiceNumber, item.Name,
				extract.FormatAmount(item.Amount),
				fmt.Sprintf("%.0f%%", item.Confidence*100),
			}
			if err := writeRow(f, itemsSheet, line, values); err != nil {
				return err
			}
			line++
		}
	}
	return nil
}

func writeRow[T any](f *excelize.File, sheet string, line int, values []T) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, line)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}

func amountCell(amount *decimal.Decimal) string {
	if amount == nil {
		return ""
	}
	return extract.FormatAmount(*amount)
}

func joinWarnings(warnings []string) string {
	return strings.Join(warnings, "；")
}
