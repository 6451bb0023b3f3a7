package domain

import "github.com/shopspring/decimal"

// ReportItem is one line item row in the export detail sheet.
type ReportItem struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Confidence float64         `json:"confidence"`
}

// ReportRow is one scanned document flattened for the spreadsheet
// report.
type ReportRow struct {
	DocumentID    string           `json:"document_id"`
	Filename      string           `json:"filename"`
	DocType       DocType          `json:"doc_type"`
	InvoiceNumber string           `json:"invoice_number"`
	Date          string           `json:"date"`
	BuyerTaxID    string           `json:"buyer_tax_id"`
	SellerTaxID   string           `json:"seller_tax_id"`
	Sales         *decimal.Decimal `json:"sales,omitempty"`
	Tax           *decimal.Decimal `json:"tax,omitempty"`
	Total         *decimal.Decimal `json:"total,omitempty"`
	Confidence    float64          `json:"confidence"`
	Valid         bool             `json:"valid"`
	Warnings      []string         `json:"warnings,omitempty"`
	Items         []ReportItem     `json:"items,omitempty"`
}
