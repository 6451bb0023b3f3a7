package domain

import "github.com/shopspring/decimal"

type FieldType string

const (
	FieldInvoiceNumber FieldType = "INVOICE_NUMBER"
	FieldTaxIDBuyer    FieldType = "TAX_ID_BUYER"
	FieldTaxIDSeller   FieldType = "TAX_ID_SELLER"
	FieldItemsTable    FieldType = "ITEMS_TABLE"
	FieldSalesAmount   FieldType = "SALES_AMOUNT"
	FieldTaxAmount     FieldType = "TAX_AMOUNT"
	FieldTotalAmount   FieldType = "TOTAL_AMOUNT"
	FieldDate          FieldType = "DATE"
	FieldSellerName    FieldType = "SELLER_NAME"
	FieldBuyerName     FieldType = "BUYER_NAME"
	FieldOther         FieldType = "OTHER"
)

// FieldMatch is one winning candidate for a field slot. The chunk is
// referenced by id so the record stays serializable without cycles.
type FieldMatch struct {
	Value      string    `json:"value"`
	RawValue   string    `json:"raw_value,omitempty"`
	ChunkID    string    `json:"chunk_id"`
	Confidence float64   `json:"confidence"`
	Type       FieldType `json:"type"`
	Valid      bool      `json:"valid,omitempty"`
}

// AmountMatch is a detected monetary field slot.
type AmountMatch struct {
	Value      decimal.Decimal `json:"value"`
	Keyword    string          `json:"keyword"`
	ChunkID    string          `json:"chunk_id"`
	Confidence float64         `json:"confidence"`
	Type       FieldType       `json:"type"`
}

type LineItem struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	RawText    string          `json:"raw_text"`
	Confidence float64         `json:"confidence"`
}

type ItemsTable struct {
	ChunkID    string     `json:"chunk_id"`
	Confidence float64    `json:"confidence"`
	Items      []LineItem `json:"items"`
}

type TaxIDs struct {
	Buyer  *FieldMatch  `json:"buyer,omitempty"`
	Seller *FieldMatch  `json:"seller,omitempty"`
	All    []FieldMatch `json:"all,omitempty"`
}

type Amounts struct {
	Sales *AmountMatch `json:"sales,omitempty"`
	Tax   *AmountMatch `json:"tax,omitempty"`
	Total *AmountMatch `json:"total,omitempty"`
}

type Names struct {
	Buyer  *FieldMatch `json:"buyer,omitempty"`
	Seller *FieldMatch `json:"seller,omitempty"`
}

// FieldRecord is the full output of the field detector. Every slot is
// optional; absence means the detector found no credible candidate.
type FieldRecord struct {
	InvoiceNumber     *FieldMatch `json:"invoice_number,omitempty"`
	TaxIDs            TaxIDs      `json:"tax_ids"`
	ItemsTable        *ItemsTable `json:"items_table,omitempty"`
	Amounts           Amounts     `json:"amounts"`
	Date              *FieldMatch `json:"date,omitempty"`
	Names             Names       `json:"names"`
	OverallConfidence float64     `json:"overall_confidence"`
}
