package domain

import "github.com/shopspring/decimal"

// KeywordAmount is one amount found next to a configured keyword by the
// keyword extractor. NeedsReview is set when the source line was flagged
// or the parsed amount is zero.
type KeywordAmount struct {
	Keyword     string          `json:"keyword"`
	Amount      decimal.Decimal `json:"amount"`
	RawText     string          `json:"raw_text"`
	Confidence  float64         `json:"confidence"`
	NeedsReview bool            `json:"needs_review"`
	LineIndex   int             `json:"line_index"`
}

type TaxIDHit struct {
	TaxID       string  `json:"tax_id"`
	RawText     string  `json:"raw_text"`
	Confidence  float64 `json:"confidence"`
	NeedsReview bool    `json:"needs_review"`
	LineIndex   int     `json:"line_index"`
}

type InvoiceNoHit struct {
	InvoiceNo   string  `json:"invoice_no"`
	RawText     string  `json:"raw_text"`
	Confidence  float64 `json:"confidence"`
	NeedsReview bool    `json:"needs_review"`
	LineIndex   int     `json:"line_index"`
}

// ExtractedData is the keyword extractor's flat output; the validator
// consumes it for the arithmetic and tax-id rules.
type ExtractedData struct {
	Amounts   []KeywordAmount `json:"amounts"`
	Items     []LineItem      `json:"items"`
	TaxID     *TaxIDHit       `json:"tax_id,omitempty"`
	InvoiceNo *InvoiceNoHit   `json:"invoice_no,omitempty"`
}

// AmountByKeyword returns the first extracted amount whose keyword is
// one of the given labels.
func (d ExtractedData) AmountByKeyword(keywords ...string) (KeywordAmount, bool) {
	for _, amount := range d.Amounts {
		for _, keyword := range keywords {
			if amount.Keyword == keyword {
				return amount, true
			}
		}
	}
	return KeywordAmount{}, false
}
