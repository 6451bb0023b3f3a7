package extract

import (
	"strings"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
)

// DefaultKeywords are the amount labels the keyword extractor scans for
// when no custom list is configured.
func DefaultKeywords() []string {
	return []string{"金額", "小計", "合計", "總計", "銷售額", "稅額"}
}

// KeywordExtractor is the flat line-oriented extractor whose output
// feeds the validator: keyword-labelled amounts, item lines, the first
// valid tax id and invoice number.
type KeywordExtractor struct {
	keywords []string
}

func NewKeywordExtractor(keywords []string) *KeywordExtractor {
	if len(keywords) == 0 {
		keywords = DefaultKeywords()
	}
	return &KeywordExtractor{keywords: keywords}
}

func (e *KeywordExtractor) Extract(res domain.OcrResult) domain.ExtractedData {
	return domain.ExtractedData{
		Amounts:   e.extractAmounts(res.Lines),
		Items:     e.extractItems(res.Lines),
		TaxID:     extractTaxIDHit(res.Lines),
		InvoiceNo: extractInvoiceNoHit(res.Lines),
	}
}

func (e *KeywordExtractor) extractAmounts(lines []domain.OcrLine) []domain.KeywordAmount {
	var amounts []domain.KeywordAmount

	for i, line := range lines {
		for _, keyword := range e.keywords {
			if !containsKeyword(line.Text, keyword) {
				continue
			}

			if amount, ok := Amount(line.Text); ok {
				amounts = append(amounts, domain.KeywordAmount{
					Keyword:     keyword,
					Amount:      amount,
					RawText:     line.Text,
					Confidence:  line.Confidence,
					NeedsReview: line.NeedsReview || amount.IsZero(),
					LineIndex:   i,
				})
				continue
			}

			// Labels and values often end up on separate OCR lines;
			// fall back to the next line.
			if i+1 < len(lines) {
				next := lines[i+1]
				if amount, ok := Amount(next.Text); ok {
					amounts = append(amounts, domain.KeywordAmount{
						Keyword:     keyword,
						Amount:      amount,
						RawText:     line.Text + " " + next.Text,
						Confidence:  min(line.Confidence, next.Confidence),
						NeedsReview: line.NeedsReview || next.NeedsReview,
						LineIndex:   i,
					})
				}
			}
		}
	}

	return amounts
}

func (e *KeywordExtractor) extractItems(lines []domain.OcrLine) []domain.LineItem {
	var items []domain.LineItem

	for _, line := range lines {
		amount, ok := Amount(line.Text)
		if !ok || e.hasAnyKeyword(line.Text) {
			continue
		}

		name := StripAmounts(line.Text)
		if name == "" {
			continue
		}
		items = append(items, domain.LineItem{
			Name:       name,
			Amount:     amount,
			RawText:    line.Text,
			Confidence: line.Confidence,
		})
	}

	return items
}

func (e *KeywordExtractor) hasAnyKeyword(text string) bool {
	for _, keyword := range e.keywords {
		if containsKeyword(text, keyword) {
			return true
		}
	}
	return false
}

func extractTaxIDHit(lines []domain.OcrLine) *domain.TaxIDHit {
	for i, line := range lines {
		taxID, ok := TaxID(line.Text)
		if ok && IsValidTaxID(taxID) {
			return &domain.TaxIDHit{
				TaxID:       taxID,
				RawText:     line.Text,
				Confidence:  line.Confidence,
				NeedsReview: line.NeedsReview,
				LineIndex:   i,
			}
		}
	}
	return nil
}

func extractInvoiceNoHit(lines []domain.OcrLine) *domain.InvoiceNoHit {
	for i, line := range lines {
		invoiceNo, ok := InvoiceNo(line.Text)
		if ok && IsValidInvoiceNo(invoiceNo) {
			return &domain.InvoiceNoHit{
				InvoiceNo:   invoiceNo,
				RawText:     line.Text,
				Confidence:  line.Confidence,
				NeedsReview: line.NeedsReview,
				LineIndex:   i,
			}
		}
	}
	return nil
}

func containsKeyword(text, keyword string) bool {
	return keyword != "" && strings.Contains(text, keyword)
}
