// Package detect locates invoice fields inside layout chunks using
// pattern matches weighted by position, labels and OCR confidence.
package detect

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
	"github.com/wenlipeng/invoice-scanner/internal/core/extract"
)

var (
	invoiceNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`[A-Z]{2}[-\s]?\d{8}`),
		regexp.MustCompile(`[A-Z]{2}\d{8}`),
		regexp.MustCompile(`發票[號号]\s*[:：]?\s*([A-Z]{2}[-\s]?\d{8})`),
	}
	invoiceNumberLabel = regexp.MustCompile(`發票[號号]`)

	taxIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d{8}`),
		regexp.MustCompile(`統[一编編]\s*[號号编編碼码]\s*[:：]?\s*(\d{8})`),
		regexp.MustCompile(`稅[籍號号]\s*[:：]?\s*(\d{8})`),
	}
	taxIDLabel = regexp.MustCompile(`統[一编編]|稅籍`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d{4})[-\/年](\d{1,2})[-\/月](\d{1,2})[日]?`),
		// ROC calendar years, e.g. 114-08-31.
		regexp.MustCompile(`(\d{3})[-\/年](\d{1,2})[-\/月](\d{1,2})[日]?`),
	}
	dateLabel = regexp.MustCompile(`日期|開立|开立`)

	digitRuns = regexp.MustCompile(`\d+`)

	cleanInvoiceNo = strings.NewReplacer("-", "", " ", "")
)

var (
	salesKeywords = []string{"銷售額", "小計", "未稅金額", "税前金额"}
	taxKeywords   = []string{"稅額", "營業稅", "增值稅", "税额"}
	totalKeywords = []string{"總計", "合計", "總額", "应付金额", "總金額"}

	buyerKeywords  = []string{"買方", "買受人", "购方", "客户"}
	sellerKeywords = []string{"賣方", "销方", "供应商", "開立人"}

	tableKeywords = []string{"品名", "數量", "單價", "金額", "小計", "项目", "数量"}
)

// Detector scans typed layout chunks for invoice fields. It is
// stateless and safe for concurrent use.
type Detector struct{}

func NewDetector() *Detector {
	return &Detector{}
}

// DetectAllFields runs every field detector over the chunks and
// aggregates the results with an overall confidence.
func (d *Detector) DetectAllFields(chunks []domain.Chunk) domain.FieldRecord {
	record := domain.FieldRecord{
		InvoiceNumber: d.detectInvoiceNumber(chunks),
		TaxIDs:        d.detectTaxIDs(chunks),
		ItemsTable:    d.detectItemsTable(chunks),
		Amounts:       d.detectAmounts(chunks),
		Date:          d.detectDate(chunks),
		Names:         d.detectNames(chunks),
	}
	record.OverallConfidence = overallConfidence(record)
	return record
}

func (d *Detector) detectInvoiceNumber(chunks []domain.Chunk) *domain.FieldMatch {
	var best *domain.FieldMatch
	bestScore := 0.0

	for i, chunk := range chunks {
		text := chunk.Text()

		for _, pattern := range invoiceNumberPatterns {
			match := pattern.FindStringSubmatch(text)
			if match == nil {
				continue
			}
			raw := match[0]
			if len(match) > 1 && match[1] != "" {
				raw = match[1]
			}

			score := 0.5
			if float64(i) < float64(len(chunks))*0.3 {
				score += 0.3
			}
			if invoiceNumberLabel.MatchString(text) {
				score += 0.2
			}
			score += chunk.MeanConfidence() * 0.1

			if score > bestScore {
				bestScore = score
				value := cleanInvoiceNo.Replace(raw)
				best = &domain.FieldMatch{
					Value:      value,
					RawValue:   raw,
					ChunkID:    chunk.ID,
					Confidence: min(score, 1.0),
					Type:       domain.FieldInvoiceNumber,
					Valid:      extract.IsValidInvoiceNo(value),
				}
			}
		}
	}
	return best
}

func (d *Detector) detectTaxIDs(chunks []domain.Chunk) domain.TaxIDs {
	var all []domain.FieldMatch

	for i, chunk := range chunks {
		text := chunk.Text()

		for _, pattern := range taxIDPatterns {
			for _, match := range pattern.FindAllStringSubmatch(text, -1) {
				taxID := match[0]
				if len(match) > 1 && match[1] != "" {
					taxID = match[1]
				}
				if !extract.IsValidTaxID(taxID) {
					continue
				}

				score := 0.5
				fieldType := domain.FieldOther

				isBuyer := containsAny(text, buyerKeywords)
				isSeller := containsAny(text, sellerKeywords)
				switch {
				case isBuyer:
					score += 0.3
					fieldType = domain.FieldTaxIDBuyer
				case isSeller:
					score += 0.3
					fieldType = domain.FieldTaxIDSeller
				case float64(i) < float64(len(chunks))*0.4:
					// Unlabelled ids near the top usually belong to
					// the seller.
					score += 0.1
					fieldType = domain.FieldTaxIDSeller
				default:
					score += 0.1
					fieldType = domain.FieldTaxIDBuyer
				}

				if taxIDLabel.MatchString(text) {
					score += 0.2
				}

				all = append(all, domain.FieldMatch{
					Value:      taxID,
					RawValue:   taxID,
					ChunkID:    chunk.ID,
					Confidence: min(score, 1.0),
					Type:       fieldType,
					Valid:      true,
				})
			}
		}
	}

	return domain.TaxIDs{
		Buyer:  firstOfType(all, domain.FieldTaxIDBuyer),
		Seller: firstOfType(all, domain.FieldTaxIDSeller),
		All:    all,
	}
}

func (d *Detector) detectItemsTable(chunks []domain.Chunk) *domain.ItemsTable {
	var best *domain.ItemsTable
	bestScore := 0.0

	for i, chunk := range chunks {
		if len(chunk.Lines) < 2 {
			continue
		}
		text := chunk.Text()

		var score float64
		if len(digitRuns.FindAllString(text, -1)) >= len(chunk.Lines) {
			score += 0.3
		}
		if chunk.Alignment.Confidence > 0.7 {
			score += 0.2
		}
		if containsAny(text, tableKeywords) {
			score += 0.3
		}
		if float64(i) > float64(len(chunks))*0.2 && float64(i) < float64(len(chunks))*0.8 {
			score += 0.2
		}

		if score > bestScore {
			bestScore = score
			best = &domain.ItemsTable{
				ChunkID:    chunk.ID,
				Confidence: min(score, 1.0),
				Items:      parseTableItems(chunk),
			}
		}
	}
	return best
}

func parseTableItems(chunk domain.Chunk) []domain.LineItem {
	var items []domain.LineItem
	for _, line := range chunk.Lines {
		amount, ok := extract.Amount(line.Text)
		if !ok {
			continue
		}
		name := extract.StripAmounts(line.Text)
		if name == "" {
			name = "未知商品"
		}
		confidence := line.Confidence
		if confidence == 0 {
			confidence = 0.5
		}
		items = append(items, domain.LineItem{
			Name:       name,
			Amount:     amount,
			RawText:    line.Text,
			Confidence: confidence,
		})
	}
	return items
}

func (d *Detector) detectAmounts(chunks []domain.Chunk) domain.Amounts {
	var amounts domain.Amounts

	for _, chunk := range chunks {
		text := chunk.Text()
		amounts.Sales = pickAmount(amounts.Sales, chunk, text, salesKeywords, 0.8, domain.FieldSalesAmount)
		amounts.Tax = pickAmount(amounts.Tax, chunk, text, taxKeywords, 0.8, domain.FieldTaxAmount)
		amounts.Total = pickAmount(amounts.Total, chunk, text, totalKeywords, 0.9, domain.FieldTotalAmount)
	}

	// Amounts that reconcile within rounding tolerance corroborate each
	// other.
	if amounts.Sales != nil && amounts.Tax != nil && amounts.Total != nil {
		computed := amounts.Sales.Value.Add(amounts.Tax.Value)
		if computed.Sub(amounts.Total.Value).Abs().LessThan(decimal.NewFromInt(1)) {
			amounts.Sales.Confidence = 0.95
			amounts.Tax.Confidence = 0.95
			amounts.Total.Confidence = 0.95
		}
	}

	return amounts
}

func pickAmount(existing *domain.AmountMatch, chunk domain.Chunk, text string, keywords []string, confidence float64, fieldType domain.FieldType) *domain.AmountMatch {
	for _, keyword := range keywords {
		if !strings.Contains(text, keyword) {
			continue
		}
		amount, ok := extract.Amount(text)
		if !ok {
			continue
		}
		// A later chunk only displaces an existing match when it
		// carries a positive amount.
		if existing != nil && !amount.IsPositive() {
			continue
		}
		existing = &domain.AmountMatch{
			Value:      amount,
			Keyword:    keyword,
			ChunkID:    chunk.ID,
			Confidence: confidence,
			Type:       fieldType,
		}
	}
	return existing
}

func (d *Detector) detectDate(chunks []domain.Chunk) *domain.FieldMatch {
	var best *domain.FieldMatch
	bestScore := 0.0

	for i, chunk := range chunks {
		text := chunk.Text()

		for _, pattern := range datePatterns {
			match := pattern.FindStringSubmatch(text)
			if match == nil {
				continue
			}
			year, _ := strconv.Atoi(match[1])
			month, _ := strconv.Atoi(match[2])
			day, _ := strconv.Atoi(match[3])
			if year < 1000 {
				year += 1911
			}

			score := 0.5
			if float64(i) < float64(len(chunks))*0.3 {
				score += 0.3
			}
			if dateLabel.MatchString(text) {
				score += 0.2
			}

			if score > bestScore {
				bestScore = score
				best = &domain.FieldMatch{
					Value:      fmt.Sprintf("%04d-%02d-%02d", year, month, day),
					RawValue:   match[0],
					ChunkID:    chunk.ID,
					Confidence: min(score, 1.0),
					Type:       domain.FieldDate,
					Valid:      month >= 1 && month <= 12 && day >= 1 && day <= 31,
				}
			}
		}
	}
	return best
}

func (d *Detector) detectNames(chunks []domain.Chunk) domain.Names {
	var names domain.Names

	for _, chunk := range chunks {
		text := chunk.Text()

		if match := nameAfterKeyword(text, chunk.ID, buyerKeywords, domain.FieldBuyerName); match != nil {
			names.Buyer = match
		}
		if match := nameAfterKeyword(text, chunk.ID, sellerKeywords, domain.FieldSellerName); match != nil {
			names.Seller = match
		}
	}
	return names
}

func nameAfterKeyword(text, chunkID string, keywords []string, fieldType domain.FieldType) *domain.FieldMatch {
	var match *domain.FieldMatch
	for _, keyword := range keywords {
		if !strings.Contains(text, keyword) {
			continue
		}
		name := strings.Replace(text, keyword, "", 1)
		name = strings.NewReplacer(":", "", "：", "").Replace(name)
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		match = &domain.FieldMatch{
			Value:      name,
			RawValue:   text,
			ChunkID:    chunkID,
			Confidence: 0.7,
			Type:       fieldType,
			Valid:      true,
		}
	}
	return match
}

// overallConfidence averages the confidences of the four anchor fields
// (invoice number, both tax ids, total amount); none found means 0.
func overallConfidence(record domain.FieldRecord) float64 {
	var sum float64
	var count int

	if record.InvoiceNumber != nil {
		sum += record.InvoiceNumber.Confidence
		count++
	}
	if record.TaxIDs.Buyer != nil {
		sum += record.TaxIDs.Buyer.Confidence
		count++
	}
	if record.TaxIDs.Seller != nil {
		sum += record.TaxIDs.Seller.Confidence
		count++
	}
	if record.Amounts.Total != nil {
		sum += record.Amounts.Total.Confidence
		count++
	}

	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func firstOfType(matches []domain.FieldMatch, fieldType domain.FieldType) *domain.FieldMatch {
	for i := range matches {
		if matches[i].Type == fieldType {
			return &matches[i]
		}
	}
	return nil
}
