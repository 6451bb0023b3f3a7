// Package extract holds the shared amount / tax-id / invoice-number
// extraction routines reused by the field detector, the keyword
// extractor and item parsing. These are intentionally simple,
// order-sensitive, first-match heuristics.
package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	amountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)NT\$?\s*([\d,]+(?:\.\d{1,2})?)`),
		regexp.MustCompile(`\$\s*([\d,]+(?:\.\d{1,2})?)`),
		regexp.MustCompile(`([\d,]+(?:\.\d{1,2})?)\s*元`),
		regexp.MustCompile(`(?:^|\s)([\d,]+(?:\.\d{1,2})?)(?:\s|$)`),
	}

	amountStripPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)NT\$?\s*[\d,]+(?:\.\d{1,2})?`),
		regexp.MustCompile(`\$\s*[\d,]+(?:\.\d{1,2})?`),
		regexp.MustCompile(`[\d,]+(?:\.\d{1,2})?\s*元`),
	}

	taxIDPattern        = regexp.MustCompile(`\d{8}`)
	validTaxIDPattern   = regexp.MustCompile(`^\d{8}$`)
	invoiceNoPattern    = regexp.MustCompile(`[A-Z]{2}\d{8}`)
	validInvoiceNoRegex = regexp.MustCompile(`^[A-Z]{2}\d{8}$`)
)

// Amount extracts the first monetary value in text, trying NT$<num>,
// $<num>, <num>元, then a bare whitespace-delimited number. Thousands
// separators are stripped. The second return is false when no pattern
// matched.
func Amount(text string) (decimal.Decimal, bool) {
	for _, pattern := range amountPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		return ParseAmount(match[1]), true
	}
	return decimal.Zero, false
}

// ParseAmount parses an amount string, tolerating NT$/$ prefixes,
// commas and surrounding whitespace. Unparseable input yields zero.
func ParseAmount(raw string) decimal.Decimal {
	cleaned := strings.NewReplacer("N", "", "T", "", "$", "", ",", "", " ", "", "\t", "").Replace(raw)
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// StripAmounts removes currency-styled amount substrings so the
// residual text can serve as an item name.
func StripAmounts(text string) string {
	for _, pattern := range amountStripPatterns {
		text = pattern.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

// TaxID returns the first bare 8-digit run in text.
func TaxID(text string) (string, bool) {
	match := taxIDPattern.FindString(text)
	return match, match != ""
}

// InvoiceNo returns the first two-uppercase-letters + 8-digit run.
func InvoiceNo(text string) (string, bool) {
	match := invoiceNoPattern.FindString(text)
	return match, match != ""
}

func IsValidTaxID(taxID string) bool {
	return validTaxIDPattern.MatchString(taxID)
}

func IsValidInvoiceNo(invoiceNo string) bool {
	return validInvoiceNoRegex.MatchString(invoiceNo)
}

// FormatAmount renders a decimal with thousands separators and at most
// two fraction digits, matching the report display format.
func FormatAmount(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	fixed = strings.TrimRight(fixed, "0")
	fixed = strings.TrimSuffix(fixed, ".")

	negative := strings.HasPrefix(fixed, "-")
	if negative {
		fixed = fixed[1:]
	}
	intPart := fixed
	fracPart := ""
	if dot := strings.IndexByte(fixed, '.'); dot >= 0 {
		intPart, fracPart = fixed[:dot], fixed[dot:]
	}

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteString(fracPart)
	return b.String()
}
