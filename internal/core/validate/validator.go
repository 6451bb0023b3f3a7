// Package validate cross-checks extracted invoice data with
// decimal-exact arithmetic and account-aware tax-id matching.
package validate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
	"github.com/wenlipeng/invoice-scanner/internal/core/extract"
)

// Rule names, used as keys in the result details and on errors.
const (
	RuleSalesTaxTotal = "銷售額 + 稅額 = 合計"
	RuleItemsTotal    = "品項金額加總 = 銷售額"
	RuleTaxID         = "統編核對"
)

// Amount mismatches within one currency unit pass, absorbing rounding
// on printed receipts.
var tolerance = decimal.NewFromInt(1)

type rule struct {
	name     string
	validate func(domain.ExtractedData, domain.AccountContext) domain.RuleResult
}

// Validator runs every rule over a document's extracted data; rules
// never short-circuit, so the result always covers all of them.
type Validator struct {
	rules []rule
}

func NewValidator() *Validator {
	return &Validator{rules: []rule{
		{RuleSalesTaxTotal, validateSalesTaxTotal},
		{RuleItemsTotal, validateItemsTotal},
		{RuleTaxID, validateTaxID},
	}}
}

// Validate applies all rules. The account context is explicit input;
// validation reads no ambient state.
func (v *Validator) Validate(data domain.ExtractedData, accounts domain.AccountContext) domain.ValidationResult {
	result := domain.ValidationResult{
		IsValid: true,
		Details: make(map[string]domain.RuleResult, len(v.rules)),
	}

	for _, rule := range v.rules {
		ruleResult := rule.validate(data, accounts)
		result.Details[rule.name] = ruleResult

		if !ruleResult.IsValid {
			result.IsValid = false
			result.Errors = append(result.Errors, domain.ValidationError{
				Rule:     rule.name,
				Message:  ruleResult.Message,
				Expected: ruleResult.Expected,
				Actual:   ruleResult.Actual,
				Diff:     ruleResult.Diff,
			})
		}
		result.Warnings = append(result.Warnings, ruleResult.Warnings...)
	}

	return result
}

func validateSalesTaxTotal(data domain.ExtractedData, _ domain.AccountContext) domain.RuleResult {
	sales, salesOK := data.AmountByKeyword("銷售額")
	tax, taxOK := data.AmountByKeyword("稅額")
	total, totalOK := data.AmountByKeyword("合計", "總計")

	if !salesOK || !taxOK || !totalOK {
		return domain.RuleResult{
			IsValid: false,
			Message: "缺少必要欄位（銷售額、稅額或合計）",
		}
	}

	expected := sales.Amount.Add(tax.Amount)
	diff := total.Amount.Sub(expected)

	if diff.Abs().GreaterThan(tolerance) {
		return domain.RuleResult{
			IsValid:  false,
			Message:  "銷售額 + 稅額 ≠ 合計",
			Expected: extract.FormatAmount(expected),
			Actual:   extract.FormatAmount(total.Amount),
			Diff:     extract.FormatAmount(diff),
		}
	}

	return domain.RuleResult{IsValid: true, Message: "驗算通過"}
}

func validateItemsTotal(data domain.ExtractedData, _ domain.AccountContext) domain.RuleResult {
	sales, ok := data.AmountByKeyword("銷售額", "小計")
	if !ok {
		return domain.RuleResult{
			IsValid: false,
			Message: "缺少銷售額或小計欄位",
		}
	}

	if len(data.Items) == 0 {
		return domain.RuleResult{
			IsValid:  true,
			Message:  "無品項明細，跳過驗算",
			Warnings: []string{"未偵測到品項明細"},
		}
	}

	itemsTotal := decimal.Zero
	for _, item := range data.Items {
		itemsTotal = itemsTotal.Add(item.Amount)
	}
	diff := itemsTotal.Sub(sales.Amount)

	if diff.Abs().GreaterThan(tolerance) {
		return domain.RuleResult{
			IsValid:  false,
			Message:  "品項金額加總 ≠ 銷售額",
			Expected: extract.FormatAmount(sales.Amount),
			Actual:   extract.FormatAmount(itemsTotal),
			Diff:     extract.FormatAmount(diff),
		}
	}

	return domain.RuleResult{IsValid: true, Message: "驗算通過"}
}

func validateTaxID(data domain.ExtractedData, accounts domain.AccountContext) domain.RuleResult {
	if accounts.Current.TaxID == "" {
		return domain.RuleResult{
			IsValid: false,
			Message: "無當前使用者",
		}
	}

	if data.TaxID == nil {
		return domain.RuleResult{
			IsValid:  false,
			Message:  "未偵測到統一編號",
			Warnings: []string{"請手動確認統一編號"},
		}
	}

	extracted := data.TaxID.TaxID
	if extracted == accounts.Current.TaxID {
		return domain.RuleResult{IsValid: true, Message: "統編核對通過"}
	}

	if owner, found := accounts.FindByTaxID(extracted); found {
		return domain.RuleResult{
			IsValid:  false,
			Message:  fmt.Sprintf("統一編號不符：此為「%s」的統編", owner.Username),
			Expected: accounts.Current.TaxID,
			Actual:   extracted,
			Warnings: []string{fmt.Sprintf("建議切換至帳號「%s」", owner.Username)},
		}
	}

	return domain.RuleResult{
		IsValid:  false,
		Message:  "統一編號不符",
		Expected: accounts.Current.TaxID,
		Actual:   extracted,
		Warnings: []string{"請確認是否為正確的發票"},
	}
}
