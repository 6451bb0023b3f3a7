package validate

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
)

func amount(keyword string, value int64) domain.KeywordAmount {
	return domain.KeywordAmount{
		Keyword:    keyword,
		Amount:     decimal.NewFromInt(value),
		Confidence: 0.9,
	}
}

func accounts() domain.AccountContext {
	return domain.AccountContext{
		Current: domain.Account{Username: "A", TaxID: "12345678"},
		Known: []domain.Account{
			{Username: "A", TaxID: "12345678"},
			{Username: "B", TaxID: "87654321"},
		},
	}
}

func TestValidateReconciledInvoicePasses(t *testing.T) {
	data := domain.ExtractedData{
		Amounts: []domain.KeywordAmount{
			amount("銷售額", 1000),
			amount("稅額", 50),
			amount("合計", 1050),
		},
		Items: []domain.LineItem{
			{Name: "辦公用品", Amount: decimal.NewFromInt(600)},
			{Name: "文具", Amount: decimal.NewFromInt(400)},
		},
		TaxID: &domain.TaxIDHit{TaxID: "12345678"},
	}

	result := NewValidator().Validate(data, accounts())

	if !result.IsValid {
		t.Fatalf("expected valid, errors = %+v", result.Errors)
	}
	if len(result.Errors) != 0 {
		t.Errorf("errors = %+v", result.Errors)
	}
	if len(result.Details) != 3 {
		t.Errorf("all three rules must report, got %d", len(result.Details))
	}
}

func TestValidateSalesTaxTotalMismatch(t *testing.T) {
	data := domain.ExtractedData{
		Amounts: []domain.KeywordAmount{
			amount("銷售額", 1000),
			amount("稅額", 50),
			amount("合計", 2000),
		},
		TaxID: &domain.TaxIDHit{TaxID: "12345678"},
	}

	result := NewValidator().Validate(data, accounts())

	if result.IsValid {
		t.Fatal("expected invalid")
	}
	var found *domain.ValidationError
	for i := range result.Errors {
		if result.Errors[i].Rule == RuleSalesTaxTotal {
			found = &result.Errors[i]
		}
	}
	if found == nil {
		t.Fatalf("no error for %s: %+v", RuleSalesTaxTotal, result.Errors)
	}
	if found.Expected != "1,050" || found.Actual != "2,000" || found.Diff != "950" {
		t.Errorf("error = %+v, want expected 1,050 actual 2,000 diff 950", found)
	}
}

func TestValidateOneUnitToleranceAccepted(t *testing.T) {
	data := domain.ExtractedData{
		Amounts: []domain.KeywordAmount{
			amount("銷售額", 1000),
			amount("稅額", 50),
			amount("總計", 1051),
		},
	}

	result := NewValidator().Validate(data, accounts())
	if !result.Details[RuleSalesTaxTotal].IsValid {
		t.Errorf("1 unit difference should pass: %+v", result.Details[RuleSalesTaxTotal])
	}
}

func TestValidateMissingAmountsReportsRequiredFields(t *testing.T) {
	result := NewValidator().Validate(domain.ExtractedData{}, accounts())

	detail := result.Details[RuleSalesTaxTotal]
	if detail.IsValid || detail.Message != "缺少必要欄位（銷售額、稅額或合計）" {
		t.Errorf("detail = %+v", detail)
	}
}

func TestValidateNoItemsIsWarningNotError(t *testing.T) {
	data := domain.ExtractedData{
		Amounts: []domain.KeywordAmount{amount("銷售額", 1000)},
	}

	result := NewValidator().Validate(data, accounts())

	detail := result.Details[RuleItemsTotal]
	if !detail.IsValid {
		t.Fatalf("no items must not fail the rule: %+v", detail)
	}
	if !hasWarning(result.Warnings, "未偵測到品項明細") {
		t.Errorf("warnings = %v", result.Warnings)
	}
}

func TestValidateItemsTotalMismatch(t *testing.T) {
	data := domain.ExtractedData{
		Amounts: []domain.KeywordAmount{amount("小計", 1000)},
		Items: []domain.LineItem{
			{Name: "品項", Amount: decimal.NewFromInt(700)},
		},
	}

	result := NewValidator().Validate(data, accounts())

	detail := result.Details[RuleItemsTotal]
	if detail.IsValid {
		t.Fatal("expected mismatch")
	}
	if detail.Diff != "-300" {
		t.Errorf("diff = %q, want -300", detail.Diff)
	}
}

func TestValidateTaxIDMatchesAnotherAccount(t *testing.T) {
	data := domain.ExtractedData{
		TaxID: &domain.TaxIDHit{TaxID: "87654321"},
	}

	result := NewValidator().Validate(data, accounts())

	detail := result.Details[RuleTaxID]
	if detail.IsValid {
		t.Fatal("expected mismatch")
	}
	if detail.Message != "統一編號不符：此為「B」的統編" {
		t.Errorf("message = %q", detail.Message)
	}
	if !hasWarning(detail.Warnings, "建議切換至帳號「B」") {
		t.Errorf("warnings = %v", detail.Warnings)
	}
	if detail.Expected != "12345678" || detail.Actual != "87654321" {
		t.Errorf("detail = %+v", detail)
	}
}

func TestValidateTaxIDUnknownMismatch(t *testing.T) {
	data := domain.ExtractedData{
		TaxID: &domain.TaxIDHit{TaxID: "11112222"},
	}

	result := NewValidator().Validate(data, accounts())

	detail := result.Details[RuleTaxID]
	if detail.IsValid || detail.Message != "統一編號不符" {
		t.Errorf("detail = %+v", detail)
	}
	if !hasWarning(detail.Warnings, "請確認是否為正確的發票") {
		t.Errorf("warnings = %v", detail.Warnings)
	}
}

func TestValidateMissingTaxIDWarnsManualCheck(t *testing.T) {
	result := NewValidator().Validate(domain.ExtractedData{}, accounts())

	detail := result.Details[RuleTaxID]
	if detail.IsValid || detail.Message != "未偵測到統一編號" {
		t.Errorf("detail = %+v", detail)
	}
	if !hasWarning(result.Warnings, "請手動確認統一編號") {
		t.Errorf("warnings = %v", result.Warnings)
	}
}

func TestValidateRunsAllRulesWithoutShortCircuit(t *testing.T) {
	result := NewValidator().Validate(domain.ExtractedData{}, domain.AccountContext{})

	if len(result.Details) != 3 {
		t.Fatalf("details = %d, want 3", len(result.Details))
	}
	if len(result.Errors) != 3 {
		t.Errorf("every rule should fail on empty input, errors = %d", len(result.Errors))
	}
}

func hasWarning(warnings []string, want string) bool {
	for _, w := range warnings {
		if w == want {
			return true
		}
	}
	return false
}
