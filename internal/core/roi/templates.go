package roi

import "github.com/wenlipeng/invoice-scanner/internal/core/domain"

// DefaultTemplates returns the built-in ROI templates per document
// type. Patterns are stored as strings so the templates round-trip
// through the dictionary store.
func DefaultTemplates() domain.ROITemplates {
	return domain.ROITemplates{
		domain.DocInvoice: {
			"invoiceNumber": {
				Region:    domain.RegionTopRight,
				Whitelist: "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789",
				Keywords:  []string{"發票號碼", "字軌", "發票字軌"},
				Pattern:   `[A-Z]{2}\d{8}`,
			},
			"buyerTaxId": {
				Region:    domain.RegionMiddleLeft,
				Whitelist: "0123456789",
				Keywords:  []string{"買受人", "買方統編", "統一編號"},
				Pattern:   `\d{8}`,
			},
			"sellerTaxId": {
				Region:    domain.RegionTopLeft,
				Whitelist: "0123456789",
				Keywords:  []string{"賣方統編", "賣方", "統一編號"},
				Pattern:   `\d{8}`,
			},
			"salesAmount": {
				Region:    domain.RegionBottomLeft,
				Whitelist: "0123456789.,",
				Keywords:  []string{"銷售額", "應稅銷售額", "小計"},
				Pattern:   `[\d,]+(?:\.\d{1,2})?`,
			},
			"taxAmount": {
				Region:    domain.RegionBottomLeft,
				Whitelist: "0123456789.,",
				Keywords:  []string{"稅額", "營業稅"},
				Pattern:   `[\d,]+(?:\.\d{1,2})?`,
			},
			"totalAmount": {
				Region:    domain.RegionBottomRight,
				Whitelist: "0123456789.,",
				Keywords:  []string{"總計", "合計", "總金額"},
				Pattern:   `[\d,]+(?:\.\d{1,2})?`,
			},
		},
		domain.DocUtility: {
			"accountNumber": {
				Region:    domain.RegionTopLeft,
				Whitelist: "0123456789-",
				Keywords:  []string{"電號", "水號", "戶號", "用戶號碼"},
				Pattern:   `[\d-]+`,
			},
			"dueDate": {
				Region:    domain.RegionTopRight,
				Whitelist: "0123456789/-年月日",
				Keywords:  []string{"繳費期限", "到期日", "截止日"},
				Pattern:   `\d{4}[-\/年]\d{1,2}[-\/月]\d{1,2}[日]?`,
			},
			"amountDue": {
				Region:    domain.RegionBottomRight,
				Whitelist: "0123456789.,",
				Keywords:  []string{"本期應繳", "應繳金額", "總計", "合計"},
				Pattern:   `[\d,]+(?:\.\d{1,2})?`,
			},
			"usage": {
				Region:    domain.RegionMiddle,
				Whitelist: "0123456789.",
				Keywords:  []string{"本期用量", "度數", "用電度數", "用水度數"},
				Pattern:   `[\d.]+`,
			},
		},
		domain.DocLaborHealth: {
			"insuranceFee": {
				Region:    domain.RegionMiddleRight,
				Whitelist: "0123456789.,",
				Keywords:  []string{"保險費合計", "應繳金額", "合計", "總計"},
				Pattern:   `[\d,]+(?:\.\d{1,2})?`,
			},
			"paymentNumber": {
				Region:    domain.RegionTopRight,
				Whitelist: "0123456789",
				Keywords:  []string{"繳款書號", "繳款單號", "單號"},
				Pattern:   `\d+`,
			},
			"insuredSalary": {
				Region:    domain.RegionMiddle,
				Whitelist: "0123456789.,",
				Keywords:  []string{"投保薪資", "月投保薪資"},
				Pattern:   `[\d,]+`,
			},
		},
	}
}
