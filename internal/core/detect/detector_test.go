package detect

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
)

func chunkOf(id string, texts ...string) domain.Chunk {
	lines := make([]domain.OcrLine, len(texts))
	for i, text := range texts {
		lines[i] = domain.OcrLine{Text: text, Confidence: 0.9}
	}
	return domain.Chunk{ID: id, Lines: lines, Type: domain.ChunkParagraph}
}

func invoiceChunks() []domain.Chunk {
	return []domain.Chunk{
		chunkOf("chunk_0", "統一發票", "發票號碼: AB-12345678", "日期: 2025-08-15"),
		chunkOf("chunk_1", "賣方統編 24536806"),
		chunkOf("chunk_2", "買方統編 87654321"),
		chunkOf("chunk_3", "辦公用品 NT$600", "文具 NT$400"),
		chunkOf("chunk_4", "銷售額 NT$1,000"),
		chunkOf("chunk_5", "稅額 NT$50"),
		chunkOf("chunk_6", "合計 NT$1,050"),
	}
}

func TestDetectInvoiceNumberStripsSeparators(t *testing.T) {
	record := NewDetector().DetectAllFields(invoiceChunks())

	if record.InvoiceNumber == nil {
		t.Fatal("invoice number not found")
	}
	if record.InvoiceNumber.Value != "AB12345678" {
		t.Errorf("value = %q, want AB12345678", record.InvoiceNumber.Value)
	}
	if record.InvoiceNumber.RawValue != "AB-12345678" {
		t.Errorf("raw value = %q", record.InvoiceNumber.RawValue)
	}
	if !record.InvoiceNumber.Valid {
		t.Errorf("stripped value should be valid")
	}
	// Base 0.5, top-position 0.3, label 0.2, plus OCR bonus, clipped.
	if record.InvoiceNumber.Confidence != 1.0 {
		t.Errorf("confidence = %v, want clipped 1.0", record.InvoiceNumber.Confidence)
	}
}

func TestDetectTaxIDsByRoleKeywords(t *testing.T) {
	record := NewDetector().DetectAllFields(invoiceChunks())

	if record.TaxIDs.Buyer == nil || record.TaxIDs.Seller == nil {
		t.Fatalf("tax ids = %+v", record.TaxIDs)
	}
	if record.TaxIDs.Buyer.Value != "87654321" {
		t.Errorf("buyer tax id = %q, want 87654321", record.TaxIDs.Buyer.Value)
	}
	if record.TaxIDs.Seller.Value != "12345678" {
		// The 8-digit run inside the invoice number is the first
		// seller-positioned candidate.
		t.Errorf("seller tax id = %q", record.TaxIDs.Seller.Value)
	}
	if len(record.TaxIDs.All) < 3 {
		t.Errorf("all candidates should be retained, got %d", len(record.TaxIDs.All))
	}
}

func TestDetectTaxIDPositionFallback(t *testing.T) {
	chunks := []domain.Chunk{
		chunkOf("chunk_0", "12345678"),
		chunkOf("chunk_1", "中間文字"),
		chunkOf("chunk_2", "中間文字"),
		chunkOf("chunk_3", "87654321"),
	}
	record := NewDetector().DetectAllFields(chunks)

	if record.TaxIDs.Seller == nil || record.TaxIDs.Seller.Value != "12345678" {
		t.Errorf("top id should default to seller, got %+v", record.TaxIDs.Seller)
	}
	if record.TaxIDs.Buyer == nil || record.TaxIDs.Buyer.Value != "87654321" {
		t.Errorf("bottom id should default to buyer, got %+v", record.TaxIDs.Buyer)
	}
}

func TestDetectAmountsBoostWhenReconciled(t *testing.T) {
	record := NewDetector().DetectAllFields(invoiceChunks())

	if record.Amounts.Sales == nil || !record.Amounts.Sales.Value.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("sales = %+v", record.Amounts.Sales)
	}
	if record.Amounts.Tax == nil || !record.Amounts.Tax.Value.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("tax = %+v", record.Amounts.Tax)
	}
	if record.Amounts.Total == nil || !record.Amounts.Total.Value.Equal(decimal.NewFromInt(1050)) {
		t.Fatalf("total = %+v", record.Amounts.Total)
	}

	for name, match := range map[string]*domain.AmountMatch{
		"sales": record.Amounts.Sales,
		"tax":   record.Amounts.Tax,
		"total": record.Amounts.Total,
	} {
		if match.Confidence != 0.95 {
			t.Errorf("%s confidence = %v, want reconciled boost 0.95", name, match.Confidence)
		}
	}
}

func TestDetectAmountsZeroDoesNotDisplace(t *testing.T) {
	chunks := []domain.Chunk{
		chunkOf("chunk_0", "合計 NT$1,050"),
		chunkOf("chunk_1", "合計 NT$0"),
	}
	record := NewDetector().DetectAllFields(chunks)

	if record.Amounts.Total == nil || !record.Amounts.Total.Value.Equal(decimal.NewFromInt(1050)) {
		t.Errorf("zero amount displaced the total: %+v", record.Amounts.Total)
	}

	chunks = []domain.Chunk{
		chunkOf("chunk_0", "合計 NT$1,050"),
		chunkOf("chunk_1", "總計 NT$2,000"),
	}
	record = NewDetector().DetectAllFields(chunks)
	if !record.Amounts.Total.Value.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("positive later amount should displace, got %s", record.Amounts.Total.Value)
	}
}

func TestDetectDateConvertsROCYear(t *testing.T) {
	chunks := []domain.Chunk{chunkOf("chunk_0", "開立日期 114年8月15日")}
	record := NewDetector().DetectAllFields(chunks)

	if record.Date == nil {
		t.Fatal("date not found")
	}
	if record.Date.Value != "2025-08-15" {
		t.Errorf("date = %q, want 2025-08-15", record.Date.Value)
	}
}

func TestDetectItemsTable(t *testing.T) {
	record := NewDetector().DetectAllFields(invoiceChunks())

	if record.ItemsTable == nil {
		t.Fatal("items table not found")
	}
	if len(record.ItemsTable.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(record.ItemsTable.Items))
	}
	if record.ItemsTable.Items[0].Name != "辦公用品" {
		t.Errorf("item name = %q", record.ItemsTable.Items[0].Name)
	}
	if !record.ItemsTable.Items[1].Amount.Equal(decimal.NewFromInt(400)) {
		t.Errorf("item amount = %s", record.ItemsTable.Items[1].Amount)
	}
}

func TestDetectNamesStripKeywordAndColon(t *testing.T) {
	chunks := []domain.Chunk{chunkOf("chunk_0", "買受人: 測試股份有限公司")}
	record := NewDetector().DetectAllFields(chunks)

	if record.Names.Buyer == nil {
		t.Fatal("buyer name not found")
	}
	if record.Names.Buyer.Value != "測試股份有限公司" {
		t.Errorf("buyer name = %q", record.Names.Buyer.Value)
	}
	if record.Names.Buyer.Confidence != 0.7 {
		t.Errorf("confidence = %v, want 0.7", record.Names.Buyer.Confidence)
	}
}

func TestOverallConfidenceZeroWhenNothingFound(t *testing.T) {
	record := NewDetector().DetectAllFields([]domain.Chunk{chunkOf("chunk_0", "一般文字")})
	if record.OverallConfidence != 0 {
		t.Errorf("overall confidence = %v, want 0", record.OverallConfidence)
	}
}

func TestAnnotateChunksIsPureAndIdempotent(t *testing.T) {
	detector := NewDetector()
	chunks := invoiceChunks()
	record := detector.DetectAllFields(chunks)

	once := detector.AnnotateChunks(chunks, record)

	for _, chunk := range chunks {
		if chunk.FieldType != "" {
			t.Fatalf("input chunks must not be mutated, %s got %s", chunk.ID, chunk.FieldType)
		}
	}

	twice := detector.AnnotateChunks(once, record)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("annotation is not idempotent")
	}

	tagged := make(map[domain.FieldType]bool)
	for _, chunk := range once {
		tagged[chunk.FieldType] = true
	}
	for _, want := range []domain.FieldType{
		domain.FieldInvoiceNumber,
		domain.FieldItemsTable,
		domain.FieldSalesAmount,
		domain.FieldTaxAmount,
		domain.FieldTotalAmount,
	} {
		if !tagged[want] {
			t.Errorf("no chunk tagged %s", want)
		}
	}
}
