package detect

import "github.com/wenlipeng/invoice-scanner/internal/core/domain"

// AnnotateChunks returns a new chunk slice with field types attached.
// The input is never mutated, so annotating twice with the same record
// yields the same result. When several fields resolve to one chunk the
// more specific field wins: items table first, then amounts, date, tax
// ids, and finally the invoice number.
func (d *Detector) AnnotateChunks(chunks []domain.Chunk, record domain.FieldRecord) []domain.Chunk {
	annotated := make([]domain.Chunk, len(chunks))
	byID := make(map[string]*domain.Chunk, len(chunks))
	for i, chunk := range chunks {
		chunk.FieldType = domain.FieldOther
		chunk.FieldInfo = nil
		annotated[i] = chunk
		byID[chunk.ID] = &annotated[i]
	}

	tag := func(chunkID string, fieldType domain.FieldType, info *domain.FieldMatch) {
		if chunk, ok := byID[chunkID]; ok {
			chunk.FieldType = fieldType
			chunk.FieldInfo = info
		}
	}

	if record.ItemsTable != nil {
		tag(record.ItemsTable.ChunkID, domain.FieldItemsTable, &domain.FieldMatch{
			ChunkID:    record.ItemsTable.ChunkID,
			Confidence: record.ItemsTable.Confidence,
			Type:       domain.FieldItemsTable,
			Valid:      true,
		})
	}

	for _, amount := range []*domain.AmountMatch{record.Amounts.Sales, record.Amounts.Tax, record.Amounts.Total} {
		if amount == nil {
			continue
		}
		tag(amount.ChunkID, amount.Type, &domain.FieldMatch{
			Value:      amount.Value.String(),
			RawValue:   amount.Keyword,
			ChunkID:    amount.ChunkID,
			Confidence: amount.Confidence,
			Type:       amount.Type,
			Valid:      true,
		})
	}

	if record.Date != nil {
		tag(record.Date.ChunkID, domain.FieldDate, record.Date)
	}
	if record.TaxIDs.Buyer != nil {
		tag(record.TaxIDs.Buyer.ChunkID, domain.FieldTaxIDBuyer, record.TaxIDs.Buyer)
	}
	if record.TaxIDs.Seller != nil {
		tag(record.TaxIDs.Seller.ChunkID, domain.FieldTaxIDSeller, record.TaxIDs.Seller)
	}
	if record.InvoiceNumber != nil {
		tag(record.InvoiceNumber.ChunkID, domain.FieldInvoiceNumber, record.InvoiceNumber)
	}

	return annotated
}
