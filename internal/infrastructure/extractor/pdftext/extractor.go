// Package pdftext pulls the embedded text layer out of born-digital
// PDFs so they skip the OCR engine entirely. The produced lines carry
// no geometry; the layout stage fabricates reading-order boxes for
// them.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Recognize reads every page's text rows in order. Extracted text is
// trusted, so confidence is fixed at 1.0 and nothing is flagged for
// review.
func (e *Extractor) Recognize(ctx context.Context, doc *domain.Document, body io.Reader) (*domain.OcrResult, *domain.PageImage, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, nil, fmt.Errorf("read pdf bytes: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, nil, domain.WrapError(domain.ErrInvalidInput, "parse pdf", err)
	}

	result := &domain.OcrResult{Confidence: 1.0}
	var builder strings.Builder

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, nil, fmt.Errorf("extract text from page %d: %w", pageNum, err)
		}
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				if text := strings.TrimSpace(word.S); text != "" {
					parts = append(parts, text)
				}
			}
			if len(parts) == 0 {
				continue
			}
			line := strings.Join(parts, " ")
			result.Lines = append(result.Lines, domain.OcrLine{Text: line, Confidence: 1.0})
			builder.WriteString(line)
			builder.WriteString("\n")
		}
	}

	if len(result.Lines) == 0 {
		return nil, nil, domain.WrapError(domain.ErrInvalidInput, "extract pdf text", fmt.Errorf("no text layer in %s", doc.Filename))
	}
	result.Text = strings.TrimSpace(builder.String())

	image := &domain.PageImage{StorageKey: doc.StoragePath}
	return result, image, nil
}
