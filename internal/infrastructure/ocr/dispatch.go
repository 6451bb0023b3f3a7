// Package ocr routes recognition requests to the right backend:
// born-digital PDFs use their embedded text layer, everything else
// goes through the OCR sidecar.
package ocr

import (
	"context"
	"io"
	"strings"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
	"github.com/wenlipeng/invoice-scanner/internal/core/ports"
)

type Dispatcher struct {
	image ports.OCRProvider
	pdf   ports.OCRProvider
}

func NewDispatcher(image, pdf ports.OCRProvider) *Dispatcher {
	return &Dispatcher{image: image, pdf: pdf}
}

func (d *Dispatcher) Recognize(ctx context.Context, doc *domain.Document, body io.Reader) (*domain.OcrResult, *domain.PageImage, error) {
	if isPDF(doc) {
		return d.pdf.Recognize(ctx, doc, body)
	}
	return d.image.Recognize(ctx, doc, body)
}

func isPDF(doc *domain.Document) bool {
	if strings.EqualFold(doc.MimeType, "application/pdf") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(doc.Filename), ".pdf")
}
