package ocr

import (
	"context"
	"io"
	"testing"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
)

type providerFake struct {
	calls int
}

func (f *providerFake) Recognize(context.Context, *domain.Document, io.Reader) (*domain.OcrResult, *domain.PageImage, error) {
	f.calls++
	return &domain.OcrResult{Lines: []domain.OcrLine{{Text: "x"}}}, &domain.PageImage{}, nil
}

func TestDispatcherRoutesByDocumentKind(t *testing.T) {
	image := &providerFake{}
	pdf := &providerFake{}
	dispatcher := NewDispatcher(image, pdf)

	cases := []struct {
		name    string
		doc     domain.Document
		wantPDF bool
	}{
		{"png mime", domain.Document{Filename: "a.png", MimeType: "image/png"}, false},
		{"pdf mime", domain.Document{Filename: "a.bin", MimeType: "application/pdf"}, true},
		{"pdf extension", domain.Document{Filename: "invoice.PDF", MimeType: "application/octet-stream"}, true},
		{"jpeg", domain.Document{Filename: "b.jpg", MimeType: "image/jpeg"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			imageBefore, pdfBefore := image.calls, pdf.calls
			if _, _, err := dispatcher.Recognize(context.Background(), &tc.doc, nil); err != nil {
				t.Fatalf("Recognize() error = %v", err)
			}
			if tc.wantPDF && pdf.calls != pdfBefore+1 {
				t.Errorf("pdf backend not used")
			}
			if !tc.wantPDF && image.calls != imageBefore+1 {
				t.Errorf("image backend not used")
			}
		})
	}
}
