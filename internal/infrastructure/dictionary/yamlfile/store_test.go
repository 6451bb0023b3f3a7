package yamlfile

import (
	"context"
	"testing"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
)

func TestLoadMissingDictionary(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = store.LoadClassificationKeywords(context.Background())
	if !domain.IsKind(err, domain.ErrDictionaryNotFound) {
		t.Fatalf("error = %v, want dictionary not found", err)
	}
}

func TestKeywordsRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	keywords := domain.ClassificationKeywords{
		domain.DocInvoice: {Keywords: []string{"統一發票", "營業人"}, Weight: 1.0},
		domain.DocUtility: {Keywords: []string{"台灣電力"}, Weight: 1.0},
	}
	if err := store.SaveClassificationKeywords(ctx, keywords); err != nil {
		t.Fatalf("SaveClassificationKeywords() error = %v", err)
	}

	got, err := store.LoadClassificationKeywords(ctx)
	if err != nil {
		t.Fatalf("LoadClassificationKeywords() error = %v", err)
	}
	if len(got[domain.DocInvoice].Keywords) != 2 || got[domain.DocUtility].Keywords[0] != "台灣電力" {
		t.Errorf("keywords = %+v", got)
	}
}

func TestTemplatesRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	templates := domain.ROITemplates{
		domain.DocInvoice: {
			"invoiceNumber": {
				Region:    domain.RegionTopRight,
				Whitelist: "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-",
				Keywords:  []string{"發票號碼"},
				Pattern:   `[A-Z]{2}-?\d{8}`,
			},
		},
	}
	if err := store.SaveROITemplates(ctx, templates); err != nil {
		t.Fatalf("SaveROITemplates() error = %v", err)
	}

	got, err := store.LoadROITemplates(ctx)
	if err != nil {
		t.Fatalf("LoadROITemplates() error = %v", err)
	}
	tmpl := got[domain.DocInvoice]["invoiceNumber"]
	if tmpl.Region != domain.RegionTopRight || tmpl.Pattern != `[A-Z]{2}-?\d{8}` {
		t.Errorf("template = %+v", tmpl)
	}
}
