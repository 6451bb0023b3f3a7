package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/wenlipeng/invoice-scanner/internal/core/classify"
	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
	"github.com/wenlipeng/invoice-scanner/internal/core/ports"
	"github.com/wenlipeng/invoice-scanner/internal/core/roi"
)

// DictionaryUseCase serves and edits the classification keywords and
// ROI templates. A store miss falls back to the built-in defaults and
// seeds the store with them.
type DictionaryUseCase struct {
	store ports.DictionaryStore
}

func NewDictionaryUseCase(store ports.DictionaryStore) *DictionaryUseCase {
	return &DictionaryUseCase{store: store}
}

func (uc *DictionaryUseCase) ClassificationKeywords(ctx context.Context) (domain.ClassificationKeywords, error) {
	keywords, err := uc.store.LoadClassificationKeywords(ctx)
	if err == nil {
		return keywords, nil
	}
	if !domain.IsKind(err, domain.ErrDictionaryNotFound) {
		return nil, fmt.Errorf("load classification keywords: %w", err)
	}

	keywords = classify.DefaultKeywords()
	if err := uc.store.SaveClassificationKeywords(ctx, keywords); err != nil {
		return nil, fmt.Errorf("seed default classification keywords: %w", err)
	}
	return keywords, nil
}

func (uc *DictionaryUseCase) AddKeywords(ctx context.Context, docType domain.DocType, newKeywords []string) (domain.ClassificationKeywords, error) {
	if len(newKeywords) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "add keywords", fmt.Errorf("empty keyword list"))
	}

	keywords, err := uc.ClassificationKeywords(ctx)
	if err != nil {
		return nil, err
	}

	set := keywords[docType]
	if set.Weight == 0 {
		set.Weight = 1.0
	}
	for _, keyword := range newKeywords {
		if keyword == "" || slices.Contains(set.Keywords, keyword) {
			continue
		}
		set.Keywords = append(set.Keywords, keyword)
	}
	keywords[docType] = set

	if err := uc.store.SaveClassificationKeywords(ctx, keywords); err != nil {
		return nil, fmt.Errorf("save classification keywords: %w", err)
	}
	return keywords, nil
}

func (uc *DictionaryUseCase) ROITemplates(ctx context.Context) (domain.ROITemplates, error) {
	templates, err := uc.store.LoadROITemplates(ctx)
	if err == nil {
		return templates, nil
	}
	if !domain.IsKind(err, domain.ErrDictionaryNotFound) {
		return nil, fmt.Errorf("load roi templates: %w", err)
	}

	templates = roi.DefaultTemplates()
	if err := uc.store.SaveROITemplates(ctx, templates); err != nil {
		return nil, fmt.Errorf("seed default roi templates: %w", err)
	}
	return templates, nil
}

func (uc *DictionaryUseCase) DefineROIField(ctx context.Context, docType domain.DocType, fieldName string, template domain.ROIFieldTemplate) (domain.ROITemplates, error) {
	if fieldName == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "define roi field", fmt.Errorf("empty field name"))
	}

	templates, err := uc.ROITemplates(ctx)
	if err != nil {
		return nil, err
	}

	if templates[docType] == nil {
		templates[docType] = make(map[string]domain.ROIFieldTemplate)
	}
	templates[docType][fieldName] = template

	if err := uc.store.SaveROITemplates(ctx, templates); err != nil {
		return nil, fmt.Errorf("save roi templates: %w", err)
	}
	return templates, nil
}

func (uc *DictionaryUseCase) ResetToDefaults(ctx context.Context) error {
	if err := uc.store.SaveClassificationKeywords(ctx, classify.DefaultKeywords()); err != nil {
		return fmt.Errorf("reset classification keywords: %w", err)
	}
	if err := uc.store.SaveROITemplates(ctx, roi.DefaultTemplates()); err != nil {
		return fmt.Errorf("reset roi templates: %w", err)
	}
	return nil
}
