package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
)

// DictionaryRepository stores configurable dictionaries (classification
// keywords, ROI templates) as JSONB rows keyed by dictionary name.
type DictionaryRepository struct {
	db *sql.DB
}

func NewDictionaryRepository(db *sql.DB) *DictionaryRepository {
	return &DictionaryRepository{db: db}
}

func (r *DictionaryRepository) LoadClassificationKeywords(ctx context.Context) (domain.ClassificationKeywords, error) {
	var keywords domain.ClassificationKeywords
	if err := r.load(ctx, domain.DictClassificationKeywords, &keywords); err != nil {
		return nil, err
	}
	return keywords, nil
}

func (r *DictionaryRepository) SaveClassificationKeywords(ctx context.Context, keywords domain.ClassificationKeywords) error {
	return r.save(ctx, domain.DictClassificationKeywords, keywords)
}

func (r *DictionaryRepository) LoadROITemplates(ctx context.Context) (domain.ROITemplates, error) {
	var templates domain.ROITemplates
	if err := r.load(ctx, domain.DictROITemplates, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *DictionaryRepository) SaveROITemplates(ctx context.Context, templates domain.ROITemplates) error {
	return r.save(ctx, domain.DictROITemplates, templates)
}

func (r *DictionaryRepository) load(ctx context.Context, name string, out any) error {
	row := r.db.QueryRowContext(ctx, `SELECT content FROM dictionaries WHERE name = $1`, name)

	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.WrapError(domain.ErrDictionaryNotFound, "load dictionary", fmt.Errorf("name=%s", name))
		}
		return fmt.Errorf("scan dictionary: %w", err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("unmarshal dictionary %s: %w", name, err)
	}
	return nil
}

func (r *DictionaryRepository) save(ctx context.Context, name string, content any) error {
	payload, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("marshal dictionary %s: %w", name, err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO dictionaries (name, content, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (name) DO UPDATE SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at
`, name, payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert dictionary %s: %w", name, err)
	}
	return nil
}
