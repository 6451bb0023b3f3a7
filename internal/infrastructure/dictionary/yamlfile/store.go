// Package yamlfile keeps the editable dictionaries in YAML files so
// operators can review and version them alongside deployment config.
package yamlfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
)

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if dir == "" {
		dir = "./data/dictionaries"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dictionary dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) LoadClassificationKeywords(_ context.Context) (domain.ClassificationKeywords, error) {
	var keywords domain.ClassificationKeywords
	if err := s.load(domain.DictClassificationKeywords, &keywords); err != nil {
		return nil, err
	}
	return keywords, nil
}

func (s *Store) SaveClassificationKeywords(_ context.Context, keywords domain.ClassificationKeywords) error {
	return s.save(domain.DictClassificationKeywords, keywords)
}

func (s *Store) LoadROITemplates(_ context.Context) (domain.ROITemplates, error) {
	var templates domain.ROITemplates
	if err := s.load(domain.DictROITemplates, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (s *Store) SaveROITemplates(_ context.Context, templates domain.ROITemplates) error {
	return s.save(domain.DictROITemplates, templates)
}

func (s *Store) load(name string, out any) error {
	raw, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.WrapError(domain.ErrDictionaryNotFound, "load dictionary", fmt.Errorf("name=%s", name))
		}
		return fmt.Errorf("read dictionary %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse dictionary %s: %w", name, err)
	}
	return nil
}

func (s *Store) save(name string, content any) error {
	raw, err := yaml.Marshal(content)
	if err != nil {
		return fmt.Errorf("encode dictionary %s: %w", name, err)
	}

	// Write-then-rename so a crashed save never truncates a dictionary.
	tmp := s.path(name) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write dictionary %s: %w", name, err)
	}
	if err := os.Rename(tmp, s.path(name)); err != nil {
		return fmt.Errorf("replace dictionary %s: %w", name, err)
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".yaml")
}
