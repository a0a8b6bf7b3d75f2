package repository

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"SemiDash/internal/domain/models"
	"SemiDash/internal/domain/repository"
)

// FileStaticMetrics serves hand-maintained domain metrics from a YAML file
// keyed by entity id. The file is re-read on every call so edits show up on
// the next aggregation without a restart.
type FileStaticMetrics struct {
	path string
	mu   sync.Mutex
}

// NewFileStaticMetrics creates a static metrics source backed by path.
func NewFileStaticMetrics(path string) repository.StaticMetricsSource {
	return &FileStaticMetrics{path: path}
}

// Read returns the metrics for entityID. A missing file or unknown id yields
// an empty slice.
func (s *FileStaticMetrics) Read(entityID string) ([]models.DomainMetric, error) {
	all, err := s.load()
	if err != nil {
		return nil, err
	}
	metrics := all[entityID]
	if metrics == nil {
		return []models.DomainMetric{}, nil
	}
	return metrics, nil
}

func (s *FileStaticMetrics) load() (map[string][]models.DomainMetric, error) {
	if s.path == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read static metrics: %w", err)
	}

	var out map[string][]models.DomainMetric
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse static metrics %s: %w", s.path, err)
	}
	return out, nil
}
