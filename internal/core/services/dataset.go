package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lore-cli/internal/datasets"
	"github.com/custodia-labs/lore-cli/internal/logger"
)

// Ensure DatasetService implements the interface.
var _ driving.DatasetService = (*DatasetService)(nil)

// DatasetService keeps one active dataset and drives row-level analysis
// through the assistant.
type DatasetService struct {
	mu        sync.RWMutex
	active    *domain.Dataset
	assistant driving.AssistantService

	// randIntN is swappable for deterministic tests.
	randIntN func(n int) int
}

// NewDatasetService creates a dataset service. The assistant is used
// for row analysis and may be nil when only loading is needed.
func NewDatasetService(assistant driving.AssistantService) *DatasetService {
	return &DatasetService{
		assistant: assistant,
		randIntN:  rand.IntN,
	}
}

// Load parses a dataset file and makes it the active dataset.
func (s *DatasetService) Load(_ context.Context, path string) (*domain.Dataset, error) {
	ds, err := datasets.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	s.mu.Lock()
	s.active = ds
	s.mu.Unlock()

	logger.Info("Loaded dataset %s: %d rows, %d columns (%s)",
		path, ds.TotalRows(), len(ds.Columns), ds.Format)
	return ds, nil
}

// Active returns the currently loaded dataset.
func (s *DatasetService) Active() (*domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.active == nil {
		return nil, fmt.Errorf("no dataset loaded: %w", domain.ErrNotFound)
	}
	return s.active, nil
}

// Row returns the row at index, bounds-checked.
func (s *DatasetService) Row(index int) (domain.DatasetRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.active == nil {
		return nil, fmt.Errorf("no dataset loaded: %w", domain.ErrNotFound)
	}
	if index < 0 || index >= s.active.TotalRows() {
		return nil, fmt.Errorf("row %d out of range (dataset has %d rows): %w",
			index, s.active.TotalRows(), domain.ErrInvalidInput)
	}
	return s.active.Rows[index], nil
}

// RandomRow returns a uniformly random row of the active dataset.
func (s *DatasetService) RandomRow() (domain.DatasetRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.active == nil {
		return nil, fmt.Errorf("no dataset loaded: %w", domain.ErrNotFound)
	}
	if s.active.TotalRows() == 0 {
		return nil, fmt.Errorf("dataset has no rows: %w", domain.ErrNotFound)
	}
	return s.active.Rows[s.randIntN(s.active.TotalRows())], nil
}

// Analyze runs the analysis prompt over the selected row. A negative
// index selects a random row.
func (s *DatasetService) Analyze(ctx context.Context, index int, iterations int) (string, error) {
	if s.assistant == nil {
		return "", fmt.Errorf("analyze: %w", domain.ErrLLMUnavailable)
	}

	var row domain.DatasetRow
	var err error
	if index < 0 {
		row, err = s.RandomRow()
	} else {
		row, err = s.Row(index)
	}
	if err != nil {
		return "", err
	}

	logger.Debug("Analysing row (index=%d, iterations=%d)", index, iterations)
	return s.assistant.AnalyzeRow(ctx, row, iterations)
}
