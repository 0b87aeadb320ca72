package driving

import (
	"context"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
)

// DatasetService loads tabular datasets and drives row-level analysis.
type DatasetService interface {
	// Load parses a dataset file (json, jsonl, csv or tsv by
	// extension) and keeps it as the active dataset.
	Load(ctx context.Context, path string) (*domain.Dataset, error)

	// Active returns the currently loaded dataset, or
	// domain.ErrNotFound when none is loaded.
	Active() (*domain.Dataset, error)

	// Row returns the row at index, bounds-checked.
	Row(index int) (domain.DatasetRow, error)

	// RandomRow returns a uniformly random row.
	RandomRow() (domain.DatasetRow, error)

	// Analyze runs the analysis prompt over the selected row.
	// A negative index selects a random row. Iterations are clamped
	// to the configured maximum.
	Analyze(ctx context.Context, index int, iterations int) (string, error)
}
