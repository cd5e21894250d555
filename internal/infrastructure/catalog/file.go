package catalog

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/shelfmatch/backend/internal/domain"
)

// catalogFile is the on-disk layout. JSON files parse too since YAML is a superset.
type catalogFile struct {
	Stores []StoreRecord `yaml:"stores"`
}

// FileRepository reads the catalog from a YAML or JSON file on every call
type FileRepository struct {
	path   string
	logger *zap.Logger
}

// NewFileRepository creates a catalog backed by the file at path
func NewFileRepository(path string, logger *zap.Logger) *FileRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileRepository{path: path, logger: logger}
}

// ListStores parses the catalog file
func (r *FileRepository) ListStores(ctx context.Context) ([]domain.StoreCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrCatalogUnavailable, r.path, err)
	}

	stores, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}

	r.logger.Debug("loaded catalog file", zap.String("path", r.path), zap.Int("stores", len(stores)))
	return stores, nil
}

// ParseCatalog decodes a YAML/JSON catalog document
func ParseCatalog(data []byte) ([]domain.StoreCandidate, error) {
	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding catalog: %v", domain.ErrCatalogUnavailable, err)
	}
	return MapRecords(doc.Stores)
}
