package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmatch/backend/internal/domain"
)

const sampleYAML = `stores:
  - id: bk-001
    name: Franklin Market
    address: 130 Franklin St, Greenpoint, Brooklyn
    store_type: Health-oriented stores
    contact_email: hello@franklin.example.com
    niche_estimate: Health grocer
    signals:
      - Organic produce
      - Plant-based freezer case
    evidence_urls:
      - https://franklin.example.com
    base_score: 0.68
  - id: mn-001
    name: Orchard Goods
    address: 88 Orchard St, Lower East Side
    base_score: 0.5
`

func writeCatalog(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileRepository_YAML(t *testing.T) {
	repo := NewFileRepository(writeCatalog(t, "catalog.yaml", sampleYAML), nil)

	stores, err := repo.ListStores(context.Background())

	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, "Franklin Market", stores[0].Name)
	assert.Equal(t, "130 Franklin St, Greenpoint, Brooklyn", stores[0].AddressText)
	assert.Equal(t, "Health-oriented stores", stores[0].StoreType)
	assert.Equal(t, []string{"Organic produce", "Plant-based freezer case"}, stores[0].Signals)
	assert.Equal(t, 0.68, stores[0].BaseScore)
	assert.Empty(t, stores[1].Signals)
}

func TestFileRepository_JSON(t *testing.T) {
	const doc = `{"stores": [{"id": "x", "name": "X", "address": "Bushwick", "signals": ["Indie brands"], "base_score": 0.3}]}`
	repo := NewFileRepository(writeCatalog(t, "catalog.json", doc), nil)

	stores, err := repo.ListStores(context.Background())

	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, "Bushwick", stores[0].AddressText)
	assert.Equal(t, []string{"Indie brands"}, stores[0].Signals)
}

func TestFileRepository_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		repo := NewFileRepository(filepath.Join(t.TempDir(), "none.yaml"), nil)
		_, err := repo.ListStores(ctx)
		assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	})

	t.Run("malformed document", func(t *testing.T) {
		repo := NewFileRepository(writeCatalog(t, "bad.yaml", "stores: [unclosed"), nil)
		_, err := repo.ListStores(ctx)
		assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	})

	t.Run("duplicate ids", func(t *testing.T) {
		doc := "stores:\n  - id: a\n    name: A\n  - id: a\n    name: B\n"
		repo := NewFileRepository(writeCatalog(t, "dup.yaml", doc), nil)
		_, err := repo.ListStores(ctx)
		assert.ErrorIs(t, err, domain.ErrDuplicateStoreID)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		repo := NewFileRepository(writeCatalog(t, "catalog.yaml", sampleYAML), nil)
		_, err := repo.ListStores(cctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSampleCatalogParses(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "..", "data", "catalog.yaml"))
	require.NoError(t, err)

	stores, err := ParseCatalog(data)
	require.NoError(t, err)
	assert.NotEmpty(t, stores)
	for _, s := range stores {
		assert.GreaterOrEqual(t, s.BaseScore, 0.0, s.ID)
		assert.LessOrEqual(t, s.BaseScore, 1.0, s.ID)
	}
}
