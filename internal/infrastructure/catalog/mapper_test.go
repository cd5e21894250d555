package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmatch/backend/internal/domain"
)

func TestMapToStoreCandidate(t *testing.T) {
	store := MapToStoreCandidate(StoreRecord{
		ID:            " bk-001 ",
		Name:          " Franklin Market ",
		Address:       "130 Franklin St, Greenpoint",
		NicheEstimate: "  Health grocer ",
		Signals:       []string{"Organic produce", "  ", " Vegan case "},
		EvidenceURLs:  nil,
		BaseScore:     1.4,
	})

	assert.Equal(t, "bk-001", store.ID)
	assert.Equal(t, "Franklin Market", store.Name)
	assert.Equal(t, "130 Franklin St, Greenpoint", store.AddressText)
	assert.Equal(t, "Health grocer", store.NicheEstimate)
	assert.Equal(t, []string{"Organic produce", "Vegan case"}, store.Signals)
	assert.NotNil(t, store.EvidenceURLs)
	assert.Empty(t, store.EvidenceURLs)
	assert.Equal(t, 1.4, store.BaseScore, "scores pass through unclamped")
}

func TestMapRecords(t *testing.T) {
	t.Run("keeps order", func(t *testing.T) {
		stores, err := MapRecords([]StoreRecord{{ID: "b", Name: "B"}, {ID: "a", Name: "A"}})
		require.NoError(t, err)
		require.Len(t, stores, 2)
		assert.Equal(t, "b", stores[0].ID)
		assert.Equal(t, "a", stores[1].ID)
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		_, err := MapRecords([]StoreRecord{{ID: "a"}, {ID: "b"}, {ID: " a"}})
		require.ErrorIs(t, err, domain.ErrDuplicateStoreID)
		assert.Contains(t, err.Error(), "entries 0 and 2")
	})

	t.Run("rejects missing id", func(t *testing.T) {
		_, err := MapRecords([]StoreRecord{{Name: "Nameless"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has no id")
	})

	t.Run("empty input", func(t *testing.T) {
		stores, err := MapRecords(nil)
		require.NoError(t, err)
		assert.NotNil(t, stores)
		assert.Empty(t, stores)
	})
}
