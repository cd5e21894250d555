package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shelfmatch/backend/internal/domain"
)

// fakeCache is a map-backed CacheRepository that records TTLs
type fakeCache struct {
	data   map[string]interface{}
	ttls   map[string]time.Duration
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]interface{}{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Get(ctx context.Context, key string) (interface{}, error) {
	v, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.data[key]
	return ok, nil
}

// fakeCatalog counts ListStores calls
type fakeCatalog struct {
	stores []domain.StoreCandidate
	err    error
	calls  int
}

func (c *fakeCatalog) ListStores(ctx context.Context) ([]domain.StoreCandidate, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.stores, nil
}

func sampleStores() []domain.StoreCandidate {
	return []domain.StoreCandidate{
		{ID: "gp", Name: "Franklin Market", AddressText: "Greenpoint, Brooklyn", Signals: []string{"Organic snacks"}, BaseScore: 0.6},
		{ID: "ev", Name: "St. Marks Natural", AddressText: "East Village, New York", Signals: []string{"Vegan snacks"}, BaseScore: 0.5},
	}
}

func newTestMatchmaking(t *testing.T, cache domain.CacheRepository, catalog domain.CatalogRepository) *MatchmakingService {
	t.Helper()
	svc, err := NewMatchmakingService(cache, catalog, MatchmakingServiceConfig{}, nil)
	if err != nil {
		t.Fatalf("NewMatchmakingService() error = %v", err)
	}
	return svc
}

func TestNewMatchmakingService(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		svc := newTestMatchmaking(t, newFakeCache(), &fakeCatalog{})
		if svc.catalogTTL != 15*time.Minute {
			t.Errorf("catalogTTL = %v, want 15m", svc.catalogTTL)
		}
		if svc.Engine().Weights() != DefaultWeights() {
			t.Errorf("engine weights = %+v, want defaults", svc.Engine().Weights())
		}
	})

	t.Run("invalid weights", func(t *testing.T) {
		_, err := NewMatchmakingService(newFakeCache(), &fakeCatalog{}, MatchmakingServiceConfig{
			Weights: Weights{CatalogPrior: 0.9, Alignment: 0.9},
		}, nil)
		if !errors.Is(err, domain.ErrInvalidWeights) {
			t.Errorf("error = %v, want ErrInvalidWeights", err)
		}
	})
}

func TestFindMatches(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes and ranks", func(t *testing.T) {
		catalog := &fakeCatalog{stores: sampleStores()}
		svc := newTestMatchmaking(t, newFakeCache(), catalog)

		raw := validRaw()
		raw.NYCNeighborhoods = []string{"Greenpoint"}
		raw.Certifications = []string{"organic"}

		outcome, err := svc.FindMatches(ctx, raw)
		if err != nil {
			t.Fatalf("FindMatches() error = %v", err)
		}
		if outcome.CatalogSize != 2 {
			t.Errorf("CatalogSize = %d, want 2", outcome.CatalogSize)
		}
		if len(outcome.Matches) != 1 || outcome.Matches[0].Store.ID != "gp" {
			t.Errorf("Matches = %+v, want only gp", outcome.Matches)
		}
		if outcome.Profile.PreferredRegions[0] != "greenpoint" {
			t.Errorf("Profile regions = %v", outcome.Profile.PreferredRegions)
		}
	})

	t.Run("validation error skips the catalog", func(t *testing.T) {
		catalog := &fakeCatalog{stores: sampleStores()}
		svc := newTestMatchmaking(t, newFakeCache(), catalog)

		_, err := svc.FindMatches(ctx, &domain.RawSubmission{})

		var validationErr *domain.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("error = %v, want ValidationError", err)
		}
		if catalog.calls != 0 {
			t.Errorf("catalog calls = %d, want 0", catalog.calls)
		}
	})

	t.Run("catalog failure is wrapped", func(t *testing.T) {
		boom := errors.New("connection refused")
		svc := newTestMatchmaking(t, newFakeCache(), &fakeCatalog{err: boom})

		_, err := svc.FindMatches(ctx, validRaw())
		if !errors.Is(err, domain.ErrCatalogUnavailable) {
			t.Errorf("error = %v, want ErrCatalogUnavailable", err)
		}
		if !errors.Is(err, boom) {
			t.Errorf("error = %v, want cause preserved", err)
		}
	})

	t.Run("context errors pass through", func(t *testing.T) {
		svc := newTestMatchmaking(t, newFakeCache(), &fakeCatalog{err: context.DeadlineExceeded})

		_, err := svc.FindMatches(ctx, validRaw())
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("error = %v, want DeadlineExceeded", err)
		}
		if errors.Is(err, domain.ErrCatalogUnavailable) {
			t.Errorf("error = %v, should not be ErrCatalogUnavailable", err)
		}
	})
}

func TestStores_Cache(t *testing.T) {
	ctx := context.Background()

	t.Run("second call is served from cache", func(t *testing.T) {
		cache := newFakeCache()
		catalog := &fakeCatalog{stores: sampleStores()}
		svc := newTestMatchmaking(t, cache, catalog)

		for i := 0; i < 3; i++ {
			if _, err := svc.Stores(ctx); err != nil {
				t.Fatalf("Stores() error = %v", err)
			}
		}
		if catalog.calls != 1 {
			t.Errorf("catalog calls = %d, want 1", catalog.calls)
		}
		if cache.ttls[catalogCacheKey] != 15*time.Minute {
			t.Errorf("cached with ttl %v, want 15m", cache.ttls[catalogCacheKey])
		}
	})

	t.Run("invalidate forces a reload", func(t *testing.T) {
		catalog := &fakeCatalog{stores: sampleStores()}
		svc := newTestMatchmaking(t, newFakeCache(), catalog)

		if _, err := svc.Stores(ctx); err != nil {
			t.Fatalf("Stores() error = %v", err)
		}
		if err := svc.InvalidateCatalog(ctx); err != nil {
			t.Fatalf("InvalidateCatalog() error = %v", err)
		}
		if _, err := svc.Stores(ctx); err != nil {
			t.Fatalf("Stores() error = %v", err)
		}
		if catalog.calls != 2 {
			t.Errorf("catalog calls = %d, want 2", catalog.calls)
		}
	})

	t.Run("cache write failure is not fatal", func(t *testing.T) {
		cache := newFakeCache()
		cache.setErr = errors.New("cache full")
		svc := newTestMatchmaking(t, cache, &fakeCatalog{stores: sampleStores()})

		stores, err := svc.Stores(ctx)
		if err != nil {
			t.Fatalf("Stores() error = %v", err)
		}
		if len(stores) != 2 {
			t.Errorf("len(stores) = %d, want 2", len(stores))
		}
	})

	t.Run("foreign cache value is treated as a miss", func(t *testing.T) {
		cache := newFakeCache()
		cache.data[catalogCacheKey] = "not a catalog"
		catalog := &fakeCatalog{stores: sampleStores()}
		svc := newTestMatchmaking(t, cache, catalog)

		if _, err := svc.Stores(ctx); err != nil {
			t.Fatalf("Stores() error = %v", err)
		}
		if catalog.calls != 1 {
			t.Errorf("catalog calls = %d, want 1", catalog.calls)
		}
	})
}
