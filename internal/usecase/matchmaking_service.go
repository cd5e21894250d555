package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shelfmatch/backend/internal/domain"
)

// catalogCacheKey is the cache slot holding the last catalog snapshot
const catalogCacheKey = "catalog:snapshot"

// MatchmakingServiceConfig holds configuration for the matchmaking service
type MatchmakingServiceConfig struct {
	CatalogTTL         time.Duration
	Weights            Weights
	EnableDebugLogging bool
}

// MatchOutcome is everything produced for one submission
type MatchOutcome struct {
	Profile     *domain.SellerProfile
	Matches     []domain.MatchResult
	CatalogSize int
}

// MatchmakingService runs one intake submission through normalization,
// catalog retrieval and the matching engine.
type MatchmakingService struct {
	cache      domain.CacheRepository
	catalog    domain.CatalogRepository
	engine     *MatchingService
	catalogTTL time.Duration
	logger     *zap.Logger
}

// NewMatchmakingService creates a new matchmaking service with dependencies
func NewMatchmakingService(
	cache domain.CacheRepository,
	catalog domain.CatalogRepository,
	config MatchmakingServiceConfig,
	logger *zap.Logger,
) (*MatchmakingService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	engine, err := NewMatchingService(MatchConfig{
		Weights:            config.Weights,
		EnableDebugLogging: config.EnableDebugLogging,
		Logger:             logger,
	})
	if err != nil {
		return nil, err
	}

	catalogTTL := config.CatalogTTL
	if catalogTTL == 0 {
		catalogTTL = 15 * time.Minute
	}

	return &MatchmakingService{
		cache:      cache,
		catalog:    catalog,
		engine:     engine,
		catalogTTL: catalogTTL,
		logger:     logger,
	}, nil
}

// Engine exposes the configured matching engine
func (s *MatchmakingService) Engine() *MatchingService {
	return s.engine
}

// FindMatches normalizes a submission and ranks the catalog for it.
// Flow: normalize -> catalog (cache first) -> match
func (s *MatchmakingService) FindMatches(ctx context.Context, raw *domain.RawSubmission) (*MatchOutcome, error) {
	profile, err := NormalizeProfile(raw)
	if err != nil {
		return nil, err
	}

	stores, err := s.Stores(ctx)
	if err != nil {
		return nil, err
	}

	matches, err := s.engine.Match(profile, stores)
	if err != nil {
		return nil, err
	}

	s.logger.Info("matched seller profile",
		zap.String("business", profile.Seller.BusinessName),
		zap.String("category", string(profile.ProductCategory)),
		zap.Strings("regions", profile.PreferredRegions),
		zap.Int("catalog_size", len(stores)),
		zap.Int("matches", len(matches)),
	)

	return &MatchOutcome{
		Profile:     profile,
		Matches:     matches,
		CatalogSize: len(stores),
	}, nil
}

// Stores returns the materialized catalog, served from cache while fresh
func (s *MatchmakingService) Stores(ctx context.Context) ([]domain.StoreCandidate, error) {
	if cached, err := s.getFromCache(ctx); err == nil {
		return cached, nil
	}

	stores, err := s.catalog.ListStores(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if errors.Is(err, domain.ErrCatalogUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}

	if err := s.cache.Set(ctx, catalogCacheKey, stores, s.catalogTTL); err != nil {
		s.logger.Warn("caching catalog snapshot failed", zap.Error(err))
	}

	return stores, nil
}

// InvalidateCatalog drops the cached snapshot so the next request reloads it
func (s *MatchmakingService) InvalidateCatalog(ctx context.Context) error {
	return s.cache.Delete(ctx, catalogCacheKey)
}

func (s *MatchmakingService) getFromCache(ctx context.Context) ([]domain.StoreCandidate, error) {
	value, err := s.cache.Get(ctx, catalogCacheKey)
	if err != nil {
		return nil, err
	}

	stores, ok := value.([]domain.StoreCandidate)
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return stores, nil
}
