package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shelfmatch/backend/config"
	"github.com/shelfmatch/backend/internal/domain"
	"github.com/shelfmatch/backend/internal/logger"
)

// Open builds the catalog source selected by cfg. The returned close func is never nil.
func Open(ctx context.Context, cfg config.CatalogConfig, requestsPerMinute int, debug bool, log *zap.Logger) (domain.CatalogRepository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Source {
	case config.CatalogSourceFile, "":
		log.Info("catalog source: file", zap.String("path", cfg.Path))
		return NewFileRepository(cfg.Path, log), noop, nil

	case config.CatalogSourcePostgres:
		repo, err := NewPostgresRepository(ctx, cfg.DSN, log)
		if err != nil {
			return nil, noop, err
		}
		log.Info("catalog source: postgres")
		return repo, repo.Close, nil

	case config.CatalogSourceRemote:
		client := NewRemoteClient(cfg.APIKey, cfg.URL, requestsPerMinute, log)
		client.SetDebug(debug)
		log.Info("catalog source: remote",
			zap.String("url", cfg.URL),
			zap.String("api_key", logger.MaskSecret(cfg.APIKey, 4)),
			zap.Int("requests_per_minute", requestsPerMinute),
		)
		return client, noop, nil
	}

	return nil, noop, fmt.Errorf("unknown catalog source %q", cfg.Source)
}
