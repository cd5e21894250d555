package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/shelfmatch/backend/internal/domain"
)

const listStoresQuery = `
	SELECT id, name, address, website, store_type, contact_email,
	       niche_estimate, signals, evidence_urls, base_score
	FROM stores
	ORDER BY id`

// PostgresRepository reads the catalog from the stores table
type PostgresRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresRepository opens a connection to PostgreSQL, waits for it to answer,
// and makes sure the stores table exists.
func NewPostgresRepository(ctx context.Context, dsn string, logger *zap.Logger) (*PostgresRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		logger.Warn("postgres not ready", zap.Int("attempt", i+1), zap.Error(err))
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	repo := &PostgresRepository{db: db, logger: logger}
	if err := repo.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return repo, nil
}

// NewPostgresRepositoryFromDB wraps an existing handle without migrating
func NewPostgresRepositoryFromDB(db *sql.DB, logger *zap.Logger) *PostgresRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresRepository{db: db, logger: logger}
}

func (r *PostgresRepository) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS stores (
			id             TEXT PRIMARY KEY,
			name           TEXT          NOT NULL,
			address        TEXT          NOT NULL DEFAULT '',
			website        TEXT          NOT NULL DEFAULT '',
			store_type     TEXT          NOT NULL DEFAULT '',
			contact_email  TEXT          NOT NULL DEFAULT '',
			niche_estimate TEXT          NOT NULL DEFAULT '',
			signals        TEXT[]        NOT NULL DEFAULT '{}',
			evidence_urls  TEXT[]        NOT NULL DEFAULT '{}',
			base_score     NUMERIC(4,3)  NOT NULL DEFAULT 0
				CHECK (base_score >= 0 AND base_score <= 1),
			updated_at     TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_stores_address ON stores(lower(address));
	`)
	return err
}

// ListStores loads every store row
func (r *PostgresRepository) ListStores(ctx context.Context) ([]domain.StoreCandidate, error) {
	rows, err := r.db.QueryContext(ctx, listStoresQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: postgres: query stores: %v", domain.ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	var records []StoreRecord
	for rows.Next() {
		var rec StoreRecord
		if err := rows.Scan(
			&rec.ID, &rec.Name, &rec.Address, &rec.Website, &rec.StoreType, &rec.ContactEmail,
			&rec.NicheEstimate, pq.Array(&rec.Signals), pq.Array(&rec.EvidenceURLs), &rec.BaseScore,
		); err != nil {
			return nil, fmt.Errorf("%w: postgres: scan store: %v", domain.ErrCatalogUnavailable, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: postgres: iterate stores: %v", domain.ErrCatalogUnavailable, err)
	}

	r.logger.Debug("loaded catalog from postgres", zap.Int("stores", len(records)))
	return MapRecords(records)
}

// UpsertStores writes stores in batches, replacing rows with the same id
func (r *PostgresRepository) UpsertStores(ctx context.Context, stores []domain.StoreCandidate) error {
	const batchSize = 50
	for i := 0; i < len(stores); i += batchSize {
		end := min(i+batchSize, len(stores))
		if err := r.upsertBatch(ctx, stores[i:end]); err != nil {
			return fmt.Errorf("postgres: upsert stores: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) upsertBatch(ctx context.Context, batch []domain.StoreCandidate) error {
	query, args := buildUpsert(batch)
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// buildUpsert renders a multi-row INSERT ... ON CONFLICT statement for batch
func buildUpsert(batch []domain.StoreCandidate) (string, []interface{}) {
	const cols = 10
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, s := range batch {
		placeholders := make([]string, cols)
		for c := 0; c < cols; c++ {
			placeholders[c] = fmt.Sprintf("$%d", idx*cols+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			s.ID, s.Name, s.AddressText, s.Website, s.StoreType, s.ContactEmail,
			s.NicheEstimate, pq.Array(s.Signals), pq.Array(s.EvidenceURLs), s.BaseScore)
	}

	query := fmt.Sprintf(`
		INSERT INTO stores (id, name, address, website, store_type, contact_email,
		                    niche_estimate, signals, evidence_urls, base_score)
		VALUES %s
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			website = EXCLUDED.website,
			store_type = EXCLUDED.store_type,
			contact_email = EXCLUDED.contact_email,
			niche_estimate = EXCLUDED.niche_estimate,
			signals = EXCLUDED.signals,
			evidence_urls = EXCLUDED.evidence_urls,
			base_score = EXCLUDED.base_score,
			updated_at = NOW()
	`, strings.Join(valueStrings, ","))

	return query, valueArgs
}

// Close releases the connection pool
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
