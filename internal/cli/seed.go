package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shelfmatch/backend/internal/infrastructure/catalog"
)

func newSeedCommand(opts *options) *cobra.Command {
	var (
		file string
		dsn  string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a catalog file into the PostgreSQL stores table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if dsn == "" {
				cfg, err := opts.loadConfig()
				if err != nil {
					return err
				}
				dsn = cfg.Catalog.DSN
			}
			if dsn == "" {
				return errors.New("no database DSN: pass --dsn or set SHELFMATCH_CATALOG_DSN")
			}

			stores, err := catalog.NewFileRepository(file, opts.logger).ListStores(ctx)
			if err != nil {
				return err
			}

			repo, err := catalog.NewPostgresRepository(ctx, dsn, opts.logger)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.UpsertStores(ctx, stores); err != nil {
				return err
			}

			opts.logger.Info("catalog seeded", zap.String("file", file), zap.Int("stores", len(stores)))
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d stores\n", len(stores))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "./data/catalog.yaml", "catalog YAML/JSON file to load")
	cmd.Flags().StringVar(&dsn, "dsn", "", "PostgreSQL DSN (defaults to catalog.dsn from config)")

	return cmd
}
