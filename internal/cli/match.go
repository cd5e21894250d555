package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shelfmatch/backend/internal/domain"
	"github.com/shelfmatch/backend/internal/infrastructure/cache"
	"github.com/shelfmatch/backend/internal/infrastructure/catalog"
	"github.com/shelfmatch/backend/internal/presenter"
	"github.com/shelfmatch/backend/internal/usecase"
)

type matchOptions struct {
	submission  string
	catalogPath string
	top         int
	asJSON      bool
}

func newMatchCommand(opts *options) *cobra.Command {
	mo := &matchOptions{}

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Rank catalog stores for a saved intake submission",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMatch(cmd, opts, mo)
		},
	}

	cmd.Flags().StringVarP(&mo.submission, "submission", "s", "", "intake submission JSON file")
	cmd.Flags().StringVarP(&mo.catalogPath, "catalog", "c", "", "catalog YAML/JSON file (overrides the configured source)")
	cmd.Flags().IntVarP(&mo.top, "top", "n", 10, "show at most n stores, 0 for all")
	cmd.Flags().BoolVar(&mo.asJSON, "output-json", false, "print match views as JSON")
	_ = cmd.MarkFlagRequired("submission")

	return cmd
}

func runMatch(cmd *cobra.Command, opts *options, mo *matchOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	raw, err := readSubmission(mo.submission)
	if err != nil {
		return err
	}

	repo, closeCatalog, err := openCatalog(ctx, opts, mo.catalogPath)
	if err != nil {
		return err
	}
	defer func() { _ = closeCatalog() }()

	weights, matchDebug, err := matchSettings(opts, mo.catalogPath)
	if err != nil {
		return err
	}

	memoryCache := cache.NewMemoryCache()
	defer memoryCache.Close()

	service, err := usecase.NewMatchmakingService(memoryCache, repo, usecase.MatchmakingServiceConfig{
		Weights:            weights,
		EnableDebugLogging: matchDebug || opts.debug,
	}, opts.logger)
	if err != nil {
		return err
	}

	outcome, err := service.FindMatches(ctx, raw)
	if err != nil {
		return err
	}

	views := presenter.BuildMatchViews(outcome.Profile, outcome.Matches, mo.top)
	out := cmd.OutOrStdout()

	if mo.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}
	return presenter.WriteTable(out, presenter.LocationLabel(outcome.Profile), views)
}

// readSubmission loads a submission file written by the intake command or the web form
func readSubmission(path string) (*domain.RawSubmission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading submission: %w", err)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("parsing submission %s: %w", path, err)
	}
	return usecase.DecodeSubmission(body)
}

// openCatalog uses the explicit file when given, the configured source otherwise
func openCatalog(ctx context.Context, opts *options, path string) (domain.CatalogRepository, func() error, error) {
	if path != "" {
		return catalog.NewFileRepository(path, opts.logger), func() error { return nil }, nil
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return catalog.Open(ctx, cfg.Catalog, cfg.RateLimit.Catalog, opts.debug, opts.logger)
}

// matchSettings returns configured weights, or the defaults when only a catalog file is used
func matchSettings(opts *options, catalogPath string) (usecase.Weights, bool, error) {
	if catalogPath != "" && opts.configFile == "" {
		return usecase.DefaultWeights(), false, nil
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return usecase.Weights{}, false, err
	}

	opts.logger.Debug("matching weights from config", zap.Any("weights", cfg.Matching.Weights))
	return usecase.Weights{
		CatalogPrior:  cfg.Matching.Weights.CatalogPrior,
		Alignment:     cfg.Matching.Weights.Alignment,
		Certification: cfg.Matching.Weights.Certification,
	}, cfg.Matching.EnableDebugLogging, nil
}
