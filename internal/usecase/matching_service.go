package usecase

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/shelfmatch/backend/internal/domain"
)

// weightSumTolerance absorbs float rounding in configured weights
const weightSumTolerance = 1e-6

// Weights are the relative contributions of the three sub-scores.
// They must each be within [0,1] and sum to 1.
type Weights struct {
	CatalogPrior  float64 `mapstructure:"catalog_prior" json:"catalogPrior"`  // w1
	Alignment     float64 `mapstructure:"alignment" json:"alignment"`         // w2
	Certification float64 `mapstructure:"certification" json:"certification"` // w3
}

// DefaultWeights returns the weights used when none are configured
func DefaultWeights() Weights {
	return Weights{CatalogPrior: 0.4, Alignment: 0.3, Certification: 0.3}
}

// IsZero reports whether no weight has been set
func (w Weights) IsZero() bool {
	return w == Weights{}
}

// Validate checks ranges and the unit sum
func (w Weights) Validate() error {
	named := []struct {
		name  string
		value float64
	}{
		{"catalog_prior", w.CatalogPrior},
		{"alignment", w.Alignment},
		{"certification", w.Certification},
	}
	for _, n := range named {
		if math.IsNaN(n.value) || n.value < 0 || n.value > 1 {
			return fmt.Errorf("%w: %s=%v must be within [0,1]", domain.ErrInvalidWeights, n.name, n.value)
		}
	}
	sum := w.CatalogPrior + w.Alignment + w.Certification
	if math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %v, want 1.0", domain.ErrInvalidWeights, sum)
	}
	return nil
}

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	Weights            Weights
	EnableDebugLogging bool
	Logger             *zap.Logger
}

// MatchingService filters, scores and ranks catalog stores for a seller profile.
// It keeps no per-request state and is safe for concurrent use.
type MatchingService struct {
	weights            Weights
	enableDebugLogging bool
	logger             *zap.Logger
}

// NewMatchingService creates a new matching service with the given configuration.
// Zero weights select DefaultWeights; any other set must validate.
func NewMatchingService(config MatchConfig) (*MatchingService, error) {
	weights := config.Weights
	if weights.IsZero() {
		weights = DefaultWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MatchingService{
		weights:            weights,
		enableDebugLogging: config.EnableDebugLogging,
		logger:             logger,
	}, nil
}

// Weights returns the active scoring weights
func (s *MatchingService) Weights() Weights {
	return s.weights
}

// profileTerms is the per-request vocabulary derived from a profile
type profileTerms struct {
	regions        []string
	alignment      []term
	certifications []term
	signalKeywords []string
}

func buildProfileTerms(profile *domain.SellerProfile) profileTerms {
	var pt profileTerms

	for _, r := range profile.PreferredRegions {
		if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
			pt.regions = append(pt.regions, r)
		}
	}

	for _, trait := range profile.DesiredTraits {
		if strings.TrimSpace(trait) == "" {
			continue
		}
		t := traitTerm(trait)
		pt.alignment = append(pt.alignment, t)
		pt.signalKeywords = append(pt.signalKeywords, t.keywords...)
	}
	if t, ok := categoryTerm(profile.ProductCategory); ok {
		pt.alignment = append(pt.alignment, t)
		pt.signalKeywords = append(pt.signalKeywords, t.keywords...)
	}

	for _, cert := range profile.Certifications {
		if strings.TrimSpace(cert) == "" {
			continue
		}
		t := certificationTerm(cert)
		pt.certifications = append(pt.certifications, t)
		pt.signalKeywords = append(pt.signalKeywords, t.keywords...)
	}
	pt.signalKeywords = uniqueStrings(pt.signalKeywords)

	return pt
}

// Match returns every eligible store ranked by match score.
// An empty slice means no store passed the region filter.
func (s *MatchingService) Match(profile *domain.SellerProfile, catalog []domain.StoreCandidate) ([]domain.MatchResult, error) {
	if profile == nil {
		return nil, &domain.InvalidProfileError{Reason: "profile is nil"}
	}
	if profile.ProductCategory == "" {
		return nil, &domain.InvalidProfileError{Reason: "product category is required"}
	}
	if !profile.ProductCategory.IsValid() {
		return nil, &domain.InvalidProfileError{
			Reason: fmt.Sprintf("unknown product category %q", profile.ProductCategory),
		}
	}

	terms := buildProfileTerms(profile)
	results := make([]domain.MatchResult, 0, len(catalog))
	seen := make(map[string]bool, len(catalog))

	for i := range catalog {
		store := &catalog[i]
		if store.ID != "" {
			if seen[store.ID] {
				s.logger.Debug("duplicate store id ignored", zap.String("store_id", store.ID))
				continue
			}
			seen[store.ID] = true
		}

		if !isEligible(store, terms.regions) {
			continue
		}

		breakdown := s.scoreBreakdown(store, terms)
		score := clamp01(s.weights.CatalogPrior*breakdown.CatalogPrior +
			s.weights.Alignment*breakdown.Alignment +
			s.weights.Certification*breakdown.Certification)

		if s.enableDebugLogging {
			s.logger.Debug("scored store",
				zap.String("store", store.Name),
				zap.Float64("score", score),
				zap.Float64("prior", breakdown.CatalogPrior),
				zap.Float64("alignment", breakdown.Alignment),
				zap.Float64("certification", breakdown.Certification),
			)
		}

		results = append(results, domain.MatchResult{
			Store:          store,
			MatchScore:     score,
			MatchedSignals: extractSignals(store.Signals, terms.signalKeywords),
			Breakdown:      breakdown,
		})
	}

	slices.SortFunc(results, compareResults)
	for i := range results {
		results[i].Rank = i + 1
	}

	return results, nil
}

// isEligible applies the region rule: no regions means everything passes,
// otherwise the address must contain one of them as a case-insensitive substring.
func isEligible(store *domain.StoreCandidate, regions []string) bool {
	if len(regions) == 0 {
		return true
	}
	address := strings.ToLower(store.AddressText)
	for _, region := range regions {
		if strings.Contains(address, region) {
			return true
		}
	}
	return false
}

// scoreBreakdown computes the three normalized sub-scores for one store
func (s *MatchingService) scoreBreakdown(store *domain.StoreCandidate, terms profileTerms) domain.ScoreBreakdown {
	signals := make([]string, 0, len(store.Signals))
	for _, sig := range store.Signals {
		signals = append(signals, strings.ToLower(sig))
	}

	corpus := signals
	if niche := strings.TrimSpace(store.NicheEstimate); niche != "" {
		corpus = append([]string{strings.ToLower(niche)}, signals...)
	}

	return domain.ScoreBreakdown{
		CatalogPrior:  clamp01(store.BaseScore),
		Alignment:     coverage(terms.alignment, corpus),
		Certification: coverage(terms.certifications, signals),
	}
}

// coverage is the fraction of terms found in the texts, zero for no terms
func coverage(terms []term, texts []string) float64 {
	if len(terms) == 0 || len(texts) == 0 {
		return 0
	}
	found := 0
	for _, t := range terms {
		if t.foundIn(texts) {
			found++
		}
	}
	return float64(found) / float64(len(terms))
}

// extractSignals keeps the signals mentioning any profile keyword, in source order
func extractSignals(signals []string, keywords []string) []string {
	matched := make([]string, 0, len(signals))
	for _, sig := range signals {
		lower := strings.ToLower(sig)
		for _, kw := range keywords {
			if containsKeyword(lower, kw) {
				matched = append(matched, sig)
				break
			}
		}
	}
	return matched
}

// compareResults orders by score, then catalog prior, then name and id
func compareResults(a, b domain.MatchResult) int {
	if a.MatchScore != b.MatchScore {
		if a.MatchScore > b.MatchScore {
			return -1
		}
		return 1
	}
	if pa, pb := priorKey(a.Store.BaseScore), priorKey(b.Store.BaseScore); pa != pb {
		if pa > pb {
			return -1
		}
		return 1
	}
	if c := strings.Compare(strings.ToLower(a.Store.Name), strings.ToLower(b.Store.Name)); c != 0 {
		return c
	}
	return strings.Compare(a.Store.ID, b.Store.ID)
}

// priorKey orders a NaN base score below every real one
func priorKey(v float64) float64 {
	if math.IsNaN(v) {
		return math.Inf(-1)
	}
	return v
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
