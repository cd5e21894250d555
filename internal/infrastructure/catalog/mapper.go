package catalog

import (
	"fmt"
	"strings"

	"github.com/shelfmatch/backend/internal/domain"
)

// StoreRecord is the snake_case layout shared by catalog files, the remote catalog API and the stores table
type StoreRecord struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Address       string   `json:"address" yaml:"address"`
	Website       string   `json:"website" yaml:"website"`
	StoreType     string   `json:"store_type" yaml:"store_type"`
	ContactEmail  string   `json:"contact_email" yaml:"contact_email"`
	NicheEstimate string   `json:"niche_estimate" yaml:"niche_estimate"`
	Signals       []string `json:"signals" yaml:"signals"`
	EvidenceURLs  []string `json:"evidence_urls" yaml:"evidence_urls"`
	BaseScore     float64  `json:"base_score" yaml:"base_score"`
}

// MapToStoreCandidate converts a catalog record to the domain model.
// Text is trimmed and blank list entries dropped; numeric values are passed through untouched.
func MapToStoreCandidate(r StoreRecord) domain.StoreCandidate {
	return domain.StoreCandidate{
		ID:            strings.TrimSpace(r.ID),
		Name:          strings.TrimSpace(r.Name),
		AddressText:   strings.TrimSpace(r.Address),
		Website:       strings.TrimSpace(r.Website),
		StoreType:     strings.TrimSpace(r.StoreType),
		ContactEmail:  strings.TrimSpace(r.ContactEmail),
		NicheEstimate: strings.TrimSpace(r.NicheEstimate),
		Signals:       compact(r.Signals),
		EvidenceURLs:  compact(r.EvidenceURLs),
		BaseScore:     r.BaseScore,
	}
}

// MapRecords converts records and enforces unique, non-empty ids
func MapRecords(records []StoreRecord) ([]domain.StoreCandidate, error) {
	stores := make([]domain.StoreCandidate, 0, len(records))
	seen := make(map[string]int, len(records))

	for i, r := range records {
		store := MapToStoreCandidate(r)
		if store.ID == "" {
			return nil, fmt.Errorf("catalog entry %d (%q) has no id", i, store.Name)
		}
		if first, dup := seen[store.ID]; dup {
			return nil, fmt.Errorf("%w: %q at entries %d and %d", domain.ErrDuplicateStoreID, store.ID, first, i)
		}
		seen[store.ID] = i
		stores = append(stores, store)
	}

	return stores, nil
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
