package domain

// StoreCandidate is a retail store supplied by the catalog. The engine treats it as read-only.
type StoreCandidate struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	AddressText   string   `json:"addressText" yaml:"addressText"`
	Website       string   `json:"website,omitempty" yaml:"website,omitempty"`
	StoreType     string   `json:"storeType,omitempty" yaml:"storeType,omitempty"`
	ContactEmail  string   `json:"contactEmail,omitempty" yaml:"contactEmail,omitempty"`
	NicheEstimate string   `json:"nicheEstimate,omitempty" yaml:"nicheEstimate,omitempty"`
	Signals       []string `json:"signals" yaml:"signals"`
	EvidenceURLs  []string `json:"evidenceUrls" yaml:"evidenceUrls"`
	BaseScore     float64  `json:"baseScore" yaml:"baseScore"` // Catalog prior 0-1
}

// ScoreBreakdown holds the normalized sub-scores behind a match score
type ScoreBreakdown struct {
	CatalogPrior  float64 `json:"catalogPrior"`
	Alignment     float64 `json:"alignment"`
	Certification float64 `json:"certification"`
}

// MatchResult is one ranked store for a seller profile
type MatchResult struct {
	Store          *StoreCandidate `json:"store"`
	MatchScore     float64         `json:"matchScore"` // 0-1
	MatchedSignals []string        `json:"matchedSignals"`
	Breakdown      ScoreBreakdown  `json:"breakdown"`
	Rank           int             `json:"rank"`
}
