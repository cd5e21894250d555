// Package presenter turns ranked matches into what the seller sees:
// percent scores, a short evidence list and suggested outreach actions.
package presenter

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/shelfmatch/backend/internal/domain"
)

// MaxEvidenceLinks is how many evidence URLs are shown per store
const MaxEvidenceLinks = 3

// Outreach action kinds
const (
	ActionVisitWebsite   = "visit_website"
	ActionEmailStore     = "email_store"
	ActionReviewEvidence = "review_evidence"
)

// OutreachAction is a suggested next step for contacting a store
type OutreachAction struct {
	Kind   string `json:"kind"`
	Label  string `json:"label"`
	Target string `json:"target"`
}

// MatchView is the presentation form of one MatchResult
type MatchView struct {
	Rank           int                   `json:"rank"`
	StoreID        string                `json:"storeId"`
	Name           string                `json:"name"`
	Address        string                `json:"address"`
	StoreType      string                `json:"storeType,omitempty"`
	Website        string                `json:"website,omitempty"`
	MatchScore     float64               `json:"matchScore"`
	MatchPercent   int                   `json:"matchPercent"`
	MatchedSignals []string              `json:"matchedSignals"`
	Evidence       []string              `json:"evidence"`
	Breakdown      domain.ScoreBreakdown `json:"breakdown"`
	Actions        []OutreachAction      `json:"actions"`
}

// BuildMatchViews renders up to limit matches; limit <= 0 renders all of them
func BuildMatchViews(profile *domain.SellerProfile, matches []domain.MatchResult, limit int) []MatchView {
	if limit <= 0 || limit > len(matches) {
		limit = len(matches)
	}

	views := make([]MatchView, 0, limit)
	for _, m := range matches[:limit] {
		views = append(views, buildView(profile, m))
	}
	return views
}

func buildView(profile *domain.SellerProfile, m domain.MatchResult) MatchView {
	store := m.Store
	evidence := store.EvidenceURLs
	if len(evidence) > MaxEvidenceLinks {
		evidence = evidence[:MaxEvidenceLinks]
	}

	signals := m.MatchedSignals
	if signals == nil {
		signals = []string{}
	}

	return MatchView{
		Rank:           m.Rank,
		StoreID:        store.ID,
		Name:           store.Name,
		Address:        store.AddressText,
		StoreType:      store.StoreType,
		Website:        store.Website,
		MatchScore:     m.MatchScore,
		MatchPercent:   int(math.Round(m.MatchScore * 100)),
		MatchedSignals: signals,
		Evidence:       append([]string{}, evidence...),
		Breakdown:      m.Breakdown,
		Actions:        SuggestActions(profile, store),
	}
}

// SuggestActions lists outreach steps available for store
func SuggestActions(profile *domain.SellerProfile, store *domain.StoreCandidate) []OutreachAction {
	actions := make([]OutreachAction, 0, 3)

	if store.ContactEmail != "" {
		actions = append(actions, OutreachAction{
			Kind:   ActionEmailStore,
			Label:  "Email " + store.Name,
			Target: mailtoLink(store.ContactEmail, introSubject(profile)),
		})
	}
	if store.Website != "" {
		actions = append(actions, OutreachAction{
			Kind:   ActionVisitWebsite,
			Label:  "Visit website",
			Target: store.Website,
		})
	}
	if len(store.EvidenceURLs) > 0 {
		actions = append(actions, OutreachAction{
			Kind:   ActionReviewEvidence,
			Label:  fmt.Sprintf("Review %d source(s)", len(store.EvidenceURLs)),
			Target: store.EvidenceURLs[0],
		})
	}

	return actions
}

func introSubject(profile *domain.SellerProfile) string {
	if profile == nil || profile.Seller.ProductName == "" {
		return "Wholesale introduction"
	}
	if profile.Seller.BusinessName == "" {
		return "Introducing " + profile.Seller.ProductName
	}
	return fmt.Sprintf("Introducing %s from %s", profile.Seller.ProductName, profile.Seller.BusinessName)
}

func mailtoLink(address, subject string) string {
	q := url.Values{}
	q.Set("subject", subject)
	return "mailto:" + address + "?" + strings.ReplaceAll(q.Encode(), "+", "%20")
}

// LocationLabel describes the seller's target area the way the dashboard header shows it
func LocationLabel(profile *domain.SellerProfile) string {
	if profile == nil || len(profile.PreferredRegions) == 0 {
		return "New York, NY"
	}
	return fmt.Sprintf("New York, NY (%s)", strings.Join(profile.PreferredRegions, ", "))
}
