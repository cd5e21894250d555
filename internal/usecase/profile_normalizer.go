package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/shelfmatch/backend/internal/domain"
)

// DecodeSubmission turns a loosely-typed form payload into a RawSubmission.
// A single string is accepted where a list is expected; unknown keys are ignored.
func DecodeSubmission(input map[string]interface{}) (*domain.RawSubmission, error) {
	var raw domain.RawSubmission
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &raw,
	})
	if err != nil {
		return nil, fmt.Errorf("creating submission decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return nil, &domain.ValidationError{Reason: err.Error()}
	}
	return &raw, nil
}

// NormalizeProfile builds the canonical SellerProfile for a submission.
// Only hard-required fields can fail; everything else degrades to an absent constraint.
func NormalizeProfile(raw *domain.RawSubmission) (*domain.SellerProfile, error) {
	if raw == nil {
		return nil, &domain.ValidationError{Reason: "empty submission"}
	}

	var missing []string
	required := []struct {
		field string
		value string
	}{
		{"yourName", raw.YourName},
		{"yourEmail", raw.YourEmail},
		{"businessName", raw.BusinessName},
		{"productName", raw.ProductName},
		{"productCategory", raw.ProductCategory},
		{"brandStory", raw.BrandStory},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.field)
		}
	}
	if !raw.AgreedToTerms {
		missing = append(missing, "agreedToTerms")
	}
	if len(missing) > 0 {
		return nil, &domain.ValidationError{Fields: missing}
	}

	category := domain.ProductCategory(strings.ToLower(strings.TrimSpace(raw.ProductCategory)))
	if !category.IsValid() {
		return nil, &domain.ValidationError{
			Fields: []string{"productCategory"},
			Reason: fmt.Sprintf("unsupported product category %q", raw.ProductCategory),
		}
	}

	return &domain.SellerProfile{
		Seller: domain.SellerContact{
			Name:               strings.TrimSpace(raw.YourName),
			Email:              strings.TrimSpace(raw.YourEmail),
			BusinessName:       strings.TrimSpace(raw.BusinessName),
			ProductName:        strings.TrimSpace(raw.ProductName),
			ProductSubCategory: strings.TrimSpace(raw.ProductSubCategory),
			Packaging:          strings.TrimSpace(raw.Packaging),
			Website:            strings.TrimSpace(raw.ProductWebsite),
			Instagram:          strings.TrimSpace(raw.InstagramHandle),
			OtherLinks:         strings.TrimSpace(raw.OtherLinks),
		},
		ProductCategory:     category,
		StorageRequirements: normalizeStorage(raw.StorageRequirements),
		Certifications:      normalizeCertifications(raw.Certifications),
		PriceBand:           ParsePriceBand(raw.MSRP),
		PreferredRegions:    normalizeSet(raw.NYCNeighborhoods),
		PreferredStoreTypes: normalizeSet(raw.StoreTypes),
		DesiredTraits:       normalizeSet(raw.StoreTraits),
		BrandNarrative:      strings.TrimSpace(raw.BrandStory),
	}, nil
}

// normalizeSet lower-cases, trims, de-duplicates and sorts free-text values.
// The result is never nil.
func normalizeSet(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// normalizeStorage keeps only the storage values the form offers
func normalizeStorage(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range normalizeSet(values) {
		v = strings.ReplaceAll(v, " ", "-")
		for _, known := range domain.StorageRequirements {
			if v == known {
				out = append(out, v)
				break
			}
		}
	}
	return normalizeSet(out)
}

// normalizeCertifications maps spelling variants ("Non GMO", "gluten free") onto
// the canonical values and keeps unknown certifications as lower-case text.
func normalizeCertifications(values []string) []string {
	canonical := make([]string, 0, len(values))
	for _, v := range normalizeSet(values) {
		canonical = append(canonical, canonicalCertification(v))
	}
	return normalizeSet(canonical)
}

func canonicalCertification(v string) string {
	for cert, synonyms := range certificationSynonyms {
		for _, s := range synonyms {
			if v == s {
				return cert
			}
		}
	}
	return v
}
