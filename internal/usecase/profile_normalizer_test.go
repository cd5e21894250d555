package usecase

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shelfmatch/backend/internal/domain"
)

func validRaw() *domain.RawSubmission {
	return &domain.RawSubmission{
		YourName:        " Ana Ruiz ",
		YourEmail:       "ana@example.com",
		BusinessName:    "Ruiz Foods",
		ProductName:     "Chili Crunch Chips",
		ProductCategory: "Snacks",
		BrandStory:      "Small-batch chips from Queens.",
		AgreedToTerms:   true,
	}
}

func TestNormalizeProfile(t *testing.T) {
	t.Run("minimal submission", func(t *testing.T) {
		profile, err := NormalizeProfile(validRaw())
		if err != nil {
			t.Fatalf("NormalizeProfile() error = %v", err)
		}

		if profile.ProductCategory != domain.CategorySnacks {
			t.Errorf("ProductCategory = %q, want snacks", profile.ProductCategory)
		}
		if profile.Seller.Name != "Ana Ruiz" {
			t.Errorf("Seller.Name = %q, want trimmed name", profile.Seller.Name)
		}
		if profile.PriceBand != nil {
			t.Errorf("PriceBand = %+v, want nil", profile.PriceBand)
		}

		sets := map[string][]string{
			"StorageRequirements": profile.StorageRequirements,
			"Certifications":      profile.Certifications,
			"PreferredRegions":    profile.PreferredRegions,
			"PreferredStoreTypes": profile.PreferredStoreTypes,
			"DesiredTraits":       profile.DesiredTraits,
		}
		for name, set := range sets {
			if set == nil || len(set) != 0 {
				t.Errorf("%s = %#v, want empty non-nil set", name, set)
			}
		}
	})

	t.Run("full submission", func(t *testing.T) {
		raw := validRaw()
		raw.MSRP = "$8 - $12"
		raw.StorageRequirements = []string{"Shelf Stable", "refrigerated", "ambient"}
		raw.Certifications = []string{"Organic", "Gluten Free", "plant-based", "Fair Trade", "organic"}
		raw.NYCNeighborhoods = []string{" Williamsburg", "Lower East Side", "williamsburg", ""}
		raw.StoreTypes = []string{"Specialty grocers"}
		raw.StoreTraits = []string{"Local/NYC-focused", "High-end/curated pricing"}

		profile, err := NormalizeProfile(raw)
		if err != nil {
			t.Fatalf("NormalizeProfile() error = %v", err)
		}

		checks := []struct {
			name string
			got  []string
			want []string
		}{
			{"storage", profile.StorageRequirements, []string{"refrigerated", "shelf-stable"}},
			{"certifications", profile.Certifications, []string{"fair trade", "gluten-free", "organic", "vegan"}},
			{"regions", profile.PreferredRegions, []string{"lower east side", "williamsburg"}},
			{"store types", profile.PreferredStoreTypes, []string{"specialty grocers"}},
			{"traits", profile.DesiredTraits, []string{"high-end/curated pricing", "local/nyc-focused"}},
		}
		for _, c := range checks {
			if !reflect.DeepEqual(c.got, c.want) {
				t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
			}
		}

		if profile.PriceBand == nil || profile.PriceBand.Min != 8 || profile.PriceBand.Max != 12 {
			t.Errorf("PriceBand = %+v, want 8-12", profile.PriceBand)
		}
	})

	t.Run("reports every missing field", func(t *testing.T) {
		raw := &domain.RawSubmission{ProductName: "Chips", ProductCategory: "snacks", BrandStory: "   "}

		_, err := NormalizeProfile(raw)

		var validationErr *domain.ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("error = %v, want ValidationError", err)
		}
		want := []string{"yourName", "yourEmail", "businessName", "brandStory", "agreedToTerms"}
		if !reflect.DeepEqual(validationErr.Fields, want) {
			t.Errorf("Fields = %v, want %v", validationErr.Fields, want)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		raw := validRaw()
		raw.ProductCategory = "furniture"

		_, err := NormalizeProfile(raw)

		var validationErr *domain.ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("error = %v, want ValidationError", err)
		}
		if !reflect.DeepEqual(validationErr.Fields, []string{"productCategory"}) {
			t.Errorf("Fields = %v, want [productCategory]", validationErr.Fields)
		}
	})

	t.Run("nil submission", func(t *testing.T) {
		_, err := NormalizeProfile(nil)
		var validationErr *domain.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("error = %v, want ValidationError", err)
		}
	})
}

func TestDecodeSubmission(t *testing.T) {
	t.Run("weakly typed form values", func(t *testing.T) {
		raw, err := DecodeSubmission(map[string]interface{}{
			"yourName":         "Ana",
			"productCategory":  "pantry",
			"certifications":   "organic",
			"nycNeighborhoods": []interface{}{"Greenpoint", "Bushwick"},
			"agreedToTerms":    "true",
			"unknownField":     42,
		})
		if err != nil {
			t.Fatalf("DecodeSubmission() error = %v", err)
		}

		if !reflect.DeepEqual(raw.Certifications, []string{"organic"}) {
			t.Errorf("Certifications = %v, want [organic]", raw.Certifications)
		}
		if !reflect.DeepEqual(raw.NYCNeighborhoods, []string{"Greenpoint", "Bushwick"}) {
			t.Errorf("NYCNeighborhoods = %v", raw.NYCNeighborhoods)
		}
		if !raw.AgreedToTerms {
			t.Error("AgreedToTerms = false, want true")
		}
	})

	t.Run("undecodable value", func(t *testing.T) {
		_, err := DecodeSubmission(map[string]interface{}{
			"storeTypes": map[string]interface{}{"a": 1},
		})

		var validationErr *domain.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("error = %v, want ValidationError", err)
		}
	})
}
