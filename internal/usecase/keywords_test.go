package usecase

import (
	"reflect"
	"testing"

	"github.com/shelfmatch/backend/internal/domain"
)

func TestContainsKeyword(t *testing.T) {
	tests := []struct {
		text    string
		keyword string
		want    bool
	}{
		{"certified organic produce", "organic", true},
		{"organics aisle", "organic", true},
		{"certified-organic", "organic", true},
		{"inorganic fertilizer free", "organic", false},
		{"steak and eggs", "tea", false},
		{"team favorites", "tea", false},
		{"green tea", "tea", true},
		{"loose-leaf teas", "tea", true},
		{"steak, then tea", "tea", true},
		{"team picks and iced tea", "tea", true},
		{"hot sauces", "hot sauce", true},
		{"sandwiches", "sandwich", true},
		{"snacking", "snack", false},
		{"anything", "", false},
		{"", "tea", false},
	}

	for _, tt := range tests {
		t.Run(tt.text+"/"+tt.keyword, func(t *testing.T) {
			if got := containsKeyword(tt.text, tt.keyword); got != tt.want {
				t.Errorf("containsKeyword(%q, %q) = %v, want %v", tt.text, tt.keyword, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"Local/NYC-focused", []string{"local", "nyc-focused"}},
		{"Stores with a 24h rotation!", []string{"24h", "rotation"}},
		{"Zero-waste packaging, 100 percent", []string{"zero-waste", "packaging", "percent"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := tokenize(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTerms(t *testing.T) {
	t.Run("other category has no term", func(t *testing.T) {
		if _, ok := categoryTerm(domain.CategoryOther); ok {
			t.Error("categoryTerm(other) ok = true, want false")
		}
	})

	t.Run("category term includes its name", func(t *testing.T) {
		term, ok := categoryTerm(domain.CategoryFrozen)
		if !ok || term.keywords[0] != "frozen" {
			t.Errorf("categoryTerm(frozen) = %+v, %v", term, ok)
		}
	})

	t.Run("known certification synonyms", func(t *testing.T) {
		term := certificationTerm("Vegan")
		if !term.foundIn([]string{"plant-based freezer case"}) {
			t.Error("vegan should match plant-based")
		}
	})

	t.Run("unknown certification matches spaced form", func(t *testing.T) {
		term := certificationTerm("fair-trade")
		if !term.foundIn([]string{"fair trade coffee"}) {
			t.Error("fair-trade should match fair trade")
		}
	})

	t.Run("unknown trait falls back to tokens", func(t *testing.T) {
		term := traitTerm("Zero-waste packaging")
		if !term.foundIn([]string{"bring your own jar, zero-waste refills"}) {
			t.Error("trait tokens should match")
		}
		if term.foundIn([]string{"open late"}) {
			t.Error("trait should not match unrelated text")
		}
	})

	t.Run("form trait synonyms", func(t *testing.T) {
		term := traitTerm("Willingness to take risks on new brands")
		if !term.foundIn([]string{"loves indie makers"}) {
			t.Error("risk-taking trait should match indie")
		}
	})
}
