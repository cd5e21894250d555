package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shelfmatch/backend/internal/domain"
)

var (
	// priceNumberRegex captures numeric amounts such as "5", "5.50", ".99" or "1,200"
	priceNumberRegex = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?|\.\d+`)
	// rangeSeparatorRegex matches the text allowed between the two ends of a range
	rangeSeparatorRegex = regexp.MustCompile(`^\s*(?:-|–|—|to)\s*\$?\s*$`)
)

// ParsePriceBand extracts a price range from a free-text MSRP.
// Examples:
//
//	"$5.50"      → 5.50-5.50
//	"$8–12"      → 8-12
//	"$8 to $12"  → 8-12
//	"call us"    → nil
func ParsePriceBand(raw string) *domain.PriceBand {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return nil
	}

	locs := priceNumberRegex.FindAllStringIndex(raw, -1)
	if len(locs) == 0 {
		return nil
	}

	low, ok := parseAmount(raw[locs[0][0]:locs[0][1]])
	if !ok {
		return nil
	}
	high := low

	if len(locs) >= 2 && rangeSeparatorRegex.MatchString(raw[locs[0][1]:locs[1][0]]) {
		if v, ok := parseAmount(raw[locs[1][0]:locs[1][1]]); ok {
			high = v
		}
	}

	if high < low {
		low, high = high, low
	}

	return &domain.PriceBand{Min: low, Max: high}
}

func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
