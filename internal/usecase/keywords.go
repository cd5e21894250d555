package usecase

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shelfmatch/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var punctuationRegex = regexp.MustCompile(`[^\w\s-]`)

// pluralSuffixes may follow a keyword without breaking the word
var pluralSuffixes = []string{"s", "es"}

// categorySynonyms maps each product category to the words stores use for it.
// The "other" category has no vocabulary and never contributes to alignment.
var categorySynonyms = map[domain.ProductCategory][]string{
	domain.CategorySnacks: {
		"snack", "chips", "crisps", "bars", "chocolate", "cookies", "crackers", "popcorn", "jerky",
	},
	domain.CategoryBeverages: {
		"beverage", "drink", "sparkling", "kombucha", "coffee", "tea", "juice", "aperitif", "soda", "tonic",
	},
	domain.CategoryCondiments: {
		"condiment", "sauce", "hot sauce", "dressing", "salsa", "spread", "mustard", "chili crisp",
	},
	domain.CategoryPantry: {
		"pantry", "pasta", "grains", "specialty ingredient", "spice", "olive oil", "flour", "dry goods",
	},
	domain.CategoryFrozen: {
		"frozen", "freezer", "ice cream", "gelato",
	},
}

// certificationSynonyms lists the alternative spellings of well-known certifications
var certificationSynonyms = map[string][]string{
	domain.CertVegan:      {"vegan", "plant-based", "plant based"},
	domain.CertGlutenFree: {"gluten-free", "gluten free"},
	domain.CertNonGMO:     {"non-gmo", "non gmo", "gmo-free"},
	domain.CertKosher:     {"kosher"},
	domain.CertOrganic:    {"organic"},
}

// traitSynonyms covers the store traits offered by the intake form.
// Keys are lower-cased trait labels.
var traitSynonyms = map[string][]string{
	"local/nyc-focused":                       {"local", "nyc", "new york", "brooklyn", "neighborhood"},
	"imported specialty focus":                {"imported", "import", "specialty"},
	"frequent rotation of new products":       {"rotation", "rotating", "new arrivals", "new products"},
	"high-end/curated pricing":                {"high-end", "curated", "premium", "upscale", "gourmet"},
	"willingness to take risks on new brands": {"emerging brands", "new brands", "indie", "small-batch", "startup"},
}

// traitStopWords are dropped when an unknown trait is split into keywords
var traitStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "with": true, "by": true, "from": true, "is": true,
	"store": true, "stores": true, "shop": true, "shops": true,
	"focus": true, "focused": true, "products": true, "product": true,
	"brand": true, "brands": true, "pricing": true, "new": true,
}

// term is one scoring unit: it counts as found when any keyword occurs
type term struct {
	label    string
	keywords []string
}

// foundIn reports whether any keyword of t occurs in one of the texts.
// Texts must already be lower-cased.
func (t term) foundIn(texts []string) bool {
	for _, text := range texts {
		for _, kw := range t.keywords {
			if containsKeyword(text, kw) {
				return true
			}
		}
	}
	return false
}

// categoryTerm returns the alignment term for a category, or false for "other"
func categoryTerm(category domain.ProductCategory) (term, bool) {
	synonyms, ok := categorySynonyms[category]
	if !ok {
		return term{}, false
	}
	keywords := append([]string{string(category)}, synonyms...)
	return term{label: string(category), keywords: uniqueStrings(keywords)}, true
}

// certificationTerm returns the term for a certification, known or free text
func certificationTerm(cert string) term {
	cert = strings.ToLower(strings.TrimSpace(cert))
	keywords := []string{cert}
	if synonyms, ok := certificationSynonyms[cert]; ok {
		keywords = append(keywords, synonyms...)
	} else if strings.Contains(cert, "-") {
		keywords = append(keywords, strings.ReplaceAll(cert, "-", " "))
	}
	return term{label: cert, keywords: uniqueStrings(keywords)}
}

// traitTerm returns the term for a desired store trait.
// Unknown traits fall back to their significant tokens.
func traitTerm(trait string) term {
	trait = strings.ToLower(strings.TrimSpace(trait))
	keywords := []string{trait}
	if synonyms, ok := traitSynonyms[trait]; ok {
		keywords = append(keywords, synonyms...)
	} else {
		keywords = append(keywords, tokenize(trait)...)
	}
	return term{label: trait, keywords: uniqueStrings(keywords)}
}

// tokenize splits a string into normalized lowercase tokens.
// Removes punctuation (except hyphens), slashes, stop words and short or numeric tokens.
func tokenize(s string) []string {
	s = strings.ReplaceAll(strings.ToLower(s), "/", " ")
	cleaned := punctuationRegex.ReplaceAllString(s, " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		word = strings.Trim(word, "-")
		if len(word) <= 2 {
			continue
		}
		if traitStopWords[word] {
			continue
		}
		if isNumeric(word) {
			continue
		}
		tokens = append(tokens, word)
	}

	return tokens
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// containsKeyword reports whether keyword occurs in text as a whole word, optionally plural.
// "organic" matches "organics" and "certified-organic" but not "inorganic";
// "tea" matches "teas" but not "team" or "steak".
func containsKeyword(text, keyword string) bool {
	if keyword == "" {
		return false
	}
	offset := 0
	for offset < len(text) {
		idx := strings.Index(text[offset:], keyword)
		if idx < 0 {
			return false
		}
		pos := offset + idx
		if wordBoundaryBefore(text, pos) && wordEndsAt(text[pos+len(keyword):]) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[pos:])
		offset = pos + size
	}
	return false
}

func wordBoundaryBefore(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(text[:pos])
	return !isWordRune(prev)
}

// wordEndsAt reports whether rest starts at the end of a word, allowing a plural suffix
func wordEndsAt(rest string) bool {
	if atWordEnd(rest) {
		return true
	}
	for _, suffix := range pluralSuffixes {
		if strings.HasPrefix(rest, suffix) && atWordEnd(rest[len(suffix):]) {
			return true
		}
	}
	return false
}

func atWordEnd(rest string) bool {
	if rest == "" {
		return true
	}
	next, _ := utf8.DecodeRuneInString(rest)
	return !isWordRune(next)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// uniqueStrings drops empty and repeated entries while keeping order
func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
