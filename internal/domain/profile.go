package domain

// ProductCategory is the fixed product taxonomy offered by the intake form
type ProductCategory string

const (
	CategorySnacks     ProductCategory = "snacks"
	CategoryBeverages  ProductCategory = "beverages"
	CategoryCondiments ProductCategory = "condiments"
	CategoryPantry     ProductCategory = "pantry"
	CategoryFrozen     ProductCategory = "frozen"
	CategoryOther      ProductCategory = "other"
)

// ProductCategories lists every valid category in form order
var ProductCategories = []ProductCategory{
	CategorySnacks, CategoryBeverages, CategoryCondiments, CategoryPantry, CategoryFrozen, CategoryOther,
}

// IsValid reports whether c is part of the taxonomy
func (c ProductCategory) IsValid() bool {
	for _, known := range ProductCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Storage requirement values
const (
	StorageShelfStable  = "shelf-stable"
	StorageRefrigerated = "refrigerated"
	StorageFrozen       = "frozen"
)

// StorageRequirements lists the accepted storage values
var StorageRequirements = []string{StorageShelfStable, StorageRefrigerated, StorageFrozen}

// Well-known certification values. Other certifications are accepted as free text.
const (
	CertVegan      = "vegan"
	CertGlutenFree = "gluten-free"
	CertNonGMO     = "non-gmo"
	CertKosher     = "kosher"
	CertOrganic    = "organic"
)

// PriceBand is an inclusive MSRP range in the seller's currency
type PriceBand struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SellerContact carries the identity fields of a submission.
// They are shown to the seller and used for outreach, never scored.
type SellerContact struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	BusinessName       string `json:"businessName"`
	ProductName        string `json:"productName"`
	ProductSubCategory string `json:"productSubCategory,omitempty"`
	Packaging          string `json:"packaging,omitempty"`
	Website            string `json:"website,omitempty"`
	Instagram          string `json:"instagram,omitempty"`
	OtherLinks         string `json:"otherLinks,omitempty"`
}

// SellerProfile is the canonical seller representation used for scoring.
// Set-valued fields are sorted, de-duplicated and never nil when built by the normalizer.
type SellerProfile struct {
	Seller              SellerContact   `json:"seller"`
	ProductCategory     ProductCategory `json:"productCategory"`
	StorageRequirements []string        `json:"storageRequirements"`
	Certifications      []string        `json:"certifications"`
	PriceBand           *PriceBand      `json:"priceBand,omitempty"`
	PreferredRegions    []string        `json:"preferredRegions"`
	PreferredStoreTypes []string        `json:"preferredStoreTypes"`
	DesiredTraits       []string        `json:"desiredTraits"`
	BrandNarrative      string          `json:"brandNarrative"`
}

// RawSubmission is the loosely-typed intake payload as collected by a form.
// List fields also accept a single string.
type RawSubmission struct {
	YourName            string   `json:"yourName" mapstructure:"yourName"`
	YourEmail           string   `json:"yourEmail" mapstructure:"yourEmail"`
	BusinessName        string   `json:"businessName" mapstructure:"businessName"`
	ProductName         string   `json:"productName" mapstructure:"productName"`
	ProductCategory     string   `json:"productCategory" mapstructure:"productCategory"`
	ProductSubCategory  string   `json:"productSubCategory" mapstructure:"productSubCategory"`
	MSRP                string   `json:"msrp" mapstructure:"msrp"`
	Packaging           string   `json:"packaging" mapstructure:"packaging"`
	StorageRequirements []string `json:"storageRequirements" mapstructure:"storageRequirements"`
	Certifications      []string `json:"certifications" mapstructure:"certifications"`
	BrandStory          string   `json:"brandStory" mapstructure:"brandStory"`
	ProductWebsite      string   `json:"productWebsite" mapstructure:"productWebsite"`
	InstagramHandle     string   `json:"instagramHandle" mapstructure:"instagramHandle"`
	OtherLinks          string   `json:"otherLinks" mapstructure:"otherLinks"`
	NYCNeighborhoods    []string `json:"nycNeighborhoods" mapstructure:"nycNeighborhoods"`
	StoreTypes          []string `json:"storeTypes" mapstructure:"storeTypes"`
	StoreTraits         []string `json:"storeTraits" mapstructure:"storeTraits"`
	AgreedToTerms       bool     `json:"agreedToTerms" mapstructure:"agreedToTerms"`
}
