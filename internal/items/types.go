package items

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Category values accepted for an item. Unset categories default to "other".
const (
	CategoryDairy     = "dairy"
	CategoryMeat      = "meat"
	CategoryProduce   = "produce"
	CategoryBeverages = "beverages"
	CategoryOther     = "other"
)

// Status values. Pending items come from AI extraction and have not been
// accepted by the user yet.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
)

// GeneratedBy values.
const (
	GeneratedByManual = "manual"
	GeneratedByAI     = "ai"
)

// Source values for AI-imported items.
const (
	SourceReceipt   = "receipt"
	SourceGroceries = "groceries"
)

var (
	validCategories  = []string{CategoryDairy, CategoryMeat, CategoryProduce, CategoryBeverages, CategoryOther}
	validStatuses    = []string{StatusPending, StatusConfirmed}
	validGeneratedBy = []string{GeneratedByManual, GeneratedByAI}
	validSources     = []string{SourceReceipt, SourceGroceries}
)

// Item is one tracked perishable good. ExpiryDate is derived and recomputed
// from PurchasedDate+ExpiryPeriod on every read; the stored value is only a
// cache.
type Item struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	PurchasedDate string  `json:"purchasedDate"`
	ExpiryPeriod  int     `json:"expiryPeriod"`
	ExpiryDate    string  `json:"expiryDate"`
	Status        string  `json:"status"`
	GeneratedBy   string  `json:"generatedBy"`
	Source        *string `json:"source"`
	CreatedAt     int64   `json:"createdAt"`
}

// CreateParams carries the fields accepted when creating an item.
type CreateParams struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	PurchasedDate string `json:"purchasedDate"`
	ExpiryPeriod  int    `json:"expiryPeriod"`
	Status        string `json:"status"`
	GeneratedBy   string `json:"generatedBy"`
	Source        string `json:"source"`
}

// UpdateParams carries the updatable fields. The struct shape is the update
// whitelist: anything else in a request body has nowhere to land and is
// silently dropped. Nil means "not provided".
type UpdateParams struct {
	Name          *string `json:"name"`
	Category      *string `json:"category"`
	ExpiryPeriod  *int    `json:"expiryPeriod"`
	PurchasedDate *string `json:"purchasedDate"`
	Status        *string `json:"status"`
}

// Filters narrow List results. All filters combine independently.
type Filters struct {
	Category     string
	Status       string
	Source       string
	GeneratedBy  string
	Expired      bool
	Expiring     bool
	ExpiringDays int
}

// Draft is an AI-extracted item awaiting creation as a pending item.
type Draft struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	ExpiryPeriod int    `json:"expiryPeriod"`
	Source       string `json:"source"`
}

// DeleteAllResult reports a bulk deletion.
type DeleteAllResult struct {
	DeletedCount int    `json:"deletedCount"`
	Items        []Item `json:"items"`
}

// Categories returns the accepted category values.
func Categories() []string {
	out := make([]string, len(validCategories))
	copy(out, validCategories)
	return out
}

// Sources returns the accepted source values.
func Sources() []string {
	out := make([]string, len(validSources))
	copy(out, validSources)
	return out
}

func contains(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

// NormalizeName trims the name, lowercases it and capitalizes the first
// letter of each space-separated token: " chEDDar  cheese " -> "Cheddar  Cheese".
func NormalizeName(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	parts := strings.Split(lowered, " ")
	for i, part := range parts {
		if part == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(part)
		parts[i] = string(unicode.ToUpper(r)) + part[size:]
	}
	return strings.Join(parts, " ")
}
