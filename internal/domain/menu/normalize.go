// internal/domain/menu/normalize.go
package menu

import (
	"strings"

	"github.com/pizzamania/ordering-backend/internal/pkg/imageurl"
)

// LegacyItemDocument mirrors the loosely-typed menu documents exported from
// the previous backend. Older exports used "name" where newer ones use
// "title", and omitted availability entirely.
type LegacyItemDocument struct {
	Title       string   `json:"title"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"` // Major currency units, e.g. 12.50
	Category    string   `json:"category"`
	Available   *bool    `json:"available"`
	ImageURL    string   `json:"imageUrl"`
}

// NormalizeLegacyItem converts a legacy document into a canonical MenuItem.
// Field precedence is fixed: title, then name, then a placeholder. Category
// falls back to the default, availability defaults to false when missing,
// and Drive share links are rewritten to direct image URLs. Normalization
// happens once at this read boundary; the rest of the system only sees the
// canonical shape.
func NormalizeLegacyItem(branchID uint, doc LegacyItemDocument) MenuItem {
	title := strings.TrimSpace(doc.Title)
	if title == "" {
		title = strings.TrimSpace(doc.Name)
	}
	if title == "" {
		title = DefaultTitle
	}

	category := strings.ToLower(strings.TrimSpace(doc.Category))
	if category == "" {
		category = DefaultCategory
	}

	available := false
	if doc.Available != nil {
		available = *doc.Available
	}

	price := doc.Price
	if price < 0 || price != price { // negative or NaN
		price = 0
	}

	return MenuItem{
		BranchID:    branchID,
		Title:       title,
		Description: strings.TrimSpace(doc.Description),
		BasePrice:   int64(price*100 + 0.5),
		Category:    category,
		Available:   available,
		ImageURL:    imageurl.Normalize(doc.ImageURL),
	}
}
