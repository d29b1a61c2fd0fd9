package catalog

import "github.com/shopspring/decimal"

// Filters is an explicit predicate accumulator for product listings. Callers
// add constraints one by one; the repository translates the whole set into a
// single query. Every predicate narrows the result, so accumulation order
// never changes the match set, only which filters fire.
type Filters struct {
	CategoryIDs   []string
	NameContains  []string
	SearchTokens  []string
	MaxPrice      *decimal.Decimal
	AvailableOnly bool
	Limit         int
}

// WithCategory narrows the listing to one more category.
func (f Filters) WithCategory(categoryID string) Filters {
	f.CategoryIDs = append(f.CategoryIDs, categoryID)
	return f
}

// WithNameContains requires the product name to contain the fragment
// (case-insensitive).
func (f Filters) WithNameContains(fragment string) Filters {
	f.NameContains = append(f.NameContains, fragment)
	return f
}

// WithSearchToken requires the token to appear in the product name or
// description (case-insensitive). Tokens are ANDed.
func (f Filters) WithSearchToken(token string) Filters {
	f.SearchTokens = append(f.SearchTokens, token)
	return f
}

// WithMaxPrice caps the listing at the given price ceiling.
func (f Filters) WithMaxPrice(ceiling decimal.Decimal) Filters {
	f.MaxPrice = &ceiling
	return f
}
