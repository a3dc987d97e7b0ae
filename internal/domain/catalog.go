package domain

import "context"

// SearchQuery is one page request against the catalog search provider.
type SearchQuery struct {
	Criteria  FilterCriteria
	PageToken string
	PageSize  int
}

// CatalogPage is the provider's answer to a SearchQuery. Items arrive in
// provider order; NextToken is opaque continuation state.
type CatalogPage struct {
	Items     []Item
	NextToken string
	HasMore   bool
}

// CatalogProvider abstracts the external catalog/search service. The adapter
// performs no retries; retry policy belongs to the feed queue.
type CatalogProvider interface {
	SearchPage(ctx context.Context, query SearchQuery) (*CatalogPage, error)
	// Popular returns the unpaginated trending list for the popular tab.
	Popular(ctx context.Context) ([]Item, error)
}

// CartProvider abstracts the external cart/checkout service. The engine
// passes item and variant identifiers through without modeling the
// provider's behavior.
type CartProvider interface {
	AddToCart(ctx context.Context, itemID, variantID string) error
}
