package domain

import "time"

// Item is a catalog entity. The engine only ever looks at ID; everything else
// is opaque payload passed through to the presentation layer.
type Item struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	ShopName       string  `json:"shop_name,omitempty"`
	Price          string  `json:"price,omitempty"`
	CompareAtPrice string  `json:"compare_at_price,omitempty"`
	ImageURL       string  `json:"image_url,omitempty"`
	Rating         float64 `json:"rating,omitempty"`
	ReviewCount    int     `json:"review_count,omitempty"`
	VariantID      string  `json:"variant_id,omitempty"`
}

// Decision classifies an item as liked or disliked. An item has at most one
// active decision at any time.
type Decision string

const (
	DecisionLiked    Decision = "liked"
	DecisionDisliked Decision = "disliked"
)

// Valid reports whether d is one of the two known decision values.
func (d Decision) Valid() bool {
	return d == DecisionLiked || d == DecisionDisliked
}

// DecisionRecord is a decided item as held by the decision store and as
// persisted to the key-value store. Records are ordered by decision time,
// most-recently-decided last.
type DecisionRecord struct {
	Item      Item      `json:"item"`
	Decision  Decision  `json:"decision"`
	DecidedAt time.Time `json:"decided_at"`
}
