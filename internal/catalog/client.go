package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Diferti/swibee/internal/domain"
	apperrors "github.com/Diferti/swibee/internal/errors"
)

const httpCallTimeout = 10 * time.Second

// Client talks to the catalog search provider's JSON API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

var _ domain.CatalogProvider = (*Client)(nil)

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: httpCallTimeout},
	}
}

// searchResponse mirrors the provider's wire format. Fields the engine does
// not consume are dropped during decode.
type searchResponse struct {
	Products  []productPayload `json:"products"`
	NextToken string           `json:"next_token"`
	HasMore   bool             `json:"has_more"`
}

type productPayload struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	ShopName       string  `json:"shop_name"`
	Price          string  `json:"price"`
	CompareAtPrice string  `json:"compare_at_price"`
	ImageURL       string  `json:"image_url"`
	Rating         float64 `json:"rating"`
	ReviewCount    int     `json:"review_count"`
	VariantID      string  `json:"variant_id"`
}

func (p productPayload) toItem() domain.Item {
	return domain.Item{
		ID:             p.ID,
		Title:          p.Title,
		ShopName:       p.ShopName,
		Price:          p.Price,
		CompareAtPrice: p.CompareAtPrice,
		ImageURL:       p.ImageURL,
		Rating:         p.Rating,
		ReviewCount:    p.ReviewCount,
		VariantID:      p.VariantID,
	}
}

// SearchPage fetches one page of catalog items matching the query.
func (c *Client) SearchPage(ctx context.Context, query domain.SearchQuery) (*domain.CatalogPage, error) {
	params := url.Values{}
	if query.Criteria.Gender != domain.GenderUnset {
		params.Set("gender", string(query.Criteria.Gender))
	}
	for _, cat := range query.Criteria.Categories {
		params.Add("category", cat)
	}
	if query.PageToken != "" {
		params.Set("page_token", query.PageToken)
	}
	params.Set("page_size", strconv.Itoa(query.PageSize))

	var resp searchResponse
	if err := c.getJSON(ctx, "/v1/products/search", params, &resp); err != nil {
		return nil, apperrors.ExternalError("catalog search failed", err)
	}

	page := &domain.CatalogPage{
		Items:     make([]domain.Item, 0, len(resp.Products)),
		NextToken: resp.NextToken,
		HasMore:   resp.HasMore,
	}
	for _, p := range resp.Products {
		page.Items = append(page.Items, p.toItem())
	}
	return page, nil
}

// Popular fetches the provider's trending list for the popular tab.
func (c *Client) Popular(ctx context.Context) ([]domain.Item, error) {
	var resp searchResponse
	if err := c.getJSON(ctx, "/v1/products/popular", url.Values{}, &resp); err != nil {
		return nil, apperrors.ExternalError("popular products fetch failed", err)
	}

	items := make([]domain.Item, 0, len(resp.Products))
	for _, p := range resp.Products {
		items = append(items, p.toItem())
	}
	return items, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.URL.RawQuery = params.Encode()
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
