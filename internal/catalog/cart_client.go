package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Diferti/swibee/internal/domain"
	apperrors "github.com/Diferti/swibee/internal/errors"
)

// CartClient passes add-to-cart actions through to the external cart
// provider. Item and variant identifiers are forwarded verbatim.
type CartClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

var _ domain.CartProvider = (*CartClient)(nil)

func NewCartClient(baseURL, apiKey string) *CartClient {
	return &CartClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *CartClient) AddToCart(ctx context.Context, itemID, variantID string) error {
	payload, err := json.Marshal(map[string]string{
		"product_id": itemID,
		"variant_id": variantID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal cart payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/cart/items", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create cart request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.ExternalError("cart request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return apperrors.ExternalError("cart request failed", fmt.Errorf("provider returned status %d", resp.StatusCode))
	}
	return nil
}
