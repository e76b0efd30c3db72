package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/lance0/RubyRidge/pkg/models"
)

const lookupTimeout = 5 * time.Second

// LookupClient resolves a UPC against an external source. A nil result with
// a nil error means "not found".
type LookupClient interface {
	Lookup(ctx context.Context, upc string) (*models.UpcData, error)
}

// HTTPLookupClient queries a UPC lookup endpoint expected to answer
// GET {base}/{upc} with {"name": ..., "caliber": ..., "rounds_per_box": ...}.
type HTTPLookupClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPLookupClient(baseURL string) *HTTPLookupClient {
	return &HTTPLookupClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: lookupTimeout},
	}
}

func (c *HTTPLookupClient) Lookup(ctx context.Context, upc string) (*models.UpcData, error) {
	if c.baseURL == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	reqURL := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(upc))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build UPC lookup request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("UPC lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("UPC lookup returned status %d", resp.StatusCode)
	}

	var data models.UpcData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode UPC lookup response: %w", err)
	}
	data.UPC = upc

	return &data, nil
}
