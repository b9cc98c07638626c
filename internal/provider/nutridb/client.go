// Package nutridb is the client for the primary nutrition database.
// It serves free-text search and barcode lookup; records are per-100g.
package nutridb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/weighline/cutlog/internal/model"
)

const (
	ProviderName   = "nutridb"
	defaultBaseURL = "https://api.nutridb.io"
)

type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

type foodsResponse struct {
	Foods []foodRecord `json:"foods"`
}

type barcodeResponse struct {
	Found bool        `json:"found"`
	Food  *foodRecord `json:"food"`
}

type foodRecord struct {
	Description   string  `json:"description"`
	Brand         string  `json:"brand"`
	Calories      float64 `json:"calories"`
	ProteinG      float64 `json:"protein"`
	CarbsG        float64 `json:"carbs"`
	FatG          float64 `json:"fat"`
	FiberG        float64 `json:"fiber"`
	SugarG        float64 `json:"sugar"`
	SodiumMg      float64 `json:"sodium"`
	ServingAmount float64 `json:"serving_amount"`
	ServingUnit   string  `json:"serving_unit"`
	Barcode       string  `json:"barcode"`
}

// Search queries GET /foods/search. Non-2xx is a provider failure.
func (c *Client) Search(ctx context.Context, query string) ([]model.RemoteFoodRecord, error) {
	u := fmt.Sprintf("%s/foods/search?q=%s", c.baseURL(), url.QueryEscape(strings.TrimSpace(query)))
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	var parsed foodsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode nutridb search response: %w", err)
	}
	out := make([]model.RemoteFoodRecord, 0, len(parsed.Foods))
	for _, f := range parsed.Foods {
		out = append(out, f.toRecord())
	}
	return out, nil
}

// LookupBarcode queries GET /foods/barcode. A miss (found=false) is
// reported through the bool, distinct from a network or decode error.
func (c *Client) LookupBarcode(ctx context.Context, code string) (model.RemoteFoodRecord, bool, error) {
	u := fmt.Sprintf("%s/foods/barcode?code=%s", c.baseURL(), url.QueryEscape(strings.TrimSpace(code)))
	body, err := c.get(ctx, u)
	if err != nil {
		return model.RemoteFoodRecord{}, false, err
	}
	var parsed barcodeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return model.RemoteFoodRecord{}, false, fmt.Errorf("decode nutridb barcode response: %w", err)
	}
	if !parsed.Found || parsed.Food == nil {
		return model.RemoteFoodRecord{}, false, nil
	}
	record := parsed.Food.toRecord()
	if record.Barcode == "" {
		record.Barcode = strings.TrimSpace(code)
	}
	return record, true, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create nutridb request: %w", err)
	}
	if strings.TrimSpace(c.APIKey) != "" {
		req.Header.Set("X-Api-Key", c.APIKey)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute nutridb request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read nutridb response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("nutridb request failed with status %d", resp.StatusCode)
	}
	return body, nil
}

func (c *Client) baseURL() string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	return base
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 12 * time.Second}
}

func (f foodRecord) toRecord() model.RemoteFoodRecord {
	return model.RemoteFoodRecord{
		Provider:      ProviderName,
		Description:   strings.TrimSpace(f.Description),
		Brand:         strings.TrimSpace(f.Brand),
		Calories:      f.Calories,
		ProteinG:      f.ProteinG,
		CarbsG:        f.CarbsG,
		FatG:          f.FatG,
		FiberG:        f.FiberG,
		SugarG:        f.SugarG,
		SodiumMg:      f.SodiumMg,
		ServingAmount: f.ServingAmount,
		ServingUnit:   strings.TrimSpace(f.ServingUnit),
		Barcode:       strings.TrimSpace(f.Barcode),
	}
}
