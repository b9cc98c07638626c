// Package brandfoods is the client for the secondary nutrition
// database covering packaged and branded foods. Search only; records
// are per-100g.
package brandfoods

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
	ProviderName   = "brandfoods"
	defaultBaseURL = "https://api.brandfoods.dev"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

type foodsResponse struct {
	Foods []foodRecord `json:"foods"`
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
}

// Search queries GET /foods/alt-search. Non-2xx is a provider failure.
func (c *Client) Search(ctx context.Context, query string) ([]model.RemoteFoodRecord, error) {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	u := fmt.Sprintf("%s/foods/alt-search?q=%s", base, url.QueryEscape(strings.TrimSpace(query)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create brandfoods request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute brandfoods request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read brandfoods response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("brandfoods request failed with status %d", resp.StatusCode)
	}

	var parsed foodsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode brandfoods response: %w", err)
	}
	out := make([]model.RemoteFoodRecord, 0, len(parsed.Foods))
	for _, f := range parsed.Foods {
		out = append(out, model.RemoteFoodRecord{
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
		})
	}
	return out, nil
}
