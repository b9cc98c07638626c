package brandfoods

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchParsesFoods(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/foods/alt-search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "foods": [
    {"description": "Protein bar", "brand": "BarCo", "calories": 380, "protein": 30, "carbs": 40, "fat": 12, "serving_amount": 60, "serving_unit": "g"},
    {"description": "Rice cakes", "brand": "Crisp", "calories": 387, "carbs": 81.5}
  ]
}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	foods, err := c.Search(context.Background(), "bar")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(foods) != 2 {
		t.Fatalf("got %d foods", len(foods))
	}
	if foods[0].Provider != ProviderName || foods[0].ProteinG != 30 || foods[1].CarbsG != 81.5 {
		t.Fatalf("unexpected records: %+v", foods)
	}
}

func TestSearchNon2xxIsFailure(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	if _, err := c.Search(context.Background(), "bar"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
