package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// SerpAPIProvider searches Google via serpapi.com.
type SerpAPIProvider struct {
	keyName string
	apiKey  string
	client  *http.Client
}

func NewSerpAPIProvider(keyName string, timeoutSecs int) *SerpAPIProvider {
	if timeoutSecs <= 0 {
		timeoutSecs = 10
	}
	return &SerpAPIProvider{
		keyName: keyName,
		apiKey:  resolveSerpAPIKey(keyName),
		client:  &http.Client{Timeout: time.Duration(timeoutSecs) * time.Second},
	}
}

func (s *SerpAPIProvider) Search(ctx context.Context, query string, n int) ([]SearchResult, ProviderInfo, error) {
	info := ProviderInfo{Name: "serpapi", Key: s.keyName}
	if s.apiKey == "" {
		return nil, info, fmt.Errorf("serpapi key missing for alias %q", s.keyName)
	}
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("num", strconv.Itoa(n))
	params.Set("api_key", s.apiKey)
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodGet, "https://serpapi.com/search.json?"+params.Encode(), nil)
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, info, fmt.Errorf("serpapi search request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, info, fmt.Errorf("serpapi search error %d: %s", resp.StatusCode, string(body))
	}
	var parsed struct {
		OrganicResults []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic_results"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, info, fmt.Errorf("decode serpapi response: %w", err)
	}
	out := make([]SearchResult, 0, len(parsed.OrganicResults))
	for _, item := range parsed.OrganicResults {
		out = append(out, SearchResult{Title: item.Title, URL: item.Link, Snippet: item.Snippet})
	}
	return out, info, nil
}

func resolveSerpAPIKey(alias string) string {
	if alias != "" {
		if v := os.Getenv("ORIGINCHECK_SERPAPI_KEY_" + strings.ToUpper(alias)); v != "" {
			return v
		}
	}
	return os.Getenv("SERPAPI_KEY")
}
