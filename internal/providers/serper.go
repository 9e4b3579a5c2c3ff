package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// SerperProvider searches Google via the Serper API.
type SerperProvider struct {
	keyName string
	apiKey  string
	client  *http.Client
}

func NewSerperProvider(keyName string, timeoutSecs int) *SerperProvider {
	if timeoutSecs <= 0 {
		timeoutSecs = 10
	}
	return &SerperProvider{
		keyName: keyName,
		apiKey:  resolveSerperKey(keyName),
		client:  &http.Client{Timeout: time.Duration(timeoutSecs) * time.Second},
	}
}

func (s *SerperProvider) Search(ctx context.Context, query string, n int) ([]SearchResult, ProviderInfo, error) {
	info := ProviderInfo{Name: "serper", Key: s.keyName}
	if s.apiKey == "" {
		return nil, info, fmt.Errorf("serper key missing for alias %q", s.keyName)
	}
	payload, _ := json.Marshal(map[string]any{"q": query, "num": n})
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, "https://google.serper.dev/search", bytes.NewReader(payload))
	httpReq.Header.Set("X-API-KEY", s.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, info, fmt.Errorf("serper search request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, info, fmt.Errorf("serper search error %d: %s", resp.StatusCode, string(body))
	}
	var parsed struct {
		Organic []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, info, fmt.Errorf("decode serper response: %w", err)
	}
	out := make([]SearchResult, 0, len(parsed.Organic))
	for _, item := range parsed.Organic {
		out = append(out, SearchResult{Title: item.Title, URL: item.Link, Snippet: item.Snippet})
	}
	return out, info, nil
}

func resolveSerperKey(alias string) string {
	if alias != "" {
		if v := os.Getenv("ORIGINCHECK_SERPER_KEY_" + strings.ToUpper(alias)); v != "" {
			return v
		}
	}
	return os.Getenv("SERPER_API_KEY")
}
