package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// DuckDuckGoProvider scrapes the keyless HTML endpoint. It is first in the
// default search priority list because it needs no API key.
type DuckDuckGoProvider struct {
	client *http.Client
}

func NewDuckDuckGoProvider(timeoutSecs int) *DuckDuckGoProvider {
	if timeoutSecs <= 0 {
		timeoutSecs = 10
	}
	return &DuckDuckGoProvider{
		client: &http.Client{Timeout: time.Duration(timeoutSecs) * time.Second},
	}
}

func (d *DuckDuckGoProvider) Search(ctx context.Context, query string, n int) ([]SearchResult, ProviderInfo, error) {
	info := ProviderInfo{Name: "duckduckgo"}
	form := url.Values{}
	form.Set("q", query)
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, "https://html.duckduckgo.com/html/", strings.NewReader(form.Encode()))
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("User-Agent", "Mozilla/5.0 (compatible; origincheck/1.0)")
	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, info, fmt.Errorf("duckduckgo search request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, info, fmt.Errorf("duckduckgo search error %d", resp.StatusCode)
	}
	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, info, fmt.Errorf("parse duckduckgo response: %w", err)
	}
	results := parseDuckDuckGoResults(doc, n)
	return results, info, nil
}

// parseDuckDuckGoResults walks the parsed page and collects result anchors
// (class result__a) up to the limit.
func parseDuckDuckGoResults(root *html.Node, limit int) []SearchResult {
	var out []SearchResult
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if limit > 0 && len(out) >= limit {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "result__a") {
			href := attrValue(n, "href")
			title := strings.TrimSpace(nodeText(n))
			if href != "" && title != "" {
				out = append(out, SearchResult{Title: title, URL: cleanDuckDuckGoURL(href)})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// cleanDuckDuckGoURL unwraps the redirect links the HTML endpoint emits
// (//duckduckgo.com/l/?uddg=<encoded>).
func cleanDuckDuckGoURL(href string) string {
	if strings.Contains(href, "uddg=") {
		if u, err := url.Parse(href); err == nil {
			if target := u.Query().Get("uddg"); target != "" {
				return target
			}
		}
	}
	return href
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
