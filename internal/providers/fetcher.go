package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// PageFetcher downloads a search hit and reduces it to comparable plain text.
type PageFetcher struct {
	client   *http.Client
	maxChars int
}

func NewPageFetcher(timeoutSecs, maxChars int) *PageFetcher {
	if timeoutSecs <= 0 {
		timeoutSecs = 10
	}
	if maxChars <= 0 {
		maxChars = 1000
	}
	return &PageFetcher{
		client:   &http.Client{Timeout: time.Duration(timeoutSecs) * time.Second},
		maxChars: maxChars,
	}
}

// FetchText returns the visible text of the page, whitespace-collapsed and
// capped at maxChars. Non-HTML and error responses yield an error; callers
// treat a failed fetch as "no evidence", not as a check failure.
func (f *PageFetcher) FetchText(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build page request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; origincheck/1.0)")
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}
	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", pageURL, err)
	}
	text := visibleText(doc)
	if len(text) > f.maxChars {
		text = text[:f.maxChars]
	}
	return text, nil
}

func visibleText(root *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head":
				return
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(strings.Fields(sb.String()), " ")
}
