package providers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const duckPage = `<html><body>
<div class="result">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fpaper">Example Paper</a>
  <a class="result__snippet" href="#">snippet text</a>
</div>
<div class="result">
  <a class="result__a" href="https://example.org/article">Direct Article</a>
</div>
<a href="https://nav.example.com">nav link</a>
</body></html>`

func TestParseDuckDuckGoResults(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(duckPage))
	require.NoError(t, err)

	results := parseDuckDuckGoResults(doc, 10)
	require.Len(t, results, 2)
	assert.Equal(t, "Example Paper", results[0].Title)
	assert.Equal(t, "https://example.com/paper", results[0].URL)
	assert.Equal(t, "https://example.org/article", results[1].URL)
}

func TestParseDuckDuckGoResultsHonorsLimit(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(duckPage))
	require.NoError(t, err)
	assert.Len(t, parseDuckDuckGoResults(doc, 1), 1)
}

func TestVisibleTextSkipsScripts(t *testing.T) {
	page := `<html><head><title>t</title></head><body><script>var x = 1;</script><p>Visible   body
text.</p></body></html>`
	doc, err := html.Parse(strings.NewReader(page))
	require.NoError(t, err)
	text := visibleText(doc)
	assert.Equal(t, "Visible body text.", text)
	assert.NotContains(t, text, "var x")
}
