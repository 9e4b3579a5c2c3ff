package providers

import "context"

type ProviderInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	Key   string `json:"key"`
}

type EmbedRequest struct {
	Inputs    []string `json:"inputs"`
	Dimension int      `json:"dimension"`
}

type EmbeddingProvider interface {
	Embed(ctx context.Context, req EmbedRequest) ([][]float32, ProviderInfo, error)
}

type JudgeResult struct {
	IsParaphrase bool    `json:"is_paraphrase"`
	Confidence   float64 `json:"confidence"`
	Explanation  string  `json:"explanation,omitempty"`
}

// ParaphraseJudge decides whether two spans convey the same meaning.
type ParaphraseJudge interface {
	Judge(ctx context.Context, textA, textB string) (JudgeResult, ProviderInfo, error)
}

type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

type SearchProvider interface {
	Search(ctx context.Context, query string, n int) ([]SearchResult, ProviderInfo, error)
}
