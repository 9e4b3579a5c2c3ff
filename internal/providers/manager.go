package providers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"origincheck/internal/config"
)

// Quota-exhausted providers are skipped for this long before being retried.
const providerCooldown = 5 * time.Minute

type NamedEmbedProvider struct {
	Ref      ProviderRef
	Provider EmbeddingProvider
}

type NamedJudgeProvider struct {
	Ref      ProviderRef
	Provider ParaphraseJudge
}

type NamedSearchProvider struct {
	Ref      ProviderRef
	Provider SearchProvider
}

// Manager holds the configured provider priority lists. Every call-level
// method walks its list in order and falls back on failure; a provider error
// never propagates past the last candidate's attempt. Failures are classified
// with ClassifyError: quota exhaustion puts the provider on a cooldown so
// later calls skip straight to the next candidate, and every wrapped error
// carries its class.
type Manager struct {
	embedProviders  []NamedEmbedProvider
	judgeProviders  []NamedJudgeProvider
	searchProviders []NamedSearchProvider
	embedDim        int

	mu            sync.Mutex
	disabledUntil map[string]time.Time
}

func NewManager(cfg config.Config) (*Manager, error) {
	m := &Manager{embedDim: cfg.EmbedDim}
	for _, ref := range ParseProviderList(cfg.EmbedProviders) {
		p, err := buildEmbedProvider(ref, cfg)
		if err != nil {
			return nil, err
		}
		m.embedProviders = append(m.embedProviders, NamedEmbedProvider{Ref: ref, Provider: p})
	}
	for _, ref := range ParseProviderList(cfg.AIProviders) {
		p, err := buildJudgeProvider(ref, cfg)
		if err != nil {
			return nil, err
		}
		m.judgeProviders = append(m.judgeProviders, NamedJudgeProvider{Ref: ref, Provider: p})
	}
	for _, ref := range ParseProviderList(cfg.SearchProviders) {
		p, err := buildSearchProvider(ref, cfg)
		if err != nil {
			return nil, err
		}
		m.searchProviders = append(m.searchProviders, NamedSearchProvider{Ref: ref, Provider: p})
	}
	if len(m.embedProviders) == 0 {
		m.embedProviders = []NamedEmbedProvider{{Ref: ProviderRef{Raw: "mock", Name: "mock"}, Provider: NewMockProvider(cfg.EmbedDim)}}
	}
	if len(m.judgeProviders) == 0 {
		m.judgeProviders = []NamedJudgeProvider{{Ref: ProviderRef{Raw: "mock", Name: "mock"}, Provider: NewMockProvider(cfg.EmbedDim)}}
	}
	return m, nil
}

func (m *Manager) EmbedCount() int  { return len(m.embedProviders) }
func (m *Manager) JudgeCount() int  { return len(m.judgeProviders) }
func (m *Manager) SearchCount() int { return len(m.searchProviders) }

func (m *Manager) coolingDown(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.disabledUntil[key]
	return ok && time.Now().Before(until)
}

// noteFailure classifies a provider error and puts quota-exhausted providers
// on cooldown. Returns the class so callers can annotate the wrapped error.
func (m *Manager) noteFailure(key string, err error) ErrorType {
	class := ClassifyError(err)
	if class == ErrorQuota {
		m.mu.Lock()
		if m.disabledUntil == nil {
			m.disabledUntil = make(map[string]time.Time)
		}
		m.disabledUntil[key] = time.Now().Add(providerCooldown)
		m.mu.Unlock()
	}
	return class
}

// EmbedOne embeds a single text, walking the embed priority list.
func (m *Manager) EmbedOne(ctx context.Context, text string) ([]float32, ProviderInfo, error) {
	var lastErr error
	for _, np := range m.embedProviders {
		key := "embed:" + np.Ref.Raw
		if m.coolingDown(key) {
			continue
		}
		vectors, info, err := np.Provider.Embed(ctx, EmbedRequest{Inputs: []string{text}, Dimension: m.embedDim})
		if err != nil {
			lastErr = fmt.Errorf("embed via %s (%s): %w", np.Ref.Raw, m.noteFailure(key, err), err)
			continue
		}
		if len(vectors) == 0 {
			lastErr = fmt.Errorf("embed via %s: empty result", np.Ref.Raw)
			continue
		}
		return vectors[0], info, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no embedding providers configured")
	}
	return nil, ProviderInfo{}, lastErr
}

// Search walks the search priority list and returns the first provider's
// successful results. All providers failing yields an empty slice and the
// last error for the caller to log or discard.
func (m *Manager) Search(ctx context.Context, query string, n int) ([]SearchResult, ProviderInfo, error) {
	var lastErr error
	for _, np := range m.searchProviders {
		key := "search:" + np.Ref.Raw
		if m.coolingDown(key) {
			continue
		}
		results, info, err := np.Provider.Search(ctx, query, n)
		if err != nil {
			lastErr = fmt.Errorf("search via %s (%s): %w", np.Ref.Raw, m.noteFailure(key, err), err)
			continue
		}
		return results, info, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no search providers configured")
	}
	return nil, ProviderInfo{}, lastErr
}

// JudgeParaphrase walks the AI priority list. When every judge fails the
// documented default is "not a paraphrase" with zero confidence.
func (m *Manager) JudgeParaphrase(ctx context.Context, textA, textB string) (JudgeResult, ProviderInfo) {
	for _, np := range m.judgeProviders {
		key := "judge:" + np.Ref.Raw
		if m.coolingDown(key) {
			continue
		}
		res, info, err := np.Provider.Judge(ctx, textA, textB)
		if err != nil {
			m.noteFailure(key, err)
			continue
		}
		return res, info
	}
	return JudgeResult{IsParaphrase: false, Confidence: 0, Explanation: "paraphrase judgment unavailable"}, ProviderInfo{}
}

func buildEmbedProvider(ref ProviderRef, cfg config.Config) (EmbeddingProvider, error) {
	switch strings.ToLower(ref.Name) {
	case "mock":
		return NewMockProvider(cfg.EmbedDim), nil
	case "openai":
		return NewOpenAIProvider(ref.KeyAlias, cfg.AITimeoutSecs), nil
	case "ollama":
		return NewOllamaEmbeddingProvider(ref.KeyAlias, cfg.AITimeoutSecs), nil
	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider: %s", config.ErrInvalidConfig, ref.Name)
	}
}

func buildJudgeProvider(ref ProviderRef, cfg config.Config) (ParaphraseJudge, error) {
	switch strings.ToLower(ref.Name) {
	case "mock":
		return NewMockProvider(cfg.EmbedDim), nil
	case "openai":
		return NewOpenAIProvider(ref.KeyAlias, cfg.AITimeoutSecs), nil
	case "groq":
		return NewGroqProvider(ref.KeyAlias, cfg.AITimeoutSecs), nil
	case "gemini":
		return NewGeminiProvider(ref.KeyAlias, cfg.AITimeoutSecs), nil
	default:
		return nil, fmt.Errorf("%w: unsupported AI provider: %s", config.ErrInvalidConfig, ref.Name)
	}
}

func buildSearchProvider(ref ProviderRef, cfg config.Config) (SearchProvider, error) {
	switch strings.ToLower(ref.Name) {
	case "mock":
		return NewMockProvider(cfg.EmbedDim), nil
	case "duckduckgo":
		return NewDuckDuckGoProvider(cfg.FetchTimeoutSecs), nil
	case "serper":
		return NewSerperProvider(ref.KeyAlias, cfg.FetchTimeoutSecs), nil
	case "serpapi":
		return NewSerpAPIProvider(ref.KeyAlias, cfg.FetchTimeoutSecs), nil
	default:
		return nil, fmt.Errorf("%w: unsupported search provider: %s", config.ErrInvalidConfig, ref.Name)
	}
}
