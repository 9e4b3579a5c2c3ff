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

// GroqProvider judges paraphrases via Groq's OpenAI-compatible API.
type GroqProvider struct {
	keyName string
	apiKey  string
	model   string
	client  *http.Client
}

func NewGroqProvider(keyName string, timeoutSecs int) *GroqProvider {
	model := os.Getenv("ORIGINCHECK_GROQ_MODEL")
	if strings.TrimSpace(model) == "" {
		model = "llama-3.1-8b-instant"
	}
	if timeoutSecs <= 0 {
		timeoutSecs = 30
	}
	return &GroqProvider{
		keyName: keyName,
		apiKey:  resolveGroqKey(keyName),
		model:   model,
		client:  &http.Client{Timeout: time.Duration(timeoutSecs) * time.Second},
	}
}

func (g *GroqProvider) Judge(ctx context.Context, textA, textB string) (JudgeResult, ProviderInfo, error) {
	info := ProviderInfo{Name: "groq", Model: g.model, Key: g.keyName}
	if g.apiKey == "" {
		return JudgeResult{}, info, fmt.Errorf("groq key missing for alias %q", g.keyName)
	}
	payload, _ := json.Marshal(map[string]any{
		"model":       g.model,
		"temperature": 0.3,
		"max_tokens":  200,
		"messages": []map[string]string{
			{"role": "system", "content": judgeSystemPrompt},
			{"role": "user", "content": buildJudgePrompt(textA, textB)},
		},
	})
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.groq.com/openai/v1/chat/completions", bytes.NewReader(payload))
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return JudgeResult{}, info, fmt.Errorf("groq judge request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return JudgeResult{}, info, fmt.Errorf("groq judge error %d: %s", resp.StatusCode, string(body))
	}
	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return JudgeResult{}, info, fmt.Errorf("decode groq response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return JudgeResult{}, info, fmt.Errorf("groq returned empty choices")
	}
	return parseJudgeResponse(parsed.Choices[0].Message.Content), info, nil
}

func resolveGroqKey(alias string) string {
	if alias != "" {
		if v := os.Getenv("ORIGINCHECK_GROQ_KEY_" + strings.ToUpper(alias)); v != "" {
			return v
		}
	}
	return os.Getenv("GROQ_API_KEY")
}
