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

// GeminiProvider judges paraphrases via the Google Generative Language API.
type GeminiProvider struct {
	keyName string
	apiKey  string
	model   string
	client  *http.Client
}

func NewGeminiProvider(keyName string, timeoutSecs int) *GeminiProvider {
	model := os.Getenv("ORIGINCHECK_GEMINI_MODEL")
	if strings.TrimSpace(model) == "" {
		model = "gemini-1.5-flash"
	}
	if timeoutSecs <= 0 {
		timeoutSecs = 30
	}
	return &GeminiProvider{
		keyName: keyName,
		apiKey:  resolveGeminiKey(keyName),
		model:   model,
		client:  &http.Client{Timeout: time.Duration(timeoutSecs) * time.Second},
	}
}

func (g *GeminiProvider) Judge(ctx context.Context, textA, textB string) (JudgeResult, ProviderInfo, error) {
	info := ProviderInfo{Name: "gemini", Model: g.model, Key: g.keyName}
	if g.apiKey == "" {
		return JudgeResult{}, info, fmt.Errorf("gemini key missing for alias %q", g.keyName)
	}
	payload, _ := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": buildJudgePrompt(textA, textB)}}},
		},
		"generationConfig": map[string]any{"temperature": 0.3, "maxOutputTokens": 200},
	})
	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s", g.model, g.apiKey)
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return JudgeResult{}, info, fmt.Errorf("gemini judge request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return JudgeResult{}, info, fmt.Errorf("gemini judge error %d: %s", resp.StatusCode, string(body))
	}
	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return JudgeResult{}, info, fmt.Errorf("decode gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return JudgeResult{}, info, fmt.Errorf("gemini returned empty candidates")
	}
	return parseJudgeResponse(parsed.Candidates[0].Content.Parts[0].Text), info, nil
}

func resolveGeminiKey(alias string) string {
	if alias != "" {
		if v := os.Getenv("ORIGINCHECK_GEMINI_KEY_" + strings.ToUpper(alias)); v != "" {
			return v
		}
	}
	return os.Getenv("GEMINI_API_KEY")
}
