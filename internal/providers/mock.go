package providers

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strings"
)

// MockProvider is a deterministic stand-in for every provider capability.
// It lets the worker and the tests run without network access or API keys.
type MockProvider struct {
	dim int
}

func NewMockProvider(dim int) *MockProvider {
	if dim <= 0 {
		dim = 384
	}
	return &MockProvider{dim: dim}
}

// Embed derives each vector from a sha256 digest of the input so that equal
// texts always embed identically and distinct texts rarely collide.
func (m *MockProvider) Embed(_ context.Context, req EmbedRequest) ([][]float32, ProviderInfo, error) {
	info := ProviderInfo{Name: "mock", Model: "deterministic-sha256"}
	dim := req.Dimension
	if dim <= 0 {
		dim = m.dim
	}
	out := make([][]float32, 0, len(req.Inputs))
	for _, text := range req.Inputs {
		out = append(out, deterministicVector(text, dim))
	}
	return out, info, nil
}

func deterministicVector(text string, dim int) []float32 {
	seed := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(text))))
	vec := make([]float32, dim)
	var norm float64
	for i := range vec {
		// Stretch the 32-byte digest across the vector by re-hashing with
		// the lane index.
		lane := sha256.Sum256(append(seed[:], byte(i), byte(i>>8)))
		u := binary.BigEndian.Uint32(lane[:4])
		v := float64(u)/float64(math.MaxUint32)*2 - 1
		vec[i] = float32(v)
		norm += v * v
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec
}

// Judge treats near-identical normalized texts as paraphrases. Deterministic
// so workflow tests get stable match kinds.
func (m *MockProvider) Judge(_ context.Context, textA, textB string) (JudgeResult, ProviderInfo, error) {
	info := ProviderInfo{Name: "mock", Model: "deterministic-judge"}
	a := strings.Join(strings.Fields(strings.ToLower(textA)), " ")
	b := strings.Join(strings.Fields(strings.ToLower(textB)), " ")
	if a == "" || b == "" {
		return JudgeResult{Explanation: "empty input"}, info, nil
	}
	if a == b {
		return JudgeResult{IsParaphrase: true, Confidence: 100, Explanation: "texts are identical after normalization"}, info, nil
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return JudgeResult{IsParaphrase: true, Confidence: 80, Explanation: "one text contains the other"}, info, nil
	}
	return JudgeResult{Explanation: "texts differ"}, info, nil
}

// Search returns no results; the mock exists so the web source can be wired
// in tests without reaching any engine.
func (m *MockProvider) Search(_ context.Context, _ string, _ int) ([]SearchResult, ProviderInfo, error) {
	return []SearchResult{}, ProviderInfo{Name: "mock"}, nil
}
