package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseJudgeResponseJSON(t *testing.T) {
	res := parseJudgeResponse(`Here is my answer: {"is_paraphrase": true, "confidence": 87, "explanation": "same claim, reworded"}`)
	assert.True(t, res.IsParaphrase)
	assert.Equal(t, 87.0, res.Confidence)
	assert.Equal(t, "same claim, reworded", res.Explanation)
}

func TestParseJudgeResponseClampsConfidence(t *testing.T) {
	res := parseJudgeResponse(`{"is_paraphrase": true, "confidence": 250, "explanation": "x"}`)
	assert.Equal(t, 100.0, res.Confidence)
}

func TestParseJudgeResponseHeuristicFallback(t *testing.T) {
	res := parseJudgeResponse("Yes, these are paraphrases. I am about 80% sure.")
	assert.True(t, res.IsParaphrase)
	assert.Equal(t, 80.0, res.Confidence)

	res = parseJudgeResponse("No, the texts make unrelated claims.")
	assert.False(t, res.IsParaphrase)
	assert.Equal(t, 50.0, res.Confidence)
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, ErrorQuota, ClassifyError(assertErr("insufficient_quota for this key")))
	assert.Equal(t, ErrorRate, ClassifyError(assertErr("got 429 too many requests")))
	assert.Equal(t, ErrorTimeout, ClassifyError(assertErr("request timeout exceeded")))
	assert.Equal(t, ErrorUnavailable, ClassifyError(assertErr("openai key missing for alias \"dev\"")))
	assert.Equal(t, ErrorPermanent, ClassifyError(assertErr("model not found")))
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
