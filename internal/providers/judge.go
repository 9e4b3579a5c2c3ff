package providers

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

const judgeSystemPrompt = "You compare two texts for a plagiarism checker. Answer with strict JSON only."

var (
	jsonObjectRe = regexp.MustCompile(`\{[^{}]+\}`)
	percentRe    = regexp.MustCompile(`(\d+)%?`)
)

func buildJudgePrompt(textA, textB string) string {
	var b strings.Builder
	b.WriteString("Compare these two texts and determine if they convey the same meaning (paraphrase).\n")
	b.WriteString("Respond with a JSON object containing:\n")
	b.WriteString("- is_paraphrase (boolean)\n- confidence (0-100)\n- explanation (brief)\n\n")
	b.WriteString("Text 1: ")
	b.WriteString(textA)
	b.WriteString("\n\nText 2: ")
	b.WriteString(textB)
	b.WriteString("\n\nResponse:")
	return b.String()
}

// parseJudgeResponse extracts a JudgeResult from free-form model output.
// Prefers an embedded JSON object; falls back to keyword heuristics.
func parseJudgeResponse(response string) JudgeResult {
	if raw := jsonObjectRe.FindString(response); raw != "" {
		var parsed struct {
			IsParaphrase bool    `json:"is_paraphrase"`
			Confidence   float64 `json:"confidence"`
			Explanation  string  `json:"explanation"`
		}
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			return JudgeResult{
				IsParaphrase: parsed.IsParaphrase,
				Confidence:   clampConfidence(parsed.Confidence),
				Explanation:  parsed.Explanation,
			}
		}
	}

	lower := strings.ToLower(response)
	isParaphrase := strings.Contains(lower, "true") || strings.Contains(lower, "yes")
	confidence := 50.0
	if m := percentRe.FindStringSubmatch(response); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			confidence = clampConfidence(float64(v))
		}
	}
	explanation := response
	if len(explanation) > 200 {
		explanation = explanation[:200]
	}
	return JudgeResult{IsParaphrase: isParaphrase, Confidence: confidence, Explanation: explanation}
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
