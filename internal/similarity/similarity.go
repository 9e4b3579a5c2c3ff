// Package similarity holds the pairwise scoring kernels used by every source
// adapter. All scores are percentages in [0,100].
package similarity

import (
	"math"
	"strings"
)

// Composite weights for text-only comparison (no embeddings available).
const (
	weightCosine  = 0.5
	weightJaccard = 0.3
	weightEdit    = 0.2
)

// Jaccard computes token-set overlap over lower-cased word sets.
// Returns 0 when both spans are empty.
func Jaccard(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}
	inter := 0
	for w := range setA {
		if setB[w] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union) * 100
}

// EditRatio computes a normalized Levenshtein ratio over raw characters.
// Two empty strings are identical, ratio 100.
func EditRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 100
	}
	dist := levenshtein(ra, rb)
	return (1 - float64(dist)/float64(longest)) * 100
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// LCS computes word-level longest common subsequence via O(m*n) dynamic
// programming, case-insensitive. Returns (lcsLen/max(m,n))*100 and the
// reconstructed subsequence text. Reconstruction scans from the end and, on
// ties, moves along the second sequence first, which keeps the path
// deterministic and prefers extending along the first sequence.
func LCS(a, b string) (float64, string) {
	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)
	m, n := len(wordsA), len(wordsB)
	if m == 0 || n == 0 {
		return 0, ""
	}

	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if strings.EqualFold(wordsA[i-1], wordsB[j-1]) {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] > dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}

	longest := m
	if n > longest {
		longest = n
	}
	score := float64(dp[m][n]) / float64(longest) * 100

	out := make([]string, 0, dp[m][n])
	i, j := m, n
	for i > 0 && j > 0 {
		switch {
		case strings.EqualFold(wordsA[i-1], wordsB[j-1]):
			out = append(out, wordsA[i-1])
			i--
			j--
		case dp[i-1][j] > dp[i][j-1]:
			i--
		default:
			j--
		}
	}
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return score, strings.Join(out, " ")
}

// VectorCosine computes cosine similarity between two embedding vectors,
// scaled to percent. Returns 0 when either vector has zero norm.
func VectorCosine(v1, v2 []float32) float64 {
	n := len(v1)
	if len(v2) < n {
		n = len(v2)
	}
	var dot, norm1, norm2 float64
	for i := 0; i < n; i++ {
		dot += float64(v1[i]) * float64(v2[i])
	}
	for _, x := range v1 {
		norm1 += float64(x) * float64(x)
	}
	for _, x := range v2 {
		norm2 += float64(x) * float64(x)
	}
	if norm1 == 0 || norm2 == 0 {
		return 0
	}
	return dot / (math.Sqrt(norm1) * math.Sqrt(norm2)) * 100
}

// TextCosine computes cosine similarity over term-frequency vectors of the
// two spans, scaled to percent.
func TextCosine(a, b string) float64 {
	tfA := termFreq(a)
	tfB := termFreq(b)
	if len(tfA) == 0 || len(tfB) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for w, c := range tfA {
		normA += float64(c) * float64(c)
		if cb, ok := tfB[w]; ok {
			dot += float64(c) * float64(cb)
		}
	}
	for _, c := range tfB {
		normB += float64(c) * float64(c)
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)) * 100
}

// Combined is the weighted composite used when only text is available.
func Combined(a, b string) float64 {
	return weightCosine*TextCosine(a, b) + weightJaccard*Jaccard(a, b) + weightEdit*EditRatio(a, b)
}

func wordSet(s string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		out[w] = true
	}
	return out
}

func termFreq(s string) map[string]int {
	out := make(map[string]int)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		out[w]++
	}
	return out
}
