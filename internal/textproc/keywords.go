package textproc

import (
	"sort"
	"strings"
	"unicode"
)

// ExtractKeywords tokenizes text, drops stop-words and non-alphanumeric
// tokens, and returns the topN tokens ranked by frequency descending, ties
// broken by first occurrence. Used only for building search queries.
func ExtractKeywords(text string, topN int) []string {
	if topN <= 0 {
		return nil
	}
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0
	for _, tok := range tokens {
		if tok == "" || stopWords[tok] {
			continue
		}
		if _, ok := counts[tok]; !ok {
			firstSeen[tok] = order
			order++
		}
		counts[tok]++
	}

	uniq := make([]string, 0, len(counts))
	for tok := range counts {
		uniq = append(uniq, tok)
	}
	sort.Slice(uniq, func(i, j int) bool {
		if counts[uniq[i]] != counts[uniq[j]] {
			return counts[uniq[i]] > counts[uniq[j]]
		}
		return firstSeen[uniq[i]] < firstSeen[uniq[j]]
	})

	if len(uniq) > topN {
		uniq = uniq[:topN]
	}
	return uniq
}

var stopWords = func() map[string]bool {
	list := []string{
		"a", "about", "above", "after", "again", "against", "all", "am", "an",
		"and", "any", "are", "aren", "as", "at", "be", "because", "been",
		"before", "being", "below", "between", "both", "but", "by", "can",
		"cannot", "could", "did", "do", "does", "doing", "don", "down",
		"during", "each", "few", "for", "from", "further", "had", "has",
		"have", "having", "he", "her", "here", "hers", "herself", "him",
		"himself", "his", "how", "i", "if", "in", "into", "is", "isn", "it",
		"its", "itself", "just", "me", "more", "most", "my", "myself", "no",
		"nor", "not", "now", "of", "off", "on", "once", "only", "or",
		"other", "our", "ours", "ourselves", "out", "over", "own", "s",
		"same", "she", "should", "so", "some", "such", "t", "than", "that",
		"the", "their", "theirs", "them", "themselves", "then", "there",
		"these", "they", "this", "those", "through", "to", "too", "under",
		"until", "up", "very", "was", "wasn", "we", "were", "weren", "what",
		"when", "where", "which", "while", "who", "whom", "why", "will",
		"with", "won", "would", "you", "your", "yours", "yourself",
		"yourselves",
	}
	m := make(map[string]bool, len(list))
	for _, w := range list {
		m[w] = true
	}
	return m
}()
