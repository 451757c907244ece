package retrieval

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Weights for the context-aware rerank. The raw query carries the most
// signal, conversation context less, raw text shape the least.
const (
	queryOverlapWeight   = 0.3
	contextOverlapWeight = 0.15
	textSimilarityWeight = 0.1

	similarityWindow = 500
)

// Rerank re-scores candidates against the original (unenriched) query and
// the conversation context, rewarding passages lexically anchored to the
// immediate question over ones that only matched the broadened embedding.
// Returns at most topK passages sorted by non-increasing adjusted score.
func Rerank(candidates []Passage, query, contextText string, topK int) []Passage {
	queryTokens := tokenSet(query)
	contextTokens := tokenSet(contextText)

	reranked := make([]Passage, len(candidates))
	for i, p := range candidates {
		passageTokens := tokenSet(p.Text)

		boost := 1 +
			queryOverlapWeight*overlap(queryTokens, passageTokens) +
			contextOverlapWeight*overlap(contextTokens, passageTokens) +
			textSimilarityWeight*textSimilarity(query, p.Text)

		p.Score = p.Score * boost
		reranked[i] = p
	}

	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].Score > reranked[j].Score
	})
	return truncate(reranked, topK)
}

func tokenSet(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		tok = strings.Trim(tok, ".,;:!?()[]{}\"'")
		if tok != "" {
			tokens[tok] = struct{}{}
		}
	}
	return tokens
}

// overlap is the fraction of source tokens present in target.
func overlap(source, target map[string]struct{}) float64 {
	if len(source) == 0 {
		return 0
	}
	hits := 0
	for tok := range source {
		if _, ok := target[tok]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(source))
}

// textSimilarity is a normalized edit similarity between the query and the
// leading slice of the passage text, in [0, 1].
func textSimilarity(query, text string) float64 {
	text = headRunesafe(text, similarityWindow)
	a := strings.ToLower(query)
	b := strings.ToLower(text)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	dist := levenshtein(a, b)
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	return 1 - float64(dist)/float64(longest)
}

func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// headRunesafe returns at most n leading bytes of s, backed up to a rune
// boundary so multibyte characters are never split.
func headRunesafe(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
