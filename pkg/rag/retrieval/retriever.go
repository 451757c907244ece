package retrieval

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"veritus-be/internal/constant"
	"veritus-be/internal/pkg/logger"
	"veritus-be/pkg/embedding"
	"veritus-be/pkg/rag/memory"
	"veritus-be/pkg/vectorindex"
)

// Passage is the canonical retrieved unit. Field-name normalization from raw
// index matches happens exactly once, in normalizeMatch.
type Passage struct {
	Id           string
	Score        float64
	Text         string
	Title        string
	Country      string
	State        string
	SourceUrl    string
	DocumentType string
}

// Filters restrict retrieval by jurisdiction.
type Filters struct {
	Country string
	State   string
}

type Config struct {
	TopK            int // default 8
	ContextSliceLen int // trailing context characters appended to the query, default 450
}

func (c Config) withDefaults() Config {
	if c.TopK <= 0 {
		c.TopK = 8
	}
	if c.ContextSliceLen <= 0 {
		c.ContextSliceLen = 450
	}
	return c
}

// Retriever turns a query plus conversation context into a ranked,
// deduplicated passage list.
type Retriever struct {
	embedder embedding.Provider
	index    vectorindex.Index
	cfg      Config
	logger   logger.ILogger
}

func NewRetriever(embedder embedding.Provider, index vectorindex.Index, cfg Config, log logger.ILogger) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    index,
		cfg:      cfg.withDefaults(),
		logger:   log,
	}
}

// Search returns at most topK passages. Embedding or index failures are
// logged and yield an empty list so the request can still answer with
// "no documents found".
func (r *Retriever) Search(ctx context.Context, query string, chatCtx *memory.ChatContext, filters Filters) []Passage {
	filter := vectorindex.Filter{
		Country: filters.Country,
		States:  statesFor(filters.State),
	}

	contextText := chatCtx.ContextText()
	enriched := enrichQuery(query, contextText, r.cfg.ContextSliceLen)

	if enriched == query {
		candidates := r.queryIndex(ctx, query, r.cfg.TopK, filter)
		sortByScore(candidates)
		return truncate(candidates, r.cfg.TopK)
	}

	// Dual pass: the context-weighted query casts a wide net, the raw query
	// anchors results to the immediate question. Shared ids merge by
	// averaging scores.
	contextPass := r.queryIndex(ctx, enriched, 2*r.cfg.TopK, filter)
	rawPass := r.queryIndex(ctx, query, r.cfg.TopK, filter)
	candidates := mergeByAverage(contextPass, rawPass)

	if len(candidates) > r.cfg.TopK {
		candidates = Rerank(candidates, query, contextText, r.cfg.TopK)
	} else {
		sortByScore(candidates)
	}
	return candidates
}

func (r *Retriever) queryIndex(ctx context.Context, text string, topK int, filter vectorindex.Filter) []Passage {
	vector, err := r.embedder.Embed(ctx, text, embedding.TaskRetrievalQuery)
	if err != nil {
		r.logger.Error("Retriever", "Embedding failed, returning no documents", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	matches, err := r.index.Query(ctx, vector, topK, filter)
	if err != nil {
		r.logger.Error("Retriever", "Index query failed, returning no documents", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	passages := make([]Passage, len(matches))
	for i, match := range matches {
		passages[i] = normalizeMatch(match)
	}
	return passages
}

// statesFor widens a state filter to "state OR Federal" so a state query
// never excludes nationally-applicable law.
func statesFor(state string) []string {
	if state == "" {
		return []string{constant.FederalJurisdiction}
	}
	return []string{state, constant.FederalJurisdiction}
}

func enrichQuery(query, contextText string, sliceLen int) string {
	trimmed := strings.TrimSpace(contextText)
	if trimmed == "" {
		return query
	}
	if len(trimmed) > sliceLen {
		// Advance to a rune start so pt-BR text is never cut mid-character
		cut := len(trimmed) - sliceLen
		for cut < len(trimmed) && !utf8.RuneStart(trimmed[cut]) {
			cut++
		}
		trimmed = trimmed[cut:]
	}
	return query + "\n" + trimmed
}

// normalizeMatch is the single place raw index metadata becomes a Passage.
// Citation URLs are resolved here and nowhere else: an explicit url field
// wins, then source_url, then a source field only when it already is a
// recognized legal-domain URL. Nothing is ever guessed.
func normalizeMatch(m vectorindex.Match) Passage {
	title := m.Metadata["title"]
	if title == "" {
		title = "Unknown"
	}

	return Passage{
		Id:           m.Id,
		Score:        m.Score,
		Text:         m.Text,
		Title:        title,
		Country:      m.Metadata["country"],
		State:        m.Metadata["state"],
		SourceUrl:    resolveSourceUrl(m.Metadata),
		DocumentType: m.Metadata["document_type"],
	}
}

func resolveSourceUrl(metadata map[string]string) string {
	if url := metadata["url"]; url != "" {
		return url
	}
	if url := metadata["source_url"]; url != "" {
		return url
	}
	if source := metadata["source"]; isLegalDomainUrl(source) {
		return source
	}
	return ""
}

func isLegalDomainUrl(s string) bool {
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	return strings.Contains(s, "planalto.gov.br") || strings.Contains(s, ".gov.br")
}

func mergeByAverage(passes ...[]Passage) []Passage {
	merged := make([]Passage, 0)
	seen := make(map[string]int) // id -> index in merged

	for _, pass := range passes {
		for _, p := range pass {
			if idx, ok := seen[p.Id]; ok {
				merged[idx].Score = (merged[idx].Score + p.Score) / 2
				continue
			}
			seen[p.Id] = len(merged)
			merged = append(merged, p)
		}
	}
	return merged
}

func sortByScore(passages []Passage) {
	sort.SliceStable(passages, func(i, j int) bool {
		return passages[i].Score > passages[j].Score
	})
}

func truncate(passages []Passage, topK int) []Passage {
	if len(passages) > topK {
		return passages[:topK]
	}
	return passages
}
