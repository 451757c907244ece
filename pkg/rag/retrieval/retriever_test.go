package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"veritus-be/pkg/rag/memory"
	"veritus-be/pkg/vectorindex"

	"github.com/stretchr/testify/assert"
)

type fakeEmbedder struct {
	err   error
	calls []string
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	f.calls = append(f.calls, text)
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type indexQuery struct {
	topK   int
	filter vectorindex.Filter
}

type fakeIndex struct {
	matches [][]vectorindex.Match // one slice per successive call
	err     error
	queries []indexQuery
}

func (f *fakeIndex) Query(ctx context.Context, vector []float32, topK int, filter vectorindex.Filter) ([]vectorindex.Match, error) {
	f.queries = append(f.queries, indexQuery{topK: topK, filter: filter})
	if f.err != nil {
		return nil, f.err
	}
	call := len(f.queries) - 1
	if call < len(f.matches) {
		return f.matches[call], nil
	}
	return nil, nil
}

func match(id string, score float64, metadata map[string]string) vectorindex.Match {
	if metadata == nil {
		metadata = map[string]string{}
	}
	return vectorindex.Match{Id: id, Score: score, Text: "some statute text", Metadata: metadata}
}

func TestSearchFilterWithoutState(t *testing.T) {
	index := &fakeIndex{}
	r := NewRetriever(&fakeEmbedder{}, index, Config{}, newTestLogger())

	r.Search(context.Background(), "homicide penalty", &memory.ChatContext{}, Filters{Country: "Brazil"})

	assert.Len(t, index.queries, 1)
	assert.Equal(t, "Brazil", index.queries[0].filter.Country)
	assert.Equal(t, []string{"Federal"}, index.queries[0].filter.States)
}

func TestSearchFilterWidensStateWithFederal(t *testing.T) {
	index := &fakeIndex{}
	r := NewRetriever(&fakeEmbedder{}, index, Config{}, newTestLogger())

	r.Search(context.Background(), "tax law", &memory.ChatContext{}, Filters{Country: "Brazil", State: "SP"})

	assert.Equal(t, []string{"SP", "Federal"}, index.queries[0].filter.States)
}

func TestSearchWithoutContextSinglePass(t *testing.T) {
	index := &fakeIndex{matches: [][]vectorindex.Match{{
		match("a", 0.9, nil),
		match("b", 0.8, nil),
	}}}
	embedder := &fakeEmbedder{}
	r := NewRetriever(embedder, index, Config{TopK: 8}, newTestLogger())

	passages := r.Search(context.Background(), "homicide penalty", nil, Filters{})

	assert.Len(t, embedder.calls, 1)
	assert.Equal(t, "homicide penalty", embedder.calls[0])
	assert.Len(t, index.queries, 1)
	assert.Equal(t, 8, index.queries[0].topK)
	assert.Len(t, passages, 2)
}

func TestSearchWithContextRunsDualPass(t *testing.T) {
	index := &fakeIndex{}
	embedder := &fakeEmbedder{}
	r := NewRetriever(embedder, index, Config{TopK: 8}, newTestLogger())
	chatCtx := &memory.ChatContext{Summary: "prior talk about homicide"}

	r.Search(context.Background(), "what is the penalty", chatCtx, Filters{})

	assert.Len(t, index.queries, 2)
	assert.Equal(t, 16, index.queries[0].topK, "context pass casts a wider net")
	assert.Equal(t, 8, index.queries[1].topK)
	assert.Contains(t, embedder.calls[0], "prior talk about homicide")
	assert.Equal(t, "what is the penalty", embedder.calls[1])
}

func TestSearchDeduplicatesByAveragingScores(t *testing.T) {
	index := &fakeIndex{matches: [][]vectorindex.Match{
		{match("shared", 0.8, nil), match("only-context", 0.6, nil)},
		{match("shared", 0.4, nil)},
	}}
	r := NewRetriever(&fakeEmbedder{}, index, Config{TopK: 8}, newTestLogger())
	chatCtx := &memory.ChatContext{Summary: "context"}

	passages := r.Search(context.Background(), "query", chatCtx, Filters{})

	assert.Len(t, passages, 2)
	byId := map[string]float64{}
	for _, p := range passages {
		byId[p.Id] = p.Score
	}
	assert.InDelta(t, 0.6, byId["shared"], 1e-9, "shared id merges by averaging")
	assert.InDelta(t, 0.6, byId["only-context"], 1e-9)
}

func TestSearchEmbeddingFailureYieldsEmpty(t *testing.T) {
	index := &fakeIndex{}
	r := NewRetriever(&fakeEmbedder{err: errors.New("model down")}, index, Config{}, newTestLogger())

	passages := r.Search(context.Background(), "query", nil, Filters{})

	assert.Empty(t, passages)
	assert.Empty(t, index.queries)
}

func TestSearchIndexFailureYieldsEmpty(t *testing.T) {
	index := &fakeIndex{err: errors.New("index down")}
	r := NewRetriever(&fakeEmbedder{}, index, Config{}, newTestLogger())

	passages := r.Search(context.Background(), "query", nil, Filters{})

	assert.Empty(t, passages)
}

func TestEnrichQueryCutsOnRuneBoundary(t *testing.T) {
	// 300 two-byte runes; an odd slice length lands mid-character
	contextText := strings.Repeat("ã", 300)

	enriched := enrichQuery("qual a pena", contextText, 451)

	assert.True(t, utf8.ValidString(enriched))
	assert.True(t, strings.HasPrefix(enriched, "qual a pena\n"))
}

func TestNormalizeMatchDefaults(t *testing.T) {
	p := normalizeMatch(match("x", 0.5, map[string]string{}))

	assert.Equal(t, "Unknown", p.Title)
	assert.Equal(t, "", p.SourceUrl)
}

func TestResolveSourceUrlPriority(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]string
		want     string
	}{
		{
			name:     "explicit url wins",
			metadata: map[string]string{"url": "https://a", "source_url": "https://b"},
			want:     "https://a",
		},
		{
			name:     "source_url second",
			metadata: map[string]string{"source_url": "https://b", "source": "https://www.planalto.gov.br/x"},
			want:     "https://b",
		},
		{
			name:     "legal-domain source accepted",
			metadata: map[string]string{"source": "https://www.planalto.gov.br/ccivil_03/decreto-lei/Del2848.htm"},
			want:     "https://www.planalto.gov.br/ccivil_03/decreto-lei/Del2848.htm",
		},
		{
			name:     "non-url source rejected",
			metadata: map[string]string{"source": "Codigo Penal"},
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveSourceUrl(tt.metadata))
		})
	}
}
