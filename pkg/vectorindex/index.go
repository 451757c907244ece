// Package vectorindex abstracts similarity search over the statute corpus.
package vectorindex

import "context"

// Filter restricts a query by jurisdiction. Empty fields are not applied.
type Filter struct {
	Country string
	States  []string
}

// Match is one raw index hit. Metadata carries the document fields the
// retriever normalizes into passages.
type Match struct {
	Id       string
	Score    float64
	Text     string
	Metadata map[string]string
}

type Index interface {
	Query(ctx context.Context, vector []float32, topK int, filter Filter) ([]Match, error)
}
