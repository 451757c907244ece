package entity

import "time"

// StatuteChunk is one embedded fragment of a legal document. Ids are the
// upstream corpus ids (strings, not uuids) so re-seeding stays idempotent.
type StatuteChunk struct {
	Id           string
	Title        string
	Text         string
	DocumentType string
	Country      string
	State        string
	SourceUrl    string
	Embedding    []float32
	CreatedAt    time.Time
}

// StatuteChunkHit pairs a chunk with its cosine similarity to a query vector.
type StatuteChunkHit struct {
	StatuteChunk
	Similarity float64
}
