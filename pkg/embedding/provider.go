package embedding

import "context"

// Task types hint the backend how the text will be used. Backends that do
// not distinguish (Ollama) ignore them.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// Provider turns text into a dense vector.
type Provider interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
}
