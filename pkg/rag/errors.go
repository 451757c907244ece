// Package rag defines the error taxonomy shared by the pipeline stages.
// Callers branch on the kind with errors.Is; the wrapped cause stays
// available for logging.
package rag

import (
	"errors"
	"fmt"
)

var (
	// ErrStorage marks failed reads or writes of conversation state. The
	// pipeline treats these as fatal for the request.
	ErrStorage = errors.New("storage error")

	// ErrRetrieval marks embedding or index failures. The pipeline degrades
	// to an empty passage list instead of failing the request.
	ErrRetrieval = errors.New("retrieval error")

	// ErrSummarization marks summarizer failures. The pipeline keeps the
	// prior summary (or none) and moves on.
	ErrSummarization = errors.New("summarization error")

	// ErrGeneration marks answer-model failures. The stream ends with a
	// terminal error token.
	ErrGeneration = errors.New("generation error")
)

func StorageError(err error) error {
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

func RetrievalError(err error) error {
	return fmt.Errorf("%w: %w", ErrRetrieval, err)
}

func SummarizationError(err error) error {
	return fmt.Errorf("%w: %w", ErrSummarization, err)
}

func GenerationError(err error) error {
	return fmt.Errorf("%w: %w", ErrGeneration, err)
}
