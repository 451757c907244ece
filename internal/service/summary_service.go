package service

import (
	"context"

	"veritus-be/internal/constant"
	"veritus-be/internal/dto"
	"veritus-be/pkg/rag/response"
)

type DocumentSummarizer interface {
	SummarizeDocument(ctx context.Context, text, lang string) <-chan response.StreamToken
}

type ISummaryService interface {
	StreamDocumentSummary(ctx context.Context, req dto.DocumentSummaryRequest) <-chan response.StreamToken
}

// summaryService streams locale-aware summaries of caller-provided document
// text. Extraction from uploaded files happens upstream.
type summaryService struct {
	streamer DocumentSummarizer
}

func NewSummaryService(streamer DocumentSummarizer) ISummaryService {
	return &summaryService{streamer: streamer}
}

func (s *summaryService) StreamDocumentSummary(ctx context.Context, req dto.DocumentSummaryRequest) <-chan response.StreamToken {
	return s.streamer.SummarizeDocument(ctx, req.Text, constant.NormalizeLang(req.Lang))
}
