package service

import (
	"context"
	"fmt"

	"veritus-be/internal/constant"
	"veritus-be/internal/dto"
	"veritus-be/internal/entity"
	"veritus-be/internal/pkg/logger"
	"veritus-be/internal/repository/specification"
	"veritus-be/internal/repository/unitofwork"
	"veritus-be/pkg/rag"
	"veritus-be/pkg/rag/memory"
	"veritus-be/pkg/rag/prompt"
	"veritus-be/pkg/rag/response"
	"veritus-be/pkg/rag/retrieval"

	"github.com/google/uuid"
)

// Pipeline stage seams. Declared here so tests can substitute fakes.

type ContextBuilder interface {
	BuildContext(ctx context.Context, chatId uuid.UUID, lang string) (*memory.ChatContext, error)
}

type Searcher interface {
	Search(ctx context.Context, query string, chatCtx *memory.ChatContext, filters retrieval.Filters) []retrieval.Passage
}

type Assembler interface {
	Assemble(passages []retrieval.Passage, chatCtx *memory.ChatContext, lang string) prompt.Assembled
}

type AnswerStreamer interface {
	StreamAnswer(ctx context.Context, assembled prompt.Assembled, query, lang string) <-chan response.StreamToken
}

type IChatService interface {
	Ask(ctx context.Context, req dto.AskRequest) (<-chan response.StreamToken, error)
	GetMessages(ctx context.Context, chatId uuid.UUID, query dto.MessageHistoryQuery) ([]dto.ChatMessageResponse, error)
	AppendMessage(ctx context.Context, req dto.AppendMessageRequest) (*dto.ChatMessageResponse, error)
	GetSummary(ctx context.Context, chatId uuid.UUID) (*dto.ChatSummaryResponse, error)
}

// chatService sequences memory, retrieval, assembly and streaming for each
// request. Storage failures abort; retrieval and summarization degrade
// silently so the caller always gets a streamed answer.
type chatService struct {
	contextBuilder ContextBuilder
	retriever      Searcher
	assembler      Assembler
	streamer       AnswerStreamer
	uowFactory     unitofwork.RepositoryFactory
	logger         logger.ILogger
}

func NewChatService(
	contextBuilder ContextBuilder,
	retriever Searcher,
	assembler Assembler,
	streamer AnswerStreamer,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IChatService {
	return &chatService{
		contextBuilder: contextBuilder,
		retriever:      retriever,
		assembler:      assembler,
		streamer:       streamer,
		uowFactory:     uowFactory,
		logger:         log,
	}
}

func (s *chatService) Ask(ctx context.Context, req dto.AskRequest) (<-chan response.StreamToken, error) {
	chatId, err := uuid.Parse(req.Id)
	if err != nil {
		return nil, fmt.Errorf("invalid chat id %q: %w", req.Id, err)
	}
	lang := constant.NormalizeLang(req.Lang)

	chatCtx, err := s.contextBuilder.BuildContext(ctx, chatId, lang)
	if err != nil {
		// Storage failures are the only fatal pipeline errors
		return nil, err
	}

	passages := s.retriever.Search(ctx, req.Query, chatCtx, retrieval.Filters{
		Country: req.Country,
		State:   req.State,
	})
	if len(passages) == 0 {
		s.logger.Info("ChatService", "No passages retrieved", map[string]interface{}{
			"chat_id": chatId.String(),
		})
	}

	assembled := s.assembler.Assemble(passages, chatCtx, lang)
	return s.streamer.StreamAnswer(ctx, assembled, req.Query, lang), nil
}

func (s *chatService) GetMessages(ctx context.Context, chatId uuid.UUID, query dto.MessageHistoryQuery) ([]dto.ChatMessageResponse, error) {
	specs := []specification.Specification{
		specification.ByChatID{ChatID: chatId},
		specification.OrderBy{Field: "created_at"},
	}
	if query.Sender != "" {
		specs = append(specs, specification.Filter("sender", query.Sender))
	}
	if query.Limit > 0 {
		specs = append(specs, specification.Pagination{Limit: query.Limit, Offset: query.Offset})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.ChatMessageRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, rag.StorageError(fmt.Errorf("fetch messages for chat %s: %w", chatId, err))
	}

	res := make([]dto.ChatMessageResponse, len(messages))
	for i, msg := range messages {
		res[i] = toMessageResponse(msg)
	}
	return res, nil
}

func (s *chatService) AppendMessage(ctx context.Context, req dto.AppendMessageRequest) (*dto.ChatMessageResponse, error) {
	chatId, err := uuid.Parse(req.ChatId)
	if err != nil {
		return nil, fmt.Errorf("invalid chat id %q: %w", req.ChatId, err)
	}

	msg := &entity.ChatMessage{
		Id:     uuid.New(),
		ChatId: chatId,
		Sender: req.Sender,
		Text:   req.Text,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatMessageRepository().Create(ctx, msg); err != nil {
		return nil, rag.StorageError(fmt.Errorf("append message to chat %s: %w", chatId, err))
	}

	res := toMessageResponse(msg)
	return &res, nil
}

func (s *chatService) GetSummary(ctx context.Context, chatId uuid.UUID) (*dto.ChatSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	summary, err := uow.ChatSummaryRepository().FindByChatId(ctx, chatId)
	if err != nil {
		return nil, rag.StorageError(fmt.Errorf("fetch summary for chat %s: %w", chatId, err))
	}
	if summary == nil {
		return nil, nil
	}
	return &dto.ChatSummaryResponse{
		ChatId:    summary.ChatId,
		Content:   summary.Content,
		UpdatedAt: summary.UpdatedAt,
	}, nil
}

func toMessageResponse(msg *entity.ChatMessage) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		Id:           msg.Id,
		ChatId:       msg.ChatId,
		Sender:       msg.Sender,
		Text:         msg.Text,
		IsSummarized: msg.IsSummarized,
		CreatedAt:    msg.CreatedAt,
	}
}
