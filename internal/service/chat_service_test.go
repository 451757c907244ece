package service

import (
	"context"
	"errors"
	"testing"

	"veritus-be/internal/constant"
	"veritus-be/internal/dto"
	"veritus-be/internal/entity"
	"veritus-be/internal/repository/contract"
	"veritus-be/internal/repository/specification"
	"veritus-be/internal/repository/unitofwork"
	"veritus-be/pkg/rag"
	"veritus-be/pkg/rag/memory"
	"veritus-be/pkg/rag/prompt"
	"veritus-be/pkg/rag/response"
	"veritus-be/pkg/rag/retrieval"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}

func (nopLogger) Sync() error { return nil }

type fakeContextBuilder struct {
	chatCtx *memory.ChatContext
	err     error
	lang    string
}

func (f *fakeContextBuilder) BuildContext(ctx context.Context, chatId uuid.UUID, lang string) (*memory.ChatContext, error) {
	f.lang = lang
	return f.chatCtx, f.err
}

type fakeSearcher struct {
	passages []retrieval.Passage
	query    string
	filters  retrieval.Filters
}

func (f *fakeSearcher) Search(ctx context.Context, query string, chatCtx *memory.ChatContext, filters retrieval.Filters) []retrieval.Passage {
	f.query = query
	f.filters = filters
	return f.passages
}

type fakeAssembler struct {
	assembled prompt.Assembled
	passages  []retrieval.Passage
	lang      string
}

func (f *fakeAssembler) Assemble(passages []retrieval.Passage, chatCtx *memory.ChatContext, lang string) prompt.Assembled {
	f.passages = passages
	f.lang = lang
	return f.assembled
}

type fakeAnswerStreamer struct {
	tokens    []response.StreamToken
	assembled prompt.Assembled
	query     string
}

func (f *fakeAnswerStreamer) StreamAnswer(ctx context.Context, assembled prompt.Assembled, query, lang string) <-chan response.StreamToken {
	f.assembled = assembled
	f.query = query
	out := make(chan response.StreamToken, len(f.tokens))
	for _, token := range f.tokens {
		out <- token
	}
	close(out)
	return out
}

type fakeMessageRepo struct {
	messages  []*entity.ChatMessage
	created   []*entity.ChatMessage
	findSpecs []specification.Specification
	findErr   error
	createErr error
}

func (f *fakeMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, message)
	return nil
}

func (f *fakeMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	return nil, nil
}

func (f *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	f.findSpecs = specs
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.messages, nil
}

func (f *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.messages)), nil
}

func (f *fakeMessageRepo) MarkSummarized(ctx context.Context, messageIds []uuid.UUID) error {
	return nil
}

type fakeSummaryRepo struct {
	stored  *entity.ChatSummary
	findErr error
}

func (f *fakeSummaryRepo) Upsert(ctx context.Context, summary *entity.ChatSummary) error {
	return nil
}

func (f *fakeSummaryRepo) FindByChatId(ctx context.Context, chatId uuid.UUID) (*entity.ChatSummary, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.stored, nil
}

type fakeUow struct {
	messageRepo *fakeMessageRepo
	summaryRepo *fakeSummaryRepo
}

func (f *fakeUow) Begin(ctx context.Context) error { return nil }
func (f *fakeUow) Commit() error                   { return nil }
func (f *fakeUow) Rollback() error                 { return nil }

func (f *fakeUow) ChatMessageRepository() contract.ChatMessageRepository { return f.messageRepo }
func (f *fakeUow) ChatSummaryRepository() contract.ChatSummaryRepository { return f.summaryRepo }
func (f *fakeUow) StatuteChunkRepository() contract.StatuteChunkRepository {
	return nil
}

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type serviceFixture struct {
	contextBuilder *fakeContextBuilder
	searcher       *fakeSearcher
	assembler      *fakeAssembler
	streamer       *fakeAnswerStreamer
	messageRepo    *fakeMessageRepo
	summaryRepo    *fakeSummaryRepo
	service        IChatService
}

func newFixture() *serviceFixture {
	f := &serviceFixture{
		contextBuilder: &fakeContextBuilder{chatCtx: &memory.ChatContext{}},
		searcher:       &fakeSearcher{},
		assembler:      &fakeAssembler{},
		streamer: &fakeAnswerStreamer{tokens: []response.StreamToken{
			{Kind: response.TokenText, Payload: "answer"},
			{Kind: response.TokenDone, Payload: constant.StreamDoneToken},
		}},
		messageRepo: &fakeMessageRepo{},
		summaryRepo: &fakeSummaryRepo{},
	}
	f.service = NewChatService(
		f.contextBuilder,
		f.searcher,
		f.assembler,
		f.streamer,
		&fakeFactory{uow: &fakeUow{messageRepo: f.messageRepo, summaryRepo: f.summaryRepo}},
		nopLogger{},
	)
	return f
}

func askRequest() dto.AskRequest {
	return dto.AskRequest{
		Query:   "what is the penalty for homicide?",
		Id:      uuid.NewString(),
		Lang:    "pt",
		Country: "Brazil",
		State:   "SP",
	}
}

func TestAskSequencesPipeline(t *testing.T) {
	f := newFixture()
	f.searcher.passages = []retrieval.Passage{{Id: "cp-121"}}
	f.assembler.assembled = prompt.Assembled{ReferenceBlock: "refs"}

	tokens, err := f.service.Ask(context.Background(), askRequest())

	assert.NoError(t, err)
	var got []response.StreamToken
	for token := range tokens {
		got = append(got, token)
	}
	assert.Len(t, got, 2)
	assert.Equal(t, response.TokenDone, got[1].Kind)

	assert.Equal(t, "pt", f.contextBuilder.lang)
	assert.Equal(t, "what is the penalty for homicide?", f.searcher.query)
	assert.Equal(t, retrieval.Filters{Country: "Brazil", State: "SP"}, f.searcher.filters)
	assert.Equal(t, f.searcher.passages, f.assembler.passages)
	assert.Equal(t, f.assembler.assembled, f.streamer.assembled)
	assert.Equal(t, "what is the penalty for homicide?", f.streamer.query)
}

func TestAskNormalizesUnsupportedLang(t *testing.T) {
	f := newFixture()
	req := askRequest()
	req.Lang = "fr"

	_, err := f.service.Ask(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, "en", f.contextBuilder.lang)
	assert.Equal(t, "en", f.assembler.lang)
}

func TestAskInvalidChatIdRejected(t *testing.T) {
	f := newFixture()
	req := askRequest()
	req.Id = "not-a-uuid"

	_, err := f.service.Ask(context.Background(), req)

	assert.Error(t, err)
}

func TestAskStorageFailureAborts(t *testing.T) {
	f := newFixture()
	f.contextBuilder.err = rag.StorageError(errors.New("db down"))
	f.contextBuilder.chatCtx = nil

	_, err := f.service.Ask(context.Background(), askRequest())

	assert.True(t, errors.Is(err, rag.ErrStorage))
}

func TestAskEmptyRetrievalStillStreams(t *testing.T) {
	f := newFixture()
	f.searcher.passages = nil

	tokens, err := f.service.Ask(context.Background(), askRequest())

	assert.NoError(t, err)
	count := 0
	for range tokens {
		count++
	}
	assert.Equal(t, 2, count, "empty retrieval degrades, it never aborts")
	assert.Empty(t, f.assembler.passages)
}

func TestGetMessages(t *testing.T) {
	f := newFixture()
	chatId := uuid.New()
	f.messageRepo.messages = []*entity.ChatMessage{
		{Id: uuid.New(), ChatId: chatId, Sender: constant.ChatMessageSenderUser, Text: "hello"},
		{Id: uuid.New(), ChatId: chatId, Sender: constant.ChatMessageSenderAI, Text: "hi"},
	}

	res, err := f.service.GetMessages(context.Background(), chatId, dto.MessageHistoryQuery{})

	assert.NoError(t, err)
	assert.Len(t, res, 2)
	assert.Equal(t, "hello", res[0].Text)
	assert.Equal(t, constant.ChatMessageSenderAI, res[1].Sender)
	assert.Len(t, f.messageRepo.findSpecs, 2, "empty query adds no filter or pagination")
}

func TestGetMessagesAppliesSenderAndPagination(t *testing.T) {
	f := newFixture()

	_, err := f.service.GetMessages(context.Background(), uuid.New(), dto.MessageHistoryQuery{
		Sender: constant.ChatMessageSenderUser,
		Limit:  20,
		Offset: 40,
	})

	assert.NoError(t, err)
	var foundFilter, foundPagination bool
	for _, spec := range f.messageRepo.findSpecs {
		switch s := spec.(type) {
		case specification.FilterBy:
			foundFilter = true
			assert.Equal(t, "sender", s.Field)
			assert.Equal(t, constant.ChatMessageSenderUser, s.Value)
		case specification.Pagination:
			foundPagination = true
			assert.Equal(t, 20, s.Limit)
			assert.Equal(t, 40, s.Offset)
		}
	}
	assert.True(t, foundFilter)
	assert.True(t, foundPagination)
}

func TestGetMessagesStorageFailure(t *testing.T) {
	f := newFixture()
	f.messageRepo.findErr = errors.New("connection reset")

	_, err := f.service.GetMessages(context.Background(), uuid.New(), dto.MessageHistoryQuery{})

	assert.True(t, errors.Is(err, rag.ErrStorage))
}

func TestAppendMessage(t *testing.T) {
	f := newFixture()
	chatId := uuid.New()

	res, err := f.service.AppendMessage(context.Background(), dto.AppendMessageRequest{
		ChatId: chatId.String(),
		Sender: constant.ChatMessageSenderUser,
		Text:   "a follow-up question",
	})

	assert.NoError(t, err)
	assert.Equal(t, chatId, res.ChatId)
	assert.NotEqual(t, uuid.Nil, res.Id)
	assert.Len(t, f.messageRepo.created, 1)
}

func TestAppendMessageInvalidChatId(t *testing.T) {
	f := newFixture()

	_, err := f.service.AppendMessage(context.Background(), dto.AppendMessageRequest{
		ChatId: "nope",
		Sender: constant.ChatMessageSenderUser,
		Text:   "x",
	})

	assert.Error(t, err)
}

func TestGetSummaryReturnsNilWhenAbsent(t *testing.T) {
	f := newFixture()

	res, err := f.service.GetSummary(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestGetSummary(t *testing.T) {
	f := newFixture()
	chatId := uuid.New()
	f.summaryRepo.stored = &entity.ChatSummary{ChatId: chatId, Content: "prior discussion"}

	res, err := f.service.GetSummary(context.Background(), chatId)

	assert.NoError(t, err)
	assert.Equal(t, chatId, res.ChatId)
	assert.Equal(t, "prior discussion", res.Content)
}
