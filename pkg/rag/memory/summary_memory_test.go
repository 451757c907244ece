package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"veritus-be/internal/constant"
	"veritus-be/internal/entity"
	"veritus-be/internal/pkg/logger"
	"veritus-be/internal/repository/contract"
	"veritus-be/internal/repository/specification"
	"veritus-be/internal/repository/unitofwork"
	"veritus-be/pkg/events"
	"veritus-be/pkg/rag"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}

func (nopLogger) Sync() error { return nil }

type fakeMessageRepo struct {
	messages   []*entity.ChatMessage
	findAllErr error
	markedIds  []uuid.UUID
	markErr    error
}

func (f *fakeMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	return nil
}

func (f *fakeMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	return nil, nil
}

func (f *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	if f.findAllErr != nil {
		return nil, f.findAllErr
	}
	return f.messages, nil
}

func (f *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.messages)), nil
}

func (f *fakeMessageRepo) MarkSummarized(ctx context.Context, messageIds []uuid.UUID) error {
	f.markedIds = append(f.markedIds, messageIds...)
	return f.markErr
}

type fakeSummaryRepo struct {
	stored    *entity.ChatSummary
	findErr   error
	upserted  []*entity.ChatSummary
	upsertErr error
}

func (f *fakeSummaryRepo) Upsert(ctx context.Context, summary *entity.ChatSummary) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, summary)
	f.stored = summary
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

type fakeSummarizer struct {
	summary string
	err     error
	inputs  []string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string, lang string) (string, error) {
	f.inputs = append(f.inputs, text)
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

type fakePublisher struct {
	published []events.Event
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return f.err
}

func message(sender, text string, summarized bool, at time.Time) *entity.ChatMessage {
	return &entity.ChatMessage{
		Id:           uuid.New(),
		Sender:       sender,
		Text:         text,
		IsSummarized: summarized,
		CreatedAt:    at,
	}
}

func conversation(summarized bool, texts ...string) []*entity.ChatMessage {
	base := time.Now().Add(-time.Hour)
	msgs := make([]*entity.ChatMessage, len(texts))
	for i, text := range texts {
		sender := constant.ChatMessageSenderUser
		if i%2 == 1 {
			sender = constant.ChatMessageSenderAI
		}
		msgs[i] = message(sender, text, summarized, base.Add(time.Duration(i)*time.Minute))
	}
	return msgs
}

func newMemoryUnderTest(msgRepo *fakeMessageRepo, sumRepo *fakeSummaryRepo, summarizer *fakeSummarizer, publisher *fakePublisher) *SummaryMemory {
	var pub EventPublisher
	if publisher != nil {
		pub = publisher
	}
	return NewSummaryMemory(
		&fakeFactory{uow: &fakeUow{messageRepo: msgRepo, summaryRepo: sumRepo}},
		summarizer,
		nil,
		pub,
		logger.ILogger(nopLogger{}),
	)
}

func TestBuildContextRegeneratesSummaryForUnsummarizedWindow(t *testing.T) {
	msgRepo := &fakeMessageRepo{messages: conversation(false,
		"what is homicide?", "homicide is...",
		"and the penalty?", "the penalty is...",
		"any aggravating factors?", "yes, such as...",
	)}
	sumRepo := &fakeSummaryRepo{}
	summarizer := &fakeSummarizer{summary: "They discussed homicide and its penalty."}
	publisher := &fakePublisher{}
	m := newMemoryUnderTest(msgRepo, sumRepo, summarizer, publisher)
	chatId := uuid.New()

	chatCtx, err := m.BuildContext(context.Background(), chatId, "en")

	assert.NoError(t, err)
	assert.Equal(t, "They discussed homicide and its penalty.", chatCtx.Summary)
	assert.Equal(t, "what is homicide?", chatCtx.FirstQuestion)
	assert.Equal(t, []string{"what is homicide?", "and the penalty?", "any aggravating factors?"}, chatCtx.UserMessages)
	assert.Len(t, chatCtx.AIMessages, 3)

	assert.Len(t, summarizer.inputs, 1)
	assert.Contains(t, summarizer.inputs[0], "User: what is homicide?")
	assert.Contains(t, summarizer.inputs[0], "AI: homicide is...")

	assert.Len(t, sumRepo.upserted, 1)
	assert.Equal(t, chatId, sumRepo.upserted[0].ChatId)
	assert.Len(t, msgRepo.markedIds, 6)
	assert.Len(t, publisher.published, 1)
	assert.Equal(t, events.SummaryUpdatedType, publisher.published[0].EventType())
}

func TestBuildContextWindowsToLastSixMessages(t *testing.T) {
	msgRepo := &fakeMessageRepo{messages: conversation(false,
		"q1", "a1", "q2", "a2", "q3", "a3", "q4", "a4",
	)}
	summarizer := &fakeSummarizer{summary: "summary"}
	m := newMemoryUnderTest(msgRepo, &fakeSummaryRepo{}, summarizer, nil)

	chatCtx, err := m.BuildContext(context.Background(), uuid.New(), "en")

	assert.NoError(t, err)
	// First question comes from the full history, not the window
	assert.Equal(t, "q1", chatCtx.FirstQuestion)
	assert.Equal(t, []string{"q2", "q3", "q4"}, chatCtx.UserMessages)
	assert.Len(t, msgRepo.markedIds, 6)
	assert.NotContains(t, summarizer.inputs[0], "q1")
}

func TestBuildContextFullySummarizedWindowIsNoOp(t *testing.T) {
	msgRepo := &fakeMessageRepo{messages: conversation(true, "q1", "a1", "q2", "a2")}
	sumRepo := &fakeSummaryRepo{stored: &entity.ChatSummary{Content: "prior summary"}}
	summarizer := &fakeSummarizer{summary: "should not be produced"}
	publisher := &fakePublisher{}
	m := newMemoryUnderTest(msgRepo, sumRepo, summarizer, publisher)

	chatCtx, err := m.BuildContext(context.Background(), uuid.New(), "en")

	assert.NoError(t, err)
	assert.Equal(t, "prior summary", chatCtx.Summary)
	assert.Empty(t, summarizer.inputs)
	assert.Empty(t, sumRepo.upserted)
	assert.Empty(t, msgRepo.markedIds)
	assert.Empty(t, publisher.published)
}

func TestBuildContextEmptyHistory(t *testing.T) {
	m := newMemoryUnderTest(&fakeMessageRepo{}, &fakeSummaryRepo{}, &fakeSummarizer{}, nil)

	chatCtx, err := m.BuildContext(context.Background(), uuid.New(), "en")

	assert.NoError(t, err)
	assert.Empty(t, chatCtx.Summary)
	assert.Empty(t, chatCtx.FirstQuestion)
	assert.False(t, chatCtx.HasContent())
}

func TestBuildContextStorageFailureAborts(t *testing.T) {
	msgRepo := &fakeMessageRepo{findAllErr: errors.New("connection reset")}
	m := newMemoryUnderTest(msgRepo, &fakeSummaryRepo{}, &fakeSummarizer{}, nil)

	_, err := m.BuildContext(context.Background(), uuid.New(), "en")

	assert.True(t, errors.Is(err, rag.ErrStorage))
}

func TestBuildContextSummaryReadFailureAborts(t *testing.T) {
	msgRepo := &fakeMessageRepo{messages: conversation(true, "q1", "a1")}
	sumRepo := &fakeSummaryRepo{findErr: errors.New("connection reset")}
	m := newMemoryUnderTest(msgRepo, sumRepo, &fakeSummarizer{}, nil)

	_, err := m.BuildContext(context.Background(), uuid.New(), "en")

	assert.True(t, errors.Is(err, rag.ErrStorage))
}

func TestBuildContextSummarizerFailureFallsBackToStoredSummary(t *testing.T) {
	msgRepo := &fakeMessageRepo{messages: conversation(false, "q1", "a1")}
	sumRepo := &fakeSummaryRepo{stored: &entity.ChatSummary{Content: "prior summary"}}
	summarizer := &fakeSummarizer{err: errors.New("model down")}
	m := newMemoryUnderTest(msgRepo, sumRepo, summarizer, nil)

	chatCtx, err := m.BuildContext(context.Background(), uuid.New(), "en")

	assert.NoError(t, err, "summarizer failures must not break the request")
	assert.Equal(t, "prior summary", chatCtx.Summary)
	assert.Empty(t, sumRepo.upserted)
	assert.Empty(t, msgRepo.markedIds)
}

func TestBuildContextUpsertFailureAborts(t *testing.T) {
	msgRepo := &fakeMessageRepo{messages: conversation(false, "q1", "a1")}
	sumRepo := &fakeSummaryRepo{upsertErr: errors.New("disk full")}
	m := newMemoryUnderTest(msgRepo, sumRepo, &fakeSummarizer{summary: "new summary"}, nil)

	_, err := m.BuildContext(context.Background(), uuid.New(), "en")

	assert.True(t, errors.Is(err, rag.ErrStorage))
}

func TestBuildContextMarkSummarizedFailureIsBestEffort(t *testing.T) {
	msgRepo := &fakeMessageRepo{
		messages: conversation(false, "q1", "a1"),
		markErr:  errors.New("lock timeout"),
	}
	m := newMemoryUnderTest(msgRepo, &fakeSummaryRepo{}, &fakeSummarizer{summary: "new summary"}, nil)

	chatCtx, err := m.BuildContext(context.Background(), uuid.New(), "en")

	assert.NoError(t, err)
	assert.Equal(t, "new summary", chatCtx.Summary)
}

func TestBuildContextPublisherFailureIsBestEffort(t *testing.T) {
	msgRepo := &fakeMessageRepo{messages: conversation(false, "q1", "a1")}
	publisher := &fakePublisher{err: errors.New("broker gone")}
	m := newMemoryUnderTest(msgRepo, &fakeSummaryRepo{}, &fakeSummarizer{summary: "new summary"}, publisher)

	chatCtx, err := m.BuildContext(context.Background(), uuid.New(), "en")

	assert.NoError(t, err)
	assert.Equal(t, "new summary", chatCtx.Summary)
	assert.Len(t, publisher.published, 1)
}

func TestRenderConversation(t *testing.T) {
	window := []*entity.ChatMessage{
		message(constant.ChatMessageSenderUser, "hello", false, time.Now()),
		message(constant.ChatMessageSenderAI, "hi there", false, time.Now()),
	}

	assert.Equal(t, "User: hello\nAI: hi there", renderConversation(window, "en"))
	assert.Equal(t, "Usuário: hello\nIA: hi there", renderConversation(window, "pt"))
}

func TestBuildContextRendersConversationInRequestLocale(t *testing.T) {
	msgRepo := &fakeMessageRepo{messages: conversation(false, "qual a pena?", "a pena é...")}
	summarizer := &fakeSummarizer{summary: "resumo"}
	m := newMemoryUnderTest(msgRepo, &fakeSummaryRepo{}, summarizer, nil)

	_, err := m.BuildContext(context.Background(), uuid.New(), "pt")

	assert.NoError(t, err)
	assert.Contains(t, summarizer.inputs[0], "Usuário: qual a pena?")
	assert.Contains(t, summarizer.inputs[0], "IA: a pena é...")
}

func TestChatContextText(t *testing.T) {
	chatCtx := &ChatContext{
		UserMessages: []string{"q1", "q2"},
		AIMessages:   []string{"a1"},
	}

	text := chatCtx.ContextText()

	assert.Contains(t, text, "q1")
	assert.Contains(t, text, "a1")
	assert.Empty(t, (*ChatContext)(nil).ContextText())
}
