package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"veritus-be/internal/constant"
	"veritus-be/internal/entity"
	"veritus-be/internal/repository/specification"
	"veritus-be/internal/repository/unitofwork"
	"veritus-be/pkg/events"
	"veritus-be/pkg/rag"

	"veritus-be/internal/pkg/logger"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// windowSize bounds how many recent messages participate in the
// needs-summarization check.
const windowSize = 6

const lockTTL = 30 * time.Second

// Summarizer is the narrow summarization entry point of the response stage.
// Declared here on the consumer side so memory does not depend on it.
type Summarizer interface {
	Summarize(ctx context.Context, text string, lang string) (string, error)
}

// EventPublisher fans summary updates out to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// SummaryMemory maintains the rolling conversation summary and builds the
// per-request ChatContext.
type SummaryMemory struct {
	uowFactory unitofwork.RepositoryFactory
	summarizer Summarizer
	cache      *gocache.Cache
	redis      *redis.Client // optional, nil disables the distributed lock
	publisher  EventPublisher
	logger     logger.ILogger
}

func NewSummaryMemory(
	uowFactory unitofwork.RepositoryFactory,
	summarizer Summarizer,
	redisClient *redis.Client,
	publisher EventPublisher,
	log logger.ILogger,
) *SummaryMemory {
	return &SummaryMemory{
		uowFactory: uowFactory,
		summarizer: summarizer,
		cache:      gocache.New(5*time.Minute, 10*time.Minute),
		redis:      redisClient,
		publisher:  publisher,
		logger:     log,
	}
}

// BuildContext loads the chat history and returns the per-request context,
// regenerating the rolling summary when the recent window holds unsummarized
// turns. Storage failures abort; summarizer failures degrade to the prior
// stored summary.
func (m *SummaryMemory) BuildContext(ctx context.Context, chatId uuid.UUID, lang string) (*ChatContext, error) {
	uow := m.uowFactory.NewUnitOfWork(ctx)

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatID{ChatID: chatId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, rag.StorageError(fmt.Errorf("fetch messages for chat %s: %w", chatId, err))
	}

	chatCtx := &ChatContext{}
	for _, msg := range messages {
		if msg.Sender == constant.ChatMessageSenderUser {
			chatCtx.FirstQuestion = msg.Text
			break
		}
	}

	window := messages
	if len(window) > windowSize {
		window = window[len(window)-windowSize:]
	}

	needsSummary := false
	for _, msg := range window {
		switch msg.Sender {
		case constant.ChatMessageSenderUser:
			chatCtx.UserMessages = append(chatCtx.UserMessages, msg.Text)
		case constant.ChatMessageSenderAI:
			chatCtx.AIMessages = append(chatCtx.AIMessages, msg.Text)
		}
		if !msg.IsSummarized {
			needsSummary = true
		}
	}
	if len(chatCtx.UserMessages) == 0 && len(chatCtx.AIMessages) == 0 {
		needsSummary = false
	}

	if !needsSummary {
		stored, err := m.storedSummary(ctx, chatId)
		if err != nil {
			return nil, err
		}
		chatCtx.Summary = stored
		return chatCtx, nil
	}

	summary := m.regenerateSummary(ctx, chatId, lang, window)
	if summary == "" {
		// Degrade to whatever summary we had before
		if stored, err := m.storedSummary(ctx, chatId); err == nil {
			summary = stored
		} else {
			m.logger.Warn("SummaryMemory", "Failed to read prior summary after summarization miss", map[string]interface{}{
				"chat_id": chatId.String(),
				"error":   err.Error(),
			})
		}
		chatCtx.Summary = summary
		return chatCtx, nil
	}

	if err := m.persistSummary(ctx, chatId, summary, window); err != nil {
		return nil, err
	}
	chatCtx.Summary = summary
	return chatCtx, nil
}

// regenerateSummary renders the window and calls the summarizer. Any failure
// returns "" so the caller can fall back.
func (m *SummaryMemory) regenerateSummary(ctx context.Context, chatId uuid.UUID, lang string, window []*entity.ChatMessage) string {
	if !m.acquireLock(ctx, chatId) {
		m.logger.Debug("SummaryMemory", "Summarization already in flight for chat", map[string]interface{}{
			"chat_id": chatId.String(),
		})
		return ""
	}
	defer m.releaseLock(ctx, chatId)

	summary, err := m.summarizer.Summarize(ctx, renderConversation(window, lang), lang)
	if err != nil {
		m.logger.Warn("SummaryMemory", "Summarization failed, keeping prior summary", map[string]interface{}{
			"chat_id": chatId.String(),
			"error":   err.Error(),
		})
		return ""
	}
	return strings.TrimSpace(summary)
}

func (m *SummaryMemory) persistSummary(ctx context.Context, chatId uuid.UUID, summary string, window []*entity.ChatMessage) error {
	uow := m.uowFactory.NewUnitOfWork(ctx)

	record := &entity.ChatSummary{ChatId: chatId, Content: summary}
	if err := uow.ChatSummaryRepository().Upsert(ctx, record); err != nil {
		return rag.StorageError(fmt.Errorf("upsert summary for chat %s: %w", chatId, err))
	}
	m.cache.Set(chatId.String(), summary, gocache.DefaultExpiration)

	// Best-effort: an unmarked message is retried next request, it never
	// blocks the response.
	ids := make([]uuid.UUID, len(window))
	for i, msg := range window {
		ids[i] = msg.Id
	}
	if err := uow.ChatMessageRepository().MarkSummarized(ctx, ids); err != nil {
		m.logger.Warn("SummaryMemory", "Failed to mark messages summarized", map[string]interface{}{
			"chat_id": chatId.String(),
			"count":   len(ids),
			"error":   err.Error(),
		})
	}

	if m.publisher != nil {
		if err := m.publisher.Publish(ctx, events.NewSummaryUpdated(chatId, summary)); err != nil {
			m.logger.Warn("SummaryMemory", "Failed to publish summary update", map[string]interface{}{
				"chat_id": chatId.String(),
				"error":   err.Error(),
			})
		}
	}
	return nil
}

func (m *SummaryMemory) storedSummary(ctx context.Context, chatId uuid.UUID) (string, error) {
	if cached, ok := m.cache.Get(chatId.String()); ok {
		return cached.(string), nil
	}

	uow := m.uowFactory.NewUnitOfWork(ctx)
	stored, err := uow.ChatSummaryRepository().FindByChatId(ctx, chatId)
	if err != nil {
		return "", rag.StorageError(fmt.Errorf("fetch summary for chat %s: %w", chatId, err))
	}
	if stored == nil {
		return "", nil
	}
	m.cache.Set(chatId.String(), stored.Content, gocache.DefaultExpiration)
	return stored.Content, nil
}

// acquireLock takes a short-lived per-chat lock so concurrent requests on one
// chat do not double-summarize. Without Redis the lock is a no-op.
func (m *SummaryMemory) acquireLock(ctx context.Context, chatId uuid.UUID) bool {
	if m.redis == nil {
		return true
	}
	ok, err := m.redis.SetNX(ctx, lockKey(chatId), "1", lockTTL).Result()
	if err != nil {
		m.logger.Warn("SummaryMemory", "Redis lock unavailable, proceeding without it", map[string]interface{}{
			"chat_id": chatId.String(),
			"error":   err.Error(),
		})
		return true
	}
	return ok
}

func (m *SummaryMemory) releaseLock(ctx context.Context, chatId uuid.UUID) {
	if m.redis == nil {
		return
	}
	if err := m.redis.Del(ctx, lockKey(chatId)).Err(); err != nil {
		m.logger.Debug("SummaryMemory", "Failed to release summarize lock", map[string]interface{}{
			"chat_id": chatId.String(),
			"error":   err.Error(),
		})
	}
}

func lockKey(chatId uuid.UUID) string {
	return "summarize:" + chatId.String()
}

// renderConversation renders the window as alternating labeled lines in
// chronological order, with labels in the request locale.
func renderConversation(window []*entity.ChatMessage, lang string) string {
	userLabel := constant.LocaleText(constant.ConversationUserLabels, lang)
	aiLabel := constant.LocaleText(constant.ConversationAILabels, lang)

	lines := make([]string, 0, len(window))
	for _, msg := range window {
		label := userLabel
		if msg.Sender == constant.ChatMessageSenderAI {
			label = aiLabel
		}
		lines = append(lines, label+" "+msg.Text)
	}
	return strings.Join(lines, "\n")
}
