package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Sayed1-11/Social-Media--sub000/internal/infrastructure/httpapi/port"
	"github.com/Sayed1-11/Social-Media--sub000/internal/pkg/chat/application/store"
)

// OpenThreadUseCase loads the message history for a conversation the user
// just navigated into and marks it read, locally first. A failing remote
// mark-read degrades gracefully: the screen still opens with local state and
// the server catches up on the next sync.
// One use case per file.
type OpenThreadUseCase struct {
	API    port.ChatAPI
	Thread *store.ThreadStore
	Convs  *store.ConversationStore
	Logger *slog.Logger
}

func NewOpenThreadUseCase(api port.ChatAPI, thread *store.ThreadStore, convs *store.ConversationStore, logger *slog.Logger) *OpenThreadUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenThreadUseCase{API: api, Thread: thread, Convs: convs, Logger: logger}
}

// Execute fetches history into the thread store and resets unread state.
func (uc *OpenThreadUseCase) Execute(ctx context.Context) error {
	conversationID := uc.Thread.ConversationID()

	history, err := uc.API.ListMessages(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	uc.Thread.ApplyHistory(history)

	if uc.Convs != nil {
		uc.Convs.MarkRead(conversationID)
	}
	if err := uc.API.MarkConversationRead(ctx, conversationID); err != nil {
		// Partial failure: keep the screen usable with local state.
		uc.Logger.Warn("open thread: remote mark-read failed",
			"conversation_id", conversationID, "err", err)
	}
	return nil
}
