package usecase

import (
	"context"
	"fmt"

	"github.com/Sayed1-11/Social-Media--sub000/internal/infrastructure/httpapi/port"
	"github.com/Sayed1-11/Social-Media--sub000/internal/pkg/chat/application/store"
)

// MarkReadUseCase resets a conversation's unread count, locally right away
// and remotely best-effort. Idempotent end to end.
// One use case per file.
type MarkReadUseCase struct {
	API   port.ChatAPI
	Convs *store.ConversationStore
}

func NewMarkReadUseCase(api port.ChatAPI, convs *store.ConversationStore) *MarkReadUseCase {
	return &MarkReadUseCase{API: api, Convs: convs}
}

// Execute marks the conversation read. The local reset applies even when the
// remote call fails, so the badge reflects what the user actually saw.
func (uc *MarkReadUseCase) Execute(ctx context.Context, conversationID string) error {
	uc.Convs.MarkRead(conversationID)
	if err := uc.API.MarkConversationRead(ctx, conversationID); err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return nil
}
