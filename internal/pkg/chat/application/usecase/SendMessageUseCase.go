package usecase

import (
	"context"
	"fmt"

	"github.com/Sayed1-11/Social-Media--sub000/internal/infrastructure/httpapi/port"
	"github.com/Sayed1-11/Social-Media--sub000/internal/pkg/chat/application/store"
	chat "github.com/Sayed1-11/Social-Media--sub000/internal/pkg/chat/domain"
)

// SendMessageInput carries the data needed to send a new message.
type SendMessageInput struct {
	ConversationID string
	SenderID       string
	Content        string
	MsgType        chat.MessageType
}

// SendMessageUseCase runs the optimistic send flow: validate before any
// network call, append a pending entry, post, then confirm in place or roll
// the pending entry back so no stuck temp message survives a failure.
// One use case per file.
type SendMessageUseCase struct {
	API    port.ChatAPI
	Thread *store.ThreadStore
	Convs  *store.ConversationStore // optional; updated on success when set
}

func NewSendMessageUseCase(api port.ChatAPI, thread *store.ThreadStore, convs *store.ConversationStore) *SendMessageUseCase {
	return &SendMessageUseCase{API: api, Thread: thread, Convs: convs}
}

// Execute sends a message and returns the server-confirmed copy.
func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (chat.Message, error) {
	m, err := chat.NewOutgoing(in.ConversationID, in.SenderID, in.Content, in.MsgType)
	if err != nil {
		// Validation failure: rejected before any network call.
		return chat.Message{}, err
	}

	uc.Thread.AppendOptimistic(m)

	sent, err := uc.API.SendMessage(ctx, in.ConversationID, m)
	if err != nil {
		uc.Thread.RemoveOptimistic(m.ID)
		return chat.Message{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}

	uc.Thread.ConfirmSent(m.ID, sent)

	// A local send is also the conversation's newest activity; the sender
	// match keeps unread at zero.
	if uc.Convs != nil {
		uc.Convs.ApplyIncomingMessage(in.ConversationID, sent)
	}

	return sent, nil
}
