package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Sayed1-11/Social-Media--sub000/internal/infrastructure/httpapi/port"
	"github.com/Sayed1-11/Social-Media--sub000/internal/pkg/chat/application/store"
)

// RefreshConversationsUseCase fetches the conversation list into the store
// with latest-wins semantics: starting a new refresh cancels any in-flight
// one, and a superseded response is discarded instead of merged, so a rapid
// pull-to-refresh can never clobber newer data with an older response.
// One use case per file.
type RefreshConversationsUseCase struct {
	API    port.ChatAPI
	Store  *store.ConversationStore
	Logger *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	gen    uint64
}

func NewRefreshConversationsUseCase(api port.ChatAPI, s *store.ConversationStore, logger *slog.Logger) *RefreshConversationsUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &RefreshConversationsUseCase{API: api, Store: s, Logger: logger}
}

// Execute fetches and applies the list. Returns nil when superseded: the
// newer refresh owns the outcome.
func (uc *RefreshConversationsUseCase) Execute(ctx context.Context) error {
	uc.mu.Lock()
	if uc.cancel != nil {
		uc.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	uc.cancel = cancel
	uc.gen++
	myGen := uc.gen
	uc.mu.Unlock()

	defer cancel()

	list, err := uc.API.ListConversations(ctx)

	uc.mu.Lock()
	superseded := uc.gen != myGen
	uc.mu.Unlock()

	if superseded {
		uc.Logger.Debug("refresh conversations: superseded result discarded")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}

	uc.Store.ApplyFetch(list)
	return nil
}

// Stop aborts any in-flight refresh, e.g. on screen teardown.
func (uc *RefreshConversationsUseCase) Stop() {
	uc.mu.Lock()
	if uc.cancel != nil {
		uc.cancel()
		uc.cancel = nil
	}
	uc.gen++
	uc.mu.Unlock()
}
