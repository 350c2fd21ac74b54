// Package session ties one screen's realtime channel, stores and popup state
// together. Before this existed the token-extraction and socket wiring was
// copy-pasted per screen; every screen now composes a Session instead.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	apiport "github.com/Sayed1-11/Social-Media--sub000/internal/infrastructure/httpapi/port"
	rtport "github.com/Sayed1-11/Social-Media--sub000/internal/infrastructure/realtime/port"
	"github.com/Sayed1-11/Social-Media--sub000/internal/pkg/auth"
	"github.com/Sayed1-11/Social-Media--sub000/internal/pkg/chat/application/store"
	"github.com/Sayed1-11/Social-Media--sub000/internal/pkg/chat/application/usecase"
	chat "github.com/Sayed1-11/Social-Media--sub000/internal/pkg/chat/domain"
	"github.com/Sayed1-11/Social-Media--sub000/internal/pkg/notify"
)

var (
	// ErrNoToken means no credential is available yet; the session cannot
	// establish a realtime channel. Expected state, not a failure.
	ErrNoToken = errors.New("session: no bearer token available")

	// ErrTokenExpired means the credential carries an exp claim in the past;
	// dialing would only burn reconnect attempts.
	ErrTokenExpired = errors.New("session: bearer token is expired")

	// ErrNoOpenThread is returned by thread-scoped calls before OpenThread.
	ErrNoOpenThread = errors.New("session: no open thread")
)

// Options configures a Session. Channel, API and LocalUserID are required.
type Options struct {
	Channel rtport.Channel
	API     apiport.ChatAPI

	// Token supplies the bearer credential at connect time.
	Token func() (string, bool)

	LocalUserID string
	PopupTTL    time.Duration
	Logger      *slog.Logger
}

// Session is the per-screen sync engine: one channel, one conversation
// store, at most one open thread, one popup. Sessions share nothing; two
// screens observing the same backend converge through their own fetches and
// events, never through shared memory.
type Session struct {
	channel rtport.Channel
	api     apiport.ChatAPI
	token   func() (string, bool)
	local   string
	logger  *slog.Logger

	Convs *store.ConversationStore
	Popup *notify.Popup

	refresh *usecase.RefreshConversationsUseCase

	mu     sync.Mutex
	thread *store.ThreadStore

	// OnTyping, when set, observes peer typing indicators for the UI.
	OnTyping func(chat.TypingPayload)
}

// New constructs a session and wires the named backend events to the stores.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		channel: opts.Channel,
		api:     opts.API,
		token:   opts.Token,
		local:   opts.LocalUserID,
		logger:  logger,
		Convs:   store.NewConversationStore(opts.LocalUserID),
		Popup:   notify.NewPopup(opts.PopupTTL),
	}
	s.refresh = usecase.NewRefreshConversationsUseCase(opts.API, s.Convs, logger)

	s.channel.On(chat.EventNewMessage, s.onNewMessage)
	s.channel.On(chat.EventMessagesRead, s.onMessagesRead)
	s.channel.On(chat.EventUserTyping, s.onUserTyping)
	s.channel.On(chat.EventUserStatusChange, s.onStatusChange)
	s.channel.On(chat.EventUnreadCountUpdated, s.onUnreadCount)
	s.channel.On(chat.EventNewNotification, s.onNotification)

	return s
}

// Connect establishes the realtime channel and performs the initial fetch.
// Without a token it returns ErrNoToken; the caller retries after login.
func (s *Session) Connect(ctx context.Context) error {
	if s.token == nil {
		return ErrNoToken
	}
	tok, ok := s.token()
	if !ok {
		return ErrNoToken
	}
	if auth.Expired(tok, time.Now()) {
		return ErrTokenExpired
	}

	if err := s.channel.Connect(ctx, tok); err != nil {
		return err
	}

	if err := s.channel.Emit(chat.EmitSubscribeNotifications, struct{}{}); err != nil {
		s.logger.Warn("session: subscribe_notifications failed", "err", err)
	}
	if err := s.channel.Emit(chat.EmitGetUnreadCount, struct{}{}); err != nil {
		s.logger.Warn("session: get_unread_count failed", "err", err)
	}

	return s.refresh.Execute(ctx)
}

// Refresh re-fetches the conversation list with latest-wins semantics.
func (s *Session) Refresh(ctx context.Context) error {
	return s.refresh.Execute(ctx)
}

// OpenThread loads a conversation's history, marks it read and makes it the
// session's open thread. Any popup pointing at it is dismissed.
func (s *Session) OpenThread(ctx context.Context, conversationID string) (*store.ThreadStore, error) {
	thread := store.NewThreadStore(conversationID, s.local, s.logger)

	open := usecase.NewOpenThreadUseCase(s.api, thread, s.Convs, s.logger)
	if err := open.Execute(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.thread = thread
	s.mu.Unlock()

	s.Popup.ClearFor(conversationID)
	s.emitMarkRead(conversationID)
	return thread, nil
}

// CloseThread detaches the open thread, e.g. when navigating back to the list.
func (s *Session) CloseThread() {
	s.mu.Lock()
	s.thread = nil
	s.mu.Unlock()
}

// Send runs the optimistic send flow against the open thread.
func (s *Session) Send(ctx context.Context, content string, msgType chat.MessageType) (chat.Message, error) {
	thread := s.openThread()
	if thread == nil {
		return chat.Message{}, ErrNoOpenThread
	}

	send := usecase.NewSendMessageUseCase(s.api, thread, s.Convs)
	return send.Execute(ctx, usecase.SendMessageInput{
		ConversationID: thread.ConversationID(),
		SenderID:       s.local,
		Content:        content,
		MsgType:        msgType,
	})
}

// Typing reports the local user's typing state for the open thread.
func (s *Session) Typing(active bool) {
	thread := s.openThread()
	if thread == nil {
		return
	}
	event := chat.EmitTypingStop
	if active {
		event = chat.EmitTypingStart
	}
	if err := s.channel.Emit(event, map[string]string{"conversationId": thread.ConversationID()}); err != nil {
		s.logger.Debug("session: typing emit failed", "err", err)
	}
}

// TotalUnread is the badge value derived from the conversation store.
func (s *Session) TotalUnread() int {
	return notify.TotalUnread(s.Convs)
}

// Close tears the session down: in-flight refreshes are aborted, the popup
// timer is cancelled and the channel is fully closed. Safe to call twice.
func (s *Session) Close() error {
	s.refresh.Stop()
	s.Popup.Stop()
	return s.channel.Close()
}

func (s *Session) openThread() *store.ThreadStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.thread
}

func (s *Session) emitMarkRead(conversationID string) {
	err := s.channel.Emit(chat.EmitMarkMessagesRead, map[string]string{"conversationId": conversationID})
	if err != nil {
		s.logger.Debug("session: mark_messages_read emit failed", "err", err)
	}
}

func (s *Session) onNewMessage(data json.RawMessage) {
	var p chat.NewMessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		s.logger.Debug("session: bad new_message payload", "err", err)
		return
	}

	if handled := s.Convs.ApplyIncomingMessage(p.ConversationID, p.Message); !handled {
		// First activity on a conversation we have not fetched yet; the
		// list fetch is the source of truth for the new row.
		go func() {
			if err := s.refresh.Execute(context.Background()); err != nil {
				s.logger.Warn("session: refresh after unknown conversation failed", "err", err)
			}
		}()
	}

	thread := s.openThread()
	viewing := thread != nil && thread.ConversationID() == p.ConversationID
	if viewing {
		thread.ApplyIncoming(p.Message)
		if p.Message.SenderID != s.local {
			// The user is looking at it; read it right away.
			s.Convs.MarkRead(p.ConversationID)
			s.emitMarkRead(p.ConversationID)
		}
		return
	}

	if p.Message.SenderID != s.local {
		s.Popup.Show(notify.Notice{
			ConversationID: p.ConversationID,
			Title:          "New message",
			Body:           p.Message.Content,
			At:             p.Message.CreatedAt,
		})
	}
}

func (s *Session) onMessagesRead(data json.RawMessage) {
	var p chat.MessagesReadPayload
	if err := json.Unmarshal(data, &p); err != nil {
		s.logger.Debug("session: bad messages_read payload", "err", err)
		return
	}

	thread := s.openThread()
	if thread != nil && thread.ConversationID() == p.ConversationID {
		thread.MarkRead(p.ReaderID)
	}
}

func (s *Session) onUserTyping(data json.RawMessage) {
	var p chat.TypingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		s.logger.Debug("session: bad user_typing payload", "err", err)
		return
	}
	if s.OnTyping != nil {
		s.OnTyping(p)
	}
}

func (s *Session) onStatusChange(data json.RawMessage) {
	var p chat.StatusChangePayload
	if err := json.Unmarshal(data, &p); err != nil {
		s.logger.Debug("session: bad user_status_change payload", "err", err)
		return
	}
	s.Convs.ApplyStatusChange(p.UserID, p.Online, p.LastSeen)
}

func (s *Session) onUnreadCount(data json.RawMessage) {
	var p chat.UnreadCountPayload
	if err := json.Unmarshal(data, &p); err != nil {
		s.logger.Debug("session: bad unread_count_updated payload", "err", err)
		return
	}
	s.Convs.SetUnread(p.ConversationID, p.UnreadCount)
}

func (s *Session) onNotification(data json.RawMessage) {
	var n chat.Notification
	if err := json.Unmarshal(data, &n); err != nil {
		s.logger.Debug("session: bad new_notification payload", "err", err)
		return
	}
	s.Popup.Show(notify.Notice{
		Title: string(n.Type),
		Body:  n.Text,
		At:    n.CreatedAt,
	})
}
