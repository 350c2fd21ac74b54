package devserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Sayed1-11/Social-Media--sub000/internal/pkg/auth"
	chat "github.com/Sayed1-11/Social-Media--sub000/internal/pkg/chat/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Local development tool; cross-origin checks add nothing here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) handleSocket(c *gin.Context) {
	token, ok := auth.BearerToken(c.Request.Header)
	if !ok {
		fail(c, http.StatusUnauthorized, "missing bearer token")
		return
	}
	if auth.Expired(token, time.Now()) {
		fail(c, http.StatusUnauthorized, "token expired")
		return
	}
	userID, ok := auth.Subject(token)
	if !ok {
		fail(c, http.StatusUnauthorized, "unusable bearer token")
		return
	}
	s.state.EnsureUser(userID)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	conn := newConn(userID, ws)
	s.hub.attach(conn)
	s.logger.Info("realtime session attached", "user_id", userID, "session_id", conn.id)

	s.hub.broadcast(chat.EventUserStatusChange, chat.StatusChangePayload{
		UserID: userID,
		Online: true,
	}, userID)

	s.readLoop(conn)

	s.hub.detach(conn)
	conn.shutdown(websocket.CloseNormalClosure, "bye")

	lastSeen := time.Now().UTC()
	s.hub.broadcast(chat.EventUserStatusChange, chat.StatusChangePayload{
		UserID:   userID,
		Online:   false,
		LastSeen: &lastSeen,
	}, userID)
	s.logger.Info("realtime session detached", "user_id", userID, "session_id", conn.id)
}

// conversationRef is the shape of every conversation-scoped client emit.
type conversationRef struct {
	ConversationID string `json:"conversationId"`
}

func (s *Server) readLoop(c *conn) {
	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}

		var f frame
		if err := json.Unmarshal(payload, &f); err != nil {
			s.logger.Debug("dropping malformed frame", "user_id", c.userID, "err", err)
			continue
		}

		switch f.Event {
		case chat.EmitSubscribeNotifications:
			// Subscription is implicit per connection; accepted as a no-op.

		case chat.EmitGetUnreadCount:
			for conversationID, count := range s.state.UnreadFor(c.userID) {
				s.hub.notify(c.userID, chat.EventUnreadCountUpdated, chat.UnreadCountPayload{
					ConversationID: conversationID,
					UnreadCount:    count,
				})
			}

		case chat.EmitTypingStart, chat.EmitTypingStop:
			var ref conversationRef
			if err := json.Unmarshal(f.Data, &ref); err != nil {
				continue
			}
			peer, ok := s.state.PeerOf(ref.ConversationID, c.userID)
			if !ok {
				continue
			}
			s.hub.notify(peer, chat.EventUserTyping, chat.TypingPayload{
				ConversationID: ref.ConversationID,
				UserID:         c.userID,
				Typing:         f.Event == chat.EmitTypingStart,
			})

		case chat.EmitMarkMessagesRead:
			var ref conversationRef
			if err := json.Unmarshal(f.Data, &ref); err != nil {
				continue
			}
			peer, ok := s.state.MarkRead(ref.ConversationID, c.userID)
			if !ok {
				continue
			}
			s.hub.notify(peer, chat.EventMessagesRead, chat.MessagesReadPayload{
				ConversationID: ref.ConversationID,
				ReaderID:       c.userID,
				ReadAt:         time.Now().UTC(),
			})
			s.hub.notify(c.userID, chat.EventUnreadCountUpdated, chat.UnreadCountPayload{
				ConversationID: ref.ConversationID,
				UnreadCount:    0,
			})

		default:
			s.logger.Debug("ignoring unknown client event", "event", f.Event, "user_id", c.userID)
		}
	}
}
