// Package devserver is an in-memory stand-in for the production backend,
// serving the same REST and realtime contract the client consumes. It exists
// so the client can be developed and integration-tested without network
// access to the real service.
package devserver

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Sayed1-11/Social-Media--sub000/internal/pkg/auth"
	chat "github.com/Sayed1-11/Social-Media--sub000/internal/pkg/chat/domain"
)

// Server owns the fixture state, the realtime hub and the gin engine.
type Server struct {
	state  *State
	hub    *hub
	engine *gin.Engine
	logger *slog.Logger
}

// New constructs a dev server around the given state. A nil logger uses the
// default slog handler.
func New(state *State, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		state:  state,
		hub:    newHub(),
		engine: gin.New(),
		logger: logger,
	}
	s.engine.Use(gin.Recovery())
	s.registerRoutes()
	return s
}

// Handler exposes the engine for httptest and custom listeners.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info("dev server listening", "addr", addr)
	return s.engine.Run(addr)
}

// Shutdown closes every live realtime connection.
func (s *Server) Shutdown() {
	s.hub.closeAll()
}

func (s *Server) registerRoutes() {
	s.engine.GET("/ws", s.handleSocket)

	v1 := s.engine.Group("/api/v1")
	v1.Use(s.requireUser())

	v1.GET("/conversations", s.listConversations)
	v1.GET("/conversations/:id/messages", s.listMessages)
	v1.POST("/conversations/:id/messages", s.sendMessage)
	v1.POST("/conversations/:id/read", s.markRead)
	v1.GET("/users/search", s.searchUsers)
	v1.GET("/notifications", s.listNotifications)

	v1.GET("/posts", s.listPosts)
	v1.GET("/stories", s.listStories)
	v1.POST("/posts/:id/like", s.likePost)
	v1.POST("/posts/:id/comments", s.commentPost)
	v1.POST("/posts/:id/share", s.sharePost)
}

// requireUser resolves the caller from the bearer token. Opaque tokens double
// as user ids so tests and local setups need no signing key.
func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.BearerToken(c.Request.Header)
		if !ok {
			fail(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}
		userID, ok := auth.Subject(token)
		if !ok {
			fail(c, http.StatusUnauthorized, "unusable bearer token")
			c.Abort()
			return
		}
		s.state.EnsureUser(userID)
		c.Set("userID", userID)
		c.Next()
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString("userID")
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func (s *Server) listConversations(c *gin.Context) {
	respond(c, http.StatusOK, s.state.ConversationsFor(currentUser(c)))
}

func (s *Server) listMessages(c *gin.Context) {
	msgs, ok := s.state.MessagesOf(c.Param("id"), currentUser(c))
	if !ok {
		fail(c, http.StatusNotFound, "conversation not found")
		return
	}
	respond(c, http.StatusOK, msgs)
}

type sendMessageRequest struct {
	Content   string           `json:"content"`
	Type      chat.MessageType `json:"type"`
	ClientKey string           `json:"clientKey"`
}

func (s *Server) sendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Type == "" || req.Type == chat.MessageTypeText {
		if strings.TrimSpace(req.Content) == "" {
			fail(c, http.StatusBadRequest, "message content is required")
			return
		}
	}

	sender := currentUser(c)
	msg, peer, ok := s.state.AppendMessage(c.Param("id"), sender, req.Content, req.Type, req.ClientKey)
	if !ok {
		fail(c, http.StatusNotFound, "conversation not found")
		return
	}

	s.hub.notify(peer, chat.EventNewMessage, chat.NewMessagePayload{
		ConversationID: msg.ConversationID,
		Message:        msg,
	})
	if unread, has := s.state.UnreadFor(peer)[msg.ConversationID]; has {
		s.hub.notify(peer, chat.EventUnreadCountUpdated, chat.UnreadCountPayload{
			ConversationID: msg.ConversationID,
			UnreadCount:    unread,
		})
	}

	respond(c, http.StatusCreated, msg)
}

func (s *Server) markRead(c *gin.Context) {
	reader := currentUser(c)
	conversationID := c.Param("id")

	peer, ok := s.state.MarkRead(conversationID, reader)
	if !ok {
		fail(c, http.StatusNotFound, "conversation not found")
		return
	}

	s.hub.notify(peer, chat.EventMessagesRead, chat.MessagesReadPayload{
		ConversationID: conversationID,
		ReaderID:       reader,
		ReadAt:         time.Now().UTC(),
	})
	respond(c, http.StatusOK, nil)
}

func (s *Server) searchUsers(c *gin.Context) {
	respond(c, http.StatusOK, s.state.SearchUsers(c.Query("q")))
}

func (s *Server) listNotifications(c *gin.Context) {
	respond(c, http.StatusOK, s.state.NotificationsFor(currentUser(c)))
}

func (s *Server) listPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	respond(c, http.StatusOK, s.state.Posts(page, limit))
}

func (s *Server) listStories(c *gin.Context) {
	respond(c, http.StatusOK, s.state.Stories())
}

func (s *Server) likePost(c *gin.Context) {
	actorID := currentUser(c)
	post, authorID, ok := s.state.LikePost(c.Param("id"), actorID)
	if !ok {
		fail(c, http.StatusNotFound, "post not found")
		return
	}

	if authorID != actorID && post.LikedBy(actorID) {
		s.pushNotification(authorID, actorID, chat.NotificationLike, actorID+" liked your post", post.ID)
	}
	respond(c, http.StatusOK, post)
}

type commentRequest struct {
	Text string `json:"text"`
}

func (s *Server) commentPost(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		fail(c, http.StatusBadRequest, "comment text is required")
		return
	}

	actorID := currentUser(c)
	comment, authorID, ok := s.state.CommentPost(c.Param("id"), actorID, strings.TrimSpace(req.Text))
	if !ok {
		fail(c, http.StatusNotFound, "post not found")
		return
	}

	if authorID != actorID {
		s.pushNotification(authorID, actorID, chat.NotificationComment, actorID+" commented on your post", c.Param("id"))
	}
	respond(c, http.StatusCreated, comment)
}

func (s *Server) sharePost(c *gin.Context) {
	actorID := currentUser(c)
	authorID, ok := s.state.SharePost(c.Param("id"))
	if !ok {
		fail(c, http.StatusNotFound, "post not found")
		return
	}

	if authorID != actorID {
		s.pushNotification(authorID, actorID, chat.NotificationShare, actorID+" shared your post", c.Param("id"))
	}
	respond(c, http.StatusOK, nil)
}

// pushNotification stores the row and mirrors it over the realtime channel.
func (s *Server) pushNotification(targetID, actorID string, kind chat.NotificationType, text, subjectID string) {
	actor, _ := s.state.User(actorID)
	n := s.state.AddNotification(targetID, chat.Notification{
		Type:     kind,
		Actor:    actor,
		Text:     text,
		TargetID: subjectID,
	})
	s.hub.notify(targetID, chat.EventNewNotification, n)
}
