// socialcli is a terminal client for smoke-testing the sync engine against a
// running backend (usually the bundled dev server).
//
// Commands:
//
//	ls              list conversations
//	open <conv-id>  open a thread and print its history
//	send <text>     send into the open thread
//	feed            print one feed page
//	refresh         re-fetch the conversation list
//	quit            exit
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/Sayed1-11/Social-Media--sub000/internal/config"
	httpadapter "github.com/Sayed1-11/Social-Media--sub000/internal/infrastructure/httpapi/adapter"
	rtadapter "github.com/Sayed1-11/Social-Media--sub000/internal/infrastructure/realtime/adapter"
	"github.com/Sayed1-11/Social-Media--sub000/internal/pkg/chat/application/session"
	chat "github.com/Sayed1-11/Social-Media--sub000/internal/pkg/chat/domain"
	feedusecase "github.com/Sayed1-11/Social-Media--sub000/internal/pkg/feed/application/usecase"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	token := func() (string, bool) {
		if cfg.AuthToken != "" {
			return cfg.AuthToken, true
		}
		// The dev server accepts the user id as an opaque token.
		return cfg.UserID, true
	}

	api := httpadapter.NewClient(cfg.APIBaseURL, token).
		WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout})
	channel := rtadapter.NewWSChannel(cfg.SocketURL, rtadapter.RetryPolicy{
		Attempts: cfg.ReconnectAttempts,
		Delay:    cfg.ReconnectDelay,
	}, logger)

	sess := session.New(session.Options{
		Channel:     channel,
		API:         api,
		Token:       token,
		LocalUserID: cfg.UserID,
		PopupTTL:    cfg.PopupTTL,
		Logger:      logger,
	})
	defer sess.Close()

	sess.Popup.OnChange = func() {
		if n, ok := sess.Popup.Current(); ok {
			fmt.Printf("\n[%s] %s\n> ", n.Title, n.Body)
		}
	}
	sess.OnTyping = func(p chat.TypingPayload) {
		if p.Typing {
			fmt.Printf("\n%s is typing...\n> ", p.UserID)
		}
	}

	ctx := context.Background()
	if err := sess.Connect(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("connected as %s, %d unread\n", cfg.UserID, sess.TotalUnread())
	printConversations(sess)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		cmd, arg, _ := strings.Cut(line, " ")

		switch cmd {
		case "", "help":
			fmt.Println("commands: ls, open <id>, send <text>, feed, refresh, quit")

		case "ls":
			printConversations(sess)

		case "open":
			thread, err := sess.OpenThread(ctx, arg)
			if err != nil {
				fmt.Printf("open: %v\n", err)
				break
			}
			for _, m := range thread.Messages() {
				fmt.Printf("  %s: %s [%s]\n", m.SenderID, m.Content, m.Status)
			}

		case "send":
			if _, err := sess.Send(ctx, arg, chat.MessageTypeText); err != nil {
				fmt.Printf("send: %v\n", err)
			}

		case "feed":
			page, err := feedusecase.NewFetchFeedUseCase(api).Execute(ctx, 1, 20)
			if err != nil {
				fmt.Printf("feed: %v\n", err)
				break
			}
			for _, p := range page.Posts {
				fmt.Printf("  %s: %s (%d likes)\n", p.Author.Username, p.Content, len(p.Likes))
			}

		case "refresh":
			if err := sess.Refresh(ctx); err != nil {
				fmt.Printf("refresh: %v\n", err)
			}
			printConversations(sess)

		case "quit", "exit":
			return

		default:
			fmt.Printf("unknown command %q\n", cmd)
		}
		fmt.Print("> ")
	}
}

func printConversations(sess *session.Session) {
	for _, c := range sess.Convs.Conversations() {
		marker := " "
		if c.UnreadCount > 0 {
			marker = fmt.Sprintf("%d", c.UnreadCount)
		}
		last := ""
		if c.LastMessage != nil {
			last = c.LastMessage.Content
		}
		fmt.Printf("  [%s] %-12s %-12s %s\n", marker, c.ID, c.Participant.Username, last)
	}
}
