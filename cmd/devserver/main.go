package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/Sayed1-11/Social-Media--sub000/internal/devserver"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env", "err", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	state := devserver.NewState()
	seedUser := os.Getenv("SEED_USER_ID")
	if seedUser == "" {
		seedUser = "u1"
	}
	state.Seed(seedUser)

	srv := devserver.New(state, logger)
	defer srv.Shutdown()

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	if err := srv.Run(addr); err != nil {
		logger.Error("dev server stopped", "err", err)
		os.Exit(1)
	}
}
