package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/nourai/nourai/db"
	"github.com/nourai/nourai/internal/chat"
	"github.com/nourai/nourai/internal/config"
)

// runChats lists or deletes stored conversations.
func runChats(args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}

	logger := initLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.PostgresConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	store, err := chat.NewStore(pool, logger)
	if err != nil {
		return fmt.Errorf("creating chat store: %w", err)
	}

	switch args[0] {
	case "list":
		return listChats(ctx, store)
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: nourai chats delete <chat-id>")
		}
		return deleteChat(ctx, store, args[1])
	default:
		return fmt.Errorf("unknown chats subcommand %q (expected list or delete)", args[0])
	}
}

func listChats(ctx context.Context, store *chat.Store) error {
	chats, err := store.ListChats(ctx, 100)
	if err != nil {
		return fmt.Errorf("listing chats: %w", err)
	}

	if len(chats) == 0 {
		fmt.Println("No hay conversaciones guardadas.")
		return nil
	}

	for _, c := range chats {
		fmt.Printf("%s  %s  %s\n", c.ID, c.UpdatedAt.Format(time.RFC3339), c.Title)
	}
	return nil
}

func deleteChat(ctx context.Context, store *chat.Store, rawID string) error {
	chatID, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid chat ID %q: %w", rawID, err)
	}

	if err := store.DeleteChat(ctx, chatID); err != nil {
		return fmt.Errorf("deleting chat: %w", err)
	}

	fmt.Printf("Conversación %s eliminada.\n", chatID)
	return nil
}
