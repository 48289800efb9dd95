package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nourai/nourai/internal/rag"
)

// messageCols is the standard SELECT column list for scanning messages.
const messageCols = `id, chat_id, role, content, citations, created_at`

// Store manages chat persistence with a PostgreSQL backend.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewStore creates a chat Store.
func NewStore(pool *pgxpool.Pool, logger *slog.Logger) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, logger: logger}, nil
}

// CreateChat creates a new conversation thread.
// Empty titles are stored as "Nueva conversación"; long titles are
// truncated to TitleMaxLength runes.
func (s *Store) CreateChat(ctx context.Context, title string) (*Chat, error) {
	title = normalizeTitle(title)

	var c Chat
	err := s.pool.QueryRow(ctx,
		`INSERT INTO chats (title) VALUES ($1)
		RETURNING id, title, created_at, updated_at`,
		title).Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating chat: %w", err)
	}

	s.logger.Debug("created chat", "id", c.ID, "title", c.Title)
	return &c, nil
}

// ListChats lists chats ordered by most recent update.
func (s *Store) ListChats(ctx context.Context, limit int32) ([]*Chat, error) {
	if limit < 1 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, title, created_at, updated_at
		FROM chats
		ORDER BY updated_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing chats: %w", err)
	}
	defer rows.Close()

	chats := make([]*Chat, 0, limit)
	for rows.Next() {
		var c Chat
		if err := rows.Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning chat row: %w", err)
		}
		chats = append(chats, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading chat rows: %w", err)
	}

	return chats, nil
}

// GetChat retrieves a chat by ID.
// Returns ErrChatNotFound if the chat does not exist.
func (s *Store) GetChat(ctx context.Context, chatID uuid.UUID) (*Chat, error) {
	var c Chat
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, created_at, updated_at FROM chats WHERE id = $1`,
		chatID).Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrChatNotFound, chatID)
	}
	if err != nil {
		return nil, fmt.Errorf("getting chat %s: %w", chatID, err)
	}
	return &c, nil
}

// Messages returns all messages of a chat in chronological order.
func (s *Store) Messages(ctx context.Context, chatID uuid.UUID) ([]*Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+messageCols+`
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at ASC`, chatID)
	if err != nil {
		return nil, fmt.Errorf("listing messages for chat %s: %w", chatID, err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading message rows: %w", err)
	}

	return messages, nil
}

// AppendMessage adds one message to a chat and touches the chat's
// updated_at, atomically. Citations may be nil; there is exactly one
// write path regardless.
func (s *Store) AppendMessage(ctx context.Context, chatID uuid.UUID, role, content string, citations []rag.Citation) (*Message, error) {
	if role != RoleUser && role != RoleAssistant {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	var citationsJSON []byte
	if len(citations) > 0 {
		var err error
		citationsJSON, err = json.Marshal(citations)
		if err != nil {
			return nil, fmt.Errorf("marshaling citations: %w", err)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			s.logger.Warn("rollback failed", "error", rbErr)
		}
	}()

	msg := &Message{ChatID: chatID, Role: role, Content: content, Citations: citations}
	err = tx.QueryRow(ctx,
		`INSERT INTO messages (chat_id, role, content, citations)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		chatID, role, content, citationsJSON).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting message: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE chats SET updated_at = now() WHERE id = $1`, chatID)
	if err != nil {
		return nil, fmt.Errorf("touching chat %s: %w", chatID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrChatNotFound, chatID)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing message: %w", err)
	}

	s.logger.Debug("appended message",
		"chat_id", chatID, "role", role, "citations", len(citations))
	return msg, nil
}

// DeleteChat deletes a chat and all its messages (CASCADE).
// Returns ErrChatNotFound if the chat does not exist.
func (s *Store) DeleteChat(ctx context.Context, chatID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM chats WHERE id = $1`, chatID)
	if err != nil {
		return fmt.Errorf("deleting chat %s: %w", chatID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrChatNotFound, chatID)
	}

	s.logger.Debug("deleted chat", "id", chatID)
	return nil
}

// UpdateTitle renames a chat.
// Returns ErrChatNotFound if the chat does not exist.
func (s *Store) UpdateTitle(ctx context.Context, chatID uuid.UUID, title string) error {
	title = normalizeTitle(title)

	tag, err := s.pool.Exec(ctx,
		`UPDATE chats SET title = $1, updated_at = now() WHERE id = $2`,
		title, chatID)
	if err != nil {
		return fmt.Errorf("updating title of chat %s: %w", chatID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrChatNotFound, chatID)
	}
	return nil
}

// scanMessage scans one message row, decoding the citations JSONB when
// present.
func scanMessage(row pgx.Row) (*Message, error) {
	var msg Message
	var citationsJSON []byte
	if err := row.Scan(&msg.ID, &msg.ChatID, &msg.Role, &msg.Content,
		&citationsJSON, &msg.CreatedAt); err != nil {
		return nil, fmt.Errorf("scanning message row: %w", err)
	}
	if len(citationsJSON) > 0 {
		if err := json.Unmarshal(citationsJSON, &msg.Citations); err != nil {
			return nil, fmt.Errorf("decoding citations of message %s: %w", msg.ID, err)
		}
	}
	return &msg, nil
}

// normalizeTitle applies the default title and rune-safe truncation.
func normalizeTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Nueva conversación"
	}
	runes := []rune(title)
	if len(runes) > TitleMaxLength {
		return string(runes[:TitleMaxLength-3]) + "..."
	}
	return title
}
