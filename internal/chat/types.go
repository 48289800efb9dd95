// Package chat provides persistence for conversation history: chats and
// their messages, with optional citations attached to assistant turns.
//
// Persistence is best-effort from the query path's point of view: a
// failed write is logged by the caller and never fails an
// already-computed answer.
package chat

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nourai/nourai/internal/rag"
)

// Role constants define valid message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// TitleMaxLength is the maximum stored chat title length in runes.
// Longer titles are truncated with an ellipsis.
const TitleMaxLength = 100

// ErrChatNotFound indicates the requested chat does not exist.
// Check with errors.Is().
var ErrChatNotFound = errors.New("chat not found")

// Chat is one conversation thread.
type Chat struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is a single conversation turn. Citations is non-nil only for
// assistant messages produced from retrieved evidence; it is one record
// with an optional field, persisted through a single code path.
type Message struct {
	ID        uuid.UUID      `json:"id"`
	ChatID    uuid.UUID      `json:"chat_id"`
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Citations []rag.Citation `json:"citations,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
