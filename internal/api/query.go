package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/nourai/nourai/internal/chat"
	"github.com/nourai/nourai/internal/log"
	"github.com/nourai/nourai/internal/rag"
)

// maxQueryBodySize caps the query request body at 64 KiB.
const maxQueryBodySize = 64 << 10

// queryRequest is the POST /api/query payload.
type queryRequest struct {
	Query        string                  `json:"query"`
	TopK         int                     `json:"top_k,omitempty"`
	ClinicalData *rag.ClinicalAttributes `json:"clinical_data,omitempty"`
	ChatID       *uuid.UUID              `json:"chat_id,omitempty"`
}

// queryResponse extends the engine response with the chat the exchange
// was recorded in, when persistence was requested.
type queryResponse struct {
	Outcome rag.Outcome    `json:"outcome"`
	Answer  string         `json:"answer"`
	Sources []rag.Citation `json:"sources"`
	ChatID  *uuid.UUID     `json:"chat_id,omitempty"`
}

// queryHandler answers questions through the RAG engine and optionally
// records the exchange in the chat store.
type queryHandler struct {
	engine *rag.Engine
	chats  *chat.Store // nil disables persistence
	logger log.Logger
}

func (h *queryHandler) answer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxQueryBodySize)

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large", h.logger)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body", h.logger)
		return
	}

	resp, err := h.engine.Answer(r.Context(), req.Query, req.TopK, req.ClinicalData)
	if err != nil {
		switch {
		case errors.Is(err, rag.ErrEmptyQuery):
			writeError(w, http.StatusBadRequest, "empty_query", "query must not be empty", h.logger)
		case errors.Is(err, rag.ErrInvalidTopK):
			writeError(w, http.StatusBadRequest, "invalid_top_k", "top_k must not be negative", h.logger)
		default:
			h.logger.Error("answering query", "error", err)
			writeError(w, http.StatusInternalServerError, "query_failed", "failed to answer query", h.logger)
		}
		return
	}

	out := queryResponse{
		Outcome: resp.Outcome,
		Answer:  resp.Answer,
		Sources: resp.Sources,
	}
	if h.chats != nil && req.ChatID != nil {
		if chatID, ok := h.persist(r, *req.ChatID, req.Query, resp); ok {
			out.ChatID = &chatID
		}
	}

	writeJSON(w, http.StatusOK, out, h.logger)
}

// persist records the question and answer in the given chat. Persistence
// is best effort: the answer was already produced, so storage failures
// are logged and the response still succeeds.
func (h *queryHandler) persist(r *http.Request, chatID uuid.UUID, query string, resp *rag.Response) (uuid.UUID, bool) {
	ctx := r.Context()

	if chatID == uuid.Nil {
		created, err := h.chats.CreateChat(ctx, query)
		if err != nil {
			h.logger.Warn("creating chat for query", "error", err)
			return uuid.Nil, false
		}
		chatID = created.ID
	}

	if _, err := h.chats.AppendMessage(ctx, chatID, chat.RoleUser, query, nil); err != nil {
		h.logger.Warn("recording user message", "chat_id", chatID, "error", err)
		return uuid.Nil, false
	}
	if _, err := h.chats.AppendMessage(ctx, chatID, chat.RoleAssistant, resp.Answer, resp.Sources); err != nil {
		h.logger.Warn("recording assistant message", "chat_id", chatID, "error", err)
		return uuid.Nil, false
	}
	return chatID, true
}
