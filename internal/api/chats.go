package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/nourai/nourai/internal/chat"
	"github.com/nourai/nourai/internal/log"
)

const (
	defaultChatListLimit = 50
	maxChatListLimit     = 200
	maxChatBodySize      = 8 << 10
)

// chatHandler serves conversation CRUD endpoints.
type chatHandler struct {
	store  *chat.Store
	logger log.Logger
}

func (h *chatHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := int32(defaultChatListLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxChatListLimit {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be between 1 and 200", h.logger)
			return
		}
		limit = int32(n)
	}

	chats, err := h.store.ListChats(r.Context(), limit)
	if err != nil {
		h.logger.Error("listing chats", "error", err)
		writeError(w, http.StatusInternalServerError, "list_failed", "failed to list chats", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"chats": chats}, h.logger)
}

func (h *chatHandler) create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodySize)

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body", h.logger)
		return
	}

	created, err := h.store.CreateChat(r.Context(), req.Title)
	if err != nil {
		h.logger.Error("creating chat", "error", err)
		writeError(w, http.StatusInternalServerError, "create_failed", "failed to create chat", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, created, h.logger)
}

func (h *chatHandler) get(w http.ResponseWriter, r *http.Request) {
	chatID, ok := h.pathChatID(w, r)
	if !ok {
		return
	}

	found, err := h.store.GetChat(r.Context(), chatID)
	if err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "chat not found", h.logger)
			return
		}
		h.logger.Error("getting chat", "chat_id", chatID, "error", err)
		writeError(w, http.StatusInternalServerError, "get_failed", "failed to get chat", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, found, h.logger)
}

func (h *chatHandler) messages(w http.ResponseWriter, r *http.Request) {
	chatID, ok := h.pathChatID(w, r)
	if !ok {
		return
	}

	if _, err := h.store.GetChat(r.Context(), chatID); err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "chat not found", h.logger)
			return
		}
		h.logger.Error("getting chat", "chat_id", chatID, "error", err)
		writeError(w, http.StatusInternalServerError, "get_failed", "failed to get chat", h.logger)
		return
	}

	messages, err := h.store.Messages(r.Context(), chatID)
	if err != nil {
		h.logger.Error("listing messages", "chat_id", chatID, "error", err)
		writeError(w, http.StatusInternalServerError, "list_failed", "failed to list messages", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": messages}, h.logger)
}

func (h *chatHandler) delete(w http.ResponseWriter, r *http.Request) {
	chatID, ok := h.pathChatID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteChat(r.Context(), chatID); err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "chat not found", h.logger)
			return
		}
		h.logger.Error("deleting chat", "chat_id", chatID, "error", err)
		writeError(w, http.StatusInternalServerError, "delete_failed", "failed to delete chat", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *chatHandler) updateTitle(w http.ResponseWriter, r *http.Request) {
	chatID, ok := h.pathChatID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodySize)

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body", h.logger)
		return
	}

	if err := h.store.UpdateTitle(r.Context(), chatID, req.Title); err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "chat not found", h.logger)
			return
		}
		h.logger.Error("updating chat title", "chat_id", chatID, "error", err)
		writeError(w, http.StatusInternalServerError, "update_failed", "failed to update chat", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *chatHandler) pathChatID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	chatID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid chat ID", h.logger)
		return uuid.Nil, false
	}
	return chatID, true
}
