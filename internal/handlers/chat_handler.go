// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/domain"
	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/services/conversation"
	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/services/qa"
)

type ChatHandler struct {
	Conversations *conversation.Service
	QAService     *qa.Service
}

func NewChatHandler(cs *conversation.Service, qs *qa.Service) *ChatHandler {
	return &ChatHandler{
		Conversations: cs,
		QAService:     qs,
	}
}

// ListConversations returns every thread, most recently created first,
// plus the active pointer and the shared loading flag.
func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"conversations": h.Conversations.List(),
		"activeId":      h.Conversations.ActiveID(),
		"isLoading":     h.QAService.IsLoading(),
	})
}

// CreateConversation starts a new thread and makes it active.
func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	id, err := h.Conversations.Create(r.Context())
	if err != nil {
		writeError(w, "Could not create conversation", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// GetConversation returns a single thread by id.
func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.Conversations.Get(mux.Vars(r)["id"])
	if !ok {
		writeError(w, "Conversation not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

// DeleteConversation removes a thread. Unknown ids succeed quietly.
func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	if err := h.Conversations.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, "Could not delete conversation", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ActivateConversation switches the active pointer.
func (h *ChatHandler) ActivateConversation(w http.ResponseWriter, r *http.Request) {
	h.Conversations.SetActive(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

// SendMessage appends the user's message, asks the backend, and appends
// the settled assistant message unless a newer send superseded this one.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["id"]

	var req struct {
		Message     string  `json:"message"`
		Model       string  `json:"model,omitempty"`
		Temperature float32 `json:"temperature,omitempty"`
		TopK        int     `json:"top_k,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	userMsg := domain.Message{Role: domain.RoleUser, Content: req.Message}
	if err := h.Conversations.AddMessage(r.Context(), conversationID, userMsg); err != nil {
		if conversation.IsNotFound(err) {
			writeError(w, "Conversation not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not record message", http.StatusInternalServerError)
		return
	}

	var reply domain.Message
	record := func(m domain.Message) { reply = m }
	result, err := h.QAService.Send(r.Context(), req.Message, qa.Options{
		Model:       req.Model,
		Temperature: req.Temperature,
		TopK:        req.TopK,
	}, qa.Callbacks{OnSuccess: record, OnError: record})
	if err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if !result.Stale {
		if err := h.Conversations.AddMessage(r.Context(), conversationID, reply); err != nil && !conversation.IsNotFound(err) {
			writeError(w, "Could not record reply", http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": result.Message,
		"stale":   result.Stale,
	})
}

// ClearConversations empties the current thread or all of them. The
// caller must confirm explicitly; there is no dialog on this side.
func (h *ChatHandler) ClearConversations(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Scope   string `json:"scope"` // "current" or "all"
		Confirm bool   `json:"confirm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	var err error
	switch req.Scope {
	case "current":
		err = h.Conversations.ClearCurrent(r.Context(), req.Confirm)
	case "all":
		err = h.Conversations.ClearAll(r.Context(), req.Confirm)
	default:
		writeError(w, "Unknown scope", http.StatusBadRequest)
		return
	}

	if errors.Is(err, conversation.ErrConfirmationRequired) {
		writeError(w, "Confirmation required", http.StatusConflict)
		return
	}
	if err != nil {
		writeError(w, "Could not clear conversations", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportConversation downloads one thread as JSON or rendered HTML.
func (h *ChatHandler) ExportConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["id"]

	var (
		artifact []byte
		err      error
	)
	switch r.URL.Query().Get("format") {
	case "html":
		artifact, err = h.Conversations.ExportHTML(conversationID)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	default:
		artifact, err = h.Conversations.ExportJSON(conversationID)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", "attachment; filename=chat-export.json")
	}
	if err != nil {
		if conversation.IsNotFound(err) {
			writeError(w, "Conversation not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not export conversation", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact)
}
