// File: internal/services/conversation/service.go
package conversation

import (
	"context"
	"encoding/json"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/domain"
	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/repository/state"
)

const (
	// DefaultTitle is the title of a conversation with no user message yet.
	DefaultTitle = "New Chat"

	titleMaxRunes = 30
	titleEllipsis = "..."
)

// Logger matches the services logging interface.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Service owns the conversation threads and the active-thread pointer.
// Threads are kept most-recently-created first; appending messages never
// re-sorts the list. Every mutation is written through to the state store.
type Service struct {
	mu            sync.Mutex
	store         state.StateStore
	logger        Logger
	conversations []domain.Conversation
	activeID      string

	now   func() time.Time
	newID func() string
}

func NewService(ctx context.Context, store state.StateStore, logger Logger) (*Service, error) {
	if store == nil {
		return nil, NewValidationError("constructor", "state store is required")
	}
	if logger == nil {
		return nil, NewValidationError("constructor", "logger is required")
	}

	s := &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	if err := s.rehydrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// rehydrate loads the persisted thread list. Timestamps come back as
// RFC3339 strings and are re-parsed into time values by the decoder. The
// active pointer defaults to the most recent conversation.
func (s *Service) rehydrate(ctx context.Context) error {
	raw, found, err := s.store.Load(ctx, state.KeyConversations)
	if err != nil {
		return NewPersistenceError("rehydrate", err)
	}
	if !found || len(raw) == 0 {
		return nil
	}

	var conversations []domain.Conversation
	if err := json.Unmarshal(raw, &conversations); err != nil {
		// A corrupt blob should not brick the session; start fresh.
		s.logger.Warn("discarding unreadable conversations blob", "error", err.Error())
		return nil
	}

	s.conversations = conversations
	if len(conversations) > 0 {
		s.activeID = conversations[0].ID
	}
	s.logger.Info("conversations rehydrated", "count", len(conversations))
	return nil
}

// Create prepends a new empty conversation, makes it active, and returns
// its id.
func (s *Service) Create(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := domain.Conversation{
		ID:          s.newID(),
		Title:       DefaultTitle,
		Messages:    []domain.Message{},
		LastUpdated: s.now(),
	}
	s.conversations = append([]domain.Conversation{conv}, s.conversations...)
	s.activeID = conv.ID

	if err := s.persist(ctx, "create"); err != nil {
		return "", err
	}
	return conv.ID, nil
}

// Delete removes a conversation. Deleting the active one promotes the
// first remaining conversation, or clears the pointer when none are left.
// An unknown id is a no-op.
func (s *Service) Delete(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(conversationID)
	if idx < 0 {
		return nil
	}

	s.conversations = append(s.conversations[:idx], s.conversations[idx+1:]...)
	if s.activeID == conversationID {
		if len(s.conversations) > 0 {
			s.activeID = s.conversations[0].ID
		} else {
			s.activeID = ""
		}
	}
	return s.persist(ctx, "delete")
}

// AddMessage appends a message to the named conversation and refreshes
// its lastUpdated. The first user message also fixes the title.
func (s *Service) AddMessage(ctx context.Context, conversationID string, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(conversationID)
	if idx < 0 {
		return NewNotFoundError("add_message", conversationID)
	}

	if msg.ID == "" {
		msg.ID = s.newID()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.now()
	}

	conv := &s.conversations[idx]
	if len(conv.Messages) == 0 && msg.Role == domain.RoleUser {
		conv.Title = deriveTitle(msg.Content)
	}
	conv.Messages = append(conv.Messages, msg)
	conv.LastUpdated = s.advance(conv.LastUpdated)

	return s.persist(ctx, "add_message")
}

// SetActive switches the active pointer. An unknown id is a no-op.
func (s *Service) SetActive(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(conversationID) >= 0 {
		s.activeID = conversationID
	}
}

// ClearCurrent empties the active conversation's message list and resets
// its title. The caller must confirm explicitly.
func (s *Service) ClearCurrent(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(s.activeID)
	if idx < 0 {
		return nil
	}

	conv := &s.conversations[idx]
	conv.Messages = []domain.Message{}
	conv.Title = DefaultTitle
	conv.LastUpdated = s.advance(conv.LastUpdated)

	return s.persist(ctx, "clear_current")
}

// ClearAll empties every conversation's message list, keeping the threads
// themselves, and clears the active pointer.
func (s *Service) ClearAll(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.conversations {
		s.conversations[i].Messages = []domain.Message{}
		s.conversations[i].Title = DefaultTitle
		s.conversations[i].LastUpdated = s.advance(s.conversations[i].LastUpdated)
	}
	s.activeID = ""

	return s.persist(ctx, "clear_all")
}

// List returns a snapshot of all conversations, most recently created
// first. Callers may not mutate stored state through it.
func (s *Service) List() []domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Conversation, len(s.conversations))
	for i, conv := range s.conversations {
		out[i] = copyConversation(conv)
	}
	return out
}

// Active returns a snapshot of the active conversation, if any.
func (s *Service) Active() (domain.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(s.activeID)
	if idx < 0 {
		return domain.Conversation{}, false
	}
	return copyConversation(s.conversations[idx]), true
}

// ActiveID returns the active conversation id, or "" when none is set.
func (s *Service) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Get returns a snapshot of one conversation by id.
func (s *Service) Get(conversationID string) (domain.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(conversationID)
	if idx < 0 {
		return domain.Conversation{}, false
	}
	return copyConversation(s.conversations[idx]), true
}

func (s *Service) indexOf(conversationID string) int {
	if conversationID == "" {
		return -1
	}
	for i := range s.conversations {
		if s.conversations[i].ID == conversationID {
			return i
		}
	}
	return -1
}

// advance returns a timestamp strictly after prev so lastUpdated is
// monotonic even under coarse clocks.
func (s *Service) advance(prev time.Time) time.Time {
	now := s.now()
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}

func (s *Service) persist(ctx context.Context, operation string) error {
	raw, err := json.Marshal(s.conversations)
	if err != nil {
		return NewPersistenceError(operation, err)
	}
	if err := s.store.Save(ctx, state.KeyConversations, raw); err != nil {
		s.logger.Error("failed to persist conversations", "operation", operation, "error", err.Error())
		return NewPersistenceError(operation, err)
	}
	return nil
}

// deriveTitle truncates the first user message to 30 characters, marking
// longer ones with an ellipsis.
func deriveTitle(content string) string {
	if utf8.RuneCountInString(content) <= titleMaxRunes {
		return content
	}
	runes := []rune(content)
	return string(runes[:titleMaxRunes]) + titleEllipsis
}

func copyConversation(conv domain.Conversation) domain.Conversation {
	out := conv
	out.Messages = make([]domain.Message, len(conv.Messages))
	copy(out.Messages, conv.Messages)
	return out
}
