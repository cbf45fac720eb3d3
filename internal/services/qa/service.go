// File: internal/services/qa/service.go
package qa

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/domain"
)

// FallbackMessage is the synthetic assistant reply for transport-level
// failures. Logical failures prefer the backend's own answer text.
const FallbackMessage = "Sorry, there was an error processing your request. Please try again."

// Logger matches the services logging interface.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Options tunes a single send. Zero values fall back to the configured
// defaults.
type Options struct {
	Model       string
	Temperature float32
	TopK        int
}

// Callbacks deliver the settled message to the caller. The coordinator
// never touches the conversation store itself.
type Callbacks struct {
	OnSuccess func(domain.Message)
	OnError   func(domain.Message)
}

// Result carries the single message a send produced. Stale is set when a
// newer send started before this one settled; callers should drop stale
// replies instead of appending them out of order.
type Result struct {
	Message domain.Message
	Stale   bool
}

// Service coordinates one outbound query with its eventual answer or
// synthetic failure. Overlapping sends share the loading flag; each send
// is tagged so late replies can be recognized and discarded.
type Service struct {
	config *Config
	client *Client
	logger Logger

	mu       sync.Mutex
	inFlight int
	lastSeq  uint64

	newID func() string
	now   func() time.Time
}

func NewService(config *Config, logger Logger) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, &QAError{Type: ErrTypeConfig, Message: err.Error()}
	}
	if logger == nil {
		return nil, NewValidationError("logger is required")
	}

	return &Service{
		config: config,
		client: NewClient(config),
		logger: logger,
		newID:  uuid.NewString,
		now:    time.Now,
	}, nil
}

// IsLoading reports whether any send is still in flight. It is advisory:
// callers gate duplicate submissions, the coordinator does not reject them.
func (s *Service) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

// Send issues one query and settles into exactly one assistant message,
// delivered through the callbacks and returned. A blank query is rejected
// before any network traffic and produces no message.
func (s *Service) Send(ctx context.Context, query string, opts Options, cb Callbacks) (Result, error) {
	if strings.TrimSpace(query) == "" {
		return Result{}, NewValidationError("query cannot be empty")
	}

	seq := s.begin()
	defer s.end()

	payload := s.buildRequest(query, opts)
	resp, err := s.client.Ask(ctx, payload)

	var msg domain.Message
	failed := false
	switch {
	case err != nil:
		s.logger.Error("qa request failed", "error", err.Error())
		msg = s.failureMessage(FallbackMessage)
		failed = true
	case !resp.Success:
		content := resp.Answer
		if content == "" {
			content = FallbackMessage
		}
		s.logger.Warn("qa backend reported failure", "answer", resp.Answer)
		msg = s.failureMessage(content)
		failed = true
	default:
		msg = s.answerMessage(resp)
	}

	stale := s.isStale(seq)
	if failed {
		if cb.OnError != nil {
			cb.OnError(msg)
		}
	} else if cb.OnSuccess != nil {
		cb.OnSuccess(msg)
	}
	return Result{Message: msg, Stale: stale}, nil
}

func (s *Service) buildRequest(query string, opts Options) Request {
	payload := Request{
		Query:       query,
		TopK:        s.config.TopK,
		Model:       s.config.Model,
		Temperature: s.config.Temperature,
	}
	if opts.Model != "" {
		payload.Model = opts.Model
	}
	if opts.Temperature > 0 {
		payload.Temperature = opts.Temperature
	}
	if opts.TopK > 0 {
		payload.TopK = opts.TopK
	}
	return payload
}

func (s *Service) answerMessage(resp *Response) domain.Message {
	msg := domain.Message{
		ID:              s.newID(),
		Role:            domain.RoleAssistant,
		Content:         resp.Answer,
		Timestamp:       s.now(),
		ExpandedQueries: resp.ExpandedQueries,
	}
	for _, chunk := range resp.Chunks {
		msg.Sources = append(msg.Sources, domain.Source{ChunkID: chunk.ChunkID, Text: chunk.Text})
	}
	return msg
}

func (s *Service) failureMessage(content string) domain.Message {
	return domain.Message{
		ID:        s.newID(),
		Role:      domain.RoleAssistant,
		Content:   content,
		Timestamp: s.now(),
	}
}

func (s *Service) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight++
	s.lastSeq++
	return s.lastSeq
}

func (s *Service) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--
}

func (s *Service) isStale(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq != s.lastSeq
}
