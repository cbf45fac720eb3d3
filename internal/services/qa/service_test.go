package qa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/domain"
)

type noopLogger struct{}

func (noopLogger) Info(msg string, kv ...interface{})  {}
func (noopLogger) Error(msg string, kv ...interface{}) {}
func (noopLogger) Debug(msg string, kv ...interface{}) {}
func (noopLogger) Warn(msg string, kv ...interface{})  {}

func testConfig(baseURL string) *Config {
	return &Config{
		BaseURL:     baseURL,
		Model:       "test-model",
		Temperature: 0.2,
		TopK:        3,
		Timeout:     5 * time.Second,
	}
}

func newTestService(t *testing.T, baseURL string) *Service {
	t.Helper()
	svc, err := NewService(testConfig(baseURL), noopLogger{})
	require.NoError(t, err)
	return svc
}

func TestSendSuccess(t *testing.T) {
	var gotPayload Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/qa", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		json.NewEncoder(w).Encode(Response{
			Success:         true,
			Answer:          "RAG retrieves before it generates.",
			Chunks:          []Chunk{{ChunkID: "c1", Text: "passage one"}, {ChunkID: "c2", Text: "passage two"}},
			ExpandedQueries: []string{"what is retrieval augmented generation"},
		})
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)

	var succeeded, failed []domain.Message
	result, err := svc.Send(context.Background(), "what is RAG?", Options{}, Callbacks{
		OnSuccess: func(m domain.Message) { succeeded = append(succeeded, m) },
		OnError:   func(m domain.Message) { failed = append(failed, m) },
	})
	require.NoError(t, err)

	// Configured defaults flow into the wire payload.
	assert.Equal(t, "what is RAG?", gotPayload.Query)
	assert.Equal(t, 3, gotPayload.TopK)
	assert.Equal(t, "test-model", gotPayload.Model)
	assert.InDelta(t, 0.2, gotPayload.Temperature, 0.001)

	msg := result.Message
	assert.Equal(t, domain.RoleAssistant, msg.Role)
	assert.Equal(t, "RAG retrieves before it generates.", msg.Content)
	require.Len(t, msg.Sources, 2)
	assert.Equal(t, "c1", msg.Sources[0].ChunkID)
	assert.Equal(t, []string{"what is retrieval augmented generation"}, msg.ExpandedQueries)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.Timestamp.IsZero())

	assert.False(t, result.Stale)
	require.Len(t, succeeded, 1, "exactly one message per call")
	assert.Empty(t, failed)
	assert.False(t, svc.IsLoading(), "loading flag cleared after success")
}

func TestSendOptionsOverrideDefaults(t *testing.T) {
	var gotPayload Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotPayload)
		json.NewEncoder(w).Encode(Response{Success: true, Answer: "ok"})
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	_, err := svc.Send(context.Background(), "q", Options{Model: "other-model", Temperature: 0.9, TopK: 7}, Callbacks{})
	require.NoError(t, err)

	assert.Equal(t, "other-model", gotPayload.Model)
	assert.InDelta(t, 0.9, gotPayload.Temperature, 0.001)
	assert.Equal(t, 7, gotPayload.TopK)
}

func TestSendLogicalFailureUsesBackendText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Response{Success: false, Answer: "no context"})
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)

	var failed []domain.Message
	result, err := svc.Send(context.Background(), "q", Options{}, Callbacks{
		OnError: func(m domain.Message) { failed = append(failed, m) },
	})
	require.NoError(t, err)

	assert.Equal(t, "no context", result.Message.Content, "backend text wins over the generic fallback")
	assert.Equal(t, domain.RoleAssistant, result.Message.Role)
	require.Len(t, failed, 1)
	assert.False(t, svc.IsLoading())
}

func TestSendLogicalFailureWithoutTextFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Response{Success: false})
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	result, err := svc.Send(context.Background(), "q", Options{}, Callbacks{})
	require.NoError(t, err)
	assert.Equal(t, FallbackMessage, result.Message.Content)
}

func TestSendTransportFailureYieldsFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)

	var failed []domain.Message
	result, err := svc.Send(context.Background(), "q", Options{}, Callbacks{
		OnError: func(m domain.Message) { failed = append(failed, m) },
	})
	require.NoError(t, err)

	assert.Equal(t, FallbackMessage, result.Message.Content)
	require.Len(t, failed, 1)
	assert.False(t, svc.IsLoading())
}

func TestSendUnreachableBackendYieldsFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	svc := newTestService(t, server.URL)
	result, err := svc.Send(context.Background(), "q", Options{}, Callbacks{})
	require.NoError(t, err)
	assert.Equal(t, FallbackMessage, result.Message.Content)
}

func TestSendBlankQueryShortCircuits(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)

	var delivered []domain.Message
	record := func(m domain.Message) { delivered = append(delivered, m) }
	_, err := svc.Send(context.Background(), "   ", Options{}, Callbacks{OnSuccess: record, OnError: record})
	require.Error(t, err)

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "blank query must not reach the network")
	assert.Empty(t, delivered)
	assert.False(t, svc.IsLoading())
}

func TestOverlappingSendsTagStaleReplies(t *testing.T) {
	firstArrived := make(chan struct{})
	release := make(chan struct{})
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			close(firstArrived)
			<-release
		}
		json.NewEncoder(w).Encode(Response{Success: true, Answer: "ok"})
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)

	var firstResult Result
	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		firstResult, _ = svc.Send(context.Background(), "first", Options{}, Callbacks{})
	}()

	<-firstArrived
	assert.True(t, svc.IsLoading(), "loading flag covers in-flight sends")

	secondResult, err := svc.Send(context.Background(), "second", Options{}, Callbacks{})
	require.NoError(t, err)

	close(release)
	<-firstDone

	assert.True(t, firstResult.Stale, "superseded reply must be marked stale")
	assert.False(t, secondResult.Stale)
	assert.False(t, svc.IsLoading())
}

func TestConfigValidation(t *testing.T) {
	cfg := testConfig("http://localhost:8000")
	cfg.Temperature = 1.5
	_, err := NewService(cfg, noopLogger{})
	require.Error(t, err)

	cfg = testConfig("http://localhost:8000")
	cfg.TopK = 0
	_, err = NewService(cfg, noopLogger{})
	require.Error(t, err)
}
