// File: internal/services/qa/client.go

package qa

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// Request is the wire payload for POST /qa.
type Request struct {
	Query       string  `json:"query"`
	TopK        int     `json:"top_k"`
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
}

// Chunk is one retrieved passage in the backend response.
type Chunk struct {
	ChunkID string `json:"chunk_id"`
	Text    string `json:"text"`
}

// Response is the wire payload the backend answers with. Success=false
// signals a logical failure even on HTTP 200.
type Response struct {
	Success         bool     `json:"success"`
	Answer          string   `json:"answer"`
	Chunks          []Chunk  `json:"chunks,omitempty"`
	ExpandedQueries []string `json:"expanded_queries,omitempty"`
}

// Client speaks the backend's /qa endpoint.
type Client struct {
	config *Config
	client *http.Client
}

func NewClient(config *Config) *Client {
	return &Client{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Ask issues one query. Transport failures and non-success statuses come
// back as errors; logical failures come back as a decoded Response with
// Success=false so the caller can use the backend's own message.
func (c *Client) Ask(ctx context.Context, payload Request) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, NewValidationError("invalid payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/qa", bytes.NewBuffer(body))
	if err != nil {
		return nil, NewNetworkError("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, NewNetworkError("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(resp.Body)
		return nil, NewBackendError(resp.StatusCode, string(responseBody))
	}

	var decoded Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, NewNetworkError("failed to decode response", err)
	}
	return &decoded, nil
}
