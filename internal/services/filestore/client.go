// File: internal/services/filestore/client.go

package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// ListResponse is the wire payload of GET /documents/files.
type ListResponse struct {
	Files      []string `json:"files"`
	TotalFiles int      `json:"total_files"`
}

// Client speaks the documents endpoints of the backend.
type Client struct {
	config *Config
	client *http.Client
}

func NewClient(config *Config) *Client {
	return &Client{
		config: config,
		client: &http.Client{
			Timeout: config.UploadTimeout,
		},
	}
}

// Upload sends one file as multipart form data under the field "file".
// Only success or failure matters; the response body is discarded.
func (c *Client) Upload(ctx context.Context, name string, content io.Reader) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return NewValidationError(fmt.Sprintf("could not build multipart body for %s", name))
	}
	if _, err := io.Copy(part, content); err != nil {
		return NewValidationError(fmt.Sprintf("could not read file %s", name))
	}
	if err := writer.Close(); err != nil {
		return NewValidationError(fmt.Sprintf("could not finish multipart body for %s", name))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/documents/upload", &body)
	if err != nil {
		return NewNetworkError("failed to create upload request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return NewNetworkError("upload request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(resp.Body)
		return NewBackendError(resp.StatusCode, name, string(responseBody))
	}
	return nil
}

// List fetches the backend's authoritative file listing.
func (c *Client) List(ctx context.Context) (*ListResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/documents/files", nil)
	if err != nil {
		return nil, NewNetworkError("failed to create listing request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, NewNetworkError("listing request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(resp.Body)
		return nil, NewBackendError(resp.StatusCode, "", string(responseBody))
	}

	var decoded ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, NewNetworkError("failed to decode listing response", err)
	}
	return &decoded, nil
}

// Delete removes one document from the knowledge base by filename.
func (c *Client) Delete(ctx context.Context, filename string) error {
	endpoint := c.config.BaseURL + "/documents/" + url.PathEscape(filename)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return NewNetworkError("failed to create delete request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return NewNetworkError("delete request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(resp.Body)
		return NewBackendError(resp.StatusCode, filename, string(responseBody))
	}
	return nil
}
