// File: internal/services/qa/config.go
package qa

import (
	"fmt"
	"time"
)

type Config struct {
	// Backend Configuration
	BaseURL string // QA backend base URL, e.g. http://localhost:8000

	// Default Query Parameters
	Model       string  // model identifier sent with each query
	Temperature float32 // sampling temperature, 0..1
	TopK        int     // number of passages the backend should retrieve

	// Performance Configuration
	Timeout time.Duration // hard deadline per request; a hung backend must not pin the loading flag
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0 and 1")
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "http://localhost:8000",
		Model:       "gpt-4o-mini",
		Temperature: 0.7,
		TopK:        5,
		Timeout:     60 * time.Second,
	}
}
