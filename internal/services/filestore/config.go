// File: internal/services/filestore/config.go
package filestore

import (
	"fmt"
	"time"

	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/domain"
)

type Config struct {
	// Backend Configuration
	BaseURL string // documents backend base URL, e.g. http://localhost:8000

	// Performance Configuration
	UploadTimeout time.Duration // per-file upload deadline
	ListTimeout   time.Duration // listing/deletion deadline
	CacheTTL      time.Duration // knowledge-base listing cache lifetime

	// Category Configuration
	Categories []domain.DocumentCategory // allowed tags; extensible
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.UploadTimeout <= 0 {
		return fmt.Errorf("upload_timeout must be positive")
	}
	if c.ListTimeout <= 0 {
		return fmt.Errorf("list_timeout must be positive")
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("at least one document category is required")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:       "http://localhost:8000",
		UploadTimeout: 120 * time.Second,
		ListTimeout:   30 * time.Second,
		CacheTTL:      5 * time.Minute,
		Categories: []domain.DocumentCategory{
			domain.CategoryGeneral,
			domain.CategoryTechnical,
			domain.CategoryBusiness,
			domain.CategoryLegal,
			domain.CategoryResearch,
		},
	}
}
