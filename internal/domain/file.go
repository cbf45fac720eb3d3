// File: internal/domain/file.go
package domain

import "time"

// DocumentCategory tags an uploaded document. The set is enumerated but
// extensible; "general" is the default for untagged uploads.
type DocumentCategory string

const (
	CategoryGeneral   DocumentCategory = "general"
	CategoryTechnical DocumentCategory = "technical"
	CategoryBusiness  DocumentCategory = "business"
	CategoryLegal     DocumentCategory = "legal"
	CategoryResearch  DocumentCategory = "research"
)

// CategoryAll is a filter value, never stored on a record.
const CategoryAll DocumentCategory = "all"

// ProcessingStatus is a local, manually refreshed estimate of backend
// ingestion progress. It is never pushed by the backend.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// UploadedFile is the local session record of one upload attempt. It is
// a claim about what was sent, not about what the knowledge base holds;
// reconciliation happens only at display time.
type UploadedFile struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Size             int64            `json:"size"`
	UploadDate       time.Time        `json:"uploadDate"`
	Success          bool             `json:"success"`
	Category         DocumentCategory `json:"category"`
	ProcessingStatus ProcessingStatus `json:"processingStatus"`
}

// Preferences is the small per-session settings blob.
type Preferences struct {
	DarkMode bool `json:"darkMode"`
}
