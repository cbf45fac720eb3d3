// File: internal/services/filestore/service.go
package filestore

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/domain"
	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/repository/state"
)

const kbListingCacheKey = "kb_files"

// Logger matches the services logging interface.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// FileUpload is one file handed to Upload. Content is consumed once.
type FileUpload struct {
	Name    string
	Size    int64
	Content io.Reader
}

// Service owns the local upload records. They are session-side claims,
// never guaranteed to match the backend's knowledge base; the two views
// reconcile only through the normalized listing.
type Service struct {
	config *Config
	client *Client
	store  state.StateStore
	logger Logger

	mu        sync.Mutex
	files     []domain.UploadedFile
	uploading bool

	kbCache *cache.Cache

	now   func() time.Time
	newID func() string
}

func NewService(ctx context.Context, config *Config, store state.StateStore, logger Logger) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, &FileError{Type: ErrTypeConfig, Message: err.Error()}
	}
	if store == nil {
		return nil, NewValidationError("state store is required")
	}
	if logger == nil {
		return nil, NewValidationError("logger is required")
	}

	s := &Service{
		config:  config,
		client:  NewClient(config),
		store:   store,
		logger:  logger,
		kbCache: cache.New(config.CacheTTL, 2*config.CacheTTL),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	if err := s.rehydrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) rehydrate(ctx context.Context) error {
	raw, found, err := s.store.Load(ctx, state.KeyUploadedFiles)
	if err != nil {
		return NewPersistenceError("could not load uploaded files", err)
	}
	if !found || len(raw) == 0 {
		return nil
	}

	var files []domain.UploadedFile
	if err := json.Unmarshal(raw, &files); err != nil {
		s.logger.Warn("discarding unreadable uploaded-files blob", "error", err.Error())
		return nil
	}
	s.files = files
	s.logger.Info("uploaded files rehydrated", "count", len(files))
	return nil
}

// IsUploading reports whether an upload batch is running. The flag spans
// the whole batch, not individual files.
func (s *Service) IsUploading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploading
}

// Categories returns the allowed category set.
func (s *Service) Categories() []domain.DocumentCategory {
	out := make([]domain.DocumentCategory, len(s.config.Categories))
	copy(out, s.config.Categories)
	return out
}

// Upload sends each file in turn, recording an entry for every attempt,
// failures included, newest first. An empty batch is rejected before any
// network call.
func (s *Service) Upload(ctx context.Context, files []FileUpload, category domain.DocumentCategory) ([]domain.UploadedFile, error) {
	if len(files) == 0 {
		return nil, NewValidationError("no files to upload")
	}
	if !s.validCategory(category) {
		category = domain.CategoryGeneral
	}

	s.setUploading(true)
	defer s.setUploading(false)

	records := make([]domain.UploadedFile, 0, len(files))
	for _, f := range files {
		uploadCtx, cancel := context.WithTimeout(ctx, s.config.UploadTimeout)
		err := s.client.Upload(uploadCtx, f.Name, f.Content)
		cancel()

		record := domain.UploadedFile{
			ID:               s.newID(),
			Name:             f.Name,
			Size:             f.Size,
			UploadDate:       s.now(),
			Success:          err == nil,
			Category:         category,
			ProcessingStatus: domain.StatusPending,
		}
		if err != nil {
			s.logger.Error("upload failed", "file", f.Name, "error", err.Error())
			record.ProcessingStatus = domain.StatusFailed
		}

		s.mu.Lock()
		s.files = append([]domain.UploadedFile{record}, s.files...)
		persistErr := s.persist(ctx)
		s.mu.Unlock()
		if persistErr != nil {
			return records, persistErr
		}
		records = append(records, record)
	}
	return records, nil
}

// SetCategory retags a local record. No backend call is made; categories
// are session metadata. An unknown id is a no-op.
func (s *Service) SetCategory(ctx context.Context, fileID string, category domain.DocumentCategory) error {
	if !s.validCategory(category) {
		return NewValidationError("unknown document category: " + string(category))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(fileID)
	if idx < 0 {
		return nil
	}
	s.files[idx].Category = category
	return s.persist(ctx)
}

// RemoveLocal drops a record from the session list only. The knowledge
// base is untouched.
func (s *Service) RemoveLocal(ctx context.Context, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(fileID)
	if idx < 0 {
		return nil
	}
	s.files = append(s.files[:idx], s.files[idx+1:]...)
	return s.persist(ctx)
}

// RemoveFromKnowledgeBase deletes the document on the backend first and
// drops the local record only once that succeeds. A failed authoritative
// delete leaves the record exactly as it was.
func (s *Service) RemoveFromKnowledgeBase(ctx context.Context, fileID string) error {
	s.mu.Lock()
	idx := s.indexOf(fileID)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	name := s.files[idx].Name
	s.mu.Unlock()

	deleteCtx, cancel := context.WithTimeout(ctx, s.config.ListTimeout)
	defer cancel()
	if err := s.client.Delete(deleteCtx, name); err != nil {
		s.logger.Error("knowledge-base delete failed, keeping local record", "file", name, "error", err.Error())
		return err
	}
	s.kbCache.Delete(kbListingCacheKey)

	s.mu.Lock()
	defer s.mu.Unlock()
	idx = s.indexOf(fileID)
	if idx < 0 {
		return nil
	}
	s.files = append(s.files[:idx], s.files[idx+1:]...)
	return s.persist(ctx)
}

// ListKnowledgeBaseFiles returns the normalized backend listing through a
// read-through cache. Pass refresh to bypass the cached copy.
func (s *Service) ListKnowledgeBaseFiles(ctx context.Context, refresh bool) ([]string, error) {
	if !refresh {
		if cached, found := s.kbCache.Get(kbListingCacheKey); found {
			return cached.([]string), nil
		}
	}

	listCtx, cancel := context.WithTimeout(ctx, s.config.ListTimeout)
	defer cancel()
	resp, err := s.client.List(listCtx)
	if err != nil {
		return nil, err
	}

	normalized := NormalizeListing(resp.Files)
	s.kbCache.Set(kbListingCacheKey, normalized, cache.DefaultExpiration)
	s.logger.Debug("knowledge-base listing refreshed", "total", resp.TotalFiles, "normalized", len(normalized))
	return normalized, nil
}

// RefreshProcessingStatus re-queries the knowledge base and updates the
// status of successful local records: present means completed, absent
// means still processing. Failed records stay failed.
func (s *Service) RefreshProcessingStatus(ctx context.Context) error {
	listing, err := s.ListKnowledgeBaseFiles(ctx, true)
	if err != nil {
		return err
	}

	ingested := make(map[string]struct{}, len(listing))
	for _, name := range listing {
		ingested[name] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.files {
		if !s.files[i].Success {
			continue
		}
		if _, ok := ingested[CleanFileName(s.files[i].Name)]; ok {
			s.files[i].ProcessingStatus = domain.StatusCompleted
		} else {
			s.files[i].ProcessingStatus = domain.StatusProcessing
		}
	}
	return s.persist(ctx)
}

// Files returns a snapshot of all local records, newest first.
func (s *Service) Files() []domain.UploadedFile {
	return s.Filter(domain.CategoryAll)
}

// Filter returns a snapshot restricted to one category, or everything for
// CategoryAll. Filtering never mutates stored records.
func (s *Service) Filter(category domain.DocumentCategory) []domain.UploadedFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.UploadedFile, 0, len(s.files))
	for _, f := range s.files {
		if category == domain.CategoryAll || category == "" || f.Category == category {
			out = append(out, f)
		}
	}
	return out
}

func (s *Service) validCategory(category domain.DocumentCategory) bool {
	for _, c := range s.config.Categories {
		if c == category {
			return true
		}
	}
	return false
}

func (s *Service) indexOf(fileID string) int {
	for i := range s.files {
		if s.files[i].ID == fileID {
			return i
		}
	}
	return -1
}

// persist writes the record list through to the state store. Callers hold
// the mutex.
func (s *Service) persist(ctx context.Context) error {
	raw, err := json.Marshal(s.files)
	if err != nil {
		return NewPersistenceError("could not serialize uploaded files", err)
	}
	if err := s.store.Save(ctx, state.KeyUploadedFiles, raw); err != nil {
		s.logger.Error("failed to persist uploaded files", "error", err.Error())
		return NewPersistenceError("could not save uploaded files", err)
	}
	return nil
}

func (s *Service) setUploading(v bool) {
	s.mu.Lock()
	s.uploading = v
	s.mu.Unlock()
}
