// File: internal/services/prefs/service.go
package prefs

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/domain"
	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/repository/state"
)

// Service keeps the small per-session preferences blob (currently just
// dark mode), loaded once and written through on every change.
type Service struct {
	mu    sync.Mutex
	store state.StateStore
	prefs domain.Preferences
}

func NewService(ctx context.Context, store state.StateStore) (*Service, error) {
	s := &Service{store: store}

	raw, found, err := store.Load(ctx, state.KeyPreferences)
	if err != nil {
		return nil, err
	}
	if found && len(raw) > 0 {
		// Unreadable preferences fall back to defaults.
		_ = json.Unmarshal(raw, &s.prefs)
	}
	return s, nil
}

func (s *Service) Get() domain.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

func (s *Service) SetDarkMode(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs.DarkMode = enabled
	raw, err := json.Marshal(s.prefs)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, state.KeyPreferences, raw)
}
