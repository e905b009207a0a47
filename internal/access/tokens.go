package access

import (
	"context"
	"errors"
	"sync"
	"time"

	log "loadplan/internal/infra/logging"
)

var (
	// ErrInvalidAPIKey signals that the provided API key is not known.
	ErrInvalidAPIKey = errors.New("invalid api key")
	// ErrTokenStoreNotReady signals that no token list has been loaded yet,
	// e.g. while the database is still starting.
	ErrTokenStoreNotReady = errors.New("token store not ready")
)

// TokenLoader fetches the current token → rate limit table.
type TokenLoader interface {
	LoadTokens(ctx context.Context) (map[string]int, error)
}

// TokenStore caches integration API tokens in memory.
type TokenStore struct {
	mu    sync.RWMutex
	cache map[string]int
}

func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Replace swaps the cached table for a copy of m.
func (s *TokenStore) Replace(m map[string]int) {
	cache := make(map[string]int, len(m))
	for k, v := range m {
		cache[k] = v
	}
	s.mu.Lock()
	s.cache = cache
	s.mu.Unlock()
}

// Load pulls the table from l and installs it.
func (s *TokenStore) Load(ctx context.Context, l TokenLoader) error {
	m, err := l.LoadTokens(ctx)
	if err != nil {
		return err
	}
	s.Replace(m)
	return nil
}

// Ready reports whether a table has been installed at least once.
func (s *TokenStore) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache != nil
}

// Validate checks key against the cached table.
func (s *TokenStore) Validate(key string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cache == nil {
		return ErrTokenStoreNotReady
	}
	if _, ok := s.cache[key]; !ok {
		return ErrInvalidAPIKey
	}
	return nil
}

// RateLimit returns the per-minute limit of key, or 0 for unknown keys,
// which disables token limiting for them.
func (s *TokenStore) RateLimit(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[key]
}

// Refresh reloads the table every interval until stop is closed. Failed
// reloads keep the previous table.
func (s *TokenStore) Refresh(l TokenLoader, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.Load(context.Background(), l); err != nil {
				log.Error("Failed to reload API tokens", "error", err)
			}
		case <-stop:
			return
		}
	}
}
