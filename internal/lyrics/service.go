// Package lyrics resolves lyrics for tracks, fronted by a bounded LRU
// cache that holds both positive and negative outcomes.
package lyrics

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// Fetcher is the remote lookup the service depends on, implemented by
// [Client].
type Fetcher interface {
	Fetch(ctx context.Context, artist, title string) (string, error)
}

// Service orchestrates cache lookup and remote fetch.
//
// Fetch never propagates a hard failure for an individual lookup:
// every remote failure degrades to a cached negative result and a log
// line. Best effort, always answer.
type Service struct {
	fetcher Fetcher
	limiter *rate.Limiter
	logger  *log.Logger

	mu    sync.Mutex
	cache *Cache
}

// NewService creates a Service over the given fetcher with a cache of
// cacheSize entries. Remote calls are rate limited to one per second
// with a small burst, which a track-change workload never approaches.
func NewService(fetcher Fetcher, cacheSize int, logger *log.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Limit(1), 3),
		logger:  logger,
		cache:   NewCache(cacheSize),
	}
}

// Fetch resolves lyrics for the track id, consulting the cache first.
// A nil result means lyrics are confirmed unavailable.
func (s *Service) Fetch(ctx context.Context, id, artist, title string) *string {
	s.mu.Lock()
	if entry, ok := s.cache.Get(id); ok {
		s.mu.Unlock()
		s.logger.Debug("lyrics cache hit", "track", id)
		return entry.Text
	}
	s.mu.Unlock()

	s.logger.Info("fetching lyrics", "artist", artist, "title", title)

	text, err := s.lookup(ctx, artist, title)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Info("no lyrics available", "artist", artist, "title", title)
		} else {
			s.logger.Warn("lyrics fetch failed", "artist", artist, "title", title, "error", err)
		}
		s.insert(id, nil)
		return nil
	}

	s.insert(id, &text)
	return &text
}

func (s *Service) lookup(ctx context.Context, artist, title string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return s.fetcher.Fetch(ctx, artist, title)
}

func (s *Service) insert(id string, text *string) {
	s.mu.Lock()
	s.cache.Insert(id, text)
	s.mu.Unlock()
}

// CacheLen reports the number of cached entries.
func (s *Service) CacheLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}
