// Package shortener implements short link creation, resolution and click
// accounting on top of the persistent keyed store.
package shortener

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"voxpage/internal/domain"
	"voxpage/internal/logger"
	"voxpage/internal/storage"
	redisstore "voxpage/internal/store/redis"
)

var (
	// ErrCodeTaken signals a collision on a requested custom code.
	ErrCodeTaken = errors.New("That short code is already in use.")
	// ErrCodeSpaceExhausted signals that random generation kept colliding.
	ErrCodeSpaceExhausted = errors.New("failed to generate a unique short code")

	errNotFound = errors.New("short link not found")
)

// Service owns the short-link store. An optional Redis cache mirrors click
// counters and resolutions; it is nil when Redis is not configured and
// every cache failure is logged, never propagated.
type Service struct {
	store  *storage.Store[domain.ShortLink]
	cache  *redisstore.Cache
	logger logger.Logger
	now    func() time.Time
}

// NewService opens the backing file and loads existing links.
func NewService(path string, cache *redisstore.Cache, log logger.Logger) *Service {
	store, skipped := storage.Open(path, decodeShortLink)
	if skipped > 0 {
		log.Warn("skipped malformed short link records on load",
			logger.Int("skipped", skipped),
			logger.String("file", path))
	}
	log.Info("short link store loaded",
		logger.Int("links", store.Len()),
		logger.String("file", path))

	return &Service{
		store:  store,
		cache:  cache,
		logger: log,
		now:    time.Now,
	}
}

// Create stores a new link. With a custom code the code is validated and
// must be free; otherwise a random 7-character code is generated. URL
// validation failures, ErrCodeTaken and ErrCodeSpaceExhausted are returned
// without touching the store.
func (s *Service) Create(ctx context.Context, longURL, customCode string) (domain.ShortLink, error) {
	normalized, err := NormalizeURL(longURL)
	if err != nil {
		return domain.ShortLink{}, err
	}

	var record domain.ShortLink
	err = s.store.Update(func(items map[string]domain.ShortLink) error {
		code := ""
		if customCode != "" {
			code, err = ValidateCustomCode(customCode)
			if err != nil {
				return err
			}
			if _, exists := items[code]; exists {
				return ErrCodeTaken
			}
		} else {
			code, err = generateUniqueCode(items)
			if err != nil {
				return err
			}
		}

		record = domain.ShortLink{
			Code:           code,
			LongURL:        normalized,
			ClickCount:     0,
			CreatedAt:      s.now().UTC(),
			LastAccessedAt: nil,
		}
		items[code] = record
		return nil
	})
	if err != nil {
		return domain.ShortLink{}, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.CacheResolution(ctx, record.Code, record.LongURL, redisstore.DefaultResolutionTTL); cacheErr != nil {
			s.logger.Warn("failed to cache short link resolution",
				logger.String("code", record.Code),
				logger.Error(cacheErr))
		}
	}

	s.logger.Info("short link created",
		logger.String("code", record.Code),
		logger.String("long_url", record.LongURL))
	return record, nil
}

// Get returns a link without side effects.
func (s *Service) Get(code string) (domain.ShortLink, bool) {
	var record domain.ShortLink
	found := false
	s.store.View(func(items map[string]domain.ShortLink) {
		record, found = items[code]
	})
	return record, found
}

// Resolve looks up a link and, when found, counts the access: click count
// is incremented, last access time is set and the change is persisted.
// A code missing from the store is tried against the Redis resolution
// cache, which can outlive a lost store file; a cache-only hit redirects
// without click accounting. Otherwise found=false, without side effects.
func (s *Service) Resolve(ctx context.Context, code string) (domain.ShortLink, bool, error) {
	var record domain.ShortLink
	err := s.store.Update(func(items map[string]domain.ShortLink) error {
		current, ok := items[code]
		if !ok {
			return errNotFound
		}
		current.ClickCount++
		accessed := s.now().UTC()
		current.LastAccessedAt = &accessed
		items[code] = current
		record = current
		return nil
	})
	if errors.Is(err, errNotFound) {
		if s.cache != nil {
			longURL, cacheErr := s.cache.GetCachedResolution(ctx, code)
			if cacheErr != nil {
				s.logger.Warn("failed to read resolution cache",
					logger.String("code", code),
					logger.Error(cacheErr))
			} else if longURL != "" {
				s.logger.Warn("short link resolved from cache only",
					logger.String("code", code))
				return domain.ShortLink{Code: code, LongURL: longURL}, true, nil
			}
		}
		return domain.ShortLink{}, false, nil
	}
	if err != nil {
		return domain.ShortLink{}, false, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.IncrementClicks(ctx, code); cacheErr != nil {
			s.logger.Warn("failed to mirror click counter",
				logger.String("code", code),
				logger.Error(cacheErr))
		}
	}
	return record, true, nil
}

// List returns up to limit links, newest first.
func (s *Service) List(limit int) []domain.ShortLink {
	var links []domain.ShortLink
	s.store.View(func(items map[string]domain.ShortLink) {
		links = make([]domain.ShortLink, 0, len(items))
		for _, record := range items {
			links = append(links, record)
		}
	})

	sort.Slice(links, func(i, j int) bool {
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})
	if limit > 0 && len(links) > limit {
		links = links[:limit]
	}
	return links
}

// Snapshot returns all links in unspecified order. Used by the click
// mirror scheduler.
func (s *Service) Snapshot() []domain.ShortLink {
	return s.List(0)
}

// Clear removes every link and persists the empty store.
func (s *Service) Clear(ctx context.Context) error {
	err := s.store.Update(func(items map[string]domain.ShortLink) error {
		for code := range items {
			delete(items, code)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.cache != nil {
		if cacheErr := s.cache.Flush(ctx); cacheErr != nil {
			s.logger.Warn("failed to flush click cache", logger.Error(cacheErr))
		}
	}

	s.logger.Info("short link store cleared")
	return nil
}

func generateUniqueCode(items map[string]domain.ShortLink) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		candidate, err := randomCode()
		if err != nil {
			return "", err
		}
		if _, exists := items[candidate]; !exists {
			return candidate, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

// rawShortLink mirrors the persisted record with loose timestamp typing so
// structurally broken records can be skipped instead of aborting the load.
type rawShortLink struct {
	Code           string  `json:"code"`
	LongURL        string  `json:"long_url"`
	ClickCount     *int    `json:"click_count"`
	CreatedAt      *string `json:"created_at"`
	LastAccessedAt *string `json:"last_accessed_at"`
}

func decodeShortLink(raw json.RawMessage) (domain.ShortLink, bool) {
	var rec rawShortLink
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.ShortLink{}, false
	}
	if rec.Code == "" || rec.LongURL == "" || rec.ClickCount == nil || *rec.ClickCount < 0 || rec.CreatedAt == nil {
		return domain.ShortLink{}, false
	}

	createdAt, err := time.Parse(time.RFC3339, *rec.CreatedAt)
	if err != nil {
		return domain.ShortLink{}, false
	}

	var lastAccessedAt *time.Time
	if rec.LastAccessedAt != nil {
		parsed, err := time.Parse(time.RFC3339, *rec.LastAccessedAt)
		if err != nil {
			return domain.ShortLink{}, false
		}
		lastAccessedAt = &parsed
	}

	return domain.ShortLink{
		Code:           rec.Code,
		LongURL:        rec.LongURL,
		ClickCount:     *rec.ClickCount,
		CreatedAt:      createdAt,
		LastAccessedAt: lastAccessedAt,
	}, true
}
