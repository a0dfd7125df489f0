// Package scheduler runs the periodic background maintenance loops.
package scheduler

import (
	"context"
	"time"

	"voxpage/internal/logger"
	"voxpage/internal/shortener"
	redisstore "voxpage/internal/store/redis"
)

// DefaultMirrorInterval is how often click counters are reconciled into
// Redis when no interval is configured.
const DefaultMirrorInterval = time.Minute

// ClickMirror periodically copies authoritative click counters from the
// short-link store into the Redis telemetry hash. Per-click increments are
// best effort, so the mirror reconciles drift from missed increments.
type ClickMirror struct {
	links    *shortener.Service
	cache    *redisstore.Cache
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewClickMirror creates a mirror loop.
func NewClickMirror(
	links *shortener.Service,
	cache *redisstore.Cache,
	log logger.Logger,
	interval time.Duration,
) *ClickMirror {
	if interval <= 0 {
		interval = DefaultMirrorInterval
	}

	return &ClickMirror{
		links:    links,
		cache:    cache,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs one mirror pass immediately, then keeps mirroring on the
// configured interval until Stop or context cancellation.
func (m *ClickMirror) Start(ctx context.Context) error {
	if err := m.Mirror(ctx); err != nil {
		m.logger.Warn("initial click mirror failed", logger.Error(err))
	}

	ticker := time.NewTicker(m.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := m.Mirror(ctx); err != nil {
					m.logger.Error("click mirror failed", logger.Error(err))
				}
			case <-m.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the mirror loop.
func (m *ClickMirror) Stop() {
	close(m.stopCh)
}

// Mirror writes the current click counter of every link into Redis.
func (m *ClickMirror) Mirror(ctx context.Context) error {
	links := m.links.Snapshot()

	mirrored := 0
	for _, link := range links {
		if err := m.cache.SetClickCount(ctx, link.Code, link.ClickCount); err != nil {
			return err
		}
		mirrored++
	}

	if mirrored > 0 {
		m.logger.Debug("mirrored click counters", logger.Int("links", mirrored))
	}
	return nil
}
