// Package metrics implements lightweight usage telemetry: named counters
// persisted through the keyed store.
package metrics

import (
	"encoding/json"
	"sort"
	"time"

	"voxpage/internal/domain"
	"voxpage/internal/logger"
	"voxpage/internal/storage"
)

// Service owns the event metrics store.
type Service struct {
	store  *storage.Store[domain.EventMetric]
	logger logger.Logger
	now    func() time.Time
}

// NewService opens the backing file and loads existing metrics.
func NewService(path string, log logger.Logger) *Service {
	store, skipped := storage.Open(path, decodeMetric)
	if skipped > 0 {
		log.Warn("skipped malformed metric records on load",
			logger.Int("skipped", skipped),
			logger.String("file", path))
	}

	return &Service{
		store:  store,
		logger: log,
		now:    time.Now,
	}
}

// Track increments the counter for name, creating it on first use, and
// returns the updated metric.
func (s *Service) Track(name string) (domain.EventMetric, error) {
	var metric domain.EventMetric
	err := s.store.Update(func(items map[string]domain.EventMetric) error {
		current, ok := items[name]
		if !ok {
			current = domain.EventMetric{Name: name}
		}
		current.Count++
		tracked := s.now().UTC()
		current.LastTrackedAt = &tracked
		items[name] = current
		metric = current
		return nil
	})
	if err != nil {
		return domain.EventMetric{}, err
	}
	return metric, nil
}

// List returns metrics sorted by name. With a non-empty filter only
// matching names are returned.
func (s *Service) List(names []string) []domain.EventMetric {
	var filter map[string]struct{}
	if len(names) > 0 {
		filter = make(map[string]struct{}, len(names))
		for _, name := range names {
			filter[name] = struct{}{}
		}
	}

	var metrics []domain.EventMetric
	s.store.View(func(items map[string]domain.EventMetric) {
		metrics = make([]domain.EventMetric, 0, len(items))
		for _, metric := range items {
			if filter != nil {
				if _, ok := filter[metric.Name]; !ok {
					continue
				}
			}
			metrics = append(metrics, metric)
		}
	})

	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].Name < metrics[j].Name
	})
	return metrics
}

// rawMetric mirrors the persisted record with loose timestamp typing.
type rawMetric struct {
	Name          string  `json:"name"`
	Count         *int    `json:"count"`
	LastTrackedAt *string `json:"last_tracked_at"`
}

// decodeMetric skips records with missing or mistyped name/count. An
// unparsable last_tracked_at degrades to null rather than dropping the
// whole record.
func decodeMetric(raw json.RawMessage) (domain.EventMetric, bool) {
	var rec rawMetric
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.EventMetric{}, false
	}
	if rec.Name == "" || rec.Count == nil || *rec.Count < 0 {
		return domain.EventMetric{}, false
	}

	var lastTrackedAt *time.Time
	if rec.LastTrackedAt != nil {
		if parsed, err := time.Parse(time.RFC3339, *rec.LastTrackedAt); err == nil {
			lastTrackedAt = &parsed
		}
	}

	return domain.EventMetric{
		Name:          rec.Name,
		Count:         *rec.Count,
		LastTrackedAt: lastTrackedAt,
	}, true
}
