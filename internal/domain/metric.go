package domain

import "time"

// EventMetric is a per-name usage counter.
type EventMetric struct {
	Name          string     `json:"name"`
	Count         int        `json:"count"`
	LastTrackedAt *time.Time `json:"last_tracked_at"`
}

// Key returns the store key for the record.
func (m EventMetric) Key() string { return m.Name }
