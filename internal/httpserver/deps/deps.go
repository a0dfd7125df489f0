package deps

import (
	"time"

	"voxpage/internal/jobs"
	"voxpage/internal/logger"
	"voxpage/internal/metrics"
	"voxpage/internal/shortener"
	"voxpage/internal/sources/events"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	Jobs    *jobs.Registry     // TTS job registry and worker pool
	Links   *shortener.Service // short link domain logic
	Metrics *metrics.Service   // event counters
	Events  *events.Catalog    // recognized event names

	BaseURL        string   // short URL base; empty = derive from request
	AllowedOrigins []string // CORS origins
}
