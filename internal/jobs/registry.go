// Package jobs implements the asynchronous text-to-speech job pipeline: an
// in-memory job table with a queued -> processing -> done|error state
// machine, executed on a bounded pool of workers.
package jobs

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"voxpage/internal/domain"
	"voxpage/internal/logger"
	"voxpage/internal/speech"
)

// DefaultWorkers is the minimum size of the synthesis worker pool.
const DefaultWorkers = 2

// Registry owns all TTS jobs for the process lifetime. Jobs are never
// evicted; history grows with submissions. All state transitions happen
// under the registry lock, synthesis itself does not.
type Registry struct {
	mu        sync.Mutex
	jobs      map[string]*domain.Job
	sem       chan struct{} // bounds concurrent synthesis
	provider  *speech.Provider
	outputDir string
	logger    logger.Logger
	now       func() time.Time
}

// NewRegistry creates a registry writing audio files into outputDir. The
// directory is created if missing. workers below DefaultWorkers is raised
// to DefaultWorkers.
func NewRegistry(provider *speech.Provider, outputDir string, workers int, log logger.Logger) (*Registry, error) {
	if workers < DefaultWorkers {
		workers = DefaultWorkers
	}
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create audio output dir: %w", err)
	}

	return &Registry{
		jobs:      make(map[string]*domain.Job),
		sem:       make(chan struct{}, workers),
		provider:  provider,
		outputDir: outputDir,
		logger:    log,
		now:       time.Now,
	}, nil
}

// Submit registers a new job in queued state and schedules it for
// synthesis. It returns immediately with a snapshot of the created job;
// the caller is responsible for having validated the markdown.
func (r *Registry) Submit(markdown string) domain.Job {
	now := r.now().UTC()
	job := &domain.Job{
		ID:        newJobID(),
		Status:    domain.JobQueued,
		Markdown:  markdown,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	r.jobs[job.ID] = job
	snapshot := *job
	r.mu.Unlock()

	go r.run(job.ID)

	r.logger.Info("tts job submitted",
		logger.String("job_id", job.ID),
		logger.Int("markdown_bytes", len(markdown)))
	return snapshot
}

// Get returns a snapshot of the job, if known.
func (r *Registry) Get(id string) (domain.Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return domain.Job{}, false
	}
	return *job, true
}

// AudioPath returns the synthesized audio file path for a finished job.
// It returns ok=false unless the job exists, is done and recorded a file.
func (r *Registry) AudioPath(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Status != domain.JobDone || job.AudioFile == "" {
		return "", false
	}
	return filepath.Join(r.outputDir, job.AudioFile), true
}

// run executes one job on the worker pool. The semaphore gives bounded
// concurrency with an unbounded wait queue, matching submit-and-return
// semantics: excess jobs stay queued until a slot frees up.
func (r *Registry) run(id string) {
	r.sem <- struct{}{}
	defer func() { <-r.sem }()

	r.setState(id, domain.JobProcessing, "", "")

	engine, err := r.provider.Get()
	if err != nil {
		r.failJob(id, err)
		return
	}

	r.mu.Lock()
	job, ok := r.jobs[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	text := speech.ExtractSpeakableText(job.Markdown)
	outputName := id + ".wav"
	outputPath := filepath.Join(r.outputDir, outputName)
	r.mu.Unlock()

	// No cancellation or timeout: jobs run to completion or fail from the
	// engine itself.
	if err := engine.Synthesize(context.Background(), text, outputPath); err != nil {
		r.failJob(id, err)
		return
	}

	r.setState(id, domain.JobDone, "", outputName)
	r.logger.Info("tts job completed",
		logger.String("job_id", id),
		logger.String("audio_file", outputName))
}

func (r *Registry) failJob(id string, err error) {
	r.setState(id, domain.JobError, fmt.Sprintf("TTS generation failed: %v", err), "")
	r.logger.Error("tts job failed",
		logger.String("job_id", id),
		logger.Error(err))
}

func (r *Registry) setState(id string, status domain.JobStatus, errMsg, audioFile string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return
	}
	job.Status = status
	job.Error = errMsg
	if audioFile != "" {
		job.AudioFile = audioFile
	}
	job.UpdatedAt = r.now().UTC()
}

// newJobID returns a 32-character hex id.
func newJobID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}
