package domain

import "time"

// JobStatus is the lifecycle state of a TTS job.
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobDone       JobStatus = "done"
	JobError      JobStatus = "error"
)

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobDone || s == JobError
}

// Job is one markdown-to-speech conversion request. Jobs live only in
// memory, owned by the job registry; they are never persisted or evicted.
type Job struct {
	ID        string
	Status    JobStatus
	Markdown  string
	Error     string
	AudioFile string // file name inside the audio output dir, set when done
	CreatedAt time.Time
	UpdatedAt time.Time
}
