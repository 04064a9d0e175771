// Package registry persists pipeline runs, their steps, uploaded artifacts,
// and published releases.
package registry

import "database/sql"

// Trigger identifies what started a pipeline run.
type Trigger string

const (
	TriggerPush     Trigger = "push"
	TriggerDispatch Trigger = "dispatch"
)

// Run statuses. A run is terminal once it is succeeded or failed.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Step statuses as recorded per pipeline step.
const (
	StepSucceeded = "succeeded"
	StepFailed    = "failed"
	StepSkipped   = "skipped"
)

// Run represents one pipeline execution.
type Run struct {
	ID         string
	Pipeline   string
	Trigger    Trigger
	Ref        string
	Status     string
	Error      sql.NullString
	StartedAt  string
	FinishedAt sql.NullString
	Steps      []StepRecord
}

// StepRecord is one executed (or skipped) step within a run.
type StepRecord struct {
	ID         int64
	RunID      string
	Position   int
	Name       string
	Status     string
	Detail     sql.NullString
	StartedAt  sql.NullString
	FinishedAt sql.NullString
}

// Artifact is a stored build output associated with a run.
type Artifact struct {
	ID        int64
	RunID     string
	Name      string
	Path      string
	SHA256    string
	SizeBytes int64
	CreatedAt string
}

// Release is a published, persistent bundle keyed by tag.
type Release struct {
	ID        int64
	Tag       string
	RunID     string
	Path      string
	CreatedAt string
	UpdatedAt sql.NullString
}
