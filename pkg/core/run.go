package core

import (
	"context"
	"time"
)

// RunStatus represents the status of a script run.
type RunStatus string

// Run status constants.
const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

// Run is one execution of a procedure script.
type Run struct {
	ID         string     `json:"id" yaml:"id"`
	Script     string     `json:"script" yaml:"script"`
	Target     string     `json:"target" yaml:"target"`
	Status     RunStatus  `json:"status" yaml:"status"`
	StartedAt  time.Time  `json:"started_at" yaml:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`

	// SQLCode and SQLErrM hold the condition that ended a failed run.
	SQLCode int    `json:"sqlcode" yaml:"sqlcode"`
	SQLErrM string `json:"sqlerrm,omitempty" yaml:"sqlerrm,omitempty"`

	// Lines is the number of lines the script wrote with put_line.
	Lines int `json:"lines" yaml:"lines"`
}

// RunResult is what a finished run reports back to the store.
type RunResult struct {
	Status  RunStatus
	SQLCode int
	SQLErrM string
	Lines   int
}

// RunStore records run history.
type RunStore interface {
	StartRun(ctx context.Context, script, target string) (*Run, error)
	FinishRun(ctx context.Context, id string, res RunResult) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	Close() error
}
