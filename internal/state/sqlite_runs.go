package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapsp/pkg/core"
)

const runColumns = `id, script, target, status, started_at, finished_at, sqlcode, sqlerrm, lines`

// StartRun records a new running run.
func (s *SQLiteStore) StartRun(ctx context.Context, script, target string) (*core.Run, error) {
	run := &core.Run{
		ID:        uuid.NewString(),
		Script:    script,
		Target:    target,
		Status:    core.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	s.logger.Debug("starting run", slog.String("id", run.ID), slog.String("script", script))

	_, err := s.exec(ctx,
		`INSERT INTO runs (id, script, target, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Script, run.Target, string(run.Status), run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// FinishRun records the outcome of a run.
func (s *SQLiteStore) FinishRun(ctx context.Context, id string, res core.RunResult) error {
	if res.Status == core.RunStatusRunning || res.Status == "" {
		return fmt.Errorf("invalid final status %q", res.Status)
	}

	result, err := s.exec(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, sqlcode = ?, sqlerrm = ?, lines = ? WHERE id = ?`,
		string(res.Status), time.Now().UTC(), res.SQLCode, res.SQLErrM, res.Lines, id,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*core.Run, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	run, err := scanRun(db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves the most recent runs, newest first. A limit of zero or
// less returns every run.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*core.Run, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*core.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*core.Run, error) {
	var (
		run      core.Run
		status   string
		finished sql.NullTime
	)
	err := row.Scan(&run.ID, &run.Script, &run.Target, &status, &run.StartedAt, &finished,
		&run.SQLCode, &run.SQLErrM, &run.Lines)
	if err != nil {
		return nil, err
	}
	run.Status = core.RunStatus(status)
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return &run, nil
}
