package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DeformRun is one recorded lattice operation.
type DeformRun struct {
	RunID          string
	Operation      string
	ScaleFactor    float64
	ShiftFactor    float64
	OffsetX        float64
	OffsetY        float64
	OffsetZ        float64
	ResetToUniform bool
	Lattices       int
	Failures       int
	CreatedAt      time.Time
}

// RunStore records the history of deform and reset operations.
type RunStore struct {
	db *sql.DB
}

// NewRunStore returns a store over an already-migrated database.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// Insert records run. A missing RunID is filled with a new UUID.
func (s *RunStore) Insert(run *DeformRun) error {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	reset := 0
	if run.ResetToUniform {
		reset = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO deform_runs (
			run_id, operation, scale_factor, shift_factor,
			offset_x, offset_y, offset_z, reset_uniform, lattices, failures
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Operation, run.ScaleFactor, run.ShiftFactor,
		run.OffsetX, run.OffsetY, run.OffsetZ, reset, run.Lattices, run.Failures,
	)
	if err != nil {
		return fmt.Errorf("insert deform run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *RunStore) Recent(limit int) ([]DeformRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT run_id, operation, scale_factor, shift_factor,
		       offset_x, offset_y, offset_z, reset_uniform, lattices, failures, created_at
		FROM deform_runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query deform runs: %w", err)
	}
	defer rows.Close()

	var out []DeformRun
	for rows.Next() {
		var r DeformRun
		var reset int
		var created string
		if err := rows.Scan(&r.RunID, &r.Operation, &r.ScaleFactor, &r.ShiftFactor,
			&r.OffsetX, &r.OffsetY, &r.OffsetZ, &reset, &r.Lattices, &r.Failures, &created); err != nil {
			return nil, fmt.Errorf("scan deform run: %w", err)
		}
		r.ResetToUniform = reset != 0
		r.CreatedAt = parseTimestamp(created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// parseTimestamp accepts both sqlite's CURRENT_TIMESTAMP text and the
// RFC3339 form the driver produces for typed columns.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
