// Package rulestore persists fitted fairness rule sets in SQLite. Each fit
// is saved as a run keyed by a UUID, holding the solved operating point and
// one row per group rule. Thresholds are stored as round-trippable strings
// so the ±Inf anchor operations survive storage bit-for-bit.
package rulestore

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/parity-tools/fairadjust/internal/fairness"
)

// ErrRunNotFound is returned when loading a run ID absent from the store.
var ErrRunNotFound = errors.New("rulestore: run not found")

type Store struct {
	*sql.DB
}

// Run is the stored metadata for one fit.
type Run struct {
	ID            string
	Criterion     fairness.Criterion
	SelectionRate float64
	FPR           float64
	TPR           float64
	Notes         string
	CreatedAt     time.Time
}

// Open opens (creating if necessary) a rule store at path and applies any
// pending schema migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	log.Printf("opened rule store at %s", path)
	return s, nil
}

// SaveRun stores a solved operating point and its per-group rules under a
// fresh run ID, which it returns.
func (s *Store) SaveRun(sol fairness.Solution, rules map[string]fairness.GroupRule, notes string) (string, error) {
	id := uuid.NewString()

	tx, err := s.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, criterion, selection_rate, fpr, tpr, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, string(sol.Criterion), sol.SelectionRate, sol.FPR, sol.TPR, notes)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for name, r := range rules {
		_, err = tx.Exec(`
			INSERT INTO group_rules (
				run_id, group_name,
				x0, y0, op0_operator, op0_threshold,
				x1, y1, op1_operator, op1_threshold,
				p0, p1, p_ignore, prediction_constant
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, id, name,
			r.X0, r.Y0, r.Op0.Operator, fairness.FormatThreshold(r.Op0.Threshold),
			r.X1, r.Y1, r.Op1.Operator, fairness.FormatThreshold(r.Op1.Threshold),
			r.P0, r.P1, r.PIgnore, r.PredictionConstant)
		if err != nil {
			return "", fmt.Errorf("failed to insert rule for group %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// LoadRun retrieves a run and its rule mapping by ID.
func (s *Store) LoadRun(id string) (Run, map[string]fairness.GroupRule, error) {
	var run Run
	var criterion string
	err := s.QueryRow(`
		SELECT id, criterion, selection_rate, fpr, tpr, notes, created_at
		FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &criterion, &run.SelectionRate, &run.FPR, &run.TPR, &run.Notes, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, nil, fmt.Errorf("failed to load run: %w", err)
	}
	run.Criterion = fairness.Criterion(criterion)

	rows, err := s.Query(`
		SELECT group_name,
			x0, y0, op0_operator, op0_threshold,
			x1, y1, op1_operator, op1_threshold,
			p0, p1, p_ignore, prediction_constant
		FROM group_rules WHERE run_id = ? ORDER BY group_name
	`, id)
	if err != nil {
		return Run{}, nil, fmt.Errorf("failed to load rules: %w", err)
	}
	defer rows.Close()

	rules := make(map[string]fairness.GroupRule)
	for rows.Next() {
		var name, t0, t1 string
		var r fairness.GroupRule
		err = rows.Scan(&name,
			&r.X0, &r.Y0, &r.Op0.Operator, &t0,
			&r.X1, &r.Y1, &r.Op1.Operator, &t1,
			&r.P0, &r.P1, &r.PIgnore, &r.PredictionConstant)
		if err != nil {
			return Run{}, nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		if r.Op0.Threshold, err = fairness.ParseThreshold(t0); err != nil {
			return Run{}, nil, err
		}
		if r.Op1.Threshold, err = fairness.ParseThreshold(t1); err != nil {
			return Run{}, nil, err
		}
		rules[name] = r
	}
	if err := rows.Err(); err != nil {
		return Run{}, nil, err
	}
	return run, rules, nil
}

// ListRuns returns all stored runs, most recent first.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.Query(`
		SELECT id, criterion, selection_rate, fpr, tpr, notes, created_at
		FROM runs ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var criterion string
		if err := rows.Scan(&run.ID, &criterion, &run.SelectionRate, &run.FPR, &run.TPR, &run.Notes, &run.CreatedAt); err != nil {
			return nil, err
		}
		run.Criterion = fairness.Criterion(criterion)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
