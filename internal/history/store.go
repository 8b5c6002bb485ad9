// Package history records validation runs in a local SQLite database so they
// can be listed, inspected and audited later.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/mvp/internal/models"
)

// ErrNotFound is returned when no run matches an id.
var ErrNotFound = errors.New("validation run not found")

// Run is the summary row of a recorded validation.
type Run struct {
	ID           string
	Project      string
	Tier         models.TierID
	ChoiceFile   string
	ComputedAt   time.Time
	OverallScore int
	GateStatus   models.GateStatus
}

// ListFilter narrows List. Zero fields match everything.
type ListFilter struct {
	Project string
	Tier    models.TierID
	Gate    models.GateStatus
	Limit   int
}

// OptionCount is how many recorded runs selected an option.
type OptionCount struct {
	DecisionID string
	OptionID   string
	Runs       int
}

// Store manages the history database
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens or creates the database at dbPath and applies migrations.
// ":memory:" opens a private in-memory database.
func NewStore(dbPath string) (*Store, error) {
	memory := dbPath == ":memory:"
	if !memory {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if memory {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set journal mode: %w", err)
		}
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database path the store was opened with.
func (s *Store) Path() string {
	return s.dbPath
}

// Record stores result. Derived deviations are not persisted.
func (s *Store) Record(ctx context.Context, result *models.ValidationResult, choiceFile string) error {
	if result == nil || result.ID == "" {
		return fmt.Errorf("record run: result has no id")
	}

	stored := *result
	stored.Deviations = nil
	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO validation_runs
		(id, project, tier, choice_file, computed_at, overall_score, gate_status, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.Project, string(result.Tier), choiceFile, result.ComputedAt.UTC(),
		result.OverallScore, string(result.GateStatus), string(data))
	if err != nil {
		return fmt.Errorf("insert run %s: %w", result.ID, err)
	}

	for i, c := range result.Choices {
		_, err := tx.ExecContext(ctx, `INSERT INTO run_choices (run_id, position, decision_id, option_id) VALUES (?, ?, ?, ?)`,
			result.ID, i, c.DecisionID, c.SelectedOptionID)
		if err != nil {
			return fmt.Errorf("insert choice %d of run %s: %w", i, result.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", result.ID, err)
	}
	return nil
}

// List returns run summaries, newest first.
func (s *Store) List(ctx context.Context, f ListFilter) ([]Run, error) {
	query := `SELECT id, project, tier, choice_file, computed_at, overall_score, gate_status FROM validation_runs`
	var where []string
	var args []interface{}
	if f.Project != "" {
		where = append(where, "project = ?")
		args = append(args, f.Project)
	}
	if f.Tier != "" {
		where = append(where, "tier = ?")
		args = append(args, string(f.Tier))
	}
	if f.Gate != "" {
		where = append(where, "gate_status = ?")
		args = append(args, string(f.Gate))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY computed_at DESC, id ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var tier, gate string
		if err := rows.Scan(&r.ID, &r.Project, &tier, &r.ChoiceFile, &r.ComputedAt, &r.OverallScore, &gate); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Tier = models.TierID(tier)
		r.GateStatus = models.GateStatus(gate)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Get loads the stored result whose id equals or starts with idPrefix.
// A prefix matching several runs is an error.
func (s *Store) Get(ctx context.Context, idPrefix string) (*models.ValidationResult, error) {
	if idPrefix == "" {
		return nil, ErrNotFound
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, result_json FROM validation_runs WHERE substr(id, 1, length(?)) = ? LIMIT 2`,
		idPrefix, idPrefix)
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", idPrefix, err)
	}
	defer rows.Close()

	var ids []string
	var payload string
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		ids = append(ids, id)
		payload = data
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	switch len(ids) {
	case 0:
		return nil, fmt.Errorf("%s: %w", idPrefix, ErrNotFound)
	case 1:
	default:
		return nil, fmt.Errorf("id prefix %s is ambiguous", idPrefix)
	}

	var result models.ValidationResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", ids[0], err)
	}
	return &result, nil
}

// Prune deletes runs computed more than keepDays before now. Zero or a
// negative keepDays keeps everything.
func (s *Store) Prune(ctx context.Context, keepDays int, now time.Time) (int64, error) {
	if keepDays <= 0 {
		return 0, nil
	}
	cutoff := now.UTC().AddDate(0, 0, -keepDays)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM run_choices WHERE run_id IN (SELECT id FROM validation_runs WHERE computed_at < ?)`, cutoff); err != nil {
		return 0, fmt.Errorf("prune run choices: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM validation_runs WHERE computed_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}
	return deleted, nil
}

// OptionCounts tallies recorded selections per decision option, optionally
// restricted to one tier, most popular first.
func (s *Store) OptionCounts(ctx context.Context, tier models.TierID) ([]OptionCount, error) {
	query := `SELECT c.decision_id, c.option_id, COUNT(*) AS runs
		FROM run_choices c JOIN validation_runs r ON r.id = c.run_id`
	var args []interface{}
	if tier != "" {
		query += " WHERE r.tier = ?"
		args = append(args, string(tier))
	}
	query += " GROUP BY c.decision_id, c.option_id ORDER BY runs DESC, c.decision_id, c.option_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query option counts: %w", err)
	}
	defer rows.Close()

	var out []OptionCount
	for rows.Next() {
		var oc OptionCount
		if err := rows.Scan(&oc.DecisionID, &oc.OptionID, &oc.Runs); err != nil {
			return nil, fmt.Errorf("scan option count: %w", err)
		}
		out = append(out, oc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate option counts: %w", err)
	}
	return out, nil
}
