/*
Package store persists saved plans and evaluation history in SQLite.

KEY TABLES:

	plans:        named plan parameters, upserted by id
	evaluations:  one row per evaluated plan with its headline outcome

Plan parameters are stored as JSON in params_json; money columns are
decimal strings so no precision is lost.

CONCURRENCY:

	Uses sync.RWMutex around every statement. SQLite is opened in WAL mode
	so readers do not block the single writer.

USAGE:

	st, err := store.New("./rplan.db")
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

Use ":memory:" for an in-memory database in tests.
*/
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a plan or evaluation id does not exist.
var ErrNotFound = errors.New("not found")

// DefaultListLimit caps ListEvaluations when no positive limit is given.
const DefaultListLimit = 50

// PlanRecord is a named, saved plan.
type PlanRecord struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Plan      domain.PlanParameters `json:"plan"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// EvaluationRecord is the headline outcome of one evaluation. PlanID is set
// when the evaluated plan was a saved one.
type EvaluationRecord struct {
	ID                    string                `json:"id"`
	PlanID                *string               `json:"planId,omitempty"`
	Plan                  domain.PlanParameters `json:"plan"`
	FundsLast             bool                  `json:"fundsLast"`
	FutureMonthlyExpenses decimal.Decimal       `json:"futureMonthlyExpenses"`
	FinalBalance          decimal.Decimal       `json:"finalBalance"`
	DepletionAge          *int                  `json:"depletionAge,omitempty"`
	CreatedAt             time.Time             `json:"createdAt"`
}

// Store implements plan and evaluation persistence using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		params_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_plans_name ON plans(name);

	CREATE TABLE IF NOT EXISTS evaluations (
		id TEXT PRIMARY KEY,
		plan_id TEXT REFERENCES plans(id) ON DELETE SET NULL,
		params_json TEXT NOT NULL,
		funds_last BOOLEAN NOT NULL,
		future_monthly_expenses TEXT NOT NULL,
		final_balance TEXT NOT NULL,
		depletion_age INTEGER,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_evaluations_created ON evaluations(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_evaluations_plan ON evaluations(plan_id) WHERE plan_id IS NOT NULL;
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PLANS
// =============================================================================

// SavePlan inserts or updates a plan. An empty ID is assigned a new UUID;
// the record is updated in place with its ID and timestamps.
func (s *Store) SavePlan(ctx context.Context, rec *PlanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	params, err := json.Marshal(rec.Plan)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	now := time.Now().UTC().Truncate(time.Second)

	query := `
		INSERT INTO plans (id, name, params_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			params_json = excluded.params_json,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, rec.ID, rec.Name, string(params),
		now.Format(time.RFC3339), now.Format(time.RFC3339)); err != nil {
		return err
	}

	var createdAt string
	if err := s.db.QueryRowContext(ctx, "SELECT created_at FROM plans WHERE id = ?", rec.ID).Scan(&createdAt); err != nil {
		return err
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt = now
	return nil
}

// GetPlan retrieves a plan by ID.
func (s *Store) GetPlan(ctx context.Context, id string) (*PlanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, params_json, created_at, updated_at FROM plans WHERE id = ?", id)
	rec, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListPlans returns all plans ordered by name.
func (s *Store) ListPlans(ctx context.Context) ([]PlanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, params_json, created_at, updated_at FROM plans ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []PlanRecord{}
	for rows.Next() {
		rec, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *rec)
	}
	return plans, rows.Err()
}

// DeletePlan removes a plan. Evaluations of it are kept with a null plan id.
func (s *Store) DeletePlan(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM plans WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	return nil
}

// =============================================================================
// EVALUATIONS
// =============================================================================

// RecordEvaluation stores the outcome of an evaluation. planID may be nil for
// ad-hoc plans.
func (s *Store) RecordEvaluation(ctx context.Context, planID *string, result *domain.SimulationResult) (*EvaluationRecord, error) {
	if result == nil {
		return nil, fmt.Errorf("cannot record a nil result")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	params, err := json.Marshal(result.Parameters)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}

	rec := &EvaluationRecord{
		ID:                    uuid.New().String(),
		PlanID:                planID,
		Plan:                  result.Parameters,
		FundsLast:             result.FundsLast,
		FutureMonthlyExpenses: result.FutureMonthlyExpenses,
		FinalBalance:          result.FinalBalance(),
		DepletionAge:          result.DepletionAge,
		CreatedAt:             time.Now().UTC().Truncate(time.Second),
	}

	var depletion sql.NullInt64
	if rec.DepletionAge != nil {
		depletion = sql.NullInt64{Int64: int64(*rec.DepletionAge), Valid: true}
	}
	var plan sql.NullString
	if planID != nil {
		plan = sql.NullString{String: *planID, Valid: true}
	}

	query := `
		INSERT INTO evaluations
		(id, plan_id, params_json, funds_last, future_monthly_expenses, final_balance, depletion_age, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		rec.ID, plan, string(params), rec.FundsLast,
		rec.FutureMonthlyExpenses.String(), rec.FinalBalance.String(),
		depletion, rec.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetEvaluation retrieves an evaluation by ID.
func (s *Store) GetEvaluation(ctx context.Context, id string) (*EvaluationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, plan_id, params_json, funds_last, future_monthly_expenses, final_balance, depletion_age, created_at
		FROM evaluations WHERE id = ?`, id)
	rec, err := scanEvaluation(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("evaluation %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListEvaluations returns the most recent evaluations, newest first.
func (s *Store) ListEvaluations(ctx context.Context, limit int) ([]EvaluationRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, plan_id, params_json, funds_last, future_monthly_expenses, final_balance, depletion_age, created_at
		FROM evaluations ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []EvaluationRecord{}
	for rows.Next() {
		rec, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// =============================================================================
// SCANNING
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanPlan(row scanner) (*PlanRecord, error) {
	var rec PlanRecord
	var params, createdAt, updatedAt string
	if err := row.Scan(&rec.ID, &rec.Name, &params, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(params), &rec.Plan); err != nil {
		return nil, fmt.Errorf("failed to decode plan %s: %w", rec.ID, err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &rec, nil
}

func scanEvaluation(row scanner) (*EvaluationRecord, error) {
	var rec EvaluationRecord
	var planID sql.NullString
	var depletion sql.NullInt64
	var params, expenses, balance, createdAt string
	if err := row.Scan(&rec.ID, &planID, &params, &rec.FundsLast, &expenses, &balance, &depletion, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(params), &rec.Plan); err != nil {
		return nil, fmt.Errorf("failed to decode evaluation %s: %w", rec.ID, err)
	}

	var err error
	if rec.FutureMonthlyExpenses, err = decimal.NewFromString(expenses); err != nil {
		return nil, fmt.Errorf("evaluation %s: %w", rec.ID, err)
	}
	if rec.FinalBalance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("evaluation %s: %w", rec.ID, err)
	}
	if planID.Valid {
		id := planID.String
		rec.PlanID = &id
	}
	if depletion.Valid {
		age := int(depletion.Int64)
		rec.DepletionAge = &age
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &rec, nil
}
