/*
Package sqlite provides the SQLite-backed persistence collaborator.

PURPOSE:
  Implements the snapshot.Provider contract (full-set fetches of cases
  and adjustments) plus the write paths the application needs:
  adjustment lifecycle, saved view presets, and scenario seeding. In
  production, the same patterns apply to any database/sql driver - only
  SQL dialect differences.

KEY TABLES:
  cases:       Case records, stored exactly as sourced. Amount and date
               columns are TEXT on purpose: the data is spreadsheet
               heritage and consumers re-parse on every read.
  adjustments: Manual billing corrections, keyed by (year, month, type).
  views:       Saved custom view presets (name + column key list JSON).

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. With a server database the
  engine's own concurrency control takes over.

WAL MODE:
  SQLite is opened with WAL for better read concurrency and crash
  recovery.

USAGE:
  store, err := sqlite.New("./data/caseflow.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  cache := snapshot.NewCache(store, time.Minute)

SEE ALSO:
  - snapshot/: The Provider interface and cache in front of this store
  - api/: Handlers invalidating the cache on every write here
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/caseflow/cases"
)

// Store implements persistence over SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a store at the given database path. Use ":memory:" for
// an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
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

// migrate creates the schema.
func (s *Store) migrate() error {
	schema := `
	-- Case records, fields kept raw
	CREATE TABLE IF NOT EXISTS cases (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL DEFAULT '',
		client TEXT NOT NULL DEFAULT '',
		requestor TEXT NOT NULL DEFAULT '',
		scope TEXT NOT NULL DEFAULT '',
		date_received TEXT NOT NULL DEFAULT '',
		promised_date TEXT NOT NULL DEFAULT '',
		delivered_date TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL DEFAULT '',
		team TEXT NOT NULL DEFAULT '',
		region TEXT NOT NULL DEFAULT '',
		office TEXT NOT NULL DEFAULT '',
		industry TEXT NOT NULL DEFAULT '',
		billing_type TEXT NOT NULL DEFAULT '',
		amount TEXT NOT NULL DEFAULT '',
		addon_amount TEXT NOT NULL DEFAULT '',
		addon_only TEXT NOT NULL DEFAULT '',
		addon_components TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_cases_date_received ON cases(date_received);
	CREATE INDEX IF NOT EXISTS idx_cases_region_office ON cases(region, office);

	-- Manual billing adjustments
	CREATE TABLE IF NOT EXISTS adjustments (
		id TEXT PRIMARY KEY,
		month INTEGER NOT NULL,
		year INTEGER NOT NULL,
		billing_type TEXT NOT NULL,
		amount TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_adjustments_bucket ON adjustments(year, month, billing_type);

	-- Saved custom view presets
	CREATE TABLE IF NOT EXISTS views (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		columns_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// =============================================================================
// SNAPSHOT PROVIDER (snapshot.Provider interface)
// =============================================================================

// FetchCases returns the full current case snapshot.
func (s *Store) FetchCases(ctx context.Context) ([]cases.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, code, client, requestor, scope,
		       date_received, promised_date, delivered_date,
		       status, priority, team, region, office, industry,
		       billing_type, amount, addon_amount, addon_only, addon_components
		FROM cases
		ORDER BY date_received ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cases: %w", err)
	}
	defer rows.Close()

	var out []cases.Record
	for rows.Next() {
		var r cases.Record
		if err := rows.Scan(
			&r.ID, &r.Code, &r.Client, &r.Requestor, &r.Scope,
			&r.DateReceived, &r.PromisedDate, &r.DeliveredDate,
			&r.Status, &r.Priority, &r.Team, &r.Region, &r.Office, &r.Industry,
			&r.BillingType, &r.Amount, &r.AddOnAmount, &r.AddOnOnly, &r.AddOnComponents,
		); err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FetchAdjustments returns all billing adjustments.
func (s *Store) FetchAdjustments(ctx context.Context) ([]cases.Adjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, month, year, billing_type, amount, reason, created_at
		FROM adjustments
		ORDER BY year ASC, month ASC, created_at ASC
	`
	return s.queryAdjustments(ctx, query)
}

// =============================================================================
// CASE WRITES (scenario seeding)
// =============================================================================

// SaveCase upserts one case record.
func (s *Store) SaveCase(ctx context.Context, r cases.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveCase(ctx, s.db, r)
}

// SaveCases upserts a batch atomically.
func (s *Store) SaveCases(ctx context.Context, records []cases.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, r := range records {
		if err := s.saveCase(ctx, tx, r); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) saveCase(ctx context.Context, db interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, r cases.Record) error {
	query := `
		INSERT INTO cases
		(id, code, client, requestor, scope,
		 date_received, promised_date, delivered_date,
		 status, priority, team, region, office, industry,
		 billing_type, amount, addon_amount, addon_only, addon_components, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			code=excluded.code, client=excluded.client, requestor=excluded.requestor,
			scope=excluded.scope, date_received=excluded.date_received,
			promised_date=excluded.promised_date, delivered_date=excluded.delivered_date,
			status=excluded.status, priority=excluded.priority, team=excluded.team,
			region=excluded.region, office=excluded.office, industry=excluded.industry,
			billing_type=excluded.billing_type, amount=excluded.amount,
			addon_amount=excluded.addon_amount, addon_only=excluded.addon_only,
			addon_components=excluded.addon_components
	`
	_, err := db.ExecContext(ctx, query,
		r.ID, r.Code, r.Client, r.Requestor, r.Scope,
		r.DateReceived, r.PromisedDate, r.DeliveredDate,
		r.Status, r.Priority, r.Team, r.Region, r.Office, r.Industry,
		r.BillingType, r.Amount, r.AddOnAmount, r.AddOnOnly, r.AddOnComponents,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save case: %w", err)
	}
	return nil
}

// =============================================================================
// ADJUSTMENT LIFECYCLE
// =============================================================================

// SaveAdjustment upserts one adjustment.
func (s *Store) SaveAdjustment(ctx context.Context, a cases.Adjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	query := `
		INSERT INTO adjustments (id, month, year, billing_type, amount, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			month=excluded.month, year=excluded.year,
			billing_type=excluded.billing_type, amount=excluded.amount,
			reason=excluded.reason
	`
	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.Month, a.Year, a.BillingType, a.Amount.String(), a.Reason,
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save adjustment: %w", err)
	}
	return nil
}

// GetAdjustment returns one adjustment, or nil when missing.
func (s *Store) GetAdjustment(ctx context.Context, id string) (*cases.Adjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, month, year, billing_type, amount, reason, created_at
		FROM adjustments WHERE id = ?
	`
	adjs, err := s.queryAdjustments(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if len(adjs) == 0 {
		return nil, nil
	}
	return &adjs[0], nil
}

// DeleteAdjustment removes one adjustment. Returns whether it existed.
func (s *Store) DeleteAdjustment(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM adjustments WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete adjustment: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) queryAdjustments(ctx context.Context, query string, args ...any) ([]cases.Adjustment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query adjustments: %w", err)
	}
	defer rows.Close()

	var out []cases.Adjustment
	for rows.Next() {
		var (
			a         cases.Adjustment
			amount    string
			createdAt string
		)
		if err := rows.Scan(&a.ID, &a.Month, &a.Year, &a.BillingType, &amount, &a.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan adjustment: %w", err)
		}
		// Amounts are written by us, but parse defensively anyway.
		d, err := decimal.NewFromString(amount)
		if err != nil {
			d = decimal.Zero
		}
		a.Amount = d
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			a.CreatedAt = t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// =============================================================================
// VIEW PRESETS
// =============================================================================

// ViewRecord is a stored custom view preset. ColumnsJSON is the raw
// column key list; parsing and validation live in the factory package.
type ViewRecord struct {
	ID          string
	Name        string
	ColumnsJSON string
	CreatedAt   time.Time
}

// SaveView upserts a view preset.
func (s *Store) SaveView(ctx context.Context, v ViewRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := v.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	query := `
		INSERT INTO views (id, name, columns_json, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, columns_json=excluded.columns_json
	`
	_, err := s.db.ExecContext(ctx, query, v.ID, v.Name, v.ColumnsJSON, createdAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save view: %w", err)
	}
	return nil
}

// GetView returns one view preset, or nil when missing.
func (s *Store) GetView(ctx context.Context, id string) (*ViewRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, columns_json, created_at FROM views WHERE id = ?`, id)

	var (
		v         ViewRecord
		createdAt string
	)
	if err := row.Scan(&v.ID, &v.Name, &v.ColumnsJSON, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get view: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		v.CreatedAt = t
	}
	return &v, nil
}

// ListViews returns all view presets ordered by name.
func (s *Store) ListViews(ctx context.Context) ([]ViewRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, columns_json, created_at FROM views ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	defer rows.Close()

	var out []ViewRecord
	for rows.Next() {
		var (
			v         ViewRecord
			createdAt string
		)
		if err := rows.Scan(&v.ID, &v.Name, &v.ColumnsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan view: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			v.CreatedAt = t
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// DeleteView removes a view preset. Returns whether it existed.
func (s *Store) DeleteView(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM views WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete view: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// =============================================================================
// RESET (demo scenarios)
// =============================================================================

// Reset wipes all data. Used by scenario loading in development.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"cases", "adjustments", "views"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}
