/*
Package sqlite persists team member records and existing-allocation
rows behind the team.Manager interface.

PURPOSE:
  The planning engine itself holds no durable state: team members,
  their vacation days and the man-days they have already committed to
  other work live here. The same patterns apply to PostgreSQL - only
  minor SQL dialect differences.

KEY TABLES:
  team_members:         one row per member; vacation days stored as a
                        JSON object keyed by year
  existing_allocations: (member_id, month) -> committed man-days,
                        loaded into the calculator index at startup

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers do not
  block the single writer.

USAGE:
  store, err := sqlite.New("./data/planner.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  calc := calendar.NewCalculator()
  if err := store.SeedCalculator(ctx, calc); err != nil { ... }
  engine := plan.NewEngine(calc, store)

SEE ALSO:
  - team/types.go: the Manager interface this store implements
  - calendar/calculator.go: the index SeedCalculator fills
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pubule/capacity-planner/calendar"
	"github.com/pubule/capacity-planner/team"
)

// Store implements team.Manager plus allocation persistence on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and migrates) a SQLite store. Use ":memory:" for an
// in-memory database.
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

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS team_members (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		country TEXT NOT NULL,
		monthly_capacity INTEGER NOT NULL DEFAULT 0,
		vacation_days_json TEXT NOT NULL DEFAULT '{}'
	);

	CREATE TABLE IF NOT EXISTS existing_allocations (
		member_id TEXT NOT NULL,
		month TEXT NOT NULL,
		mds INTEGER NOT NULL,
		PRIMARY KEY (member_id, month),
		FOREIGN KEY (member_id) REFERENCES team_members(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_existing_allocations_member
		ON existing_allocations(member_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TEAM MEMBERS (team.Manager interface plus CRUD)
// =============================================================================

// SaveTeamMember inserts or replaces a member.
func (s *Store) SaveTeamMember(ctx context.Context, m *team.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	vacationJSON, err := json.Marshal(m.VacationDays)
	if err != nil {
		return fmt.Errorf("failed to encode vacation days: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO team_members (id, name, country, monthly_capacity, vacation_days_json)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			country = excluded.country,
			monthly_capacity = excluded.monthly_capacity,
			vacation_days_json = excluded.vacation_days_json
	`, m.ID, m.Name, string(m.Country), m.MonthlyCapacity, string(vacationJSON))
	if err != nil {
		return fmt.Errorf("failed to save team member: %w", err)
	}
	return nil
}

// GetTeamMember returns the member with the given ID, or (nil, nil)
// when absent.
func (s *Store) GetTeamMember(ctx context.Context, id string) (*team.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, country, monthly_capacity, vacation_days_json
		FROM team_members WHERE id = ?
	`, id)

	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

// ListTeamMembers returns all members ordered by name.
func (s *Store) ListTeamMembers(ctx context.Context) ([]*team.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, country, monthly_capacity, vacation_days_json
		FROM team_members ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	var members []*team.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// DeleteTeamMember removes a member and, via cascade, their
// existing-allocation rows.
func (s *Store) DeleteTeamMember(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM team_members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team member: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*team.Member, error) {
	var (
		m            team.Member
		country      string
		vacationJSON string
	)
	if err := row.Scan(&m.ID, &m.Name, &country, &m.MonthlyCapacity, &vacationJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan team member: %w", err)
	}
	m.Country = calendar.Country(country)
	if err := json.Unmarshal([]byte(vacationJSON), &m.VacationDays); err != nil {
		return nil, fmt.Errorf("failed to decode vacation days: %w", err)
	}
	return &m, nil
}

// =============================================================================
// EXISTING ALLOCATIONS
// =============================================================================

// AllocationRow is one persisted (member, month) commitment.
type AllocationRow struct {
	MemberID string
	Month    calendar.MonthKey
	MDs      int
}

// SaveExistingAllocation upserts the committed man-days for a member
// and month.
func (s *Store) SaveExistingAllocation(ctx context.Context, memberID string, month calendar.MonthKey, mds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO existing_allocations (member_id, month, mds)
		VALUES (?, ?, ?)
		ON CONFLICT(member_id, month) DO UPDATE SET mds = excluded.mds
	`, memberID, string(month), mds)
	if err != nil {
		return fmt.Errorf("failed to save existing allocation: %w", err)
	}
	return nil
}

// ListExistingAllocations returns every persisted allocation row.
func (s *Store) ListExistingAllocations(ctx context.Context) ([]AllocationRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT member_id, month, mds FROM existing_allocations
		ORDER BY member_id ASC, month ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing allocations: %w", err)
	}
	defer rows.Close()

	var out []AllocationRow
	for rows.Next() {
		var (
			r     AllocationRow
			month string
		)
		if err := rows.Scan(&r.MemberID, &month, &r.MDs); err != nil {
			return nil, fmt.Errorf("failed to scan existing allocation: %w", err)
		}
		r.Month = calendar.MonthKey(month)
		out = append(out, r)
	}
	return out, rows.Err()
}

// SeedCalculator loads every persisted allocation row into the
// calculator's index. Called once at startup.
func (s *Store) SeedCalculator(ctx context.Context, calc *calendar.Calculator) error {
	rows, err := s.ListExistingAllocations(ctx)
	if err != nil {
		return err
	}
	for _, r := range rows {
		calc.SetExistingAllocations(r.MemberID, r.Month, r.MDs)
	}
	return nil
}
