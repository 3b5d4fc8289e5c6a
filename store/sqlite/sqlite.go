/*
Package sqlite provides SQLite-backed persistence for the pacing app layer.

PURPOSE:
  Stores the data the surrounding application needs - agents, per-year
  plan configs, the daily activity log, and the holiday list. The engine
  packages (calendar, pacing) never see this package; they consume plain
  values the handlers assemble from it.

KEY TABLES:
  agents:            Agent records with start dates
  plans:             One business-plan config (JSON) per agent per year
  activity_entries:  One row per agent per day with the six stage counts
                     plus net income earned; upserted on re-submission
  holidays:          Brokerage holiday dates

AGGREGATION:
  ActivityTotals sums a date range in SQL and returns pacing.YtdActuals
  directly. This is the only place counts are aggregated, so the engine
  always receives a single consistent snapshot.

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers
  don't block and a single writer proceeds at a time.

USAGE:
  store, err := sqlite.New("./data/pacing.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - api/handlers.go: Composes store reads with the pacing engine
  - factory/plan.go: Parses the stored plan JSON
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/pacing-engine/pacing"
)

// Store implements persistence for agents, plans, activity, and holidays.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
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

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Agents
	CREATE TABLE IF NOT EXISTS agents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		start_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Business plans (one per agent per year, config stored as JSON)
	CREATE TABLE IF NOT EXISTS plans (
		agent_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		config_json TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (agent_id, year),
		FOREIGN KEY (agent_id) REFERENCES agents(id) ON DELETE CASCADE
	);

	-- Daily activity log (one row per agent per day, upserted)
	CREATE TABLE IF NOT EXISTS activity_entries (
		id TEXT NOT NULL,
		agent_id TEXT NOT NULL,
		entry_date TEXT NOT NULL,
		calls INTEGER NOT NULL DEFAULT 0,
		engagements INTEGER NOT NULL DEFAULT 0,
		appointments_set INTEGER NOT NULL DEFAULT 0,
		appointments_held INTEGER NOT NULL DEFAULT 0,
		contracts_written INTEGER NOT NULL DEFAULT 0,
		closings INTEGER NOT NULL DEFAULT 0,
		net_earned TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL,
		PRIMARY KEY (agent_id, entry_date),
		FOREIGN KEY (agent_id) REFERENCES agents(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_activity_agent_date
		ON activity_entries(agent_id, entry_date);

	-- Brokerage holidays
	CREATE TABLE IF NOT EXISTS holidays (
		holiday_date TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// AGENTS
// =============================================================================

// Agent is a stored agent record.
type Agent struct {
	ID        string
	Name      string
	Email     string
	StartDate time.Time
	CreatedAt time.Time
}

// SaveAgent inserts or updates an agent.
func (s *Store) SaveAgent(ctx context.Context, a Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO agents (id, name, email, start_date, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			start_date = excluded.start_date`,
		a.ID, a.Name, a.Email,
		a.StartDate.Format("2006-01-02"),
		a.CreatedAt.Format(time.RFC3339),
	)
	return err
}

// GetAgent returns an agent by ID, or nil if not found.
func (s *Store) GetAgent(ctx context.Context, id string) (*Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, start_date, created_at
		FROM agents WHERE id = ?`, id)

	agent, err := scanAgent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return agent, nil
}

// ListAgents returns all agents ordered by name.
func (s *Store) ListAgents(ctx context.Context) ([]Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, start_date, created_at
		FROM agents ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, *agent)
	}
	return agents, rows.Err()
}

// DeleteAgent removes an agent and (via cascade) its plans and activity.
func (s *Store) DeleteAgent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM agents WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgent(row rowScanner) (*Agent, error) {
	var a Agent
	var startDate, createdAt string
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &startDate, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if a.StartDate, err = time.Parse("2006-01-02", startDate); err != nil {
		return nil, fmt.Errorf("corrupt start_date %q: %w", startDate, err)
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &a, nil
}

// =============================================================================
// PLANS
// =============================================================================

// PlanRecord stores one plan config per agent per year. The config JSON
// is parsed by the factory package.
type PlanRecord struct {
	AgentID    string
	Year       int
	ConfigJSON string
	UpdatedAt  time.Time
}

// SavePlan inserts or replaces an agent's plan for a year.
func (s *Store) SavePlan(ctx context.Context, p PlanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plans (agent_id, year, config_json, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(agent_id, year) DO UPDATE SET
			config_json = excluded.config_json,
			updated_at = excluded.updated_at`,
		p.AgentID, p.Year, p.ConfigJSON, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetPlan returns an agent's plan for a year, or nil if none is stored.
func (s *Store) GetPlan(ctx context.Context, agentID string, year int) (*PlanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p PlanRecord
	var updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT agent_id, year, config_json, updated_at
		FROM plans WHERE agent_id = ? AND year = ?`,
		agentID, year,
	).Scan(&p.AgentID, &p.Year, &p.ConfigJSON, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}

// =============================================================================
// ACTIVITY LOG
// =============================================================================

// ActivityEntry is one agent-day of logged activity.
type ActivityEntry struct {
	ID               string
	AgentID          string
	EntryDate        time.Time
	Calls            int64
	Engagements      int64
	AppointmentsSet  int64
	AppointmentsHeld int64
	ContractsWritten int64
	Closings         int64
	NetEarned        string // decimal string, single currency
	CreatedAt        time.Time
}

// LogActivity upserts one day of activity. Re-submitting a day replaces
// that day's counts; the log is a per-day snapshot, not an append ledger.
func (s *Store) LogActivity(ctx context.Context, e ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.NetEarned == "" {
		e.NetEarned = "0"
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_entries
			(id, agent_id, entry_date, calls, engagements, appointments_set,
			 appointments_held, contracts_written, closings, net_earned, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(agent_id, entry_date) DO UPDATE SET
			calls = excluded.calls,
			engagements = excluded.engagements,
			appointments_set = excluded.appointments_set,
			appointments_held = excluded.appointments_held,
			contracts_written = excluded.contracts_written,
			closings = excluded.closings,
			net_earned = excluded.net_earned`,
		e.ID, e.AgentID, e.EntryDate.Format("2006-01-02"),
		e.Calls, e.Engagements, e.AppointmentsSet, e.AppointmentsHeld,
		e.ContractsWritten, e.Closings, e.NetEarned,
		e.CreatedAt.Format(time.RFC3339),
	)
	return err
}

// ListActivity returns an agent's entries in [from, to], oldest first.
func (s *Store) ListActivity(ctx context.Context, agentID string, from, to time.Time) ([]ActivityEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, agent_id, entry_date, calls, engagements, appointments_set,
		       appointments_held, contracts_written, closings, net_earned, created_at
		FROM activity_entries
		WHERE agent_id = ? AND entry_date >= ? AND entry_date <= ?
		ORDER BY entry_date`,
		agentID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []ActivityEntry
	for rows.Next() {
		var e ActivityEntry
		var entryDate, createdAt string
		if err := rows.Scan(&e.ID, &e.AgentID, &entryDate, &e.Calls, &e.Engagements,
			&e.AppointmentsSet, &e.AppointmentsHeld, &e.ContractsWritten,
			&e.Closings, &e.NetEarned, &createdAt); err != nil {
			return nil, err
		}
		if e.EntryDate, err = time.Parse("2006-01-02", entryDate); err != nil {
			return nil, fmt.Errorf("corrupt entry_date %q: %w", entryDate, err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ActivityTotals aggregates an agent's counts and earnings over [from, to]
// into the snapshot the pacing engine consumes.
func (s *Store) ActivityTotals(ctx context.Context, agentID string, from, to time.Time) (pacing.YtdActuals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ytd pacing.YtdActuals
	var netEarned sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(calls), 0),
			COALESCE(SUM(engagements), 0),
			COALESCE(SUM(appointments_set), 0),
			COALESCE(SUM(appointments_held), 0),
			COALESCE(SUM(contracts_written), 0),
			COALESCE(SUM(closings), 0),
			CAST(COALESCE(SUM(CAST(net_earned AS REAL)), 0) AS TEXT)
		FROM activity_entries
		WHERE agent_id = ? AND entry_date >= ? AND entry_date <= ?`,
		agentID, from.Format("2006-01-02"), to.Format("2006-01-02"),
	).Scan(&ytd.Calls, &ytd.Engagements, &ytd.AppointmentsSet,
		&ytd.AppointmentsHeld, &ytd.ContractsWritten, &ytd.Closings, &netEarned)
	if err != nil {
		return pacing.YtdActuals{}, err
	}

	if netEarned.Valid {
		earned, err := pacing.ParseMoney(netEarned.String)
		if err != nil {
			return pacing.YtdActuals{}, fmt.Errorf("corrupt net_earned sum %q: %w", netEarned.String, err)
		}
		ytd.NetEarned = earned
	}
	return ytd, nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// Holiday is a stored brokerage holiday.
type Holiday struct {
	Date time.Time
	Name string
}

// SaveHoliday inserts or renames a holiday date.
func (s *Store) SaveHoliday(ctx context.Context, h Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (holiday_date, name) VALUES (?, ?)
		ON CONFLICT(holiday_date) DO UPDATE SET name = excluded.name`,
		h.Date.Format("2006-01-02"), h.Name)
	return err
}

// DeleteHoliday removes a holiday by date.
func (s *Store) DeleteHoliday(ctx context.Context, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM holidays WHERE holiday_date = ?`,
		date.Format("2006-01-02"))
	return err
}

// ListHolidays returns all holidays ordered by date.
func (s *Store) ListHolidays(ctx context.Context) ([]Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT holiday_date, name FROM holidays ORDER BY holiday_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []Holiday
	for rows.Next() {
		var h Holiday
		var date string
		if err := rows.Scan(&date, &h.Name); err != nil {
			return nil, err
		}
		if h.Date, err = time.Parse("2006-01-02", date); err != nil {
			return nil, fmt.Errorf("corrupt holiday_date %q: %w", date, err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// HolidayDates returns all holiday dates as ISO strings, ready for
// calendar.NewHolidaySet.
func (s *Store) HolidayDates(ctx context.Context) ([]string, error) {
	holidays, err := s.ListHolidays(ctx)
	if err != nil {
		return nil, err
	}
	dates := make([]string, len(holidays))
	for i, h := range holidays {
		dates[i] = h.Date.Format("2006-01-02")
	}
	return dates, nil
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset clears all data. Development and demo use only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		DELETE FROM activity_entries;
		DELETE FROM plans;
		DELETE FROM agents;
		DELETE FROM holidays;`)
	return err
}
